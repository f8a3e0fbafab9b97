package core

import "github.com/arcfile/realmdb/internal/utils"

// Link is a reference to a row in another table.
type Link struct {
	TargetTable uint32
	Row         uint64
}

// Backlink records that some row in an origin table's column points at the
// row this backlink belongs to.
type Backlink struct {
	OriginTable  uint32
	OriginColumn uint32
	RowNumbers   []uint64
}

// SubtableRef names the header and data roots of a nested table. The root
// package materializes it into a full Table recursively, avoiding an import
// cycle between this package and the domain layer that owns Table.
type SubtableRef struct {
	HeaderRef Ref
	DataRef   Ref
}

// leafGet walks root's B+Tree to the leaf node holding the logical index,
// then applies direct to decode the value in that leaf without
// constructing a persistent leaf object.
func leafGet(m *Mapping, root Ref, index uint64, direct func(*Mapping, Ref, uint64) (any, bool, error)) (any, bool, error) {
	leafRef, idx, err := findLeaf(m, root, index)
	if err != nil {
		return nil, false, err
	}
	return direct(m, leafRef, idx)
}

// leafSize returns the logical element count under root.
func leafSize(m *Mapping, root Ref) (uint64, error) {
	return totalSize(m, root)
}

// requireLeafPayload fetches the payload of a node expected to be a leaf
// (not an inner B+Tree node); used by direct accessors which are only ever
// invoked on nodes findLeaf has already identified as leaves.
func requireLeafPayload(m *Mapping, ref Ref) ([]byte, NodeHeader, error) {
	payload, header, err := m.Payload(ref)
	if err != nil {
		return nil, NodeHeader{}, err
	}
	if header.IsInnerBPTree {
		return nil, NodeHeader{}, utils.WrapError("reading leaf", errNotALeaf(ref))
	}
	return payload, header, nil
}
