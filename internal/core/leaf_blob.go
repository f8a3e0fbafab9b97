package core

import "github.com/arcfile/realmdb/internal/utils"

// MediumBlobLeaf reads a small-blob leaf: a 3-element composite of a
// lengths array (cumulative end offsets), a concatenated byte payload
// node, and an optional per-row null-marker array. AsString controls
// whether the decoded bytes are exposed as a (NUL-stripped) string
// (medium-string columns) or as a raw byte slice (Binary columns).
type MediumBlobLeaf struct {
	AsString bool
}

func (l MediumBlobLeaf) Get(m *Mapping, root Ref, index uint64) (any, bool, error) {
	return leafGet(m, root, index, l.getDirect)
}

func (MediumBlobLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func (l MediumBlobLeaf) getDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}

	lengthsRef, _, _ := slotAt(payload, header.WidthBits, 0)
	dataRef, _, _ := slotAt(payload, header.WidthBits, 1)

	lengthsPayload, lengthsHeader, err := m.Payload(lengthsRef)
	if err != nil {
		return nil, false, err
	}
	dataPayload, _, err := m.Payload(dataRef)
	if err != nil {
		return nil, false, err
	}

	if header.Size == 3 {
		nullsRef, _, _ := slotAt(payload, header.WidthBits, 2)
		nullsPayload, nullsHeader, err := m.Payload(nullsRef)
		if err != nil {
			return nil, false, err
		}
		if readSlot(nullsPayload, nullsHeader.WidthBits, index) != 0 {
			return nil, true, nil
		}
	}

	var start uint64
	if index > 0 {
		start = readSlot(lengthsPayload, lengthsHeader.WidthBits, index-1)
	}
	end := readSlot(lengthsPayload, lengthsHeader.WidthBits, index)
	raw := dataPayload[start:end]
	if l.AsString && len(raw) > 0 && raw[len(raw)-1] == 0 {
		raw = raw[:len(raw)-1]
	}

	if l.AsString {
		return string(raw), false, nil
	}
	// The copy must outlive the mmap view under raw, so it is allocated
	// from the shared pool rather than a bare make() (teacher idiom:
	// internal/utils.GetBuffer sized scratch allocation), adapted here
	// for a copy that escapes with the caller rather than one released
	// at the end of a single read call.
	cp := utils.GetBuffer(len(raw))
	copy(cp, raw)
	return cp, false, nil
}

// LongBlobLeaf reads a long-blob leaf: an array of refs, one per row, each
// pointing to an independent opaque-bytes node holding the blob. A zero
// slot, or a pointee node with size 0, decodes as null (spec.md §9 open
// question 3).
type LongBlobLeaf struct {
	AsString bool
}

func (l LongBlobLeaf) Get(m *Mapping, root Ref, index uint64) (any, bool, error) {
	return leafGet(m, root, index, l.getDirect)
}

func (LongBlobLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func (l LongBlobLeaf) getDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}

	target, _, isRef := slotAt(payload, header.WidthBits, index)
	if !isRef || target.IsNull() {
		return nil, true, nil
	}

	dataPayload, dataHeader, err := m.Payload(target)
	if err != nil {
		return nil, false, err
	}
	if dataHeader.Size == 0 {
		return nil, true, nil
	}

	raw := dataPayload
	if l.AsString && len(raw) > 0 && raw[len(raw)-1] == 0 {
		raw = raw[:len(raw)-1]
	}

	if l.AsString {
		return string(raw), false, nil
	}
	cp := utils.GetBuffer(len(raw))
	copy(cp, raw)
	return cp, false, nil
}
