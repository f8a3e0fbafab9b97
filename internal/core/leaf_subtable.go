package core

// SubtableLeaf reads a Table-typed column. Each slot is the data-root ref
// of that row's nested table; the shared header/spec ref is supplied once
// per column via HeaderRef (spec.md §4.4, §4.7). A zero data-root ref
// denotes an empty (zero-row) subtable rather than null.
type SubtableLeaf struct {
	HeaderRef Ref
}

func (l SubtableLeaf) Get(m *Mapping, root Ref, index uint64) (SubtableRef, error) {
	v, _, err := leafGet(m, root, index, l.getDirect)
	if err != nil {
		return SubtableRef{}, err
	}
	return v.(SubtableRef), nil
}

func (SubtableLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func (l SubtableLeaf) getDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	dataRef, _, _ := slotAt(payload, header.WidthBits, index)
	return SubtableRef{HeaderRef: l.HeaderRef, DataRef: dataRef}, false, nil
}
