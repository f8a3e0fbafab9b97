package core

// LinkLeaf reads a single-target link column: slot = row_number+1, 0 = null.
type LinkLeaf struct {
	TargetTable uint32
}

func (l LinkLeaf) Get(m *Mapping, root Ref, index uint64) (*Link, error) {
	v, isNull, err := leafGet(m, root, index, l.getDirect)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	link := v.(Link)
	return &link, nil
}

func (LinkLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func (l LinkLeaf) getDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	raw := readSlot(payload, header.WidthBits, index)
	if raw == 0 {
		return nil, true, nil
	}
	return Link{TargetTable: l.TargetTable, Row: raw - 1}, false, nil
}

// LinkListLeaf reads a link-list column. Each slot is a tri-state: 0 means
// empty, a tagged inline value is a single link whose row is the tag, and
// a ref names an integer leaf whose elements are the target row numbers.
type LinkListLeaf struct {
	TargetTable uint32
}

func (l LinkListLeaf) Get(m *Mapping, root Ref, index uint64) ([]Link, error) {
	v, _, err := leafGet(m, root, index, l.getDirect)
	if err != nil {
		return nil, err
	}
	return v.([]Link), nil
}

func (LinkListLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func (l LinkListLeaf) getDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	slotRef, tagged, isRef := slotAt(payload, header.WidthBits, index)

	if isRef && slotRef.IsNull() {
		return []Link{}, false, nil
	}
	if !isRef {
		return []Link{{TargetTable: l.TargetTable, Row: tagged}}, false, nil
	}

	n, err := (IntegerLeaf{}).Size(m, slotRef)
	if err != nil {
		return nil, false, err
	}
	links := make([]Link, 0, n)
	for i := uint64(0); i < n; i++ {
		row, err := (IntegerLeaf{}).Get(m, slotRef, i)
		if err != nil {
			return nil, false, err
		}
		links = append(links, Link{TargetTable: l.TargetTable, Row: uint64(row)})
	}
	return links, false, nil
}

// BacklinkLeaf reads a backlink column: the same empty/inline/ref tri-state
// as LinkListLeaf but origin-side, and never null (an empty list is the
// natural zero value, not a distinct null state).
type BacklinkLeaf struct {
	OriginTable  uint32
	OriginColumn uint32
}

func (l BacklinkLeaf) Get(m *Mapping, root Ref, index uint64) (Backlink, error) {
	v, _, err := leafGet(m, root, index, l.getDirect)
	if err != nil {
		return Backlink{}, err
	}
	return Backlink{OriginTable: l.OriginTable, OriginColumn: l.OriginColumn, RowNumbers: v.([]uint64)}, nil
}

func (BacklinkLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func (BacklinkLeaf) getDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	slotRef, tagged, isRef := slotAt(payload, header.WidthBits, index)

	if isRef && slotRef.IsNull() {
		return []uint64{}, false, nil
	}
	if !isRef {
		return []uint64{tagged}, false, nil
	}

	n, err := (IntegerLeaf{}).Size(m, slotRef)
	if err != nil {
		return nil, false, err
	}
	rows := make([]uint64, 0, n)
	for i := uint64(0); i < n; i++ {
		row, err := (IntegerLeaf{}).Get(m, slotRef, i)
		if err != nil {
			return nil, false, err
		}
		rows = append(rows, uint64(row))
	}
	return rows, false, nil
}
