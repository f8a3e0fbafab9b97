package core

// IntegerLeaf reads a plain (non-nullable) bit-packed integer column.
type IntegerLeaf struct{}

// Get walks root's tree and returns the int64 value at index.
func (IntegerLeaf) Get(m *Mapping, root Ref, index uint64) (int64, error) {
	v, _, err := leafGet(m, root, index, integerGetDirect)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Size returns the column's row count.
func (IntegerLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func integerGetDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	raw := readSlot(payload, header.WidthBits, index)
	return int64(raw), false, nil
}

// IntegerNullableLeaf reads a nullable bit-packed integer column. Slot 0
// holds the reserved sentinel; logical element i lives at slot i+1.
type IntegerNullableLeaf struct{}

func (IntegerNullableLeaf) Get(m *Mapping, root Ref, index uint64) (*int64, error) {
	v, isNull, err := leafGet(m, root, index, integerNullableGetDirect)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	n := v.(int64)
	return &n, nil
}

func (IntegerNullableLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func integerNullableGetDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	if header.WidthBits == 0 {
		// Width-0 leaves are all-null (spec.md §8 boundary behavior).
		return nil, true, nil
	}
	sentinel := readSlot(payload, header.WidthBits, 0)
	raw := readSlot(payload, header.WidthBits, index+1)
	if raw == sentinel {
		return nil, true, nil
	}
	return int64(raw), false, nil
}

// BoolLeaf and BoolNullableLeaf reuse the integer decoding, interpreting
// 0/1 values as booleans (spec.md §4.4).

// BoolLeaf reads a plain (non-nullable) bool column.
type BoolLeaf struct{}

func (BoolLeaf) Get(m *Mapping, root Ref, index uint64) (bool, error) {
	v, _, err := leafGet(m, root, index, integerGetDirect)
	if err != nil {
		return false, err
	}
	return v.(int64) != 0, nil
}

func (BoolLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

// BoolNullableLeaf reads a nullable bool column.
type BoolNullableLeaf struct{}

func (BoolNullableLeaf) Get(m *Mapping, root Ref, index uint64) (*bool, error) {
	v, isNull, err := leafGet(m, root, index, integerNullableGetDirect)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	b := v.(int64) != 0
	return &b, nil
}

func (BoolNullableLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }
