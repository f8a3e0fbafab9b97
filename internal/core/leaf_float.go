package core

import "math"

// FloatLeaf reads a plain (non-nullable) 4-byte float column (width-scheme 1).
type FloatLeaf struct{}

func (FloatLeaf) Get(m *Mapping, root Ref, index uint64) (float32, error) {
	v, _, err := leafGet(m, root, index, floatGetDirect)
	if err != nil {
		return 0, err
	}
	return v.(float32), nil
}

func (FloatLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func floatGetDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	bits := uint32(readSlot(payload, header.WidthBits, index))
	return math.Float32frombits(bits), false, nil
}

// FloatNullableLeaf reads a nullable float column: slot 0 is a raw uint32
// sentinel, logical element i lives at slot i+1.
type FloatNullableLeaf struct{}

func (FloatNullableLeaf) Get(m *Mapping, root Ref, index uint64) (*float32, error) {
	v, isNull, err := leafGet(m, root, index, floatNullableGetDirect)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	f := v.(float32)
	return &f, nil
}

func (FloatNullableLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func floatNullableGetDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	sentinel := uint32(readSlot(payload, header.WidthBits, 0))
	raw := uint32(readSlot(payload, header.WidthBits, index+1))
	if raw == sentinel {
		return nil, true, nil
	}
	return math.Float32frombits(raw), false, nil
}

// DoubleLeaf reads a plain (non-nullable) 8-byte double column.
type DoubleLeaf struct{}

func (DoubleLeaf) Get(m *Mapping, root Ref, index uint64) (float64, error) {
	v, _, err := leafGet(m, root, index, doubleGetDirect)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (DoubleLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func doubleGetDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	bits := readSlot(payload, header.WidthBits, index)
	return math.Float64frombits(bits), false, nil
}

// DoubleNullableLeaf reads a nullable double column.
type DoubleNullableLeaf struct{}

func (DoubleNullableLeaf) Get(m *Mapping, root Ref, index uint64) (*float64, error) {
	v, isNull, err := leafGet(m, root, index, doubleNullableGetDirect)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	f := v.(float64)
	return &f, nil
}

func (DoubleNullableLeaf) Size(m *Mapping, root Ref) (uint64, error) { return leafSize(m, root) }

func doubleNullableGetDirect(m *Mapping, ref Ref, index uint64) (any, bool, error) {
	payload, header, err := requireLeafPayload(m, ref)
	if err != nil {
		return nil, false, err
	}
	sentinel := readSlot(payload, header.WidthBits, 0)
	raw := readSlot(payload, header.WidthBits, index+1)
	if raw == sentinel {
		return nil, true, nil
	}
	return math.Float64frombits(raw), false, nil
}
