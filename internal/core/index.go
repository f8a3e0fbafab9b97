package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/arcfile/realmdb/internal/utils"
)

// CoerceIndexKey turns a probe value into the byte string the on-disk
// radix index keys values by (spec.md §4.6). Non-null inputs are suffixed
// with 'X' so that "" and null never collide in the trie.
func CoerceIndexKey(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return append([]byte(v), 'X'), nil
	case int64:
		buf := make([]byte, 9)
		binary.LittleEndian.PutUint64(buf, uint64(v))
		buf[8] = 'X'
		return buf, nil
	case bool:
		if v {
			return []byte{1, 'X'}, nil
		}
		return []byte{0, 'X'}, nil
	case time.Time:
		buf := make([]byte, 17)
		binary.LittleEndian.PutUint64(buf[0:8], uint64(v.Unix()))
		binary.LittleEndian.PutUint64(buf[8:16], uint64(v.Nanosecond()))
		buf[16] = 'X'
		return buf, nil
	default:
		return nil, fmt.Errorf("unsupported index key type %T", value)
	}
}

// next4BE packs the 4 bytes of key starting at offset into a big-endian
// uint32, zero-padding any tail past len(key).
func next4BE(key []byte, offset int) uint32 {
	var buf [4]byte
	for i := 0; i < 4; i++ {
		if offset+i < len(key) {
			buf[i] = key[offset+i]
		}
	}
	return binary.BigEndian.Uint32(buf[:])
}

// IndexProbe performs an equality lookup against a radix-trie index
// keyed by 32-bit big-endian slices of the coerced value, returning the
// first matching row number in insertion order. found is false if no key
// matches exactly.
func IndexProbe(m *Mapping, root Ref, key []byte) (uint64, bool, error) {
	current := root
	offset := 0

	for {
		nodePayload, nodeHeader, err := m.Payload(current)
		if err != nil {
			return 0, false, err
		}
		if nodeHeader.IsInnerBPTree {
			return 0, false, utils.WrapError("probing index", fmt.Errorf("b+tree-wrapped index node at 0x%x is unsupported", uint64(current)))
		}

		offsetsRef, _, _ := slotAt(nodePayload, nodeHeader.WidthBits, 0)
		offsetsPayload, offsetsHeader, err := m.Payload(offsetsRef)
		if err != nil {
			return 0, false, err
		}

		k := next4BE(key, offset)
		pos := lowerBound(offsetsPayload, offsetsHeader.WidthBits, uint64(offsetsHeader.Size), uint64(k))
		if pos >= uint64(offsetsHeader.Size) {
			return 0, false, nil
		}
		if readSlot(offsetsPayload, offsetsHeader.WidthBits, pos) != uint64(k) {
			return 0, false, nil
		}

		payloadSlot := readSlot(nodePayload, nodeHeader.WidthBits, pos+1)
		ref, tagged, isRef := decodeSlot(payloadSlot)

		if !isRef {
			return tagged, true, nil
		}
		if ref.IsNull() {
			return 0, false, nil
		}

		_, pointeeHeader, err := m.Payload(ref)
		if err != nil {
			return 0, false, err
		}

		if !pointeeHeader.ContextFlag {
			row, err := (IntegerLeaf{}).Get(m, ref, 0)
			if err != nil {
				return 0, false, err
			}
			return uint64(row), true, nil
		}

		current = ref
		offset += 4
	}
}
