package core

import (
	"fmt"

	"github.com/arcfile/realmdb/internal/utils"
)

// findLeaf descends an inner B+Tree node (compact or general form) to
// locate the leaf reference and in-leaf index for a global element index.
func findLeaf(m *Mapping, root Ref, index uint64) (Ref, uint64, error) {
	current := root

	for {
		payload, header, err := m.Payload(current)
		if err != nil {
			return 0, 0, err
		}
		if !header.IsInnerBPTree {
			return current, index, nil
		}
		if !header.HasRefs || header.Size < 2 {
			return 0, 0, utils.WrapError("walking b+tree", fmt.Errorf("malformed inner node at 0x%x", uint64(current)))
		}

		formWord := readSlot(payload, header.WidthBits, 0)

		var childSlot uint64
		var indexInChild uint64

		if formWord&1 == 1 {
			// Compact form: elements_per_child = form_word >> 1.
			epc := formWord >> 1
			if epc == 0 {
				return 0, 0, utils.WrapError("walking b+tree", fmt.Errorf("compact form with zero elements_per_child at 0x%x", uint64(current)))
			}
			childSlot = 1 + index/epc
			indexInChild = index % epc
		} else {
			offsetsRef := Ref(formWord)
			offsetsPayload, offsetsHeader, err := m.Payload(offsetsRef)
			if err != nil {
				return 0, 0, err
			}
			pos := upperBound(offsetsPayload, offsetsHeader.WidthBits, uint64(offsetsHeader.Size), index)
			var prevOffset uint64
			if pos > 0 {
				prevOffset = readSlot(offsetsPayload, offsetsHeader.WidthBits, pos-1)
			}
			childSlot = 1 + pos
			indexInChild = index - prevOffset
		}

		if childSlot >= uint64(header.Size) {
			return 0, 0, utils.WrapError("walking b+tree", fmt.Errorf("child slot %d out of range (size %d) at 0x%x", childSlot, header.Size, uint64(current)))
		}

		childRef, _, isRef := slotAt(payload, header.WidthBits, childSlot)
		if !isRef || childRef.IsNull() {
			return 0, 0, utils.WrapError("walking b+tree", fmt.Errorf("child slot %d is not a valid reference at 0x%x", childSlot, uint64(current)))
		}

		current = childRef
		index = indexInChild
	}
}

// totalSize returns the number of logical elements under root, whether
// root is a leaf or an inner B+Tree node.
func totalSize(m *Mapping, root Ref) (uint64, error) {
	payload, header, err := m.Payload(root)
	if err != nil {
		return 0, err
	}
	if !header.IsInnerBPTree {
		return uint64(header.Size), nil
	}
	if header.Size == 0 {
		return 0, utils.WrapError("computing total size", fmt.Errorf("inner node with zero size at 0x%x", uint64(root)))
	}
	lastSlot := readSlot(payload, header.WidthBits, uint64(header.Size-1))
	return lastSlot / 2, nil
}
