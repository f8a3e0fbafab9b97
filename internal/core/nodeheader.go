package core

import (
	"encoding/binary"
	"fmt"

	"github.com/arcfile/realmdb/internal/utils"
)

const nodeHeaderSize = 8

// WidthScheme selects how a node header's size field translates into a
// payload byte length.
type WidthScheme uint8

const (
	// SchemePacked packs size elements of width_bits each, rounded up to a
	// whole byte.
	SchemePacked WidthScheme = 0
	// SchemeByteMultiple stores size elements whose byte length equals
	// width_bits (reused here as a byte count, not a bit count).
	SchemeByteMultiple WidthScheme = 1
	// SchemeOpaque stores size raw bytes verbatim.
	SchemeOpaque WidthScheme = 2
)

// NodeHeader is the decoded 8-byte header preceding every node's payload.
type NodeHeader struct {
	IsInnerBPTree bool
	HasRefs       bool
	ContextFlag   bool
	WidthScheme   WidthScheme
	WidthBits     uint8
	Size          uint32
}

// widthBitsFromIndex maps a 3-bit width index to an element width in bits,
// per the table {0,1,2,4,8,16,32,64}.
func widthBitsFromIndex(idx uint8) uint8 {
	return uint8((uint16(1) << idx) >> 1)
}

func parseNodeHeader(buf []byte) (NodeHeader, error) {
	checksum := binary.LittleEndian.Uint32(buf[0:4])
	if checksum != headerChecksum {
		return NodeHeader{}, utils.WrapError("parsing node header", fmt.Errorf("checksum mismatch: got 0x%x, want 0x%x", checksum, uint32(headerChecksum)))
	}

	flags := buf[4]
	size := uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7])

	h := NodeHeader{
		IsInnerBPTree: flags&(1<<7) != 0,
		HasRefs:       flags&(1<<6) != 0,
		ContextFlag:   flags&(1<<5) != 0,
		WidthScheme:   WidthScheme((flags >> 3) & 0x3),
		WidthBits:     widthBitsFromIndex(flags & 0x7),
		Size:          size,
	}

	if h.WidthScheme > SchemeOpaque {
		return NodeHeader{}, utils.WrapError("parsing node header", fmt.Errorf("reserved width scheme %d", h.WidthScheme))
	}
	if h.Size > utils.MaxNodeSize {
		return NodeHeader{}, utils.WrapError("parsing node header", fmt.Errorf("size %d exceeds 2^24", h.Size))
	}

	return h, nil
}

// PayloadLen computes the payload length in bytes for the node's declared
// size, width and scheme.
func (h NodeHeader) PayloadLen() (int, error) {
	size := uint64(h.Size)
	width := uint64(h.WidthBits)

	switch h.WidthScheme {
	case SchemePacked:
		bits, err := utils.SafeMultiply(size, width)
		if err != nil {
			return 0, utils.WrapError("computing payload length", err)
		}
		return int((bits + 7) / 8), nil
	case SchemeByteMultiple:
		bytes, err := utils.SafeMultiply(size, width)
		if err != nil {
			return 0, utils.WrapError("computing payload length", err)
		}
		return int(bytes), nil
	case SchemeOpaque:
		return int(size), nil
	default:
		return 0, utils.WrapError("computing payload length", fmt.Errorf("reserved width scheme %d", h.WidthScheme))
	}
}
