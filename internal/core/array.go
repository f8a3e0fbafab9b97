package core

import "github.com/arcfile/realmdb/internal/utils"

// readSlot reads the element at index from a bit-packed payload of the
// given width in bits. Width 0 always yields 0. Widths 1/2/4 are masked and
// shifted within a byte; widths 8/16/32/64 are aligned little-endian loads.
// Callers must ensure index is in bounds; out-of-range access is a
// precondition violation (classified as corruption, see spec §7).
func readSlot(payload []byte, widthBits uint8, index uint64) uint64 {
	switch widthBits {
	case 0:
		return 0
	case 1, 2, 4:
		perByte := 8 / uint64(widthBits)
		byteIdx := index / perByte
		bitOffset := (index % perByte) * uint64(widthBits)
		mask := uint8(1<<widthBits) - 1
		return uint64((payload[byteIdx] >> bitOffset) & mask)
	case 8:
		return uint64(payload[index])
	case 16:
		return uint64(utils.LoadUint16(payload, int(index*2)))
	case 32:
		return uint64(utils.LoadUint32(payload, int(index*4)))
	case 64:
		return utils.LoadUint64(payload, int(index*8))
	default:
		return 0
	}
}

// lowerBound returns the index of the first element in a bit-packed array
// of the given size/width that is >= target, or size if none qualifies.
func lowerBound(payload []byte, widthBits uint8, size uint64, target uint64) uint64 {
	lo, hi := uint64(0), size
	for lo < hi {
		mid := lo + (hi-lo)/2
		if readSlot(payload, widthBits, mid) < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the index of the first element strictly greater than
// target, or size if none qualifies.
func upperBound(payload []byte, widthBits uint8, size uint64, target uint64) uint64 {
	lo, hi := uint64(0), size
	for lo < hi {
		mid := lo + (hi-lo)/2
		if readSlot(payload, widthBits, mid) <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
