// Package utils provides ambient helpers shared by the core engine: error
// wrapping, buffer pooling, checked arithmetic, and little-endian loads.
package utils

import "encoding/binary"

// LoadUint16 reads a little-endian uint16 at offset within buf.
func LoadUint16(buf []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(buf[offset : offset+2])
}

// LoadUint32 reads a little-endian uint32 at offset within buf.
func LoadUint32(buf []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(buf[offset : offset+4])
}

// LoadUint64 reads a little-endian uint64 at offset within buf.
func LoadUint64(buf []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(buf[offset : offset+8])
}
