// Package core implements the on-disk traversal engine for the column-store
// file format: memory mapping, node headers, the bit-packed array reader,
// the B+Tree leaf locator, the polymorphic leaf hierarchy, and the on-disk
// index. It never mutates the mapped bytes and never reaches upward into
// domain-level types (tables, rows) to avoid an import cycle with the root
// package; subtables are surfaced as a lightweight SubtableRef instead.
package core

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/arcfile/realmdb/internal/utils"
)

// Ref is a byte offset into the mapped file. It is always 8-aligned, or
// zero to denote null.
type Ref uint64

// IsNull reports whether the reference is the null reference.
func (r Ref) IsNull() bool { return r == 0 }

const (
	fileHeaderSize  = 24
	fileMagic       = "T-DB"
	headerChecksum  = 0x41414141
	activeTopMask   = 1
	encryptedMask   = 1 << 7
	refAlignment    = 8
)

// FileHeader is the 24-byte header at offset 0 of the mapped file.
type FileHeader struct {
	TopRefs       [2]uint64
	FormatVersion uint16
	Flags         uint8
	ActiveTop     Ref
	Encrypted     bool
}

// Mapping wraps a read-only memory-mapped database file and exposes
// bounds-checked byte-range access to upper layers.
type Mapping struct {
	file   *os.File
	region mmap.MMap
	header FileHeader
}

// OpenMapping maps path read-only and parses the file header.
func OpenMapping(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.WrapError("opening database file", err)
	}

	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("mapping database file", err)
	}

	m := &Mapping{file: f, region: region}
	if err := m.parseHeader(); err != nil {
		_ = region.Unmap()
		_ = f.Close()
		return nil, err
	}

	return m, nil
}

func (m *Mapping) parseHeader() error {
	if len(m.region) < fileHeaderSize {
		return utils.WrapError("parsing file header", fmt.Errorf("file shorter than %d bytes", fileHeaderSize))
	}

	buf := []byte(m.region)
	if string(buf[16:20]) != fileMagic {
		return utils.WrapError("parsing file header", fmt.Errorf("magic mismatch: got %q", buf[16:20]))
	}

	h := FileHeader{
		TopRefs:       [2]uint64{binary.LittleEndian.Uint64(buf[0:8]), binary.LittleEndian.Uint64(buf[8:16])},
		FormatVersion: binary.LittleEndian.Uint16(buf[20:22]),
		Flags:         buf[23],
	}
	h.Encrypted = h.Flags&encryptedMask != 0
	if h.Encrypted {
		return utils.WrapError("parsing file header", fmt.Errorf("encrypted files are unsupported"))
	}
	h.ActiveTop = Ref(h.TopRefs[h.Flags&activeTopMask])

	m.header = h
	return nil
}

// Header returns the parsed file header.
func (m *Mapping) Header() FileHeader { return m.header }

// ActiveTop returns the active top-reference selected by the header's
// flags bit 0.
func (m *Mapping) ActiveTop() Ref { return m.header.ActiveTop }

// Len returns the size of the mapped file in bytes.
func (m *Mapping) Len() int { return len(m.region) }

// Close unmaps the file and closes the underlying descriptor.
func (m *Mapping) Close() error {
	var unmapErr, closeErr error
	if m.region != nil {
		unmapErr = m.region.Unmap()
	}
	if m.file != nil {
		closeErr = m.file.Close()
	}
	if unmapErr != nil {
		return utils.WrapError("unmapping database file", unmapErr)
	}
	if closeErr != nil {
		return utils.WrapError("closing database file", closeErr)
	}
	return nil
}

// validateRef checks that ref is 8-aligned and fully within file bounds for
// a structure of the given byte length starting at ref.
func (m *Mapping) validateRef(ref Ref, length int) error {
	if ref == 0 {
		return utils.WrapError("validating reference", fmt.Errorf("null reference"))
	}
	if uint64(ref)%refAlignment != 0 {
		return utils.WrapError("validating reference", fmt.Errorf("reference 0x%x not 8-aligned", uint64(ref)))
	}
	end := uint64(ref) + uint64(length)
	if end > uint64(len(m.region)) {
		return utils.WrapError("validating reference", fmt.Errorf("reference 0x%x+%d exceeds file bounds (%d)", uint64(ref), length, len(m.region)))
	}
	return nil
}

// Slice returns a bounds-checked byte view of length bytes starting at ref.
// Unlike HeaderAt/Payload, ref need not be an aligned node reference.
func (m *Mapping) Slice(ref Ref, length int) ([]byte, error) {
	end := uint64(ref) + uint64(length)
	if end > uint64(len(m.region)) {
		return nil, utils.WrapError("slicing mapping", fmt.Errorf("range [%d,%d) exceeds file bounds (%d)", ref, end, len(m.region)))
	}
	return m.region[ref:end], nil
}

// HeaderAt parses the 8-byte node header at ref.
func (m *Mapping) HeaderAt(ref Ref) (NodeHeader, error) {
	if err := m.validateRef(ref, nodeHeaderSize); err != nil {
		return NodeHeader{}, err
	}
	buf := m.region[ref : ref+nodeHeaderSize]
	return parseNodeHeader(buf)
}

// Payload returns the byte view of a node's payload, starting at ref+8 and
// running for the header-derived payload length.
func (m *Mapping) Payload(ref Ref) ([]byte, NodeHeader, error) {
	h, err := m.HeaderAt(ref)
	if err != nil {
		return nil, NodeHeader{}, err
	}
	payloadLen, err := h.PayloadLen()
	if err != nil {
		return nil, NodeHeader{}, err
	}
	if err := m.validateRef(ref, nodeHeaderSize+payloadLen); err != nil {
		return nil, NodeHeader{}, err
	}
	start := uint64(ref) + nodeHeaderSize
	return m.region[start : start+uint64(payloadLen)], h, nil
}
