// Package corebuild hand-assembles minimal column-store files for tests.
// It exists because no real-world sample files ship with this module; each
// helper mirrors one node shape from spec.md §4 closely enough to drive
// the decoder, not to be a general-purpose writer (spec.md's Non-goals
// exclude a write path entirely).
package corebuild

import (
	"encoding/binary"
	"math"
	"os"
	"sort"

	"github.com/arcfile/realmdb/internal/core"
)

const (
	fileHeaderSize = 24
	fileMagic      = "T-DB"
	headerChecksum = 0x41414141
)

// Builder accumulates node bytes at 8-aligned offsets, reserving the
// 24-byte file header at offset 0.
type Builder struct {
	buf []byte
}

// New returns a Builder with the file header region reserved.
func New() *Builder {
	return &Builder{buf: make([]byte, fileHeaderSize)}
}

func (b *Builder) align() {
	for len(b.buf)%8 != 0 {
		b.buf = append(b.buf, 0)
	}
}

func widthIndex(widthBits uint8) uint8 {
	switch widthBits {
	case 0:
		return 0
	case 1:
		return 1
	case 2:
		return 2
	case 4:
		return 3
	case 8:
		return 4
	case 16:
		return 5
	case 32:
		return 6
	case 64:
		return 7
	default:
		panic("corebuild: unsupported width")
	}
}

// WriteNode appends a node with the given header flags and raw payload
// bytes (already encoded by the caller) and returns its reference.
func (b *Builder) WriteNode(isInner, hasRefs, contextFlag bool, widthBits uint8, scheme core.WidthScheme, size uint32, payload []byte) core.Ref {
	b.align()
	ref := core.Ref(len(b.buf))

	flags := byte(0)
	if isInner {
		flags |= 1 << 7
	}
	if hasRefs {
		flags |= 1 << 6
	}
	if contextFlag {
		flags |= 1 << 5
	}
	flags |= byte(scheme&0x3) << 3
	flags |= widthIndex(widthBits)

	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], headerChecksum)
	header[4] = flags
	header[5] = byte(size >> 16)
	header[6] = byte(size >> 8)
	header[7] = byte(size)

	b.buf = append(b.buf, header...)
	b.buf = append(b.buf, payload...)
	return ref
}

func packSlots(values []uint64, widthBits uint8) []byte {
	switch widthBits {
	case 64:
		out := make([]byte, 8*len(values))
		for i, v := range values {
			binary.LittleEndian.PutUint64(out[i*8:], v)
		}
		return out
	case 32:
		out := make([]byte, 4*len(values))
		for i, v := range values {
			binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
		}
		return out
	case 16:
		out := make([]byte, 2*len(values))
		for i, v := range values {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
		}
		return out
	case 8:
		out := make([]byte, len(values))
		for i, v := range values {
			out[i] = byte(v)
		}
		return out
	case 0:
		return nil
	default:
		nbits := len(values) * int(widthBits)
		out := make([]byte, (nbits+7)/8)
		for i, v := range values {
			bitOff := i * int(widthBits)
			byteIdx := bitOff / 8
			shift := uint(bitOff % 8)
			out[byteIdx] |= byte(v) << shift
		}
		return out
	}
}

// RefArray writes a flat array of references (or tagged inline slots),
// width-64 packed, used for the top-ref array, table-roots array, and
// header/data-slot arrays throughout the format.
func (b *Builder) RefArray(slots []uint64) core.Ref {
	payload := packSlots(slots, 64)
	return b.WriteNode(false, true, false, 64, core.SchemePacked, uint32(len(slots)), payload)
}

// IntLeaf writes a plain (non-nullable) bit-packed integer leaf.
func (b *Builder) IntLeaf(values []int64, widthBits uint8) core.Ref {
	raw := make([]uint64, len(values))
	for i, v := range values {
		raw[i] = uint64(v)
	}
	payload := packSlots(raw, widthBits)
	return b.WriteNode(false, false, false, widthBits, core.SchemePacked, uint32(len(values)), payload)
}

// IntNullableLeaf writes a nullable bit-packed integer leaf: slot 0 is the
// sentinel, values[i] == nil encodes as the sentinel at slot i+1. The
// sentinel is the largest width-representable value no element uses, and
// the node's size counts the sentinel slot.
func (b *Builder) IntNullableLeaf(values []*int64, widthBits uint8) core.Ref {
	mask := uint64(1)<<widthBits - 1
	if widthBits >= 64 {
		mask = ^uint64(0)
	}
	sentinel := mask
	for used := true; used; {
		used = false
		for _, v := range values {
			if v != nil && uint64(*v)&mask == sentinel {
				used = true
				sentinel--
				break
			}
		}
	}
	raw := make([]uint64, len(values)+1)
	raw[0] = sentinel
	for i, v := range values {
		if v == nil {
			raw[i+1] = sentinel
		} else {
			raw[i+1] = uint64(*v)
		}
	}
	payload := packSlots(raw, widthBits)
	return b.WriteNode(false, false, false, widthBits, core.SchemePacked, uint32(len(raw)), payload)
}

// BoolLeaf writes a plain bool leaf (1-bit packed integers).
func (b *Builder) BoolLeaf(values []bool) core.Ref {
	ints := make([]int64, len(values))
	for i, v := range values {
		if v {
			ints[i] = 1
		}
	}
	return b.IntLeaf(ints, 1)
}

// FloatLeaf writes a plain (non-nullable) 32-bit float leaf.
func (b *Builder) FloatLeaf(values []float32) core.Ref {
	raw := make([]uint64, len(values))
	for i, v := range values {
		raw[i] = uint64(math.Float32bits(v))
	}
	payload := packSlots(raw, 32)
	return b.WriteNode(false, false, false, 32, core.SchemePacked, uint32(len(values)), payload)
}

// DoubleLeaf writes a plain (non-nullable) 64-bit double leaf.
func (b *Builder) DoubleLeaf(values []float64) core.Ref {
	raw := make([]uint64, len(values))
	for i, v := range values {
		raw[i] = math.Float64bits(v)
	}
	payload := packSlots(raw, 64)
	return b.WriteNode(false, false, false, 64, core.SchemePacked, uint32(len(values)), payload)
}

// ShortStringLeaf writes a short-string leaf at fixed width w (including
// the trailing zero-count byte), rounded up to the next width a node
// header can encode (1, 2, 4, 8, 16, 32 or 64 bytes); values longer than
// w-1 bytes are invalid input for this helper. A nil entry encodes z == w
// (null).
func (b *Builder) ShortStringLeaf(values []*string, width int) core.Ref {
	for _, w := range []int{1, 2, 4, 8, 16, 32, 64} {
		if width <= w {
			width = w
			break
		}
	}
	payload := make([]byte, width*len(values))
	for i, v := range values {
		elem := payload[i*width : (i+1)*width]
		if v == nil {
			elem[width-1] = byte(width)
			continue
		}
		copy(elem, *v)
		z := width - 1 - len(*v)
		elem[width-1] = byte(z)
	}
	return b.WriteNode(false, false, false, uint8(width), core.SchemeByteMultiple, uint32(len(values)), payload)
}

// MediumBlob writes a medium-blob (small-blob) composite: lengths array,
// concatenated payload, each element NUL-terminated per spec.md's "trailing
// zero" convention for string variants.
func (b *Builder) MediumBlob(values [][]byte, nulTerminate bool) core.Ref {
	lengths := make([]uint64, len(values))
	var data []byte
	var cum uint64
	for i, v := range values {
		chunk := append([]byte{}, v...)
		if nulTerminate {
			chunk = append(chunk, 0)
		}
		data = append(data, chunk...)
		cum += uint64(len(chunk))
		lengths[i] = cum
	}
	lengthsRef := b.WriteNode(false, false, false, 64, core.SchemePacked, uint32(len(lengths)), packSlots(lengths, 64))
	dataRef := b.WriteNode(false, false, false, 0, core.SchemeOpaque, uint32(len(data)), data)
	composite := []uint64{uint64(lengthsRef), uint64(dataRef)}
	return b.WriteNode(false, true, false, 64, core.SchemePacked, 2, packSlots(composite, 64))
}

// UintArray writes a plain (non-ref) bit-packed array of raw uint64
// values, used for B+Tree offsets arrays and index key arrays.
func (b *Builder) UintArray(values []uint64, widthBits uint8) core.Ref {
	payload := packSlots(values, widthBits)
	return b.WriteNode(false, false, false, widthBits, core.SchemePacked, uint32(len(values)), payload)
}

// Tagged encodes n as a tagged inline slot value (low bit set).
func Tagged(n uint64) uint64 { return n<<1 | 1 }

// InnerBPTreeCompact writes a compact-form inner B+Tree node: form word
// (epc<<1|1), one ref per child, and a final sentinel slot holding
// 2*total (spec.md §3, §4.3).
func (b *Builder) InnerBPTreeCompact(children []core.Ref, epc, total uint64) core.Ref {
	slots := make([]uint64, 0, len(children)+2)
	slots = append(slots, epc<<1|1)
	for _, c := range children {
		slots = append(slots, uint64(c))
	}
	slots = append(slots, total*2)
	return b.WriteNode(true, true, false, 64, core.SchemePacked, uint32(len(slots)), packSlots(slots, 64))
}

// InnerBPTreeGeneral writes a general-form inner B+Tree node: slot 0 is a
// ref to an offsets array (cumulative element counts per subtree), one
// ref per child, and a final sentinel slot holding 2*total.
func (b *Builder) InnerBPTreeGeneral(children []core.Ref, offsets []uint64, offsetsWidth uint8) core.Ref {
	offsetsRef := b.UintArray(offsets, offsetsWidth)
	total := uint64(0)
	if len(offsets) > 0 {
		total = offsets[len(offsets)-1]
	}
	slots := make([]uint64, 0, len(children)+2)
	slots = append(slots, uint64(offsetsRef))
	for _, c := range children {
		slots = append(slots, uint64(c))
	}
	slots = append(slots, total*2)
	return b.WriteNode(true, true, false, 64, core.SchemePacked, uint32(len(slots)), packSlots(slots, 64))
}

// LongBlobLeaf writes a long-blob leaf: a ref array whose i-th slot points
// at an independent opaque-bytes node holding values[i]. A nil entry
// encodes as a null (zero) slot.
func (b *Builder) LongBlobLeaf(values [][]byte, nulTerminate bool) core.Ref {
	refs := make([]uint64, len(values))
	for i, v := range values {
		if v == nil {
			refs[i] = 0
			continue
		}
		chunk := append([]byte{}, v...)
		if nulTerminate {
			chunk = append(chunk, 0)
		}
		refs[i] = uint64(b.WriteNode(false, false, false, 0, core.SchemeOpaque, uint32(len(chunk)), chunk))
	}
	payload := packSlots(refs, 64)
	return b.WriteNode(false, true, true, 64, core.SchemePacked, uint32(len(refs)), payload)
}

// TimestampComposite writes a timestamp leaf: a 2-element ref array
// naming a nullable seconds subtree and a non-nullable nanoseconds
// subtree (spec.md §4.4).
func (b *Builder) TimestampComposite(secondsRoot, nanosRoot core.Ref) core.Ref {
	return b.RefArray([]uint64{uint64(secondsRoot), uint64(nanosRoot)})
}

// LinkLeaf writes a Link column leaf: each slot is row+1, 0 for null.
func (b *Builder) LinkLeaf(rows []*uint64) core.Ref {
	values := make([]int64, len(rows))
	for i, r := range rows {
		if r == nil {
			values[i] = 0
		} else {
			values[i] = int64(*r + 1)
		}
	}
	return b.IntLeaf(values, 64)
}

// LinkListLeaf writes a LinkList column leaf. Each entry is nil (empty),
// a single row number (encoded as a tagged inline slot), or a slice of
// row numbers (encoded as a ref to a plain integer leaf of duplicates).
func (b *Builder) LinkListLeaf(entries [][]uint64) core.Ref {
	slots := make([]uint64, len(entries))
	for i, e := range entries {
		switch len(e) {
		case 0:
			slots[i] = 0
		case 1:
			slots[i] = Tagged(e[0])
		default:
			asInt := make([]int64, len(e))
			for j, v := range e {
				asInt[j] = int64(v)
			}
			slots[i] = uint64(b.IntLeaf(asInt, 64))
		}
	}
	return b.RefArray(slots)
}

// BacklinkLeaf writes a Backlink column leaf: the same tri-state
// encoding as LinkListLeaf, but an empty entry is the natural (never
// null) zero case rather than an encoded absence.
func (b *Builder) BacklinkLeaf(entries [][]uint64) core.Ref {
	return b.LinkListLeaf(entries)
}

// ColumnDef describes one column to BuildTableSpec.
type ColumnDef struct {
	Type      core.ColumnType
	Name      string
	Attrs     core.Attributes
	DataRoot  core.Ref
	IndexRoot core.Ref
	// SubSpec holds the sub-spec entries this column contributes: one
	// tagged/ref slot for Table/Link/LinkList, two for BackLink (origin
	// table then origin column, both tagged).
	SubSpec []uint64
}

// BuildTableSpec assembles a table's header array (types/names/attrs/
// sub-spec) and data array (per-column data+index roots) per spec.md
// §4.7, returning the refs a Group's table-roots array should point at.
func (b *Builder) BuildTableSpec(cols []ColumnDef) (headerRef, dataRef core.Ref) {
	types := make([]int64, len(cols))
	names := make([]*string, len(cols))
	attrs := make([]int64, len(cols))
	var subSpec []uint64
	var data []uint64

	maxNameWidth := 1
	for i, c := range cols {
		types[i] = int64(c.Type)
		name := c.Name
		names[i] = &name
		attrs[i] = int64(c.Attrs)
		if len(name)+1 > maxNameWidth {
			maxNameWidth = len(name) + 1
		}
		subSpec = append(subSpec, c.SubSpec...)

		data = append(data, uint64(c.DataRoot))
		if c.Attrs.Has(core.AttrIndexed) {
			data = append(data, uint64(c.IndexRoot))
		}
	}

	typesRef := b.IntLeaf(types, 64)
	namesRef := b.ShortStringLeaf(names, maxNameWidth)
	attrsRef := b.IntLeaf(attrs, 64)

	headerSlots := []uint64{uint64(typesRef), uint64(namesRef), uint64(attrsRef)}
	if len(subSpec) > 0 {
		subSpecRef := b.RefArray(subSpec)
		headerSlots = append(headerSlots, uint64(subSpecRef))
	}
	headerRef = b.RefArray(headerSlots)
	dataRef = b.RefArray(data)
	return headerRef, dataRef
}

// TableRoot writes the 2-element [header-ref, data-ref] pair a group's
// table-roots array points at for one table.
func (b *Builder) TableRoot(headerRef, dataRef core.Ref) core.Ref {
	return b.RefArray([]uint64{uint64(headerRef), uint64(dataRef)})
}

// BuildGroup assembles the top-ref array: a short-string array of table
// names, an array of per-table [header,data] roots, and a null
// file-metadata slot (spec.md §4.9; metadata is not modeled by this
// reader).
func (b *Builder) BuildGroup(tableNames []string, tableRoots []core.Ref) core.Ref {
	maxWidth := 1
	ptrs := make([]*string, len(tableNames))
	for i, n := range tableNames {
		name := n
		ptrs[i] = &name
		if len(n)+1 > maxWidth {
			maxWidth = len(n) + 1
		}
	}
	namesRef := b.ShortStringLeaf(ptrs, maxWidth)
	rootRefs := make([]uint64, len(tableRoots))
	for i, r := range tableRoots {
		rootRefs[i] = uint64(r)
	}
	rootsRef := b.RefArray(rootRefs)
	return b.RefArray([]uint64{uint64(namesRef), uint64(rootsRef), 0})
}

// IndexNode writes one radix-trie index node: a ref to a sorted 32-bit
// keys array, followed by one payload slot per key (tagged row number,
// ref to a duplicate-row bucket, or ref to a context-flagged sub-index
// node). contextFlag marks this node itself as a sub-index pointee
// (spec.md §4.6).
func (b *Builder) IndexNode(keys []uint32, payloads []uint64, contextFlag bool) core.Ref {
	keyVals := make([]uint64, len(keys))
	for i, k := range keys {
		keyVals[i] = uint64(k)
	}
	offsetsRef := b.UintArray(keyVals, 32)
	slots := make([]uint64, 0, len(payloads)+1)
	slots = append(slots, uint64(offsetsRef))
	slots = append(slots, payloads...)
	return b.WriteNode(false, true, contextFlag, 64, core.SchemePacked, uint32(len(slots)), packSlots(slots, 64))
}

// IndexBucket writes a plain integer leaf of duplicate row numbers for an
// index key with more than one matching row, in insertion order.
func (b *Builder) IndexBucket(rows []uint64) core.Ref {
	asInt := make([]int64, len(rows))
	for i, r := range rows {
		asInt[i] = int64(r)
	}
	return b.IntLeaf(asInt, 64)
}

// IndexEntry names one row's coerced index key for BuildIndex.
type IndexEntry struct {
	Key []byte
	Row uint64
}

// BuildIndex assembles a (possibly multi-level) radix-trie index over
// entries, grouping by successive 4-byte big-endian key chunks exactly as
// core.IndexProbe reads them (spec.md §4.6). It is a test-fixture builder,
// not a general index writer: entries sharing a full key produce a
// duplicate bucket in the order given.
func (b *Builder) BuildIndex(entries []IndexEntry) core.Ref {
	return b.buildIndexLevel(entries, 0, false)
}

func (b *Builder) buildIndexLevel(entries []IndexEntry, offset int, contextFlag bool) core.Ref {
	type group struct {
		key     uint32
		entries []IndexEntry
	}
	byKey := map[uint32]*group{}
	var order []uint32
	for _, e := range entries {
		k := next4BEKey(e.Key, offset)
		g, ok := byKey[k]
		if !ok {
			g = &group{key: k}
			byKey[k] = g
			order = append(order, k)
		}
		g.entries = append(g.entries, e)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	payloads := make([]uint64, len(order))
	for i, k := range order {
		g := byKey[k]
		allExhausted := true
		for _, e := range g.entries {
			if offset+4 < len(e.Key) {
				allExhausted = false
				break
			}
		}
		switch {
		case len(g.entries) == 1 && allExhausted:
			payloads[i] = Tagged(g.entries[0].Row)
		case allExhausted:
			rows := make([]uint64, len(g.entries))
			for j, e := range g.entries {
				rows[j] = e.Row
			}
			payloads[i] = uint64(b.IndexBucket(rows))
		default:
			payloads[i] = uint64(b.buildIndexLevel(g.entries, offset+4, true))
		}
	}
	return b.IndexNode(order, payloads, contextFlag)
}

func next4BEKey(key []byte, offset int) uint32 {
	var buf [4]byte
	for i := 0; i < 4; i++ {
		if offset+i < len(key) {
			buf[i] = key[offset+i]
		}
	}
	return binary.BigEndian.Uint32(buf[:])
}

// Finalize writes the accumulated buffer to path as a complete file with
// both top-refs pointing at root and the active-copy bit selecting slot 0.
func (b *Builder) Finalize(path string, root core.Ref) error {
	b.align()
	out := append([]byte{}, b.buf...)

	binary.LittleEndian.PutUint64(out[0:8], uint64(root))
	binary.LittleEndian.PutUint64(out[8:16], uint64(root))
	copy(out[16:20], fileMagic)
	binary.LittleEndian.PutUint16(out[20:22], 1)
	out[23] = 0

	return os.WriteFile(path, out, 0o644)
}

// Root returns the current write position, useful for recording a ref
// before the node at that position has been written (e.g. to pre-allocate
// forward references is not supported; callers must write children first).
func (b *Builder) Root() core.Ref {
	b.align()
	return core.Ref(len(b.buf))
}
