package core

import "fmt"

// ColumnType is the declared logical type of a table column.
type ColumnType uint8

const (
	ColInt ColumnType = iota
	ColBool
	ColString
	ColBinary
	ColTable
	ColTimestamp
	ColFloat
	ColDouble
	ColLink
	ColLinkList
	ColBackLink
	// ColLegacyA/B/C are legacy type tags the reader decodes structurally
	// (so data_slot/sub_spec cursor arithmetic stays correct) but never
	// exposes as a distinct Value variant (spec.md §3, §12).
	ColLegacyA
	ColLegacyB
	ColLegacyC
)

// Attributes is the column attribute bitfield.
type Attributes uint16

const (
	AttrIndexed Attributes = 1 << iota
	AttrUnique
	AttrReserved
	AttrStrongLinks
	AttrNullable
	AttrList
	AttrDictionary
	AttrSet
	AttrFullTextIndexed
)

// Has reports whether flag is set in a.
func (a Attributes) Has(flag Attributes) bool { return a&flag != 0 }

// Column binds a B+Tree over a specific leaf variant, an optional on-disk
// index, attributes, and a human-readable name (absent for backlinks).
type Column struct {
	Name      string
	Type      ColumnType
	Attrs     Attributes
	DataRoot  Ref
	IndexRoot Ref

	m      *Mapping
	getFn  func(*Mapping, Ref, uint64) (any, error)
	sizeFn func(*Mapping, Ref) (uint64, error)
}

// Get dispatches through the B+Tree walker to the leaf decoder for this
// column's type and returns the decoded value, or nil for a null cell.
func (c *Column) Get(row uint64) (any, error) { return c.getFn(c.m, c.DataRoot, row) }

// IsNull reports whether the cell at row is null.
func (c *Column) IsNull(row uint64) (bool, error) {
	v, err := c.Get(row)
	return v == nil, err
}

// Count returns the column's row count.
func (c *Column) Count() (uint64, error) { return c.sizeFn(c.m, c.DataRoot) }

// Nullable reports whether the NULLABLE attribute is set.
func (c *Column) Nullable() bool { return c.Attrs.Has(AttrNullable) }

// Indexed reports whether the INDEXED attribute is set.
func (c *Column) Indexed() bool { return c.Attrs.Has(AttrIndexed) }

// FindRowByIndexedValue probes this column's on-disk index for value,
// returning the first matching row number in insertion order.
func (c *Column) FindRowByIndexedValue(value any) (uint64, bool, error) {
	if !c.Indexed() {
		return 0, false, fmt.Errorf("column %q is not indexed", c.Name)
	}
	key, err := CoerceIndexKey(value)
	if err != nil {
		return 0, false, err
	}
	return IndexProbe(c.m, c.IndexRoot, key)
}
