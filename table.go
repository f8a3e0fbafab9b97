package realmdb

import (
	"github.com/arcfile/realmdb/internal/core"
)

// ColumnType is a table column's declared logical type.
type ColumnType = core.ColumnType

// Column type constants, re-exported from the engine package.
const (
	ColInt       = core.ColInt
	ColBool      = core.ColBool
	ColString    = core.ColString
	ColBinary    = core.ColBinary
	ColTable     = core.ColTable
	ColTimestamp = core.ColTimestamp
	ColFloat     = core.ColFloat
	ColDouble    = core.ColDouble
	ColLink      = core.ColLink
	ColLinkList  = core.ColLinkList
	ColBackLink  = core.ColBackLink
)

// Attributes is a column's attribute bitfield.
type Attributes = core.Attributes

// Attribute flag constants, re-exported from the engine package.
const (
	AttrIndexed         = core.AttrIndexed
	AttrUnique          = core.AttrUnique
	AttrReserved        = core.AttrReserved
	AttrStrongLinks     = core.AttrStrongLinks
	AttrNullable        = core.AttrNullable
	AttrList            = core.AttrList
	AttrDictionary      = core.AttrDictionary
	AttrSet             = core.AttrSet
	AttrFullTextIndexed = core.AttrFullTextIndexed
)

// subtableNumber is the table-number sentinel used for materialized
// subtables, which have no ordinal position in the group (spec.md §4.8).
const subtableNumber = ^uint32(0)

// ColumnSpec describes one column's declared type, name, and attributes.
type ColumnSpec struct {
	Name  string
	Type  ColumnType
	Attrs Attributes
}

// Table exposes row count, row access, indexed lookups, and column specs
// for one table (spec.md §4.8).
type Table struct {
	m      *core.Mapping
	spec   *core.TableSpec
	number uint32
}

func newTable(m *core.Mapping, spec *core.TableSpec, number uint32) *Table {
	return &Table{m: m, spec: spec, number: number}
}

// TableNumber returns the table's ordinal in the group, or the subtable
// sentinel if this table was materialized as a nested subtable.
func (t *Table) TableNumber() uint32 { return t.number }

// RowCount delegates to column 0 per spec.md §4.8.
func (t *Table) RowCount() (uint64, error) {
	if len(t.spec.Columns) == 0 {
		return 0, nil
	}
	n, err := t.spec.Columns[0].Count()
	if err != nil {
		return 0, &FileError{Kind: FileErrIO, Cause: err}
	}
	return n, nil
}

// ColumnSpecs returns every column's declared spec in declaration order.
func (t *Table) ColumnSpecs() []ColumnSpec {
	specs := make([]ColumnSpec, len(t.spec.Columns))
	for i, c := range t.spec.Columns {
		specs[i] = ColumnSpec{Name: c.Name, Type: c.Type, Attrs: c.Attrs}
	}
	return specs
}

// ColumnSpec returns the n-th column's declared spec.
func (t *Table) ColumnSpec(n int) ColumnSpec {
	if n < 0 || n >= len(t.spec.Columns) {
		boundsPanic("column index %d out of range (column count %d)", n, len(t.spec.Columns))
	}
	c := t.spec.Columns[n]
	return ColumnSpec{Name: c.Name, Type: c.Type, Attrs: c.Attrs}
}

// GetRow reads every column of row n and assembles a Row. n must be <
// RowCount(); an out-of-range n panics (spec.md §7).
func (t *Table) GetRow(n uint64) (Row, error) {
	count, err := t.RowCount()
	if err != nil {
		return Row{}, err
	}
	if n >= count {
		boundsPanic("row index %d out of range (row count %d)", n, count)
	}

	row := Row{values: make(map[string]Value, len(t.spec.Columns))}
	for _, col := range t.spec.Columns {
		raw, err := col.Get(n)
		if err != nil {
			return Row{}, &FileError{Kind: FileErrIO, Cause: err}
		}

		if col.Type == core.ColBackLink {
			bl, _ := raw.(core.Backlink)
			row.backlinks = append(row.backlinks, bl)
			continue
		}

		value, err := valueFromRaw(t.m, col.Type, raw)
		if err != nil {
			return Row{}, err
		}
		row.values[col.Name] = value
	}

	return row, nil
}

// GetRows materializes every row of the table, in order.
func (t *Table) GetRows() ([]Row, error) {
	count, err := t.RowCount()
	if err != nil {
		return nil, err
	}
	rows := make([]Row, count)
	for i := uint64(0); i < count; i++ {
		rows[i], err = t.GetRow(i)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (t *Table) findColumn(name string) *core.Column {
	for _, c := range t.spec.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindRowNumberFromIndexedColumn probes name's on-disk index for value,
// returning the first matching row number in insertion order.
func (t *Table) FindRowNumberFromIndexedColumn(name string, value any) (uint64, bool, error) {
	col := t.findColumn(name)
	if col == nil {
		return 0, false, &TableError{Kind: TableErrColumnNotFound, Field: name}
	}
	if !col.Indexed() {
		return 0, false, &TableError{Kind: TableErrColumnNotIndexed, Field: name}
	}
	row, found, err := col.FindRowByIndexedValue(value)
	if err != nil {
		return 0, false, &FileError{Kind: FileErrIO, Cause: err}
	}
	return row, found, nil
}

// FindRowFromIndexedColumn probes name's on-disk index for value and, if
// found, materializes the matching row.
func (t *Table) FindRowFromIndexedColumn(name string, value any) (*Row, error) {
	n, found, err := t.FindRowNumberFromIndexedColumn(name, value)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	row, err := t.GetRow(n)
	if err != nil {
		return nil, err
	}
	return &row, nil
}
