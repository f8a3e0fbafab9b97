package realmdb

import "github.com/arcfile/realmdb/internal/core"

// Row is one materialized table row: every non-backlink column's Value,
// keyed by column name, plus the row's backlinks gathered separately
// since a row may receive an unbounded number of them from any number of
// origin tables (spec.md §4.8, §4.10).
type Row struct {
	values    map[string]Value
	backlinks []core.Backlink
}

// HasField reports whether name names a column present on this row.
func (r Row) HasField(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Get returns the named field's value. A missing field is reported as a
// ValueError rather than a panic, since field names come from table specs
// that can vary file to file (spec.md §7).
func (r Row) Get(name string) (Value, error) {
	v, ok := r.values[name]
	if !ok {
		return Value{}, &ValueError{Kind: ValueErrMissingField, Field: name}
	}
	return v, nil
}

// Take returns and removes the named field's value, letting a caller that
// owns the Row move large values (table/binary) out without copying.
func (r *Row) Take(name string) (Value, error) {
	v, err := r.Get(name)
	if err != nil {
		return Value{}, err
	}
	delete(r.values, name)
	return v, nil
}

// Entries returns every field name present on the row, in no particular
// order.
func (r Row) Entries() []string {
	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	return names
}

// Values returns a copy of the row's name-to-value map.
func (r Row) Values() map[string]Value {
	out := make(map[string]Value, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Backlinks returns the row's backlinks.
func (r Row) Backlinks() []core.Backlink {
	return r.backlinks
}

// TakeBacklinks returns and clears the row's backlinks.
func (r *Row) TakeBacklinks() []core.Backlink {
	bl := r.backlinks
	r.backlinks = nil
	return bl
}

// IntoOwned returns r unchanged; every Value a Row holds is already a
// self-contained Go value (no borrowed mmap slices survive leaf decode),
// so there is nothing left to copy.
func (r Row) IntoOwned() Row {
	return r
}
