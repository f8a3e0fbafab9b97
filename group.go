package realmdb

import (
	"github.com/arcfile/realmdb/internal/core"
)

// Group is the root directory parsed from the active top-reference: table
// names paired with per-table [header-ref, data-ref] roots (spec.md §4.9).
type Group struct {
	m             *core.Mapping
	tableNamesRef core.Ref
	tableRootsRef core.Ref
	opts          options
}

func newGroup(m *core.Mapping, topRef core.Ref, opts options) (*Group, error) {
	payload, header, err := m.Payload(topRef)
	if err != nil {
		return nil, &FileError{Kind: FileErrIO, Cause: err}
	}

	namesRef, _, _ := core.SlotAt(payload, header.WidthBits, 0)
	rootsRef, _, _ := core.SlotAt(payload, header.WidthBits, 1)

	return &Group{m: m, tableNamesRef: namesRef, tableRootsRef: rootsRef, opts: opts}, nil
}

// TableCount returns the number of tables in the group.
func (g *Group) TableCount() (uint64, error) {
	n, err := (core.StringLeaf{}).Size(g.m, g.tableNamesRef)
	if err != nil {
		return 0, &FileError{Kind: FileErrIO, Cause: err}
	}
	return n, nil
}

// GetTableName returns the name of the n-th table.
func (g *Group) GetTableName(n uint64) (string, error) {
	name, isNull, err := (core.StringLeaf{}).Get(g.m, g.tableNamesRef, n)
	if err != nil {
		return "", &FileError{Kind: FileErrIO, Cause: err}
	}
	if isNull {
		return "", nil
	}
	if g.opts.maxTableNameLength > 0 && len(name) > g.opts.maxTableNameLength {
		return "", &FileError{Kind: FileErrOutOfBounds, Cause: errTableNameTooLong(len(name), g.opts.maxTableNameLength)}
	}
	return name, nil
}

// GetTableNames returns every table name in declaration order.
func (g *Group) GetTableNames() ([]string, error) {
	count, err := g.TableCount()
	if err != nil {
		return nil, err
	}
	names := make([]string, count)
	for i := uint64(0); i < count; i++ {
		name, err := g.GetTableName(i)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// GetTable constructs the n-th table on demand. n must be < TableCount();
// an out-of-range n panics (spec.md §7: caller index errors are
// programmer errors).
func (g *Group) GetTable(n uint64) (*Table, error) {
	count, err := g.TableCount()
	if err != nil {
		return nil, err
	}
	if n >= count {
		boundsPanic("table index %d out of range (table count %d)", n, count)
	}

	payload, header, err := g.m.Payload(g.tableRootsRef)
	if err != nil {
		return nil, &FileError{Kind: FileErrIO, Cause: err}
	}
	rootRef, _, isRef := core.SlotAt(payload, header.WidthBits, n)
	if !isRef || rootRef == 0 {
		return nil, &FileError{Kind: FileErrOutOfBounds, Cause: errMissingTableRoot(n)}
	}

	pairPayload, pairHeader, err := g.m.Payload(rootRef)
	if err != nil {
		return nil, &FileError{Kind: FileErrIO, Cause: err}
	}
	headerRef, _, _ := core.SlotAt(pairPayload, pairHeader.WidthBits, 0)
	dataRef, _, _ := core.SlotAt(pairPayload, pairHeader.WidthBits, 1)

	spec, err := core.ParseTableSpec(g.m, headerRef, dataRef)
	if err != nil {
		return nil, &FileError{Kind: FileErrIO, Cause: err}
	}

	return newTable(g.m, spec, uint32(n)), nil
}

// GetTableByName performs a linear scan of table names (spec.md §4.9).
func (g *Group) GetTableByName(name string) (*Table, error) {
	count, err := g.TableCount()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < count; i++ {
		n, err := g.GetTableName(i)
		if err != nil {
			return nil, err
		}
		if n == name {
			return g.GetTable(i)
		}
	}
	return nil, &TableError{Kind: TableErrNotFound, Table: name}
}
