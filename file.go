// Package realmdb is a read-only reader for a proprietary, memory-mapped,
// copy-on-write column-store database file. It exposes the file's logical
// content — a collection of named tables, each with typed columns and
// rows — without ever mutating the underlying bytes and without
// reconstructing the whole graph in memory. Callers open a file, obtain
// the root group, pick a table by name or ordinal, and read rows by
// ordinal or by probing an indexed column.
package realmdb

import (
	"sync"

	"github.com/arcfile/realmdb/internal/core"
	"github.com/arcfile/realmdb/internal/utils"
)

// File is an opened database file. The mapping it holds is shared by
// every Group/Table/Row/Value descendant obtained from it; closing the
// file invalidates all of them.
type File struct {
	m    *core.Mapping
	opts options

	closeOnce sync.Once
	closeErr  error
}

// Open maps path read-only and parses its file header.
func Open(path string, opts ...Option) (*File, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m, err := core.OpenMapping(path)
	if err != nil {
		return nil, &FileError{Kind: FileErrIO, Cause: err}
	}

	return &File{m: m, opts: o}, nil
}

// Close unmaps the file. It is safe to call more than once.
func (f *File) Close() error {
	f.closeOnce.Do(func() {
		f.closeErr = f.m.Close()
	})
	return f.closeErr
}

// Group returns the root group: the table-name/table-root directory named
// by the file header's active top-reference.
func (f *File) Group() (*Group, error) {
	return newGroup(f.m, f.m.ActiveTop(), f.opts)
}

func wrapFileErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return &FileError{Kind: FileErrIO, Cause: utils.WrapError(context, err)}
}
