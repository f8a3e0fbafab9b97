package realmdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcfile/realmdb/internal/core"
	"github.com/arcfile/realmdb/internal/core/corebuild"
)

// openFixture finalizes b to a temp file rooted at root (the group's
// top-ref) and opens it through the public File API, closing it
// automatically at test end.
func openFixture(t *testing.T, b *corebuild.Builder, root core.Ref) *File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.db")
	require.NoError(t, b.Finalize(path, root))

	f, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}
