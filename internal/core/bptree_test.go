package core_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcfile/realmdb/internal/core"
	"github.com/arcfile/realmdb/internal/core/corebuild"
)

func openFixture(t *testing.T, b *corebuild.Builder, root core.Ref) *core.Mapping {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.db")
	require.NoError(t, b.Finalize(path, root))
	m, err := core.OpenMapping(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestBPTree_CompactForm(t *testing.T) {
	b := corebuild.New()

	const epc = 100
	const total = 10_000
	var children []core.Ref
	var allValues []int64
	for start := 0; start < total; start += epc {
		end := start + epc
		if end > total {
			end = total
		}
		vals := make([]int64, end-start)
		for i := range vals {
			vals[i] = int64(start + i)
		}
		allValues = append(allValues, vals...)
		children = append(children, b.IntLeaf(vals, 32))
	}
	root := b.InnerBPTreeCompact(children, epc, total)

	m := openFixture(t, b, root)

	n, err := (core.IntegerLeaf{}).Size(m, root)
	require.NoError(t, err)
	require.Equal(t, uint64(total), n)

	v, err := (core.IntegerLeaf{}).Get(m, root, total-1)
	require.NoError(t, err)
	require.Equal(t, int64(total-1), v)

	// Every 100th row crosses a child boundary with no drift.
	for i := 0; i < total; i += epc {
		v, err := (core.IntegerLeaf{}).Get(m, root, uint64(i))
		require.NoError(t, err)
		require.Equal(t, int64(i), v)
	}
}

func TestBPTree_GeneralForm(t *testing.T) {
	b := corebuild.New()

	// Uneven subtree sizes to force the general (offsets-array) form.
	sizes := []int{37, 52, 11, 90}
	var children []core.Ref
	var offsets []uint64
	var cum uint64
	var allValues []int64
	val := int64(0)
	for _, sz := range sizes {
		vals := make([]int64, sz)
		for i := range vals {
			vals[i] = val
			allValues = append(allValues, val)
			val++
		}
		children = append(children, b.IntLeaf(vals, 32))
		cum += uint64(sz)
		offsets = append(offsets, cum)
	}
	root := b.InnerBPTreeGeneral(children, offsets, 16)

	m := openFixture(t, b, root)

	n, err := (core.IntegerLeaf{}).Size(m, root)
	require.NoError(t, err)
	require.Equal(t, uint64(len(allValues)), n)

	for i, want := range allValues {
		v, err := (core.IntegerLeaf{}).Get(m, root, uint64(i))
		require.NoError(t, err)
		require.Equal(t, want, v, "mismatch at index %d", i)
	}
}

func TestBPTree_LeafRoot(t *testing.T) {
	b := corebuild.New()
	root := b.IntLeaf([]int64{10, 20, 30}, 8)
	m := openFixture(t, b, root)

	n, err := (core.IntegerLeaf{}).Size(m, root)
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)

	v, err := (core.IntegerLeaf{}).Get(m, root, 1)
	require.NoError(t, err)
	require.Equal(t, int64(20), v)
}
