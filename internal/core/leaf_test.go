package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcfile/realmdb/internal/core"
	"github.com/arcfile/realmdb/internal/core/corebuild"
)

func TestIntegerNullableLeaf(t *testing.T) {
	b := corebuild.New()
	v0 := int64(0)
	v2 := int64(-1)
	root := b.IntNullableLeaf([]*int64{&v0, nil, &v2}, 64)
	m := openFixture(t, b, root)

	got0, err := (core.IntegerNullableLeaf{}).Get(m, root, 0)
	require.NoError(t, err)
	require.NotNil(t, got0)
	require.Equal(t, int64(0), *got0)

	got1, err := (core.IntegerNullableLeaf{}).Get(m, root, 1)
	require.NoError(t, err)
	require.Nil(t, got1)

	got2, err := (core.IntegerNullableLeaf{}).Get(m, root, 2)
	require.NoError(t, err)
	require.Equal(t, int64(-1), *got2)
}

func TestIntegerNullableLeaf_WidthZeroIsAllNull(t *testing.T) {
	b := corebuild.New()
	root := b.IntNullableLeaf([]*int64{nil, nil}, 0)
	m := openFixture(t, b, root)

	v, err := (core.IntegerNullableLeaf{}).Get(m, root, 0)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestBoolLeaf(t *testing.T) {
	b := corebuild.New()
	root := b.BoolLeaf([]bool{true, false, true})
	m := openFixture(t, b, root)

	for i, want := range []bool{true, false, true} {
		got, err := (core.BoolLeaf{}).Get(m, root, uint64(i))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestFloatDoubleLeaf(t *testing.T) {
	b := corebuild.New()
	fRoot := b.FloatLeaf([]float32{1.5, -2.25})
	dRoot := b.DoubleLeaf([]float64{3.14159, -1})
	m := openFixture(t, b, b.Root())

	f0, err := (core.FloatLeaf{}).Get(m, fRoot, 0)
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f0)

	d1, err := (core.DoubleLeaf{}).Get(m, dRoot, 1)
	require.NoError(t, err)
	require.Equal(t, float64(-1), d1)
}

func TestShortStringLeaf(t *testing.T) {
	b := corebuild.New()
	hi := "hi"
	empty := ""
	root := b.ShortStringLeaf([]*string{&hi, &empty, nil}, 8)
	m := openFixture(t, b, root)

	v0, null0, err := (core.ShortStringLeaf{Nullable: true}).Get(m, root, 0)
	require.NoError(t, err)
	require.False(t, null0)
	require.Equal(t, "hi", v0)

	v1, null1, err := (core.ShortStringLeaf{Nullable: true}).Get(m, root, 1)
	require.NoError(t, err)
	require.False(t, null1)
	require.Equal(t, "", v1)

	_, null2, err := (core.ShortStringLeaf{Nullable: true}).Get(m, root, 2)
	require.NoError(t, err)
	require.True(t, null2)
}

func TestMediumBlobLeaf_StringsNulStripped(t *testing.T) {
	b := corebuild.New()
	payload := make([]byte, 500)
	for i := range payload {
		payload[i] = byte('a' + i%26)
	}
	root := b.MediumBlob([][]byte{[]byte("short"), payload}, true)
	m := openFixture(t, b, root)

	leaf := core.MediumBlobLeaf{AsString: true}
	v0, null0, err := leaf.Get(m, root, 0)
	require.NoError(t, err)
	require.False(t, null0)
	require.Equal(t, "short", v0)

	v1, null1, err := leaf.Get(m, root, 1)
	require.NoError(t, err)
	require.False(t, null1)
	require.Equal(t, string(payload), v1)
}

func TestLongBlobLeaf(t *testing.T) {
	b := corebuild.New()
	big := make([]byte, 10_000)
	for i := range big {
		big[i] = byte(i)
	}
	root := b.LongBlobLeaf([][]byte{big, nil}, false)
	m := openFixture(t, b, root)

	leaf := core.LongBlobLeaf{AsString: false}
	v0, null0, err := leaf.Get(m, root, 0)
	require.NoError(t, err)
	require.False(t, null0)
	require.Equal(t, big, v0)

	_, null1, err := leaf.Get(m, root, 1)
	require.NoError(t, err)
	require.True(t, null1)
}

func TestTimestampLeaf(t *testing.T) {
	b := corebuild.New()
	s0 := int64(1_700_000_000)
	nanosRoot := b.IntLeaf([]int64{0, 0, 500}, 32)
	secondsRoot := b.IntNullableLeaf([]*int64{&s0, nil, nil}, 64)
	root := b.TimestampComposite(secondsRoot, nanosRoot)
	m := openFixture(t, b, root)

	leaf := core.TimestampLeaf{}
	v0, null0, err := leaf.Get(m, root, 0)
	require.NoError(t, err)
	require.False(t, null0)
	require.Equal(t, time.Unix(s0, 0).UTC(), v0)

	// Null via nullable-integer sentinel.
	_, null1, err := leaf.Get(m, root, 1)
	require.NoError(t, err)
	require.True(t, null1)
}

func TestTimestampLeaf_LegacyZeroZeroIsNull(t *testing.T) {
	b := corebuild.New()
	zero := int64(0)
	secondsRoot := b.IntNullableLeaf([]*int64{&zero}, 64)
	nanosRoot := b.IntLeaf([]int64{0}, 32)
	root := b.TimestampComposite(secondsRoot, nanosRoot)
	m := openFixture(t, b, root)

	_, isNull, err := (core.TimestampLeaf{}).Get(m, root, 0)
	require.NoError(t, err)
	require.True(t, isNull)
}

func TestLinkLeaf(t *testing.T) {
	b := corebuild.New()
	row5 := uint64(5)
	root := b.LinkLeaf([]*uint64{&row5, nil})
	m := openFixture(t, b, root)

	leaf := core.LinkLeaf{TargetTable: 3}
	l0, err := leaf.Get(m, root, 0)
	require.NoError(t, err)
	require.Equal(t, &core.Link{TargetTable: 3, Row: 5}, l0)

	l1, err := leaf.Get(m, root, 1)
	require.NoError(t, err)
	require.Nil(t, l1)
}

func TestLinkListLeaf(t *testing.T) {
	b := corebuild.New()
	root := b.LinkListLeaf([][]uint64{{}, {7}, {1, 2, 3}})
	m := openFixture(t, b, root)

	leaf := core.LinkListLeaf{TargetTable: 2}

	empty, err := leaf.Get(m, root, 0)
	require.NoError(t, err)
	require.Empty(t, empty)

	single, err := leaf.Get(m, root, 1)
	require.NoError(t, err)
	require.Equal(t, []core.Link{{TargetTable: 2, Row: 7}}, single)

	multi, err := leaf.Get(m, root, 2)
	require.NoError(t, err)
	require.Equal(t, []core.Link{{TargetTable: 2, Row: 1}, {TargetTable: 2, Row: 2}, {TargetTable: 2, Row: 3}}, multi)
}

func TestBacklinkLeaf(t *testing.T) {
	b := corebuild.New()
	root := b.BacklinkLeaf([][]uint64{{}, {0}})
	m := openFixture(t, b, root)

	leaf := core.BacklinkLeaf{OriginTable: 0, OriginColumn: 1}

	bl0, err := leaf.Get(m, root, 0)
	require.NoError(t, err)
	require.Empty(t, bl0.RowNumbers)

	bl1, err := leaf.Get(m, root, 1)
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, bl1.RowNumbers)
}
