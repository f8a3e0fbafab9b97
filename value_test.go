package realmdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_KindMismatchErrors(t *testing.T) {
	v := IntValue(42)
	require.Equal(t, KindInt, v.Kind())
	require.False(t, v.IsNone())

	n, err := v.Int()
	require.NoError(t, err)
	require.Equal(t, int64(42), n)

	_, err = v.Str()
	require.Error(t, err)
	var ve *ValueError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, ValueErrTypeMismatch, ve.Kind)
}

func TestValue_NoneValue(t *testing.T) {
	require.True(t, NoneValue.IsNone())
	require.Equal(t, KindNone, NoneValue.Kind())

	_, err := NoneValue.Int()
	require.Error(t, err)
}

func TestValue_RowsOnNonTableKindReportsExpectedSubtable(t *testing.T) {
	v := StringValue("not a table")
	_, err := v.Rows()
	require.Error(t, err)
	var ve *ValueError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, ValueErrExpectedSubtable, ve.Kind)
}

func TestValue_Constructors(t *testing.T) {
	b, err := BoolValue(true).Bool()
	require.NoError(t, err)
	require.True(t, b)

	bytes, err := BytesValue([]byte("hi")).Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), bytes)

	f32, err := Float32Value(1.5).Float32()
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32)

	f64, err := Float64Value(2.5).Float64()
	require.NoError(t, err)
	require.Equal(t, 2.5, f64)
}

func TestRow_TakeAndEntries(t *testing.T) {
	tbl := peopleTable(t)
	row, err := tbl.GetRow(0)
	require.NoError(t, err)

	require.True(t, row.HasField("name"))
	require.False(t, row.HasField("nope"))

	entries := row.Entries()
	require.Contains(t, entries, "name")
	require.Contains(t, entries, "age")

	v, err := row.Take("name")
	require.NoError(t, err)
	s, err := v.Str()
	require.NoError(t, err)
	require.Equal(t, "alice", s)

	require.False(t, row.HasField("name"), "Take removes the field")

	_, err = row.Get("name")
	require.Error(t, err)
	var ve *ValueError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, ValueErrMissingField, ve.Kind)
}
