package realmdb

import (
	"time"

	"github.com/arcfile/realmdb/internal/core"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindInt
	KindBool
	KindString
	KindBinary
	KindTable
	KindTimestamp
	KindFloat
	KindDouble
	KindLink
	KindLinkList
	KindBackLink
)

// Link is a reference to a row in another table.
type Link = core.Link

// Backlink records that some row in an origin table's column points at
// the row this backlink belongs to.
type Backlink = core.Backlink

// Value is the closed tagged union of row-cell values (spec.md §3, §4.10).
type Value struct {
	kind ValueKind
	raw  any
}

// NoneValue is the null/absent value.
var NoneValue = Value{kind: KindNone}

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNone reports whether v is the null variant.
func (v Value) IsNone() bool { return v.kind == KindNone }

func (v Value) typeMismatch(field string, want ValueKind) error {
	return &ValueError{Kind: ValueErrTypeMismatch, Field: field,
		Cause: errKindMismatch(want, v.kind)}
}

// Int returns the Int variant, or a ValueError if v holds another kind.
func (v Value) Int() (int64, error) {
	if v.kind != KindInt {
		return 0, v.typeMismatch("", KindInt)
	}
	return v.raw.(int64), nil
}

// Bool returns the Bool variant.
func (v Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, v.typeMismatch("", KindBool)
	}
	return v.raw.(bool), nil
}

// Str returns the String variant.
func (v Value) Str() (string, error) {
	if v.kind != KindString {
		return "", v.typeMismatch("", KindString)
	}
	return v.raw.(string), nil
}

// Bytes returns the Binary variant.
func (v Value) Bytes() ([]byte, error) {
	if v.kind != KindBinary {
		return nil, v.typeMismatch("", KindBinary)
	}
	return v.raw.([]byte), nil
}

// Rows returns the materialized rows of the Table variant.
func (v Value) Rows() ([]Row, error) {
	if v.kind != KindTable {
		return nil, &ValueError{Kind: ValueErrExpectedSubtable, Cause: errKindMismatch(KindTable, v.kind)}
	}
	return v.raw.([]Row), nil
}

// Time returns the Timestamp variant.
func (v Value) Time() (time.Time, error) {
	if v.kind != KindTimestamp {
		return time.Time{}, v.typeMismatch("", KindTimestamp)
	}
	return v.raw.(time.Time), nil
}

// Float32 returns the Float variant.
func (v Value) Float32() (float32, error) {
	if v.kind != KindFloat {
		return 0, v.typeMismatch("", KindFloat)
	}
	return v.raw.(float32), nil
}

// Float64 returns the Double variant.
func (v Value) Float64() (float64, error) {
	if v.kind != KindDouble {
		return 0, v.typeMismatch("", KindDouble)
	}
	return v.raw.(float64), nil
}

// LinkValue returns the Link variant.
func (v Value) LinkValue() (Link, error) {
	if v.kind != KindLink {
		return Link{}, v.typeMismatch("", KindLink)
	}
	return v.raw.(Link), nil
}

// LinkListValue returns the LinkList variant.
func (v Value) LinkListValue() ([]Link, error) {
	if v.kind != KindLinkList {
		return nil, v.typeMismatch("", KindLinkList)
	}
	return v.raw.([]Link), nil
}

// Conversions from primitive Go types into Value.
func IntValue(v int64) Value       { return Value{kind: KindInt, raw: v} }
func BoolValue(v bool) Value       { return Value{kind: KindBool, raw: v} }
func StringValue(v string) Value   { return Value{kind: KindString, raw: v} }
func BytesValue(v []byte) Value    { return Value{kind: KindBinary, raw: v} }
func TimeValue(v time.Time) Value  { return Value{kind: KindTimestamp, raw: v} }
func Float32Value(v float32) Value { return Value{kind: KindFloat, raw: v} }
func Float64Value(v float64) Value { return Value{kind: KindDouble, raw: v} }

// valueFromRaw converts a core.Column.Get result into a Value, recursively
// materializing subtables (spec.md §4.8: "rows are already materialized").
func valueFromRaw(m *core.Mapping, colType core.ColumnType, raw any) (Value, error) {
	if raw == nil {
		switch colType {
		case core.ColLinkList, core.ColBackLink:
			// never null by construction; fall through to normal decode
		default:
			return NoneValue, nil
		}
	}

	switch colType {
	case core.ColInt:
		return Value{kind: KindInt, raw: raw.(int64)}, nil
	case core.ColBool:
		return Value{kind: KindBool, raw: raw.(bool)}, nil
	case core.ColString:
		return Value{kind: KindString, raw: raw.(string)}, nil
	case core.ColBinary:
		return Value{kind: KindBinary, raw: raw.([]byte)}, nil
	case core.ColTimestamp:
		return Value{kind: KindTimestamp, raw: raw.(time.Time)}, nil
	case core.ColFloat:
		return Value{kind: KindFloat, raw: raw.(float32)}, nil
	case core.ColDouble:
		return Value{kind: KindDouble, raw: raw.(float64)}, nil
	case core.ColLink:
		return Value{kind: KindLink, raw: raw.(core.Link)}, nil
	case core.ColLinkList:
		return Value{kind: KindLinkList, raw: raw.([]core.Link)}, nil
	case core.ColTable:
		return valueFromSubtable(m, raw.(core.SubtableRef))
	default:
		return NoneValue, nil
	}
}

func valueFromSubtable(m *core.Mapping, ref core.SubtableRef) (Value, error) {
	if ref.DataRef == 0 {
		return Value{kind: KindTable, raw: []Row{}}, nil
	}

	spec, err := core.ParseTableSpec(m, ref.HeaderRef, ref.DataRef)
	if err != nil {
		return Value{}, &FileError{Kind: FileErrIO, Cause: err}
	}

	rows, err := newTable(m, spec, subtableNumber).GetRows()
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindTable, raw: rows}, nil
}

func errKindMismatch(want, got ValueKind) error {
	return &kindMismatchError{want: want, got: got}
}

type kindMismatchError struct {
	want, got ValueKind
}

func (e *kindMismatchError) Error() string {
	return "value kind mismatch"
}
