package realmdb

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// arrayValueKey is the reserved single-column name a primitive-typed
// subtable (e.g. a column declared as a list of ints rather than a list
// of structs) uses for its lone field, mirroring the original reader's
// ARRAY_VALUE_KEY convention (spec.md §7, original_source/src/value/mod.rs).
const arrayValueKey = "!ARRAY_VALUE"

// ProjectRow copies row's fields into dst, a pointer to a struct whose
// fields carry a `realmdb:"column_name"` tag (or `realmdb:"-,backlinks"`
// to receive the row's backlinks instead of a named column). This is the
// Go realization of the original's field-list-with-aliases projection
// macro (spec.md §6).
func ProjectRow(row Row, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("realmdb: ProjectRow requires a non-nil pointer to a struct, got %T", dst)
	}
	sv := rv.Elem()
	st := sv.Type()

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		tag, ok := field.Tag.Lookup("realmdb")
		if !ok {
			continue
		}
		name, opts := splitTag(tag)

		if hasOpt(opts, "backlinks") {
			if err := assignBacklinks(sv.Field(i), row.Backlinks()); err != nil {
				return &ValueError{Kind: ValueErrElementConversion, Field: field.Name, Cause: err}
			}
			continue
		}

		v, err := row.Get(name)
		if err != nil {
			if hasOpt(opts, "optional") {
				continue
			}
			return err
		}
		if err := assignValue(sv.Field(i), v); err != nil {
			var ve *ValueError
			if errors.As(err, &ve) {
				return ve
			}
			return &ValueError{Kind: ValueErrElementConversion, Field: name, Cause: err}
		}
	}
	return nil
}

func splitTag(tag string) (name string, opts []string) {
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

func hasOpt(opts []string, want string) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}

func assignBacklinks(dst reflect.Value, bl []Backlink) error {
	if dst.Type() != reflect.TypeOf([]Backlink{}) {
		return fmt.Errorf("backlinks field must be []realmdb.Backlink, got %s", dst.Type())
	}
	dst.Set(reflect.ValueOf(bl))
	return nil
}

func assignValue(dst reflect.Value, v Value) error {
	if v.IsNone() {
		switch dst.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		default:
			return fmt.Errorf("cannot assign None to non-pointer field of type %s", dst.Type())
		}
	}

	switch v.Kind() {
	case KindInt:
		n, _ := v.Int()
		return assignInt(dst, n)
	case KindBool:
		b, _ := v.Bool()
		return assignScalar(dst, reflect.ValueOf(b))
	case KindString:
		s, _ := v.Str()
		return assignScalar(dst, reflect.ValueOf(s))
	case KindBinary:
		b, _ := v.Bytes()
		return assignScalar(dst, reflect.ValueOf(b))
	case KindFloat:
		f, _ := v.Float32()
		return assignFloat(dst, float64(f))
	case KindDouble:
		f, _ := v.Float64()
		return assignFloat(dst, f)
	case KindTimestamp:
		t, _ := v.Time()
		return assignScalar(dst, reflect.ValueOf(t))
	case KindLink:
		l, _ := v.LinkValue()
		return assignScalar(dst, reflect.ValueOf(l))
	case KindLinkList:
		l, _ := v.LinkListValue()
		return assignScalar(dst, reflect.ValueOf(l))
	case KindTable:
		rows, _ := v.Rows()
		return assignTable(dst, rows)
	default:
		return fmt.Errorf("unsupported value kind %d", v.Kind())
	}
}

func assignInt(dst reflect.Value, n int64) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(n)
		return nil
	case reflect.Ptr:
		elem := reflect.New(dst.Type().Elem())
		if err := assignInt(elem.Elem(), n); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	default:
		return fmt.Errorf("cannot assign int64 to field of type %s", dst.Type())
	}
}

func assignFloat(dst reflect.Value, f float64) error {
	switch dst.Kind() {
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(f)
		return nil
	case reflect.Ptr:
		elem := reflect.New(dst.Type().Elem())
		if err := assignFloat(elem.Elem(), f); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	default:
		return fmt.Errorf("cannot assign float to field of type %s", dst.Type())
	}
}

func assignScalar(dst reflect.Value, v reflect.Value) error {
	if dst.Kind() == reflect.Ptr {
		elem := reflect.New(dst.Type().Elem())
		if err := assignScalar(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	if !v.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("cannot assign %s to field of type %s", v.Type(), dst.Type())
	}
	dst.Set(v)
	return nil
}

func assignTable(dst reflect.Value, rows []Row) error {
	if dst.Kind() != reflect.Slice {
		return fmt.Errorf("subtable field must be a slice, got %s", dst.Type())
	}
	elemType := dst.Type().Elem()
	out := reflect.MakeSlice(dst.Type(), len(rows), len(rows))
	for i, r := range rows {
		if elemType.Kind() != reflect.Struct {
			v, err := arrayRowValue(r)
			if err != nil {
				return err
			}
			ev := reflect.New(elemType)
			if err := assignValue(ev.Elem(), v); err != nil {
				return &ValueError{Kind: ValueErrElementConversion, Field: arrayValueKey, Cause: err}
			}
			out.Index(i).Set(ev.Elem())
			continue
		}

		ev := reflect.New(elemType)
		if err := ProjectRow(r, ev.Interface()); err != nil {
			return err
		}
		out.Index(i).Set(ev.Elem())
	}
	dst.Set(out)
	return nil
}

// arrayRowValue extracts the lone field of a single-field "array row" — a
// subtable row shape used when a column holds a list of primitives rather
// than a list of structs (spec.md §7 "expected an array-row"). A row
// lacking the reserved field name is a projection error, not a missing
// struct field.
func arrayRowValue(r Row) (Value, error) {
	v, err := r.Get(arrayValueKey)
	if err != nil {
		return Value{}, &ValueError{Kind: ValueErrExpectedArrayRow, Field: arrayValueKey,
			Cause: fmt.Errorf("expected a row with field %q", arrayValueKey)}
	}
	return v, nil
}
