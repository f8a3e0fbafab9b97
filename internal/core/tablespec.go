package core

// TableSpec is the parsed header/spec of a table: its columns in
// declaration order, each already bound to its data (and optional index)
// root.
type TableSpec struct {
	Columns []*Column
}

// wrapPtr lifts a pointer-returning leaf accessor into the any-typed,
// nil-for-null convention used uniformly by Column.Get.
func wrapPtr[T any](v *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return *v, nil
}

// readSubSpecSlot reads the raw slot at idx from the sub-spec array,
// decoded as either a ref (Table entries) or a tagged inline number
// (Link/LinkList/BackLink entries).
func readSubSpecSlot(m *Mapping, subSpecRef Ref, idx uint64) (Ref, uint64, error) {
	payload, header, err := m.Payload(subSpecRef)
	if err != nil {
		return 0, 0, err
	}
	ref, tagged, _ := slotAt(payload, header.WidthBits, idx)
	return ref, tagged, nil
}

// ParseTableSpec parses a table's header array (column types, names,
// attributes, optional sub-spec) and binds each column to its data (and
// optional index) root from the table's data array, per spec.md §4.7.
func ParseTableSpec(m *Mapping, headerRef, dataRef Ref) (*TableSpec, error) {
	headerPayload, headerHeader, err := m.Payload(headerRef)
	if err != nil {
		return nil, err
	}

	typesRef, _, _ := slotAt(headerPayload, headerHeader.WidthBits, 0)
	namesRef, _, _ := slotAt(headerPayload, headerHeader.WidthBits, 1)
	attrsRef, _, _ := slotAt(headerPayload, headerHeader.WidthBits, 2)

	var subSpecRef Ref
	if headerHeader.Size == 4 {
		subSpecRef, _, _ = slotAt(headerPayload, headerHeader.WidthBits, 3)
	}

	colCount, err := (IntegerLeaf{}).Size(m, typesRef)
	if err != nil {
		return nil, err
	}

	dataPayload, dataHeader, err := m.Payload(dataRef)
	if err != nil {
		return nil, err
	}

	columns := make([]*Column, 0, colCount)
	dataSlot := uint64(0)
	subSpecIdx := uint64(0)

	for i := uint64(0); i < colCount; i++ {
		typeTag, err := (IntegerLeaf{}).Get(m, typesRef, i)
		if err != nil {
			return nil, err
		}
		colType := ColumnType(typeTag)

		name, _, err := (ShortStringLeaf{}).Get(m, namesRef, i)
		if err != nil {
			return nil, err
		}

		attrVal, err := (IntegerLeaf{}).Get(m, attrsRef, i)
		if err != nil {
			return nil, err
		}
		attrs := Attributes(attrVal)

		dataRoot, _, _ := slotAt(dataPayload, dataHeader.WidthBits, dataSlot)
		var indexRoot Ref
		if attrs.Has(AttrIndexed) {
			indexRoot, _, _ = slotAt(dataPayload, dataHeader.WidthBits, dataSlot+1)
			dataSlot += 2
		} else {
			dataSlot++
		}

		col := &Column{
			Name:      name,
			Type:      colType,
			Attrs:     attrs,
			DataRoot:  dataRoot,
			IndexRoot: indexRoot,
			m:         m,
		}

		switch colType {
		case ColInt:
			if attrs.Has(AttrNullable) {
				col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
					return wrapPtr((IntegerNullableLeaf{}).Get(m, root, row))
				}
			} else {
				col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
					return (IntegerLeaf{}).Get(m, root, row)
				}
			}
			col.sizeFn = leafSize

		case ColBool:
			if attrs.Has(AttrNullable) {
				col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
					return wrapPtr((BoolNullableLeaf{}).Get(m, root, row))
				}
			} else {
				col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
					return (BoolLeaf{}).Get(m, root, row)
				}
			}
			col.sizeFn = leafSize

		case ColFloat:
			if attrs.Has(AttrNullable) {
				col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
					return wrapPtr((FloatNullableLeaf{}).Get(m, root, row))
				}
			} else {
				col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
					return (FloatLeaf{}).Get(m, root, row)
				}
			}
			col.sizeFn = leafSize

		case ColDouble:
			if attrs.Has(AttrNullable) {
				col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
					return wrapPtr((DoubleNullableLeaf{}).Get(m, root, row))
				}
			} else {
				col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
					return (DoubleLeaf{}).Get(m, root, row)
				}
			}
			col.sizeFn = leafSize

		case ColString:
			leaf := StringLeaf{Nullable: attrs.Has(AttrNullable)}
			col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
				v, isNull, err := leaf.Get(m, root, row)
				if err != nil || isNull {
					return nil, err
				}
				return v, nil
			}
			col.sizeFn = leafSize

		case ColBinary:
			col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
				v, isNull, err := (BinaryLeaf{}).Get(m, root, row)
				if err != nil || isNull {
					return nil, err
				}
				return v, nil
			}
			col.sizeFn = leafSize

		case ColTimestamp:
			col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
				v, isNull, err := (TimestampLeaf{}).Get(m, root, row)
				if err != nil || isNull {
					return nil, err
				}
				return v, nil
			}
			col.sizeFn = (TimestampLeaf{}).Size

		case ColTable:
			subtableHeaderRef, _, err := readSubSpecSlot(m, subSpecRef, subSpecIdx)
			if err != nil {
				return nil, err
			}
			subSpecIdx++
			leaf := SubtableLeaf{HeaderRef: subtableHeaderRef}
			col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
				return leaf.Get(m, root, row)
			}
			col.sizeFn = leafSize

		case ColLink:
			_, targetTable, err := readSubSpecSlot(m, subSpecRef, subSpecIdx)
			if err != nil {
				return nil, err
			}
			subSpecIdx++
			leaf := LinkLeaf{TargetTable: uint32(targetTable)}
			col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
				return wrapPtr(leaf.Get(m, root, row))
			}
			col.sizeFn = leafSize

		case ColLinkList:
			_, targetTable, err := readSubSpecSlot(m, subSpecRef, subSpecIdx)
			if err != nil {
				return nil, err
			}
			subSpecIdx++
			leaf := LinkListLeaf{TargetTable: uint32(targetTable)}
			col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
				return leaf.Get(m, root, row)
			}
			col.sizeFn = leafSize

		case ColBackLink:
			_, originTable, err := readSubSpecSlot(m, subSpecRef, subSpecIdx)
			if err != nil {
				return nil, err
			}
			subSpecIdx++
			_, originColumn, err := readSubSpecSlot(m, subSpecRef, subSpecIdx)
			if err != nil {
				return nil, err
			}
			subSpecIdx++
			col.Name = "" // backlinks are unnamed (spec.md §3)
			leaf := BacklinkLeaf{OriginTable: uint32(originTable), OriginColumn: uint32(originColumn)}
			col.getFn = func(m *Mapping, root Ref, row uint64) (any, error) {
				return leaf.Get(m, root, row)
			}
			col.sizeFn = leafSize

		default:
			// Legacy/reserved type tags: decoded structurally to keep
			// cursor arithmetic correct, never exposed as a value.
			col.getFn = func(*Mapping, Ref, uint64) (any, error) { return nil, nil }
			col.sizeFn = leafSize
		}

		columns = append(columns, col)
	}

	return &TableSpec{Columns: columns}, nil
}
