package core

import "time"

// TimestampLeaf reads a timestamp column, stored not as a B+Tree of
// per-row composites but as a fixed 2-element ref array naming a nullable
// seconds subtree and a non-nullable nanoseconds subtree, each an
// independent (possibly B+Tree) column in its own right.
type TimestampLeaf struct{}

func (TimestampLeaf) roots(m *Mapping, root Ref) (secondsRoot, nanosRoot Ref, err error) {
	payload, header, err := m.Payload(root)
	if err != nil {
		return 0, 0, err
	}
	s, _, _ := slotAt(payload, header.WidthBits, 0)
	n, _, _ := slotAt(payload, header.WidthBits, 1)
	return s, n, nil
}

// Get returns the decoded instant, or (zero, true, nil) if the row is null.
// Null is primarily the nullable-integer sentinel on seconds; for legacy
// files, seconds==0 && nanos==0 is also treated as null (spec.md §9).
func (l TimestampLeaf) Get(m *Mapping, root Ref, index uint64) (time.Time, bool, error) {
	secondsRoot, nanosRoot, err := l.roots(m, root)
	if err != nil {
		return time.Time{}, false, err
	}

	secs, err := (IntegerNullableLeaf{}).Get(m, secondsRoot, index)
	if err != nil {
		return time.Time{}, false, err
	}
	if secs == nil {
		return time.Time{}, true, nil
	}

	nanos, err := (IntegerLeaf{}).Get(m, nanosRoot, index)
	if err != nil {
		return time.Time{}, false, err
	}

	if *secs == 0 && nanos == 0 {
		return time.Time{}, true, nil
	}

	return time.Unix(*secs, nanos).UTC(), false, nil
}

// Size returns the column's row count, delegating to the seconds subtree.
func (l TimestampLeaf) Size(m *Mapping, root Ref) (uint64, error) {
	secondsRoot, _, err := l.roots(m, root)
	if err != nil {
		return 0, err
	}
	return (IntegerNullableLeaf{}).Size(m, secondsRoot)
}
