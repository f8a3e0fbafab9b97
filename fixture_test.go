package realmdb

import (
	"testing"

	"github.com/arcfile/realmdb/internal/core"
	"github.com/arcfile/realmdb/internal/core/corebuild"
)

// buildArrayRowSubtable writes a primitive-list subtable: a shared
// single-column "!ARRAY_VALUE" header plus one data root per parent row.
// A nil tags slice yields the zero (empty) data root.
func buildArrayRowSubtable(b *corebuild.Builder, perRowTags [][]string) (headerRef core.Ref, dataRoots []core.Ref) {
	placeholderRoot := b.ShortStringLeaf(nil, 1)
	headerRef, _ = b.BuildTableSpec([]corebuild.ColumnDef{
		{Type: core.ColString, Name: arrayValueKey, DataRoot: placeholderRoot},
	})

	dataRoots = make([]core.Ref, len(perRowTags))
	for i, tags := range perRowTags {
		if tags == nil {
			dataRoots[i] = 0
			continue
		}
		width := 1
		for _, s := range tags {
			if len(s)+1 > width {
				width = len(s) + 1
			}
		}
		ptrs := make([]*string, len(tags))
		for j := range tags {
			s := tags[j]
			ptrs[j] = &s
		}
		strRoot := b.ShortStringLeaf(ptrs, width)
		dataRoots[i] = b.RefArray([]uint64{uint64(strRoot)})
	}
	return headerRef, dataRoots
}

// peopleFixture builds a single-table "people" group exercising every
// column kind spec.md §8's scenarios cover: an indexed string, a nullable
// int, a medium-blob string, a double, a bool, a timestamp, a self Link,
// a self LinkList, the matching BackLink, and a primitive-list subtable.
//
// Rows: 0=alice, 1=bob, 2=charlie.
//   best_friend: alice->bob, bob->(none), charlie->alice
//   friends:     alice->[bob,charlie], bob->[], charlie->[alice]
//   fans (backlink of friends): alice<-[charlie], bob<-[alice], charlie<-[alice]
//   tags: alice->["vip","early-adopter"], bob->[](empty subtable), charlie->["vip"]
func peopleFixture(t *testing.T) *File {
	t.Helper()
	b := corebuild.New()

	alice, bob, charlie := "alice", "bob", "charlie"
	nameRoot := b.ShortStringLeaf([]*string{&alice, &bob, &charlie}, 8)
	nameIdx := b.BuildIndex([]corebuild.IndexEntry{
		{Key: mustCoerce(t, "alice"), Row: 0},
		{Key: mustCoerce(t, "bob"), Row: 1},
		{Key: mustCoerce(t, "charlie"), Row: 2},
	})

	thirty, twentyFive := int64(30), int64(25)
	ageRoot := b.IntNullableLeaf([]*int64{&thirty, nil, &twentyFive}, 8)

	bioAlice := "loves open source and long bicycle rides through the hills"
	bioBob := "short"
	bioCharlie := "keeps a garden and a small orchard out back of the house"
	bioRoot := b.MediumBlob([][]byte{[]byte(bioAlice), []byte(bioBob), []byte(bioCharlie)}, true)

	scoreRoot := b.DoubleLeaf([]float64{9.5, 7.25, 8.0})
	activeRoot := b.BoolLeaf([]bool{true, false, true})

	secs := b.IntNullableLeaf([]*int64{i64p(1_700_000_000), i64p(1_700_000_100), i64p(1_700_000_200)}, 64)
	nanos := b.IntLeaf([]int64{0, 0, 0}, 32)
	joinedRoot := b.TimestampComposite(secs, nanos)

	bestFriendRoot := b.LinkLeaf([]*uint64{u64p(1), nil, u64p(0)})
	friendsRoot := b.LinkListLeaf([][]uint64{{1, 2}, {}, {0}})
	fansRoot := b.BacklinkLeaf([][]uint64{{2}, {0}, {0}})

	tagsHeader, tagsData := buildArrayRowSubtable(b, [][]string{
		{"vip", "early-adopter"},
		nil,
		{"vip"},
	})
	tagsRoot := b.RefArray([]uint64{uint64(tagsData[0]), uint64(tagsData[1]), uint64(tagsData[2])})

	header, data := b.BuildTableSpec([]corebuild.ColumnDef{
		{Type: core.ColString, Name: "name", Attrs: core.AttrIndexed, DataRoot: nameRoot, IndexRoot: nameIdx},
		{Type: core.ColInt, Name: "age", Attrs: core.AttrNullable, DataRoot: ageRoot},
		{Type: core.ColString, Name: "bio", DataRoot: bioRoot},
		{Type: core.ColDouble, Name: "score", DataRoot: scoreRoot},
		{Type: core.ColBool, Name: "active", DataRoot: activeRoot},
		{Type: core.ColTimestamp, Name: "joined", DataRoot: joinedRoot},
		{Type: core.ColLink, Name: "best_friend", DataRoot: bestFriendRoot, SubSpec: []uint64{corebuild.Tagged(0)}},
		{Type: core.ColLinkList, Name: "friends", DataRoot: friendsRoot, SubSpec: []uint64{corebuild.Tagged(0)}},
		{Type: core.ColBackLink, DataRoot: fansRoot, SubSpec: []uint64{corebuild.Tagged(0), corebuild.Tagged(1)}},
		{Type: core.ColTable, Name: "tags", DataRoot: tagsRoot, SubSpec: []uint64{uint64(tagsHeader)}},
	})

	tableRoot := b.TableRoot(header, data)
	groupRoot := b.BuildGroup([]string{"people"}, []core.Ref{tableRoot})

	return openFixture(t, b, groupRoot)
}

func mustCoerce(t *testing.T, v any) []byte {
	t.Helper()
	k, err := core.CoerceIndexKey(v)
	if err != nil {
		t.Fatalf("CoerceIndexKey(%v): %v", v, err)
	}
	return k
}

func i64p(v int64) *int64   { return &v }
func u64p(v uint64) *uint64 { return &v }
