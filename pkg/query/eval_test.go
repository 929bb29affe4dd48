package query

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marmos91/bytengine/pkg/bql"
	"github.com/marmos91/bytengine/pkg/content"
)

func entryWith(doc map[string]any) content.FileEntry {
	return content.FileEntry{
		Path: "/users/alice",
		Node: &content.Node{
			Name:    "alice",
			Type:    content.TypeFile,
			Content: doc,
		},
	}
}

func whereAnd(conds ...bql.Condition) *bql.Where {
	return &bql.Where{And: conds}
}

func TestMatches_NilWhere(t *testing.T) {
	assert.True(t, Matches(entryWith(nil), nil))
}

func TestMatches_Equality(t *testing.T) {
	entry := entryWith(map[string]any{"age": float64(30), "city": "rome", "active": true})

	tests := []struct {
		name string
		cond bql.Condition
		want bool
	}{
		{"string equal", bql.Condition{Field: bql.FieldRef{Path: "city"}, Op: bql.OpEqual, Value: "rome"}, true},
		{"string not equal op", bql.Condition{Field: bql.FieldRef{Path: "city"}, Op: bql.OpNotEqual, Value: "milan"}, true},
		{"number equal across types", bql.Condition{Field: bql.FieldRef{Path: "age"}, Op: bql.OpEqual, Value: int64(30)}, true},
		{"bool equal", bql.Condition{Field: bql.FieldRef{Path: "active"}, Op: bql.OpEqual, Value: true}, true},
		{"wrong value", bql.Condition{Field: bql.FieldRef{Path: "city"}, Op: bql.OpEqual, Value: "milan"}, false},
		{"missing field never matches", bql.Condition{Field: bql.FieldRef{Path: "email"}, Op: bql.OpEqual, Value: "x"}, false},
		{"missing field not-equal still no match", bql.Condition{Field: bql.FieldRef{Path: "email"}, Op: bql.OpNotEqual, Value: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(entry, whereAnd(tt.cond)))
		})
	}
}

func TestMatches_Ordering(t *testing.T) {
	entry := entryWith(map[string]any{"age": float64(30), "name": "alice"})

	tests := []struct {
		name string
		op   bql.CompareOp
		val  any
		want bool
	}{
		{"greater", bql.OpGreaterThan, float64(18), true},
		{"greater equal boundary", bql.OpGreaterThanEquals, float64(30), true},
		{"lesser", bql.OpLesserThan, float64(18), false},
		{"lesser equal boundary", bql.OpLesserThanEquals, float64(30), true},
		{"mixed kinds never compare", bql.OpGreaterThan, "18", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := bql.Condition{Field: bql.FieldRef{Path: "age"}, Op: tt.op, Value: tt.val}
			assert.Equal(t, tt.want, Matches(entry, whereAnd(cond)))
		})
	}

	// Strings order lexicographically.
	cond := bql.Condition{Field: bql.FieldRef{Path: "name"}, Op: bql.OpLesserThan, Value: "bob"}
	assert.True(t, Matches(entry, whereAnd(cond)))
}

func TestMatches_Membership(t *testing.T) {
	entry := entryWith(map[string]any{"city": "rome", "tier": float64(2)})

	in := bql.Condition{Field: bql.FieldRef{Path: "city"}, Op: bql.OpIn, Value: []any{"rome", "milan"}}
	assert.True(t, Matches(entry, whereAnd(in)))

	nin := bql.Condition{Field: bql.FieldRef{Path: "tier"}, Op: bql.OpNotIn, Value: []any{float64(1), float64(3)}}
	assert.True(t, Matches(entry, whereAnd(nin)))

	// Membership on a missing field fails both ways.
	missing := bql.Condition{Field: bql.FieldRef{Path: "zone"}, Op: bql.OpNotIn, Value: []any{"a"}}
	assert.False(t, Matches(entry, whereAnd(missing)))
}

func TestMatches_Exists(t *testing.T) {
	entry := entryWith(map[string]any{"email": "a@b.c", "ghost": nil})

	has := bql.Condition{Field: bql.FieldRef{Path: "email"}, Op: bql.OpExists, Value: true}
	assert.True(t, Matches(entry, whereAnd(has)))

	absent := bql.Condition{Field: bql.FieldRef{Path: "phone"}, Op: bql.OpExists, Value: false}
	assert.True(t, Matches(entry, whereAnd(absent)))

	// A field holding null still exists.
	null := bql.Condition{Field: bql.FieldRef{Path: "ghost"}, Op: bql.OpExists, Value: true}
	assert.True(t, Matches(entry, whereAnd(null)))
}

func TestMatches_Typeof(t *testing.T) {
	entry := entryWith(map[string]any{
		"name":   "alice",
		"age":    float64(30),
		"score":  float64(1.5),
		"flag":   true,
		"none":   nil,
		"tags":   []any{"a"},
		"nested": map[string]any{"k": "v"},
	})

	tests := []struct {
		field    string
		typename string
		want     bool
	}{
		{"name", "string", true},
		{"age", "number", true},
		{"age", "int", true},
		{"score", "number", true},
		{"score", "int", false},
		{"flag", "bool", true},
		{"none", "null", true},
		{"tags", "array", true},
		{"nested", "object", true},
		{"name", "number", false},
	}
	for _, tt := range tests {
		cond := bql.Condition{Field: bql.FieldRef{Path: tt.field}, Op: bql.OpTypeof, Value: tt.typename}
		assert.Equal(t, tt.want, Matches(entry, whereAnd(cond)), "typeof(%q) == %q", tt.field, tt.typename)
	}

	// Negated form.
	neg := bql.Condition{Field: bql.FieldRef{Path: "name"}, Op: bql.OpTypeof, Value: "number", Negate: true}
	assert.True(t, Matches(entry, whereAnd(neg)))

	// typeof on a missing field matches only the negated form.
	missing := bql.Condition{Field: bql.FieldRef{Path: "gone"}, Op: bql.OpTypeof, Value: "string"}
	assert.False(t, Matches(entry, whereAnd(missing)))
	missing.Negate = true
	assert.True(t, Matches(entry, whereAnd(missing)))
}

func TestMatches_Regex(t *testing.T) {
	entry := entryWith(map[string]any{"name": "Alice", "age": float64(30)})

	cond := bql.Condition{
		Field:   bql.FieldRef{Path: "name"},
		Op:      bql.OpRegex,
		Pattern: regexp.MustCompile(`(?i)^al`),
	}
	assert.True(t, Matches(entry, whereAnd(cond)))

	// Regex only applies to string values.
	cond.Field = bql.FieldRef{Path: "age"}
	assert.False(t, Matches(entry, whereAnd(cond)))
}

func TestMatches_MetaFields(t *testing.T) {
	entry := content.FileEntry{
		Path: "/users/report.pdf",
		Node: &content.Node{
			Name:   "report.pdf",
			Type:   content.TypeFile,
			Public: true,
			Attachment: &content.Attachment{
				Ref:  "obj1",
				Mime: "application/pdf",
				Size: 2048,
			},
		},
	}

	name := bql.Condition{Field: bql.FieldRef{Meta: bql.MetaName}, Op: bql.OpEqual, Value: "report.pdf"}
	assert.True(t, Matches(entry, whereAnd(name)))

	mime := bql.Condition{Field: bql.FieldRef{Meta: bql.MetaMime}, Op: bql.OpEqual, Value: "application/pdf"}
	assert.True(t, Matches(entry, whereAnd(mime)))

	size := bql.Condition{Field: bql.FieldRef{Meta: bql.MetaSize}, Op: bql.OpGreaterThan, Value: float64(1024)}
	assert.True(t, Matches(entry, whereAnd(size)))

	public := bql.Condition{Field: bql.FieldRef{Meta: bql.MetaIsPublic}, Op: bql.OpEqual, Value: true}
	assert.True(t, Matches(entry, whereAnd(public)))

	// Mime and size need an attachment.
	bare := entryWith(map[string]any{})
	assert.False(t, Matches(bare, whereAnd(mime)))
	assert.False(t, Matches(bare, whereAnd(size)))
}

func TestMatches_OrBucket(t *testing.T) {
	entry := entryWith(map[string]any{"age": float64(21), "active": true})

	// (age == 21 || age == 22) && active == true
	where := &bql.Where{
		And: []bql.Condition{
			{Field: bql.FieldRef{Path: "active"}, Op: bql.OpEqual, Value: true},
		},
		Or: []bql.Condition{
			{Field: bql.FieldRef{Path: "age"}, Op: bql.OpEqual, Value: float64(21)},
			{Field: bql.FieldRef{Path: "age"}, Op: bql.OpEqual, Value: float64(22)},
		},
	}
	assert.True(t, Matches(entry, where))

	// No or-condition holds.
	where.Or[0].Value = float64(19)
	where.Or[1].Value = float64(20)
	assert.False(t, Matches(entry, where))

	// And-condition fails even though an or-condition holds.
	where.Or[0].Value = float64(21)
	where.And[0].Value = false
	assert.False(t, Matches(entry, where))
}

func TestMatches_DottedFields(t *testing.T) {
	entry := entryWith(map[string]any{
		"address": map[string]any{"city": "rome", "zip": "00100"},
	})

	cond := bql.Condition{Field: bql.FieldRef{Path: "address.city"}, Op: bql.OpEqual, Value: "rome"}
	assert.True(t, Matches(entry, whereAnd(cond)))

	cond.Field.Path = "address.country"
	assert.False(t, Matches(entry, whereAnd(cond)))
}
