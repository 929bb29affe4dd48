package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/a/b", "/a/b"},
		{"/a/b/", "/a/b"},
		{"a/b", "/a/b"},
		{"//a///b", "/a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanPath(tt.in), "CleanPath(%q)", tt.in)
	}
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, SplitPath("/"))
	assert.Equal(t, []string{"a", "b"}, SplitPath("/a/b/"))
}

func TestParentAndBase(t *testing.T) {
	assert.Equal(t, "/a", ParentPath("/a/b"))
	assert.Equal(t, "/", ParentPath("/a"))
	assert.Equal(t, "b", BaseName("/a/b"))
	assert.Equal(t, "/", BaseName("/"))
	assert.Equal(t, "/a/b", JoinPath("/a/", "b"))
}

func TestIsSubtree(t *testing.T) {
	assert.True(t, IsSubtree("/a", "/a"))
	assert.True(t, IsSubtree("/a", "/a/b/c"))
	assert.True(t, IsSubtree("/", "/anything"))
	assert.False(t, IsSubtree("/a", "/ab"))
	assert.False(t, IsSubtree("/a/b", "/a"))
}

func TestValidateNames(t *testing.T) {
	assert.NoError(t, ValidateDatabaseName("my_db2"))
	assert.Error(t, ValidateDatabaseName("MyDB"))
	assert.Error(t, ValidateDatabaseName("x"))

	assert.NoError(t, ValidateDirName("reports-2026"))
	assert.Error(t, ValidateDirName(".."))
	assert.Error(t, ValidateDirName("-leading"))

	assert.NoError(t, ValidateFileName("report.final.pdf"))
	assert.Error(t, ValidateFileName("has space"))

	assert.NoError(t, ValidateCounterName("pages.home"))
	assert.Error(t, ValidateCounterName("no/slash"))
}

func TestDocumentFields(t *testing.T) {
	doc := map[string]any{
		"name": "alice",
		"address": map[string]any{
			"city": "rome",
		},
	}

	v, ok := GetField(doc, "address.city")
	assert.True(t, ok)
	assert.Equal(t, "rome", v)

	_, ok = GetField(doc, "address.zip")
	assert.False(t, ok)
	_, ok = GetField(doc, "name.first")
	assert.False(t, ok)

	SetField(doc, "address.zip", "00100")
	v, _ = GetField(doc, "address.zip")
	assert.Equal(t, "00100", v)

	// Setting through a scalar replaces it with an object.
	SetField(doc, "name.first", "a")
	v, _ = GetField(doc, "name.first")
	assert.Equal(t, "a", v)

	assert.True(t, RemoveField(doc, "address.city"))
	assert.False(t, RemoveField(doc, "address.city"))
	_, ok = GetField(doc, "address.city")
	assert.False(t, ok)
}

func TestProjectFields(t *testing.T) {
	doc := map[string]any{
		"a": float64(1),
		"b": map[string]any{"c": float64(2), "d": float64(3)},
	}
	out := ProjectFields(doc, []string{"a", "b.c", "ghost"})
	assert.Equal(t, map[string]any{
		"a": float64(1),
		"b": map[string]any{"c": float64(2)},
	}, out)
}

func TestCloneDocumentIsDeep(t *testing.T) {
	doc := map[string]any{
		"list":   []any{float64(1)},
		"nested": map[string]any{"k": "v"},
	}
	clone := CloneDocument(doc)
	clone["nested"].(map[string]any)["k"] = "changed"
	clone["list"].([]any)[0] = float64(9)

	assert.Equal(t, "v", doc["nested"].(map[string]any)["k"])
	assert.Equal(t, float64(1), doc["list"].([]any)[0])
}
