// Package query evaluates parsed BQL statements against the content store:
// condition matching runs in-process over each candidate document, and the
// executor drives subtree collection, projection and bulk mutation.
package query

import (
	"math"
	"reflect"

	"github.com/marmos91/bytengine/pkg/bql"
	"github.com/marmos91/bytengine/pkg/content"
)

// ============================================================================
// Condition Evaluation
// ============================================================================
//
// A document matches a where clause when every And condition holds and, if
// the Or bucket is non-empty, at least one Or condition holds. A condition
// on a missing field never matches; only exists() observes absence itself.

// Matches reports whether a file satisfies the where clause. A nil clause
// matches everything.
func Matches(entry content.FileEntry, where *bql.Where) bool {
	if where == nil {
		return true
	}
	for i := range where.And {
		if !evalCondition(entry, &where.And[i]) {
			return false
		}
	}
	if len(where.Or) == 0 {
		return true
	}
	for i := range where.Or {
		if evalCondition(entry, &where.Or[i]) {
			return true
		}
	}
	return false
}

func evalCondition(entry content.FileEntry, cond *bql.Condition) bool {
	value, present := resolveField(entry, cond.Field)

	switch cond.Op {
	case bql.OpExists:
		return present == cond.Value.(bool)
	case bql.OpTypeof:
		if !present {
			return cond.Negate
		}
		return typeMatches(value, cond.Value.(string)) != cond.Negate
	case bql.OpRegex:
		s, ok := value.(string)
		if !present || !ok {
			return false
		}
		return cond.Pattern.MatchString(s)
	case bql.OpIn:
		if !present {
			return false
		}
		return containsValue(cond.Value.([]any), value)
	case bql.OpNotIn:
		if !present {
			return false
		}
		return !containsValue(cond.Value.([]any), value)
	case bql.OpEqual:
		return present && valuesEqual(value, cond.Value)
	case bql.OpNotEqual:
		return present && !valuesEqual(value, cond.Value)
	case bql.OpGreaterThan, bql.OpGreaterThanEquals, bql.OpLesserThan, bql.OpLesserThanEquals:
		if !present {
			return false
		}
		c, ok := compareValues(value, cond.Value)
		if !ok {
			return false
		}
		switch cond.Op {
		case bql.OpGreaterThan:
			return c > 0
		case bql.OpGreaterThanEquals:
			return c >= 0
		case bql.OpLesserThan:
			return c < 0
		default:
			return c <= 0
		}
	}
	return false
}

// resolveField reads the condition's operand off the file: a dotted lookup
// into the document, or one of the metadata pseudo-fields.
func resolveField(entry content.FileEntry, ref bql.FieldRef) (any, bool) {
	switch ref.Meta {
	case bql.MetaName:
		return entry.Node.Name, true
	case bql.MetaIsPublic:
		return entry.Node.Public, true
	case bql.MetaMime:
		if entry.Node.Attachment == nil {
			return nil, false
		}
		return entry.Node.Attachment.Mime, true
	case bql.MetaSize:
		if entry.Node.Attachment == nil {
			return nil, false
		}
		return float64(entry.Node.Attachment.Size), true
	}
	return content.GetField(entry.Node.Content, ref.Path)
}

// typeMatches checks a value against a BQL type name. "int" means a number
// with an integral value; "number" covers all numerics.
func typeMatches(value any, typename string) bool {
	switch typename {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := asFloat(value)
		return ok
	case "int":
		f, ok := asFloat(value)
		return ok && f == math.Trunc(f)
	case "bool":
		_, ok := value.(bool)
		return ok
	case "null":
		return value == nil
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	}
	return false
}

// ============================================================================
// Value Comparison
// ============================================================================

// asFloat normalizes the numeric types a document can carry after JSON
// decoding or programmatic construction.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// valuesEqual compares two document values: numerics by value, everything
// else by deep equality.
func valuesEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values when they are of a comparable kind
// (numbers with numbers, strings with strings). Mixed kinds do not compare.
func compareValues(a, b any) (int, bool) {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func containsValue(list []any, v any) bool {
	for _, e := range list {
		if valuesEqual(e, v) {
			return true
		}
	}
	return false
}
