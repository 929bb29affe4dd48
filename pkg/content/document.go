package content

import "strings"

// ============================================================================
// Dotted-Path Document Access
// ============================================================================
//
// Document fields are addressed with dotted paths ("name.first" descends
// nested objects). Absence is never an error at this layer: lookups report a
// boolean, removals report whether anything was removed.

// GetField returns the value at a dotted path inside a document.
func GetField(doc map[string]any, field string) (any, bool) {
	segments := strings.Split(field, ".")
	var current any = doc
	for _, segment := range segments {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetField writes a value at a dotted path, creating intermediate objects
// along the way. An existing non-object intermediate is overwritten with an
// object, matching whole-value replacement semantics.
func SetField(doc map[string]any, field string, value any) {
	segments := strings.Split(field, ".")
	current := doc
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// RemoveField deletes the value at a dotted path. It reports whether a value
// was actually removed. Intermediate objects are left in place even when
// they become empty.
func RemoveField(doc map[string]any, field string) bool {
	segments := strings.Split(field, ".")
	current := doc
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	last := segments[len(segments)-1]
	if _, ok := current[last]; !ok {
		return false
	}
	delete(current, last)
	return true
}

// ProjectFields builds a new document containing only the named dotted
// paths. Absent fields are omitted, never an error.
func ProjectFields(doc map[string]any, fields []string) map[string]any {
	out := make(map[string]any)
	for _, field := range fields {
		if v, ok := GetField(doc, field); ok {
			SetField(out, field, cloneValue(v))
		}
	}
	return out
}
