package query

import (
	"context"
	"sort"

	"github.com/marmos91/bytengine/pkg/bql"
	"github.com/marmos91/bytengine/pkg/content"
)

// ============================================================================
// Statements
// ============================================================================

// SelectStatement is a parsed select query ready for execution.
type SelectStatement struct {
	Fields   []string
	Dirs     []string
	Where    *bql.Where
	Sort     []bql.SortKey
	Limit    int64 // -1 means no limit
	Distinct string
	Count    bool
}

// SetStatement is a parsed set mutation.
type SetStatement struct {
	Fields map[string]any
	Incr   map[string]float64
	Dirs   []string
	Where  *bql.Where
}

// UnsetStatement is a parsed unset mutation.
type UnsetStatement struct {
	Fields []string
	Dirs   []string
	Where  *bql.Where
}

// Record is one select result row.
type Record struct {
	Path    string         `json:"path"`
	Content map[string]any `json:"content"`
}

// Executor runs query statements against a content service. Mutations run
// per document: each matching file is updated in its own transaction, so a
// wide set/unset never blocks a database behind one long write.
type Executor struct {
	svc *content.Service
}

// NewExecutor creates an executor over the given content service.
func NewExecutor(svc *content.Service) *Executor {
	return &Executor{svc: svc}
}

// ============================================================================
// select
// ============================================================================

// Select evaluates the statement and returns either the matching document
// count (count form), the distinct value list (distinct form) or the
// projected result records.
func (e *Executor) Select(ctx context.Context, db string, stmt SelectStatement) (any, error) {
	entries, err := e.svc.CollectFiles(ctx, db, stmt.Dirs)
	if err != nil {
		return nil, err
	}

	matched := entries[:0]
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if Matches(entry, stmt.Where) {
			matched = append(matched, entry)
		}
	}

	// count short-circuits every other modifier.
	if stmt.Count {
		return len(matched), nil
	}

	if stmt.Distinct != "" {
		return e.selectDistinct(matched, stmt), nil
	}

	sortEntries(matched, stmt.Sort)
	if stmt.Limit >= 0 && int64(len(matched)) > stmt.Limit {
		matched = matched[:stmt.Limit]
	}

	records := make([]Record, 0, len(matched))
	for _, entry := range matched {
		doc := entry.Node.Content
		if len(stmt.Fields) > 0 {
			doc = content.ProjectFields(doc, stmt.Fields)
		} else {
			doc = content.CloneDocument(doc)
		}
		records = append(records, Record{Path: entry.Path, Content: doc})
	}
	return records, nil
}

// selectDistinct gathers the distinct values of one field across the
// matched documents; sort and limit then apply to the value list.
func (e *Executor) selectDistinct(matched []content.FileEntry, stmt SelectStatement) []any {
	values := []any{}
	for _, entry := range matched {
		v, ok := content.GetField(entry.Node.Content, stmt.Distinct)
		if !ok {
			continue
		}
		if !containsValue(values, v) {
			values = append(values, v)
		}
	}

	if len(stmt.Sort) > 0 {
		desc := stmt.Sort[0].Descending
		sort.SliceStable(values, func(i, j int) bool {
			c, ok := compareValues(values[i], values[j])
			if !ok {
				return false
			}
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	if stmt.Limit >= 0 && int64(len(values)) > stmt.Limit {
		values = values[:stmt.Limit]
	}
	return values
}

// sortEntries orders result entries by the sort keys. Entries missing a
// sort field order after entries carrying it; ties fall through to the
// next key, then to path order for a stable result.
func sortEntries(entries []content.FileEntry, keys []bql.SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		for _, key := range keys {
			vi, oki := content.GetField(entries[i].Node.Content, key.Field)
			vj, okj := content.GetField(entries[j].Node.Content, key.Field)
			if !oki && !okj {
				continue
			}
			if oki != okj {
				return oki
			}
			c, ok := compareValues(vi, vj)
			if !ok || c == 0 {
				continue
			}
			if key.Descending {
				return c > 0
			}
			return c < 0
		}
		return entries[i].Path < entries[j].Path
	})
}

// ============================================================================
// set / unset
// ============================================================================

// Set applies field assignments and numeric increments to every matching
// document, returning how many documents were mutated. An increment whose
// target is missing or non-numeric skips that document without aborting
// the statement.
func (e *Executor) Set(ctx context.Context, db string, stmt SetStatement) (int, error) {
	entries, err := e.svc.CollectFiles(ctx, db, stmt.Dirs)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if !Matches(entry, stmt.Where) {
			continue
		}
		mutated, err := e.svc.MutateFile(ctx, db, entry.Node.ID, func(n *content.Node) (bool, error) {
			for field, delta := range stmt.Incr {
				current, ok := content.GetField(n.Content, field)
				if !ok {
					return false, nil
				}
				f, ok := asFloat(current)
				if !ok {
					return false, nil
				}
				content.SetField(n.Content, field, f+delta)
			}
			for field, value := range stmt.Fields {
				content.SetField(n.Content, field, value)
			}
			return true, nil
		})
		if err != nil {
			return count, err
		}
		if mutated {
			count++
		}
	}
	return count, nil
}

// Unset removes fields from every matching document, returning how many
// documents actually lost at least one field.
func (e *Executor) Unset(ctx context.Context, db string, stmt UnsetStatement) (int, error) {
	entries, err := e.svc.CollectFiles(ctx, db, stmt.Dirs)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if !Matches(entry, stmt.Where) {
			continue
		}
		mutated, err := e.svc.MutateFile(ctx, db, entry.Node.ID, func(n *content.Node) (bool, error) {
			removed := false
			for _, field := range stmt.Fields {
				if content.RemoveField(n.Content, field) {
					removed = true
				}
			}
			return removed, nil
		})
		if err != nil {
			return count, err
		}
		if mutated {
			count++
		}
	}
	return count, nil
}
