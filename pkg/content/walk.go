package content

import (
	"context"

	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// FileEntry pairs a file node with its full path, as produced by a subtree
// walk.
type FileEntry struct {
	Path string
	Node *Node
}

// CollectFiles walks each listed directory's full subtree and returns every
// file found, in path order within each root. Directories are walked
// depth-first; any listed directory failing to resolve aborts the whole
// collection. The snapshot is consistent: all roots are walked inside one
// read transaction.
func (s *Service) CollectFiles(ctx context.Context, db string, dirs []string) ([]FileEntry, error) {
	var out []FileEntry
	err := s.store.View(ctx, db, func(tx Tx) error {
		out = out[:0]
		for _, dir := range dirs {
			node, err := ResolveDir(tx, dir)
			if err != nil {
				return err
			}
			if err := collectSubtree(ctx, tx, node, CleanPath(dir), &out); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func collectSubtree(ctx context.Context, tx Tx, dir *Node, dirPath string, out *[]FileEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	children, err := tx.Children(dir.ID)
	if err != nil {
		return err
	}
	for _, entry := range children {
		child, err := tx.GetNode(entry.ID)
		if err != nil {
			return err
		}
		childPath := JoinPath(dirPath, child.Name)
		if child.IsDir() {
			if err := collectSubtree(ctx, tx, child, childPath, out); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, FileEntry{Path: childPath, Node: child})
	}
	return nil
}

// MutateFile applies fn to one file node inside its own write transaction.
// fn returning false (with nil error) means the node was intentionally left
// untouched; MutateFile reports that back so callers can count actual
// mutations. A node deleted between collection and mutation is treated as
// not mutated rather than an error.
func (s *Service) MutateFile(ctx context.Context, db string, id NodeID, fn func(n *Node) (bool, error)) (bool, error) {
	var mutated bool
	err := s.store.Update(ctx, db, func(tx Tx) error {
		mutated = false
		node, err := tx.GetNode(id)
		if err != nil {
			if cerrors.CodeOf(err) == cerrors.ErrPathNotFound {
				return nil
			}
			return err
		}
		if node.IsDir() {
			return nil
		}
		changed, err := fn(node)
		if err != nil || !changed {
			return err
		}
		if err := tx.PutNode(node); err != nil {
			return err
		}
		mutated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return mutated, nil
}
