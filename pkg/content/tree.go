package content

import (
	"context"
	"time"

	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// ============================================================================
// Structural Operations
// ============================================================================
//
// Every structural mutation runs inside a single store transaction, so
// concurrent conflicting operations (two creates claiming the same sibling
// name, a move racing a delete) resolve with exactly one winner.

// NewDir creates a directory at the given path.
func (s *Service) NewDir(ctx context.Context, db, p string) error {
	return s.createNode(ctx, db, p, func(parent NodeID) (*Node, error) {
		name := BaseName(p)
		if err := ValidateDirName(name); err != nil {
			return nil, err
		}
		return NewDirNode(name, parent), nil
	})
}

// NewFile creates a file at the given path with the given document body.
// The document root must be a JSON object.
func (s *Service) NewFile(ctx context.Context, db, p string, doc map[string]any) error {
	if doc == nil {
		return cerrors.NewInvalidJSONError("document root must be a JSON object")
	}
	return s.createNode(ctx, db, p, func(parent NodeID) (*Node, error) {
		name := BaseName(p)
		if err := ValidateFileName(name); err != nil {
			return nil, err
		}
		return NewFileNode(name, parent, CloneDocument(doc)), nil
	})
}

// createNode holds the shared creation flow: resolve the parent, check for
// sibling collisions, insert the node built by the callback.
func (s *Service) createNode(ctx context.Context, db, p string, build func(parent NodeID) (*Node, error)) error {
	p = CleanPath(p)
	if p == "/" {
		return cerrors.NewAlreadyExistsError("/")
	}

	return s.store.Update(ctx, db, func(tx Tx) error {
		parent, err := Resolve(tx, ParentPath(p))
		if err != nil {
			if cerrors.CodeOf(err) == cerrors.ErrPathNotFound {
				return cerrors.NewParentNotFoundError(ParentPath(p))
			}
			return err
		}
		if !parent.IsDir() {
			return cerrors.NewParentIsFileError(ParentPath(p))
		}

		name := BaseName(p)
		if _, taken, err := tx.GetChild(parent.ID, name); err != nil {
			return err
		} else if taken {
			return cerrors.NewAlreadyExistsError(p)
		}

		node, err := build(parent.ID)
		if err != nil {
			return err
		}
		if err := tx.PutNode(node); err != nil {
			return err
		}
		return tx.SetChild(parent.ID, name, node.ID)
	})
}

// ListDir lists a directory's children grouped by kind and sorted by name.
// The optional filter is a case-insensitive regex applied to child names.
func (s *Service) ListDir(ctx context.Context, db, p, filter string) (*DirListing, error) {
	re, err := compileListFilter(filter)
	if err != nil {
		return nil, err
	}

	listing := &DirListing{Dirs: []string{}, Files: []string{}, BFiles: []string{}}
	err = s.store.View(ctx, db, func(tx Tx) error {
		dir, err := ResolveDir(tx, p)
		if err != nil {
			return err
		}
		children, err := tx.Children(dir.ID)
		if err != nil {
			return err
		}
		for _, entry := range children {
			if re != nil && !re.MatchString(entry.Name) {
				continue
			}
			child, err := tx.GetNode(entry.ID)
			if err != nil {
				return err
			}
			switch {
			case child.IsDir():
				listing.Dirs = append(listing.Dirs, child.Name)
			case child.Attachment != nil:
				listing.BFiles = append(listing.BFiles, child.Name)
			default:
				listing.Files = append(listing.Files, child.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// Delete removes a node recursively, including every descendant's
// attachment bytes. Forbidden on root.
func (s *Service) Delete(ctx context.Context, db, p string) error {
	p = CleanPath(p)
	if p == "/" {
		return cerrors.NewRootImmutableError("deleted")
	}

	var refs []string
	err := s.store.Update(ctx, db, func(tx Tx) error {
		refs = refs[:0]
		node, err := Resolve(tx, p)
		if err != nil {
			return err
		}
		if err := tx.RemoveChild(node.Parent, node.Name); err != nil {
			return err
		}
		return s.deleteSubtree(tx, node, &refs)
	})
	if err != nil {
		return err
	}

	for _, ref := range refs {
		if err := s.blobs.Delete(ctx, db, ref); err != nil {
			return err
		}
	}
	return nil
}

// deleteSubtree removes a node and all descendants, accumulating attachment
// references for the caller to purge from the bytestore.
func (s *Service) deleteSubtree(tx Tx, node *Node, refs *[]string) error {
	if node.IsDir() {
		children, err := tx.Children(node.ID)
		if err != nil {
			return err
		}
		for _, entry := range children {
			child, err := tx.GetNode(entry.ID)
			if err != nil {
				return err
			}
			if err := tx.RemoveChild(node.ID, entry.Name); err != nil {
				return err
			}
			if err := s.deleteSubtree(tx, child, refs); err != nil {
				return err
			}
		}
	} else if node.Attachment != nil {
		*refs = append(*refs, node.Attachment.Ref)
	}
	return tx.DeleteNode(node.ID)
}

// Rename changes a node's name in place. Forbidden on root.
func (s *Service) Rename(ctx context.Context, db, p, newName string) error {
	p = CleanPath(p)
	if p == "/" {
		return cerrors.NewRootImmutableError("renamed")
	}

	return s.store.Update(ctx, db, func(tx Tx) error {
		node, err := Resolve(tx, p)
		if err != nil {
			return err
		}
		if err := validateNodeName(newName, node.Type); err != nil {
			return err
		}
		if _, taken, err := tx.GetChild(node.Parent, newName); err != nil {
			return err
		} else if taken {
			return cerrors.NewAlreadyExistsError(JoinPath(ParentPath(p), newName))
		}

		if err := tx.RemoveChild(node.Parent, node.Name); err != nil {
			return err
		}
		node.Name = newName
		if err := tx.PutNode(node); err != nil {
			return err
		}
		return tx.SetChild(node.Parent, newName, node.ID)
	})
}

// Move reparents a node under the destination directory, keeping its name.
// Moving a directory into its own subtree is rejected.
func (s *Service) Move(ctx context.Context, db, from, toDir string) error {
	from = CleanPath(from)
	toDir = CleanPath(toDir)
	if from == "/" {
		return cerrors.NewRootImmutableError("moved")
	}
	if IsSubtree(from, toDir) {
		return cerrors.NewIllegalOperationError("illegal move operation")
	}

	return s.store.Update(ctx, db, func(tx Tx) error {
		dest, err := Resolve(tx, toDir)
		if err != nil {
			if cerrors.CodeOf(err) == cerrors.ErrPathNotFound {
				return cerrors.NewParentNotFoundError(toDir)
			}
			return err
		}
		if !dest.IsDir() {
			return cerrors.NewParentIsFileError(toDir)
		}

		node, err := Resolve(tx, from)
		if err != nil {
			return err
		}
		if _, taken, err := tx.GetChild(dest.ID, node.Name); err != nil {
			return err
		} else if taken {
			return cerrors.NewAlreadyExistsError(JoinPath(toDir, node.Name))
		}

		if err := tx.RemoveChild(node.Parent, node.Name); err != nil {
			return err
		}
		node.Parent = dest.ID
		if err := tx.PutNode(node); err != nil {
			return err
		}
		return tx.SetChild(dest.ID, node.Name, node.ID)
	})
}

// Copy deep-clones a node (and, for directories, its whole subtree) to the
// destination path. The destination's base name becomes the copy's name.
// Attachment references are duplicated only when the service's
// CopyAttachmentRefs policy says so; bytes are never duplicated.
func (s *Service) Copy(ctx context.Context, db, from, to string) error {
	from = CleanPath(from)
	to = CleanPath(to)
	if from == "/" {
		return cerrors.NewRootImmutableError("copied")
	}
	if IsSubtree(from, ParentPath(to)) {
		return cerrors.NewIllegalOperationError("illegal copy operation")
	}

	return s.store.Update(ctx, db, func(tx Tx) error {
		destParent, err := Resolve(tx, ParentPath(to))
		if err != nil {
			if cerrors.CodeOf(err) == cerrors.ErrPathNotFound {
				return cerrors.NewParentNotFoundError(ParentPath(to))
			}
			return err
		}
		if !destParent.IsDir() {
			return cerrors.NewParentIsFileError(ParentPath(to))
		}

		src, err := Resolve(tx, from)
		if err != nil {
			return err
		}
		newName := BaseName(to)
		if err := validateNodeName(newName, src.Type); err != nil {
			return err
		}
		if _, taken, err := tx.GetChild(destParent.ID, newName); err != nil {
			return err
		} else if taken {
			return cerrors.NewAlreadyExistsError(to)
		}

		return s.copySubtree(tx, src, destParent.ID, newName)
	})
}

// copySubtree clones src under destParent with the given name, recursing
// through directories. Every clone gets a fresh id and creation timestamp.
func (s *Service) copySubtree(tx Tx, src *Node, destParent NodeID, name string) error {
	clone := src.Clone()
	clone.ID = NewNodeID()
	clone.Name = name
	clone.Parent = destParent
	clone.Created = time.Now().UTC()
	if !s.copyRefs {
		clone.Attachment = nil
	}

	if err := tx.PutNode(clone); err != nil {
		return err
	}
	if err := tx.SetChild(destParent, name, clone.ID); err != nil {
		return err
	}

	if !src.IsDir() {
		return nil
	}
	children, err := tx.Children(src.ID)
	if err != nil {
		return err
	}
	for _, entry := range children {
		child, err := tx.GetNode(entry.ID)
		if err != nil {
			return err
		}
		if err := s.copySubtree(tx, child, clone.ID, child.Name); err != nil {
			return err
		}
	}
	return nil
}

// Info returns a node's metadata.
func (s *Service) Info(ctx context.Context, db, p string) (*Info, error) {
	p = CleanPath(p)

	var info *Info
	err := s.store.View(ctx, db, func(tx Tx) error {
		node, err := Resolve(tx, p)
		if err != nil {
			return err
		}

		parent := ParentPath(p)
		if node.IsRoot() {
			parent = ""
		}
		info = &Info{
			Type:    string(node.Type),
			Name:    node.Name,
			Parent:  parent,
			Created: FormatTimestamp(node.Created),
			Public:  node.Public,
		}
		if node.IsDir() {
			children, err := tx.Children(node.ID)
			if err != nil {
				return err
			}
			info.ContentCount = len(children)
		} else {
			info.Attachment = node.Attachment != nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// SetAccess flips a node's public flag. For directories the flag is copied
// down to every descendant at call time; later moves into the subtree do
// not inherit it.
func (s *Service) SetAccess(ctx context.Context, db, p string, public bool) error {
	return s.store.Update(ctx, db, func(tx Tx) error {
		node, err := Resolve(tx, p)
		if err != nil {
			return err
		}
		return s.setAccessSubtree(tx, node, public)
	})
}

func (s *Service) setAccessSubtree(tx Tx, node *Node, public bool) error {
	node.Public = public
	if err := tx.PutNode(node); err != nil {
		return err
	}
	if !node.IsDir() {
		return nil
	}
	children, err := tx.Children(node.ID)
	if err != nil {
		return err
	}
	for _, entry := range children {
		child, err := tx.GetNode(entry.ID)
		if err != nil {
			return err
		}
		if err := s.setAccessSubtree(tx, child, public); err != nil {
			return err
		}
	}
	return nil
}
