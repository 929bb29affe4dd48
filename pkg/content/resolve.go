package content

import (
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// Resolve walks the content tree from the root, consuming one path segment
// per level. It fails with PathNotFound as soon as a segment is missing or a
// file shows up where a directory was expected. Resolution is case-sensitive
// and total: either the whole path resolves or the call fails.
func Resolve(tx Tx, p string) (*Node, error) {
	rootID, err := tx.RootID()
	if err != nil {
		return nil, err
	}
	node, err := tx.GetNode(rootID)
	if err != nil {
		return nil, err
	}

	for _, segment := range SplitPath(p) {
		if !node.IsDir() {
			return nil, cerrors.NewPathNotFoundError(CleanPath(p))
		}
		childID, ok, err := tx.GetChild(node.ID, segment)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, cerrors.NewPathNotFoundError(CleanPath(p))
		}
		node, err = tx.GetNode(childID)
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

// ResolveDir resolves a path and requires the result to be a directory.
func ResolveDir(tx Tx, p string) (*Node, error) {
	node, err := Resolve(tx, p)
	if err != nil {
		return nil, err
	}
	if !node.IsDir() {
		return nil, cerrors.NewPathNotFoundError(CleanPath(p))
	}
	return node, nil
}

// ResolveFile resolves a path and requires the result to be a file.
func ResolveFile(tx Tx, p string) (*Node, error) {
	node, err := Resolve(tx, p)
	if err != nil {
		return nil, err
	}
	if node.IsDir() {
		return nil, cerrors.NewNotFileError(CleanPath(p))
	}
	return node, nil
}
