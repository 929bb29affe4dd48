// Package content implements the hierarchical content store at the heart of
// Bytengine: per-database directory trees whose leaves are JSON documents,
// plus named integer counters and optional binary attachments.
//
// The package is organized like a storage service: typed domain objects and
// path handling live here, the Service wraps a pluggable store.Store with all
// business logic (validation, collision checks, recursive operations), and
// the store backends under store/ stay free of policy.
package content

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NodeID uniquely identifies a node within a database.
type NodeID string

// NewNodeID returns a fresh random node identifier.
func NewNodeID() NodeID {
	return NodeID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// NodeType discriminates directories from files.
type NodeType string

const (
	TypeDirectory NodeType = "directory"
	TypeFile      NodeType = "file"
)

// Attachment describes the binary payload associated with a file node.
// The bytes themselves live in a bytestore; Ref is the opaque object name.
type Attachment struct {
	Ref  string `json:"ref"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
}

// Node is a single entry in a database's content tree. Parent is a weak
// back-reference (an identifier, not a pointer) used for path reconstruction;
// the authoritative parent/child relation is the store's child index.
type Node struct {
	ID      NodeID    `json:"id"`
	Name    string    `json:"name"`
	Type    NodeType  `json:"type"`
	Parent  NodeID    `json:"parent,omitempty"`
	Created time.Time `json:"created"`
	Public  bool      `json:"public"`

	// Content is the JSON document body. Files only; always a JSON object,
	// never a bare scalar or array.
	Content map[string]any `json:"content,omitempty"`

	// Attachment is the optional binary payload descriptor. Files only.
	Attachment *Attachment `json:"attachment,omitempty"`
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Type == TypeDirectory
}

// IsRoot reports whether the node is a database's root directory.
func (n *Node) IsRoot() bool {
	return n.Parent == "" && n.Name == "/"
}

// Clone returns a deep copy of the node. Stores hand out clones so callers
// can never mutate persisted state through a shared map.
func (n *Node) Clone() *Node {
	c := *n
	if n.Content != nil {
		c.Content = CloneDocument(n.Content)
	}
	if n.Attachment != nil {
		a := *n.Attachment
		c.Attachment = &a
	}
	return &c
}

// NewRootNode builds the root directory for a fresh database. Root is public
// by construction.
func NewRootNode() *Node {
	return &Node{
		ID:      NewNodeID(),
		Name:    "/",
		Type:    TypeDirectory,
		Created: time.Now().UTC(),
		Public:  true,
	}
}

// NewDirNode builds a directory node under the given parent.
func NewDirNode(name string, parent NodeID) *Node {
	return &Node{
		ID:      NewNodeID(),
		Name:    name,
		Type:    TypeDirectory,
		Parent:  parent,
		Created: time.Now().UTC(),
	}
}

// NewFileNode builds a file node under the given parent with the given
// document body.
func NewFileNode(name string, parent NodeID, doc map[string]any) *Node {
	return &Node{
		ID:      NewNodeID(),
		Name:    name,
		Type:    TypeFile,
		Parent:  parent,
		Created: time.Now().UTC(),
		Content: doc,
	}
}

// CloneDocument deep-copies a JSON document (maps, slices and scalars).
func CloneDocument(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneDocument(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return t
	}
}

// Info is the metadata payload returned by the info command.
type Info struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Parent  string `json:"parent"`
	Created string `json:"created"`
	Public  bool   `json:"public"`

	// ContentCount is the number of direct children. Directories only.
	ContentCount int `json:"content_count,omitempty"`

	// Attachment reports whether the file carries attachment bytes.
	Attachment bool `json:"attachment,omitempty"`
}

// DirListing is the result of the listdir command: child names grouped by
// kind, each list sorted by name. Files with attachment bytes are reported
// separately, matching the classic listdir shape.
type DirListing struct {
	Dirs   []string `json:"dirs"`
	Files  []string `json:"files"`
	BFiles []string `json:"bfiles"`
}

// FormatTimestamp renders node creation times the way info() reports them.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
