package badger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/marmos91/bytengine/pkg/content"
)

// ============================================================================
// Key Namespace Design
// ============================================================================
//
// BadgerDB is a flat key-value store, so every record carries a prefixed key
// that namespaces it to a data type and a database. This design:
//   - Prevents collisions between databases sharing one BadgerDB instance
//   - Enables efficient range scans (all children of a directory, all
//     counters of a database)
//   - Lets DropDatabase remove a whole database with prefix drops
//
// Key Namespace Prefixes:
//
// Data Type        Prefix   Key Format                       Value Type
// =========================================================================
// Database Marker  "d:"     d:<db>                           rootID (bytes)
// Node Records     "n:"     n:<db>:<nodeID>                  Node (JSON)
// Children Map     "c:"     c:<db>:<parentID>:<childName>    childID (bytes)
// Counters         "k:"     k:<db>:<counterName>             int64 (binary)
//
// Database, directory, file and counter names never contain ":", so the
// delimiter is unambiguous. Child keys sort by name within a parent, which
// gives ordered directory listings directly from an iterator.

const (
	prefixDatabase = "d:"
	prefixNode     = "n:"
	prefixChild    = "c:"
	prefixCounter  = "k:"
)

// keyDatabase generates the database marker key: "d:<db>"
func keyDatabase(db string) []byte {
	return []byte(prefixDatabase + db)
}

// keyNode generates a node record key: "n:<db>:<nodeID>"
func keyNode(db string, id content.NodeID) []byte {
	return []byte(prefixNode + db + ":" + string(id))
}

// keyNodePrefix generates the range prefix for all nodes of a database.
func keyNodePrefix(db string) []byte {
	return []byte(prefixNode + db + ":")
}

// keyChild generates a child entry key: "c:<db>:<parentID>:<childName>"
func keyChild(db string, parent content.NodeID, name string) []byte {
	return []byte(prefixChild + db + ":" + string(parent) + ":" + name)
}

// keyChildPrefix generates the range prefix for a directory's children.
func keyChildPrefix(db string, parent content.NodeID) []byte {
	return []byte(prefixChild + db + ":" + string(parent) + ":")
}

// keyChildrenPrefix generates the range prefix for all child entries of a
// database.
func keyChildrenPrefix(db string) []byte {
	return []byte(prefixChild + db + ":")
}

// keyCounter generates a counter key: "k:<db>:<name>"
func keyCounter(db, name string) []byte {
	return []byte(prefixCounter + db + ":" + name)
}

// keyCounterPrefix generates the range prefix for all counters of a database.
func keyCounterPrefix(db string) []byte {
	return []byte(prefixCounter + db + ":")
}

// ============================================================================
// Value Encoding
// ============================================================================

func encodeNode(n *content.Node) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to encode node %s: %w", n.ID, err)
	}
	return data, nil
}

func decodeNode(data []byte) (*content.Node, error) {
	var n content.Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to decode node: %w", err)
	}
	return &n, nil
}

func encodeInt64(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func decodeInt64(data []byte) (int64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("invalid counter encoding: %d bytes", len(data))
	}
	return int64(binary.BigEndian.Uint64(data)), nil
}
