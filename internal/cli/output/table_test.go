package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableData(t *testing.T) {
	table := NewTableData("Name", "Databases")

	assert.Equal(t, []string{"Name", "Databases"}, table.Headers())
	assert.Empty(t, table.Rows())

	table.AddRow("alice", "store")
	table.AddRow("bob", "archive")

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"alice", "store"}, rows[0])
	assert.Equal(t, []string{"bob", "archive"}, rows[1])
}

func TestPrintTable(t *testing.T) {
	table := NewTableData("Name")
	table.AddRow("store")
	table.AddRow("archive")

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, table))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "store")
	assert.Contains(t, out, "archive")
}

func TestSimpleTable(t *testing.T) {
	pairs := [][2]string{
		{"username", "admin"},
		{"root", "true"},
	}

	var buf bytes.Buffer
	require.NoError(t, SimpleTable(&buf, pairs))

	out := buf.String()
	assert.Contains(t, out, "username")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "root")
	assert.Contains(t, out, "true")
}
