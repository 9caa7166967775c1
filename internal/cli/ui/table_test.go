package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"#", "Mixin", "Depends On"}, &TableOptions{NoColor: true})
	table.AddRow("1", "Logging", "")
	table.AddRow("2", "Auditing", "Logging")
	table.AddRow("3", "Caching")
	assert.Equal(t, 3, table.Len())

	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "#  Mixin     Depends On", lines[0])
	assert.Equal(t, "─  ────────  ──────────", lines[1])
	assert.Equal(t, "1  Logging   ", lines[2])
	assert.Equal(t, "2  Auditing  Logging", lines[3])
	assert.Equal(t, "3  Caching   ", lines[4])
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, nil, nil).Render()
	assert.Empty(t, buf.String())

	buf.Reset()
	NewTable(&buf, []string{"Name"}, &TableOptions{NoColor: true}).Render()
	assert.Equal(t, "Name\n────\n", buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewKeyValueTable(&buf, true)
	table.AddRow("Target", "Derived")
	table.AddRow("Interfaces", "none")
	table.Render()

	assert.Equal(t, "Target:     Derived\nInterfaces: none\n", buf.String())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Plan", true)
	assert.Equal(t, "Plan\n────\n", buf.String())

	buf.Reset()
	Divider(&buf, 0, true)
	assert.Equal(t, strings.Repeat("─", 80)+"\n", buf.String())
}
