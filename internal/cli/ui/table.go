package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// palette holds the colors of one rendering, disabled together
type palette struct {
	header *color.Color
	key    *color.Color
	muted  *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		header: color.New(color.Bold, color.FgCyan),
		key:    color.New(color.FgCyan),
		muted:  color.New(color.FgHiBlack),
	}
	if noColor {
		p.header.DisableColor()
		p.key.DisableColor()
		p.muted.DisableColor()
	}
	return p
}

// Table renders rows under a header line and a separator
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	colors  palette
}

// TableOptions configures table behavior
type TableOptions struct {
	NoColor bool
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	noColor := false
	if opts != nil {
		noColor = opts.NoColor
	}
	return &Table{
		writer:  w,
		headers: headers,
		colors:  newPalette(noColor),
	}
}

// AddRow adds a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = width(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	last := len(t.headers) - 1
	for i, header := range t.headers {
		t.colors.header.Fprint(t.writer, cell(header, widths[i], i == last))
	}
	fmt.Fprintln(t.writer)

	for i, w := range widths {
		t.colors.muted.Fprint(t.writer, cell(strings.Repeat("─", w), w, i == last))
	}
	fmt.Fprintln(t.writer)

	for _, row := range t.rows {
		for i, c := range row {
			fmt.Fprint(t.writer, cell(c, widths[i], i == last))
		}
		fmt.Fprintln(t.writer)
	}
}

// cell pads s to w and adds the column gap, except on the last column
func cell(s string, w int, last bool) string {
	if last {
		return s
	}
	return padRight(s, w) + "  "
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

// padRight pads a string with spaces on the right to reach the target width
func padRight(s string, w int) string {
	if n := width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

// KeyValueTable renders aligned "key: value" lines
type KeyValueTable struct {
	writer io.Writer
	keys   []string
	values []string
	colors palette
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, colors: newPalette(noColor)}
}

// AddRow adds a key-value pair to the table
func (t *KeyValueTable) AddRow(key, value string) {
	t.keys = append(t.keys, key)
	t.values = append(t.values, value)
}

// Render writes the key-value table
func (t *KeyValueTable) Render() {
	maxKey := 0
	for _, key := range t.keys {
		if w := width(key); w > maxKey {
			maxKey = w
		}
	}
	for i, key := range t.keys {
		t.colors.key.Fprint(t.writer, padRight(key+":", maxKey+1))
		fmt.Fprintf(t.writer, " %s\n", t.values[i])
	}
}

// Divider renders a horizontal divider line, 80 columns wide by default
func Divider(w io.Writer, n int, noColor bool) {
	if n <= 0 {
		n = 80
	}
	newPalette(noColor).muted.Fprintln(w, strings.Repeat("─", n))
}

// Header renders a styled title underlined by a divider
func Header(w io.Writer, title string, noColor bool) {
	newPalette(noColor).header.Fprintln(w, title)
	Divider(w, width(title), noColor)
}
