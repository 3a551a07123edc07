package output

import (
	"io"
	"strings"
	"text/tabwriter"
)

// Tabular is implemented by values with a table form.
type Tabular interface {
	Table() *Table
}

// TableFormatter formats data as an aligned table.
type TableFormatter struct {
	NoHeaders bool
}

// Format renders a *Table or a Tabular value. Anything else is printed as
// YAML, which reads well for nested status documents.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case *Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case Tabular:
		return v.Table().RenderWithOptions(w, f.NoHeaders)
	default:
		return (&YAMLFormatter{}).Format(w, data)
	}
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// AddRow adds a row to the table. Empty cells render as "-".
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(cells))
	for i, c := range cells {
		if c == "" {
			c = "-"
		}
		row[i] = c
	}
	t.Rows = append(t.Rows, row)
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table, optionally without the header row.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		if _, err := io.WriteString(tw, strings.Join(t.Headers, "\t")+"\n"); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if _, err := io.WriteString(tw, strings.Join(row, "\t")+"\n"); err != nil {
			return err
		}
	}
	return tw.Flush()
}
