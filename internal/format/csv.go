package format

import (
	"encoding/csv"
	"strings"

	"github.com/Fredrikaaa/temporalsearch/internal/project"
)

// CSVFormatter renders a project.Table as RFC 4180 CSV: a header row
// followed by one row per result, using encoding/csv for quoting. No
// library in the wired stack offers CSV encoding, so this uses the
// standard library directly.
type CSVFormatter struct{}

// NewCSVFormatter builds a CSVFormatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format renders t as CSV text, or just a header line for an empty table.
func (f *CSVFormatter) Format(t *project.Table) string {
	out := &strings.Builder{}
	w := csv.NewWriter(out)

	columns := []string{}
	if t != nil {
		columns = t.Columns
	}
	_ = w.Write(columns)

	if t != nil {
		for _, row := range t.Rows {
			record := make([]string, len(columns))
			for i, col := range columns {
				record[i] = row[col]
			}
			_ = w.Write(record)
		}
	}

	w.Flush()
	return out.String()
}
