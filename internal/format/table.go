// Package format renders a project.Table as CLI output using a markdown
// table formatter.
package format

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Fredrikaaa/temporalsearch/internal/project"
)

// TableFormatter renders a project.Table as a markdown table, truncating
// overlong cell values.
type TableFormatter struct {
	MaxWidth       int
	TruncateString string
}

// NewTableFormatter builds a formatter with sensible default tuning.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{MaxWidth: 50, TruncateString: "..."}
}

// Format renders t as a markdown table with a trailing row count, or a
// placeholder line for an empty table.
func (tf *TableFormatter) Format(t *project.Table) string {
	if t == nil {
		return "_Columns: []_\n\n_No rows_"
	}
	if len(t.Rows) == 0 {
		return fmt.Sprintf("_Columns: %v_\n\n_No rows_", t.Columns)
	}

	out := &strings.Builder{}
	alignment := make([]tw.Align, len(t.Columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(t.Columns)

	for _, row := range t.Rows {
		rendered := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			rendered[i] = tf.truncate(row[col])
		}
		table.Append(rendered)
	}
	table.Render()

	out.WriteString(fmt.Sprintf("\n_%d rows_\n", len(t.Rows)))
	return out.String()
}

func (tf *TableFormatter) truncate(s string) string {
	if tf.MaxWidth <= 0 || len(s) <= tf.MaxWidth {
		return s
	}
	cut := tf.MaxWidth - len(tf.TruncateString)
	if cut < 0 {
		cut = 0
	}
	return s[:cut] + tf.TruncateString
}
