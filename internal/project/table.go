package project

import (
	"sort"
	"strconv"
	"time"

	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// Row is one output row: column header to rendered string value. A missing
// key means the column was unbound for this row: unbound variables remain
// empty.
type Row map[string]string

// Table is the final projection: ordered columns plus rows after ORDER BY
// and LIMIT.
type Table struct {
	Columns []string
	Rows    []Row
}

// Projector turns a MatchSet into a Table. It is built once per process
// and reused across queries; SnippetExpander and Metadata hold their own
// caches/connections and are safe for concurrent queries.
type Projector struct {
	metadata Metadata
	snippets *SnippetExpander
}

// NewProjector builds a Projector. metadata and snippets may individually
// be nil if the query's SELECT list never references TITLE/TIMESTAMP or
// SNIPPET columns; a nil dependency used by a query that needs it produces
// an empty column value rather than panicking.
func NewProjector(metadata Metadata, snippets *SnippetExpander) *Projector {
	return &Projector{metadata: metadata, snippets: snippets}
}

// Project builds the final table for q's SELECT list against ms, applying
// q's ORDER BY and LIMIT last.
func (p *Projector) Project(q *model.Query, ms *model.MatchSet) (*Table, error) {
	columns := make([]string, len(q.SelectColumns))
	for i, c := range q.SelectColumns {
		columns[i] = columnHeader(c)
	}

	if isAggregateOnly(q.SelectColumns) {
		row, err := p.aggregateRow(q.SelectColumns, ms)
		if err != nil {
			return nil, err
		}
		return &Table{Columns: columns, Rows: []Row{row}}, nil
	}

	var rows []Row
	for _, key := range ms.Keys() {
		details := ms.Get(key)
		groupRows, err := p.projectGroup(q.SelectColumns, key, details, ms)
		if err != nil {
			return nil, err
		}
		rows = append(rows, groupRows...)
	}

	if err := applyOrderBy(rows, q.OrderBy); err != nil {
		return nil, err
	}
	rows = applyLimit(rows, q.Limit)

	return &Table{Columns: columns, Rows: rows}, nil
}

func columnHeader(c model.SelectColumn) string {
	return c.String()
}

func isAggregateOnly(cols []model.SelectColumn) bool {
	if len(cols) == 0 {
		return false
	}
	for _, c := range cols {
		if _, ok := c.(model.CountColumn); !ok {
			return false
		}
	}
	return true
}

// aggregateRow computes a single row of COUNT(...) values scoped over the
// entire match set, for a SELECT list made up only of COUNT columns (a
// query with no non-aggregate projection collapses to one summary row —
// see DESIGN.md for the rationale).
func (p *Projector) aggregateRow(cols []model.SelectColumn, ms *model.MatchSet) (Row, error) {
	row := make(Row, len(cols))
	for _, c := range cols {
		cc := c.(model.CountColumn)
		row[columnHeader(c)] = strconv.Itoa(countOver(cc, ms.All()))
	}
	return row, nil
}

func countOver(cc model.CountColumn, matches []model.MatchDetail) int {
	switch cc.Target {
	case model.CountUniqueVariable:
		seen := make(map[string]bool)
		for _, m := range matches {
			if m.VariableName == cc.Variable {
				seen[m.Value] = true
			}
		}
		return len(seen)
	case model.CountDocuments:
		seen := make(map[uint32]bool)
		for _, m := range matches {
			seen[m.Position.DocID] = true
		}
		return len(seen)
	default:
		return len(matches)
	}
}

// projectGroup builds the row(s) for one granularity group. Variable
// columns with multiple distinct bindings cartesian-expand into separate
// rows alongside the group's other single-valued columns.
func (p *Projector) projectGroup(cols []model.SelectColumn, key model.GroupKey, details []model.MatchDetail, ms *model.MatchSet) ([]Row, error) {
	base := Row{}
	var variableCols []model.VariableColumn
	var snippetCols []model.SnippetColumn

	for _, c := range cols {
		switch col := c.(type) {
		case model.VariableColumn:
			variableCols = append(variableCols, col)
		case model.SnippetColumn:
			snippetCols = append(snippetCols, col)
		case model.TitleColumn:
			title, _, ok, err := p.lookupMetadata(key.DocID)
			if err != nil {
				return nil, err
			}
			if ok {
				base[columnHeader(c)] = title
			}
		case model.TimestampColumn:
			_, ts, ok, err := p.lookupMetadata(key.DocID)
			if err != nil {
				return nil, err
			}
			if ok {
				base[columnHeader(c)] = ts.Format("2006-01-02T15:04:05Z07:00")
			}
		case model.CountColumn:
			base[columnHeader(c)] = strconv.Itoa(countOver(col, details))
		}
	}

	rows := []Row{base}
	for _, vc := range variableCols {
		values := distinctValues(details, vc.Name)
		header := columnHeader(vc)
		if len(values) == 0 {
			continue // unbound: column stays empty on every existing row
		}
		rows = cartesian(rows, header, values)
	}

	for _, sc := range snippetCols {
		header := columnHeader(sc)
		text, err := p.renderSnippet(sc, key, details)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i][header] = text
		}
	}

	return rows, nil
}

func (p *Projector) lookupMetadata(docID uint32) (string, time.Time, bool, error) {
	if p.metadata == nil {
		return "", time.Time{}, false, nil
	}
	return p.metadata.Document(docID)
}

func distinctValues(details []model.MatchDetail, varName string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range details {
		if m.VariableName != varName || m.Value == "" {
			continue
		}
		if !seen[m.Value] {
			seen[m.Value] = true
			out = append(out, m.Value)
		}
	}
	return out
}

// cartesian duplicates each existing row once per value in values, setting
// header to that value on the copy.
func cartesian(rows []Row, header string, values []string) []Row {
	out := make([]Row, 0, len(rows)*len(values))
	for _, r := range rows {
		for _, v := range values {
			clone := make(Row, len(r)+1)
			for k, val := range r {
				clone[k] = val
			}
			clone[header] = v
			out = append(out, clone)
		}
	}
	return out
}

func (p *Projector) renderSnippet(sc model.SnippetColumn, key model.GroupKey, details []model.MatchDetail) (string, error) {
	if p.snippets == nil {
		return "", nil
	}
	var anchor *model.MatchDetail
	for i := range details {
		if details[i].VariableName == sc.Variable {
			anchor = &details[i]
			break
		}
	}
	if anchor == nil {
		return "", nil
	}
	sentenceID := anchor.Position.SentenceID
	if sentenceID < 0 {
		sentenceID = 0
	}
	a := ContextAnchor{DocID: key.DocID, SentenceID: sentenceID, CharPosition: anchor.Position.BeginChar, VariableName: sc.Variable}
	sentences, err := p.snippets.Expand(a, anchor.Position.BeginChar, anchor.Position.EndChar, sc.Window)
	if err != nil {
		return "", err
	}
	return Compose(sentences, " "), nil
}

func applyOrderBy(rows []Row, specs []model.OrderSpec) error {
	if len(specs) == 0 {
		return nil
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, spec := range specs {
			a, b := rows[i][spec.Name], rows[j][spec.Name]
			if a == b {
				continue
			}
			if spec.Direction == model.OrderDesc {
				return a > b
			}
			return a < b
		}
		return false
	})
	return nil
}

func applyLimit(rows []Row, limit *int) []Row {
	if limit == nil || *limit >= len(rows) {
		return rows
	}
	if *limit < 0 {
		return rows
	}
	return rows[:*limit]
}
