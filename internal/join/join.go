// Package join implements the subquery/temporal join executor: two
// intermediate tables are joined on a date column under one of {EQUAL,
// CONTAINS, CONTAINED_BY, INTERSECT, PROXIMITY}, with INNER/LEFT/RIGHT
// semantics.
package join

import (
	"github.com/Fredrikaaa/temporalsearch/internal/model"
	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// Row is one output row of a projected table: column name to rendered
// value (internal/project converts its own table rows to/from this shape
// at the join boundary, keeping this package independent of the
// projector and its snippet/highlight concerns).
type Row map[string]string

// Table is a named, column-ordered set of rows produced by executing the
// outer query or a subquery. ColumnTypes records which columns are
// date-typed, since Row itself only holds rendered strings.
type Table struct {
	Columns     []string
	ColumnTypes map[string]model.ValueType
	Rows        []Row
}

func (t *Table) isDateColumn(name string) bool {
	return t.ColumnTypes[name] == model.ValueDate
}

// Join executes the state machine BUILD_LEFT → BUILD_RIGHT → INNER_SCAN →
// OUTER_FILL (if LEFT/RIGHT). rightAlias is the subquery's
// alias (SubquerySpec.Alias), used to prefix right-hand columns that clash
// with a left-hand column name.
func Join(left, right *Table, cond *model.JoinCondition, rightAlias string) (*Table, error) {
	if cond == nil {
		return nil, xerrors.Internal("join", "missing join condition")
	}
	if !hasColumn(left.Columns, cond.LeftColumn) || !left.isDateColumn(cond.LeftColumn) {
		return nil, xerrors.Internal("join", "left join column does not exist or is not date-typed")
	}
	if !hasColumn(right.Columns, cond.RightColumn) || !right.isDateColumn(cond.RightColumn) {
		return nil, xerrors.Internal("join", "right join column does not exist or is not date-typed")
	}
	if cond.Predicate == model.PredProximity && cond.ProximityWindowDays <= 0 {
		return nil, xerrors.Join("PROXIMITY requires a positive window", "window", cond.ProximityWindowDays)
	}
	if rightAlias == "" {
		rightAlias = "right"
	}

	renamed := renameClashes(left.Columns, right.Columns, rightAlias)
	outCols := append(append([]string{}, left.Columns...), aliasedNames(right.Columns, renamed)...)
	outTypes := make(map[string]model.ValueType, len(outCols))
	for _, c := range left.Columns {
		outTypes[c] = left.ColumnTypes[c]
	}
	for _, c := range right.Columns {
		outTypes[renamed[c]] = right.ColumnTypes[c]
	}
	out := &Table{Columns: outCols, ColumnTypes: outTypes}

	leftMatched := make([]bool, len(left.Rows))
	rightMatched := make([]bool, len(right.Rows))

	// INNER_SCAN: an O(L*R) naive nested loop; an interval-tree BUILD_RIGHT
	// index is a permitted but unimplemented optimization.
	for li, lrow := range left.Rows {
		ld, ok := parseDate(lrow[cond.LeftColumn])
		if !ok {
			continue
		}
		for ri, rrow := range right.Rows {
			rd, ok := parseDate(rrow[cond.RightColumn])
			if !ok {
				continue
			}
			if !predicateMatches(cond, ld, rd) {
				continue
			}
			leftMatched[li] = true
			rightMatched[ri] = true
			out.Rows = append(out.Rows, mergeRow(lrow, rrow, renamed))
		}
	}

	// OUTER_FILL
	switch cond.JoinType {
	case model.JoinLeft:
		for li, lrow := range left.Rows {
			if !leftMatched[li] {
				out.Rows = append(out.Rows, mergeRow(lrow, nil, renamed))
			}
		}
	case model.JoinRight:
		for ri, rrow := range right.Rows {
			if !rightMatched[ri] {
				out.Rows = append(out.Rows, mergeRow(nil, rrow, renamed))
			}
		}
	}

	return out, nil
}

func hasColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}

// renameClashes returns, for each right column, the name it takes in the
// joined table: its original name, or "<rightAlias>_<name>" if it clashes
// with a left column name.
func renameClashes(leftCols, rightCols []string, rightAlias string) map[string]string {
	renamed := make(map[string]string, len(rightCols))
	leftSet := make(map[string]bool, len(leftCols))
	for _, c := range leftCols {
		leftSet[c] = true
	}
	for _, c := range rightCols {
		if leftSet[c] {
			renamed[c] = rightAlias + "_" + c
		} else {
			renamed[c] = c
		}
	}
	return renamed
}

func aliasedNames(cols []string, renamed map[string]string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = renamed[c]
	}
	return out
}

func mergeRow(left, right Row, rightAlias map[string]string) Row {
	out := make(Row, len(left)+len(right))
	for k, v := range left {
		out[k] = v
	}
	for k, v := range right {
		out[rightAlias[k]] = v
	}
	return out
}

func parseDate(s string) (model.Date, bool) {
	if s == "" {
		return 0, false
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

// predicateMatches implements the join predicate table. Every column here
// is a single date value (not a date range), so CONTAINS/CONTAINED_BY/
// INTERSECT all collapse to equality.
func predicateMatches(cond *model.JoinCondition, left, right model.Date) bool {
	switch cond.Predicate {
	case model.PredEqual, model.PredContains, model.PredContainedBy, model.PredIntersect:
		return left == right
	case model.PredProximity:
		diff := left.DiffDays(right)
		if diff < 0 {
			diff = -diff
		}
		return diff <= int64(cond.ProximityWindowDays)
	default:
		return false
	}
}
