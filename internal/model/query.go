package model

import "fmt"

// OrderDirection is the sort direction for an ORDER BY item.
type OrderDirection int

const (
	OrderAsc OrderDirection = iota
	OrderDesc
)

func (d OrderDirection) String() string {
	if d == OrderDesc {
		return "DESC"
	}
	return "ASC"
}

// OrderSpec is one ORDER BY item: either an identifier (TITLE, TIMESTAMP)
// or a variable name.
type OrderSpec struct {
	Name      string
	Direction OrderDirection
}

func (o OrderSpec) String() string {
	return fmt.Sprintf("%s %s", o.Name, o.Direction)
}

// JoinType is the outer-join behavior for a subquery join.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
)

func (t JoinType) String() string {
	switch t {
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	default:
		return "INNER"
	}
}

// JoinCondition describes how a subquery's result table joins back to the
// outer query's result table on a date column.
type JoinCondition struct {
	LeftColumn          string
	RightColumn         string
	JoinType            JoinType
	Predicate           TemporalPredicate
	ProximityWindowDays int // only meaningful when Predicate == PredProximity
}

// SubquerySpec is a named nested query joined into the outer query. The
// parser never builds one; it is filled in by callers that join result
// tables through internal/join.
type SubquerySpec struct {
	Inner              *Query
	Alias              string
	ProjectedColumns   []string // optional explicit projection; nil means all
}

// Query is the immutable AST produced by the parser and consumed by the
// executor. VariableRegistry is intentionally not embedded
// here: the registry is built and owned by the parser/validator package to
// avoid an import cycle (model is a leaf package); callers that need both
// receive them together as a *ast.ParsedQuery (see internal/lang/ast).
type Query struct {
	Source           string
	Conditions       []Condition
	SelectColumns    []SelectColumn
	OrderBy          []OrderSpec
	Limit            *int
	Granularity      Granularity
	GranularitySize  *int // SENTENCE window size, if given
	Subqueries       []SubquerySpec
	Join             *JoinCondition
}

// String renders a debug form of the query; it is not a round-trip
// formatter for the surface SQL-flavored grammar.
func (q *Query) String() string {
	return fmt.Sprintf("SELECT %v FROM %s WHERE %v", q.SelectColumns, q.Source, q.Conditions)
}
