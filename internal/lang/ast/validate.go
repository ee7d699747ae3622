package ast

import (
	"fmt"

	"github.com/Fredrikaaa/temporalsearch/internal/model"
	"github.com/Fredrikaaa/temporalsearch/internal/registry"
)

// validateQueryShape checks the query-structure rules of that
// do not fit the registry's producer/consumer bookkeeping: NER entity
// types, BETWEEN ordering, dependency-arg emptiness, LIMIT/snippet window
// bounds, a non-empty projection list, and the top-level NOT restriction.
func validateQueryShape(q *model.Query, reg *registry.Registry) []string {
	var errs []string

	if len(q.SelectColumns) == 0 {
		errs = append(errs, "projection list must not be empty")
	}

	if q.Limit != nil && *q.Limit < 1 {
		errs = append(errs, "LIMIT must be >= 1")
	}

	for _, col := range q.SelectColumns {
		if s, ok := col.(model.SnippetColumn); ok {
			if s.Window < 0 || s.Window > 5 {
				errs = append(errs, fmt.Sprintf("SNIPPET window for ?%s must be in [0,5]", s.Variable))
			}
		}
	}

	hasPositive := false
	for _, c := range q.Conditions {
		if _, isNot := c.(model.NotCondition); !isNot {
			hasPositive = true
		}
		errs = append(errs, validateCondition(c)...)
	}
	for _, c := range q.Conditions {
		if _, isNot := c.(model.NotCondition); isNot && !hasPositive {
			errs = append(errs, "NOT may not stand alone at the top level of a query")
		}
	}

	return errs
}

func validateCondition(c model.Condition) []string {
	var errs []string
	switch cond := c.(type) {
	case model.NerCondition:
		if !registry.ValidNerType(cond.EntityType) {
			errs = append(errs, fmt.Sprintf("NER type %q is not a recognized entity type", cond.EntityType))
		}
	case model.DependencyCondition:
		type comp struct {
			name string
			arg  model.DepArg
		}
		for _, c := range []comp{{"governor", cond.Governor}, {"relation", cond.Relation}, {"dependent", cond.Dependent}} {
			if !c.arg.IsVariable() && c.arg.Value == "" {
				errs = append(errs, fmt.Sprintf("DEPENDS %s component must not be empty", c.name))
			}
		}
	case model.TemporalCondition:
		if cond.Predicate == model.PredBetween && cond.StartDate != nil && cond.EndDate != nil {
			if *cond.EndDate < *cond.StartDate {
				errs = append(errs, "DATE BETWEEN end must not be before start")
			}
		}
	case model.LogicalCondition:
		for _, child := range cond.Children {
			errs = append(errs, validateCondition(child)...)
		}
	case model.NotCondition:
		errs = append(errs, validateCondition(cond.Child)...)
	}
	return errs
}
