package parser

import (
	"testing"

	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

func TestParseSimpleContains(t *testing.T) {
	pq, err := Parse(`SELECT TITLE FROM wikipedia WHERE CONTAINS("quantum computing")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pq.Query.Source != "wikipedia" {
		t.Errorf("Source = %q", pq.Query.Source)
	}
	if len(pq.Query.Conditions) != 1 {
		t.Fatalf("got %d conditions, want 1", len(pq.Query.Conditions))
	}
	c, ok := pq.Query.Conditions[0].(model.ContainsCondition)
	if !ok {
		t.Fatalf("got %T, want ContainsCondition", pq.Query.Conditions[0])
	}
	if len(c.Terms) != 1 || c.Terms[0] != "quantum computing" {
		t.Errorf("Terms = %v", c.Terms)
	}
	if errs := pq.Validate(); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}
}

func TestParseNerWithVariableAndAs(t *testing.T) {
	pq, err := Parse(`SELECT ?p FROM wikipedia WHERE NER("PERSON") AS ?p`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ner, ok := pq.Query.Conditions[0].(model.NerCondition)
	if !ok {
		t.Fatalf("got %T", pq.Query.Conditions[0])
	}
	if ner.Var != "p" || ner.EntityType != "PERSON" {
		t.Errorf("got %+v", ner)
	}
	if errs := pq.Validate(); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}
}

func TestParseLogicalPrecedence(t *testing.T) {
	// NOT binds tighter than AND, which binds tighter than OR.
	pq, err := Parse(`SELECT TITLE FROM w WHERE CONTAINS("a") AND NOT CONTAINS("b") OR CONTAINS("c")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	or, ok := pq.Query.Conditions[0].(model.LogicalCondition)
	if !ok || or.Op != model.LogicalOr {
		t.Fatalf("expected top-level OR, got %+v", pq.Query.Conditions[0])
	}
	if len(or.Children) != 2 {
		t.Fatalf("expected 2 OR children, got %d", len(or.Children))
	}
	and, ok := or.Children[0].(model.LogicalCondition)
	if !ok || and.Op != model.LogicalAnd {
		t.Fatalf("expected left child AND, got %+v", or.Children[0])
	}
	if _, ok := and.Children[1].(model.NotCondition); !ok {
		t.Errorf("expected second AND child to be NOT, got %T", and.Children[1])
	}
}

func TestParseParenOverridesPrecedence(t *testing.T) {
	pq, err := Parse(`SELECT TITLE FROM w WHERE CONTAINS("a") AND (CONTAINS("b") OR CONTAINS("c"))`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	and, ok := pq.Query.Conditions[0].(model.LogicalCondition)
	if !ok || and.Op != model.LogicalAnd {
		t.Fatalf("expected top-level AND, got %+v", pq.Query.Conditions[0])
	}
	if _, ok := and.Children[1].(model.LogicalCondition); !ok {
		t.Errorf("expected parenthesized OR as second child, got %T", and.Children[1])
	}
}

func TestParseDependsWithVariable(t *testing.T) {
	pq, err := Parse(`SELECT ?r FROM w WHERE DEPENDS("invest", ?r, "company")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dep, ok := pq.Query.Conditions[0].(model.DependencyCondition)
	if !ok {
		t.Fatalf("got %T", pq.Query.Conditions[0])
	}
	if !dep.Relation.IsVariable() || dep.Relation.Value != "r" {
		t.Errorf("got %+v", dep.Relation)
	}
	if errs := pq.Validate(); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}
}

func TestParseDateNearRadius(t *testing.T) {
	pq, err := Parse(`SELECT TITLE FROM w WHERE DATE(,NEAR "2020-01-01" RADIUS 30d)`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_ = pq
}

func TestParseDateComparison(t *testing.T) {
	pq, err := Parse(`SELECT TITLE FROM w WHERE DATE(?d, >= "2020-01-01")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d, ok := pq.Query.Conditions[0].(model.TemporalCondition)
	if !ok {
		t.Fatalf("got %T", pq.Query.Conditions[0])
	}
	if d.Predicate != model.PredAfterEqual || d.Var != "d" {
		t.Errorf("got %+v", d)
	}
}

func TestParseGranularityAndOrderAndLimit(t *testing.T) {
	pq, err := Parse(`SELECT TITLE FROM w WHERE CONTAINS("a") GRANULARITY SENTENCE 2 ORDER BY TIMESTAMP DESC LIMIT 10`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pq.Query.Granularity != model.GranularitySentence {
		t.Errorf("Granularity = %v", pq.Query.Granularity)
	}
	if pq.Query.GranularitySize == nil || *pq.Query.GranularitySize != 2 {
		t.Errorf("GranularitySize = %v", pq.Query.GranularitySize)
	}
	if len(pq.Query.OrderBy) != 1 || pq.Query.OrderBy[0].Direction != model.OrderDesc {
		t.Errorf("OrderBy = %+v", pq.Query.OrderBy)
	}
	if pq.Query.Limit == nil || *pq.Query.Limit != 10 {
		t.Errorf("Limit = %v", pq.Query.Limit)
	}
}

func TestParseSnippetColumn(t *testing.T) {
	pq, err := Parse(`SELECT SNIPPET(?p, WINDOW=3) FROM w WHERE NER("PERSON") AS ?p`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	col, ok := pq.Query.SelectColumns[0].(model.SnippetColumn)
	if !ok || col.Window != 3 || col.Variable != "p" {
		t.Fatalf("got %+v", pq.Query.SelectColumns[0])
	}
}

func TestParseCountForms(t *testing.T) {
	for _, q := range []string{
		`SELECT COUNT(*) FROM w WHERE CONTAINS("a")`,
		`SELECT COUNT(DOCUMENTS) FROM w WHERE CONTAINS("a")`,
		`SELECT COUNT(UNIQUE ?p) FROM w WHERE NER("PERSON") AS ?p`,
	} {
		if _, err := Parse(q); err != nil {
			t.Errorf("Parse(%q): %v", q, err)
		}
	}
}

func TestParseUnboundSelectVariableFailsValidation(t *testing.T) {
	pq, err := Parse(`SELECT ?missing FROM w WHERE CONTAINS("a")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errs := pq.Validate(); len(errs) == 0 {
		t.Error("expected validation error for unbound ?missing")
	}
}

func TestParseRejectsBadNerType(t *testing.T) {
	pq, err := Parse(`SELECT TITLE FROM w WHERE NER("ALIEN")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errs := pq.Validate(); len(errs) == 0 {
		t.Error("expected validation error for bad NER type")
	}
}

func TestParseMalformedQueryFails(t *testing.T) {
	for _, q := range []string{
		`SELECT FROM w`,
		`SELECT TITLE w WHERE CONTAINS("a")`,
		`SELECT TITLE FROM w WHERE CONTAINS("unterminated`,
	} {
		if _, err := Parse(q); err == nil {
			t.Errorf("Parse(%q): expected error, got none", q)
		}
	}
}

func TestParseLimitZeroFailsValidationNotParse(t *testing.T) {
	pq, err := Parse(`SELECT TITLE FROM w WHERE CONTAINS("a") LIMIT 0`)
	if err != nil {
		t.Fatalf("Parse should succeed syntactically: %v", err)
	}
	if errs := pq.Validate(); len(errs) == 0 {
		t.Error("expected validation error for LIMIT 0")
	}
}

func TestParseTrailingGarbageFails(t *testing.T) {
	if _, err := Parse(`SELECT TITLE FROM w WHERE CONTAINS("a") GARBAGE`); err == nil {
		t.Error("expected parse error for trailing garbage")
	}
}
