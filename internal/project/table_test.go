package project

import (
	"testing"
	"time"

	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

type fakeMetadata struct {
	titles map[uint32]string
}

func (f fakeMetadata) Document(docID uint32) (string, time.Time, bool, error) {
	t, ok := f.titles[docID]
	if !ok {
		return "", time.Time{}, false, nil
	}
	return t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), true, nil
}

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	return d
}

func TestProjectVariableCartesian(t *testing.T) {
	ms := model.NewMatchSet(model.GranularityDocument)
	d := date(t, "2020-01-01")
	ms.Add(model.MatchDetail{Value: "alice", VariableName: "person", Position: model.Position{DocID: 1, SentenceID: -1, DocDate: d}})
	ms.Add(model.MatchDetail{Value: "bob", VariableName: "person", Position: model.Position{DocID: 1, SentenceID: -1, DocDate: d}})

	q := &model.Query{SelectColumns: []model.SelectColumn{model.VariableColumn{Name: "person"}}, Granularity: model.GranularityDocument}

	p := NewProjector(nil, nil)
	table, err := p.Project(q, ms)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (cartesian over 2 bindings)", len(table.Rows))
	}
}

func TestProjectTitleLookup(t *testing.T) {
	ms := model.NewMatchSet(model.GranularityDocument)
	d := date(t, "2020-01-01")
	ms.Add(model.MatchDetail{Value: "x", Position: model.Position{DocID: 7, SentenceID: -1, DocDate: d}})

	q := &model.Query{SelectColumns: []model.SelectColumn{model.TitleColumn{}}, Granularity: model.GranularityDocument}
	p := NewProjector(fakeMetadata{titles: map[uint32]string{7: "hello"}}, nil)

	table, err := p.Project(q, ms)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0]["TITLE"] != "hello" {
		t.Fatalf("got %+v", table.Rows)
	}
}

func TestProjectCountAggregate(t *testing.T) {
	ms := model.NewMatchSet(model.GranularityDocument)
	d := date(t, "2020-01-01")
	ms.Add(model.MatchDetail{Value: "a", Position: model.Position{DocID: 1, SentenceID: -1, DocDate: d}})
	ms.Add(model.MatchDetail{Value: "b", Position: model.Position{DocID: 2, SentenceID: -1, DocDate: d}})

	q := &model.Query{SelectColumns: []model.SelectColumn{model.CountColumn{Target: model.CountDocuments}}}
	p := NewProjector(nil, nil)

	table, err := p.Project(q, ms)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected single aggregate row, got %d", len(table.Rows))
	}
	if table.Rows[0]["COUNT(DOCUMENTS)"] != "2" {
		t.Fatalf("got %+v", table.Rows[0])
	}
}

func TestProjectOrderByAndLimit(t *testing.T) {
	ms := model.NewMatchSet(model.GranularityDocument)
	d := date(t, "2020-01-01")
	ms.Add(model.MatchDetail{Value: "charlie", VariableName: "p", Position: model.Position{DocID: 1, SentenceID: -1, DocDate: d}})
	ms.Add(model.MatchDetail{Value: "alice", VariableName: "p", Position: model.Position{DocID: 2, SentenceID: -1, DocDate: d}})
	ms.Add(model.MatchDetail{Value: "bob", VariableName: "p", Position: model.Position{DocID: 3, SentenceID: -1, DocDate: d}})

	limit := 2
	q := &model.Query{
		SelectColumns: []model.SelectColumn{model.VariableColumn{Name: "p"}},
		OrderBy:       []model.OrderSpec{{Name: "?p", Direction: model.OrderAsc}},
		Limit:         &limit,
	}
	p := NewProjector(nil, nil)
	table, err := p.Project(q, ms)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (limit)", len(table.Rows))
	}
	if table.Rows[0]["?p"] != "alice" || table.Rows[1]["?p"] != "bob" {
		t.Fatalf("unexpected order: %+v", table.Rows)
	}
}
