package exec

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/Fredrikaaa/temporalsearch/internal/index"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// memStore is a minimal in-memory index.Store for exercising the
// executors without a BadgerDB instance on disk.
type memStore struct {
	data map[string]model.PositionList
}

func newMemStore() *memStore { return &memStore{data: make(map[string]model.PositionList)} }

func (s *memStore) Get(key []byte) (model.PositionList, error) {
	pl, ok := s.data[string(key)]
	if !ok {
		return nil, nil
	}
	return pl, nil
}

func (s *memStore) GetRaw(key []byte) ([]byte, error) {
	pl, err := s.Get(key)
	if err != nil || pl == nil {
		return nil, err
	}
	return pl.Encode(), nil
}

func (s *memStore) Iterator() (index.Iterator, error) {
	return s.IteratorOptions(index.ReadOptions{})
}

func (s *memStore) IteratorOptions(opts index.ReadOptions) (index.Iterator, error) {
	var keys []string
	for k := range s.data {
		if opts.Prefix != nil && !bytes.HasPrefix([]byte(k), opts.Prefix) {
			continue
		}
		if opts.Start != nil && k < string(opts.Start) {
			continue
		}
		if opts.End != nil && k >= string(opts.End) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &memIterator{store: s, keys: keys, pos: -1}, nil
}

func (s *memStore) Put(key []byte, value model.PositionList) error {
	s.data[string(key)] = value
	return nil
}

func (s *memStore) Delete(key []byte) error {
	delete(s.data, string(key))
	return nil
}

func (s *memStore) WriteBatch(entries map[string]model.PositionList) error {
	for k, v := range entries {
		s.data[k] = v
	}
	return nil
}

func (s *memStore) Close() error { return nil }

type memIterator struct {
	store *memStore
	keys  []string
	pos   int
}

func (it *memIterator) Next() bool {
	it.pos++
	return it.pos < len(it.keys)
}

func (it *memIterator) Key() []byte { return []byte(it.keys[it.pos]) }

func (it *memIterator) Value() (model.PositionList, error) {
	return it.store.data[it.keys[it.pos]], nil
}

func (it *memIterator) Close() error { return nil }

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestExecContainsIntersection(t *testing.T) {
	store := newMemStore()
	d := mustDate(t, "2020-01-01")
	store.Put(index.TermKey("quantum"), model.PositionList{
		{DocID: 1, SentenceID: 0, BeginChar: 0, EndChar: 7, DocDate: d},
		{DocID: 2, SentenceID: 0, BeginChar: 0, EndChar: 7, DocDate: d},
	})
	store.Put(index.TermKey("computing"), model.PositionList{
		{DocID: 1, SentenceID: 0, BeginChar: 8, EndChar: 17, DocDate: d},
	})

	e := New(store, nil, model.GranularitySentence, 4)
	ms, err := e.Execute(context.Background(), model.ContainsCondition{Terms: []string{"quantum", "computing"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ms.Len() != 1 {
		t.Fatalf("got %d keys, want 1 (only doc 1 has both terms)", ms.Len())
	}
}

func TestExecNerWildcard(t *testing.T) {
	store := newMemStore()
	d := mustDate(t, "2020-01-01")
	store.Put(index.NerKey("PERSON"), model.PositionList{{DocID: 1, DocDate: d}})
	store.Put(index.NerKey("LOCATION"), model.PositionList{{DocID: 2, DocDate: d}})

	e := New(store, nil, model.GranularityDocument, 4)
	ms, err := e.Execute(context.Background(), model.NerCondition{EntityType: "*", Var: "e"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ms.Len() != 2 {
		t.Fatalf("got %d keys, want 2", ms.Len())
	}
}

func TestExecLogicalAndOr(t *testing.T) {
	store := newMemStore()
	d := mustDate(t, "2020-01-01")
	store.Put(index.TermKey("a"), model.PositionList{{DocID: 1, DocDate: d}, {DocID: 2, DocDate: d}})
	store.Put(index.TermKey("b"), model.PositionList{{DocID: 2, DocDate: d}, {DocID: 3, DocDate: d}})

	e := New(store, nil, model.GranularityDocument, 4)

	and := model.LogicalCondition{Op: model.LogicalAnd, Children: []model.Condition{
		model.ContainsCondition{Terms: []string{"a"}},
		model.ContainsCondition{Terms: []string{"b"}},
	}}
	ms, err := e.Execute(context.Background(), and)
	if err != nil {
		t.Fatalf("Execute AND: %v", err)
	}
	if ms.Len() != 1 {
		t.Fatalf("AND: got %d keys, want 1 (doc 2)", ms.Len())
	}

	or := model.LogicalCondition{Op: model.LogicalOr, Children: and.Children}
	ms, err = e.Execute(context.Background(), or)
	if err != nil {
		t.Fatalf("Execute OR: %v", err)
	}
	if ms.Len() != 3 {
		t.Fatalf("OR: got %d keys, want 3", ms.Len())
	}
}

func TestExecNotWithinAnd(t *testing.T) {
	store := newMemStore()
	d := mustDate(t, "2020-01-01")
	store.Put(index.TermKey("a"), model.PositionList{{DocID: 1, DocDate: d}, {DocID: 2, DocDate: d}})
	store.Put(index.TermKey("b"), model.PositionList{{DocID: 2, DocDate: d}})

	e := New(store, nil, model.GranularityDocument, 4)
	and := model.LogicalCondition{Op: model.LogicalAnd, Children: []model.Condition{
		model.ContainsCondition{Terms: []string{"a"}},
		model.NotCondition{Child: model.ContainsCondition{Terms: []string{"b"}}},
	}}
	ms, err := e.Execute(context.Background(), and)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ms.Len() != 1 {
		t.Fatalf("got %d keys, want 1 (doc 1 only)", ms.Len())
	}
	keys := ms.Keys()
	if keys[0].DocID != 1 {
		t.Errorf("got doc %d, want 1", keys[0].DocID)
	}
}

func TestExecBareNotFails(t *testing.T) {
	store := newMemStore()
	e := New(store, nil, model.GranularityDocument, 4)
	_, err := e.Execute(context.Background(), model.NotCondition{Child: model.ContainsCondition{Terms: []string{"a"}}})
	if err == nil {
		t.Error("expected error executing a bare top-level NOT")
	}
}

func TestExecTemporalComparison(t *testing.T) {
	store := newMemStore()
	d1 := mustDate(t, "2020-01-01")
	d2 := mustDate(t, "2020-06-01")
	store.Put(index.DateKey(d1), model.PositionList{{DocID: 1, DocDate: d1}})
	store.Put(index.DateKey(d2), model.PositionList{{DocID: 2, DocDate: d2}})

	e := New(store, nil, model.GranularityDocument, 4)
	cutoff := mustDate(t, "2020-03-01")
	ms, err := e.Execute(context.Background(), model.TemporalCondition{StartDate: &cutoff, Predicate: model.PredAfter})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ms.Len() != 1 {
		t.Fatalf("got %d keys, want 1", ms.Len())
	}
	if ms.Keys()[0].DocID != 2 {
		t.Errorf("got doc %d, want 2", ms.Keys()[0].DocID)
	}
}

func TestExecDependencyLiteralTriple(t *testing.T) {
	store := newMemStore()
	d := mustDate(t, "2020-01-01")
	store.Put(index.DepKey("invest", "nsubj", "company"), model.PositionList{{DocID: 1, DocDate: d}})
	store.Put(index.DepKey("invest", "nsubj", "fund"), model.PositionList{{DocID: 2, DocDate: d}})

	e := New(store, nil, model.GranularityDocument, 4)
	c := model.DependencyCondition{
		Governor:  model.DepArg{Kind: model.DepArgLiteral, Value: "invest"},
		Relation:  model.DepArg{Kind: model.DepArgLiteral, Value: "nsubj"},
		Dependent: model.DepArg{Kind: model.DepArgLiteral, Value: "company"},
	}
	ms, err := e.Execute(context.Background(), c)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ms.Len() != 1 || ms.Keys()[0].DocID != 1 {
		t.Fatalf("got keys %v, want only doc 1", ms.Keys())
	}
}

func TestExecDependencyGovernorLiteralRestOfTripleVariable(t *testing.T) {
	store := newMemStore()
	d := mustDate(t, "2020-01-01")
	store.Put(index.DepKey("invest", "nsubj", "company"), model.PositionList{{DocID: 1, DocDate: d}})
	store.Put(index.DepKey("invest", "dobj", "fund"), model.PositionList{{DocID: 2, DocDate: d}})
	store.Put(index.DepKey("acquire", "nsubj", "company"), model.PositionList{{DocID: 3, DocDate: d}})

	e := New(store, nil, model.GranularityDocument, 4)
	c := model.DependencyCondition{
		Governor:  model.DepArg{Kind: model.DepArgLiteral, Value: "invest"},
		Relation:  model.DepArg{Kind: model.DepArgVariable, Value: "r"},
		Dependent: model.DepArg{Kind: model.DepArgVariable, Value: "d"},
	}
	ms, err := e.Execute(context.Background(), c)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ms.Len() != 2 {
		t.Fatalf("got %d keys, want 2 (docs 1 and 2, not doc 3)", ms.Len())
	}
	for _, key := range ms.Keys() {
		if key.DocID == 3 {
			t.Errorf("doc 3 (governor acquire) should not match governor literal invest")
		}
	}
}

// TestExecDependencyMiddleVariableWithLiteralDependent covers the shape a
// DepPrefix scan alone can't filter: a literal governor and dependent with
// a variable relation in between, where the prefix only encodes the
// governor and every literal dependent must be checked after the scan.
func TestExecDependencyMiddleVariableWithLiteralDependent(t *testing.T) {
	store := newMemStore()
	d := mustDate(t, "2020-01-01")
	store.Put(index.DepKey("invest", "nsubj", "employee"), model.PositionList{{DocID: 1, DocDate: d}})
	store.Put(index.DepKey("invest", "dobj", "employee"), model.PositionList{{DocID: 2, DocDate: d}})
	store.Put(index.DepKey("invest", "nsubj", "company"), model.PositionList{{DocID: 3, DocDate: d}})

	e := New(store, nil, model.GranularityDocument, 4)
	c := model.DependencyCondition{
		Governor:  model.DepArg{Kind: model.DepArgLiteral, Value: "invest"},
		Relation:  model.DepArg{Kind: model.DepArgVariable, Value: "r"},
		Dependent: model.DepArg{Kind: model.DepArgLiteral, Value: "employee"},
	}
	ms, err := e.Execute(context.Background(), c)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ms.Len() != 2 {
		t.Fatalf("got %d keys, want 2 (docs 1 and 2, not doc 3)", ms.Len())
	}
	for _, key := range ms.Keys() {
		if key.DocID == 3 {
			t.Errorf("doc 3 (dependent company) should not match literal dependent employee")
		}
	}
}

func TestExecCancellation(t *testing.T) {
	store := newMemStore()
	e := New(store, nil, model.GranularityDocument, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Execute(ctx, model.ContainsCondition{Terms: []string{"a"}})
	if err == nil {
		t.Error("expected cancellation error")
	}
}
