package exec

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fredrikaaa/temporalsearch/internal/index"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// execContains intersects the positional lists of every term by the
// engine's granularity key; each surviving position becomes a MatchDetail.
func (e *Engine) execContains(ctx context.Context, c model.ContainsCondition) (*model.MatchSet, error) {
	if len(c.Terms) == 0 {
		return e.newMatchSet(), nil
	}

	lists := make([]model.PositionList, len(c.Terms))
	for i, term := range c.Terms {
		if err := ctx.Err(); err != nil {
			return nil, cancelled()
		}
		key := index.TermKey(term)
		pl, err := e.store.Get(key)
		if err != nil {
			return nil, wrapStoreErr("term", string(key), err)
		}
		lists[i] = pl
	}

	sets := make([]*model.MatchSet, len(lists))
	for i, pl := range lists {
		ms := e.newMatchSet()
		for _, p := range pl {
			ms.Add(model.MatchDetail{
				Value:       c.Terms[i],
				ValueType:   model.ValueTerm,
				Position:    p,
				ConditionID: "CONTAINS",
			})
		}
		sets[i] = ms
	}

	result := sets[0]
	for _, s := range sets[1:] {
		result = intersectSets(e.granularity, result, s)
	}
	return result, nil
}

// execNer reads the ner:<TYPE> key, or unions every NER type when
// EntityType is the wildcard "*".
func (e *Engine) execNer(ctx context.Context, c model.NerCondition) (*model.MatchSet, error) {
	ms := e.newMatchSet()

	if c.EntityType != "*" {
		key := index.NerKey(c.EntityType)
		pl, err := e.store.Get(key)
		if err != nil {
			return nil, wrapStoreErr("ner", string(key), err)
		}
		for _, p := range pl {
			ms.Add(model.MatchDetail{
				Value:        c.EntityType,
				ValueType:    model.ValueEntity,
				Position:     p,
				ConditionID:  "NER",
				VariableName: c.Var,
			})
		}
		return ms, nil
	}

	it, err := e.store.IteratorOptions(index.ReadOptions{
		Prefix: index.NerPrefix(),
		Start:  index.NerPrefix(),
		End:    index.PrefixUpperBound(index.NerPrefix()),
	})
	if err != nil {
		return nil, wrapStoreErr("ner", "*", err)
	}
	defer it.Close()
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, cancelled()
		}
		pl, err := it.Value()
		if err != nil {
			return nil, err
		}
		entityType := entityTypeFromKey(it.Key())
		for _, p := range pl {
			ms.Add(model.MatchDetail{
				Value:        entityType,
				ValueType:    model.ValueEntity,
				Position:     p,
				ConditionID:  "NER",
				VariableName: c.Var,
			})
		}
	}
	return ms, nil
}

func entityTypeFromKey(key []byte) string {
	const prefix = "ner:"
	if len(key) > len(prefix) {
		return string(key[len(prefix):])
	}
	return ""
}

// execPos looks up pos:<TAG>:<term> when a literal term is given, or
// prefix-scans pos:<TAG>:* when binding a variable over every term.
func (e *Engine) execPos(ctx context.Context, c model.PosCondition) (*model.MatchSet, error) {
	ms := e.newMatchSet()

	if c.Term != "" {
		key := index.PosKey(c.Tag, c.Term)
		pl, err := e.store.Get(key)
		if err != nil {
			return nil, wrapStoreErr("pos", string(key), err)
		}
		for _, p := range pl {
			ms.Add(model.MatchDetail{
				Value:        fmt.Sprintf("%s/%s", c.Term, c.Tag),
				ValueType:    model.ValuePOSTerm,
				Position:     p,
				ConditionID:  "POS",
				VariableName: c.Var,
			})
		}
		return ms, nil
	}

	prefix := index.PosTagPrefix(c.Tag)
	it, err := e.store.IteratorOptions(index.ReadOptions{
		Prefix: prefix,
		Start:  prefix,
		End:    index.PrefixUpperBound(prefix),
	})
	if err != nil {
		return nil, wrapStoreErr("pos", c.Tag, err)
	}
	defer it.Close()
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, cancelled()
		}
		pl, err := it.Value()
		if err != nil {
			return nil, err
		}
		term := termFromPosKey(it.Key(), c.Tag)
		for _, p := range pl {
			ms.Add(model.MatchDetail{
				Value:        fmt.Sprintf("%s/%s", term, c.Tag),
				ValueType:    model.ValuePOSTerm,
				Position:     p,
				ConditionID:  "POS",
				VariableName: c.Var,
			})
		}
	}
	return ms, nil
}

func termFromPosKey(key []byte, tag string) string {
	prefix := "pos:" + tag + ":"
	if len(key) > len(prefix) {
		return string(key[len(prefix):])
	}
	return ""
}

// execDependency looks up a literal triple directly, or prefix-scans when
// one or more components is a variable. The prefix only encodes literal
// components up to the first variable, so any literal component after it
// (e.g. a literal dependent with a variable relation) is post-filtered
// against the scanned key.
func (e *Engine) execDependency(ctx context.Context, c model.DependencyCondition) (*model.MatchSet, error) {
	ms := e.newMatchSet()

	if !c.Governor.IsVariable() && !c.Relation.IsVariable() && !c.Dependent.IsVariable() {
		key := index.DepKey(c.Governor.Value, c.Relation.Value, c.Dependent.Value)
		pl, err := e.store.Get(key)
		if err != nil {
			return nil, wrapStoreErr("dep", string(key), err)
		}
		value := fmt.Sprintf("%s|%s|%s", c.Governor.Value, c.Relation.Value, c.Dependent.Value)
		for _, p := range pl {
			ms.Add(model.MatchDetail{Value: value, ValueType: model.ValueDependency, Position: p, ConditionID: "DEPENDS"})
		}
		return ms, nil
	}

	prefix := index.DepPrefix(c.Governor.Value, c.Relation.Value, c.Dependent.Value,
		c.Governor.IsVariable(), c.Relation.IsVariable(), c.Dependent.IsVariable())
	it, err := e.store.IteratorOptions(index.ReadOptions{
		Prefix: prefix,
		Start:  prefix,
		End:    index.PrefixUpperBound(prefix),
	})
	if err != nil {
		return nil, wrapStoreErr("dep", string(prefix), err)
	}
	defer it.Close()
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, cancelled()
		}

		governor, relation, dependent := depTripleFromKey(it.Key())
		if !c.Governor.IsVariable() && governor != c.Governor.Value {
			continue
		}
		if !c.Relation.IsVariable() && relation != c.Relation.Value {
			continue
		}
		if !c.Dependent.IsVariable() && dependent != c.Dependent.Value {
			continue
		}

		pl, err := it.Value()
		if err != nil {
			return nil, err
		}
		value := depValueFromKey(it.Key())
		for _, p := range pl {
			ms.Add(model.MatchDetail{Value: value, ValueType: model.ValueDependency, Position: p, ConditionID: "DEPENDS"})
		}
	}
	return ms, nil
}

func depValueFromKey(key []byte) string {
	const prefix = "dep:"
	if len(key) > len(prefix) {
		return string(key[len(prefix):])
	}
	return ""
}

// depTripleFromKey splits a "dep:governor|relation|dependent" key into its
// three components, used to post-filter literal components a prefix scan
// doesn't encode.
func depTripleFromKey(key []byte) (governor, relation, dependent string) {
	const prefix = "dep:"
	if len(key) <= len(prefix) {
		return "", "", ""
	}
	parts := strings.SplitN(string(key[len(prefix):]), "|", 3)
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return parts[0], parts[1], ""
	default:
		return parts[0], "", ""
	}
}

func wrapStoreErr(kind, key string, err error) error {
	if code := codeOf(err); code == "READ_ERROR" || code == "RESOURCE_ERROR" {
		return err
	}
	return readErr(kind, key, err)
}
