package exec

import (
	"context"
	"sync"

	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// execLogical fans its positive children out across goroutines (bounded by
// maxWorkers via a semaphore channel), awaits all of them, combines by AND
// (intersect) or OR (union), then applies any Not children against the
// resulting universe: a Not must be combined with a positive condition
// that bounds it — it has no meaning executed in isolation.
func (e *Engine) execLogical(ctx context.Context, c model.LogicalCondition) (*model.MatchSet, error) {
	if len(c.Children) == 0 {
		return e.newMatchSet(), nil
	}

	var positives []model.Condition
	var negatives []model.NotCondition
	for _, child := range c.Children {
		if nc, ok := child.(model.NotCondition); ok {
			negatives = append(negatives, nc)
		} else {
			positives = append(positives, child)
		}
	}

	if len(positives) == 0 {
		if len(negatives) > 0 {
			return nil, internalErr("logical", "NOT has no positive condition to bound its universe")
		}
		return e.newMatchSet(), nil
	}

	results, err := e.executeParallel(ctx, positives)
	if err != nil {
		return nil, err
	}

	combined := results[0]
	for _, ms := range results[1:] {
		if c.Op == model.LogicalAnd {
			combined = intersectSets(e.granularity, combined, ms)
		} else {
			combined = unionSets(e.granularity, combined, ms)
		}
	}

	for _, nc := range negatives {
		combined, err = e.subtractNot(ctx, nc, combined)
		if err != nil {
			return nil, err
		}
	}
	return combined, nil
}

// executeParallel runs every condition concurrently (bounded by
// e.maxWorkers), cancelling the remaining work as soon as one fails.
func (e *Engine) executeParallel(ctx context.Context, conds []model.Condition) ([]*model.MatchSet, error) {
	results := make([]*model.MatchSet, len(conds))
	errs := make([]error, len(conds))
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.maxWorkers)

	childCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, cond := range conds {
		wg.Add(1)
		go func(idx int, c model.Condition) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ms, err := e.Execute(childCtx, c)
			if err != nil {
				errs[idx] = err
				cancel()
				return
			}
			results[idx] = ms
		}(i, cond)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// execNot executes a NotCondition found outside of a bounding Logical
// context (e.g. as the query's single top-level condition). The semantic
// validator rejects this shape before execution ever reaches here; this
// path exists only so Engine.Execute's type switch is total.
func (e *Engine) execNot(ctx context.Context, c model.NotCondition) (*model.MatchSet, error) {
	return nil, internalErr("logical", "NOT executed without a bounding universe")
}

// subtractNot executes nc.Child and removes its keys from universe.
func (e *Engine) subtractNot(ctx context.Context, nc model.NotCondition, universe *model.MatchSet) (*model.MatchSet, error) {
	childSet, err := e.Execute(ctx, nc.Child)
	if err != nil {
		return nil, err
	}
	result := e.newMatchSet()
	for _, key := range universe.Keys() {
		if childSet.Has(key) {
			continue
		}
		for _, m := range universe.Get(key) {
			result.Add(m)
		}
	}
	return result, nil
}

// intersectSets keeps only keys present in both a and b, unioning their
// variable bindings per key.
func intersectSets(g model.Granularity, a, b *model.MatchSet) *model.MatchSet {
	out := model.NewMatchSet(g)
	for _, key := range a.Keys() {
		if !b.Has(key) {
			continue
		}
		for _, m := range a.Get(key) {
			out.Add(m)
		}
		for _, m := range b.Get(key) {
			out.Add(m)
		}
	}
	return out
}

// unionSets combines every key from both sets; a key present in both
// carries both producers' values.
func unionSets(g model.Granularity, a, b *model.MatchSet) *model.MatchSet {
	out := model.NewMatchSet(g)
	for _, m := range a.All() {
		out.Add(m)
	}
	for _, m := range b.All() {
		out.Add(m)
	}
	return out
}
