// Package exec implements the per-condition executors and the logical
// combinator, fanning independent children out across goroutines with a
// sync.WaitGroup plus a worker semaphore, and honoring cancellation via
// context.Context.
package exec

import (
	"context"

	"github.com/Fredrikaaa/temporalsearch/internal/index"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// Engine executes a model.Condition tree against a positional index,
// producing a MatchSet at the query's granularity.
type Engine struct {
	store       index.Store
	dateLookup  DateLookup
	granularity model.Granularity
	maxWorkers  int
}

// DateLookup resolves a document's date. The Engine holds one, but no
// executor in this package currently consults it: Contains/Ner/Pos/Dependency
// matches read the date from the position records they already have, and
// Temporal consults the date sub-index directly.
type DateLookup interface {
	DocumentDate(docID uint32) (model.Date, bool)
}

// New returns an Engine reading from store, grouping results at
// granularity, and fanning out child executions across at most
// maxWorkers goroutines (0 selects a sensible default).
func New(store index.Store, dates DateLookup, granularity model.Granularity, maxWorkers int) *Engine {
	if maxWorkers <= 0 {
		maxWorkers = 8
	}
	return &Engine{store: store, dateLookup: dates, granularity: granularity, maxWorkers: maxWorkers}
}

// Execute dispatches on the condition's concrete type.
func (e *Engine) Execute(ctx context.Context, cond model.Condition) (*model.MatchSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled()
	}
	switch c := cond.(type) {
	case model.ContainsCondition:
		return e.execContains(ctx, c)
	case model.NerCondition:
		return e.execNer(ctx, c)
	case model.PosCondition:
		return e.execPos(ctx, c)
	case model.DependencyCondition:
		return e.execDependency(ctx, c)
	case model.TemporalCondition:
		return e.execTemporal(ctx, c)
	case model.LogicalCondition:
		return e.execLogical(ctx, c)
	case model.NotCondition:
		return e.execNot(ctx, c)
	default:
		return nil, internalErr("dispatch", "unhandled condition type")
	}
}

func (e *Engine) newMatchSet() *model.MatchSet {
	return model.NewMatchSet(e.granularity)
}

// groupKey collapses a position to this engine's granularity key.
func (e *Engine) groupKey(p model.Position) model.GroupKey {
	return p.GranularityKey(e.granularity)
}
