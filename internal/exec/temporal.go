package exec

import (
	"context"

	"github.com/Fredrikaaa/temporalsearch/internal/index"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// execTemporal implements the Temporal(...) executor. It always enumerates
// the date:* sub-index and emits one match per day that satisfies the
// predicate, bound to c.Var when one is named; it does not call
// FilterBindings.
func (e *Engine) execTemporal(ctx context.Context, c model.TemporalCondition) (*model.MatchSet, error) {
	ms := e.newMatchSet()

	it, err := e.store.IteratorOptions(index.ReadOptions{
		Prefix: index.DatePrefix(),
		Start:  index.DatePrefix(),
		End:    index.PrefixUpperBound(index.DatePrefix()),
	})
	if err != nil {
		return nil, wrapStoreErr("date", "*", err)
	}
	defer it.Close()

	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, cancelled()
		}
		day, ok := dateFromKey(it.Key())
		if !ok {
			continue
		}
		if !matchesPredicate(c, day) {
			continue
		}
		pl, err := it.Value()
		if err != nil {
			return nil, err
		}
		for _, p := range pl {
			ms.Add(model.MatchDetail{
				Value:        day.String(),
				ValueType:    model.ValueDate,
				Position:     p,
				ConditionID:  "DATE",
				VariableName: c.Var,
			})
		}
	}
	return ms, nil
}

// FilterBindings narrows an existing MatchSet's positions to those whose
// document date satisfies a TemporalCondition that reads a bound variable
// rather than a literal date.
func (e *Engine) FilterBindings(c model.TemporalCondition, bound *model.MatchSet) *model.MatchSet {
	out := e.newMatchSet()
	for _, m := range bound.All() {
		if matchesPredicate(c, m.Position.DocDate) {
			out.Add(m)
		}
	}
	return out
}

func matchesPredicate(c model.TemporalCondition, day model.Date) bool {
	switch c.Predicate {
	case model.PredBefore:
		return c.StartDate != nil && day < *c.StartDate
	case model.PredAfter:
		return c.StartDate != nil && day > *c.StartDate
	case model.PredBeforeEqual:
		return c.StartDate != nil && day <= *c.StartDate
	case model.PredAfterEqual:
		return c.StartDate != nil && day >= *c.StartDate
	case model.PredEqual, model.PredContains, model.PredContainedBy, model.PredIntersect:
		return c.StartDate != nil && day == *c.StartDate
	case model.PredBetween:
		return c.StartDate != nil && c.EndDate != nil && day >= *c.StartDate && day <= *c.EndDate
	case model.PredProximity:
		if c.StartDate == nil || c.RangeDays == nil {
			return false
		}
		diff := day.DiffDays(*c.StartDate)
		if diff < 0 {
			diff = -diff
		}
		return diff <= int64(*c.RangeDays)
	default:
		return false
	}
}

func dateFromKey(key []byte) (model.Date, bool) {
	const prefix = "date:"
	if len(key) <= len(prefix) {
		return 0, false
	}
	d, err := model.ParseDate(string(key[len(prefix):]))
	if err != nil {
		return 0, false
	}
	return d, true
}
