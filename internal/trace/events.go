// Package trace provides a low-overhead event/annotation system for query
// execution, used by the CLI's --explain mode to show how a query was
// parsed, validated, executed and projected.
package trace

import (
	"sync"
	"time"
)

// Event name constants, hierarchically namespaced.
const (
	QueryParsed    = "query/parsed"
	QueryValidated = "query/validated"
	QueryCompleted = "query/completed"

	ConditionBegin    = "condition/begin"
	ConditionComplete = "condition/complete"

	LogicalCombine = "logical/combine"

	JoinBuildLeft  = "join/build-left"
	JoinBuildRight = "join/build-right"
	JoinInnerScan  = "join/inner-scan"
	JoinOuterFill  = "join/outer-fill"

	ProjectBegin    = "project/begin"
	ProjectComplete = "project/complete"
	SnippetExpanded = "snippet/expanded"

	ErrorParse      = "error/parse"
	ErrorValidation = "error/validation"
	ErrorExecution  = "error/execution"
)

// Event is a single annotation emitted during query execution.
type Event struct {
	Name    string
	Start   time.Time
	End     time.Time
	Latency time.Duration
	Data    map[string]any
}

// Handler processes events as they occur.
type Handler func(Event)

// Collector accumulates events during one query's execution. A nil or
// disabled Collector costs a single boolean check per Add call, so the
// executor can unconditionally emit events without a --explain flag check
// at every call site.
type Collector struct {
	enabled bool
	handler Handler

	mu     sync.Mutex
	events []Event
}

// NewCollector builds a Collector. A nil handler disables collection
// entirely (Add becomes a no-op), used when --explain was not requested.
func NewCollector(handler Handler) *Collector {
	return &Collector{enabled: handler != nil, handler: handler, events: make([]Event, 0, 64)}
}

// Add records an event and forwards it to the handler outside the lock.
func (c *Collector) Add(event Event) {
	if c == nil || !c.enabled {
		return
	}
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
	if c.handler != nil {
		c.handler(event)
	}
}

// AddTiming records an event whose Start is already known and whose End is
// now.
func (c *Collector) AddTiming(name string, start time.Time, data map[string]any) {
	if c == nil || !c.enabled {
		return
	}
	end := time.Now()
	c.Add(Event{Name: name, Start: start, End: end, Latency: end.Sub(start), Data: data})
}

// Events returns a copy of every event recorded so far.
func (c *Collector) Events() []Event {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}
