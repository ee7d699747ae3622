// Package registry tracks variable producers and consumers discovered while
// parsing a query, and validates the finished query's variable usage.
package registry

import (
	"fmt"
	"sort"

	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// binding records one producer or consumer sighting of a variable.
type binding struct {
	kind          model.VariableKind
	conditionKind string
}

// Registry is the variable registry: a name maps to the set of conditions
// that produce it and the set that consume it.
type Registry struct {
	producers map[string][]binding
	consumers map[string][]binding
	order     []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		producers: make(map[string][]binding),
		consumers: make(map[string][]binding),
	}
}

func (r *Registry) remember(name string) {
	if _, ok := r.producers[name]; !ok {
		if _, ok := r.consumers[name]; !ok {
			r.order = append(r.order, name)
		}
	}
}

// RegisterProducer records that conditionKind binds name with kind.
func (r *Registry) RegisterProducer(name string, kind model.VariableKind, conditionKind string) {
	if name == "" {
		return
	}
	r.remember(name)
	r.producers[name] = append(r.producers[name], binding{kind: kind, conditionKind: conditionKind})
}

// RegisterConsumer records that conditionKind reads name (SELECT, ORDER BY,
// SNIPPET, a join column, ...).
func (r *Registry) RegisterConsumer(name string, kind model.VariableKind, conditionKind string) {
	if name == "" {
		return
	}
	r.remember(name)
	r.consumers[name] = append(r.consumers[name], binding{kind: kind, conditionKind: conditionKind})
}

// InferredKind merges every producer kind seen for name, collapsing to ANY
// on conflict. Returns KindAny if name has no producers.
func (r *Registry) InferredKind(name string) model.VariableKind {
	bindings := r.producers[name]
	if len(bindings) == 0 {
		return model.KindAny
	}
	kind := bindings[0].kind
	for _, b := range bindings[1:] {
		kind = kind.Merge(b.kind)
	}
	return kind
}

// HasProducer reports whether name has at least one producer.
func (r *Registry) HasProducer(name string) bool {
	return len(r.producers[name]) > 0
}

// Names returns every variable name seen, in first-sighting order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Validate runs variable-usage checks and returns every violation found
// (never just the first), sorted for deterministic reporting.
func (r *Registry) Validate() []string {
	var errs []string

	for _, name := range r.order {
		if len(r.consumers[name]) > 0 && len(r.producers[name]) == 0 {
			errs = append(errs, fmt.Sprintf("variable ?%s is referenced but never produced by a condition", name))
			continue
		}
		kinds := make(map[model.VariableKind]bool)
		for _, b := range r.producers[name] {
			if b.kind != model.KindAny {
				kinds[b.kind] = true
			}
		}
		if len(kinds) > 1 {
			errs = append(errs, fmt.Sprintf("variable ?%s has incompatible producer kinds", name))
		}
	}

	sort.Strings(errs)
	return errs
}

var validNerTypes = map[string]bool{
	"PERSON": true, "ORGANIZATION": true, "LOCATION": true, "DATE": true,
	"TIME": true, "DURATION": true, "MONEY": true, "NUMBER": true,
	"ORDINAL": true, "PERCENT": true, "SET": true, "*": true,
}

// ValidNerType reports whether t is one of the recognized NER entity
// types (or the "*" wildcard).
func ValidNerType(t string) bool {
	return validNerTypes[t]
}
