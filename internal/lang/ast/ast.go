// Package ast pairs a parsed model.Query with the variable registry built
// alongside it. The pairing lives here rather than on model.Query itself:
// model is a leaf package with no knowledge of registry, and registry in
// turn imports model's Condition types, so embedding one in the other would
// create a cycle.
package ast

import (
	"github.com/Fredrikaaa/temporalsearch/internal/model"
	"github.com/Fredrikaaa/temporalsearch/internal/registry"
)

// ParsedQuery is the output of internal/lang/parser: a query together with
// the registry that recorded every producer/consumer seen while parsing it.
type ParsedQuery struct {
	Query    *model.Query
	Registry *registry.Registry
}

// Validate runs the registry's semantic checks and the query-shape checks
// that need both the query and the registry together.
func (p *ParsedQuery) Validate() []string {
	errs := p.Registry.Validate()
	errs = append(errs, validateQueryShape(p.Query, p.Registry)...)
	return errs
}
