// Package project implements the result projector and snippet expander:
// turning a condition executor's MatchSet into a final table of rows
// (ORDER BY and LIMIT applied last), with on-demand snippet text built
// from the relational collaborator (internal/corpus).
package project

import (
	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// ContextAnchor identifies the point a snippet expands around: a token or
// character position inside one sentence of one document, optionally tied
// to the variable whose binding produced it.
type ContextAnchor struct {
	DocID        uint32
	SentenceID   int32
	CharPosition uint32
	VariableName string
}

// Validate enforces non-negative docId/sentenceId rule.
// DocID is a uint32 so it cannot be negative; SentenceID is signed because
// -1 is the WholeDocument sentinel, which is not a valid anchor target.
func (a ContextAnchor) Validate() error {
	if a.SentenceID < 0 {
		return xerrors.Internal("project", "context anchor requires a non-negative sentenceId")
	}
	return nil
}
