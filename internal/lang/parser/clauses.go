package parser

import (
	"strconv"

	"github.com/Fredrikaaa/temporalsearch/internal/lang/lexer"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

// groupClause := 'GRANULARITY' ('DOCUMENT' | ('SENTENCE' INT?))
// the GRANULARITY keyword itself is already consumed by the caller.
func (p *Parser) parseGroupClause(q *model.Query) error {
	tok := p.peek()
	switch {
	case tok.Type == lexer.TokenKeyword && tok.Value == "DOCUMENT":
		p.next()
		q.Granularity = model.GranularityDocument
	case tok.Type == lexer.TokenKeyword && tok.Value == "SENTENCE":
		p.next()
		q.Granularity = model.GranularitySentence
		if p.peek().Type == lexer.TokenNumber {
			numTok := p.next()
			n, err := strconv.Atoi(numTok.Value)
			if err != nil {
				return p.errorf(numTok, "groupClause", "invalid integer %q", numTok.Value)
			}
			q.GranularitySize = &n
		}
	default:
		return p.errorf(tok, "groupClause", "expected DOCUMENT or SENTENCE, got %q", tok.Value)
	}
	return nil
}

// orderClause := 'ORDER' 'BY' orderSpec (',' orderSpec)*
// the ORDER keyword itself is already consumed by the caller.
func (p *Parser) parseOrderClause(q *model.Query) error {
	if _, err := p.expectKeyword("BY", "orderClause"); err != nil {
		return err
	}
	for {
		spec, err := p.parseOrderSpec()
		if err != nil {
			return err
		}
		q.OrderBy = append(q.OrderBy, spec)
		if p.peek().Type != lexer.TokenComma {
			break
		}
		p.next()
	}
	return nil
}

// orderSpec := (identifier|variable) ('ASC'|'DESC')?
func (p *Parser) parseOrderSpec() (model.OrderSpec, error) {
	tok := p.peek()
	var name string
	switch tok.Type {
	case lexer.TokenVariable:
		p.next()
		name = "?" + tok.Value
	case lexer.TokenIdent:
		p.next()
		name = tok.Value
	case lexer.TokenKeyword:
		p.next()
		name = tok.Value
	default:
		return model.OrderSpec{}, p.errorf(tok, "orderSpec", "expected identifier or variable, got %q", tok.Value)
	}

	dir := model.OrderAsc
	if p.atKeyword("ASC") {
		p.next()
	} else if p.atKeyword("DESC") {
		p.next()
		dir = model.OrderDesc
	}
	return model.OrderSpec{Name: name, Direction: dir}, nil
}
