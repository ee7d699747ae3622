// Package parser implements the recursive-descent parser for the
// SQL-flavored query grammar, producing an *ast.ParsedQuery from source
// text via internal/lang/lexer tokens.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fredrikaaa/temporalsearch/internal/lang/ast"
	"github.com/Fredrikaaa/temporalsearch/internal/lang/lexer"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
	"github.com/Fredrikaaa/temporalsearch/internal/registry"
	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// Parser consumes a token stream and builds a model.Query, recording
// variable producers/consumers into a registry as it goes.
type Parser struct {
	lex *lexer.Lexer
	reg *registry.Registry
}

// Parse tokenizes and parses text, returning a validated-shape
// *ast.ParsedQuery or a PARSE_ERROR (never a silent partial success).
// Semantic validation (ast.ParsedQuery.Validate) is the caller's next
// step, not run implicitly here.
func Parse(text string) (*ast.ParsedQuery, error) {
	l := lexer.New(text)
	if err := l.Lex(); err != nil {
		if le, ok := err.(*lexer.LexError); ok {
			return nil, xerrors.Parse(le.Line, le.Col, "lex", le.Reason)
		}
		return nil, xerrors.Parse(0, 0, "lex", err.Error())
	}
	p := &Parser{lex: l, reg: registry.New()}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != lexer.TokenEOF {
		return nil, p.errorf(tok, "query", "unexpected trailing input %q", tok.Value)
	}
	return &ast.ParsedQuery{Query: q, Registry: p.reg}, nil
}

func (p *Parser) peek() lexer.Token { return p.lex.PeekToken() }
func (p *Parser) next() lexer.Token { return p.lex.NextToken() }

func (p *Parser) errorf(tok lexer.Token, rule, format string, args ...any) error {
	return xerrors.Parse(tok.Line, tok.Col, rule, fmt.Sprintf(format, args...))
}

// expectKeyword consumes tok if it is the keyword kw, else fails.
func (p *Parser) expectKeyword(kw, rule string) (lexer.Token, error) {
	tok := p.peek()
	if tok.Type != lexer.TokenKeyword || tok.Value != kw {
		return tok, p.errorf(tok, rule, "expected %q, got %q", kw, tok.Value)
	}
	return p.next(), nil
}

func (p *Parser) expectType(tt lexer.TokenType, rule, what string) (lexer.Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.errorf(tok, rule, "expected %s, got %q", what, tok.Value)
	}
	return p.next(), nil
}

func (p *Parser) atKeyword(kw string) bool {
	tok := p.peek()
	return tok.Type == lexer.TokenKeyword && tok.Value == kw
}

// parseQuery: SELECT columnList FROM identifier whereClause? groupClause? orderClause? limitClause?
func (p *Parser) parseQuery() (*model.Query, error) {
	if _, err := p.expectKeyword("SELECT", "query"); err != nil {
		return nil, err
	}
	cols, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("FROM", "query"); err != nil {
		return nil, err
	}
	srcTok, err := p.expectType(lexer.TokenIdent, "query", "source identifier")
	if err != nil {
		return nil, err
	}

	q := &model.Query{Source: srcTok.Value, SelectColumns: cols}

	if p.atKeyword("WHERE") {
		p.next()
		cond, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		q.Conditions = []model.Condition{cond}
	}

	if p.atKeyword("GRANULARITY") {
		p.next()
		if err := p.parseGroupClause(q); err != nil {
			return nil, err
		}
	}

	if p.atKeyword("ORDER") {
		p.next()
		if err := p.parseOrderClause(q); err != nil {
			return nil, err
		}
	}

	if p.atKeyword("LIMIT") {
		p.next()
		tok, err := p.expectType(lexer.TokenNumber, "limitClause", "integer")
		if err != nil {
			return nil, err
		}
		n, convErr := strconv.Atoi(tok.Value)
		if convErr != nil {
			return nil, p.errorf(tok, "limitClause", "invalid integer %q", tok.Value)
		}
		q.Limit = &n
	}

	for _, c := range cols {
		if v, ok := c.(model.VariableColumn); ok {
			p.reg.RegisterConsumer(v.Name, model.KindAny, "SELECT")
		}
		if s, ok := c.(model.SnippetColumn); ok {
			p.reg.RegisterConsumer(s.Variable, model.KindAny, "SNIPPET")
		}
		if cc, ok := c.(model.CountColumn); ok && cc.Target == model.CountUniqueVariable {
			p.reg.RegisterConsumer(cc.Variable, model.KindAny, "COUNT")
		}
	}
	for _, o := range q.OrderBy {
		if strings.HasPrefix(o.Name, "?") {
			p.reg.RegisterConsumer(strings.TrimPrefix(o.Name, "?"), model.KindAny, "ORDER BY")
		}
	}

	return q, nil
}

// columnList := columnSpec (',' columnSpec)*
func (p *Parser) parseColumnList() ([]model.SelectColumn, error) {
	var cols []model.SelectColumn
	for {
		col, err := p.parseColumnSpec()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		if p.peek().Type != lexer.TokenComma {
			break
		}
		p.next()
	}
	return cols, nil
}

func (p *Parser) parseColumnSpec() (model.SelectColumn, error) {
	tok := p.peek()

	switch {
	case tok.Type == lexer.TokenVariable:
		p.next()
		return model.VariableColumn{Name: tok.Value}, nil

	case tok.Type == lexer.TokenKeyword && tok.Value == "TITLE":
		p.next()
		return model.TitleColumn{}, nil

	case tok.Type == lexer.TokenKeyword && tok.Value == "TIMESTAMP":
		p.next()
		return model.TimestampColumn{}, nil

	case tok.Type == lexer.TokenKeyword && tok.Value == "SNIPPET":
		p.next()
		if _, err := p.expectType(lexer.TokenLParen, "columnSpec", "'('"); err != nil {
			return nil, err
		}
		varTok, err := p.expectType(lexer.TokenVariable, "columnSpec", "variable")
		if err != nil {
			return nil, err
		}
		window := 0
		if p.peek().Type == lexer.TokenComma {
			p.next()
			if _, err := p.expectKeyword("WINDOW", "columnSpec"); err != nil {
				return nil, err
			}
			if _, err := p.expectType(lexer.TokenAssign, "columnSpec", "'='"); err != nil {
				return nil, err
			}
			numTok, err := p.expectType(lexer.TokenNumber, "columnSpec", "integer")
			if err != nil {
				return nil, err
			}
			n, convErr := strconv.Atoi(numTok.Value)
			if convErr != nil {
				return nil, p.errorf(numTok, "columnSpec", "invalid integer %q", numTok.Value)
			}
			window = n
		}
		if _, err := p.expectType(lexer.TokenRParen, "columnSpec", "')'"); err != nil {
			return nil, err
		}
		return model.SnippetColumn{Variable: varTok.Value, Window: window}, nil

	case tok.Type == lexer.TokenKeyword && tok.Value == "COUNT":
		p.next()
		if _, err := p.expectType(lexer.TokenLParen, "columnSpec", "'('"); err != nil {
			return nil, err
		}
		inner := p.peek()
		var cc model.CountColumn
		switch {
		case inner.Type == lexer.TokenStar:
			p.next()
			cc = model.CountColumn{Target: model.CountAll}
		case inner.Type == lexer.TokenKeyword && inner.Value == "DOCUMENTS":
			p.next()
			cc = model.CountColumn{Target: model.CountDocuments}
		case inner.Type == lexer.TokenKeyword && inner.Value == "UNIQUE":
			p.next()
			varTok, err := p.expectType(lexer.TokenVariable, "columnSpec", "variable")
			if err != nil {
				return nil, err
			}
			cc = model.CountColumn{Target: model.CountUniqueVariable, Variable: varTok.Value}
		default:
			return nil, p.errorf(inner, "columnSpec", "expected '*', DOCUMENTS, or UNIQUE, got %q", inner.Value)
		}
		if _, err := p.expectType(lexer.TokenRParen, "columnSpec", "')'"); err != nil {
			return nil, err
		}
		return cc, nil

	case tok.Type == lexer.TokenIdent:
		p.next()
		return nil, p.errorf(tok, "columnSpec", "bare identifier %q is not a valid projection column", tok.Value)

	default:
		return nil, p.errorf(tok, "columnSpec", "unexpected token %q", tok.Value)
	}
}

// orExpr := andExpr ('OR' andExpr)*
func (p *Parser) parseOrExpr() (model.Condition, error) {
	first, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	children := []model.Condition{first}
	for p.atKeyword("OR") {
		p.next()
		next, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return model.LogicalCondition{Op: model.LogicalOr, Children: children}, nil
}

// andExpr := notExpr ('AND' notExpr)*
func (p *Parser) parseAndExpr() (model.Condition, error) {
	first, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	children := []model.Condition{first}
	for p.atKeyword("AND") {
		p.next()
		next, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return model.LogicalCondition{Op: model.LogicalAnd, Children: children}, nil
}

// notExpr := 'NOT' notExpr | atom
func (p *Parser) parseNotExpr() (model.Condition, error) {
	if p.atKeyword("NOT") {
		p.next()
		child, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return model.NotCondition{Child: child}, nil
	}
	return p.parseAtom()
}

// atom := '(' orExpr ')' | condition
func (p *Parser) parseAtom() (model.Condition, error) {
	if p.peek().Type == lexer.TokenLParen {
		p.next()
		cond, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectType(lexer.TokenRParen, "atom", "')'"); err != nil {
			return nil, err
		}
		return cond, nil
	}
	return p.parseCondition()
}
