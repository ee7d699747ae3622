package parser

import (
	"strconv"

	"github.com/Fredrikaaa/temporalsearch/internal/lang/lexer"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
)

var dateOpPredicate = map[string]model.TemporalPredicate{
	"<":            model.PredBefore,
	">":            model.PredAfter,
	"<=":           model.PredBeforeEqual,
	">=":           model.PredAfterEqual,
	"==":           model.PredEqual,
	"CONTAINS":     model.PredContains,
	"CONTAINED_BY": model.PredContainedBy,
	"INTERSECT":    model.PredIntersect,
	"NEAR":         model.PredProximity,
}

var unitDays = map[string]int{"y": 365, "m": 30, "d": 1}

// condition := CONTAINS(...) | NER(...) | POS(...) | DEPENDS(...) | DATE(...)
func (p *Parser) parseCondition() (model.Condition, error) {
	tok := p.peek()
	if tok.Type != lexer.TokenKeyword {
		return nil, p.errorf(tok, "condition", "expected a condition keyword, got %q", tok.Value)
	}

	switch tok.Value {
	case "CONTAINS":
		return p.parseContains()
	case "NER":
		return p.parseNer()
	case "POS":
		return p.parsePos()
	case "DEPENDS":
		return p.parseDepends()
	case "DATE":
		return p.parseDate()
	default:
		return nil, p.errorf(tok, "condition", "unexpected keyword %q in condition position", tok.Value)
	}
}

// CONTAINS '(' STRING (',' STRING)* ')'
func (p *Parser) parseContains() (model.Condition, error) {
	p.next() // CONTAINS
	if _, err := p.expectType(lexer.TokenLParen, "condition", "'('"); err != nil {
		return nil, err
	}
	var terms []string
	for {
		strTok, err := p.expectType(lexer.TokenString, "condition", "string literal")
		if err != nil {
			return nil, err
		}
		terms = append(terms, strTok.Value)
		if p.peek().Type != lexer.TokenComma {
			break
		}
		p.next()
	}
	if _, err := p.expectType(lexer.TokenRParen, "condition", "')'"); err != nil {
		return nil, err
	}
	return model.ContainsCondition{Terms: terms}, nil
}

// NER '(' (STRING|'*') (',' variable)? ')' ('AS' variable)?
func (p *Parser) parseNer() (model.Condition, error) {
	p.next() // NER
	if _, err := p.expectType(lexer.TokenLParen, "condition", "'('"); err != nil {
		return nil, err
	}
	var entityType string
	switch tok := p.peek(); {
	case tok.Type == lexer.TokenString:
		p.next()
		entityType = tok.Value
	case tok.Type == lexer.TokenStar:
		p.next()
		entityType = "*"
	default:
		return nil, p.errorf(tok, "condition", "expected string or '*' for NER type, got %q", tok.Value)
	}

	var innerVar string
	if p.peek().Type == lexer.TokenComma {
		p.next()
		varTok, err := p.expectType(lexer.TokenVariable, "condition", "variable")
		if err != nil {
			return nil, err
		}
		innerVar = varTok.Value
	}
	if _, err := p.expectType(lexer.TokenRParen, "condition", "')'"); err != nil {
		return nil, err
	}

	varName, err := p.parseOptionalAs()
	if err != nil {
		return nil, err
	}
	if varName == "" {
		varName = innerVar
	}
	if varName != "" {
		p.reg.RegisterProducer(varName, model.KindEntity, "NER")
	}
	return model.NerCondition{EntityType: entityType, Var: varName}, nil
}

// POS '(' STRING (',' STRING)? ')' ('AS' variable)?
//
// Distinguishes term-filter vs. variable-bound usages of the second POS
// argument; this parser accepts a second STRING as a literal term filter
// and falls back to 'AS variable' for the binding form, since the
// grammar's second slot is a STRING, not a variable.
func (p *Parser) parsePos() (model.Condition, error) {
	p.next() // POS
	if _, err := p.expectType(lexer.TokenLParen, "condition", "'('"); err != nil {
		return nil, err
	}
	tagTok, err := p.expectType(lexer.TokenString, "condition", "string literal")
	if err != nil {
		return nil, err
	}
	var term string
	if p.peek().Type == lexer.TokenComma {
		p.next()
		termTok, err := p.expectType(lexer.TokenString, "condition", "string literal")
		if err != nil {
			return nil, err
		}
		term = termTok.Value
	}
	if _, err := p.expectType(lexer.TokenRParen, "condition", "')'"); err != nil {
		return nil, err
	}
	varName, err := p.parseOptionalAs()
	if err != nil {
		return nil, err
	}
	if varName != "" {
		p.reg.RegisterProducer(varName, model.KindPOSTag, "POS")
	}
	return model.PosCondition{Tag: tagTok.Value, Term: term, Var: varName}, nil
}

func (p *Parser) parseOptionalAs() (string, error) {
	if !p.atKeyword("AS") {
		return "", nil
	}
	p.next()
	varTok, err := p.expectType(lexer.TokenVariable, "condition", "variable")
	if err != nil {
		return "", err
	}
	return varTok.Value, nil
}

// DEPENDS '(' arg ',' arg ',' arg ')'
// arg := variable | STRING
func (p *Parser) parseDepends() (model.Condition, error) {
	p.next() // DEPENDS
	if _, err := p.expectType(lexer.TokenLParen, "condition", "'('"); err != nil {
		return nil, err
	}
	gov, err := p.parseDepArg()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectType(lexer.TokenComma, "condition", "','"); err != nil {
		return nil, err
	}
	rel, err := p.parseDepArg()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectType(lexer.TokenComma, "condition", "','"); err != nil {
		return nil, err
	}
	dep, err := p.parseDepArg()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectType(lexer.TokenRParen, "condition", "')'"); err != nil {
		return nil, err
	}

	for _, a := range []model.DepArg{gov, rel, dep} {
		if a.IsVariable() {
			p.reg.RegisterProducer(a.Value, model.KindDependency, "DEPENDS")
		}
	}
	return model.DependencyCondition{Governor: gov, Relation: rel, Dependent: dep}, nil
}

func (p *Parser) parseDepArg() (model.DepArg, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenVariable:
		p.next()
		return model.DepArg{Kind: model.DepArgVariable, Value: tok.Value}, nil
	case lexer.TokenString:
		p.next()
		return model.DepArg{Kind: model.DepArgLiteral, Value: tok.Value}, nil
	default:
		return model.DepArg{}, p.errorf(tok, "condition", "expected variable or string, got %q", tok.Value)
	}
}

// DATE '(' variable? (',' dateOp value)? ')'
// value for NEAR is a STRING date followed by 'RADIUS' NUMBER IDENT(unit).
func (p *Parser) parseDate() (model.Condition, error) {
	p.next() // DATE
	if _, err := p.expectType(lexer.TokenLParen, "condition", "'('"); err != nil {
		return nil, err
	}

	var varName string
	if p.peek().Type == lexer.TokenVariable {
		varTok := p.next()
		varName = varTok.Value
	}

	cond := model.TemporalCondition{Var: varName}
	haveOp := false

	if p.peek().Type == lexer.TokenComma {
		p.next()
		haveOp = true
		opTok := p.peek()
		opName, err := p.readDateOpName(opTok)
		if err != nil {
			return nil, err
		}
		pred, ok := dateOpPredicate[opName]
		if !ok {
			return nil, p.errorf(opTok, "dateOp", "unrecognized date operator %q", opTok.Value)
		}
		cond.Predicate = pred

		if pred == model.PredProximity {
			dateTok, err := p.expectType(lexer.TokenString, "condition", "date string")
			if err != nil {
				return nil, err
			}
			d, err := model.ParseDate(dateTok.Value)
			if err != nil {
				return nil, p.errorf(dateTok, "condition", "invalid date %q: %v", dateTok.Value, err)
			}
			cond.StartDate = &d

			if _, err := p.expectKeyword("RADIUS", "condition"); err != nil {
				return nil, err
			}
			numTok, err := p.expectType(lexer.TokenNumber, "condition", "integer")
			if err != nil {
				return nil, err
			}
			n, convErr := strconv.Atoi(numTok.Value)
			if convErr != nil {
				return nil, p.errorf(numTok, "condition", "invalid integer %q", numTok.Value)
			}
			unitTok, err := p.expectType(lexer.TokenIdent, "condition", "unit suffix (y, m, or d)")
			if err != nil {
				return nil, err
			}
			perDay, ok := unitDays[unitTok.Value]
			if !ok {
				return nil, p.errorf(unitTok, "condition", "unrecognized RADIUS unit %q", unitTok.Value)
			}
			days := n * perDay
			cond.RangeDays = &days
		} else {
			dateTok, err := p.expectType(lexer.TokenString, "condition", "date string")
			if err != nil {
				return nil, err
			}
			d, err := model.ParseDate(dateTok.Value)
			if err != nil {
				return nil, p.errorf(dateTok, "condition", "invalid date %q: %v", dateTok.Value, err)
			}
			cond.StartDate = &d
		}
	}
	if _, err := p.expectType(lexer.TokenRParen, "condition", "')'"); err != nil {
		return nil, err
	}

	if varName != "" {
		if haveOp {
			p.reg.RegisterConsumer(varName, model.KindTemporal, "DATE")
		} else {
			p.reg.RegisterProducer(varName, model.KindTemporal, "DATE")
		}
	}
	return cond, nil
}

// readDateOpName normalizes a dateOp token (keyword or symbolic) to its
// canonical name for the dateOpPredicate lookup table.
func (p *Parser) readDateOpName(tok lexer.Token) (string, error) {
	switch tok.Type {
	case lexer.TokenLt:
		p.next()
		return "<", nil
	case lexer.TokenGt:
		p.next()
		return ">", nil
	case lexer.TokenLe:
		p.next()
		return "<=", nil
	case lexer.TokenGe:
		p.next()
		return ">=", nil
	case lexer.TokenEq:
		p.next()
		return "==", nil
	case lexer.TokenKeyword:
		p.next()
		return tok.Value, nil
	default:
		return "", p.errorf(tok, "dateOp", "expected a date operator, got %q", tok.Value)
	}
}
