package parser

import (
	"strconv"

	"github.com/conneroisu/snek/internal/types"
	"github.com/conneroisu/snek/pkg/lexer"
)

// compareOps maps comparison tokens to their operator kind.
var compareOps = map[lexer.TokenType]types.CompareOp{
	lexer.TOKEN_EQ:  types.OpEq,
	lexer.TOKEN_NEQ: types.OpNEq,
	lexer.TOKEN_LT:  types.OpLT,
	lexer.TOKEN_GT:  types.OpGT,
	lexer.TOKEN_LTE: types.OpLTE,
	lexer.TOKEN_GTE: types.OpGTE,
}

// termOps maps multiplicative tokens to their operator kind.
var termOps = map[lexer.TokenType]types.BinaryOp{
	lexer.TOKEN_STAR:    types.OpMul,
	lexer.TOKEN_SLASH:   types.OpDiv,
	lexer.TOKEN_DSLASH:  types.OpFloorDiv,
	lexer.TOKEN_PERCENT: types.OpMod,
}

// parseExpression parses an expression at the lowest precedence level.
// The grammar's precedence ladder is one method per level, lowest binding
// first: or, and, not, comparison, sum, term, factor, power, trailers.
func (p *Parser) parseExpression() (types.Expr, error) {
	return p.parseOr()
}

// parseOr parses left-associative 'or' chains.
func (p *Parser) parseOr() (types.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.TOKEN_OR) {
		tok := p.cur
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &types.BoolOpExpr{Pos: types.At(tok.Line), Op: types.OpOr, Left: left, Right: right}
	}

	return left, nil
}

// parseAnd parses left-associative 'and' chains.
func (p *Parser) parseAnd() (types.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.TOKEN_AND) {
		tok := p.cur
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &types.BoolOpExpr{Pos: types.At(tok.Line), Op: types.OpAnd, Left: left, Right: right}
	}

	return left, nil
}

// parseNot parses 'not' chains ('not not x' is valid).
func (p *Parser) parseNot() (types.Expr, error) {
	if p.curIs(lexer.TOKEN_NOT) {
		tok := p.cur
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		return &types.UnaryExpr{Pos: types.At(tok.Line), Op: types.OpNot, Operand: operand}, nil
	}

	return p.parseComparison()
}

// parseComparison parses comparisons, collecting a chain like a < b <= c
// into a single CompareExpr so middle operands evaluate once.
func (p *Parser) parseComparison() (types.Expr, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	op, ok := compareOps[p.cur.Type]
	if !ok {
		return left, nil
	}

	expr := &types.CompareExpr{Pos: types.At(p.cur.Line), Left: left}
	for {
		p.advance()
		right, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		expr.Ops = append(expr.Ops, op)
		expr.Rights = append(expr.Rights, right)

		op, ok = compareOps[p.cur.Type]
		if !ok {
			return expr, nil
		}
	}
}

// parseSum parses left-associative '+' and '-' chains.
func (p *Parser) parseSum() (types.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.TOKEN_PLUS) || p.curIs(lexer.TOKEN_MINUS) {
		tok := p.cur
		op := types.OpAdd
		if tok.Type == lexer.TOKEN_MINUS {
			op = types.OpSub
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &types.BinaryExpr{Pos: types.At(tok.Line), Left: left, Op: op, Right: right}
	}

	return left, nil
}

// parseTerm parses left-associative '*', '/', '//' and '%' chains.
func (p *Parser) parseTerm() (types.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := termOps[p.cur.Type]
		if !ok {
			return left, nil
		}
		tok := p.cur
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &types.BinaryExpr{Pos: types.At(tok.Line), Left: left, Op: op, Right: right}
	}
}

// parseFactor parses unary sign prefixes.
func (p *Parser) parseFactor() (types.Expr, error) {
	if p.curIs(lexer.TOKEN_MINUS) || p.curIs(lexer.TOKEN_PLUS) {
		tok := p.cur
		op := types.OpNeg
		if tok.Type == lexer.TOKEN_PLUS {
			op = types.OpPos
		}
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		return &types.UnaryExpr{Pos: types.At(tok.Line), Op: op, Operand: operand}, nil
	}

	return p.parsePower()
}

// parsePower parses right-associative '**'. The exponent re-enters the
// factor level so '2 ** -3' parses.
func (p *Parser) parsePower() (types.Expr, error) {
	base, err := p.parseTrailer()
	if err != nil {
		return nil, err
	}
	if p.curIs(lexer.TOKEN_DSTAR) {
		tok := p.cur
		p.advance()
		exp, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		return &types.BinaryExpr{Pos: types.At(tok.Line), Left: base, Op: types.OpPow, Right: exp}, nil
	}

	return base, nil
}

// parseTrailer parses an atom followed by any number of call, subscript and
// attribute trailers: f(x)[0].name(y).
func (p *Parser) parseTrailer() (types.Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur.Type {
		case lexer.TOKEN_LPAREN:
			tok := p.cur
			p.advance()
			args, err := p.parseExprList(lexer.TOKEN_RPAREN)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TOKEN_RPAREN); err != nil {
				return nil, err
			}
			expr = &types.CallExpr{Pos: types.At(tok.Line), Callee: expr, Args: args}

		case lexer.TOKEN_LBRACKET:
			tok := p.cur
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TOKEN_RBRACKET); err != nil {
				return nil, err
			}
			expr = &types.SubscriptExpr{Pos: types.At(tok.Line), Object: expr, Index: index}

		case lexer.TOKEN_DOT:
			tok := p.cur
			p.advance()
			name, err := p.expect(lexer.TOKEN_IDENT)
			if err != nil {
				return nil, err
			}
			expr = &types.AttributeExpr{Pos: types.At(tok.Line), Object: expr, Name: name.Literal}

		default:
			return expr, nil
		}
	}
}

// parseAtom parses literals, identifiers, parenthesized expressions, list
// and dict displays, and lambdas.
func (p *Parser) parseAtom() (types.Expr, error) {
	tok := p.cur
	switch tok.Type {
	case lexer.TOKEN_INT:
		val, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, p.errf("could not parse %q as integer", tok.Literal)
		}
		p.advance()

		return &types.IntExpr{Pos: types.At(tok.Line), Value: val}, nil

	case lexer.TOKEN_FLOAT:
		val, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errf("could not parse %q as float", tok.Literal)
		}
		p.advance()

		return &types.FloatExpr{Pos: types.At(tok.Line), Value: val}, nil

	case lexer.TOKEN_STRING:
		p.advance()

		return &types.StringExpr{Pos: types.At(tok.Line), Value: tok.Literal}, nil

	case lexer.TOKEN_TRUE:
		p.advance()

		return &types.BoolExpr{Pos: types.At(tok.Line), Value: true}, nil

	case lexer.TOKEN_FALSE:
		p.advance()

		return &types.BoolExpr{Pos: types.At(tok.Line), Value: false}, nil

	case lexer.TOKEN_NONE:
		p.advance()

		return &types.NoneExpr{Pos: types.At(tok.Line)}, nil

	case lexer.TOKEN_IDENT:
		p.advance()

		return &types.IdentExpr{Pos: types.At(tok.Line), Name: tok.Literal}, nil

	case lexer.TOKEN_LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TOKEN_RPAREN); err != nil {
			return nil, err
		}

		return expr, nil

	case lexer.TOKEN_LBRACKET:
		return p.parseListLiteral()

	case lexer.TOKEN_LBRACE:
		return p.parseDictLiteral()

	case lexer.TOKEN_LAMBDA:
		return p.parseLambda()

	default:
		return nil, p.errf("unexpected token %v in expression", tok.Type)
	}
}

// parseExprList parses a comma-separated expression list up to (not
// including) the closing token. A trailing comma is allowed.
func (p *Parser) parseExprList(closing lexer.TokenType) ([]types.Expr, error) {
	exprs := []types.Expr{}
	for !p.curIs(closing) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if !p.curIs(lexer.TOKEN_COMMA) {
			break
		}
		p.advance()
	}

	return exprs, nil
}

// parseListLiteral parses [e1, e2, ...].
func (p *Parser) parseListLiteral() (types.Expr, error) {
	tok := p.cur
	p.advance()
	elems, err := p.parseExprList(lexer.TOKEN_RBRACKET)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_RBRACKET); err != nil {
		return nil, err
	}

	return &types.ListExpr{Pos: types.At(tok.Line), Elements: elems}, nil
}

// parseDictLiteral parses {k1: v1, k2: v2, ...}.
func (p *Parser) parseDictLiteral() (types.Expr, error) {
	tok := p.cur
	p.advance()

	expr := &types.DictExpr{Pos: types.At(tok.Line), Keys: []types.Expr{}, Values: []types.Expr{}}
	for !p.curIs(lexer.TOKEN_RBRACE) {
		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TOKEN_COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Keys = append(expr.Keys, key)
		expr.Values = append(expr.Values, val)
		if !p.curIs(lexer.TOKEN_COMMA) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TOKEN_RBRACE); err != nil {
		return nil, err
	}

	return expr, nil
}

// parseLambda parses lambda [params]: expr. Capture rules match def.
func (p *Parser) parseLambda() (types.Expr, error) {
	tok := p.cur
	p.advance()
	params, err := p.parseParams(lexer.TOKEN_COLON)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_COLON); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &types.LambdaExpr{Pos: types.At(tok.Line), Params: params, Body: body}, nil
}
