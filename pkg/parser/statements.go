package parser

import (
	"github.com/conneroisu/snek/internal/types"
	"github.com/conneroisu/snek/pkg/lexer"
)

// augOps maps augmented-assignment tokens to the binary operator they
// desugar to.
var augOps = map[lexer.TokenType]types.BinaryOp{
	lexer.TOKEN_PLUS_ASSIGN:  types.OpAdd,
	lexer.TOKEN_MINUS_ASSIGN: types.OpSub,
	lexer.TOKEN_STAR_ASSIGN:  types.OpMul,
	lexer.TOKEN_SLASH_ASSIGN: types.OpDiv,
}

// parseStatement parses one statement. Simple statements may carry siblings
// on the same physical line separated by ';', so a slice comes back.
func (p *Parser) parseStatement() ([]types.Stmt, error) {
	switch p.cur.Type {
	case lexer.TOKEN_IF:
		stmt, err := p.parseIf()

		return p.one(stmt, err)
	case lexer.TOKEN_WHILE:
		stmt, err := p.parseWhile()

		return p.one(stmt, err)
	case lexer.TOKEN_FOR:
		stmt, err := p.parseFor()

		return p.one(stmt, err)
	case lexer.TOKEN_DEF:
		stmt, err := p.parseFuncDef()

		return p.one(stmt, err)
	case lexer.TOKEN_CLASS:
		stmt, err := p.parseClassDef()

		return p.one(stmt, err)
	default:
		return p.parseSimpleLine()
	}
}

// one wraps a compound statement into the slice shape parseStatement returns.
func (p *Parser) one(stmt types.Stmt, err error) ([]types.Stmt, error) {
	if err != nil {
		return nil, err
	}

	return []types.Stmt{stmt}, nil
}

// parseSimpleLine parses one or more ';'-separated simple statements and the
// terminating NEWLINE.
func (p *Parser) parseSimpleLine() ([]types.Stmt, error) {
	var stmts []types.Stmt
	for {
		stmt, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		if !p.curIs(lexer.TOKEN_SEMICOLON) {
			break
		}
		p.advance()
		// A trailing semicolon before the newline is allowed.
		if p.curIs(lexer.TOKEN_NEWLINE) {
			break
		}
	}
	if _, err := p.expect(lexer.TOKEN_NEWLINE); err != nil {
		return nil, err
	}

	return stmts, nil
}

// parseSimpleStmt parses a single simple statement without its terminator.
func (p *Parser) parseSimpleStmt() (types.Stmt, error) {
	switch p.cur.Type {
	case lexer.TOKEN_PRINT:
		return p.parsePrint()
	case lexer.TOKEN_RETURN:
		return p.parseReturn()
	case lexer.TOKEN_BREAK:
		tok := p.cur
		p.advance()

		return &types.BreakStmt{Pos: types.At(tok.Line)}, nil
	case lexer.TOKEN_CONTINUE:
		tok := p.cur
		p.advance()

		return &types.ContinueStmt{Pos: types.At(tok.Line)}, nil
	case lexer.TOKEN_PASS:
		tok := p.cur
		p.advance()

		return &types.PassStmt{Pos: types.At(tok.Line)}, nil
	case lexer.TOKEN_IMPORT:
		return p.parseImport()
	default:
		return p.parseExprOrAssign()
	}
}

// parsePrint parses print(arg1, ..., argn).
func (p *Parser) parsePrint() (types.Stmt, error) {
	tok := p.cur
	p.advance()
	if _, err := p.expect(lexer.TOKEN_LPAREN); err != nil {
		return nil, err
	}
	args, err := p.parseExprList(lexer.TOKEN_RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_RPAREN); err != nil {
		return nil, err
	}

	return &types.PrintStmt{Pos: types.At(tok.Line), Args: args}, nil
}

// parseReturn parses return [expr].
func (p *Parser) parseReturn() (types.Stmt, error) {
	tok := p.cur
	p.advance()
	stmt := &types.ReturnStmt{Pos: types.At(tok.Line)}
	if p.curIs(lexer.TOKEN_NEWLINE) || p.curIs(lexer.TOKEN_SEMICOLON) {
		return stmt, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Value = value

	return stmt, nil
}

// parseImport parses import name[.name]*. The module path is accepted
// syntactically; the evaluator does not resolve it.
func (p *Parser) parseImport() (types.Stmt, error) {
	tok := p.cur
	p.advance()
	name, err := p.expect(lexer.TOKEN_IDENT)
	if err != nil {
		return nil, err
	}
	module := name.Literal
	for p.curIs(lexer.TOKEN_DOT) {
		p.advance()
		part, err := p.expect(lexer.TOKEN_IDENT)
		if err != nil {
			return nil, err
		}
		module += "." + part.Literal
	}

	return &types.ImportStmt{Pos: types.At(tok.Line), Module: module}, nil
}

// parseExprOrAssign parses an expression statement, or an assignment /
// augmented assignment when the expression is followed by '=' or an op=.
func (p *Parser) parseExprOrAssign() (types.Stmt, error) {
	tok := p.cur
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.curIs(lexer.TOKEN_ASSIGN) {
		if err := p.checkTarget(expr); err != nil {
			return nil, err
		}
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		return &types.AssignStmt{Pos: types.At(tok.Line), Target: expr, Value: value}, nil
	}

	if op, ok := augOps[p.cur.Type]; ok {
		if err := p.checkTarget(expr); err != nil {
			return nil, err
		}
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		return &types.AugAssignStmt{Pos: types.At(tok.Line), Target: expr, Op: op, Value: value}, nil
	}

	return &types.ExprStmt{Pos: types.At(tok.Line), Value: expr}, nil
}

// checkTarget validates that an expression can be assigned to: identifiers,
// attributes and subscripts only.
func (p *Parser) checkTarget(expr types.Expr) error {
	switch expr.(type) {
	case *types.IdentExpr, *types.AttributeExpr, *types.SubscriptExpr:
		return nil
	default:
		return p.errfAt(lexer.Token{Line: expr.Line()}, "cannot assign to %s", expr)
	}
}

// parseBlock parses ':' NEWLINE INDENT statement+ DEDENT.
func (p *Parser) parseBlock() ([]types.Stmt, error) {
	if _, err := p.expect(lexer.TOKEN_COLON); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_NEWLINE); err != nil {
		return nil, err
	}
	if !p.curIs(lexer.TOKEN_INDENT) {
		return nil, p.errf("expected an indented block")
	}
	p.advance()

	var stmts []types.Stmt
	for !p.curIs(lexer.TOKEN_DEDENT) && !p.curIs(lexer.TOKEN_EOF) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s...)
	}
	if _, err := p.expect(lexer.TOKEN_DEDENT); err != nil {
		return nil, err
	}

	return stmts, nil
}

// parseIf parses if/elif/else.
func (p *Parser) parseIf() (types.Stmt, error) {
	tok := p.cur
	p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &types.IfStmt{Pos: types.At(tok.Line), Cond: cond, Then: then}

	for p.curIs(lexer.TOKEN_ELIF) {
		p.advance()
		elifCond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elifBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, types.ElifClause{Cond: elifCond, Body: elifBody})
	}

	if p.curIs(lexer.TOKEN_ELSE) {
		p.advance()
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
	}

	return stmt, nil
}

// parseWhile parses a while loop.
func (p *Parser) parseWhile() (types.Stmt, error) {
	tok := p.cur
	p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &types.WhileStmt{Pos: types.At(tok.Line), Cond: cond, Body: body}, nil
}

// parseFor parses for name in iterable.
func (p *Parser) parseFor() (types.Stmt, error) {
	tok := p.cur
	p.advance()
	name, err := p.expect(lexer.TOKEN_IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_IN); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &types.ForStmt{
		Pos:      types.At(tok.Line),
		Var:      name.Literal,
		Iterable: iterable,
		Body:     body,
	}, nil
}

// parseFuncDef parses def name(params): block.
func (p *Parser) parseFuncDef() (types.Stmt, error) {
	tok := p.cur
	p.advance()
	name, err := p.expect(lexer.TOKEN_IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams(lexer.TOKEN_RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TOKEN_RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &types.FuncDefStmt{
		Pos:    types.At(tok.Line),
		Name:   name.Literal,
		Params: params,
		Body:   body,
	}, nil
}

// parseParams parses a comma-separated parameter name list up to the closing
// token. A trailing comma is allowed.
func (p *Parser) parseParams(closing lexer.TokenType) ([]string, error) {
	params := []string{}
	for !p.curIs(closing) {
		name, err := p.expect(lexer.TOKEN_IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, name.Literal)
		if !p.curIs(lexer.TOKEN_COMMA) {
			break
		}
		p.advance()
	}

	return params, nil
}

// parseClassDef parses class name [(base)]: block.
func (p *Parser) parseClassDef() (types.Stmt, error) {
	tok := p.cur
	p.advance()
	name, err := p.expect(lexer.TOKEN_IDENT)
	if err != nil {
		return nil, err
	}

	base := ""
	if p.curIs(lexer.TOKEN_LPAREN) {
		p.advance()
		baseName, err := p.expect(lexer.TOKEN_IDENT)
		if err != nil {
			return nil, err
		}
		base = baseName.Literal
		if _, err := p.expect(lexer.TOKEN_RPAREN); err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &types.ClassDefStmt{
		Pos:  types.At(tok.Line),
		Name: name.Literal,
		Base: base,
		Body: body,
	}, nil
}
