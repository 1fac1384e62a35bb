package parser

import (
	"fmt"

	"github.com/conneroisu/snek/internal/types"
	"github.com/conneroisu/snek/pkg/lexer"
)

// Parser implements a recursive descent parser over the token sequence
// produced by the lexer. It keeps a cur/peek window with a single token of
// lookahead; every parse method consumes the tokens of its construct and
// leaves cur on the first unconsumed token.
type Parser struct {
	tokens []lexer.Token
	idx    int         // index of the token after peek
	cur    lexer.Token // current token being processed
	peek   lexer.Token // next token (lookahead for parsing decisions)
}

// New creates a new parser instance for a token sequence. The sequence must
// be TOKEN_EOF terminated, which lexer.Tokenize guarantees.
func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}
	// Prime the cur/peek window with the first two tokens
	p.advance()
	p.advance()

	return p
}

// Parse is the main entry point: it parses the whole token sequence into an
// ordered list of top-level statements.
func (p *Parser) Parse() ([]types.Stmt, error) {
	var program []types.Stmt
	for !p.curIs(lexer.TOKEN_EOF) {
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program = append(program, stmts...)
	}

	return program, nil
}

// advance shifts the token window forward by one position.
func (p *Parser) advance() {
	p.cur = p.peek
	if p.idx < len(p.tokens) {
		p.peek = p.tokens[p.idx]
		p.idx++
	} else if len(p.tokens) > 0 {
		// Stay parked on the trailing EOF token.
		p.peek = p.tokens[len(p.tokens)-1]
	}
}

// curIs checks if the current token matches the specified type.
func (p *Parser) curIs(t lexer.TokenType) bool {
	return p.cur.Type == t
}

// peekIs checks if the lookahead token matches the specified type.
func (p *Parser) peekIs(t lexer.TokenType) bool {
	return p.peek.Type == t
}

// expect verifies that the current token has the given type and consumes it.
// A mismatch aborts parsing with an error naming the expected token.
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.cur.Type != t {
		return lexer.Token{}, p.errf("expected %v, got %v", t, p.cur.Type)
	}
	tok := p.cur
	p.advance()

	return tok, nil
}

// errf builds a parse error at the current token's line.
func (p *Parser) errf(format string, args ...interface{}) error {
	return p.errfAt(p.cur, format, args...)
}

// errfAt builds a parse error at the given token's line.
func (p *Parser) errfAt(tok lexer.Token, format string, args ...interface{}) error {
	return &ParseError{Line: tok.Line, Msg: fmt.Sprintf(format, args...)}
}
