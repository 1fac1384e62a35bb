package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	tokens, err := New(input).Tokenize()
	require.NoError(t, err)

	return tokens
}

func assertTokens(t *testing.T, input string, expected []Token) {
	t.Helper()
	tokens := tokenize(t, input)

	require.Len(t, tokens, len(expected))
	for i, want := range expected {
		assert.Equal(t, want.Type, tokens[i].Type, "tests[%d] - token type", i)
		assert.Equal(t, want.Literal, tokens[i].Literal, "tests[%d] - literal", i)
		if want.Line != 0 {
			assert.Equal(t, want.Line, tokens[i].Line, "tests[%d] - line", i)
		}
	}
}

func TestTokenizeSimpleLine(t *testing.T) {
	assertTokens(t, "x = 10\n", []Token{
		{TOKEN_IDENT, "x", 1},
		{TOKEN_ASSIGN, "=", 1},
		{TOKEN_INT, "10", 1},
		{TOKEN_NEWLINE, "\n", 1},
		{TOKEN_EOF, "", 0},
	})
}

func TestTokenizeOperators(t *testing.T) {
	input := "+ - * / // % ** == != < > <= >= = += -= *= /= ( ) [ ] { } : , . ;\n"

	expected := []TokenType{
		TOKEN_PLUS, TOKEN_MINUS, TOKEN_STAR, TOKEN_SLASH, TOKEN_DSLASH,
		TOKEN_PERCENT, TOKEN_DSTAR, TOKEN_EQ, TOKEN_NEQ, TOKEN_LT, TOKEN_GT,
		TOKEN_LTE, TOKEN_GTE, TOKEN_ASSIGN, TOKEN_PLUS_ASSIGN,
		TOKEN_MINUS_ASSIGN, TOKEN_STAR_ASSIGN, TOKEN_SLASH_ASSIGN,
		TOKEN_LPAREN, TOKEN_RPAREN, TOKEN_LBRACKET, TOKEN_RBRACKET,
		TOKEN_LBRACE, TOKEN_RBRACE, TOKEN_COLON, TOKEN_COMMA, TOKEN_DOT,
		TOKEN_SEMICOLON, TOKEN_NEWLINE, TOKEN_EOF,
	}

	tokens := tokenize(t, input)
	require.Len(t, tokens, len(expected))
	for i, want := range expected {
		assert.Equal(t, want, tokens[i].Type, "tests[%d] - token type", i)
	}
}

func TestTokenizeKeywords(t *testing.T) {
	input := "def return if elif else while for in and or not break continue pass import class print lambda True False None\n"

	expected := []TokenType{
		TOKEN_DEF, TOKEN_RETURN, TOKEN_IF, TOKEN_ELIF, TOKEN_ELSE,
		TOKEN_WHILE, TOKEN_FOR, TOKEN_IN, TOKEN_AND, TOKEN_OR, TOKEN_NOT,
		TOKEN_BREAK, TOKEN_CONTINUE, TOKEN_PASS, TOKEN_IMPORT, TOKEN_CLASS,
		TOKEN_PRINT, TOKEN_LAMBDA, TOKEN_TRUE, TOKEN_FALSE, TOKEN_NONE,
		TOKEN_NEWLINE, TOKEN_EOF,
	}

	tokens := tokenize(t, input)
	require.Len(t, tokens, len(expected))
	for i, want := range expected {
		assert.Equal(t, want, tokens[i].Type, "tests[%d] - token type", i)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	assertTokens(t, "123 3.14 0.5 2e3 1.5e-2 7\n", []Token{
		{TOKEN_INT, "123", 1},
		{TOKEN_FLOAT, "3.14", 1},
		{TOKEN_FLOAT, "0.5", 1},
		{TOKEN_FLOAT, "2e3", 1},
		{TOKEN_FLOAT, "1.5e-2", 1},
		{TOKEN_INT, "7", 1},
		{TOKEN_NEWLINE, "\n", 1},
		{TOKEN_EOF, "", 0},
	})
}

func TestTokenizeStrings(t *testing.T) {
	assertTokens(t, `s = 'a\nb' + "it's"`+"\n", []Token{
		{TOKEN_IDENT, "s", 1},
		{TOKEN_ASSIGN, "=", 1},
		{TOKEN_STRING, "a\nb", 1},
		{TOKEN_PLUS, "+", 1},
		{TOKEN_STRING, "it's", 1},
		{TOKEN_NEWLINE, "\n", 1},
		{TOKEN_EOF, "", 0},
	})
}

func TestTokenizeBlocks(t *testing.T) {
	input := "x = 10\nwhile x > 0:\n    x = x - 3\nprint(x)\n"

	assertTokens(t, input, []Token{
		{TOKEN_IDENT, "x", 1},
		{TOKEN_ASSIGN, "=", 1},
		{TOKEN_INT, "10", 1},
		{TOKEN_NEWLINE, "\n", 1},
		{TOKEN_WHILE, "while", 2},
		{TOKEN_IDENT, "x", 2},
		{TOKEN_GT, ">", 2},
		{TOKEN_INT, "0", 2},
		{TOKEN_COLON, ":", 2},
		{TOKEN_NEWLINE, "\n", 2},
		{TOKEN_INDENT, "", 3},
		{TOKEN_IDENT, "x", 3},
		{TOKEN_ASSIGN, "=", 3},
		{TOKEN_IDENT, "x", 3},
		{TOKEN_MINUS, "-", 3},
		{TOKEN_INT, "3", 3},
		{TOKEN_NEWLINE, "\n", 3},
		{TOKEN_DEDENT, "", 4},
		{TOKEN_PRINT, "print", 4},
		{TOKEN_LPAREN, "(", 4},
		{TOKEN_IDENT, "x", 4},
		{TOKEN_RPAREN, ")", 4},
		{TOKEN_NEWLINE, "\n", 4},
		{TOKEN_EOF, "", 0},
	})
}

func TestTokenizeNestedBlocks(t *testing.T) {
	input := "def f():\n    if 1:\n        pass\n"

	expected := []TokenType{
		TOKEN_DEF, TOKEN_IDENT, TOKEN_LPAREN, TOKEN_RPAREN, TOKEN_COLON, TOKEN_NEWLINE,
		TOKEN_INDENT, TOKEN_IF, TOKEN_INT, TOKEN_COLON, TOKEN_NEWLINE,
		TOKEN_INDENT, TOKEN_PASS, TOKEN_NEWLINE,
		TOKEN_DEDENT, TOKEN_DEDENT, TOKEN_EOF,
	}

	tokens := tokenize(t, input)
	require.Len(t, tokens, len(expected))
	for i, want := range expected {
		assert.Equal(t, want, tokens[i].Type, "tests[%d] - token type", i)
	}
}

func TestBracketContinuation(t *testing.T) {
	input := "a = [1,\n     2,\n     3]\nprint(a)\n"

	expected := []TokenType{
		TOKEN_IDENT, TOKEN_ASSIGN, TOKEN_LBRACKET,
		TOKEN_INT, TOKEN_COMMA, TOKEN_INT, TOKEN_COMMA, TOKEN_INT,
		TOKEN_RBRACKET, TOKEN_NEWLINE,
		TOKEN_PRINT, TOKEN_LPAREN, TOKEN_IDENT, TOKEN_RPAREN, TOKEN_NEWLINE,
		TOKEN_EOF,
	}

	tokens := tokenize(t, input)
	require.Len(t, tokens, len(expected))
	for i, want := range expected {
		assert.Equal(t, want, tokens[i].Type, "tests[%d] - token type", i)
	}
}

func TestBlankAndCommentLines(t *testing.T) {
	input := "# header comment\n\nx = 1  # trailing comment\n\n    \n# closing\n"

	assertTokens(t, input, []Token{
		{TOKEN_IDENT, "x", 3},
		{TOKEN_ASSIGN, "=", 3},
		{TOKEN_INT, "1", 3},
		{TOKEN_NEWLINE, "\n", 3},
		{TOKEN_EOF, "", 0},
	})
}

func TestMissingTrailingNewline(t *testing.T) {
	// EOF closes the open logical line and unwinds the indent stack.
	input := "if 1:\n    pass"

	expected := []TokenType{
		TOKEN_IF, TOKEN_INT, TOKEN_COLON, TOKEN_NEWLINE,
		TOKEN_INDENT, TOKEN_PASS, TOKEN_NEWLINE, TOKEN_DEDENT, TOKEN_EOF,
	}

	tokens := tokenize(t, input)
	require.Len(t, tokens, len(expected))
	for i, want := range expected {
		assert.Equal(t, want, tokens[i].Type, "tests[%d] - token type", i)
	}
}

func TestIndentBalance(t *testing.T) {
	// At every prefix indents >= dedents; equal once EOF is reached.
	inputs := []string{
		"x = 1\n",
		"if 1:\n    pass\n",
		"def f():\n    if 1:\n        pass\n    return 2\nf()\n",
		"while 0:\n    if 1:\n        pass\n    else:\n        pass\n",
	}

	for _, input := range inputs {
		tokens := tokenize(t, input)

		depth := 0
		for _, tok := range tokens {
			switch tok.Type {
			case TOKEN_INDENT:
				depth++
			case TOKEN_DEDENT:
				depth--
			}
			assert.GreaterOrEqual(t, depth, 0, "input %q", input)
		}
		assert.Equal(t, 0, depth, "input %q", input)
		require.NotEmpty(t, tokens)
		assert.Equal(t, TOKEN_EOF, tokens[len(tokens)-1].Type)
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"s = 'abc\n", "lexical error at line 1: unterminated string literal"},
		{"s = 'abc", "lexical error at line 1: unterminated string literal"},
		{"x = 1 ? 2\n", "unexpected character"},
		{"x = 1 ! 2\n", "unexpected character"},
		{"if 1:\n        pass\n    pass\n", "lexical error at line 3: unindent does not match any outer indentation level"},
	}

	for _, tt := range tests {
		_, err := New(tt.input).Tokenize()
		require.Error(t, err, "input %q", tt.input)
		assert.Contains(t, err.Error(), tt.wantErr, "input %q", tt.input)
	}
}
