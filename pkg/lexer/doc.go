// Package lexer implements the tokenizer for the snek scripting language.
//
// The lexer is a single-pass byte scanner that turns source text into a
// finite token sequence terminated by TOKEN_EOF. On top of the usual scanning
// work (identifiers and keywords, int/float literals, quoted strings with
// escape decoding, greedy longest-match operators, '#' comments) it makes the
// language's indentation structure explicit:
//
//   - At the start of each logical line it measures leading whitespace
//     (a tab advances to the next multiple of 8) against a stack of open
//     indentation widths, emitting one TOKEN_INDENT per push and one
//     TOKEN_DEDENT per pop. A dedent that matches no open width is an error.
//   - Physical newlines emit TOKEN_NEWLINE, except inside open brackets
//     ( [ { where lines join into one logical line.
//   - Blank and comment-only lines emit nothing and leave the stack alone.
//   - At end of input the lexer closes any open logical line, unwinds the
//     stack to zero and appends TOKEN_EOF, so INDENT/DEDENT tokens are
//     always balanced.
//
// Errors (unterminated string, stray character, inconsistent dedent) abort
// tokenization with a *lexer.Error carrying the offending line; there is no
// recovery.
package lexer
