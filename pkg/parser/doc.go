// Package parser implements the recursive descent parser for the snek
// scripting language.
//
// The parser consumes the finite token sequence produced by pkg/lexer and
// builds the statement AST defined in internal/types. It keeps a cur/peek
// window with one token of lookahead; every parse method fully consumes its
// construct and leaves cur on the first unconsumed token.
//
// Statements follow the block structure the lexer makes explicit: a compound
// statement's body is ':' NEWLINE INDENT statement+ DEDENT. Simple statements
// end at NEWLINE and may share a physical line separated by ';'.
//
// Expressions use one method per precedence level, lowest binding first:
//
//	or → and → not → comparison → sum → term → factor → power → trailers → atom
//
// '**' is right-associative and its exponent re-enters the factor level;
// call, subscript and attribute trailers bind tightest. Chained comparisons
// (a < b <= c) collapse into one CompareExpr node so middle operands are
// evaluated exactly once.
//
// The first grammar violation aborts parsing with a *ParseError carrying the
// offending line and a description of the expected token; there is no
// recovery.
package parser
