// Package types defines the Abstract Syntax Tree for the snek scripting
// language.
//
// The AST is split into two node families sharing a common Node interface:
//
//   - Stmt: statements (assignments, control flow, def/class, print, ...)
//   - Expr: expressions (literals, operators, calls, subscripts, ...)
//
// Every node embeds a Pos anchor carrying the 1-based source line, used by the
// evaluator for runtime error reporting. One struct exists per node kind with
// a fixed field set, so the schema of each kind is enforced by the type
// system rather than by convention.
//
// Operator kinds (BinaryOp, CompareOp, BoolOp, UnaryOp) are small enums with
// String methods; CompareExpr models chained comparisons (a < b <= c) as one
// node with parallel op/operand slices so the evaluator can give each middle
// operand a single evaluation.
//
// Nodes are produced by pkg/parser and consumed by pkg/eval. They are
// immutable after parsing and must remain alive for the whole execution:
// function values hold references to their body statement slices.
package types
