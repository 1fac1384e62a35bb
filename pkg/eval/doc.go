// Package eval provides the tree-walking evaluator for the snek scripting
// language.
//
// The evaluator is the final stage of the pipeline: it takes the statement
// AST from pkg/parser and executes it against an environment chain. The
// design splits along the same seams as the rest of the interpreter family:
//
//   - evaluator.go: the Evaluator, statement and expression dispatch,
//     assignment targets, class construction, print
//   - control_flow.go: the flow signal and if/while/for execution
//   - operators.go: arithmetic with int/float promotion, sequence
//     concatenation and repetition, comparisons, short-circuit and/or
//   - functions.go: calls, method binding, attribute and subscript access
//   - builtins.go: the native methods of str, list and dict
//
// Control-flow exits (return, break, continue) are not errors: execStmt
// returns an explicit flow signal beside the error value, and the signal
// propagates outward until the responsible construct catches it. A signal
// that escapes its outermost legal construct is promoted to a runtime error.
//
// Runtime errors carry the source line of the node that raised them and
// render as "runtime error at line N: msg". Evaluation is single-threaded
// and synchronous; the only output surface is the print statement, which
// writes to the writer the Evaluator was constructed with.
//
// The global environment persists across Run calls, so a REPL can feed the
// same Evaluator line by line and keep its bindings.
package eval
