// Package value defines the runtime value model and environments for the
// snek interpreter.
//
// Values form a closed sum over the Value interface:
//
//   - None, Bool, Int, Float, String: immutable scalars
//   - *List: ordered mutable sequence
//   - *Dict: mapping with insertion-ordered iteration and canonicalized
//     numeric keys (1, 1.0 and True share one slot)
//   - *Function: closure (parameter list, body, captured environment)
//   - *Class, *Instance: user-defined classes and their instances, each with
//     a mutable attribute mapping; scalar kinds carry none
//   - *BoundMethod, *Builtin: call-support kinds for method dispatch
//
// Every value knows its Type, its literal Repr, its truthiness and its
// equality semantics. Numeric equality crosses kinds (int/float/bool compare
// by numeric value); everything else compares within its own kind.
//
// Env implements the lexical scope chain: reads walk outward to the global
// frame, writes are always frame-local. Frames are shared by reference, so a
// closure's captured frame outlives the call that created it.
package value
