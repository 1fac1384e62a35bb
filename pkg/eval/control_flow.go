package eval

import (
	"github.com/conneroisu/snek/internal/types"
	"github.com/conneroisu/snek/internal/value"
)

// flowKind classifies the outcome of executing a statement: normal
// completion or one of the control-flow exits.
type flowKind int

const (
	flowNone     flowKind = iota // normal completion
	flowReturn                   // return, carrying a value
	flowBreak                    // break
	flowContinue                 // continue
)

// flow is the control-flow signal threaded through statement execution. It
// propagates outward through nested blocks until the responsible construct
// (loop or function call) catches it and converts it back to normal flow.
type flow struct {
	kind  flowKind
	value value.Value // set for flowReturn
}

// flowNothing is the normal-completion signal.
var flowNothing = flow{}

// execIf executes if/elif/else: the first truthy test wins.
func (e *Evaluator) execIf(stmt *types.IfStmt, env *value.Env) (flow, error) {
	cond, err := e.evalExpr(stmt.Cond, env)
	if err != nil {
		return flowNothing, err
	}
	if cond.Truthy() {
		return e.execBlock(stmt.Then, env)
	}

	for _, elif := range stmt.Elifs {
		cond, err := e.evalExpr(elif.Cond, env)
		if err != nil {
			return flowNothing, err
		}
		if cond.Truthy() {
			return e.execBlock(elif.Body, env)
		}
	}

	if stmt.Else != nil {
		return e.execBlock(stmt.Else, env)
	}

	return flowNothing, nil
}

// execWhile executes a while loop, catching break and continue.
func (e *Evaluator) execWhile(stmt *types.WhileStmt, env *value.Env) (flow, error) {
	for {
		cond, err := e.evalExpr(stmt.Cond, env)
		if err != nil {
			return flowNothing, err
		}
		if !cond.Truthy() {
			return flowNothing, nil
		}

		fl, err := e.execBlock(stmt.Body, env)
		if err != nil {
			return flowNothing, err
		}
		switch fl.kind {
		case flowBreak:
			return flowNothing, nil
		case flowReturn:
			return fl, nil
		}
		// flowContinue and flowNone both fall through to the next test.
	}
}

// execFor executes a for loop over a string, list or dict, catching break
// and continue. The loop variable is bound in the enclosing frame.
func (e *Evaluator) execFor(stmt *types.ForStmt, env *value.Env) (flow, error) {
	iterable, err := e.evalExpr(stmt.Iterable, env)
	if err != nil {
		return flowNothing, err
	}

	runBody := func(item value.Value) (flow, bool, error) {
		env.Set(stmt.Var, item)
		fl, err := e.execBlock(stmt.Body, env)
		if err != nil {
			return flowNothing, false, err
		}
		switch fl.kind {
		case flowBreak:
			return flowNothing, false, nil
		case flowReturn:
			return fl, false, nil
		default:
			return flowNothing, true, nil
		}
	}

	switch it := iterable.(type) {
	case value.String:
		// Iterating a string yields one-character strings.
		for _, r := range string(it) {
			fl, next, err := runBody(value.String(string(r)))
			if err != nil || !next {
				return fl, err
			}
		}

	case *value.List:
		// Index-based so elements appended during iteration are visited.
		for i := 0; i < it.Len(); i++ {
			fl, next, err := runBody(it.Get(i))
			if err != nil || !next {
				return fl, err
			}
		}

	case *value.Dict:
		// Dict iteration yields keys in insertion order.
		for _, key := range it.Keys() {
			fl, next, err := runBody(key)
			if err != nil || !next {
				return fl, err
			}
		}

	default:
		return flowNothing, e.errf(stmt, "'%s' object is not iterable", iterable.Type())
	}

	return flowNothing, nil
}
