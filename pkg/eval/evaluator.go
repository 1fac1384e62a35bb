package eval

import (
	"fmt"
	"io"
	"strings"

	"github.com/conneroisu/snek/internal/types"
	"github.com/conneroisu/snek/internal/value"
)

// RuntimeError represents an evaluation error with the source line of the
// node that raised it.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at line %d: %s", e.Line, e.Msg)
}

// Evaluator implements the tree-walking execution engine. It holds the
// global environment (persistent across Run calls, which is what makes the
// REPL stateful) and the writer print statements emit to.
type Evaluator struct {
	out     io.Writer
	globals *value.Env

	// Interactive echoes the value of bare top-level expression statements,
	// REPL style. File execution leaves it off.
	Interactive bool
}

// New creates a new evaluator writing print output to out.
func New(out io.Writer) *Evaluator {
	return &Evaluator{
		out:     out,
		globals: value.NewEnv(),
	}
}

// Run executes a list of top-level statements against the global
// environment. A control-flow exit escaping a top-level statement is
// promoted to a runtime error.
func (e *Evaluator) Run(stmts []types.Stmt) error {
	for _, stmt := range stmts {
		if expr, ok := stmt.(*types.ExprStmt); ok && e.Interactive {
			val, err := e.evalExpr(expr.Value, e.globals)
			if err != nil {
				return err
			}
			if _, isNone := val.(value.None); !isNone {
				fmt.Fprintln(e.out, val.Repr())
			}

			continue
		}

		fl, err := e.execStmt(stmt, e.globals)
		if err != nil {
			return err
		}
		if err := e.checkEscape(fl, stmt); err != nil {
			return err
		}
	}

	return nil
}

// checkEscape converts a control-flow exit that crossed its outermost
// responsible construct into a runtime error.
func (e *Evaluator) checkEscape(fl flow, n types.Node) error {
	switch fl.kind {
	case flowReturn:
		return e.errf(n, "'return' outside function")
	case flowBreak:
		return e.errf(n, "'break' outside loop")
	case flowContinue:
		return e.errf(n, "'continue' outside loop")
	default:
		return nil
	}
}

// errf builds a runtime error at the given node's line.
func (e *Evaluator) errf(n types.Node, format string, args ...interface{}) error {
	return &RuntimeError{Line: n.Line(), Msg: fmt.Sprintf(format, args...)}
}

// wrap attaches a line to a plain error coming up from the value layer.
// Errors that already carry a line pass through untouched.
func (e *Evaluator) wrap(err error, n types.Node) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RuntimeError); ok {
		return re
	}

	return &RuntimeError{Line: n.Line(), Msg: err.Error()}
}

// execBlock executes a statement sequence, stopping at the first error or
// control-flow exit.
func (e *Evaluator) execBlock(stmts []types.Stmt, env *value.Env) (flow, error) {
	for _, stmt := range stmts {
		fl, err := e.execStmt(stmt, env)
		if err != nil {
			return flowNothing, err
		}
		if fl.kind != flowNone {
			return fl, nil
		}
	}

	return flowNothing, nil
}

// execStmt is the central statement dispatcher.
func (e *Evaluator) execStmt(stmt types.Stmt, env *value.Env) (flow, error) {
	switch stmt := stmt.(type) {
	case *types.ExprStmt:
		_, err := e.evalExpr(stmt.Value, env)

		return flowNothing, err

	case *types.AssignStmt:
		val, err := e.evalExpr(stmt.Value, env)
		if err != nil {
			return flowNothing, err
		}

		return flowNothing, e.assign(stmt.Target, val, env)

	case *types.AugAssignStmt:
		return flowNothing, e.augAssign(stmt, env)

	case *types.IfStmt:
		return e.execIf(stmt, env)

	case *types.WhileStmt:
		return e.execWhile(stmt, env)

	case *types.ForStmt:
		return e.execFor(stmt, env)

	case *types.FuncDefStmt:
		fn := value.NewFunction(stmt.Name, stmt.Params, stmt.Body, env)
		env.Set(stmt.Name, fn)

		return flowNothing, nil

	case *types.ClassDefStmt:
		return flowNothing, e.execClassDef(stmt, env)

	case *types.ReturnStmt:
		val := value.Value(value.None{})
		if stmt.Value != nil {
			v, err := e.evalExpr(stmt.Value, env)
			if err != nil {
				return flowNothing, err
			}
			val = v
		}

		return flow{kind: flowReturn, value: val}, nil

	case *types.BreakStmt:
		return flow{kind: flowBreak}, nil

	case *types.ContinueStmt:
		return flow{kind: flowContinue}, nil

	case *types.PassStmt, *types.ImportStmt:
		// import is accepted syntactically; the runtime has no module
		// resolution and treats it as a no-op.
		return flowNothing, nil

	case *types.PrintStmt:
		return flowNothing, e.execPrint(stmt, env)

	default:
		return flowNothing, e.errf(stmt, "unknown statement type: %T", stmt)
	}
}

// execPrint evaluates all arguments and writes their print forms separated
// by single spaces, followed by a newline.
func (e *Evaluator) execPrint(stmt *types.PrintStmt, env *value.Env) error {
	parts := make([]string, len(stmt.Args))
	for i, arg := range stmt.Args {
		val, err := e.evalExpr(arg, env)
		if err != nil {
			return err
		}
		parts[i] = value.Str(val)
	}
	fmt.Fprintln(e.out, strings.Join(parts, " "))

	return nil
}

// execClassDef evaluates the class body in a fresh child environment and
// turns that frame's local bindings into the class attribute mapping.
func (e *Evaluator) execClassDef(stmt *types.ClassDefStmt, env *value.Env) error {
	var base *value.Class
	if stmt.Base != "" {
		baseVal, ok := env.Get(stmt.Base)
		if !ok {
			return e.errf(stmt, "name '%s' is not defined", stmt.Base)
		}
		baseClass, ok := baseVal.(*value.Class)
		if !ok {
			return e.errf(stmt, "base of class %s is not a class", stmt.Name)
		}
		base = baseClass
	}

	classEnv := env.Extend()
	fl, err := e.execBlock(stmt.Body, classEnv)
	if err != nil {
		return err
	}
	if err := e.checkEscape(fl, stmt); err != nil {
		return err
	}

	env.Set(stmt.Name, value.NewClass(stmt.Name, classEnv.Bindings(), base))

	return nil
}

// assign binds a value according to the target kind: identifier, attribute
// or subscript.
func (e *Evaluator) assign(target types.Expr, val value.Value, env *value.Env) error {
	switch target := target.(type) {
	case *types.IdentExpr:
		env.Set(target.Name, val)

		return nil

	case *types.AttributeExpr:
		obj, err := e.evalExpr(target.Object, env)
		if err != nil {
			return err
		}

		return e.setAttr(obj, target.Name, val, target)

	case *types.SubscriptExpr:
		obj, err := e.evalExpr(target.Object, env)
		if err != nil {
			return err
		}
		index, err := e.evalExpr(target.Index, env)
		if err != nil {
			return err
		}

		return e.setIndex(obj, index, val, target)

	default:
		return e.errf(target, "cannot assign to %s", target)
	}
}

// augAssign implements target op= value with a single evaluation of the
// target's object and index expressions.
func (e *Evaluator) augAssign(stmt *types.AugAssignStmt, env *value.Env) error {
	switch target := stmt.Target.(type) {
	case *types.IdentExpr:
		cur, ok := env.Get(target.Name)
		if !ok {
			return e.errf(target, "name '%s' is not defined", target.Name)
		}
		rhs, err := e.evalExpr(stmt.Value, env)
		if err != nil {
			return err
		}
		res, err := e.evalBinaryOp(stmt.Op, cur, rhs, stmt)
		if err != nil {
			return err
		}
		env.Set(target.Name, res)

		return nil

	case *types.AttributeExpr:
		obj, err := e.evalExpr(target.Object, env)
		if err != nil {
			return err
		}
		cur, err := e.getAttr(obj, target.Name, target)
		if err != nil {
			return err
		}
		rhs, err := e.evalExpr(stmt.Value, env)
		if err != nil {
			return err
		}
		res, err := e.evalBinaryOp(stmt.Op, cur, rhs, stmt)
		if err != nil {
			return err
		}

		return e.setAttr(obj, target.Name, res, target)

	case *types.SubscriptExpr:
		obj, err := e.evalExpr(target.Object, env)
		if err != nil {
			return err
		}
		index, err := e.evalExpr(target.Index, env)
		if err != nil {
			return err
		}
		cur, err := e.getIndex(obj, index, target)
		if err != nil {
			return err
		}
		rhs, err := e.evalExpr(stmt.Value, env)
		if err != nil {
			return err
		}
		res, err := e.evalBinaryOp(stmt.Op, cur, rhs, stmt)
		if err != nil {
			return err
		}

		return e.setIndex(obj, index, res, target)

	default:
		return e.errf(stmt, "cannot assign to %s", stmt.Target)
	}
}

// evalExpr is the central expression dispatcher.
func (e *Evaluator) evalExpr(expr types.Expr, env *value.Env) (value.Value, error) {
	switch expr := expr.(type) {
	// Literal expressions evaluate to themselves
	case *types.IntExpr:
		return value.Int(expr.Value), nil

	case *types.FloatExpr:
		return value.Float(expr.Value), nil

	case *types.StringExpr:
		return value.String(expr.Value), nil

	case *types.BoolExpr:
		return value.Bool(expr.Value), nil

	case *types.NoneExpr:
		return value.None{}, nil

	case *types.IdentExpr:
		if val, ok := env.Get(expr.Name); ok {
			return val, nil
		}

		return nil, e.errf(expr, "name '%s' is not defined", expr.Name)

	case *types.ListExpr:
		elems := make([]value.Value, len(expr.Elements))
		for i, elem := range expr.Elements {
			val, err := e.evalExpr(elem, env)
			if err != nil {
				return nil, err
			}
			elems[i] = val
		}

		return value.NewList(elems...), nil

	case *types.DictExpr:
		dict := value.NewDict()
		for i, keyExpr := range expr.Keys {
			key, err := e.evalExpr(keyExpr, env)
			if err != nil {
				return nil, err
			}
			val, err := e.evalExpr(expr.Values[i], env)
			if err != nil {
				return nil, err
			}
			if err := dict.Set(key, val); err != nil {
				return nil, e.wrap(err, keyExpr)
			}
		}

		return dict, nil

	case *types.BinaryExpr:
		return e.evalBinary(expr, env)

	case *types.UnaryExpr:
		return e.evalUnary(expr, env)

	case *types.BoolOpExpr:
		return e.evalBoolOp(expr, env)

	case *types.CompareExpr:
		return e.evalCompare(expr, env)

	case *types.CallExpr:
		return e.evalCall(expr, env)

	case *types.SubscriptExpr:
		obj, err := e.evalExpr(expr.Object, env)
		if err != nil {
			return nil, err
		}
		index, err := e.evalExpr(expr.Index, env)
		if err != nil {
			return nil, err
		}

		return e.getIndex(obj, index, expr)

	case *types.AttributeExpr:
		obj, err := e.evalExpr(expr.Object, env)
		if err != nil {
			return nil, err
		}

		return e.getAttr(obj, expr.Name, expr)

	case *types.LambdaExpr:
		return value.NewFunction("", expr.Params, expr.Body, env), nil

	default:
		return nil, e.errf(expr, "unknown expression type: %T", expr)
	}
}
