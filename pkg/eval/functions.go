package eval

import (
	"github.com/conneroisu/snek/internal/types"
	"github.com/conneroisu/snek/internal/value"
)

// evalCall evaluates a call expression: callee first, then arguments left
// to right, then dispatch on the callee kind.
func (e *Evaluator) evalCall(expr *types.CallExpr, env *value.Env) (value.Value, error) {
	callee, err := e.evalExpr(expr.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, len(expr.Args))
	for i, argExpr := range expr.Args {
		arg, err := e.evalExpr(argExpr, env)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	switch callee := callee.(type) {
	case *value.Function:
		return e.callFunction(callee, args, expr)

	case *value.BoundMethod:
		// The receiver is prepended to the argument list.
		return e.callFunction(callee.Function(), prepend(callee.Receiver(), args), expr)

	case *value.Class:
		return e.instantiate(callee, args, expr)

	case *value.Builtin:
		result, err := callee.Apply(args)
		if err != nil {
			return nil, e.wrap(err, expr)
		}

		return result, nil

	default:
		return nil, e.errf(expr, "'%s' object is not callable", callee.Type())
	}
}

// prepend puts the receiver in front of the argument list.
func prepend(recv value.Value, args []value.Value) []value.Value {
	return append([]value.Value{recv}, args...)
}

// callFunction invokes a user-defined function: positional arguments bind to
// parameter names in a fresh child of the captured environment. A return
// exit yields its value; falling off the end yields None.
func (e *Evaluator) callFunction(fn *value.Function, args []value.Value, n types.Node) (value.Value, error) {
	params := fn.Params()
	if len(args) != len(params) {
		name := fn.Name()
		if name == "" {
			name = "<lambda>"
		}

		return nil, e.errf(n, "%s() takes %d argument(s), got %d", name, len(params), len(args))
	}

	frame := fn.Env().Extend()
	for i, param := range params {
		frame.Set(param, args[i])
	}

	switch body := fn.Body().(type) {
	case []types.Stmt:
		fl, err := e.execBlock(body, frame)
		if err != nil {
			return nil, err
		}
		switch fl.kind {
		case flowReturn:
			return fl.value, nil
		case flowBreak:
			return nil, e.errf(n, "'break' outside loop")
		case flowContinue:
			return nil, e.errf(n, "'continue' outside loop")
		default:
			return value.None{}, nil
		}

	case types.Expr:
		// Lambda body: a single expression.
		return e.evalExpr(body, frame)

	default:
		return nil, e.errf(n, "invalid function body")
	}
}

// instantiate constructs an instance of a class: a fresh attribute map, then
// __init__ (resolved through the base chain) with the instance prepended.
func (e *Evaluator) instantiate(class *value.Class, args []value.Value, n types.Node) (value.Value, error) {
	inst := value.NewInstance(class)

	init, ok := class.GetAttr("__init__")
	if !ok {
		if len(args) != 0 {
			return nil, e.errf(n, "%s() takes no arguments, got %d", class.Name(), len(args))
		}

		return inst, nil
	}

	initFn, ok := init.(*value.Function)
	if !ok {
		return nil, e.errf(n, "__init__ of %s is not a function", class.Name())
	}
	if _, err := e.callFunction(initFn, prepend(inst, args), n); err != nil {
		return nil, err
	}

	return inst, nil
}

// getAttr resolves obj.name. Instances consult their own attributes first,
// then the class and its base chain; functions found on the chain come back
// bound to the instance. Classes expose their attribute mapping directly.
// Strings, lists and dicts expose their built-in methods.
func (e *Evaluator) getAttr(obj value.Value, name string, n types.Node) (value.Value, error) {
	switch obj := obj.(type) {
	case *value.Instance:
		if v, ok := obj.GetAttr(name); ok {
			return v, nil
		}
		if v, ok := obj.Class().GetAttr(name); ok {
			if fn, isFn := v.(*value.Function); isFn {
				return value.NewBoundMethod(obj, fn), nil
			}

			return v, nil
		}

		return nil, e.errf(n, "'%s' object has no attribute '%s'", obj.Class().Name(), name)

	case *value.Class:
		if v, ok := obj.GetAttr(name); ok {
			return v, nil
		}

		return nil, e.errf(n, "class '%s' has no attribute '%s'", obj.Name(), name)

	default:
		if method, ok := builtinMethod(obj, name); ok {
			return method, nil
		}

		return nil, e.errf(n, "'%s' object has no attribute '%s'", obj.Type(), name)
	}
}

// setAttr implements obj.name = val. Instance writes never propagate to the
// class mapping; class writes bind on the class itself, never a base.
func (e *Evaluator) setAttr(obj value.Value, name string, val value.Value, n types.Node) error {
	switch obj := obj.(type) {
	case *value.Instance:
		obj.SetAttr(name, val)

		return nil
	case *value.Class:
		obj.SetAttr(name, val)

		return nil
	default:
		return e.errf(n, "cannot set attribute on '%s' object", obj.Type())
	}
}

// getIndex implements obj[index] for lists, strings and dicts. Integer
// indexes may be negative, counting from the end.
func (e *Evaluator) getIndex(obj, index value.Value, n types.Node) (value.Value, error) {
	switch obj := obj.(type) {
	case *value.List:
		i, err := e.normalizeIndex(index, obj.Len(), n)
		if err != nil {
			return nil, err
		}

		return obj.Get(i), nil

	case value.String:
		runes := []rune(string(obj))
		i, err := e.normalizeIndex(index, len(runes), n)
		if err != nil {
			return nil, err
		}

		return value.String(string(runes[i])), nil

	case *value.Dict:
		val, found, err := obj.Get(index)
		if err != nil {
			return nil, e.wrap(err, n)
		}
		if !found {
			return nil, e.errf(n, "key %s not found", index.Repr())
		}

		return val, nil

	default:
		return nil, e.errf(n, "'%s' object is not subscriptable", obj.Type())
	}
}

// setIndex implements obj[index] = val for lists and dicts.
func (e *Evaluator) setIndex(obj, index, val value.Value, n types.Node) error {
	switch obj := obj.(type) {
	case *value.List:
		i, err := e.normalizeIndex(index, obj.Len(), n)
		if err != nil {
			return err
		}
		obj.Set(i, val)

		return nil

	case *value.Dict:
		if err := obj.Set(index, val); err != nil {
			return e.wrap(err, n)
		}

		return nil

	default:
		return e.errf(n, "'%s' object does not support item assignment", obj.Type())
	}
}

// normalizeIndex checks that index is an integer, resolves negative indexes
// against length, and range-checks the result.
func (e *Evaluator) normalizeIndex(index value.Value, length int, n types.Node) (int, error) {
	raw, ok := intOf(index)
	if !ok {
		return 0, e.errf(n, "indices must be integers, not %s", index.Type())
	}
	i := int(raw)
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, e.errf(n, "index out of range")
	}

	return i, nil
}
