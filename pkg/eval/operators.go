package eval

import (
	"math"
	"strings"

	"github.com/conneroisu/snek/internal/types"
	"github.com/conneroisu/snek/internal/value"
)

// numOf widens int, float and bool operands to float64 for mixed arithmetic
// and ordering. Other kinds report false.
func numOf(v value.Value) (float64, bool) {
	switch v := v.(type) {
	case value.Int:
		return float64(v), true
	case value.Float:
		return float64(v), true
	case value.Bool:
		if v {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}

// intOf narrows int and bool operands to int64. Floats report false so
// int-only paths (floor division, repetition counts) stay exact.
func intOf(v value.Value) (int64, bool) {
	switch v := v.(type) {
	case value.Int:
		return int64(v), true
	case value.Bool:
		if v {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}

// evalBinary evaluates an arithmetic binary expression.
func (e *Evaluator) evalBinary(expr *types.BinaryExpr, env *value.Env) (value.Value, error) {
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	return e.evalBinaryOp(expr.Op, left, right, expr)
}

// evalBinaryOp applies op to already-evaluated operands. Augmented
// assignment reuses it for the desugared form.
func (e *Evaluator) evalBinaryOp(op types.BinaryOp, left, right value.Value, n types.Node) (value.Value, error) {
	switch op {
	case types.OpAdd:
		return e.evalAdd(left, right, n)
	case types.OpSub:
		return e.evalArith(op, left, right, n)
	case types.OpMul:
		return e.evalMul(left, right, n)
	case types.OpDiv:
		return e.evalDiv(left, right, n)
	case types.OpFloorDiv:
		return e.evalFloorDiv(left, right, n)
	case types.OpMod:
		return e.evalMod(left, right, n)
	case types.OpPow:
		return e.evalPow(left, right, n)
	default:
		return nil, e.errf(n, "unknown binary operator: %v", op)
	}
}

// evalAdd handles numeric addition plus string and list concatenation.
func (e *Evaluator) evalAdd(left, right value.Value, n types.Node) (value.Value, error) {
	if ls, ok := left.(value.String); ok {
		if rs, ok := right.(value.String); ok {
			return value.String(string(ls) + string(rs)), nil
		}

		return nil, e.errf(n, "cannot add %s to str", right.Type())
	}
	if ll, ok := left.(*value.List); ok {
		if rl, ok := right.(*value.List); ok {
			return value.NewList(append(ll.Elements(), rl.Elements()...)...), nil
		}

		return nil, e.errf(n, "cannot add %s to list", right.Type())
	}

	return e.evalArith(types.OpAdd, left, right, n)
}

// evalArith handles the pure numeric operators with int/float promotion.
func (e *Evaluator) evalArith(op types.BinaryOp, left, right value.Value, n types.Node) (value.Value, error) {
	li, lok := intOf(left)
	ri, rok := intOf(right)
	if lok && rok {
		switch op {
		case types.OpAdd:
			return value.Int(li + ri), nil
		case types.OpSub:
			return value.Int(li - ri), nil
		case types.OpMul:
			return value.Int(li * ri), nil
		}
	}

	lf, lok := numOf(left)
	rf, rok := numOf(right)
	if !lok || !rok {
		return nil, e.errf(n, "unsupported operand types for %v: %s and %s",
			op, left.Type(), right.Type())
	}
	switch op {
	case types.OpAdd:
		return value.Float(lf + rf), nil
	case types.OpSub:
		return value.Float(lf - rf), nil
	case types.OpMul:
		return value.Float(lf * rf), nil
	default:
		return nil, e.errf(n, "unknown arithmetic operator: %v", op)
	}
}

// evalMul handles numeric multiplication plus sequence repetition
// (int * str, str * int, int * list, list * int).
func (e *Evaluator) evalMul(left, right value.Value, n types.Node) (value.Value, error) {
	if count, ok := intOf(left); ok {
		if seq, isSeq := repeatSequence(right, count); isSeq {
			return seq, nil
		}
	}
	if count, ok := intOf(right); ok {
		if seq, isSeq := repeatSequence(left, count); isSeq {
			return seq, nil
		}
	}

	return e.evalArith(types.OpMul, left, right, n)
}

// repeatSequence repeats a string or list count times. A non-positive count
// yields an empty sequence.
func repeatSequence(v value.Value, count int64) (value.Value, bool) {
	if count < 0 {
		count = 0
	}
	switch v := v.(type) {
	case value.String:
		return value.String(strings.Repeat(string(v), int(count))), true
	case *value.List:
		elems := make([]value.Value, 0, int(count)*v.Len())
		for i := int64(0); i < count; i++ {
			elems = append(elems, v.Elements()...)
		}

		return value.NewList(elems...), true
	default:
		return nil, false
	}
}

// evalDiv implements true division: the result is always a float.
func (e *Evaluator) evalDiv(left, right value.Value, n types.Node) (value.Value, error) {
	lf, lok := numOf(left)
	rf, rok := numOf(right)
	if !lok || !rok {
		return nil, e.errf(n, "unsupported operand types for /: %s and %s",
			left.Type(), right.Type())
	}
	if rf == 0 {
		return nil, e.errf(n, "division by zero")
	}

	return value.Float(lf / rf), nil
}

// evalFloorDiv implements floor division: an int when both operands are
// ints, the floor of the float quotient otherwise.
func (e *Evaluator) evalFloorDiv(left, right value.Value, n types.Node) (value.Value, error) {
	if li, lok := intOf(left); lok {
		if ri, rok := intOf(right); rok {
			if ri == 0 {
				return nil, e.errf(n, "division by zero")
			}
			q := li / ri
			if li%ri != 0 && (li < 0) != (ri < 0) {
				q--
			}

			return value.Int(q), nil
		}
	}

	lf, lok := numOf(left)
	rf, rok := numOf(right)
	if !lok || !rok {
		return nil, e.errf(n, "unsupported operand types for //: %s and %s",
			left.Type(), right.Type())
	}
	if rf == 0 {
		return nil, e.errf(n, "division by zero")
	}

	return value.Float(math.Floor(lf / rf)), nil
}

// evalMod implements mathematical modulo: the result follows the sign of
// the divisor.
func (e *Evaluator) evalMod(left, right value.Value, n types.Node) (value.Value, error) {
	if li, lok := intOf(left); lok {
		if ri, rok := intOf(right); rok {
			if ri == 0 {
				return nil, e.errf(n, "modulo by zero")
			}
			r := li % ri
			if r != 0 && (r < 0) != (ri < 0) {
				r += ri
			}

			return value.Int(r), nil
		}
	}

	lf, lok := numOf(left)
	rf, rok := numOf(right)
	if !lok || !rok {
		return nil, e.errf(n, "unsupported operand types for %%: %s and %s",
			left.Type(), right.Type())
	}
	if rf == 0 {
		return nil, e.errf(n, "modulo by zero")
	}
	r := math.Mod(lf, rf)
	if r != 0 && (r < 0) != (rf < 0) {
		r += rf
	}

	return value.Float(r), nil
}

// evalPow implements exponentiation. Int base with a non-negative int
// exponent stays exact; everything else goes through math.Pow.
func (e *Evaluator) evalPow(left, right value.Value, n types.Node) (value.Value, error) {
	if li, lok := intOf(left); lok {
		if ri, rok := intOf(right); rok && ri >= 0 {
			result := int64(1)
			for i := int64(0); i < ri; i++ {
				result *= li
			}

			return value.Int(result), nil
		}
	}

	lf, lok := numOf(left)
	rf, rok := numOf(right)
	if !lok || !rok {
		return nil, e.errf(n, "unsupported operand types for **: %s and %s",
			left.Type(), right.Type())
	}

	return value.Float(math.Pow(lf, rf)), nil
}

// evalUnary evaluates unary operators.
func (e *Evaluator) evalUnary(expr *types.UnaryExpr, env *value.Env) (value.Value, error) {
	operand, err := e.evalExpr(expr.Operand, env)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case types.OpNot:
		return value.Bool(!operand.Truthy()), nil

	case types.OpNeg:
		switch v := operand.(type) {
		case value.Int:
			return value.Int(-v), nil
		case value.Float:
			return value.Float(-v), nil
		case value.Bool:
			n, _ := intOf(v)

			return value.Int(-n), nil
		default:
			return nil, e.errf(expr, "bad operand type for unary -: %s", operand.Type())
		}

	case types.OpPos:
		switch operand.(type) {
		case value.Int, value.Float, value.Bool:
			return operand, nil
		default:
			return nil, e.errf(expr, "bad operand type for unary +: %s", operand.Type())
		}

	default:
		return nil, e.errf(expr, "unknown unary operator: %v", expr.Op)
	}
}

// evalBoolOp evaluates short-circuit 'and'/'or'. The result is the last
// operand evaluated, not a normalized boolean.
func (e *Evaluator) evalBoolOp(expr *types.BoolOpExpr, env *value.Env) (value.Value, error) {
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	if expr.Op == types.OpAnd {
		if !left.Truthy() {
			return left, nil
		}
	} else {
		if left.Truthy() {
			return left, nil
		}
	}

	return e.evalExpr(expr.Right, env)
}

// evalCompare evaluates a possibly chained comparison left-to-right,
// short-circuiting on the first false link. Each middle operand is
// evaluated once.
func (e *Evaluator) evalCompare(expr *types.CompareExpr, env *value.Env) (value.Value, error) {
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	for i, op := range expr.Ops {
		right, err := e.evalExpr(expr.Rights[i], env)
		if err != nil {
			return nil, err
		}
		ok, err := e.compareOnce(op, left, right, expr)
		if err != nil {
			return nil, err
		}
		if !ok {
			return value.Bool(false), nil
		}
		left = right
	}

	return value.Bool(true), nil
}

// compareOnce applies a single comparison operator. Equality works across
// all kinds; ordering is defined for two numerics or two strings only.
func (e *Evaluator) compareOnce(op types.CompareOp, left, right value.Value, n types.Node) (bool, error) {
	switch op {
	case types.OpEq:
		return left.Equals(right), nil
	case types.OpNEq:
		return !left.Equals(right), nil
	}

	if lf, lok := numOf(left); lok {
		if rf, rok := numOf(right); rok {
			switch op {
			case types.OpLT:
				return lf < rf, nil
			case types.OpGT:
				return lf > rf, nil
			case types.OpLTE:
				return lf <= rf, nil
			case types.OpGTE:
				return lf >= rf, nil
			}
		}
	}

	if ls, lok := left.(value.String); lok {
		if rs, rok := right.(value.String); rok {
			switch op {
			case types.OpLT:
				return ls < rs, nil
			case types.OpGT:
				return ls > rs, nil
			case types.OpLTE:
				return ls <= rs, nil
			case types.OpGTE:
				return ls >= rs, nil
			}
		}
	}

	return false, e.errf(n, "'%v' not supported between %s and %s",
		op, left.Type(), right.Type())
}
