package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conneroisu/snek/internal/value"
)

// builtinMethod resolves the built-in methods of the primitive container and
// string kinds. The returned value is a native closure already holding its
// receiver, so it calls like any other function value.
func builtinMethod(recv value.Value, name string) (value.Value, bool) {
	switch recv := recv.(type) {
	case *value.List:
		return listMethod(recv, name)
	case *value.Dict:
		return dictMethod(recv, name)
	case value.String:
		return stringMethod(recv, name)
	default:
		return nil, false
	}
}

// method wraps a native implementation with an exact arity check, so built-in
// methods report argument mismatches the same way user functions do.
func method(name string, arity int, fn func([]value.Value) (value.Value, error)) value.Value {
	wrapped := func(args []value.Value) (value.Value, error) {
		if len(args) != arity {
			return nil, fmt.Errorf("%s() takes %d argument(s), got %d", name, arity, len(args))
		}

		return fn(args)
	}

	return value.NewBuiltin(name, wrapped)
}

// methodRange is method for the few built-ins with optional arguments.
func methodRange(name string, minArity, maxArity int, fn func([]value.Value) (value.Value, error)) value.Value {
	wrapped := func(args []value.Value) (value.Value, error) {
		if len(args) < minArity || len(args) > maxArity {
			return nil, fmt.Errorf("%s() takes %d to %d argument(s), got %d",
				name, minArity, maxArity, len(args))
		}

		return fn(args)
	}

	return value.NewBuiltin(name, wrapped)
}

// listMethod resolves list built-ins.
func listMethod(recv *value.List, name string) (value.Value, bool) {
	switch name {
	case "append":
		return method("append", 1, func(args []value.Value) (value.Value, error) {
			recv.Append(args[0])

			return value.None{}, nil
		}), true

	case "pop":
		return method("pop", 0, func([]value.Value) (value.Value, error) {
			if recv.Len() == 0 {
				return nil, errors.New("pop from empty list")
			}

			return recv.Pop(), nil
		}), true

	case "extend":
		return method("extend", 1, func(args []value.Value) (value.Value, error) {
			other, ok := args[0].(*value.List)
			if !ok {
				return nil, fmt.Errorf("extend() expects a list, got %s", args[0].Type())
			}
			for _, elem := range other.Elements() {
				recv.Append(elem)
			}

			return value.None{}, nil
		}), true

	case "index":
		return method("index", 1, func(args []value.Value) (value.Value, error) {
			for i := 0; i < recv.Len(); i++ {
				if recv.Get(i).Equals(args[0]) {
					return value.Int(i), nil
				}
			}

			return nil, fmt.Errorf("%s is not in list", args[0].Repr())
		}), true

	default:
		return nil, false
	}
}

// dictMethod resolves dict built-ins. Iteration-order guarantees carry over:
// keys, values and items all follow insertion order.
func dictMethod(recv *value.Dict, name string) (value.Value, bool) {
	switch name {
	case "keys":
		return method("keys", 0, func([]value.Value) (value.Value, error) {
			return value.NewList(recv.Keys()...), nil
		}), true

	case "values":
		return method("values", 0, func([]value.Value) (value.Value, error) {
			entries := recv.Entries()
			vals := make([]value.Value, len(entries))
			for i, entry := range entries {
				vals[i] = entry.Val
			}

			return value.NewList(vals...), nil
		}), true

	case "items":
		return method("items", 0, func([]value.Value) (value.Value, error) {
			entries := recv.Entries()
			items := make([]value.Value, len(entries))
			for i, entry := range entries {
				items[i] = value.NewList(entry.Key, entry.Val)
			}

			return value.NewList(items...), nil
		}), true

	case "get":
		return methodRange("get", 1, 2, func(args []value.Value) (value.Value, error) {
			val, found, err := recv.Get(args[0])
			if err != nil {
				return nil, err
			}
			if found {
				return val, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}

			return value.None{}, nil
		}), true

	default:
		return nil, false
	}
}

// stringMethod resolves string built-ins.
func stringMethod(recv value.String, name string) (value.Value, bool) {
	s := string(recv)
	switch name {
	case "upper":
		return method("upper", 0, func([]value.Value) (value.Value, error) {
			return value.String(strings.ToUpper(s)), nil
		}), true

	case "lower":
		return method("lower", 0, func([]value.Value) (value.Value, error) {
			return value.String(strings.ToLower(s)), nil
		}), true

	case "strip":
		return method("strip", 0, func([]value.Value) (value.Value, error) {
			return value.String(strings.TrimSpace(s)), nil
		}), true

	case "split":
		return methodRange("split", 0, 1, func(args []value.Value) (value.Value, error) {
			var parts []string
			if len(args) == 0 {
				parts = strings.Fields(s)
			} else {
				sep, ok := args[0].(value.String)
				if !ok {
					return nil, fmt.Errorf("split() expects a str, got %s", args[0].Type())
				}
				parts = strings.Split(s, string(sep))
			}
			elems := make([]value.Value, len(parts))
			for i, part := range parts {
				elems[i] = value.String(part)
			}

			return value.NewList(elems...), nil
		}), true

	case "join":
		return method("join", 1, func(args []value.Value) (value.Value, error) {
			list, ok := args[0].(*value.List)
			if !ok {
				return nil, fmt.Errorf("join() expects a list, got %s", args[0].Type())
			}
			parts := make([]string, list.Len())
			for i := 0; i < list.Len(); i++ {
				elem, ok := list.Get(i).(value.String)
				if !ok {
					return nil, fmt.Errorf("join() expects str elements, got %s", list.Get(i).Type())
				}
				parts[i] = string(elem)
			}

			return value.String(strings.Join(parts, s)), nil
		}), true

	case "replace":
		return method("replace", 2, func(args []value.Value) (value.Value, error) {
			old, ok1 := args[0].(value.String)
			repl, ok2 := args[1].(value.String)
			if !ok1 || !ok2 {
				return nil, errors.New("replace() expects str arguments")
			}

			return value.String(strings.ReplaceAll(s, string(old), string(repl))), nil
		}), true

	case "find":
		return method("find", 1, func(args []value.Value) (value.Value, error) {
			sub, ok := args[0].(value.String)
			if !ok {
				return nil, fmt.Errorf("find() expects a str, got %s", args[0].Type())
			}

			return value.Int(strings.Index(s, string(sub))), nil
		}), true

	default:
		return nil, false
	}
}
