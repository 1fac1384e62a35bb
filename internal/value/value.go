package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Type represents the kind of a runtime value.
type Type byte

const (
	TypeNone Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeList
	TypeDict
	TypeFunction
	TypeClass
	TypeInstance
	TypeBoundMethod
	TypeBuiltin
)

// typeNames provides human-readable names for error messages.
var typeNames = map[Type]string{
	TypeNone:        "none",
	TypeBool:        "bool",
	TypeInt:         "int",
	TypeFloat:       "float",
	TypeString:      "str",
	TypeList:        "list",
	TypeDict:        "dict",
	TypeFunction:    "function",
	TypeClass:       "class",
	TypeInstance:    "instance",
	TypeBoundMethod: "method",
	TypeBuiltin:     "builtin",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("Type(%d)", byte(t))
}

// Value is the interface all runtime values must implement.
type Value interface {
	Type() Type
	// Repr returns the canonical literal form (strings quoted).
	Repr() string
	// Truthy reports the value's boolean interpretation.
	Truthy() bool
	Equals(Value) bool
}

// Str returns the print form of a value: identical to Repr except that a
// top-level string is rendered without quotes.
func Str(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}

	return v.Repr()
}

// None represents the none value.
type None struct{}

func (None) Type() Type   { return TypeNone }
func (None) Repr() string { return "None" }
func (None) Truthy() bool { return false }
func (None) Equals(v Value) bool {
	_, ok := v.(None)

	return ok
}

// Bool represents a boolean value.
type Bool bool

func (b Bool) Type() Type { return TypeBool }
func (b Bool) Repr() string {
	if b {
		return "True"
	}

	return "False"
}
func (b Bool) Truthy() bool { return bool(b) }
func (b Bool) Equals(v Value) bool {
	// Booleans compare numerically against ints and floats (True == 1).
	if n, ok := asNumber(v); ok {
		return boolToFloat(bool(b)) == n
	}

	return false
}

// Int represents a signed 64-bit integer value.
type Int int64

func (i Int) Type() Type   { return TypeInt }
func (i Int) Repr() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Truthy() bool { return i != 0 }
func (i Int) Equals(v Value) bool {
	if n, ok := asNumber(v); ok {
		return float64(i) == n
	}

	return false
}

// Float represents an IEEE-754 double value.
type Float float64

func (f Float) Type() Type   { return TypeFloat }
func (f Float) Repr() string { return FormatFloat(float64(f)) }
func (f Float) Truthy() bool { return f != 0 }
func (f Float) Equals(v Value) bool {
	if n, ok := asNumber(v); ok {
		return float64(f) == n
	}

	return false
}

// FormatFloat renders a float in literal form, always keeping at least one
// fractional digit or an exponent so the text re-lexes as a float.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

// asNumber widens int, float and bool values to float64 for cross-kind
// numeric equality. All other kinds report false.
func asNumber(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	case Bool:
		return boolToFloat(bool(v)), true
	default:
		return 0, false
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

// String represents an immutable string value.
type String string

func (s String) Type() Type   { return TypeString }
func (s String) Repr() string { return "'" + string(s) + "'" }
func (s String) Truthy() bool { return len(s) > 0 }
func (s String) Equals(v Value) bool {
	other, ok := v.(String)

	return ok && s == other
}

// List represents an ordered mutable sequence of values.
type List struct {
	elems []Value
}

// NewList creates a new list from elements.
func NewList(elems ...Value) *List {
	return &List{elems: append([]Value(nil), elems...)}
}

func (l *List) Type() Type   { return TypeList }
func (l *List) Truthy() bool { return len(l.elems) > 0 }
func (l *List) Len() int     { return len(l.elems) }

// Get returns the element at i. The caller is responsible for range checks.
func (l *List) Get(i int) Value { return l.elems[i] }

// Set replaces the element at i. The caller is responsible for range checks.
func (l *List) Set(i int, v Value) { l.elems[i] = v }

// Append adds an element at the end of the list.
func (l *List) Append(v Value) { l.elems = append(l.elems, v) }

// Pop removes and returns the last element.
func (l *List) Pop() Value {
	v := l.elems[len(l.elems)-1]
	l.elems = l.elems[:len(l.elems)-1]

	return v
}

// Elements returns a copy of the element slice.
func (l *List) Elements() []Value { return append([]Value(nil), l.elems...) }

func (l *List) Repr() string {
	parts := make([]string, len(l.elems))
	for i, elem := range l.elems {
		parts[i] = elem.Repr()
	}

	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

func (l *List) Equals(v Value) bool {
	other, ok := v.(*List)
	if !ok || len(l.elems) != len(other.elems) {
		return false
	}
	for i, e := range l.elems {
		if !e.Equals(other.elems[i]) {
			return false
		}
	}

	return true
}

// Key is the canonical hashable form of a dict key. Numeric keys collapse
// the way numeric equality does: 1, 1.0 and True all share one slot.
type Key struct {
	kind byte // 'n' none, 'i' int, 'f' float, 's' string
	i    int64
	f    float64
	s    string
}

// HashKey converts a value into its canonical dict key. Only none, booleans,
// numbers and strings are hashable.
func HashKey(v Value) (Key, error) {
	switch v := v.(type) {
	case None:
		return Key{kind: 'n'}, nil
	case Bool:
		return Key{kind: 'i', i: int64(boolToFloat(bool(v)))}, nil
	case Int:
		return Key{kind: 'i', i: int64(v)}, nil
	case Float:
		f := float64(v)
		if f == float64(int64(f)) {
			return Key{kind: 'i', i: int64(f)}, nil
		}

		return Key{kind: 'f', f: f}, nil
	case String:
		return Key{kind: 's', s: string(v)}, nil
	default:
		return Key{}, fmt.Errorf("unhashable type: %s", v.Type())
	}
}

// DictEntry is one key/value pair of a dict.
type DictEntry struct {
	Key Value
	Val Value
}

// Dict represents a mapping with insertion-ordered iteration.
type Dict struct {
	entries []DictEntry
	index   map[Key]int
}

// NewDict creates a new empty dict.
func NewDict() *Dict {
	return &Dict{index: make(map[Key]int)}
}

func (d *Dict) Type() Type   { return TypeDict }
func (d *Dict) Truthy() bool { return len(d.entries) > 0 }
func (d *Dict) Len() int     { return len(d.entries) }

// Get looks up a key. The error reports unhashable key types.
func (d *Dict) Get(key Value) (Value, bool, error) {
	k, err := HashKey(key)
	if err != nil {
		return nil, false, err
	}
	if i, ok := d.index[k]; ok {
		return d.entries[i].Val, true, nil
	}

	return nil, false, nil
}

// Set binds a key to a value, preserving the slot of an existing key.
func (d *Dict) Set(key, val Value) error {
	k, err := HashKey(key)
	if err != nil {
		return err
	}
	if i, ok := d.index[k]; ok {
		d.entries[i].Val = val

		return nil
	}
	d.index[k] = len(d.entries)
	d.entries = append(d.entries, DictEntry{Key: key, Val: val})

	return nil
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value {
	keys := make([]Value, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}

	return keys
}

// Entries returns a copy of the entry slice in insertion order.
func (d *Dict) Entries() []DictEntry { return append([]DictEntry(nil), d.entries...) }

func (d *Dict) Repr() string {
	parts := make([]string, len(d.entries))
	for i, e := range d.entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key.Repr(), e.Val.Repr())
	}

	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

func (d *Dict) Equals(v Value) bool {
	other, ok := v.(*Dict)
	if !ok || len(d.entries) != len(other.entries) {
		return false
	}
	for _, e := range d.entries {
		ov, found, err := other.Get(e.Key)
		if err != nil || !found || !e.Val.Equals(ov) {
			return false
		}
	}

	return true
}

// Function represents a user-defined function or lambda: a closure over the
// environment in effect at its definition site.
type Function struct {
	name   string
	params []string
	body   interface{} // []types.Stmt for def, types.Expr for lambda
	env    *Env
}

// NewFunction creates a new function value. The name is empty for lambdas.
func NewFunction(name string, params []string, body interface{}, env *Env) *Function {
	return &Function{name: name, params: params, body: body, env: env}
}

func (f *Function) Type() Type { return TypeFunction }
func (f *Function) Repr() string {
	if f.name == "" {
		return "<lambda>"
	}

	return fmt.Sprintf("<function %s>", f.name)
}
func (f *Function) Truthy() bool       { return true }
func (f *Function) Equals(v Value) bool { return f == v }
func (f *Function) Name() string       { return f.name }
func (f *Function) Params() []string   { return f.params }
func (f *Function) Body() interface{}  { return f.body }
func (f *Function) Env() *Env          { return f.env }

// Class represents a user-defined class: a name, an attribute mapping
// (typically the methods) and an optional single base class.
type Class struct {
	name  string
	attrs map[string]Value
	base  *Class
}

// NewClass creates a new class value.
func NewClass(name string, attrs map[string]Value, base *Class) *Class {
	if attrs == nil {
		attrs = make(map[string]Value)
	}

	return &Class{name: name, attrs: attrs, base: base}
}

func (c *Class) Type() Type          { return TypeClass }
func (c *Class) Repr() string        { return fmt.Sprintf("<class %s>", c.name) }
func (c *Class) Truthy() bool        { return true }
func (c *Class) Equals(v Value) bool { return c == v }
func (c *Class) Name() string        { return c.name }
func (c *Class) Base() *Class        { return c.base }

// GetAttr looks up an attribute on the class itself, walking the base chain.
func (c *Class) GetAttr(name string) (Value, bool) {
	for cls := c; cls != nil; cls = cls.base {
		if v, ok := cls.attrs[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// SetAttr binds an attribute on this class only, never on a base.
func (c *Class) SetAttr(name string, v Value) { c.attrs[name] = v }

// Instance represents an instance of a user-defined class with its own
// attribute mapping. Writes never propagate to the class.
type Instance struct {
	class *Class
	attrs map[string]Value
}

// NewInstance creates a fresh instance of the given class.
func NewInstance(class *Class) *Instance {
	return &Instance{class: class, attrs: make(map[string]Value)}
}

func (in *Instance) Type() Type          { return TypeInstance }
func (in *Instance) Repr() string        { return fmt.Sprintf("<%s instance>", in.class.name) }
func (in *Instance) Truthy() bool        { return true }
func (in *Instance) Equals(v Value) bool { return in == v }
func (in *Instance) Class() *Class       { return in.class }

// GetAttr looks up an attribute on the instance only; method resolution
// through the class chain is the evaluator's job.
func (in *Instance) GetAttr(name string) (Value, bool) {
	v, ok := in.attrs[name]

	return v, ok
}

// SetAttr binds an attribute on the instance.
func (in *Instance) SetAttr(name string, v Value) { in.attrs[name] = v }

// BoundMethod represents a function resolved through an instance: calling it
// prepends the receiver to the argument list.
type BoundMethod struct {
	recv Value
	fn   *Function
}

// NewBoundMethod binds fn to the given receiver.
func NewBoundMethod(recv Value, fn *Function) *BoundMethod {
	return &BoundMethod{recv: recv, fn: fn}
}

func (m *BoundMethod) Type() Type { return TypeBoundMethod }
func (m *BoundMethod) Repr() string {
	return fmt.Sprintf("<bound method %s>", m.fn.Name())
}
func (m *BoundMethod) Truthy() bool { return true }
func (m *BoundMethod) Equals(v Value) bool {
	other, ok := v.(*BoundMethod)

	return ok && m.recv == other.recv && m.fn == other.fn
}
func (m *BoundMethod) Receiver() Value     { return m.recv }
func (m *BoundMethod) Function() *Function { return m.fn }

// Builtin represents a native method on a primitive value (list.append,
// str.upper, ...). The closure already holds its receiver.
type Builtin struct {
	name string
	fn   func([]Value) (Value, error)
}

// NewBuiltin creates a new builtin method value.
func NewBuiltin(name string, fn func([]Value) (Value, error)) *Builtin {
	return &Builtin{name: name, fn: fn}
}

func (b *Builtin) Type() Type   { return TypeBuiltin }
func (b *Builtin) Repr() string { return fmt.Sprintf("<builtin %s>", b.name) }
func (b *Builtin) Truthy() bool { return true }
func (b *Builtin) Equals(v Value) bool {
	other, ok := v.(*Builtin)

	return ok && b == other
}
func (b *Builtin) Name() string                      { return b.name }
func (b *Builtin) Apply(args []Value) (Value, error) { return b.fn(args) }
