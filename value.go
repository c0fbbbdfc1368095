// value.go
//
// EasyBite runtime value model.
//
// A Value is a small tagged union: the Tag selects which Go type lives in
// Data (see ValueTag). Numbers are always float64; the language has a single
// numeric type. Arrays and dictionaries are held by pointer so that every
// binding of the same array or dictionary observes mutation (reference
// semantics). Dictionaries preserve insertion order and accept string,
// number, and boolean keys; keys of different tags never collide because
// lookups go through a tag-prefixed canonical encoding.
//
// Display is the string form used by show and string concatenation: numbers
// in their shortest decimal form ("5", not "5.000000"), strings bare,
// containers rendered recursively. String is the REPL/debug form, identical
// except that strings are quoted.

package easybite

import (
	"math"
	"strconv"
	"strings"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull     ValueTag = iota // no payload
	VTBool                     // bool
	VTNum                      // float64
	VTStr                      // string
	VTArray                    // *ArrayObject
	VTDict                     // *DictObject
	VTFun                      // *Fun (user-defined function)
	VTBuiltin                  // *Builtin (native function)
	VTClass                    // *ClassObject
	VTInstance                 // *InstanceObject
	VTHandle                   // *Handle (opaque host state)
)

// String returns the user-facing name of the tag, as used in error messages
// and by the typeof builtin.
func (t ValueTag) String() string {
	switch t {
	case VTNull:
		return "null"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTArray:
		return "array"
	case VTDict:
		return "dictionary"
	case VTFun:
		return "function"
	case VTBuiltin:
		return "builtin"
	case VTClass:
		return "class"
	case VTInstance:
		return "instance"
	case VTHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// Value is the universal runtime carrier used by the interpreter.
// The zero Value is null.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// Arr wraps a slice into a fresh array Value. The slice is owned by the
// returned array from then on.
func Arr(xs []Value) Value { return Value{Tag: VTArray, Data: &ArrayObject{Elems: xs}} }

// ArrVal wraps an existing ArrayObject without copying.
func ArrVal(a *ArrayObject) Value { return Value{Tag: VTArray, Data: a} }

// DictVal wraps an existing DictObject without copying.
func DictVal(d *DictObject) Value { return Value{Tag: VTDict, Data: d} }

// FunVal wraps a user function.
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// BuiltinVal wraps a native function.
func BuiltinVal(b *Builtin) Value { return Value{Tag: VTBuiltin, Data: b} }

// ClassVal wraps a class object.
func ClassVal(c *ClassObject) Value { return Value{Tag: VTClass, Data: c} }

// InstanceVal wraps a class instance.
func InstanceVal(i *InstanceObject) Value { return Value{Tag: VTInstance, Data: i} }

// ArrayObject is the mutable backing store of an array Value. All Values
// holding the same ArrayObject see the same elements.
type ArrayObject struct {
	Elems []Value
}

// NewArray returns an array of n null elements (declare arr[n]).
func NewArray(n int) *ArrayObject {
	a := &ArrayObject{Elems: make([]Value, n)}
	for i := range a.Elems {
		a.Elems[i] = Null
	}
	return a
}

// DictObject is an insertion-ordered dictionary with string, number, and
// boolean keys.
//
// Entries is keyed by the canonical encoding from dictKey; Keys holds the
// original key Values in insertion order. Order-sensitive operations
// (iteration, keys(), popitem) must consult Keys.
type DictObject struct {
	Entries map[string]Value
	Keys    []Value
}

// NewDict returns an empty dictionary.
func NewDict() *DictObject {
	return &DictObject{Entries: map[string]Value{}}
}

// dictKey returns the canonical map key for v, or false when v's tag is not
// key-eligible. The tag prefix keeps 1, "1" and true distinct.
func dictKey(v Value) (string, bool) {
	switch v.Tag {
	case VTStr:
		return "s:" + v.Data.(string), true
	case VTNum:
		return "n:" + formatNumber(v.Data.(float64)), true
	case VTBool:
		if v.Data.(bool) {
			return "b:true", true
		}
		return "b:false", true
	default:
		return "", false
	}
}

// Get returns the value stored under key, if present.
func (d *DictObject) Get(key Value) (Value, bool) {
	k, ok := dictKey(key)
	if !ok {
		return Null, false
	}
	v, ok := d.Entries[k]
	return v, ok
}

// Set stores v under key, appending the key to the insertion order when it
// is new. Returns false when key's tag is not key-eligible.
func (d *DictObject) Set(key Value, v Value) bool {
	k, ok := dictKey(key)
	if !ok {
		return false
	}
	if _, exists := d.Entries[k]; !exists {
		d.Keys = append(d.Keys, key)
	}
	d.Entries[k] = v
	return true
}

// Delete removes key and reports whether it was present.
func (d *DictObject) Delete(key Value) bool {
	k, ok := dictKey(key)
	if !ok {
		return false
	}
	if _, exists := d.Entries[k]; !exists {
		return false
	}
	delete(d.Entries, k)
	for i, kv := range d.Keys {
		ck, _ := dictKey(kv)
		if ck == k {
			d.Keys = append(d.Keys[:i], d.Keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (d *DictObject) Len() int { return len(d.Entries) }

// Fun is a user-defined function: a closure over its defining environment.
// Trailing parameters may carry default expressions, evaluated in the
// closure environment when the call site omits them.
type Fun struct {
	Name   string
	Params []Param
	Body   []Stmt
	Env    *Env
}

// Builtin is a native function registered with the runtime. Max is -1 for
// variadic builtins; otherwise arity must fall in [Min, Max].
type Builtin struct {
	Name string
	Min  int
	Max  int
	Fn   NativeFn
	Doc  string
}

// NativeFn is the implementation signature for builtins. Implementations
// report failures by raising a runtime error (fail); they never return Go
// errors.
type NativeFn func(ip *Interpreter, args []Value) Value

// ClassObject is a class definition bound to its defining environment.
// Field templates and method bodies evaluate against Env so that classes
// close over their surroundings the same way functions do.
type ClassObject struct {
	Name    string
	Parent  *ClassObject
	Fields  []*FieldDecl
	Methods map[string]*MethodDecl
	Init    *InitDecl
	Env     *Env
}

// lookupMethod walks the inheritance chain and returns the method together
// with the class that declares it.
func (c *ClassObject) lookupMethod(name string) (*MethodDecl, *ClassObject, bool) {
	for cls := c; cls != nil; cls = cls.Parent {
		if m, ok := cls.Methods[name]; ok {
			return m, cls, true
		}
	}
	return nil, nil, false
}

// fieldSecret reports whether name is declared secret anywhere on the chain.
func (c *ClassObject) fieldSecret(name string) bool {
	for cls := c; cls != nil; cls = cls.Parent {
		for _, f := range cls.Fields {
			if f.Name == name {
				return f.Secret
			}
		}
	}
	return false
}

// isSubclassOf reports whether c is cls or inherits from it.
func (c *ClassObject) isSubclassOf(cls *ClassObject) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur == cls {
			return true
		}
	}
	return false
}

// InstanceObject is a class instance. Fields holds the instance's own state;
// declared fields are populated at construction (inherited classes first),
// and assignment through this may add new ones.
type InstanceObject struct {
	Class  *ClassObject
	Fields map[string]Value
}

// --- display ---------------------------------------------------------------

// formatNumber renders a number in its shortest decimal form: integral
// values print without a fractional part (5, not 5.0).
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Display renders v the way show prints it.
func (v Value) Display() string {
	return v.render(false)
}

// String renders v for the REPL and debugging; strings are quoted.
func (v Value) String() string {
	return v.render(true)
}

func (v Value) render(quoted bool) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTNum:
		return formatNumber(v.Data.(float64))
	case VTStr:
		if quoted {
			return strconv.Quote(v.Data.(string))
		}
		return v.Data.(string)
	case VTArray:
		a := v.Data.(*ArrayObject)
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range a.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.render(quoted))
		}
		b.WriteByte(']')
		return b.String()
	case VTDict:
		d := v.Data.(*DictObject)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range d.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k.render(quoted))
			b.WriteString(": ")
			ck, _ := dictKey(k)
			b.WriteString(d.Entries[ck].render(quoted))
		}
		b.WriteByte('}')
		return b.String()
	case VTFun:
		return "<function " + v.Data.(*Fun).Name + ">"
	case VTBuiltin:
		return "<builtin " + v.Data.(*Builtin).Name + ">"
	case VTClass:
		return "<class " + v.Data.(*ClassObject).Name + ">"
	case VTInstance:
		return "<" + v.Data.(*InstanceObject).Class.Name + " instance>"
	case VTHandle:
		return "<" + v.Data.(*Handle).Kind + " handle>"
	default:
		return "<unknown>"
	}
}

// --- equality and coercion -------------------------------------------------

// parseNumber attempts the numeric reading of a string used by cross-tag
// comparison and arithmetic coercion.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// isIntegral reports whether f has no fractional part.
func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && math.Trunc(f) == f
}

// equal implements language equality: pairwise by tag, with one coercion
// (number against string attempts a numeric parse of the string). Arrays
// compare element-wise; dictionaries compare by key set and values,
// insertion order ignored. Functions, classes, instances, and handles
// compare by identity.
func equal(a, b Value) bool {
	if a.Tag != b.Tag {
		// number ~ string coercion
		if a.Tag == VTNum && b.Tag == VTStr {
			if f, ok := parseNumber(b.Data.(string)); ok {
				return a.Data.(float64) == f
			}
			return false
		}
		if a.Tag == VTStr && b.Tag == VTNum {
			if f, ok := parseNumber(a.Data.(string)); ok {
				return f == b.Data.(float64)
			}
			return false
		}
		return false
	}
	switch a.Tag {
	case VTNull:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTArray:
		ax := a.Data.(*ArrayObject).Elems
		bx := b.Data.(*ArrayObject).Elems
		if len(ax) != len(bx) {
			return false
		}
		for i := range ax {
			if !equal(ax[i], bx[i]) {
				return false
			}
		}
		return true
	case VTDict:
		ad := a.Data.(*DictObject)
		bd := b.Data.(*DictObject)
		if len(ad.Entries) != len(bd.Entries) {
			return false
		}
		for k, av := range ad.Entries {
			bv, ok := bd.Entries[k]
			if !ok || !equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return a.Data == b.Data
	}
}
