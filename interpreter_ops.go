// interpreter_ops.go — PRIVATE: operator semantics and value plumbing.
//
// This file:
//  - Defines the panic-carried control signals (return/stop/skip/exit) and
//    fail(), the one way the evaluator raises a runtime error.
//  - Implements truthiness, the binary and unary operators, and the
//    comparison ladder with its number~string coercion rule.
//  - Implements assignment targets (variable, index, member) and the
//    indexed read path shared by expressions and compound targets.
//
// Public API is in interpreter.go. Statement/expression walking is in
// interpreter_exec.go.

package easybite

import (
	"fmt"
	"math"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
//                           SIGNALS AND FAILURE
////////////////////////////////////////////////////////////////////////////////

// Control flow unwinds the Go stack as panics and is caught at the matching
// construct: returnSig at call boundaries, stopSig/skipSig at loop bodies,
// exitSig at the top-level entry points. A signal escaping past its
// construct is a usage error (runTop reports it).
type returnSig struct{ v Value }
type stopSig struct{}
type skipSig struct{}
type exitSig struct{}

// fail raises a runtime error from anywhere inside evaluation. Position is
// left zero here; it is stamped from the interpreter's current node on the
// way out (or swallowed entirely by try/capture, which only keeps the
// message).
func fail(kind ErrKind, format string, args ...any) {
	panic(&RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

////////////////////////////////////////////////////////////////////////////////
//                               TRUTHINESS
////////////////////////////////////////////////////////////////////////////////

// truthy implements condition coercion: null and false are false, zero is
// false, empty strings and empty collections are false, everything else is
// true.
func truthy(v Value) bool {
	switch v.Tag {
	case VTNull:
		return false
	case VTBool:
		return v.Data.(bool)
	case VTNum:
		return v.Data.(float64) != 0
	case VTStr:
		return v.Data.(string) != ""
	case VTArray:
		return len(v.Data.(*ArrayObject).Elems) > 0
	case VTDict:
		return v.Data.(*DictObject).Len() > 0
	default:
		return true
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                OPERATORS
////////////////////////////////////////////////////////////////////////////////

// numOperand coerces v for arithmetic. Only numbers participate; anything
// else is a type error naming the operator.
func numOperand(op string, v Value) float64 {
	if v.Tag != VTNum {
		fail(ErrType, "'%s' expects numbers, got %s", op, v.Tag)
	}
	return v.Data.(float64)
}

// binaryOp evaluates an already-evaluated operand pair. Short-circuit
// operators never reach here (the exec layer handles them before evaluating
// the right side).
func (ip *Interpreter) binaryOp(op TokenType, a, b Value) Value {
	switch op {
	case PLUS:
		return addValues(a, b)
	case MINUS:
		return Num(numOperand("-", a) - numOperand("-", b))
	case MULT:
		return Num(numOperand("*", a) * numOperand("*", b))
	case DIV:
		x, y := numOperand("/", a), numOperand("/", b)
		if y == 0 {
			fail(ErrDivZero, "division by zero")
		}
		return Num(x / y)
	case REMIND:
		x, y := numOperand("%", a), numOperand("%", b)
		if y == 0 {
			fail(ErrDivZero, "modulo by zero")
		}
		return Num(math.Mod(x, y))
	case POW:
		return Num(math.Pow(numOperand("^", a), numOperand("^", b)))
	case EQ, IS:
		return Bool(equal(a, b))
	case NEQ, IS_NOT:
		return Bool(!equal(a, b))
	case IS_IN, IN:
		return Bool(contains(b, a))
	case LESS:
		return Bool(compareValues("<", a, b) < 0)
	case GREATER:
		return Bool(compareValues(">", a, b) > 0)
	case LESS_EQ:
		return Bool(compareValues("<=", a, b) <= 0)
	case GREATER_EQ:
		return Bool(compareValues(">=", a, b) >= 0)
	default:
		fail(ErrType, "unsupported operator %v", op)
		return Null
	}
}

// addValues implements '+': numeric addition, string concatenation when
// either side is a string (the other side converts to its display form),
// and array concatenation into a fresh array.
func addValues(a, b Value) Value {
	switch {
	case a.Tag == VTNum && b.Tag == VTNum:
		return Num(a.Data.(float64) + b.Data.(float64))
	case a.Tag == VTStr || b.Tag == VTStr:
		return Str(a.Display() + b.Display())
	case a.Tag == VTArray && b.Tag == VTArray:
		left := a.Data.(*ArrayObject).Elems
		right := b.Data.(*ArrayObject).Elems
		out := make([]Value, 0, len(left)+len(right))
		out = append(out, left...)
		out = append(out, right...)
		return Arr(out)
	default:
		fail(ErrType, "'+' cannot combine %s and %s", a.Tag, b.Tag)
		return Null
	}
}

// compareValues implements the relational tier. Numbers compare
// numerically, strings lexicographically; a number paired with a numeric
// string coerces the string. Everything else is a type error.
func compareValues(op string, a, b Value) int {
	if a.Tag == VTNum || b.Tag == VTNum {
		x, okA := asNumber(a)
		y, okB := asNumber(b)
		if okA && okB {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	if a.Tag == VTStr && b.Tag == VTStr {
		return strings.Compare(a.Data.(string), b.Data.(string))
	}
	fail(ErrType, "'%s' cannot compare %s and %s", op, a.Tag, b.Tag)
	return 0
}

// asNumber reports v as a float64, parsing numeric strings.
func asNumber(v Value) (float64, bool) {
	switch v.Tag {
	case VTNum:
		return v.Data.(float64), true
	case VTStr:
		return parseNumber(v.Data.(string))
	default:
		return 0, false
	}
}

// contains implements membership: element of an array, key of a dictionary,
// substring of a string.
func contains(haystack, needle Value) bool {
	switch haystack.Tag {
	case VTArray:
		for _, e := range haystack.Data.(*ArrayObject).Elems {
			if equal(e, needle) {
				return true
			}
		}
		return false
	case VTDict:
		d := haystack.Data.(*DictObject)
		_, ok := d.Get(needle)
		return ok
	case VTStr:
		if needle.Tag != VTStr {
			fail(ErrType, "'in' on a string expects a string, got %s", needle.Tag)
		}
		return strings.Contains(haystack.Data.(string), needle.Data.(string))
	default:
		fail(ErrType, "'in' expects an array, dictionary, or string, got %s", haystack.Tag)
		return false
	}
}

// unaryOp evaluates prefix operators.
func (ip *Interpreter) unaryOp(op TokenType, v Value) Value {
	switch op {
	case MINUS:
		return Num(-numOperand("-", v))
	case NOT:
		return Bool(!truthy(v))
	default:
		fail(ErrType, "unsupported unary operator %v", op)
		return Null
	}
}

////////////////////////////////////////////////////////////////////////////////
//                          INDEXING AND MEMBERS
////////////////////////////////////////////////////////////////////////////////

// arrayIndex validates idx against an array of length n and returns the
// element offset. Fractional and out-of-range indexes are errors; indexes
// are zero-based.
func arrayIndex(idx Value, n int) int {
	if idx.Tag != VTNum {
		fail(ErrType, "array index must be a number, got %s", idx.Tag)
	}
	f := idx.Data.(float64)
	if !isIntegral(f) {
		fail(ErrType, "array index must be an integer, got %s", formatNumber(f))
	}
	i := int(f)
	if i < 0 || i >= n {
		fail(ErrIndex, "index %d out of bounds for length %d", i, n)
	}
	return i
}

// indexRead implements target[idx] for reads.
func (ip *Interpreter) indexRead(target, idx Value) Value {
	switch target.Tag {
	case VTArray:
		arr := target.Data.(*ArrayObject)
		return arr.Elems[arrayIndex(idx, len(arr.Elems))]
	case VTDict:
		d := target.Data.(*DictObject)
		v, ok := d.Get(idx)
		if !ok {
			if _, eligible := dictKey(idx); !eligible {
				fail(ErrType, "dictionary key must be a string, number, or boolean, got %s", idx.Tag)
			}
			fail(ErrKey, "key '%s' not found", idx.Display())
		}
		return v
	default:
		fail(ErrType, "cannot index into %s", target.Tag)
		return Null
	}
}

// indexWrite implements target[idx] for writes. Array writes are
// bounds-checked; dictionary writes create the key when absent.
func (ip *Interpreter) indexWrite(target, idx, v Value) {
	switch target.Tag {
	case VTArray:
		arr := target.Data.(*ArrayObject)
		arr.Elems[arrayIndex(idx, len(arr.Elems))] = v
	case VTDict:
		d := target.Data.(*DictObject)
		if !d.Set(idx, v) {
			fail(ErrType, "dictionary key must be a string, number, or boolean, got %s", idx.Tag)
		}
	default:
		fail(ErrType, "cannot assign into %s", target.Tag)
	}
}

// memberRead implements target.name for reads: instance fields (with the
// secrecy check) and string-keyed dictionary access. Method values are not
// first-class; a bare method name without a call is a missing field.
func (ip *Interpreter) memberRead(target Value, name string) Value {
	switch target.Tag {
	case VTInstance:
		inst := target.Data.(*InstanceObject)
		ip.checkSecret(inst.Class, name)
		if v, ok := inst.Fields[name]; ok {
			return v
		}
		fail(ErrKey, "%s has no field '%s'", inst.Class.Name, name)
	case VTDict:
		d := target.Data.(*DictObject)
		if v, ok := d.Get(Str(name)); ok {
			return v
		}
		fail(ErrKey, "key '%s' not found", name)
	default:
		fail(ErrType, "cannot access member '%s' on %s", name, target.Tag)
	}
	return Null
}

// memberWrite implements target.name for writes. Instance writes respect
// secrecy and may create new fields; dictionary writes use the name as a
// string key.
func (ip *Interpreter) memberWrite(target Value, name string, v Value) {
	switch target.Tag {
	case VTInstance:
		inst := target.Data.(*InstanceObject)
		ip.checkSecret(inst.Class, name)
		inst.Fields[name] = v
	case VTDict:
		target.Data.(*DictObject).Set(Str(name), v)
	default:
		fail(ErrType, "cannot assign member '%s' on %s", name, target.Tag)
	}
}

// checkSecret enforces field secrecy: a field declared secret anywhere on
// cls's chain is only accessible while a method of that declaring class is
// executing.
func (ip *Interpreter) checkSecret(cls *ClassObject, name string) {
	for c := cls; c != nil; c = c.Parent {
		if c.fieldSecret(name) {
			if owner := ip.currentOwner(); owner == nil || !owner.isSubclassOf(c) {
				fail(ErrExternal, "field '%s' of %s is secret", name, c.Name)
			}
			return
		}
	}
}

func (ip *Interpreter) currentOwner() *ClassObject {
	if len(ip.owners) == 0 {
		return nil
	}
	return ip.owners[len(ip.owners)-1]
}

////////////////////////////////////////////////////////////////////////////////
//                            ASSIGNMENT TARGETS
////////////////////////////////////////////////////////////////////////////////

// assign stores v into the location named by target. Plain variables follow
// the create-if-absent rule: update the nearest visible binding, otherwise
// define in the current scope. Index and member targets evaluate their base
// and delegate to the write paths above.
func (ip *Interpreter) assign(target Expr, v Value, env *Env) {
	switch t := target.(type) {
	case *Identifier:
		if err := env.Set(t.Name, v); err != nil {
			env.Define(t.Name, v)
		}
	case *Index:
		base := ip.evalExpr(t.Object, env)
		idx := ip.evalExpr(t.Key, env)
		ip.indexWrite(base, idx, v)
	case *Member:
		base := ip.evalExpr(t.Object, env)
		ip.memberWrite(base, t.Name, v)
	default:
		fail(ErrType, "invalid assignment target")
	}
}
