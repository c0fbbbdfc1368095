// builtin_conv.go — type conversion and inspection builtins.
//
// The conversion surface follows the permissive model of the language:
// numbers convert through truncation, numeric strings parse, booleans map to
// 0/1, and everything renders to its display string. The is* predicates are
// pure tag (or content) checks and never raise.

package easybite

import (
	"math"
	"unicode"
)

func registerConvBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("toint", 1, 1, func(ip *Interpreter, args []Value) Value {
		switch v := args[0]; v.Tag {
		case VTNum:
			return Num(math.Trunc(v.Data.(float64)))
		case VTStr:
			f, ok := parseNumber(v.Data.(string))
			if !ok {
				fail(ErrType, "toint(): cannot convert '%s' to a number", v.Data.(string))
			}
			return Num(math.Trunc(f))
		case VTBool:
			if v.Data.(bool) {
				return Num(1)
			}
			return Num(0)
		default:
			fail(ErrType, "toint(): cannot convert %s to a number", v.Tag)
			return Null
		}
	}, `toint(value) -> number
Converts to a whole number: numbers truncate toward zero, numeric strings
parse then truncate, true/false become 1/0. Anything else raises.`)

	reg("todouble", 1, 1, func(ip *Interpreter, args []Value) Value {
		switch v := args[0]; v.Tag {
		case VTNum:
			return v
		case VTStr:
			f, ok := parseNumber(v.Data.(string))
			if !ok {
				fail(ErrType, "todouble(): cannot convert '%s' to a number", v.Data.(string))
			}
			return Num(f)
		case VTBool:
			if v.Data.(bool) {
				return Num(1)
			}
			return Num(0)
		default:
			fail(ErrType, "todouble(): cannot convert %s to a number", v.Tag)
			return Null
		}
	}, `todouble(value) -> number
Converts to a number without truncation: numeric strings parse, true/false
become 1/0.`)

	reg("tostring", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(args[0].Display())
	}, `tostring(value) -> string
The display form of any value: numbers without a trailing ".0", booleans as
"true"/"false", null as "null", containers rendered recursively.`)

	reg("isint", 1, 1, func(ip *Interpreter, args []Value) Value {
		v := args[0]
		return Bool(v.Tag == VTNum && isIntegral(v.Data.(float64)))
	}, `isint(value) -> boolean: true for a number with no fractional part.`)

	reg("isdouble", 1, 1, func(ip *Interpreter, args []Value) Value {
		v := args[0]
		return Bool(v.Tag == VTNum && !isIntegral(v.Data.(float64)))
	}, `isdouble(value) -> boolean: true for a number with a fractional part.`)

	reg("isstring", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Bool(args[0].Tag == VTStr)
	}, `isstring(value) -> boolean`)

	reg("islist", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Bool(args[0].Tag == VTArray)
	}, `islist(value) -> boolean`)

	reg("isdict", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Bool(args[0].Tag == VTDict)
	}, `isdict(value) -> boolean`)

	reg("isalnum", 1, 1, func(ip *Interpreter, args []Value) Value {
		s := argStr("isalnum", args, 0)
		if s == "" {
			return Bool(false)
		}
		for _, r := range s {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return Bool(false)
			}
		}
		return Bool(true)
	}, `isalnum(s) -> boolean: true when s is non-empty letters and digits only.`)

	reg("isdigit", 1, 1, func(ip *Interpreter, args []Value) Value {
		s := argStr("isdigit", args, 0)
		if s == "" {
			return Bool(false)
		}
		for _, r := range s {
			if !unicode.IsDigit(r) {
				return Bool(false)
			}
		}
		return Bool(true)
	}, `isdigit(s) -> boolean: true when s is non-empty digits only.`)

	reg("typeof", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(args[0].Tag.String())
	}, `typeof(value) -> string
One of "null", "boolean", "number", "string", "array", "dictionary",
"function", "builtin", "class", "instance", "handle".`)
}
