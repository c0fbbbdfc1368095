// builtin_strings.go — the string builtin area.
//
// Every function here is also installed as a method on string values, so
// count("hi") and "hi".count() are the same native with the receiver
// prepended. Indices are rune-based throughout; byte offsets never leak into
// the language.

package easybite

import (
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"
)

func registerStringBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		ip.RegisterMethod(VTStr, name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("count", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Num(float64(utf8.RuneCountInString(argStr("count", args, 0))))
	}, `count(s) -> number of characters in s (runes, not bytes).`)

	reg("contains", 2, 2, func(ip *Interpreter, args []Value) Value {
		return Bool(strings.Contains(argStr("contains", args, 0), argStr("contains", args, 1)))
	}, `contains(s, sub) -> boolean`)

	reg("replace", 3, 3, func(ip *Interpreter, args []Value) Value {
		return Str(strings.ReplaceAll(
			argStr("replace", args, 0),
			argStr("replace", args, 1),
			argStr("replace", args, 2)))
	}, `replace(s, old, new) -> s with every occurrence of old replaced.`)

	reg("substring", 2, 3, func(ip *Interpreter, args []Value) Value {
		r := []rune(argStr("substring", args, 0))
		i := argInt("substring", args, 1)
		j := len(r)
		if len(args) == 3 {
			j = argInt("substring", args, 2)
		}
		// clamp to bounds; the half-open slice [i, j)
		if i < 0 {
			i = 0
		}
		if j < i {
			j = i
		}
		if i > len(r) {
			i = len(r)
		}
		if j > len(r) {
			j = len(r)
		}
		return Str(string(r[i:j]))
	}, `substring(s, start, end?) -> string
The half-open character slice [start, end); end defaults to the end of s.
Indices are clamped to bounds.`)

	reg("uppercase", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(strings.ToUpper(argStr("uppercase", args, 0)))
	}, `uppercase(s) -> string`)

	reg("lowercase", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(strings.ToLower(argStr("lowercase", args, 0)))
	}, `lowercase(s) -> string`)

	reg("capitalize", 1, 1, func(ip *Interpreter, args []Value) Value {
		s := argStr("capitalize", args, 0)
		if s == "" {
			return Str("")
		}
		r := []rune(s)
		r[0] = unicode.ToUpper(r[0])
		return Str(string(r))
	}, `capitalize(s) -> s with its first character uppercased.`)

	reg("strreverse", 1, 1, func(ip *Interpreter, args []Value) Value {
		r := []rune(argStr("strreverse", args, 0))
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return Str(string(r))
	}, `strreverse(s) -> s with its characters in reverse order.`)

	// join has two forms sharing one name: the single-argument form waits on
	// a spawned thread (builtin_thread.go), the two-argument form is the
	// string join.
	reg("join", 1, 2, func(ip *Interpreter, args []Value) Value {
		if len(args) == 1 {
			return joinThread(args[0])
		}
		arr := argArr("join", args, 0)
		sep := argStr("join", args, 1)
		parts := make([]string, len(arr.Elems))
		for i, e := range arr.Elems {
			parts[i] = e.Display()
		}
		return Str(strings.Join(parts, sep))
	}, `join(array, sep) -> string
Concatenates the display forms of the elements with sep between them.

join(thread) -> the thread's return value
Blocks until the spawned function finishes. An error raised inside the
thread is re-raised here with its original kind. Joining again returns the
same result.`)

	reg("tolist", 1, 1, func(ip *Interpreter, args []Value) Value {
		s := argStr("tolist", args, 0)
		out := make([]Value, 0, utf8.RuneCountInString(s))
		for _, r := range s {
			out = append(out, Str(string(r)))
		}
		return Arr(out)
	}, `tolist(s) -> array of one-character strings.`)

	reg("compare", 2, 2, func(ip *Interpreter, args []Value) Value {
		return Num(float64(strings.Compare(argStr("compare", args, 0), argStr("compare", args, 1))))
	}, `compare(a, b) -> -1, 0, or 1 by lexicographic order.`)

	reg("trim", 1, 2, func(ip *Interpreter, args []Value) Value {
		s := argStr("trim", args, 0)
		if len(args) == 2 {
			return Str(strings.Trim(s, argStr("trim", args, 1)))
		}
		return Str(strings.TrimSpace(s))
	}, `trim(s, cutset?) -> string
Strips whitespace from both ends, or the characters of cutset when given.`)

	reg("startswith", 2, 2, func(ip *Interpreter, args []Value) Value {
		return Bool(strings.HasPrefix(argStr("startswith", args, 0), argStr("startswith", args, 1)))
	}, `startswith(s, prefix) -> boolean`)

	reg("endswith", 2, 2, func(ip *Interpreter, args []Value) Value {
		return Bool(strings.HasSuffix(argStr("endswith", args, 0), argStr("endswith", args, 1)))
	}, `endswith(s, suffix) -> boolean`)

	reg("strremove", 2, 2, func(ip *Interpreter, args []Value) Value {
		return Str(strings.ReplaceAll(argStr("strremove", args, 0), argStr("strremove", args, 1), ""))
	}, `strremove(s, sub) -> s with every occurrence of sub removed.`)

	reg("split", 2, 2, func(ip *Interpreter, args []Value) Value {
		parts := strings.Split(argStr("split", args, 0), argStr("split", args, 1))
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = Str(p)
		}
		return Arr(out)
	}, `split(s, sep) -> array of the pieces of s between occurrences of sep.`)

	reg("find", 2, 2, func(ip *Interpreter, args []Value) Value {
		s := argStr("find", args, 0)
		sub := argStr("find", args, 1)
		byteIdx := strings.Index(s, sub)
		if byteIdx < 0 {
			return Num(-1)
		}
		return Num(float64(utf8.RuneCountInString(s[:byteIdx])))
	}, `find(s, sub) -> character index of the first occurrence of sub, or -1.`)

	reg("frombytes", 1, 1, func(ip *Interpreter, args []Value) Value {
		arr := argArr("frombytes", args, 0)
		b := make([]byte, len(arr.Elems))
		for i, e := range arr.Elems {
			if e.Tag != VTNum {
				fail(ErrType, "frombytes() expects an array of numbers, got %s", e.Tag)
			}
			f := e.Data.(float64)
			if !isIntegral(f) || f < 0 || f > 255 {
				fail(ErrType, "frombytes(): byte value out of range: %s", formatNumber(f))
			}
			b[i] = byte(f)
		}
		return Str(string(b))
	}, `frombytes(array) -> string assembled from byte values 0..255.`)

	reg("format", 1, -1, func(ip *Interpreter, args []Value) Value {
		tmpl := argStr("format", args, 0)
		out := tmpl
		for i, v := range args[1:] {
			out = strings.ReplaceAll(out, "{"+formatNumber(float64(i))+"}", v.Display())
		}
		return Str(out)
	}, `format(template, args...) -> string
Replaces "{0}", "{1}", ... in template with the display form of each
argument. Placeholders without a matching argument are left as-is.`)

	reg("encode", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(base64.StdEncoding.EncodeToString([]byte(argStr("encode", args, 0))))
	}, `encode(s) -> base64 encoding of s.`)

	reg("decode", 1, 1, func(ip *Interpreter, args []Value) Value {
		b, err := base64.StdEncoding.DecodeString(argStr("decode", args, 0))
		if err != nil {
			fail(ErrExternal, "decode(): invalid base64 input")
		}
		return Str(string(b))
	}, `decode(s) -> the string whose base64 encoding is s.`)
}
