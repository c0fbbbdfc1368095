// builtin_dict.go — the dictionary builtin area.
//
// Dictionaries preserve insertion order, and every builtin that walks one
// (keys, values, items, merge, serialization) follows that order. Keys may
// be strings, numbers, or booleans; 1, "1" and true stay distinct.
//
// The JSON bridge (tojson / dicttojson / jsontodict / tofile) serializes by
// walking values directly, keeping dictionary insertion order; decoding goes
// through encoding/json. Non-string keys serialize under their display text,
// and numbers decode via json.Number so integral values come back without a
// fractional part.

package easybite

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

func registerDictBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		ip.RegisterMethod(VTDict, name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("add", 3, 3, func(ip *Interpreter, args []Value) Value {
		d := argDict("add", args, 0)
		if !d.Set(args[1], args[2]) {
			fail(ErrType, "dictionary key must be a string, number, or boolean, got %s", args[1].Tag)
		}
		return args[0]
	}, `add(dict, key, value) -> dict with the entry stored.
Overwrites an existing entry under the same key.`)

	reg("get", 2, 3, func(ip *Interpreter, args []Value) Value {
		d := argDict("get", args, 0)
		if v, ok := d.Get(args[1]); ok {
			return v
		}
		if len(args) == 3 {
			return args[2]
		}
		fail(ErrKey, "get(): key '%s' not found", args[1].Display())
		return Null
	}, `get(dict, key, default?) -> the value under key.
Returns default when the key is absent; without a default the lookup fails.`)

	reg("containskey", 2, 2, func(ip *Interpreter, args []Value) Value {
		_, ok := argDict("containskey", args, 0).Get(args[1])
		return Bool(ok)
	}, `containskey(dict, key) -> boolean`)

	reg("containsvalue", 2, 2, func(ip *Interpreter, args []Value) Value {
		d := argDict("containsvalue", args, 0)
		for _, k := range d.Keys {
			if v, ok := d.Get(k); ok && equal(v, args[1]) {
				return Bool(true)
			}
		}
		return Bool(false)
	}, `containsvalue(dict, value) -> boolean`)

	reg("size", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Num(float64(argDict("size", args, 0).Len()))
	}, `size(dict) -> number of entries.`)

	reg("keys", 1, 1, func(ip *Interpreter, args []Value) Value {
		d := argDict("keys", args, 0)
		return Arr(append([]Value(nil), d.Keys...))
	}, `keys(dict) -> array of keys in insertion order.`)

	reg("values", 1, 1, func(ip *Interpreter, args []Value) Value {
		d := argDict("values", args, 0)
		out := make([]Value, 0, len(d.Keys))
		for _, k := range d.Keys {
			v, _ := d.Get(k)
			out = append(out, v)
		}
		return Arr(out)
	}, `values(dict) -> array of values in insertion order.`)

	reg("items", 1, 1, func(ip *Interpreter, args []Value) Value {
		d := argDict("items", args, 0)
		out := make([]Value, 0, len(d.Keys))
		for _, k := range d.Keys {
			v, _ := d.Get(k)
			out = append(out, Arr([]Value{k, v}))
		}
		return Arr(out)
	}, `items(dict) -> array of [key, value] pairs in insertion order.`)

	reg("isempty", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Bool(argDict("isempty", args, 0).Len() == 0)
	}, `isempty(dict) -> boolean`)

	reg("update", 3, 3, func(ip *Interpreter, args []Value) Value {
		d := argDict("update", args, 0)
		if _, ok := d.Get(args[1]); !ok {
			fail(ErrKey, "update(): key '%s' not found", args[1].Display())
		}
		d.Set(args[1], args[2])
		return args[0]
	}, `update(dict, key, value) -> dict with the existing entry replaced.
Fails when the key is absent; use add to create entries.`)

	reg("merge", 2, 2, func(ip *Interpreter, args []Value) Value {
		d := argDict("merge", args, 0)
		other := argDict("merge", args, 1)
		for _, k := range append([]Value(nil), other.Keys...) {
			v, _ := other.Get(k)
			d.Set(k, v)
		}
		return args[0]
	}, `merge(dict, other) -> dict with other's entries copied in.
Entries from other win on key conflicts.`)

	reg("setdefault", 2, 3, func(ip *Interpreter, args []Value) Value {
		d := argDict("setdefault", args, 0)
		if v, ok := d.Get(args[1]); ok {
			return v
		}
		def := Null
		if len(args) == 3 {
			def = args[2]
		}
		if !d.Set(args[1], def) {
			fail(ErrType, "dictionary key must be a string, number, or boolean, got %s", args[1].Tag)
		}
		return def
	}, `setdefault(dict, key, default?) -> the value under key.
Stores default (or null) under the key first when it is absent.`)

	reg("popitem", 1, 1, func(ip *Interpreter, args []Value) Value {
		d := argDict("popitem", args, 0)
		if len(d.Keys) == 0 {
			fail(ErrKey, "popitem(): dictionary is empty")
		}
		k := d.Keys[len(d.Keys)-1]
		v, _ := d.Get(k)
		d.Delete(k)
		return Arr([]Value{k, v})
	}, `popitem(dict) -> removes and returns the last inserted [key, value] pair.`)

	reg("tojson", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(encodeJSON("tojson", args[0]))
	}, `tojson(value) -> JSON text for a dictionary, array, or scalar.`)

	reg("tofile", 2, 2, func(ip *Interpreter, args []Value) Value {
		d := argDict("tofile", args, 0)
		path := argStr("tofile", args, 1)
		text := encodeJSON("tofile", DictVal(d))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			fail(ErrExternal, "tofile(): %s", err)
		}
		return Bool(true)
	}, `tofile(dict, path) -> writes the dictionary to path as JSON.`)

	// dicttojson / jsontodict are plain natives; values carry no handle to
	// hang a method on the parsing side.
	ip.RegisterNative("dicttojson", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(encodeJSON("dicttojson", args[0]))
	})
	setBuiltinDoc(ip, "dicttojson", `dicttojson(value) -> JSON text. Alias of tojson.`)

	ip.RegisterNative("jsontodict", 1, 1, func(ip *Interpreter, args []Value) Value {
		return decodeJSON("jsontodict", argStr("jsontodict", args, 0))
	})
	setBuiltinDoc(ip, "jsontodict",
		`jsontodict(text) -> the value encoded by the JSON text.
Objects become dictionaries, arrays become arrays.`)

	// Shared-name methods; the natives dispatch from the array area. Each
	// carries the arity of the dictionary form.
	ip.RegisterMethod(VTDict, "remove", 2, 2, dictRemoveFn)
	ip.RegisterMethod(VTDict, "clear", 1, 1, dictClearFn)
	ip.RegisterMethod(VTDict, "copy", 1, 1, dictCopyFn)
	ip.RegisterMethod(VTDict, "pop", 2, 3, dictPopFn)
	ip.RegisterMethod(VTDict, "length", 1, 1, lengthFn)
}

func dictRemoveFn(ip *Interpreter, args []Value) Value {
	return Bool(argDict("remove", args, 0).Delete(args[1]))
}

func dictClearFn(ip *Interpreter, args []Value) Value {
	d := argDict("clear", args, 0)
	d.Entries = map[string]Value{}
	d.Keys = nil
	return args[0]
}

func dictCopyFn(ip *Interpreter, args []Value) Value {
	d := argDict("copy", args, 0)
	out := NewDict()
	for _, k := range d.Keys {
		v, _ := d.Get(k)
		out.Set(k, v)
	}
	return DictVal(out)
}

func dictPopFn(ip *Interpreter, args []Value) Value {
	d := argDict("pop", args, 0)
	if v, ok := d.Get(args[1]); ok {
		d.Delete(args[1])
		return v
	}
	if len(args) == 3 {
		return args[2]
	}
	fail(ErrKey, "pop(): key '%s' not found", args[1].Display())
	return Null
}

// encodeJSON serializes v as JSON text. Dictionaries keep insertion order,
// so the object is assembled by hand rather than through a Go map.
func encodeJSON(name string, v Value) string {
	var b strings.Builder
	writeJSON(name, &b, v)
	return b.String()
}

func writeJSON(name string, b *strings.Builder, v Value) {
	switch v.Tag {
	case VTNull:
		b.WriteString("null")
	case VTBool, VTNum:
		b.WriteString(v.Display())
	case VTStr:
		writeJSONString(b, v.Data.(string))
	case VTArray:
		b.WriteByte('[')
		for i, e := range v.Data.(*ArrayObject).Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(name, b, e)
		}
		b.WriteByte(']')
	case VTDict:
		d := v.Data.(*DictObject)
		b.WriteByte('{')
		for i, k := range d.Keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, k.Display())
			b.WriteByte(':')
			e, _ := d.Get(k)
			writeJSON(name, b, e)
		}
		b.WriteByte('}')
	default:
		fail(ErrType, "%s(): cannot serialize %s", name, v.Tag)
	}
}

func writeJSONString(b *strings.Builder, s string) {
	enc, err := json.Marshal(s)
	if err != nil {
		b.WriteString(fmt.Sprintf("%q", s))
		return
	}
	b.Write(enc)
}

// decodeJSON parses JSON text into runtime values. Numbers decode through
// json.Number so 7 survives as 7, not 7.000000000000001.
func decodeJSON(name, text string) Value {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		fail(ErrExternal, "%s(): invalid JSON: %s", name, err)
	}
	var trailing any
	if err := dec.Decode(&trailing); err == nil {
		fail(ErrExternal, "%s(): trailing data after JSON value", name)
	}
	return jsonToValue(name, raw)
}

func jsonToValue(name string, raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null
	case bool:
		return Bool(x)
	case string:
		return Str(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			fail(ErrExternal, "%s(): number %s out of range", name, x)
		}
		return Num(f)
	case []any:
		out := make([]Value, 0, len(x))
		for _, e := range x {
			out = append(out, jsonToValue(name, e))
		}
		return Arr(out)
	case map[string]any:
		// encoding/json loses object member order; re-decode the member
		// names with a token scan would be overkill here, so object keys
		// come back sorted for determinism.
		d := NewDict()
		for _, k := range sortedKeys(x) {
			d.Set(Str(k), jsonToValue(name, x[k]))
		}
		return DictVal(d)
	default:
		fail(ErrExternal, "%s(): unsupported JSON value %T", name, raw)
		return Null
	}
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
