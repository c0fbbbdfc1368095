// builtin_array.go — the array builtin area.
//
// Arrays are reference values, so the mutating builtins (append, clear,
// remove, reverse, insert, sort, pop, shift, unshift, splice) change the
// array in place and every binding sharing it observes the change.
//
// A few names are shared across areas: append also writes to files, and
// copy/clear/remove/pop also operate on dictionaries. The natives registered
// here dispatch on the first argument's tag and delegate to the owning
// area's implementation; the per-tag method table needs no such dispatch.

package easybite

import "sort"

func registerArrayBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		ip.RegisterMethod(VTArray, name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("length", 1, 1, lengthFn, `length(value) -> number
Element count of an array, character count of a string, entry count of a
dictionary.`)

	reg("reverse", 1, 1, arrayReverseFn, `reverse(arr) -> arr with its elements reversed in place.`)
	reg("insert", 3, 3, arrayInsertFn, `insert(arr, index, value) -> arr
Inserts value at index, shifting later elements right. Index may equal the
length (append position).`)
	reg("sort", 1, 2, arraySortFn, `sort(arr, descending?) -> arr sorted in place.
Elements must be all numbers or all strings.`)
	reg("indexof", 2, 2, arrayIndexOfFn, `indexof(arr, value) -> index of the first equal element, or -1.`)
	reg("shift", 1, 1, arrayShiftFn, `shift(arr) -> removes and returns the first element.`)
	reg("unshift", 2, -1, arrayUnshiftFn, `unshift(arr, values...) -> arr with the values prepended.`)
	reg("slice", 2, 3, arraySliceFn, `slice(arr, start, end?) -> new array
The half-open slice [start, end); indices are clamped to bounds.`)
	reg("splice", 3, -1, arraySpliceFn, `splice(arr, start, deletecount, items...) -> array
Removes deletecount elements at start (returned as a new array) and inserts
the items in their place.`)
	reg("concat", 1, -1, arrayConcatFn, `concat(arrays...) -> a new array holding all elements in order.`)
	reg("includes", 2, 2, arrayIncludesFn, `includes(arr, value) -> boolean`)

	// Shared names: dispatch on the first argument's tag.
	ip.RegisterNative("append", 2, -1, func(ip *Interpreter, args []Value) Value {
		switch args[0].Tag {
		case VTArray:
			return arrayAppendFn(ip, args)
		case VTStr:
			return fileAppendFn(ip, args)
		default:
			fail(ErrType, "append() expects an array or a file path, got %s", args[0].Tag)
			return Null
		}
	})
	setBuiltinDoc(ip, "append",
		`append(arr, values...) -> arr with the values added at the end.
append(path, content) -> appends content to the file at path.`)

	ip.RegisterNative("copy", 1, 2, func(ip *Interpreter, args []Value) Value {
		switch args[0].Tag {
		case VTArray:
			return arrayCopyFn(ip, args)
		case VTDict:
			return dictCopyFn(ip, args)
		case VTStr:
			return fileCopyFn(ip, args)
		default:
			fail(ErrType, "copy() expects an array, dictionary, or file path, got %s", args[0].Tag)
			return Null
		}
	})
	setBuiltinDoc(ip, "copy",
		`copy(arr) / copy(dict) -> a shallow copy.
copy(src, dst) -> copies the file at src to dst.`)

	ip.RegisterNative("clear", 1, 1, func(ip *Interpreter, args []Value) Value {
		switch args[0].Tag {
		case VTArray:
			return arrayClearFn(ip, args)
		case VTDict:
			return dictClearFn(ip, args)
		default:
			fail(ErrType, "clear() expects an array or dictionary, got %s", args[0].Tag)
			return Null
		}
	})
	setBuiltinDoc(ip, "clear", `clear(arr | dict) -> empties the container in place.`)

	ip.RegisterNative("remove", 2, 2, func(ip *Interpreter, args []Value) Value {
		switch args[0].Tag {
		case VTArray:
			return arrayRemoveFn(ip, args)
		case VTDict:
			return dictRemoveFn(ip, args)
		default:
			fail(ErrType, "remove() expects an array or dictionary, got %s", args[0].Tag)
			return Null
		}
	})
	setBuiltinDoc(ip, "remove",
		`remove(arr, value) -> true when the first equal element was removed.
remove(dict, key) -> true when the key existed and was removed.`)

	ip.RegisterNative("pop", 1, 3, func(ip *Interpreter, args []Value) Value {
		switch args[0].Tag {
		case VTArray:
			return arrayPopFn(ip, args)
		case VTDict:
			// the dictionary form takes a key, so apply its own bounds
			// rather than the shared span
			b, _ := ip.methodFor(VTDict, "pop")
			return ip.callBuiltin(b, args)
		default:
			fail(ErrType, "pop() expects an array or dictionary, got %s", args[0].Tag)
			return Null
		}
	})
	setBuiltinDoc(ip, "pop",
		`pop(arr, index?) -> removes and returns the element at index (default last).
pop(dict, key, default?) -> removes and returns the value under key.`)

	// Method registrations for the shared names, bound to the array impls
	// with the arity of the array form rather than the shared span.
	ip.RegisterMethod(VTArray, "append", 2, -1, arrayAppendFn)
	ip.RegisterMethod(VTArray, "copy", 1, 1, arrayCopyFn)
	ip.RegisterMethod(VTArray, "clear", 1, 1, arrayClearFn)
	ip.RegisterMethod(VTArray, "remove", 2, 2, arrayRemoveFn)
	ip.RegisterMethod(VTArray, "pop", 1, 2, arrayPopFn)
	ip.RegisterMethod(VTStr, "length", 1, 1, lengthFn)
}

func lengthFn(ip *Interpreter, args []Value) Value {
	switch v := args[0]; v.Tag {
	case VTArray:
		return Num(float64(len(v.Data.(*ArrayObject).Elems)))
	case VTStr:
		return Num(float64(len([]rune(v.Data.(string)))))
	case VTDict:
		return Num(float64(v.Data.(*DictObject).Len()))
	default:
		fail(ErrType, "length() expects an array, string, or dictionary, got %s", v.Tag)
		return Null
	}
}

func arrayAppendFn(ip *Interpreter, args []Value) Value {
	arr := argArr("append", args, 0)
	arr.Elems = append(arr.Elems, args[1:]...)
	return args[0]
}

func arrayCopyFn(ip *Interpreter, args []Value) Value {
	arr := argArr("copy", args, 0)
	return Arr(append([]Value(nil), arr.Elems...))
}

func arrayClearFn(ip *Interpreter, args []Value) Value {
	argArr("clear", args, 0).Elems = nil
	return args[0]
}

func arrayRemoveFn(ip *Interpreter, args []Value) Value {
	arr := argArr("remove", args, 0)
	for i, e := range arr.Elems {
		if equal(e, args[1]) {
			arr.Elems = append(arr.Elems[:i], arr.Elems[i+1:]...)
			return Bool(true)
		}
	}
	return Bool(false)
}

func arrayReverseFn(ip *Interpreter, args []Value) Value {
	arr := argArr("reverse", args, 0)
	for i, j := 0, len(arr.Elems)-1; i < j; i, j = i+1, j-1 {
		arr.Elems[i], arr.Elems[j] = arr.Elems[j], arr.Elems[i]
	}
	return args[0]
}

func arrayInsertFn(ip *Interpreter, args []Value) Value {
	arr := argArr("insert", args, 0)
	i := argInt("insert", args, 1)
	if i < 0 || i > len(arr.Elems) {
		fail(ErrIndex, "index %d out of bounds for length %d", i, len(arr.Elems))
	}
	arr.Elems = append(arr.Elems, Null)
	copy(arr.Elems[i+1:], arr.Elems[i:])
	arr.Elems[i] = args[2]
	return args[0]
}

func arraySortFn(ip *Interpreter, args []Value) Value {
	arr := argArr("sort", args, 0)
	desc := false
	if len(args) == 2 {
		desc = argBool("sort", args, 1)
	}
	if len(arr.Elems) == 0 {
		return args[0]
	}
	tag := arr.Elems[0].Tag
	if tag != VTNum && tag != VTStr {
		fail(ErrType, "sort() orders numbers or strings, got %s", tag)
	}
	for _, e := range arr.Elems {
		if e.Tag != tag {
			fail(ErrType, "sort() cannot order mixed element types (%s and %s)", tag, e.Tag)
		}
	}
	less := func(i, j int) bool {
		if tag == VTNum {
			return arr.Elems[i].Data.(float64) < arr.Elems[j].Data.(float64)
		}
		return arr.Elems[i].Data.(string) < arr.Elems[j].Data.(string)
	}
	if desc {
		sort.SliceStable(arr.Elems, func(i, j int) bool { return less(j, i) })
	} else {
		sort.SliceStable(arr.Elems, less)
	}
	return args[0]
}

func arrayIndexOfFn(ip *Interpreter, args []Value) Value {
	arr := argArr("indexof", args, 0)
	for i, e := range arr.Elems {
		if equal(e, args[1]) {
			return Num(float64(i))
		}
	}
	return Num(-1)
}

func arrayPopFn(ip *Interpreter, args []Value) Value {
	arr := argArr("pop", args, 0)
	n := len(arr.Elems)
	if n == 0 {
		fail(ErrIndex, "pop() on an empty array")
	}
	i := n - 1
	if len(args) >= 2 {
		i = argInt("pop", args, 1)
		if i < 0 || i >= n {
			fail(ErrIndex, "index %d out of bounds for length %d", i, n)
		}
	}
	out := arr.Elems[i]
	arr.Elems = append(arr.Elems[:i], arr.Elems[i+1:]...)
	return out
}

func arrayShiftFn(ip *Interpreter, args []Value) Value {
	arr := argArr("shift", args, 0)
	if len(arr.Elems) == 0 {
		fail(ErrIndex, "shift() on an empty array")
	}
	out := arr.Elems[0]
	arr.Elems = arr.Elems[1:]
	return out
}

func arrayUnshiftFn(ip *Interpreter, args []Value) Value {
	arr := argArr("unshift", args, 0)
	arr.Elems = append(append([]Value(nil), args[1:]...), arr.Elems...)
	return args[0]
}

func arraySliceFn(ip *Interpreter, args []Value) Value {
	arr := argArr("slice", args, 0)
	n := len(arr.Elems)
	i := argInt("slice", args, 1)
	j := n
	if len(args) == 3 {
		j = argInt("slice", args, 2)
	}
	if i < 0 {
		i = 0
	}
	if j < i {
		j = i
	}
	if i > n {
		i = n
	}
	if j > n {
		j = n
	}
	return Arr(append([]Value(nil), arr.Elems[i:j]...))
}

func arraySpliceFn(ip *Interpreter, args []Value) Value {
	arr := argArr("splice", args, 0)
	n := len(arr.Elems)
	start := argInt("splice", args, 1)
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	dc := argInt("splice", args, 2)
	if dc < 0 {
		dc = 0
	}
	if start+dc > n {
		dc = n - start
	}
	removed := append([]Value(nil), arr.Elems[start:start+dc]...)
	rest := append([]Value(nil), arr.Elems[start+dc:]...)
	arr.Elems = append(arr.Elems[:start], append(append([]Value(nil), args[3:]...), rest...)...)
	return Arr(removed)
}

func arrayConcatFn(ip *Interpreter, args []Value) Value {
	var out []Value
	for i := range args {
		out = append(out, argArr("concat", args, i).Elems...)
	}
	return Arr(out)
}

func arrayIncludesFn(ip *Interpreter, args []Value) Value {
	arr := argArr("includes", args, 0)
	for _, e := range arr.Elems {
		if equal(e, args[1]) {
			return Bool(true)
		}
	}
	return Bool(false)
}
