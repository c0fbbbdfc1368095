// builtin_math.go — the math builtin area.
//
// Aggregates (max, min, sum, average, mean, mode) accept either a single
// array argument or the numbers spread as arguments, matching how scripts in
// the wild call them.

package easybite

import (
	"math"
	"math/rand"
)

func registerMathBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("abs", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Num(math.Abs(argNum("abs", args, 0)))
	}, `abs(x) -> number`)

	reg("pow", 2, 2, func(ip *Interpreter, args []Value) Value {
		return Num(math.Pow(argNum("pow", args, 0), argNum("pow", args, 1)))
	}, `pow(x, y) -> x raised to the power y.`)

	reg("sqrt", 1, 1, func(ip *Interpreter, args []Value) Value {
		x := argNum("sqrt", args, 0)
		if x < 0 {
			fail(ErrType, "sqrt(): negative argument %s", formatNumber(x))
		}
		return Num(math.Sqrt(x))
	}, `sqrt(x) -> number; raises on negative x.`)

	reg("sin", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Num(math.Sin(argNum("sin", args, 0)))
	}, `sin(x) -> number, x in radians.`)

	reg("cos", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Num(math.Cos(argNum("cos", args, 0)))
	}, `cos(x) -> number, x in radians.`)

	reg("tan", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Num(math.Tan(argNum("tan", args, 0)))
	}, `tan(x) -> number, x in radians.`)

	reg("round", 1, 2, func(ip *Interpreter, args []Value) Value {
		x := argNum("round", args, 0)
		if len(args) == 2 {
			digits := argInt("round", args, 1)
			scale := math.Pow(10, float64(digits))
			return Num(math.Round(x*scale) / scale)
		}
		return Num(math.Round(x))
	}, `round(x, digits?) -> number
Rounds half away from zero; digits selects decimal places (default 0).`)

	reg("ceiling", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Num(math.Ceil(argNum("ceiling", args, 0)))
	}, `ceiling(x) -> smallest whole number >= x.`)

	reg("floor", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Num(math.Floor(argNum("floor", args, 0)))
	}, `floor(x) -> largest whole number <= x.`)

	reg("exp", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Num(math.Exp(argNum("exp", args, 0)))
	}, `exp(x) -> e raised to x.`)

	reg("log", 1, 2, func(ip *Interpreter, args []Value) Value {
		x := argNum("log", args, 0)
		if x <= 0 {
			fail(ErrType, "log(): argument must be positive, got %s", formatNumber(x))
		}
		if len(args) == 2 {
			base := argNum("log", args, 1)
			if base <= 0 || base == 1 {
				fail(ErrType, "log(): invalid base %s", formatNumber(base))
			}
			return Num(math.Log(x) / math.Log(base))
		}
		return Num(math.Log(x))
	}, `log(x, base?) -> logarithm of x, natural by default.`)

	reg("log2", 1, 1, func(ip *Interpreter, args []Value) Value {
		x := argNum("log2", args, 0)
		if x <= 0 {
			fail(ErrType, "log2(): argument must be positive, got %s", formatNumber(x))
		}
		return Num(math.Log2(x))
	}, `log2(x) -> base-2 logarithm.`)

	reg("log10", 1, 1, func(ip *Interpreter, args []Value) Value {
		x := argNum("log10", args, 0)
		if x <= 0 {
			fail(ErrType, "log10(): argument must be positive, got %s", formatNumber(x))
		}
		return Num(math.Log10(x))
	}, `log10(x) -> base-10 logarithm.`)

	reg("sign", 1, 1, func(ip *Interpreter, args []Value) Value {
		x := argNum("sign", args, 0)
		switch {
		case x > 0:
			return Num(1)
		case x < 0:
			return Num(-1)
		default:
			return Num(0)
		}
	}, `sign(x) -> -1, 0, or 1.`)

	reg("random", 0, 2, func(ip *Interpreter, args []Value) Value {
		switch len(args) {
		case 0:
			return Num(rand.Float64())
		case 2:
			lo := argInt("random", args, 0)
			hi := argInt("random", args, 1)
			if hi < lo {
				fail(ErrType, "random(): empty range %d..%d", lo, hi)
			}
			return Num(float64(lo + rand.Intn(hi-lo+1)))
		default:
			fail(ErrArity, "random() takes 0 or 2 arguments, got %d", len(args))
			return Null
		}
	}, `random() -> number in [0, 1); random(lo, hi) -> whole number in [lo, hi].`)

	reg("max", 1, -1, func(ip *Interpreter, args []Value) Value {
		ns := numbersArg("max", args)
		out := ns[0]
		for _, n := range ns[1:] {
			if n > out {
				out = n
			}
		}
		return Num(out)
	}, `max(array | x, y, ...) -> the largest number.`)

	reg("min", 1, -1, func(ip *Interpreter, args []Value) Value {
		ns := numbersArg("min", args)
		out := ns[0]
		for _, n := range ns[1:] {
			if n < out {
				out = n
			}
		}
		return Num(out)
	}, `min(array | x, y, ...) -> the smallest number.`)

	reg("sum", 1, -1, func(ip *Interpreter, args []Value) Value {
		total := 0.0
		for _, n := range numbersArg("sum", args) {
			total += n
		}
		return Num(total)
	}, `sum(array | x, y, ...) -> the total.`)

	avg := func(ip *Interpreter, args []Value) Value {
		ns := numbersArg("average", args)
		total := 0.0
		for _, n := range ns {
			total += n
		}
		return Num(total / float64(len(ns)))
	}
	reg("average", 1, -1, avg, `average(array | x, y, ...) -> arithmetic mean.`)
	reg("mean", 1, -1, avg, `mean(array | x, y, ...) -> arithmetic mean.`)

	reg("mode", 1, -1, func(ip *Interpreter, args []Value) Value {
		ns := numbersArg("mode", args)
		counts := make(map[float64]int, len(ns))
		for _, n := range ns {
			counts[n]++
		}
		best, bestCount := ns[0], 0
		// first-seen wins ties
		for _, n := range ns {
			if c := counts[n]; c > bestCount {
				best, bestCount = n, c
			}
		}
		return Num(best)
	}, `mode(array | x, y, ...) -> the most frequent value; first seen wins ties.`)
}

// numbersArg flattens an aggregate call's arguments into numbers: a single
// array argument contributes its elements, otherwise each argument must be a
// number. Empty input raises.
func numbersArg(name string, args []Value) []float64 {
	var vals []Value
	if len(args) == 1 && args[0].Tag == VTArray {
		vals = args[0].Data.(*ArrayObject).Elems
	} else {
		vals = args
	}
	if len(vals) == 0 {
		fail(ErrType, "%s(): nothing to aggregate", name)
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v.Tag != VTNum {
			fail(ErrType, "%s() expects numbers, got %s", name, v.Tag)
		}
		out[i] = v.Data.(float64)
	}
	return out
}
