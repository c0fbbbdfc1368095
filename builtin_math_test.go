package easybite

import "testing"

func Test_Math_Basics(t *testing.T) {
	wantNum(t, evalSrc(t, "abs(-3.5)"), 3.5)
	wantNum(t, evalSrc(t, "pow(2, 10)"), 1024)
	wantNum(t, evalSrc(t, "sqrt(81)"), 9)
	wantNum(t, evalSrc(t, "floor(3.9)"), 3)
	wantNum(t, evalSrc(t, "ceiling(3.1)"), 4)
	wantNum(t, evalSrc(t, "sign(-42)"), -1)
	wantNum(t, evalSrc(t, "sign(0)"), 0)
	wantErr(t, "sqrt(-1)", ErrType, "negative argument")
	wantErr(t, `abs("x")`, ErrType, "must be a number")
}

func Test_Math_Round(t *testing.T) {
	wantNum(t, evalSrc(t, "round(2.5)"), 3) // half away from zero
	wantNum(t, evalSrc(t, "round(-2.5)"), -3)
	wantNum(t, evalSrc(t, "round(3.14159, 2)"), 3.14)
	wantNum(t, evalSrc(t, "round(1234, -2)"), 1200)
}

func Test_Math_Logs(t *testing.T) {
	wantNum(t, evalSrc(t, "log2(8)"), 3)
	// round off the last-ulp libm noise
	wantNum(t, evalSrc(t, "round(log10(1000), 12)"), 3)
	wantNum(t, evalSrc(t, "round(log(exp(1)), 12)"), 1)
	wantNum(t, evalSrc(t, "round(log(81, 3), 12)"), 4)
	wantErr(t, "log(0)", ErrType, "must be positive")
	wantErr(t, "log(10, 1)", ErrType, "invalid base")
}

func Test_Math_Random(t *testing.T) {
	v := evalSrc(t, "random()")
	if v.Tag != VTNum {
		t.Fatalf("random() = %#v", v)
	}
	if f := v.Data.(float64); f < 0 || f >= 1 {
		t.Fatalf("random() out of [0,1): %g", f)
	}
	// bounds are inclusive
	wantNum(t, evalSrc(t, "random(7, 7)"), 7)
	wantBool(t, evalSrc(t, `
set n to random(1, 6)
n >= 1 and n <= 6 and isint(n)
`), true)
	wantErr(t, "random(5, 1)", ErrType, "empty range")
	wantErr(t, "random(1)", ErrArity, "takes 0 or 2 arguments")
}

func Test_Math_Aggregates(t *testing.T) {
	// spread form and single-array form are interchangeable
	wantNum(t, evalSrc(t, "max(3, 9, 4)"), 9)
	wantNum(t, evalSrc(t, "max([3, 9, 4])"), 9)
	wantNum(t, evalSrc(t, "min([3, 9, 4])"), 3)
	wantNum(t, evalSrc(t, "sum([1, 2, 3, 4])"), 10)
	wantNum(t, evalSrc(t, "average(2, 4, 6)"), 4)
	wantNum(t, evalSrc(t, "mean([2, 4, 6])"), 4)
	wantNum(t, evalSrc(t, "mode(1, 2, 2, 3, 3, 2)"), 2)
	wantNum(t, evalSrc(t, "mode(5, 1, 5, 1)"), 5) // first seen wins ties
	wantErr(t, "sum([])", ErrType, "nothing to aggregate")
	wantErr(t, `max(1, "a")`, ErrType, "expects numbers")
}
