package easybite

import "testing"

func Test_Conv_ToInt(t *testing.T) {
	wantNum(t, evalSrc(t, "toint(3.9)"), 3) // truncates toward zero
	wantNum(t, evalSrc(t, "toint(-3.9)"), -3)
	wantNum(t, evalSrc(t, `toint("42")`), 42)
	wantNum(t, evalSrc(t, `toint(" 7.5 ")`), 7)
	wantNum(t, evalSrc(t, "toint(true)"), 1)
	wantNum(t, evalSrc(t, "toint(false)"), 0)
	wantErr(t, `toint("abc")`, ErrType, "cannot convert 'abc'")
	wantErr(t, "toint([1])", ErrType, "cannot convert")
}

func Test_Conv_ToDouble(t *testing.T) {
	wantNum(t, evalSrc(t, `todouble("2.5")`), 2.5)
	wantNum(t, evalSrc(t, "todouble(7)"), 7)
	wantNum(t, evalSrc(t, "todouble(true)"), 1)
	wantErr(t, `todouble("x")`, ErrType, "cannot convert 'x'")
}

func Test_Conv_ToString(t *testing.T) {
	wantStr(t, evalSrc(t, "tostring(5)"), "5")
	wantStr(t, evalSrc(t, "tostring(2.5)"), "2.5")
	wantStr(t, evalSrc(t, "tostring(true)"), "true")
	wantStr(t, evalSrc(t, "tostring(null)"), "null")
	wantStr(t, evalSrc(t, "tostring([1, 2])"), "[1, 2]")
	wantStr(t, evalSrc(t, `tostring({"a": 1})`), "{a: 1}")
}

func Test_Conv_Predicates(t *testing.T) {
	wantBool(t, evalSrc(t, "isint(5)"), true)
	wantBool(t, evalSrc(t, "isint(5.5)"), false)
	wantBool(t, evalSrc(t, `isint("5")`), false)
	wantBool(t, evalSrc(t, "isdouble(5.5)"), true)
	wantBool(t, evalSrc(t, "isdouble(5)"), false)
	wantBool(t, evalSrc(t, `isstring("x")`), true)
	wantBool(t, evalSrc(t, "islist([1])"), true)
	wantBool(t, evalSrc(t, "isdict({})"), true)
	wantBool(t, evalSrc(t, "isdict([])"), false)
}

func Test_Conv_Typeof(t *testing.T) {
	wantStr(t, evalSrc(t, "typeof(null)"), "null")
	wantStr(t, evalSrc(t, "typeof(true)"), "boolean")
	wantStr(t, evalSrc(t, "typeof(5)"), "number")
	wantStr(t, evalSrc(t, `typeof("s")`), "string")
	wantStr(t, evalSrc(t, "typeof([1])"), "array")
	wantStr(t, evalSrc(t, "typeof({})"), "dictionary")
	wantStr(t, evalSrc(t, `
function f()
end function
typeof(f)
`), "function")
	wantStr(t, evalSrc(t, `
class C
end class
typeof(new C())
`), "instance")
}
