package easybite

import "testing"

func Test_Strings_Case_And_Shape(t *testing.T) {
	wantStr(t, evalSrc(t, `uppercase("abc")`), "ABC")
	wantStr(t, evalSrc(t, `lowercase("AbC")`), "abc")
	wantStr(t, evalSrc(t, `capitalize("hello world")`), "Hello world")
	wantStr(t, evalSrc(t, `capitalize("")`), "")
	wantStr(t, evalSrc(t, `strreverse("abc")`), "cba")
	wantNum(t, evalSrc(t, `count("héllo")`), 5) // runes, not bytes
	wantNum(t, evalSrc(t, `length("héllo")`), 5)
}

func Test_Strings_Search(t *testing.T) {
	wantBool(t, evalSrc(t, `contains("hello", "ell")`), true)
	wantBool(t, evalSrc(t, `startswith("hello", "he")`), true)
	wantBool(t, evalSrc(t, `endswith("hello", "lo")`), true)
	wantNum(t, evalSrc(t, `find("hello", "llo")`), 2)
	wantNum(t, evalSrc(t, `find("hello", "zzz")`), -1)
	wantNum(t, evalSrc(t, `find("héllo", "llo")`), 2) // character index
	wantNum(t, evalSrc(t, `compare("a", "b")`), -1)
	wantNum(t, evalSrc(t, `compare("b", "b")`), 0)
}

func Test_Strings_Edit(t *testing.T) {
	wantStr(t, evalSrc(t, `replace("a-b-c", "-", "+")`), "a+b+c")
	wantStr(t, evalSrc(t, `strremove("banana", "na")`), "ba")
	wantStr(t, evalSrc(t, `trim("  hi  ")`), "hi")
	wantStr(t, evalSrc(t, `trim("xxhixx", "x")`), "hi")
}

func Test_Strings_Substring_Clamps(t *testing.T) {
	wantStr(t, evalSrc(t, `substring("hello", 1, 3)`), "el")
	wantStr(t, evalSrc(t, `substring("hello", 2)`), "llo")
	wantStr(t, evalSrc(t, `substring("hello", -5, 99)`), "hello")
	wantStr(t, evalSrc(t, `substring("hello", 3, 1)`), "")
	wantStr(t, evalSrc(t, `substring("héllo", 1, 2)`), "é")
}

func Test_Strings_Split_Join_Tolist(t *testing.T) {
	wantBool(t, evalSrc(t, `split("a,b,c", ",") == ["a", "b", "c"]`), true)
	wantBool(t, evalSrc(t, `split("abc", "x") == ["abc"]`), true)
	wantStr(t, evalSrc(t, `join(["a", "b", "c"], "-")`), "a-b-c")
	wantStr(t, evalSrc(t, `join([1, 2, 3], ", ")`), "1, 2, 3")
	wantBool(t, evalSrc(t, `tolist("abc") == ["a", "b", "c"]`), true)
	// split then join round-trips
	wantStr(t, evalSrc(t, `join(split("x/y/z", "/"), "/")`), "x/y/z")
}

func Test_Strings_Format(t *testing.T) {
	wantStr(t, evalSrc(t, `format("{0} + {1} = {2}", 1, 2, 3)`), "1 + 2 = 3")
	wantStr(t, evalSrc(t, `format("hi {0}", "Ada")`), "hi Ada")
	// unmatched placeholders stay put
	wantStr(t, evalSrc(t, `format("{0} {1}", "only")`), "only {1}")
}

func Test_Strings_Base64(t *testing.T) {
	wantStr(t, evalSrc(t, `encode("hello")`), "aGVsbG8=")
	wantStr(t, evalSrc(t, `decode("aGVsbG8=")`), "hello")
	wantStr(t, evalSrc(t, `decode(encode("round trip"))`), "round trip")
	wantErr(t, `decode("!!!")`, ErrExternal, "invalid base64")
}

func Test_Strings_Frombytes(t *testing.T) {
	wantStr(t, evalSrc(t, "frombytes([104, 105])"), "hi")
	wantErr(t, "frombytes([300])", ErrType, "out of range")
	wantErr(t, `frombytes(["a"])`, ErrType, "expects an array of numbers")
}

func Test_Strings_Method_Form(t *testing.T) {
	// every string builtin doubles as a method on the string
	wantStr(t, evalSrc(t, `"a-b".replace("-", "+")`), "a+b")
	wantBool(t, evalSrc(t, `"hello".contains("ell")`), true)
	wantBool(t, evalSrc(t, `"a,b".split(",") == ["a", "b"]`), true)
	wantNum(t, evalSrc(t, `"hello".count()`), 5)
}

func Test_Strings_Predicates(t *testing.T) {
	wantBool(t, evalSrc(t, `isalnum("abc123")`), true)
	wantBool(t, evalSrc(t, `isalnum("ab c")`), false)
	wantBool(t, evalSrc(t, `isalnum("")`), false)
	wantBool(t, evalSrc(t, `isdigit("0042")`), true)
	wantBool(t, evalSrc(t, `isdigit("42a")`), false)
}
