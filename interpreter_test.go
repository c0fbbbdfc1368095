package easybite

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func mustEvalPersistent(t *testing.T, ip *Interpreter, src string) Value {
	t.Helper()
	v, err := ip.EvalPersistentSource(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ip := NewRuntime()
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return v
}

// runSrc evaluates src and returns everything show/showline wrote.
func runSrc(t *testing.T, src string) string {
	t.Helper()
	ip := NewRuntime()
	var out bytes.Buffer
	ip.Out = &out
	if _, err := ip.EvalSource(src); err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return out.String()
}

func evalErr(t *testing.T, src string) *RuntimeError {
	t.Helper()
	ip := NewRuntime()
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("want a runtime error, got none\nsource:\n%s", src)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	return re
}

func wantErr(t *testing.T, src string, kind ErrKind, substr string) {
	t.Helper()
	re := evalErr(t, src)
	if re.Kind != kind {
		t.Fatalf("want error kind %s, got %s (%v)", kind, re.Kind, re)
	}
	if !strings.Contains(re.Msg, substr) {
		t.Fatalf("want error containing %q, got %q", substr, re.Msg)
	}
}

// wantErrIP is wantErr against an existing interpreter, keeping its globals.
func wantErrIP(t *testing.T, ip *Interpreter, src string, kind ErrKind, substr string) {
	t.Helper()
	_, err := ip.EvalPersistentSource(src)
	if err == nil {
		t.Fatalf("want a runtime error, got none\nsource:\n%s", src)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	if re.Kind != kind {
		t.Fatalf("want error kind %s, got %s (%v)", kind, re.Kind, re)
	}
	if !strings.Contains(re.Msg, substr) {
		t.Fatalf("want error containing %q, got %q", substr, re.Msg)
	}
}

func wantNum(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VTNum {
		t.Fatalf("want num %g, got %#v", f, v)
	}
	if got := v.Data.(float64); got != f {
		t.Fatalf("want num %g, got %g", f, got)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTStr || v.Data.(string) != s {
		t.Fatalf("want str %q, got %#v", s, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantNull(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTNull {
		t.Fatalf("want null, got %#v", v)
	}
}

// --- tests -----------------------------------------------------------------

func Test_Interpreter_Literals(t *testing.T) {
	wantNum(t, evalSrc(t, "42"), 42)
	wantNum(t, evalSrc(t, "3.5"), 3.5)
	wantStr(t, evalSrc(t, `"hi"`), "hi")
	wantStr(t, evalSrc(t, `"a\nb"`), "a\nb")
	wantBool(t, evalSrc(t, "true"), true)
	wantBool(t, evalSrc(t, "false"), false)
	wantNull(t, evalSrc(t, "null"))
}

func Test_Interpreter_Arithmetic(t *testing.T) {
	wantNum(t, evalSrc(t, "2 + 3 * 2"), 8)
	wantNum(t, evalSrc(t, "(2 + 3) * 2"), 10)
	wantNum(t, evalSrc(t, "7 / 2"), 3.5)
	wantNum(t, evalSrc(t, "10 remind 3"), 1)
	wantNum(t, evalSrc(t, "2 ^ 3 ^ 2"), 512) // right-associative
	wantNum(t, evalSrc(t, "-3 + 10"), 7)
	wantNum(t, evalSrc(t, "10 - 2 - 3"), 5)
}

func Test_Interpreter_Arithmetic_Errors(t *testing.T) {
	wantErr(t, "1 / 0", ErrDivZero, "division by zero")
	wantErr(t, "1 remind 0", ErrDivZero, "modulo by zero")
	wantErr(t, `"a" * 2`, ErrType, "'*' expects numbers")
	wantErr(t, "true + 1", ErrType, "'+' cannot combine")
}

func Test_Interpreter_Plus_Concatenation(t *testing.T) {
	wantStr(t, evalSrc(t, `"ab" + "cd"`), "abcd")
	wantStr(t, evalSrc(t, `"n=" + 5`), "n=5")
	wantStr(t, evalSrc(t, `1 + "x"`), "1x")
	wantBool(t, evalSrc(t, "[1] + [2, 3] == [1, 2, 3]"), true)
}

func Test_Interpreter_Comparisons(t *testing.T) {
	wantBool(t, evalSrc(t, "3 < 4"), true)
	wantBool(t, evalSrc(t, "4 <= 4"), true)
	wantBool(t, evalSrc(t, "5 > 9"), false)
	wantBool(t, evalSrc(t, `"abc" < "abd"`), true)
	wantBool(t, evalSrc(t, `9 < "10"`), true) // numeric string coerces
	wantErr(t, "true < 1", ErrType, "cannot compare")
}

func Test_Interpreter_Equality_And_Membership(t *testing.T) {
	wantBool(t, evalSrc(t, "1 == 1"), true)
	wantBool(t, evalSrc(t, "1 is 1"), true)
	wantBool(t, evalSrc(t, "1 is not 2"), true)
	wantBool(t, evalSrc(t, `"a" != "b"`), true)
	wantBool(t, evalSrc(t, `5 == "5"`), true)
	wantBool(t, evalSrc(t, "[1, 2] == [1, 2]"), true)
	wantBool(t, evalSrc(t, "null == null"), true)
	wantBool(t, evalSrc(t, "2 is in [1, 2, 3]"), true)
	wantBool(t, evalSrc(t, "5 in [1, 2]"), false)
	wantBool(t, evalSrc(t, `"ell" in "hello"`), true)
	wantBool(t, evalSrc(t, `"x" in {"x": 1}`), true)
}

func Test_Interpreter_Truthiness_And_Logic(t *testing.T) {
	wantBool(t, evalSrc(t, "1 and 2"), true)
	wantBool(t, evalSrc(t, "1 and 0"), false)
	wantBool(t, evalSrc(t, "0 or 2"), true)
	wantBool(t, evalSrc(t, "not 0"), true)
	wantBool(t, evalSrc(t, `not ""`), true)
	wantBool(t, evalSrc(t, "not []"), true)
	wantBool(t, evalSrc(t, "not null"), true)
	// short circuit: the right side is never evaluated
	wantBool(t, evalSrc(t, "false and nosuchvar"), false)
	wantBool(t, evalSrc(t, "true or nosuchvar"), true)
}

func Test_Interpreter_Assignment_Forms(t *testing.T) {
	wantNum(t, evalSrc(t, `
set a to 10
set b to 5
a + b
`), 15)
	// 'to' without the set keyword
	wantNum(t, evalSrc(t, `
total to 0
total to total + 4
total
`), 4)
}

func Test_Interpreter_Declare_With_Size(t *testing.T) {
	wantBool(t, evalSrc(t, `
declare xs[3], name
set xs[0] to 7
[length(xs), xs[0], xs[1], name] == [3, 7, null, null]
`), true)
}

func Test_Interpreter_Blocks_Share_Scope(t *testing.T) {
	// if/choose/try bodies run in the enclosing scope; only loops and
	// calls introduce frames.
	wantBool(t, evalSrc(t, `
set n to 1
if true then
  set n to 2
  set fresh to 9
end if
[n, fresh] == [2, 9]
`), true)
}

func Test_Interpreter_Function_Writes_Outer_Binding(t *testing.T) {
	ip := NewRuntime()
	mustEvalPersistent(t, ip, `
set n to 1
function poke()
  set n to 99
  set inner to 5
end function
poke()
`)
	wantNum(t, mustEvalPersistent(t, ip, "n"), 99)
	if _, err := ip.EvalPersistentSource("inner"); err == nil {
		t.Fatalf("want unbound 'inner' after call, got a value")
	}
}

func Test_Interpreter_If_Else_Chain(t *testing.T) {
	src := `
set x to %s
if x > 10 then
  set r to "big"
else if x > 5 then
  set r to "mid"
else
  set r to "small"
end if
r
`
	wantStr(t, evalSrc(t, strings.Replace(src, "%s", "50", 1)), "big")
	wantStr(t, evalSrc(t, strings.Replace(src, "%s", "7", 1)), "mid")
	wantStr(t, evalSrc(t, strings.Replace(src, "%s", "1", 1)), "small")
}

func Test_Interpreter_Conditional_Expression(t *testing.T) {
	wantStr(t, evalSrc(t, `
set r to if 2 > 1 then "yes" else "no"
r
`), "yes")
	wantNum(t, evalSrc(t, `
set n to -7
set abs to if n < 0 then -n else n
abs
`), 7)
}

func Test_Interpreter_Choose(t *testing.T) {
	src := `
set grade to "none"
choose %s
when 1:
  set grade to "one"
when 2:
  set grade to "two"
otherwise:
  set grade to "other"
end choose
grade
`
	wantStr(t, evalSrc(t, strings.Replace(src, "%s", "2", 1)), "two")
	wantStr(t, evalSrc(t, strings.Replace(src, "%s", "9", 1)), "other")

	// no otherwise, no match: nothing runs
	wantStr(t, evalSrc(t, `
set g to "kept"
choose 9
when 1:
  set g to "hit"
end choose
g
`), "kept")

	// first matching arm wins
	wantStr(t, evalSrc(t, `
set g to ""
choose 1
when 1:
  set g to "first"
when 1:
  set g to "second"
end choose
g
`), "first")
}

func Test_Interpreter_Repeat_While(t *testing.T) {
	wantNum(t, evalSrc(t, `
set n to 0
repeat while (n < 5)
  set n to n + 1
end repeat
n
`), 5)
}

func Test_Interpreter_Repeat_Times_Count_Fixed_At_Entry(t *testing.T) {
	wantNum(t, evalSrc(t, `
set n to 3
set hits to 0
repeat n times
  set hits to hits + 1
  set n to 100
end repeat
hits
`), 3)
}

func Test_Interpreter_For_Step(t *testing.T) {
	wantBool(t, evalSrc(t, `
set xs to []
for i from 1 to 10 step 2
  set xs to xs + [i]
end for
xs == [1, 3, 5, 7, 9]
`), true)
	wantBool(t, evalSrc(t, `
set xs to []
for i from 10 to 1 step -2
  set xs to xs + [i]
end for
xs == [10, 8, 6, 4, 2]
`), true)
	// ascending default step with from > to runs zero times
	wantNum(t, evalSrc(t, `
set hits to 0
for i from 5 to 1
  set hits to hits + 1
end for
hits
`), 0)
	wantErr(t, "for i from 1 to 3 step 0\nend for", ErrType, "step must not be zero")
}

func Test_Interpreter_Stop_And_Skip_In_Loops(t *testing.T) {
	wantNum(t, evalSrc(t, `
set sum to 0
for i from 1 to 10
  if i == 4 then
    stop
  end if
  set sum to sum + i
end for
sum
`), 6)
	wantNum(t, evalSrc(t, `
set sum to 0
for i from 1 to 5
  if i remind 2 == 0 then
    skip
  end if
  set sum to sum + i
end for
sum
`), 9)
}

func Test_Interpreter_Stop_Skip_Outside_Loop(t *testing.T) {
	wantErr(t, "stop", ErrExternal, "'stop' used outside of a loop")
	wantErr(t, "skip", ErrExternal, "'skip' used outside of a loop")
	// inside a function body the misuse is reported, not propagated as a break
	wantErr(t, `
function f()
  stop
end function
f()
`, ErrExternal, "'stop' used outside of a loop")
}

func Test_Interpreter_Foreach_Array(t *testing.T) {
	wantBool(t, evalSrc(t, `
set out to []
foreach x in [10, 20]
  set out to out + [x]
end foreach
out == [10, 20]
`), true)
	// two-variable form binds index and element
	wantBool(t, evalSrc(t, `
set out to []
foreach (i, v) in ["a", "b"]
  set out to out + [i, v]
end foreach
out == [0, "a", 1, "b"]
`), true)
}

func Test_Interpreter_Foreach_Dict_Insertion_Order(t *testing.T) {
	wantBool(t, evalSrc(t, `
set d to {"x": 1, "y": 2}
set ks to []
set vs to []
foreach (k, v) in d
  set ks to ks + [k]
  set vs to vs + [v]
end foreach
ks == ["x", "y"] and vs == [1, 2]
`), true)
}

func Test_Interpreter_Generate(t *testing.T) {
	wantBool(t, evalSrc(t, `
set xs to []
generate i from 1 to 10 by 3
  set xs to xs + [i]
stop
xs == [1, 4, 7, 10]
`), true)
}

func Test_Interpreter_Iterate(t *testing.T) {
	wantBool(t, evalSrc(t, `
set seen to []
iterate ch over (["a", "b", "c"])
  set seen to seen + [ch]
end iterate
seen == ["a", "b", "c"]
`), true)
	// iterating a dictionary walks its keys
	wantBool(t, evalSrc(t, `
set ks to []
iterate k over ({"a": 1, "b": 2})
  set ks to ks + [k]
end iterate
ks == ["a", "b"]
`), true)
}

func Test_Interpreter_Functions(t *testing.T) {
	wantNum(t, evalSrc(t, `
function add(a, b)
  return a + b
end function
add(2, 3)
`), 5)
	// bare return yields null
	wantBool(t, evalSrc(t, `
function noop()
  return
end function
noop() == null
`), true)
	// falling off the end yields null too
	wantBool(t, evalSrc(t, `
function quiet()
  set x to 1
end function
quiet() == null
`), true)
}

func Test_Interpreter_Function_Defaults(t *testing.T) {
	wantBool(t, evalSrc(t, `
function greet(name, greeting to "Hello")
  return greeting + ", " + name
end function
[greet("Ada"), greet("Ada", "Yo")] == ["Hello, Ada", "Yo, Ada"]
`), true)
}

func Test_Interpreter_Function_Arity_Errors(t *testing.T) {
	wantErr(t, `
function add(a, b)
  return a + b
end function
add(1)
`, ErrArity, "missing required argument 'b'")
	wantErr(t, `
function add(a, b)
  return a + b
end function
add(1, 2, 3)
`, ErrArity, "takes at most 2 argument(s), got 3")
	wantErr(t, "missing()", ErrUnbound, "undefined function: missing")
}

func Test_Interpreter_Closures(t *testing.T) {
	wantNum(t, evalSrc(t, `
function makecounter()
  set n to 0
  function bump()
    set n to n + 1
    return n
  end function
  return bump
end function
set c to makecounter()
c()
c()
c()
`), 3)
}

func Test_Interpreter_Recursion_Rejected(t *testing.T) {
	wantErr(t, `
function fact(n)
  if n <= 1 then
    return 1
  end if
  return n * fact(n - 1)
end function
fact(5)
`, ErrRecursion, "called recursively")
	// mutual recursion trips the same check
	wantErr(t, `
function ping(n)
  return pong(n)
end function
function pong(n)
  return ping(n)
end function
ping(1)
`, ErrRecursion, "called recursively")
}

func Test_Interpreter_Try_Capture(t *testing.T) {
	// capture binds the message text only
	wantStr(t, evalSrc(t, `
set msg to ""
try
  raise error("boom")
capture (e)
  set msg to e
stop
msg
`), "boom")
	// runtime errors are caught the same way
	wantStr(t, evalSrc(t, `
set got to ""
try
  set x to [1, 2]
  show x[99]
capture (err)
  set got to err
stop
got
`), "index 99 out of bounds for length 2")
	// a clean body never runs the handler
	wantBool(t, evalSrc(t, `
set path to []
try
  set path to path + ["body"]
capture (e)
  set path to path + ["handler"]
stop
path == ["body"]
`), true)
}

func Test_Interpreter_Raise_Uncaught(t *testing.T) {
	wantErr(t, `raise error("bad state")`, ErrExternal, "bad state")
	wantErr(t, "raise error()", ErrExternal, "error")
}

func Test_Interpreter_Exit(t *testing.T) {
	if got := runSrc(t, `
show "a"
exit
show "b"
`); got != "a\n" {
		t.Fatalf("want output %q, got %q", "a\n", got)
	}
}

func Test_Interpreter_Array_Indexing(t *testing.T) {
	wantNum(t, evalSrc(t, "[10, 20, 30][1]"), 20)
	wantNum(t, evalSrc(t, `
set grid to [[1, 2], [3, 4]]
set grid[1][0] to 9
grid[1][0]
`), 9)
	wantErr(t, "[1, 2][2]", ErrIndex, "index 2 out of bounds for length 2")
	wantErr(t, "[1, 2][-1]", ErrIndex, "out of bounds")
	wantErr(t, "[1][0.5]", ErrType, "must be an integer")
	wantErr(t, `5[0]`, ErrType, "cannot index")
}

func Test_Interpreter_Dict_Access(t *testing.T) {
	wantStr(t, evalSrc(t, `
set d to {"name": "Ada", "age": 36}
d["name"] + " is " + d["age"]
`), "Ada is 36")
	// dotted member access doubles as string-key lookup
	wantStr(t, evalSrc(t, `
set d to {"name": "Ada"}
set d.city to "London"
d.city + "/" + d.name
`), "London/Ada")
	wantErr(t, `{"a": 1}["b"]`, ErrKey, "key 'b' not found")
	wantErr(t, `{"a": 1}.b`, ErrKey, "key 'b' not found")
}

func Test_Interpreter_Dict_Runtime_Keys(t *testing.T) {
	// literals take string keys; index writes accept numbers and booleans
	wantBool(t, evalSrc(t, `
set d to {}
set d[1] to "one"
set d[true] to "yes"
[d[1], d[true]] == ["one", "yes"]
`), true)
	wantErr(t, `
set d to {}
set d[[1]] to "x"
`, ErrType, "dictionary key must be a string, number, or boolean")
}

func Test_Interpreter_Classes_Basic(t *testing.T) {
	wantNum(t, evalSrc(t, `
class Point
  declare x, y
  init(a, b)
    this.x to a
    this.y to b
  end init
  method sum()
    return this.x + this.y
  end method
end class
set p to new Point(3, 4)
p.sum()
`), 7)
}

func Test_Interpreter_Classes_Field_Initializers(t *testing.T) {
	wantNum(t, evalSrc(t, `
class Counter
  count to 0
  method bump()
    this.count to this.count + 1
    return this.count
  end method
end class
set c to new Counter()
c.bump()
c.bump()
`), 2)
}

func Test_Interpreter_Classes_Inheritance(t *testing.T) {
	wantStr(t, evalSrc(t, `
class Animal
  declare name
  init(n)
    this.name to n
  end init
  method speak()
    return this.name + " makes a sound"
  end method
end class
class Dog inherit Animal
  init(n)
    parent.init(n)
  end init
  method speak()
    return parent.speak() + ": woof"
  end method
end class
set d to new Dog("Rex")
d.speak()
`), "Rex makes a sound: woof")
}

func Test_Interpreter_Classes_Secret_Fields(t *testing.T) {
	src := `
class Vault
  secret declare pin
  init(p)
    this.pin to p
  end init
  method check(guess)
    return guess == this.pin
  end method
end class
set v to new Vault(1234)
`
	wantBool(t, evalSrc(t, src+"v.check(1234)"), true)
	wantBool(t, evalSrc(t, src+"v.check(9999)"), false)
	wantErr(t, src+"v.pin", ErrExternal, "secret")
	wantErr(t, src+"set v.pin to 0", ErrExternal, "secret")
}

func Test_Interpreter_Classes_Secret_Methods(t *testing.T) {
	src := `
class Engine
  secret method sparkup()
    return "spark"
  end method
  method start()
    return this.sparkup() + "!"
  end method
end class
set e to new Engine()
`
	wantStr(t, evalSrc(t, src+"e.start()"), "spark!")
	wantErr(t, src+"e.sparkup()", ErrExternal, "secret")
}

func Test_Interpreter_Class_Misuse(t *testing.T) {
	wantErr(t, `
class C
end class
C()
`, ErrType, "must be created with 'new'")
	wantErr(t, `
class C
end class
set c to new C()
c.nothere
`, ErrKey, "has no field 'nothere'")
}

func Test_Interpreter_Show_Formatting(t *testing.T) {
	if got := runSrc(t, "show 2 + 3"); got != "5\n" {
		t.Fatalf("show 2+3 = %q", got)
	}
	if got := runSrc(t, "show 7 / 2"); got != "3.5\n" {
		t.Fatalf("show 7/2 = %q", got)
	}
	if got := runSrc(t, `show "hi"`); got != "hi\n" {
		t.Fatalf("show string = %q", got)
	}
	if got := runSrc(t, `show [1, "a", null]`); got != "[1, a, null]\n" {
		t.Fatalf("show array = %q", got)
	}
	if got := runSrc(t, `show {"b": 1, "a": 2}`); got != "{b: 1, a: 2}\n" {
		t.Fatalf("show dict = %q", got)
	}
	if got := runSrc(t, "show true"); got != "true\n" {
		t.Fatalf("show bool = %q", got)
	}
}

func Test_Interpreter_Showline(t *testing.T) {
	if got := runSrc(t, "show \"a\"\nshowline()\nshow \"b\""); got != "a\n\nb\n" {
		t.Fatalf("showline output = %q", got)
	}
}

func Test_Interpreter_Input_Statement(t *testing.T) {
	ip := NewRuntime()
	var out bytes.Buffer
	ip.Out = &out
	ip.In = bufio.NewReader(strings.NewReader("Ada\n"))
	v := mustEvalPersistent(t, ip, `
input name to input("Name: ")
name
`)
	wantStr(t, v, "Ada")
	if out.String() != "Name: " {
		t.Fatalf("prompt output = %q", out.String())
	}
}

func Test_Interpreter_Input_Expression(t *testing.T) {
	ip := NewRuntime()
	ip.Out = &bytes.Buffer{}
	ip.In = bufio.NewReader(strings.NewReader("42\n"))
	v := mustEvalPersistent(t, ip, `
set raw to input("n: ")
raw
`)
	// input always yields a string; convert explicitly
	wantStr(t, v, "42")
	ip.In = bufio.NewReader(strings.NewReader("41\n"))
	wantNum(t, mustEvalPersistent(t, ip, `toint(input("n: ")) + 1`), 42)
}

func Test_Interpreter_Persistent_State(t *testing.T) {
	ip := NewRuntime()
	mustEvalPersistent(t, ip, "set total to 10")
	wantNum(t, mustEvalPersistent(t, ip, "total + 5"), 15)

	// EvalSource runs in a throwaway child scope
	if _, err := ip.EvalSource("set ghost to 1"); err != nil {
		t.Fatalf("EvalSource: %v", err)
	}
	if _, err := ip.EvalPersistentSource("ghost"); err == nil {
		t.Fatalf("want 'ghost' to stay unbound in Global")
	}
}

func Test_Interpreter_Error_Positions(t *testing.T) {
	re := evalErr(t, "\nset x to nosuch")
	if re.Kind != ErrUnbound {
		t.Fatalf("want UnboundVariable, got %s", re.Kind)
	}
	if re.Line != 2 {
		t.Fatalf("want line 2, got %d (%v)", re.Line, re)
	}
	if !strings.Contains(re.Error(), "RUNTIME ERROR at 2:") {
		t.Fatalf("rendered error = %q", re.Error())
	}
}

func Test_Interpreter_Builtin_Shadowing(t *testing.T) {
	// a local binding shadows a builtin for reads, but named calls still
	// reach the registry
	wantNum(t, evalSrc(t, `
set length to 99
length
`), 99)
	wantNum(t, evalSrc(t, `
set length to 99
length([1, 2, 3])
`), 3)
}

func Test_Interpreter_First_Class_Functions(t *testing.T) {
	wantBool(t, evalSrc(t, `
function double(n)
  return n * 2
end function
set ops to [double]
set f to ops[0]
f(21) == 42
`), true)
	// builtins are first-class through bare identifiers too
	wantNum(t, evalSrc(t, `
set f to uppercase
length(f("abc"))
`), 3)
}

func Test_Interpreter_Method_Call_On_Literals(t *testing.T) {
	// receiver method table: value.method(...) on builtin receivers
	wantNum(t, evalSrc(t, "[1, 2, 3].length()"), 3)
	wantStr(t, evalSrc(t, `"abc".uppercase()`), "ABC")
	wantErr(t, "5.length()", ErrType, "has no method")
}

func Test_Interpreter_Method_Call_Arity(t *testing.T) {
	// method-syntax calls enforce the same bounds as the named form,
	// with the receiver counted as the first argument
	wantErr(t, `
set d to {"a": 1}
d.get()
`, ErrArity, "get() takes at least 2 argument(s), got 1")
	wantErr(t, `{"a": 1}.get("a", 0, 9)`, ErrArity, "get() takes at most 3 argument(s), got 4")
	wantErr(t, "[1].remove()", ErrArity, "remove() takes 2 argument(s), got 1")
	wantErr(t, "[1, 2].pop(0, 1)", ErrArity, "pop() takes at most 2 argument(s), got 3")
	wantErr(t, `"abc".contains()`, ErrArity, "contains() takes 2 argument(s), got 1")
}
