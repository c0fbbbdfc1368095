// value_test.go
package easybite

import "testing"

func Test_Value_Display_Primitives(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Num(5), "5"},
		{Num(2.5), "2.5"},
		{Num(-0.5), "-0.5"},
		{Num(100), "100"},
		{Str("hello"), "hello"},
		{Str(""), ""},
	}
	for _, c := range cases {
		if got := c.v.Display(); got != c.want {
			t.Fatalf("Display(%v): got %q, want %q", c.v.Tag, got, c.want)
		}
	}
}

func Test_Value_Display_Containers(t *testing.T) {
	arr := Arr([]Value{Num(1), Str("two"), Arr([]Value{Num(3)})})
	if got := arr.Display(); got != "[1, two, [3]]" {
		t.Fatalf("array display: %q", got)
	}

	d := NewDict()
	d.Set(Str("name"), Str("Amina"))
	d.Set(Str("age"), Num(30))
	if got := DictVal(d).Display(); got != "{name: Amina, age: 30}" {
		t.Fatalf("dict display: %q", got)
	}
}

func Test_Value_String_QuotesStrings(t *testing.T) {
	if got := Str("hi").String(); got != `"hi"` {
		t.Fatalf("string repr: %q", got)
	}
	arr := Arr([]Value{Num(1), Str("two")})
	if got := arr.String(); got != `[1, "two"]` {
		t.Fatalf("array repr: %q", got)
	}
	if got := Num(2.5).String(); got != "2.5" {
		t.Fatalf("number repr: %q", got)
	}
}

func Test_Value_Equality_CrossTagCoercion(t *testing.T) {
	if !equal(Num(5), Str("5")) {
		t.Fatalf("5 == \"5\" should hold")
	}
	if !equal(Str("2.5"), Num(2.5)) {
		t.Fatalf("\"2.5\" == 2.5 should hold")
	}
	if equal(Num(5), Str("five")) {
		t.Fatalf("5 == \"five\" should not hold")
	}
	if equal(Num(0), Null) {
		t.Fatalf("0 == null should not hold")
	}
	if equal(Bool(true), Num(1)) {
		t.Fatalf("true == 1 should not hold")
	}
}

func Test_Value_Equality_DeepContainers(t *testing.T) {
	a1 := Arr([]Value{Num(1), Arr([]Value{Str("x")})})
	a2 := Arr([]Value{Num(1), Arr([]Value{Str("x")})})
	a3 := Arr([]Value{Num(1), Arr([]Value{Str("y")})})
	if !equal(a1, a2) {
		t.Fatalf("deep-equal arrays reported unequal")
	}
	if equal(a1, a3) {
		t.Fatalf("distinct arrays reported equal")
	}

	// Same entries in different insertion order still compare equal.
	d1 := NewDict()
	d1.Set(Str("a"), Num(1))
	d1.Set(Str("b"), Num(2))
	d2 := NewDict()
	d2.Set(Str("b"), Num(2))
	d2.Set(Str("a"), Num(1))
	if !equal(DictVal(d1), DictVal(d2)) {
		t.Fatalf("order-insensitive dict equality failed")
	}

	d3 := NewDict()
	d3.Set(Str("a"), Num(1))
	if equal(DictVal(d1), DictVal(d3)) {
		t.Fatalf("dicts with different key sets reported equal")
	}
}

func Test_Value_Equality_IdentityKinds(t *testing.T) {
	f := &Fun{Name: "f"}
	g := &Fun{Name: "f"}
	if !equal(FunVal(f), FunVal(f)) {
		t.Fatalf("function should equal itself")
	}
	if equal(FunVal(f), FunVal(g)) {
		t.Fatalf("distinct functions should not be equal")
	}
}

func Test_Dict_TypedKeysStayDistinct(t *testing.T) {
	d := NewDict()
	d.Set(Num(1), Str("number"))
	d.Set(Str("1"), Str("string"))
	d.Set(Bool(true), Str("bool"))
	if d.Len() != 3 {
		t.Fatalf("want 3 distinct keys, got %d", d.Len())
	}
	if v, ok := d.Get(Num(1)); !ok || v.Data.(string) != "number" {
		t.Fatalf("numeric key lookup: %v %v", v, ok)
	}
	if v, ok := d.Get(Str("1")); !ok || v.Data.(string) != "string" {
		t.Fatalf("string key lookup: %v %v", v, ok)
	}

	// 1 and 1.0 are the same number, hence the same key.
	if v, ok := d.Get(Num(1.0)); !ok || v.Data.(string) != "number" {
		t.Fatalf("1.0 should alias key 1")
	}
}

func Test_Dict_InsertionOrderAndDelete(t *testing.T) {
	d := NewDict()
	d.Set(Str("a"), Num(1))
	d.Set(Str("b"), Num(2))
	d.Set(Str("c"), Num(3))

	// Overwriting keeps the original position.
	d.Set(Str("a"), Num(9))
	wantOrder := []string{"a", "b", "c"}
	for i, k := range d.Keys {
		if k.Data.(string) != wantOrder[i] {
			t.Fatalf("key order at %d: %q", i, k.Data.(string))
		}
	}

	if !d.Delete(Str("b")) {
		t.Fatalf("delete of present key failed")
	}
	if d.Delete(Str("b")) {
		t.Fatalf("delete of absent key reported true")
	}

	// Re-adding a deleted key appends at the end.
	d.Set(Str("b"), Num(5))
	last := d.Keys[len(d.Keys)-1]
	if last.Data.(string) != "b" {
		t.Fatalf("re-added key should be last, got %q", last.Data.(string))
	}
}

func Test_Dict_RejectsIneligibleKeys(t *testing.T) {
	d := NewDict()
	if d.Set(Arr(nil), Num(1)) {
		t.Fatalf("array key should be rejected")
	}
	if d.Set(Null, Num(1)) {
		t.Fatalf("null key should be rejected")
	}
	if _, ok := d.Get(Null); ok {
		t.Fatalf("null key lookup should miss")
	}
}

func Test_Array_NewArrayPrefilled(t *testing.T) {
	a := NewArray(3)
	if len(a.Elems) != 3 {
		t.Fatalf("want 3 elements, got %d", len(a.Elems))
	}
	for i, e := range a.Elems {
		if e.Tag != VTNull {
			t.Fatalf("element %d should be null, got %v", i, e.Tag)
		}
	}
}

func Test_Value_ReferenceSemantics(t *testing.T) {
	inner := &ArrayObject{Elems: []Value{Num(1)}}
	v1 := ArrVal(inner)
	v2 := ArrVal(inner)
	inner.Elems = append(inner.Elems, Num(2))
	if len(v1.Data.(*ArrayObject).Elems) != 2 || len(v2.Data.(*ArrayObject).Elems) != 2 {
		t.Fatalf("array values should share the backing store")
	}
}
