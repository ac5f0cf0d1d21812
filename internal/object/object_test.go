package object

import (
	"testing"

	"casc/internal/dec64"
	"casc/internal/symbols"
)

func TestEquals(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Object
		expected bool
	}{
		{"same number", NewNumberInt(3), NewNumberInt(3), true},
		{"number scale", NewNumber(dec64.New(30, -1)), NewNumberInt(3), true},
		{"different numbers", NewNumberInt(3), NewNumberInt(4), false},
		{"strings", NewString("五"), NewString("五"), true},
		{"bools", TRUE, &Boolean{Value: true}, true},
		{"bool vs number", TRUE, NewNumberInt(1), false},
		{"nil", NIL, &Nil{}, true},
		{"nil vs empty string", NIL, NewString(""), false},
		{"arrays", NewArray([]Object{NewNumberInt(1), NewString("a")}), NewArray([]Object{NewNumberInt(1), NewString("a")}), true},
		{"array lengths", NewArray([]Object{NewNumberInt(1)}), NewArray(nil), false},
		{"nested arrays", NewArray([]Object{NewArray([]Object{TRUE})}), NewArray([]Object{NewArray([]Object{FALSE})}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equals(tt.a, tt.b); got != tt.expected {
				t.Errorf("Equals(%s, %s): expected %t, got %t", tt.a.Inspect(), tt.b.Inspect(), tt.expected, got)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		input    Object
		expected string
	}{
		{NewNumberInt(8), "8"},
		{NewNumber(dec64.New(25, -1)), "2.5"},
		{TRUE, "true"},
		{NewString("你好"), "你好"},
		{NIL, ""},
		{NewArray([]Object{NewNumberInt(1), NewString("b"), NIL}), "[1, b, nil]"},
	}
	for _, tt := range tests {
		if got := Text(tt.input); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestArrayIsImmutable(t *testing.T) {
	src := []Object{NewNumberInt(1), NewNumberInt(2)}
	arr := NewArray(src)
	src[0] = NewString("changed")

	elements := arr.Elements()
	elements[1] = NewString("changed")

	if !Equals(arr.At(0), NewNumberInt(1)) || !Equals(arr.At(1), NewNumberInt(2)) {
		t.Errorf("array was mutated: %s", arr.Inspect())
	}
}

func TestFramesKeyByIdentity(t *testing.T) {
	a := symbols.NewLocal("x", symbols.Number)
	b := symbols.NewLocal("x", symbols.Number)

	f := NewFrame(nil)
	f.Set(a, NewNumberInt(1))
	if _, ok := f.Get(b); ok {
		t.Errorf("variables with the same name must not share storage")
	}
	if v, ok := f.Get(a); !ok || !Equals(v, NewNumberInt(1)) {
		t.Errorf("expected 1, got %v", v)
	}
}

func TestGlobalsVariablesSorted(t *testing.T) {
	g := NewGlobals()
	g.Set(symbols.NewGlobal("b", symbols.Number), NewNumberInt(2))
	g.Set(symbols.NewGlobal("a", symbols.Number), NewNumberInt(1))

	vars := g.Variables()
	if len(vars) != 2 || vars[0].Name != "a" || vars[1].Name != "b" {
		t.Errorf("unexpected order %v", vars)
	}
}

func TestTypeOf(t *testing.T) {
	if TypeOf(NewString("")) != symbols.String || TypeOf(NIL) != symbols.Void || TypeOf(NewArray(nil)) != symbols.Array {
		t.Errorf("unexpected type mapping")
	}
}
