package symbols

import "testing"

func TestLookupType(t *testing.T) {
	cases := []struct {
		name     string
		expected *TypeSymbol
		ok       bool
	}{
		{"", Any, true},
		{"number", Number, true},
		{"String", String, true},
		{"bool", Bool, true},
		{"void", Void, true},
		{"decimal", nil, false},
	}
	for _, c := range cases {
		got, ok := LookupType(c.name)
		if ok != c.ok || got != c.expected {
			t.Errorf("LookupType(%q): expected (%v, %t), got (%v, %t)", c.name, c.expected, c.ok, got, ok)
		}
	}
}

func TestVariableIdentity(t *testing.T) {
	a := NewLocal("x", Number)
	b := NewLocal("x", Number)
	if a == b {
		t.Errorf("variables with the same name must be distinct identities")
	}
	if a.IsGlobal() || !NewGlobal("x", Number).IsGlobal() {
		t.Errorf("unexpected scope kinds")
	}
	if NewParameter("p", Any).Kind() != Parameter {
		t.Errorf("expected parameter kind")
	}
}

func TestBuiltins(t *testing.T) {
	f, ok := LookupBuiltin("random")
	if !ok || f != Random {
		t.Fatalf("random builtin not found")
	}
	if f.String() != "random(min: number, max: number): number" {
		t.Errorf("unexpected signature %q", f.String())
	}
	if _, ok := LookupBuiltin("printf"); ok {
		t.Errorf("unexpected builtin printf")
	}
	if len(Print.Parameters) != 1 || Print.Type != Void {
		t.Errorf("unexpected print signature %s", Print)
	}
}
