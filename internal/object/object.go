package object

import (
	"strings"

	"casc/internal/dec64"
	"casc/internal/symbols"
)

const (
	NIL_OBJ     = "NIL"
	BOOLEAN_OBJ = "BOOLEAN"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"
	ARRAY_OBJ   = "ARRAY"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

// Object is a runtime value. The set of implementations is closed.
type Object interface {
	Type() ObjectType
	Inspect() string
	object()
}

type Number struct {
	Value dec64.Dec64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return n.Value.String() }
func (n *Number) object()          {}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *Boolean) object() {}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) object()          {}

// Array is immutable once constructed; Elements returns a copy.
type Array struct {
	elements []Object
}

func NewArray(elements []Object) *Array {
	cp := make([]Object, len(elements))
	copy(cp, elements)
	return &Array{elements: cp}
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.elements))
	for i, e := range a.elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *Array) object() {}

func (a *Array) Len() int { return len(a.elements) }

func (a *Array) At(i int) Object { return a.elements[i] }

func (a *Array) Elements() []Object {
	cp := make([]Object, len(a.elements))
	copy(cp, a.elements)
	return cp
}

// Nil is the absence of a value.
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }
func (n *Nil) object()          {}

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func NewNumber(v dec64.Dec64) *Number { return &Number{Value: v} }

func NewNumberInt(v int64) *Number { return &Number{Value: dec64.FromInt64(v)} }

func NewString(s string) *String { return &String{Value: s} }

// Text is the text form used by print and string conversion: Nil is empty,
// everything else is its Inspect form.
func Text(o Object) string {
	if _, ok := o.(*Nil); ok || o == nil {
		return ""
	}
	return o.Inspect()
}

// Equals compares structurally. Values of different types are never equal.
func Equals(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch a := a.(type) {
	case *Number:
		b, ok := b.(*Number)
		return ok && a.Value.Equal(b.Value)
	case *Boolean:
		b, ok := b.(*Boolean)
		return ok && a.Value == b.Value
	case *String:
		b, ok := b.(*String)
		return ok && a.Value == b.Value
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Array:
		b, ok := b.(*Array)
		if !ok || len(a.elements) != len(b.elements) {
			return false
		}
		for i := range a.elements {
			if !Equals(a.elements[i], b.elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// TypeOf maps a runtime value to its static type symbol.
func TypeOf(o Object) *symbols.TypeSymbol {
	switch o.(type) {
	case *Number:
		return symbols.Number
	case *Boolean:
		return symbols.Bool
	case *String:
		return symbols.String
	case *Array:
		return symbols.Array
	case *Nil:
		return symbols.Void
	}
	return symbols.Error
}
