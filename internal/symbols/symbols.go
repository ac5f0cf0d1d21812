package symbols

import (
	"fmt"
	"strings"
)

type SymbolKind int

const (
	TypeKind SymbolKind = iota
	GlobalVariable
	LocalVariable
	Parameter
	Function
)

func (k SymbolKind) String() string {
	switch k {
	case TypeKind:
		return "type"
	case GlobalVariable:
		return "global"
	case LocalVariable:
		return "local"
	case Parameter:
		return "parameter"
	case Function:
		return "function"
	default:
		return "unknown"
	}
}

type TypeSymbol struct {
	Name string
}

func (t *TypeSymbol) Kind() SymbolKind { return TypeKind }
func (t *TypeSymbol) String() string   { return t.Name }

var (
	Error  = &TypeSymbol{Name: "?"}
	Any    = &TypeSymbol{Name: "any"}
	Void   = &TypeSymbol{Name: "void"}
	Array  = &TypeSymbol{Name: "array"}
	Number = &TypeSymbol{Name: "number"}
	Bool   = &TypeSymbol{Name: "bool"}
	String = &TypeSymbol{Name: "string"}
)

var typesByName = map[string]*TypeSymbol{
	"any":    Any,
	"void":   Void,
	"array":  Array,
	"number": Number,
	"bool":   Bool,
	"string": String,
}

// LookupType resolves a type name; the empty name is treated as any.
func LookupType(name string) (*TypeSymbol, bool) {
	if name == "" {
		return Any, true
	}
	t, ok := typesByName[strings.ToLower(name)]
	return t, ok
}

// VariableSymbol is a storage identity. Two variables share a slot only when
// they are the same pointer.
type VariableSymbol struct {
	Name string
	Type *TypeSymbol
	kind SymbolKind
}

func NewGlobal(name string, t *TypeSymbol) *VariableSymbol {
	return &VariableSymbol{Name: name, Type: t, kind: GlobalVariable}
}

func NewLocal(name string, t *TypeSymbol) *VariableSymbol {
	return &VariableSymbol{Name: name, Type: t, kind: LocalVariable}
}

func NewParameter(name string, t *TypeSymbol) *VariableSymbol {
	return &VariableSymbol{Name: name, Type: t, kind: Parameter}
}

func (v *VariableSymbol) Kind() SymbolKind { return v.kind }
func (v *VariableSymbol) IsGlobal() bool   { return v.kind == GlobalVariable }
func (v *VariableSymbol) String() string   { return fmt.Sprintf("%s: %s", v.Name, v.Type) }

type FunctionSymbol struct {
	Name       string
	Parameters []*VariableSymbol
	Type       *TypeSymbol
}

func NewFunction(name string, params []*VariableSymbol, returns *TypeSymbol) *FunctionSymbol {
	return &FunctionSymbol{Name: name, Parameters: params, Type: returns}
}

func (f *FunctionSymbol) Kind() SymbolKind { return Function }

func (f *FunctionSymbol) String() string {
	var out strings.Builder
	out.WriteString(f.Name)
	out.WriteString("(")
	for i, p := range f.Parameters {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.String())
	}
	out.WriteString("): ")
	out.WriteString(f.Type.String())
	return out.String()
}
