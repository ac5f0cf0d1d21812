package object

import (
	"sort"

	"casc/internal/symbols"
)

// Frame holds the locals and parameters of one active call, keyed by
// variable identity rather than name.
type Frame struct {
	Function *symbols.FunctionSymbol
	values   map[*symbols.VariableSymbol]Object
}

func NewFrame(fn *symbols.FunctionSymbol) *Frame {
	return &Frame{
		Function: fn,
		values:   make(map[*symbols.VariableSymbol]Object),
	}
}

func (f *Frame) Get(v *symbols.VariableSymbol) (Object, bool) {
	val, ok := f.values[v]
	return val, ok
}

func (f *Frame) Set(v *symbols.VariableSymbol, val Object) {
	f.values[v] = val
}

func (f *Frame) Len() int { return len(f.values) }

// Globals is the session-wide store for global variables. It lives as long
// as the session and is shared by every call depth and every evaluation.
// It is not safe for concurrent use.
type Globals struct {
	values map[*symbols.VariableSymbol]Object
}

func NewGlobals() *Globals {
	return &Globals{values: make(map[*symbols.VariableSymbol]Object)}
}

func (g *Globals) Get(v *symbols.VariableSymbol) (Object, bool) {
	val, ok := g.values[v]
	return val, ok
}

func (g *Globals) Set(v *symbols.VariableSymbol, val Object) {
	g.values[v] = val
}

func (g *Globals) Len() int { return len(g.values) }

// Variables lists the stored globals ordered by name.
func (g *Globals) Variables() []*symbols.VariableSymbol {
	vars := make([]*symbols.VariableSymbol, 0, len(g.values))
	for v := range g.values {
		vars = append(vars, v)
	}
	sort.SliceStable(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
