// Package bound holds the lowered, type-checked program the evaluator runs.
// Structured control flow has already been flattened into labels and gotos.
package bound

import (
	"fmt"
	"sort"

	"casc/internal/object"
	"casc/internal/symbols"
)

type Node interface {
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
	Type() *symbols.TypeSymbol
}

// Label is a jump target. Labels are compared by identity.
type Label struct {
	Name string
}

func NewLabel(name string) *Label { return &Label{Name: name} }

func (l *Label) String() string { return l.Name }

// BlockStatement is a flattened function body.
type BlockStatement struct {
	Statements []Statement
}

func (bs *BlockStatement) String() string { return RenderText(bs) }

type VariableDeclaration struct {
	Variable    *symbols.VariableSymbol
	Initializer Expression
}

func (vd *VariableDeclaration) statementNode()  {}
func (vd *VariableDeclaration) String() string { return RenderText(vd) }

type ExpressionStatement struct {
	Expression Expression
}

func (es *ExpressionStatement) statementNode()  {}
func (es *ExpressionStatement) String() string { return RenderText(es) }

type GotoStatement struct {
	Label *Label
}

func (gs *GotoStatement) statementNode()  {}
func (gs *GotoStatement) String() string { return RenderText(gs) }

// ConditionalGotoStatement jumps when Condition evaluates to JumpIfTrue.
type ConditionalGotoStatement struct {
	Label      *Label
	Condition  Expression
	JumpIfTrue bool
}

func (cg *ConditionalGotoStatement) statementNode()  {}
func (cg *ConditionalGotoStatement) String() string { return RenderText(cg) }

type LabelStatement struct {
	Label *Label
}

func (ls *LabelStatement) statementNode()  {}
func (ls *LabelStatement) String() string { return RenderText(ls) }

// ReturnStatement's Expression is nil for a bare return.
type ReturnStatement struct {
	Expression Expression
}

func (rs *ReturnStatement) statementNode()  {}
func (rs *ReturnStatement) String() string { return RenderText(rs) }

type LiteralExpression struct {
	Value object.Object
}

func NewLiteral(v object.Object) *LiteralExpression { return &LiteralExpression{Value: v} }

func (le *LiteralExpression) expressionNode()           {}
func (le *LiteralExpression) Type() *symbols.TypeSymbol { return object.TypeOf(le.Value) }
func (le *LiteralExpression) String() string            { return RenderText(le) }

type ArrayExpression struct {
	Elements []Expression
}

func (ae *ArrayExpression) expressionNode()           {}
func (ae *ArrayExpression) Type() *symbols.TypeSymbol { return symbols.Array }
func (ae *ArrayExpression) String() string            { return RenderText(ae) }

type VariableExpression struct {
	Variable *symbols.VariableSymbol
}

func (ve *VariableExpression) expressionNode()           {}
func (ve *VariableExpression) Type() *symbols.TypeSymbol { return ve.Variable.Type }
func (ve *VariableExpression) String() string            { return RenderText(ve) }

type AssignmentExpression struct {
	Variable   *symbols.VariableSymbol
	Expression Expression
}

func (ae *AssignmentExpression) expressionNode()           {}
func (ae *AssignmentExpression) Type() *symbols.TypeSymbol { return ae.Variable.Type }
func (ae *AssignmentExpression) String() string            { return RenderText(ae) }

type UnaryExpression struct {
	Op      *UnaryOperator
	Operand Expression
}

func (ue *UnaryExpression) expressionNode()           {}
func (ue *UnaryExpression) Type() *symbols.TypeSymbol { return ue.Op.Type }
func (ue *UnaryExpression) String() string            { return RenderText(ue) }

type BinaryExpression struct {
	Left  Expression
	Op    *BinaryOperator
	Right Expression
}

func (be *BinaryExpression) expressionNode()           {}
func (be *BinaryExpression) Type() *symbols.TypeSymbol { return be.Op.Type }
func (be *BinaryExpression) String() string            { return RenderText(be) }

type CallExpression struct {
	Function  *symbols.FunctionSymbol
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()           {}
func (ce *CallExpression) Type() *symbols.TypeSymbol { return ce.Function.Type }
func (ce *CallExpression) String() string            { return RenderText(ce) }

type ConversionExpression struct {
	To         *symbols.TypeSymbol
	Expression Expression
}

func (ce *ConversionExpression) expressionNode()           {}
func (ce *ConversionExpression) Type() *symbols.TypeSymbol { return ce.To }
func (ce *ConversionExpression) String() string            { return RenderText(ce) }

// Program is one bound compilation unit. Previous links to the program of
// an earlier session turn; lookups prefer the closest program.
type Program struct {
	Functions map[*symbols.FunctionSymbol]*BlockStatement
	Globals   []*symbols.VariableSymbol
	Main      *symbols.FunctionSymbol
	Script    *symbols.FunctionSymbol
	Previous  *Program
}

func NewProgram(previous *Program) *Program {
	return &Program{
		Functions: make(map[*symbols.FunctionSymbol]*BlockStatement),
		Previous:  previous,
	}
}

// SortedFunctions returns this program's functions ordered by name.
func (p *Program) SortedFunctions() []*symbols.FunctionSymbol {
	fns := make([]*symbols.FunctionSymbol, 0, len(p.Functions))
	for fn := range p.Functions {
		fns = append(fns, fn)
	}
	sort.SliceStable(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	return fns
}

// LookupFunction finds a function by name along the chain, closest first.
// Script and main entry functions are not callable by name.
func (p *Program) LookupFunction(name string) (*symbols.FunctionSymbol, bool) {
	for prog := p; prog != nil; prog = prog.Previous {
		for fn := range prog.Functions {
			if fn.Name == name && fn != prog.Script {
				return fn, true
			}
		}
	}
	return nil, false
}

// LookupGlobal finds a global variable by name along the chain, closest first.
func (p *Program) LookupGlobal(name string) (*symbols.VariableSymbol, bool) {
	for prog := p; prog != nil; prog = prog.Previous {
		for _, v := range prog.Globals {
			if v.Name == name {
				return v, true
			}
		}
	}
	return nil, false
}

func (p *Program) String() string { return RenderText(p) }

// Validate checks the structural contract the evaluator relies on: entry
// functions have bodies and every jump targets a label in its own body.
func (p *Program) Validate() error {
	if p.Main != nil && p.Functions[p.Main] == nil {
		return fmt.Errorf("main function %s has no body", p.Main.Name)
	}
	if p.Script != nil && p.Functions[p.Script] == nil {
		return fmt.Errorf("script function has no body")
	}
	for _, fn := range p.SortedFunctions() {
		if err := validateLabels(fn, p.Functions[fn]); err != nil {
			return err
		}
	}
	return nil
}

func validateLabels(fn *symbols.FunctionSymbol, body *BlockStatement) error {
	if body == nil {
		return fmt.Errorf("function %s has no body", fn.Name)
	}
	defined := make(map[*Label]bool)
	for _, s := range body.Statements {
		if ls, ok := s.(*LabelStatement); ok {
			if defined[ls.Label] {
				return fmt.Errorf("function %s: label %s is defined twice", fn.Name, ls.Label)
			}
			defined[ls.Label] = true
		}
	}
	for _, s := range body.Statements {
		var target *Label
		switch s := s.(type) {
		case *GotoStatement:
			target = s.Label
		case *ConditionalGotoStatement:
			target = s.Label
		}
		if target != nil && !defined[target] {
			return fmt.Errorf("function %s: jump to undefined label %s", fn.Name, target)
		}
	}
	return nil
}
