package bound

import (
	"strings"
	"testing"

	"casc/internal/object"
	"casc/internal/symbols"
	"casc/internal/token"
)

func num(v int64) *LiteralExpression { return NewLiteral(object.NewNumberInt(v)) }

func TestBindBinaryOperator(t *testing.T) {
	tests := []struct {
		kind        BinaryOperatorKind
		left, right *symbols.TypeSymbol
		result      *symbols.TypeSymbol
		ok          bool
	}{
		{Addition, symbols.Number, symbols.Number, symbols.Number, true},
		{Addition, symbols.String, symbols.String, symbols.String, true},
		{Addition, symbols.Bool, symbols.Bool, nil, false},
		{BitwiseAnd, symbols.Bool, symbols.Bool, symbols.Bool, true},
		{BitwiseXor, symbols.Number, symbols.Number, symbols.Number, true},
		{LogicalOr, symbols.Number, symbols.Number, nil, false},
		{Less, symbols.Number, symbols.Number, symbols.Bool, true},
		{Equals, symbols.Array, symbols.Array, symbols.Bool, true},
		{Equals, symbols.Number, symbols.String, symbols.Bool, true},
		{NotEquals, symbols.Any, symbols.Bool, symbols.Bool, true},
	}
	for _, tt := range tests {
		op, ok := BindBinaryOperator(tt.kind, tt.left, tt.right)
		if ok != tt.ok {
			t.Errorf("BindBinaryOperator(%d, %s, %s): expected ok=%t", tt.kind, tt.left, tt.right, tt.ok)
			continue
		}
		if ok && op.Type != tt.result {
			t.Errorf("BindBinaryOperator(%d, %s, %s): expected %s, got %s", tt.kind, tt.left, tt.right, tt.result, op.Type)
		}
	}
}

func TestOperatorKindsFromTokens(t *testing.T) {
	if k, ok := UnaryKindFor(token.MINUS); !ok || k != Negation {
		t.Errorf("minus must bind as negation in unary position")
	}
	if k, ok := BinaryKindFor(token.MINUS); !ok || k != Subtraction {
		t.Errorf("minus must bind as subtraction in binary position")
	}
	if k, ok := BinaryKindFor("&"); !ok || k != BitwiseAnd {
		t.Errorf("& must bind as bitwise and")
	}
	if _, ok := BinaryKindFor(token.ASSIGN); ok {
		t.Errorf("= is not a binary operator")
	}
	if op, ok := BindUnaryOperator(LogicalNegation, symbols.Bool); !ok || op.Type != symbols.Bool {
		t.Errorf("expected logical negation on bool")
	}
	if _, ok := BindUnaryOperator(LogicalNegation, symbols.Number); ok {
		t.Errorf("logical negation must not bind on numbers")
	}
}

func TestLookupClosestFirst(t *testing.T) {
	first := NewProgram(nil)
	oldF := symbols.NewFunction("f", nil, symbols.Number)
	onlyOld := symbols.NewFunction("g", nil, symbols.Number)
	first.Functions[oldF] = &BlockStatement{}
	first.Functions[onlyOld] = &BlockStatement{}
	x := symbols.NewGlobal("x", symbols.Number)
	first.Globals = []*symbols.VariableSymbol{x}

	second := NewProgram(first)
	newF := symbols.NewFunction("f", nil, symbols.Number)
	second.Functions[newF] = &BlockStatement{}

	if fn, _ := second.LookupFunction("f"); fn != newF {
		t.Errorf("expected the redefined function to win")
	}
	if fn, _ := second.LookupFunction("g"); fn != onlyOld {
		t.Errorf("expected the earlier function to stay reachable")
	}
	if v, ok := second.LookupGlobal("x"); !ok || v != x {
		t.Errorf("expected global from previous program")
	}
	if _, ok := second.LookupFunction("missing"); ok {
		t.Errorf("unexpected function")
	}
}

func TestValidate(t *testing.T) {
	l := NewLabel("L")
	fn := symbols.NewFunction("loop", nil, symbols.Void)

	p := NewProgram(nil)
	p.Functions[fn] = &BlockStatement{Statements: []Statement{
		&LabelStatement{Label: l},
		&GotoStatement{Label: l},
	}}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Functions[fn].Statements = append(p.Functions[fn].Statements, &GotoStatement{Label: NewLabel("L")})
	if err := p.Validate(); err == nil || !strings.Contains(err.Error(), "undefined label L") {
		t.Errorf("expected undefined label error, got %v", err)
	}

	p.Functions[fn].Statements = []Statement{&LabelStatement{Label: l}, &LabelStatement{Label: l}}
	if err := p.Validate(); err == nil {
		t.Errorf("expected duplicate label error")
	}

	p.Main = symbols.NewFunction("main", nil, symbols.Void)
	if err := p.Validate(); err == nil {
		t.Errorf("expected error for main without body")
	}
}

func TestRenderText(t *testing.T) {
	n := symbols.NewParameter("n", symbols.Number)
	fact := symbols.NewFunction("fact", []*symbols.VariableSymbol{n}, symbols.Number)
	le, _ := BindBinaryOperator(LessOrEquals, symbols.Number, symbols.Number)
	mul, _ := BindBinaryOperator(Multiplication, symbols.Number, symbols.Number)
	sub, _ := BindBinaryOperator(Subtraction, symbols.Number, symbols.Number)
	rec := NewLabel("rec")

	p := NewProgram(nil)
	p.Functions[fact] = &BlockStatement{Statements: []Statement{
		&ConditionalGotoStatement{Label: rec, Condition: &BinaryExpression{&VariableExpression{n}, le, num(1)}, JumpIfTrue: false},
		&ReturnStatement{Expression: num(1)},
		&LabelStatement{Label: rec},
		&ReturnStatement{Expression: &BinaryExpression{
			&VariableExpression{n}, mul,
			&CallExpression{Function: fact, Arguments: []Expression{&BinaryExpression{&VariableExpression{n}, sub, num(1)}}},
		}},
	}}

	expected := `fact(n: number): number {
  goto rec unless (n <= 1)
  return 1
rec:
  return (n * fact((n - 1)))
}`
	if got := RenderText(p); got != expected {
		t.Errorf("unexpected render:\n%s\nwant\n%s", got, expected)
	}
}

func TestRenderExpressions(t *testing.T) {
	neg, _ := BindUnaryOperator(Negation, symbols.Number)
	x := symbols.NewGlobal("x", symbols.Any)
	tests := []struct {
		node     Node
		expected string
	}{
		{NewLiteral(object.NewString("五")), `"五"`},
		{NewLiteral(object.NIL), "nil"},
		{&ArrayExpression{Elements: []Expression{num(1), num(2)}}, "[1, 2]"},
		{&UnaryExpression{Op: neg, Operand: num(3)}, "(-3)"},
		{&AssignmentExpression{Variable: x, Expression: num(4)}, "(x = 4)"},
		{&ConversionExpression{To: symbols.String, Expression: &VariableExpression{x}}, "string(x)"},
		{&ReturnStatement{}, "return"},
		{&VariableDeclaration{Variable: x, Initializer: num(0)}, "let x: any = 0"},
	}
	for _, tt := range tests {
		if got := RenderText(tt.node); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}
