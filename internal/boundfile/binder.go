package boundfile

import (
	"fmt"
	"sort"

	"casc/internal/bound"
	"casc/internal/dec64"
	"casc/internal/lexer"
	"casc/internal/numeral"
	"casc/internal/object"
	"casc/internal/symbols"
	"casc/internal/token"
)

// ScriptName names the synthesized function holding top-level statements.
const ScriptName = "$script"

type binder struct {
	program   *bound.Program
	globals   map[string]*symbols.VariableSymbol
	functions map[string]*symbols.FunctionSymbol
	issues    []string
}

// scope tracks the names and labels of one function body.
type scope struct {
	fn      *symbols.FunctionSymbol
	where   string
	locals  map[string]*symbols.VariableSymbol
	labels  map[string]*bound.Label
	defined map[string]bool
	script  bool
}

func bind(file *programFile, previous *bound.Program) (*bound.Program, []string) {
	b := &binder{
		program:   bound.NewProgram(previous),
		globals:   make(map[string]*symbols.VariableSymbol),
		functions: make(map[string]*symbols.FunctionSymbol),
	}

	for i, g := range file.Globals {
		b.declareGlobal(g.Name, b.lookupType(fmt.Sprintf("globals[%d]", i), g.Type))
	}

	declared := make([]*symbols.FunctionSymbol, len(file.Functions))
	for i, raw := range file.Functions {
		declared[i] = b.declareFunction(i, raw)
	}

	if len(file.Script) > 0 {
		fn := symbols.NewFunction(ScriptName, nil, symbols.Any)
		b.program.Script = fn
		b.program.Functions[fn] = b.bindBody(newScope(fn, "script", true), file.Script)
	}

	for i, raw := range file.Functions {
		if declared[i] == nil {
			continue
		}
		s := newScope(declared[i], "function "+raw.Name, false)
		for _, p := range declared[i].Parameters {
			s.locals[p.Name] = p
		}
		b.program.Functions[declared[i]] = b.bindBody(s, raw.Body)
	}

	if file.Main != "" {
		fn, ok := b.functions[file.Main]
		switch {
		case !ok:
			b.issuef("main: function %s is not defined in this file", file.Main)
		case len(fn.Parameters) > 0:
			b.issuef("main: function %s must not take parameters", file.Main)
		default:
			b.program.Main = fn
		}
	}
	return b.program, b.issues
}

func newScope(fn *symbols.FunctionSymbol, where string, script bool) *scope {
	return &scope{
		fn:      fn,
		where:   where,
		locals:  make(map[string]*symbols.VariableSymbol),
		labels:  make(map[string]*bound.Label),
		defined: make(map[string]bool),
		script:  script,
	}
}

func (b *binder) issuef(format string, a ...any) {
	b.issues = append(b.issues, fmt.Sprintf(format, a...))
}

func (b *binder) lookupType(where, name string) *symbols.TypeSymbol {
	t, ok := symbols.LookupType(name)
	if !ok {
		b.issuef("%s: unknown type %q", where, name)
		return symbols.Error
	}
	return t
}

func (b *binder) declareGlobal(name string, t *symbols.TypeSymbol) *symbols.VariableSymbol {
	if name == "" {
		b.issuef("globals: variable without a name")
		return symbols.NewGlobal("?", t)
	}
	if _, dup := b.globals[name]; dup {
		b.issuef("globals: variable %s is declared twice", name)
	}
	v := symbols.NewGlobal(name, t)
	b.globals[name] = v
	b.program.Globals = append(b.program.Globals, v)
	return v
}

func (b *binder) declareFunction(i int, raw rawFunction) *symbols.FunctionSymbol {
	where := fmt.Sprintf("functions[%d]", i)
	switch {
	case raw.Name == "":
		b.issuef("%s: function without a name", where)
		return nil
	case raw.Name == ScriptName:
		b.issuef("%s: %s is reserved", where, ScriptName)
		return nil
	}
	if _, ok := symbols.LookupBuiltin(raw.Name); ok {
		b.issuef("%s: function %s shadows a builtin", where, raw.Name)
		return nil
	}
	if _, dup := b.functions[raw.Name]; dup {
		b.issuef("%s: function %s is declared twice", where, raw.Name)
		return nil
	}

	seen := make(map[string]bool)
	params := make([]*symbols.VariableSymbol, 0, len(raw.Params))
	for _, p := range raw.Params {
		if seen[p.Name] {
			b.issuef("function %s: parameter %s is declared twice", raw.Name, p.Name)
		}
		seen[p.Name] = true
		params = append(params, symbols.NewParameter(p.Name, b.lookupType("function "+raw.Name, p.Type)))
	}

	returns := symbols.Void
	if raw.Returns != "" {
		returns = b.lookupType("function "+raw.Name, raw.Returns)
	}
	fn := symbols.NewFunction(raw.Name, params, returns)
	b.functions[raw.Name] = fn
	return fn
}

func (b *binder) bindBody(s *scope, stmts []rawStatement) *bound.BlockStatement {
	body := &bound.BlockStatement{}
	for i := range stmts {
		if stmt := b.bindStatement(s, fmt.Sprintf("%s: statement %d", s.where, i+1), &stmts[i]); stmt != nil {
			body.Statements = append(body.Statements, stmt)
		}
	}
	names := make([]string, 0, len(s.labels))
	for name := range s.labels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !s.defined[name] {
			b.issuef("%s: label %s is never defined", s.where, name)
		}
	}
	return body
}

func (s *scope) label(name string) *bound.Label {
	l, ok := s.labels[name]
	if !ok {
		l = bound.NewLabel(name)
		s.labels[name] = l
	}
	return l
}

func (b *binder) bindStatement(s *scope, where string, raw *rawStatement) bound.Statement {
	if n := raw.keys(); n != 1 {
		b.issuef("%s: expected exactly one statement kind, got %d", where, n)
		return nil
	}

	switch {
	case raw.Declare != nil:
		return b.bindDeclaration(s, where, raw.Declare)

	case raw.Expr != nil:
		return &bound.ExpressionStatement{Expression: b.bindExpression(s, where, raw.Expr)}

	case raw.Goto != "":
		return &bound.GotoStatement{Label: s.label(raw.Goto)}

	case raw.GotoIf != nil:
		if raw.GotoIf.Label == "" {
			b.issuef("%s: conditional goto without a label", where)
			return nil
		}
		cond := b.bindExpression(s, where, &raw.GotoIf.Cond)
		b.expectType(where, "condition", symbols.Bool, cond.Type())
		return &bound.ConditionalGotoStatement{
			Label:      s.label(raw.GotoIf.Label),
			Condition:  cond,
			JumpIfTrue: raw.GotoIf.JumpIfTrue,
		}

	case raw.Label != "":
		if s.defined[raw.Label] {
			b.issuef("%s: label %s is defined twice", where, raw.Label)
		}
		s.defined[raw.Label] = true
		return &bound.LabelStatement{Label: s.label(raw.Label)}

	default:
		return b.bindReturn(s, where, raw.Return)
	}
}

func (b *binder) bindDeclaration(s *scope, where string, raw *rawDeclare) bound.Statement {
	if raw.Name == "" {
		b.issuef("%s: declaration without a name", where)
		return nil
	}
	init := b.bindExpression(s, where, &raw.Init)

	t := init.Type()
	if raw.Type != "" {
		t = b.lookupType(where, raw.Type)
		b.expectType(where, "initializer of "+raw.Name, t, init.Type())
	} else if t == symbols.Void {
		t = symbols.Any
	}

	var v *symbols.VariableSymbol
	if s.script {
		v = b.declareGlobal(raw.Name, t)
	} else {
		if _, dup := s.locals[raw.Name]; dup {
			b.issuef("%s: variable %s is already declared", where, raw.Name)
		}
		v = symbols.NewLocal(raw.Name, t)
		s.locals[raw.Name] = v
	}
	return &bound.VariableDeclaration{Variable: v, Initializer: init}
}

func (b *binder) bindReturn(s *scope, where string, raw *rawExpr) bound.Statement {
	if raw.keys() == 0 {
		if s.fn.Type != symbols.Void && !s.script {
			b.issuef("%s: function %s must return a %s", where, s.fn.Name, s.fn.Type)
		}
		return &bound.ReturnStatement{}
	}
	value := b.bindExpression(s, where, raw)
	if s.fn.Type == symbols.Void {
		b.issuef("%s: function %s returns nothing", where, s.fn.Name)
	} else {
		b.expectType(where, "return value", s.fn.Type, value.Type())
	}
	return &bound.ReturnStatement{Expression: value}
}

// expectType reports when a value of type got cannot flow into want.
func (b *binder) expectType(where, what string, want, got *symbols.TypeSymbol) {
	if want == symbols.Any || want == symbols.Error || got == symbols.Error || want == got {
		return
	}
	b.issuef("%s: %s must be %s, not %s", where, what, want, got)
}

func (b *binder) lookupVariable(s *scope, name string) (*symbols.VariableSymbol, bool) {
	if v, ok := s.locals[name]; ok {
		return v, true
	}
	if v, ok := b.globals[name]; ok {
		return v, true
	}
	if b.program.Previous != nil {
		return b.program.Previous.LookupGlobal(name)
	}
	return nil, false
}

func (b *binder) lookupFunction(name string) (*symbols.FunctionSymbol, bool) {
	if fn, ok := b.functions[name]; ok {
		return fn, true
	}
	if b.program.Previous != nil {
		if fn, ok := b.program.Previous.LookupFunction(name); ok {
			return fn, true
		}
	}
	return symbols.LookupBuiltin(name)
}

// errorExpression stands in for an expression that failed to bind so that
// binding can continue and report every issue at once.
func errorExpression() bound.Expression {
	return &bound.ConversionExpression{To: symbols.Error, Expression: bound.NewLiteral(object.NIL)}
}

func (b *binder) bindExpression(s *scope, where string, raw *rawExpr) bound.Expression {
	if n := raw.keys(); n != 1 {
		b.issuef("%s: expected exactly one expression kind, got %d", where, n)
		return errorExpression()
	}

	switch {
	case raw.Number != nil:
		return b.bindNumber(where, *raw.Number)

	case raw.String != nil:
		return bound.NewLiteral(object.NewString(*raw.String))

	case raw.Bool != nil:
		return bound.NewLiteral(object.NativeBoolToBooleanObject(*raw.Bool))

	case raw.Nil != nil:
		return bound.NewLiteral(object.NIL)

	case raw.Array != nil:
		elements := make([]bound.Expression, 0, len(*raw.Array))
		for i := range *raw.Array {
			elements = append(elements, b.bindExpression(s, where, &(*raw.Array)[i]))
		}
		return &bound.ArrayExpression{Elements: elements}

	case raw.Var != "":
		v, ok := b.lookupVariable(s, raw.Var)
		if !ok {
			b.issuef("%s: undefined variable %s", where, raw.Var)
			return errorExpression()
		}
		return &bound.VariableExpression{Variable: v}

	case raw.Assign != nil:
		value := b.bindExpression(s, where, &raw.Assign.Value)
		v, ok := b.lookupVariable(s, raw.Assign.Name)
		if !ok {
			b.issuef("%s: undefined variable %s", where, raw.Assign.Name)
			return errorExpression()
		}
		b.expectType(where, "value assigned to "+v.Name, v.Type, value.Type())
		return &bound.AssignmentExpression{Variable: v, Expression: value}

	case raw.Unary != nil:
		return b.bindUnary(s, where, raw.Unary)

	case raw.Binary != nil:
		return b.bindBinary(s, where, raw.Binary)

	case raw.Call != nil:
		return b.bindCall(s, where, raw.Call)

	default:
		value := b.bindExpression(s, where, &raw.Convert.Value)
		to := b.lookupType(where, raw.Convert.Type)
		switch to {
		case symbols.Any, symbols.String, symbols.Bool, symbols.Number:
		case symbols.Error:
			return errorExpression()
		default:
			b.issuef("%s: cannot convert to %s", where, to)
			return errorExpression()
		}
		return &bound.ConversionExpression{To: to, Expression: value}
	}
}

// bindNumber accepts decimal, Chinese and fractional spellings.
func (b *binder) bindNumber(where, raw string) bound.Expression {
	if raw == "" {
		b.issuef("%s: empty number literal", where)
		return errorExpression()
	}
	if v, ok := numeral.Parse(raw); ok {
		return bound.NewLiteral(object.NewNumberInt(v))
	}
	d, err := dec64.FromString(raw)
	if err != nil {
		b.issuef("%s: %q is not a valid number", where, raw)
		return errorExpression()
	}
	return bound.NewLiteral(object.NewNumber(d))
}

// operatorToken lexes an operator spelling, which may be Latin or Chinese.
func (b *binder) operatorToken(where, op string) (token.Token, bool) {
	tokens, diagnostics := lexer.Tokenize(op)
	if !diagnostics.Empty() || len(tokens) != 2 {
		b.issuef("%s: %q is not an operator", where, op)
		return token.Token{}, false
	}
	return tokens[0], true
}

func (b *binder) bindUnary(s *scope, where string, raw *rawUnary) bound.Expression {
	operand := b.bindExpression(s, where, &raw.Operand)
	tok, ok := b.operatorToken(where, raw.Op)
	if !ok {
		return errorExpression()
	}
	kind, ok := bound.UnaryKindFor(tok.Type)
	if !ok {
		b.issuef("%s: %q is not a unary operator", where, raw.Op)
		return errorExpression()
	}
	if operand.Type() == symbols.Error {
		return errorExpression()
	}
	op, ok := bound.BindUnaryOperator(kind, operand.Type())
	if !ok {
		b.issuef("%s: unary operator %s is not defined for %s", where, raw.Op, operand.Type())
		return errorExpression()
	}
	return &bound.UnaryExpression{Op: op, Operand: operand}
}

func (b *binder) bindBinary(s *scope, where string, raw *rawBinary) bound.Expression {
	left := b.bindExpression(s, where, &raw.Left)
	right := b.bindExpression(s, where, &raw.Right)
	tok, ok := b.operatorToken(where, raw.Op)
	if !ok {
		return errorExpression()
	}
	kind, ok := bound.BinaryKindFor(tok.Literal)
	if !ok {
		b.issuef("%s: %q is not a binary operator", where, raw.Op)
		return errorExpression()
	}
	if left.Type() == symbols.Error || right.Type() == symbols.Error {
		return errorExpression()
	}
	op, ok := bound.BindBinaryOperator(kind, left.Type(), right.Type())
	if !ok {
		b.issuef("%s: binary operator %s is not defined for %s and %s", where, raw.Op, left.Type(), right.Type())
		return errorExpression()
	}
	return &bound.BinaryExpression{Left: left, Op: op, Right: right}
}

func (b *binder) bindCall(s *scope, where string, raw *rawCall) bound.Expression {
	args := make([]bound.Expression, 0, len(raw.Args))
	for i := range raw.Args {
		args = append(args, b.bindExpression(s, where, &raw.Args[i]))
	}
	fn, ok := b.lookupFunction(raw.Name)
	if !ok {
		b.issuef("%s: undefined function %s", where, raw.Name)
		return errorExpression()
	}
	if len(args) != len(fn.Parameters) {
		b.issuef("%s: %s takes %d arguments, got %d", where, fn.Name, len(fn.Parameters), len(args))
		return errorExpression()
	}
	for i, arg := range args {
		p := fn.Parameters[i]
		b.expectType(where, fmt.Sprintf("argument %s of %s", p.Name, fn.Name), p.Type, arg.Type())
	}
	return &bound.CallExpression{Function: fn, Arguments: args}
}
