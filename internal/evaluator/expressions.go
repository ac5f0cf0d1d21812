package evaluator

import (
	"strings"

	"casc/internal/bound"
	"casc/internal/dec64"
	"casc/internal/numeral"
	"casc/internal/object"
	"casc/internal/symbols"
)

func (e *Evaluator) Eval(node bound.Expression) object.Object {
	switch node := node.(type) {
	case *bound.LiteralExpression:
		return node.Value

	case *bound.ArrayExpression:
		elements := make([]object.Object, len(node.Elements))
		for i, el := range node.Elements {
			elements[i] = e.Eval(el)
		}
		return object.NewArray(elements)

	case *bound.VariableExpression:
		return e.load(node.Variable)

	case *bound.AssignmentExpression:
		val := e.Eval(node.Expression)
		e.store(node.Variable, val)
		return val

	case *bound.UnaryExpression:
		return e.evalUnaryExpression(node.Op, e.Eval(node.Operand))

	case *bound.BinaryExpression:
		// both sides are always evaluated, && and || included
		left := e.Eval(node.Left)
		right := e.Eval(node.Right)
		return e.evalBinaryExpression(node.Op, left, right)

	case *bound.CallExpression:
		return e.evalCallExpression(node)

	case *bound.ConversionExpression:
		return e.evalConversion(node.To, e.Eval(node.Expression))
	}

	panic(internalErrorf("unexpected expression %T", node))
}

func (e *Evaluator) evalBool(node bound.Expression) bool {
	return e.asBool(e.Eval(node))
}

func (e *Evaluator) asBool(obj object.Object) bool {
	b, ok := obj.(*object.Boolean)
	if !ok {
		panic(internalErrorf("expected bool, got %s", obj.Type()))
	}
	return b.Value
}

func (e *Evaluator) asNumber(obj object.Object) dec64.Dec64 {
	n, ok := obj.(*object.Number)
	if !ok {
		panic(internalErrorf("expected number, got %s", obj.Type()))
	}
	return n.Value
}

func (e *Evaluator) asString(obj object.Object) string {
	s, ok := obj.(*object.String)
	if !ok {
		panic(internalErrorf("expected string, got %s", obj.Type()))
	}
	return s.Value
}

func (e *Evaluator) evalUnaryExpression(op *bound.UnaryOperator, operand object.Object) object.Object {
	switch op.Kind {
	case bound.Identity:
		return object.NewNumber(e.asNumber(operand))
	case bound.Negation:
		return object.NewNumber(e.asNumber(operand).Neg())
	case bound.OnesComplement:
		return object.NewNumber(e.asNumber(operand).Not())
	case bound.LogicalNegation:
		return object.NativeBoolToBooleanObject(!e.asBool(operand))
	}
	panic(internalErrorf("unexpected unary operator %s", op.Spelling))
}

func (e *Evaluator) evalBinaryExpression(op *bound.BinaryOperator, left, right object.Object) object.Object {
	switch op.Kind {
	case bound.Equals:
		return object.NativeBoolToBooleanObject(object.Equals(left, right))
	case bound.NotEquals:
		return object.NativeBoolToBooleanObject(!object.Equals(left, right))

	case bound.Addition:
		if op.Type == symbols.String {
			return object.NewString(e.asString(left) + e.asString(right))
		}
		return object.NewNumber(e.asNumber(left).Add(e.asNumber(right)))
	case bound.Subtraction:
		return object.NewNumber(e.asNumber(left).Sub(e.asNumber(right)))
	case bound.Multiplication:
		return object.NewNumber(e.asNumber(left).Mul(e.asNumber(right)))
	case bound.Division:
		return object.NewNumber(e.asNumber(left).Quo(e.asNumber(right)))

	case bound.LogicalAnd:
		return object.NativeBoolToBooleanObject(e.asBool(left) && e.asBool(right))
	case bound.LogicalOr:
		return object.NativeBoolToBooleanObject(e.asBool(left) || e.asBool(right))

	case bound.BitwiseAnd, bound.BitwiseOr, bound.BitwiseXor:
		if op.Type == symbols.Bool {
			return e.evalBooleanBitwise(op.Kind, e.asBool(left), e.asBool(right))
		}
		return e.evalNumberBitwise(op.Kind, e.asNumber(left), e.asNumber(right))

	case bound.Less:
		return object.NativeBoolToBooleanObject(e.asNumber(left).Cmp(e.asNumber(right)) < 0)
	case bound.LessOrEquals:
		return object.NativeBoolToBooleanObject(e.asNumber(left).Cmp(e.asNumber(right)) <= 0)
	case bound.Greater:
		return object.NativeBoolToBooleanObject(e.asNumber(left).Cmp(e.asNumber(right)) > 0)
	case bound.GreaterOrEquals:
		return object.NativeBoolToBooleanObject(e.asNumber(left).Cmp(e.asNumber(right)) >= 0)
	}
	panic(internalErrorf("unexpected binary operator %s", op.Spelling))
}

func (e *Evaluator) evalBooleanBitwise(kind bound.BinaryOperatorKind, l, r bool) object.Object {
	switch kind {
	case bound.BitwiseAnd:
		return object.NativeBoolToBooleanObject(l && r)
	case bound.BitwiseOr:
		return object.NativeBoolToBooleanObject(l || r)
	default:
		return object.NativeBoolToBooleanObject(l != r)
	}
}

func (e *Evaluator) evalNumberBitwise(kind bound.BinaryOperatorKind, l, r dec64.Dec64) object.Object {
	switch kind {
	case bound.BitwiseAnd:
		return object.NewNumber(l.And(r))
	case bound.BitwiseOr:
		return object.NewNumber(l.Or(r))
	default:
		return object.NewNumber(l.Xor(r))
	}
}

// evalConversion widens or parses a value into the target type. Targets
// other than any, bool, number and string are internal errors; values that
// do not parse are runtime errors.
func (e *Evaluator) evalConversion(to *symbols.TypeSymbol, val object.Object) object.Object {
	switch to {
	case symbols.Any:
		return val

	case symbols.String:
		if s, ok := val.(*object.String); ok {
			return s
		}
		return object.NewString(object.Text(val))

	case symbols.Bool:
		switch val := val.(type) {
		case *object.Boolean:
			return val
		case *object.Number:
			return object.NativeBoolToBooleanObject(!val.Value.IsZero())
		case *object.String:
			switch strings.ToLower(strings.TrimSpace(val.Value)) {
			case "true":
				return object.TRUE
			case "false":
				return object.FALSE
			}
		}

	case symbols.Number:
		switch val := val.(type) {
		case *object.Number:
			return val
		case *object.Boolean:
			if val.Value {
				return object.NewNumberInt(1)
			}
			return object.NewNumberInt(0)
		case *object.String:
			if n, ok := parseNumber(val.Value); ok {
				return object.NewNumber(n)
			}
		}

	default:
		panic(internalErrorf("unsupported conversion to %s", to))
	}

	panic(e.runtimeErrorf("cannot convert %s %q to %s", val.Type(), object.Text(val), to))
}

// parseNumber accepts decimal text and, failing that, Chinese numerals.
func parseNumber(s string) (dec64.Dec64, bool) {
	if n, err := dec64.FromString(s); err == nil {
		return n, true
	}
	if v, ok := numeral.Parse(strings.TrimSpace(s)); ok {
		return dec64.FromInt64(v), true
	}
	return dec64.NaN, false
}
