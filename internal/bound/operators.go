package bound

import (
	"casc/internal/symbols"
	"casc/internal/token"
)

type UnaryOperatorKind int

const (
	Identity UnaryOperatorKind = iota
	Negation
	LogicalNegation
	OnesComplement
)

type UnaryOperator struct {
	Spelling    string
	Kind        UnaryOperatorKind
	OperandType *symbols.TypeSymbol
	Type        *symbols.TypeSymbol
}

type BinaryOperatorKind int

const (
	Addition BinaryOperatorKind = iota
	Subtraction
	Multiplication
	Division
	LogicalAnd
	LogicalOr
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	Equals
	NotEquals
	Less
	LessOrEquals
	Greater
	GreaterOrEquals
)

type BinaryOperator struct {
	Spelling  string
	Kind      BinaryOperatorKind
	LeftType  *symbols.TypeSymbol
	RightType *symbols.TypeSymbol
	Type      *symbols.TypeSymbol
}

var unaryKinds = map[token.TokenType]UnaryOperatorKind{
	token.PLUS:       Identity,
	token.MINUS:      Negation,
	token.BANG:       LogicalNegation,
	token.COMPLEMENT: OnesComplement,
}

// Single-character & and | have no token of their own, so they are keyed by
// spelling.
var binaryKinds = map[string]BinaryOperatorKind{
	token.PLUS:        Addition,
	token.MINUS:       Subtraction,
	token.ASTERISK:    Multiplication,
	token.SLASH:       Division,
	token.LOGICAL_AND: LogicalAnd,
	token.LOGICAL_OR:  LogicalOr,
	"&":               BitwiseAnd,
	"|":               BitwiseOr,
	token.BITWISE_XOR: BitwiseXor,
	token.EQ:          Equals,
	token.NOT_EQ:      NotEquals,
	token.LT:          Less,
	token.LT_EQ:       LessOrEquals,
	token.GT:          Greater,
	token.GT_EQ:       GreaterOrEquals,
}

var unaryOperators = []*UnaryOperator{
	{"!", LogicalNegation, symbols.Bool, symbols.Bool},
	{"+", Identity, symbols.Number, symbols.Number},
	{"-", Negation, symbols.Number, symbols.Number},
	{"~", OnesComplement, symbols.Number, symbols.Number},
}

var binaryOperators = func() []*BinaryOperator {
	n, b, s, a := symbols.Number, symbols.Bool, symbols.String, symbols.Any
	return []*BinaryOperator{
		{"+", Addition, n, n, n},
		{"-", Subtraction, n, n, n},
		{"*", Multiplication, n, n, n},
		{"/", Division, n, n, n},
		{"&", BitwiseAnd, n, n, n},
		{"|", BitwiseOr, n, n, n},
		{"^", BitwiseXor, n, n, n},
		{"==", Equals, n, n, b},
		{"!=", NotEquals, n, n, b},
		{"<", Less, n, n, b},
		{"<=", LessOrEquals, n, n, b},
		{">", Greater, n, n, b},
		{">=", GreaterOrEquals, n, n, b},

		{"&&", LogicalAnd, b, b, b},
		{"||", LogicalOr, b, b, b},
		{"&", BitwiseAnd, b, b, b},
		{"|", BitwiseOr, b, b, b},
		{"^", BitwiseXor, b, b, b},
		{"==", Equals, b, b, b},
		{"!=", NotEquals, b, b, b},

		{"+", Addition, s, s, s},
		{"==", Equals, s, s, b},
		{"!=", NotEquals, s, s, b},

		{"==", Equals, symbols.Array, symbols.Array, b},
		{"!=", NotEquals, symbols.Array, symbols.Array, b},

		{"==", Equals, a, a, b},
		{"!=", NotEquals, a, a, b},
	}
}()

// UnaryKindFor maps an operator token to its unary kind.
func UnaryKindFor(t token.TokenType) (UnaryOperatorKind, bool) {
	k, ok := unaryKinds[t]
	return k, ok
}

// BinaryKindFor maps a canonical operator spelling to its binary kind.
func BinaryKindFor(spelling string) (BinaryOperatorKind, bool) {
	k, ok := binaryKinds[spelling]
	return k, ok
}

func BindUnaryOperator(kind UnaryOperatorKind, operand *symbols.TypeSymbol) (*UnaryOperator, bool) {
	for _, op := range unaryOperators {
		if op.Kind == kind && op.OperandType == operand {
			return op, true
		}
	}
	return nil, false
}

// BindBinaryOperator picks the overload for the operand types. Equality
// falls back to the any overload when the operand types differ.
func BindBinaryOperator(kind BinaryOperatorKind, left, right *symbols.TypeSymbol) (*BinaryOperator, bool) {
	for _, op := range binaryOperators {
		if op.Kind == kind && op.LeftType == left && op.RightType == right {
			return op, true
		}
	}
	if kind == Equals || kind == NotEquals {
		for _, op := range binaryOperators {
			if op.Kind == kind && op.LeftType == symbols.Any {
				return op, true
			}
		}
	}
	return nil, false
}
