package token

import "fmt"

type TokenType string

const (
	BAD        = "BAD"
	EOF        = "EOF"
	WHITESPACE = "WHITESPACE"

	// Identifiers + literals
	IDENT  = "IDENT"  // x, 甲, total
	NUMBER = "NUMBER" // 1343456, 一百二十三
	STRING = "STRING" // "foobar"

	// Operators
	ASSIGN   = "="
	PLUS     = "+" // also unary identity
	MINUS    = "-" // also unary negation
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"
	PERIOD   = "."

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	COMPLEMENT  = "~"
	BITWISE_XOR = "^"

	LOGICAL_AND = "&&"
	LOGICAL_OR  = "||"

	EQ     = "=="
	NOT_EQ = "!="

	// Delimiters
	COMMA    = ","
	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	LET      = "LET"
	VAR      = "VAR"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	FOR      = "FOR"
	TO       = "TO"
	FUNCTION = "FUNCTION"
	RETURN   = "RETURN"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
)

// Token is one lexeme. Literal is the canonical spelling for fixed-spelling
// types and the exact source slice otherwise. Position and Length are rune
// offsets into the source.
type Token struct {
	Type     TokenType
	Literal  string
	Position int
	Length   int
	Value    any
}

func (t Token) End() int { return t.Position + t.Length }

func (t Token) String() string {
	if t.Value != nil {
		return fmt.Sprintf("%s %q %v @%d", Name(t.Type), t.Literal, t.Value, t.Position)
	}
	return fmt.Sprintf("%s %q @%d", Name(t.Type), t.Literal, t.Position)
}

// Operator and delimiter types are their own spelling; names gives them a
// readable label for listings.
var names = map[TokenType]string{
	ASSIGN:      "ASSIGN",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	BANG:        "BANG",
	ASTERISK:    "ASTERISK",
	SLASH:       "SLASH",
	PERIOD:      "PERIOD",
	LT:          "LT",
	LT_EQ:       "LT_EQ",
	GT:          "GT",
	GT_EQ:       "GT_EQ",
	COMPLEMENT:  "COMPLEMENT",
	BITWISE_XOR: "BITWISE_XOR",
	LOGICAL_AND: "LOGICAL_AND",
	LOGICAL_OR:  "LOGICAL_OR",
	EQ:          "EQ",
	NOT_EQ:      "NOT_EQ",
	COMMA:       "COMMA",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	LBRACE:      "LBRACE",
	RBRACE:      "RBRACE",
	LBRACKET:    "LBRACKET",
	RBRACKET:    "RBRACKET",
}

// Name returns the constant name of t, such as PLUS for "+".
func Name(t TokenType) string {
	if n, ok := names[t]; ok {
		return n
	}
	return string(t)
}

// spellings lists every accepted source spelling per type; the first entry
// is canonical.
var spellings = map[TokenType][]string{
	PLUS:        {"+", "加", "正"},
	MINUS:       {"-", "減", "負"},
	ASTERISK:    {"*", "乘"},
	SLASH:       {"/", "除"},
	PERIOD:      {".", "點"},
	LPAREN:      {"(", "開"},
	RPAREN:      {")", "閉"},
	LBRACE:      {"{"},
	RBRACE:      {"}"},
	LBRACKET:    {"["},
	RBRACKET:    {"]"},
	COMMA:       {",", "，"},
	COMPLEMENT:  {"~"},
	BITWISE_XOR: {"^"},
	LOGICAL_AND: {"&&", "且"},
	LOGICAL_OR:  {"||", "或"},
	BANG:        {"!", "反"},
	NOT_EQ:      {"!=", "不是"},
	EQ:          {"==", "是"},
	ASSIGN:      {"=", "賦"},
	LT:          {"<"},
	LT_EQ:       {"<="},
	GT:          {">"},
	GT_EQ:       {">="},

	TRUE:     {"true", "真"},
	FALSE:    {"false", "假"},
	LET:      {"let", "令"},
	VAR:      {"var", "設"},
	IF:       {"if", "若"},
	ELSE:     {"else", "否則"},
	WHILE:    {"while", "當"},
	FOR:      {"for", "從"},
	TO:       {"to", "至"},
	FUNCTION: {"function", "函數"},
	RETURN:   {"return", "回傳"},
	BREAK:    {"break", "跳出"},
	CONTINUE: {"continue", "繼續"},
}

var keywordTypes = []TokenType{
	TRUE, FALSE, LET, VAR, IF, ELSE, WHILE, FOR, TO, FUNCTION, RETURN, BREAK, CONTINUE,
}

var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType)
	for _, t := range keywordTypes {
		for _, s := range spellings[t] {
			m[s] = t
		}
	}
	return m
}()

// Text returns the canonical spelling, or "" for types without a fixed one.
func Text(t TokenType) string {
	if s, ok := spellings[t]; ok {
		return s[0]
	}
	return ""
}

// Spellings returns every accepted spelling of t.
func Spellings(t TokenType) []string {
	s := spellings[t]
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Types returns every token type that has at least one fixed spelling.
func Types() []TokenType {
	out := make([]TokenType, 0, len(spellings))
	for t := range spellings {
		out = append(out, t)
	}
	return out
}

func IsKeyword(t TokenType) bool {
	for _, k := range keywordTypes {
		if k == t {
			return true
		}
	}
	return false
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
