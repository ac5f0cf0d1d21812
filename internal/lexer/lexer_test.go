package lexer

import (
	"testing"
	"unicode/utf8"

	"casc/internal/symbols"
	"casc/internal/token"

	"github.com/google/go-cmp/cmp"
)

type lexed struct {
	Type    token.TokenType
	Literal string
}

func lexAll(input string) []lexed {
	var out []lexed
	for _, tok := range NewString(input).All() {
		out = append(out, lexed{tok.Type, tok.Literal})
	}
	return out
}

func TestNextToken(t *testing.T) {
	input := `令 x 賦 五加三
print(x)
if a != 10 && b == 一百 || !c { return 甲 }
[1，2] 不是 是 反 <= >= < > ~ ^ . 點 開閉 乘 除 減 負 正`

	expected := []lexed{
		{token.LET, "let"},
		{token.WHITESPACE, " "},
		{token.IDENT, "x"},
		{token.WHITESPACE, " "},
		{token.ASSIGN, "="},
		{token.WHITESPACE, " "},
		{token.NUMBER, "五"},
		{token.PLUS, "+"},
		{token.NUMBER, "三"},
		{token.WHITESPACE, "\n"},
		{token.IDENT, "print"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.WHITESPACE, "\n"},
		{token.IF, "if"},
		{token.WHITESPACE, " "},
		{token.IDENT, "a"},
		{token.WHITESPACE, " "},
		{token.NOT_EQ, "!="},
		{token.WHITESPACE, " "},
		{token.NUMBER, "10"},
		{token.WHITESPACE, " "},
		{token.LOGICAL_AND, "&&"},
		{token.WHITESPACE, " "},
		{token.IDENT, "b"},
		{token.WHITESPACE, " "},
		{token.EQ, "=="},
		{token.WHITESPACE, " "},
		{token.NUMBER, "一百"},
		{token.WHITESPACE, " "},
		{token.LOGICAL_OR, "||"},
		{token.WHITESPACE, " "},
		{token.BANG, "!"},
		{token.IDENT, "c"},
		{token.WHITESPACE, " "},
		{token.LBRACE, "{"},
		{token.WHITESPACE, " "},
		{token.RETURN, "return"},
		{token.WHITESPACE, " "},
		{token.IDENT, "甲"},
		{token.WHITESPACE, " "},
		{token.RBRACE, "}"},
		{token.WHITESPACE, "\n"},
		{token.LBRACKET, "["},
		{token.NUMBER, "1"},
		{token.COMMA, ","},
		{token.NUMBER, "2"},
		{token.RBRACKET, "]"},
		{token.WHITESPACE, " "},
		{token.NOT_EQ, "!="},
		{token.WHITESPACE, " "},
		{token.EQ, "=="},
		{token.WHITESPACE, " "},
		{token.BANG, "!"},
		{token.WHITESPACE, " "},
		{token.LT_EQ, "<="},
		{token.WHITESPACE, " "},
		{token.GT_EQ, ">="},
		{token.WHITESPACE, " "},
		{token.LT, "<"},
		{token.WHITESPACE, " "},
		{token.GT, ">"},
		{token.WHITESPACE, " "},
		{token.COMPLEMENT, "~"},
		{token.WHITESPACE, " "},
		{token.BITWISE_XOR, "^"},
		{token.WHITESPACE, " "},
		{token.PERIOD, "."},
		{token.WHITESPACE, " "},
		{token.PERIOD, "."},
		{token.WHITESPACE, " "},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.WHITESPACE, " "},
		{token.ASTERISK, "*"},
		{token.WHITESPACE, " "},
		{token.SLASH, "/"},
		{token.WHITESPACE, " "},
		{token.MINUS, "-"},
		{token.WHITESPACE, " "},
		{token.MINUS, "-"},
		{token.WHITESPACE, " "},
		{token.PLUS, "+"},
		{token.EOF, ""},
	}

	l := NewString(input)
	var got []lexed
	for _, tok := range l.All() {
		got = append(got, lexed{tok.Type, tok.Literal})
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
	if !l.Diagnostics().Empty() {
		t.Errorf("unexpected diagnostics: %v", l.Diagnostics().Items())
	}
}

func TestChineseAssignmentSplits(t *testing.T) {
	expected := []lexed{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "五"},
		{token.PLUS, "+"},
		{token.NUMBER, "三"},
		{token.EOF, ""},
	}
	if diff := cmp.Diff(expected, lexAll("x賦五加三")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestAllSpellingsShareTypeAndText(t *testing.T) {
	for _, tt := range token.Types() {
		canonical := token.Text(tt)
		for _, spelling := range token.Spellings(tt) {
			l := NewString(spelling)
			tok := l.NextToken()

			if tok.Type != tt {
				t.Errorf("%q: expected type %s, got %s", spelling, tt, tok.Type)
				continue
			}
			if tok.Literal != canonical {
				t.Errorf("%q: expected canonical text %q, got %q", spelling, canonical, tok.Literal)
			}
			if tok.Length != utf8.RuneCountInString(spelling) {
				t.Errorf("%q: expected length %d, got %d", spelling, utf8.RuneCountInString(spelling), tok.Length)
			}
			if next := l.NextToken(); next.Type != token.EOF {
				t.Errorf("%q: expected EOF after single token, got %s", spelling, next)
			}
			if !l.Diagnostics().Empty() {
				t.Errorf("%q: unexpected diagnostics %v", spelling, l.Diagnostics().Items())
			}
		}
	}
}

func TestCompoundFallbacks(t *testing.T) {
	cases := []struct {
		input    string
		expected []lexed
	}{
		{"&&", []lexed{{token.LOGICAL_AND, "&&"}, {token.EOF, ""}}},
		{"&", []lexed{{token.BAD, "&"}, {token.EOF, ""}}},
		{"&x", []lexed{{token.BAD, "&"}, {token.IDENT, "x"}, {token.EOF, ""}}},
		{"|", []lexed{{token.BAD, "|"}, {token.EOF, ""}}},
		{"||", []lexed{{token.LOGICAL_OR, "||"}, {token.EOF, ""}}},
		{"!x", []lexed{{token.BANG, "!"}, {token.IDENT, "x"}, {token.EOF, ""}}},
		{"=x", []lexed{{token.ASSIGN, "="}, {token.IDENT, "x"}, {token.EOF, ""}}},
		{"===", []lexed{{token.EQ, "=="}, {token.ASSIGN, "="}, {token.EOF, ""}}},
		{"不", []lexed{{token.BAD, "不"}, {token.EOF, ""}}},
		{"不x", []lexed{{token.BAD, "不"}, {token.IDENT, "x"}, {token.EOF, ""}}},
		{"不是", []lexed{{token.NOT_EQ, "!="}, {token.EOF, ""}}},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			l := NewString(c.input)
			var got []lexed
			for _, tok := range l.All() {
				got = append(got, lexed{tok.Type, tok.Literal})
			}
			if diff := cmp.Diff(c.expected, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
			if !l.Diagnostics().Empty() {
				t.Errorf("unresolved compound tokens must not report diagnostics, got %v", l.Diagnostics().Items())
			}
		})
	}
}

func TestNumberTokens(t *testing.T) {
	cases := []struct {
		input string
		value int64
	}{
		{"0", 0},
		{"123", 123},
		{"十", 10},
		{"一百二十三", 123},
		{"一萬", 10000},
		{"一億", 100000000},
		{"壹佰", 100},
		{"一o", 10},
		{"一o五", 105},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			l := NewString(c.input)
			tok := l.NextToken()
			if tok.Type != token.NUMBER {
				t.Fatalf("expected NUMBER, got %s", tok.Type)
			}
			if tok.Literal != c.input {
				t.Errorf("expected literal %q, got %q", c.input, tok.Literal)
			}
			if tok.Value != c.value {
				t.Errorf("expected value %d, got %v", c.value, tok.Value)
			}
			if !l.Diagnostics().Empty() {
				t.Errorf("unexpected diagnostics %v", l.Diagnostics().Items())
			}
		})
	}
}

func TestInvalidNumber(t *testing.T) {
	for _, input := range []string{"1十", "٣", "99999999999999999999"} {
		t.Run(input, func(t *testing.T) {
			l := NewString(input)
			tok := l.NextToken()
			if tok.Type != token.NUMBER || tok.Literal != input {
				t.Fatalf("expected NUMBER %q, got %s", input, tok)
			}
			items := l.Diagnostics().Items()
			if len(items) != 1 {
				t.Fatalf("expected one diagnostic, got %v", items)
			}
			if items[0].Expected != symbols.Number {
				t.Errorf("expected number type hint, got %v", items[0].Expected)
			}
			if items[0].Span.Start != 0 || items[0].Span.Length != utf8.RuneCountInString(input) {
				t.Errorf("unexpected span %v", items[0].Span)
			}
			if l.NextToken().Type != token.EOF {
				t.Errorf("expected EOF after number")
			}
		})
	}
}

func TestBadCharacters(t *testing.T) {
	l := NewString("a@b$\x00")
	expected := []lexed{
		{token.IDENT, "a"},
		{token.BAD, "@"},
		{token.IDENT, "b"},
		{token.BAD, "$"},
		{token.BAD, "\x00"},
		{token.EOF, ""},
	}
	var got []lexed
	for _, tok := range l.All() {
		got = append(got, lexed{tok.Type, tok.Literal})
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	items := l.Diagnostics().Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v", items)
	}
	for i, pos := range []int{1, 3, 4} {
		if items[i].Span.Start != pos || items[i].Span.Length != 1 {
			t.Errorf("diagnostic %d: unexpected span %v", i, items[i].Span)
		}
	}
	if items[0].Message != "ERROR: Bad character input: '@'." {
		t.Errorf("unexpected message %q", items[0].Message)
	}
}

func TestMalformedInputAlwaysTerminates(t *testing.T) {
	inputs := []string{
		"@",
		"@@@###",
		"&|不&|不",
		"\"unterminated",
		"\"broken\nline\"",
		"1十@٣",
		"§¶•ª",
		"x賦@五加",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			l := NewString(input)
			tokens := l.All()

			if tokens[len(tokens)-1].Type != token.EOF {
				t.Fatalf("stream not terminated by EOF: %v", tokens)
			}
			last := tokens[len(tokens)-1]
			if last.Length != 0 || last.Position != l.Source().Len() {
				t.Errorf("EOF must be empty at end of input, got %v", last)
			}
			for i := 0; i+1 < len(tokens); i++ {
				if tokens[i].Length < 0 || tokens[i].End() > tokens[i+1].Position {
					t.Errorf("token %d %v overlaps next %v", i, tokens[i], tokens[i+1])
				}
			}
		})
	}

	for _, input := range []string{"@", "@@@###", "\"unterminated", "1十@٣", "§¶•ª", "x賦@五加"} {
		l := NewString(input)
		l.All()
		if l.Diagnostics().Empty() {
			t.Errorf("%q: expected at least one diagnostic", input)
		}
	}
}

func TestStrings(t *testing.T) {
	cases := []struct {
		input   string
		literal string
		value   string
		diags   int
	}{
		{`"hello"`, `"hello"`, "hello", 0},
		{`"你好 世界"`, `"你好 世界"`, "你好 世界", 0},
		{`"a\"b"`, `"a\"b"`, `a"b`, 0},
		{`"tab\tnl\n"`, `"tab\tnl\n"`, "tab\tnl\n", 0},
		{`"odd\q"`, `"odd\q"`, `odd\q`, 0},
		{`"open`, `"open`, "open", 1},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			l := NewString(c.input)
			tok := l.NextToken()
			if tok.Type != token.STRING {
				t.Fatalf("expected STRING, got %s", tok)
			}
			if tok.Literal != c.literal {
				t.Errorf("expected literal %q, got %q", c.literal, tok.Literal)
			}
			if tok.Value != c.value {
				t.Errorf("expected value %q, got %q", c.value, tok.Value)
			}
			if l.Diagnostics().Len() != c.diags {
				t.Errorf("expected %d diagnostics, got %v", c.diags, l.Diagnostics().Items())
			}
		})
	}
}

func TestKeywordsAndValues(t *testing.T) {
	cases := []struct {
		input string
		typ   token.TokenType
		value any
	}{
		{"true", token.TRUE, true},
		{"真", token.TRUE, true},
		{"假", token.FALSE, false},
		{"否則", token.ELSE, nil},
		{"函數", token.FUNCTION, nil},
		{"trueish", token.IDENT, nil},
		{"令甲", token.IDENT, nil},
		{"one", token.IDENT, nil},
	}
	for _, c := range cases {
		tok := NewString(c.input).NextToken()
		if tok.Type != c.typ || tok.Value != c.value {
			t.Errorf("%q: expected %s %v, got %s %v", c.input, c.typ, c.value, tok.Type, tok.Value)
		}
	}
}

func TestWhitespaceRunsCollapse(t *testing.T) {
	tok := NewString(" \t\r\n　x").NextToken()
	if tok.Type != token.WHITESPACE || tok.Length != 5 {
		t.Errorf("expected one whitespace token of length 5, got %v", tok)
	}
}

func TestTokenizeDropsWhitespace(t *testing.T) {
	tokens, diags := Tokenize("x 賦 1")
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %v", tokens)
	}
	if tokens[1].Type != token.ASSIGN || tokens[1].Position != 2 {
		t.Errorf("unexpected assignment token %v", tokens[1])
	}
	if !diags.Empty() {
		t.Errorf("unexpected diagnostics %v", diags.Items())
	}
}
