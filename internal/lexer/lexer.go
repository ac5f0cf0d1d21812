package lexer

import (
	"log/slog"
	"unicode"
	"unicode/utf8"

	"casc/internal/diag"
	"casc/internal/numeral"
	"casc/internal/symbols"
	"casc/internal/text"
	"casc/internal/token"
)

// Lexer is a pull-based scanner over a SourceText with one rune of
// lookahead. It never stops on malformed input: problems are recorded in
// Diagnostics and a BAD token is returned.
type Lexer struct {
	source      *text.SourceText
	diagnostics *diag.Pack

	position int // rune offset of the current rune
	start    int // rune offset where the current token began
	tokType  token.TokenType
	value    any
}

func New(source *text.SourceText) *Lexer {
	return &Lexer{source: source, diagnostics: diag.NewPack()}
}

func NewString(input string) *Lexer {
	return New(text.New(input))
}

func (l *Lexer) Diagnostics() *diag.Pack { return l.diagnostics }

func (l *Lexer) Source() *text.SourceText { return l.source }

func (l *Lexer) atEnd() bool { return l.position >= l.source.Len() }

func (l *Lexer) current() rune   { return l.peek(0) }
func (l *Lexer) lookahead() rune { return l.peek(1) }

// peek returns the sentinel 0 past the end instead of indexing the buffer.
func (l *Lexer) peek(offset int) rune {
	index := l.position + offset
	if index >= l.source.Len() {
		return 0
	}
	return l.source.At(index)
}

func (l *Lexer) NextToken() token.Token {
	l.start = l.position
	l.tokType = token.BAD
	l.value = nil

	if l.atEnd() {
		l.tokType = token.EOF
		return l.makeToken()
	}

	switch ch := l.current(); ch {
	case '+', '加', '正':
		l.single(token.PLUS)
	case '-', '減', '負':
		l.single(token.MINUS)
	case '*', '乘':
		l.single(token.ASTERISK)
	case '/', '除':
		l.single(token.SLASH)
	case '.', '點':
		l.single(token.PERIOD)
	case '(', '開':
		l.single(token.LPAREN)
	case ')', '閉':
		l.single(token.RPAREN)
	case '{':
		l.single(token.LBRACE)
	case '}':
		l.single(token.RBRACE)
	case '[':
		l.single(token.LBRACKET)
	case ']':
		l.single(token.RBRACKET)
	case ',', '，':
		l.single(token.COMMA)
	case '~':
		l.single(token.COMPLEMENT)
	case '^':
		l.single(token.BITWISE_XOR)
	case '且':
		l.single(token.LOGICAL_AND)
	case '&':
		l.handleCompoundToken(token.BAD, '&', token.LOGICAL_AND)
	case '或':
		l.single(token.LOGICAL_OR)
	case '|':
		l.handleCompoundToken(token.BAD, '|', token.LOGICAL_OR)
	case '反':
		l.single(token.BANG)
	case '!':
		l.handleCompoundToken(token.BANG, '=', token.NOT_EQ)
	case '不':
		l.handleCompoundToken(token.BAD, '是', token.NOT_EQ)
	case '是':
		l.single(token.EQ)
	case '=':
		l.handleCompoundToken(token.ASSIGN, '=', token.EQ)
	case '賦':
		l.single(token.ASSIGN)
	case '<':
		l.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		l.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case '"':
		l.readString()
	default:
		switch {
		case numeral.IsDigit(ch):
			l.readNumber()
		case unicode.IsSpace(ch):
			l.readWhiteSpace()
		case isLetter(ch):
			l.readIdentifierOrKeyword()
		default:
			l.diagnostics.ReportBadCharacter(l.position, ch)
			l.position++
		}
	}

	return l.makeToken()
}

// All lexes to the end, including the EOF token.
func (l *Lexer) All() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// Tokenize lexes input and drops whitespace tokens.
func Tokenize(input string) ([]token.Token, *diag.Pack) {
	l := NewString(input)
	var tokens []token.Token
	for _, tok := range l.All() {
		if tok.Type == token.WHITESPACE {
			continue
		}
		tokens = append(tokens, tok)
	}
	slog.Debug("tokenized source",
		slog.Int("tokens", len(tokens)),
		slog.Int("diagnostics", l.diagnostics.Len()))
	return tokens, l.diagnostics
}

func (l *Lexer) makeToken() token.Token {
	length := l.position - l.start
	literal := token.Text(l.tokType)
	if literal == "" {
		literal = l.source.Slice(l.start, length)
	}
	return token.Token{
		Type:     l.tokType,
		Literal:  literal,
		Position: l.start,
		Length:   length,
		Value:    l.value,
	}
}

func (l *Lexer) single(t token.TokenType) {
	l.tokType = t
	l.position++
}

// handleCompoundToken resolves a two-rune token when the lookahead matches
// ch1, and falls back to the one-rune type t otherwise. A BAD fallback is
// not reported as a diagnostic.
func (l *Lexer) handleCompoundToken(t token.TokenType, ch1 rune, t1 token.TokenType) {
	if l.lookahead() == ch1 {
		l.tokType = t1
		l.position += 2
		return
	}
	l.tokType = t
	l.position++
}

func (l *Lexer) readNumber() {
	for !l.atEnd() && numeral.Continues(l.current()) {
		l.position++
	}

	length := l.position - l.start
	raw := l.source.Slice(l.start, length)
	value, ok := numeral.Parse(raw)
	if !ok {
		l.diagnostics.ReportInvalidNumber(text.Span{Start: l.start, Length: length}, raw, symbols.Number)
	}

	l.value = value
	l.tokType = token.NUMBER
}

func (l *Lexer) readWhiteSpace() {
	for !l.atEnd() && unicode.IsSpace(l.current()) {
		l.position++
	}
	l.tokType = token.WHITESPACE
}

func (l *Lexer) readIdentifierOrKeyword() {
	for !l.atEnd() && isLetter(l.current()) {
		l.position++
	}

	ident := l.source.Slice(l.start, l.position-l.start)
	l.tokType = token.LookupIdent(ident)
	switch l.tokType {
	case token.TRUE:
		l.value = true
	case token.FALSE:
		l.value = false
	}
}

// isLetter accepts Unicode letters except the Chinese operator glyphs, so
// that `x賦五` splits into an identifier, an assignment and a number.
func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) && !isOperatorGlyph(ch)
}

var operatorGlyphs = func() map[rune]bool {
	m := make(map[rune]bool)
	for _, t := range token.Types() {
		if token.IsKeyword(t) {
			continue
		}
		for _, s := range token.Spellings(t) {
			r, _ := utf8.DecodeRuneInString(s)
			if r >= utf8.RuneSelf {
				m[r] = true
			}
		}
	}
	return m
}()

func isOperatorGlyph(ch rune) bool {
	return operatorGlyphs[ch]
}
