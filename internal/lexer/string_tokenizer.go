package lexer

import (
	"strings"

	"casc/internal/text"
	"casc/internal/token"
)

// readString scans a double-quoted literal starting at the opening quote.
// The token literal is the source slice; Value holds the unescaped text.
// A line break or end of input before the closing quote is reported as an
// unterminated string and the token still covers what was read.
func (l *Lexer) readString() {
	var result strings.Builder
	l.position++ // consume the opening "

	for {
		if l.atEnd() || l.current() == '\n' || l.current() == '\r' {
			l.diagnostics.ReportUnterminatedString(text.Span{Start: l.start, Length: 1})
			break
		}

		ch := l.current()
		if ch == '"' {
			l.position++ // consume the closing "
			break
		}

		if ch == '\\' {
			l.position++ // move to the escaped character
			switch l.current() {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case '\\':
				result.WriteRune('\\')
			case '"':
				result.WriteRune('"')
			default:
				result.WriteRune('\\')
				continue
			}
		} else {
			result.WriteRune(ch)
		}
		l.position++
	}

	l.tokType = token.STRING
	l.value = result.String()
}
