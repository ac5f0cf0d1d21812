package diag

import (
	"fmt"

	"casc/internal/symbols"
	"casc/internal/text"
)

type Diagnostic struct {
	Message string
	Span    text.Span
	// Expected is the type the offending text was supposed to denote, if any.
	Expected *symbols.TypeSymbol
}

func (d Diagnostic) String() string { return d.Message }

// Pack is an append-only, ordered collection of diagnostics.
type Pack struct {
	items []Diagnostic
}

func NewPack() *Pack { return &Pack{} }

func (p *Pack) Len() int { return len(p.items) }

func (p *Pack) Empty() bool { return len(p.items) == 0 }

// Items returns a copy of the diagnostics in discovery order.
func (p *Pack) Items() []Diagnostic {
	out := make([]Diagnostic, len(p.items))
	copy(out, p.items)
	return out
}

// AddAll appends every diagnostic of other, preserving its order.
func (p *Pack) AddAll(other *Pack) {
	p.items = append(p.items, other.items...)
}

func (p *Pack) Report(span text.Span, message string, a ...any) {
	p.items = append(p.items, Diagnostic{Message: fmt.Sprintf(message, a...), Span: span})
}

func (p *Pack) ReportBadCharacter(position int, character rune) {
	p.Report(text.Span{Start: position, Length: 1}, "ERROR: Bad character input: '%c'.", character)
}

func (p *Pack) ReportInvalidNumber(span text.Span, raw string, expected *symbols.TypeSymbol) {
	p.items = append(p.items, Diagnostic{
		Message:  fmt.Sprintf("ERROR: The number %s isn't valid %s.", raw, expected),
		Span:     span,
		Expected: expected,
	})
}

func (p *Pack) ReportUnterminatedString(span text.Span) {
	p.Report(span, "ERROR: Unterminated string literal.")
}
