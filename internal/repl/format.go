package repl

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"casc/internal/history"
	"casc/internal/text"
	"casc/internal/token"
)

// WithoutTrivia drops whitespace tokens.
func WithoutTrivia(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type != token.WHITESPACE {
			out = append(out, tok)
		}
	}
	return out
}

func tokenColor(t token.TokenType) *color.Color {
	switch t {
	case token.BAD:
		return color.New(color.FgRed)
	case token.NUMBER:
		return color.New(color.FgYellow)
	case token.STRING:
		return color.New(color.FgGreen)
	case token.IDENT:
		return color.New(color.FgCyan)
	}
	if token.IsKeyword(t) {
		return color.New(color.FgBlue)
	}
	return color.New(color.Reset)
}

// WriteTokens prints one token per line, or a table of type, literal, value
// and span when table is set.
func WriteTokens(w io.Writer, tokens []token.Token, table bool, useColor bool) {
	if table {
		tw := tablewriter.NewWriter(w)
		tw.SetHeader([]string{"Type", "Literal", "Value", "Span"})
		tw.SetAutoWrapText(false)
		for _, tok := range tokens {
			value := ""
			if tok.Value != nil {
				value = fmt.Sprint(tok.Value)
			}
			span := text.Span{Start: tok.Position, Length: tok.Length}
			tw.Append([]string{token.Name(tok.Type), tok.Literal, value, span.String()})
		}
		tw.Render()
		return
	}

	for _, tok := range tokens {
		c := tokenColor(tok.Type)
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		c.Fprintln(w, tok.String())
	}
}

// WriteHistory prints recorded evaluations as a table.
func WriteHistory(w io.Writer, entries []history.Entry) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Seq", "Session", "Source", "Result", "Error", "When"})
	tw.SetAutoWrapText(false)
	for _, e := range entries {
		tw.Append([]string{
			fmt.Sprint(e.Seq),
			shorten(e.Session, 8),
			e.Source,
			shorten(e.Result, 24),
			shorten(e.Error, 40),
			e.CreatedAt.Local().Format(time.DateTime),
		})
	}
	tw.Render()
}

func shorten(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
