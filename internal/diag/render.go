package diag

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"casc/internal/text"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"
)

type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "on", "true":
		return ColorAlways, nil
	case "never", "off", "false":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

// UseColor resolves mode against the writer: auto colours only terminals.
func UseColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

type Renderer struct {
	out      io.Writer
	errColor *color.Color
	locColor *color.Color
}

func NewRenderer(out io.Writer, mode ColorMode) *Renderer {
	r := &Renderer{
		out:      out,
		errColor: color.New(color.FgRed),
		locColor: color.New(color.FgHiBlack),
	}
	if UseColor(out, mode) {
		r.errColor.EnableColor()
		r.locColor.EnableColor()
	} else {
		r.errColor.DisableColor()
		r.locColor.DisableColor()
	}
	return r
}

// Render writes each diagnostic with its location, the offending source line
// and a caret marker under the span. Diagnostics are shown by position.
func (r *Renderer) Render(src *text.SourceText, pack *Pack) {
	items := pack.Items()
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Span.Start != items[j].Span.Start {
			return items[i].Span.Start < items[j].Span.Start
		}
		return items[i].Span.Length < items[j].Span.Length
	})

	for _, d := range items {
		r.renderOne(src, d)
	}
}

func (r *Renderer) renderOne(src *text.SourceText, d Diagnostic) {
	span := clamp(d.Span, src.Len())
	loc := src.Location(span)
	line := src.Lines[loc.StartLine()]

	errorEnd := span.End()
	if errorEnd > line.End() {
		errorEnd = line.End()
	}
	errorStart := span.Start
	if errorStart > errorEnd {
		errorStart = errorEnd
	}

	prefix := src.Slice(line.Start, errorStart-line.Start)
	errText := src.Slice(errorStart, errorEnd-errorStart)
	suffix := src.Slice(errorEnd, line.End()-errorEnd)

	name := loc.FileName()
	if name == "" {
		name = "<input>"
	}
	r.locColor.Fprintf(r.out, "%s(%d,%d,%d,%d): ", name,
		loc.StartLine()+1, loc.StartCharacter()+1, loc.EndLine()+1, loc.EndCharacter()+1)
	r.errColor.Fprintln(r.out, d.Message)

	io.WriteString(r.out, "    ")
	io.WriteString(r.out, prefix)
	r.errColor.Fprint(r.out, errText)
	io.WriteString(r.out, suffix)
	io.WriteString(r.out, "\n")

	marks := DisplayWidth(errText)
	if marks == 0 {
		marks = 1
	}
	io.WriteString(r.out, "    ")
	io.WriteString(r.out, replaceVisibleWithSpaces(prefix))
	r.errColor.Fprintln(r.out, strings.Repeat("^", marks))
}

// RenderString renders without colour; used by tests and log attributes.
func RenderString(src *text.SourceText, pack *Pack) string {
	var buf bytes.Buffer
	NewRenderer(&buf, ColorNever).Render(src, pack)
	return buf.String()
}

func clamp(s text.Span, max int) text.Span {
	start := s.Start
	if start > max {
		start = max
	}
	end := s.End()
	if end > max {
		end = max
	}
	return text.FromBounds(start, end)
}

// DisplayWidth counts terminal columns, treating East Asian wide and
// fullwidth runes as two columns.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// replaceVisibleWithSpaces blanks s column-for-column, keeping tabs so the
// caret lines up with the source line above it.
func replaceVisibleWithSpaces(s string) string {
	var buf bytes.Buffer
	for _, c := range s {
		if c == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteString(strings.Repeat(" ", runeWidth(c)))
		}
	}
	return buf.String()
}
