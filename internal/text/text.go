package text

import (
	"fmt"
	"sort"
)

// Span is a half-open range of rune offsets into a SourceText.
type Span struct {
	Start  int
	Length int
}

func (s Span) End() int { return s.Start + s.Length }

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Start, s.End()) }

func FromBounds(start, end int) Span {
	return Span{Start: start, Length: end - start}
}

// Line describes one line of source, excluding (Length) or including
// (LengthIncludingLineBreak) its terminator.
type Line struct {
	Start                    int
	Length                   int
	LengthIncludingLineBreak int
}

func (l Line) End() int   { return l.Start + l.Length }
func (l Line) Span() Span { return Span{Start: l.Start, Length: l.Length} }

// SourceText is an indexed rune buffer with line metadata. Offsets are rune
// offsets, not byte offsets, so Chinese glyphs count as one position.
type SourceText struct {
	FileName string
	runes    []rune
	Lines    []Line
}

func New(src string) *SourceText {
	return NewFile("", src)
}

func NewFile(fileName string, src string) *SourceText {
	st := &SourceText{FileName: fileName, runes: []rune(src)}
	st.Lines = parseLines(st.runes)
	return st
}

func parseLines(runes []rune) []Line {
	var lines []Line
	lineStart := 0
	pos := 0
	for pos < len(runes) {
		width := lineBreakWidth(runes, pos)
		if width == 0 {
			pos++
			continue
		}
		lines = append(lines, Line{
			Start:                    lineStart,
			Length:                   pos - lineStart,
			LengthIncludingLineBreak: pos - lineStart + width,
		})
		pos += width
		lineStart = pos
	}
	if pos >= lineStart {
		lines = append(lines, Line{
			Start:                    lineStart,
			Length:                   pos - lineStart,
			LengthIncludingLineBreak: pos - lineStart,
		})
	}
	return lines
}

func lineBreakWidth(runes []rune, pos int) int {
	switch runes[pos] {
	case '\r':
		if pos+1 < len(runes) && runes[pos+1] == '\n' {
			return 2
		}
		return 1
	case '\n':
		return 1
	}
	return 0
}

func (t *SourceText) Len() int { return len(t.runes) }

// At returns the rune at index. Callers that need to look past the end must
// check Len first; an out-of-range index is a programming error.
func (t *SourceText) At(index int) rune {
	if index < 0 || index >= len(t.runes) {
		panic(fmt.Sprintf("text: index %d out of range [0, %d)", index, len(t.runes)))
	}
	return t.runes[index]
}

func (t *SourceText) Slice(start, length int) string {
	if start < 0 || length < 0 || start+length > len(t.runes) {
		panic(fmt.Sprintf("text: slice %d+%d out of range [0, %d]", start, length, len(t.runes)))
	}
	return string(t.runes[start : start+length])
}

func (t *SourceText) SpanText(span Span) string {
	return t.Slice(span.Start, span.Length)
}

func (t *SourceText) String() string { return string(t.runes) }

// LineIndex maps an offset in [0, Len] to the index of its containing line.
func (t *SourceText) LineIndex(offset int) int {
	if offset < 0 || offset > len(t.runes) {
		panic(fmt.Sprintf("text: offset %d out of range [0, %d]", offset, len(t.runes)))
	}
	// first line whose start is past offset, minus one
	i := sort.Search(len(t.Lines), func(i int) bool { return t.Lines[i].Start > offset })
	return i - 1
}

// Location is the 0-based line/character view of a span.
type Location struct {
	Source *SourceText
	Span   Span
}

func (t *SourceText) Location(span Span) Location {
	return Location{Source: t, Span: span}
}

func (l Location) FileName() string { return l.Source.FileName }
func (l Location) StartLine() int   { return l.Source.LineIndex(l.Span.Start) }
func (l Location) EndLine() int     { return l.Source.LineIndex(l.Span.End()) }

func (l Location) StartCharacter() int {
	return l.Span.Start - l.Source.Lines[l.StartLine()].Start
}

func (l Location) EndCharacter() int {
	return l.Span.End() - l.Source.Lines[l.EndLine()].Start
}
