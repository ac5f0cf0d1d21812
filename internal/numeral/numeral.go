// Package numeral converts runs of ASCII digits or Chinese numeral glyphs to
// integers.
package numeral

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

const (
	tenThousand    = 10000
	hundredMillion = 100000000
)

// latinZero is read as zero inside a numeral run but never starts one.
const latinZero = 'o'

var ErrNotNumeral = errors.New("not a numeral")

var glyphs = map[rune]int64{
	'零': 0, '〇': 0, latinZero: 0,
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
	'壹': 1, '貳': 2, '參': 3, '叁': 3, '肆': 4, '伍': 5, '陸': 6, '陆': 6, '柒': 7, '捌': 8, '玖': 9,
	'十': 10, '拾': 10,
	'百': 100, '佰': 100,
	'千': 1000, '仟': 1000,
	'萬': tenThousand,
	'億': hundredMillion,
}

// Glyphs returns a copy of the glyph table.
func Glyphs() map[rune]int64 {
	out := make(map[rune]int64, len(glyphs))
	for r, v := range glyphs {
		out[r] = v
	}
	return out
}

func IsGlyph(r rune) bool {
	_, ok := glyphs[r]
	return ok
}

// IsDigit reports whether r may start a numeral run.
func IsDigit(r rune) bool {
	return unicode.IsDigit(r) || (IsGlyph(r) && r != latinZero)
}

// Continues reports whether r may extend a numeral run, so `一o五` is one run.
func Continues(r rune) bool {
	return IsDigit(r) || r == latinZero
}

// Parse tries a plain ASCII integer first and falls back to Chinese
// positional notation.
func Parse(s string) (int64, bool) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	v, err := ParseChinese(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseChinese evaluates s in one pass with three accumulators: tmp holds
// digits not yet bound to a multiplier, section the value below the 億 scale,
// and upper the value at or above it.
//
// Only magnitudes with a single 億 section are handled as expected; a second
// 億 multiplies the earlier upper part again.
func ParseChinese(s string) (int64, error) {
	var tmp, section, upper int64

	for _, r := range s {
		v, ok := glyphs[r]
		if !ok {
			return 0, fmt.Errorf("%w: %q is not a chinese numeral (at %q)", ErrNotNumeral, s, r)
		}

		switch {
		case v == hundredMillion:
			section += tmp
			section *= hundredMillion
			upper *= hundredMillion
			upper += section
			section = 0
			tmp = 0
		case v == tenThousand:
			section += tmp
			section *= tenThousand
			tmp = 0
		case v >= 10:
			if tmp == 0 {
				tmp = 1
			}
			section += v * tmp
			tmp = 0
		default:
			tmp = tmp*10 + v
		}
	}

	return upper + section + tmp, nil
}
