// Package dec64 is the decimal number used for runtime numbers. A value packs
// a 56-bit signed coefficient and an 8-bit signed exponent into one int64:
// value = coefficient × 10^exponent. Exponent -128 marks NaN.
package dec64

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Dec64 int64

const (
	MaxCoefficient = int64(1)<<55 - 1
	MinCoefficient = -MaxCoefficient

	// DefaultPrecision is the number of fractional digits Quo keeps.
	DefaultPrecision = 16

	Zero Dec64 = 0
	One  Dec64 = 1 << 8
	NaN  Dec64 = 0x80
)

// alignLimit keeps the sum of two aligned coefficients inside int64.
const alignLimit = math.MaxInt64 / 20

// New packs coef and exp without normalizing.
func New(coef int64, exp int8) Dec64 {
	return Dec64(coef<<8 | int64(uint8(exp)))
}

func FromInt64(v int64) Dec64 {
	return normalize(v, 0)
}

func FromInt(v int) Dec64 {
	return FromInt64(int64(v))
}

// FromString parses an optionally signed decimal with an optional fraction
// and exponent ("-12.5", "3e4", "NaN"). Digits past the coefficient's
// capacity are dropped.
func FromString(s string) (Dec64, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return NaN, nil
	}

	body := s
	neg := false
	if body != "" && (body[0] == '+' || body[0] == '-') {
		neg = body[0] == '-'
		body = body[1:]
	}

	exp := 0
	if i := strings.IndexAny(body, "eE"); i >= 0 {
		e, err := strconv.Atoi(body[i+1:])
		if err != nil || e < -1000 || e > 1000 {
			return NaN, fmt.Errorf("dec64: invalid exponent in %q", s)
		}
		exp = e
		body = body[:i]
	}

	var coef int64
	digits := 0
	seenPoint := false
	for _, c := range body {
		switch {
		case c == '.' && !seenPoint:
			seenPoint = true
		case c >= '0' && c <= '9':
			digits++
			if coef <= (math.MaxInt64-9)/10 {
				coef = coef*10 + int64(c-'0')
				if seenPoint {
					exp--
				}
			} else if !seenPoint {
				exp++
			}
		default:
			return NaN, fmt.Errorf("dec64: invalid number %q", s)
		}
	}
	if digits == 0 {
		return NaN, fmt.Errorf("dec64: invalid number %q", s)
	}

	if neg {
		coef = -coef
	}
	d := normalize(coef, exp)
	if d.IsNaN() {
		return NaN, fmt.Errorf("dec64: %q is out of range", s)
	}
	return d, nil
}

func (d Dec64) Coefficient() int64 { return int64(d) >> 8 }

func (d Dec64) Exponent() int8 { return int8(d & 0xFF) }

func (d Dec64) IsNaN() bool { return d.Exponent() == -128 }

func (d Dec64) IsZero() bool { return d.Coefficient() == 0 && !d.IsNaN() }

// Trunc drops the fractional part, rounding toward zero. NaN truncates to 0
// and magnitudes beyond int64 saturate.
func (d Dec64) Trunc() int64 {
	if d.IsNaN() {
		return 0
	}
	coef, exp := d.Coefficient(), int(d.Exponent())
	for ; exp < 0 && coef != 0; exp++ {
		coef /= 10
	}
	for ; exp > 0; exp-- {
		switch {
		case coef > math.MaxInt64/10:
			return math.MaxInt64
		case coef < math.MinInt64/10:
			return math.MinInt64
		}
		coef *= 10
	}
	return coef
}

func (a Dec64) Add(b Dec64) Dec64 {
	if a.IsNaN() || b.IsNaN() {
		return NaN
	}
	ca, cb, exp := align(a, b)
	return normalize(ca+cb, exp)
}

func (a Dec64) Sub(b Dec64) Dec64 {
	return a.Add(b.Neg())
}

func (d Dec64) Neg() Dec64 {
	if d.IsNaN() {
		return NaN
	}
	return New(-d.Coefficient(), d.Exponent())
}

func (a Dec64) Mul(b Dec64) Dec64 {
	if a.IsNaN() || b.IsNaN() {
		return NaN
	}
	ca, cb := a.Coefficient(), b.Coefficient()
	if ca == 0 || cb == 0 {
		return Zero
	}

	exp := int(a.Exponent()) + int(b.Exponent())
	neg := (ca < 0) != (cb < 0)
	ua, ub := abs64(ca), abs64(cb)

	// Drop digits from the wider operand until the product fits.
	for ua > math.MaxInt64/ub {
		if ua >= ub {
			ua /= 10
		} else {
			ub /= 10
		}
		exp++
	}

	p := ua * ub
	if neg {
		p = -p
	}
	return normalize(p, exp)
}

// Quo divides with DefaultPrecision fractional digits, rounding half to even.
// Division by zero is NaN.
func (a Dec64) Quo(b Dec64) Dec64 {
	return a.QuoPrec(b, DefaultPrecision)
}

func (a Dec64) QuoPrec(b Dec64, precision int) Dec64 {
	if a.IsNaN() || b.IsNaN() || b.IsZero() {
		return NaN
	}
	ca, cb := a.Coefficient(), b.Coefficient()
	if ca == 0 {
		return Zero
	}

	exp := int(a.Exponent()) - int(b.Exponent())
	neg := (ca < 0) != (cb < 0)
	ua, ub := abs64(ca), abs64(cb)

	q, r := ua/ub, ua%ub
	for i := 0; i < precision && r != 0 && q <= MaxCoefficient/10; i++ {
		r *= 10
		q = q*10 + r/ub
		r %= ub
		exp--
	}
	if r != 0 {
		twice := r * 2
		if twice > ub || (twice == ub && q%2 == 1) {
			q++
		}
	}

	if neg {
		q = -q
	}
	return normalize(q, exp)
}

// Cmp orders NaN below every number and equal to itself.
func (a Dec64) Cmp(b Dec64) int {
	switch {
	case a.IsNaN() && b.IsNaN():
		return 0
	case a.IsNaN():
		return -1
	case b.IsNaN():
		return 1
	}
	ca, cb, _ := align(a, b)
	switch {
	case ca < cb:
		return -1
	case ca > cb:
		return 1
	}
	return 0
}

func (a Dec64) Equal(b Dec64) bool { return a.Cmp(b) == 0 }

// And, Or, Xor and Not operate on the truncated integer values.
func (a Dec64) And(b Dec64) Dec64 { return FromInt64(a.Trunc() & b.Trunc()) }
func (a Dec64) Or(b Dec64) Dec64  { return FromInt64(a.Trunc() | b.Trunc()) }
func (a Dec64) Xor(b Dec64) Dec64 { return FromInt64(a.Trunc() ^ b.Trunc()) }
func (d Dec64) Not() Dec64        { return FromInt64(^d.Trunc()) }

func (d Dec64) String() string {
	if d.IsNaN() {
		return "NaN"
	}
	coef, exp := d.Coefficient(), int(d.Exponent())
	if coef == 0 {
		return "0"
	}

	sign := ""
	if coef < 0 {
		sign = "-"
		coef = -coef
	}
	digits := strconv.FormatInt(coef, 10)

	switch {
	case exp >= 0 && len(digits)+exp <= 21:
		return sign + digits + strings.Repeat("0", exp)
	case exp < 0 && -exp < len(digits):
		point := len(digits) + exp
		return sign + digits[:point] + "." + digits[point:]
	case exp < 0 && -exp-len(digits) <= 6:
		return sign + "0." + strings.Repeat("0", -exp-len(digits)) + digits
	}

	e := exp + len(digits) - 1
	digits = strings.TrimRight(digits, "0")
	mantissa := digits[:1]
	if len(digits) > 1 {
		mantissa += "." + digits[1:]
	}
	return sign + mantissa + "e" + strconv.Itoa(e)
}

// normalize fits coef into the coefficient range, strips trailing fractional
// zeros and moves positive exponents into the coefficient where they fit, so
// integers have exponent 0.
func normalize(coef int64, exp int) Dec64 {
	if coef == 0 {
		return Zero
	}
	for coef > MaxCoefficient || coef < MinCoefficient {
		coef /= 10
		exp++
	}
	for exp < 0 && coef%10 == 0 {
		coef /= 10
		exp++
	}
	for exp > 0 && coef <= MaxCoefficient/10 && coef >= MinCoefficient/10 {
		coef *= 10
		exp--
	}
	for exp < -127 {
		coef /= 10
		exp++
		if coef == 0 {
			return Zero
		}
	}
	if exp > 127 {
		return NaN
	}
	return New(coef, int8(exp))
}

// align brings both operands to a common exponent, scaling the larger
// exponent up while it fits and then dropping digits from the other side.
func align(a, b Dec64) (int64, int64, int) {
	ca, ea := a.Coefficient(), int(a.Exponent())
	cb, eb := b.Coefficient(), int(b.Exponent())

	for ea > eb && abs64(ca) <= alignLimit/10 {
		ca *= 10
		ea--
	}
	for eb > ea && abs64(cb) <= alignLimit/10 {
		cb *= 10
		eb--
	}
	for ea < eb {
		ca /= 10
		ea++
	}
	for eb < ea {
		cb /= 10
		eb++
	}
	return ca, cb, ea
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
