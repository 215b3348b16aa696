// Package calc implements the numeric side of Parsifal templates: coercion of
// string values to numbers, result formatting, the arithmetic used by [calc]
// and the comparisons used by [if] and [switch].
package calc

import (
	"math"
	"strconv"
	"strings"
)

// Number is a template value seen as a number. A value written without a
// decimal point is an integer, anything else is a float.
type Number struct {
	Int     int64
	Float   float64
	IsFloat bool
}

// Int returns an integer Number.
func Int(i int64) Number {
	return Number{Int: i}
}

// Float returns a floating point Number.
func Float(f float64) Number {
	return Number{Float: f, IsFloat: true}
}

// Parse reads s as a number. It reports false for anything non-numeric,
// including NaN and infinities. Exponent forms without a decimal point, such
// as 1e5, are integers when the value is whole and fits in an int64.
func Parse(s string) (Number, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, false
	}
	if !strings.Contains(s, ".") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, false
	}
	if !strings.Contains(s, ".") && f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return Int(int64(f)), true
	}
	return Float(f), true
}

// Coerce is Parse with non-numeric input treated as 0.
func Coerce(s string) Number {
	n, _ := Parse(s)
	return n
}

// Float64 returns n as a float64.
func (n Number) Float64() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// Add returns n + m. The result is an integer only if both operands are.
func (n Number) Add(m Number) Number {
	if !n.IsFloat && !m.IsFloat {
		return Int(n.Int + m.Int)
	}
	return Float(n.Float64() + m.Float64())
}

// Neg returns -n.
func (n Number) Neg() Number {
	if n.IsFloat {
		return Float(-n.Float)
	}
	return Int(-n.Int)
}

// String renders integers plainly and floats with exactly three decimals.
func (n Number) String() string {
	if n.IsFloat {
		return FormatFixed(n.Float)
	}
	return strconv.FormatInt(n.Int, 10)
}

// Format renders an arithmetic result: integral values have no decimal
// point, fractional ones get exactly three decimals.
func Format(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return strconv.FormatInt(int64(f), 10)
	}
	return FormatFixed(f)
}

// FormatFixed renders f with exactly three decimals.
func FormatFixed(f float64) string {
	s := strconv.FormatFloat(f, 'f', 3, 64)
	if s == "-0.000" {
		return "0.000"
	}
	return s
}
