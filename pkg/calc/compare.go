package calc

import (
	"cmp"
	"strings"
)

// Two-character operators come first so they win over their one-character
// prefixes found at the same position.
var operators = []string{"==", "!=", "<=", ">=", "<", ">", "="}

// SplitCondition finds the leftmost comparison operator in s and returns the
// trimmed operands around it. ok is false when s holds no operator.
func SplitCondition(s string) (left, op, right string, ok bool) {
	best := -1
	for _, o := range operators {
		if i := strings.Index(s, o); i >= 0 && (best < 0 || i < best) {
			best, op = i, o
		}
	}
	if best < 0 {
		return "", "", "", false
	}
	return strings.TrimSpace(s[:best]), op, strings.TrimSpace(s[best+len(op):]), true
}

// Compare applies op to two resolved operands. Both numeric means a numeric
// comparison, otherwise the operands are compared as strings.
// Unknown operators compare false.
func Compare(left, op, right string) bool {
	var c int
	ln, lok := Parse(left)
	rn, rok := Parse(right)
	switch {
	case lok && rok && !ln.IsFloat && !rn.IsFloat:
		c = cmp.Compare(ln.Int, rn.Int)
	case lok && rok:
		c = cmp.Compare(ln.Float64(), rn.Float64())
	default:
		c = strings.Compare(left, right)
	}

	switch op {
	case "==", "=":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

// Equal reports whether a and b are equal under template comparison rules,
// so "1" equals "1.0".
func Equal(a, b string) bool {
	return Compare(a, "==", b)
}
