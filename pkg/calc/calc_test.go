package calc

import (
	"errors"
	"testing"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"5 + 5", "10"},
		{"max(10, 20)", "20"},
		{"min(4, 2, 8)", "2"},
		{"5 * 2", "10"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"7 / 2", "3.500"},
		{"10 / 4", "2.500"},
		{"1 / 3", "0.333"},
		{"-3 + 1", "-2"},
		{"--2", "2"},
		{"10 % 3", "1"},
		{"5 / 0", "0"},
		{"5 % 0", "0"},
		{"abs(-4)", "4"},
		{"pow(2, 10)", "1024"},
		{"sqrt(2)", "1.414"},
		{"round(2.5) + floor(1.9) + ceil(0.1)", "5"},
		{"0.5 + 0.25", "0.750"},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			v, err := Eval(tc.expr)
			if err != nil {
				t.Fatalf("Eval(%q) error: %v", tc.expr, err)
			}
			if got := Format(v); got != tc.want {
				t.Errorf("Eval(%q) = %s, want %s", tc.expr, got, tc.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	for _, expr := range []string{"", "1 +", "(1", "foo(1)", "max", "2 3", "hello", "pow(1)", "max()"} {
		if _, err := Eval(expr); !errors.Is(err, ErrSyntax) {
			t.Errorf("Eval(%q): expected ErrSyntax, got %v", expr, err)
		}
	}
}

func TestParseAndCoerce(t *testing.T) {
	if n, ok := Parse("42"); !ok || n.IsFloat || n.Int != 42 {
		t.Errorf("Parse(42) = %+v, %v", n, ok)
	}
	if n, ok := Parse(" 1.5 "); !ok || !n.IsFloat || n.Float != 1.5 {
		t.Errorf("Parse(1.5) = %+v, %v", n, ok)
	}
	if n, ok := Parse("1e5"); !ok || n.IsFloat || n.Int != 100000 {
		t.Errorf("Parse(1e5) = %+v, %v; want integer 100000", n, ok)
	}
	if n, ok := Parse("1e30"); !ok || !n.IsFloat {
		t.Errorf("Parse(1e30) = %+v, %v; want a float", n, ok)
	}
	if n, ok := Parse("2.5e1"); !ok || !n.IsFloat || n.Float != 25 {
		t.Errorf("Parse(2.5e1) = %+v, %v; want float 25", n, ok)
	}
	if _, ok := Parse("NaN"); ok {
		t.Error("NaN should not parse")
	}
	if _, ok := Parse("abc"); ok {
		t.Error("abc should not parse")
	}
	if n := Coerce("abc"); n.Float64() != 0 || n.IsFloat {
		t.Errorf("Coerce(abc) = %+v, want integer 0", n)
	}
}

func TestNumberArithmetic(t *testing.T) {
	if got := Int(5).Add(Int(1)).String(); got != "6" {
		t.Errorf("5+1 = %s", got)
	}
	if got := Int(0).Add(Int(1).Neg()).String(); got != "-1" {
		t.Errorf("0-1 = %s", got)
	}
	if got := Float(1.5).Add(Int(1)).String(); got != "2.500" {
		t.Errorf("1.5+1 = %s", got)
	}
	if got := FormatFixed(-0.0001); got != "0.000" {
		t.Errorf("FormatFixed(-0.0001) = %s", got)
	}
	if got := Format(5); got != "5" {
		t.Errorf("Format(5) = %s", got)
	}
}

func TestSplitCondition(t *testing.T) {
	tests := []struct {
		in              string
		left, op, right string
		ok              bool
	}{
		{"a==1", "a", "==", "1", true},
		{"a != 1", "a", "!=", "1", true},
		{"a<=2", "a", "<=", "2", true},
		{"a>2", "a", ">", "2", true},
		{"a=b", "a", "=", "b", true},
		{"flag", "", "", "", false},
	}
	for _, tc := range tests {
		l, op, r, ok := SplitCondition(tc.in)
		if l != tc.left || op != tc.op || r != tc.right || ok != tc.ok {
			t.Errorf("SplitCondition(%q) = %q %q %q %v", tc.in, l, op, r, ok)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		left, op, right string
		want            bool
	}{
		{"1", "==", "1", true},
		{"1", "==", "1.0", true},
		{"1", "!=", "2", true},
		{"10", ">", "9", true},
		{"10", "<", "9", false},
		{"abc", "==", "abc", true},
		{"abc", "!=", "abd", true},
		{"b", ">=", "a", true},
		{"1", "?", "1", false},
	}
	for _, tc := range tests {
		if got := Compare(tc.left, tc.op, tc.right); got != tc.want {
			t.Errorf("Compare(%q %s %q) = %v, want %v", tc.left, tc.op, tc.right, got, tc.want)
		}
	}
	if !Equal("2", "2.000") {
		t.Error("Equal should compare numerically")
	}
}
