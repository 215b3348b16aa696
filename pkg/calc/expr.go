package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode"
)

// ErrSyntax is returned for expressions that cannot be parsed.
var ErrSyntax = errors.New("calc: syntax error")

type function func(args []float64) (float64, error)

var functions = map[string]function{
	"max":   variadic(math.Max),
	"min":   variadic(math.Min),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"round": unary(math.Round),
	"sqrt":  unary(math.Sqrt),
	"pow": func(args []float64) (float64, error) {
		if len(args) != 2 {
			return 0, fmt.Errorf("%w: pow takes 2 arguments, got %d", ErrSyntax, len(args))
		}
		return math.Pow(args[0], args[1]), nil
	},
}

func variadic(fn func(a, b float64) float64) function {
	return func(args []float64) (float64, error) {
		if len(args) == 0 {
			return 0, fmt.Errorf("%w: function needs at least one argument", ErrSyntax)
		}
		r := args[0]
		for _, a := range args[1:] {
			r = fn(r, a)
		}
		return r, nil
	}
}

func unary(fn func(float64) float64) function {
	return func(args []float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("%w: function takes 1 argument, got %d", ErrSyntax, len(args))
		}
		return fn(args[0]), nil
	}
}

// exprParser evaluates while it parses; expressions are short and used once.
type exprParser struct {
	input []rune
	pos   int
}

// Eval evaluates an infix arithmetic expression with + - * / %, unary minus,
// parentheses and the functions max, min, abs, floor, ceil, round, sqrt and
// pow. Division and modulo by zero yield 0.
func Eval(expr string) (float64, error) {
	p := &exprParser{input: []rune(expr)}
	v, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrSyntax, p.input[p.pos], p.pos)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, nil
	}
	return v, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *exprParser) peek() rune {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseSum() (float64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseProduct()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) parseProduct() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' && op != '%' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch {
		case op == '*':
			left *= right
		case right == 0:
			left = 0
		case op == '/':
			left /= right
		default:
			left = math.Mod(left, right)
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	ch := p.peek()
	switch {
	case ch == 0:
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	case ch == '(':
		p.pos++
		v, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing ')' at position %d", ErrSyntax, p.pos)
		}
		p.pos++
		return v, nil
	case unicode.IsDigit(ch) || ch == '.':
		return p.parseNumber()
	case unicode.IsLetter(ch) || ch == '_':
		return p.parseCall()
	default:
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrSyntax, ch, p.pos)
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	v, err := strconv.ParseFloat(string(p.input[start:p.pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, string(p.input[start:p.pos]))
	}
	return v, nil
}

func (p *exprParser) parseCall() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(p.input[p.pos]) || unicode.IsDigit(p.input[p.pos]) || p.input[p.pos] == '_') {
		p.pos++
	}
	name := string(p.input[start:p.pos])
	fn, ok := functions[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown function %q", ErrSyntax, name)
	}
	if p.peek() != '(' {
		return 0, fmt.Errorf("%w: expected '(' after %s", ErrSyntax, name)
	}
	p.pos++

	var args []float64
	if p.peek() == ')' {
		p.pos++
		return fn(args)
	}
	for {
		v, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		args = append(args, v)
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return fn(args)
		default:
			return 0, fmt.Errorf("%w: expected ',' or ')' in call to %s", ErrSyntax, name)
		}
	}
}
