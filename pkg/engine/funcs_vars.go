package engine

import (
	"strings"

	"github.com/CTAG07/Parsifal/pkg/calc"
	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// varName returns the variable a directive acts on: name= or the first
// positional argument.
func varName(d *grammar.Directive) string {
	return strings.TrimSpace(d.Param("name", 0))
}

// setVar evaluates the body and stores it. It serves both [set] and [override].
func setVar(st *State, d *grammar.Directive) (string, Signal) {
	val, sig := st.EvalBody(d)
	name := varName(d)
	if name == "" {
		st.logger.Debug("Directive has no variable name", "directive", d.Name)
		return "", sig
	}
	st.env.Set(name, val)
	return "", sig
}

// getVar returns the value of a variable, or "" when it is unset.
func getVar(st *State, d *grammar.Directive) (string, Signal) {
	return st.env.Get(varName(d)), SignalNone
}

// existsVar returns "1" for a set variable and "" otherwise.
func existsVar(st *State, d *grammar.Directive) (string, Signal) {
	if _, ok := st.env.Lookup(varName(d)); ok {
		return "1", SignalNone
	}
	return "", SignalNone
}

// incVar adds 1 (or by=) to a variable, treating unset as 0.
func incVar(st *State, d *grammar.Directive) (string, Signal) {
	return step(st, d, false)
}

// decVar subtracts 1 (or by=) from a variable, treating unset as 0.
func decVar(st *State, d *grammar.Directive) (string, Signal) {
	return step(st, d, true)
}

func step(st *State, d *grammar.Directive, negate bool) (string, Signal) {
	name := varName(d)
	if name == "" {
		return "", SignalNone
	}
	delta := calc.Int(1)
	if by, ok := d.Named["by"]; ok {
		delta = calc.Coerce(st.resolve(by))
	}
	if negate {
		delta = delta.Neg()
	}
	cur := calc.Coerce(st.env.Get(name))
	st.env.Set(name, cur.Add(delta).String())
	return "", SignalNone
}
