package engine

import (
	"strconv"
	"unicode/utf8"

	"github.com/CTAG07/Parsifal/pkg/calc"
	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// calcExpr evaluates its body to text and then computes it as arithmetic.
// A malformed expression gives "0". When the body signals, the partial text
// is returned as is.
func calcExpr(st *State, d *grammar.Directive) (string, Signal) {
	text, sig := st.EvalBody(d)
	if sig != SignalNone {
		return text, sig
	}
	v, err := calc.Eval(text)
	if err != nil {
		st.logger.Debug("Malformed calc expression, using 0", "expression", text, "error", err)
		return "0", sig
	}
	return calc.Format(v), sig
}

// length returns the number of characters in its evaluated body.
func length(st *State, d *grammar.Directive) (string, Signal) {
	text, sig := st.EvalBody(d)
	if sig != SignalNone {
		return text, sig
	}
	return strconv.Itoa(utf8.RuneCountInString(text)), sig
}
