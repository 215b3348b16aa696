package engine

import (
	"strings"

	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// define stores its body, unevaluated, under a macro name. Redefining a
// macro replaces it.
func define(st *State, d *grammar.Directive) (string, Signal) {
	name := strings.TrimSpace(d.Param("name", 0))
	if name == "" {
		st.logger.Debug("def without a name ignored")
		return "", SignalNone
	}
	st.macros[name] = d.Body
	return "", SignalNone
}

// call evaluates a macro body in the current environment.
func call(st *State, d *grammar.Directive) (string, Signal) {
	name := strings.TrimSpace(d.Param("name", 0))
	body, ok := st.macros[name]
	if !ok {
		st.logger.Debug("Call to undefined macro", "macro", name)
		return "", SignalNone
	}
	if !st.enter(d) {
		return "", SignalNone
	}
	defer st.leave()
	return st.Eval(body)
}
