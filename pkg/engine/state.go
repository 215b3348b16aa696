package engine

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// Signal is the control outcome of evaluating a node sequence.
type Signal int

const (
	// SignalNone means evaluation ran to the end of the sequence.
	SignalNone Signal = iota
	// SignalBreak ends the nearest enclosing [loop].
	SignalBreak
	// SignalStop ends the whole Parse call.
	SignalStop
)

// Handler implements one directive. It receives the directive with its
// arguments and unevaluated body and returns the text it produces. A handler
// that evaluates a body must return the body's signal so [break] and [stop]
// keep propagating.
type Handler func(st *State, d *grammar.Directive) (string, Signal)

// Env is the variable environment. Values are always strings.
type Env map[string]string

// Get returns the value of name, or "" when unset.
func (e Env) Get(name string) string {
	return e[name]
}

// Lookup returns the value of name and whether it is set.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// Set assigns value to name.
func (e Env) Set(name, value string) {
	e[name] = value
}

// State is the mutable runtime shared by every handler of one Engine.
type State struct {
	ctx      context.Context
	env      Env
	registry *Registry
	macros   map[string][]grammar.Node
	rng      *rand.Rand
	source   Source
	config   *Config
	logger   *slog.Logger
	handlers map[string]Handler

	depth  int             // nesting of call/select/library
	loops  int             // enclosing loops; break is a no-op at 0
	passed bool            // set by [pass] inside an intercept
	active map[*Entry]bool // intercepts currently being evaluated
}

// Env returns the variable environment.
func (st *State) Env() Env { return st.env }

// Rand returns the engine's random source. Handlers must draw from it, and
// only from it, to keep output reproducible.
func (st *State) Rand() *rand.Rand { return st.rng }

// Logger returns the engine's logger.
func (st *State) Logger() *slog.Logger { return st.logger }

// Context returns the context of the running Parse call.
func (st *State) Context() context.Context { return st.ctx }

// Eval evaluates nodes in order and returns their concatenated output. It
// stops early when a directive signals break or stop, returning the output
// produced so far together with that signal.
func (st *State) Eval(nodes []grammar.Node) (string, Signal) {
	var (
		b     strings.Builder
		chain chainState
	)
	for _, n := range nodes {
		switch n := n.(type) {
		case *grammar.Text:
			b.WriteString(n.Raw)
			if strings.TrimSpace(n.Raw) != "" {
				chain = chainNone
			}
		case *grammar.Directive:
			var (
				out string
				sig Signal
			)
			switch n.Name {
			case "if", "elseif", "else":
				out, sig = st.branch(n, &chain)
			default:
				chain = chainNone
				out, sig = st.dispatch(n)
			}
			b.WriteString(out)
			if sig != SignalNone {
				return b.String(), sig
			}
		}
	}
	return b.String(), SignalNone
}

// EvalBody evaluates the body of d.
func (st *State) EvalBody(d *grammar.Directive) (string, Signal) {
	return st.Eval(d.Body)
}

func (st *State) dispatch(d *grammar.Directive) (string, Signal) {
	if h, ok := st.handlers[d.Name]; ok {
		return h(st, d)
	}
	return st.echo(d)
}

// echo writes an unknown directive back as it was written, evaluating its
// body so directives nested inside still run.
func (st *State) echo(d *grammar.Directive) (string, Signal) {
	st.logger.Debug("Unknown directive, echoing it literally", "directive", d.Name)
	body, sig := st.Eval(d.Body)
	out := d.Open + body
	if sig == SignalNone && !d.SelfClosing {
		out += d.Close()
	}
	return out, sig
}

// enter guards one level of call/select/library nesting. Callers must call
// leave when enter returns true.
func (st *State) enter(d *grammar.Directive) bool {
	if st.depth >= st.config.MaxDepth {
		st.logger.Warn("Maximum nesting depth reached, skipping directive",
			"directive", d.Name,
			"max_depth", st.config.MaxDepth,
		)
		return false
	}
	st.depth++
	return true
}

func (st *State) leave() {
	st.depth--
}
