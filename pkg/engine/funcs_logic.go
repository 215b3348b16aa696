package engine

import (
	"math"
	"strings"

	"github.com/CTAG07/Parsifal/pkg/calc"
	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// chainState tracks an if/elseif/else chain across sibling nodes.
type chainState int

const (
	chainNone chainState = iota // no chain in progress
	chainOpen                   // a chain whose branches have all been false so far
	chainDone                   // a chain that already took a branch
)

// branch evaluates one link of a conditional chain. Branches after the taken
// one are skipped without touching their bodies.
func (st *State) branch(d *grammar.Directive, chain *chainState) (string, Signal) {
	switch d.Name {
	case "if":
		if st.condition(d) {
			*chain = chainDone
			return st.EvalBody(d)
		}
		*chain = chainOpen
	case "elseif":
		if *chain == chainNone {
			st.logger.Debug("elseif without a preceding if", "condition", d.ArgText)
		}
		if *chain != chainOpen {
			return "", SignalNone
		}
		if st.condition(d) {
			*chain = chainDone
			return st.EvalBody(d)
		}
	case "else":
		open := *chain == chainOpen
		if *chain == chainNone {
			st.logger.Debug("else without a preceding if")
		}
		*chain = chainNone
		if open {
			return st.EvalBody(d)
		}
	}
	return "", SignalNone
}

// condition evaluates the argument text of an if/elseif. Without a
// comparison operator the operand is tested for truth.
func (st *State) condition(d *grammar.Directive) bool {
	if left, op, right, ok := calc.SplitCondition(d.ArgText); ok {
		return calc.Compare(st.resolve(left), op, st.resolve(right))
	}
	return st.truthy(strings.TrimSpace(d.ArgText))
}

// resolve returns the value of s when it names a set variable, otherwise s
// itself, trimmed either way.
func (st *State) resolve(s string) string {
	s = strings.TrimSpace(s)
	if v, ok := st.env.Lookup(s); ok {
		return strings.TrimSpace(v)
	}
	return s
}

// truthy is true for non-zero numbers and for set variables holding a
// non-empty, non-zero value.
func (st *State) truthy(s string) bool {
	if s == "" {
		return false
	}
	if n, ok := calc.Parse(s); ok {
		return n.Float64() != 0
	}
	v, ok := st.env.Lookup(s)
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)
	if n, ok := calc.Parse(v); ok {
		return n.Float64() != 0
	}
	return v != ""
}

// count reads a repetition count: a number, or the name of a variable
// holding one. Negative and non-numeric counts are 0, huge ones saturate at
// math.MaxInt32.
func (st *State) count(s string) int {
	n := calc.Coerce(st.resolve(s)).Float64()
	switch {
	case n < 0:
		return 0
	case n > math.MaxInt32:
		return math.MaxInt32
	}
	return int(n)
}

// switchCase evaluates the first [case] whose value equals the operand, or
// else the [default]. Other children of the switch are ignored.
func switchCase(st *State, d *grammar.Directive) (string, Signal) {
	value := st.resolve(d.ArgText)

	var fallback *grammar.Directive
	for _, n := range d.Body {
		c, ok := n.(*grammar.Directive)
		if !ok {
			continue
		}
		switch c.Name {
		case "case":
			for _, v := range c.Args {
				if calc.Equal(value, v) {
					return st.EvalBody(c)
				}
			}
		case "default":
			if fallback == nil {
				fallback = c
			}
		}
	}
	if fallback != nil {
		return st.EvalBody(fallback)
	}
	return "", SignalNone
}

// orphan handles [case] and [default] outside a [switch].
func orphan(st *State, d *grammar.Directive) (string, Signal) {
	st.logger.Debug("Directive outside of switch", "directive", d.Name)
	return "", SignalNone
}

// loop evaluates its body count times, keeping the environment between
// iterations. A break ends the loop and is not propagated further.
func loop(st *State, d *grammar.Directive) (string, Signal) {
	n := st.count(d.Param("count", 0))
	if n > st.config.MaxLoopCount {
		st.logger.Warn("Loop count exceeds limit, clamping",
			"count", n,
			"max_loop_count", st.config.MaxLoopCount,
		)
		n = st.config.MaxLoopCount
	}

	st.loops++
	defer func() { st.loops-- }()

	var b strings.Builder
	for i := 0; i < n; i++ {
		out, sig := st.EvalBody(d)
		b.WriteString(out)
		switch sig {
		case SignalBreak:
			return b.String(), SignalNone
		case SignalStop:
			return b.String(), SignalStop
		}
	}
	return b.String(), SignalNone
}

// breakLoop signals the enclosing loop to end. Outside a loop it does nothing.
func breakLoop(st *State, _ *grammar.Directive) (string, Signal) {
	if st.loops == 0 {
		st.logger.Debug("break outside of loop ignored")
		return "", SignalNone
	}
	return "", SignalBreak
}

// stop ends the whole evaluation.
func stop(_ *State, _ *grammar.Directive) (string, Signal) {
	return "", SignalStop
}

// mute evaluates its body for side effects only.
func mute(st *State, d *grammar.Directive) (string, Signal) {
	_, sig := st.EvalBody(d)
	return "", sig
}
