package engine

import (
	"math"
	"strings"

	"github.com/CTAG07/Parsifal/pkg/calc"
	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// maxDraw bounds the magnitude of fractional draws so they fit in an int64
// count of thousandths.
const maxDraw = 1e12

// alternatives splits a body into its choices. The separator is '|' when the
// body's own text contains one, otherwise newline, in which case blank lines
// are dropped. Pipes inside nested directives never split the outer body.
func alternatives(body []grammar.Node) [][]grammar.Node {
	sep := "\n"
	for _, n := range body {
		if t, ok := n.(*grammar.Text); ok && strings.Contains(t.Raw, "|") {
			sep = "|"
			break
		}
	}

	var (
		alts [][]grammar.Node
		cur  []grammar.Node
	)
	for _, n := range body {
		t, ok := n.(*grammar.Text)
		if !ok {
			cur = append(cur, n)
			continue
		}
		for i, part := range strings.Split(t.Raw, sep) {
			if i > 0 {
				alts = append(alts, cur)
				cur = nil
			}
			if part != "" {
				cur = append(cur, &grammar.Text{Raw: part})
			}
		}
	}
	alts = append(alts, cur)

	if sep == "|" {
		return alts
	}
	kept := alts[:0]
	for _, alt := range alts {
		if !blank(alt) {
			kept = append(kept, alt)
		}
	}
	return kept
}

func blank(nodes []grammar.Node) bool {
	for _, n := range nodes {
		t, ok := n.(*grammar.Text)
		if !ok || strings.TrimSpace(t.Raw) != "" {
			return false
		}
	}
	return true
}

// evalAlternative evaluates one choice and trims it.
func (st *State) evalAlternative(alt []grammar.Node) (string, Signal) {
	out, sig := st.Eval(alt)
	return strings.TrimSpace(out), sig
}

// sample picks k distinct indexes below n with a partial Fisher-Yates shuffle.
func (st *State) sample(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + st.rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// draw returns a uniform value in [lo, hi] in steps of 0.001. Reversed
// bounds are swapped.
func (st *State) draw(lo, hi float64) float64 {
	lo = max(-maxDraw, min(maxDraw, lo))
	hi = max(-maxDraw, min(maxDraw, hi))
	if lo > hi {
		lo, hi = hi, lo
	}
	a := int64(math.Round(lo * 1000))
	b := int64(math.Round(hi * 1000))
	return float64(a+st.rng.Int64N(b-a+1)) / 1000
}

// ran evaluates one (or count=) of its alternatives, chosen at random.
// Multiple picks are distinct and joined with ", ".
func ran(st *State, d *grammar.Directive) (string, Signal) {
	alts := alternatives(d.Body)
	n := 1
	if c, ok := d.Named["count"]; ok {
		n = st.count(c)
	}
	n = min(n, len(alts))
	if n <= 0 {
		return "", SignalNone
	}

	outs := make([]string, 0, n)
	for _, i := range st.sample(len(alts), n) {
		out, sig := st.evalAlternative(alts[i])
		outs = append(outs, out)
		if sig != SignalNone {
			return strings.Join(outs, ", "), sig
		}
	}
	return strings.Join(outs, ", "), SignalNone
}

// chance evaluates its body with the given percent probability.
func chance(st *State, d *grammar.Directive) (string, Signal) {
	p := calc.Coerce(st.resolve(d.Param("percent", 0))).Float64()
	roll := st.rng.Float64() * 100
	if roll >= p {
		return "", SignalNone
	}
	return st.EvalBody(d)
}

func evalAlternatives(st *State, alts [][]grammar.Node) ([]string, Signal) {
	outs := make([]string, 0, len(alts))
	for _, alt := range alts {
		out, sig := st.evalAlternative(alt)
		outs = append(outs, out)
		if sig != SignalNone {
			return outs, sig
		}
	}
	return outs, SignalNone
}

// shuffle evaluates every alternative and joins them with '|' in random order.
func shuffle(st *State, d *grammar.Directive) (string, Signal) {
	outs, sig := evalAlternatives(st, alternatives(d.Body))
	if sig != SignalNone {
		return strings.Join(outs, "|"), sig
	}
	st.rng.Shuffle(len(outs), func(i, j int) {
		outs[i], outs[j] = outs[j], outs[i]
	})
	return strings.Join(outs, "|"), SignalNone
}

// join evaluates every alternative and joins them with sep=, in order.
func join(st *State, d *grammar.Directive) (string, Signal) {
	outs, sig := evalAlternatives(st, alternatives(d.Body))
	return strings.Join(outs, d.Param("sep", 0)), sig
}

// randomRange returns a uniform number between min and max inclusive. Two
// integer bounds give an integer, otherwise the result has three decimals.
func randomRange(st *State, d *grammar.Directive) (string, Signal) {
	lo := calc.Coerce(st.resolve(d.Param("min", 0)))
	hi := calc.Coerce(st.resolve(d.Param("max", 1)))
	if lo.IsFloat || hi.IsFloat {
		return calc.FormatFixed(st.draw(lo.Float64(), hi.Float64())), SignalNone
	}

	a, b := lo.Int, hi.Int
	if a > b {
		a, b = b, a
	}
	span := uint64(b-a) + 1
	if span == 0 {
		return calc.Int(int64(st.rng.Uint64())).String(), SignalNone
	}
	return calc.Int(a + int64(st.rng.Uint64N(span))).String(), SignalNone
}

// weightBounds returns the draw range of [rw] and [irw]: min/max arguments
// when given, the configured defaults otherwise.
func (st *State) weightBounds(d *grammar.Directive) (float64, float64) {
	lo, hi := st.config.WeightMin, st.config.WeightMax
	if v := d.Param("min", 0); v != "" {
		lo = calc.Coerce(st.resolve(v)).Float64()
	}
	if v := d.Param("max", 1); v != "" {
		hi = calc.Coerce(st.resolve(v)).Float64()
	}
	return lo, hi
}

// weight wraps its body as a prompt weight: (body:1.234). A signalling body
// is returned unwrapped and no weight is drawn.
func weight(st *State, d *grammar.Directive) (string, Signal) {
	body, sig := st.EvalBody(d)
	if sig != SignalNone {
		return body, sig
	}
	w := st.draw(st.weightBounds(d))
	return "(" + body + ":" + calc.FormatFixed(w) + ")", sig
}

// invertedWeight wraps its body as (body)1.234.
func invertedWeight(st *State, d *grammar.Directive) (string, Signal) {
	body, sig := st.EvalBody(d)
	if sig != SignalNone {
		return body, sig
	}
	w := st.draw(st.weightBounds(d))
	return "(" + body + ")" + calc.FormatFixed(w), sig
}
