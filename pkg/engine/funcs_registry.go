package engine

import (
	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// entryTags collects the tags of a [register] or [intercept]: tags=,
// required= and every positional argument, each a comma separated list.
func entryTags(d *grammar.Directive) []string {
	lists := append([]string{d.Named["tags"], d.Named["required"]}, d.Args...)
	return splitTags(lists...)
}

// register stores its body, unevaluated, as a base entry.
func register(st *State, d *grammar.Directive) (string, Signal) {
	tags := entryTags(d)
	if len(tags) == 0 {
		st.logger.Debug("register without tags ignored")
		return "", SignalNone
	}
	st.registry.Register(tags, d.Body)
	return "", SignalNone
}

// intercept stores its body, unevaluated, at the end of the intercept chain.
func intercept(st *State, d *grammar.Directive) (string, Signal) {
	tags := entryTags(d)
	if len(tags) == 0 {
		st.logger.Debug("intercept without tags ignored")
		return "", SignalNone
	}
	st.registry.Intercept(tags, d.Body)
	return "", SignalNone
}

// selectEntry resolves a tag query. Matching intercepts are tried first, in
// insertion order; the first one that does not [pass] provides the result.
// Otherwise a random base entry carrying every query tag is evaluated.
func selectEntry(st *State, d *grammar.Directive) (string, Signal) {
	query := splitTags(append([]string{d.Named["tags"]}, d.Args...)...)
	if len(query) == 0 {
		return "", SignalNone
	}
	exclude := splitTags(d.Named["exclude"])

	if !st.enter(d) {
		return "", SignalNone
	}
	defer st.leave()

	for _, e := range st.registry.Interceptors(query, exclude) {
		if st.active[e] {
			continue
		}
		out, sig, passed := st.tryIntercept(e)
		if sig != SignalNone {
			return out, sig
		}
		if !passed {
			return out, SignalNone
		}
	}

	candidates := st.registry.Candidates(query, exclude)
	if len(candidates) == 0 {
		st.logger.Debug("No registry entry matches", "tags", query, "exclude", exclude)
		return "", SignalNone
	}

	// A [pass] in a base entry must not reach an intercept that selected it.
	saved := st.passed
	out, sig := st.Eval(candidates[st.rng.IntN(len(candidates))].Body)
	st.passed = saved
	return out, sig
}

// tryIntercept evaluates an intercept and reports whether it passed. The
// intercept is marked active meanwhile so a nested select with the same tags
// reaches the next link of the chain.
func (st *State) tryIntercept(e *Entry) (string, Signal, bool) {
	saved := st.passed
	st.passed = false
	st.active[e] = true

	out, sig := st.Eval(e.Body)
	passed := st.passed

	delete(st.active, e)
	st.passed = saved
	return out, sig, passed
}

// pass declines the current intercept.
func pass(st *State, _ *grammar.Directive) (string, Signal) {
	st.passed = true
	return "", SignalNone
}
