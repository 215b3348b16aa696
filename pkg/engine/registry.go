package engine

import (
	"strings"

	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// Entry is a tagged, unevaluated template fragment. Entries are appended to
// a Registry and never changed afterwards.
type Entry struct {
	Tags map[string]struct{}
	Body []grammar.Node
}

func newEntry(tags []string, body []grammar.Node) *Entry {
	e := &Entry{Tags: make(map[string]struct{}, len(tags)), Body: body}
	for _, t := range tags {
		e.Tags[t] = struct{}{}
	}
	return e
}

// HasAll reports whether e carries every tag in tags.
func (e *Entry) HasAll(tags []string) bool {
	for _, t := range tags {
		if _, ok := e.Tags[t]; !ok {
			return false
		}
	}
	return true
}

// HasAny reports whether e carries at least one tag in tags.
func (e *Entry) HasAny(tags []string) bool {
	for _, t := range tags {
		if _, ok := e.Tags[t]; ok {
			return true
		}
	}
	return false
}

// Registry holds the base entries added by [register] and the intercept
// chain added by [intercept], both in insertion order.
type Registry struct {
	entries    []*Entry
	intercepts []*Entry
}

// Register appends a base entry.
func (r *Registry) Register(tags []string, body []grammar.Node) {
	r.entries = append(r.entries, newEntry(tags, body))
}

// Intercept appends an intercept entry.
func (r *Registry) Intercept(tags []string, body []grammar.Node) {
	r.intercepts = append(r.intercepts, newEntry(tags, body))
}

// Candidates returns the base entries that carry every query tag and none of
// the excluded tags.
func (r *Registry) Candidates(query, exclude []string) []*Entry {
	var out []*Entry
	for _, e := range r.entries {
		if e.HasAll(query) && !e.HasAny(exclude) {
			out = append(out, e)
		}
	}
	return out
}

// Interceptors returns, in insertion order, the intercepts that share a tag
// with the query and carry none of the excluded tags.
func (r *Registry) Interceptors(query, exclude []string) []*Entry {
	var out []*Entry
	for _, e := range r.intercepts {
		if e.HasAny(query) && !e.HasAny(exclude) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of base entries and intercepts.
func (r *Registry) Len() (entries, intercepts int) {
	return len(r.entries), len(r.intercepts)
}

// splitTags splits comma separated tag lists, dropping blanks and duplicates
// while keeping first-seen order.
func splitTags(lists ...string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, t := range strings.Split(list, ",") {
			t = strings.TrimSpace(t)
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags
}
