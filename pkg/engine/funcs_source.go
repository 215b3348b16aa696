package engine

import (
	"strings"

	"github.com/CTAG07/Parsifal/pkg/grammar"
)

// readFile returns the raw contents of a file. The contents are not
// evaluated.
func readFile(st *State, d *grammar.Directive) (string, Signal) {
	name := strings.TrimSpace(d.Param("name", 0))
	if st.source == nil || name == "" {
		return "", SignalNone
	}
	text, err := st.source.ReadFile(st.ctx, name)
	if err != nil {
		st.logger.Debug("Could not read file", "file", name, "error", err)
		return "", SignalNone
	}
	return text, SignalNone
}

// readAll returns the raw contents of every file directly under a directory,
// in name order, joined with newlines.
func readAll(st *State, d *grammar.Directive) (string, Signal) {
	dir := strings.TrimSpace(d.Param("dir", 0))
	names := st.listFiles(dir)
	texts := make([]string, 0, len(names))
	for _, name := range names {
		text, err := st.source.ReadFile(st.ctx, name)
		if err != nil {
			st.logger.Debug("Could not read file", "file", name, "error", err)
			continue
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "\n"), SignalNone
}

// library evaluates every file under a directory for its definitions.
func library(st *State, d *grammar.Directive) (string, Signal) {
	if !st.enter(d) {
		return "", SignalNone
	}
	defer st.leave()
	st.loadDirectory(strings.TrimSpace(d.Param("dir", 0)))
	return "", SignalNone
}

func (st *State) listFiles(dir string) []string {
	if st.source == nil {
		return nil
	}
	names, err := st.source.ListFiles(st.ctx, dir)
	if err != nil {
		st.logger.Debug("Could not list directory", "dir", dir, "error", err)
		return nil
	}
	return names
}

// loadDirectory parses and evaluates each file under dir, discarding output.
// Each file runs outside any loop, and a [stop] only ends that file.
func (st *State) loadDirectory(dir string) {
	names := st.listFiles(dir)

	savedLoops := st.loops
	st.loops = 0
	defer func() { st.loops = savedLoops }()

	for _, name := range names {
		text, err := st.source.ReadFile(st.ctx, name)
		if err != nil {
			st.logger.Debug("Could not read file", "file", name, "error", err)
			continue
		}
		st.Eval(grammar.Parse(text))
	}
	st.logger.Debug("Loaded library", "dir", dir, "files", len(names))
}
