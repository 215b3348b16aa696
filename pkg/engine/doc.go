/*
Package engine evaluates Parsifal templates.

An Engine owns everything a template can change: the variable environment,
the content registry with its intercept chain, the macro table and a seeded
random source. That state lives as long as the Engine, so libraries loaded
once can be used by every later Parse call:

	eng := engine.New(logger, source.NewDirSource("./data"), &engine.Config{Seed: 42})
	eng.LoadDirectory(ctx, "defs")
	out := eng.Parse("[set name=hero]Parsifal[/set][get hero] finds a [select color] cup.")

Evaluation is a depth-first, left-to-right walk over the document tree.
Directives are dispatched by name through a handler table; Handle adds custom
directives. Nothing in a template is ever fatal: unknown directives are
echoed back, missing variables, macros, files and registry matches produce
empty output, and non-numeric values count as 0.

The random source is consumed strictly in evaluation order, so the same seed
and template always give the same output. An Engine serializes its calls; use
one Engine per worker for parallel generation.
*/
package engine
