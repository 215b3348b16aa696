/*
Package grammar parses Parsifal templates into a document tree.

A template is literal text mixed with bracket directives:

	[set name=hero]Parsifal[/set] rides out. [ran]north|south[/ran]

A directive is opened with [name args...] and closed with [/name]. A directive
that is never closed is self-closing and has an empty body. Arguments are
whitespace separated and are either positional or key=value pairs.

The parser never fails. Anything that does not form a well-formed tag is kept
as literal text, and unknown directive names are left for the evaluator to
decide on. Comments ([#]...[/#] and [comment]...[/comment]) are dropped while
scanning, and [ignore]...[/ignore] copies its content through verbatim.
*/
package grammar
