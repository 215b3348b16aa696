package grammar

// Node is an element of a parsed document: either *Text or *Directive.
type Node interface {
	node()
}

// Document is the ordered list of top-level nodes produced by one Parse call.
type Document []Node

// Text is a run of literal template text.
type Text struct {
	Raw string
}

// Directive is a bracket tag together with the nodes it encloses.
// Nodes are never modified after parsing, so a body can be stored and
// evaluated any number of times.
type Directive struct {
	// Name is the tag name, e.g. "set" for [set x].
	Name string

	// Args holds the positional arguments in source order.
	Args []string

	// Named holds the key=value arguments.
	Named map[string]string

	// ArgText is the unparsed argument text of the opening tag, with quotes removed.
	// Conditions such as [if a == 1] are read from it.
	ArgText string

	// Body holds the enclosed nodes. It is empty for self-closing directives.
	Body []Node

	// SelfClosing is true when no matching [/name] was found.
	SelfClosing bool

	// Open is the opening tag exactly as written in the source.
	Open string
}

func (*Text) node()      {}
func (*Directive) node() {}

// Arg returns the i-th positional argument, or "" if there is none.
func (d *Directive) Arg(i int) string {
	if i < 0 || i >= len(d.Args) {
		return ""
	}
	return d.Args[i]
}

// Param returns the named argument key if present, otherwise the positional
// argument at pos (pos < 0 disables the fallback).
func (d *Directive) Param(key string, pos int) string {
	if v, ok := d.Named[key]; ok {
		return v
	}
	if pos < 0 {
		return ""
	}
	return d.Arg(pos)
}

// Has reports whether the named argument key was given.
func (d *Directive) Has(key string) bool {
	_, ok := d.Named[key]
	return ok
}

// Close returns the closing tag for d.
func (d *Directive) Close() string {
	return "[/" + d.Name + "]"
}
