package grammar

import "strings"

// Tags the scanner handles itself instead of producing nodes.
const (
	hashTag    = "#"
	commentTag = "comment"
	ignoreTag  = "ignore"
)

// tag is one scanned [name ...] or [/name].
type tag struct {
	name    string
	closing bool
	args    string // argument text between the name and ']'
	raw     string
	end     int // offset just past ']'
}

// frame is a directive that has been opened but not yet closed. Text is
// collected in pending and becomes a node once something else follows it.
type frame struct {
	dir     *Directive
	nodes   []Node
	pending strings.Builder
}

// flush moves pending text into nodes.
func (f *frame) flush() {
	if f.pending.Len() == 0 {
		return
	}
	f.nodes = append(f.nodes, &Text{Raw: f.pending.String()})
	f.pending.Reset()
}

// add appends n, merging text into the pending run.
func (f *frame) add(n Node) {
	if t, ok := n.(*Text); ok {
		f.pending.WriteString(t.Raw)
		return
	}
	f.flush()
	f.nodes = append(f.nodes, n)
}

type parser struct {
	src   string
	pos   int
	stack []*frame
}

// Parse scans src once, left to right, and returns its document tree.
// It never fails: malformed tags become literal text.
func Parse(src string) Document {
	p := &parser{src: src, stack: []*frame{new(frame)}}

	for p.pos < len(p.src) {
		i := strings.IndexByte(p.src[p.pos:], '[')
		if i < 0 {
			p.text(p.src[p.pos:])
			break
		}
		p.text(p.src[p.pos : p.pos+i])
		p.pos += i

		t, ok := scanTag(p.src, p.pos)
		if !ok {
			p.text("[")
			p.pos++
			continue
		}
		p.pos = t.end

		switch {
		case t.closing:
			p.close(t)
		case t.name == hashTag || t.name == commentTag:
			p.skipUntil(t.name, false)
		case t.name == ignoreTag:
			p.skipUntil(t.name, true)
		default:
			p.open(t)
		}
	}

	// Whatever is still open at the end of input is self-closing.
	for len(p.stack) > 1 {
		p.collapse()
	}
	root := p.stack[0]
	root.flush()
	return Document(root.nodes)
}

func (p *parser) top() *frame {
	return p.stack[len(p.stack)-1]
}

func (p *parser) pop() *frame {
	f := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

func (p *parser) text(s string) {
	p.top().pending.WriteString(s)
}

func (p *parser) open(t tag) {
	d := &Directive{Name: t.name, Open: t.raw}
	d.Args, d.Named, d.ArgText = parseArgs(t.args)
	p.stack = append(p.stack, &frame{dir: d})
}

// close ends the innermost open directive called t.name. Directives opened
// after it are collapsed into self-closing ones first.
func (p *parser) close(t tag) {
	for k := len(p.stack) - 1; k > 0; k-- {
		if p.stack[k].dir.Name != t.name {
			continue
		}
		for len(p.stack)-1 > k {
			p.collapse()
		}
		f := p.pop()
		f.flush()
		f.dir.Body = f.nodes
		p.top().add(f.dir)
		return
	}
	p.text(t.raw)
}

// collapse turns the top frame into a self-closing directive and hands the
// nodes it collected back to its parent.
func (p *parser) collapse() {
	f := p.pop()
	f.flush()
	f.dir.SelfClosing = true
	parent := p.top()
	parent.add(f.dir)
	for _, n := range f.nodes {
		parent.add(n)
	}
}

// skipUntil moves past the closing tag of a comment or ignore span. When keep
// is set the span is emitted as literal text. An unterminated span only
// drops its opening marker.
func (p *parser) skipUntil(name string, keep bool) {
	end := "[/" + name + "]"
	idx := strings.Index(p.src[p.pos:], end)
	if idx < 0 {
		return
	}
	if keep {
		p.text(p.src[p.pos : p.pos+idx])
	}
	p.pos += idx + len(end)
}

// scanTag reads a tag starting at src[start] == '['.
func scanTag(src string, start int) (tag, bool) {
	var t tag
	i := start + 1
	if i < len(src) && src[i] == '/' {
		t.closing = true
		i++
	}

	nameStart := i
	if i < len(src) && src[i] == '#' {
		i++
	} else {
		for i < len(src) && isNameByte(src[i], i == nameStart) {
			i++
		}
	}
	if i == nameStart {
		return tag{}, false
	}
	t.name = src[nameStart:i]

	argStart := i
	inQuote := false
	for ; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '[':
			return tag{}, false
		case c == ']':
			args := src[argStart:i]
			if args != "" && !isSpace(args[0]) {
				return tag{}, false
			}
			if t.closing && strings.TrimSpace(args) != "" {
				return tag{}, false
			}
			t.args = args
			t.raw = src[start : i+1]
			t.end = i + 1
			return t, true
		}
	}
	return tag{}, false
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case first:
		return false
	default:
		return c >= '0' && c <= '9' || c == '-' || c == '.'
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
