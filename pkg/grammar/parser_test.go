package grammar

import (
	"fmt"
	"strings"
	"testing"
)

// dump renders a tree compactly: text is quoted, closed directives show
// their body in braces and self-closing ones end in a slash.
func dump(nodes []Node) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch n := n.(type) {
		case *Text:
			fmt.Fprintf(&b, "%q", n.Raw)
		case *Directive:
			b.WriteString(n.Name)
			if n.SelfClosing {
				b.WriteString("/")
			} else {
				b.WriteString("{" + dump(n.Body) + "}")
			}
		}
	}
	return b.String()
}

func TestParseStructure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"PlainText", "hello world", `"hello world"`},
		{"Empty", "", ``},
		{"SetGet", "[set name=hero]Parsifal[/set][get hero]", `set{"Parsifal"} get/`},
		{"Nested", "[if a==1][if b==2]Both[/if][/if]", `if{if{"Both"}}`},
		{"SelfClosingInBody", "[loop 5]A[break]B[/loop]", `loop{"A" break/ "B"}`},
		{"UnclosedSpliced", "[a]x[b]y[/a]", `a{"x" b/ "y"}`},
		{"UnclosedAtEOF", "[a]x[b]y", `a/ "x" b/ "y"`},
		{"StrayClose", "x[/if]y", `"x[/if]y"`},
		{"HashComment", "A[#]Hash[/#]B", `"AB"`},
		{"BlockComment", "A[comment]x [b]y[/b][/comment]B", `"AB"`},
		{"UnterminatedComment", "A[#]B", `"AB"`},
		{"Ignore", "[ignore][if][/ignore]", `"[if]"`},
		{"IgnoreMergesText", "a[ignore][x]b[/ignore]c", `"a[x]bc"`},
		{"UnterminatedIgnore", "[ignore]x", `"x"`},
		{"NotATag", "[ 1 ] and [] and [/]", `"[ 1 ] and [] and [/]"`},
		{"Unterminated", "a[b", `"a[b"`},
		{"BracketInsideTag", "[x[y]]", `"[x" y/ "]"`},
		{"BadNameSuffix", "[a+b]", `"[a+b]"`},
		{"CloseWithArgs", "[a]x[/a y]", `a/ "x[/a y]"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := dump(Parse(tc.input))
			if got != tc.want {
				t.Errorf("Parse(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseArguments(t *testing.T) {
	doc := Parse(`[join sep=", " a "b c" x=1]`)
	if len(doc) != 1 {
		t.Fatalf("expected 1 node, got %d", len(doc))
	}
	d := doc[0].(*Directive)
	if d.Named["sep"] != ", " {
		t.Errorf("sep = %q, want %q", d.Named["sep"], ", ")
	}
	if d.Named["x"] != "1" {
		t.Errorf("x = %q, want %q", d.Named["x"], "1")
	}
	if len(d.Args) != 2 || d.Args[0] != "a" || d.Args[1] != "b c" {
		t.Errorf("unexpected positional args: %q", d.Args)
	}
	if d.Open != `[join sep=", " a "b c" x=1]` {
		t.Errorf("Open = %q", d.Open)
	}
}

func TestParseComparisonsStayPositional(t *testing.T) {
	for _, input := range []string{"[if a==1]", "[if a!=1]", "[if a <= 2]"} {
		d := Parse(input)[0].(*Directive)
		if len(d.Named) != 0 {
			t.Errorf("%s: expected no named args, got %v", input, d.Named)
		}
	}
	d := Parse("[if a != 1]")[0].(*Directive)
	if d.ArgText != "a != 1" {
		t.Errorf("ArgText = %q, want %q", d.ArgText, "a != 1")
	}
	if len(d.Args) != 3 {
		t.Errorf("expected 3 positional args, got %q", d.Args)
	}
}

func TestDirectiveParam(t *testing.T) {
	d := Parse("[range 1 max=9]")[0].(*Directive)
	if got := d.Param("min", 0); got != "1" {
		t.Errorf("Param(min) = %q, want 1", got)
	}
	if got := d.Param("max", 1); got != "9" {
		t.Errorf("Param(max) = %q, want 9", got)
	}
	if got := d.Param("count", -1); got != "" {
		t.Errorf("Param(count) = %q, want empty", got)
	}
	if !d.Has("max") || d.Has("min") {
		t.Error("Has reported the wrong named arguments")
	}
	if d.Close() != "[/range]" {
		t.Errorf("Close() = %q", d.Close())
	}
}

func TestParseKeepsBodiesIntact(t *testing.T) {
	doc := Parse("[def name=greet]Hello [get x][/def]")
	d := doc[0].(*Directive)
	if got := dump(d.Body); got != `"Hello " get/` {
		t.Errorf("body = %s", got)
	}
	if d.SelfClosing {
		t.Error("def should be closed")
	}
}

func TestParseManyLiteralBrackets(t *testing.T) {
	const n = 200_000
	src := strings.Repeat("[ ", n)
	doc := Parse(src)
	if len(doc) != 1 {
		t.Fatalf("Parse produced %d nodes, want one text run", len(doc))
	}
	if got := doc[0].(*Text).Raw; got != src {
		t.Errorf("text run has %d bytes, want %d", len(got), len(src))
	}
}

func TestParseMergesTextAcrossCollapsedTags(t *testing.T) {
	doc := Parse("a[x]b[ c[/y]d")
	if got, want := dump(doc), `"a" x/ "b[ c[/y]d"`; got != want {
		t.Errorf("Parse() = %s, want %s", got, want)
	}
}

func BenchmarkParseLiteralBrackets(b *testing.B) {
	src := strings.Repeat("[ ", 50_000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Parse(src)
	}
}

func BenchmarkParse(b *testing.B) {
	src := strings.Repeat("[set i]0[/set][loop 5][inc i][if i==3]three[/if][else][get i][/else][/loop] text [ran]a|b|c[/ran]\n", 50)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Parse(src)
	}
}
