package markup

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Structure(t *testing.T) {
	src := "\ufeff<?xml version=\"1.0\"?>\r\n<Page controller=\"HomeController\">\r\n" +
		"  <Column>\n    <Text>Hello</Text>\n    <Text :center/>\n  </Column>\n</Page>\n"

	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Name != "Page" {
		t.Fatalf("Root() = %v, want <Page>", root)
	}
	if got, _ := root.Attr("controller"); got != "HomeController" {
		t.Errorf("controller attr = %q, want HomeController", got)
	}

	column := root.Elements()[0]
	if column.Parent() != root {
		t.Error("column parent should be the root element")
	}
	texts := column.Elements()
	if len(texts) != 2 {
		t.Fatalf("column has %d elements, want 2", len(texts))
	}
	if got := texts[0].Text(); got != "Hello" {
		t.Errorf("Text() = %q, want Hello", got)
	}
	if v, ok := texts[1].Attr(":center"); !ok || v != "" {
		t.Errorf(":center = %q, %v; want empty shorthand", v, ok)
	}
	if texts[1].Line != 5 {
		t.Errorf("line of second <Text> = %d, want 5 (CRLF normalized)", texts[1].Line)
	}
}

func TestParse_AttributeOrder(t *testing.T) {
	doc, err := Parse(`<A z="1" b="2" :m="3" a="4"/>`)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	want := []string{"z", "b", ":m", "a"}
	if diff := cmp.Diff(want, doc.Root().AttrNames()); diff != "" {
		t.Errorf("AttrNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Entities(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want string
	}{
		{
			name: "standard entities",
			src:  `<T v="a &amp;&amp; b &lt; c &gt; &quot;d&quot; &apos;e&apos;"/>`,
			want: `a && b < c > "d" 'e'`,
		},
		{
			name: "numeric references",
			src:  `<T v="&#65;&#x42;&#X43;"/>`,
			want: "ABC",
		},
		{
			name: "resolver callback",
			src:  `<T v="&copy; 2024"/>`,
			opts: Options{EntityResolver: func(name string) (string, bool) {
				return "(c)", name == "copy"
			}},
			want: "(c) 2024",
		},
		{
			name: "ignored unknown entity",
			src:  `<T v="&nbsp;x"/>`,
			opts: Options{IgnoreUnknownEntities: true},
			want: "&nbsp;x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewParser(tt.src, tt.opts).Parse()
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if got, _ := doc.Root().Attr("v"); got != tt.want {
				t.Errorf("v = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_TextCoalescing(t *testing.T) {
	doc, err := Parse(`<T>one <![CDATA[<two>]]> three<!-- gone --> four</T>`)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	root := doc.Root()
	if len(root.Children) != 1 {
		t.Fatalf("got %d children, want a single coalesced text node", len(root.Children))
	}
	if got := root.Text(); got != "one <two> three four" {
		t.Errorf("Text() = %q", got)
	}
}

func TestParse_PreserveCommentsAndCData(t *testing.T) {
	src := `<T><!-- note --><![CDATA[raw]]></T>`
	doc, err := NewParser(src, Options{PreserveComments: true, PreserveCData: true}).Parse()
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	children := doc.Root().Children
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if c, ok := children[0].(*Comment); !ok || c.Value != " note " {
		t.Errorf("first child = %#v, want comment", children[0])
	}
	if c, ok := children[1].(*CData); !ok || c.Value != "raw" {
		t.Errorf("second child = %#v, want CDATA", children[1])
	}
}

func TestParse_XMLSpacePreserve(t *testing.T) {
	doc, err := Parse("<A><B xml:space=\"preserve\">  </B><C>  </C></A>")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	els := doc.Root().Elements()
	if len(els[0].Children) != 1 {
		t.Error("whitespace should be preserved in <B>")
	}
	if len(els[1].Children) != 0 {
		t.Error("whitespace should be dropped in <C>")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
		line    int
	}{
		{"unterminated element", "<A>\n<B>\n</B>", "unterminated element <A>", 1},
		{"mismatched end tag", "<A>\n</B>", "mismatched end tag", 2},
		{"unknown entity", `<A v="&foo;"/>`, "unknown entity &foo;", 1},
		{"bad char reference", `<A v="&#xZZ;"/>`, "invalid character reference", 1},
		{"redefined attribute", `<A x="1" x="2"/>`, `redefined attribute "x"`, 1},
		{"invalid xml:space", `<A xml:space="keep"/>`, "invalid xml:space", 1},
		{"unterminated comment", "<A><!-- oops</A>", "unterminated comment", 1},
		{"unquoted value", `<A x=1/>`, "expected quoted value", 1},
		{"multiple roots", "<A/>\n<B/>", "multiple root elements", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(tt.src, Options{Filename: "page.xml"}).Parse()
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("error %T is not a *SyntaxError", err)
			}
			if !strings.Contains(syntaxErr.Msg, tt.wantMsg) {
				t.Errorf("Msg = %q, want it to contain %q", syntaxErr.Msg, tt.wantMsg)
			}
			if syntaxErr.Line != tt.line {
				t.Errorf("Line = %d, want %d", syntaxErr.Line, tt.line)
			}
			if !strings.HasPrefix(err.Error(), "page.xml:") {
				t.Errorf("Error() = %q, want filename prefix", err.Error())
			}
		})
	}
}

func TestExcerpt_RuneBoundaries(t *testing.T) {
	src := "<A>" + strings.Repeat("é", 20)
	p := NewParser(src, Options{})

	tests := []struct {
		name string
		col  int
		want string
	}{
		{"cut inside a rune", 1, "<A>" + strings.Repeat("é", 13)},
		{"start inside a rune", 5, strings.Repeat("é", 15)},
		{"past the end", 100, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.excerpt(1, tt.col); got != tt.want {
				t.Errorf("excerpt(1, %d) = %q, want %q", tt.col, got, tt.want)
			}
		})
	}
}
