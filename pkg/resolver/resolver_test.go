package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler/builtin"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/transform"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

func resolve(t *testing.T, src string) *Result {
	t.Helper()
	doc, err := markup.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	res, err := Resolve(doc, Options{
		Handlers:          builtin.Defaults(),
		Transforms:        transform.Defaults(),
		ArrayTypes:        DefaultArrayTypes(),
		ContentProperties: DefaultContentProperties(),
		UnnamedProperties: DefaultUnnamedProperties(),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return res
}

// types lists the widget types of ids.
func types(tree *widget.Tree, ids []widget.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, tree.Get(id).Type)
	}
	return out
}

func TestResolve_Content(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		property string
		want     []string
	}{
		{"single child", `<P><Container><Text/></Container></P>`, "child", []string{"Text"}},
		{"several children", `<P><Container><Text/><Icon/></Container></P>`, "children", []string{"Text", "Icon"}},
		{"array type", `<P><Column><Text/></Column></P>`, "children", []string{"Text"}},
		{"array marker", `<P><Container :array=""><Text/></Container></P>`, "children", []string{"Text"}},
		{"inline text on a widget without content property", `<P><Container>hello</Container></P>`, "child", []string{"Text"}},
		{"orphan else is dropped", `<P><Column><else><Icon/></else><Text/></Column></P>`, "children", []string{"Text"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := resolve(t, tt.src)
			root := res.Tree.Get(res.Root)
			p := root.Property(tt.property)
			if p == nil {
				t.Fatalf("%s has no %s property: %+v", root.Type, tt.property, root.Properties)
			}
			if diff := cmp.Diff(tt.want, types(res.Tree, propertyWidgets(p))); diff != "" {
				t.Errorf("content mismatch (-want +got):\n%s", diff)
			}
			other := "children"
			if tt.property == "children" {
				other = "child"
			}
			if root.Property(other) != nil {
				t.Errorf("%s should not have both child and children", root.Type)
			}
		})
	}
}

func TestResolve_InlineText(t *testing.T) {
	tests := []struct {
		name string
		src  string
		prop string
		want string
	}{
		{"quoted", `<P><Text>Hello</Text></P>`, "", `'Hello'`},
		{"line breaks fold", "<P><Text>\n  one\n  two\n</Text></P>", "", `'one two'`},
		{"single interpolation", `<P><Text>{{ user.name }}</Text></P>`, "", `user.name`},
		{"mixed interpolation", `<P><Text>Hi {{name}}!</Text></P>`, "", `'Hi ${name}!'`},
		{"piped interpolation", `<P><Text>{{ price | currency }}</Text></P>`, "", `_pipeProvider.transform(context, "currency", price, [])`},
		{"named content property", `<P><Tooltip>Tip</Tooltip></P>`, "message", `'Tip'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := resolve(t, tt.src)
			p := res.Tree.Get(res.Root).Property(tt.prop)
			if p == nil {
				t.Fatalf("property %q not set", tt.prop)
			}
			if diff := cmp.Diff(tt.want, p.Text); diff != "" {
				t.Errorf("text mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_PropertyElements(t *testing.T) {
	res := resolve(t, `
<P>
  <Stack>
    <overlay><Text/></overlay>
    <Stack.overlay><Icon/></Stack.overlay>
    <label>Name</label>
    <empty/>
  </Stack>
</P>`)
	root := res.Tree.Get(res.Root)

	overlay := root.Property("overlay")
	if overlay == nil || overlay.Kind != widget.KindWidgets {
		t.Fatalf("overlay = %+v, want a merged widget list", overlay)
	}
	if diff := cmp.Diff([]string{"Text", "Icon"}, types(res.Tree, overlay.Widgets)); diff != "" {
		t.Errorf("overlay mismatch (-want +got):\n%s", diff)
	}
	if label := root.Property("label"); label == nil || label.Text != `'Name'` {
		t.Errorf("label = %+v, want 'Name'", label)
	}
	if root.Property("empty") != nil {
		t.Errorf("empty property element should be skipped")
	}
	if root.Content() != nil {
		t.Errorf("property elements should not become children")
	}
}

func TestResolve_HoistsBuildersOffSequences(t *testing.T) {
	res := resolve(t, `<P><Column><Text :repeat="item of items | stream"/></Column></P>`)
	tree := res.Tree

	builder := tree.Get(res.Root)
	sub, ok := pipe.SubscriptionOf(builder)
	if !ok {
		t.Fatalf("root %q should be a reactive builder", builder.Type)
	}
	if sub.Source != "items" {
		t.Errorf("source = %q, want items", sub.Source)
	}
	column := tree.Get(builder.Wrapped)
	if column.Type != "Column" {
		t.Fatalf("builder wraps %q, want Column", column.Type)
	}
	children := column.Property("children")
	if children == nil || len(children.Widgets) != 1 || !tree.Get(children.Widgets[0]).Sequence {
		t.Errorf("Column children should hold the loop node directly: %+v", children)
	}
}

func TestResolve_NoWidgetRoot(t *testing.T) {
	res := resolve(t, `<P><var name="x"/></P>`)
	if res.Root != widget.None {
		t.Errorf("Root = %d, want None", res.Root)
	}
	if diff := cmp.Diff([]widget.Var{{Name: "x", Type: "dynamic"}}, res.Info.Vars); diff != "" {
		t.Errorf("Vars mismatch (-want +got):\n%s", diff)
	}
}

func TestError(t *testing.T) {
	err := &Error{Filename: "a.xml", Line: 3, Column: 5, Element: "if", Msg: "bad"}
	if got, want := err.Error(), "a.xml:3:5: <if>: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err.Filename = ""
	if got, want := err.Error(), "3:5: <if>: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsPropertyElement(t *testing.T) {
	tests := []struct {
		name   string
		parent string
		want   bool
	}{
		{"appBar", "Scaffold", true},
		{"Scaffold.body", "Scaffold", true},
		{"Image.asset", "Column", false},
		{"Text", "Column", false},
		{"Text", "", false},
		{"child", "", true},
	}
	for _, tt := range tests {
		if got := isPropertyElement(tt.name, tt.parent); got != tt.want {
			t.Errorf("isPropertyElement(%q, %q) = %v, want %v", tt.name, tt.parent, got, tt.want)
		}
	}
}
