package handler

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// fakeContext sets values verbatim and desugars pipes without transformers.
type fakeContext struct {
	tree  *widget.Tree
	pipes *pipe.Resolver
}

func newFakeContext() *fakeContext {
	tree := widget.NewTree()
	return &fakeContext{tree: tree, pipes: pipe.NewResolver(tree, "", nil)}
}

func (c *fakeContext) Tree() *widget.Tree { return c.tree }
func (c *fakeContext) Logger() *slog.Logger { return slog.Default() }
func (c *fakeContext) ControllerType(string) string { return "" }

func (c *fakeContext) ResolveValue(name, value string, target Target, opts pipe.Options) (string, widget.ID) {
	return c.pipes.Resolve(value, target.Current, opts)
}

func (c *fakeContext) SetProperty(name, value string, target Target) widget.ID {
	v, current := c.ResolveValue(name, value, target, pipe.Options{})
	c.tree.Get(target.Original).SetProperty(widget.StringProperty(name, v))
	return current
}

func (c *fakeContext) ResolveElements([]*markup.Element, widget.ID) ([]widget.ID, widget.ID, error) {
	return nil, widget.None, nil
}

func (c *fakeContext) Errorf(el *markup.Element, format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func attrs(pairs ...string) []Attr {
	var out []Attr
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Attr{Name: pairs[i], Value: pairs[i+1]})
	}
	return out
}

// chain lists widget types from id inward along Wrapped.
func chain(tree *widget.Tree, id widget.ID) []string {
	var types []string
	for w := tree.Get(id); w != nil; w = tree.Get(w.Wrapped) {
		types = append(types, w.Type)
	}
	return types
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	first := NewWrapper(WrapperSpec{Widget: "First"})
	second := NewWrapper(WrapperSpec{Widget: "Second"})
	r.Register([]string{":a", ":b"}, first)
	r.RegisterValue([]string{":c"}, "Alignment.center", second)
	r.Register([]string{":a"}, second)

	reg, ok := r.Get(":a")
	if !ok || reg.Handler != Handler(second) {
		t.Errorf("Get(:a) should return the last registration")
	}
	if reg, _ := r.Get(":c"); !reg.HasValue || reg.Value != "Alignment.center" {
		t.Errorf("Get(:c) = %+v, want a fixed value", reg)
	}

	var names []string
	for _, reg := range r.GetAll() {
		names = append(names, reg.Name)
	}
	if diff := cmp.Diff([]string{":a", ":b", ":c"}, names); diff != "" {
		t.Errorf("GetAll() order mismatch (-want +got):\n%s", diff)
	}

	c := r.Clone()
	r.Remove(":a", ":b")
	if r.Len() != 1 {
		t.Errorf("Len() = %d after Remove, want 1", r.Len())
	}
	if c.Len() != 3 {
		t.Errorf("clone changed with the original, Len() = %d", c.Len())
	}
}

func TestResolveProperties_PriorityOrdering(t *testing.T) {
	reg := NewRegistry()
	reg.Register([]string{":low"}, NewWrapper(WrapperSpec{Widget: "Low", Property: "v", Priority: 10}))
	reg.Register([]string{":mid"}, NewWrapper(WrapperSpec{Widget: "Mid", Property: "v", Priority: 20}))
	reg.Register([]string{":high"}, NewWrapper(WrapperSpec{Widget: "High", Property: "v", Priority: 30}))

	orders := [][]string{
		{":high", "1", ":mid", "2", ":low", "3"},
		{":low", "3", ":high", "1", ":mid", "2"},
		{":mid", "2", ":low", "3", ":high", "1"},
	}
	for _, order := range orders {
		ctx := newFakeContext()
		text := ctx.tree.New("Text")
		el := markup.NewElement("Text")
		target, err := ResolveProperties(ctx, reg, el, attrs(order...), Target{Original: text.ID, Current: text.ID})
		if err != nil {
			t.Fatalf("ResolveProperties() error = %v", err)
		}
		if diff := cmp.Diff([]string{"High", "Mid", "Low", "Text"}, chain(ctx.tree, target.Current)); diff != "" {
			t.Errorf("%v: nesting mismatch (-want +got):\n%s", order, diff)
		}
	}
}

func TestResolveProperties_RelatedProperties(t *testing.T) {
	reg := NewRegistry()
	reg.Register([]string{":width"}, NewWrapper(WrapperSpec{Widget: "SizedBox", Property: "width",
		Related: map[string]string{":height": "height"}}))
	reg.Register([]string{":height"}, NewWrapper(WrapperSpec{Widget: "SizedBox", Property: "height",
		Related: map[string]string{":width": "width"}}))

	for _, order := range [][]string{
		{":height", "20", "color", "red", ":width", "10"},
		{":width", "10", ":height", "20"},
	} {
		ctx := newFakeContext()
		text := ctx.tree.New("Text")
		target, err := ResolveProperties(ctx, reg, markup.NewElement("Text"), attrs(order...),
			Target{Original: text.ID, Current: text.ID})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"SizedBox", "Text"}, chain(ctx.tree, target.Current)); diff != "" {
			t.Fatalf("%v: want one SizedBox (-want +got):\n%s", order, diff)
		}
		box := ctx.tree.Get(target.Current)
		if box.Property("width").Text != "10" || box.Property("height").Text != "20" {
			t.Errorf("%v: SizedBox properties = %+v", order, box.Properties)
		}
	}
}

func TestResolveProperties_FixedValueAndPlainAttributes(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterValue([]string{":topCenter"}, "Alignment.topCenter",
		NewWrapper(WrapperSpec{Widget: "Align", Property: "alignment", Priority: PriorityAlign}))

	ctx := newFakeContext()
	text := ctx.tree.New("Text")
	target, err := ResolveProperties(ctx, reg, markup.NewElement("Text"),
		attrs(":topCenter", "", ":maxLines", "2", "style", "theme.body"),
		Target{Original: text.ID, Current: text.ID})
	if err != nil {
		t.Fatal(err)
	}
	align := ctx.tree.Get(target.Current)
	if align.Type != "Align" || align.Property("alignment").Text != "Alignment.topCenter" {
		t.Errorf("outermost = %s %+v, want Align(alignment: Alignment.topCenter)", align.Type, align.Properties)
	}
	if text.Property("maxLines") == nil || text.Property("style") == nil {
		t.Errorf("plain attributes not set: %+v", text.Properties)
	}
}

func TestWrapper_ChildPlacement(t *testing.T) {
	padding := NewWrapper(WrapperSpec{Widget: "Padding", Property: "padding", Child: true})
	reg := NewRegistry()
	reg.Register([]string{":padding"}, padding)

	ctx := newFakeContext()
	container := ctx.tree.New("Container")
	text := ctx.tree.New("Text")
	container.SetProperty(widget.WidgetProperty("child", text.ID))

	target, err := ResolveProperties(ctx, reg, markup.NewElement("Container"), attrs(":padding", "4"),
		Target{Original: container.ID, Current: container.ID})
	if err != nil {
		t.Fatal(err)
	}
	if target.Current != container.ID {
		t.Fatalf("child wrapper changed the outermost widget")
	}
	pad := ctx.tree.Get(container.Property("child").Widget)
	if pad.Type != "Padding" || pad.Wrapped != text.ID {
		t.Errorf("child = %s wrapping %d, want Padding wrapping the text", pad.Type, pad.Wrapped)
	}

	// With several children the wrapper goes around the widget instead.
	column := ctx.tree.New("Column")
	column.SetProperty(widget.WidgetsProperty("children", []widget.ID{ctx.tree.New("Text").ID}))
	target, err = ResolveProperties(ctx, reg, markup.NewElement("Column"), attrs(":padding", "4"),
		Target{Original: column.ID, Current: column.ID})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Padding", "Column"}, chain(ctx.tree, target.Current)); diff != "" {
		t.Errorf("nesting mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapper_ReactiveValueWrapsWrapper(t *testing.T) {
	reg := NewRegistry()
	reg.Register([]string{":opacity"}, NewWrapper(WrapperSpec{Widget: "Opacity", Property: "opacity"}))

	ctx := newFakeContext()
	text := ctx.tree.New("Text")
	target, err := ResolveProperties(ctx, reg, markup.NewElement("Text"), attrs(":opacity", "ctrl.fade | stream"),
		Target{Original: text.ID, Current: text.ID})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"StreamBuilder", "Opacity", "Text"}, chain(ctx.tree, target.Current)); diff != "" {
		t.Errorf("nesting mismatch (-want +got):\n%s", diff)
	}
}
