package widget

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTree_PostOrderAndDeferred(t *testing.T) {
	tree := NewTree()
	column := tree.New("Column")
	a := tree.New("Text")
	b := tree.New("Icon")
	column.SetProperty(WidgetsProperty("children", []ID{a.ID, b.ID}))
	opacity := tree.Wrap(column.ID, "Opacity")
	opacity.IsCustom = true

	want := []ID{a.ID, b.ID, column.ID, opacity.ID}
	if diff := cmp.Diff(want, tree.PostOrder(opacity.ID)); diff != "" {
		t.Errorf("PostOrder() mismatch (-want +got):\n%s", diff)
	}

	var ran []ID
	record := func(_ *Tree, id ID) { ran = append(ran, id) }
	tree.Defer(opacity.ID, record)
	tree.Defer(a.ID, record)
	tree.Defer(column.ID, record)

	if n := tree.RunDeferred(opacity.ID); n != 3 {
		t.Errorf("RunDeferred() ran %d callbacks, want 3", n)
	}
	if diff := cmp.Diff([]ID{a.ID, column.ID, opacity.ID}, ran); diff != "" {
		t.Errorf("deferred order mismatch (-want +got):\n%s", diff)
	}
	if n := tree.RunDeferred(opacity.ID); n != 0 {
		t.Errorf("callbacks should run once, second pass ran %d", n)
	}
}

func TestTree_RefsFunctionBinds(t *testing.T) {
	tree := NewTree()
	list := tree.New("ListView.builder")
	item := tree.New("Text")
	list.SetProperty(FunctionProperty("itemBuilder", &Function{
		Params: []string{"BuildContext context", "int index"},
		Body:   []ID{item.ID},
		Binds:  []string{"index", "item"},
	}))

	var gotBinds []string
	tree.Refs(list.ID, func(ref *ID, binds []string) {
		if *ref == item.ID {
			gotBinds = binds
		}
	})
	if diff := cmp.Diff([]string{"index", "item"}, gotBinds); diff != "" {
		t.Errorf("binds mismatch (-want +got):\n%s", diff)
	}
	if !slices.Contains(tree.PostOrder(list.ID), item.ID) {
		t.Error("function body should be reachable")
	}
}

func TestTree_Chain(t *testing.T) {
	tree := NewTree()
	text := tree.New("Text")
	inner := tree.Wrap(text.ID, "")
	inner.IsCustom = true
	outer := tree.Wrap(inner.ID, "GestureDetector")
	outer.IsCustom = true
	plain := tree.Wrap(outer.ID, "Padding")

	tests := []struct {
		name string
		from ID
		want []ID
	}{
		{"custom wrappers", outer.ID, []ID{outer.ID, inner.ID, text.ID}},
		{"plain widget", text.ID, []ID{text.ID}},
		{"stops at a parsed widget", plain.ID, []ID{plain.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tree.Chain(tt.from)); diff != "" {
				t.Errorf("Chain() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWidget_Properties(t *testing.T) {
	w := &Widget{}
	w.SetProperty(StringProperty("color", "Colors.red"))
	w.SetProperty(StringProperty("color", "Colors.blue"))
	if len(w.Properties) != 1 || w.Property("color").Text != "Colors.blue" {
		t.Errorf("SetProperty should replace by name, got %+v", w.Properties)
	}
	if removed := w.RemoveProperty("color"); removed == nil || w.Property("color") != nil {
		t.Error("RemoveProperty() did not remove the property")
	}
}
