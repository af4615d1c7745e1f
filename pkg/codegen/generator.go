// Package codegen serializes a resolved widget tree into Dart constructor calls.
package codegen

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// DefaultIndent is one indentation level of the emitted code.
const DefaultIndent = "  "

// Options configures a Generator.
type Options struct {
	// Handlers emit the nodes whose Generator names them.
	Handlers *handler.Registry
	// Indent is one indentation level; DefaultIndent when empty.
	Indent string
	Logger *slog.Logger
}

// Generator emits the widgets of one tree. It implements widget.Emitter.
type Generator struct {
	tree     *widget.Tree
	handlers *handler.Registry
	unit     string
	logger   *slog.Logger
}

// New creates a Generator over tree.
func New(tree *widget.Tree, opts Options) *Generator {
	g := &Generator{
		tree:     tree,
		handlers: opts.Handlers,
		unit:     opts.Indent,
		logger:   opts.Logger,
	}
	if g.handlers == nil {
		g.handlers = handler.NewRegistry()
	}
	if g.unit == "" {
		g.unit = DefaultIndent
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Generate emits the widget rooted at root. The first line carries no indentation;
// following lines are indented from indent.
func (g *Generator) Generate(root widget.ID, indent int) string {
	if root == widget.None {
		return ""
	}
	return g.Widget(root, indent)
}

func (g *Generator) Indent(level int) string {
	return strings.Repeat(g.unit, level)
}

// IsSequence reports whether id emits a spread of several list items.
func (g *Generator) IsSequence(id widget.ID) bool {
	w := g.tree.Get(id)
	return w != nil && w.Sequence
}

func (g *Generator) Widget(id widget.ID, indent int) string {
	w := g.tree.Get(id)
	if w == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range w.Comments {
		for _, line := range strings.Split(c, "\n") {
			b.WriteString("// " + strings.TrimSpace(line) + "\n" + g.Indent(indent))
		}
	}
	b.WriteString(g.body(w, indent))
	return b.String()
}

func (g *Generator) body(w *widget.Widget, indent int) string {
	if w.Generator != "" {
		if reg, ok := g.handlers.Get(w.Generator); ok && reg.Handler.CanGenerate(w) {
			return reg.Handler.Generate(w, indent, g)
		}
		g.logger.Debug("no handler emits widget", "generator", w.Generator, "id", w.ID)
		return ""
	}
	if w.IsPropertyElement {
		return g.propertyElement(w, indent)
	}
	return g.constructor(w, indent)
}

func (g *Generator) constructor(w *widget.Widget, indent int) string {
	props := g.properties(w)
	if len(props) == 0 {
		return w.Type + "()"
	}
	var b strings.Builder
	b.WriteString(w.Type + "(\n")
	for _, p := range props {
		b.WriteString(g.Indent(indent+1) + g.property(p, indent+1) + ",\n")
	}
	b.WriteString(g.Indent(indent) + ")")
	return b.String()
}

// propertyElement emits a property fragment: its content alone, or its properties
// as a comma separated list.
func (g *Generator) propertyElement(w *widget.Widget, indent int) string {
	props := g.properties(w)
	if len(props) == 1 && (props[0].Name == "child" || props[0].Name == "children") {
		return g.Value(props[0], indent)
	}
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, g.property(p, indent))
	}
	return strings.Join(parts, ",\n"+g.Indent(indent))
}

func (g *Generator) property(p *widget.Property, indent int) string {
	if p.Emit != nil {
		return p.Emit(p, indent, g)
	}
	v := g.Value(p, indent)
	if p.Name == "" {
		return v
	}
	return p.Name + ": " + v
}

// properties returns the emitted properties of w in output order: positional first,
// then plain values by name, then nested content by name. The wrapped child of a
// wrapper is its child property.
func (g *Generator) properties(w *widget.Widget) []*widget.Property {
	props := make([]*widget.Property, 0, len(w.Properties)+1)
	for _, p := range w.Properties {
		if !p.SkipEmit {
			props = append(props, p)
		}
	}
	if w.Wrapped != widget.None && w.Property("child") == nil {
		props = append(props, widget.WidgetProperty("child", w.Wrapped))
	}
	slices.SortStableFunc(props, func(a, b *widget.Property) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return props
}

func rank(p *widget.Property) int {
	switch {
	case p.Name == "":
		return 0
	case !p.IsDeferred():
		return 1
	}
	return 2
}

func (g *Generator) Value(p *widget.Property, indent int) string {
	switch p.Kind {
	case widget.KindString:
		return p.Text
	case widget.KindWidget, widget.KindPropertyElement:
		return g.Widget(p.Widget, indent)
	case widget.KindWidgets:
		return g.list(p.Widgets, indent)
	case widget.KindFunction:
		return g.function(p.Func, indent)
	}
	return ""
}

func (g *Generator) list(ids []widget.ID, indent int) string {
	if len(ids) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteString("[\n")
	for _, id := range ids {
		b.WriteString(g.Indent(indent+1) + g.Widget(id, indent+1) + ",\n")
	}
	b.WriteString(g.Indent(indent) + "]")
	return b.String()
}

// function emits a function literal returning its body.
func (g *Generator) function(fn *widget.Function, indent int) string {
	if fn == nil {
		return "null"
	}
	in1 := g.Indent(indent + 1)
	var b strings.Builder
	b.WriteString("(" + strings.Join(fn.Params, ", ") + ") {\n")
	for _, st := range fn.Statements {
		b.WriteString(in1 + st + "\n")
	}
	switch {
	case len(fn.Body) == 0:
		b.WriteString(in1 + "return " + pipe.EmptyWidget + ";\n")
	case len(fn.Body) == 1 && !g.IsSequence(fn.Body[0]):
		b.WriteString(in1 + "return " + g.Widget(fn.Body[0], indent+1) + ";\n")
	default:
		b.WriteString(in1 + "return <Widget>" + g.list(fn.Body, indent+1) + ";\n")
	}
	b.WriteString(g.Indent(indent) + "}")
	return b.String()
}
