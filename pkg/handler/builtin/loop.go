package builtin

import (
	"strings"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// RepeatAttr repeats the element itself at its position in the parent's children.
const RepeatAttr = ":repeat"

const (
	loopKey      = "loop"
	bodyProperty = "body"
	// DefaultIndex is the index variable of a loop header without one.
	DefaultIndex = "index"
)

// Loop is a parsed "[index,] item[: Type] of source" header.
type Loop struct {
	Index  string
	Item   string
	Type   string
	Source string
}

// ParseLoopHeader parses a loop header. It reports false when there is no " of "
// separator or the source is empty.
func ParseLoopHeader(header string) (Loop, bool) {
	head, source, ok := strings.Cut(header, " of ")
	source = strings.TrimSpace(source)
	if !ok || source == "" {
		return Loop{}, false
	}
	l := Loop{Index: DefaultIndex, Source: source}
	if idx, rest, ok := strings.Cut(head, ","); ok {
		if idx = strings.TrimSpace(idx); idx != "" {
			l.Index = idx
		}
		head = rest
	}
	item, typ, _ := strings.Cut(head, ":")
	l.Item = strings.TrimSpace(item)
	l.Type = strings.TrimSpace(typ)
	if l.Item == "" {
		l.Item = "item"
	}
	return l, true
}

// looseLoop parses header, falling back to iterating the whole value as the source.
func looseLoop(header string) Loop {
	if l, ok := ParseLoopHeader(header); ok {
		return l
	}
	return Loop{Index: DefaultIndex, Item: "item", Source: strings.TrimSpace(header)}
}

// declaration is the statement binding the item inside the loop body.
func (l Loop) declaration() string {
	if l.Type != "" {
		return "final " + l.Type + " " + l.Item + " = " + l.Source + "[" + l.Index + "];"
	}
	return "final " + l.Item + " = " + l.Source + "[" + l.Index + "];"
}

// newLoopNode allocates the node that emits List.generate over body.
func newLoopNode(tree *widget.Tree, l *Loop, body []widget.ID, tag string) *widget.Widget {
	w := tree.New("")
	w.IsCustom = true
	w.Sequence = true
	w.Tag = tag
	w.Generator = RepeatAttr
	w.Binds = []string{l.Index, l.Item}
	w.SetScratch(loopKey, l)
	w.SetProperty(widget.WidgetsProperty(bodyProperty, body))
	return w
}

// takeContent removes the child or children of w and returns them.
func takeContent(w *widget.Widget) []widget.ID {
	var ids []widget.ID
	if p := w.RemoveProperty("child"); p != nil && p.Widget != widget.None {
		ids = append(ids, p.Widget)
	}
	if p := w.RemoveProperty("children"); p != nil {
		ids = append(ids, p.Widgets...)
	}
	return ids
}

// Repeat emits the element once per item of the source.
type Repeat struct {
	handler.Base
}

func (h *Repeat) Resolve(ctx handler.Context, in handler.Input, target handler.Target) (handler.Result, error) {
	l := looseLoop(in.Value)
	w := newLoopNode(ctx.Tree(), &l, []widget.ID{target.Current}, in.Name)
	// The parent lifts reactive builders off sequence nodes.
	src, cur := ctx.ResolveValue("", l.Source, handler.Target{Original: w.ID, Current: w.ID}, pipe.Options{})
	l.Source = src
	return handler.Wrapped(cur), nil
}

func (h *Repeat) CanGenerate(w *widget.Widget) bool {
	_, ok := w.Scratch[loopKey].(*Loop)
	return ok
}

func (h *Repeat) Generate(w *widget.Widget, indent int, e widget.Emitter) string {
	l, ok := w.Scratch[loopKey].(*Loop)
	if !ok {
		return ""
	}
	var body []widget.ID
	if p := w.Property(bodyProperty); p != nil {
		body = p.Widgets
	}
	out := emitGenerate(l, body, indent, e)
	if w.Sequence {
		return "..." + out
	}
	return out
}

// emitGenerate renders List.generate over l with body as the returned widgets.
func emitGenerate(l *Loop, body []widget.ID, indent int, e widget.Emitter) string {
	in1 := e.Indent(indent + 1)
	list := len(body) != 1 || isSequence(e, body[0])

	var b strings.Builder
	if list {
		b.WriteString("List<List<Widget>>.generate(")
	} else {
		b.WriteString("List<Widget>.generate(")
	}
	b.WriteString(l.Source + ".length, (int " + l.Index + ") {\n")
	b.WriteString(in1 + l.declaration() + "\n")
	b.WriteString(in1 + "return " + returned(body, list, indent+1, e) + ";\n")
	b.WriteString(e.Indent(indent) + "})")
	if list {
		b.WriteString(".expand((e) => e).toList()")
	}
	return b.String()
}

// returned renders the value of a return statement: one widget, or a list literal.
func returned(body []widget.ID, list bool, indent int, e widget.Emitter) string {
	if !list {
		return e.Widget(body[0], indent)
	}
	if len(body) == 0 {
		return "<Widget>[]"
	}
	var b strings.Builder
	b.WriteString("<Widget>[\n")
	for _, id := range body {
		b.WriteString(e.Indent(indent+1) + e.Widget(id, indent+1) + ",\n")
	}
	b.WriteString(e.Indent(indent) + "]")
	return b.String()
}

// sequenceChecker is implemented by emitters that can look widgets up.
type sequenceChecker interface {
	IsSequence(id widget.ID) bool
}

func isSequence(e widget.Emitter, id widget.ID) bool {
	if sc, ok := e.(sequenceChecker); ok {
		return sc.IsSequence(id)
	}
	return false
}

// ChildBuilder repeats the element's children into its children property.
type ChildBuilder struct {
	handler.Base
}

func (h *ChildBuilder) Resolve(ctx handler.Context, in handler.Input, target handler.Target) (handler.Result, error) {
	tree := ctx.Tree()
	original := tree.Get(target.Original)
	l := looseLoop(in.Value)
	src, cur := ctx.ResolveValue("", l.Source, target, pipe.Options{})
	l.Source = src
	w := newLoopNode(tree, &l, takeContent(original), in.Name)
	original.SetProperty(widget.WidgetsProperty("children", []widget.ID{w.ID}))
	return handler.Wrapped(cur), nil
}

// ItemBuilder turns the element's content into an itemBuilder callback.
type ItemBuilder struct {
	handler.Base
}

func (h *ItemBuilder) Resolve(ctx handler.Context, in handler.Input, target handler.Target) (handler.Result, error) {
	original := ctx.Tree().Get(target.Original)
	l := looseLoop(in.Value)
	src, cur := ctx.ResolveValue("", l.Source, target, pipe.Options{})
	l.Source = src
	original.SetProperty(widget.StringProperty("itemCount", src+".length"))
	original.SetProperty(widget.FunctionProperty("itemBuilder", &widget.Function{
		Params:     []string{"BuildContext context", "int " + l.Index},
		Statements: []string{l.declaration()},
		Body:       takeContent(original),
		Binds:      []string{l.Index, l.Item},
	}))
	return handler.Wrapped(cur), nil
}
