package builtin

import (
	"strings"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

const (
	conditionalGenerator = "if"
	branchProperty       = "if"
	defaultProperty      = "else"
)

// Conditional turns an if element and the elseIf and else elements directly after it
// into one widget. A chain whose branches each hold one widget emits a Builder
// returning that widget; otherwise the chain spreads a list into the parent's
// children.
type Conditional struct {
	handler.Base
}

type branch struct {
	el   *markup.Element
	cond string
}

func condition(el *markup.Element) string {
	if v, ok := el.Attr("value"); ok {
		return v
	}
	return el.AttrOr("condition", "false")
}

func (h *Conditional) Resolve(handler.Context, handler.Input, handler.Target) (handler.Result, error) {
	return handler.Handled(), nil
}

func (h *Conditional) ResolveElements(ctx handler.Context, siblings []*markup.Element, i int, parent handler.Target) (handler.ElementResult, error) {
	first := siblings[i]
	if first.Name != "if" {
		ctx.Logger().Debug("dropping orphan conditional branch", "element", first.Name, "line", first.Line)
		return handler.ElementResult{Consumed: 1, Wrapper: widget.None}, nil
	}

	branches := []branch{{el: first, cond: condition(first)}}
	var fallback *markup.Element
	j := i + 1
	for ; j < len(siblings) && siblings[j].Name == "elseIf"; j++ {
		branches = append(branches, branch{el: siblings[j], cond: condition(siblings[j])})
	}
	if j < len(siblings) && siblings[j].Name == "else" {
		fallback = siblings[j]
		j++
	}

	tree := ctx.Tree()
	w := tree.New("")
	w.IsCustom = true
	w.Tag = first.Name
	w.Generator = conditionalGenerator

	cur := w.ID
	list := false
	add := func(name, cond string, el *markup.Element) error {
		ids, wrapped, err := ctx.ResolveElements(el.Elements(), cur)
		if err != nil {
			return err
		}
		cur = wrapped
		if len(ids) != 1 || tree.Get(ids[0]).Sequence {
			list = true
		}
		w.Properties = append(w.Properties, &widget.Property{
			Name:    name,
			Kind:    widget.KindWidgets,
			Widgets: ids,
			Widget:  widget.None,
			Extra:   cond,
		})
		return nil
	}
	for _, b := range branches {
		if err := add(branchProperty, b.cond, b.el); err != nil {
			return handler.ElementResult{}, err
		}
	}
	if fallback != nil {
		if err := add(defaultProperty, "", fallback); err != nil {
			return handler.ElementResult{}, err
		}
	}
	w.Sequence = list

	for k, p := range w.Properties {
		if p.Name != branchProperty {
			continue
		}
		if list && pipe.HasReactivePipe(p.Extra) {
			return handler.ElementResult{}, ctx.Errorf(branches[k].el,
				"reactive pipe in condition %q of a conditional with more than one child", p.Extra)
		}
		p.Extra, cur = ctx.ResolveValue("", p.Extra, handler.Target{Original: w.ID, Current: cur}, pipe.Options{})
	}

	return handler.ElementResult{Consumed: j - i, Widgets: []widget.ID{cur}, Wrapper: widget.None}, nil
}

func (h *Conditional) CanGenerate(w *widget.Widget) bool {
	return w.Generator == conditionalGenerator
}

func (h *Conditional) Generate(w *widget.Widget, indent int, e widget.Emitter) string {
	if w.Sequence {
		return h.generateList(w, indent, e)
	}
	in1, in2 := e.Indent(indent+1), e.Indent(indent+2)
	var b strings.Builder
	b.WriteString("Builder(\n")
	b.WriteString(in1 + "builder: (BuildContext context) {\n")
	writeBranches(&b, w, indent+2, e, false)
	b.WriteString(in2 + "return " + fallbackValue(w, indent+2, e, false) + ";\n")
	b.WriteString(in1 + "},\n")
	b.WriteString(e.Indent(indent) + ")")
	return b.String()
}

func (h *Conditional) generateList(w *widget.Widget, indent int, e widget.Emitter) string {
	in1 := e.Indent(indent + 1)
	var b strings.Builder
	b.WriteString("...(() {\n")
	writeBranches(&b, w, indent+1, e, true)
	b.WriteString(in1 + "return " + fallbackValue(w, indent+1, e, true) + ";\n")
	b.WriteString(e.Indent(indent) + "})()")
	return b.String()
}

// writeBranches writes the if / else if statements at indent.
func writeBranches(b *strings.Builder, w *widget.Widget, indent int, e widget.Emitter, list bool) {
	ind, in1 := e.Indent(indent), e.Indent(indent+1)
	n := 0
	for _, p := range w.Properties {
		if p.Name != branchProperty {
			continue
		}
		if n == 0 {
			b.WriteString(ind + "if (" + p.Extra + ") {\n")
		} else {
			b.WriteString(" else if (" + p.Extra + ") {\n")
		}
		b.WriteString(in1 + "return " + body(p.Widgets, indent+1, e, list) + ";\n")
		b.WriteString(ind + "}")
		n++
	}
	if n > 0 {
		b.WriteString("\n")
	}
}

func fallbackValue(w *widget.Widget, indent int, e widget.Emitter, list bool) string {
	if p := w.Property(defaultProperty); p != nil {
		return body(p.Widgets, indent, e, list)
	}
	if list {
		return "<Widget>[]"
	}
	return pipe.EmptyWidget
}

func body(ids []widget.ID, indent int, e widget.Emitter, list bool) string {
	if !list {
		if len(ids) == 0 {
			return pipe.EmptyWidget
		}
		return e.Widget(ids[0], indent)
	}
	return returned(ids, true, indent, e)
}
