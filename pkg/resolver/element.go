package resolver

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// ArrayAttr forces a children list on an element with a single child.
const ArrayAttr = ":array"

// resolveElement builds the widget for el and everything below it.
func (s *state) resolveElement(el *markup.Element, comments []string) (handler.Target, error) {
	w := s.tree.New(el.Name)
	w.Tag = el.Name
	target := handler.Target{Original: w.ID, Current: w.ID}

	ids, props, err := s.resolveSiblings(el.Elements(), leadingComments(el), el.Name, &target)
	if err != nil {
		return target, err
	}
	if err := s.foldPropertyElements(w, props, el.Name, &target); err != nil {
		return target, err
	}
	if text := s.inlineText(w, el, &target); text != widget.None {
		ids = append(ids, text)
	}
	s.setContent(w, el, ids)

	target, err = handler.ResolveProperties(s, s.opts.Handlers, el, attributes(el), target)
	if err != nil {
		return target, err
	}
	if len(comments) > 0 {
		cur := s.tree.Get(target.Current)
		cur.Comments = append(comments, cur.Comments...)
	}
	return target, nil
}

// resolveSiblings resolves a run of sibling elements. Element handlers claim their tags
// first; property elements are returned for the caller to fold into its widget.
func (s *state) resolveSiblings(siblings []*markup.Element, comments map[*markup.Element][]string, parentTag string, parent *handler.Target) ([]widget.ID, []*markup.Element, error) {
	var ids []widget.ID
	var props []*markup.Element
	for i := 0; i < len(siblings); {
		el := siblings[i]
		if eh, ok := s.elementHandler(el.Name); ok {
			res, err := eh.ResolveElements(s, siblings, i, *parent)
			if err != nil {
				return nil, nil, err
			}
			s.applyElementResult(el, res, parent)
			if len(res.Widgets) > 0 && len(comments[el]) > 0 {
				first := s.tree.Get(res.Widgets[0])
				first.Comments = append(comments[el], first.Comments...)
			}
			ids = append(ids, res.Widgets...)
			i += max(res.Consumed, 1)
			continue
		}
		if isPropertyElement(el.Name, parentTag) {
			props = append(props, el)
			i++
			continue
		}
		t, err := s.resolveElement(el, comments[el])
		if err != nil {
			return nil, nil, err
		}
		ids = append(ids, t.Current)
		i++
	}
	for i, id := range ids {
		ids[i] = s.hoist(id, parent)
	}
	return ids, props, nil
}

func (s *state) elementHandler(name string) (handler.ElementHandler, bool) {
	reg, ok := s.opts.Handlers.Get(name)
	if !ok {
		return nil, false
	}
	eh, ok := reg.Handler.(handler.ElementHandler)
	return eh, ok
}

func (s *state) applyElementResult(el *markup.Element, res handler.ElementResult, parent *handler.Target) {
	if len(res.Properties) > 0 {
		if w := s.tree.Get(parent.Original); w != nil {
			for _, p := range res.Properties {
				w.SetProperty(p)
			}
		} else {
			s.logger.Debug("dropping element properties without a parent widget", "element", el.Name, "line", el.Line)
		}
	}
	if res.Wrapper != widget.None {
		parent.Current = res.Wrapper
	}
}

// hoist moves the reactive builders stacked on a sequence node onto parent.Current and
// returns the sequence node. Other ids are returned unchanged.
func (s *state) hoist(id widget.ID, parent *handler.Target) widget.ID {
	builders, inner := s.peelBuilders(id)
	if len(builders) == 0 || parent.Current == widget.None || !s.isSequence(inner) {
		return id
	}
	for i := len(builders) - 1; i >= 0; i-- {
		builders[i].Wrapped = parent.Current
		parent.Current = builders[i].ID
	}
	s.logger.Debug("hoisted reactive builders", "count", len(builders), "sequence", inner, "onto", parent.Current)
	return inner
}

// listRoot puts a sequence used as the widget root into a Column, since a spread is
// not an expression on its own.
func (s *state) listRoot(id widget.ID) widget.ID {
	if _, inner := s.peelBuilders(id); !s.isSequence(inner) {
		return id
	}
	col := s.tree.New("Column")
	parent := handler.Target{Original: col.ID, Current: col.ID}
	seq := s.hoist(id, &parent)
	col.SetProperty(widget.WidgetsProperty("children", []widget.ID{seq}))
	s.logger.Debug("wrapped sequence root in a Column", "sequence", seq)
	return parent.Current
}

// peelBuilders returns the reactive builders stacked on id, outermost first, and the
// node below them.
func (s *state) peelBuilders(id widget.ID) ([]*widget.Widget, widget.ID) {
	var builders []*widget.Widget
	for {
		w := s.tree.Get(id)
		if w == nil || w.Generator != pipe.GeneratorName {
			return builders, id
		}
		builders = append(builders, w)
		id = w.Wrapped
	}
}

func (s *state) isSequence(id widget.ID) bool {
	w := s.tree.Get(id)
	return w != nil && w.Sequence
}

// foldPropertyElements sets each property element as a named property of w. Repeated
// names accumulate their widgets into one list.
func (s *state) foldPropertyElements(w *widget.Widget, props []*markup.Element, parentTag string, target *handler.Target) error {
	for _, el := range props {
		name := propertyElementName(el.Name, parentTag)
		p, err := s.resolvePropertyElement(el, name, target)
		if err != nil {
			return err
		}
		if p == nil {
			s.logger.Debug("skipping empty property element", "element", el.Name, "line", el.Line)
			continue
		}
		if prev := w.Property(name); prev != nil && prev.Kind != widget.KindString && p.Kind != widget.KindString {
			w.SetProperty(widget.WidgetsProperty(name, append(propertyWidgets(prev), propertyWidgets(p)...)))
			continue
		}
		w.SetProperty(p)
	}
	return nil
}

func (s *state) resolvePropertyElement(el *markup.Element, name string, parent *handler.Target) (*widget.Property, error) {
	elements := el.Elements()
	attrs := attributes(el)
	if len(elements) == 0 && len(attrs) == 0 {
		text := normalizeText(el.Text())
		if text == "" {
			return nil, nil
		}
		return widget.StringProperty(name, s.textValue(text, parent)), nil
	}

	pe := s.tree.New("")
	pe.Tag = el.Name
	pe.IsPropertyElement = true
	target := handler.Target{Original: pe.ID, Current: pe.ID}
	ids, props, err := s.resolveSiblings(elements, leadingComments(el), "", &target)
	if err != nil {
		return nil, err
	}
	if err := s.foldPropertyElements(pe, props, "", &target); err != nil {
		return nil, err
	}
	s.setContent(pe, el, ids)
	target, err = handler.ResolveProperties(s, s.opts.Handlers, el, attrs, target)
	if err != nil {
		return nil, err
	}

	if target.Current == pe.ID && len(pe.Properties) == 1 {
		if c := pe.Content(); c != nil {
			c.Name = name
			return c, nil
		}
	}
	return &widget.Property{Name: name, Kind: widget.KindPropertyElement, Widget: target.Current}, nil
}

// setContent places ids in the child or children property of w.
func (s *state) setContent(w *widget.Widget, el *markup.Element, ids []widget.ID) {
	if len(ids) == 0 {
		return
	}
	_, forced := el.Attr(ArrayAttr)
	list := forced || len(ids) > 1 || s.arrayTypes[w.Type]
	for _, id := range ids {
		if c := s.tree.Get(id); c != nil && c.Sequence {
			list = true
		}
	}
	if list {
		w.SetProperty(widget.WidgetsProperty("children", ids))
		return
	}
	w.SetProperty(widget.WidgetProperty("child", ids[0]))
}

func propertyWidgets(p *widget.Property) []widget.ID {
	switch p.Kind {
	case widget.KindWidget, widget.KindPropertyElement:
		return []widget.ID{p.Widget}
	case widget.KindWidgets:
		return p.Widgets
	}
	return nil
}

// isPropertyElement reports whether an element names a property of its parent rather
// than a child widget: a lowercase name, or the Parent.name dot form.
func isPropertyElement(name, parentTag string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsLower(r) {
		return true
	}
	return parentTag != "" && strings.HasPrefix(name, parentTag+".")
}

func propertyElementName(name, parentTag string) string {
	if parentTag != "" {
		if rest, ok := strings.CutPrefix(name, parentTag+"."); ok {
			return rest
		}
	}
	return name
}

func attributes(el *markup.Element) []handler.Attr {
	names := el.AttrNames()
	attrs := make([]handler.Attr, 0, len(names))
	for _, name := range names {
		if name == ArrayAttr || strings.HasPrefix(name, "xml:") || strings.HasPrefix(name, "xmlns") {
			continue
		}
		v, _ := el.Attr(name)
		attrs = append(attrs, handler.Attr{Name: name, Value: v})
	}
	return attrs
}

// leadingComments maps each child element of parent to the comments directly before it.
func leadingComments(parent *markup.Element) map[*markup.Element][]string {
	out := make(map[*markup.Element][]string)
	var pending []string
	for _, n := range parent.Children {
		switch n := n.(type) {
		case *markup.Comment:
			pending = append(pending, strings.TrimSpace(n.Value))
		case *markup.Element:
			if len(pending) > 0 {
				out[n] = pending
				pending = nil
			}
		}
	}
	return out
}
