package handler

import (
	"slices"
	"strings"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// Attr is one attribute of an element.
type Attr struct {
	Name  string
	Value string
}

type pending struct {
	attr     Attr
	reg      Registration
	claimed  bool
	priority int
	related  map[string]string
}

// ResolveProperties dispatches attrs to their handlers in ascending priority, source
// order breaking ties, and returns target with its new outermost widget. Attributes named in the
// RelatedProperties of an earlier present attribute are left to that handler.
// Attributes without a handler are set as plain properties with any leading ':'
// removed.
func ResolveProperties(ctx Context, reg *Registry, el *markup.Element, attrs []Attr, target Target) (Target, error) {
	present := make(map[string]string, len(attrs))
	for _, a := range attrs {
		present[a.Name] = a.Value
	}

	excluded := make(map[string]bool)
	items := make([]pending, 0, len(attrs))
	for _, a := range attrs {
		if excluded[a.Name] {
			continue
		}
		p := pending{attr: a, priority: DefaultPriority}
		if r, ok := reg.Get(a.Name); ok {
			p.reg, p.claimed, p.priority = r, true, r.Handler.Priority()
			for _, name := range r.Handler.RelatedProperties() {
				v, ok := present[name]
				if name == a.Name || !ok || excluded[name] {
					continue
				}
				if p.related == nil {
					p.related = make(map[string]string)
				}
				p.related[name] = v
				excluded[name] = true
			}
		}
		items = append(items, p)
	}
	// A related attribute may appear before its claimer.
	items = slices.DeleteFunc(items, func(p pending) bool { return excluded[p.attr.Name] })
	slices.SortStableFunc(items, func(a, b pending) int { return a.priority - b.priority })

	for _, p := range items {
		value := p.attr.Value
		if p.claimed && p.reg.HasValue {
			value = p.reg.Value
		}
		in := Input{Name: p.attr.Name, Value: value, Element: el, related: p.related}
		if !p.claimed || !p.reg.Handler.CanResolve(in) {
			target.Current = ctx.SetProperty(PropertyName(p.attr.Name), value, target)
			continue
		}

		ctx.Logger().Debug("resolve attribute", "element", el.Name, "attr", p.attr.Name,
			"family", p.reg.Handler.Family(), "priority", p.priority)
		res, err := p.reg.Handler.Resolve(ctx, in, target)
		if err != nil {
			return target, err
		}
		if res.Wrapper != widget.None && res.Wrapper != target.Current {
			target.Current = res.Wrapper
		}
		if !res.Handled {
			target.Current = ctx.SetProperty(PropertyName(p.attr.Name), res.Value, target)
		}
	}
	return target, nil
}

// PropertyName is the Dart argument name for an attribute.
func PropertyName(attr string) string {
	return strings.TrimPrefix(attr, ":")
}
