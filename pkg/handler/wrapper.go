package handler

import (
	"sort"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// WrapperSpec declares a wrapper handler as data. Built-in wrappers are declared this
// way and so are the wrappers listed in the config file.
type WrapperSpec struct {
	// Attribute is the name the wrapper is registered under, e.g. ":opacity".
	Attribute string `mapstructure:"attribute" json:"attribute" jsonschema:"required"`
	// Widget is the wrapper's constructor.
	Widget string `mapstructure:"widget" json:"widget" jsonschema:"required"`
	// Property receives the attribute value. Empty drops the value.
	Property string `mapstructure:"property" json:"property,omitempty"`
	// Child inserts the wrapper between the widget and its child instead of around it.
	Child    bool `mapstructure:"child" json:"child,omitempty"`
	Priority int  `mapstructure:"priority" json:"priority,omitempty"`
	// Related maps other attributes consumed by this wrapper to their properties.
	Related map[string]string `mapstructure:"related" json:"related,omitempty"`
	// Defaults are properties always set on the wrapper.
	Defaults map[string]string `mapstructure:"defaults" json:"defaults,omitempty"`
}

// Wrapper is the handler built from a WrapperSpec.
type Wrapper struct {
	Base
	Spec WrapperSpec
}

// NewWrapper creates the handler for spec. A zero priority means DefaultPriority.
func NewWrapper(spec WrapperSpec) *Wrapper {
	family := AncestorWrapper
	if spec.Child {
		family = ChildWrapper
	}
	priority := spec.Priority
	if priority == 0 {
		priority = DefaultPriority
	}
	related := make([]string, 0, len(spec.Related))
	for name := range spec.Related {
		related = append(related, name)
	}
	sort.Strings(related)
	return &Wrapper{Base: Base{Kind: family, Order: priority, Related: related}, Spec: spec}
}

func (h *Wrapper) Resolve(ctx Context, in Input, target Target) (Result, error) {
	tree := ctx.Tree()
	if h.Spec.Child {
		original := tree.Get(target.Original)
		// Widgets with several children have no single slot to wrap.
		if original.Property("children") == nil {
			w := tree.New(h.Spec.Widget)
			w.IsCustom = true
			w.Tag = in.Name
			if existing := original.RemoveProperty("child"); existing != nil {
				switch existing.Kind {
				case widget.KindWidget, widget.KindPropertyElement:
					w.Wrapped = existing.Widget
				default:
					w.SetProperty(existing)
				}
			}
			original.SetProperty(widget.WidgetProperty("child", h.fill(ctx, in, w)))
			return Handled(), nil
		}
	}

	w := tree.Wrap(target.Current, h.Spec.Widget)
	w.IsCustom = true
	w.Tag = in.Name
	return Wrapped(h.fill(ctx, in, w)), nil
}

// fill sets the wrapper's properties and returns its outermost widget, which differs
// from w when a value carries reactive pipes.
func (h *Wrapper) fill(ctx Context, in Input, w *widget.Widget) widget.ID {
	t := Target{Original: w.ID, Current: w.ID}
	for _, name := range sortedKeys(h.Spec.Defaults) {
		w.SetProperty(widget.StringProperty(name, h.Spec.Defaults[name]))
	}
	if h.Spec.Property != "" {
		t.Current = ctx.SetProperty(h.Spec.Property, in.Value, t)
	}
	for _, attr := range h.RelatedProperties() {
		if v, ok := in.Related(attr); ok {
			t.Current = ctx.SetProperty(h.Spec.Related[attr], v, t)
		}
	}
	return t.Current
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
