// Package builtin provides the handlers every compiler starts with: wrapper
// attributes, gestures, form bindings, conditionals, loops, builders and the reactive
// builder emitter.
package builtin

import (
	"strings"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/transform"
)

// Wrappers lists the built-in data-only wrapper handlers.
func Wrappers() []handler.WrapperSpec {
	specs := []handler.WrapperSpec{
		{Attribute: ":opacity", Widget: "Opacity", Property: "opacity"},
		{Attribute: ":margin", Widget: "Padding", Property: "padding", Priority: handler.PriorityMargin},
		{Attribute: ":padding", Widget: "Padding", Property: "padding", Child: true},
		{Attribute: ":text", Widget: "Text", Property: "text", Child: true},
		{Attribute: ":icon", Widget: "Icon", Property: "icon", Child: true},
		{Attribute: ":align", Widget: "Align", Property: "alignment", Priority: handler.PriorityAlign},
		{Attribute: ":flex", Widget: "Expanded", Property: "flex", Priority: handler.PriorityFlex},
		{Attribute: ":visible", Widget: "Visibility", Property: "visible", Priority: handler.PriorityDecorator},
		{Attribute: ":hero", Widget: "Hero", Property: "tag", Priority: handler.PriorityDecorator},
		{Attribute: ":aspectRatio", Widget: "AspectRatio", Property: "aspectRatio", Priority: handler.PriorityDecorator},
	}
	specs = append(specs, group("SizedBox", handler.DefaultPriority, map[string]string{
		":width":  "width",
		":height": "height",
	})...)
	specs = append(specs, group("GestureDetector", handler.PriorityGesture, map[string]string{
		":onTap":       "onTap",
		":onDoubleTap": "onDoubleTap",
		":onLongPress": "onLongPress",
	})...)
	return specs
}

// group declares one wrapper per attribute, each claiming the others as related so
// that any combination produces a single widget.
func group(widget string, priority int, props map[string]string) []handler.WrapperSpec {
	specs := make([]handler.WrapperSpec, 0, len(props))
	for _, attr := range sortedKeys(props) {
		related := make(map[string]string, len(props)-1)
		for other, prop := range props {
			if other != attr {
				related[other] = prop
			}
		}
		specs = append(specs, handler.WrapperSpec{
			Attribute: attr,
			Widget:    widget,
			Property:  props[attr],
			Priority:  priority,
			Related:   related,
		})
	}
	return specs
}

// RegisterDefaults adds the built-in handlers to reg.
func RegisterDefaults(reg *handler.Registry) {
	for _, spec := range Wrappers() {
		reg.Register([]string{spec.Attribute}, handler.NewWrapper(spec))
	}

	align := handler.NewWrapper(handler.WrapperSpec{Widget: "Align", Property: "alignment", Priority: handler.PriorityAlign})
	for _, name := range transform.Alignments() {
		reg.RegisterValue([]string{":" + name}, "Alignment."+name, align)
	}

	reg.Register([]string{":animation"}, &Animation{Base: handler.Base{Kind: handler.AncestorWrapper, Order: handler.PriorityDecorator}})
	reg.Register([]string{":disable"}, &Disable{Base: handler.Base{Kind: handler.Custom, Order: handler.PriorityDisable}})
	reg.Register([]string{":formControl"}, &FormControl{Base: handler.Base{Kind: handler.Custom, Order: handler.PriorityFormControl}})
	reg.Register([]string{":controller"}, &Controller{Base: handler.Base{Kind: handler.Custom, Order: handler.DefaultPriority}})
	reg.Register([]string{IfAttr}, &If{Base: handler.Base{Kind: handler.Directive, Order: handler.PriorityIf}})

	reg.Register([]string{RepeatAttr}, &Repeat{Base: handler.Base{Kind: handler.Directive, Order: handler.PriorityRepeat}})
	reg.Register([]string{":childBuilder"}, &ChildBuilder{Base: handler.Base{Kind: handler.Directive, Order: handler.PriorityBuilder}})
	reg.Register([]string{":itemBuilder"}, &ItemBuilder{Base: handler.Base{Kind: handler.Directive, Order: handler.PriorityBuilder}})

	reg.Register([]string{"if", "elseIf", "else"}, &Conditional{Base: handler.Base{Kind: handler.Directive, Order: handler.PriorityIf}})
	reg.Register([]string{"builder"}, &Builder{Base: handler.Base{Kind: handler.Directive, Order: handler.PriorityBuilder}})
	reg.Register([]string{pipe.GeneratorName}, &Reactive{Base: handler.Base{Kind: handler.Custom, Order: handler.DefaultPriority}})
}

// Defaults returns a registry holding the built-in handlers.
func Defaults() *handler.Registry {
	reg := handler.NewRegistry()
	RegisterDefaults(reg)
	return reg
}

// ControllerTypes maps widget types to the controller class :controller declares.
func ControllerTypes() map[string]string {
	scroll := []string{
		"ListView", "ListView.builder", "ListView.separated", "GridView", "GridView.builder",
		"GridView.count", "SingleChildScrollView", "CustomScrollView", "Scrollbar",
	}
	m := map[string]string{
		"TextField":          "TextEditingController",
		"TextFormField":      "TextEditingController",
		"CupertinoTextField": "TextEditingController",
		"PageView":           "PageController",
		"PageView.builder":   "PageController",
		"TabBar":             "TabController",
		"TabBarView":         "TabController",
	}
	for _, t := range scroll {
		m[t] = "ScrollController"
	}
	return m
}

// isEvent reports whether name looks like an event callback property (onTap).
func isEvent(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on") && name[2] >= 'A' && name[2] <= 'Z'
}
