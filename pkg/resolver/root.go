package resolver

import (
	"strings"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// Import is an xmlns:alias="path" declaration on the root element.
type Import struct {
	Alias string
	Path  string
}

// Provider is a root-level provider element.
type Provider struct {
	Name string
	Type string
}

// RootInfo is what the root element declares for the enclosing class.
type RootInfo struct {
	ClassName  string
	Stateful   bool
	Controller string
	RouteAware bool
	Imports    []Import
	Vars       []widget.Var
	Params     []widget.Var
	Providers  []Provider
	Mixins     []string
}

func flag(v string) bool {
	return v == "" || v == "true"
}

// readRoot fills RootInfo from the root element and returns its widget children.
func (s *state) readRoot(root *markup.Element) (RootInfo, []*markup.Element) {
	info := RootInfo{ClassName: root.Name}
	for _, name := range root.AttrNames() {
		v, _ := root.Attr(name)
		switch {
		case name == "stateful":
			info.Stateful = flag(v)
		case name == "controller":
			info.Controller = v
		case name == "routeAware":
			info.RouteAware = flag(v)
		case name == "xmlns":
			info.Imports = append(info.Imports, Import{Path: v})
		case strings.HasPrefix(name, "xmlns:"):
			info.Imports = append(info.Imports, Import{Alias: strings.TrimPrefix(name, "xmlns:"), Path: v})
		default:
			s.logger.Debug("ignoring root attribute", "attr", name)
		}
	}

	var widgets []*markup.Element
	for _, el := range root.Elements() {
		switch el.Name {
		case "var":
			info.Vars = append(info.Vars, widget.Var{
				Name:  el.AttrOr("name", ""),
				Type:  el.AttrOr("type", "dynamic"),
				Value: el.AttrOr("value", ""),
			})
		case "param":
			info.Params = append(info.Params, widget.Var{
				Name:     el.AttrOr("name", ""),
				Type:     el.AttrOr("type", "dynamic"),
				Value:    el.AttrOr("value", ""),
				Param:    true,
				Required: flag(el.AttrOr("required", "false")),
			})
		case "provider":
			info.Providers = append(info.Providers, Provider{
				Name: el.AttrOr("name", ""),
				Type: el.AttrOr("type", ""),
			})
		case "with":
			info.Mixins = append(info.Mixins, el.AttrOr("mixin", el.AttrOr("name", "")))
		default:
			widgets = append(widgets, el)
		}
	}
	return info, widgets
}
