package builtin

import (
	"fmt"
	"sort"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// IfAttr is the attribute form of a conditional.
const IfAttr = ":if"

const condKey = "if.condition"

// Animation wraps the widget in an AnimatedBuilder driven by the attribute value.
type Animation struct {
	handler.Base
}

func (h *Animation) Resolve(ctx handler.Context, in handler.Input, target handler.Target) (handler.Result, error) {
	tree := ctx.Tree()
	w := tree.New("AnimatedBuilder")
	w.IsCustom = true
	w.Tag = in.Name
	w.SetProperty(widget.FunctionProperty("builder", &widget.Function{
		Params: []string{"BuildContext context", "Widget? child"},
		Body:   []widget.ID{target.Current},
	}))
	cur := ctx.SetProperty("animation", in.Value, handler.Target{Original: w.ID, Current: w.ID})
	return handler.Wrapped(cur), nil
}

// Disable makes the first event callback of the widget or of its wrappers null while
// the condition holds. It runs after the gesture wrappers so that their callbacks are
// found too. The callback is looked up once the whole tree is resolved.
type Disable struct {
	handler.Base
}

func (h *Disable) Resolve(ctx handler.Context, in handler.Input, target handler.Target) (handler.Result, error) {
	outer := target.Current
	cond, cur := ctx.ResolveValue("", in.Value, target, pipe.Options{})
	logger := ctx.Logger()
	ctx.Tree().Defer(target.Original, func(t *widget.Tree, id widget.ID) {
		chain := t.Chain(outer)
		// The widget itself first, then its wrappers from the inside out.
		for i := len(chain) - 1; i >= 0; i-- {
			for _, p := range t.Get(chain[i]).Properties {
				if p.Kind == widget.KindString && isEvent(p.Name) {
					p.Text = fmt.Sprintf("%s ? null : %s", cond, p.Text)
					return
				}
			}
		}
		logger.Debug("no event property to disable", "widget", t.Get(id).Type)
	})
	return handler.Wrapped(cur), nil
}

// FormControl binds an input widget to a form control declared on the class.
type FormControl struct {
	handler.Base
}

// FormControlsField is the class field holding the form controls.
const FormControlsField = "_formControls"

var formControlTypes = map[string]string{
	"TextField":               "String",
	"TextFormField":           "String",
	"CupertinoTextField":      "String",
	"Checkbox":                "bool",
	"CheckboxListTile":        "bool",
	"Switch":                  "bool",
	"SwitchListTile":          "bool",
	"CupertinoSwitch":         "bool",
	"Slider":                  "double",
	"CupertinoSlider":         "double",
	"RangeSlider":             "RangeValues",
	"Radio":                   "dynamic",
	"RadioListTile":           "dynamic",
	"DropdownButton":          "dynamic",
	"DropdownButtonFormField": "dynamic",
}

func (h *FormControl) Resolve(ctx handler.Context, in handler.Input, target handler.Target) (handler.Result, error) {
	tree := ctx.Tree()
	original := tree.Get(target.Original)
	name := in.Value
	control := FormControlsField + "." + name

	typ, ok := formControlTypes[original.Type]
	if !ok {
		typ = "dynamic"
	}
	original.FormControls = append(original.FormControls, widget.FormControl{Name: name, Type: typ})
	original.SetProperty(widget.StringProperty("onChanged", fmt.Sprintf("(value) => %s.setValue(value)", control)))

	if typ == "String" {
		original.SetProperty(widget.StringProperty("controller", control+".controller"))
		return handler.Handled(), nil
	}

	value, cur := ctx.ResolveValue("", control+" | behavior", target, pipe.Options{SkipNullCheck: true})
	slot := "value"
	if original.Type == "Radio" || original.Type == "RadioListTile" {
		slot = "groupValue"
	}
	original.SetProperty(widget.StringProperty(slot, value))
	return handler.Wrapped(cur), nil
}

// Controller declares a controller field and passes it to the widget.
type Controller struct {
	handler.Base
}

func (h *Controller) Resolve(ctx handler.Context, in handler.Input, target handler.Target) (handler.Result, error) {
	original := ctx.Tree().Get(target.Original)
	typ := ctx.ControllerType(original.Type)
	if typ == "" {
		typ = original.Type + "Controller"
	}
	original.Controllers = append(original.Controllers, widget.Controller{
		Name:        in.Value,
		Type:        typ,
		Initializer: typ + "()",
	})
	original.SetProperty(widget.StringProperty("controller", in.Value))
	return handler.Handled(), nil
}

// If shows the widget only while the condition holds.
type If struct {
	handler.Base
}

func (h *If) Resolve(ctx handler.Context, in handler.Input, target handler.Target) (handler.Result, error) {
	w := ctx.Tree().Wrap(target.Current, "")
	w.IsCustom = true
	w.Tag = in.Name
	w.Generator = IfAttr
	cond, cur := ctx.ResolveValue("", in.Value, handler.Target{Original: w.ID, Current: w.ID}, pipe.Options{})
	w.SetScratch(condKey, cond)
	return handler.Wrapped(cur), nil
}

func (h *If) CanGenerate(w *widget.Widget) bool {
	return w.Generator == IfAttr
}

func (h *If) Generate(w *widget.Widget, indent int, e widget.Emitter) string {
	cond, _ := w.Scratch[condKey].(string)
	return cond + " ? " + e.Widget(w.Wrapped, indent) + " : " + pipe.EmptyWidget
}

// Reactive emits the builders produced by reactive pipes.
type Reactive struct {
	handler.Base
}

func (h *Reactive) CanResolve(handler.Input) bool {
	return false
}

func (h *Reactive) Resolve(handler.Context, handler.Input, handler.Target) (handler.Result, error) {
	return handler.Handled(), nil
}

func (h *Reactive) CanGenerate(w *widget.Widget) bool {
	_, ok := pipe.SubscriptionOf(w)
	return ok
}

func (h *Reactive) Generate(w *widget.Widget, indent int, e widget.Emitter) string {
	return pipe.Emit(w, indent, e)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
