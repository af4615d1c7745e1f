// Package handler defines the contract shared by attribute and element handlers, the
// ordered registry they are kept in, and the property resolver that dispatches an
// element's attributes to them by priority.
package handler

import (
	"log/slog"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// Family is the closed set of handler shapes.
type Family int

const (
	// AncestorWrapper handlers put a new widget around the current one.
	AncestorWrapper Family = iota
	// ChildWrapper handlers put a new widget between a widget and its child.
	ChildWrapper
	// Directive handlers restructure the tree (conditionals, loops, builders).
	Directive
	// Custom handlers set properties or declarations without wrapping.
	Custom
)

func (f Family) String() string {
	switch f {
	case AncestorWrapper:
		return "ancestor"
	case ChildWrapper:
		return "child"
	case Directive:
		return "directive"
	case Custom:
		return "custom"
	}
	return "unknown"
}

// Priorities of the built-in handlers. Lower runs first; the wrapper resolved last is
// the outermost.
const (
	PriorityBuilder     = -1000
	PriorityFormControl = 50
	DefaultPriority     = 100
	PriorityGesture     = 120
	PriorityDisable     = 130
	PriorityDecorator   = 150
	PriorityMargin      = 200
	PriorityAlign       = 300
	PriorityFlex        = 400
	PriorityIf          = 100000
	PriorityRepeat      = 200000
)

// Input is the attribute a handler is asked to resolve.
type Input struct {
	// Name is the attribute name as written, e.g. ":opacity".
	Name string
	// Value is the authored value, or the registration's fixed value.
	Value   string
	Element *markup.Element
	// related holds the present attributes this handler claimed through
	// RelatedProperties.
	related map[string]string
}

// Related returns the value of a claimed related attribute.
func (in Input) Related(name string) (string, bool) {
	v, ok := in.related[name]
	return v, ok
}

// Target names the widget being resolved: Original is the widget parsed from the
// element and Current the outermost wrapper built around it so far.
type Target struct {
	Original widget.ID
	Current  widget.ID
}

// Result reports what a handler did. Wrapper, when not widget.None, becomes the new
// Current. When Handled is false the resolver sets Value as a plain property named
// after the attribute.
type Result struct {
	Wrapper widget.ID
	Value   string
	Handled bool
}

// Handled is the result of a handler that changed nothing but consumed the attribute.
func Handled() Result {
	return Result{Wrapper: widget.None, Handled: true}
}

// Wrapped is the result of a handler that produced a new outermost widget.
func Wrapped(id widget.ID) Result {
	return Result{Wrapper: id, Handled: true}
}

// Handler is implemented by every attribute and element handler.
type Handler interface {
	Family() Family
	Priority() int
	RelatedProperties() []string
	CanResolve(in Input) bool
	Resolve(ctx Context, in Input, target Target) (Result, error)
	// CanGenerate reports whether the handler emits w itself.
	CanGenerate(w *widget.Widget) bool
	Generate(w *widget.Widget, indent int, e widget.Emitter) string
}

// ElementResult is what an ElementHandler produced for a run of sibling elements.
type ElementResult struct {
	// Consumed is the number of siblings used, at least one.
	Consumed int
	// Widgets are inserted at the parent's child position.
	Widgets []widget.ID
	// Properties are set on the parent widget.
	Properties []*widget.Property
	// Wrapper, when not widget.None, becomes the parent's new outermost widget.
	Wrapper widget.ID
}

// ElementHandler is a Handler that also claims child elements by tag name.
type ElementHandler interface {
	Handler
	// ResolveElements handles siblings[i] and may consume the siblings after it.
	ResolveElements(ctx Context, siblings []*markup.Element, i int, parent Target) (ElementResult, error)
}

// Context is the resolver state handlers work against.
type Context interface {
	Tree() *widget.Tree
	Logger() *slog.Logger
	// ResolveValue transforms value for the named property and desugars its pipes,
	// stacking reactive builders around target.Current.
	ResolveValue(name, value string, target Target, opts pipe.Options) (string, widget.ID)
	// SetProperty resolves value and sets it on target.Original, returning the new
	// outermost widget.
	SetProperty(name, value string, target Target) widget.ID
	// ResolveElements resolves sibling elements into widgets, letting element
	// handlers claim their tags. Reactive builders around sequence results are
	// stacked onto wrap; the new outermost widget is returned.
	ResolveElements(siblings []*markup.Element, wrap widget.ID) ([]widget.ID, widget.ID, error)
	// ControllerType is the controller class used for a widget type.
	ControllerType(widgetType string) string
	// Errorf builds a resolution error located at el.
	Errorf(el *markup.Element, format string, args ...any) error
}

// Base supplies the common Handler methods. Embed it and override what differs.
type Base struct {
	Kind    Family
	Order   int
	Related []string
}

func (b Base) Family() Family { return b.Kind }
func (b Base) Priority() int { return b.Order }
func (b Base) RelatedProperties() []string { return b.Related }
func (b Base) CanResolve(Input) bool { return true }
func (b Base) CanGenerate(*widget.Widget) bool { return false }
func (b Base) Generate(*widget.Widget, int, widget.Emitter) string { return "" }
