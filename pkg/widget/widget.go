// Package widget holds the intermediate widget tree built by the resolver and read by
// the code generator. Widgets live in a Tree arena and refer to each other by ID.
package widget

// ID addresses a widget inside its Tree. Two references are the same node exactly when
// their IDs are equal.
type ID int

// None is the zero reference. No widget is allocated with it.
const None ID = 0

// ValueKind tells which value field of a Property is in use.
type ValueKind int

const (
	KindString ValueKind = iota
	KindWidget
	KindWidgets
	KindFunction
	KindPropertyElement
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindWidget:
		return "widget"
	case KindWidgets:
		return "widgets"
	case KindFunction:
		return "function"
	case KindPropertyElement:
		return "propertyElement"
	}
	return "unknown"
}

// Emitter renders tree content back to source. It is implemented by the code generator
// and handed to custom emission callbacks.
type Emitter interface {
	Widget(id ID, indent int) string
	Value(p *Property, indent int) string
	Indent(level int) string
}

// EmitFunc overrides the generic emission of one property. It returns the full
// "name: value" text, without indentation or trailing comma.
type EmitFunc func(p *Property, indent int, e Emitter) string

// Function is a function-literal property value such as a builder callback.
type Function struct {
	Params     []string
	Statements []string
	Body       []ID
	// Binds lists identifiers the function introduces for its body.
	Binds []string
}

// Property is one named argument of a constructor call. An empty Name emits the value
// positionally.
type Property struct {
	Name     string
	Kind     ValueKind
	Text     string
	Widget   ID
	Widgets  []ID
	Func     *Function
	Extra    string
	SkipEmit bool
	Emit     EmitFunc
}

// StringProperty is a plain expression property.
func StringProperty(name, value string) *Property {
	return &Property{Name: name, Kind: KindString, Text: value, Widget: None}
}

// WidgetProperty holds a single widget.
func WidgetProperty(name string, id ID) *Property {
	return &Property{Name: name, Kind: KindWidget, Widget: id}
}

// WidgetsProperty holds a list of widgets.
func WidgetsProperty(name string, ids []ID) *Property {
	return &Property{Name: name, Kind: KindWidgets, Widgets: ids, Widget: None}
}

// FunctionProperty holds a function literal.
func FunctionProperty(name string, fn *Function) *Property {
	return &Property{Name: name, Kind: KindFunction, Func: fn, Widget: None}
}

// IsDeferred reports whether the value is nested content, which is emitted after
// plain values.
func (p *Property) IsDeferred() bool {
	return p.Kind != KindString
}

// Controller is a controller object the enclosing class must declare.
type Controller struct {
	Name        string
	Type        string
	Initializer string
}

// Var is a typed field on the enclosing class.
type Var struct {
	Name     string
	Type     string
	Value    string
	Param    bool
	Required bool
}

// FormControl is a form binding the enclosing class must create.
type FormControl struct {
	Name string
	Type string
}

// Widget is one constructor call (or property fragment when Type is empty).
type Widget struct {
	ID         ID
	Type       string
	Tag        string
	Properties []*Property
	// Wrapped is the single child of a wrapper node added by a handler.
	Wrapped ID

	Controllers  []Controller
	Vars         []Var
	FormControls []FormControl

	IsPropertyElement bool
	IsCustom          bool
	// Sequence marks nodes that emit several list items (spread syntax).
	Sequence bool
	// Generator names the registered handler that emits this node.
	Generator string
	// Binds lists identifiers this node introduces for its descendants.
	Binds    []string
	Comments []string
	Scratch  map[string]any
}

// Property returns the named property or nil.
func (w *Widget) Property(name string) *Property {
	for _, p := range w.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// SetProperty replaces a property with the same name or appends p.
func (w *Widget) SetProperty(p *Property) {
	for i, existing := range w.Properties {
		if existing.Name == p.Name {
			w.Properties[i] = p
			return
		}
	}
	w.Properties = append(w.Properties, p)
}

// RemoveProperty deletes the named property and returns it.
func (w *Widget) RemoveProperty(name string) *Property {
	for i, p := range w.Properties {
		if p.Name == name {
			w.Properties = append(w.Properties[:i], w.Properties[i+1:]...)
			return p
		}
	}
	return nil
}

// Content returns the child or children property, whichever is set.
func (w *Widget) Content() *Property {
	if p := w.Property("child"); p != nil {
		return p
	}
	return w.Property("children")
}

// SetScratch stores handler data carried from resolve to generate time.
func (w *Widget) SetScratch(key string, value any) {
	if w.Scratch == nil {
		w.Scratch = make(map[string]any)
	}
	w.Scratch[key] = value
}
