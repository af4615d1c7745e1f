package widget

// DeferredFunc runs once after the whole tree is resolved.
type DeferredFunc func(t *Tree, id ID)

// Tree is the arena owning every widget of one compile.
type Tree struct {
	widgets  []*Widget
	deferred map[ID][]DeferredFunc
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{widgets: []*Widget{nil}, deferred: make(map[ID][]DeferredFunc)}
}

// New allocates a widget of the given type.
func (t *Tree) New(typ string) *Widget {
	w := &Widget{
		ID:      ID(len(t.widgets)),
		Type:    typ,
		Wrapped: None,
	}
	t.widgets = append(t.widgets, w)
	return w
}

// Get returns the widget for id, or nil for None and unknown ids.
func (t *Tree) Get(id ID) *Widget {
	if id <= None || int(id) >= len(t.widgets) {
		return nil
	}
	return t.widgets[id]
}

// Len is the number of allocated widgets, reachable or not.
func (t *Tree) Len() int {
	return len(t.widgets) - 1
}

// Wrap allocates an ancestor wrapper of the given type around target.
func (t *Tree) Wrap(target ID, typ string) *Widget {
	w := t.New(typ)
	w.Wrapped = target
	return w
}

// Defer queues fn to run for id once the tree is complete.
func (t *Tree) Defer(id ID, fn DeferredFunc) {
	t.deferred[id] = append(t.deferred[id], fn)
}

// RunDeferred executes queued callbacks bottom-up over the widgets reachable from
// root. The visiting order is fixed before any callback runs.
func (t *Tree) RunDeferred(root ID) int {
	order := t.PostOrder(root)
	ran := 0
	for _, id := range order {
		fns := t.deferred[id]
		delete(t.deferred, id)
		for _, fn := range fns {
			fn(t, id)
			ran++
		}
	}
	return ran
}

// Refs calls fn with a pointer to every widget reference owned by id: the wrapped
// child, then property values in order. binds are the identifiers in scope for that
// reference beyond the ones of its ancestors.
func (t *Tree) Refs(id ID, fn func(ref *ID, binds []string)) {
	w := t.Get(id)
	if w == nil {
		return
	}
	if w.Wrapped != None {
		fn(&w.Wrapped, w.Binds)
	}
	for _, p := range w.Properties {
		switch p.Kind {
		case KindWidget, KindPropertyElement:
			if p.Widget != None {
				fn(&p.Widget, w.Binds)
			}
		case KindWidgets:
			for i := range p.Widgets {
				fn(&p.Widgets[i], w.Binds)
			}
		case KindFunction:
			if p.Func == nil {
				continue
			}
			binds := append(append([]string(nil), w.Binds...), p.Func.Binds...)
			for i := range p.Func.Body {
				fn(&p.Func.Body[i], binds)
			}
		}
	}
}

// Children lists the ids referenced by id, in Refs order.
func (t *Tree) Children(id ID) []ID {
	var out []ID
	t.Refs(id, func(ref *ID, _ []string) {
		out = append(out, *ref)
	})
	return out
}

// PostOrder lists the widgets reachable from root, children before parents. A widget
// reached twice is listed once.
func (t *Tree) PostOrder(root ID) []ID {
	var order []ID
	seen := make(map[ID]bool)
	var visit func(id ID)
	visit = func(id ID) {
		if id == None || seen[id] || t.Get(id) == nil {
			return
		}
		seen[id] = true
		for _, child := range t.Children(id) {
			visit(child)
		}
		order = append(order, id)
	}
	visit(root)
	return order
}

// Chain returns id followed by the custom wrapper nodes below it, ending at the first
// widget parsed from markup.
func (t *Tree) Chain(id ID) []ID {
	chain := []ID{id}
	for {
		w := t.Get(id)
		if w == nil || !w.IsCustom || w.Wrapped == None {
			return chain
		}
		id = w.Wrapped
		chain = append(chain, id)
	}
}

// Declarations gathers the side-channel declarations of every reachable widget.
func (t *Tree) Declarations(root ID) ([]Controller, []Var, []FormControl) {
	var controllers []Controller
	var vars []Var
	var forms []FormControl
	order := t.PostOrder(root)
	// Parents first.
	for i := len(order) - 1; i >= 0; i-- {
		w := t.Get(order[i])
		controllers = append(controllers, w.Controllers...)
		vars = append(vars, w.Vars...)
		forms = append(forms, w.FormControls...)
	}
	return controllers, vars, forms
}
