package pipe

import (
	"log/slog"
	"regexp"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

const (
	// GeneratorName is the handler name reactive builders are emitted by.
	GeneratorName = "|reactive"
	// ScratchKey holds the *Subscription of a reactive builder.
	ScratchKey = "pipe.subscription"
)

// SubscriptionOf returns the subscription of a reactive builder widget.
func SubscriptionOf(w *widget.Widget) (*Subscription, bool) {
	if w == nil || w.Generator != GeneratorName {
		return nil, false
	}
	s, ok := w.Scratch[ScratchKey].(*Subscription)
	return s, ok
}

// Dedup removes reactive builders that repeat a subscription already active on
// their ancestor path. A redundant builder is replaced in its parent's slot by its
// wrapped child. Identifiers bound between the two builders (loop variables, builder
// parameters) end the outer subscription's reach when its source mentions them.
// It returns the number of builders removed.
func Dedup(tree *widget.Tree, root widget.ID, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}
	d := &deduper{tree: tree, logger: logger}
	d.visit(root, nil)
	return d.removed
}

type deduper struct {
	tree    *widget.Tree
	logger  *slog.Logger
	removed int
}

type active map[string]*Subscription

func (d *deduper) visit(id widget.ID, scope active) {
	w := d.tree.Get(id)
	if w == nil {
		return
	}
	if s, ok := SubscriptionOf(w); ok {
		scope = scope.with(s)
	}
	d.tree.Refs(id, func(ref *widget.ID, binds []string) {
		inner := scope.without(binds)
		for {
			child := d.tree.Get(*ref)
			s, ok := SubscriptionOf(child)
			if !ok || child.Wrapped == widget.None {
				break
			}
			outer, dup := inner[s.Key()]
			if !dup {
				break
			}
			outer.SkipNullCheck = outer.SkipNullCheck && s.SkipNullCheck
			d.logger.Debug("dedup reactive builder", "kind", s.Kind, "source", s.Source, "id", child.ID)
			*ref = child.Wrapped
			d.removed++
		}
		d.visit(*ref, inner)
	})
}

func (a active) with(s *Subscription) active {
	out := make(active, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	if _, ok := out[s.Key()]; !ok {
		out[s.Key()] = s
	}
	return out
}

func (a active) without(binds []string) active {
	if len(binds) == 0 || len(a) == 0 {
		return a
	}
	var out active
	for k, s := range a {
		if mentionsAny(s.Source, binds) {
			if out == nil {
				out = make(active, len(a))
				for k2, v := range a {
					out[k2] = v
				}
			}
			delete(out, k)
		}
	}
	if out == nil {
		return a
	}
	return out
}

func mentionsAny(source string, names []string) bool {
	for _, n := range names {
		if n == "" {
			continue
		}
		if regexp.MustCompile(`\b` + regexp.QuoteMeta(n) + `\b`).MatchString(source) {
			return true
		}
	}
	return false
}
