// Package pipe desugars piped attribute expressions.
//
// An expression has the form
//
//	atom ( '|' name (':' arg)* )*
//
// where the reserved names stream, future and behavior subscribe to the value on the
// left and every other name becomes a call on the pipe provider. Parenthesized groups
// that contain pipes are resolved on their own before the surrounding expression.
package pipe

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// DefaultProvider is the receiver of generated transform calls.
const DefaultProvider = "_pipeProvider"

// Kind is a reactive pipe name.
type Kind string

const (
	Stream   Kind = "stream"
	Future   Kind = "future"
	Behavior Kind = "behavior"
)

// IsReactive reports whether name is one of the reserved reactive pipes.
func IsReactive(name string) bool {
	switch Kind(name) {
	case Stream, Future, Behavior:
		return true
	}
	return false
}

// WidgetType is the Flutter builder widget used for the kind.
func (k Kind) WidgetType() string {
	if k == Future {
		return "FutureBuilder"
	}
	return "StreamBuilder"
}

// Subscription is the data a reactive builder carries from resolve to generate time.
type Subscription struct {
	Kind   Kind
	Source string
	// Initial is the initialData expression, set for behavior pipes.
	Initial       string
	ValueName     string
	SnapshotName  string
	SkipNullCheck bool
}

// Key identifies subscriptions that observe the same source the same way.
func (s *Subscription) Key() string {
	return string(s.Kind) + "\x00" + s.Source
}

// Expression is a parsed attribute value.
type Expression struct {
	Value string
	// Subscriptions are ordered innermost first. A subscription may use the value
	// names of the ones after it.
	Subscriptions []*Subscription
}

// Reactive reports whether the expression subscribes to anything.
func (e *Expression) Reactive() bool {
	return len(e.Subscriptions) > 0
}

// Options tune how reactive builders are created.
type Options struct {
	// SkipNullCheck omits the empty placeholder returned while the snapshot has no data.
	SkipNullCheck bool
}

// Resolver turns piped expressions into plain expressions plus reactive builder
// widgets allocated in tree.
type Resolver struct {
	tree     *widget.Tree
	provider string
	logger   *slog.Logger
	seq      int
}

// NewResolver creates a resolver allocating builders in tree. An empty provider
// selects DefaultProvider; a nil logger selects slog.Default().
func NewResolver(tree *widget.Tree, provider string, logger *slog.Logger) *Resolver {
	if provider == "" {
		provider = DefaultProvider
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{tree: tree, provider: provider, logger: logger}
}

// Resolve desugars expr. Reactive builders are stacked around target and the
// outermost widget is returned with the plain expression; when expr has no reactive
// pipe the returned widget is target itself.
func (r *Resolver) Resolve(expr string, target widget.ID, opts Options) (string, widget.ID) {
	e := r.Parse(expr)
	return e.Value, r.Wrap(e.Subscriptions, target, opts)
}

// Parse desugars expr without allocating widgets.
func (r *Resolver) Parse(expr string) *Expression {
	value, subs := r.parse(StripBraces(expr))
	return &Expression{Value: value, Subscriptions: subs}
}

// Wrap stacks one reactive builder per subscription around target, innermost first,
// and returns the outermost.
func (r *Resolver) Wrap(subs []*Subscription, target widget.ID, opts Options) widget.ID {
	current := target
	for _, s := range subs {
		sub := *s
		sub.SkipNullCheck = opts.SkipNullCheck
		w := r.tree.Wrap(current, sub.Kind.WidgetType())
		w.IsCustom = true
		w.Generator = GeneratorName
		w.Binds = []string{sub.ValueName, sub.SnapshotName}
		w.SetScratch(ScratchKey, &sub)
		r.logger.Debug("reactive builder", "kind", sub.Kind, "source", sub.Source, "id", w.ID)
		current = w.ID
	}
	return current
}

func (r *Resolver) parse(expr string) (string, []*Subscription) {
	text := strings.TrimSpace(expr)

	if g, ok := wholeGroup(text); ok && HasPipe(g) {
		return r.parse(g)
	}

	// Groups are resolved first and hidden behind placeholders so their pipes and
	// subscriptions stay out of the outer chain.
	placeholders := make(map[string]string)
	var groupSubs []*Subscription
	var b strings.Builder
	last := 0
	for _, g := range groups(text) {
		inner := text[g.start+1 : g.end]
		if !HasPipe(inner) {
			continue
		}
		value, subs := r.parse(inner)
		ph := fmt.Sprintf("__pg%d__", r.seq)
		r.seq++
		placeholders[ph] = "(" + value + ")"
		groupSubs = append(groupSubs, subs...)
		b.WriteString(text[last:g.start])
		b.WriteString(ph)
		last = g.end + 1
	}
	b.WriteString(text[last:])
	text = b.String()

	// Call arguments are independent expressions.
	if args := splitTop(text, ','); len(args) > 1 {
		values := make([]string, len(args))
		var subs []*Subscription
		for i, a := range args {
			v, s := r.parse(substitute(a, placeholders))
			values[i] = v
			subs = append(subs, s...)
		}
		return strings.Join(values, ", "), append(subs, groupSubs...)
	}

	parts := splitTop(text, '|')
	value := substitute(strings.TrimSpace(parts[0]), placeholders)
	// stem names the snapshot variables after the source and the transforms applied
	// to it rather than after the desugared call.
	stem := value
	var chain []*Subscription
	for _, part := range parts[1:] {
		segs := splitTop(part, ':')
		name := strings.TrimSpace(segs[0])
		if name == "" {
			continue
		}
		if IsReactive(name) {
			s := newSubscription(Kind(name), value, stem)
			chain = append(chain, s)
			value, stem = s.ValueName, s.ValueName
			continue
		}
		args := make([]string, 0, len(segs)-1)
		for _, a := range segs[1:] {
			args = append(args, substitute(strings.TrimSpace(a), placeholders))
		}
		value = r.transformCall(name, value, args)
		stem += " " + name
	}

	subs := make([]*Subscription, 0, len(chain)+len(groupSubs))
	for i := len(chain) - 1; i >= 0; i-- {
		subs = append(subs, chain[i])
	}
	return value, append(subs, groupSubs...)
}

func (r *Resolver) transformCall(name, value string, args []string) string {
	return fmt.Sprintf("%s.transform(context, %q, %s, [%s])", r.provider, name, value, strings.Join(args, ", "))
}

func newSubscription(kind Kind, source, stem string) *Subscription {
	base := VarName(stem)
	s := &Subscription{
		Kind:         kind,
		Source:       source,
		ValueName:    base + "Value",
		SnapshotName: base + "Snapshot",
	}
	if kind == Behavior {
		s.Initial = source + ".value"
	}
	return s
}

// VarName derives the identifier stem used for snapshot variables: the source split
// on non-identifier characters and camel-cased, without leading underscores.
// "ctrl.counter" gives "ctrlCounter".
func VarName(source string) string {
	fields := strings.FieldsFunc(source, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	var b strings.Builder
	for _, f := range fields {
		f = strings.Trim(f, "_")
		if f == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(f)
			continue
		}
		b.WriteString(strings.ToUpper(f[:1]) + f[1:])
	}
	name := b.String()
	if name == "" {
		return "pipe"
	}
	if unicode.IsDigit(rune(name[0])) {
		return "v" + name
	}
	return name
}

// StripBraces removes one pair of surrounding {{ }} binding braces.
func StripBraces(expr string) string {
	t := strings.TrimSpace(expr)
	if strings.HasPrefix(t, "{{") && strings.HasSuffix(t, "}}") && len(t) >= 4 {
		return strings.TrimSpace(t[2 : len(t)-2])
	}
	return expr
}

// HasPipe reports whether expr contains a pipe operator outside string literals.
func HasPipe(expr string) bool {
	found := false
	scan(expr, func(i int, depth int) bool {
		if isPipeAt(expr, i) {
			found = true
			return false
		}
		return true
	})
	return found
}

// HasReactivePipe reports whether expr uses stream, future or behavior anywhere.
func HasReactivePipe(expr string) bool {
	if !HasPipe(expr) {
		return false
	}
	r := &Resolver{provider: DefaultProvider}
	return r.Parse(expr).Reactive()
}

func substitute(s string, placeholders map[string]string) string {
	for ph, v := range placeholders {
		s = strings.ReplaceAll(s, ph, v)
	}
	return s
}
