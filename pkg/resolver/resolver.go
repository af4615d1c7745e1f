// Package resolver builds the widget tree for a parsed layout document. It walks the
// elements, folds property elements into their parents, hands attributes and directive
// elements to the registered handlers, and finishes with the deferred callbacks and
// the reactive dedup pass.
package resolver

import (
	"fmt"
	"log/slog"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/transform"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// Options configures one resolve.
type Options struct {
	Filename   string
	Handlers   *handler.Registry
	Transforms *transform.Registry
	// PipeProvider is the receiver of generated transform calls.
	PipeProvider string
	// ArrayTypes always take a children list, even with one child.
	ArrayTypes []string
	// ContentProperties name the property inline text goes to, per widget type.
	ContentProperties map[string]string
	// UnnamedProperties name the property emitted positionally, per widget type.
	UnnamedProperties map[string]string
	ControllerTypes   map[string]string
	// Fragment treats the document root as the widget root instead of as the class
	// element.
	Fragment bool
	Logger   *slog.Logger
}

// DefaultArrayTypes lists the widgets whose content is always a children list.
func DefaultArrayTypes() []string {
	return []string{
		"Column", "Row", "Stack", "Wrap", "Flex", "ListView", "GridView", "GridView.count",
		"CustomScrollView", "IndexedStack", "ListBody", "Table", "TableRow", "Flow",
	}
}

// DefaultContentProperties maps widget types to the property their inline text sets.
func DefaultContentProperties() map[string]string {
	return map[string]string{
		"Text":           "text",
		"SelectableText": "text",
		"Tooltip":        "message",
		"Tab":            "text",
	}
}

// DefaultUnnamedProperties maps widget types to their positional argument.
func DefaultUnnamedProperties() map[string]string {
	return map[string]string{
		"Text":           "text",
		"SelectableText": "text",
		"Icon":           "icon",
		"Image.asset":    "name",
		"Image.network":  "src",
	}
}

// Result is a resolved document.
type Result struct {
	Tree *widget.Tree
	// Root is the outermost widget, widget.None for a document without widgets.
	Root widget.ID
	Info RootInfo
	// Deferred and Deduped count the callbacks run and builders removed after
	// the tree was built.
	Deferred int
	Deduped  int
}

// state is the per-document resolver. It implements handler.Context.
type state struct {
	opts       Options
	tree       *widget.Tree
	pipes      *pipe.Resolver
	logger     *slog.Logger
	arrayTypes map[string]bool
}

// Resolve builds the widget tree for doc.
func Resolve(doc *markup.Document, opts Options) (*Result, error) {
	if opts.Handlers == nil {
		opts.Handlers = handler.NewRegistry()
	}
	if opts.Transforms == nil {
		opts.Transforms = transform.NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tree := widget.NewTree()
	s := &state{
		opts:       opts,
		tree:       tree,
		pipes:      pipe.NewResolver(tree, opts.PipeProvider, logger),
		logger:     logger,
		arrayTypes: make(map[string]bool, len(opts.ArrayTypes)),
	}
	for _, t := range opts.ArrayTypes {
		s.arrayTypes[t] = true
	}

	res := &Result{Tree: tree, Root: widget.None}
	root := doc.Root()
	if root == nil {
		return res, nil
	}

	widgets := []*markup.Element{root}
	comments := map[*markup.Element][]string{}
	if !opts.Fragment {
		res.Info, widgets = s.readRoot(root)
		comments = leadingComments(root)
	}
	if len(widgets) > 1 {
		return nil, s.Errorf(widgets[1], "only one widget root is allowed, found %d", len(widgets))
	}
	if len(widgets) == 0 {
		return res, nil
	}

	target, err := s.resolveElement(widgets[0], comments[widgets[0]])
	if err != nil {
		return nil, err
	}
	res.Root = s.listRoot(target.Current)
	top := tree.Get(res.Root)
	top.Vars = append(top.Vars, res.Info.Vars...)
	top.Vars = append(top.Vars, res.Info.Params...)

	res.Deferred = tree.RunDeferred(res.Root)
	res.Deduped = pipe.Dedup(tree, res.Root, logger)
	logger.Debug("resolved layout", "class", res.Info.ClassName, "widgets", tree.Len(),
		"deferred", res.Deferred, "deduped", res.Deduped)
	return res, nil
}

func (s *state) Tree() *widget.Tree { return s.tree }

func (s *state) Logger() *slog.Logger { return s.logger }

func (s *state) ControllerType(widgetType string) string {
	return s.opts.ControllerTypes[widgetType]
}

func (s *state) Errorf(el *markup.Element, format string, args ...any) error {
	return &Error{
		Filename: s.opts.Filename,
		Line:     el.Line,
		Column:   el.Column,
		Element:  el.Name,
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (s *state) ResolveValue(name, value string, target handler.Target, opts pipe.Options) (string, widget.ID) {
	if name != "" {
		widgetType := ""
		if w := s.tree.Get(target.Original); w != nil {
			widgetType = w.Type
		}
		if res := s.opts.Transforms.Transform(name, value, widgetType); res.Handled {
			return res.Value, target.Current
		}
	}
	return s.pipes.Resolve(value, target.Current, opts)
}

func (s *state) SetProperty(name, value string, target handler.Target) widget.ID {
	v, cur := s.ResolveValue(name, value, target, pipe.Options{})
	w := s.tree.Get(target.Original)
	w.SetProperty(widget.StringProperty(s.argName(w.Type, name), v))
	return cur
}

func (s *state) ResolveElements(siblings []*markup.Element, wrap widget.ID) ([]widget.ID, widget.ID, error) {
	parent := handler.Target{Original: widget.None, Current: wrap}
	ids, props, err := s.resolveSiblings(siblings, nil, "", &parent)
	if err != nil {
		return nil, wrap, err
	}
	for _, el := range props {
		s.logger.Debug("dropping property element without a parent widget", "element", el.Name, "line", el.Line)
	}
	return ids, parent.Current, nil
}

// argName renames the positional property of widgetType to "".
func (s *state) argName(widgetType, name string) string {
	if s.opts.UnnamedProperties[widgetType] == name {
		return ""
	}
	return name
}
