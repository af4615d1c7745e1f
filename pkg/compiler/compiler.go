// Package compiler wires the markup parser, the widget tree resolver and the code
// generator into one pipeline over a shared set of handler and transformer registries.
package compiler

import (
	"fmt"
	"log/slog"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/codegen"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler/builtin"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/resolver"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/transform"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// Options configures a Compiler. Zero fields take the built-in defaults.
type Options struct {
	Handlers          *handler.Registry
	Transforms        *transform.Registry
	PipeProvider      string
	ArrayTypes        []string
	ContentProperties map[string]string
	UnnamedProperties map[string]string
	ControllerTypes   map[string]string
	Parser            markup.Options
	// Indent is one level of output indentation.
	Indent string
	// Fragment compiles documents whose root element is the widget itself.
	Fragment bool
	Logger   *slog.Logger
}

// Output is the result of compiling one document.
type Output struct {
	// Code is the Dart expression of the widget root, empty when the document
	// declares no widget.
	Code         string
	Info         resolver.RootInfo
	Controllers  []widget.Controller
	Vars         []widget.Var
	FormControls []widget.FormControl
}

// Compiler compiles layout documents. It is safe for concurrent use as long as its
// registries are not modified.
type Compiler struct {
	opts Options
}

// New creates a Compiler, filling unset options with the defaults. The compiler keeps
// copies of the registries in opts, so later changes to them do not reach it.
func New(opts Options) *Compiler {
	if opts.Handlers == nil {
		opts.Handlers = builtin.Defaults()
	} else {
		opts.Handlers = opts.Handlers.Clone()
	}
	if opts.Transforms == nil {
		opts.Transforms = transform.Defaults()
	} else {
		opts.Transforms = opts.Transforms.Clone()
	}
	if opts.PipeProvider == "" {
		opts.PipeProvider = pipe.DefaultProvider
	}
	if opts.ArrayTypes == nil {
		opts.ArrayTypes = resolver.DefaultArrayTypes()
	}
	if opts.ContentProperties == nil {
		opts.ContentProperties = resolver.DefaultContentProperties()
	}
	if opts.UnnamedProperties == nil {
		opts.UnnamedProperties = resolver.DefaultUnnamedProperties()
	}
	if opts.ControllerTypes == nil {
		opts.ControllerTypes = builtin.ControllerTypes()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Compiler{opts: opts}
}

// Handlers is the handler registry the compiler dispatches to. Registering on it
// changes this compiler only.
func (c *Compiler) Handlers() *handler.Registry {
	return c.opts.Handlers
}

// Transforms is the value transformer registry.
func (c *Compiler) Transforms() *transform.Registry {
	return c.opts.Transforms
}

// Compile compiles src. filename is used in error positions only.
func (c *Compiler) Compile(filename, src string) (*Output, error) {
	popts := c.opts.Parser
	popts.Filename = filename
	doc, err := markup.NewParser(src, popts).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	res, err := resolver.Resolve(doc, resolver.Options{
		Filename:          filename,
		Handlers:          c.opts.Handlers,
		Transforms:        c.opts.Transforms,
		PipeProvider:      c.opts.PipeProvider,
		ArrayTypes:        c.opts.ArrayTypes,
		ContentProperties: c.opts.ContentProperties,
		UnnamedProperties: c.opts.UnnamedProperties,
		ControllerTypes:   c.opts.ControllerTypes,
		Fragment:          c.opts.Fragment,
		Logger:            c.opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve layout: %w", err)
	}

	gen := codegen.New(res.Tree, codegen.Options{
		Handlers: c.opts.Handlers,
		Indent:   c.opts.Indent,
		Logger:   c.opts.Logger,
	})
	out := &Output{
		Code: gen.Generate(res.Root, 0),
		Info: res.Info,
	}
	out.Controllers, out.Vars, out.FormControls = res.Tree.Declarations(res.Root)
	return out, nil
}
