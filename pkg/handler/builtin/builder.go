package builtin

import (
	"strings"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// Builder turns a builder element into a callback property of its parent:
//
//	<builder name="itemBuilder" data="item of items">...</builder>
//
// name defaults to "builder". params replaces the parameter list, index renames the
// index parameter and data binds an item of a list by that index.
type Builder struct {
	handler.Base
}

func (h *Builder) Resolve(handler.Context, handler.Input, handler.Target) (handler.Result, error) {
	return handler.Handled(), nil
}

func (h *Builder) ResolveElements(ctx handler.Context, siblings []*markup.Element, i int, parent handler.Target) (handler.ElementResult, error) {
	el := siblings[i]
	name := el.AttrOr("name", "builder")
	index, hasIndex := el.Attr("index")
	data, hasData := el.Attr("data")

	fn := &widget.Function{}
	res := handler.ElementResult{Consumed: 1, Wrapper: widget.None}
	cur := parent.Current

	var loop *Loop
	if hasData {
		l := looseLoop(data)
		if hasIndex && index != "" {
			l.Index = index
		}
		l.Source, cur = ctx.ResolveValue("", l.Source, handler.Target{Original: parent.Original, Current: cur}, pipe.Options{})
		loop = &l
		fn.Statements = append(fn.Statements, l.declaration())
		fn.Binds = append(fn.Binds, l.Item)
		if p := ctx.Tree().Get(parent.Original); p == nil || p.Property("itemCount") == nil {
			res.Properties = append(res.Properties, widget.StringProperty("itemCount", l.Source+".length"))
		}
	}

	if params, ok := el.Attr("params"); ok {
		for _, p := range strings.Split(params, ",") {
			if p = strings.TrimSpace(p); p != "" {
				fn.Params = append(fn.Params, p)
			}
		}
	} else {
		fn.Params = []string{"BuildContext context"}
		switch {
		case loop != nil:
			fn.Params = append(fn.Params, "int "+loop.Index)
		case hasIndex && index != "":
			fn.Params = append(fn.Params, "int "+index)
		}
	}
	for _, p := range fn.Params {
		fields := strings.Fields(p)
		fn.Binds = append(fn.Binds, strings.TrimSuffix(fields[len(fields)-1], "?"))
	}

	ids, wrapped, err := ctx.ResolveElements(el.Elements(), cur)
	if err != nil {
		return handler.ElementResult{}, err
	}
	fn.Body = ids
	if wrapped != parent.Current {
		res.Wrapper = wrapped
	}
	res.Properties = append(res.Properties, widget.FunctionProperty(name, fn))
	return res, nil
}
