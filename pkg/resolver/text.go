package resolver

import (
	"regexp"
	"strings"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

var (
	interpolation = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)
	lineBreaks    = regexp.MustCompile(`[ \t]*\n\s*`)
	dartEscaper   = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `$`, `\$`, "\n", `\n`)
)

// normalizeText trims s and folds each line break with its surrounding indentation
// into one space.
func normalizeText(s string) string {
	return lineBreaks.ReplaceAllString(strings.TrimSpace(s), " ")
}

// inlineText sets the text content of el on the content property of w. Widgets
// without one get a Text child, which is returned.
func (s *state) inlineText(w *widget.Widget, el *markup.Element, target *handler.Target) widget.ID {
	text := normalizeText(el.Text())
	if text == "" {
		return widget.None
	}
	value := s.textValue(text, target)
	if prop, ok := s.opts.ContentProperties[w.Type]; ok {
		w.SetProperty(widget.StringProperty(s.argName(w.Type, prop), value))
		return widget.None
	}
	t := s.tree.New("Text")
	t.Tag = el.Name
	t.SetProperty(widget.StringProperty("", value))
	return t.ID
}

// textValue renders text as a Dart string literal with its {{ }} interpolations. Text
// that is exactly one interpolation is the bare expression.
func (s *state) textValue(text string, target *handler.Target) string {
	locs := interpolation.FindAllStringSubmatchIndex(text, -1)
	resolve := func(loc []int) string {
		v, cur := s.ResolveValue("", strings.TrimSpace(text[loc[2]:loc[3]]), *target, pipe.Options{})
		target.Current = cur
		return v
	}
	if len(locs) == 1 && locs[0][0] == 0 && locs[0][1] == len(text) {
		return resolve(locs[0])
	}

	var b strings.Builder
	b.WriteByte('\'')
	last := 0
	for _, loc := range locs {
		b.WriteString(dartEscaper.Replace(text[last:loc[0]]))
		b.WriteString("${" + resolve(loc) + "}")
		last = loc[1]
	}
	b.WriteString(dartEscaper.Replace(text[last:]))
	b.WriteByte('\'')
	return b.String()
}
