package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	identRe      = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
	numberRe     = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	shadeRe      = regexp.MustCompile(`^([a-z][A-Za-z]*)\[([0-9]+)\]$`)
	hexRe        = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	separatorsRe = regexp.MustCompile(`[\s,]+`)
	iconRe       = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

var materialColors = map[string]bool{}

func init() {
	for _, name := range []string{
		"red", "pink", "purple", "deepPurple", "indigo", "blue", "lightBlue", "cyan",
		"teal", "green", "lightGreen", "lime", "yellow", "amber", "orange", "deepOrange",
	} {
		materialColors[name] = true
		materialColors[name+"Accent"] = true
	}
	for _, name := range []string{
		"brown", "grey", "blueGrey", "black", "white", "transparent",
		"black12", "black26", "black38", "black45", "black54", "black87",
		"white10", "white12", "white24", "white30", "white38", "white54", "white60", "white70",
	} {
		materialColors[name] = true
	}
}

// Color converts material color names ("red", "blue[200]") and hex literals
// ("#fff", "#ff0000", "#80ff0000") to Dart color expressions.
func Color(value, _ string) Result {
	v := strings.TrimSpace(value)
	if materialColors[v] {
		return Result{Handled: true, Value: "Colors." + v}
	}
	if m := shadeRe.FindStringSubmatch(v); m != nil && materialColors[m[1]] {
		return Result{Handled: true, Value: fmt.Sprintf("Colors.%s[%s]", m[1], m[2])}
	}
	if !hexRe.MatchString(v) {
		return Result{}
	}

	digits := v[1:]
	alpha := "FF"
	switch len(digits) {
	case 3:
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	case 8:
		alpha = strings.ToUpper(digits[:2])
		digits = digits[2:]
	}
	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return Result{}
	}
	r, g, b := c.RGB255()
	return Result{Handled: true, Value: fmt.Sprintf("Color(0x%s%02X%02X%02X)", alpha, r, g, b)}
}

// EdgeInsets converts "4", "4 8" (vertical horizontal) and "1 2 3 4" (left top right
// bottom) to EdgeInsets constructors.
func EdgeInsets(value, _ string) Result {
	parts := separatorsRe.Split(strings.TrimSpace(value), -1)
	for _, p := range parts {
		if !numberRe.MatchString(p) {
			return Result{}
		}
	}
	switch len(parts) {
	case 1:
		return Result{Handled: true, Value: fmt.Sprintf("EdgeInsets.all(%s)", parts[0])}
	case 2:
		return Result{Handled: true, Value: fmt.Sprintf("EdgeInsets.symmetric(vertical: %s, horizontal: %s)", parts[0], parts[1])}
	case 4:
		return Result{Handled: true, Value: fmt.Sprintf("EdgeInsets.fromLTRB(%s, %s, %s, %s)", parts[0], parts[1], parts[2], parts[3])}
	}
	return Result{}
}

// Enum turns a bare member name into "Type.member" when it is one of values.
type Enum struct {
	Type   string
	Values []string
	// WidgetTypes restricts the transformer to these widget types when non-empty.
	WidgetTypes []string
}

func (e Enum) Transform(value, widgetType string) Result {
	if len(e.WidgetTypes) > 0 && !contains(e.WidgetTypes, widgetType) {
		return Result{}
	}
	v := strings.TrimSpace(value)
	if !identRe.MatchString(v) || !contains(e.Values, v) {
		return Result{}
	}
	return Result{Handled: true, Value: e.Type + "." + v}
}

// Icon converts a bare icon name on an Icon widget to Icons.<name>.
func Icon(value, widgetType string) Result {
	if widgetType != "Icon" {
		return Result{}
	}
	v := strings.TrimSpace(value)
	if !iconRe.MatchString(v) {
		return Result{}
	}
	return Result{Handled: true, Value: "Icons." + v}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Defaults returns a registry with the built-in transformers.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register([]string{
		"color", "backgroundColor", "foregroundColor", "shadowColor", "splashColor",
		"highlightColor", "focusColor", "hoverColor", "activeColor", "inactiveColor",
		"fillColor", "iconColor", "textColor", "disabledColor", "selectedItemColor",
		"unselectedItemColor", "indicatorColor", "dividerColor", "cursorColor",
	}, Func(Color))
	r.Register([]string{"padding", "margin", "contentPadding"}, Func(EdgeInsets))
	r.Register([]string{"icon"}, Func(Icon))

	r.Register([]string{"mainAxisAlignment"}, Enum{Type: "MainAxisAlignment",
		Values: []string{"start", "end", "center", "spaceBetween", "spaceAround", "spaceEvenly"}})
	r.Register([]string{"crossAxisAlignment"}, Enum{Type: "CrossAxisAlignment",
		Values: []string{"start", "end", "center", "stretch", "baseline"}})
	r.Register([]string{"mainAxisSize"}, Enum{Type: "MainAxisSize",
		Values: []string{"min", "max"}})
	r.Register([]string{"textAlign"}, Enum{Type: "TextAlign",
		Values: []string{"left", "right", "center", "justify", "start", "end"}})
	r.Register([]string{"fontWeight"}, Enum{Type: "FontWeight",
		Values: []string{"normal", "bold", "w100", "w200", "w300", "w400", "w500", "w600", "w700", "w800", "w900"}})
	r.Register([]string{"fontStyle"}, Enum{Type: "FontStyle",
		Values: []string{"normal", "italic"}})
	r.Register([]string{"alignment"}, Enum{Type: "Alignment",
		Values: alignments})
	r.Register([]string{"fit"}, Enum{Type: "BoxFit",
		Values: []string{"fill", "contain", "cover", "fitWidth", "fitHeight", "none", "scaleDown"}})
	r.Register([]string{"scrollDirection", "direction"}, Enum{Type: "Axis",
		Values: []string{"horizontal", "vertical"}})
	r.Register([]string{"overflow"}, Enum{Type: "TextOverflow",
		Values:      []string{"clip", "fade", "ellipsis", "visible"},
		WidgetTypes: []string{"Text", "RichText"}})
	r.Register([]string{"textDirection"}, Enum{Type: "TextDirection",
		Values: []string{"ltr", "rtl"}})
	r.Register([]string{"verticalDirection"}, Enum{Type: "VerticalDirection",
		Values: []string{"up", "down"}})
	return r
}

var alignments = []string{
	"topLeft", "topCenter", "topRight",
	"centerLeft", "center", "centerRight",
	"bottomLeft", "bottomCenter", "bottomRight",
}

// Alignments lists the Alignment constants usable as shorthand attributes.
func Alignments() []string {
	return append([]string(nil), alignments...)
}
