package pipe

import (
	"strings"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

// Emit renders a reactive builder widget:
//
//	StreamBuilder(
//	  initialData: source.value,
//	  stream: source,
//	  builder: (BuildContext context, sourceSnapshot) {
//	    final sourceValue = sourceSnapshot.data;
//	    if (sourceValue == null) {
//	      return Container(width: 0, height: 0);
//	    }
//	    return Child();
//	  },
//	)
func Emit(w *widget.Widget, indent int, e widget.Emitter) string {
	s, ok := SubscriptionOf(w)
	if !ok {
		return ""
	}
	in1, in2, in3 := e.Indent(indent+1), e.Indent(indent+2), e.Indent(indent+3)

	var b strings.Builder
	b.WriteString(w.Type + "(\n")
	if s.Initial != "" {
		b.WriteString(in1 + "initialData: " + s.Initial + ",\n")
	}
	slot := "stream"
	if s.Kind == Future {
		slot = "future"
	}
	b.WriteString(in1 + slot + ": " + s.Source + ",\n")
	b.WriteString(in1 + "builder: (BuildContext context, " + s.SnapshotName + ") {\n")
	b.WriteString(in2 + "final " + s.ValueName + " = " + s.SnapshotName + ".data;\n")
	if !s.SkipNullCheck {
		b.WriteString(in2 + "if (" + s.ValueName + " == null) {\n")
		b.WriteString(in3 + "return " + EmptyWidget + ";\n")
		b.WriteString(in2 + "}\n")
	}
	b.WriteString(in2 + "return " + e.Widget(w.Wrapped, indent+2) + ";\n")
	b.WriteString(in1 + "},\n")
	b.WriteString(e.Indent(indent) + ")")
	return b.String()
}

// EmptyWidget is the placeholder emitted where no widget should be shown.
const EmptyWidget = "Container(width: 0, height: 0)"
