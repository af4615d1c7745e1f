// Package markup parses the XML subset used by layout files into a Document tree.
package markup

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Node is implemented by every node of a parsed Document.
type Node interface {
	// Parent returns the enclosing element, or nil for top-level nodes.
	Parent() *Element
	node()
}

type nodeBase struct {
	parent *Element
}

func (b *nodeBase) Parent() *Element { return b.parent }
func (b *nodeBase) node()            {}

// Document owns the node tree produced by the parser.
type Document struct {
	nodeBase
	Children []Node
}

// Root returns the first element at the top level of the document.
func (d *Document) Root() *Element {
	for _, child := range d.Children {
		if el, ok := child.(*Element); ok {
			return el
		}
	}
	return nil
}

// Element is a markup element. Attrs keeps the attributes in source order.
type Element struct {
	nodeBase
	Name     string
	Attrs    *orderedmap.OrderedMap[string, string]
	Children []Node
	Line     int
	Column   int
}

// NewElement creates a detached element with an empty attribute map.
func NewElement(name string) *Element {
	return &Element{
		Name:  name,
		Attrs: orderedmap.New[string, string](),
	}
}

// Attr returns the raw value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	if e.Attrs == nil {
		return "", false
	}
	return e.Attrs.Get(name)
}

// AttrOr returns the named attribute or def when it is absent.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// AttrNames lists attribute names in source order.
func (e *Element) AttrNames() []string {
	if e.Attrs == nil {
		return nil
	}
	names := make([]string, 0, e.Attrs.Len())
	for pair := e.Attrs.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Elements returns the element children, skipping text and comments.
func (e *Element) Elements() []*Element {
	var out []*Element
	for _, child := range e.Children {
		if el, ok := child.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Text concatenates the text and CDATA children of the element.
func (e *Element) Text() string {
	var b strings.Builder
	for _, child := range e.Children {
		switch n := child.(type) {
		case *Text:
			b.WriteString(n.Value)
		case *CData:
			b.WriteString(n.Value)
		}
	}
	return b.String()
}

// Text is a run of character data with entities already resolved.
type Text struct {
	nodeBase
	Value string
}

// Comment holds the body of a <!-- --> comment. Only produced with PreserveComments.
type Comment struct {
	nodeBase
	Value string
}

// CData holds a CDATA section. Only produced with PreserveCData.
type CData struct {
	nodeBase
	Value string
}
