package resolver

import "fmt"

// Error is a fatal resolution error, such as a reactive pipe on a conditional that
// spreads several children or a document with two widget roots.
type Error struct {
	Filename string
	Line     int
	Column   int
	Element  string
	Msg      string
}

func (e *Error) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: <%s>: %s", e.Filename, e.Line, e.Column, e.Element, e.Msg)
	}
	return fmt.Sprintf("%d:%d: <%s>: %s", e.Line, e.Column, e.Element, e.Msg)
}
