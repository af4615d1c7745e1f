package markup

import "fmt"

// SyntaxError reports malformed markup.
type SyntaxError struct {
	Filename string
	Line     int
	Column   int
	Excerpt  string
	Msg      string
}

func (e *SyntaxError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Line, e.Column)
	if e.Filename != "" {
		loc = e.Filename + ":" + loc
	}
	if e.Excerpt == "" {
		return fmt.Sprintf("%s: %s", loc, e.Msg)
	}
	return fmt.Sprintf("%s: %s (near %q)", loc, e.Msg, e.Excerpt)
}
