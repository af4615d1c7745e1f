package markup

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EntityResolver maps a named entity (without & and ;) to its replacement text.
type EntityResolver func(name string) (string, bool)

// Options controls what the parser keeps and how it treats unknown entities.
type Options struct {
	Filename              string
	PreserveComments      bool
	PreserveCData         bool
	IgnoreUnknownEntities bool
	EntityResolver        EntityResolver
}

var namedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
}

// Parser is a recursive descent parser for layout markup.
type Parser struct {
	input string
	pos   int
	line  int
	col   int
	opts  Options
}

// NewParser creates a parser over input. A leading byte-order mark is dropped and
// line endings are normalized to LF.
func NewParser(input string, opts Options) *Parser {
	input = strings.TrimPrefix(input, "\ufeff")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")
	return &Parser{
		input: input,
		line:  1,
		col:   1,
		opts:  opts,
	}
}

// Parse parses input with default options.
func Parse(input string) (*Document, error) {
	return NewParser(input, Options{}).Parse()
}

// Parse parses the whole input into a Document.
func (p *Parser) Parse() (*Document, error) {
	doc := &Document{}
	nodes, err := p.parseContent(nil, false)
	if err != nil {
		return nil, err
	}

	roots := 0
	for _, n := range nodes {
		switch n := n.(type) {
		case *Element:
			roots++
			if roots > 1 {
				return nil, p.errorAt(n.Line, n.Column, "multiple root elements")
			}
		case *Text:
			if strings.TrimSpace(n.Value) != "" {
				return nil, p.error("text outside of the root element")
			}
			continue
		}
		doc.Children = append(doc.Children, n)
	}
	return doc, nil
}

// parseContent parses nodes until EOF or the next end tag.
func (p *Parser) parseContent(parent *Element, preserve bool) ([]Node, error) {
	var nodes []Node
	var text strings.Builder
	hasText := false

	flush := func() {
		if !hasText {
			return
		}
		value := text.String()
		text.Reset()
		hasText = false
		if !preserve && strings.TrimSpace(value) == "" {
			return
		}
		nodes = append(nodes, &Text{nodeBase: nodeBase{parent: parent}, Value: value})
	}

	for {
		if p.eof() {
			if parent != nil {
				return nil, p.errorAt(parent.Line, parent.Column,
					fmt.Sprintf("unterminated element <%s>", parent.Name))
			}
			flush()
			return nodes, nil
		}

		switch {
		case p.peek("</"):
			if parent == nil {
				return nil, p.error("unexpected end tag")
			}
			flush()
			return nodes, nil

		case p.peek("<!--"):
			p.consume("<!--")
			body, ok := p.parseUntil("-->")
			if !ok {
				return nil, p.error("unterminated comment")
			}
			p.consume("-->")
			if p.opts.PreserveComments {
				flush()
				nodes = append(nodes, &Comment{nodeBase: nodeBase{parent: parent}, Value: body})
			}

		case p.peek("<![CDATA["):
			p.consume("<![CDATA[")
			body, ok := p.parseUntil("]]>")
			if !ok {
				return nil, p.error("unterminated CDATA section")
			}
			p.consume("]]>")
			if p.opts.PreserveCData {
				flush()
				nodes = append(nodes, &CData{nodeBase: nodeBase{parent: parent}, Value: body})
			} else {
				text.WriteString(body)
				hasText = true
			}

		case p.peek("<?"):
			p.consume("<?")
			if _, ok := p.parseUntil("?>"); !ok {
				return nil, p.error("unterminated processing instruction")
			}
			p.consume("?>")

		case p.peek("<!DOCTYPE"):
			if err := p.skipDoctype(); err != nil {
				return nil, err
			}

		case p.peek("<"):
			flush()
			el, err := p.parseElement(parent, preserve)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, el)

		default:
			line, col := p.line, p.col
			raw, _ := p.parseUntil("<")
			decoded, err := p.decodeEntities(raw, line, col)
			if err != nil {
				return nil, err
			}
			text.WriteString(decoded)
			hasText = true
		}
	}
}

// parseElement parses a start tag, its content and the matching end tag.
func (p *Parser) parseElement(parent *Element, preserve bool) (*Element, error) {
	line, col := p.line, p.col
	p.consume("<")

	name := p.parseName()
	if name == "" {
		return nil, p.error("expected element name")
	}

	el := NewElement(name)
	el.parent = parent
	el.Line = line
	el.Column = col

	if err := p.parseAttributes(el); err != nil {
		return nil, err
	}

	if space, ok := el.Attr("xml:space"); ok {
		switch space {
		case "preserve":
			preserve = true
		case "default":
			preserve = false
		default:
			return nil, p.errorAt(line, col, fmt.Sprintf("invalid xml:space value %q", space))
		}
	}

	p.skipWhitespace()
	if p.consume("/>") {
		return el, nil
	}
	if !p.consume(">") {
		return nil, p.errorAt(line, col, fmt.Sprintf("unterminated start tag <%s>", name))
	}

	children, err := p.parseContent(el, preserve)
	if err != nil {
		return nil, err
	}
	el.Children = children

	p.consume("</")
	closing := p.parseName()
	if closing != name {
		return nil, p.error(fmt.Sprintf("mismatched end tag: expected </%s>, found </%s>", name, closing))
	}
	p.skipWhitespace()
	if !p.consume(">") {
		return nil, p.error(fmt.Sprintf("unterminated end tag </%s>", name))
	}
	return el, nil
}

func (p *Parser) parseAttributes(el *Element) error {
	for {
		p.skipWhitespace()
		if p.eof() || p.peek(">") || p.peek("/>") {
			return nil
		}

		line, col := p.line, p.col
		name := p.parseName()
		if name == "" {
			return p.error("invalid attribute name")
		}
		if _, exists := el.Attrs.Get(name); exists {
			return p.errorAt(line, col, fmt.Sprintf("redefined attribute %q", name))
		}

		p.skipWhitespace()
		if !p.consume("=") {
			// Boolean shorthand such as :center.
			el.Attrs.Set(name, "")
			continue
		}
		p.skipWhitespace()

		quote := p.current()
		if quote != '"' && quote != '\'' {
			return p.error(fmt.Sprintf("expected quoted value for attribute %q", name))
		}
		p.advance()
		valueLine, valueCol := p.line, p.col
		raw, ok := p.parseUntil(string(quote))
		if !ok {
			return p.errorAt(line, col, fmt.Sprintf("unterminated value for attribute %q", name))
		}
		p.advance()

		value, err := p.decodeEntities(raw, valueLine, valueCol)
		if err != nil {
			return err
		}
		el.Attrs.Set(name, value)
	}
}

func (p *Parser) skipDoctype() error {
	p.consume("<!DOCTYPE")
	depth := 0
	for !p.eof() {
		switch p.current() {
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				p.advance()
				return nil
			}
		}
		p.advance()
	}
	return p.error("unterminated DOCTYPE")
}

// decodeEntities resolves entity and character references in s.
func (p *Parser) decodeEntities(s string, line, col int) (string, error) {
	if !strings.Contains(s, "&") {
		return s, nil
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}

		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return "", p.errorAt(line, col, "invalid entity: missing ';'")
		}
		ref := s[i+1 : i+end]
		literal := s[i : i+end+1]
		i += end + 1

		if strings.HasPrefix(ref, "#") {
			r, err := decodeCharRef(ref[1:])
			if err != nil {
				return "", p.errorAt(line, col, fmt.Sprintf("invalid character reference %s", literal))
			}
			b.WriteRune(r)
			continue
		}

		if v, ok := namedEntities[ref]; ok {
			b.WriteString(v)
			continue
		}
		if p.opts.EntityResolver != nil {
			if v, ok := p.opts.EntityResolver(ref); ok {
				b.WriteString(v)
				continue
			}
		}
		if p.opts.IgnoreUnknownEntities {
			b.WriteString(literal)
			continue
		}
		return "", p.errorAt(line, col, fmt.Sprintf("unknown entity %s", literal))
	}
	return b.String(), nil
}

func decodeCharRef(ref string) (rune, error) {
	var n uint64
	var err error
	if strings.HasPrefix(ref, "x") || strings.HasPrefix(ref, "X") {
		n, err = strconv.ParseUint(ref[1:], 16, 32)
	} else {
		n, err = strconv.ParseUint(ref, 10, 32)
	}
	if err != nil {
		return 0, err
	}
	r := rune(n)
	if r == 0 || !utf8.ValidRune(r) {
		return 0, fmt.Errorf("invalid code point %d", n)
	}
	return r, nil
}

// Helper methods

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) current() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) peek(s string) bool {
	return strings.HasPrefix(p.input[p.pos:], s)
}

func (p *Parser) consume(s string) bool {
	if !p.peek(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		p.advance()
	}
	return true
}

func (p *Parser) advance() {
	if p.eof() {
		return
	}
	if p.input[p.pos] == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	p.pos++
}

func (p *Parser) skipWhitespace() {
	for !p.eof() {
		switch p.current() {
		case ' ', '\t', '\n':
			p.advance()
		default:
			return
		}
	}
}

// parseUntil consumes input up to (not including) delimiter. ok is false when the
// delimiter was never found and the whole remaining input was consumed.
func (p *Parser) parseUntil(delimiter string) (string, bool) {
	start := p.pos
	for !p.eof() {
		if p.peek(delimiter) {
			return p.input[start:p.pos], true
		}
		p.advance()
	}
	return p.input[start:p.pos], false
}

func (p *Parser) parseName() string {
	start := p.pos
	for !p.eof() && isNameByte(p.current()) {
		p.advance()
	}
	return p.input[start:p.pos]
}

func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '.', c == ':':
		return true
	}
	return c >= 0x80
}

func (p *Parser) error(msg string) error {
	return p.errorAt(p.line, p.col, msg)
}

func (p *Parser) errorAt(line, col int, msg string) error {
	return &SyntaxError{
		Filename: p.opts.Filename,
		Line:     line,
		Column:   col,
		Excerpt:  p.excerpt(line, col),
		Msg:      msg,
	}
}

// excerpt returns up to 30 bytes of the given line starting at col, cut on rune
// boundaries.
func (p *Parser) excerpt(line, col int) string {
	lines := strings.SplitN(p.input, "\n", line+1)
	if line-1 >= len(lines) {
		return ""
	}
	text := lines[line-1]
	if col-1 < len(text) {
		text = text[col-1:]
	} else {
		text = ""
	}
	for len(text) > 0 && !utf8.RuneStart(text[0]) {
		text = text[1:]
	}
	if len(text) > 30 {
		cut := 30
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
