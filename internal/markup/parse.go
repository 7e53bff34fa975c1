package markup

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	importLine = regexp.MustCompile(`^import\s+([A-Za-z_$][\w$]*)\s+from\s+["']([^"']+)["'];?$`)
	constLine  = regexp.MustCompile(`^const\s+([A-Za-z_$][\w$]*)\s*=\s*["']([^"']+)["'];?$`)
)

// voidElements never take children and need no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true, "prop": true,
}

// IsVoid reports whether tag is rendered without children.
func IsVoid(tag string) bool { return voidElements[tag] }

// Parse reads a markup document: an import header followed by one or more
// component definitions.
func Parse(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markup: %w", err)
	}
	return ParseBytes(data)
}

// ParseString parses markup held in a string.
func ParseString(s string) (*Tree, error) { return ParseBytes([]byte(s)) }

// ParseBytes parses markup held in memory.
func ParseBytes(data []byte) (*Tree, error) {
	t := New()
	body := parseHeader(t, data)
	p := &parser{t: t}
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				if err := p.finish(); err != nil {
					return nil, err
				}
				return t, nil
			}
			return nil, fmt.Errorf("tokenize markup: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			attrs, trailingSlash := readAttrs(z, hasAttr)
			closed := tt == html.SelfClosingTagToken || trailingSlash || voidElements[tag]
			if err := p.open(tag, attrs, closed); err != nil {
				return nil, err
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if err := p.close(string(name)); err != nil {
				return nil, err
			}
		case html.TextToken:
			if err := p.text(string(z.Text())); err != nil {
				return nil, err
			}
		}
	}
}

// parseHeader consumes leading import and const bindings and returns the
// remaining body.
func parseHeader(t *Tree, data []byte) []byte {
	rest := data
	for len(rest) > 0 {
		line := rest
		next := []byte(nil)
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, next = rest[:i], rest[i+1:]
		}
		s := strings.TrimSpace(string(line))
		switch {
		case s == "" || strings.HasPrefix(s, "//"):
		case importLine.MatchString(s):
			m := importLine.FindStringSubmatch(s)
			t.AddImport(m[1], m[2])
		case constLine.MatchString(s):
			m := constLine.FindStringSubmatch(s)
			t.AddImport(m[1], m[2])
		default:
			return rest
		}
		rest = next
	}
	return rest
}

func readAttrs(z *html.Tokenizer, more bool) (Attributes, bool) {
	var attrs Attributes
	trailingSlash := false
	for more {
		var k, v []byte
		k, v, more = z.TagAttr()
		key := string(k)
		raw := string(v)
		if key == "/" {
			trailingSlash = true
			continue
		}
		if !more && strings.HasSuffix(raw, "}/") {
			raw = strings.TrimSuffix(raw, "/")
			trailingSlash = true
		}
		if key == "classname" {
			key = AttrClass
		}
		attrs.Set(key, attrValue(key, raw))
	}
	return attrs, trailingSlash
}

func attrValue(key, raw string) AttrValue {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= 2 && trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}' {
		return Expression(strings.TrimSpace(trimmed[1 : len(trimmed)-1]))
	}
	if key == AttrStyle {
		return Style(ParseStyle(raw))
	}
	return Literal(raw)
}

type parser struct {
	t        *Tree
	stack    []NodeID
	comp     *Component
	explicit bool
	roots    []NodeID
}

func (p *parser) open(tag string, attrs Attributes, closed bool) error {
	if tag == "component" {
		if p.comp != nil || len(p.stack) > 0 {
			return fmt.Errorf("nested <component> is not allowed")
		}
		name, _ := attrs.Get("name")
		p.comp = &Component{Name: name.Literal, Exported: attrs.Has("export"), Root: NoNode}
		p.explicit = true
		if closed {
			return fmt.Errorf("component %q has no root element", p.comp.Name)
		}
		return nil
	}
	if tag == "prop" && p.comp != nil && len(p.stack) == 0 {
		name, _ := attrs.Get("name")
		kind, _ := attrs.Get("type")
		def, _ := attrs.Get("default")
		p.comp.Props = append(p.comp.Props, Prop{Name: name.Literal, Kind: PropKind(kind.Literal), Default: def.Literal})
		return nil
	}

	id := p.t.NewElement(tag)
	p.t.nodes[id].Attrs = attrs
	if n := len(p.stack); n > 0 {
		p.t.AppendChild(p.stack[n-1], id)
	} else if err := p.addRoot(tag, id); err != nil {
		return err
	}
	if !closed {
		p.stack = append(p.stack, id)
	}
	return nil
}

func (p *parser) addRoot(tag string, id NodeID) error {
	switch {
	case p.comp != nil:
		if p.comp.Root != NoNode {
			return fmt.Errorf("component %q has more than one root element", p.comp.Name)
		}
		p.comp.Root = id
	case p.explicit:
		return fmt.Errorf("element <%s> outside of a component", tag)
	default:
		p.roots = append(p.roots, id)
	}
	return nil
}

func (p *parser) close(tag string) error {
	if tag == "component" {
		if p.comp == nil {
			return fmt.Errorf("unexpected </component>")
		}
		if len(p.stack) > 0 {
			return fmt.Errorf("unclosed <%s> in component %q", p.t.Tag(p.stack[len(p.stack)-1]), p.comp.Name)
		}
		if p.comp.Root == NoNode {
			return fmt.Errorf("component %q has no root element", p.comp.Name)
		}
		p.t.Components = append(p.t.Components, p.comp)
		p.comp = nil
		return nil
	}
	if voidElements[tag] {
		return nil
	}
	n := len(p.stack)
	if n == 0 {
		return fmt.Errorf("unexpected </%s>", tag)
	}
	if top := p.t.Tag(p.stack[n-1]); top != tag {
		return fmt.Errorf("mismatched </%s>, expected </%s>", tag, top)
	}
	p.stack = p.stack[:n-1]
	return nil
}

func (p *parser) text(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n := len(p.stack)
	if n == 0 {
		return fmt.Errorf("text %q outside of an element", strings.TrimSpace(s))
	}
	parent := p.stack[n-1]
	segs, err := splitExpressions(s)
	if err != nil {
		return err
	}
	for _, seg := range segs {
		if seg.expr {
			p.t.AppendChild(parent, p.t.NewExpression(seg.text))
			continue
		}
		if txt := trimLayout(seg.text); txt != "" {
			p.t.AppendChild(parent, p.t.NewText(txt))
		}
	}
	return nil
}

type segment struct {
	text string
	expr bool
}

// splitExpressions cuts s into literal runs and balanced {…} expressions.
func splitExpressions(s string) ([]segment, error) {
	var out []segment
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '{':
			if depth == 0 {
				if b.Len() > 0 {
					out = append(out, segment{text: b.String()})
					b.Reset()
				}
			} else {
				b.WriteRune(r)
			}
			depth++
		case r == '}' && depth > 0:
			depth--
			if depth == 0 {
				out = append(out, segment{text: strings.TrimSpace(b.String()), expr: true})
				b.Reset()
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced expression in text %q", strings.TrimSpace(s))
	}
	if b.Len() > 0 {
		out = append(out, segment{text: b.String()})
	}
	return out, nil
}

// trimLayout strips leading and trailing whitespace runs that contain a
// line break. Single spaces between words and expressions survive.
func trimLayout(s string) string {
	lead := len(s) - len(strings.TrimLeft(s, " \t\r\n"))
	if strings.ContainsRune(s[:lead], '\n') {
		s = s[lead:]
	}
	trimmed := strings.TrimRight(s, " \t\r\n")
	if strings.ContainsRune(s[len(trimmed):], '\n') {
		s = trimmed
	}
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func (p *parser) finish() error {
	if n := len(p.stack); n > 0 {
		return fmt.Errorf("unclosed <%s>", p.t.Tag(p.stack[n-1]))
	}
	if p.comp != nil {
		return fmt.Errorf("unclosed component %q", p.comp.Name)
	}
	if !p.explicit {
		if len(p.roots) != 1 {
			return fmt.Errorf("expected exactly one root element, found %d", len(p.roots))
		}
		root := p.roots[0]
		name := Pascal(p.t.Name(root))
		if name == "" {
			name = "Component"
		}
		p.t.Components = []*Component{{Name: name, Exported: true, Root: root}}
	}
	if len(p.t.Components) == 0 {
		return fmt.Errorf("document defines no component")
	}
	return nil
}
