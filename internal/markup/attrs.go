package markup

import (
	"slices"
	"strings"
)

// ValueKind tags the variant held by an AttrValue.
type ValueKind uint8

const (
	LiteralValue ValueKind = iota + 1
	ExpressionValue
	StyleValue
)

// AttrValue is a literal string, an opaque expression or a style map.
type AttrValue struct {
	Kind    ValueKind
	Literal string
	Expr    string
	Style   *StyleMap
}

// Literal wraps a plain string value.
func Literal(s string) AttrValue { return AttrValue{Kind: LiteralValue, Literal: s} }

// Expression wraps an opaque expression reference.
func Expression(expr string) AttrValue { return AttrValue{Kind: ExpressionValue, Expr: expr} }

// Style wraps a style map.
func Style(m *StyleMap) AttrValue { return AttrValue{Kind: StyleValue, Style: m} }

func (v AttrValue) clone() AttrValue {
	if v.Style != nil {
		v.Style = v.Style.Clone()
	}
	return v
}

// Attr is one key/value pair.
type Attr struct {
	Key   string
	Value AttrValue
}

// Attributes keeps insertion order so rendering is stable.
type Attributes []Attr

// Get returns the value stored under key.
func (a Attributes) Get(key string) (AttrValue, bool) {
	for _, at := range a {
		if at.Key == key {
			return at.Value, true
		}
	}
	return AttrValue{}, false
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Set replaces key in place or appends it.
func (a *Attributes) Set(key string, v AttrValue) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = v
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: v})
}

// Delete removes key if present.
func (a *Attributes) Delete(key string) {
	*a = slices.DeleteFunc(*a, func(at Attr) bool { return at.Key == key })
}

// Clone returns a deep copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for i, at := range a {
		out[i] = Attr{Key: at.Key, Value: at.Value.clone()}
	}
	return out
}

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// StyleMap is an ordered set of inline style declarations.
type StyleMap struct {
	decls []Declaration
}

// ParseStyle reads a `prop: value; prop: value` string.
func ParseStyle(s string) *StyleMap {
	m := &StyleMap{}
	for _, part := range splitDeclarations(s) {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" {
			continue
		}
		m.Set(prop, val)
	}
	return m
}

// splitDeclarations splits on semicolons outside parentheses and quotes.
func splitDeclarations(s string) []string {
	var out []string
	depth := 0
	var quote rune
	start := 0
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// Get returns the value of prop.
func (m *StyleMap) Get(prop string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, d := range m.decls {
		if d.Property == prop {
			return d.Value, true
		}
	}
	return "", false
}

// Set overwrites prop or appends it.
func (m *StyleMap) Set(prop, value string) {
	for i := range m.decls {
		if m.decls[i].Property == prop {
			m.decls[i].Value = value
			return
		}
	}
	m.decls = append(m.decls, Declaration{Property: prop, Value: value})
}

// Delete removes prop.
func (m *StyleMap) Delete(prop string) {
	m.decls = slices.DeleteFunc(m.decls, func(d Declaration) bool { return d.Property == prop })
}

// Len reports the number of declarations.
func (m *StyleMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.decls)
}

// Declarations returns a copy of the ordered declarations.
func (m *StyleMap) Declarations() []Declaration {
	if m == nil {
		return nil
	}
	return slices.Clone(m.decls)
}

// Clone returns a deep copy.
func (m *StyleMap) Clone() *StyleMap {
	if m == nil {
		return nil
	}
	return &StyleMap{decls: slices.Clone(m.decls)}
}

func (m *StyleMap) String() string {
	if m == nil {
		return ""
	}
	parts := make([]string, 0, len(m.decls))
	for _, d := range m.decls {
		parts = append(parts, d.Property+": "+d.Value)
	}
	return strings.Join(parts, "; ")
}

// Attr returns the attribute value of key on id.
func (t *Tree) Attr(id NodeID, key string) (AttrValue, bool) {
	return t.nodes[id].Attrs.Get(key)
}

// SetAttr stores v under key on id.
func (t *Tree) SetAttr(id NodeID, key string, v AttrValue) {
	t.nodes[id].Attrs.Set(key, v)
}

// DeleteAttr removes key from id.
func (t *Tree) DeleteAttr(id NodeID, key string) {
	t.nodes[id].Attrs.Delete(key)
}

// StringAttr returns the literal value of key, or "" when the attribute is
// missing or not a literal.
func (t *Tree) StringAttr(id NodeID, key string) string {
	v, ok := t.nodes[id].Attrs.Get(key)
	if !ok || v.Kind != LiteralValue {
		return ""
	}
	return v.Literal
}

// Name returns the design-tool layer name carried by data-name.
func (t *Tree) Name(id NodeID) string {
	if !t.IsElement(id) {
		return ""
	}
	return t.StringAttr(id, AttrDataName)
}

// SourceID returns the design-tool node identifier carried by data-node-id.
func (t *Tree) SourceID(id NodeID) string {
	if !t.IsElement(id) {
		return ""
	}
	return t.StringAttr(id, AttrNodeID)
}

// StyleOf returns the style map of id, creating an empty one when absent.
// It returns nil when the style is an opaque expression.
func (t *Tree) StyleOf(id NodeID) *StyleMap {
	v, ok := t.Attr(id, AttrStyle)
	if !ok {
		m := &StyleMap{}
		t.SetAttr(id, AttrStyle, Style(m))
		return m
	}
	switch v.Kind {
	case StyleValue:
		return v.Style
	case LiteralValue:
		m := ParseStyle(v.Literal)
		t.SetAttr(id, AttrStyle, Style(m))
		return m
	default:
		return nil
	}
}

// Well-known attribute keys.
const (
	AttrClass    = "class"
	AttrStyle    = "style"
	AttrDataName = "data-name"
	AttrNodeID   = "data-node-id"
	AttrSrc      = "src"
	AttrAlt      = "alt"
)
