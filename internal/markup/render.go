package markup

import (
	"fmt"
	"html"
	"strings"
)

// Render serializes the tree back into the markup dialect accepted by Parse.
func Render(t *Tree) string {
	var b strings.Builder
	for _, imp := range t.Imports {
		fmt.Fprintf(&b, "import %s from %q;\n", imp.LocalName, imp.AssetPath)
	}
	if len(t.Imports) > 0 {
		b.WriteString("\n")
	}
	for i, c := range t.Components {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(`<component name="`)
		b.WriteString(html.EscapeString(c.Name))
		b.WriteString(`"`)
		if c.Exported {
			b.WriteString(" export")
		}
		b.WriteString(">\n")
		for _, p := range c.Props {
			fmt.Fprintf(&b, "  <prop name=\"%s\" type=\"%s\" default=\"%s\" />\n",
				html.EscapeString(p.Name), html.EscapeString(string(p.Kind)), html.EscapeString(p.Default))
		}
		renderNode(&b, t, c.Root, 1)
		b.WriteString("</component>\n")
	}
	return b.String()
}

// RenderNode serializes a single subtree without indentation of its root.
func RenderNode(t *Tree, id NodeID) string {
	var b strings.Builder
	renderNode(&b, t, id, 0)
	return strings.TrimRight(b.String(), "\n")
}

func renderNode(b *strings.Builder, t *Tree, id NodeID, depth int) {
	indent := strings.Repeat("  ", depth)
	n := t.Node(id)
	switch n.Kind {
	case TextNode:
		b.WriteString(indent + escapeText(n.Text) + "\n")
		return
	case ExpressionNode:
		b.WriteString(indent + "{" + n.Text + "}\n")
		return
	}

	b.WriteString(indent + "<" + n.Tag)
	writeAttrs(b, n.Attrs)
	if voidElements[n.Tag] {
		b.WriteString(" />\n")
		return
	}
	b.WriteString(">")
	if len(n.Children) == 0 {
		b.WriteString("</" + n.Tag + ">\n")
		return
	}
	if inlineOnly(t, n.Children) {
		for _, c := range n.Children {
			cn := t.Node(c)
			if cn.Kind == TextNode {
				b.WriteString(escapeText(cn.Text))
			} else {
				b.WriteString("{" + cn.Text + "}")
			}
		}
		b.WriteString("</" + n.Tag + ">\n")
		return
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		renderNode(b, t, c, depth+1)
	}
	b.WriteString(indent + "</" + n.Tag + ">\n")
}

func inlineOnly(t *Tree, kids []NodeID) bool {
	for _, c := range kids {
		if t.Kind(c) == ElementNode {
			return false
		}
	}
	return true
}

func writeAttrs(b *strings.Builder, attrs Attributes) {
	for _, at := range attrs {
		switch at.Value.Kind {
		case ExpressionValue:
			b.WriteString(" " + at.Key + "={" + at.Value.Expr + "}")
		case StyleValue:
			if at.Value.Style.Len() == 0 {
				continue
			}
			b.WriteString(" " + at.Key + `="` + html.EscapeString(at.Value.Style.String()) + `"`)
		default:
			if at.Value.Literal == "" && at.Key != AttrAlt {
				b.WriteString(" " + at.Key)
				continue
			}
			b.WriteString(" " + at.Key + `="` + html.EscapeString(at.Value.Literal) + `"`)
		}
	}
}

var braceEscaper = strings.NewReplacer("{", "&#123;", "}", "&#125;")

func escapeText(s string) string {
	return braceEscaper.Replace(html.EscapeString(s))
}
