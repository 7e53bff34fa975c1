package transforms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/util/sets"
)

var numericLiteral = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)

// reservedNames cannot be used as prop identifiers.
var reservedNames = sets.New(
	"break", "case", "catch", "class", "const", "continue", "debugger", "default", "delete",
	"do", "else", "enum", "export", "extends", "false", "finally", "for", "function", "if",
	"implements", "import", "in", "instanceof", "interface", "let", "new", "null", "package",
	"private", "protected", "public", "return", "static", "super", "switch", "this", "throw",
	"true", "try", "typeof", "var", "void", "while", "with", "yield", "await", "async",
	"children", "key", "ref", "props", "style", "className",
)

// Suffixes applied when a prop name is already taken.
const (
	imageSuffix    = "Image"
	numberSuffix   = "Value"
	reservedSuffix = "Prop"
)

type propCandidate struct {
	kind markup.PropKind
	base string
	node markup.NodeID
	def  string
}

// propExtraction hoists literals of the exported component into props.
type propExtraction struct{}

func (propExtraction) Name() string  { return "prop_extraction" }
func (propExtraction) Priority() int { return 100 }
func (propExtraction) Dependencies() Dependencies {
	return Dependencies{MustRunAfter: []string{"utility_optimize", "vector_consolidate"}}
}

func (propExtraction) Apply(t *markup.Tree, _ *Context) (Stats, error) {
	stats := Stats{}
	comp := t.Exported()
	if comp == nil {
		return stats, nil
	}

	var texts, images, numbers []propCandidate
	t.Walk(comp.Root, func(id markup.NodeID, _ int) bool {
		n := t.Node(id)
		switch n.Kind {
		case markup.TextNode:
			if s := strings.TrimSpace(n.Text); s != "" {
				texts = append(texts, propCandidate{markup.PropString, baseName(t.Name(n.Parent), "text"), id, s})
			}
		case markup.ExpressionNode:
			if s := strings.TrimSpace(n.Text); numericLiteral.MatchString(s) {
				numbers = append(numbers, propCandidate{markup.PropNumber, baseName(t.Name(n.Parent), "value"), id, s})
			}
		case markup.ElementNode:
			if n.Tag != "img" {
				return true
			}
			v, ok := n.Attrs.Get(markup.AttrSrc)
			if !ok || v.Kind != markup.ExpressionValue {
				return true
			}
			binding := strings.TrimSpace(v.Expr)
			if _, imported := t.ImportPath(binding); !imported {
				return true
			}
			fallback := strings.TrimPrefix(binding, "img")
			images = append(images, propCandidate{markup.PropImage, baseName(t.Name(id), baseName(fallback, "image")), id, binding})
		}
		return true
	})

	used := sets.New[string]()
	for _, p := range comp.Props {
		used.Add(p.Name)
	}
	for _, imp := range t.Imports {
		used.Add(imp.LocalName)
	}

	assign := func(c propCandidate, suffix string) string {
		name := c.base
		if reservedNames.Has(name) {
			name += reservedSuffix
			stats.Add("reserved", 1)
		}
		if used.Has(name) && suffix != "" {
			name += suffix
			stats.Add("suffixed", 1)
		}
		if used.Has(name) {
			base := name
			for i := 2; used.Has(name); i++ {
				name = base + strconv.Itoa(i)
			}
			stats.Add("numbered", 1)
		}
		used.Add(name)
		comp.Props = append(comp.Props, markup.Prop{Name: name, Kind: c.kind, Default: c.def})
		return name
	}

	for _, c := range texts {
		name := assign(c, "")
		expr := t.NewExpression(name)
		t.Replace(c.node, expr)
		stats.Add("text", 1)
	}
	for _, c := range images {
		name := assign(c, imageSuffix)
		t.SetAttr(c.node, markup.AttrSrc, markup.Expression(name))
		stats.Add("images", 1)
	}
	for _, c := range numbers {
		name := assign(c, numberSuffix)
		t.Node(c.node).Text = name
		stats.Add("numbers", 1)
	}
	return stats, nil
}

func baseName(name, fallback string) string {
	if c := markup.Camel(name); c != "" {
		return c
	}
	return fallback
}

// PropsInterface renders the typed props interface of c, or "" when c has
// no props.
func PropsInterface(c *markup.Component) string {
	if c == nil || len(c.Props) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "export interface %sProps {\n", c.Name)
	for _, p := range c.Props {
		typ := "string"
		if p.Kind == markup.PropNumber {
			typ = "number"
		}
		fmt.Fprintf(&b, "  %s?: %s;\n", p.Name, typ)
	}
	b.WriteString("}\n")
	return b.String()
}
