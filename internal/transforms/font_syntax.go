package transforms

import (
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// fontToken matches font-['Family:Style',fallback] with either quote style.
var fontToken = regexp.MustCompile(`^font-\[(['"])([^'"]+)(['"])(?:,([^\]]+))?\]$`)

// fontWeights maps normalized style names to numeric weights.
var fontWeights = map[string]int{
	"thin":       100,
	"hairline":   100,
	"extralight": 200,
	"ultralight": 200,
	"light":      300,
	"regular":    400,
	"normal":     400,
	"book":       400,
	"medium":     500,
	"semibold":   600,
	"demibold":   600,
	"bold":       700,
	"extrabold":  800,
	"ultrabold":  800,
	"black":      900,
	"heavy":      900,
}

// FontWeight resolves a style name such as "Semi Bold Italic" to a weight
// and reports whether the style is italic. Unknown styles weigh 400.
func FontWeight(style string) (int, bool) {
	norm := strings.ToLower(style)
	for _, sep := range []string{" ", "-", "_"} {
		norm = strings.ReplaceAll(norm, sep, "")
	}
	italic := strings.Contains(norm, "italic") || strings.Contains(norm, "oblique")
	norm = strings.ReplaceAll(strings.ReplaceAll(norm, "italic", ""), "oblique", "")
	if norm == "" {
		return 400, italic
	}
	if w, ok := fontWeights[norm]; ok {
		return w, italic
	}
	return 400, italic
}

// fontSyntax converts quoted font-family:style tokens into inline styles.
type fontSyntax struct{}

func (fontSyntax) Name() string  { return "font_syntax" }
func (fontSyntax) Priority() int { return 20 }
func (fontSyntax) Dependencies() Dependencies {
	return Dependencies{MustRunBefore: []string{"class_cleanup"}}
}

func (fontSyntax) Apply(t *markup.Tree, ctx *Context) (Stats, error) {
	stats := Stats{}
	for _, id := range t.Elements() {
		for _, tok := range t.Classes(id) {
			m := fontToken.FindStringSubmatch(tok)
			if m == nil || m[1] != m[3] {
				continue
			}
			style := t.StyleOf(id)
			if style == nil {
				stats.Add("expression_styles", 1)
				continue
			}
			family, variant, hasVariant := strings.Cut(m[2], ":")
			family = strings.TrimSpace(strings.ReplaceAll(family, "_", " "))
			value := "'" + family + "'"
			if fb := strings.TrimSpace(strings.ReplaceAll(m[4], "_", " ")); fb != "" {
				value += ", " + fb
			}
			style.Set("font-family", value)
			if hasVariant {
				weight, italic := FontWeight(strings.ReplaceAll(variant, "_", " "))
				style.Set("font-weight", strconv.Itoa(weight))
				if italic {
					style.Set("font-style", "italic")
				}
			}
			t.RemoveClasses(id, func(s string) bool { return s == tok })
			stats.Add("converted", 1)
		}
	}
	return stats, nil
}
