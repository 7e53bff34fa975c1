package transforms

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// Fills used for layers the exporter leaves as empty placeholders.
const (
	RadialGradientFill = "radial-gradient(50% 50% at 50% 50%, rgba(255, 255, 255, 1) 0%, rgba(255, 255, 255, 0) 100%)"
	LinearGradientFill = "linear-gradient(180deg, rgba(255, 255, 255, 1) 0%, rgba(0, 0, 0, 1) 100%)"
)

var shapePlaceholder = regexp.MustCompile(`^(?i:ellipse|circle)([ _-]?\d+)?$`)

// placeholderFills gives placeholder layers a concrete fill and checks
// blend-mode markers.
type placeholderFills struct{}

func (placeholderFills) Name() string               { return "placeholder_fills" }
func (placeholderFills) Priority() int              { return 60 }
func (placeholderFills) Dependencies() Dependencies { return Dependencies{} }

func (placeholderFills) Apply(t *markup.Tree, ctx *Context) (Stats, error) {
	stats := Stats{}
	for _, id := range t.Elements() {
		name := t.Name(id)
		lower := strings.ToLower(name)

		switch {
		case strings.Contains(lower, "gradient") && !hasFill(t, id):
			if style := t.StyleOf(id); style != nil {
				fill := LinearGradientFill
				if strings.Contains(lower, "radial") {
					fill = RadialGradientFill
				}
				style.Set("background-image", fill)
				stats.Add("gradients", 1)
			}
		case shapePlaceholder.MatchString(name) && len(t.Children(id)) == 0:
			if t.AddClass(id, "rounded-full") {
				stats.Add("shapes", 1)
			}
		}

		if mode := blendMode(t, id); mode != "" && !t.HasClass(id, "mix-blend-"+mode) {
			ctx.Warn("placeholder_fills", "layer %q uses blend mode %q without a mix-blend-%s class", name, mode, mode)
			stats.Add("blend_warnings", 1)
		}
	}
	return stats, nil
}

// hasFill reports whether id already declares a background.
func hasFill(t *markup.Tree, id markup.NodeID) bool {
	for _, tok := range t.Classes(id) {
		if strings.HasPrefix(tok, "bg-") && tok != "bg-transparent" {
			return true
		}
	}
	v, ok := t.Attr(id, markup.AttrStyle)
	if !ok {
		return false
	}
	switch v.Kind {
	case markup.StyleValue:
		_, bg := v.Style.Get("background")
		_, img := v.Style.Get("background-image")
		return bg || img
	case markup.LiteralValue:
		return strings.Contains(v.Literal, "background")
	default:
		return true
	}
}

func blendMode(t *markup.Tree, id markup.NodeID) string {
	if mode := t.StringAttr(id, "data-blend-mode"); mode != "" {
		return normalizeBlendMode(mode)
	}
	v, ok := t.Attr(id, markup.AttrStyle)
	if !ok {
		return ""
	}
	var mode string
	switch v.Kind {
	case markup.StyleValue:
		mode, _ = v.Style.Get("mix-blend-mode")
	case markup.LiteralValue:
		mode, _ = markup.ParseStyle(v.Literal).Get("mix-blend-mode")
	}
	return normalizeBlendMode(mode)
}

func normalizeBlendMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	mode = strings.ReplaceAll(strings.ReplaceAll(mode, "_", "-"), " ", "-")
	if mode == "normal" || mode == "pass-through" {
		return ""
	}
	return mode
}
