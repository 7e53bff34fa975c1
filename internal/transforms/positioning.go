package transforms

import (
	"regexp"
	"slices"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/vector"
)

// overlayName marks layers that are meant to float above the flow.
var overlayName = regexp.MustCompile(`(?i)overlay|modal|tooltip|popover|dropdown|backdrop|dialog|toast`)

var positionedClasses = []string{"relative", "absolute", "fixed", "sticky"}

// positioning returns stray absolute elements to the normal flow.
type positioning struct{}

func (positioning) Name() string  { return "positioning" }
func (positioning) Priority() int { return 70 }
func (positioning) Dependencies() Dependencies {
	return Dependencies{MustRunAfter: []string{"vector_consolidate"}}
}

func (positioning) Apply(t *markup.Tree, ctx *Context) (Stats, error) {
	stats := Stats{}
	for _, id := range t.Elements() {
		tokens := t.Classes(id)
		if !slices.Contains(tokens, "absolute") {
			continue
		}

		if vector.HasPercentOffsets(tokens) && wrapsConsolidated(t, id, ctx.ConsolidatedImports) {
			out := slices.DeleteFunc(slices.Clone(tokens), vector.IsPositionToken)
			t.SetClasses(id, append(out, "inset-0"))
			stats.Add("vector_wrappers", 1)
			continue
		}

		switch {
		case overlayName.MatchString(t.Name(id)):
			stats.Add("overlays_kept", 1)
			continue
		case markup.HasPrefixToken(tokens, "z-", "-z-"):
			continue
		case hasPositionedAncestor(t, id):
			continue
		}

		out := slices.DeleteFunc(slices.Clone(tokens), func(tok string) bool {
			return tok == "absolute" || vector.IsPositionToken(tok)
		})
		t.SetClasses(id, append(out, "relative"))
		stats.Add("converted", 1)
	}
	return stats, nil
}

func hasPositionedAncestor(t *markup.Tree, id markup.NodeID) bool {
	for _, a := range t.Ancestors(id) {
		for _, tok := range t.Classes(a) {
			if slices.Contains(positionedClasses, tok) {
				return true
			}
		}
	}
	return false
}

// wrapsConsolidated reports whether id directly holds an image bound to a
// consolidated asset.
func wrapsConsolidated(t *markup.Tree, id markup.NodeID, imports []string) bool {
	if len(imports) == 0 {
		return false
	}
	for _, c := range t.ElementChildren(id) {
		if t.Tag(c) != "img" {
			continue
		}
		if v, ok := t.Attr(c, markup.AttrSrc); ok && v.Kind == markup.ExpressionValue &&
			slices.Contains(imports, strings.TrimSpace(v.Expr)) {
			return true
		}
	}
	return false
}
