package transforms

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// vectorFlatten folds size-less absolute wrappers into their single vector
// image child, so percentage sizing applies to a box that exists.
type vectorFlatten struct{}

func (vectorFlatten) Name() string               { return "vector_flatten" }
func (vectorFlatten) Priority() int              { return 40 }
func (vectorFlatten) Dependencies() Dependencies { return Dependencies{} }

func (vectorFlatten) Apply(t *markup.Tree, _ *Context) (Stats, error) {
	stats := Stats{}
	elements := t.Elements()
	// Innermost first, so stacked wrappers collapse in one run.
	for _, wrapper := range slices.Backward(elements) {
		child, ok := flattenable(t, wrapper)
		if !ok {
			continue
		}
		t.SetClasses(child, append(t.Classes(wrapper), t.Classes(child)...))
		for _, key := range []string{markup.AttrDataName, markup.AttrNodeID} {
			if v, ok := t.Attr(wrapper, key); ok {
				t.SetAttr(child, key, v)
			}
		}
		t.Replace(wrapper, child)
		stats.Add("flattened", 1)
	}
	return stats, nil
}

func flattenable(t *markup.Tree, wrapper markup.NodeID) (markup.NodeID, bool) {
	if !t.Attached(wrapper) {
		return markup.NoNode, false
	}
	tokens := t.Classes(wrapper)
	if !slices.Contains(tokens, "absolute") || markup.HasPrefixToken(tokens, "w-", "h-", "size-") {
		return markup.NoNode, false
	}
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "overflow-") && tok != "overflow-visible" {
			return markup.NoNode, false
		}
	}
	kids := t.Children(wrapper)
	if len(kids) != 1 || !t.IsVectorImage(kids[0]) {
		return markup.NoNode, false
	}
	return kids[0], true
}
