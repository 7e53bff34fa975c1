package transforms

import (
	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// metadataBackfill names elements that carry a node id but no layer name.
type metadataBackfill struct{}

func (metadataBackfill) Name() string               { return "metadata_backfill" }
func (metadataBackfill) Priority() int              { return 10 }
func (metadataBackfill) Dependencies() Dependencies { return Dependencies{} }

func (metadataBackfill) Apply(t *markup.Tree, ctx *Context) (Stats, error) {
	stats := Stats{}
	if ctx.Metadata.Len() == 0 {
		return stats, nil
	}
	for _, id := range t.Elements() {
		nodeID := t.SourceID(id)
		if nodeID == "" || t.Name(id) != "" {
			continue
		}
		name, ok := ctx.Metadata.Name(nodeID)
		if !ok || name == "" {
			stats.Add("unresolved", 1)
			continue
		}
		t.SetAttr(id, markup.AttrDataName, markup.Literal(name))
		stats.Add("names_added", 1)
	}
	return stats, nil
}
