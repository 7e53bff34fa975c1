package transforms

import (
	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/vector"
)

// vectorConsolidate merges clusters of positioned vector images into one
// synthesized asset per cluster.
type vectorConsolidate struct{}

func (vectorConsolidate) Name() string  { return "vector_consolidate" }
func (vectorConsolidate) Priority() int { return 50 }
func (vectorConsolidate) Dependencies() Dependencies {
	return Dependencies{MustRunAfter: []string{"vector_flatten"}}
}

func (vectorConsolidate) Apply(t *markup.Tree, ctx *Context) (Stats, error) {
	stats := Stats{}
	if ctx.Assets == nil {
		return stats, nil
	}
	taken := make(map[string]bool, len(ctx.GeneratedAssets))
	for p := range ctx.GeneratedAssets {
		taken[p] = true
	}
	res := vector.Consolidate(t, vector.Config{
		Assets:   ctx.Assets,
		AssetDir: ctx.AssetDir,
		Options:  ctx.Vector,
		Logger:   ctx.Logger,
		Taken:    taken,
	})
	for p, data := range res.Assets {
		ctx.GeneratedAssets[p] = data
	}
	ctx.ConsolidatedImports = append(ctx.ConsolidatedImports, res.Imports...)
	if res.Aborted > 0 {
		ctx.Warn("vector_consolidate", "%d vector group(s) had no usable member assets", res.Aborted)
	}
	stats.Add("groups", res.Groups)
	stats.Add("members", res.Members)
	stats.Add("skipped_members", res.Skipped)
	stats.Add("aborted_groups", res.Aborted)
	ctx.Count("generated_assets", len(res.Assets))
	return stats, nil
}
