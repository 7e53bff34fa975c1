package transforms

import (
	"slices"

	"git.home.luguber.info/inful/designpipe/internal/cssvars"
	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// cssVariables rewrites variable-reference tokens into registry classes.
type cssVariables struct{}

func (cssVariables) Name() string  { return "css_variables" }
func (cssVariables) Priority() int { return 80 }
func (cssVariables) Dependencies() Dependencies {
	return Dependencies{
		MustRunAfter:  []string{"class_cleanup"},
		MustRunBefore: []string{"utility_optimize"},
	}
}

func (cssVariables) Apply(t *markup.Tree, ctx *Context) (Stats, error) {
	stats := Stats{}
	for _, id := range t.Elements() {
		tokens := t.Classes(id)
		out, counts := cssvars.ResolveTokens(tokens, ctx.Classes)
		if !slices.Equal(out, tokens) {
			t.SetClasses(id, out)
		}
		stats.Add("resolved", counts.Resolved)
		stats.Add("degraded", counts.Degraded)
		stats.Add("conflicts", counts.Conflicts)
	}
	if n := stats["conflicts"]; n > 0 {
		ctx.Warn("css_variables", "%d class name(s) resolved to differing definitions, first kept", n)
	}
	return stats, nil
}
