package cssvars

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/designpipe/internal/cssreg"
)

// classAttr matches class attributes only; the leading whitespace keeps
// data-class and similar names out.
var classAttr = regexp.MustCompile(`(\s)(class|className)=("([^"]*)"|'([^']*)')`)

// RewriteText applies Resolve to every class attribute literal in rendered
// markup. It catches tokens that reached the output without passing through
// the tree pass. It returns the rewritten text and the number of tokens
// changed.
func RewriteText(src string, reg *cssreg.Registry) (string, int) {
	changed := 0
	out := classAttr.ReplaceAllStringFunc(src, func(m string) string {
		sub := classAttr.FindStringSubmatch(m)
		lead, key, quoted := sub[1], sub[2], sub[3]
		value := quoted[1 : len(quoted)-1]
		if !strings.Contains(value, "var(") {
			return m
		}
		tokens, counts := ResolveTokens(strings.Fields(html.UnescapeString(value)), reg)
		n := counts.Resolved + counts.Degraded
		if n == 0 {
			return m
		}
		changed += n
		return lead + key + `="` + html.EscapeString(strings.Join(tokens, " ")) + `"`
	})
	return out, changed
}
