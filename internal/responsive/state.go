package responsive

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/util/sets"
)

// element tracks one desktop element through the merge. Index 0 is the
// desktop breakpoint, so tokens[Desktop] is the unprefixed base.
type element struct {
	node    markup.NodeID
	name    string
	tokens  [3][]string
	matched [3]bool
	level   [3]MatchLevel
	// eff is the class state in effect at each breakpoint once the
	// overrides emitted so far are applied.
	eff [3][]string
	// emitted holds unprefixed override tokens per breakpoint.
	emitted   [3][]string
	identical sets.Set[string]
	flipped   [3]bool
	extra     []string
}

// emit records an override at bp and applies it to the effective state.
func (e *element) emit(bp Breakpoint, tok string) bool {
	if slices.Contains(e.emitted[bp], tok) {
		return false
	}
	e.emitted[bp] = append(e.emitted[bp], tok)
	e.eff[bp] = applyToken(e.eff[bp], tok)
	return true
}

// classes renders the merged class list.
func (e *element) classes(p Prefixes) []string {
	out := slices.Clone(e.tokens[Desktop])
	for _, bp := range []Breakpoint{Tablet, Mobile} {
		for _, tok := range e.emitted[bp] {
			out = append(out, prefixed(p.For(bp), tok))
		}
	}
	return append(out, e.extra...)
}

// applyToken adds tok to state, dropping the members of its group.
func applyToken(state []string, tok string) []string {
	if g, ok := GroupOf(tok); ok {
		state = slices.DeleteFunc(slices.Clone(state), g.Match)
	} else if slices.Contains(state, tok) {
		return state
	}
	return append(state, tok)
}

// family is a loose property key for tokens outside the group catalogue.
// Distinct utilities may share a family; that only costs a redundant
// override, never a missing one.
func family(tok string) string {
	tok = strings.TrimPrefix(tok, "-")
	head, _, _ := strings.Cut(tok, "-")
	switch head {
	case "px", "py", "pt", "pr", "pb", "pl", "ps", "pe":
		return "p"
	case "mx", "my", "mt", "mr", "mb", "ml", "ms", "me":
		return "m"
	}
	return head
}

// shadowed reports whether an override in emitted may hide tok, which the
// previous state still lists.
func shadowed(tok string, emitted []string) bool {
	if _, grouped := GroupOf(tok); grouped || slices.Contains(emitted, tok) {
		return false
	}
	f := family(tok)
	for _, e := range emitted {
		if family(e) == f {
			return true
		}
	}
	return false
}
