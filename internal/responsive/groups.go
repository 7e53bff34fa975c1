package responsive

import (
	"regexp"
	"slices"
	"strings"
)

// Group is a family of mutually exclusive tokens. Static groups list their
// members; dimension groups match by prefix.
type Group struct {
	Name string
	// Members of a static group.
	Members []string
	// Prefixes of a dimension group. A member is either a bare prefix or
	// the prefix followed by "-".
	Prefixes []string
	// Reset is emitted when the group disappears at a smaller breakpoint.
	// Empty means the group has no neutral value.
	Reset     string
	Dimension bool
	// Carried groups are flex item factors. The merge lets them carry over
	// to smaller breakpoints; dependent resets clear them where invalid.
	Carried bool
}

// Match reports whether tok belongs to g. Variant tokens never match.
func (g Group) Match(tok string) bool {
	if strings.Contains(tok, ":") {
		return false
	}
	if !g.Dimension {
		return slices.Contains(g.Members, tok)
	}
	for _, p := range g.Prefixes {
		if tok == p || strings.HasPrefix(tok, p+"-") {
			return true
		}
	}
	return false
}

// Value joins the members of g present in tokens, in token order.
func (g Group) Value(tokens []string) string {
	var parts []string
	for _, tok := range tokens {
		if g.Match(tok) {
			parts = append(parts, tok)
		}
	}
	return strings.Join(parts, " ")
}

// Group names referenced by the reset rules.
const (
	GroupFlexDirection = "flex-direction"
	GroupAlignItems    = "align-items"
	GroupJustify       = "justify-content"
	GroupAlignContent  = "align-content"
	GroupDisplay       = "display"
	GroupPosition      = "position"
	GroupWidth         = "width"
	GroupMinWidth      = "min-width"
	GroupMaxWidth      = "max-width"
	GroupHeight        = "height"
	GroupMinHeight     = "min-height"
	GroupMaxHeight     = "max-height"
	GroupSize          = "size"
	GroupBasis         = "flex-basis"
	GroupGrow          = "flex-grow"
	GroupShrink        = "flex-shrink"
)

// Groups is the conflict catalogue, static groups first.
var Groups = []Group{
	{Name: GroupFlexDirection, Members: []string{"flex-row", "flex-row-reverse", "flex-col", "flex-col-reverse"}, Reset: "flex-row"},
	{Name: GroupAlignItems, Members: []string{"items-start", "items-end", "items-center", "items-baseline", "items-stretch"}, Reset: "items-stretch"},
	{Name: GroupJustify, Members: []string{
		"justify-start", "justify-end", "justify-center", "justify-between",
		"justify-around", "justify-evenly", "justify-stretch", "justify-normal",
	}, Reset: "justify-normal"},
	{Name: GroupAlignContent, Members: []string{
		"content-start", "content-end", "content-center", "content-between",
		"content-around", "content-evenly", "content-stretch", "content-baseline", "content-normal",
	}, Reset: "content-normal"},
	{Name: GroupDisplay, Members: []string{
		"block", "inline-block", "inline", "flex", "inline-flex", "grid", "inline-grid",
		"table", "contents", "flow-root", "hidden",
	}},
	{Name: GroupPosition, Members: []string{"static", "relative", "absolute", "fixed", "sticky"}, Reset: "static"},
	{Name: GroupWidth, Prefixes: []string{"w"}, Reset: "w-auto", Dimension: true},
	{Name: GroupMinWidth, Prefixes: []string{"min-w"}, Reset: "min-w-0", Dimension: true},
	{Name: GroupMaxWidth, Prefixes: []string{"max-w"}, Reset: "max-w-none", Dimension: true},
	{Name: GroupHeight, Prefixes: []string{"h"}, Reset: "h-auto", Dimension: true},
	{Name: GroupMinHeight, Prefixes: []string{"min-h"}, Reset: "min-h-0", Dimension: true},
	{Name: GroupMaxHeight, Prefixes: []string{"max-h"}, Reset: "max-h-none", Dimension: true},
	{Name: GroupSize, Prefixes: []string{"size"}, Dimension: true},
	{Name: GroupBasis, Prefixes: []string{"basis"}, Reset: "basis-auto", Dimension: true, Carried: true},
	{Name: GroupGrow, Prefixes: []string{"grow", "flex-grow"}, Reset: "grow-0", Dimension: true, Carried: true},
	{Name: GroupShrink, Prefixes: []string{"shrink", "flex-shrink"}, Reset: "shrink", Dimension: true, Carried: true},
}

// GroupOf returns the catalogue group tok belongs to.
func GroupOf(tok string) (Group, bool) {
	for _, g := range Groups {
		if g.Match(tok) {
			return g, true
		}
	}
	return Group{}, false
}

func groupByName(name string) Group {
	for _, g := range Groups {
		if g.Name == name {
			return g
		}
	}
	return Group{}
}

// IsDimensional reports whether tok sets a size or flex sizing property.
func IsDimensional(tok string) bool {
	g, ok := GroupOf(tok)
	return ok && g.Dimension
}

// isColumn reports whether a flex-direction token lays out on the block axis.
func isColumn(tok string) bool {
	return strings.HasPrefix(tok, "flex-col")
}

var fixedWidth = regexp.MustCompile(`^w-(\d+(?:\.\d+)?|px|\[\d+(?:\.\d+)?(?:px|rem|em)\])$`)

// isFixedWidth reports whether tok pins an element to a fixed width.
func isFixedWidth(tok string) bool { return fixedWidth.MatchString(tok) }

// displayOf returns the display token of tokens, defaulting to block.
func displayOf(tokens []string) string {
	g := groupByName(GroupDisplay)
	for _, tok := range tokens {
		if g.Match(tok) && tok != "hidden" {
			return tok
		}
	}
	return "block"
}
