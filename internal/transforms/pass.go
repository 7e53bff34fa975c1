// Package transforms holds the single-tree rewrite pipeline: the shared run
// context, the pass catalog and the runner that orders and executes passes.
package transforms

import (
	"maps"
	"slices"

	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// Pass is one tree rewrite step. Passes run in ascending Priority order and
// must tolerate any earlier pass having been disabled.
type Pass interface {
	// Name returns the unique identifier for this pass (lowercase snake_case)
	Name() string

	// Priority orders the catalog; lower runs first
	Priority() int

	// Dependencies declares ordering constraints against other passes
	Dependencies() Dependencies

	// Apply rewrites t in place. Stats may be partial when an error is returned.
	Apply(t *markup.Tree, ctx *Context) (Stats, error)
}

// Dependencies declares explicit ordering constraints. They are checked
// against priorities, never used to reorder.
type Dependencies struct {
	// MustRunAfter lists passes that must complete before this one.
	MustRunAfter []string

	// MustRunBefore lists passes that must run after this one.
	MustRunBefore []string
}

// Stats counts what a pass changed, keyed by a short snake_case label.
type Stats map[string]int

// Add increments key by n, creating the map entry on first use.
func (s Stats) Add(key string, n int) {
	if n == 0 {
		return
	}
	s[key] += n
}

// Total sums all counters.
func (s Stats) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Keys returns the counter labels in sorted order.
func (s Stats) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}
