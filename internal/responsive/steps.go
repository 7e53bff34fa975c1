package responsive

import (
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/util/sets"
)

// state is shared by the sub-passes of one merge.
type state struct {
	trees    [3]*markup.Tree
	opts     Options
	prefixes Prefixes
	logger   *slog.Logger

	corr     [3]*Correspondence
	elements []*element
	byNode   map[markup.NodeID]*element

	hideMobile  []markup.NodeID
	hideTablet  []markup.NodeID
	desktopOnly []markup.NodeID
	conflicts   []Conflict
}

type step struct {
	name     string
	priority int
	run      func(s *state, stats map[string]int)
}

// Sub-pass names.
const (
	StepCorrespondence = "correspondence"
	StepMissing        = "missing_elements"
	StepIdentical      = "identical_classes"
	StepConflicts      = "conflicts"
	StepMerge          = "desktop_first_merge"
	StepReset          = "dependent_reset"
	StepVisibility     = "visibility"
)

func steps() []step {
	out := []step{
		{StepCorrespondence, 10, correspondenceStep},
		{StepMissing, 20, missingStep},
		{StepIdentical, 30, identicalStep},
		{StepConflicts, 40, conflictsStep},
		{StepMerge, 50, mergeStep},
		{StepReset, 60, resetStep},
		{StepVisibility, 70, visibilityStep},
	}
	slices.SortStableFunc(out, func(a, b step) int { return a.priority - b.priority })
	return out
}

// StepNames lists the sub-passes in execution order.
func StepNames() []string {
	var names []string
	for _, st := range steps() {
		names = append(names, st.name)
	}
	return names
}

func correspondenceStep(s *state, stats map[string]int) {
	d := s.trees[Desktop]
	for _, bp := range []Breakpoint{Tablet, Mobile} {
		s.corr[bp] = Correspond(d, s.trees[bp], s.opts.SimilarityThreshold)
		for level, n := range s.corr[bp].Levels() {
			stats[bp.String()+"_"+level.String()] += n
		}
	}
	for _, id := range d.Elements() {
		e := &element{node: id, name: d.Name(id)}
		e.tokens[Desktop] = d.Classes(id)
		e.matched[Desktop] = true
		for _, bp := range []Breakpoint{Tablet, Mobile} {
			if m, ok := s.corr[bp].Lookup(id); ok {
				e.matched[bp] = true
				e.level[bp] = m.Level
				e.tokens[bp] = s.trees[bp].Classes(m.Node)
			} else {
				stats[bp.String()+"_unmatched"]++
			}
		}
		s.elements = append(s.elements, e)
		s.byNode[id] = e
	}
}

// missingStep builds the hide sets from unique desktop names. An element
// counts as present in a smaller tree when its name occurs there or it was
// paired by node id. A position match alone does not make it present. A
// hidden element and its descendants lose their match at that breakpoint,
// so no overrides are emitted for them. Descendants of a hidden element are
// not listed again.
func missingStep(s *state, stats map[string]int) {
	var names [3]map[string]int
	for bp, t := range s.trees {
		names[bp] = map[string]int{}
		for _, id := range t.Elements() {
			if n := t.Name(id); n != "" {
				names[bp][n]++
			}
		}
	}
	hidden := sets.New[markup.NodeID]()
	d := s.trees[Desktop]
	for _, e := range s.elements {
		if e.name == "" || names[Desktop][e.name] != 1 || hasHiddenAncestor(d, e.node, hidden) {
			continue
		}
		inTablet := e.presentIn(Tablet, names[Tablet])
		inMobile := e.presentIn(Mobile, names[Mobile])
		switch {
		case inTablet && !inMobile:
			s.hideMobile = append(s.hideMobile, e.node)
			s.unmatchSubtree(e.node, Mobile)
		case !inTablet && inMobile:
			s.hideTablet = append(s.hideTablet, e.node)
			s.unmatchSubtree(e.node, Tablet)
		case !inTablet && !inMobile:
			s.desktopOnly = append(s.desktopOnly, e.node)
			s.unmatchSubtree(e.node, Tablet, Mobile)
		default:
			continue
		}
		hidden.Add(e.node)
	}
	stats["hide_mobile"] = len(s.hideMobile)
	stats["hide_tablet"] = len(s.hideTablet)
	stats["desktop_only"] = len(s.desktopOnly)
}

func (e *element) presentIn(bp Breakpoint, names map[string]int) bool {
	if names[e.name] > 0 {
		return true
	}
	return e.matched[bp] && (e.level[bp] == MatchRoot || e.level[bp] == MatchNodeID)
}

func (s *state) unmatchSubtree(id markup.NodeID, bps ...Breakpoint) {
	for _, n := range append([]markup.NodeID{id}, s.trees[Desktop].Descendants(id)...) {
		e := s.byNode[n]
		if e == nil {
			continue
		}
		for _, bp := range bps {
			e.matched[bp] = false
			e.level[bp] = MatchNone
			e.tokens[bp] = nil
		}
	}
}

func hasHiddenAncestor(t *markup.Tree, id markup.NodeID, hidden sets.Set[markup.NodeID]) bool {
	for _, a := range t.Ancestors(id) {
		if hidden.Has(a) {
			return true
		}
	}
	return false
}

func identicalStep(s *state, stats map[string]int) {
	for _, e := range s.elements {
		if !e.matched[Tablet] || !e.matched[Mobile] {
			continue
		}
		e.identical = sets.New(e.tokens[Desktop]...).
			Intersect(sets.New(e.tokens[Tablet]...)).
			Intersect(sets.New(e.tokens[Mobile]...))
		stats["elements"]++
		stats["tokens"] += e.identical.Len()
	}
}

// conflictsStep compares each catalogue group across the breakpoints. A
// breakpoint without a counterpart inherits the next larger one.
func conflictsStep(s *state, stats map[string]int) {
	d := s.trees[Desktop]
	for _, e := range s.elements {
		if !e.matched[Tablet] && !e.matched[Mobile] {
			continue
		}
		for _, g := range Groups {
			var v [3]string
			v[Desktop] = g.Value(e.tokens[Desktop])
			v[Tablet], v[Mobile] = v[Desktop], v[Desktop]
			if e.matched[Tablet] {
				v[Tablet] = g.Value(e.tokens[Tablet])
				v[Mobile] = v[Tablet]
			}
			if e.matched[Mobile] {
				v[Mobile] = g.Value(e.tokens[Mobile])
			}
			if v[Desktop] == v[Tablet] && v[Tablet] == v[Mobile] {
				continue
			}
			s.conflicts = append(s.conflicts, Conflict{
				Node:    e.node,
				Element: d.Name(e.node),
				Group:   g.Name,
				Desktop: v[Desktop],
				Tablet:  v[Tablet],
				Mobile:  v[Mobile],
			})
			stats[g.Name]++
		}
	}
	stats["total"] = len(s.conflicts)
}

// mergeStep emits, per smaller breakpoint, the tokens not already in
// effect, and resets for groups the breakpoint no longer sets. Dropped
// min/max constraints are cancelled here, so a tablet-only constraint never
// reaches mobile.
func mergeStep(s *state, stats map[string]int) {
	for _, e := range s.elements {
		e.eff[Desktop] = slices.Clone(e.tokens[Desktop])
		for _, bp := range []Breakpoint{Tablet, Mobile} {
			prev := e.eff[bp-1]
			e.eff[bp] = slices.Clone(prev)
			if !e.matched[bp] {
				continue
			}
			own := e.tokens[bp]
			for _, tok := range own {
				if e.identical.Has(tok) {
					continue
				}
				if slices.Contains(e.eff[bp], tok) && !(bp == Mobile && shadowed(tok, e.emitted[Tablet])) {
					continue
				}
				if e.emit(bp, tok) {
					stats[bp.String()+"_overrides"]++
				}
			}
			for _, g := range Groups {
				if g.Reset == "" || g.Carried || g.Value(own) != "" {
					continue
				}
				if cur := g.Value(e.eff[bp]); cur != "" && cur != g.Reset {
					e.emit(bp, g.Reset)
					stats[bp.String()+"_resets"]++
				}
			}
			e.flipped[bp] = flipped(prev, e.eff[bp])
		}
	}
}

// flipped reports whether the main axis changed between two states.
func flipped(before, after []string) bool {
	g := groupByName(GroupFlexDirection)
	return isColumn(g.Value(before)) != isColumn(g.Value(after))
}

// resetStep resets axis-dependent sizing after a flex-direction flip, on
// the element and its direct children, and grow/basis after a fixed-width
// override. Only tokens carried over from a larger breakpoint are reset.
func resetStep(s *state, stats map[string]int) {
	d := s.trees[Desktop]
	for _, bp := range []Breakpoint{Tablet, Mobile} {
		for _, e := range s.elements {
			if !e.matched[bp] {
				continue
			}
			if e.flipped[bp] {
				stats[bp.String()+"_flips"]++
				targets := []*element{e}
				for _, c := range d.ElementChildren(e.node) {
					if ce := s.byNode[c]; ce != nil && ce.matched[bp] {
						targets = append(targets, ce)
					}
				}
				for _, x := range targets {
					stats[bp.String()+"_axis_resets"] += s.resetCarried(x, bp, axisReset)
				}
			}
			if slices.ContainsFunc(e.emitted[bp], isFixedWidth) {
				stats[bp.String()+"_width_resets"] += s.resetCarried(e, bp, widthReset)
			}
		}
	}
}

// axisReset maps a carried token to its reset after an axis flip. A zero
// basis computed for one axis collapses the item on the other.
func axisReset(tok string) string {
	switch g, _ := GroupOf(tok); g.Name {
	case GroupBasis:
		if tok == "basis-0" || tok == "basis-px" {
			return "basis-auto"
		}
	case GroupGrow:
		if tok != "grow-0" && tok != "flex-grow-0" {
			return "grow-0"
		}
	}
	return ""
}

// widthReset maps a carried grow or basis token to its reset. Shrink is
// left alone so horizontal scrollers keep their fixed items.
func widthReset(tok string) string {
	switch g, _ := GroupOf(tok); g.Name {
	case GroupBasis:
		if tok != "basis-auto" {
			return "basis-auto"
		}
	case GroupGrow:
		if tok != "grow-0" && tok != "flex-grow-0" {
			return "grow-0"
		}
	}
	return ""
}

// resetCarried emits resets at bp for tokens in effect there that the
// breakpoint's own tree does not state. A tablet reset is reconciled into
// the mobile state: mobile either re-asserts the token or inherits the
// reset.
func (s *state) resetCarried(x *element, bp Breakpoint, rule func(string) string) int {
	n := 0
	for _, tok := range slices.Clone(x.eff[bp]) {
		if slices.Contains(x.tokens[bp], tok) {
			continue
		}
		reset := rule(tok)
		if reset == "" || !x.emit(bp, reset) {
			continue
		}
		n++
		if bp != Tablet || !x.matched[Mobile] || !slices.Contains(x.eff[Mobile], tok) {
			continue
		}
		if slices.Contains(x.tokens[Mobile], tok) {
			x.emit(Mobile, tok)
		} else {
			x.eff[Mobile] = applyToken(x.eff[Mobile], reset)
		}
	}
	return n
}

func visibilityStep(s *state, stats map[string]int) {
	p := s.prefixes
	for _, id := range s.hideMobile {
		e := s.byNode[id]
		e.extra = append(e.extra, prefixed(p.Mobile, "hidden"))
		stats["mobile_hidden"]++
	}
	for _, id := range s.hideTablet {
		e := s.byNode[id]
		e.extra = append(e.extra,
			prefixed(minVariant(p.Mobile)+":"+p.Tablet, "hidden"),
			prefixed(minVariant(p.Tablet), displayOf(e.tokens[Desktop])))
		stats["tablet_hidden"]++
	}
	for _, id := range s.desktopOnly {
		e := s.byNode[id]
		e.extra = append(e.extra, prefixed(p.Tablet, "hidden"))
		stats["desktop_only"]++
	}
}
