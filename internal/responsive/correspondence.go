package responsive

import (
	"strconv"

	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/util/sets"
)

// DefaultSimilarityThreshold is the minimum class similarity for a
// positional match.
const DefaultSimilarityThreshold = 0.8

// MatchLevel names the strategy that paired two elements.
type MatchLevel int

const (
	MatchNone MatchLevel = iota
	MatchRoot
	MatchNodeID
	MatchName
	MatchPosition
)

func (l MatchLevel) String() string {
	switch l {
	case MatchRoot:
		return "root"
	case MatchNodeID:
		return "node_id"
	case MatchName:
		return "name"
	case MatchPosition:
		return "position"
	default:
		return "none"
	}
}

// Match is the counterpart of a desktop element in a smaller tree.
type Match struct {
	Node  markup.NodeID
	Level MatchLevel
	// Score is the class similarity of a positional match.
	Score float64
}

// Correspondence maps desktop elements to their counterparts in one other
// tree. Each counterpart is used at most once.
type Correspondence struct {
	byDesktop map[markup.NodeID]Match
	used      map[markup.NodeID]markup.NodeID
}

// Lookup returns the counterpart of a desktop element.
func (c *Correspondence) Lookup(id markup.NodeID) (Match, bool) {
	m, ok := c.byDesktop[id]
	return m, ok
}

// Len reports the number of matched elements.
func (c *Correspondence) Len() int { return len(c.byDesktop) }

// Levels counts matches per strategy.
func (c *Correspondence) Levels() map[MatchLevel]int {
	out := map[MatchLevel]int{}
	for _, m := range c.byDesktop {
		out[m.Level]++
	}
	return out
}

func (c *Correspondence) pair(d, o markup.NodeID, level MatchLevel, score float64) {
	c.byDesktop[d] = Match{Node: o, Level: level, Score: score}
	c.used[o] = d
}

func (c *Correspondence) paired(d, o markup.NodeID) bool {
	_, dOK := c.byDesktop[d]
	_, oOK := c.used[o]
	return dOK || oOK
}

// Correspond pairs the elements of desktop with those of other. Strategies
// run as separate rounds so a stronger match is never taken by a weaker one:
// component roots, node id, name plus tag, then position plus class
// similarity of at least threshold.
func Correspond(desktop, other *markup.Tree, threshold float64) *Correspondence {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	c := &Correspondence{
		byDesktop: map[markup.NodeID]Match{},
		used:      map[markup.NodeID]markup.NodeID{},
	}
	dElems := desktop.Elements()
	oElems := other.Elements()

	matchRoots(c, desktop, other)

	byID := map[string][]markup.NodeID{}
	for _, o := range oElems {
		if id := other.SourceID(o); id != "" {
			byID[id] = append(byID[id], o)
		}
	}
	for _, d := range dElems {
		if id := desktop.SourceID(d); id != "" {
			takeFirst(c, d, byID[id], MatchNodeID)
		}
	}

	byName := map[string][]markup.NodeID{}
	for _, o := range oElems {
		if name := other.Name(o); name != "" {
			key := name + "\x00" + other.Tag(o)
			byName[key] = append(byName[key], o)
		}
	}
	for _, d := range dElems {
		if name := desktop.Name(d); name != "" {
			takeFirst(c, d, byName[name+"\x00"+desktop.Tag(d)], MatchName)
		}
	}

	byPos := map[string][]markup.NodeID{}
	for _, o := range oElems {
		key := positionKey(other, o)
		byPos[key] = append(byPos[key], o)
	}
	for _, d := range dElems {
		if _, done := c.byDesktop[d]; done {
			continue
		}
		for _, o := range byPos[positionKey(desktop, d)] {
			if c.paired(d, o) || desktop.Tag(d) != other.Tag(o) {
				continue
			}
			if score := Similarity(desktop.Classes(d), other.Classes(o)); score >= threshold {
				c.pair(d, o, MatchPosition, score)
				break
			}
		}
	}
	return c
}

func matchRoots(c *Correspondence, desktop, other *markup.Tree) {
	dExp, oExp := desktop.Exported(), other.Exported()
	if dExp == nil || oExp == nil {
		return
	}
	c.pair(dExp.Root, oExp.Root, MatchRoot, 1)
	for _, dc := range desktop.Components {
		if dc == dExp {
			continue
		}
		for _, oc := range other.Components {
			if oc != oExp && oc.Name == dc.Name && !c.paired(dc.Root, oc.Root) {
				c.pair(dc.Root, oc.Root, MatchRoot, 1)
				break
			}
		}
	}
}

func takeFirst(c *Correspondence, d markup.NodeID, candidates []markup.NodeID, level MatchLevel) {
	for _, o := range candidates {
		if !c.paired(d, o) {
			c.pair(d, o, level, 1)
			return
		}
	}
}

// positionKey is the nearest named ancestor plus the element's index among
// its parent's element children.
func positionKey(t *markup.Tree, id markup.NodeID) string {
	anchor := ""
	for _, a := range t.Ancestors(id) {
		if name := t.Name(a); name != "" {
			anchor = name
			break
		}
	}
	idx := -1
	if p := t.Parent(id); p != markup.NoNode {
		for i, sib := range t.ElementChildren(p) {
			if sib == id {
				idx = i
				break
			}
		}
	}
	return anchor + "/" + strconv.Itoa(idx)
}

// Similarity is the larger of the Jaccard index over all tokens and over
// the non-dimensional tokens only. Two empty lists are identical.
func Similarity(a, b []string) float64 {
	full := jaccard(sets.New(a...), sets.New(b...))
	var na, nb []string
	for _, tok := range a {
		if !IsDimensional(tok) {
			na = append(na, tok)
		}
	}
	for _, tok := range b {
		if !IsDimensional(tok) {
			nb = append(nb, tok)
		}
	}
	return max(full, jaccard(sets.New(na...), sets.New(nb...)))
}

func jaccard(a, b sets.Set[string]) float64 {
	union := a.Len() + b.Len() - a.Intersect(b).Len()
	if union == 0 {
		return 1
	}
	return float64(a.Intersect(b).Len()) / float64(union)
}
