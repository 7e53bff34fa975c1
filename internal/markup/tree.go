// Package markup holds the in-memory tree for exported design markup.
//
// Nodes live in an arena owned by Tree and are addressed by NodeID. Parent
// links are plain indices, so passes can walk upward without owning
// references, and replacing or detaching a node never invalidates other IDs.
// A *Node returned by Tree.Node is only valid until the next node is created.
package markup

import "slices"

// NodeID addresses a node inside its owning Tree.
type NodeID int

// NoNode marks an absent parent or a missing correspondence.
const NoNode NodeID = -1

// NodeKind discriminates the three node shapes.
type NodeKind uint8

const (
	ElementNode NodeKind = iota + 1
	TextNode
	ExpressionNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case ExpressionNode:
		return "expression"
	default:
		return "unknown"
	}
}

// Node is one arena slot. Text holds literal content for text nodes and
// the expression source for expression nodes.
type Node struct {
	Kind     NodeKind
	Tag      string
	Attrs    Attributes
	Text     string
	Parent   NodeID
	Children []NodeID
}

// ImportBinding ties a local identifier to an asset path.
type ImportBinding struct {
	LocalName string
	AssetPath string
}

// PropKind is the declared type of a component prop.
type PropKind string

const (
	PropString PropKind = "string"
	PropNumber PropKind = "number"
	PropImage  PropKind = "image"
)

// Prop is one declared component input.
type Prop struct {
	Name    string
	Kind    PropKind
	Default string
}

// Component is a named top-level definition rooted at one element.
type Component struct {
	Name     string
	Exported bool
	Root     NodeID
	Props    []Prop
}

// HasProp reports whether a prop with the given name is declared.
func (c *Component) HasProp(name string) bool {
	for _, p := range c.Props {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Tree is the parsed document: nodes, import bindings and components.
type Tree struct {
	nodes      []Node
	Imports    []ImportBinding
	Components []*Component
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// Len reports the number of arena slots, attached or not.
func (t *Tree) Len() int { return len(t.nodes) }

// Valid reports whether id addresses a slot in this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns the slot for id. The pointer is invalidated by node creation.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

func (t *Tree) add(n Node) NodeID {
	n.Parent = NoNode
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// NewElement creates a detached element.
func (t *Tree) NewElement(tag string) NodeID {
	return t.add(Node{Kind: ElementNode, Tag: tag})
}

// NewText creates a detached text node.
func (t *Tree) NewText(s string) NodeID {
	return t.add(Node{Kind: TextNode, Text: s})
}

// NewExpression creates a detached expression node.
func (t *Tree) NewExpression(expr string) NodeID {
	return t.add(Node{Kind: ExpressionNode, Text: expr})
}

// Kind returns the node kind of id.
func (t *Tree) Kind(id NodeID) NodeKind { return t.nodes[id].Kind }

// Tag returns the element tag of id, or "" for non-elements.
func (t *Tree) Tag(id NodeID) string { return t.nodes[id].Tag }

// IsElement reports whether id is an element.
func (t *Tree) IsElement(id NodeID) bool {
	return t.Valid(id) && t.nodes[id].Kind == ElementNode
}

// Parent returns the parent of id or NoNode.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].Parent }

// Children returns a copy of the child list of id.
func (t *Tree) Children(id NodeID) []NodeID {
	return slices.Clone(t.nodes[id].Children)
}

// ElementChildren returns the element children of id in order.
func (t *Tree) ElementChildren(id NodeID) []NodeID {
	var out []NodeID
	for _, c := range t.nodes[id].Children {
		if t.nodes[c].Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// AppendChild attaches child as the last child of parent, detaching it
// from any previous position first.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.Detach(child)
	t.nodes[child].Parent = parent
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
}

// Detach unlinks id from its parent. Component roots are not affected.
func (t *Tree) Detach(id NodeID) {
	p := t.nodes[id].Parent
	if p == NoNode {
		return
	}
	kids := t.nodes[p].Children
	if i := slices.Index(kids, id); i >= 0 {
		t.nodes[p].Children = slices.Delete(kids, i, i+1)
	}
	t.nodes[id].Parent = NoNode
}

// Replace puts repl where old was, in its parent or as a component root.
// old ends up detached.
func (t *Tree) Replace(old, repl NodeID) {
	if old == repl {
		return
	}
	t.Detach(repl)
	for _, c := range t.Components {
		if c.Root == old {
			c.Root = repl
		}
	}
	p := t.nodes[old].Parent
	if p == NoNode {
		return
	}
	kids := t.nodes[p].Children
	if i := slices.Index(kids, old); i >= 0 {
		kids[i] = repl
	}
	t.nodes[repl].Parent = p
	t.nodes[old].Parent = NoNode
}

// SetChildren replaces the child list of id.
func (t *Tree) SetChildren(id NodeID, kids []NodeID) {
	for _, c := range t.nodes[id].Children {
		t.nodes[c].Parent = NoNode
	}
	t.nodes[id].Children = nil
	for _, c := range kids {
		t.AppendChild(id, c)
	}
}

// Ancestors returns the parent chain of id, nearest first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.nodes[id].Parent; p != NoNode; p = t.nodes[p].Parent {
		out = append(out, p)
	}
	return out
}

// Walk visits root and its descendants in pre-order. Returning false from
// fn skips the children of the visited node. Child lists are read at visit
// time, so fn may rewrite the subtree below the current node.
func (t *Tree) Walk(root NodeID, fn func(id NodeID, depth int) bool) {
	t.walk(root, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range t.Children(id) {
		t.walk(c, depth+1, fn)
	}
}

// Elements returns every element reachable from any component root, in
// pre-order, exported component first.
func (t *Tree) Elements() []NodeID {
	var out []NodeID
	for _, c := range t.ordered() {
		t.Walk(c.Root, func(id NodeID, _ int) bool {
			if t.nodes[id].Kind == ElementNode {
				out = append(out, id)
			}
			return true
		})
	}
	return out
}

// Descendants returns every node below root in pre-order.
func (t *Tree) Descendants(root NodeID) []NodeID {
	var out []NodeID
	t.Walk(root, func(id NodeID, _ int) bool {
		if id != root {
			out = append(out, id)
		}
		return true
	})
	return out
}

// Exported returns the exported component, falling back to the last one.
func (t *Tree) Exported() *Component {
	for _, c := range t.Components {
		if c.Exported {
			return c
		}
	}
	if n := len(t.Components); n > 0 {
		return t.Components[n-1]
	}
	return nil
}

func (t *Tree) ordered() []*Component {
	exp := t.Exported()
	if exp == nil {
		return nil
	}
	out := []*Component{exp}
	for _, c := range t.Components {
		if c != exp {
			out = append(out, c)
		}
	}
	return out
}

// Attached reports whether id is reachable from a component root.
func (t *Tree) Attached(id NodeID) bool {
	top := id
	for p := t.nodes[top].Parent; p != NoNode; p = t.nodes[p].Parent {
		top = p
	}
	for _, c := range t.Components {
		if c.Root == top {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Node IDs are preserved.
func (t *Tree) Clone() *Tree {
	out := &Tree{
		nodes:   make([]Node, len(t.nodes)),
		Imports: slices.Clone(t.Imports),
	}
	for i, n := range t.nodes {
		n.Children = slices.Clone(n.Children)
		n.Attrs = n.Attrs.Clone()
		out.nodes[i] = n
	}
	for _, c := range t.Components {
		cc := *c
		cc.Props = slices.Clone(c.Props)
		out.Components = append(out.Components, &cc)
	}
	return out
}
