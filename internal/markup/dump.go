package markup

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Dump renders an indented outline of the tree for inspection.
func Dump(t *Tree) string {
	root := treeprint.NewWithRoot("document")
	if len(t.Imports) > 0 {
		imports := root.AddBranch("imports")
		for _, imp := range t.Imports {
			imports.AddMetaNode(imp.LocalName, imp.AssetPath)
		}
	}
	for _, c := range t.Components {
		label := "component " + c.Name
		if c.Exported {
			label += " (exported)"
		}
		branch := root.AddBranch(label)
		for _, p := range c.Props {
			branch.AddMetaNode("prop", fmt.Sprintf("%s: %s = %q", p.Name, p.Kind, p.Default))
		}
		dumpNode(branch, t, c.Root)
	}
	return root.String()
}

func dumpNode(parent treeprint.Tree, t *Tree, id NodeID) {
	n := t.Node(id)
	switch n.Kind {
	case TextNode:
		parent.AddMetaNode("text", fmt.Sprintf("%q", n.Text))
		return
	case ExpressionNode:
		parent.AddMetaNode("expr", n.Text)
		return
	}
	label := "<" + n.Tag + ">"
	if name := t.Name(id); name != "" {
		label += " " + name
	}
	if cls := t.Classes(id); len(cls) > 0 {
		label += " [" + strings.Join(cls, " ") + "]"
	}
	if len(n.Children) == 0 {
		parent.AddMetaNode(int(id), label)
		return
	}
	branch := parent.AddMetaBranch(int(id), label)
	for _, c := range t.Children(id) {
		dumpNode(branch, t, c)
	}
}
