package styledtree

import (
	"fmt"

	"github.com/xlab/treeprint"

	"stylo/treewalk"
)

// Dump renders a styled tree as an indented text tree, for debugging and
// for the output of the stylo resolve command.
func Dump(root *treewalk.Node[*StyNode]) string {
	if root == nil {
		return ""
	}
	tp := treeprint.New()
	addBranch(tp, root)
	return tp.String()
}

func addBranch(tp treeprint.Tree, n *treewalk.Node[*StyNode]) {
	sn := Of(n)
	label := "?"
	if sn != nil && sn.element != nil {
		label = sn.element.TagName()
		if id := sn.element.ID(); id != "" {
			label += "#" + id
		}
	}
	if sn != nil && sn.bundle != nil {
		label = fmt.Sprintf("%s (%d props)", label, len(sn.bundle.Properties))
	}
	branch := tp.AddBranch(label)
	for _, ch := range n.Children(true) {
		addBranch(branch, ch)
	}
}
