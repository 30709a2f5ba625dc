package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"stylo/styledtree"
	"stylo/stylist"
	"stylo/treewalk"
	"stylo/value"
)

// printAllProperties walks the styled tree depth-first and prints every
// resolved property of every element, for the --props flag of resolve.
func printAllProperties(cmd *cobra.Command, root *treewalk.Node[*styledtree.StyNode]) {
	out := cmd.OutOrStdout()
	var walk func(n *treewalk.Node[*styledtree.StyNode], depth int)
	walk = func(n *treewalk.Node[*styledtree.StyNode], depth int) {
		sn := styledtree.Of(n)
		if sn == nil {
			return
		}
		printElementProperties(out, sn, depth)
		for _, ch := range n.Children(true) {
			walk(ch, depth+1)
		}
	}
	walk(root, 0)
}

func printElementProperties(out io.Writer, sn *styledtree.StyNode, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	el := sn.Element()
	label := "?"
	if el != nil {
		label = el.TagName()
		if id := el.ID(); id != "" {
			label += "#" + id
		}
	}
	fmt.Fprintf(out, "%s%s\n", indent, label)
	b := sn.Bundle()
	if b == nil {
		return
	}
	for _, id := range orderedForDisplay() {
		v, ok := b.Get(id)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%s  %s: %s\n", indent, id, formatResolvedValue(v))
	}
}

func formatResolvedValue(v stylist.ResolvedValue) string {
	switch v.Kind {
	case value.KindLength:
		return fmt.Sprintf("%gpx", v.Px)
	case value.KindColor:
		return v.Color.String()
	case value.KindNumber:
		return fmt.Sprintf("%g", v.Number)
	default:
		return v.Keyword
	}
}

func orderedForDisplay() []value.PropertyID {
	return []value.PropertyID{
		value.PropDisplay, value.PropPosition, value.PropColor, value.PropBackgroundColor,
		value.PropFontFamily, value.PropFontSize, value.PropLineHeight, value.PropTextAlign,
		value.PropWidth, value.PropHeight,
		value.PropMarginTop, value.PropMarginRight, value.PropMarginBottom, value.PropMarginLeft,
		value.PropPaddingTop, value.PropPaddingRight, value.PropPaddingBottom, value.PropPaddingLeft,
		value.PropBorderTopWidth, value.PropBorderRightWidth, value.PropBorderBottomWidth, value.PropBorderLeftWidth,
	}
}
