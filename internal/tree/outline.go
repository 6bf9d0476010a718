package tree

import "strings"

// Outline renders the full forest as a plain-text outline, one node per line,
// ignoring collapse state. It exists for debugging and for golden-file tests
// where styled terminal output would be too brittle to compare.
//
// Markers: "-" expanded, "+" collapsed with children, "." leaf. Selected
// nodes carry a trailing "*", mapped nodes "(mapped)".
func Outline(roots []*Node) string {
	var b strings.Builder
	for _, root := range roots {
		outlineNode(&b, root, 0)
	}

	return b.String()
}

func outlineNode(b *strings.Builder, n *Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))

	switch {
	case len(n.Children) == 0:
		b.WriteString(".")
	case n.Expanded:
		b.WriteString("-")
	default:
		b.WriteString("+")
	}

	b.WriteString(" ")
	b.WriteString(n.Name)
	if n.Selected {
		b.WriteString(" *")
	}
	if n.Mapped {
		b.WriteString(" (mapped)")
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		outlineNode(b, child, depth+1)
	}
}
