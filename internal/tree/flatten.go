package tree

// Row is one renderable line: a node plus its nesting depth.
type Row struct {
	Node  *Node
	Depth int
}

// Flatten converts the forest into the linear row sequence the renderer
// windows over: a pre-order walk that does not descend into collapsed nodes.
func Flatten(roots []*Node) []Row {
	var rows []Row
	for _, root := range roots {
		rows = appendRows(rows, root, 0)
	}

	return rows
}

func appendRows(rows []Row, n *Node, depth int) []Row {
	rows = append(rows, Row{Node: n, Depth: depth})
	if n.Expanded {
		for _, child := range n.Children {
			rows = appendRows(rows, child, depth+1)
		}
	}

	return rows
}

// VisibleRange returns the half-open [start, end) window of rows to render
// for the given scroll offset and viewport height. The window is clamped so
// the viewport stays as full as possible near the end of the list.
func VisibleRange(offset, height, total int) (start, end int) {
	if total == 0 || height <= 0 {
		return 0, 0
	}

	start = offset
	if start < 0 {
		start = 0
	}

	end = start + height
	if end > total {
		end = total
		start = end - height
		if start < 0 {
			start = 0
		}
	}

	return start, end
}
