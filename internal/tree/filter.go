package tree

import "strings"

// Filter prunes the forest to nodes whose full path contains query
// (case-insensitive), keeping the ancestor chain of every match. Kept
// ancestors that do not match themselves are forced expanded so the match is
// visible without manual expansion; direct matches keep their own expansion
// state. The empty query returns the input unchanged. The input forest is
// never mutated; kept nodes are copies.
func Filter(roots []*Node, query string) []*Node {
	if query == "" {
		return roots
	}

	needle := strings.ToLower(query)

	var kept []*Node
	for _, root := range roots {
		if n := filterNode(root, needle); n != nil {
			kept = append(kept, n)
		}
	}

	return kept
}

func filterNode(n *Node, needle string) *Node {
	matches := strings.Contains(strings.ToLower(n.Path), needle)

	var children []*Node
	for _, child := range n.Children {
		if c := filterNode(child, needle); c != nil {
			children = append(children, c)
		}
	}

	if !matches && len(children) == 0 {
		return nil
	}

	clone := *n
	clone.Children = children
	if !matches {
		// Kept only for ancestor context: force the match into view.
		clone.Expanded = true
	}

	return &clone
}
