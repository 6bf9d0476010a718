// Package tree derives a navigable folder tree from the flat inventory
// snapshot. The tree is rebuilt as a pure function of its inputs on every
// relevant change; nothing here mutates state in place across calls.
package tree

import (
	"sort"

	"github.com/curatorlabs/curator/internal/inventory"
	"github.com/curatorlabs/curator/internal/selection"
)

// Disabled reasons shown next to rows that cannot be toggled.
const (
	ReasonMapped             = "already mapped to a collection"
	ReasonAncestorSelected   = "a parent folder is selected"
	ReasonDescendantSelected = "a folder inside is selected"
	ReasonNoRecord           = "no inventory record for this prefix"
)

// Node is one folder in the derived tree. Nodes are owned by their parent and
// rebuilt wholesale on every structural change; there are no back-references.
type Node struct {
	Path           string
	Name           string
	Children       []*Node
	ObjectCount    int64
	TotalSize      int64
	HasRecord      bool
	Selected       bool
	Expanded       bool
	Mapped         bool
	Disabled       bool
	DisabledReason string
}

// Build converts the snapshot into an ordered forest of root nodes. Every
// path prefix becomes a node even without a matching folder record, so sparse
// inventories stay navigable; record-less prefixes carry zero counts and are
// not selectable. Sibling ordering is lexicographic by name.
func Build(snap *inventory.Snapshot, sel *selection.State, expanded map[string]bool) []*Node {
	index := make(map[string]*Node)
	var roots []*Node

	for _, folder := range snap.Folders() {
		segments := inventory.Segments(folder.Path)
		prefix := ""

		var parent *Node
		for i, seg := range segments {
			if i == 0 {
				prefix = seg
			} else {
				prefix = prefix + inventory.Delimiter + seg
			}

			node, ok := index[prefix]
			if !ok {
				node = &Node{Path: prefix, Name: seg}
				index[prefix] = node
				if parent == nil {
					roots = append(roots, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}
			parent = node
		}

		// parent is now the terminal node for this record.
		parent.HasRecord = true
		parent.ObjectCount = folder.ObjectCount
		parent.TotalSize = folder.TotalSize
		parent.Mapped = folder.IsMapped()
	}

	sortSiblings(roots)
	for _, root := range roots {
		annotate(root, sel, expanded, false)
	}

	return roots
}

func sortSiblings(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		sortSiblings(n.Children)
	}
}

// annotate sets the selection-derived flags on a subtree. It returns whether
// the subtree contains a selected node, which feeds the descendant check of
// the parent.
func annotate(n *Node, sel *selection.State, expanded map[string]bool, ancestorSelected bool) bool {
	n.Selected = sel.IsSelected(n.Path)
	n.Expanded = expanded[n.Path]
	if sel.IsMapped(n.Path) {
		n.Mapped = true
	}

	descendantSelected := false
	for _, child := range n.Children {
		if annotate(child, sel, expanded, ancestorSelected || n.Selected) {
			descendantSelected = true
		}
	}

	switch {
	case n.Selected:
		// Selected nodes stay enabled so they can be deselected.
	case n.Mapped:
		n.Disabled = true
		n.DisabledReason = ReasonMapped
	case ancestorSelected:
		n.Disabled = true
		n.DisabledReason = ReasonAncestorSelected
	case descendantSelected:
		n.Disabled = true
		n.DisabledReason = ReasonDescendantSelected
	case !n.HasRecord:
		n.Disabled = true
		n.DisabledReason = ReasonNoRecord
	}

	return n.Selected || descendantSelected
}
