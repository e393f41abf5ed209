package app

import (
	"github.com/rfairley/bundleview/internal/expand"
	"github.com/rfairley/bundleview/internal/search"
	"github.com/rfairley/bundleview/internal/tree"
)

// treeRow is one visible line of the tree pane.
type treeRow struct {
	node  *tree.Node
	depth int
}

// visibleRows flattens the tree into its visible rows: expanded directories
// descend, and during an active search non-matching branches are pruned.
// Traversal is an explicit-stack depth-first walk so pathological nesting
// cannot exhaust the call stack. Siblings order directories first, then
// files, byte-wise within each group.
func visibleRows(root *tree.Node, exp *expand.Store, res search.Result) []treeRow {
	if root == nil {
		return nil
	}

	var rows []treeRow
	type frame struct {
		node  *tree.Node
		depth int
	}

	var stack []frame
	pushChildren := func(n *tree.Node, depth int) {
		children := n.SortedChildren()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], depth: depth})
		}
	}
	pushChildren(root, 0)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !res.IsVisible(f.node.Path) {
			continue
		}
		rows = append(rows, treeRow{node: f.node, depth: f.depth})

		if f.node.IsDir && exp.IsExpanded(f.node.Path) {
			pushChildren(f.node, f.depth+1)
		}
	}
	return rows
}

// rowIndex returns the index of path among rows, or -1.
func rowIndex(rows []treeRow, path string) int {
	for i, r := range rows {
		if r.node.Path == path {
			return i
		}
	}
	return -1
}

// ancestorDirs returns every strict ancestor directory of a slash path.
func ancestorDirs(path string) []string {
	var dirs []string
	for i, r := range path {
		if r == '/' && i > 0 {
			dirs = append(dirs, path[:i])
		}
	}
	return dirs
}
