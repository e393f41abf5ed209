package search

import (
	"sort"
	"strings"

	"github.com/rfairley/bundleview/internal/tree"
)

// Result holds match and visibility state for one query over one tree.
// It is derived, never mutated; re-running the same query yields an equal
// result.
type Result struct {
	Query string

	matches map[string]struct{}
	visible map[string]struct{}
	expand  []string
}

// Active reports whether a filter query is in effect.
func (r Result) Active() bool {
	return r.Query != ""
}

// IsMatch reports whether the node at path matched the query by name.
func (r Result) IsMatch(path string) bool {
	_, ok := r.matches[path]
	return ok
}

// IsVisible reports whether the node at path should be rendered. With no
// active query everything is visible. A directory is visible if it matches
// or any descendant does; a file only if it matches itself.
func (r Result) IsVisible(path string) bool {
	if !r.Active() {
		return true
	}
	_, ok := r.visible[path]
	return ok
}

// ExpandPaths returns the directories that must be expanded to reveal every
// match: the strict ancestors of each matching node. The caller unions these
// into its expansion state rather than replacing it.
func (r Result) ExpandPaths() []string {
	return r.expand
}

// Apply evaluates query against the tree. Matching is case-insensitive
// substring on the node's name, not its full path. Traversal is iterative;
// visibility propagates bottom-up so a matching deep file keeps its whole
// ancestor chain visible while unrelated branches prune away.
func Apply(query string, root *tree.Node) Result {
	r := Result{
		Query:   query,
		matches: map[string]struct{}{},
		visible: map[string]struct{}{},
	}
	if query == "" || root == nil {
		return r
	}

	needle := strings.ToLower(query)

	// Pre-order walk recording parents, so the reversed order visits
	// children before their parents.
	type item struct {
		node   *tree.Node
		parent *tree.Node
	}
	var order []item
	stack := []item{{node: root}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, cur)
		for _, c := range cur.node.Children {
			stack = append(stack, item{node: c, parent: cur.node})
		}
	}

	parents := make(map[*tree.Node]*tree.Node, len(order))
	for _, it := range order {
		parents[it.node] = it.parent
	}

	for i := len(order) - 1; i >= 0; i-- {
		n := order[i].node
		if n == root {
			continue
		}
		if strings.Contains(strings.ToLower(n.Name), needle) {
			r.matches[n.Path] = struct{}{}
			r.visible[n.Path] = struct{}{}
		}
		if _, ok := r.visible[n.Path]; ok {
			// Reveal the ancestor chain.
			for p := order[i].parent; p != nil && p != root; p = parents[p] {
				r.visible[p.Path] = struct{}{}
			}
		}
	}

	expandSet := map[string]struct{}{}
	for path := range r.matches {
		for p := parents[root.Lookup(path)]; p != nil && p != root; p = parents[p] {
			expandSet[p.Path] = struct{}{}
		}
	}
	for path := range expandSet {
		r.expand = append(r.expand, path)
	}
	sort.Strings(r.expand)

	return r
}
