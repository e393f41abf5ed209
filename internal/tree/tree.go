package tree

import (
	"sort"
	"strings"

	"github.com/rfairley/bundleview/internal/archive"
)

// Node is one file or directory in the reconstructed hierarchy. Directory
// aggregates count descendant files only; directories themselves contribute
// nothing.
type Node struct {
	Name      string
	Path      string
	IsDir     bool
	Entry     *archive.Entry // backing entry; nil for synthesized directories and the root
	Children  map[string]*Node
	Size      uint64 // file: own size; directory: sum over descendant files
	FileCount uint32 // file: 1; directory: number of descendant files
}

// Build reconstructs the hierarchy from an unordered flat entry listing.
// Malformed entries (empty paths after segment cleanup) are skipped, implicit
// parent directories are synthesized, and duplicate paths resolve last-wins.
// A listing that names a path both as a file and as a directory prefix keeps
// the directory; the displaced file's size and count leave the aggregates.
func Build(entries []archive.Entry) *Node {
	root := &Node{IsDir: true, Children: map[string]*Node{}}

	for i := range entries {
		e := entries[i]
		segs := splitPath(e.Path)
		if len(segs) == 0 {
			continue
		}

		if e.IsDir {
			// Directory entries are absorbed into the directory node they
			// name; they carry no size.
			n := descend(root, segs)
			n.Entry = &entries[i]
			continue
		}

		parents := make([]*Node, 0, len(segs))
		parents = append(parents, root)
		n := root
		for _, seg := range segs[:len(segs)-1] {
			next, freedSize, freedCount := n.child(seg)
			backOut(parents, freedSize, freedCount)
			n = next
			parents = append(parents, n)
		}

		leafName := segs[len(segs)-1]
		leaf, existed := n.Children[leafName]
		if existed {
			// Last entry wins: back out the old node's contribution before
			// inserting the replacement.
			for _, p := range parents {
				p.Size -= leaf.Size
				p.FileCount -= leaf.FileCount
			}
		}
		leaf = &Node{
			Name:      leafName,
			Path:      strings.Join(segs, "/"),
			IsDir:     false,
			Entry:     &entries[i],
			Size:      e.Size,
			FileCount: 1,
		}
		n.Children[leafName] = leaf
		for _, p := range parents {
			p.Size += e.Size
			p.FileCount++
		}
	}

	return root
}

// descend walks or creates directory nodes for every segment, backing any
// converted file node's contribution out of the ancestors walked so far.
func descend(root *Node, segs []string) *Node {
	n := root
	ancestors := []*Node{root}
	for _, seg := range segs {
		next, freedSize, freedCount := n.child(seg)
		backOut(ancestors, freedSize, freedCount)
		n = next
		ancestors = append(ancestors, n)
	}
	return n
}

// backOut removes a displaced node's contribution from an ancestor chain.
func backOut(ancestors []*Node, size uint64, count uint32) {
	if count == 0 && size == 0 {
		return
	}
	for _, p := range ancestors {
		p.Size -= size
		p.FileCount -= count
	}
}

// child returns the named child directory, creating it if absent. An existing
// file node under that name is converted in place; the returned size and
// count are the displaced file's contribution, which the caller must back out
// of every ancestor it has walked through.
func (n *Node) child(seg string) (c *Node, freedSize uint64, freedCount uint32) {
	c, ok := n.Children[seg]
	if ok {
		if !c.IsDir {
			freedSize, freedCount = c.Size, c.FileCount
			c.IsDir = true
			c.Entry = nil
			c.Size = 0
			c.FileCount = 0
			c.Children = map[string]*Node{}
		}
		return c, freedSize, freedCount
	}
	path := seg
	if n.Path != "" {
		path = n.Path + "/" + seg
	}
	c = &Node{
		Name:     seg,
		Path:     path,
		IsDir:    true,
		Children: map[string]*Node{},
	}
	n.Children[seg] = c
	return c, 0, 0
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// SortedChildren returns children ordered directories first, then files,
// each group byte-wise lexicographic. Byte-wise comparison keeps ordering
// deterministic across platforms.
func (n *Node) SortedChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// DirPaths returns the path of every directory reachable from n, excluding
// the root itself. Traversal is iterative; deep single-child chains must not
// exhaust the stack.
func (n *Node) DirPaths() []string {
	var paths []string
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur != n && cur.IsDir {
			paths = append(paths, cur.Path)
		}
		for _, c := range cur.Children {
			if c.IsDir {
				stack = append(stack, c)
			}
		}
	}
	sort.Strings(paths)
	return paths
}

// Lookup finds the node at path, or nil.
func (n *Node) Lookup(path string) *Node {
	cur := n
	for _, seg := range splitPath(path) {
		next, ok := cur.Children[seg]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// FilePaths returns the path of every file reachable from n, sorted.
func (n *Node) FilePaths() []string {
	var paths []string
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !cur.IsDir {
			paths = append(paths, cur.Path)
			continue
		}
		for _, c := range cur.Children {
			stack = append(stack, c)
		}
	}
	sort.Strings(paths)
	return paths
}
