package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfairley/bundleview/internal/archive"
	"github.com/rfairley/bundleview/internal/expand"
	"github.com/rfairley/bundleview/internal/search"
	"github.com/rfairley/bundleview/internal/tree"
)

func testEntries() []archive.Entry {
	return []archive.Entry{
		{Path: "readme.md", Size: 10},
		{Path: "src/main.go", Size: 100},
		{Path: "src/util/strings.go", Size: 50},
		{Path: "assets/logo.png", Size: 2000},
	}
}

func rowPaths(rows []treeRow) []string {
	paths := make([]string, len(rows))
	for i, r := range rows {
		paths[i] = r.node.Path
	}
	return paths
}

func TestVisibleRowsCollapsed(t *testing.T) {
	root := tree.Build(testEntries())
	exp := expand.NewStore("fp", nil)

	rows := visibleRows(root, exp, search.Result{})

	// Only root children, directories before files
	assert.Equal(t, []string{"assets", "src", "readme.md"}, rowPaths(rows))
	for _, r := range rows {
		assert.Equal(t, 0, r.depth)
	}
}

func TestVisibleRowsExpanded(t *testing.T) {
	root := tree.Build(testEntries())
	exp := expand.NewStore("fp", nil)
	exp.Expand("src")

	rows := visibleRows(root, exp, search.Result{})

	assert.Equal(t, []string{"assets", "src", "src/util", "src/main.go", "readme.md"}, rowPaths(rows))
	require.Len(t, rows, 5)
	assert.Equal(t, 1, rows[2].depth) // src/util
	assert.Equal(t, 1, rows[3].depth) // src/main.go

	// Nested dir stays collapsed until expanded itself
	exp.Expand("src/util")
	rows = visibleRows(root, exp, search.Result{})
	assert.Contains(t, rowPaths(rows), "src/util/strings.go")
}

func TestVisibleRowsPrunedBySearch(t *testing.T) {
	root := tree.Build(testEntries())
	exp := expand.NewStore("fp", nil)

	res := search.Apply("strings", root)
	exp.Union(res.ExpandPaths())

	rows := visibleRows(root, exp, res)

	// Everything outside the matching branch prunes away
	assert.Equal(t, []string{"src", "src/util", "src/util/strings.go"}, rowPaths(rows))
}

func TestVisibleRowsNilRoot(t *testing.T) {
	exp := expand.NewStore("fp", nil)
	assert.Nil(t, visibleRows(nil, exp, search.Result{}))
}

func TestRowIndex(t *testing.T) {
	root := tree.Build(testEntries())
	exp := expand.NewStore("fp", nil)
	rows := visibleRows(root, exp, search.Result{})

	assert.Equal(t, 2, rowIndex(rows, "readme.md"))
	assert.Equal(t, -1, rowIndex(rows, "src/main.go")) // collapsed, not visible
}

func TestAncestorDirs(t *testing.T) {
	assert.Nil(t, ancestorDirs("readme.md"))
	assert.Equal(t, []string{"src"}, ancestorDirs("src/main.go"))
	assert.Equal(t, []string{"a", "a/b", "a/b/c"}, ancestorDirs("a/b/c/d.txt"))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "1.0 KB", humanSize(1024))
	assert.Equal(t, "5.0 MB", humanSize(5<<20))
}
