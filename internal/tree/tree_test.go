package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfairley/bundleview/internal/archive"
)

func TestBuildSynthesizesImplicitDirectories(t *testing.T) {
	root := Build([]archive.Entry{
		{Path: "a/b/c.txt", Size: 10},
		{Path: "a/d.txt", Size: 5},
	})

	a := root.Lookup("a")
	require.NotNil(t, a)
	assert.True(t, a.IsDir)
	assert.Nil(t, a.Entry, "synthesized directory has no backing entry")

	require.NotNil(t, root.Lookup("a/b"))
	require.NotNil(t, root.Lookup("a/b/c.txt"))
	require.NotNil(t, root.Lookup("a/d.txt"))

	assert.Equal(t, uint32(2), a.FileCount)
	assert.Equal(t, uint64(15), a.Size)
	assert.Equal(t, uint32(1), root.Lookup("a/b").FileCount)
}

func TestBuildAggregatesOncePerAncestor(t *testing.T) {
	root := Build([]archive.Entry{
		{Path: "x/y/z/deep.log", Size: 100},
		{Path: "x/y/shallow.log", Size: 1},
		{Path: "top.log", Size: 7},
	})

	assert.Equal(t, uint64(108), root.Size)
	assert.Equal(t, uint32(3), root.FileCount)
	assert.Equal(t, uint64(101), root.Lookup("x").Size)
	assert.Equal(t, uint64(101), root.Lookup("x/y").Size)
	assert.Equal(t, uint64(100), root.Lookup("x/y/z").Size)
	assert.Equal(t, uint32(2), root.Lookup("x/y").FileCount)
}

func TestBuildExplicitDirectoriesContributeNoSize(t *testing.T) {
	root := Build([]archive.Entry{
		{Path: "logs/", IsDir: true, Size: 4096},
		{Path: "logs/a.log", Size: 10},
	})

	logs := root.Lookup("logs")
	require.NotNil(t, logs)
	assert.True(t, logs.IsDir)
	require.NotNil(t, logs.Entry, "explicit directory keeps its backing entry")
	assert.Equal(t, uint64(10), logs.Size)
	assert.Equal(t, uint64(10), root.Size)
}

func TestBuildDuplicatePathLastWins(t *testing.T) {
	root := Build([]archive.Entry{
		{Path: "a/f.txt", Size: 10},
		{Path: "a/f.txt", Size: 30},
	})

	assert.Equal(t, uint64(30), root.Lookup("a/f.txt").Size)
	assert.Equal(t, uint64(30), root.Lookup("a").Size)
	assert.Equal(t, uint32(1), root.FileCount)
}

func TestBuildFileDisplacedByDirectory(t *testing.T) {
	t.Run("implicit parent of a later file", func(t *testing.T) {
		root := Build([]archive.Entry{
			{Path: "a", Size: 10},
			{Path: "a/b.txt", Size: 4},
		})

		a := root.Lookup("a")
		require.NotNil(t, a)
		assert.True(t, a.IsDir)
		assert.Equal(t, uint64(4), a.Size)
		assert.Equal(t, uint32(1), a.FileCount)

		// The displaced file's contribution leaves every ancestor
		assert.Equal(t, uint64(4), root.Size)
		assert.Equal(t, uint32(1), root.FileCount)
	})

	t.Run("explicit directory entry", func(t *testing.T) {
		root := Build([]archive.Entry{
			{Path: "a", Size: 10},
			{Path: "a", IsDir: true},
		})

		a := root.Lookup("a")
		require.NotNil(t, a)
		assert.True(t, a.IsDir)
		assert.Equal(t, uint64(0), root.Size)
		assert.Equal(t, uint32(0), root.FileCount)
	})
}

func TestBuildSkipsMalformedEntries(t *testing.T) {
	root := Build([]archive.Entry{
		{Path: "", Size: 9},
		{Path: "///", Size: 9},
		{Path: "a//b.txt", Size: 2}, // empty segment dropped, not fatal
	})

	assert.Equal(t, uint32(1), root.FileCount)
	require.NotNil(t, root.Lookup("a/b.txt"))
	assert.Equal(t, uint64(2), root.Size)
}

func TestSortedChildrenDirsFirstThenBytewise(t *testing.T) {
	root := Build([]archive.Entry{
		{Path: "b.txt"},
		{Path: "Z.txt"},
		{Path: "a/x.txt"},
		{Path: "B/y.txt"},
	})

	var names []string
	for _, c := range root.SortedChildren() {
		names = append(names, c.Name)
	}
	// Directories before files, uppercase before lowercase within a group.
	assert.Equal(t, []string{"B", "a", "Z.txt", "b.txt"}, names)
}

func TestDirPathsAndFilePaths(t *testing.T) {
	root := Build([]archive.Entry{
		{Path: "a/b/c.txt"},
		{Path: "a/d.txt"},
		{Path: "e.txt"},
	})

	assert.Equal(t, []string{"a", "a/b"}, root.DirPaths())
	assert.Equal(t, []string{"a/b/c.txt", "a/d.txt", "e.txt"}, root.FilePaths())
}

func TestBuildDeeplyNestedChain(t *testing.T) {
	path := ""
	for i := 0; i < 500; i++ {
		path += "d/"
	}
	root := Build([]archive.Entry{{Path: path + "leaf.txt", Size: 1}})

	assert.Equal(t, uint32(1), root.FileCount)
	assert.Len(t, root.DirPaths(), 500)
}
