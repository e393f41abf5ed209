package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfairley/bundleview/internal/archive"
	"github.com/rfairley/bundleview/internal/tree"
)

// fakePersister records snapshots per fingerprint and counts saves.
type fakePersister struct {
	snapshots map[string][]string
	saves     int
}

func newFakePersister() *fakePersister {
	return &fakePersister{snapshots: map[string][]string{}}
}

func (p *fakePersister) SaveExpansion(fp string, paths []string) error {
	p.snapshots[fp] = append([]string(nil), paths...)
	p.saves++
	return nil
}

func (p *fakePersister) LoadExpansion(fp string) ([]string, error) {
	return p.snapshots[fp], nil
}

func TestToggle(t *testing.T) {
	s := NewStore("fp", newFakePersister())

	s.Toggle("a")
	assert.True(t, s.IsExpanded("a"))
	s.Toggle("a")
	assert.False(t, s.IsExpanded("a"))
}

func TestExpandAllCoversUnseenDirectories(t *testing.T) {
	root := tree.Build([]archive.Entry{
		{Path: "a/b/c.txt"},
		{Path: "d/e.txt"},
	})

	s := NewStore("fp", newFakePersister())
	s.ExpandAll(root)

	assert.Equal(t, []string{"a", "a/b", "d"}, s.Paths())

	s.CollapseAll()
	assert.Zero(t, s.Len())
}

func TestPersistenceRoundTrip(t *testing.T) {
	p := newFakePersister()

	s := NewStore("fp", p)
	s.Toggle("a")
	s.Toggle("a/b")

	restored := NewStore("fp", p)
	assert.Equal(t, []string{"a", "a/b"}, restored.Paths())

	// A different bundle starts fresh, never inheriting state.
	other := NewStore("other", p)
	assert.Zero(t, other.Len())
}

func TestUnionKeepsManualExpansionsAndIsIdempotent(t *testing.T) {
	p := newFakePersister()
	s := NewStore("fp", p)

	s.Toggle("x")
	savesBefore := p.saves

	s.Union([]string{"y", "y/z"})
	require.True(t, s.IsExpanded("x"), "manual expansion survives union")
	assert.True(t, s.IsExpanded("y"))
	assert.Equal(t, savesBefore+1, p.saves)

	// Same union again adds nothing and does not re-persist.
	s.Union([]string{"y", "y/z"})
	assert.Equal(t, savesBefore+1, p.saves)
	assert.Equal(t, []string{"x", "y", "y/z"}, s.Paths())
}

func TestNilPersister(t *testing.T) {
	s := NewStore("fp", nil)
	s.Toggle("a")
	assert.True(t, s.IsExpanded("a"))
}
