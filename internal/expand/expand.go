package expand

import (
	"sort"

	"github.com/rfairley/bundleview/internal/tree"
)

// Persister stores expansion snapshots keyed by bundle fingerprint, so that
// returning to the same bundle restores prior state. Implementations live in
// the state package; tests inject lightweight fakes.
type Persister interface {
	SaveExpansion(fingerprint string, paths []string) error
	LoadExpansion(fingerprint string) ([]string, error)
}

// Store tracks which directories are expanded for one bundle view. The root
// is conceptually always expanded and never stored. Every mutation persists
// the snapshot; persistence failures are ignored, the in-memory state is
// authoritative for the session.
type Store struct {
	fingerprint string
	persist     Persister
	expanded    map[string]struct{}
}

// NewStore creates a store for the bundle identified by fingerprint,
// restoring a prior snapshot if the persister has one.
func NewStore(fingerprint string, p Persister) *Store {
	s := &Store{
		fingerprint: fingerprint,
		persist:     p,
		expanded:    map[string]struct{}{},
	}
	if p != nil {
		if paths, err := p.LoadExpansion(fingerprint); err == nil {
			for _, path := range paths {
				s.expanded[path] = struct{}{}
			}
		}
	}
	return s
}

// IsExpanded reports whether the directory at path is expanded.
func (s *Store) IsExpanded(path string) bool {
	_, ok := s.expanded[path]
	return ok
}

// Toggle flips the expansion state of one directory.
func (s *Store) Toggle(path string) {
	if _, ok := s.expanded[path]; ok {
		delete(s.expanded, path)
	} else {
		s.expanded[path] = struct{}{}
	}
	s.save()
}

// Expand marks one directory expanded.
func (s *Store) Expand(path string) {
	if _, ok := s.expanded[path]; ok {
		return
	}
	s.expanded[path] = struct{}{}
	s.save()
}

// ExpandAll expands every directory reachable from the tree root, not just
// the currently visible ones.
func (s *Store) ExpandAll(root *tree.Node) {
	for _, path := range root.DirPaths() {
		s.expanded[path] = struct{}{}
	}
	s.save()
}

// CollapseAll clears the set entirely.
func (s *Store) CollapseAll() {
	s.expanded = map[string]struct{}{}
	s.save()
}

// Union merges paths into the expansion set without removing anything.
// Manual expansions survive search-driven auto-expansion. A union that adds
// nothing is a no-op and does not re-persist.
func (s *Store) Union(paths []string) {
	added := false
	for _, path := range paths {
		if _, ok := s.expanded[path]; !ok {
			s.expanded[path] = struct{}{}
			added = true
		}
	}
	if added {
		s.save()
	}
}

// Paths returns the expanded directory paths, sorted.
func (s *Store) Paths() []string {
	out := make([]string, 0, len(s.expanded))
	for path := range s.expanded {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of expanded directories.
func (s *Store) Len() int {
	return len(s.expanded)
}

func (s *Store) save() {
	if s.persist == nil {
		return
	}
	_ = s.persist.SaveExpansion(s.fingerprint, s.Paths())
}
