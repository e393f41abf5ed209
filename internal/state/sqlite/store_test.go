package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := NewInMemory()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveExpansion("fp1", []string{"a", "a/b"}))

	paths, err := s.LoadExpansion("fp1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a/b"}, paths)
}

func TestUpsertReplacesSnapshot(t *testing.T) {
	s, err := NewInMemory()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveExpansion("fp1", []string{"a"}))
	require.NoError(t, s.SaveExpansion("fp1", []string{"b", "c"}))

	paths, err := s.LoadExpansion("fp1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, paths)
}

func TestFingerprintIsolation(t *testing.T) {
	s, err := NewInMemory()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveExpansion("fp1", []string{"a"}))

	paths, err := s.LoadExpansion("fp2")
	require.NoError(t, err)
	assert.Nil(t, paths, "unknown fingerprint yields no snapshot")
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	s, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveExpansion("fp1", []string{"x", "y"}))
	require.NoError(t, s.Close())

	reopened, err := New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	paths, err := reopened.LoadExpansion("fp1")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, paths)
}

func TestClosedStoreErrors(t *testing.T) {
	s, err := NewInMemory()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Error(t, s.SaveExpansion("fp", nil))
	_, err = s.LoadExpansion("fp")
	assert.Error(t, err)
	assert.NoError(t, s.Close(), "double close is harmless")
}
