package archive

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/archives/run-42/entries", r.URL.Path)
		w.Write([]byte(`{"entries":[
			{"name":"logs/client.log","is_directory":false,"size":120,"modified":"2026-03-01T10:00:00Z"},
			{"name":"logs","is_directory":true,"size":0,"modified":1740823200}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "run-42")
	entries, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "logs/client.log", entries[0].Path)
	assert.False(t, entries[0].IsDir)
	assert.Equal(t, uint64(120), entries[0].Size)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), entries[0].Modified)

	assert.True(t, entries[1].IsDir)
	assert.Equal(t, time.Unix(1740823200, 0).UTC(), entries[1].Modified)
}

func TestClientExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/archives/run-42/extract", r.URL.Path)
		assert.Equal(t, "logs/client.log", r.URL.Query().Get("path"))
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "run-42")
	data, err := c.Extract(context.Background(), "logs/client.log")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestClientExtractServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "archive not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "missing")
	_, err := c.Extract(context.Background(), "a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "archive not found")
}

func writeTestZip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	w, err := zw.Create("results/summary.json")
	require.NoError(t, err)
	w.Write([]byte(`{"ok":true}`))

	_, err = zw.Create("results/raw/")
	require.NoError(t, err)

	w, err = zw.Create("results/raw/trace.log")
	require.NoError(t, err)
	w.Write([]byte("line one\nline two\n"))

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestZipSourceList(t *testing.T) {
	src := NewZipSource(writeTestZip(t))
	entries, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byPath := map[string]Entry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}

	assert.False(t, byPath["results/summary.json"].IsDir)
	assert.True(t, byPath["results/raw"].IsDir, "directory entry keeps no trailing slash")
	assert.Equal(t, uint64(len("line one\nline two\n")), byPath["results/raw/trace.log"].Size)
}

func TestZipSourceExtract(t *testing.T) {
	src := NewZipSource(writeTestZip(t))

	data, err := src.Extract(context.Background(), "results/raw/trace.log")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))

	_, err = src.Extract(context.Background(), "nope.txt")
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := []Entry{{Path: "a.txt"}, {Path: "b/c.txt"}}
	b := []Entry{{Path: "a.txt"}, {Path: "b/c.txt"}}
	c := []Entry{{Path: "a.txt"}, {Path: "b/d.txt"}}

	assert.Equal(t, Fingerprint(a), Fingerprint(b), "same listing, same fingerprint")
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c), "different listing, different fingerprint")
	assert.Len(t, Fingerprint(a), 12)
	assert.NotEmpty(t, Fingerprint(nil))
}
