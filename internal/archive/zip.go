package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"
)

// ZipSource reads a bundle from a local zip file. It implements Source.
type ZipSource struct {
	path string
}

// NewZipSource creates a source backed by the zip file at path.
func NewZipSource(path string) *ZipSource {
	return &ZipSource{path: path}
}

// Path returns the zip file's location on disk.
func (z *ZipSource) Path() string {
	return z.path
}

// List returns every entry in the zip. Directory entries keep their
// trailing slash stripped; backslash separators are normalized.
func (z *ZipSource) List(ctx context.Context) ([]Entry, error) {
	r, err := zip.OpenReader(z.path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := strings.ReplaceAll(f.Name, `\`, "/")
		isDir := f.FileInfo().IsDir()
		entries = append(entries, Entry{
			Path:     strings.TrimSuffix(name, "/"),
			IsDir:    isDir,
			Size:     f.UncompressedSize64,
			Modified: f.Modified,
		})
	}
	return entries, nil
}

// Extract reads one file's bytes out of the zip.
func (z *ZipSource) Extract(ctx context.Context, path string) ([]byte, error) {
	r, err := zip.OpenReader(z.path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		name := strings.TrimSuffix(strings.ReplaceAll(f.Name, `\`, "/"), "/")
		if name != path {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("no such file in bundle: %s", path)
}
