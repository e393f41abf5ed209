package archive

import "context"

// Source provides the two operations the explorer needs from a bundle:
// a flat listing of its entries and extraction of a single file's bytes.
type Source interface {
	// List returns every entry in the bundle. Called once per bundle,
	// not per interaction.
	List(ctx context.Context) ([]Entry, error)

	// Extract returns the raw bytes of the file at path. It may fail
	// with a transport or lookup error; it is never cancelled at the
	// transport level by the explorer, which instead discards results
	// it no longer wants.
	Extract(ctx context.Context, path string) ([]byte, error)
}
