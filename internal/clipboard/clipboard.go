package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/x/ansi"
)

// ErrUnavailable indicates no clipboard utility was found
var ErrUnavailable = errors.New("clipboard unavailable - install xclip, xsel, or wl-clipboard")

// IsAvailable returns true if clipboard operations are supported
func IsAvailable() bool {
	return !clipboard.Unsupported
}

// CopyLink copies a permalink URL to the clipboard.
func CopyLink(link string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(link)
}

// CopyLines copies the given rendered rows as plain text, stripping ANSI
// styling so pasted content is clean.
func CopyLines(rows []string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	clean := make([]string, len(rows))
	for i, row := range rows {
		clean[i] = ansi.Strip(row)
	}
	return clipboard.WriteAll(strings.Join(clean, "\n"))
}
