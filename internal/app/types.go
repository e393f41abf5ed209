package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rfairley/bundleview/internal/archive"
)

// Pane identifies which pane is active
type Pane int

const (
	TreePane Pane = iota
	ContentPane
)

// EntriesLoadedMsg is sent when the bundle listing has been fetched
type EntriesLoadedMsg struct {
	Entries []archive.Entry
	Err     error
}

// ContentLoadedMsg is sent when a file extraction completes. Gen is the
// staleness token: completions whose generation no longer matches the
// controller's are discarded.
type ContentLoadedMsg struct {
	Gen  uint64
	Path string
	Data []byte
	Err  error
}

// DownloadDoneMsg is sent when a file has been written to disk
type DownloadDoneMsg struct {
	Path string
	Err  error
}

// BundleChangedMsg is sent when the local bundle file changed on disk
type BundleChangedMsg struct{}

// ClearStatusMsg is sent to clear the status message after delay
type ClearStatusMsg struct{}

// ClearStatusAfter returns a command that clears the status message after a delay
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
