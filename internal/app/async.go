package app

import (
	"context"
	"os"
	"path"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// loadEntries returns a command that fetches the bundle listing.
func (m Model) loadEntries() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		entries, err := src.List(context.Background())
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

// downloadFile returns a command that extracts filePath and writes its
// basename into the current working directory, bypassing the viewer size
// ceiling.
func (m Model) downloadFile(filePath string) tea.Cmd {
	src := m.source
	if data, ok := m.rawCache[filePath]; ok {
		return func() tea.Msg {
			name := path.Base(filePath)
			return DownloadDoneMsg{Path: name, Err: os.WriteFile(name, data, 0o644)}
		}
	}
	return func() tea.Msg {
		data, err := src.Extract(context.Background(), filePath)
		if err != nil {
			return DownloadDoneMsg{Path: filePath, Err: err}
		}
		name := path.Base(filePath)
		return DownloadDoneMsg{Path: name, Err: os.WriteFile(name, data, 0o644)}
	}
}

// waitForBundleEvent returns a command that waits for the next change to
// the watched bundle file.
func (m Model) waitForBundleEvent() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	watcher := m.watcher
	return func() tea.Msg {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logrus.WithField("event", ev.String()).Debug("bundle changed on disk")
			// Debounce: drain any additional events that came in
			for {
				select {
				case <-watcher.Events:
				default:
					return BundleChangedMsg{}
				}
			}
		case <-watcher.Errors:
			return nil
		}
	}
}
