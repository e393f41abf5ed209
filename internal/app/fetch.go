package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/rfairley/bundleview/internal/archive"
)

// maxViewSize is the ceiling for in-viewer content. Larger payloads are
// never decoded; the user is pointed at download instead.
const maxViewSize = 5 << 20 // 5 MiB

type fetchState int

const (
	fetchIdle fetchState = iota
	fetchLoading
	fetchLoaded
	fetchErrored
)

// fetchController manages the async lifecycle of loading a selected file.
// Every start bumps the generation counter; a completion may only mutate
// state when its generation still matches, so late results from superseded
// requests are dropped rather than cancelled.
type fetchController struct {
	state    fetchState
	gen      uint64
	path     string
	data     []byte
	errMsg   string
	oversize bool
}

// start transitions to Loading for path and returns the extraction command.
// Selecting a path that is already loading issues a fresh request; the old
// completion's generation no longer matches and will be discarded.
func (c *fetchController) start(src archive.Source, path string) tea.Cmd {
	c.gen++
	c.state = fetchLoading
	c.path = path
	c.data = nil
	c.errMsg = ""
	c.oversize = false

	gen := c.gen
	return func() tea.Msg {
		data, err := src.Extract(context.Background(), path)
		return ContentLoadedMsg{Gen: gen, Path: path, Data: data, Err: err}
	}
}

// resolve applies a completion. It returns false when the completion is
// stale and was dropped without touching any state.
func (c *fetchController) resolve(msg ContentLoadedMsg) bool {
	if msg.Gen != c.gen {
		logrus.WithFields(logrus.Fields{
			"path": msg.Path,
			"gen":  msg.Gen,
		}).Debug("dropped stale extraction result")
		return false
	}

	switch {
	case msg.Err != nil:
		c.state = fetchErrored
		c.errMsg = msg.Err.Error()
	case len(msg.Data) > maxViewSize:
		c.state = fetchErrored
		c.oversize = true
		c.errMsg = fmt.Sprintf("file is %s, too large to view (press d to download)",
			humanSize(uint64(len(msg.Data))))
	default:
		c.state = fetchLoaded
		c.data = msg.Data
	}
	return true
}

// markLoaded transitions straight to Loaded for cached content. The bump
// invalidates any request still in flight.
func (c *fetchController) markLoaded(path string, data []byte) {
	c.gen++
	c.state = fetchLoaded
	c.path = path
	c.data = data
	c.errMsg = ""
	c.oversize = false
}

// reset returns the controller to Idle.
func (c *fetchController) reset() {
	c.gen++
	c.state = fetchIdle
	c.path = ""
	c.data = nil
	c.errMsg = ""
	c.oversize = false
}
