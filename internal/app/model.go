package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/rfairley/bundleview/internal/archive"
	"github.com/rfairley/bundleview/internal/config"
	"github.com/rfairley/bundleview/internal/expand"
	"github.com/rfairley/bundleview/internal/lines"
	"github.com/rfairley/bundleview/internal/render"
	"github.com/rfairley/bundleview/internal/search"
	"github.com/rfairley/bundleview/internal/terminal"
	"github.com/rfairley/bundleview/internal/tree"
)

// Model is the main application model implementing tea.Model
type Model struct {
	source     archive.Source
	archiveID  string
	bundlePath string // local bundle file, empty when browsing a server archive
	cfg        config.Config
	sessions   expand.Persister
	renderer   *render.Renderer

	// Listing and tree state
	entries        []archive.Entry
	root           *tree.Node
	fingerprint    string
	expansion      *expand.Store
	searchRes      search.Result
	rows           []treeRow
	cursor         int
	loadingEntries bool
	entriesErr     string

	// Content viewer state
	fetch       fetchController
	content     render.Rendered
	contentPath string
	rawCache    map[string][]byte // path -> fetched bytes, for re-render and download
	mdPretty    bool
	mdRows      []string // glamour output when the pretty markdown view is on

	// Line selection (file currently in the viewer)
	selection lines.Selection

	// Name filter
	filtering   bool
	filterInput textinput.Model

	// Quick open overlay
	quickOpen    bool
	quickInput   textinput.Model
	quickResults []string
	quickCursor  int
	allFiles     []string

	// Layout
	tree       viewport.Model
	viewer     viewport.Model
	activePane Pane
	splitRatio float64
	fullWindow bool
	width      int
	height     int
	ready      bool

	showingHelp   bool
	statusMessage string
	statusIsError bool

	watcher *fsnotify.Watcher
}

// New creates and initializes the application model. bundlePath is empty
// when source is a remote archive; when set, the file is watched so edits
// to the bundle reload the listing.
func New(src archive.Source, archiveID, bundlePath string, cfg config.Config, sessions expand.Persister) Model {
	splitRatio := 0.4
	if cfg.SplitRatio >= 0.2 && cfg.SplitRatio <= 0.8 {
		splitRatio = cfg.SplitRatio
	}

	fi := textinput.New()
	fi.Placeholder = "Filter by name..."
	fi.CharLimit = 100
	fi.Width = 40

	qi := textinput.New()
	qi.Placeholder = "Jump to file..."
	qi.CharLimit = 100
	qi.Width = 40

	caps := terminal.Detect()

	var watcher *fsnotify.Watcher
	if bundlePath != "" {
		watcher, _ = fsnotify.NewWatcher()
		if watcher != nil {
			watcher.Add(bundlePath)
		}
	}

	return Model{
		source:         src,
		archiveID:      archiveID,
		bundlePath:     bundlePath,
		cfg:            cfg,
		sessions:       sessions,
		renderer:       render.New(cfg.Theme, caps.ChromaFormatter()),
		loadingEntries: true,
		rawCache:       make(map[string][]byte),
		selection:      lines.Selection{},
		filterInput:    fi,
		quickInput:     qi,
		activePane:     TreePane,
		splitRatio:     splitRatio,
		watcher:        watcher,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEntries(), m.waitForBundleEvent())
}

// rebuildRows recomputes the visible tree rows and clamps the cursor.
func (m *Model) rebuildRows() {
	m.rows = visibleRows(m.root, m.expansion, m.searchRes)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.ready {
		m.tree.SetContent(m.renderTree())
	}
}

// LeftPaneWidth returns the width of the left (tree) pane
func (m Model) LeftPaneWidth() int {
	usable := m.width - 4 // 2 for each pane's border
	return int(float64(usable) * m.splitRatio)
}

// RightPaneWidth returns the width of the right (viewer) pane
func (m Model) RightPaneWidth() int {
	if m.fullWindow {
		return m.width - 4
	}
	usable := m.width - 4
	return usable - m.LeftPaneWidth()
}

// HandlePaneResize adjusts the split ratio between tree and viewer panes
func (m *Model) HandlePaneResize(direction string) {
	switch direction {
	case "left":
		if m.splitRatio > 0.2 {
			m.splitRatio -= 0.05
		}
	case "right":
		if m.splitRatio < 0.8 {
			m.splitRatio += 0.05
		}
	}
	m.cfg.SplitRatio = m.splitRatio
	config.Save(m.cfg)
	m.resizePanes()
	m.rerenderContent()
}

// resizePanes applies the current layout to both viewports.
func (m *Model) resizePanes() {
	if !m.ready {
		return
	}
	paneHeight := m.height - 4
	m.tree.Width = m.LeftPaneWidth() - 2
	m.tree.Height = paneHeight
	m.viewer.Width = m.RightPaneWidth() - 2
	m.viewer.Height = paneHeight
	m.tree.SetContent(m.renderTree())
}

// gutterTotal is the width consumed by the line number gutter for a file
// with the given number of rows.
func gutterTotal(rowCount int) int {
	return gutterWidth(rowCount) + 3 // number + " │ "
}

func gutterWidth(rowCount int) int {
	w := len(fmt.Sprintf("%d", rowCount))
	if w < 4 {
		w = 4
	}
	return w
}

// humanSize formats bytes into a human-readable size string
func humanSize(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
