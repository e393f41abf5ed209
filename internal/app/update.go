package app

import (
	"bytes"
	"path"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/rfairley/bundleview/internal/archive"
	"github.com/rfairley/bundleview/internal/clipboard"
	"github.com/rfairley/bundleview/internal/expand"
	"github.com/rfairley/bundleview/internal/lines"
	"github.com/rfairley/bundleview/internal/render"
	"github.com/rfairley/bundleview/internal/search"
	"github.com/rfairley/bundleview/internal/tree"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Bundle file changed on disk: reload the listing and keep watching
	if _, ok := msg.(BundleChangedMsg); ok {
		m.loadingEntries = true
		m.setStatus("Bundle changed, reloading...", false)
		return m, tea.Batch(
			m.loadEntries(),
			m.waitForBundleEvent(),
			ClearStatusAfter(3*time.Second),
		)
	}

	if msg, ok := msg.(EntriesLoadedMsg); ok {
		return m.handleEntriesLoaded(msg)
	}

	if msg, ok := msg.(ContentLoadedMsg); ok {
		if !m.fetch.resolve(msg) {
			return m, nil
		}
		if m.fetch.state == fetchLoaded {
			m.rawCache[msg.Path] = msg.Data
			m.setLoadedContent(msg.Path, msg.Data)
			m.viewer.GotoTop()
		}
		m.syncViewer()
		return m, nil
	}

	if msg, ok := msg.(DownloadDoneMsg); ok {
		if msg.Err != nil {
			m.setStatus("Download failed: "+msg.Err.Error(), true)
		} else {
			m.setStatus("Saved "+msg.Path, false)
		}
		return m, ClearStatusAfter(5 * time.Second)
	}

	if _, ok := msg.(ClearStatusMsg); ok {
		m.statusMessage = ""
		return m, nil
	}

	// Help toggle works from any mode
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "?" && !m.filtering && !m.quickOpen {
		m.showingHelp = !m.showingHelp
		return m, nil
	}
	if m.showingHelp {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q", "esc":
				m.showingHelp = false
			}
		}
		return m, nil
	}

	if m.filtering {
		return m.updateFilter(msg)
	}
	if m.quickOpen {
		return m.updateQuickOpen(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		paneHeight := m.height - 4
		if !m.ready {
			m.tree = viewport.New(m.LeftPaneWidth()-2, paneHeight)
			m.viewer = viewport.New(m.RightPaneWidth()-2, paneHeight)
			m.ready = true
			m.tree.SetContent(m.renderTree())
			m.syncViewer()
		} else {
			m.resizePanes()
			m.rerenderContent()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleEntriesLoaded(msg EntriesLoadedMsg) (tea.Model, tea.Cmd) {
	m.loadingEntries = false
	if msg.Err != nil {
		m.entriesErr = msg.Err.Error()
		return m, nil
	}
	m.entriesErr = ""
	m.entries = msg.Entries
	m.root = tree.Build(msg.Entries)
	m.fingerprint = archive.Fingerprint(msg.Entries)
	m.expansion = expand.NewStore(m.fingerprint, m.sessions)
	m.allFiles = m.root.FilePaths()

	// Stale content from the previous listing is discarded; the viewer
	// resets if its file no longer exists.
	m.rawCache = make(map[string][]byte)
	if m.contentPath != "" && m.root.Lookup(m.contentPath) == nil {
		m.fetch.reset()
		m.contentPath = ""
		m.content = render.Rendered{}
		m.selection = lines.Selection{}
		m.mdPretty = false
		m.syncViewer()
	}

	if m.searchRes.Active() {
		m.applyFilter(m.searchRes.Query)
	} else {
		m.rebuildRows()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "q", "ctrl+c":
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit

	case "tab":
		if m.activePane == TreePane {
			m.activePane = ContentPane
		} else {
			m.activePane = TreePane
		}

	case "j", "down":
		if m.activePane == TreePane {
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.tree.SetContent(m.renderTree())
				if m.cursor >= m.tree.YOffset+m.tree.Height {
					m.tree.LineDown(1)
				}
			}
		} else {
			m.viewer.LineDown(1)
		}

	case "k", "up":
		if m.activePane == TreePane {
			if m.cursor > 0 {
				m.cursor--
				m.tree.SetContent(m.renderTree())
				if m.cursor < m.tree.YOffset {
					m.tree.LineUp(1)
				}
			}
		} else {
			m.viewer.LineUp(1)
		}

	case "g":
		if m.activePane == TreePane {
			m.cursor = 0
			m.tree.GotoTop()
			m.tree.SetContent(m.renderTree())
		} else {
			m.viewer.GotoTop()
		}

	case "G":
		if m.activePane == TreePane {
			m.cursor = len(m.rows) - 1
			if m.cursor < 0 {
				m.cursor = 0
			}
			m.tree.GotoBottom()
			m.tree.SetContent(m.renderTree())
		} else {
			m.viewer.GotoBottom()
		}

	case "enter", "l":
		if m.activePane == TreePane && m.cursor < len(m.rows) {
			row := m.rows[m.cursor]
			if row.node.IsDir {
				m.expansion.Toggle(row.node.Path)
				m.rebuildRows()
			} else {
				var cmd tea.Cmd
				m, cmd = m.selectPath(row.node.Path)
				cmds = append(cmds, cmd)
			}
		}

	case "h":
		if m.activePane == TreePane && m.cursor < len(m.rows) {
			row := m.rows[m.cursor]
			if row.node.IsDir && m.expansion.IsExpanded(row.node.Path) {
				m.expansion.Toggle(row.node.Path)
				m.rebuildRows()
			}
		}

	case "E":
		if m.expansion != nil && m.root != nil {
			m.expansion.ExpandAll(m.root)
			m.rebuildRows()
		}

	case "C":
		if m.expansion != nil {
			m.expansion.CollapseAll()
			m.rebuildRows()
		}

	case "/":
		m.filtering = true
		m.filterInput.Focus()
		m.filterInput.SetValue(m.searchRes.Query)
		m.filterInput.CursorEnd()
		return m, textinput.Blink

	case "o":
		m.quickOpen = true
		m.quickInput.Focus()
		m.quickInput.SetValue("")
		m.quickResults = nil
		m.quickCursor = 0
		return m, textinput.Blink

	case "right":
		m.HandlePaneResize("right")

	case "left":
		m.HandlePaneResize("left")

	case "f":
		m.fullWindow = !m.fullWindow
		if m.fullWindow {
			m.activePane = ContentPane
		}
		m.resizePanes()
		m.rerenderContent()

	case "d":
		if p := m.targetFile(); p != "" {
			m.setStatus("Downloading "+path.Base(p)+"...", false)
			return m, m.downloadFile(p)
		}

	case "y":
		if m.contentPath != "" && m.cfg.LinkBase != "" {
			link := lines.Permalink(m.cfg.LinkBase, m.archiveID, m.contentPath, m.selection)
			if err := clipboard.CopyLink(link); err != nil {
				m.setStatus("Clipboard unavailable", true)
			} else {
				m.setStatus("Copied link", false)
			}
			return m, ClearStatusAfter(3 * time.Second)
		}

	case "c":
		if rows := m.selectedRows(); len(rows) > 0 {
			if err := clipboard.CopyLines(rows); err != nil {
				m.setStatus("Clipboard unavailable", true)
			} else {
				m.setStatus("Copied selection", false)
			}
			return m, ClearStatusAfter(3 * time.Second)
		}

	case "x":
		if len(m.selection) > 0 {
			m.selection = lines.Selection{}
			m.syncViewer()
		}

	case "r":
		if m.content.Mode == render.ModeMarkdown && m.fetch.state == fetchLoaded {
			m.mdPretty = !m.mdPretty
			m.rerenderContent()
			m.viewer.GotoTop()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	divX := m.LeftPaneWidth() + 2

	// Auto-switch pane based on mouse position relative to divider
	if !m.fullWindow {
		if msg.X < divX {
			m.activePane = TreePane
		} else {
			m.activePane = ContentPane
		}
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.activePane == TreePane {
			m.tree.LineUp(3)
		} else {
			m.viewer.LineUp(3)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.activePane == TreePane {
			m.tree.LineDown(3)
		} else {
			m.viewer.LineDown(3)
		}
		return m, nil
	}

	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return m, nil
	}

	headerOffset := 2 // header + border
	if m.activePane == TreePane {
		clickedIndex := msg.Y - headerOffset + m.tree.YOffset
		if clickedIndex >= 0 && clickedIndex < len(m.rows) {
			m.cursor = clickedIndex
			row := m.rows[clickedIndex]
			if row.node.IsDir {
				m.expansion.Toggle(row.node.Path)
				m.rebuildRows()
			} else {
				m.tree.SetContent(m.renderTree())
				return m.selectPath(row.node.Path)
			}
		}
		return m, nil
	}

	// Content pane click: a line selection gesture
	if m.fetch.state != fetchLoaded || m.mdPretty || m.content.Mode == render.ModeBinary {
		return m, nil
	}
	clickedRow := msg.Y - headerOffset + m.viewer.YOffset
	if clickedRow < 0 || clickedRow >= len(m.content.Lines) {
		return m, nil
	}
	n := uint32(clickedRow + 1)

	g := lines.GesturePlain
	switch {
	case msg.Ctrl:
		g = lines.GestureToggle
	case msg.Shift:
		g = lines.GestureRange
	}
	m.selection = lines.Apply(g, n, m.selection)
	m.syncViewer()
	return m, nil
}

// selectPath opens a file in the viewer. A cached file shows instantly.
// Re-selecting a path that is still loading issues a fresh request rather
// than waiting on the old one.
func (m Model) selectPath(p string) (Model, tea.Cmd) {
	if p == m.contentPath && m.fetch.state == fetchLoaded {
		return m, nil
	}
	if p != m.contentPath {
		m.selection = lines.Selection{}
		m.mdPretty = false
	}
	m.contentPath = p

	if data, ok := m.rawCache[p]; ok {
		m.fetch.markLoaded(p, data)
		m.setLoadedContent(p, data)
		m.viewer.GotoTop()
		m.syncViewer()
		return m, nil
	}

	cmd := m.fetch.start(m.source, p)
	m.syncViewer()
	return m, cmd
}

// setLoadedContent renders raw bytes for the viewer at the current width.
func (m *Model) setLoadedContent(p string, data []byte) {
	rowGuess := bytes.Count(data, []byte("\n")) + 1
	width := m.RightPaneWidth() - 2 - gutterTotal(rowGuess)
	if width < 10 {
		width = 10
	}
	m.content = m.renderer.Render(path.Base(p), data, width)

	m.mdRows = nil
	if m.mdPretty && m.content.Mode == render.ModeMarkdown {
		rows, err := m.renderer.RenderMarkdown(data, m.RightPaneWidth()-4)
		if err != nil {
			m.mdPretty = false
		} else {
			m.mdRows = rows
		}
	}
}

// rerenderContent re-renders the current file after a layout change.
func (m *Model) rerenderContent() {
	if m.fetch.state == fetchLoaded && m.contentPath != "" {
		if data, ok := m.rawCache[m.contentPath]; ok {
			m.setLoadedContent(m.contentPath, data)
		}
	}
	m.syncViewer()
}

// targetFile resolves which file a file-scoped action applies to: the
// tree cursor when it sits on a file, otherwise the file in the viewer.
func (m Model) targetFile() string {
	if m.activePane == TreePane && m.cursor < len(m.rows) {
		if row := m.rows[m.cursor]; !row.node.IsDir {
			return row.node.Path
		}
	}
	return m.contentPath
}

// selectedRows returns the rendered rows for the selected lines, in order.
func (m Model) selectedRows() []string {
	if len(m.selection) == 0 || m.fetch.state != fetchLoaded || m.mdPretty {
		return nil
	}
	var rows []string
	for i, line := range m.content.Lines {
		if m.selection.Has(uint32(i + 1)) {
			rows = append(rows, line)
		}
	}
	return rows
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMessage = msg
	m.statusIsError = isErr
}

// applyFilter evaluates the name filter and unions its required expansions
// into the expansion state so every match is revealed. Manual expansions
// survive; clearing the query restores them untouched.
func (m *Model) applyFilter(query string) {
	if m.root == nil {
		return
	}
	m.searchRes = search.Apply(query, m.root)
	if m.searchRes.Active() && m.expansion != nil {
		m.expansion.Union(m.searchRes.ExpandPaths())
	}
	m.rebuildRows()
}

// updateFilter handles events while the name filter input is focused
func (m Model) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			// Cancel: drop the filter entirely
			m.filtering = false
			m.filterInput.Blur()
			m.applyFilter("")
			return m, nil

		case "enter":
			// Accept: keep the filter applied
			m.filtering = false
			m.filterInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	cmds = append(cmds, cmd)

	if q := m.filterInput.Value(); q != m.searchRes.Query {
		m.cursor = 0
		m.applyFilter(q)
	}

	return m, tea.Batch(cmds...)
}

// updateQuickOpen handles events while the fuzzy jump overlay is open
func (m Model) updateQuickOpen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.quickOpen = false
			m.quickInput.Blur()
			return m, nil

		case "up", "ctrl+p":
			if m.quickCursor > 0 {
				m.quickCursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.quickCursor < len(m.quickResults)-1 {
				m.quickCursor++
			}
			return m, nil

		case "enter":
			m.quickOpen = false
			m.quickInput.Blur()
			if m.quickCursor < len(m.quickResults) {
				return m.jumpToFile(m.quickResults[m.quickCursor])
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.quickInput, cmd = m.quickInput.Update(msg)
	cmds = append(cmds, cmd)

	query := m.quickInput.Value()
	if query == "" {
		m.quickResults = nil
		m.quickCursor = 0
	} else {
		matches := fuzzy.Find(query, m.allFiles)
		results := make([]string, 0, len(matches))
		for _, match := range matches {
			results = append(results, m.allFiles[match.Index])
		}
		m.quickResults = results
		m.quickCursor = 0
	}

	return m, tea.Batch(cmds...)
}

// jumpToFile reveals a file in the tree and opens it in the viewer. A name
// filter that would hide the file is dropped first.
func (m Model) jumpToFile(p string) (Model, tea.Cmd) {
	if m.searchRes.Active() && !m.searchRes.IsVisible(p) {
		m.filterInput.SetValue("")
		m.applyFilter("")
	}
	if m.expansion != nil {
		for _, dir := range ancestorDirs(p) {
			m.expansion.Expand(dir)
		}
	}
	m.rebuildRows()

	if idx := rowIndex(m.rows, p); idx >= 0 {
		m.cursor = idx
		m.tree.SetContent(m.renderTree())
		if m.cursor < m.tree.YOffset || m.cursor >= m.tree.YOffset+m.tree.Height {
			m.tree.SetYOffset(m.cursor)
		}
	}
	return m.selectPath(p)
}
