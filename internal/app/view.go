package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/rfairley/bundleview/internal/render"
	"github.com/rfairley/bundleview/internal/ui/styles"
)

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	headerStyle := styles.Header.Padding(0, 1)
	header := headerStyle.Render("bundleview") +
		styles.Faint.Render(" "+m.archiveLabel())
	if m.loadingEntries {
		header += "  " + styles.StatusWarning.Render("loading...")
	}

	paneHeight := m.height - 4 // header(1) + footer(1) + borders(2)

	var body string
	if m.fullWindow {
		viewerStyle := styles.ActiveBorder().
			Width(m.RightPaneWidth()).
			Height(paneHeight).
			Padding(0, 1)
		body = viewerStyle.Render(m.viewer.View())
	} else {
		treeStyle := styles.InactiveBorder()
		if m.activePane == TreePane {
			treeStyle = styles.ActiveBorder()
		}
		treeStyle = treeStyle.
			Width(m.LeftPaneWidth()).
			Height(paneHeight).
			Padding(0, 1)

		viewerStyle := styles.InactiveBorder()
		if m.activePane == ContentPane {
			viewerStyle = styles.ActiveBorder()
		}
		viewerStyle = viewerStyle.
			Width(m.RightPaneWidth()).
			Height(paneHeight).
			Padding(0, 1)

		body = lipgloss.JoinHorizontal(lipgloss.Top,
			treeStyle.Render(m.tree.View()),
			viewerStyle.Render(m.viewer.View()))
	}

	footer := m.renderFooter()
	mainView := header + "\n" + body + "\n" + footer

	if m.showingHelp {
		return m.renderHelpOverlay()
	}
	if m.filtering {
		// Filter input replaces the footer so the narrowed tree stays
		// visible while typing.
		return header + "\n" + body + "\n" + m.filterInput.View()
	}
	if m.quickOpen {
		return m.renderQuickOpenOverlay()
	}

	return mainView
}

func (m Model) archiveLabel() string {
	if m.bundlePath != "" {
		return m.bundlePath
	}
	return m.archiveID
}

func (m Model) renderFooter() string {
	footer := styles.Faint.Render("/ filter  o jump  E expand  C collapse  f full  d save  y link  q quit  ? help")
	if m.fetch.state == fetchLoaded {
		footer = styles.Faint.Render(contentModeLabel(m.content.Mode)) + "  " + footer
	}
	if m.searchRes.Active() {
		footer = styles.MatchName.Render("FILTER "+m.searchRes.Query) + "  " + footer
	}
	if len(m.selection) > 0 {
		footer = styles.Gutter.Render("lines "+m.selection.String()) + "  " + footer
	}
	if m.statusMessage != "" {
		statusStyle := styles.StatusSuccess
		if m.statusIsError {
			statusStyle = styles.StatusError
		}
		footer = statusStyle.Render(m.statusMessage) + "  " + footer
	}
	return footer
}

// renderTree renders the tree pane content
func (m Model) renderTree() string {
	if m.entriesErr != "" {
		return styles.StatusError.Render("Error: " + m.entriesErr)
	}
	if len(m.rows) == 0 {
		if m.searchRes.Active() {
			return styles.Faint.Render("No matches")
		}
		return styles.Faint.Render("Empty bundle")
	}

	var b strings.Builder
	for i, row := range m.rows {
		indent := strings.Repeat("  ", row.depth)

		icon := "  "
		if row.node.IsDir {
			if m.expansion.IsExpanded(row.node.Path) {
				icon = "v "
			} else {
				icon = "> "
			}
		}

		name := row.node.Name
		if i != m.cursor && m.searchRes.IsMatch(row.node.Path) {
			name = styles.MatchName.Render(name)
		} else if i != m.cursor && row.node.IsDir {
			name = styles.Dir.Render(name)
		}

		badge := m.sizeBadge(row)
		line := indent + icon + name + badge

		if i == m.cursor {
			// The cursor row restyles as one block, unstyled parts
			line = styles.Selected.Render(indent + icon + row.node.Name + ansi.Strip(badge))
		}

		b.WriteString(line + "\n")
	}
	return b.String()
}

// sizeBadge renders the aggregate annotation after a tree name. Directories
// show total descendant size and file count, files their own size.
func (m Model) sizeBadge(row treeRow) string {
	if row.node.IsDir {
		return " " + styles.SizeBadge.Render(
			fmt.Sprintf("(%s, %d files)", humanSize(row.node.Size), row.node.FileCount))
	}
	return " " + styles.SizeBadge.Render(humanSize(row.node.Size))
}

// syncViewer rebuilds the viewer pane content from the fetch state.
func (m *Model) syncViewer() {
	if !m.ready {
		return
	}
	switch m.fetch.state {
	case fetchIdle:
		m.viewer.SetContent(styles.Faint.Render("Select a file to view"))
	case fetchLoading:
		m.viewer.SetContent("Loading...")
	case fetchErrored:
		style := styles.StatusError
		if m.fetch.oversize {
			style = styles.StatusWarning
		}
		m.viewer.SetContent(style.Render(m.fetch.errMsg))
	case fetchLoaded:
		m.viewer.SetContent(m.renderViewerContent())
	}
}

// renderViewerContent joins the rendered rows with a line number gutter,
// painting selected lines as solid highlight blocks.
func (m Model) renderViewerContent() string {
	if m.mdPretty {
		return strings.Join(m.mdRows, "\n")
	}

	rows := m.content.Lines
	gw := gutterWidth(len(rows))
	width := m.RightPaneWidth() - 2

	var b strings.Builder
	for i, line := range rows {
		n := uint32(i + 1)
		gutter := fmt.Sprintf("%*d │ ", gw, n)

		if m.selection.Has(n) {
			// Selection overrides syntax colors for the whole row
			clean := gutter + ansi.Strip(line)
			if pad := width - lipgloss.Width(clean); pad > 0 {
				clean += strings.Repeat(" ", pad)
			}
			b.WriteString(styles.Highlight.Render(clean))
		} else {
			b.WriteString(styles.Gutter.Render(gutter))
			b.WriteString(line)
		}
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderQuickOpenOverlay() string {
	boxWidth := m.width * 60 / 100
	if boxWidth > 70 {
		boxWidth = 70
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	maxVisible := m.height - 12
	if maxVisible < 3 {
		maxVisible = 3
	}
	if maxVisible > 20 {
		maxVisible = 20
	}

	var content strings.Builder
	content.WriteString(m.quickInput.View())
	content.WriteString("\n\n")

	if len(m.quickResults) == 0 && m.quickInput.Value() != "" {
		content.WriteString(styles.Faint.Render("No matches"))
	} else {
		end := len(m.quickResults)
		if end > maxVisible {
			end = maxVisible
		}
		for i := 0; i < end; i++ {
			line := m.quickResults[i]
			if i == m.quickCursor {
				line = styles.Selected.Render(line)
			} else {
				line = styles.Faint.Render(line)
			}
			content.WriteString(line + "\n")
		}
		if len(m.quickResults) > maxVisible {
			content.WriteString(styles.Faint.Render(
				fmt.Sprintf("  %d more", len(m.quickResults)-maxVisible)))
		}
	}

	box := styles.ActiveBorder().
		Padding(1, 2).
		Width(boxWidth).
		Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHelpOverlay() string {
	keyStyle := styles.Header
	descStyle := styles.Normal

	row := func(key, desc string) string {
		return keyStyle.Render(fmt.Sprintf("  %-12s", key)) + descStyle.Render(desc)
	}

	help := strings.Join([]string{
		styles.Title.Render("Keys"),
		"",
		row("j/k", "move cursor / scroll"),
		row("enter, l", "open file or toggle directory"),
		row("h", "collapse directory"),
		row("E / C", "expand all / collapse all"),
		row("tab", "switch pane"),
		row("/", "filter tree by name"),
		row("o", "jump to file"),
		row("f", "toggle full-window viewer"),
		row("d", "save file to current directory"),
		row("y", "copy permalink (with selected lines)"),
		row("c", "copy selected lines"),
		row("x", "clear line selection"),
		row("r", "toggle pretty markdown"),
		row("click", "select line"),
		row("ctrl+click", "toggle line in selection"),
		row("shift+click", "select range"),
		row("left/right", "resize panes"),
		row("g/G", "top / bottom"),
		row("q", "quit"),
	}, "\n")

	box := styles.ActiveBorder().
		Padding(1, 2).
		Render(help)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// contentModeLabel names the active rendering mode for the footer.
func contentModeLabel(mode render.Mode) string {
	return mode.String()
}
