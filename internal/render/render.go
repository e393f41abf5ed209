// Package render turns fetched file bytes into per-line terminal output.
// Every strategy preserves one rendered row per source line so the caller's
// line-number gutter stays a stable anchor for selection and permalinks.
package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const ansiReset = "\x1b[0m"

// Rendered is the result of rendering one file.
type Rendered struct {
	Mode  Mode
	Lines []string
}

// Renderer renders file contents for a specific terminal.
type Renderer struct {
	style     string // chroma style name
	formatter string // chroma formatter name
}

// New creates a renderer using the given chroma style and formatter.
func New(style, formatter string) *Renderer {
	if style == "" {
		style = "monokai"
	}
	if formatter == "" {
		formatter = "terminal256"
	}
	return &Renderer{style: style, formatter: formatter}
}

// Render dispatches on the detected content type and returns one row per
// source line, each truncated to width.
func (r *Renderer) Render(name string, data []byte, width int) Rendered {
	mode := Detect(name, data)

	switch mode {
	case ModeBinary:
		return Rendered{Mode: mode, Lines: []string{"binary content"}}

	case ModeANSI:
		// Pre-colored output: each line rendered independently, with a
		// reset so styling never bleeds across rows.
		rows := splitLines(string(data))
		for i, line := range rows {
			rows[i] = truncLine(line, width) + ansiReset
		}
		return Rendered{Mode: mode, Lines: rows}

	case ModeCode, ModeMarkdown:
		highlighted, err := r.highlight(string(data), name)
		if err != nil {
			// Tokenizer failure falls back to plain rendering.
			return Rendered{Mode: ModePlain, Lines: plainRows(string(data), width)}
		}
		rows := splitLines(highlighted)
		// The terminal formatters close their output with a reset on a line
		// of its own, so the final split element can be escape-only rather
		// than empty. Rows past the source line count with no visible
		// content are formatter tail, not source lines.
		srcCount := len(splitLines(string(data)))
		for len(rows) > srcCount && ansi.Strip(rows[len(rows)-1]) == "" {
			rows = rows[:len(rows)-1]
		}
		for i, line := range rows {
			rows[i] = truncLine(line, width) + ansiReset
		}
		return Rendered{Mode: mode, Lines: rows}

	default:
		return Rendered{Mode: ModePlain, Lines: plainRows(string(data), width)}
	}
}

// RenderMarkdown renders markdown through glamour for the toggled "pretty"
// view. Rendered rows no longer map to source lines, so callers disable
// line selection while this view is active.
func (r *Renderer) RenderMarkdown(data []byte, width int) ([]string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(string(data))
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (r *Renderer) highlight(code, filename string) (string, error) {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, code, filename, r.formatter, r.style); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func plainRows(text string, width int) []string {
	rows := splitLines(text)
	for i, line := range rows {
		rows[i] = truncLine(line, width)
	}
	return rows
}

func truncLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	return truncate.StringWithTail(line, uint(width), "…")
}

// splitLines splits on newlines, dropping the empty trailing element a
// final newline produces so row count equals source line count.
func splitLines(text string) []string {
	rows := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(rows) > 1 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}
