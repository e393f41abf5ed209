package render

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Mode selects the rendering strategy for fetched content.
type Mode int

const (
	ModePlain Mode = iota
	ModeANSI
	ModeCode
	ModeMarkdown
	ModeBinary
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeANSI:
		return "ansi"
	case ModeCode:
		return "code"
	case ModeMarkdown:
		return "markdown"
	case ModeBinary:
		return "binary"
	default:
		return "plain"
	}
}

// structuredExts is the set of formats handed to the syntax tokenizer.
var structuredExts = map[string]bool{
	".json":  true,
	".yaml":  true,
	".yml":   true,
	".xml":   true,
	".html":  true,
	".toml":  true,
	".go":    true,
	".py":    true,
	".js":    true,
	".ts":    true,
	".rs":    true,
	".sh":    true,
	".sql":   true,
	".css":   true,
	".proto": true,
}

// Detect picks the rendering strategy, evaluated in order: binary content,
// raw ANSI-colored text (escape marker in the first line), markdown,
// structured formats, plain.
func Detect(name string, data []byte) Mode {
	if isBinary(data) {
		return ModeBinary
	}
	if firstLineHasEscape(data) {
		return ModeANSI
	}
	switch ext := strings.ToLower(filepath.Ext(name)); {
	case ext == ".md" || ext == ".markdown":
		return ModeMarkdown
	case structuredExts[ext]:
		return ModeCode
	}
	return ModePlain
}

// isBinary checks for null bytes in the first 512 bytes.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 512 {
		probe = probe[:512]
	}
	return bytes.IndexByte(probe, 0) != -1
}

// firstLineHasEscape reports whether the first line carries a CSI color
// escape, the marker for pre-colored terminal output such as test logs.
func firstLineHasEscape(data []byte) bool {
	line := data
	if i := bytes.IndexByte(data, '\n'); i != -1 {
		line = data[:i]
	}
	return bytes.Contains(line, []byte("\x1b["))
}
