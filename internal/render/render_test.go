package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want Mode
	}{
		{"null bytes mean binary", "a.bin", []byte{0x7f, 0x00, 0x41}, ModeBinary},
		{"escape in first line", "run.log", []byte("\x1b[31mFAIL\x1b[0m\nplain"), ModeANSI},
		{"escape only in later line is not ansi", "run.log", []byte("plain\n\x1b[31mred"), ModePlain},
		{"markdown extension", "README.md", []byte("# hi"), ModeMarkdown},
		{"structured extension", "out.json", []byte(`{"a":1}`), ModeCode},
		{"unknown extension", "notes.txt", []byte("hello"), ModePlain},
		{"binary wins over extension", "data.json", []byte{'{', 0x00}, ModeBinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.file, tt.data))
		})
	}
}

func TestRenderPlainKeepsRowPerLine(t *testing.T) {
	r := New("monokai", "terminal256")
	out := r.Render("notes.txt", []byte("one\ntwo\nthree\n"), 80)

	assert.Equal(t, ModePlain, out.Mode)
	assert.Equal(t, []string{"one", "two", "three"}, out.Lines)
}

func TestRenderANSIPreservesRowsAndResets(t *testing.T) {
	r := New("monokai", "terminal256")
	out := r.Render("run.log", []byte("\x1b[32mPASS\x1b[0m case a\n\x1b[31mFAIL\x1b[0m case b\n"), 80)

	assert.Equal(t, ModeANSI, out.Mode)
	assert.Len(t, out.Lines, 2)
	for _, line := range out.Lines {
		assert.True(t, strings.HasSuffix(line, "\x1b[0m"))
	}
	assert.Contains(t, out.Lines[0], "PASS")
	assert.Contains(t, out.Lines[1], "FAIL")
}

func TestRenderCodeKeepsRowCount(t *testing.T) {
	r := New("monokai", "terminal256")

	tests := []struct {
		name string
		file string
		src  string
		rows int
	}{
		{"trailing newline", "result.json", "{\n  \"ok\": true,\n  \"n\": 3\n}\n", 4},
		{"blank interior lines", "conf.yaml", "a: 1\n\n\nb: 2\n", 4},
		{"no trailing newline", "conf.yaml", "a: 1\nb: 2", 2},
		{"single line", "one.json", "{\"a\":1}\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Render(tt.file, []byte(tt.src), 200)
			assert.Equal(t, ModeCode, out.Mode)
			assert.Len(t, out.Lines, tt.rows)
		})
	}
}

func TestRenderBinaryNotice(t *testing.T) {
	r := New("monokai", "terminal256")
	out := r.Render("blob.bin", []byte{0x00, 0x01}, 80)

	assert.Equal(t, ModeBinary, out.Mode)
	assert.Equal(t, []string{"binary content"}, out.Lines)
}

func TestTruncationAtWidth(t *testing.T) {
	r := New("monokai", "terminal256")
	out := r.Render("notes.txt", []byte(strings.Repeat("x", 100)), 10)

	assert.Len(t, out.Lines, 1)
	assert.LessOrEqual(t, len([]rune(out.Lines[0])), 10)
}

func TestCRLFNormalized(t *testing.T) {
	r := New("monokai", "terminal256")
	out := r.Render("notes.txt", []byte("a\r\nb\r\n"), 80)
	assert.Equal(t, []string{"a", "b"}, out.Lines)
}
