// Package logging configures file-backed logging for the TUI. Writing to
// stdout would corrupt the alternate screen, so everything goes to a log
// file under the user state directory.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup routes the standard logrus logger to the state-dir log file. With
// debug false only warnings and errors are recorded. When no log file can
// be opened, logging is discarded rather than failing startup.
func Setup(debug bool) {
	logrus.SetOutput(io.Discard)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	path := logPath()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	logrus.SetOutput(f)
}

func logPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "bundleview", "bundleview.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "bundleview", "bundleview.log")
}

// StatePath returns the directory for durable state such as the session
// database, creating it if needed.
func StatePath() (string, error) {
	var dir string
	if env := os.Getenv("XDG_STATE_HOME"); env != "" {
		dir = filepath.Join(env, "bundleview")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "state", "bundleview")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
