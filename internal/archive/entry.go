package archive

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Entry is one record in the flat listing of a bundle: a slash-separated
// path, a directory flag, size in bytes, and modification time.
type Entry struct {
	Path     string
	IsDir    bool
	Size     uint64
	Modified time.Time
}

// fingerprintEntries is how many leading entry names feed the fingerprint.
const fingerprintEntries = 5

// Fingerprint derives a short key from the first few entry names. It scopes
// persisted UI state to a specific bundle: the same bundle reopened later
// restores prior state, a different bundle starts fresh.
func Fingerprint(entries []Entry) string {
	h := sha1.New()
	n := len(entries)
	if n > fingerprintEntries {
		n = fingerprintEntries
	}
	for i := 0; i < n; i++ {
		h.Write([]byte(entries[i].Path))
		h.Write([]byte{0})
	}
	fmt.Fprintf(h, "%d", len(entries))
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// wireEntry mirrors the listing service's JSON representation. The modified
// field arrives either as an ISO8601 string or as epoch seconds.
type wireEntry struct {
	Name        string       `json:"name"`
	IsDirectory bool         `json:"is_directory"`
	Size        uint64       `json:"size"`
	Modified    wireModified `json:"modified"`
}

type wireModified struct {
	time.Time
}

func (m *wireModified) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse modified time %q: %w", s, err)
		}
		m.Time = t
		return nil
	}
	epoch, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse modified time %s: %w", data, err)
	}
	m.Time = time.Unix(int64(epoch), 0).UTC()
	return nil
}

func (w wireEntry) toEntry() Entry {
	return Entry{
		Path:     w.Name,
		IsDir:    w.IsDirectory,
		Size:     w.Size,
		Modified: w.Modified.Time,
	}
}
