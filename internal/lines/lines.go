// Package lines implements the multi-mode line-selection model and its
// compact URL parameter grammar, e.g. lines=10,12-15,40. Selections are
// shareable: every mutation re-serializes into the permalink.
package lines

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Param is the query parameter key owned by the selection model.
const Param = "lines"

// Selection is a set of highlighted line numbers (1-based).
type Selection map[uint32]struct{}

// Gesture is one of the three line-click interaction modes.
type Gesture int

const (
	// GesturePlain replaces the selection with the clicked line.
	GesturePlain Gesture = iota
	// GestureToggle flips the clicked line's membership (modifier-click).
	GestureToggle
	// GestureRange replaces the selection with the inclusive range between
	// the clicked line and the current selection's maximum (shift-click).
	GestureRange
)

// Parse decodes the parameter grammar: comma-separated tokens, each a single
// positive integer or an inclusive range a-b with a <= b. Bad tokens are
// skipped, never fatal.
func Parse(s string) Selection {
	sel := Selection{}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if a, b, ok := strings.Cut(tok, "-"); ok {
			lo, err1 := strconv.ParseUint(a, 10, 32)
			hi, err2 := strconv.ParseUint(b, 10, 32)
			if err1 != nil || err2 != nil || lo == 0 || lo > hi {
				continue
			}
			for n := lo; n <= hi; n++ {
				sel[uint32(n)] = struct{}{}
			}
			continue
		}
		n, err := strconv.ParseUint(tok, 10, 32)
		if err != nil || n == 0 {
			continue
		}
		sel[uint32(n)] = struct{}{}
	}
	return sel
}

// String serializes the selection back into the grammar with consecutive
// runs collapsed into ranges: {1,2,3,5} becomes "1-3,5". Empty selections
// serialize to "".
func (s Selection) String() string {
	if len(s) == 0 {
		return ""
	}
	nums := s.sorted()

	var parts []string
	start, prev := nums[0], nums[0]
	flush := func() {
		switch {
		case start == prev:
			parts = append(parts, strconv.FormatUint(uint64(start), 10))
		default:
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, n := range nums[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		flush()
		start, prev = n, n
	}
	flush()
	return strings.Join(parts, ",")
}

// Has reports membership of line n.
func (s Selection) Has(n uint32) bool {
	_, ok := s[n]
	return ok
}

// Max returns the largest selected line, or 0 for an empty selection.
func (s Selection) Max() uint32 {
	var max uint32
	for n := range s {
		if n > max {
			max = n
		}
	}
	return max
}

func (s Selection) sorted() []uint32 {
	nums := make([]uint32, 0, len(s))
	for n := range s {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	return nums
}

// Apply evaluates a gesture on line n against the current selection and
// returns the new selection. The input is never mutated.
func Apply(g Gesture, n uint32, cur Selection) Selection {
	if n == 0 {
		return cur
	}
	switch g {
	case GestureToggle:
		next := Selection{}
		for k := range cur {
			next[k] = struct{}{}
		}
		if next.Has(n) {
			delete(next, n)
		} else {
			next[n] = struct{}{}
		}
		return next

	case GestureRange:
		anchor := cur.Max()
		if anchor == 0 {
			// No current selection: range degrades to a plain click.
			return Selection{n: {}}
		}
		lo, hi := n, anchor
		if lo > hi {
			lo, hi = hi, lo
		}
		next := Selection{}
		for i := lo; i <= hi; i++ {
			next[i] = struct{}{}
		}
		return next

	default: // GesturePlain
		return Selection{n: {}}
	}
}

// FromQuery reads the selection out of URL query values.
func FromQuery(q url.Values) Selection {
	return Parse(q.Get(Param))
}

// SetQuery writes the selection into q, removing the parameter entirely when
// the selection is empty rather than writing an empty value.
func SetQuery(q url.Values, s Selection) {
	if len(s) == 0 {
		q.Del(Param)
		return
	}
	q.Set(Param, s.String())
}

// Permalink builds the shareable deep link for a file in an archive, with
// the selection encoded in the lines parameter.
func Permalink(base, archiveID, filePath string, s Selection) string {
	base = strings.TrimRight(base, "/")
	var b strings.Builder
	fmt.Fprintf(&b, "%s/archives/%s/files", base, url.PathEscape(archiveID))
	for _, seg := range strings.Split(filePath, "/") {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	if len(s) > 0 {
		q := url.Values{}
		SetQuery(q, s)
		b.WriteByte('?')
		b.WriteString(q.Encode())
	}
	return b.String()
}
