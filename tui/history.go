package tui

import "strings"

// History keeps the most recent input lines for up/down recall.
type History struct {
	entries []string
	max     int
	back    int // steps back from the newest entry; 0 means editing fresh input
}

// NewHistory returns an empty history holding at most max lines.
func NewHistory(max int) *History {
	return &History{entries: make([]string, 0, max), max: max}
}

// Push records a submitted line unless it repeats the newest one.
func (h *History) Push(line string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = h.entries[over:]
	}
}

// Prev steps toward older lines and stops at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.back < len(h.entries) {
		h.back++
	}
	return h.at(), true
}

// Next steps toward newer lines. Stepping past the newest returns false,
// meaning the prompt should go back to empty input.
func (h *History) Next() (string, bool) {
	if h.back <= 1 {
		h.back = 0
		return "", false
	}
	h.back--
	return h.at(), true
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.back = 0
}

// Repeatable returns the newest game command, skipping meta commands and
// the repeat words themselves.
func (h *History) Repeatable() (string, bool) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		line := h.entries[i]
		if strings.HasPrefix(line, "/") || isRepeat(line) {
			continue
		}
		return line, true
	}
	return "", false
}

func (h *History) at() string {
	return h.entries[len(h.entries)-h.back]
}

func isRepeat(line string) bool {
	lower := strings.ToLower(line)
	return lower == "again" || lower == "g"
}
