package detect

import "strings"

// LineKey identifies one line of one file.
type LineKey struct {
	File string
	Line int
}

// LineTracker remembers the last observed text of every line it has been
// shown. Entries are never evicted.
type LineTracker struct {
	last map[LineKey]string
}

// NewLineTracker returns an empty tracker.
func NewLineTracker() *LineTracker {
	return &LineTracker{last: make(map[LineKey]string)}
}

// Observe records text as the current content of (file, line) and reports
// whether it differs from the previous observation. The first observation of
// a line always counts as a change.
func (lt *LineTracker) Observe(file string, line int, text string) bool {
	key := LineKey{File: file, Line: line}
	if prev, ok := lt.last[key]; ok && prev == text {
		return false
	}
	lt.last[key] = text
	return true
}

// Len returns the number of tracked lines.
func (lt *LineTracker) Len() int {
	return len(lt.last)
}

// LineAt returns the zero-based line of text without its line terminator.
func LineAt(text string, line int) (string, bool) {
	if line < 0 {
		return "", false
	}
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			return "", false
		}
		text = text[nl+1:]
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	return strings.TrimSuffix(text, "\r"), true
}
