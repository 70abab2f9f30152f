// Package detect holds the change detectors that turn document snapshots into
// trace events: the comment set differ, the line evolution tracker, and the
// hesitation countdown.
package detect

import (
	"sort"
	"strings"
)

// commentMarker starts a single-line comment.
const commentMarker = "//"

// CommentSet is the set of distinct trimmed comment lines in a document.
type CommentSet map[string]struct{}

// Has reports whether c is in the set.
func (s CommentSet) Has(c string) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the members in lexical order.
func (s CommentSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ExtractComments returns every distinct line of text that starts with "//"
// once surrounding whitespace is trimmed. Identical comment lines collapse
// into one entry.
func ExtractComments(text string) CommentSet {
	set := make(CommentSet)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, commentMarker) {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// CommentDiffer remembers the last comment set seen for each file.
// Comments are keyed by content only, so a comment that moves to another line
// is not reported.
type CommentDiffer struct {
	snapshots map[string]CommentSet
}

// NewCommentDiffer returns a differ with no snapshots.
func NewCommentDiffer() *CommentDiffer {
	return &CommentDiffer{snapshots: make(map[string]CommentSet)}
}

// Diff compares the comments in text with the previous snapshot for file
// (empty if none) and replaces the snapshot. The returned slices are sorted.
func (d *CommentDiffer) Diff(file, text string) (added, deleted []string) {
	current := ExtractComments(text)
	previous := d.snapshots[file]

	for _, c := range current.Sorted() {
		if !previous.Has(c) {
			added = append(added, c)
		}
	}
	for _, c := range previous.Sorted() {
		if !current.Has(c) {
			deleted = append(deleted, c)
		}
	}

	d.snapshots[file] = current
	return added, deleted
}

// Snapshot returns the stored comment set for file, or nil if the file has
// not been seen.
func (d *CommentDiffer) Snapshot(file string) CommentSet {
	return d.snapshots[file]
}
