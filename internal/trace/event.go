// Package trace defines the cognitive trace events and the JSON log they are
// appended to.
package trace

import "time"

// Type discriminates the kind of activity an Event describes.
type Type string

const (
	TypeFileOpen       Type = "file_open"
	TypeAddedComment   Type = "added_comment"
	TypeDeletedComment Type = "deleted_comment"
	TypeLineEvolution  Type = "line_evolution"
	TypeHesitation     Type = "hesitation"
)

// Event is a single detected user action. Only the fields relevant to Type are
// set; use the constructors below rather than building one by hand.
type Event struct {
	Type     Type    `json:"type"`
	File     string  `json:"file,omitempty"`
	Comment  string  `json:"comment,omitempty"`
	Line     *int    `json:"line,omitempty"`    // zero-based, set for line_evolution
	Content  *string `json:"content,omitempty"` // may be empty for a blank line
	Duration int64   `json:"duration,omitempty"` // milliseconds
}

// Record is an Event as persisted: the event fields plus the write time.
type Record struct {
	Time string `json:"time"`
	Event
}

// TimeLayout is the ISO-8601 form used for Record.Time.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeLayout, always in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FileOpen records that file became the focused document.
func FileOpen(file string) Event {
	return Event{Type: TypeFileOpen, File: file}
}

// AddedComment records a comment line that was not present before.
func AddedComment(file, comment string) Event {
	return Event{Type: TypeAddedComment, File: file, Comment: comment}
}

// DeletedComment records a comment line that is no longer present.
func DeletedComment(file, comment string) Event {
	return Event{Type: TypeDeletedComment, File: file, Comment: comment}
}

// LineEvolution records the new text of the line under the cursor.
func LineEvolution(file string, line int, content string) Event {
	return Event{Type: TypeLineEvolution, File: file, Line: &line, Content: &content}
}

// Hesitation records a pause in editing lasting d.
func Hesitation(d time.Duration) Event {
	return Event{Type: TypeHesitation, Duration: d.Milliseconds()}
}
