package recorder

// Editor describes the editor that currently has focus.
type Editor struct {
	Path       string `json:"path"`
	CursorLine int    `json:"cursor_line"` // zero-based line of the active cursor
}

// Notification is a message delivered by the host editor.
type Notification interface {
	notification()
}

// ActiveEditorChanged is delivered when focus moves to another editor. Editor
// is nil when no editor has focus.
type ActiveEditorChanged struct {
	Editor *Editor
}

// DocumentChanged is delivered after the text of a document changes. Active is
// the focused editor at that moment, or nil.
type DocumentChanged struct {
	Path   string
	Text   string
	Active *Editor
}

func (ActiveEditorChanged) notification() {}
func (DocumentChanged) notification()     {}
