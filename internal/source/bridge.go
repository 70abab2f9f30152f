// Package source turns host activity into recorder notifications.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/fakeyudi/cogtrace/internal/recorder"
)

// Bridge event names.
const (
	EventActiveEditorChanged = "active_editor_changed"
	EventDocumentChanged     = "document_changed"
)

// Message is one line of the bridge protocol.
//
//	{"event":"active_editor_changed","editor":{"path":"/a.go","cursor_line":3}}
//	{"event":"document_changed","document":{"path":"/a.go","text":"..."},"editor":{...}}
type Message struct {
	Event    string           `json:"event"`
	Document *Document        `json:"document,omitempty"`
	Editor   *recorder.Editor `json:"editor,omitempty"`
}

// Document is the changed document carried by a document_changed message.
type Document struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Notification converts m into a recorder notification.
func (m Message) Notification() (recorder.Notification, error) {
	switch m.Event {
	case EventActiveEditorChanged:
		return recorder.ActiveEditorChanged{Editor: m.Editor}, nil
	case EventDocumentChanged:
		if m.Document == nil {
			return nil, fmt.Errorf("%s: missing document", m.Event)
		}
		return recorder.DocumentChanged{
			Path:   m.Document.Path,
			Text:   m.Document.Text,
			Active: m.Editor,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event %q", m.Event)
	}
}

// Bridge reads newline-delimited JSON messages written by an editor extension.
type Bridge struct {
	Reader io.Reader
	Logger zerolog.Logger
}

// Run decodes messages until EOF or ctx is cancelled, sending each as a
// notification on out. Malformed lines are logged and skipped. Run does not
// close out.
func (b *Bridge) Run(ctx context.Context, out chan<- recorder.Notification) error {
	r := bufio.NewReader(b.Reader)
	lineNo := 0

	for {
		line, err := r.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			lineNo++
			n, perr := decodeLine(line)
			if perr != nil {
				b.Logger.Warn().Err(perr).Int("line", lineNo).Msg("skipping bridge message")
			} else {
				select {
				case out <- n:
				case <-ctx.Done():
					return nil
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read bridge input: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func decodeLine(line []byte) (recorder.Notification, error) {
	var m Message
	if err := json.Unmarshal(line, &m); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return m.Notification()
}
