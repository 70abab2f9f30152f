// Package recorder wires editor notifications to the change detectors and
// appends the resulting events to a trace sink.
package recorder

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/fakeyudi/cogtrace/internal/detect"
	"github.com/fakeyudi/cogtrace/internal/trace"
)

// Sink receives detected events. *trace.Log satisfies it.
type Sink interface {
	Append(ev trace.Event) error
}

// Recorder owns all per-session detector state. Its Handle methods and Run
// must be called from a single goroutine.
type Recorder struct {
	sink       Sink
	logger     zerolog.Logger
	clock      detect.Clock
	comments   *detect.CommentDiffer
	lines      *detect.LineTracker
	hesitation *detect.Hesitation
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock sets the clock driving the hesitation countdown.
func WithClock(c detect.Clock) Option {
	return func(r *Recorder) { r.clock = c }
}

// WithLogger sets the diagnostic logger that sink failures are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// New returns a Recorder with empty session state.
func New(sink Sink, opts ...Option) *Recorder {
	r := &Recorder{
		sink:   sink,
		logger: zerolog.Nop(),
		clock:  detect.RealClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.comments = detect.NewCommentDiffer()
	r.lines = detect.NewLineTracker()
	r.hesitation = detect.NewHesitation(r.clock)
	return r
}

// Run processes notifications until ctx is cancelled or notifications is
// closed. The hesitation countdown is serviced by the same loop, so every
// state change happens in arrival order. Any pending countdown is discarded
// on return.
func (r *Recorder) Run(ctx context.Context, notifications <-chan Notification) error {
	defer r.hesitation.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			r.Handle(n)

		case <-r.hesitation.C():
			r.HandleHesitation()
		}
	}
}

// Handle dispatches n to the matching handler.
func (r *Recorder) Handle(n Notification) {
	switch n := n.(type) {
	case ActiveEditorChanged:
		r.HandleActiveEditorChanged(n)
	case DocumentChanged:
		r.HandleDocumentChanged(n)
	}
}

// HandleActiveEditorChanged records a file_open for the newly focused file.
func (r *Recorder) HandleActiveEditorChanged(n ActiveEditorChanged) {
	if n.Editor == nil {
		return
	}
	r.emit(trace.FileOpen(n.Editor.Path))
}

// HandleDocumentChanged runs the comment differ, the line evolution tracker,
// and restarts the hesitation countdown, in that order.
func (r *Recorder) HandleDocumentChanged(n DocumentChanged) {
	added, deleted := r.comments.Diff(n.Path, n.Text)
	for _, c := range added {
		r.emit(trace.AddedComment(n.Path, c))
	}
	for _, c := range deleted {
		r.emit(trace.DeletedComment(n.Path, c))
	}

	// Only the focused document is tracked, and only the cursor's line,
	// which is not necessarily the line that was edited.
	if n.Active != nil && n.Active.Path == n.Path {
		line := n.Active.CursorLine
		if text, ok := detect.LineAt(n.Text, line); ok {
			if r.lines.Observe(n.Path, line, text) {
				r.emit(trace.LineEvolution(n.Path, line, text))
			}
		} else {
			r.logger.Debug().Str("file", n.Path).Int("line", line).Msg("cursor line out of range")
		}
	}

	r.hesitation.Restart()
}

// HandleHesitation records that the countdown elapsed without further edits.
func (r *Recorder) HandleHesitation() {
	r.emit(r.hesitation.Fire())
}

// Pending reports whether a hesitation countdown is scheduled.
func (r *Recorder) Pending() bool {
	return r.hesitation.Pending()
}

// emit appends ev to the sink. Failures are reported and the event is dropped.
func (r *Recorder) emit(ev trace.Event) {
	err := r.sink.Append(ev)
	if err == nil {
		return
	}

	kind := "storage"
	var parseErr *trace.ParseError
	if errors.As(err, &parseErr) {
		kind = "parse"
	}
	r.logger.Warn().
		Err(err).
		Str("event", string(ev.Type)).
		Str("kind", kind).
		Msg("failed to record event")
}
