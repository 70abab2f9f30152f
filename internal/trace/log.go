package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the name of the log file inside the storage directory.
const FileName = "cognitive-trace.json"

// Log is an append-only JSON array of Records persisted as a single file.
// Every Append rewrites the whole file. A Log is not safe for concurrent use.
type Log struct {
	dir  string
	path string
	now  func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the source of Record timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// NewLog returns a Log stored at <dir>/cognitive-trace.json. The directory is
// not touched until the first Append.
func NewLog(dir string, opts ...Option) *Log {
	l := &Log{
		dir:  dir,
		path: filepath.Join(dir, FileName),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the full path of the log file.
func (l *Log) Path() string {
	return l.path
}

// Append stamps ev with the current time and adds it to the end of the log.
// It returns a *StorageError or *ParseError on failure, in which case the
// event has not been recorded.
func (l *Log) Append(ev Event) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return &StorageError{Op: "mkdir", Path: l.dir, Err: err}
	}

	entries, err := l.load()
	if err != nil {
		return err
	}

	rec, err := json.Marshal(Record{Time: FormatTime(l.now()), Event: ev})
	if err != nil {
		return &StorageError{Op: "encode", Path: l.path, Err: err}
	}
	entries = append(entries, rec)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: l.path, Err: err}
	}
	return l.write(data)
}

// Records reads back the whole log. A missing file yields no records.
func (l *Log) Records() ([]Record, error) {
	entries, err := l.load()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(entries))
	for _, raw := range entries {
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, &ParseError{Path: l.path, Err: err}
		}
		records = append(records, r)
	}
	return records, nil
}

// load returns the existing entries verbatim so records written by other
// versions survive the rewrite.
func (l *Log) load() ([]json.RawMessage, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Path: l.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ParseError{Path: l.path, Err: err}
	}
	return entries, nil
}

// write replaces the log file via a temp file + os.Rename in the same directory.
func (l *Log) write(data []byte) (err error) {
	tmp, err := os.CreateTemp(l.dir, "cognitive-trace-*.json.tmp")
	if err != nil {
		return &StorageError{Op: "write", Path: l.path, Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: l.path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &StorageError{Op: "write", Path: l.path, Err: err}
	}
	if err = os.Rename(tmpName, l.path); err != nil {
		return &StorageError{Op: "write", Path: l.path, Err: err}
	}
	return nil
}

// StorageError is returned when the log directory or file cannot be created,
// read, or written.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("trace log %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the existing log file is not a JSON array.
// The file is left untouched.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse trace log " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
