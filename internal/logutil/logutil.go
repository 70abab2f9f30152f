// Package logutil builds the diagnostic logger that recording failures are
// reported to.
package logutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New returns a JSON logger at the given level. Output goes to file when set
// (appending), otherwise to fallback. Every entry carries a "session" field
// identifying this run.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level, file string, fallback io.Writer) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	writer := fallback
	if writer == nil {
		writer = os.Stderr
	}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = f.Close() }
		writer = f
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Str("session", uuid.NewString()).
		Logger().
		Level(lvl)

	return l, closer, nil
}
