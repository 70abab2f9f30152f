package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/fakeyudi/cogtrace/internal/recorder"
)

// maxDocumentSize bounds the files the watcher will read.
const maxDocumentSize = 4 << 20

// Watcher reports writes to text files under Dir as document changes. It has
// no notion of a focused editor, so only the comment differ and the
// hesitation countdown react to its notifications.
type Watcher struct {
	Dir     string
	Ignorer *Ignorer
	Logger  zerolog.Logger
}

// Run starts a recursive fsnotify watcher on Dir and sends a DocumentChanged
// for every Write/Create of a regular text file until ctx is cancelled.
// Run does not close out.
func (w *Watcher) Run(ctx context.Context, out chan<- recorder.Notification) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	ignorer := w.Ignorer
	if ignorer == nil {
		ignorer = &Ignorer{Root: w.Dir}
	}

	if err := w.addTree(watcher, ignorer, w.Dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if ignorer.Ignored(event.Name) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			// If a new directory was created, watch it too.
			if info.IsDir() {
				if event.Has(fsnotify.Create) {
					if err := w.addTree(watcher, ignorer, event.Name); err != nil {
						w.Logger.Warn().Err(err).Str("dir", event.Name).Msg("failed to watch directory")
					}
				}
				continue
			}

			n, ok := w.readDocument(event.Name, info)
			if !ok {
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; continue watching.
			w.Logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// addTree adds root and every non-ignored directory beneath it.
func (w *Watcher) addTree(watcher *fsnotify.Watcher, ignorer *Ignorer, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Dir && (d.Name() == ".git" || ignorer.Ignored(path)) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func (w *Watcher) readDocument(path string, info os.FileInfo) (recorder.DocumentChanged, bool) {
	if !info.Mode().IsRegular() || info.Size() > maxDocumentSize {
		return recorder.DocumentChanged{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		w.Logger.Debug().Err(err).Str("file", path).Msg("failed to read changed file")
		return recorder.DocumentChanged{}, false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return recorder.DocumentChanged{}, false
	}
	return recorder.DocumentChanged{Path: path, Text: string(data)}, true
}
