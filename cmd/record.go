package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/cogtrace/internal/recorder"
	"github.com/fakeyudi/cogtrace/internal/source"
	"github.com/fakeyudi/cogtrace/internal/trace"
)

var recordSource string
var recordDir string

// feed is a notification source run alongside the recorder.
type feed interface {
	Run(ctx context.Context, out chan<- recorder.Notification) error
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record editing activity until interrupted or the input ends",
	Long: `Record editing activity into the trace log.

With --source bridge (the default) newline-delimited JSON notifications are
read from stdin, as written by an editor extension:

  {"event":"active_editor_changed","editor":{"path":"/src/a.go","cursor_line":0}}
  {"event":"document_changed","document":{"path":"/src/a.go","text":"..."},"editor":{"path":"/src/a.go","cursor_line":3}}

With --source watch, writes to files under --dir are recorded instead. The
watcher has no focused editor, so only comments and hesitation are tracked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := storageDir()
		if err != nil {
			return fmt.Errorf("resolving storage directory: %w", err)
		}
		log := trace.NewLog(dir)

		var src feed
		switch recordSource {
		case "bridge":
			in := cmd.InOrStdin()
			if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
				return fmt.Errorf("stdin is a terminal; pipe bridge messages from the editor extension or use --source watch")
			}
			src = &source.Bridge{Reader: in, Logger: logger}
		case "watch":
			root, err := filepath.Abs(recordDir)
			if err != nil {
				return err
			}
			ignorer, err := source.LoadIgnorer(root, GetConfig().IgnorePatterns)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to load ignore patterns")
			}
			// The whole storage directory, so the log's temp files never feed
			// back into the recorder.
			storageAbs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			ignorer.Paths = append(ignorer.Paths, storageAbs)
			src = &source.Watcher{Dir: root, Ignorer: ignorer, Logger: logger}
		default:
			return fmt.Errorf("unknown source %q (want bridge or watch)", recordSource)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		notifications := make(chan recorder.Notification, 64)
		srcErr := make(chan error, 1)
		go func() {
			srcErr <- src.Run(ctx, notifications)
			close(notifications)
		}()

		logger.Info().Str("log", log.Path()).Str("source", recordSource).Msg("recording")
		rec := recorder.New(log, recorder.WithLogger(logger))
		if err := rec.Run(ctx, notifications); err != nil {
			return err
		}

		// Interrupted: a bridge may still be blocked reading stdin.
		if ctx.Err() != nil {
			return nil
		}
		return <-srcErr
	},
}

func init() {
	recordCmd.Flags().StringVar(&recordSource, "source", "bridge", "Notification source: bridge (stdin) or watch")
	recordCmd.Flags().StringVar(&recordDir, "dir", ".", "Directory to watch with --source watch")
	rootCmd.AddCommand(recordCmd)
}
