package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/cogtrace/internal/config"
	"github.com/fakeyudi/cogtrace/internal/logutil"
	"github.com/fakeyudi/cogtrace/internal/storage"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// logger is the diagnostic logger, populated in PersistentPreRunE.
var logger = zerolog.Nop()
var logCloser = func() {}

// Flag overrides applied on top of the config files and environment.
var (
	flagStorageDir string
	flagEditor     string
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "cogtrace",
	Short: "Record a cognitive trace of editing activity",
	Long: `cogtrace listens to editor notifications and appends file switches,
comment additions and deletions, line evolution, and typing hesitation to a
JSON log (cognitive-trace.json) in its storage directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		if err := config.ApplyEnv(&cfg); err != nil {
			return fmt.Errorf("reading environment: %w", err)
		}

		if flagStorageDir != "" {
			cfg.StorageDir = flagStorageDir
		}
		if flagEditor != "" {
			cfg.Editor = flagEditor
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}

		l, closer, err := logutil.New(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		logger = l
		logCloser = closer
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	err := execute()
	if err != nil {
		os.Exit(1)
	}
}

// execute runs the root command and closes the diagnostic log file whether
// or not the command succeeded.
func execute() error {
	defer closeLog()
	return rootCmd.Execute()
}

func closeLog() {
	logCloser()
	logCloser = func() {}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// storageDir resolves the directory the trace log lives in.
func storageDir() (string, error) {
	return storage.Resolve(storage.Settings{
		StorageDir:  cfg.StorageDir,
		Editor:      cfg.Editor,
		ExtensionID: cfg.ExtensionID,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStorageDir, "storage-dir", "", "Directory holding cognitive-trace.json")
	rootCmd.PersistentFlags().StringVar(&flagEditor, "editor", "", "Use this editor's global storage directory (code, cursor, kiro, vscodium, windsurf)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
}
