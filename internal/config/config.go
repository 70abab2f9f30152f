package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
)

// Config holds all configurable cogtrace settings.
type Config struct {
	StorageDir     string   `json:"storage_dir"`  // overrides editor/XDG resolution
	Editor         string   `json:"editor"`       // "code" | "cursor" | ... ; empty uses the XDG data dir
	ExtensionID    string   `json:"extension_id"` // global storage folder under the editor
	IgnorePatterns []string `json:"ignore_patterns"`
	LogLevel       string   `json:"log_level"`
	LogFile        string   `json:"log_file"` // diagnostic log; stderr when empty
}

// envConfig lists the environment overrides read by ApplyEnv.
type envConfig struct {
	StorageDir     string   `env:"COGTRACE_STORAGE_DIR"`
	Editor         string   `env:"COGTRACE_EDITOR"`
	ExtensionID    string   `env:"COGTRACE_EXTENSION_ID"`
	IgnorePatterns []string `env:"COGTRACE_IGNORE" envSeparator:","`
	LogLevel       string   `env:"COGTRACE_LOG_LEVEL"`
	LogFile        string   `env:"COGTRACE_LOG_FILE"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		LogLevel:       "info",
		IgnorePatterns: []string{},
	}
}

// LoadGlobal reads ~/.config/cogtrace/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "cogtrace", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .cogtraceconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".cogtraceconfig", false)
}

// loadFile parses a cogtrace JSON config (config.json or .cogtraceconfig).
// A missing global config yields Defaults; a missing project config yields nil
// so Merge skips it.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	overlay(&result, global)
	overlay(&result, project)
	return result
}

// ApplyEnv overlays COGTRACE_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return err
	}
	overlay(cfg, &Config{
		StorageDir:     e.StorageDir,
		Editor:         e.Editor,
		ExtensionID:    e.ExtensionID,
		IgnorePatterns: e.IgnorePatterns,
		LogLevel:       e.LogLevel,
		LogFile:        e.LogFile,
	})
	return nil
}

// overlay copies every non-empty field of src onto dst.
func overlay(dst, src *Config) {
	if src == nil {
		return
	}
	if src.StorageDir != "" {
		dst.StorageDir = src.StorageDir
	}
	if src.Editor != "" {
		dst.Editor = src.Editor
	}
	if src.ExtensionID != "" {
		dst.ExtensionID = src.ExtensionID
	}
	if len(src.IgnorePatterns) > 0 {
		dst.IgnorePatterns = src.IgnorePatterns
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
}

// ParseError reports a cogtrace config file that exists but is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
