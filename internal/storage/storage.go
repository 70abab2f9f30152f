// Package storage resolves the directory the trace log is written to.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// AppName names the XDG data sub-directory.
const AppName = "cogtrace"

// DefaultExtensionID is the global storage folder name used under an editor's
// user directory.
const DefaultExtensionID = "cogtrace.cognitive-trace-recorder"

// editorAppDirs maps an editor name to its per-user application directory
// for the VS Code fork family.
var editorAppDirs = map[string]string{
	"code":     "Code",
	"cursor":   "Cursor",
	"kiro":     "Kiro",
	"vscodium": "VSCodium",
	"windsurf": "Windsurf",
}

// Editors returns the editor names EditorGlobalStorageDir understands.
func Editors() []string {
	names := make([]string, 0, len(editorAppDirs))
	for name := range editorAppDirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DataDir returns $XDG_DATA_HOME/cogtrace or ~/.local/share/cogtrace.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, AppName), nil
}

// EditorGlobalStorageDir returns the per-installation global storage directory
// an editor assigns to the extension with the given id.
func EditorGlobalStorageDir(editor, extensionID string) (string, error) {
	appDir, ok := editorAppDirs[strings.ToLower(editor)]
	if !ok {
		return "", fmt.Errorf("unknown editor %q (supported: %s)", editor, strings.Join(Editors(), ", "))
	}
	if extensionID == "" {
		extensionID = DefaultExtensionID
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(editorUserDir(runtime.GOOS, home, appDir), "globalStorage", extensionID), nil
}

func editorUserDir(goos, home, appDir string) string {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appDir, "User")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appDir, "User")
	default:
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			base = filepath.Join(home, ".config")
		}
		return filepath.Join(base, appDir, "User")
	}
}

// Settings is the subset of configuration that decides the storage directory.
type Settings struct {
	StorageDir  string
	Editor      string
	ExtensionID string
}

// Resolve picks the storage directory: an explicit StorageDir wins, then the
// editor's global storage when Editor is set, then DataDir. The directory is
// not created here.
func Resolve(s Settings) (string, error) {
	switch {
	case s.StorageDir != "":
		return s.StorageDir, nil
	case s.Editor != "":
		return EditorGlobalStorageDir(s.Editor, s.ExtensionID)
	default:
		return DataDir()
	}
}
