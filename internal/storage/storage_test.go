package storage

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDirUsesXDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "cogtrace"), dir)
}

func TestDataDirFallsBackToHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", tmp)

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, ".local", "share", "cogtrace"), dir)
}

func TestEditorUserDirPerOS(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Equal(t,
		filepath.Join("/home/u", "Library", "Application Support", "Code", "User"),
		editorUserDir("darwin", "/home/u", "Code"))
	assert.Equal(t,
		filepath.Join("/home/u", ".config", "Cursor", "User"),
		editorUserDir("linux", "/home/u", "Cursor"))
}

func TestEditorGlobalStorageDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("path layout asserted for linux only")
	}
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := EditorGlobalStorageDir("Code", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, ".config", "Code", "User", "globalStorage", DefaultExtensionID), dir)
}

func TestEditorGlobalStorageDirUnknownEditor(t *testing.T) {
	_, err := EditorGlobalStorageDir("emacs", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown editor")
}

func TestResolvePrecedence(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := Resolve(Settings{StorageDir: "/explicit", Editor: "code"})
	require.NoError(t, err)
	assert.Equal(t, "/explicit", dir)

	dir, err = Resolve(Settings{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "cogtrace"), dir)

	_, err = Resolve(Settings{Editor: "nope"})
	assert.Error(t, err)
}
