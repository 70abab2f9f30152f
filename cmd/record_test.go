package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cogtrace/internal/trace"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// isolate points HOME and XDG_DATA_HOME at temp dirs so no real state is touched.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		flagStorageDir, flagEditor, flagLogLevel = "", "", ""
		recordSource, recordDir, pathCount = "bridge", ".", false
	})
	return tmp
}

func readLog(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("log is not a JSON array: %v\n%s", err, data)
	}
	return entries
}

func TestRecordBridgeWritesEvents(t *testing.T) {
	tmp := isolate(t)
	storage := filepath.Join(tmp, "storage")

	input := strings.Join([]string{
		`{"event":"active_editor_changed","editor":{"path":"/src/a.js","cursor_line":0}}`,
		`{"event":"document_changed","document":{"path":"/src/a.js","text":"// hello\nlet x = 1;"},"editor":{"path":"/src/a.js","cursor_line":1}}`,
		`{"event":"document_changed","document":{"path":"/src/a.js","text":"// hello\nlet x = 12;"},"editor":{"path":"/src/a.js","cursor_line":1}}`,
	}, "\n")
	rootCmd.SetIn(strings.NewReader(input))

	out, err := executeCommand(rootCmd, "record", "--storage-dir", storage, "--source", "bridge")
	if err != nil {
		t.Fatalf("record: %v\n%s", err, out)
	}

	entries := readLog(t, filepath.Join(storage, trace.FileName))
	wantTypes := []string{"file_open", "added_comment", "line_evolution", "line_evolution"}
	if len(entries) != len(wantTypes) {
		t.Fatalf("want %d entries, got %d: %v", len(wantTypes), len(entries), entries)
	}
	for i, want := range wantTypes {
		if entries[i]["type"] != want {
			t.Errorf("entries[%d].type: got %v, want %s", i, entries[i]["type"], want)
		}
		if _, ok := entries[i]["time"].(string); !ok {
			t.Errorf("entries[%d] has no time", i)
		}
	}
	if entries[3]["content"] != "let x = 12;" {
		t.Errorf("last line evolution content: %v", entries[3]["content"])
	}
}

func TestRecordMalformedLogKeepsRunning(t *testing.T) {
	tmp := isolate(t)
	storage := filepath.Join(tmp, "storage")
	if err := os.MkdirAll(storage, 0o755); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(storage, trace.FileName)
	if err := os.WriteFile(logPath, []byte("[{"), 0o644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetIn(strings.NewReader(`{"event":"active_editor_changed","editor":{"path":"/a.go"}}` + "\n"))
	out, err := executeCommand(rootCmd, "record", "--storage-dir", storage)
	if err != nil {
		t.Fatalf("record should not fail on a malformed log: %v", err)
	}
	if !strings.Contains(out, "failed to record event") {
		t.Errorf("expected a diagnostic about the dropped event, got:\n%s", out)
	}
}

func TestRecordUnknownSource(t *testing.T) {
	tmp := isolate(t)
	_, err := executeCommand(rootCmd, "record", "--storage-dir", tmp, "--source", "carrier-pigeon")
	if err == nil || !strings.Contains(err.Error(), "unknown source") {
		t.Fatalf("expected unknown source error, got %v", err)
	}
}

func TestFailingRunClosesLogFile(t *testing.T) {
	tmp := isolate(t)
	logFile := filepath.Join(tmp, "logs", "cogtrace.log")
	t.Setenv("COGTRACE_LOG_FILE", logFile)

	rootCmd.SetArgs([]string{"record", "--storage-dir", tmp, "--source", "carrier-pigeon"})
	if err := execute(); err == nil {
		t.Fatal("expected an error from an unknown source")
	}

	// Writes after the run must not reach the closed file.
	logger.Warn().Msg("after close")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "after close") {
		t.Errorf("log file still open after a failing run:\n%s", data)
	}
}
