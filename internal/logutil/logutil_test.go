package logutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesSessionField(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := New("info", "", &buf)
	require.NoError(t, err)
	defer closer()

	l.Debug().Msg("hidden")
	l.Warn().Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	_, err = uuid.Parse(entry["session"].(string))
	assert.NoError(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "cogtrace.log")
	l, closer, err := New("debug", file, nil)
	require.NoError(t, err)

	l.Debug().Msg("to file")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New("loud", "", nil)
	assert.Error(t, err)
}
