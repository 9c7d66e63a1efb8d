package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("info")
	defer SetOutput(os.Stdout)

	Debug("hidden", nil)
	Info("user_registered", map[string]any{"user": "alice"})
	Error("boom", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var e entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &e))
	assert.Equal(t, "info", e.Level)
	assert.Equal(t, "user_registered", e.Message)
	assert.Equal(t, "alice", e.Fields["user"])
	assert.Contains(t, lines[1], `"level":"error"`)
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	SetLevel("warn")
	SetLevel("verbose")
	defer SetLevel("info")

	Info("dropped", nil)
	Warn("kept", nil)
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
