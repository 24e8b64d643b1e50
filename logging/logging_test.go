package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	LogWarning("cache down: %s", "boom")
	LogImageRead("/a.jpg", "cache")
	DebugLog("debug %d", 1)

	out := buf.String()
	assert.Contains(t, out, "WARNING: cache down: boom")
	assert.Contains(t, out, "READ [cache]: /a.jpg")
	assert.Contains(t, out, "debug 1")

	SetOutput(nil)
	buf.Reset()
	DebugLog("dropped")
	assert.Empty(t, buf.String())
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reader.log")
	require.NoError(t, SetupLogger(path))
	LogError("failed %s", "x")
	CloseLogger()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ERROR: failed x")
	assert.Contains(t, string(data), "Debug Log Closed")
}
