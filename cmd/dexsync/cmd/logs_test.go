package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLogFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dexsync.log")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestLogsCmd_NoLogFile(t *testing.T) {
	// Given: a home without any logs
	t.Setenv("HOME", t.TempDir())

	// When: asking for logs
	_, err := executeCommand(t, "logs")

	// Then: the error points at --debug
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no log file found")
	assert.Contains(t, err.Error(), "--debug")
}

func TestLogsCmd_TailsFile(t *testing.T) {
	path := writeLogFile(t,
		`{"time":"2026-08-25T10:00:01Z","level":"INFO","msg":"first"}
{"time":"2026-08-25T10:00:02Z","level":"INFO","msg":"second"}
{"time":"2026-08-25T10:00:03Z","level":"INFO","msg":"third"}
`)

	out, err := executeCommand(t, "logs", "--file", path, "-n", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "third")
	assert.NotContains(t, out, "first")
}

func TestLogsCmd_LevelFilter(t *testing.T) {
	path := writeLogFile(t,
		`{"time":"2026-08-25T10:00:01Z","level":"INFO","msg":"routine"}
{"time":"2026-08-25T10:00:02Z","level":"ERROR","msg":"broken"}
`)

	out, err := executeCommand(t, "logs", "--file", path, "--level", "error")

	require.NoError(t, err)
	assert.Contains(t, out, "broken")
	assert.NotContains(t, out, "routine")
}

func TestLogsCmd_PathOnly(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, err := executeCommand(t, "logs", "--path")

	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(home, ".dexsync", "logs", "dexsync.log"))
}
