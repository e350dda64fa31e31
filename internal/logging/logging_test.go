package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLogDir(t *testing.T) {
	dir := DefaultLogDir()
	if dir == "" {
		t.Error("DefaultLogDir returned empty string")
	}

	// Should contain .dexsync/logs
	if !strings.Contains(dir, ".dexsync") || !strings.Contains(dir, "logs") {
		t.Errorf("DefaultLogDir should contain .dexsync/logs, got: %s", dir)
	}
}

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()
	if path == "" {
		t.Error("DefaultLogPath returned empty string")
	}

	if filepath.Base(path) != "dexsync.log" {
		t.Errorf("DefaultLogPath should end with dexsync.log, got: %s", path)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got: %s", cfg.Level)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got: %d", cfg.MaxSizeMB)
	}
	if cfg.MaxFiles != 5 {
		t.Errorf("expected MaxFiles 5, got: %d", cfg.MaxFiles)
	}
	if !cfg.WriteToStderr {
		t.Error("expected WriteToStderr to be true")
	}
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()

	if cfg.Level != "debug" {
		t.Errorf("expected level 'debug', got: %s", cfg.Level)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "dexsync.log")

	cfg := Config{
		Level:         "debug",
		FilePath:      logPath,
		MaxSizeMB:     1,
		MaxFiles:      2,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("sync_started", slog.Int("total", 42))
	cleanup()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, `"msg":"sync_started"`) {
		t.Errorf("log file missing JSON entry, got: %s", content)
	}
	if !strings.Contains(content, `"total":42`) {
		t.Errorf("log file missing attribute, got: %s", content)
	}
}

func TestSetup_RespectsLevel(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "dexsync.log")

	cfg := Config{
		Level:         "warn",
		FilePath:      logPath,
		MaxSizeMB:     1,
		MaxFiles:      2,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Debug("suppressed_entry")
	logger.Warn("kept_entry")
	cleanup()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	content := string(data)
	if strings.Contains(content, "suppressed_entry") {
		t.Error("debug entry should have been filtered at warn level")
	}
	if !strings.Contains(content, "kept_entry") {
		t.Error("warn entry missing from log file")
	}
}

func TestSetupConsole_ReturnsLogger(t *testing.T) {
	logger := SetupConsole("info")
	if logger == nil {
		t.Fatal("SetupConsole returned nil logger")
	}
	// Must not panic when used
	logger.Debug("below_threshold")
}

func TestFindLogFile_ExplicitMissing(t *testing.T) {
	_, err := FindLogFile(filepath.Join(t.TempDir(), "nope.log"))
	if err == nil {
		t.Error("expected error for missing explicit log file")
	}
}

func TestFindLogFile_ExplicitExists(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dexsync.log")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := FindLogFile(path)
	if err != nil {
		t.Fatalf("FindLogFile failed: %v", err)
	}
	if found != path {
		t.Errorf("expected %s, got %s", path, found)
	}
}

func TestRotatingWriter_RotatesAtMaxSize(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "dexsync.log")

	// 1MB max, write past it to force a rotation
	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer func() { _ = w.Close() }()

	line := strings.Repeat("x", 64*1024)
	for i := 0; i < 20; i++ {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	// Rotated file should exist
	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected rotated file %s.1: %v", logPath, err)
	}
	// Current file should exist and be under the cap
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("stat current log: %v", err)
	}
	if info.Size() > 1024*1024+int64(len(line)) {
		t.Errorf("current log larger than expected after rotation: %d", info.Size())
	}
}

func TestRotatingWriter_KeepsMaxFiles(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "dexsync.log")

	w, err := NewRotatingWriter(logPath, 1, 2)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer func() { _ = w.Close() }()

	line := strings.Repeat("y", 256*1024)
	for i := 0; i < 24; i++ {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	// .3 and beyond should never survive with maxFiles=2
	if _, err := os.Stat(logPath + ".3"); err == nil {
		t.Error("rotation kept more files than maxFiles allows")
	}
}
