// Package ui renders sync progress and the interactive duplicate
// review session, with a rich TUI for terminals and plain text for
// pipes and CI.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Stage identifies the resource a sync run is currently pulling.
type Stage int

const (
	// StageContacts is the contact sync stage.
	StageContacts Stage = iota
	// StageReminders is the reminder sync stage.
	StageReminders
	// StageNotes is the timeline note sync stage.
	StageNotes
	// StageComplete indicates the run has finished.
	StageComplete
)

// String returns the human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageContacts:
		return "Contacts"
	case StageReminders:
		return "Reminders"
	case StageNotes:
		return "Notes"
	case StageComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Icon returns the short stage tag for plain text output.
func (s Stage) Icon() string {
	switch s {
	case StageContacts:
		return "CONTACTS"
	case StageReminders:
		return "REMINDERS"
	case StageNotes:
		return "NOTES"
	case StageComplete:
		return "DONE"
	default:
		return "???"
	}
}

// StageFor maps a sync resource name to its display stage.
func StageFor(resource string) Stage {
	switch resource {
	case "reminders":
		return StageReminders
	case "notes":
		return StageNotes
	default:
		return StageContacts
	}
}

// ProgressEvent is one progress update. Current and Total count pages
// of the active stage; Message carries the running counter line.
type ProgressEvent struct {
	Stage   Stage
	Current int
	Total   int
	Message string
}

// ErrorEvent reports a problem during a run.
type ErrorEvent struct {
	Resource string
	Err      error
	IsWarn   bool
}

// CompletionStats summarizes a finished sync run.
type CompletionStats struct {
	Added     int
	Updated   int
	Unchanged int
	Failed    int
	Duration  time.Duration
}

// Renderer displays progress for a sync run.
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// UpdateProgress updates the progress display.
	UpdateProgress(event ProgressEvent)

	// AddError surfaces an error or warning.
	AddError(event ErrorEvent)

	// Complete shows the final summary.
	Complete(stats CompletionStats)

	// Stop tears the renderer down.
	Stop() error
}

// Config configures renderers and the review session.
type Config struct {
	Output     io.Writer
	Input      io.Reader
	ForcePlain bool
	NoColor    bool
	DBPath     string
}

// ConfigOption modifies a Config.
type ConfigOption func(*Config)

// WithForcePlain forces plain text output.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithInput sets the reader the plain review prompt consumes.
func WithInput(in io.Reader) ConfigOption {
	return func(c *Config) {
		c.Input = in
	}
}

// WithDBPath sets the store path shown in the TUI header.
func WithDBPath(path string) ConfigOption {
	return func(c *Config) {
		c.DBPath = path
	}
}

// NewConfig creates a Config with the given output and options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{
		Output: output,
		Input:  os.Stdin,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewRenderer picks a renderer for the environment: the TUI on an
// interactive terminal, plain text for pipes, CI, or --plain.
func NewRenderer(cfg Config) Renderer {
	if cfg.ForcePlain {
		return NewPlainRenderer(cfg)
	}
	if !IsTTY(cfg.Output) {
		return NewPlainRenderer(cfg)
	}
	if DetectCI() {
		return NewPlainRenderer(cfg)
	}

	tui, err := NewTUIRenderer(cfg)
	if err != nil {
		return NewPlainRenderer(cfg)
	}
	return tui
}

// IsTTY checks if the writer is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks the NO_COLOR convention.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks for common CI environment markers.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
