package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// PlainRenderer prints line-per-page progress for pipes and CI.
type PlainRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	stage  Stage
	errors []ErrorEvent
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{out: cfg.Output}
}

// Start implements Renderer.
func (r *PlainRenderer) Start(ctx context.Context) error {
	return nil
}

// UpdateProgress implements Renderer. Each page prints one line, e.g.
// "[CONTACTS] 3/12 - Add:100 Upd:2 Skp:198 Err:0".
func (r *PlainRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stage = event.Stage

	switch {
	case event.Total > 0:
		_, _ = fmt.Fprintf(r.out, "[%s] %d/%d - %s\n",
			event.Stage.Icon(), event.Current, event.Total, event.Message)
	case event.Message != "":
		_, _ = fmt.Fprintf(r.out, "[%s] %s\n", event.Stage.Icon(), event.Message)
	}
}

// AddError implements Renderer.
func (r *PlainRenderer) AddError(event ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, event)

	prefix := "ERROR"
	if event.IsWarn {
		prefix = "WARN"
	}

	if event.Resource != "" {
		_, _ = fmt.Fprintf(r.out, "%s: %s: %v\n", prefix, event.Resource, event.Err)
	} else {
		_, _ = fmt.Fprintf(r.out, "%s: %v\n", prefix, event.Err)
	}
}

// Complete implements Renderer.
func (r *PlainRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "Sync complete: %d added, %d updated, %d unchanged in %s",
		stats.Added, stats.Updated, stats.Unchanged,
		stats.Duration.Round(100*time.Millisecond))
	if stats.Failed > 0 {
		_, _ = fmt.Fprintf(r.out, " (%d failed)", stats.Failed)
	}
	_, _ = fmt.Fprintln(r.out)
}

// Stop implements Renderer.
func (r *PlainRenderer) Stop() error {
	return nil
}

var _ Renderer = (*PlainRenderer)(nil)
