// Package syncer pulls contacts, reminders, and notes from the Dex API
// into the local store. Pages of each resource are fetched concurrently
// and applied sequentially in offset order. A payload hash gates every
// write so unchanged records cost nothing locally, and review columns
// written by the dedup flow survive each overwrite.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Aman-CERP/dexsync/internal/dexapi"
	"github.com/Aman-CERP/dexsync/internal/store"
)

// DefaultConcurrency caps in-flight page fetches per resource.
const DefaultConcurrency = 5

// Stats counts one resource's outcomes. Failed covers fetch pages that
// errored out plus individual records that could not be saved.
type Stats struct {
	Added     int
	Updated   int
	Unchanged int
	Failed    int
}

// String renders the compact progress form, e.g. "Add:12 Upd:3 Skp:240 Err:0".
func (s Stats) String() string {
	return fmt.Sprintf("Add:%d Upd:%d Skp:%d Err:%d", s.Added, s.Updated, s.Unchanged, s.Failed)
}

// Result is the outcome of one full sync run.
type Result struct {
	Contacts  Stats
	Reminders Stats
	Notes     Stats

	// Errors holds per-resource probe failures. Individual page errors
	// are folded into the stats instead.
	Errors   []error
	Duration time.Duration
}

// Totals sums the per-resource stats.
func (r *Result) Totals() Stats {
	return Stats{
		Added:     r.Contacts.Added + r.Reminders.Added + r.Notes.Added,
		Updated:   r.Contacts.Updated + r.Reminders.Updated + r.Notes.Updated,
		Unchanged: r.Contacts.Unchanged + r.Reminders.Unchanged + r.Notes.Unchanged,
		Failed:    r.Contacts.Failed + r.Reminders.Failed + r.Notes.Failed,
	}
}

// ProgressFunc receives an update after each page lands. done and total
// count pages, not records. Calls arrive from the apply loop, so
// implementations must be quick.
type ProgressFunc func(resource string, done, total int, stats Stats)

// Options configure a Syncer. Zero values fall back to defaults.
type Options struct {
	// PageSize is the number of records requested per API page.
	PageSize int

	// Concurrency caps in-flight page fetches.
	Concurrency int

	// SkipReminders and SkipNotes drop those resources from the run.
	SkipReminders bool
	SkipNotes     bool

	// Progress, when set, is called after every applied page.
	Progress ProgressFunc
}

// Syncer drives sync runs against one API client and one open store.
type Syncer struct {
	client *dexapi.Client
	store  *store.Store

	pageSize      int
	concurrency   int
	skipReminders bool
	skipNotes     bool
	progress      ProgressFunc
}

// New wires a Syncer over an API client and an open store.
func New(client *dexapi.Client, st *store.Store, opts Options) *Syncer {
	if opts.PageSize <= 0 {
		opts.PageSize = dexapi.DefaultPageSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(string, int, int, Stats) {}
	}
	return &Syncer{
		client:        client,
		store:         st,
		pageSize:      opts.PageSize,
		concurrency:   opts.Concurrency,
		skipReminders: opts.SkipReminders,
		skipNotes:     opts.SkipNotes,
		progress:      progress,
	}
}

// Run syncs contacts first, then reminders and notes unless skipped.
// A resource whose probe request fails lands in Result.Errors and the
// remaining resources still run; cancellation aborts the whole run
// without leaving partial records behind.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	slog.Info("sync_started",
		"page_size", s.pageSize,
		"concurrency", s.concurrency,
		"skip_reminders", s.skipReminders,
		"skip_notes", s.skipNotes)

	resources := []struct {
		name  string
		skip  bool
		stats *Stats
		sync  func(context.Context) (Stats, error)
	}{
		{"contacts", false, &result.Contacts, s.syncContacts},
		{"reminders", s.skipReminders, &result.Reminders, s.syncReminders},
		{"notes", s.skipNotes, &result.Notes, s.syncNotes},
	}

	for _, res := range resources {
		if res.skip {
			slog.Debug("resource_skipped", "resource", res.name)
			continue
		}
		stats, err := res.sync(ctx)
		*res.stats = stats
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			result.Duration = time.Since(start)
			return result, err
		}
		slog.Error("resource_sync_failed", "resource", res.name, "error", err)
		result.Errors = append(result.Errors, fmt.Errorf("syncing %s: %w", res.name, err))
	}

	result.Duration = time.Since(start)
	slog.Info("sync_complete",
		"contacts", result.Contacts.String(),
		"reminders", result.Reminders.String(),
		"notes", result.Notes.String(),
		"duration", result.Duration.Round(time.Millisecond).String())
	return result, nil
}

func (s *Syncer) syncContacts(ctx context.Context) (Stats, error) {
	return syncResource(ctx, s, "contacts", s.fetchContacts, s.applyContact)
}

func (s *Syncer) syncReminders(ctx context.Context) (Stats, error) {
	return syncResource(ctx, s, "reminders", s.fetchReminders, s.applyReminder)
}

func (s *Syncer) syncNotes(ctx context.Context) (Stats, error) {
	return syncResource(ctx, s, "notes", s.fetchNotes, s.applyNote)
}

func (s *Syncer) fetchContacts(ctx context.Context, limit, offset int) ([]dexapi.Contact, int, error) {
	page, err := s.client.Contacts(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return page.Contacts, page.Total, nil
}

func (s *Syncer) fetchReminders(ctx context.Context, limit, offset int) ([]dexapi.Reminder, int, error) {
	page, err := s.client.Reminders(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return page.Reminders, page.Total, nil
}

func (s *Syncer) fetchNotes(ctx context.Context, limit, offset int) ([]dexapi.Note, int, error) {
	page, err := s.client.Notes(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return page.Notes, page.Total, nil
}

// fetchFunc loads one page of a resource and reports the upstream total.
type fetchFunc[T any] func(ctx context.Context, limit, offset int) ([]T, int, error)

// applyFunc writes one record to the store and reports how it landed.
type applyFunc[T any] func(ctx context.Context, record T) (outcome, error)

type outcome int

const (
	// outcomeIgnored records fall outside the counters entirely, such
	// as payloads without an id.
	outcomeIgnored outcome = iota
	outcomeAdded
	outcomeUpdated
	outcomeUnchanged
)

type page[T any] struct {
	records []T
	failed  bool
}

// syncResource drives one resource: probe the total with a limit-1
// request, fan page fetches out in chunks of twice the concurrency cap
// under a weighted semaphore, then apply each chunk sequentially in
// offset order so the store sees a single writer.
func syncResource[T any](ctx context.Context, s *Syncer, name string, fetch fetchFunc[T], apply applyFunc[T]) (Stats, error) {
	var stats Stats

	probe, total, err := fetch(ctx, 1, 0)
	if err != nil {
		return stats, err
	}
	slog.Info("resource_total", "resource", name, "total", total)

	if total == 0 {
		// Some deployments report total=0 while still returning rows.
		// Fall back to whatever the probe brought in.
		if len(probe) > 0 {
			slog.Warn("total_missing_fallback", "resource", name, "records", len(probe))
			applyPage(ctx, name, probe, apply, &stats)
			s.progress(name, 1, 1, stats)
		}
		return stats, ctx.Err()
	}

	offsets := make([]int, 0, (total+s.pageSize-1)/s.pageSize)
	for off := 0; off < total; off += s.pageSize {
		offsets = append(offsets, off)
	}

	sem := semaphore.NewWeighted(int64(s.concurrency))
	chunkSize := s.concurrency * 2
	done := 0

	for chunkStart := 0; chunkStart < len(offsets); chunkStart += chunkSize {
		chunk := offsets[chunkStart:min(chunkStart+chunkSize, len(offsets))]
		pages := make([]page[T], len(chunk))

		g, gctx := errgroup.WithContext(ctx)
		for i, offset := range chunk {
			g.Go(func() error {
				if err := sem.Acquire(gctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)

				records, _, err := fetch(gctx, s.pageSize, offset)
				if err != nil {
					// One bad page must not sink its siblings.
					slog.Warn("page_fetch_failed", "resource", name, "offset", offset, "error", err)
					pages[i].failed = true
					return nil
				}
				pages[i].records = records
				return nil
			})
		}
		// Wait only fails when the context died while a fetch was
		// still queued; fetch errors are absorbed above.
		if err := g.Wait(); err != nil {
			return stats, err
		}

		for _, p := range pages {
			if p.failed {
				stats.Failed++
			} else {
				applyPage(ctx, name, p.records, apply, &stats)
			}
			done++
			s.progress(name, done, len(offsets), stats)
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// applyPage writes one fetched page, folding outcomes into stats. A
// canceled context stops between records; rows already written stay.
func applyPage[T any](ctx context.Context, name string, records []T, apply applyFunc[T], stats *Stats) {
	for _, record := range records {
		if ctx.Err() != nil {
			return
		}
		out, err := apply(ctx, record)
		if err != nil {
			slog.Warn("record_apply_failed", "resource", name, "error", err)
			stats.Failed++
			continue
		}
		switch out {
		case outcomeAdded:
			stats.Added++
		case outcomeUpdated:
			stats.Updated++
		case outcomeUnchanged:
			stats.Unchanged++
		}
	}
}
