package store

import (
	"context"
	"database/sql"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// Reminder is one row of the reminders table plus the ids of the
// contacts it is linked to.
type Reminder struct {
	ID           string
	Body         string
	IsComplete   bool
	DueDate      string
	FullData     string
	RecordHash   string
	LastSyncedAt string
	ContactIDs   []string
}

// ReminderHash returns the stored payload hash for a reminder, with
// ok false when the reminder is unknown.
func (s *Store) ReminderHash(ctx context.Context, id string) (string, bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(record_hash, '') FROM reminders WHERE id = ?", id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, dexerrors.StorageError("reading reminder hash", err)
	}
	return hash, true, nil
}

// SaveReminder upserts the reminder and replaces its contact links in
// one transaction.
func (s *Store) SaveReminder(ctx context.Context, r *Reminder) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return dexerrors.StorageError("saving reminder", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO reminders (id, body, is_complete, due_date, full_data, record_hash, last_synced_at)
		VALUES (?, NULLIF(?, ''), ?, NULLIF(?, ''), ?, ?, ?)`,
		r.ID, r.Body, r.IsComplete, r.DueDate, r.FullData, r.RecordHash, r.LastSyncedAt)
	if err != nil {
		return dexerrors.StorageError("upserting reminder", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM reminder_contacts WHERE reminder_id = ?", r.ID); err != nil {
		return dexerrors.StorageError("clearing reminder links", err)
	}
	if len(r.ContactIDs) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT OR IGNORE INTO reminder_contacts (reminder_id, contact_id) VALUES (?, ?)")
		if err != nil {
			return dexerrors.StorageError("preparing reminder link insert", err)
		}
		for _, contactID := range r.ContactIDs {
			if _, err := stmt.ExecContext(ctx, r.ID, contactID); err != nil {
				_ = stmt.Close()
				return dexerrors.StorageError("inserting reminder link", err)
			}
		}
		_ = stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return dexerrors.StorageError("committing reminder", err)
	}
	return nil
}

// CountReminders returns the number of reminder rows.
func (s *Store) CountReminders(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reminders").Scan(&n); err != nil {
		return 0, dexerrors.StorageError("counting reminders", err)
	}
	return n, nil
}
