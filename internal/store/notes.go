package store

import (
	"context"
	"database/sql"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// Note is one timeline note plus linked contact ids.
type Note struct {
	ID           string
	Note         string
	EventTime    string
	FullData     string
	RecordHash   string
	LastSyncedAt string
	ContactIDs   []string
}

// NoteHash returns the stored payload hash for a note, with ok false
// when the note is unknown.
func (s *Store) NoteHash(ctx context.Context, id string) (string, bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(record_hash, '') FROM notes WHERE id = ?", id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, dexerrors.StorageError("reading note hash", err)
	}
	return hash, true, nil
}

// SaveNote upserts the note and replaces its contact links in one
// transaction.
func (s *Store) SaveNote(ctx context.Context, n *Note) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return dexerrors.StorageError("saving note", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO notes (id, note, event_time, full_data, record_hash, last_synced_at)
		VALUES (?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, ?)`,
		n.ID, n.Note, n.EventTime, n.FullData, n.RecordHash, n.LastSyncedAt)
	if err != nil {
		return dexerrors.StorageError("upserting note", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM note_contacts WHERE note_id = ?", n.ID); err != nil {
		return dexerrors.StorageError("clearing note links", err)
	}
	if len(n.ContactIDs) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT OR IGNORE INTO note_contacts (note_id, contact_id) VALUES (?, ?)")
		if err != nil {
			return dexerrors.StorageError("preparing note link insert", err)
		}
		for _, contactID := range n.ContactIDs {
			if _, err := stmt.ExecContext(ctx, n.ID, contactID); err != nil {
				_ = stmt.Close()
				return dexerrors.StorageError("inserting note link", err)
			}
		}
		_ = stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return dexerrors.StorageError("committing note", err)
	}
	return nil
}

// CountNotes returns the number of note rows.
func (s *Store) CountNotes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return 0, dexerrors.StorageError("counting notes", err)
	}
	return n, nil
}
