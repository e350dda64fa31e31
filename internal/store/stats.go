package store

import (
	"context"
	"database/sql"
	"time"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// Stats summarizes the store for the stats command.
type Stats struct {
	Contacts  int
	Emails    int
	Phones    int
	Reminders int
	Notes     int

	FlaggedContacts     int
	FlaggedGroups       int
	UnresolvedGroups    int
	ConfirmedGroups     int
	FalsePositiveGroups int
}

// Stats gathers row and group counts in one pass of simple queries.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM contacts", &st.Contacts},
		{"SELECT COUNT(*) FROM emails", &st.Emails},
		{"SELECT COUNT(*) FROM phones", &st.Phones},
		{"SELECT COUNT(*) FROM reminders", &st.Reminders},
		{"SELECT COUNT(*) FROM notes", &st.Notes},
		{"SELECT COUNT(*) FROM contacts WHERE duplicate_group_id IS NOT NULL", &st.FlaggedContacts},
		{"SELECT COUNT(DISTINCT duplicate_group_id) FROM contacts WHERE duplicate_group_id IS NOT NULL", &st.FlaggedGroups},
		{`SELECT COUNT(DISTINCT duplicate_group_id) FROM contacts
			WHERE duplicate_group_id IS NOT NULL
			  AND (duplicate_resolution IS NULL OR duplicate_resolution = '')`, &st.UnresolvedGroups},
		{"SELECT COUNT(DISTINCT duplicate_group_id) FROM contacts WHERE duplicate_resolution = 'confirmed'", &st.ConfirmedGroups},
		{"SELECT COUNT(DISTINCT duplicate_group_id) FROM contacts WHERE duplicate_resolution = 'false_positive'", &st.FalsePositiveGroups},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, dexerrors.StorageError("collecting store stats", err)
		}
	}
	return &st, nil
}

// LastSyncedAt returns the most recent sync timestamp across all
// contacts, or the zero time for a store that has never synced.
func (s *Store) LastSyncedAt(ctx context.Context) (time.Time, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(last_synced_at) FROM contacts").Scan(&raw)
	if err != nil {
		return time.Time{}, dexerrors.StorageError("reading last sync time", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}
