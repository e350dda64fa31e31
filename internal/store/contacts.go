package store

import (
	"context"
	"database/sql"
	"fmt"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// Duplicate resolution states recorded by the review flow.
const (
	ResolutionConfirmed     = "confirmed"
	ResolutionFalsePositive = "false_positive"
)

// Contact is one row of the contacts table plus its child emails and
// phones. Optional columns are empty strings, never NULL, on the Go
// side.
type Contact struct {
	ID        string
	FirstName string
	LastName  string
	JobTitle  string
	Linkedin  string
	Website   string
	Birthday  string

	FullData     string
	RecordHash   string
	LastSyncedAt string

	DuplicateGroupID    string
	DuplicateResolution string
	PrimaryContactID    string

	NameGiven   string
	NameSurname string
	NameParsed  string
	Company     string
	Role        string

	Emails []string
	Phones []Phone
}

// Phone is one phone row for a contact.
type Phone struct {
	Number string
	Label  string
}

// DisplayName renders the contact's name for reports and the review
// table, falling back to "Unknown" when both parts are empty.
func (c *Contact) DisplayName() string {
	name := c.FirstName
	if c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += c.LastName
	}
	if name == "" {
		return "Unknown"
	}
	return name
}

// SyncState is the per-contact state the sync engine consults before
// writing: the stored payload hash and the review columns that must
// survive an overwrite.
type SyncState struct {
	RecordHash          string
	DuplicateGroupID    string
	DuplicateResolution string
	PrimaryContactID    string
}

// ContactSyncState reports whether a contact exists and, if so, its
// stored hash and review columns.
func (s *Store) ContactSyncState(ctx context.Context, id string) (SyncState, bool, error) {
	var state SyncState
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(record_hash, ''),
		       COALESCE(duplicate_group_id, ''),
		       COALESCE(duplicate_resolution, ''),
		       COALESCE(primary_contact_id, '')
		FROM contacts WHERE id = ?`, id).
		Scan(&state.RecordHash, &state.DuplicateGroupID,
			&state.DuplicateResolution, &state.PrimaryContactID)
	if err == sql.ErrNoRows {
		return SyncState{}, false, nil
	}
	if err != nil {
		return SyncState{}, false, dexerrors.StorageError("reading contact sync state", err)
	}
	return state, true, nil
}

// SaveContact upserts the contact row and replaces its emails and
// phones in a single transaction. Callers fill the review columns
// from ContactSyncState so an overwrite never loses them.
func (s *Store) SaveContact(ctx context.Context, c *Contact) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return dexerrors.StorageError("saving contact", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO contacts (
			id, first_name, last_name, job_title, linkedin, website, birthday,
			full_data, record_hash, last_synced_at,
			duplicate_group_id, duplicate_resolution, primary_contact_id,
			name_given, name_surname, name_parsed, company, role
		) VALUES (?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''),
			?, ?, ?,
			NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''),
			NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''))`,
		c.ID, c.FirstName, c.LastName, c.JobTitle, c.Linkedin, c.Website, c.Birthday,
		c.FullData, c.RecordHash, c.LastSyncedAt,
		c.DuplicateGroupID, c.DuplicateResolution, c.PrimaryContactID,
		c.NameGiven, c.NameSurname, c.NameParsed, c.Company, c.Role)
	if err != nil {
		return dexerrors.StorageError("upserting contact", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM emails WHERE contact_id = ?", c.ID); err != nil {
		return dexerrors.StorageError("clearing emails", err)
	}
	if len(c.Emails) > 0 {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO emails (contact_id, email) VALUES (?, ?)")
		if err != nil {
			return dexerrors.StorageError("preparing email insert", err)
		}
		for _, email := range c.Emails {
			if _, err := stmt.ExecContext(ctx, c.ID, email); err != nil {
				_ = stmt.Close()
				return dexerrors.StorageError("inserting email", err)
			}
		}
		_ = stmt.Close()
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM phones WHERE contact_id = ?", c.ID); err != nil {
		return dexerrors.StorageError("clearing phones", err)
	}
	if len(c.Phones) > 0 {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO phones (contact_id, phone_number, label) VALUES (?, ?, NULLIF(?, ''))")
		if err != nil {
			return dexerrors.StorageError("preparing phone insert", err)
		}
		for _, phone := range c.Phones {
			if _, err := stmt.ExecContext(ctx, c.ID, phone.Number, phone.Label); err != nil {
				_ = stmt.Close()
				return dexerrors.StorageError("inserting phone", err)
			}
		}
		_ = stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return dexerrors.StorageError("committing contact", err)
	}
	return nil
}

const contactColumns = `
	id,
	COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(job_title, ''),
	COALESCE(linkedin, ''), COALESCE(website, ''), COALESCE(birthday, ''),
	COALESCE(full_data, ''), COALESCE(record_hash, ''), COALESCE(last_synced_at, ''),
	COALESCE(duplicate_group_id, ''), COALESCE(duplicate_resolution, ''), COALESCE(primary_contact_id, ''),
	COALESCE(name_given, ''), COALESCE(name_surname, ''), COALESCE(name_parsed, ''),
	COALESCE(company, ''), COALESCE(role, '')`

func scanContact(rows *sql.Rows) (Contact, error) {
	var c Contact
	err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.JobTitle,
		&c.Linkedin, &c.Website, &c.Birthday,
		&c.FullData, &c.RecordHash, &c.LastSyncedAt,
		&c.DuplicateGroupID, &c.DuplicateResolution, &c.PrimaryContactID,
		&c.NameGiven, &c.NameSurname, &c.NameParsed, &c.Company, &c.Role)
	return c, err
}

// queryContacts runs a SELECT over the contacts table with the shared
// column list. The where clause is always a fixed string from this
// package; args are the only dynamic part.
func (s *Store) queryContacts(ctx context.Context, where string, args ...any) ([]Contact, error) {
	query := "SELECT " + contactColumns + " FROM contacts " + where
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// attachChildren loads emails and phones for the given contacts in
// two queries and fills the corresponding slices in place.
func (s *Store) attachChildren(ctx context.Context, contacts []Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	index := make(map[string]*Contact, len(contacts))
	ids := make([]string, len(contacts))
	for i := range contacts {
		index[contacts[i].ID] = &contacts[i]
		ids[i] = contacts[i].ID
	}

	emailRows, err := s.db.QueryContext(ctx,
		"SELECT contact_id, email FROM emails WHERE contact_id IN ("+placeholders(len(ids))+") ORDER BY id",
		stringArgs(ids)...)
	if err != nil {
		return fmt.Errorf("querying emails: %w", err)
	}
	defer emailRows.Close()
	for emailRows.Next() {
		var contactID, email string
		if err := emailRows.Scan(&contactID, &email); err != nil {
			return fmt.Errorf("scanning email: %w", err)
		}
		if c, ok := index[contactID]; ok {
			c.Emails = append(c.Emails, email)
		}
	}
	if err := emailRows.Err(); err != nil {
		return err
	}

	phoneRows, err := s.db.QueryContext(ctx,
		"SELECT contact_id, phone_number, COALESCE(label, '') FROM phones WHERE contact_id IN ("+placeholders(len(ids))+") ORDER BY id",
		stringArgs(ids)...)
	if err != nil {
		return fmt.Errorf("querying phones: %w", err)
	}
	defer phoneRows.Close()
	for phoneRows.Next() {
		var contactID string
		var phone Phone
		if err := phoneRows.Scan(&contactID, &phone.Number, &phone.Label); err != nil {
			return fmt.Errorf("scanning phone: %w", err)
		}
		if c, ok := index[contactID]; ok {
			c.Phones = append(c.Phones, phone)
		}
	}
	return phoneRows.Err()
}

// ListContacts returns every contact with children attached, ordered
// by id so detection output is deterministic.
func (s *Store) ListContacts(ctx context.Context) ([]Contact, error) {
	contacts, err := s.queryContacts(ctx, "ORDER BY id")
	if err != nil {
		return nil, dexerrors.StorageError("listing contacts", err)
	}
	if err := s.attachChildren(ctx, contacts); err != nil {
		return nil, dexerrors.StorageError("loading contact children", err)
	}
	return contacts, nil
}

// GetContact returns one contact with children attached.
func (s *Store) GetContact(ctx context.Context, id string) (*Contact, error) {
	contacts, err := s.queryContacts(ctx, "WHERE id = ?", id)
	if err != nil {
		return nil, dexerrors.StorageError("loading contact", err)
	}
	if len(contacts) == 0 {
		return nil, dexerrors.New(dexerrors.ErrCodeContactNotFound,
			fmt.Sprintf("contact %s not found", id), nil)
	}
	if err := s.attachChildren(ctx, contacts); err != nil {
		return nil, dexerrors.StorageError("loading contact children", err)
	}
	return &contacts[0], nil
}

// ContactsByIDs returns the contacts with the given ids, ordered by
// id. Missing ids are silently absent from the result.
func (s *Store) ContactsByIDs(ctx context.Context, ids []string) ([]Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	contacts, err := s.queryContacts(ctx,
		"WHERE id IN ("+placeholders(len(ids))+") ORDER BY id", stringArgs(ids)...)
	if err != nil {
		return nil, dexerrors.StorageError("loading contacts by id", err)
	}
	return contacts, nil
}

// CountContacts returns the number of contact rows.
func (s *Store) CountContacts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&n); err != nil {
		return 0, dexerrors.StorageError("counting contacts", err)
	}
	return n, nil
}
