package store

import (
	"context"
	"database/sql"
	"fmt"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// ChildRelation enumerates the contact child tables a merge
// consolidates. The closed set keeps table names out of dynamic query
// text: each member dispatches to its own typed statements.
type ChildRelation int

const (
	RelationEmails ChildRelation = iota
	RelationPhones
)

var childRelations = []ChildRelation{RelationEmails, RelationPhones}

func (r ChildRelation) String() string {
	switch r {
	case RelationEmails:
		return "emails"
	case RelationPhones:
		return "phones"
	default:
		return fmt.Sprintf("relation(%d)", int(r))
	}
}

// consolidate repoints the relation's rows from every cluster member
// to the primary, then removes duplicate rows per contact.
func (r ChildRelation) consolidate(ctx context.Context, tx *sql.Tx, primaryID string, clusterIDs []string) error {
	args := append([]any{primaryID}, stringArgs(clusterIDs)...)
	in := placeholders(len(clusterIDs))

	switch r {
	case RelationEmails:
		if _, err := tx.ExecContext(ctx,
			"UPDATE emails SET contact_id = ? WHERE contact_id IN ("+in+")", args...); err != nil {
			return fmt.Errorf("repointing emails: %w", err)
		}
		// Same address under differing case collapses to the
		// earliest row.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM emails WHERE id NOT IN (
				SELECT MIN(id) FROM emails GROUP BY contact_id, lower(email)
			)`); err != nil {
			return fmt.Errorf("deduplicating emails: %w", err)
		}
		return nil

	case RelationPhones:
		if _, err := tx.ExecContext(ctx,
			"UPDATE phones SET contact_id = ? WHERE contact_id IN ("+in+")", args...); err != nil {
			return fmt.Errorf("repointing phones: %w", err)
		}
		// Phones dedupe on the raw string: "+1 (555) 123" and
		// "5551231234" stay distinct rows.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM phones WHERE id NOT IN (
				SELECT MIN(id) FROM phones GROUP BY contact_id, phone_number
			)`); err != nil {
			return fmt.Errorf("deduplicating phones: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown child relation %d", int(r))
	}
}

// ApplyMerge persists a computed merge in one transaction: write the
// filled-forward scalars onto the primary, consolidate each child
// relation, and delete the losing contacts. merged.ID is the primary
// and must appear in clusterIDs.
func (s *Store) ApplyMerge(ctx context.Context, merged *Contact, clusterIDs []string) error {
	if merged == nil || len(clusterIDs) == 0 {
		return dexerrors.New(dexerrors.ErrCodeInvalidInput, "merge requires a primary and a cluster", nil)
	}
	found := false
	for _, id := range clusterIDs {
		if id == merged.ID {
			found = true
			break
		}
	}
	if !found {
		return dexerrors.New(dexerrors.ErrCodePrimaryNotInCluster,
			fmt.Sprintf("primary %s is not part of the cluster", merged.ID), nil)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return dexerrors.New(dexerrors.ErrCodeMergeFailed, "starting merge", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		UPDATE contacts
		SET first_name = NULLIF(?, ''), last_name = NULLIF(?, ''), job_title = NULLIF(?, ''),
		    linkedin = NULLIF(?, ''), website = NULLIF(?, ''), full_data = ?
		WHERE id = ?`,
		merged.FirstName, merged.LastName, merged.JobTitle,
		merged.Linkedin, merged.Website, merged.FullData, merged.ID)
	if err != nil {
		return dexerrors.New(dexerrors.ErrCodeMergeFailed, "updating primary contact", err)
	}

	for _, relation := range childRelations {
		if err := relation.consolidate(ctx, tx, merged.ID, clusterIDs); err != nil {
			return dexerrors.New(dexerrors.ErrCodeMergeFailed,
				fmt.Sprintf("consolidating %s", relation), err)
		}
	}

	args := append(stringArgs(clusterIDs), merged.ID)
	_, err = tx.ExecContext(ctx,
		"DELETE FROM contacts WHERE id IN ("+placeholders(len(clusterIDs))+") AND id != ?", args...)
	if err != nil {
		return dexerrors.New(dexerrors.ErrCodeMergeFailed, "removing merged contacts", err)
	}

	if err := tx.Commit(); err != nil {
		return dexerrors.New(dexerrors.ErrCodeMergeFailed, "committing merge", err)
	}
	return nil
}
