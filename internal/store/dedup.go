package store

import (
	"context"
	"fmt"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// Group assignment and review state. Flagging clears only groups
// without a resolution, so confirmed and false-positive decisions
// survive every re-flag.

// ClearUnresolvedGroups removes group ids from contacts whose group
// was never reviewed. Returns the number of contacts cleared.
func (s *Store) ClearUnresolvedGroups(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE contacts SET duplicate_group_id = NULL
		WHERE duplicate_group_id IS NOT NULL
		  AND (duplicate_resolution IS NULL OR duplicate_resolution = '')`)
	if err != nil {
		return 0, dexerrors.StorageError("clearing unresolved groups", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// AssignGroup stamps groupID onto every listed contact.
func (s *Store) AssignGroup(ctx context.Context, groupID string, contactIDs []string) error {
	if groupID == "" || len(contactIDs) == 0 {
		return dexerrors.New(dexerrors.ErrCodeInvalidInput, "group id and members required", nil)
	}
	args := append([]any{groupID}, stringArgs(contactIDs)...)
	_, err := s.db.ExecContext(ctx,
		"UPDATE contacts SET duplicate_group_id = ? WHERE id IN ("+placeholders(len(contactIDs))+")",
		args...)
	if err != nil {
		return dexerrors.StorageError("assigning group", err)
	}
	return nil
}

// UnresolvedGroupIDs lists group ids awaiting review, ordered for a
// stable walk.
func (s *Store) UnresolvedGroupIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT duplicate_group_id FROM contacts
		WHERE duplicate_group_id IS NOT NULL
		  AND (duplicate_resolution IS NULL OR duplicate_resolution = '')
		ORDER BY duplicate_group_id`)
	if err != nil {
		return nil, dexerrors.StorageError("listing unresolved groups", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dexerrors.StorageError("scanning group id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GroupMembers returns the contacts in a group with children
// attached, ordered by id.
func (s *Store) GroupMembers(ctx context.Context, groupID string) ([]Contact, error) {
	contacts, err := s.queryContacts(ctx, "WHERE duplicate_group_id = ? ORDER BY id", groupID)
	if err != nil {
		return nil, dexerrors.StorageError("loading group members", err)
	}
	if err := s.attachChildren(ctx, contacts); err != nil {
		return nil, dexerrors.StorageError("loading group children", err)
	}
	return contacts, nil
}

// SetGroupResolution records a review decision for every member of a
// group. primaryID may be empty (false positives have no primary).
func (s *Store) SetGroupResolution(ctx context.Context, groupID, resolution, primaryID string) error {
	if resolution != ResolutionConfirmed && resolution != ResolutionFalsePositive {
		return dexerrors.New(dexerrors.ErrCodeInvalidInput,
			fmt.Sprintf("unknown resolution %q", resolution), nil)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE contacts
		SET duplicate_resolution = ?, primary_contact_id = NULLIF(?, '')
		WHERE duplicate_group_id = ?`,
		resolution, primaryID, groupID)
	if err != nil {
		return dexerrors.StorageError("recording resolution", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dexerrors.New(dexerrors.ErrCodeGroupNotFound,
			fmt.Sprintf("group %s has no members", groupID), nil)
	}
	return nil
}

// ClearGroup resets group id, resolution, and primary for every
// member. Used after a confirmed group has been merged.
func (s *Store) ClearGroup(ctx context.Context, groupID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE contacts
		SET duplicate_group_id = NULL, duplicate_resolution = NULL, primary_contact_id = NULL
		WHERE duplicate_group_id = ?`, groupID)
	if err != nil {
		return dexerrors.StorageError("clearing group", err)
	}
	return nil
}

// ReviewedGroup is one group with a recorded decision.
type ReviewedGroup struct {
	GroupID   string
	PrimaryID string
	MemberIDs []string
}

// ConfirmedGroups returns groups marked confirmed during review,
// members ordered by id within each group.
func (s *Store) ConfirmedGroups(ctx context.Context) ([]ReviewedGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT duplicate_group_id, COALESCE(primary_contact_id, ''), id
		FROM contacts
		WHERE duplicate_resolution = ? AND duplicate_group_id IS NOT NULL
		ORDER BY duplicate_group_id, id`, ResolutionConfirmed)
	if err != nil {
		return nil, dexerrors.StorageError("listing confirmed groups", err)
	}
	defer rows.Close()

	var groups []ReviewedGroup
	for rows.Next() {
		var groupID, primaryID, contactID string
		if err := rows.Scan(&groupID, &primaryID, &contactID); err != nil {
			return nil, dexerrors.StorageError("scanning confirmed group", err)
		}
		if len(groups) == 0 || groups[len(groups)-1].GroupID != groupID {
			groups = append(groups, ReviewedGroup{GroupID: groupID, PrimaryID: primaryID})
		}
		last := &groups[len(groups)-1]
		last.MemberIDs = append(last.MemberIDs, contactID)
	}
	return groups, rows.Err()
}
