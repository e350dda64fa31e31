package dedupe

import (
	"context"
	"fmt"
	"sort"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
	"github.com/Aman-CERP/dexsync/internal/store"
)

// Merge consolidates a cluster of contacts into one surviving record
// and returns its id. The primary is primaryID when given (it must
// be part of the cluster), otherwise the most complete record. Empty
// fields on the primary fill forward from the other members; emails
// and phones move over and dedupe; the losing rows are deleted. The
// store applies all of it in one transaction.
func Merge(ctx context.Context, st *store.Store, contactIDs []string, primaryID string) (string, error) {
	if len(contactIDs) == 0 {
		return "", dexerrors.New(dexerrors.ErrCodeEmptyCluster, "no contact ids provided", nil)
	}

	rows, err := st.ContactsByIDs(ctx, contactIDs)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", dexerrors.New(dexerrors.ErrCodeInvalidInput, "contacts not found in database", nil)
	}

	ordered, err := orderForMerge(rows, primaryID)
	if err != nil {
		return "", err
	}

	merged := fillForward(ordered)
	if err := st.ApplyMerge(ctx, &merged, contactIDs); err != nil {
		return "", err
	}
	return merged.ID, nil
}

// orderForMerge sorts the cluster most complete first, ties broken
// by smaller id, then moves an explicitly chosen primary to the
// front. Donor order decides which value wins when several members
// fill the same empty field.
func orderForMerge(rows []store.Contact, primaryID string) ([]store.Contact, error) {
	ordered := make([]store.Contact, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := completeness(&ordered[i]), completeness(&ordered[j])
		if si != sj {
			return si > sj
		}
		return ordered[i].ID < ordered[j].ID
	})

	if primaryID == "" {
		return ordered, nil
	}
	for i := range ordered {
		if ordered[i].ID == primaryID {
			primary := ordered[i]
			rest := append(ordered[:i:i], ordered[i+1:]...)
			return append([]store.Contact{primary}, rest...), nil
		}
	}
	return nil, dexerrors.New(dexerrors.ErrCodePrimaryNotInCluster,
		fmt.Sprintf("primary %s not found in contact cluster", primaryID), nil)
}

// mergeFields lists the scalar fields a merge fills forward.
func mergeFields(c *store.Contact) []*string {
	return []*string{&c.FirstName, &c.LastName, &c.JobTitle, &c.Linkedin, &c.Website, &c.FullData}
}

// completeness counts the filled merge fields of a contact.
func completeness(c *store.Contact) int {
	score := 0
	for _, field := range mergeFields(c) {
		if *field != "" {
			score++
		}
	}
	return score
}

// fillForward copies the first contact and fills each of its empty
// merge fields from the first later member that has a value.
func fillForward(ordered []store.Contact) store.Contact {
	merged := ordered[0]
	dst := mergeFields(&merged)
	for i := 1; i < len(ordered); i++ {
		src := mergeFields(&ordered[i])
		for f := range dst {
			if *dst[f] == "" && *src[f] != "" {
				*dst[f] = *src[f]
			}
		}
	}
	return merged
}
