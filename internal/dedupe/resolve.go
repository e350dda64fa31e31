package dedupe

import (
	"context"
	"fmt"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
	"github.com/Aman-CERP/dexsync/internal/store"
)

// ResolveResult summarizes a resolve pass.
type ResolveResult struct {
	Signals  int
	Clusters int
	Merged   int // contacts removed by merging
	Before   int
	After    int

	// Errors holds per-cluster failures. A failed cluster never
	// stops the pass; its members are simply left in place.
	Errors []error
}

// ResolveAll recomputes duplicate clusters at the given threshold and
// merges every one. The contact count drops by cluster size minus one
// for each successful merge.
func ResolveAll(ctx context.Context, st *store.Store, threshold float64) (*ResolveResult, error) {
	contacts, err := st.ListContacts(ctx)
	if err != nil {
		return nil, err
	}

	signals := FindAll(contacts, threshold)
	clusters := Cluster(signals)

	result := &ResolveResult{
		Signals:  len(signals),
		Clusters: len(clusters),
		Before:   len(contacts),
		After:    len(contacts),
	}
	if len(clusters) == 0 {
		return result, nil
	}

	for _, cluster := range clusters {
		if _, err := Merge(ctx, st, cluster, ""); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("merging cluster %v: %w", cluster, err))
			continue
		}
		result.Merged += len(cluster) - 1
	}

	after, err := st.CountContacts(ctx)
	if err != nil {
		return nil, err
	}
	result.After = after
	return result, nil
}

// ResolveConfirmed merges only groups a human confirmed during
// review, honoring the chosen primary, and clears each group's
// columns once its merge lands so the verdict does not linger on the
// survivor.
func ResolveConfirmed(ctx context.Context, st *store.Store) (*ResolveResult, error) {
	groups, err := st.ConfirmedGroups(ctx)
	if err != nil {
		return nil, err
	}
	before, err := st.CountContacts(ctx)
	if err != nil {
		return nil, err
	}

	result := &ResolveResult{Clusters: len(groups), Before: before, After: before}
	for _, group := range groups {
		if len(group.MemberIDs) < 2 {
			// A previous merge can leave a confirmed group with a
			// single member; nothing left to do but clear it.
			if err := st.ClearGroup(ctx, group.GroupID); err != nil {
				result.Errors = append(result.Errors, err)
			}
			continue
		}
		if _, err := Merge(ctx, st, group.MemberIDs, group.PrimaryID); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("merging group %s: %w", group.GroupID, err))
			continue
		}
		result.Merged += len(group.MemberIDs) - 1
		if err := st.ClearGroup(ctx, group.GroupID); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	after, err := st.CountContacts(ctx)
	if err != nil {
		return nil, err
	}
	result.After = after
	return result, nil
}

// ResolveGroup merges one flagged group by id, using the reviewed
// primary when one was recorded. Groups reviewed as false positives
// are refused.
func ResolveGroup(ctx context.Context, st *store.Store, groupID string) (string, error) {
	members, err := st.GroupMembers(ctx, groupID)
	if err != nil {
		return "", err
	}
	if len(members) < 2 {
		return "", dexerrors.New(dexerrors.ErrCodeGroupNotFound,
			fmt.Sprintf("group %s has fewer than two members", groupID), nil)
	}
	if members[0].DuplicateResolution == store.ResolutionFalsePositive {
		return "", dexerrors.New(dexerrors.ErrCodeInvalidInput,
			fmt.Sprintf("group %s was reviewed as a false positive", groupID), nil)
	}

	ids := make([]string, len(members))
	primaryID := ""
	for i := range members {
		ids[i] = members[i].ID
		if members[i].PrimaryContactID != "" {
			primaryID = members[i].PrimaryContactID
		}
	}

	survivor, err := Merge(ctx, st, ids, primaryID)
	if err != nil {
		return "", err
	}
	if err := st.ClearGroup(ctx, groupID); err != nil {
		return "", err
	}
	return survivor, nil
}
