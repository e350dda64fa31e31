package dedupe

import (
	"context"

	"github.com/google/uuid"

	"github.com/Aman-CERP/dexsync/internal/store"
)

// FlagResult summarizes a flag pass.
type FlagResult struct {
	Cleared  int // contacts whose stale unreviewed group id was removed
	Signals  int
	Clusters int
	Flagged  int // contacts stamped with a group id
	GroupIDs []string
}

// Flag recomputes duplicate clusters and stamps each with a fresh
// 8-character group id. Only unreviewed assignments are cleared
// first: confirmed and false-positive verdicts keep their groups and
// are never invalidated by a re-flag.
func Flag(ctx context.Context, st *store.Store, threshold float64) (*FlagResult, error) {
	cleared, err := st.ClearUnresolvedGroups(ctx)
	if err != nil {
		return nil, err
	}

	contacts, err := st.ListContacts(ctx)
	if err != nil {
		return nil, err
	}

	signals := FindAll(contacts, threshold)
	clusters := Cluster(signals)

	result := &FlagResult{Cleared: cleared, Signals: len(signals), Clusters: len(clusters)}
	for _, cluster := range clusters {
		groupID := uuid.NewString()[:8]
		if err := st.AssignGroup(ctx, groupID, cluster); err != nil {
			return nil, err
		}
		result.Flagged += len(cluster)
		result.GroupIDs = append(result.GroupIDs, groupID)
	}
	return result, nil
}
