package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/dexsync/internal/store"
)

func TestFlagCmd_FlagsDuplicates(t *testing.T) {
	// Given: a database with a duplicate pair
	t.Setenv("HOME", t.TempDir())
	dbPath := testDBPath(t)
	seedContacts(t, dbPath, duplicatePair())

	// When: running flag
	output, err := executeCommand(t, "flag", "--db", dbPath)

	// Then: the pair gets one group, the unique contact none
	require.NoError(t, err)
	assert.Contains(t, output, "Flagged 2 contacts in 1 groups")
	assert.Contains(t, output, "dexsync review")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	groupIDs, err := st.UnresolvedGroupIDs(context.Background())
	require.NoError(t, err)
	require.Len(t, groupIDs, 1)

	members, err := st.GroupMembers(context.Background(), groupIDs[0])
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestFlagCmd_NoDuplicates(t *testing.T) {
	// Given: a database with only distinct contacts
	t.Setenv("HOME", t.TempDir())
	dbPath := testDBPath(t)
	seedContacts(t, dbPath, []store.Contact{
		{ID: "c-1", FirstName: "Ada", LastName: "Lovelace", Emails: []string{"ada@example.com"}},
		{ID: "c-2", FirstName: "Grace", LastName: "Hopper", Emails: []string{"grace@example.com"}},
	})

	// When: running flag
	output, err := executeCommand(t, "flag", "--db", dbPath)

	// Then: nothing is flagged
	require.NoError(t, err)
	assert.Contains(t, output, "No duplicate groups found")
}

func TestFlagCmd_PreservesReviewedGroups(t *testing.T) {
	// Given: a flagged pair already confirmed by review
	t.Setenv("HOME", t.TempDir())
	dbPath := testDBPath(t)
	seedContacts(t, dbPath, duplicatePair())

	_, err := executeCommand(t, "flag", "--db", dbPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	ctx := context.Background()
	groupIDs, err := st.UnresolvedGroupIDs(ctx)
	require.NoError(t, err)
	require.Len(t, groupIDs, 1)
	require.NoError(t, st.SetGroupResolution(ctx, groupIDs[0], store.ResolutionConfirmed, "c-1"))
	require.NoError(t, st.Close())

	// When: flagging again
	_, err = executeCommand(t, "flag", "--db", dbPath)
	require.NoError(t, err)

	// Then: the confirmed verdict survives the re-run
	st, err = store.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	confirmed, err := st.ConfirmedGroups(ctx)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "c-1", confirmed[0].PrimaryID)
}
