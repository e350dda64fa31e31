package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/dexsync/internal/store"
)

// executeWithInput runs the CLI with stdin wired to input.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	dbOverride = ""
	debugMode = false

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestReviewCmd_NothingToReview(t *testing.T) {
	// Given: a database with no flagged groups
	t.Setenv("HOME", t.TempDir())
	dbPath := testDBPath(t)
	seedContacts(t, dbPath, nil)

	// When: running review
	output, err := executeCommand(t, "review", "--db", dbPath)

	// Then: it points at flag instead of prompting
	require.NoError(t, err)
	assert.Contains(t, output, "Nothing to review")
	assert.Contains(t, output, "dexsync flag")
}

func TestReviewCmd_ConfirmGroup(t *testing.T) {
	// Given: one flagged group
	t.Setenv("HOME", t.TempDir())
	dbPath := testDBPath(t)
	seedContacts(t, dbPath, duplicatePair())
	groupID := flagAndReturnGroup(t, dbPath)

	// When: confirming with the first member as primary
	output, err := executeWithInput(t, "1\n", "review", "--plain", "--db", dbPath)

	// Then: the verdict is recorded and resolve is suggested
	require.NoError(t, err)
	assert.Contains(t, output, "Group 1/1")
	assert.Contains(t, output, "Review Summary")
	assert.Contains(t, output, "Groups Confirmed: 1")
	assert.Contains(t, output, "dexsync resolve")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	confirmed, err := st.ConfirmedGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, groupID, confirmed[0].GroupID)
}

func TestReviewCmd_SkipAsFalsePositive(t *testing.T) {
	// Given: one flagged group
	t.Setenv("HOME", t.TempDir())
	dbPath := testDBPath(t)
	seedContacts(t, dbPath, duplicatePair())
	flagAndReturnGroup(t, dbPath)

	// When: skipping the group
	output, err := executeWithInput(t, "s\n", "review", "--plain", "--db", dbPath)

	// Then: it is marked a false positive and never re-prompted
	require.NoError(t, err)
	assert.Contains(t, output, "False Positives:  1")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	unresolved, err := st.UnresolvedGroupIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, unresolved)
}

func TestReviewCmd_QuitLeavesGroupPending(t *testing.T) {
	// Given: one flagged group
	t.Setenv("HOME", t.TempDir())
	dbPath := testDBPath(t)
	seedContacts(t, dbPath, duplicatePair())
	flagAndReturnGroup(t, dbPath)

	// When: quitting immediately
	output, err := executeWithInput(t, "q\n", "review", "--plain", "--db", dbPath)

	// Then: the group stays unresolved for next time
	require.NoError(t, err)
	assert.Contains(t, output, "Remaining:        1")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	unresolved, err := st.UnresolvedGroupIDs(context.Background())
	require.NoError(t, err)
	assert.Len(t, unresolved, 1)
}
