package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/dexsync/internal/store"
)

// executeCommand runs the full CLI with args and returns the combined
// output. Persistent flags bind package vars, so they are reset
// between runs.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dbOverride = ""
	debugMode = false

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// testDBPath returns a database path inside a per-test temp dir.
func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "contacts.db")
}

// seedContacts writes contacts into the database at dbPath, creating
// it if needed.
func seedContacts(t *testing.T, dbPath string, contacts []store.Contact) {
	t.Helper()

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	for i := range contacts {
		require.NoError(t, st.SaveContact(ctx, &contacts[i]))
	}
}

// duplicatePair returns two contacts sharing an email plus one
// unrelated contact.
func duplicatePair() []store.Contact {
	return []store.Contact{
		{
			ID: "c-1", FirstName: "Ada", LastName: "Lovelace", JobTitle: "Engineer",
			Emails:       []string{"ada@example.com"},
			LastSyncedAt: "2026-08-25T10:00:00Z",
		},
		{
			ID: "c-2", FirstName: "Ada", LastName: "Lovelace",
			Emails:       []string{"ada@example.com"},
			LastSyncedAt: "2026-08-25T10:00:01Z",
		},
		{
			ID: "c-3", FirstName: "Grace", LastName: "Hopper",
			Emails:       []string{"grace@example.com"},
			LastSyncedAt: "2026-08-25T10:00:02Z",
		},
	}
}

func TestRootCmd_ShowsHelp(t *testing.T) {
	// Given: a home directory that has no config
	t.Setenv("HOME", t.TempDir())

	// When: executing with --help
	output, err := executeCommand(t, "--help")

	// Then: it should show usage information
	require.NoError(t, err)
	assert.Contains(t, output, "dexsync", "Help should mention program name")
	assert.Contains(t, output, "Usage:", "Help should show usage")
}

func TestRootCmd_ShowsVersion(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	// When: executing with --version
	output, err := executeCommand(t, "--version")

	// Then: it should show the version template
	require.NoError(t, err)
	assert.Contains(t, output, "dexsync version", "Version output should use the template")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	// Given: a root command
	cmd := NewRootCmd()

	// When: checking available commands
	var commandNames []string
	for _, subcmd := range cmd.Commands() {
		commandNames = append(commandNames, subcmd.Name())
	}

	// Then: the full workflow should be present
	for _, name := range []string{"sync", "analyze", "flag", "review", "resolve", "stats", "logs", "config", "version"} {
		assert.Contains(t, commandNames, name, "Should have %s subcommand", name)
	}
}

func TestRootCmd_HasDBFlag(t *testing.T) {
	// Given: a root command
	cmd := NewRootCmd()

	// Then: it should have the persistent --db flag
	flag := cmd.PersistentFlags().Lookup("db")
	assert.NotNil(t, flag, "Should have --db flag")
	assert.Equal(t, "", flag.DefValue)
}

func TestRootCmd_HasDebugFlag(t *testing.T) {
	// Given: a root command
	cmd := NewRootCmd()

	// Then: it should have the persistent --debug flag
	flag := cmd.PersistentFlags().Lookup("debug")
	assert.NotNil(t, flag, "Should have --debug flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	// When: executing an unknown subcommand
	_, err := executeCommand(t, "frobnicate")

	// Then: it should fail
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frobnicate")
}
