package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/autotypo/internal/testutil"
)

// runCLI executes the root command with args, isolated from the user's
// config directory.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runOn runs a command against the record at path.
func runOn(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runCLI(t, append([]string{"--file", path}, args...)...)
	return stdout, err
}

func decodeData(t *testing.T, stdout string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestRecordCommand_Promotes(t *testing.T) {
	path := testutil.RecordPath(t)

	want := []string{
		"teh: inactive\n",
		"teh -> the [session]\n",
		"teh -> the [persistent]\n",
	}
	for _, w := range want {
		out, err := runOn(t, path, "record", "teh", "the")
		require.NoError(t, err)
		assert.Equal(t, w, out)
	}
	assert.Equal(t, "teh the\nteh the\nteh the\n", testutil.ReadRecord(t, path))
}

func TestRecordCommand_MultiWordCorrection(t *testing.T) {
	path := testutil.RecordPath(t)

	_, err := runOn(t, path, "record", "alot", "a", "lot")
	require.NoError(t, err)
	assert.Equal(t, "alot a lot\n", testutil.ReadRecord(t, path))
}

func TestRecordCommand_JSON(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh 1 0 the\n")

	out, err := runOn(t, path, "--format", "json", "record", "teh", "the")
	require.NoError(t, err)

	var active struct {
		Misspelling string `json:"misspelling"`
		Corrected   string `json:"corrected"`
		Tier        string `json:"tier"`
		Manual      uint   `json:"manual"`
	}
	decodeData(t, out, &active)
	assert.Equal(t, "teh", active.Misspelling)
	assert.Equal(t, "the", active.Corrected)
	assert.Equal(t, "session", active.Tier)
	assert.Equal(t, uint(2), active.Manual)
}

func TestRecordCommand_InvalidInput(t *testing.T) {
	path := testutil.RecordPath(t)

	_, err := runOn(t, path, "record", "teh", "teh")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Empty(t, testutil.ReadRecord(t, path))
}

func TestRecordCommand_MissingArgs(t *testing.T) {
	_, err := runOn(t, testutil.RecordPath(t), "record", "teh")
	assert.Error(t, err)
}

func TestListCommand_Golden(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path,
		"teh 3 0 the\nadn 2 0 and\nadn 1 0 an\ngonna 0 0\nhte 2 1 the\n")

	out, err := runOn(t, path, "list")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list", []byte(out))
}

func TestListCommand_Empty(t *testing.T) {
	out, err := runOn(t, testutil.RecordPath(t), "list")
	require.NoError(t, err)
	assert.Equal(t, "No corrections recorded.\n", out)
}

func TestListCommand_Active(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh 3 0 the\nadn 2 0 and\nadn 1 0 an\nhte 2 0 the\n")

	out, err := runOn(t, path, "list", "--active")
	require.NoError(t, err)
	assert.Equal(t, "hte -> the [session]\nteh -> the [persistent]\n", out)
}

func TestListCommand_ActiveJSONEmpty(t *testing.T) {
	out, err := runOn(t, testutil.RecordPath(t), "--format", "json", "list", "--active")
	require.NoError(t, err)

	var active []any
	decodeData(t, out, &active)
	assert.NotNil(t, active)
	assert.Empty(t, active)
}

func TestIgnoreCommand(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh 3 0 the\n")

	out, err := runOn(t, path, "ignore", "teh")
	require.NoError(t, err)
	assert.Equal(t, "teh: ignored\n", out)
	assert.Equal(t, "teh 3 0 the\nteh 0 0\n", testutil.ReadRecord(t, path))

	out, err = runOn(t, path, "list", "--active")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAddCommand(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "recieve 1 0 receive\n")

	out, err := runOn(t, path, "add", "recieve", "receive")
	require.NoError(t, err)
	assert.Equal(t, "recieve -> receive [persistent]\n", out)
	assert.Equal(t, "recieve 1 0 receive\nrecieve 2 0 receive\n", testutil.ReadRecord(t, path))

	// Already at the threshold: nothing more is appended.
	_, err = runOn(t, path, "add", "recieve", "receive")
	require.NoError(t, err)
	assert.Equal(t, "recieve 1 0 receive\nrecieve 2 0 receive\n", testutil.ReadRecord(t, path))
}

func TestRemoveCommand(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh 3 0 the\nteh 1 0 tea\n")

	out, err := runOn(t, path, "remove", "teh", "tea")
	require.NoError(t, err)
	assert.Equal(t, "removed teh -> tea\n", out)
	assert.Equal(t, "teh 3 0 the\n", testutil.ReadRecord(t, path))

	out, err = runOn(t, path, "remove", "teh", "tea")
	require.NoError(t, err)
	assert.Equal(t, "no such correction: teh -> tea\n", out)
}

func TestRemoveCommand_IgnoreFlag(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh 3 0 the\nteh 0 0\n")

	out, err := runOn(t, path, "remove", "teh")
	require.NoError(t, err)
	assert.Equal(t, "removed teh (ignore)\n", out)

	out, err = runOn(t, path, "list", "--active")
	require.NoError(t, err)
	assert.Equal(t, "teh -> the [persistent]\n", out)
}

func TestApplyCommand(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh 3 0 the\n")

	out, err := runOn(t, path, "apply", "teh")
	require.NoError(t, err)
	assert.Equal(t, "the\n", out)

	out, err = runOn(t, path, "apply", "Teh")
	require.NoError(t, err)
	assert.Equal(t, "The\n", out)

	assert.Equal(t, "teh 3 0 the\nteh 0 1 the\nteh 0 1 the\n", testutil.ReadRecord(t, path))
}

func TestApplyCommand_NoRule(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh 1 0 the\n")

	out, err := runOn(t, path, "--format", "json", "apply", "teh")
	require.NoError(t, err)

	var result applyResult
	decodeData(t, out, &result)
	assert.False(t, result.Applied)
	assert.Equal(t, "teh", result.Replacement)
	assert.Equal(t, "teh 1 0 the\n", testutil.ReadRecord(t, path))
}

func TestApplyCommand_Scopes(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh 3 0 the\n")

	out, err := runOn(t, path, "apply", "teh", "--scope", "code", "--allow-scope", "comment")
	require.NoError(t, err)
	assert.Equal(t, "teh\n", out)

	out, err = runOn(t, path, "apply", "teh", "--scope", "comment", "--allow-scope", "comment", "--allow-scope", "string")
	require.NoError(t, err)
	assert.Equal(t, "the\n", out)
}

func TestReloadCommand(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh 3 0 the\nadn 1 0 and\n")

	out, err := runOn(t, path, "reload")
	require.NoError(t, err)
	assert.Equal(t, path+": 2 entries, 1 active\n", out)
}

func TestSaveCommand_Compacts(t *testing.T) {
	path := testutil.RecordPath(t)
	testutil.WriteRecord(t, path, "teh the\nteh the\nteh 0 2 the\nadn and\n")

	out, err := runOn(t, path, "save")
	require.NoError(t, err)
	assert.Equal(t, "saved "+path+" (2 entries)\n", out)
	assert.Equal(t, "adn 1 0 and\nteh 2 2 the\n", testutil.ReadRecord(t, path))
}

func TestDictCommands(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "words.db")
	listPath := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(listPath, []byte("# common words\nthe\nand\n\nthe\n"), 0o644))
	path := testutil.RecordPath(t)

	out, err := runOn(t, path, "--dict", dictPath, "dict", "import", listPath)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 words from words.txt (2 total)\n", out)

	out, err = runOn(t, path, "--dict", dictPath, "dict", "check", "the")
	require.NoError(t, err)
	assert.Equal(t, "the: valid\n", out)

	out, err = runOn(t, path, "--dict", dictPath, "dict", "check", "teh")
	require.NoError(t, err)
	assert.Equal(t, "teh: unknown\n", out)

	// The dictionary folds capitalized corrections of known words.
	_, err = runOn(t, path, "--dict", dictPath, "record", "Teh", "The")
	require.NoError(t, err)
	assert.Equal(t, "teh the\n", testutil.ReadRecord(t, path))
}

func TestDictCommand_NotConfigured(t *testing.T) {
	_, err := runOn(t, testutil.RecordPath(t), "dict", "check", "the")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
