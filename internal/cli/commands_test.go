package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/people/internal/config"
	"github.com/roach88/people/internal/store"
)

type cliResult struct {
	stdout string
	stderr string
	code   int
}

// isolate moves the test into an empty working directory and home so no
// people.yaml or PEOPLE_* variable from the developer's machine leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, config.EnvPrefix+"_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	return dir
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := Execute(context.Background(), args, stdout, stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	res := runCLI(t, args...)
	require.Equal(t, ExitSuccess, res.code, "args %v failed: %s", args, res.stderr)
	return res.stdout
}

func TestVersion(t *testing.T) {
	isolate(t)
	out := mustRun(t, "--version")
	assert.Equal(t, "people alpha beta 0.0.1\n", out)
}

func TestNoSubcommandCreatesDatabase(t *testing.T) {
	dir := isolate(t)

	out := mustRun(t)
	assert.Empty(t, out)

	_, err := os.Stat(filepath.Join(dir, config.DefaultDBFile))
	assert.NoError(t, err, "default database file should be created in the working directory")
}

func TestAddThenDisplay(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "test.db")

	out := mustRun(t, "--db", db, "add", "-n", "Jane Doe", "-b", "1990-01-01", "-p", "5551234")
	assert.Empty(t, out, "add is silent in text mode")

	out = mustRun(t, "--db", db, "display")
	newGoldie(t).Assert(t, "display_single", []byte(out))
}

func TestTwoAddsSameNameThenSelect(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "test.db")

	mustRun(t, "--db", db, "add", "-n", "Jane Doe", "-b", "1990-01-01", "-p", "111")
	mustRun(t, "--db", db, "add", "-n", "Jane Doe", "-b", "1999-09-09", "-p", "222")
	mustRun(t, "--db", db, "add", "-n", "John Roe", "-b", "1985-01-01", "-p", "333")

	out := mustRun(t, "--db", db, "--format", "json", "select", "-b", "1990")

	var resp struct {
		Status string `json:"status"`
		Data   []struct {
			Name    string `json:"name"`
			Birth   string `json:"birth"`
			Pnumber *int64 `json:"pnumber"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)

	phones := map[int64]bool{}
	for _, r := range resp.Data {
		assert.Equal(t, "Jane Doe", r.Name)
		assert.Equal(t, "1990-01-01", r.Birth, "first birth date is kept")
		require.NotNil(t, r.Pnumber)
		phones[*r.Pnumber] = true
	}
	assert.True(t, phones[111] && phones[222], "expected both phones, got %v", phones)
}

func TestSelectTextTable(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "test.db")

	mustRun(t, "--db", db, "add", "-n", "Jane Doe", "-b", "1990-01-01", "-p", "5551234")
	mustRun(t, "--db", db, "add", "-n", "John Roe", "-b", "1991-01-01", "-p", "5550000")

	out := mustRun(t, "--db", db, "select", "-b", "1990")
	newGoldie(t).Assert(t, "display_single", []byte(out))
}

func TestSelectNoMatch(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "test.db")

	mustRun(t, "--db", db, "add", "-n", "Jane Doe", "-b", "1990-01-01")

	out := mustRun(t, "--db", db, "select", "-b", "2020")
	assert.Equal(t, EmptyListMessage+"\n", out)
}

func TestDisplayEmptyDatabase(t *testing.T) {
	dir := isolate(t)

	out := mustRun(t, "--db", filepath.Join(dir, "test.db"), "display")
	assert.Equal(t, EmptyListMessage+"\n", out)
}

func TestAddWithoutPhone(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "test.db")

	mustRun(t, "--db", db, "add", "-n", "No Phone", "-b", "2000-02-02")

	out := mustRun(t, "--db", db, "--format", "json", "display")
	assert.JSONEq(t,
		`{"status":"ok","data":[{"name":"No Phone","birth":"2000-02-02","pnumber":null}]}`,
		out,
	)
}

func TestDBFlagAfterSubcommand(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "after.db")

	mustRun(t, "add", "--db", db, "-n", "Jane Doe", "-b", "1990-01-01", "-p", "1")

	_, err := os.Stat(db)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, config.DefaultDBFile))
	assert.True(t, os.IsNotExist(err), "default database should not be touched")
}

func TestDBFromEnvironment(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "env.db")
	t.Setenv("PEOPLE_DB", db)

	mustRun(t, "add", "-n", "Jane Doe", "-b", "1990-01-01", "-p", "1")

	_, err := os.Stat(db)
	assert.NoError(t, err)
}

func TestPureGoDriver(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "test.db")

	mustRun(t, "--driver", "sqlite", "--db", db, "add", "-n", "Jane Doe", "-b", "1990-01-01", "-p", "5551234")

	// A file written by one driver is readable by the other.
	out := mustRun(t, "--driver", "sqlite3", "--db", db, "display")
	newGoldie(t).Assert(t, "display_single", []byte(out))
}

func TestAddJSONReportsCreation(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "test.db")

	type addResponse struct {
		Status string `json:"status"`
		Data   struct {
			PersonID int64 `json:"person_id"`
			Created  bool  `json:"created"`
		} `json:"data"`
	}

	var first, second addResponse
	out := mustRun(t, "--db", db, "--format", "json", "add", "-n", "Jane Doe", "-b", "1990-01-01", "-p", "1")
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	out = mustRun(t, "--db", db, "--format", "json", "add", "-n", "Jane Doe", "-b", "1990-01-01", "-p", "2")
	require.NoError(t, json.Unmarshal([]byte(out), &second))

	assert.True(t, first.Data.Created)
	assert.False(t, second.Data.Created)
	assert.Equal(t, first.Data.PersonID, second.Data.PersonID)
}

func TestVerboseLogsCarryRunID(t *testing.T) {
	dir := isolate(t)

	res := runCLI(t, "-v", "--db", filepath.Join(dir, "test.db"), "display")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, `msg="opening database"`)
	assert.Contains(t, res.stderr, `msg="database ready"`)
	assert.Contains(t, res.stderr, "driver="+store.DriverCGO)
	assert.Contains(t, res.stderr, "run=")
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"add missing name", []string{"add", "-b", "1990"}, "required flag"},
		{"add missing birth", []string{"add", "-n", "Jane Doe"}, "required flag"},
		{"add bad phone", []string{"add", "-n", "Jane Doe", "-b", "1990", "-p", "abc"}, "invalid argument"},
		{"select missing birth", []string{"select"}, "required flag"},
		{"unknown command", []string{"delete"}, "unknown command"},
		{"invalid format", []string{"--format", "xml", "display"}, "invalid format"},
		{"invalid driver", []string{"--driver", "pgx", "display"}, "invalid driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			db := filepath.Join(dir, "test.db")

			res := runCLI(t, append([]string{"--db", db}, tt.args...)...)
			assert.Equal(t, ExitUsage, res.code)
			assert.Contains(t, res.stderr, tt.wantErr)
			assert.Contains(t, res.stderr, "Error ["+CodeUsage+"]")
			assert.Empty(t, res.stdout)

			_, err := os.Stat(db)
			assert.True(t, os.IsNotExist(err), "argument errors must not touch storage")
		})
	}
}

func TestStorageError(t *testing.T) {
	isolate(t)

	res := runCLI(t, "--db", "/nonexistent/dir/test.db", "display")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Error ["+CodeStorage+"]")
	assert.Contains(t, res.stderr, "failed to open database")
}

func TestStorageErrorVerboseShowsDetails(t *testing.T) {
	isolate(t)

	res := runCLI(t, "-v", "--db", "/nonexistent/dir/test.db", "display")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Details:")
	assert.Contains(t, res.stderr, "kind:"+string(store.KindOpen))
	assert.Contains(t, res.stderr, "op:")

	res = runCLI(t, "--db", "/nonexistent/dir/test.db", "display")
	assert.NotContains(t, res.stderr, "Details:")
}

func TestAddVerboseTextSummary(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "test.db")

	res := runCLI(t, "-v", "--db", db, "add", "-n", "Jane Doe", "-b", "1990-01-01", "-p", "1")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "added person 1 with phone row 1")

	res = runCLI(t, "-v", "--db", db, "add", "-n", "Jane Doe", "-b", "2000-02-02", "-p", "2")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "person 1 already exists, birth date kept; added phone row 2")

	res = runCLI(t, "--db", db, "add", "-n", "John Roe", "-b", "1985")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestStorageErrorJSON(t *testing.T) {
	isolate(t)

	res := runCLI(t, "--format", "json", "--db", "/nonexistent/dir/test.db", "add", "-n", "Jane", "-b", "1990")
	assert.Equal(t, ExitFailure, res.code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(res.stderr), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeStorage, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]interface{})
	require.True(t, ok, "details: %#v", resp.Error.Details)
	assert.Equal(t, string(store.KindOpen), details["kind"])
}
