package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmd executes cmd with args, capturing stdout (commands print via
// printJSON/fmt.Print against os.Stdout directly rather than cmd.OutOrStdout,
// so this redirects the process-wide stream rather than cmd.SetOut).
func runCmd(t *testing.T, cmd interface{ Execute() error }, args []string) (string, error) {
	t.Helper()
	type argSetter interface{ SetArgs([]string) }
	if s, ok := cmd.(argSetter); ok {
		s.SetArgs(args)
	}

	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	runErr := cmd.Execute()
	w.Close()

	var buf bytes.Buffer
	_, readErr := buf.ReadFrom(r)
	require.NoError(t, readErr)
	return buf.String(), runErr
}

func TestParseCmdPrintsChunk(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, []byte("local x = 1"), 0o644))

	out, err := runCmd(t, newParseCmd(), []string{path})
	require.NoError(t, err)
	assert.Contains(t, out, "Chunk")
}

func TestParseCmdRequiresExactlyOneArg(t *testing.T) {
	resetFlags()
	defer resetFlags()
	_, err := runCmd(t, newParseCmd(), []string{})
	assert.Error(t, err)
}

func TestFormatCmdPrintsFormattedSource(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, []byte("local   x=1"), 0o644))

	out, err := runCmd(t, newFormatCmd(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "local x = 1", out)
}

func TestFormatCmdDiffFlagPrintsUnifiedDiff(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, []byte("local   x=1"), 0o644))

	out, err := runCmd(t, newFormatCmd(), []string{"--diff", path})
	require.NoError(t, err)
	assert.Contains(t, out, "-local   x=1")
	assert.Contains(t, out, "+local x = 1")
}

func TestSchemaCmdPrintsReturnSchema(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, []byte(`return {allowed = true}`), 0o644))

	out, err := runCmd(t, newSchemaCmd(), []string{path})
	require.NoError(t, err)
	assert.Contains(t, out, "allowed")
}

func TestCompleteCmdRequiresPosFlag(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, []byte("local r = helpers."), 0o644))

	_, err := runCmd(t, newCompleteCmd(), []string{path})
	assert.Error(t, err)
}

func TestCompleteCmdPrintsOptionsAtPos(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagPos = "1:18"
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, []byte("local r = helpers."), 0o644))

	out, err := runCmd(t, newCompleteCmd(), []string{path})
	require.NoError(t, err)
	assert.Contains(t, out, "fetch")
}

func TestDiagnosticsCmdPrintsDiagnostics(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, []byte("os.exit()"), 0o644))

	out, err := runCmd(t, newDiagnosticsCmd(), []string{path})
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")
}

func TestDiagnosticsCmdSuppressesGivenCodes(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, []byte("os.exit()"), 0o644))

	out, err := runCmd(t, newDiagnosticsCmd(), []string{"--suppress", "4001", path})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestDiagnosticsCmdRejectsMalformedSuppressList(t *testing.T) {
	resetFlags()
	defer resetFlags()
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, []byte("local x = 1"), 0o644))

	_, err := runCmd(t, newDiagnosticsCmd(), []string{"--suppress", "not-a-code", path})
	assert.Error(t, err)
}

func TestScanCmdEmitsOneRecordPerMatch(t *testing.T) {
	resetFlags()
	defer resetFlags()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte("os.exit()"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte("local x = 1"), 0o644))

	out, err := runCmd(t, newScanCmd(), []string{filepath.Join(dir, "*.lua")})
	require.NoError(t, err)
	assert.Contains(t, out, "a.lua")
	assert.Contains(t, out, "b.lua")
}
