package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every persistent flag var to its zero value between
// table cases, since they are package-level and cobra mutates them in place.
func resetFlags() {
	flagHook = ""
	flagMode = ""
	flagPos = ""
	flagCacheDB = ""
	flagEnvFile = ""
	flagPrevSource = ""
	flagOutputsJSON = ""
}

func TestReadSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.lua")
	require.NoError(t, os.WriteFile(path, []byte("local x = 1"), 0o644))

	got, err := readSource(path)
	require.NoError(t, err)
	assert.Equal(t, "local x = 1", got)
}

func TestReadSourceFromStdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("local y = 2")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	oldStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = oldStdin }()

	got, err := readSource("-")
	require.NoError(t, err)
	assert.Equal(t, "local y = 2", got)
}

func TestReadSourceMissingFileErrors(t *testing.T) {
	_, err := readSource(filepath.Join(t.TempDir(), "missing.lua"))
	assert.Error(t, err)
}

func TestPrintJSONEncodesValue(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	require.NoError(t, printJSON(map[string]int{"a": 1}))
	w.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(bytes.TrimSpace(out)))
}

func TestOffsetFromPosResolvesLineColumn(t *testing.T) {
	source := "line1\nline2\nline3"
	tests := []struct {
		pos  string
		want int
	}{
		{"1:0", 0},
		{"2:0", 6},
		{"3:2", 14},
	}
	for _, tt := range tests {
		got, err := offsetFromPos(source, tt.pos)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestOffsetFromPosRejectsMalformedInput(t *testing.T) {
	_, err := offsetFromPos("x", "not-a-pos")
	assert.Error(t, err)
	_, err = offsetFromPos("x", "0:0")
	assert.Error(t, err)
}

func TestRequirePosErrorsWhenFlagUnset(t *testing.T) {
	resetFlags()
	defer resetFlags()
	_, err := requirePos("local x = 1")
	assert.Error(t, err)
}

func TestFeatureContextLoadsPreviousScriptSource(t *testing.T) {
	resetFlags()
	defer resetFlags()

	path := filepath.Join(t.TempDir(), "prev.lua")
	require.NoError(t, os.WriteFile(path, []byte("return {allowed = true}"), 0o644))
	flagPrevSource = path

	ctx, err := featureContext()
	require.NoError(t, err)
	assert.Equal(t, "return {allowed = true}", ctx.PreviousScriptSource)
}

func TestFeatureContextLoadsOutputsJSON(t *testing.T) {
	resetFlags()
	defer resetFlags()

	path := filepath.Join(t.TempDir(), "s1.lua")
	require.NoError(t, os.WriteFile(path, []byte(`return {allowed = true}`), 0o644))
	flagOutputsJSON = `{"s1": "` + path + `"}`

	ctx, err := featureContext()
	require.NoError(t, err)
	require.Contains(t, ctx.ScriptOutputs, "s1")
	assert.Contains(t, ctx.ScriptOutputs["s1"].Fields, "allowed")
}

func TestFeatureContextRejectsMalformedOutputsJSON(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagOutputsJSON = "not json"
	_, err := featureContext()
	assert.Error(t, err)
}
