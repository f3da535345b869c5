package diagnostics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/parser"
	"github.com/oxhq/hookscript/internal/scope"
)

func analyze(t *testing.T, src string) ([]Diagnostic, *hostmodel.Model) {
	t.Helper()
	model := hostmodel.Default()
	res := parser.Parse(src, parser.Options{})
	var sres *scope.Result
	if res.Err == nil {
		sres = scope.Build(res.Chunk, model, scope.Options{})
	}
	return Run(src, res.Chunk, res.Err, sres, model, Options{}), model
}

func TestRunReportsSyntaxErrorAndStops(t *testing.T) {
	diags, _ := analyze(t, "local x = ")
	require.Len(t, diags, 1)
	assert.Equal(t, CodeSyntaxError, diags[0].Code)
	assert.Equal(t, SeverityError, diags[0].Severity)
}

func TestRunReportsDisabledGlobal(t *testing.T) {
	diags, _ := analyze(t, "os.exit()")
	require.Len(t, diags, 1)
	assert.Equal(t, CodeDisabledGlobal, diags[0].Code)
	assert.Contains(t, diags[0].Tags, "sandbox")
}

func TestRunReportsUndefinedIdentifier(t *testing.T) {
	diags, _ := analyze(t, "someUndefinedName()")
	require.Len(t, diags, 1)
	assert.Equal(t, CodeUndefinedIdentifier, diags[0].Code)
}

func TestRunDoesNotFlagKnownGlobalsOrMembers(t *testing.T) {
	diags, _ := analyze(t, "local t = {}\nt.field = 1\nprint(t.field)")
	for _, d := range diags {
		assert.NotEqual(t, CodeUndefinedIdentifier, d.Code)
	}
}

func TestRunMissingReturnFieldsWhenModeRequiresThem(t *testing.T) {
	model := hostmodel.Default()
	res := parser.Parse("return { foo = 1 }", parser.Options{})
	require.Nil(t, res.Err)
	sres := scope.Build(res.Chunk, model, scope.Options{})
	diags := Run("return { foo = 1 }", res.Chunk, nil, sres, model, Options{ExecutionMode: "blocking"})
	found := false
	for _, d := range diags {
		if d.Code == CodeMissingReturnFields {
			found = true
		}
	}
	assert.True(t, found)
	diags2 := Run("return { foo = 1 }", res.Chunk, nil, sres, model, Options{ExecutionMode: "blocking"})
	assert.Equal(t, diags, diags2)
}

func TestRunScriptTooLargeShortCircuits(t *testing.T) {
	huge := strings.Repeat("a", MaxScriptBytes+1)
	diags, _ := analyze(t, huge)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeScriptTooLarge, diags[0].Code)
}

func TestRunSuppressOmitsCode(t *testing.T) {
	model := hostmodel.Default()
	res := parser.Parse("os.exit()", parser.Options{})
	sres := scope.Build(res.Chunk, model, scope.Options{})
	diags := Run("os.exit()", res.Chunk, nil, sres, model, Options{Suppress: map[Code]bool{CodeDisabledGlobal: true}})
	assert.Empty(t, diags)
}

func TestRunCapLimitsPerCodeCount(t *testing.T) {
	model := hostmodel.Default()
	src := "aa()\nbb()\ncc()"
	res := parser.Parse(src, parser.Options{})
	sres := scope.Build(res.Chunk, model, scope.Options{})
	diags := Run(src, res.Chunk, nil, sres, model, Options{Cap: map[Code]int{CodeUndefinedIdentifier: 2}})
	count := 0
	for _, d := range diags {
		if d.Code == CodeUndefinedIdentifier {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestRunResultsAreSortedByRangeStart(t *testing.T) {
	diags, _ := analyze(t, "zzz()\naaa()")
	require.Len(t, diags, 2)
	assert.True(t, diags[0].Range.Start < diags[1].Range.Start)
}

func TestRunNilChunkDegradesGracefully(t *testing.T) {
	diags := Run("", nil, nil, nil, hostmodel.Default(), Options{})
	assert.Empty(t, diags)
}
