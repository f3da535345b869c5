package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hookscript/internal/diagnostics"
	"github.com/oxhq/hookscript/internal/feature"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/schemastore"
)

func TestParseReturnsChunkForValidSource(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	res := e.Parse("local x = 1")
	require.NotNil(t, res.Chunk)
	assert.Nil(t, res.Err)
}

func TestAnalyzeReportsDiagnosticsForDisabledGlobal(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	res := e.Analyze("os.exit()")
	assert.NotEmpty(t, res.Diagnostics)
}

func TestResolveAtFindsIdentifier(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	buffer := "local x = 1"
	pos := 6
	resolved := e.ResolveAt(buffer, pos)
	require.NotNil(t, resolved)
}

func TestVisibleSymbolsAtIncludesEarlierLocals(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	buffer := "local x = 1\nprint(x)"
	symbols := e.VisibleSymbolsAt(buffer, len(buffer))
	_, ok := symbols["x"]
	assert.True(t, ok)
}

func TestReferencesOfFindsAllUses(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	buffer := "local x = 1\nprint(x)\nprint(x)"
	pos := 6
	refs := e.ReferencesOf(buffer, pos)
	assert.Len(t, refs, 3)
}

func TestReferencesOfNonIdentifierReturnsNil(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	refs := e.ReferencesOf("1 + 1", 0)
	assert.Nil(t, refs)
}

func TestReturnSchemaOfPopulatesSchemaStore(t *testing.T) {
	store := schemastore.NewInMemoryStore()
	e := New(Options{SchemaStore: store})
	defer e.Close()

	source := `return {allowed = true, reason = "ok"}`
	schema := e.ReturnSchemaOf(source)
	require.NotNil(t, schema)
	assert.Contains(t, schema.Fields, "allowed")

	cached, ok, err := store.Get(context.Background(), source)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, schema.Fields, cached.Fields)
}

func TestReturnSchemaOfServesFromStoreOnSecondCall(t *testing.T) {
	store := schemastore.NewInMemoryStore()
	e := New(Options{SchemaStore: store})
	defer e.Close()

	source := `return {allowed = true}`
	first := e.ReturnSchemaOf(source)
	require.NotNil(t, first)

	// overwrite the store entry directly to prove the second call reads
	// from the cache rather than recomputing from source.
	require.NoError(t, store.Put(context.Background(), source, &schemastore.Schema{Fields: []string{"overridden"}}))
	second := e.ReturnSchemaOf(source)
	require.NotNil(t, second)
	assert.Equal(t, []string{"overridden"}, second.Fields)
}

func TestCompleteDelegatesToFeaturePackage(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	buffer := "local r = helpers."
	res := e.Complete(buffer, len(buffer), feature.Context{})
	require.NotNil(t, res)
}

func TestHoverDelegatesToFeaturePackage(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	res := e.Hover("os.exit()", 0, feature.Context{})
	require.NotNil(t, res)
	assert.Contains(t, res.Text, "disabled")
}

func TestDiagnosticsReportsDisabledGlobal(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	diags := e.Diagnostics("os.exit()", feature.Context{}, diagnostics.Options{})
	assert.NotEmpty(t, diags)
}

func TestSemanticTokensDelegatesToFeaturePackage(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	toks := e.SemanticTokens("local x = true", feature.Context{})
	assert.NotEmpty(t, toks)
}

func TestInlayHintsDelegatesToFeaturePackage(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	hints := e.InlayHints(`local x = "hi"`, feature.Context{})
	assert.Len(t, hints, 1)
}

func TestFormatDelegatesToFormatPackage(t *testing.T) {
	e := New(Options{})
	defer e.Close()
	assert.Equal(t, "local x = 1", e.Format("local   x=1"))
}

func TestHostModelReturnsInjectedModel(t *testing.T) {
	model := hostmodel.Default()
	e := New(Options{HostModel: model})
	defer e.Close()
	assert.Same(t, model, e.HostModel())
}
