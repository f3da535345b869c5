package feature

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/query"
)

func newCache() *query.Cache { return query.NewCache(time.Minute) }

func TestCompleteMemberOfHelpers(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local r = helpers."
	res := Complete(c, buffer, len(buffer), model, Context{})
	require.NotNil(t, res)
	labels := labelsOf(res.Options)
	assert.Contains(t, labels, "fetch")
}

func TestCompleteContextFieldsForHook(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local e = context."
	res := Complete(c, buffer, len(buffer), model, Context{HookName: "before_signup"})
	require.NotNil(t, res)
	assert.Contains(t, labelsOf(res.Options), "email")
}

func TestCompletePrevScriptSchema(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local p = context.prev."
	ctx := Context{PreviousScriptSource: `return {allowed = true, reason = "ok"}`}
	res := Complete(c, buffer, len(buffer), model, ctx)
	require.NotNil(t, res)
	assert.Contains(t, labelsOf(res.Options), "reason")
}

func TestCompletePrevScriptSchemaWithNoPreviousSourceYieldsNil(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local p = context.prev."
	res := Complete(c, buffer, len(buffer), model, Context{})
	assert.Nil(t, res)
}

func TestCompleteOutputsChainUsesScriptOutputsSchema(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := `local v = context.outputs["s1"].`
	ctx := Context{ScriptOutputs: map[string]*query.ReturnSchema{
		"s1": {Fields: []string{"allowed", "data"}, DataFields: []string{"id"}},
	}}
	res := Complete(c, buffer, len(buffer), model, ctx)
	require.NotNil(t, res)
	assert.Contains(t, labelsOf(res.Options), "allowed")
}

func TestCompleteOutputsChainDataField(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := `local v = context.outputs["s1"].data.`
	ctx := Context{ScriptOutputs: map[string]*query.ReturnSchema{
		"s1": {Fields: []string{"allowed", "data"}, DataFields: []string{"id"}},
	}}
	res := Complete(c, buffer, len(buffer), model, ctx)
	require.NotNil(t, res)
	assert.Contains(t, labelsOf(res.Options), "id")
}

func TestCompleteGlobalsIncludesVisibleLocals(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local myVar = 1\nmy"
	res := Complete(c, buffer, len(buffer), model, Context{})
	require.NotNil(t, res)
	assert.Contains(t, labelsOf(res.Options), "myVar")
}

func TestCompletePrefixFiltersOptions(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "pri"
	res := Complete(c, buffer, len(buffer), model, Context{})
	require.NotNil(t, res)
	for _, o := range res.Options {
		assert.True(t, strings.HasPrefix(strings.ToLower(o.Label), "pri"))
	}
}

func TestHoverOnDisabledGlobal(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "os.exit()"
	res := Hover(c, buffer, 0, model, Context{})
	require.NotNil(t, res)
	assert.Contains(t, res.Text, "disabled")
}

func TestHoverOnLocalDeclaration(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local x = 1\nprint(x)"
	pos := strings.Index(buffer, "print(x)") + len("print(")
	res := Hover(c, buffer, pos, model, Context{})
	require.NotNil(t, res)
	assert.Contains(t, res.Text, "local x")
}

func TestHoverOnUpvalue(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local x = 1\nlocal function f()\n  return x\nend"
	pos := strings.LastIndex(buffer, "x")
	res := Hover(c, buffer, pos, model, Context{})
	require.NotNil(t, res)
	assert.Contains(t, res.Text, "upvalue")
}

func TestHoverOnHelper(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "helpers.fetch(\"x\")"
	pos := strings.Index(buffer, "fetch")
	res := Hover(c, buffer, pos, model, Context{})
	require.NotNil(t, res)
	assert.Contains(t, res.Text, "helpers.fetch")
}

func TestHoverReturnsNilForUnresolvable(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	res := Hover(c, "", 0, model, Context{})
	assert.Nil(t, res)
}

func TestSignatureOnHelperCall(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := `helpers.fetch(url, opts)`
	pos := strings.Index(buffer, "opts")
	res := Signature(c, buffer, pos, model, Context{})
	require.NotNil(t, res)
	assert.Equal(t, 1, res.ActiveParam)
}

func TestSignatureOnLocalFunction(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local function add(a, b) end\nadd(x)"
	pos := strings.LastIndex(buffer, "x")
	res := Signature(c, buffer, pos, model, Context{})
	require.NotNil(t, res)
	assert.Equal(t, 0, res.ActiveParam)
	assert.Equal(t, []string{"a", "b"}, res.Params)
}

func TestSignatureOutsideCallReturnsNil(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	res := Signature(c, "local x = 1", 5, model, Context{})
	assert.Nil(t, res)
}

func TestGotoDefinitionOnReference(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local x = 1\nprint(x)"
	pos := strings.LastIndex(buffer, "x")
	rng := GotoDefinition(c, buffer, pos, model, Context{})
	require.NotNil(t, rng)
	assert.Equal(t, strings.Index(buffer, "x"), rng.Start)
}

func TestGotoDefinitionOnDefinitionItselfReturnsNil(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local x = 1"
	pos := strings.Index(buffer, "x")
	rng := GotoDefinition(c, buffer, pos, model, Context{})
	assert.Nil(t, rng)
}

func TestGotoDefinitionUnboundIdentifierReturnsNil(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "print(undefinedThing)"
	pos := strings.Index(buffer, "undefinedThing")
	rng := GotoDefinition(c, buffer, pos, model, Context{})
	assert.Nil(t, rng)
}

func TestFindReferencesIncludesDefinitionAndUses(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local x = 1\nprint(x)\nprint(x)"
	pos := strings.Index(buffer, "local x") + len("local ")
	refs := FindReferences(c, buffer, pos, model, Context{})
	assert.Len(t, refs, 3)
}

func TestFindReferencesUndefinedWordYieldsNone(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "print(undefinedThing)"
	pos := strings.Index(buffer, "undefinedThing")
	refs := FindReferences(c, buffer, pos, model, Context{})
	assert.Empty(t, refs)
}

func TestSemanticTokensClassifiesRoles(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "local x = true\nhelpers.fetch(x)"
	toks := SemanticTokens(c, buffer, model, Context{})
	require.NotEmpty(t, toks)
	roles := map[Role]bool{}
	for _, tok := range toks {
		roles[tok.Role] = true
	}
	assert.True(t, roles[RoleBoolean])
	assert.True(t, roles[RoleNamespace])
	assert.True(t, roles[RoleMethod])
}

func TestSemanticTokensFlagsUnknownGlobal(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := "definitelyUndefined()"
	toks := SemanticTokens(c, buffer, model, Context{})
	found := false
	for _, tok := range toks {
		if tok.Role == RoleUnknownGlobal {
			found = true
		}
	}
	assert.True(t, found)
}

func TestInlayHintsOnTypedLocal(t *testing.T) {
	c := newCache()
	defer c.Close()
	model := hostmodel.Default()
	buffer := `local x = "hi"`
	hints := InlayHints(c, buffer, model, Context{})
	require.Len(t, hints, 1)
	assert.Equal(t, ": string", hints[0].Text)
}

func labelsOf(opts []CompletionOption) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Label)
	}
	return out
}
