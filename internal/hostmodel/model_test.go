package hostmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoadsEmbeddedCatalog(t *testing.T) {
	m := Default()
	require.NotNil(t, m)
	assert.True(t, m.IsStandardGlobal("context"))
	assert.True(t, m.IsStandardGlobal("helpers"))
}

func TestIsDisabledReportsMessage(t *testing.T) {
	m := Default()
	msg, ok := m.IsDisabled("os")
	require.True(t, ok)
	assert.Contains(t, msg, "disabled")

	_, ok = m.IsDisabled("helpers")
	assert.False(t, ok)
}

func TestHelperLookup(t *testing.T) {
	m := Default()
	h, ok := m.Helper("fetch")
	require.True(t, ok)
	assert.Equal(t, "fetch", h.Name)
	assert.NotEmpty(t, h.Params)

	_, ok = m.Helper("does-not-exist")
	assert.False(t, ok)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	_, err := Load([]byte("not: [valid: yaml"))
	assert.Error(t, err)
}

func TestLoadBuildsHelperIndex(t *testing.T) {
	data := []byte(`
helpers:
  - name: custom
    signature: "helpers.custom() -> nil"
    description: "A custom helper."
`)
	m, err := Load(data)
	require.NoError(t, err)
	h, ok := m.Helper("custom")
	require.True(t, ok)
	assert.Equal(t, "custom", h.Name)
}

func TestFindContextFieldFallsBackToUniversal(t *testing.T) {
	data := []byte(`
contextByHook:
  before_signup:
    - { name: email, type: string, description: "Signup email." }
universalFields:
  - { name: requestId, type: string, description: "Correlation id." }
`)
	m, err := Load(data)
	require.NoError(t, err)

	f, ok := m.FindContextField("before_signup", "email")
	require.True(t, ok)
	assert.Equal(t, "string", f.Type)

	f, ok = m.FindContextField("before_signup", "requestId")
	require.True(t, ok)
	assert.Equal(t, "requestId", f.Name)

	_, ok = m.FindContextField("before_signup", "nonexistent")
	assert.False(t, ok)
}

func TestFindNestedField(t *testing.T) {
	data := []byte(`
nestedObjects:
  PipelineUser:
    - { name: id, type: string, description: "User id." }
`)
	m, err := Load(data)
	require.NoError(t, err)
	f, ok := m.FindNestedField("PipelineUser", "id")
	require.True(t, ok)
	assert.Equal(t, "id", f.Name)
}

func TestFindBuiltinMember(t *testing.T) {
	data := []byte(`
builtins:
  string:
    - { name: match, signature: "string.match(s, pattern)", description: "Pattern match." }
`)
	m, err := Load(data)
	require.NoError(t, err)
	b, ok := m.FindBuiltinMember("string", "match")
	require.True(t, ok)
	assert.Equal(t, "match", b.Name)

	_, ok = m.FindBuiltinMember("string", "nope")
	assert.False(t, ok)
}

func TestReturnContractFor(t *testing.T) {
	data := []byte(`
returnContracts:
  blocking:
    mode: blocking
    requiredFields: [allow]
`)
	m, err := Load(data)
	require.NoError(t, err)
	c, ok := m.ReturnContractFor("blocking")
	require.True(t, ok)
	assert.Equal(t, []string{"allow"}, c.RequiredFields)

	_, ok = m.ReturnContractFor("unknown")
	assert.False(t, ok)
}
