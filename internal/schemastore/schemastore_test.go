package schemastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSourceIsStableAndContentAddressed(t *testing.T) {
	a := HashSource("return {allowed = true}")
	b := HashSource("return {allowed = true}")
	c := HashSource("return {allowed = false}")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestInMemoryStoreMissReturnsFalse(t *testing.T) {
	s := NewInMemoryStore()
	got, ok, err := s.Get(context.Background(), "return {}")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestInMemoryStorePutThenGetRoundTrips(t *testing.T) {
	s := NewInMemoryStore()
	source := `return {allowed = true, data = {id = true}}`
	want := &Schema{Fields: []string{"allowed", "data"}, DataFields: []string{"id"}}

	require.NoError(t, s.Put(context.Background(), source, want))

	got, ok, err := s.Get(context.Background(), source)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestInMemoryStoreKeysByContentNotIdentity(t *testing.T) {
	s := NewInMemoryStore()
	source := "return {allowed = true}"
	require.NoError(t, s.Put(context.Background(), source, &Schema{Fields: []string{"allowed"}}))

	// A different Go string value with identical content must hit the
	// same entry, since the key is HashSource(source), not the string's
	// identity.
	got, ok, err := s.Get(context.Background(), string([]byte(source)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"allowed"}, got.Fields)
}

func TestOpenSQLStorePutThenGetRoundTrips(t *testing.T) {
	store, err := OpenSQLStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	source := `return {allowed = true, data = {id = true}}`
	want := &Schema{Fields: []string{"allowed", "data"}, DataFields: []string{"id"}}

	require.NoError(t, store.Put(context.Background(), source, want))

	got, ok, err := store.Get(context.Background(), source)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestOpenSQLStoreMissReturnsFalse(t *testing.T) {
	store, err := OpenSQLStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	got, ok, err := store.Get(context.Background(), "return {}")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestOpenSQLStorePutOverwritesExistingHash(t *testing.T) {
	store, err := OpenSQLStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	source := "return {allowed = true}"
	require.NoError(t, store.Put(context.Background(), source, &Schema{Fields: []string{"allowed"}}))
	require.NoError(t, store.Put(context.Background(), source, &Schema{Fields: []string{"allowed", "reason"}}))

	got, ok, err := store.Get(context.Background(), source)
	require.NoError(t, err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"allowed", "reason"}, got.Fields)
}

func TestIsRemoteDSNRecognizesSchemes(t *testing.T) {
	assert.True(t, isRemoteDSN("libsql://example.turso.io"))
	assert.True(t, isRemoteDSN("https://example.turso.io"))
	assert.True(t, isRemoteDSN("http://127.0.0.1:8080"))
	assert.False(t, isRemoteDSN("/tmp/schema.db"))
	assert.False(t, isRemoteDSN(":memory:"))
}
