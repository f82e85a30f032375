package audiostore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	sessionID := uuid.New()
	payload := []byte{0x00, 0x01, 0xFF, 0x7E, 0x00, 0x42}

	uri, err := store.Store(ctx, sessionID, payload, "pcm16", map[string]string{"sample_rate": "16000"})
	require.NoError(t, err)
	assert.Contains(t, uri, sessionID.String())

	got, err := store.Retrieve(ctx, uri)
	require.NoError(t, err)
	assert.Equal(t, payload, got, "retrieved bytes must be byte-identical to input")
}

func TestLocalStoreListOrder(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	sessionID := uuid.New()

	var uris []string
	for i := 0; i < 3; i++ {
		uri, err := store.Store(ctx, sessionID, []byte{byte(i)}, "pcm16", nil)
		require.NoError(t, err)
		uris = append(uris, uri)
	}

	listed, err := store.List(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, uris, listed)
}

func TestLocalStoreDeleteAll(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	sessionID := uuid.New()

	uri, err := store.Store(ctx, sessionID, []byte("audio"), "wav", nil)
	require.NoError(t, err)

	require.NoError(t, store.DeleteAll(ctx, sessionID))

	_, err = store.Retrieve(ctx, uri)
	assert.Error(t, err)

	listed, err := store.List(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestLocalStoreSessionIsolation(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err = store.Store(ctx, a, []byte("session-a"), "wav", nil)
	require.NoError(t, err)

	require.NoError(t, store.DeleteAll(ctx, b))

	listed, err := store.List(ctx, a)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestParseURIRejectsGarbage(t *testing.T) {
	tests := []string{
		"",
		"http://example.com/a.wav",
		"audio://not-a-uuid/file.wav",
		"audio://" + uuid.New().String(),
		"audio://" + uuid.New().String() + "/../../etc/passwd",
	}
	for _, uri := range tests {
		_, _, err := parseURI(uri)
		assert.Error(t, err, "uri %q should be rejected", uri)
	}
}
