package middleware_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/memory"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/persistence/middleware"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunSnapshotStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := NewMockStore()
	key := generateKey(t)
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "test-session"
	snapshot := []byte(`[{"id":"aura-black","name":"Aura Arabic Elite","price":899,"image":"","qty":1}]`)

	require.NoError(t, secureStore.Save(ctx, sessionID, snapshot))

	stored, err := underlyingStore.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(stored, []byte("aura-black")), "snapshot must be hidden")

	var env map[string]string
	require.NoError(t, json.Unmarshal(stored, &env))
	assert.Contains(t, env, "__encrypted__")
	assert.Len(t, env, 1)

	loaded, err := secureStore.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	sessionID := "rotation-session"

	require.NoError(t, secureStoreOld.Save(ctx, sessionID, []byte(`[{"id":"old"}]`)))

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, sessionID)
	require.NoError(t, err, "fallback key should open old envelopes")
	assert.Equal(t, `[{"id":"old"}]`, string(loaded))

	require.NoError(t, secureStoreNew.Save(ctx, sessionID, []byte(`[{"id":"new"}]`)))

	_, err = secureStoreOld.Load(ctx, sessionID)
	assert.ErrorIs(t, err, middleware.ErrDecrypt, "old key alone must not open new envelopes")
}

func TestEncryptionMiddleware_PlainSnapshot(t *testing.T) {
	underlyingStore := NewMockStore()
	ctx := context.Background()
	require.NoError(t, underlyingStore.Save(ctx, domain.StorageKey, []byte(`[{"id":"a","price":1,"qty":1}]`)))

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)

	_, err := secureStore.Load(ctx, domain.StorageKey)
	assert.ErrorIs(t, err, middleware.ErrMissingEnvelope)

	_, err = secureStore.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "not-found passes through untouched")
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKeys(t *testing.T) {
	active := hex.EncodeToString(generateKey(t))
	old := hex.EncodeToString(generateKey(t))

	cfg, err := middleware.ParseKeys(active, old)
	require.NoError(t, err)
	assert.Len(t, cfg.ActiveKey, 32)
	assert.Len(t, cfg.FallbackKeys, 1)

	_, err = middleware.ParseKeys("zz")
	assert.Error(t, err)

	_, err = middleware.ParseKeys(strings.Repeat("ab", 16))
	assert.Error(t, err, "16-byte keys are rejected")
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.SnapshotStore) ports.SnapshotStore {
			return &recordingStore{SnapshotStore: next, name: name, calls: &calls}
		}
	}

	store := middleware.Chain(NewMockStore(), tag("outer"), tag("inner"))
	require.NoError(t, store.Save(context.Background(), "s", []byte("[]")))
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type recordingStore struct {
	ports.SnapshotStore
	name  string
	calls *[]string
}

func (r *recordingStore) Save(ctx context.Context, sessionID string, snapshot []byte) error {
	*r.calls = append(*r.calls, r.name)
	return r.SnapshotStore.Save(ctx, sessionID, snapshot)
}
