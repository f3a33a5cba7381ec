package ports

import (
	"context"
	"testing"
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snapshot, err := domain.EncodeSnapshot(domain.Cart{
			{ID: "aura-black", Name: "Aura", Price: 899, Image: "aura.jpg", Qty: 2},
			{ID: "watch-arabic-black", Name: "Poedagar", Price: 799, Qty: 1},
		})
		require.NoError(t, err)

		err = store.Save(ctx, sessionID, snapshot)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snapshot, loaded, "snapshot bytes must be preserved verbatim")

		cart, err := domain.DecodeSnapshot(loaded)
		require.NoError(t, err)
		assert.Len(t, cart, 2)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, []byte(`[{"id":"a","price":1,"qty":1}]`)))
		require.NoError(t, store.Save(ctx, sessionID, []byte(`[]`)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(loaded))
	})

	t.Run("Caller Mutation", func(t *testing.T) {
		snapshot := []byte(`[{"id":"a","price":1,"qty":1}]`)
		require.NoError(t, store.Save(ctx, sessionID, snapshot))
		snapshot[0] = 'X'

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, byte('['), loaded[0], "store must not alias the caller's buffer")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, []byte("[]"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, []byte("[]"))
		_ = store.Save(ctx, id2, []byte("[]"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
