package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/memory"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/ports"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string][]byte
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, snapshot []byte) error {
	time.Sleep(5 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[sessionID] = append([]byte(nil), snapshot...)
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	time.Sleep(5 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot, ok := s.data[sessionID]; ok {
		return append([]byte(nil), snapshot...), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

// FlakyStore fails reads and/or writes on demand.
type FlakyStore struct {
	ports.SnapshotStore
	failLoad bool
	failSave bool
}

var errDisk = errors.New("disk on fire")

func (s *FlakyStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	if s.failLoad {
		return nil, errDisk
	}
	return s.SnapshotStore.Load(ctx, sessionID)
}

func (s *FlakyStore) Save(ctx context.Context, sessionID string, snapshot []byte) error {
	if s.failSave {
		return errDisk
	}
	return s.SnapshotStore.Save(ctx, sessionID, snapshot)
}

func add(id string, price int64, qty int) domain.Action {
	return domain.Add(domain.LineItem{ID: id, Name: id, Price: price, Qty: qty})
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	concurrentWrites := 10

	// Read-Modify-Write without locking would lose increments.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Dispatch(ctx, id, add("a", 100, 1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := manager.Cart(ctx, id)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, concurrentWrites, cart[0].Qty)
}

func TestManager_NewSessionIsEmpty(t *testing.T) {
	manager := session.NewManager(memory.NewStore())

	cart, err := manager.Cart(context.Background(), domain.StorageKey)
	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
}

func TestManager_PersistsEveryTransition(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store)
	ctx := context.Background()

	_, err := manager.Dispatch(ctx, "s1", add("a", 500, 2))
	require.NoError(t, err)
	_, err = manager.Dispatch(ctx, "s1", add("b", 300, 1))
	require.NoError(t, err)

	data, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	snapshot, err := domain.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), snapshot.Subtotal())

	// A fresh manager over the same store restores the cart.
	restored, err := session.NewManager(store).Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, snapshot, restored)
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Dispatch(ctx, "alice", add("a", 1, 1))
	require.NoError(t, err)

	bob, err := manager.Cart(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bob)
}

func TestManager_CorruptSnapshotStartsEmpty(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.StorageKey, []byte("{broken")))

	var events []*domain.StorageEvent
	manager := session.NewManager(store, session.WithLifecycleHooks(domain.LifecycleHooks{
		OnPersistError: func(_ context.Context, e *domain.StorageEvent) { events = append(events, e) },
	}))

	cart, err := manager.Cart(ctx, domain.StorageKey)
	require.NoError(t, err)
	assert.Empty(t, cart)
	require.Len(t, events, 1)
	assert.Equal(t, domain.StorageDecode, events[0].Op)
	assert.ErrorIs(t, events[0].Err, domain.ErrCorruptSnapshot)

	// The next transition overwrites the corrupt slot.
	_, err = manager.Dispatch(ctx, domain.StorageKey, add("a", 10, 1))
	require.NoError(t, err)
	data, err := store.Load(ctx, domain.StorageKey)
	require.NoError(t, err)
	_, err = domain.DecodeSnapshot(data)
	assert.NoError(t, err)
}

func TestManager_StorageFailuresKeepInMemoryCart(t *testing.T) {
	store := &FlakyStore{SnapshotStore: memory.NewStore()}
	var ops []domain.StorageOp
	manager := session.NewManager(store, session.WithLifecycleHooks(domain.LifecycleHooks{
		OnPersistError: func(_ context.Context, e *domain.StorageEvent) { ops = append(ops, e.Op) },
	}))
	ctx := context.Background()

	_, err := manager.Dispatch(ctx, "s", add("a", 100, 1))
	require.NoError(t, err)

	store.failLoad = true
	store.failSave = true

	cart, err := manager.Dispatch(ctx, "s", add("a", 100, 2))
	require.NoError(t, err, "storage failures are never surfaced")
	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Qty, "in-memory copy is used when the store cannot be read")

	cart, err = manager.Cart(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 3, cart[0].Qty)

	assert.Equal(t, []domain.StorageOp{domain.StorageRead, domain.StorageWrite, domain.StorageRead}, ops)
}

func TestManager_UnreadableStoreWithoutHistory(t *testing.T) {
	store := &FlakyStore{SnapshotStore: memory.NewStore(), failLoad: true}
	manager := session.NewManager(store)

	cart, err := manager.Cart(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestManager_TransitionHook(t *testing.T) {
	var got []*domain.TransitionEvent
	manager := session.NewManager(memory.NewStore(), session.WithLifecycleHooks(domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) { got = append(got, e) },
	}))
	ctx := context.Background()

	_, err := manager.Dispatch(ctx, "s", add("a", 100, 1))
	require.NoError(t, err)
	_, err = manager.Dispatch(ctx, "s", domain.Clear())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, domain.ActionAdd, got[0].Action)
	assert.Empty(t, got[0].Before)
	assert.Len(t, got[0].After, 1)
	assert.Equal(t, domain.ActionClear, got[1].Action)
	assert.Empty(t, got[1].After)
	assert.Equal(t, "s", got[1].SessionID)
	assert.Equal(t, domain.EventTransition, got[1].Type)
}

func TestManager_ReturnedCartIsACopy(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	cart, err := manager.Dispatch(ctx, "s", add("a", 100, 1))
	require.NoError(t, err)
	cart[0].Qty = 99

	again, err := manager.Cart(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].Qty)
}

func TestManager_Delete(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store)
	ctx := context.Background()

	_, err := manager.Dispatch(ctx, "s", add("a", 100, 1))
	require.NoError(t, err)
	require.NoError(t, manager.Delete(ctx, "s"))

	_, err = store.Load(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	cart, err := manager.Cart(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestManager_CancelledContext(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.Dispatch(ctx, "s", add("a", 1, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

type stubLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked int
	err      error
}

func (l *stubLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	l.locked = append(l.locked, key)
	l.mu.Unlock()
	return func(context.Context) error {
		l.mu.Lock()
		l.unlocked++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &stubLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	_, err := manager.Dispatch(ctx, "s", add("a", 1, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, locker.locked)
	assert.Equal(t, 1, locker.unlocked)

	locker.err = errors.New("redis down")
	_, err = manager.Dispatch(ctx, "s", add("a", 1, 1))
	assert.ErrorContains(t, err, "distributed lock")
}
