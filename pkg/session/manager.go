package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/internal/logging"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/ports"
	lru "github.com/hashicorp/golang-lru"
)

// DefaultLockTTL bounds how long a distributed session lock is held.
const DefaultLockTTL = 30 * time.Second

// DefaultCacheSize is how many sessions keep an in-memory copy of their cart
// for use when the store cannot be read.
const DefaultCacheSize = 1024

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	carts     *lru.Cache // Last known cart per session
	cacheSize int

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the lease of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithCacheSize bounds the number of in-memory fallback carts. The least
// recently used session is evicted first.
func WithCacheSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.cacheSize = n
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks. Multiple calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		locks:     make(map[string]*lockEntry),
		cacheSize: DefaultCacheSize,
		lockTTL:   DefaultLockTTL,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	// lru.New only fails on a non-positive size, which WithCacheSize rejects.
	m.carts, _ = lru.New(m.cacheSize)
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Cart returns the current cart of a session, hydrating it from the store.
// A missing or unreadable snapshot yields an empty cart; the only errors
// returned are lock and context failures.
func (m *Manager) Cart(ctx context.Context, sessionID string) (domain.Cart, error) {
	var cart domain.Cart
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		cart = m.hydrate(ctx, sessionID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart.Clone(), nil
}

// Dispatch applies an action to a session cart and persists the result.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, action domain.Action) (domain.Cart, error) {
	var next domain.Cart
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		before := m.hydrate(ctx, sessionID)
		next = domain.Apply(before, action)
		m.remember(sessionID, next)
		m.persist(ctx, sessionID, next)

		m.logger.Debug("cart transition",
			"session_id", sessionID,
			"action", action.Type,
			"items", len(next),
		)
		if m.hooks.OnTransition != nil {
			m.hooks.OnTransition(ctx, &domain.TransitionEvent{
				EventBase: m.event(domain.EventTransition, sessionID),
				Action:    action.Type,
				Before:    before.Clone(),
				After:     next.Clone(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

// Delete ends a session: its snapshot and in-memory cart are dropped.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.forget(sessionID)
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release on a fresh context so a cancelled request still unlocks.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// hydrate loads and decodes the stored snapshot. Must be called under the session lock.
func (m *Manager) hydrate(ctx context.Context, sessionID string) domain.Cart {
	data, err := m.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			m.forget(sessionID)
			return domain.Cart{}
		}
		m.storageFailed(ctx, sessionID, domain.StorageRead, err)
		return m.fallback(sessionID)
	}

	snapshot, err := domain.DecodeSnapshot(data)
	if err != nil {
		m.storageFailed(ctx, sessionID, domain.StorageDecode, err)
		return m.fallback(sessionID)
	}

	cart := domain.Apply(domain.Cart{}, domain.Init(snapshot))
	m.remember(sessionID, cart)
	return cart
}

func (m *Manager) persist(ctx context.Context, sessionID string, cart domain.Cart) {
	data, err := domain.EncodeSnapshot(cart)
	if err == nil {
		err = m.store.Save(ctx, sessionID, data)
	}
	if err != nil {
		m.storageFailed(ctx, sessionID, domain.StorageWrite, err)
	}
}

func (m *Manager) storageFailed(ctx context.Context, sessionID string, op domain.StorageOp, err error) {
	m.logger.Warn("cart storage failed, continuing in memory",
		"session_id", sessionID,
		"op", op,
		"err", err,
	)
	if m.hooks.OnPersistError != nil {
		m.hooks.OnPersistError(ctx, &domain.StorageEvent{
			EventBase: m.event(domain.EventPersistError, sessionID),
			Op:        op,
			Err:       err,
		})
	}
}

func (m *Manager) fallback(sessionID string) domain.Cart {
	if v, ok := m.carts.Get(sessionID); ok {
		return v.(domain.Cart).Clone()
	}
	return domain.Cart{}
}

func (m *Manager) remember(sessionID string, cart domain.Cart) {
	m.carts.Add(sessionID, cart.Clone())
}

func (m *Manager) forget(sessionID string) {
	m.carts.Remove(sessionID)
}

func (m *Manager) event(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: m.now(),
		Type:      t,
		SessionID: sessionID,
	}
}
