package annoor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/internal/logging"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/console"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/memory"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/catalog"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/checkout"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/ports"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/session"
)

// Shop is the high-level entry point of the store.
// It combines the catalog, the session manager and the checkout service.
type Shop struct {
	catalog   *catalog.Catalog
	sessions  *session.Manager
	checkout  *checkout.Service
	store     ports.SnapshotStore
	locker    ports.DistributedLocker
	submitter ports.OrderSubmitter
	tariffs   domain.Tariffs
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	lockTTL   time.Duration
	timeout   time.Duration
}

// Option defines a functional option for configuring the Shop.
type Option func(*Shop)

// WithStore sets the snapshot store (default: in-memory).
func WithStore(store ports.SnapshotStore) Option {
	return func(s *Shop) {
		s.store = store
	}
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Shop) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

// WithSubmitter sets the order delivery channel (default: JSON on stdout).
func WithSubmitter(sub ports.OrderSubmitter) Option {
	return func(s *Shop) {
		s.submitter = sub
	}
}

// WithCatalog replaces the embedded product catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Shop) {
		s.catalog = c
	}
}

// WithTariffs overrides the delivery fees.
func WithTariffs(t domain.Tariffs) Option {
	return func(s *Shop) {
		s.tariffs = t
	}
}

// WithSubmitTimeout bounds each order submission.
func WithSubmitTimeout(d time.Duration) Option {
	return func(s *Shop) {
		s.timeout = d
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shop) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Multiple calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Shop) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// New initializes a Shop. Without options it keeps carts in memory, sells
// the embedded catalog and prints submitted orders to stdout.
func New(opts ...Option) (*Shop, error) {
	s := &Shop{
		tariffs: domain.DefaultTariffs,
		timeout: checkout.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.store == nil {
		s.store = memory.NewStore()
	}
	if s.submitter == nil {
		s.submitter = console.New(os.Stdout)
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.tariffs.Inside < 0 || s.tariffs.Outside < 0 {
		return nil, fmt.Errorf("delivery fees cannot be negative: %+v", s.tariffs)
	}

	sessionOpts := []session.Option{
		session.WithLogger(s.logger),
		session.WithLifecycleHooks(s.hooks),
	}
	if s.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(s.locker), session.WithLockTTL(s.lockTTL))
	}
	s.sessions = session.NewManager(s.store, sessionOpts...)

	s.checkout = checkout.NewService(s.submitter,
		checkout.WithTariffs(s.tariffs),
		checkout.WithTimeout(s.timeout),
		checkout.WithLogger(s.logger),
		checkout.WithLifecycleHooks(s.hooks),
	)
	return s, nil
}

// Catalog returns the product catalog.
func (s *Shop) Catalog() *catalog.Catalog {
	return s.catalog
}

// Tariffs returns the delivery fees in use.
func (s *Shop) Tariffs() domain.Tariffs {
	return s.tariffs
}

// Sessions exposes the session manager.
func (s *Shop) Sessions() *session.Manager {
	return s.sessions
}

// Cart returns the current cart of a session.
func (s *Shop) Cart(ctx context.Context, sessionID string) (domain.Cart, error) {
	return s.sessions.Cart(ctx, sessionID)
}

// Dispatch applies a raw action to a session cart.
func (s *Shop) Dispatch(ctx context.Context, sessionID string, action domain.Action) (domain.Cart, error) {
	return s.sessions.Dispatch(ctx, sessionID, action)
}

// AddProduct adds qty units of a catalog product to the cart. The line item
// is built from the catalog, so clients cannot choose the price.
func (s *Shop) AddProduct(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error) {
	p, err := s.catalog.Get(productID)
	if err != nil {
		return nil, err
	}
	return s.sessions.Dispatch(ctx, sessionID, domain.Add(p.LineItem(qty)))
}

// SetQty sets the quantity of a line (clamped to at least 1).
func (s *Shop) SetQty(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error) {
	return s.sessions.Dispatch(ctx, sessionID, domain.SetQty(productID, qty))
}

// Remove deletes a line from the cart.
func (s *Shop) Remove(ctx context.Context, sessionID, productID string) (domain.Cart, error) {
	return s.sessions.Dispatch(ctx, sessionID, domain.Remove(productID))
}

// Clear empties the cart.
func (s *Shop) Clear(ctx context.Context, sessionID string) (domain.Cart, error) {
	return s.sessions.Dispatch(ctx, sessionID, domain.Clear())
}

// Quote prices the session cart for a shipping zone.
func (s *Shop) Quote(ctx context.Context, sessionID string, zone domain.Zone) (domain.OrderTotals, error) {
	cart, err := s.sessions.Cart(ctx, sessionID)
	if err != nil {
		return domain.OrderTotals{}, err
	}
	return s.checkout.Quote(cart, zone), nil
}

// Checkout submits the session cart with the shopper's form. The cart is
// left untouched whatever the outcome.
func (s *Shop) Checkout(ctx context.Context, sessionID string, form checkout.Form) (checkout.Receipt, error) {
	cart, err := s.sessions.Cart(ctx, sessionID)
	if err != nil {
		return checkout.Receipt{}, err
	}
	return s.checkout.Submit(ctx, sessionID, cart, form)
}

// EndSession drops a session's cart.
func (s *Shop) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// ListSessions returns the stored session ids.
func (s *Shop) ListSessions(ctx context.Context) ([]string, error) {
	return s.sessions.List(ctx)
}
