package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	annoor "github.com/An-Noor-Team/An-Noor-Store"
	"github.com/An-Noor-Team/An-Noor-Store/internal/config"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/console"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/emailjs"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/file"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/memory"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/redis"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/catalog"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/checkout"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/metrics"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/persistence/middleware"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/ports"
)

// Options tune how the shop is assembled for a command.
type Options struct {
	Debug bool
	// DryRun prints orders to Stdout instead of sending them.
	DryRun bool
	// Redact masks shopper details in printed orders.
	Redact bool
	// Stdout receives console orders. Defaults to os.Stdout.
	Stdout io.Writer
	// Hooks are merged after the metrics and debug hooks.
	Hooks domain.LifecycleHooks
}

// Runtime is a fully wired shop plus the resources a command may need.
type Runtime struct {
	Shop    *annoor.Shop
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.Collectors
	closers []func() error
}

// Close releases backend connections.
func (r *Runtime) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewRuntime builds the shop described by cfg.
func NewRuntime(cfg config.Config, opts Options) (*Runtime, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	logger, err := NewLogger(cfg.Log.Level, opts.Debug)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	store, locker, err := rt.createStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		if cat, err = catalog.LoadFile(cfg.Catalog.Path); err != nil {
			rt.Close()
			return nil, err
		}
	}

	sub, err := createSubmitter(cfg.EmailJS, opts)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if _, isConsole := sub.(*console.Submitter); isConsole && !opts.DryRun {
		logger.Warn("EmailJS is not configured, orders are printed instead of delivered")
	}

	hooks := rt.Metrics.Hooks()
	if opts.Debug {
		hooks = hooks.Merge(createDebugHooks(logger))
	}
	hooks = hooks.Merge(opts.Hooks)

	shopOpts := []annoor.Option{
		annoor.WithStore(store),
		annoor.WithSubmitter(sub),
		annoor.WithCatalog(cat),
		annoor.WithTariffs(cfg.Delivery),
		annoor.WithSubmitTimeout(cfg.Checkout.Timeout),
		annoor.WithLogger(logger),
		annoor.WithLifecycleHooks(hooks),
	}
	if locker != nil {
		shopOpts = append(shopOpts, annoor.WithLocker(locker, cfg.Store.Redis.LockTTL))
	}

	shop, err := annoor.New(shopOpts...)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("error initializing shop: %w", err)
	}
	rt.Shop = shop
	return rt, nil
}

// createStore selects the persistence backend and applies encryption.
func (rt *Runtime) createStore(cfg config.StoreConfig) (ports.SnapshotStore, ports.DistributedLocker, error) {
	var (
		store  ports.SnapshotStore
		locker ports.DistributedLocker
	)

	switch cfg.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverFile:
		store = file.New(cfg.Dir)
	case config.DriverRedis:
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		rt.closers = append(rt.closers, rs.Close)
		if cfg.Redis.Lock {
			locker = redis.NewLocker(rs.Client(), rs.Prefix())
		}
		store = rs
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if cfg.EncryptionKey != "" {
		keys, err := middleware.ParseKeys(cfg.EncryptionKey, cfg.FallbackKeys...)
		if err != nil {
			rt.Close()
			return nil, nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(keys))
	}
	return store, locker, nil
}

func createSubmitter(cfg emailjs.Config, opts Options) (ports.OrderSubmitter, error) {
	if opts.DryRun || !cfg.Configured() {
		var consoleOpts []console.Option
		if opts.Redact {
			consoleOpts = append(consoleOpts, console.WithRedaction(checkout.DefaultPIIPatterns...))
		}
		return console.New(opts.Stdout, consoleOpts...), nil
	}
	sub, err := emailjs.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("error initializing emailjs: %w", err)
	}
	return sub, nil
}
