package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/An-Noor-Team/An-Noor-Store/internal/logging"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/joho/godotenv"
)

// SignalContext is a context cancelled by SIGINT or SIGTERM that remembers
// which signal arrived.
type SignalContext struct {
	context.Context
	Cancel context.CancelFunc

	mu  sync.Mutex
	sig os.Signal
}

// NewSignalContext works like signal.NotifyContext but keeps the signal for
// shutdown messages.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.mu.Lock()
			sc.sig = sig
			sc.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal reports the signal that cancelled the context, if any.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}

// LoadEnv reads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped; with no arguments ".env" is tried.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// NewLogger configures the application logger.
// Debug forces debug level; otherwise the configured level applies.
func NewLogger(level string, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// PrintSystemMessage prints a standardized system message.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("Cart Transition",
				"session_id", e.SessionID,
				"action", e.Action,
				"lines_before", len(e.Before),
				"lines_after", len(e.After),
				"subtotal", e.After.Subtotal(),
			)
		},
		OnPersistError: func(ctx context.Context, e *domain.StorageEvent) {
			logger.Debug("Storage Failure (Recovered)", "session_id", e.SessionID, "op", e.Op, "err", e.Err)
		},
		OnOrderSubmitted: func(ctx context.Context, e *domain.OrderEvent) {
			if e.Success {
				logger.Debug("Order Submitted (Success)", "reference", e.Reference, "total", e.Totals.Total)
			} else {
				logger.Debug("Order Submitted (Error)", "reference", e.Reference, "err", e.Err)
			}
		},
	}
}
