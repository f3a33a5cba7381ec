package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition     EventType = "transition"
	EventPersistError   EventType = "persist_error"
	EventOrderSubmitted EventType = "order_submitted"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TransitionEvent is emitted after an action has been applied to a session cart.
type TransitionEvent struct {
	EventBase
	Action ActionType `json:"action"`
	Before Cart       `json:"before"`
	After  Cart       `json:"after"`
}

// StorageOp names the persistence operation that failed.
type StorageOp string

const (
	StorageRead   StorageOp = "read"
	StorageDecode StorageOp = "decode"
	StorageWrite  StorageOp = "write"
)

// StorageEvent reports a recovered persistence failure.
type StorageEvent struct {
	EventBase
	Op  StorageOp `json:"op"`
	Err error     `json:"-"`
}

// OrderEvent reports the outcome of an order submission.
type OrderEvent struct {
	EventBase
	Reference string      `json:"reference"`
	Totals    OrderTotals `json:"totals"`
	Success   bool        `json:"success"`
	Err       error       `json:"-"`
}

// LifecycleHooks defines callbacks for observability. Nil callbacks are skipped.
type LifecycleHooks struct {
	OnTransition     func(context.Context, *TransitionEvent)
	OnPersistError   func(context.Context, *StorageEvent)
	OnOrderSubmitted func(context.Context, *OrderEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition:     chain(h.OnTransition, other.OnTransition),
		OnPersistError:   chain(h.OnPersistError, other.OnPersistError),
		OnOrderSubmitted: chain(h.OnOrderSubmitted, other.OnOrderSubmitted),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
