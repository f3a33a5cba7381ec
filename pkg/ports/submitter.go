package ports

import (
	"context"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
)

// OrderSubmitter hands an assembled order to an external delivery channel.
// Submit is called once per checkout attempt; a nil error means the channel
// accepted the order.
type OrderSubmitter interface {
	Submit(ctx context.Context, order domain.Order) error
}

// SubmitterFunc adapts a plain function to OrderSubmitter.
type SubmitterFunc func(ctx context.Context, order domain.Order) error

// Submit calls f(ctx, order).
func (f SubmitterFunc) Submit(ctx context.Context, order domain.Order) error {
	return f(ctx, order)
}
