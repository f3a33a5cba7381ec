// Package console writes orders to a stream instead of delivering them.
// It backs CLI dry runs and is the fallback when no delivery channel is configured.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/checkout"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
)

// Submitter implements ports.OrderSubmitter by printing the order as indented JSON.
type Submitter struct {
	mu       sync.Mutex
	w        io.Writer
	redactor *checkout.Redactor
}

// Option configures the Submitter.
type Option func(*Submitter)

// WithRedaction masks the shopper's details in the output.
func WithRedaction(patterns ...string) Option {
	return func(s *Submitter) {
		s.redactor = checkout.NewRedactor(patterns...)
	}
}

// New creates a Submitter writing to w.
func New(w io.Writer, opts ...Option) *Submitter {
	s := &Submitter{w: w}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit writes the order. It fails only when the writer does.
func (s *Submitter) Submit(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.redactor != nil {
		order = s.redactor.Order(order)
	}

	data, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, string(data)); err != nil {
		return fmt.Errorf("failed to write order: %w", err)
	}
	return nil
}
