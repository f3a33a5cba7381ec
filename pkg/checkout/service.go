package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/internal/logging"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/ports"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single submission attempt.
const DefaultTimeout = 15 * time.Second

// Receipt is the outcome notice of a submission attempt.
type Receipt struct {
	Reference string             `json:"reference"`
	Totals    domain.OrderTotals `json:"totals"`
	Message   string             `json:"message"`
}

// Service submits orders through an OrderSubmitter.
type Service struct {
	submitter ports.OrderSubmitter
	tariffs   domain.Tariffs
	timeout   time.Duration
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	redactor  *Redactor
	now       func() time.Time
	newRef    func() string
}

// Option configures the Service.
type Option func(*Service)

// WithTariffs overrides the delivery fees.
func WithTariffs(t domain.Tariffs) Option {
	return func(s *Service) {
		s.tariffs = t
	}
}

// WithTimeout bounds each submission. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithLogger configures a logger for the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks. Multiple calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a checkout service delivering orders through submitter.
func NewService(submitter ports.OrderSubmitter, opts ...Option) *Service {
	s := &Service{
		submitter: submitter,
		tariffs:   domain.DefaultTariffs,
		timeout:   DefaultTimeout,
		logger:    logging.NewNop(),
		redactor:  NewRedactor(),
		now:       time.Now,
		newRef:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tariffs returns the delivery fees in use.
func (s *Service) Tariffs() domain.Tariffs {
	return s.tariffs
}

// Quote computes the totals of cart shipped to zone.
func (s *Service) Quote(cart domain.Cart, zone domain.Zone) domain.OrderTotals {
	return domain.Quote(cart.Subtotal(), zone, s.tariffs)
}

// Submit builds the order and hands it to the submitter exactly once.
//
// Validation problems return a *ValidationError and an empty cart returns
// domain.ErrEmptyCart; nothing is submitted in either case. A delivery
// failure returns an error wrapping domain.ErrSubmissionFailed together with
// a receipt carrying the failure notice.
func (s *Service) Submit(ctx context.Context, sessionID string, cart domain.Cart, form Form) (Receipt, error) {
	order, err := Build(cart, form, s.tariffs, s.now())
	if err != nil {
		return Receipt{}, err
	}
	order.Reference = s.newRef()

	receipt := Receipt{Reference: order.Reference, Totals: order.Totals}

	submitCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err = s.submitter.Submit(submitCtx, order)
	s.report(ctx, sessionID, order, err)
	if err != nil {
		receipt.Message = domain.MsgOrderFailure
		return receipt, fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}

	receipt.Message = domain.MsgOrderSuccess
	return receipt, nil
}

func (s *Service) report(ctx context.Context, sessionID string, order domain.Order, err error) {
	if err != nil {
		s.logger.Warn("order submission failed",
			"session_id", sessionID,
			"reference", order.Reference,
			"total", order.Totals.Total,
			"err", err,
		)
	} else {
		s.logger.Info("order submitted",
			"session_id", sessionID,
			"reference", order.Reference,
			"zone", order.Zone,
			"payment", order.Payment.Method,
			"total", order.Totals.Total,
		)
	}
	if s.logger.Enabled(ctx, slog.LevelDebug) {
		s.logger.Debug("order record", "fields", s.redactor.Fields(order))
	}

	if s.hooks.OnOrderSubmitted != nil {
		s.hooks.OnOrderSubmitted(ctx, &domain.OrderEvent{
			EventBase: domain.EventBase{
				Timestamp: s.now(),
				Type:      domain.EventOrderSubmitted,
				SessionID: sessionID,
			},
			Reference: order.Reference,
			Totals:    order.Totals,
			Success:   err == nil,
			Err:       err,
		})
	}
}
