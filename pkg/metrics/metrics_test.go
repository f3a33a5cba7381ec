package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks(t *testing.T) {
	c := metrics.New()
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnTransition(ctx, &domain.TransitionEvent{
		Action: domain.ActionAdd,
		After:  domain.Cart{{ID: "a", Price: 1, Qty: 3}},
	})
	hooks.OnTransition(ctx, &domain.TransitionEvent{Action: domain.ActionAdd})
	hooks.OnPersistError(ctx, &domain.StorageEvent{Op: domain.StorageWrite, Err: errors.New("x")})
	hooks.OnOrderSubmitted(ctx, &domain.OrderEvent{Success: true, Totals: domain.OrderTotals{Total: 869}})
	hooks.OnOrderSubmitted(ctx, &domain.OrderEvent{Success: false})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Transitions.WithLabelValues("ADD")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.CartItems), "gauge follows the last cart")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StorageErrs.WithLabelValues("write")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Orders.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Orders.WithLabelValues("failure")))
}

func TestHandler(t *testing.T) {
	c := metrics.New()
	c.Hooks().OnTransition(context.Background(), &domain.TransitionEvent{Action: domain.ActionClear})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `annoor_cart_transitions_total{action="CLEAR"} 1`)
}
