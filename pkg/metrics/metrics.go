// Package metrics exposes store activity as Prometheus collectors fed by
// domain lifecycle hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors groups the store's metrics on a private registry.
type Collectors struct {
	Registry    *prometheus.Registry
	Transitions *prometheus.CounterVec
	StorageErrs *prometheus.CounterVec
	Orders      *prometheus.CounterVec
	CartItems   prometheus.Gauge
	OrderTotal  prometheus.Histogram
}

// New creates and registers the collectors, plus the Go and process collectors.
func New() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "annoor_cart_transitions_total",
				Help: "Total number of cart actions applied",
			},
			[]string{"action"},
		),
		StorageErrs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "annoor_storage_errors_total",
				Help: "Cart storage failures recovered in memory",
			},
			[]string{"op"},
		),
		Orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "annoor_orders_total",
				Help: "Order submissions by outcome",
			},
			[]string{"outcome"},
		),
		CartItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "annoor_cart_items",
			Help: "Unit count of the most recently changed cart",
		}),
		OrderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "annoor_order_total_amount",
			Help:    "Grand total of submitted orders",
			Buckets: []float64{500, 1000, 1500, 2500, 5000, 10000},
		}),
	}

	c.Registry.MustRegister(
		c.Transitions,
		c.StorageErrs,
		c.Orders,
		c.CartItems,
		c.OrderTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Hooks returns lifecycle hooks that record into the collectors.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			c.Transitions.WithLabelValues(string(e.Action)).Inc()
			c.CartItems.Set(float64(e.After.ItemCount()))
		},
		OnPersistError: func(ctx context.Context, e *domain.StorageEvent) {
			c.StorageErrs.WithLabelValues(string(e.Op)).Inc()
		},
		OnOrderSubmitted: func(ctx context.Context, e *domain.OrderEvent) {
			outcome := "failure"
			if e.Success {
				outcome = "success"
				c.OrderTotal.Observe(float64(e.Totals.Total))
			}
			c.Orders.WithLabelValues(outcome).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})
}
