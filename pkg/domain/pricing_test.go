package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_Scenario(t *testing.T) {
	cart := domain.Cart{item("x", 500, 2), item("y", 300, 1)}

	inside := domain.Quote(cart.Subtotal(), domain.ZoneInside, domain.DefaultTariffs)
	assert.Equal(t, domain.OrderTotals{Subtotal: 1300, DeliveryFee: 70, Total: 1370}, inside)

	outside := domain.Quote(cart.Subtotal(), domain.ZoneOutside, domain.DefaultTariffs)
	assert.Equal(t, domain.OrderTotals{Subtotal: 1300, DeliveryFee: 130, Total: 1430}, outside)
}

func TestQuote_EmptyCart(t *testing.T) {
	totals := domain.Quote(0, domain.ZoneInside, domain.DefaultTariffs)
	assert.Equal(t, int64(70), totals.Total)
}

func TestTariffs_UnknownZoneChargesOutside(t *testing.T) {
	tariffs := domain.Tariffs{Inside: 60, Outside: 120}
	assert.Equal(t, int64(60), tariffs.Fee(domain.ZoneInside))
	assert.Equal(t, int64(120), tariffs.Fee(domain.ZoneOutside))
	assert.Equal(t, int64(120), tariffs.Fee(domain.Zone("moon")))
}

func TestParseZone(t *testing.T) {
	for in, want := range map[string]domain.Zone{
		"inside":        domain.ZoneInside,
		" Inside Dhaka": domain.ZoneInside,
		"OUTSIDE":       domain.ZoneOutside,
		"outside_dhaka": domain.ZoneOutside,
	} {
		got, err := domain.ParseZone(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseZone("chittagong")
	assert.True(t, errors.Is(err, domain.ErrUnknownZone))
}

func TestZone_Label(t *testing.T) {
	assert.Equal(t, "Inside Dhaka", domain.ZoneInside.Label())
	assert.Equal(t, "Outside Dhaka", domain.ZoneOutside.Label())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "৳1370", domain.FormatAmount(1370))
	assert.Equal(t, "৳0", domain.FormatAmount(0))
}

func TestParsePaymentMethod(t *testing.T) {
	for in, want := range map[string]domain.PaymentMethod{
		"":      domain.PaymentCOD,
		"cod":   domain.PaymentCOD,
		"bkash": domain.PaymentBKash,
		"Nagad": domain.PaymentNagad,
	} {
		got, err := domain.ParsePaymentMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := domain.ParsePaymentMethod("card")
	assert.ErrorIs(t, err, domain.ErrUnknownPaymentMethod)

	assert.True(t, domain.PaymentBKash.RequiresReference())
	assert.True(t, domain.PaymentNagad.RequiresReference())
	assert.False(t, domain.PaymentCOD.RequiresReference())
}

func TestMerchantNumbers_For(t *testing.T) {
	n := domain.MerchantNumbers{BKash: "01711111111", Nagad: "01822222222"}
	assert.Equal(t, "01711111111", n.For(domain.PaymentBKash))
	assert.Equal(t, "01822222222", n.For(domain.PaymentNagad))
	assert.Empty(t, n.For(domain.PaymentCOD))
	assert.Equal(t, domain.DefaultMerchantNumber, domain.DefaultMerchantNumbers.BKash)
}

func TestQuote_TotalSaturates(t *testing.T) {
	totals := domain.Quote(math.MaxInt64-10, domain.ZoneOutside, domain.DefaultTariffs)
	assert.Equal(t, int64(math.MaxInt64), totals.Total)
	assert.Equal(t, int64(130), totals.DeliveryFee)
}
