package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency is the symbol prefixed to every displayed amount.
const Currency = "৳"

// Zone is the binary shipping-distance classification that selects the delivery fee.
type Zone string

const (
	ZoneInside  Zone = "inside"  // Inside Dhaka
	ZoneOutside Zone = "outside" // Outside Dhaka
)

// Label returns the human-readable zone name used in the order record.
func (z Zone) Label() string {
	if z == ZoneInside {
		return "Inside Dhaka"
	}
	return "Outside Dhaka"
}

// ParseZone accepts the zone identifiers and their labels, case-insensitively.
func ParseZone(s string) (Zone, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inside", "inside dhaka", "inside_dhaka", "insidedhaka":
		return ZoneInside, nil
	case "outside", "outside dhaka", "outside_dhaka", "outsidedhaka":
		return ZoneOutside, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownZone, s)
	}
}

// Tariffs holds the fixed delivery fee of each zone.
type Tariffs struct {
	Inside  int64 `json:"inside" yaml:"inside" mapstructure:"inside"`
	Outside int64 `json:"outside" yaml:"outside" mapstructure:"outside"`
}

// DefaultTariffs are the store's standard delivery fees.
var DefaultTariffs = Tariffs{Inside: 70, Outside: 130}

// Fee returns the delivery fee for zone. Any zone other than ZoneInside
// is charged the outside tariff.
func (t Tariffs) Fee(zone Zone) int64 {
	if zone == ZoneInside {
		return t.Inside
	}
	return t.Outside
}

// OrderTotals are derived from a cart and a zone; they are never stored.
type OrderTotals struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Total       int64 `json:"total"`
}

// Quote computes the totals for a subtotal shipped to zone.
func Quote(subtotal int64, zone Zone, t Tariffs) OrderTotals {
	fee := t.Fee(zone)
	return OrderTotals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       addAmount(subtotal, fee),
	}
}

// FormatAmount renders an amount with the currency symbol, e.g. "৳1370".
func FormatAmount(amount int64) string {
	return Currency + strconv.FormatInt(amount, 10)
}

// addAmount adds two amounts, saturating at math.MaxInt64.
func addAmount(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
