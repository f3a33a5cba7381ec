package domain

import (
	"fmt"
	"strings"
)

// PaymentMethod only changes which fields checkout collects.
// No verification or transaction takes place.
type PaymentMethod string

const (
	PaymentBKash PaymentMethod = "bKash"
	PaymentNagad PaymentMethod = "Nagad"
	PaymentCOD   PaymentMethod = "COD"
)

// RequiresReference reports whether the method needs a transaction id and
// sender number (mobile money transfers).
func (m PaymentMethod) RequiresReference() bool {
	return m == PaymentBKash || m == PaymentNagad
}

// ParsePaymentMethod accepts the method identifiers case-insensitively.
// An empty string selects cash on delivery.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cod", "cash", "cash on delivery":
		return PaymentCOD, nil
	case "bkash":
		return PaymentBKash, nil
	case "nagad":
		return PaymentNagad, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
	}
}

// DefaultMerchantNumber is the placeholder shown until real wallet numbers are configured.
const DefaultMerchantNumber = "01XXXXXXXXX"

// MerchantNumbers are the store's wallets that shoppers send mobile money to.
type MerchantNumbers struct {
	BKash string `json:"bkash" yaml:"bkash" mapstructure:"bkash"`
	Nagad string `json:"nagad" yaml:"nagad" mapstructure:"nagad"`
}

// DefaultMerchantNumbers uses the placeholder for every wallet.
var DefaultMerchantNumbers = MerchantNumbers{BKash: DefaultMerchantNumber, Nagad: DefaultMerchantNumber}

// For returns the wallet number for m, or "" when m takes no transfer.
func (n MerchantNumbers) For(m PaymentMethod) string {
	switch m {
	case PaymentBKash:
		return n.BKash
	case PaymentNagad:
		return n.Nagad
	default:
		return ""
	}
}
