package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrCorruptSnapshot is returned when stored cart data is not a JSON array.
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// ErrProductNotFound is returned when a product id is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// ErrEmptyCart is returned when checking out a cart without items.
var ErrEmptyCart = errors.New("cart is empty")

var (
	ErrUnknownZone          = errors.New("unknown delivery zone")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// ErrSubmissionFailed wraps any failure of the order submission channel.
var ErrSubmissionFailed = errors.New("order submission failed")
