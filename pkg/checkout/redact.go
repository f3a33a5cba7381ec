package checkout

import (
	"regexp"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
)

// Mask replaces redacted values.
const Mask = "***"

// DefaultPIIPatterns match the order fields that identify the shopper.
var DefaultPIIPatterns = []string{`^Name$`, `^Phone$`, `^Address$`, `^Notes$`, `^Trx ID$`, `^Sender Number$`}

// Redactor masks order record fields whose names match its patterns.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor compiles patterns. It panics on an invalid expression.
func NewRedactor(patterns ...string) *Redactor {
	if len(patterns) == 0 {
		patterns = DefaultPIIPatterns
	}
	r := &Redactor{patterns: make([]*regexp.Regexp, len(patterns))}
	for i, p := range patterns {
		r.patterns[i] = regexp.MustCompile(p)
	}
	return r
}

// Fields returns the order record with matching values masked. Empty values
// stay empty so the record still shows which fields were left blank.
func (r *Redactor) Fields(order domain.Order) []domain.Field {
	fields := order.Fields()
	for i, f := range fields {
		if f.Value == "" {
			continue
		}
		for _, p := range r.patterns {
			if p.MatchString(f.Name) {
				fields[i].Value = Mask
				break
			}
		}
	}
	return fields
}

// Order returns a copy of order with the shopper's details masked.
func (r *Redactor) Order(order domain.Order) domain.Order {
	masked := order
	mask := func(name string, v *string) {
		if *v == "" {
			return
		}
		for _, p := range r.patterns {
			if p.MatchString(name) {
				*v = Mask
				return
			}
		}
	}
	mask("Name", &masked.Shipping.Name)
	mask("Phone", &masked.Shipping.Phone)
	mask("Address", &masked.Shipping.Address)
	mask("Notes", &masked.Shipping.Notes)
	mask("Trx ID", &masked.Payment.TrxID)
	mask("Sender Number", &masked.Payment.SenderNumber)
	return masked
}
