package checkout

import (
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
)

// Build assembles the order record for cart and form. The returned order has
// no Reference; Service assigns one at submission.
//
// An empty cart yields domain.ErrEmptyCart, an invalid form a *ValidationError.
func Build(cart domain.Cart, form Form, tariffs domain.Tariffs, now time.Time) (domain.Order, error) {
	if cart.IsEmpty() {
		return domain.Order{}, domain.ErrEmptyCart
	}

	form, err := form.Normalize()
	if err != nil {
		return domain.Order{}, err
	}

	// Both parse calls succeed once the form validated.
	zone, _ := domain.ParseZone(form.Zone)
	method, _ := domain.ParsePaymentMethod(form.Payment)

	payment := domain.PaymentInfo{Method: method}
	if method.RequiresReference() {
		payment.TrxID = form.TrxID
		payment.SenderNumber = form.Sender
	}

	items := make([]string, 0, len(cart))
	for _, item := range cart {
		items = append(items, domain.ItemLine(item))
	}

	return domain.Order{
		Zone:    zone,
		Payment: payment,
		Totals:  domain.Quote(cart.Subtotal(), zone, tariffs),
		Items:   items,
		Shipping: domain.ShippingInfo{
			Name:    form.Name,
			Phone:   form.Phone,
			Address: form.Address,
			Notes:   form.Notes,
		},
		Cart:      cart.Clone(),
		CreatedAt: now,
	}, nil
}
