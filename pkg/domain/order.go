package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Outcome notices shown to the shopper after a submission attempt.
const (
	MsgOrderSuccess = "✅ অর্ডার সফলভাবে জমা হয়েছে!"
	MsgOrderFailure = "❌ অর্ডার পাঠাতে সমস্যা হয়েছে। আবার চেষ্টা করুন।"
)

// ShippingInfo is the free-form delivery section of the checkout form.
type ShippingInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// PaymentInfo holds the selected method and, for mobile money, the
// transfer reference supplied by the shopper.
type PaymentInfo struct {
	Method       PaymentMethod `json:"method"`
	TrxID        string        `json:"trx_id,omitempty"`
	SenderNumber string        `json:"sender_number,omitempty"`
}

// Order is the snapshot handed to the submission channel.
type Order struct {
	Reference string       `json:"reference"`
	Zone      Zone         `json:"zone"`
	Payment   PaymentInfo  `json:"payment"`
	Totals    OrderTotals  `json:"totals"`
	Items     []string     `json:"items"`
	Shipping  ShippingInfo `json:"shipping"`
	Cart      Cart         `json:"cart"`
	CreatedAt time.Time    `json:"created_at"`
}

// Field is one named value of the flattened order record.
type Field struct {
	Name  string
	Value string
}

// ItemLine describes a line item as "name x qty = ৳lineTotal".
func ItemLine(item LineItem) string {
	return fmt.Sprintf("%s x %d = %s", item.Name, item.Qty, FormatAmount(item.LineTotal()))
}

// Fields flattens the order in form order: zone, payment method, totals,
// payment reference (only when the method requires one), one field per
// item, shipping details and the raw cart snapshot.
func (o Order) Fields() []Field {
	fields := []Field{
		{Name: "Area", Value: o.Zone.Label()},
		{Name: "Payment Method", Value: string(o.Payment.Method)},
		{Name: "Subtotal", Value: strconv.FormatInt(o.Totals.Subtotal, 10)},
		{Name: "Delivery Fee", Value: strconv.FormatInt(o.Totals.DeliveryFee, 10)},
		{Name: "Total", Value: strconv.FormatInt(o.Totals.Total, 10)},
	}
	if o.Payment.Method.RequiresReference() {
		fields = append(fields,
			Field{Name: "Trx ID", Value: o.Payment.TrxID},
			Field{Name: "Sender Number", Value: o.Payment.SenderNumber},
		)
	}
	for i, line := range o.Items {
		fields = append(fields, Field{Name: fmt.Sprintf("Item %d", i+1), Value: line})
	}
	fields = append(fields,
		Field{Name: "Name", Value: o.Shipping.Name},
		Field{Name: "Phone", Value: o.Shipping.Phone},
		Field{Name: "Address", Value: o.Shipping.Address},
		Field{Name: "Notes", Value: o.Shipping.Notes},
		Field{Name: "cart", Value: o.snapshotJSON()},
	)
	return fields
}

// Params returns Fields as a map, the shape expected by template-based
// delivery channels.
func (o Order) Params() map[string]string {
	fields := o.Fields()
	params := make(map[string]string, len(fields))
	for _, f := range fields {
		params[f.Name] = f.Value
	}
	return params
}

func (o Order) snapshotJSON() string {
	cart := o.Cart
	if cart == nil {
		cart = Cart{}
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return "[]"
	}
	return string(data)
}
