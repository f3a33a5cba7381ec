package domain

// StorageKey is the fixed storage slot holding a serialized cart.
// It doubles as the session id of the single-user CLI.
const StorageKey = "anNoorCart"

// LineItem is one product entry in the cart with its aggregated quantity.
type LineItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Image string `json:"image"`
	Qty   int    `json:"qty"`
}

// LineTotal returns price * qty, counting a negative price as zero.
// Price and qty are bounded first, so the product never overflows.
func (i LineItem) LineTotal() int64 {
	if i.Qty < 1 {
		return 0
	}
	return clampPrice(i.Price) * int64(min(i.Qty, maxQty))
}

// Cart is the ordered sequence of line items. Insertion order is the order
// in which products were first added.
type Cart []LineItem

// Subtotal is the sum of price * qty over all line items.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, item := range c {
		total = addAmount(total, item.LineTotal())
	}
	return total
}

// ItemCount is the sum of quantities over all line items.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c {
		n += item.Qty
	}
	return n
}

// Find returns the line item with the given id.
func (c Cart) Find(id string) (LineItem, bool) {
	for _, item := range c {
		if item.ID == id {
			return item, true
		}
	}
	return LineItem{}, false
}

// Clone returns a copy that shares no backing array with c.
// A nil cart clones to an empty, non-nil cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}
