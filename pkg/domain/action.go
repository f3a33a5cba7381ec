package domain

// ActionType names a cart transition.
type ActionType string

const (
	// ActionInit replaces the cart wholesale with a snapshot (hydration).
	ActionInit ActionType = "INIT"
	// ActionAdd merges an item into the cart.
	ActionAdd ActionType = "ADD"
	// ActionQty sets the quantity of an existing line.
	ActionQty ActionType = "QTY"
	// ActionRemove drops a line.
	ActionRemove ActionType = "REMOVE"
	// ActionClear empties the cart.
	ActionClear ActionType = "CLEAR"
)

// Action is a single cart command. Only the fields relevant to Type are read.
type Action struct {
	Type     ActionType `json:"type"`
	Item     *LineItem  `json:"item,omitempty"`
	ID       string     `json:"id,omitempty"`
	Qty      int        `json:"qty,omitempty"`
	Snapshot Cart       `json:"snapshot,omitempty"`
}

// Init hydrates the cart from a snapshot. A nil snapshot yields an empty cart.
func Init(snapshot Cart) Action {
	return Action{Type: ActionInit, Snapshot: snapshot}
}

// Add merges item into the cart. A zero or negative item.Qty counts as 1.
func Add(item LineItem) Action {
	return Action{Type: ActionAdd, Item: &item}
}

// SetQty sets the quantity of the line with the given id, clamped to at least 1.
func SetQty(id string, qty int) Action {
	return Action{Type: ActionQty, ID: id, Qty: qty}
}

// Remove drops the line with the given id.
func Remove(id string) Action {
	return Action{Type: ActionRemove, ID: id}
}

// Clear empties the cart.
func Clear() Action {
	return Action{Type: ActionClear}
}

// Apply returns the cart that results from applying a to c.
//
// Apply never mutates c and always returns a valid cart: unknown action
// types, unknown ids and malformed items leave the contents unchanged.
func Apply(c Cart, a Action) Cart {
	switch a.Type {
	case ActionInit:
		return normalize(a.Snapshot)
	case ActionAdd:
		return applyAdd(c, a.Item)
	case ActionQty:
		return applyQty(c, a.ID, a.Qty)
	case ActionRemove:
		return applyRemove(c, a.ID)
	case ActionClear:
		return Cart{}
	default:
		return c.Clone()
	}
}

func applyAdd(c Cart, item *LineItem) Cart {
	if item == nil || item.ID == "" {
		return c.Clone()
	}
	qty := clamp(item.Qty)

	next := c.Clone()
	for i := range next {
		if next[i].ID == item.ID {
			next[i].Qty = addQty(next[i].Qty, qty)
			return next
		}
	}

	added := *item
	added.Qty = qty
	added.Price = clampPrice(added.Price)
	return append(next, added)
}

func applyQty(c Cart, id string, qty int) Cart {
	next := c.Clone()
	for i := range next {
		if next[i].ID == id {
			next[i].Qty = clamp(qty)
			break
		}
	}
	return next
}

func applyRemove(c Cart, id string) Cart {
	next := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID != id {
			next = append(next, item)
		}
	}
	return next
}

// normalize restores the cart invariants on an externally supplied snapshot:
// no empty ids, one line per id (quantities merged), 1 <= qty <= maxQty and
// 0 <= price <= maxPrice.
func normalize(snapshot Cart) Cart {
	out := make(Cart, 0, len(snapshot))
	index := make(map[string]int, len(snapshot))
	for _, item := range snapshot {
		if item.ID == "" {
			continue
		}
		item.Qty = clamp(item.Qty)
		item.Price = clampPrice(item.Price)
		if pos, ok := index[item.ID]; ok {
			out[pos].Qty = addQty(out[pos].Qty, item.Qty)
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

func clamp(qty int) int {
	return min(max(qty, 1), maxQty)
}

// addQty merges two clamped quantities; the sum cannot overflow since both
// are at most maxQty.
func addQty(a, b int) int {
	return clamp(clamp(a) + clamp(b))
}

func clampPrice(price int64) int64 {
	return min(max(price, 0), maxPrice)
}
