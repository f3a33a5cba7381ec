package domain

// CartDiff represents the changes between two carts.
// It is designed to be serialized to JSON for partial updates on the client.
type CartDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Added holds lines whose id was not in the old cart.
	Added []LineItem `json:"added,omitempty"`

	// Updated holds lines present in both carts with a different quantity or price.
	Updated []LineItem `json:"updated,omitempty"`

	// Removed lists ids that are gone from the new cart.
	Removed []string `json:"removed,omitempty"`

	// Totals after the change.
	Subtotal  int64 `json:"subtotal"`
	ItemCount int   `json:"item_count"`
}

// Diff calculates the difference between oldCart and newCart for a session.
// It returns nil when the carts hold the same lines.
func Diff(sessionID string, oldCart, newCart Cart) *CartDiff {
	diff := &CartDiff{
		SessionID: sessionID,
		Subtotal:  newCart.Subtotal(),
		ItemCount: newCart.ItemCount(),
	}

	old := make(map[string]LineItem, len(oldCart))
	for _, item := range oldCart {
		old[item.ID] = item
	}

	seen := make(map[string]struct{}, len(newCart))
	for _, item := range newCart {
		seen[item.ID] = struct{}{}
		prev, ok := old[item.ID]
		switch {
		case !ok:
			diff.Added = append(diff.Added, item)
		case prev != item:
			diff.Updated = append(diff.Updated, item)
		}
	}

	for _, item := range oldCart {
		if _, ok := seen[item.ID]; !ok {
			diff.Removed = append(diff.Removed, item.ID)
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any line changes.
func (d *CartDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}
