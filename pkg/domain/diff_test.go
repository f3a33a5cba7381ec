package domain

import "testing"

func TestDiff(t *testing.T) {
	a := LineItem{ID: "a", Price: 100, Qty: 1}
	b := LineItem{ID: "b", Price: 200, Qty: 1}
	a3 := LineItem{ID: "a", Price: 100, Qty: 3}

	tests := []struct {
		name        string
		old, new    Cart
		wantNil     bool
		wantAdded   int
		wantUpdated int
		wantRemoved int
	}{
		{name: "No Changes", old: Cart{a, b}, new: Cart{a, b}, wantNil: true},
		{name: "Initial Load", old: nil, new: Cart{a}, wantAdded: 1},
		{name: "Quantity Change", old: Cart{a, b}, new: Cart{a3, b}, wantUpdated: 1},
		{name: "Removal", old: Cart{a, b}, new: Cart{b}, wantRemoved: 1},
		{name: "Clear", old: Cart{a, b}, new: Cart{}, wantRemoved: 2},
		{name: "Both Empty", old: nil, new: Cart{}, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff("sess-1", tt.old, tt.new)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Expected nil diff, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Expected diff, got nil")
			}
			if got.SessionID != "sess-1" {
				t.Errorf("Expected session id sess-1, got %q", got.SessionID)
			}
			if len(got.Added) != tt.wantAdded || len(got.Updated) != tt.wantUpdated || len(got.Removed) != tt.wantRemoved {
				t.Errorf("Unexpected diff shape: %+v", got)
			}
			if got.Subtotal != tt.new.Subtotal() || got.ItemCount != tt.new.ItemCount() {
				t.Errorf("Totals mismatch: %+v", got)
			}
		})
	}
}
