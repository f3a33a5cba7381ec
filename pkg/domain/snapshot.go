package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeSnapshot serializes the cart as a JSON array of line items.
// A nil cart encodes as "[]".
func EncodeSnapshot(c Cart) ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a stored snapshot.
//
// Data that is not a JSON array (including "null") returns ErrCorruptSnapshot.
// Individual items are decoded leniently: non-numeric prices become 0,
// quantities go through ParseQty, and the result is normalized so that the
// cart invariants hold.
func DecodeSnapshot(data []byte) (Cart, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrCorruptSnapshot
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	items := make(Cart, 0, len(raw))
	for _, elem := range raw {
		fields, ok := decodeObject(elem)
		if !ok {
			continue
		}
		items = append(items, LineItem{
			ID:    stringField(fields["id"]),
			Name:  stringField(fields["name"]),
			Price: parseAmount(fields["price"]),
			Image: stringField(fields["image"]),
			Qty:   ParseQty(fields["qty"]),
		})
	}
	return normalize(items), nil
}

func stringField(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

// decodeObject decodes one array element, skipping anything that is not an object.
func decodeObject(elem json.RawMessage) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}
