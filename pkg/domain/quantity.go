package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// maxQty bounds every line quantity, so merged lines and int conversions
// never overflow.
const maxQty = 1 << 30

// maxPrice bounds a unit price. With maxQty it keeps price*qty well inside int64.
const maxPrice int64 = 1_000_000_000

// NormalizeQty floors v and clamps the result to at least 1.
// NaN and infinities are treated as invalid input and become 1.
func NormalizeQty(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	v = math.Floor(v)
	if v < 1 {
		return 1
	}
	if v > maxQty {
		return maxQty
	}
	return int(v)
}

// ParseQty coerces a loosely typed quantity (as decoded from JSON, a form
// field or a command-line argument) into a positive integer.
// Numbers and numeric strings are floored; anything else becomes 1.
func ParseQty(v any) int {
	switch q := v.(type) {
	case int:
		return clamp(q)
	case int32:
		return clamp(int(q))
	case int64:
		return NormalizeQty(float64(q))
	case float32:
		return NormalizeQty(float64(q))
	case float64:
		return NormalizeQty(q)
	case json.Number:
		f, err := q.Float64()
		if err != nil {
			return 1
		}
		return NormalizeQty(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return 1
		}
		return NormalizeQty(f)
	default:
		return 1
	}
}

// parseAmount coerces a loosely typed price into a non-negative integer.
// Anything that is not a number or a numeric string is 0.
func parseAmount(v any) int64 {
	var f float64
	switch p := v.(type) {
	case float64:
		f = p
	case json.Number:
		parsed, err := p.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f > float64(maxPrice) {
		return maxPrice
	}
	return int64(math.Floor(f))
}
