package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseQty(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Nil", nil, 1},
		{"Zero", 0, 1},
		{"Negative", -4, 1},
		{"Positive int", 3, 3},
		{"Int64", int64(8), 8},
		{"Fraction floors", 2.9, 2},
		{"Small fraction", 0.5, 1},
		{"Numeric string", "4", 4},
		{"Fractional string", " 2.7 ", 2},
		{"Garbage string", "abc", 1},
		{"Empty string", "", 1},
		{"Bool", true, 1},
		{"JSON number", json.Number("6"), 6},
		{"NaN", math.NaN(), 1},
		{"Inf", math.Inf(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ParseQty(tt.in))
		})
	}
}

func TestNormalizeQty_Bounds(t *testing.T) {
	assert.Equal(t, 1, domain.NormalizeQty(-0.1))
	assert.Equal(t, 1, domain.NormalizeQty(1.99))
	assert.Equal(t, 1<<30, domain.NormalizeQty(1e20))
}
