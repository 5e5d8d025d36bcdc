package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_DiscountedPrice(t *testing.T) {
	tests := []struct {
		price, discount, want float64
	}{
		{100, 0, 100},
		{100, 25, 75},
		{40, 12.5, 35},
		{10, -5, 10},
	}
	for _, tt := range tests {
		p := Product{Price: tt.price, DiscountPercentage: tt.discount}
		assert.InDelta(t, tt.want, p.DiscountedPrice(), 1e-9)
	}
}
