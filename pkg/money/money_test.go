package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		want     string
	}{
		{name: "ten percent off round price", price: "100.00", discount: "10", want: "90.00"},
		{name: "zero discount leaves price", price: "49.99", discount: "0", want: "49.99"},
		{name: "negative discount leaves price", price: "49.99", discount: "-5", want: "49.99"},
		{name: "discount amount rounds half up", price: "10.01", discount: "15", want: "8.51"},
		{name: "full discount", price: "25.00", discount: "100", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FinalPrice(dec(tt.price), dec(tt.discount))
			assert.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.True(t, dec("59.97").Equal(LineTotal(dec("19.99"), 3)))
	assert.True(t, decimal.Zero.Equal(LineTotal(dec("19.99"), 0)))
}

func TestSum(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(Sum()))
	assert.True(t, dec("30.00").Equal(Sum(dec("10.00"), dec("20.00"))))
}

func ratings(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, dec(v))
	}
	return out
}

func TestAverageRating(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(AverageRating(nil)))
	assert.True(t, dec("4.33").Equal(AverageRating(ratings("5", "4", "4"))))
	assert.True(t, dec("3.75").Equal(AverageRating(ratings("3.5", "4"))))
	// 2+3+3 = 8/3 = 2.666... rounds half up to 2.67
	assert.True(t, dec("2.67").Equal(AverageRating(ratings("2", "3", "3"))))
}
