// Package money centralizes price arithmetic so rounding happens in
// exactly one place. All amounts are decimal with two fractional digits.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FinalPrice applies a percentage discount to a unit price. The discount
// amount is rounded half-up to two decimals before subtraction; a zero or
// negative discount leaves the price untouched.
func FinalPrice(price decimal.Decimal, discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.Sign() <= 0 {
		return price
	}
	discountAmount := price.Mul(discountPercent).DivRound(hundred, 2)
	return price.Sub(discountAmount)
}

// LineTotal is the snapshot unit price multiplied by quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Sum adds the given amounts. An empty slice yields zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}

// AverageRating is the mean of the ratings rounded half-up to two
// decimals. An empty slice yields zero.
func AverageRating(ratings []decimal.Decimal) decimal.Decimal {
	if len(ratings) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, rating := range ratings {
		sum = sum.Add(rating)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(ratings))), 2)
}
