package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		lines        []Line
		discount     string
		taxEnabled   bool
		taxRate      string
		wantSubtotal string
		wantDiscount string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "empty item list",
			discount:     "10",
			taxEnabled:   true,
			taxRate:      "18",
			wantSubtotal: "0",
			wantDiscount: "0",
			wantTax:      "0",
			wantTotal:    "0",
		},
		{
			name:         "discount and tax",
			lines:        []Line{{Quantity: 2, Price: d("100")}},
			discount:     "10",
			taxEnabled:   true,
			taxRate:      "10",
			wantSubtotal: "200",
			wantDiscount: "20",
			wantTax:      "18",
			wantTotal:    "198",
		},
		{
			name:         "tax disabled ignores rate",
			lines:        []Line{{Quantity: 3, Price: d("50")}},
			discount:     "0",
			taxEnabled:   false,
			taxRate:      "18",
			wantSubtotal: "150",
			wantDiscount: "0",
			wantTax:      "0",
			wantTotal:    "150",
		},
		{
			name:         "full discount with tax leaves zero",
			lines:        []Line{{Quantity: 1, Price: d("500")}},
			discount:     "100",
			taxEnabled:   true,
			taxRate:      "18",
			wantSubtotal: "500",
			wantDiscount: "500",
			wantTax:      "0",
			wantTotal:    "0",
		},
		{
			name: "zero quantity rows are skipped",
			lines: []Line{
				{Quantity: 0, Price: d("1000")},
				{Quantity: 4, Price: d("25.5")},
			},
			discount:     "0",
			taxEnabled:   false,
			taxRate:      "0",
			wantSubtotal: "102",
			wantDiscount: "0",
			wantTax:      "0",
			wantTotal:    "102",
		},
		{
			name:         "negative price stays consistent",
			lines:        []Line{{Quantity: 1, Price: d("-100")}},
			discount:     "10",
			taxEnabled:   true,
			taxRate:      "10",
			wantSubtotal: "-100",
			wantDiscount: "-10",
			wantTax:      "-9",
			wantTotal:    "-99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines, d(tt.discount), tt.taxEnabled, d(tt.taxRate))

			assert.True(t, d(tt.wantSubtotal).Equal(got.Subtotal), "subtotal = %s", got.Subtotal)
			assert.True(t, d(tt.wantDiscount).Equal(got.DiscountAmount), "discount = %s", got.DiscountAmount)
			assert.True(t, d(tt.wantTax).Equal(got.TaxAmount), "tax = %s", got.TaxAmount)
			assert.True(t, d(tt.wantTotal).Equal(got.Total), "total = %s", got.Total)
			assert.True(t, got.Total.Equal(got.Subtotal.Sub(got.DiscountAmount).Add(got.TaxAmount)))
		})
	}
}

func TestComputeTotals_Deterministic(t *testing.T) {
	lines := []Line{{Quantity: 7, Price: d("13.37")}, {Quantity: 2, Price: d("0.99")}}

	first := ComputeTotals(lines, d("12.5"), true, d("18"))
	second := ComputeTotals(lines, d("12.5"), true, d("18"))

	assert.Equal(t, first, second)
}

func TestLine_Amount(t *testing.T) {
	assert.True(t, d("250").Equal(Line{Quantity: 5, Price: d("50")}.Amount()))
	assert.False(t, Line{Quantity: 0, Price: d("50")}.Billable())
	assert.False(t, Line{Quantity: -1, Price: d("50")}.Billable())
}
