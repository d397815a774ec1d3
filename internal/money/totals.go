package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Line is the billable part of a line item: how many, at what unit price.
type Line struct {
	Quantity int
	Price    decimal.Decimal
}

// Amount returns quantity × price.
func (l Line) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Billable reports whether the line counts toward totals. Rows with a zero
// quantity stay on the invoice record but are neither summed nor printed.
func (l Line) Billable() bool {
	return l.Quantity > 0
}

// Totals is the derived financial summary of an invoice.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableBase    decimal.Decimal `json:"taxable_base"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotals is the only place invoice totals are derived. The editable
// form, the read-only view, the spreadsheet export and the PDF all call it.
//
// Inputs are not validated: negative quantities drop out with the zero rows,
// negative prices or rates simply yield negative amounts.
func ComputeTotals(lines []Line, discountPercent decimal.Decimal, taxEnabled bool, taxRatePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		if !l.Billable() {
			continue
		}
		subtotal = subtotal.Add(l.Amount())
	}

	discount := subtotal.Mul(discountPercent).Div(hundred)
	base := subtotal.Sub(discount)

	tax := decimal.Zero
	if taxEnabled {
		tax = base.Mul(taxRatePercent).Div(hundred)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableBase:    base,
		TaxAmount:      tax,
		Total:          base.Add(tax),
	}
}
