package billing

import "math"

// LineItem is one row of an invoice. Order of items in a slice is the
// display order.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// LineTotal is quantity times price, unrounded.
func (it LineItem) LineTotal() float64 {
	return finite(it.Quantity) * finite(it.Price)
}

// Totals are always derived from line items and the tax rate; they are never
// stored on the document itself.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// ComputeTotals returns subtotal, tax and grand total without rounding.
// Non-finite quantities, prices or tax rates count as zero.
func ComputeTotals(items []LineItem, taxRate float64) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.LineTotal()
	}
	taxAmount := subtotal * finite(taxRate) / 100
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
