package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_SampleInvoice(t *testing.T) {
	items := []LineItem{
		{ID: "1", Description: "Web design service", Quantity: 1, Price: 5000},
		{ID: "2", Description: "Logo design", Quantity: 1, Price: 1500},
	}

	got := ComputeTotals(items, 20)

	assert.Equal(t, 6500.0, got.Subtotal)
	assert.Equal(t, 1300.0, got.TaxAmount)
	assert.Equal(t, 7800.0, got.Total)
}

func TestComputeTotals_Relations(t *testing.T) {
	cases := []struct {
		name  string
		items []LineItem
		rate  float64
	}{
		{"empty", nil, 20},
		{"zero tax", []LineItem{{ID: "a", Quantity: 3, Price: 19.99}}, 0},
		{"fractional", []LineItem{{ID: "a", Quantity: 2.5, Price: 0.1}, {ID: "b", Quantity: 7, Price: 33.333}}, 18},
		{"large", []LineItem{{ID: "a", Quantity: 1e6, Price: 12345.67}}, 8},
		{"odd rate", []LineItem{{ID: "a", Quantity: 1, Price: 99.99}}, 7.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTotals(tc.items, tc.rate)
			assert.InDelta(t, got.Subtotal*tc.rate/100, got.TaxAmount, 1e-9)
			assert.InDelta(t, got.Subtotal+got.TaxAmount, got.Total, 1e-9)
		})
	}
}

func TestComputeTotals_NonNumericCountsAsZero(t *testing.T) {
	items := []LineItem{
		{ID: "a", Quantity: math.NaN(), Price: 100},
		{ID: "b", Quantity: 2, Price: math.Inf(1)},
		{ID: "c", Quantity: 2, Price: 10},
	}

	got := ComputeTotals(items, math.NaN())

	assert.Equal(t, 20.0, got.Subtotal)
	assert.Equal(t, 0.0, got.TaxAmount)
	assert.Equal(t, 20.0, got.Total)
	assert.False(t, math.IsNaN(got.Total))
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []LineItem{{ID: "a", Quantity: 3, Price: 0.1}, {ID: "b", Quantity: 1, Price: 0.2}}

	first := ComputeTotals(items, 17.3)
	second := ComputeTotals(items, 17.3)

	assert.Equal(t, math.Float64bits(first.Total), math.Float64bits(second.Total))
	assert.Equal(t, first, second)
}
