package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount float64
		cur    Currency
		want   string
	}{
		{0, CurrencyTRY, "₺0,00"},
		{7800, CurrencyTRY, "₺7.800,00"},
		{1234567.891, CurrencyUSD, "$1.234.567,89"},
		{999.995, CurrencyEUR, "€1.000,00"},
		{12.5, "", "₺12,50"},
		{-1500, CurrencyTRY, "-₺1.500,00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatMoney(tc.amount, tc.cur))
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"":           0,
		"  ":         0,
		"1500":       1500,
		"1234.56":    1234.56,
		"1.234,56":   1234.56,
		"1,234.56":   1234.56,
		"12,5":       12.5,
		"₺ 1.000,00": 1000,
		"140,00 TL":  140,
		"1.234.567":  1234567,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	_, err := ParseAmount("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("1,2,3")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseAmountOrZero(t *testing.T) {
	assert.Equal(t, 0.0, ParseAmountOrZero("abc"))
	assert.Equal(t, 0.0, ParseAmountOrZero("1,2,3"))
	assert.Equal(t, 0.0, ParseAmountOrZero(""))
	assert.Equal(t, 1234.56, ParseAmountOrZero("1.234,56"))
}

func TestParseCurrency(t *testing.T) {
	for in, want := range map[string]Currency{"₺": CurrencyTRY, "try": CurrencyTRY, "TL": CurrencyTRY, "$": CurrencyUSD, "eur": CurrencyEUR} {
		got, err := ParseCurrency(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCurrency("GBP")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
	assert.True(t, IsValidation(err))
}
