package billing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the display symbol of an invoice. It only selects formatting,
// amounts are never converted.
type Currency string

const (
	CurrencyTRY Currency = "₺"
	CurrencyUSD Currency = "$"
	CurrencyEUR Currency = "€"
)

// Currencies lists the supported symbols in menu order.
var Currencies = []Currency{CurrencyTRY, CurrencyUSD, CurrencyEUR}

// ParseCurrency accepts a symbol or its ISO code (TRY, USD, EUR, TL).
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(CurrencyTRY), "TRY", "TL":
		return CurrencyTRY, nil
	case string(CurrencyUSD), "USD":
		return CurrencyUSD, nil
	case string(CurrencyEUR), "EUR":
		return CurrencyEUR, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
}

// Code returns the ISO 4217 code for the symbol.
func (c Currency) Code() string {
	switch c {
	case CurrencyUSD:
		return "USD"
	case CurrencyEUR:
		return "EUR"
	default:
		return "TRY"
	}
}

// FormatMoney formats amount the way the tr-TR locale prints currency
// (₺1.234,56) with the chosen symbol. Rounding happens only here.
func FormatMoney(amount float64, cur Currency) string {
	if cur == "" {
		cur = CurrencyTRY
	}
	d := decimal.NewFromFloat(finite(amount))
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	intPart, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + string(cur) + groupThousands(intPart) + "," + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseAmount parses user or spreadsheet input into a number. Empty input is
// zero. Both "1.234,56" and "1234.56" are understood; a single dot is read as
// the decimal separator. Anything else is ErrInvalidAmount.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, sym := range []string{"TL", "TRY", "USD", "EUR", string(CurrencyTRY), string(CurrencyUSD), string(CurrencyEUR), " ", "\u00a0"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	if s == "" {
		return 0, nil
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		// 1.234.567
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return finite(v), nil
}

// ParseAmountOrZero is ParseAmount for editor form fields: input that is not
// a number counts as 0.
func ParseAmountOrZero(s string) float64 {
	v, err := ParseAmount(s)
	if err != nil {
		return 0
	}
	return v
}
