package billing

import "fmt"

const (
	DefaultInvoicePrefix = "INV-2024-"
	numberPadding        = 3
)

// NumberConfig is the owner's invoice numbering counter: the prefix and the
// sequence number the next new invoice will receive.
type NumberConfig struct {
	Prefix string `json:"prefix"`
	Next   int    `json:"next"`
}

func DefaultNumberConfig() NumberConfig {
	return NumberConfig{Prefix: DefaultInvoicePrefix, Next: 1}
}

func (c NumberConfig) Validate() error {
	if c.Next < 1 {
		return ErrInvalidNumberConfig
	}
	return nil
}

// Current formats the number this config would hand out next.
func (c NumberConfig) Current() string {
	return FormatNumber(c.Prefix, c.Next)
}

// FormatNumber zero-pads n to three digits; longer numbers are kept as is.
func FormatNumber(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, numberPadding, n)
}
