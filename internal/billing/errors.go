package billing

import "errors"

// Doğrulama hataları. Hepsi kullanıcıya 400 olarak döner, hiçbiri yazma yapmaz.
var (
	ErrClientNameRequired  = errors.New("client name is required")
	ErrNegativeQuantity    = errors.New("quantity must not be negative")
	ErrNegativePrice       = errors.New("price must not be negative")
	ErrNegativeTaxRate     = errors.New("tax rate must not be negative")
	ErrUnknownCurrency     = errors.New("unknown currency")
	ErrInvalidDate         = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidLogo         = errors.New("logo must be a base64 image data URL")
	ErrItemIDRequired      = errors.New("line item id is required")
	ErrDuplicateItemID     = errors.New("line item id already used in this document")
	ErrItemNotFound        = errors.New("line item not found")
	ErrInvalidNumberConfig = errors.New("next invoice number must be at least 1")
	ErrInvalidAmount       = errors.New("amount is not a number")
)

// IsValidation reports whether err is one of the validation errors above.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrClientNameRequired, ErrNegativeQuantity, ErrNegativePrice, ErrNegativeTaxRate,
		ErrUnknownCurrency, ErrInvalidDate, ErrInvalidLogo, ErrItemIDRequired,
		ErrDuplicateItemID, ErrItemNotFound, ErrInvalidNumberConfig, ErrInvalidAmount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
