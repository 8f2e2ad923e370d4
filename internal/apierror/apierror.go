// Package apierror turns domain errors into localized fiber errors and
// carries the request locale.
package apierror

import (
	"errors"

	"billcraft-backend/internal/audit"
	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/export"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const localeKey = "locale"

var validate = validator.New()

type rule struct {
	target error
	status int
	key    i18n.Key
}

var rules = []rule{
	// doğrulama
	{billing.ErrClientNameRequired, fiber.StatusBadRequest, i18n.ErrClientNameRequired},
	{billing.ErrNegativeQuantity, fiber.StatusBadRequest, i18n.ErrNegativeQuantity},
	{billing.ErrNegativePrice, fiber.StatusBadRequest, i18n.ErrNegativePrice},
	{billing.ErrNegativeTaxRate, fiber.StatusBadRequest, i18n.ErrNegativeTaxRate},
	{billing.ErrUnknownCurrency, fiber.StatusBadRequest, i18n.ErrUnknownCurrency},
	{billing.ErrInvalidDate, fiber.StatusBadRequest, i18n.ErrInvalidDate},
	{billing.ErrInvalidLogo, fiber.StatusBadRequest, i18n.ErrInvalidLogo},
	{billing.ErrItemIDRequired, fiber.StatusBadRequest, i18n.ErrInvalidInput},
	{billing.ErrDuplicateItemID, fiber.StatusBadRequest, i18n.ErrDuplicateItem},
	{billing.ErrInvalidNumberConfig, fiber.StatusBadRequest, i18n.ErrInvalidNumberConfig},
	{billing.ErrInvalidAmount, fiber.StatusBadRequest, i18n.ErrInvalidAmount},
	{export.ErrUnreadableWorkbook, fiber.StatusBadRequest, i18n.ErrImportFailed},
	{export.ErrEmptyWorkbook, fiber.StatusBadRequest, i18n.ErrImportFailed},

	// bulunamadı
	{billing.ErrItemNotFound, fiber.StatusNotFound, i18n.ErrItemNotFound},
	{editor.ErrNoSuchInvoice, fiber.StatusNotFound, i18n.ErrInvoiceNotFound},
	{editor.ErrNoSuchClient, fiber.StatusNotFound, i18n.ErrClientNotFound},
	{audit.ErrLogNotFound, fiber.StatusNotFound, i18n.ErrLoadFailed},
	{store.ErrNotFound, fiber.StatusNotFound, i18n.ErrLoadFailed},

	// çakışma
	{editor.ErrNotConfirmed, fiber.StatusConflict, i18n.ErrNotConfirmed},
	{editor.ErrInvoiceGone, fiber.StatusConflict, i18n.ErrInvoiceGone},
	{audit.ErrAlreadyUndone, fiber.StatusConflict, i18n.ErrAlreadyUndone},
	{audit.ErrNotUndoable, fiber.StatusConflict, i18n.ErrInvalidInput},

	// arka uç hataları
	{editor.ErrSaveFailed, fiber.StatusInternalServerError, i18n.ErrInvoiceSaveFailed},
	{editor.ErrNumberUnavailable, fiber.StatusServiceUnavailable, i18n.ErrInvoiceSaveFailed},
	{editor.ErrDeleteFailed, fiber.StatusInternalServerError, i18n.ErrInvoiceDeleteFailed},
	{editor.ErrClientSaveFailed, fiber.StatusInternalServerError, i18n.ErrClientSaveFailed},
	{editor.ErrClientDeleteFailed, fiber.StatusInternalServerError, i18n.ErrClientDeleteFailed},
	{editor.ErrLoadFailed, fiber.StatusInternalServerError, i18n.ErrLoadFailed},
	{editor.ErrSessionClosed, fiber.StatusServiceUnavailable, i18n.ErrLoadFailed},
}

// From maps err to a fiber error with a message in locale l. A *fiber.Error
// passes through unchanged; anything unknown becomes a 500.
func From(err error, l i18n.Locale) *fiber.Error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return fiber.NewError(fiber.StatusBadRequest, i18n.T(l, i18n.ErrInvalidInput))
	}
	for _, r := range rules {
		if errors.Is(err, r.target) {
			return fiber.NewError(r.status, i18n.T(l, r.key))
		}
	}
	return fiber.NewError(fiber.StatusInternalServerError, i18n.T(l, i18n.ErrInternal))
}

// New builds a fiber error from a message key.
func New(status int, l i18n.Locale, key i18n.Key) *fiber.Error {
	return fiber.NewError(status, i18n.T(l, key))
}

// Notice is the response fragment for a user-facing notice.
func Notice(l i18n.Locale, key i18n.Key) fiber.Map {
	return fiber.Map{
		"notice":     i18n.T(l, key),
		"notice_key": key.String(),
	}
}

// Localize stores the request locale, taken from Accept-Language.
func Localize(fallback i18n.Locale) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localeKey, i18n.Match(c.Get(fiber.HeaderAcceptLanguage), "", fallback))
		return c.Next()
	}
}

// Locale returns the locale stored by Localize, or English.
func Locale(c *fiber.Ctx) i18n.Locale {
	if l, ok := c.Locals(localeKey).(i18n.Locale); ok {
		return l
	}
	return i18n.EN
}

// SetLocale overrides the request locale, e.g. with the owner's profile
// language.
func SetLocale(c *fiber.Ctx, l i18n.Locale) {
	c.Locals(localeKey, l)
}

// Bind parses the JSON body into req and checks its validate tags.
func Bind(c *fiber.Ctx, req any) error {
	l := Locale(c)
	if err := c.BodyParser(req); err != nil {
		if billing.IsValidation(err) {
			return From(err, l)
		}
		return New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
	}
	if err := validate.Struct(req); err != nil {
		return From(err, l)
	}
	return nil
}
