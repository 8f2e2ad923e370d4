// Package financial reports invoice totals over a period.
package financial

import (
	"context"
	"fmt"
	"time"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/auth"
	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/logger"
	"billcraft-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Summarizer interface {
	MonthlySummary(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]store.CurrencySummary, error)
}

type CurrencyBlock struct {
	store.CurrencySummary
	FormattedTotal string `json:"formatted_total"`
}

type MonthlySummaryResponse struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Count      int64           `json:"count"`
	Currencies []CurrencyBlock `json:"currencies"`
}

// -----------------------------------
// GET /api/invoices/summary/monthly
// ?year=2025&month=12
// Para birimleri ayrı toplanır, çevrim yapılmaz.
// -----------------------------------
func MonthlySummaryHandler(invoices Summarizer, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(c *fiber.Ctx) error {
		owner, err := auth.OwnerID(c)
		if err != nil {
			return err
		}
		l := apierror.Locale(c)

		now := time.Now().In(loc)
		year, month := now.Year(), int(now.Month())
		if s := c.Query("year"); s != "" {
			if _, err := fmt.Sscan(s, &year); err != nil || year < 2000 {
				return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidDate)
			}
		}
		if s := c.Query("month"); s != "" {
			if _, err := fmt.Sscan(s, &month); err != nil || month < 1 || month > 12 {
				return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidDate)
			}
		}

		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		to := from.AddDate(0, 1, 0)

		rows, err := invoices.MonthlySummary(c.UserContext(), owner, from, to)
		if err != nil {
			lg := logger.WithComponent("financial")
			lg.Error().Err(err).Str("owner_id", owner.String()).Msg("aylık özet alınamadı")
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrLoadFailed)
		}

		resp := MonthlySummaryResponse{Year: year, Month: month, Currencies: make([]CurrencyBlock, 0, len(rows))}
		for _, r := range rows {
			resp.Count += r.Count
			resp.Currencies = append(resp.Currencies, CurrencyBlock{
				CurrencySummary: r,
				FormattedTotal:  billing.FormatMoney(r.Total, r.Currency),
			})
		}
		return c.JSON(resp)
	}
}
