package financial

import (
	"context"
	"fmt"
	"slices"
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

type Charter interface {
	TotalsByPeriod(ctx context.Context, owner uuid.UUID, period store.Period, from, to time.Time, loc *time.Location) ([]store.BucketTotal, error)
}

type CurrencyAmount struct {
	Currency  billing.Currency `json:"currency"`
	Count     int64            `json:"count"`
	Total     float64          `json:"total"`
	Formatted string           `json:"formatted"`
}

type ChartPoint struct {
	Label  string           `json:"label"` // gün / hafta başı / ay başı
	Totals []CurrencyAmount `json:"totals"`
}

type ChartResponse struct {
	Period      store.Period     `json:"period"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	Points      []ChartPoint     `json:"points"`
	GrandTotals []CurrencyAmount `json:"grand_totals"`
}

// chartRange returns [start, end) for count buckets ending with the one
// that contains now.
func chartRange(period store.Period, count int, now time.Time) (time.Time, time.Time) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	switch period {
	case store.PeriodWeekly:
		// haftalar pazartesi başlar
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return monday.AddDate(0, 0, -7*(count-1)), monday.AddDate(0, 0, 7)
	case store.PeriodMonthly:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return first.AddDate(0, -(count - 1), 0), first.AddDate(0, 1, 0)
	default:
		return today.AddDate(0, 0, -(count - 1)), today.AddDate(0, 0, 1)
	}
}

// -----------------------------------
// GET /api/invoices/summary/chart?period=daily&count=7
// -----------------------------------
func ChartHandler(invoices Charter, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(c *fiber.Ctx) error {
		owner, err := auth.OwnerID(c)
		if err != nil {
			return err
		}
		l := apierror.Locale(c)

		period := store.Period(c.Query("period", string(store.PeriodDaily)))
		var count int
		switch period {
		case store.PeriodWeekly:
			count = 8
		case store.PeriodMonthly:
			count = 12
		case store.PeriodDaily:
			count = 7
		default:
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
		}
		if s := c.Query("count"); s != "" {
			if _, err := fmt.Sscan(s, &count); err != nil || count <= 0 || count > 366 {
				return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
			}
		}

		start, end := chartRange(period, count, time.Now().In(loc))
		rows, err := invoices.TotalsByPeriod(c.UserContext(), owner, period, start, end, loc)
		if err != nil {
			lg := logger.WithComponent("financial")
			lg.Error().Err(err).Str("owner_id", owner.String()).Msg("grafik verisi alınamadı")
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrLoadFailed)
		}

		return c.JSON(buildChart(period, start, end, rows, loc))
	}
}

func buildChart(period store.Period, start, end time.Time, rows []store.BucketTotal, loc *time.Location) ChartResponse {
	resp := ChartResponse{
		Period: period,
		From:   start.Format(billing.DateLayout),
		To:     end.AddDate(0, 0, -1).Format(billing.DateLayout),
		Points: []ChartPoint{},
	}

	grand := map[billing.Currency]*CurrencyAmount{}
	byLabel := map[string]int{}
	for _, r := range rows {
		label := r.Bucket.In(loc).Format(billing.DateLayout)
		i, ok := byLabel[label]
		if !ok {
			i = len(resp.Points)
			byLabel[label] = i
			resp.Points = append(resp.Points, ChartPoint{Label: label})
		}
		resp.Points[i].Totals = append(resp.Points[i].Totals, amount(r.Currency, r.Count, r.Total))

		g, ok := grand[r.Currency]
		if !ok {
			g = &CurrencyAmount{Currency: r.Currency}
			grand[r.Currency] = g
		}
		g.Count += r.Count
		g.Total += r.Total
	}

	// tarih sıralaması
	slices.SortFunc(resp.Points, func(a, b ChartPoint) int {
		switch {
		case a.Label < b.Label:
			return -1
		case a.Label > b.Label:
			return 1
		}
		return 0
	})

	resp.GrandTotals = make([]CurrencyAmount, 0, len(grand))
	for _, cur := range billing.Currencies {
		if g, ok := grand[cur]; ok {
			resp.GrandTotals = append(resp.GrandTotals, amount(cur, g.Count, g.Total))
		}
	}
	return resp
}

func amount(cur billing.Currency, count int64, total float64) CurrencyAmount {
	return CurrencyAmount{Currency: cur, Count: count, Total: total, Formatted: billing.FormatMoney(total, cur)}
}
