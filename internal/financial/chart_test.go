package financial

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCharter struct {
	rows     []store.BucketTotal
	period   store.Period
	from, to time.Time
	loc      *time.Location
}

func (f *fakeCharter) TotalsByPeriod(_ context.Context, _ uuid.UUID, p store.Period, from, to time.Time, loc *time.Location) ([]store.BucketTotal, error) {
	f.period, f.from, f.to, f.loc = p, from, to, loc
	return f.rows, nil
}

func TestChartRange(t *testing.T) {
	// 2024-05-15 çarşamba
	now := time.Date(2024, 5, 15, 13, 45, 0, 0, time.UTC)

	start, end := chartRange(store.PeriodDaily, 7, now)
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC), end)

	start, end = chartRange(store.PeriodWeekly, 2, now)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), end)

	start, end = chartRange(store.PeriodMonthly, 3, now)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestBuildChart(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }
	rows := []store.BucketTotal{
		{Bucket: day(14), Currency: billing.CurrencyUSD, Count: 1, Total: 100},
		{Bucket: day(12), Currency: billing.CurrencyTRY, Count: 2, Total: 7800},
		{Bucket: day(14), Currency: billing.CurrencyTRY, Count: 1, Total: 1200},
	}

	got := buildChart(store.PeriodDaily, day(9), day(16), rows, time.UTC)

	assert.Equal(t, "2024-05-09", got.From)
	assert.Equal(t, "2024-05-15", got.To)
	require.Len(t, got.Points, 2)
	assert.Equal(t, "2024-05-12", got.Points[0].Label)
	assert.Equal(t, "2024-05-14", got.Points[1].Label)
	assert.Len(t, got.Points[1].Totals, 2)

	require.Len(t, got.GrandTotals, 2)
	assert.Equal(t, billing.CurrencyTRY, got.GrandTotals[0].Currency)
	assert.EqualValues(t, 3, got.GrandTotals[0].Count)
	assert.Equal(t, "₺9.000,00", got.GrandTotals[0].Formatted)
	assert.Equal(t, "$100,00", got.GrandTotals[1].Formatted)
}

func TestChartHandler(t *testing.T) {
	charter := &fakeCharter{}
	app := newApp(&fakeSummarizer{})
	app.Get("/chart", ChartHandler(charter, time.UTC))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/chart?period=monthly&count=3", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body ChartResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, store.PeriodMonthly, body.Period)
	assert.Empty(t, body.Points)
	assert.Equal(t, store.PeriodMonthly, charter.period)
	assert.Equal(t, 1, charter.from.Day())

	for _, q := range []string{"?period=yearly", "?count=0", "?count=x"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/chart"+q, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestChartHandler_BucketsInReportZone(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	// İstanbul'da 14 Mayıs gece yarısı, UTC'de hâlâ 13 Mayıs
	charter := &fakeCharter{rows: []store.BucketTotal{
		{Bucket: time.Date(2024, 5, 13, 21, 0, 0, 0, time.UTC), Currency: billing.CurrencyTRY, Count: 1, Total: 500},
	}}
	app := newApp(&fakeSummarizer{})
	app.Get("/chart", ChartHandler(charter, istanbul))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/chart?period=daily&count=3", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body ChartResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Same(t, istanbul, charter.loc)
	assert.Equal(t, istanbul, charter.from.Location())
	require.Len(t, body.Points, 1)
	assert.Equal(t, "2024-05-14", body.Points[0].Label)
}
