package store

import (
	"context"
	"time"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/live"
	"billcraft-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv *models.Invoice) error
	Overwrite(ctx context.Context, owner, id uuid.UUID, doc billing.Document, items []billing.LineItem, totals billing.Totals) (*models.Invoice, error)
	Delete(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error)
	Restore(ctx context.Context, inv *models.Invoice) error
	FindByID(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Invoice, error)
	MonthlySummary(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]CurrencySummary, error)
	TotalsByPeriod(ctx context.Context, owner uuid.UUID, period Period, from, to time.Time, loc *time.Location) ([]BucketTotal, error)
}

type invoiceRepo struct {
	db *gorm.DB
	notifier
}

func NewInvoiceRepository(db *gorm.DB, pub live.Publisher) InvoiceRepository {
	return &invoiceRepo{db: db, notifier: newNotifier(pub)}
}

// NewInvoice builds the row for a first save. ID and CreatedAt are left for
// the database to fill.
func NewInvoice(owner uuid.UUID, draft billing.Draft) *models.Invoice {
	t := draft.Totals()
	return &models.Invoice{
		OwnerID:   owner,
		Document:  datatypes.NewJSONType(draft.Invoice),
		Items:     datatypes.NewJSONSlice(draft.Items),
		Subtotal:  t.Subtotal,
		TaxAmount: t.TaxAmount,
		Total:     t.Total,
	}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return err
	}
	r.changed(ctx, live.Invoices, inv.OwnerID)
	return nil
}

// Overwrite replaces document, items and totals of an existing invoice and
// returns the row as it was before.
func (r *invoiceRepo) Overwrite(ctx context.Context, owner, id uuid.UUID, doc billing.Document, items []billing.LineItem, totals billing.Totals) (*models.Invoice, error) {
	var before models.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND owner_id = ?", id, owner).
			First(&before).Error; err != nil {
			return notFound(err)
		}
		return tx.Model(&models.Invoice{}).
			Where("id = ? AND owner_id = ?", id, owner).
			Updates(map[string]any{
				"document":   datatypes.NewJSONType(doc),
				"items":      datatypes.NewJSONSlice(items),
				"subtotal":   totals.Subtotal,
				"tax_amount": totals.TaxAmount,
				"total":      totals.Total,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	r.changed(ctx, live.Invoices, owner)
	return &before, nil
}

// Delete removes the invoice and returns the deleted row.
func (r *invoiceRepo) Delete(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&inv)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	r.changed(ctx, live.Invoices, owner)
	return &inv, nil
}

// Restore inserts a previously deleted invoice with its original id and
// creation time.
func (r *invoiceRepo) Restore(ctx context.Context, inv *models.Invoice) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return err
	}
	r.changed(ctx, live.Invoices, inv.OwnerID)
	return nil
}

func (r *invoiceRepo) FindByID(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).First(&inv).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &inv, nil
}

// ListByOwner returns the owner's invoices newest first; equal timestamps
// are ordered by id so the order is stable.
func (r *invoiceRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Invoice, error) {
	var list []models.Invoice
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// -----------------------------------
// Aylık özet
// -----------------------------------

type CurrencySummary struct {
	Currency  billing.Currency `json:"currency"`
	Count     int64            `json:"count"`
	Subtotal  float64          `json:"subtotal"`
	TaxAmount float64          `json:"tax_amount"`
	Total     float64          `json:"total"`
}

// MonthlySummary groups invoices created in [from, to) by currency.
func (r *invoiceRepo) MonthlySummary(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]CurrencySummary, error) {
	type row struct {
		Currency  string  `gorm:"column:currency"`
		Count     int64   `gorm:"column:count"`
		Subtotal  float64 `gorm:"column:subtotal"`
		TaxAmount float64 `gorm:"column:tax_amount"`
		Total     float64 `gorm:"column:total"`
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("document->>'currency' AS currency, COUNT(*) AS count, " +
			"COALESCE(SUM(subtotal), 0) AS subtotal, COALESCE(SUM(tax_amount), 0) AS tax_amount, COALESCE(SUM(total), 0) AS total").
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", owner, from, to).
		Group("document->>'currency'").
		Order("currency").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]CurrencySummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, CurrencySummary{
			Currency:  billing.Currency(r.Currency),
			Count:     r.Count,
			Subtotal:  r.Subtotal,
			TaxAmount: r.TaxAmount,
			Total:     r.Total,
		})
	}
	return out, nil
}

// -----------------------------------
// Grafik verisi
// -----------------------------------

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func (p Period) truncUnit() string {
	switch p {
	case PeriodWeekly:
		return "week"
	case PeriodMonthly:
		return "month"
	default:
		return "day"
	}
}

// BucketTotal is the invoice total of one currency within one period bucket.
type BucketTotal struct {
	Bucket   time.Time
	Currency billing.Currency
	Count    int64
	Total    float64
}

// TotalsByPeriod buckets invoices created in [from, to) by day, week or
// month and currency, oldest bucket first. Bucket boundaries follow loc, not
// the database session time zone; loc must be UTC or a named zone.
func (r *invoiceRepo) TotalsByPeriod(ctx context.Context, owner uuid.UUID, period Period, from, to time.Time, loc *time.Location) ([]BucketTotal, error) {
	if loc == nil {
		loc = time.UTC
	}
	type row struct {
		Bucket   time.Time `gorm:"column:bucket"`
		Currency string    `gorm:"column:currency"`
		Count    int64     `gorm:"column:count"`
		Total    float64   `gorm:"column:total"`
	}
	var rows []row

	sql := `
		SELECT date_trunc(?::text, created_at AT TIME ZONE ?::text) AT TIME ZONE ?::text AS bucket,
			   document->>'currency' AS currency,
			   COUNT(*) AS count,
			   COALESCE(SUM(total), 0) AS total
		FROM invoices
		WHERE owner_id = ? AND created_at >= ? AND created_at < ?
		GROUP BY 1, 2
		ORDER BY 1 ASC, 2 ASC;
	`
	if err := r.db.WithContext(ctx).Raw(sql, period.truncUnit(), zoneName(loc), zoneName(loc), owner, from, to).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]BucketTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, BucketTotal{
			Bucket:   r.Bucket.In(loc),
			Currency: billing.Currency(r.Currency),
			Count:    r.Count,
			Total:    r.Total,
		})
	}
	return out, nil
}

func zoneName(loc *time.Location) string {
	if loc == nil || loc.String() == "Local" {
		return "UTC"
	}
	return loc.String()
}
