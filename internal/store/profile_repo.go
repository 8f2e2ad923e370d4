package store

import (
	"context"
	"time"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfilePatch lists the profile fields to write; nil fields are left as
// they are. SetLogo distinguishes "clear the logo" from "leave it".
type ProfilePatch struct {
	Sender            *billing.Party
	DefaultCurrency   *billing.Currency
	DefaultTaxRate    *float64
	SetLogo           bool
	LogoDataURL       *string
	InvoicePrefix     *string
	NextInvoiceNumber *int
	Language          *string
}

func (p ProfilePatch) empty() bool {
	return p.Sender == nil && p.DefaultCurrency == nil && p.DefaultTaxRate == nil && !p.SetLogo &&
		p.InvoicePrefix == nil && p.NextInvoiceNumber == nil && p.Language == nil
}

type ProfileRepository interface {
	Get(ctx context.Context, owner uuid.UUID) (*models.Profile, error)
	Merge(ctx context.Context, owner uuid.UUID, patch ProfilePatch) error
	ReserveInvoiceNumber(ctx context.Context, owner uuid.UUID) (billing.NumberConfig, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Get(ctx context.Context, owner uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("owner_id = ?", owner).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Merge upserts only the fields set in patch; other stored fields survive.
func (r *profileRepo) Merge(ctx context.Context, owner uuid.UUID, patch ProfilePatch) error {
	if patch.empty() {
		return nil
	}

	row := models.Profile{OwnerID: owner, Sender: datatypes.NewJSONType(billing.Party{})}
	cols := make([]string, 0, 8)

	if patch.Sender != nil {
		row.Sender = datatypes.NewJSONType(*patch.Sender)
		cols = append(cols, "sender")
	}
	if patch.DefaultCurrency != nil {
		cur := string(*patch.DefaultCurrency)
		row.DefaultCurrency = &cur
		cols = append(cols, "default_currency")
	}
	if patch.DefaultTaxRate != nil {
		row.DefaultTaxRate = patch.DefaultTaxRate
		cols = append(cols, "default_tax_rate")
	}
	if patch.SetLogo {
		row.LogoDataURL = patch.LogoDataURL
		cols = append(cols, "logo_data_url")
	}
	if patch.InvoicePrefix != nil {
		row.InvoicePrefix = patch.InvoicePrefix
		cols = append(cols, "invoice_prefix")
	}
	if patch.NextInvoiceNumber != nil {
		row.NextInvoiceNumber = patch.NextInvoiceNumber
		cols = append(cols, "next_invoice_number")
	}
	if patch.Language != nil {
		row.Language = patch.Language
		cols = append(cols, "language")
	}
	row.UpdatedAt = time.Now()
	cols = append(cols, "updated_at")

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(&row).Error
}

// ReserveInvoiceNumber hands out the owner's next sequence number and
// advances the stored counter in one statement, so concurrent callers never
// receive the same number. The returned config holds the reserved number.
func (r *profileRepo) ReserveInvoiceNumber(ctx context.Context, owner uuid.UUID) (billing.NumberConfig, error) {
	var out struct {
		Prefix   string `gorm:"column:invoice_prefix"`
		Reserved int    `gorm:"column:reserved"`
	}
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO profiles (owner_id, invoice_prefix, next_invoice_number, created_at, updated_at)
		VALUES (?, ?, 2, now(), now())
		ON CONFLICT (owner_id) DO UPDATE SET
			invoice_prefix      = COALESCE(profiles.invoice_prefix, EXCLUDED.invoice_prefix),
			next_invoice_number = GREATEST(COALESCE(profiles.next_invoice_number, 1), 1) + 1,
			updated_at          = now()
		RETURNING invoice_prefix, next_invoice_number - 1 AS reserved
	`, owner, billing.DefaultInvoicePrefix).Scan(&out).Error
	if err != nil {
		return billing.NumberConfig{}, err
	}
	return billing.NumberConfig{Prefix: out.Prefix, Next: out.Reserved}, nil
}
