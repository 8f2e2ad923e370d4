package models

import (
	"time"

	"billcraft-backend/internal/billing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile: kullanıcının varsayılan fatura ayarları (kullanıcı başına tek satır)
type Profile struct {
	OwnerID uuid.UUID `gorm:"type:uuid;primaryKey" json:"owner_id"`

	Sender          datatypes.JSONType[billing.Party] `gorm:"type:jsonb;not null;default:'{}'" json:"sender"`
	DefaultCurrency *string                           `gorm:"size:8" json:"default_currency"`
	DefaultTaxRate  *float64                          `json:"default_tax_rate"`
	LogoDataURL     *string                           `gorm:"type:text" json:"logo_data_url"`

	// Numaralandırma sayacı
	InvoicePrefix     *string `gorm:"size:50" json:"invoice_prefix"`
	NextInvoiceNumber *int    `json:"next_invoice_number"`

	Language *string `gorm:"size:8" json:"language"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NumberConfig returns the stored counter, falling back to the defaults for
// missing fields.
func (p *Profile) NumberConfig() billing.NumberConfig {
	cfg := billing.DefaultNumberConfig()
	if p == nil {
		return cfg
	}
	if p.InvoicePrefix != nil {
		cfg.Prefix = *p.InvoicePrefix
	}
	if p.NextInvoiceNumber != nil && *p.NextInvoiceNumber >= 1 {
		cfg.Next = *p.NextInvoiceNumber
	}
	return cfg
}

// Defaults converts the stored preferences into new-invoice defaults.
func (p *Profile) Defaults() billing.Defaults {
	if p == nil {
		return billing.Defaults{}
	}
	def := billing.Defaults{
		Sender:      p.Sender.Data(),
		TaxRate:     p.DefaultTaxRate,
		LogoDataURL: p.LogoDataURL,
	}
	if p.DefaultCurrency != nil {
		if cur, err := billing.ParseCurrency(*p.DefaultCurrency); err == nil {
			def.Currency = cur
		}
	}
	return def
}

func (p *Profile) LanguageTag() string {
	if p == nil || p.Language == nil {
		return ""
	}
	return *p.Language
}
