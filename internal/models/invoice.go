package models

import (
	"time"

	"billcraft-backend/internal/billing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Invoice: kaydedilmiş fatura. Toplamlar kayıt anında hesaplanıp saklanır,
// düzenlemede her zaman yeniden hesaplanır.
type Invoice struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_invoices_owner_created,priority:1" json:"owner_id"`

	Document datatypes.JSONType[billing.Document]  `gorm:"type:jsonb;not null" json:"invoice"`
	Items    datatypes.JSONSlice[billing.LineItem] `gorm:"type:jsonb;not null" json:"items"`

	Subtotal  float64 `gorm:"not null;default:0" json:"subtotal"`
	TaxAmount float64 `gorm:"not null;default:0" json:"tax_amount"`
	Total     float64 `gorm:"not null;default:0" json:"total"`

	// Sunucu saati (now()), istemci saati kullanılmaz
	CreatedAt time.Time `gorm:"not null;default:now();autoCreateTime:false;index:idx_invoices_owner_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns the stored document as an editable draft.
func (i *Invoice) Snapshot() billing.Draft {
	return billing.FromSnapshot(i.Document.Data(), i.Items)
}
