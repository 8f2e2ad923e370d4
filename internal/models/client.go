package models

import (
	"time"

	"billcraft-backend/internal/billing"

	"github.com/google/uuid"
)

// Client: müşteri rehberi kaydı. Faturalar müşteriyi kopya olarak taşır,
// silmek faturaları etkilemez.
type Client struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_clients_owner_created,priority:1" json:"owner_id"`
	Name    string    `gorm:"size:255;not null" json:"name"`
	Email   string    `gorm:"size:255" json:"email"`
	Address string    `gorm:"type:text" json:"address"`

	CreatedAt time.Time `gorm:"not null;default:now();autoCreateTime:false;index:idx_clients_owner_created,priority:2,sort:desc" json:"created_at"`
}

func (c *Client) Party() billing.Party {
	return billing.Party{Name: c.Name, Email: c.Email, Address: c.Address}
}
