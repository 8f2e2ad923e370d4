package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash *string   `gorm:"size:255"` // Google ile girenlerde boş
	// Google hesabının "sub" değeri
	GoogleSubject *string `gorm:"size:255;uniqueIndex"`
	DisplayName   string  `gorm:"size:100"`
	// Çıkışta artar, eski token'lar geçersiz olur
	TokenVersion int `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
