package store

import (
	"context"
	"strings"

	"billcraft-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleSubject(ctx context.Context, sub string) (*models.User, error)
	LinkGoogle(ctx context.Context, id uuid.UUID, sub string) error
	BumpTokenVersion(ctx context.Context, id uuid.UUID) (int, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) FindByGoogleSubject(ctx context.Context, sub string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("google_subject = ?", sub).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) LinkGoogle(ctx context.Context, id uuid.UUID, sub string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("google_subject", sub).Error
}

// BumpTokenVersion invalidates every token issued so far and returns the new
// version.
func (r *userRepo) BumpTokenVersion(ctx context.Context, id uuid.UUID) (int, error) {
	var version int
	err := r.db.WithContext(ctx).
		Raw("UPDATE users SET token_version = token_version + 1, updated_at = now() WHERE id = ? RETURNING token_version", id).
		Scan(&version).Error
	return version, err
}
