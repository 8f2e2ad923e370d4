package store

import (
	"context"

	"billcraft-backend/internal/live"
	"billcraft-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, owner, id uuid.UUID) (*models.Client, error)
	Restore(ctx context.Context, c *models.Client) error
	FindByID(ctx context.Context, owner, id uuid.UUID) (*models.Client, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Client, error)
}

type clientRepo struct {
	db *gorm.DB
	notifier
}

func NewClientRepository(db *gorm.DB, pub live.Publisher) ClientRepository {
	return &clientRepo{db: db, notifier: newNotifier(pub)}
}

func (r *clientRepo) Create(ctx context.Context, c *models.Client) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	r.changed(ctx, live.Clients, c.OwnerID)
	return nil
}

// Delete never touches invoices; they carry their own copy of the client.
func (r *clientRepo) Delete(ctx context.Context, owner, id uuid.UUID) (*models.Client, error) {
	var c models.Client
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&c)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	r.changed(ctx, live.Clients, owner)
	return &c, nil
}

func (r *clientRepo) Restore(ctx context.Context, c *models.Client) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	r.changed(ctx, live.Clients, c.OwnerID)
	return nil
}

func (r *clientRepo) FindByID(ctx context.Context, owner, id uuid.UUID) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *clientRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Client, error) {
	var list []models.Client
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}
