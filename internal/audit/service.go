package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/models"
	"billcraft-backend/internal/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrLogNotFound   = errors.New("log bulunamadı")
	ErrAlreadyUndone = errors.New("bu işlem zaten geri alınmış")
	ErrNotUndoable   = errors.New("bu işlem türü geri alınamaz")
)

type LogOptions struct {
	OwnerID     uuid.UUID
	EntityType  string
	EntityID    uuid.UUID
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

type Filter struct {
	EntityType string
	EntityID   *uuid.UUID
	Limit      int
}

type Service struct {
	db       *gorm.DB
	invoices store.InvoiceRepository
	clients  store.ClientRepository
}

func NewService(db *gorm.DB, invoices store.InvoiceRepository, clients store.ClientRepository) *Service {
	return &Service{db: db, invoices: invoices, clients: clients}
}

func (s *Service) WriteLog(ctx context.Context, opts LogOptions) error {
	log := models.AuditLog{
		OwnerID:     opts.OwnerID,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  toJSON(opts.Before),
		AfterData:   toJSON(opts.After),
	}
	if err := s.db.WithContext(ctx).Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

// PostgreSQL jsonb için boş değer yerine "null" yazılır
func toJSON(v any) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

// List returns the owner's logs, newest first.
func (s *Service) List(ctx context.Context, owner uuid.UUID, f Filter) ([]models.AuditLog, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("owner_id = ?", owner)
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []models.AuditLog
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// UndoLog reverts one logged change and records the undo itself.
func (s *Service) UndoLog(ctx context.Context, owner uuid.UUID, logID uint) error {
	var log models.AuditLog
	if err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", logID, owner).First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLogNotFound
		}
		return err
	}
	if log.IsUndone {
		return ErrAlreadyUndone
	}

	var err error
	switch log.Action {
	case models.AuditActionCreate:
		// Create ise entity'yi sil
		err = s.deleteEntity(ctx, log)
	case models.AuditActionUpdate:
		// Update ise önceki haline geri döndür
		err = s.restoreEntity(ctx, log)
	case models.AuditActionDelete:
		// Delete ise entity'yi geri oluştur
		err = s.recreateEntity(ctx, log)
	default:
		return ErrNotUndoable
	}
	if err != nil {
		return err
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&log).Updates(map[string]any{
		"is_undone": true,
		"undone_at": now,
	}).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	return s.WriteLog(ctx, LogOptions{
		OwnerID:     owner,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		Before:      json.RawMessage(log.AfterData),
		After:       json.RawMessage(log.BeforeData),
	})
}

func (s *Service) deleteEntity(ctx context.Context, log models.AuditLog) error {
	var err error
	switch log.EntityType {
	case models.EntityInvoice:
		_, err = s.invoices.Delete(ctx, log.OwnerID, log.EntityID)
	case models.EntityClient:
		_, err = s.clients.Delete(ctx, log.OwnerID, log.EntityID)
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", log.EntityType)
	}
	if errors.Is(err, store.ErrNotFound) {
		// zaten silinmiş
		return nil
	}
	return err
}

func (s *Service) restoreEntity(ctx context.Context, log models.AuditLog) error {
	if log.EntityType != models.EntityInvoice {
		return ErrNotUndoable
	}
	var before models.Invoice
	if err := json.Unmarshal(log.BeforeData, &before); err != nil {
		return fmt.Errorf("önceki hal okunamadı: %w", err)
	}
	totals := billing.Totals{Subtotal: before.Subtotal, TaxAmount: before.TaxAmount, Total: before.Total}
	_, err := s.invoices.Overwrite(ctx, log.OwnerID, log.EntityID, before.Document.Data(), before.Items, totals)
	return err
}

func (s *Service) recreateEntity(ctx context.Context, log models.AuditLog) error {
	switch log.EntityType {
	case models.EntityInvoice:
		var inv models.Invoice
		if err := json.Unmarshal(log.BeforeData, &inv); err != nil {
			return fmt.Errorf("silinen fatura okunamadı: %w", err)
		}
		inv.OwnerID = log.OwnerID
		return s.invoices.Restore(ctx, &inv)
	case models.EntityClient:
		var c models.Client
		if err := json.Unmarshal(log.BeforeData, &c); err != nil {
			return fmt.Errorf("silinen müşteri okunamadı: %w", err)
		}
		c.OwnerID = log.OwnerID
		return s.clients.Restore(ctx, &c)
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", log.EntityType)
	}
}
