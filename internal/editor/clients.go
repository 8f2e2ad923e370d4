package editor

import (
	"context"
	"errors"
	"fmt"

	"billcraft-backend/internal/audit"
	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/models"
	"billcraft-backend/internal/store"

	"github.com/google/uuid"
)

// SaveClient adds the draft's client to the directory. A client with the
// same name and email already in the directory is not an error; the notice
// tells the caller nothing was written.
func (s *Session) SaveClient(ctx context.Context) (i18n.Key, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed() {
		return 0, ErrSessionClosed
	}

	s.mu.Lock()
	candidate := s.draft.Invoice.Client
	existing := make([]billing.Party, 0, len(s.clients))
	for i := range s.clients {
		existing = append(existing, s.clients[i].Party())
	}
	s.lastUsed = s.deps.Now()
	s.mu.Unlock()

	party, err := billing.NormalizeClient(candidate)
	if err != nil {
		return 0, err
	}
	if billing.IsDuplicateClient(party, existing) {
		return i18n.NoticeClientExists, nil
	}

	c := &models.Client{OwnerID: s.owner, Name: party.Name, Email: party.Email, Address: party.Address}
	if err := s.deps.Clients.Create(ctx, c); err != nil {
		s.log.Error().Err(err).Str("client", party.Name).Msg("müşteri kaydedilemedi")
		return 0, fmt.Errorf("%w: %v", ErrClientSaveFailed, err)
	}

	// Liste bildirimi gelene kadar yerel listeye ekle
	s.mu.Lock()
	if !containsClient(s.clients, c.ID) {
		s.clients = append([]models.Client{*c}, s.clients...)
	}
	s.mu.Unlock()
	s.broadcast()

	s.audit(ctx, audit.LogOptions{
		EntityType:  models.EntityClient,
		EntityID:    c.ID,
		Action:      models.AuditActionCreate,
		Description: "Müşteri eklendi: " + c.Name,
		After:       c,
	})
	return i18n.NoticeClientSaved, nil
}

func containsClient(list []models.Client, id uuid.UUID) bool {
	for i := range list {
		if list[i].ID == id {
			return true
		}
	}
	return false
}

// SelectClient copies a directory entry into the draft's client fields.
func (s *Session) SelectClient(ctx context.Context, id uuid.UUID) (i18n.Key, error) {
	if s.closed() {
		return 0, ErrSessionClosed
	}
	c := s.findClient(id)
	if c == nil {
		found, err := s.deps.Clients.FindByID(ctx, s.owner, id)
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrNoSuchClient
		}
		if err != nil {
			s.log.Error().Err(err).Str("client_id", id.String()).Msg("müşteri okunamadı")
			return 0, fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		c = found
	}
	if err := s.Edit(billing.SetClient(c.Party())); err != nil {
		return 0, err
	}
	return i18n.NoticeClientSelected, nil
}

func (s *Session) findClient(id uuid.UUID) *models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == id {
			c := s.clients[i]
			return &c
		}
	}
	return nil
}

// DeleteClient removes a directory entry after confirmation. Saved invoices
// keep their own copy of the client and are not touched.
func (s *Session) DeleteClient(ctx context.Context, id uuid.UUID, confirm Confirmer) (i18n.Key, error) {
	if confirm == nil || !confirm.Confirm(i18n.ConfirmDeleteClient) {
		return 0, ErrNotConfirmed
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed() {
		return 0, ErrSessionClosed
	}

	deleted, err := s.deps.Clients.Delete(ctx, s.owner, id)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrNoSuchClient
	}
	if err != nil {
		s.log.Error().Err(err).Str("client_id", id.String()).Msg("müşteri silinemedi")
		return 0, fmt.Errorf("%w: %v", ErrClientDeleteFailed, err)
	}

	s.audit(ctx, audit.LogOptions{
		EntityType:  models.EntityClient,
		EntityID:    id,
		Action:      models.AuditActionDelete,
		Description: "Müşteri silindi: " + deleted.Name,
		Before:      deleted,
	})
	return i18n.NoticeClientDeleted, nil
}
