package editor

import (
	"context"
	"testing"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveClient_AddsNormalized(t *testing.T) {
	h := newHarness(t)
	s := h.open(t)
	require.NoError(t, s.Edit(billing.SetClient(billing.Party{Name: "  Acme Ltd ", Email: " Billing@Acme.COM", Address: "İstanbul"})))

	notice, err := s.SaveClient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, i18n.NoticeClientSaved, notice)

	list := s.Clients()
	require.Len(t, list, 1)
	assert.Equal(t, "Acme Ltd", list[0].Name)
	assert.Equal(t, "billing@acme.com", list[0].Email)
	assert.Equal(t, []models.AuditAction{models.AuditActionCreate}, h.audit.actions())
}

func TestSaveClient_DuplicateIsNotAnError(t *testing.T) {
	h := newHarness(t)
	s := h.open(t)
	ctx := context.Background()
	require.NoError(t, s.Edit(billing.SetClient(billing.Party{Name: "Acme", Email: "billing@acme.com"})))
	_, err := s.SaveClient(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Edit(billing.SetClient(billing.Party{Name: " ACME ", Email: "Billing@Acme.com", Address: "elsewhere"})))
	notice, err := s.SaveClient(ctx)

	require.NoError(t, err)
	assert.Equal(t, i18n.NoticeClientExists, notice)
	assert.Equal(t, 1, h.clients.creates)
}

func TestSaveClient_SameNameOtherEmail(t *testing.T) {
	h := newHarness(t)
	s := h.open(t)
	ctx := context.Background()
	require.NoError(t, s.Edit(billing.SetClient(billing.Party{Name: "Acme", Email: "a@acme.com"})))
	_, err := s.SaveClient(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Edit(billing.SetClient(billing.Party{Name: "Acme", Email: "b@acme.com"})))
	notice, err := s.SaveClient(ctx)

	require.NoError(t, err)
	assert.Equal(t, i18n.NoticeClientSaved, notice)
	assert.Equal(t, 2, h.clients.creates)
}

func TestSaveClient_NameRequired(t *testing.T) {
	h := newHarness(t)
	s := h.open(t)
	require.NoError(t, s.Edit(billing.SetClient(billing.Party{Name: "   ", Email: "x@y.z"})))

	_, err := s.SaveClient(context.Background())

	assert.ErrorIs(t, err, billing.ErrClientNameRequired)
	assert.Equal(t, 0, h.clients.creates)
}

func TestSaveClient_BackendFailure(t *testing.T) {
	h := newHarness(t)
	s := h.open(t)
	h.clients.failOn["create"] = errBackend
	require.NoError(t, s.Edit(billing.SetClient(billing.Party{Name: "Acme"})))

	_, err := s.SaveClient(context.Background())

	assert.ErrorIs(t, err, ErrClientSaveFailed)
	assert.Empty(t, s.Clients())
}

func TestSelectClient_CopiesIntoDraft(t *testing.T) {
	h := newHarness(t)
	s := h.open(t)
	ctx := context.Background()
	c := &models.Client{OwnerID: h.owner, Name: "Globex", Email: "ap@globex.com", Address: "Ankara"}
	require.NoError(t, h.clients.Create(ctx, c))
	_, err := s.AddItem("Consulting", 2, 750)
	require.NoError(t, err)
	before := s.Draft()

	notice, err := s.SelectClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, i18n.NoticeClientSelected, notice)

	after := s.Draft()
	assert.Equal(t, billing.Party{Name: "Globex", Email: "ap@globex.com", Address: "Ankara"}, after.Invoice.Client)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Invoice.Number, after.Invoice.Number)
	assert.Equal(t, before.Invoice.Sender, after.Invoice.Sender)
}

func TestSelectClient_Unknown(t *testing.T) {
	h := newHarness(t)
	s := h.open(t)

	_, err := s.SelectClient(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoSuchClient)
}

func TestDeleteClient_KeepsInvoices(t *testing.T) {
	h := newHarness(t)
	s := h.open(t)
	ctx := context.Background()
	require.NoError(t, s.Edit(billing.SetClient(billing.Party{Name: "Acme", Email: "billing@acme.com"})))
	_, err := s.SaveClient(ctx)
	require.NoError(t, err)
	_, err = s.Save(ctx)
	require.NoError(t, err)
	id := s.Clients()[0].ID

	_, err = s.DeleteClient(ctx, id, Confirmed(false))
	assert.ErrorIs(t, err, ErrNotConfirmed)

	notice, err := s.DeleteClient(ctx, id, Confirmed(true))
	require.NoError(t, err)
	assert.Equal(t, i18n.NoticeClientDeleted, notice)

	waitFor(t, func() bool { return len(s.Clients()) == 0 })
	invoices := s.Invoices()
	require.Len(t, invoices, 1)
	assert.Equal(t, "Acme", invoices[0].Document.Data().Client.Name)
	assert.Equal(t, "Acme", s.Draft().Invoice.Client.Name)

	_, err = s.DeleteClient(ctx, id, Confirmed(true))
	assert.ErrorIs(t, err, ErrNoSuchClient)
}
