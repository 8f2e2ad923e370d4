// Package editortest provides in-memory stores for exercising editor
// sessions from handler tests.
package editortest

import (
	"context"
	"slices"
	"sync"
	"time"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/live"
	"billcraft-backend/internal/models"
	"billcraft-backend/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// Memory keeps invoices, clients and profiles for any number of owners and
// publishes changes on Feed like the gorm repositories do.
type Memory struct {
	Feed *live.MemoryFeed

	mu       sync.Mutex
	now      time.Time
	invoices map[uuid.UUID]models.Invoice
	clients  map[uuid.UUID]models.Client
	profiles map[uuid.UUID]models.Profile
}

func New() *Memory {
	return &Memory{
		Feed:     live.NewMemoryFeed(),
		now:      time.Date(2024, 3, 30, 9, 0, 0, 0, time.UTC),
		invoices: map[uuid.UUID]models.Invoice{},
		clients:  map[uuid.UUID]models.Client{},
		profiles: map[uuid.UUID]models.Profile{},
	}
}

// Now advances a fake clock by one second per call.
func (m *Memory) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *Memory) Invoices() InvoiceStore { return InvoiceStore{m} }
func (m *Memory) Clients() ClientStore   { return ClientStore{m} }
func (m *Memory) Profiles() ProfileStore { return ProfileStore{m} }

func (m *Memory) Deps() editor.Deps {
	return editor.Deps{
		Invoices: m.Invoices(),
		Clients:  m.Clients(),
		Profiles: m.Profiles(),
		Feed:     m.Feed,
		Now:      m.Now,
		Log:      zerolog.Nop(),
	}
}

// Registry returns a registry over m that is closed when the test ends.
func (m *Memory) Registry(cleanup func(func())) *editor.Registry {
	r := editor.NewRegistry(m.Deps(), i18n.EN)
	cleanup(r.Close)
	return r
}

// PutProfile stores p as is.
func (m *Memory) PutProfile(p models.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.OwnerID] = p
}

// ── invoices ─────────────────────────────────────────────────────────────────

type InvoiceStore struct{ m *Memory }

func (s InvoiceStore) Create(ctx context.Context, inv *models.Invoice) error {
	inv.ID = uuid.New()
	inv.CreatedAt = s.m.Now()
	s.m.mu.Lock()
	s.m.invoices[inv.ID] = *inv
	s.m.mu.Unlock()
	return s.m.Feed.Publish(ctx, live.Invoices, inv.OwnerID)
}

func (s InvoiceStore) Overwrite(ctx context.Context, owner, id uuid.UUID, doc billing.Document, items []billing.LineItem, totals billing.Totals) (*models.Invoice, error) {
	s.m.mu.Lock()
	before, ok := s.m.invoices[id]
	if !ok || before.OwnerID != owner {
		s.m.mu.Unlock()
		return nil, store.ErrNotFound
	}
	after := before
	after.Document = datatypes.NewJSONType(doc)
	after.Items = datatypes.NewJSONSlice(slices.Clone(items))
	after.Subtotal, after.TaxAmount, after.Total = totals.Subtotal, totals.TaxAmount, totals.Total
	s.m.invoices[id] = after
	s.m.mu.Unlock()
	return &before, s.m.Feed.Publish(ctx, live.Invoices, owner)
}

func (s InvoiceStore) Delete(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error) {
	s.m.mu.Lock()
	inv, ok := s.m.invoices[id]
	if !ok || inv.OwnerID != owner {
		s.m.mu.Unlock()
		return nil, store.ErrNotFound
	}
	delete(s.m.invoices, id)
	s.m.mu.Unlock()
	return &inv, s.m.Feed.Publish(ctx, live.Invoices, owner)
}

func (s InvoiceStore) FindByID(_ context.Context, owner, id uuid.UUID) (*models.Invoice, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	inv, ok := s.m.invoices[id]
	if !ok || inv.OwnerID != owner {
		return nil, store.ErrNotFound
	}
	return &inv, nil
}

func (s InvoiceStore) ListByOwner(_ context.Context, owner uuid.UUID) ([]models.Invoice, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Invoice
	for _, inv := range s.m.invoices {
		if inv.OwnerID == owner {
			out = append(out, inv)
		}
	}
	slices.SortFunc(out, func(a, b models.Invoice) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

// ── clients ──────────────────────────────────────────────────────────────────

type ClientStore struct{ m *Memory }

func (s ClientStore) Create(ctx context.Context, c *models.Client) error {
	c.ID = uuid.New()
	c.CreatedAt = s.m.Now()
	s.m.mu.Lock()
	s.m.clients[c.ID] = *c
	s.m.mu.Unlock()
	return s.m.Feed.Publish(ctx, live.Clients, c.OwnerID)
}

func (s ClientStore) Delete(ctx context.Context, owner, id uuid.UUID) (*models.Client, error) {
	s.m.mu.Lock()
	c, ok := s.m.clients[id]
	if !ok || c.OwnerID != owner {
		s.m.mu.Unlock()
		return nil, store.ErrNotFound
	}
	delete(s.m.clients, id)
	s.m.mu.Unlock()
	return &c, s.m.Feed.Publish(ctx, live.Clients, owner)
}

func (s ClientStore) FindByID(_ context.Context, owner, id uuid.UUID) (*models.Client, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.clients[id]
	if !ok || c.OwnerID != owner {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s ClientStore) ListByOwner(_ context.Context, owner uuid.UUID) ([]models.Client, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Client
	for _, c := range s.m.clients {
		if c.OwnerID == owner {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Client) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

// ── profiles ─────────────────────────────────────────────────────────────────

type ProfileStore struct{ m *Memory }

func (s ProfileStore) Get(_ context.Context, owner uuid.UUID) (*models.Profile, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.profiles[owner]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s ProfileStore) Merge(_ context.Context, owner uuid.UUID, patch store.ProfilePatch) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p := s.m.profiles[owner]
	p.OwnerID = owner
	if patch.Sender != nil {
		p.Sender = datatypes.NewJSONType(*patch.Sender)
	}
	if patch.DefaultCurrency != nil {
		cur := string(*patch.DefaultCurrency)
		p.DefaultCurrency = &cur
	}
	if patch.DefaultTaxRate != nil {
		v := *patch.DefaultTaxRate
		p.DefaultTaxRate = &v
	}
	if patch.SetLogo {
		p.LogoDataURL = patch.LogoDataURL
	}
	if patch.InvoicePrefix != nil {
		v := *patch.InvoicePrefix
		p.InvoicePrefix = &v
	}
	if patch.NextInvoiceNumber != nil {
		v := *patch.NextInvoiceNumber
		p.NextInvoiceNumber = &v
	}
	if patch.Language != nil {
		v := *patch.Language
		p.Language = &v
	}
	s.m.profiles[owner] = p
	return nil
}

func (s ProfileStore) ReserveInvoiceNumber(_ context.Context, owner uuid.UUID) (billing.NumberConfig, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p := s.m.profiles[owner]
	p.OwnerID = owner
	cfg := p.NumberConfig()
	next := cfg.Next + 1
	p.InvoicePrefix = &cfg.Prefix
	p.NextInvoiceNumber = &next
	s.m.profiles[owner] = p
	return cfg, nil
}
