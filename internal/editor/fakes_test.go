package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"billcraft-backend/internal/audit"
	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/live"
	"billcraft-backend/internal/models"
	"billcraft-backend/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var errBackend = errors.New("backend unavailable")

// ── invoices ─────────────────────────────────────────────────────────────────

type fakeInvoices struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]models.Invoice
	feed    *live.MemoryFeed
	clock   func() time.Time
	creates int
	failOn  map[string]error
	// onCreate runs inside Create before the row is stored
	onCreate func()
}

var _ invoiceStore = (*fakeInvoices)(nil)

func newFakeInvoices(feed *live.MemoryFeed, clock func() time.Time) *fakeInvoices {
	return &fakeInvoices{rows: map[uuid.UUID]models.Invoice{}, feed: feed, clock: clock, failOn: map[string]error{}}
}

func (f *fakeInvoices) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[op] = err
}

func (f *fakeInvoices) Create(ctx context.Context, inv *models.Invoice) error {
	if f.onCreate != nil {
		f.onCreate()
	}
	f.mu.Lock()
	if err := f.failOn["create"]; err != nil {
		f.mu.Unlock()
		return err
	}
	inv.ID = uuid.New()
	inv.CreatedAt = f.clock()
	f.rows[inv.ID] = *inv
	f.creates++
	f.mu.Unlock()
	return f.feed.Publish(ctx, live.Invoices, inv.OwnerID)
}

func (f *fakeInvoices) Overwrite(ctx context.Context, owner, id uuid.UUID, doc billing.Document, items []billing.LineItem, totals billing.Totals) (*models.Invoice, error) {
	f.mu.Lock()
	if err := f.failOn["overwrite"]; err != nil {
		f.mu.Unlock()
		return nil, err
	}
	before, ok := f.rows[id]
	if !ok || before.OwnerID != owner {
		f.mu.Unlock()
		return nil, store.ErrNotFound
	}
	after := before
	after.Document = datatypes.NewJSONType(doc)
	after.Items = datatypes.NewJSONSlice(slices.Clone(items))
	after.Subtotal, after.TaxAmount, after.Total = totals.Subtotal, totals.TaxAmount, totals.Total
	f.rows[id] = after
	f.mu.Unlock()
	return &before, f.feed.Publish(ctx, live.Invoices, owner)
}

func (f *fakeInvoices) Delete(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error) {
	f.mu.Lock()
	if err := f.failOn["delete"]; err != nil {
		f.mu.Unlock()
		return nil, err
	}
	inv, ok := f.rows[id]
	if !ok || inv.OwnerID != owner {
		f.mu.Unlock()
		return nil, store.ErrNotFound
	}
	delete(f.rows, id)
	f.mu.Unlock()
	return &inv, f.feed.Publish(ctx, live.Invoices, owner)
}

func (f *fakeInvoices) FindByID(_ context.Context, owner, id uuid.UUID) (*models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.rows[id]
	if !ok || inv.OwnerID != owner {
		return nil, store.ErrNotFound
	}
	return &inv, nil
}

func (f *fakeInvoices) ListByOwner(_ context.Context, owner uuid.UUID) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invoice
	for _, inv := range f.rows {
		if inv.OwnerID == owner {
			out = append(out, inv)
		}
	}
	slices.SortFunc(out, func(a, b models.Invoice) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (f *fakeInvoices) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// ── clients ──────────────────────────────────────────────────────────────────

type fakeClients struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]models.Client
	feed    *live.MemoryFeed
	clock   func() time.Time
	creates int
	failOn  map[string]error
}

var _ clientStore = (*fakeClients)(nil)

func newFakeClients(feed *live.MemoryFeed, clock func() time.Time) *fakeClients {
	return &fakeClients{rows: map[uuid.UUID]models.Client{}, feed: feed, clock: clock, failOn: map[string]error{}}
}

func (f *fakeClients) Create(ctx context.Context, c *models.Client) error {
	f.mu.Lock()
	if err := f.failOn["create"]; err != nil {
		f.mu.Unlock()
		return err
	}
	c.ID = uuid.New()
	c.CreatedAt = f.clock()
	f.rows[c.ID] = *c
	f.creates++
	f.mu.Unlock()
	return f.feed.Publish(ctx, live.Clients, c.OwnerID)
}

func (f *fakeClients) Delete(ctx context.Context, owner, id uuid.UUID) (*models.Client, error) {
	f.mu.Lock()
	c, ok := f.rows[id]
	if !ok || c.OwnerID != owner {
		f.mu.Unlock()
		return nil, store.ErrNotFound
	}
	delete(f.rows, id)
	f.mu.Unlock()
	return &c, f.feed.Publish(ctx, live.Clients, owner)
}

func (f *fakeClients) FindByID(_ context.Context, owner, id uuid.UUID) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || c.OwnerID != owner {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (f *fakeClients) ListByOwner(_ context.Context, owner uuid.UUID) ([]models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Client
	for _, c := range f.rows {
		if c.OwnerID == owner {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Client) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

// ── profiles ─────────────────────────────────────────────────────────────────

type fakeProfiles struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]models.Profile
	mergeErr error
	getErr   error
	merges   int
}

var _ profileStore = (*fakeProfiles)(nil)

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{rows: map[uuid.UUID]models.Profile{}}
}

func (f *fakeProfiles) Get(_ context.Context, owner uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.rows[owner]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) Merge(_ context.Context, owner uuid.UUID, patch store.ProfilePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.merges++
	p := f.rows[owner]
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
	f.rows[owner] = p
	return nil
}

func (f *fakeProfiles) ReserveInvoiceNumber(_ context.Context, owner uuid.UUID) (billing.NumberConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mergeErr != nil {
		return billing.NumberConfig{}, f.mergeErr
	}
	p := f.rows[owner]
	p.OwnerID = owner
	cfg := p.NumberConfig()
	next := cfg.Next + 1
	p.InvoicePrefix = &cfg.Prefix
	p.NextInvoiceNumber = &next
	f.rows[owner] = p
	return cfg, nil
}

func (f *fakeProfiles) stored(owner uuid.UUID) models.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[owner]
}

func (f *fakeProfiles) setMergeErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mergeErr = err
}

// ── audit ────────────────────────────────────────────────────────────────────

type fakeAudit struct {
	mu   sync.Mutex
	logs []audit.LogOptions
}

func (f *fakeAudit) WriteLog(_ context.Context, opts audit.LogOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, opts)
	return nil
}

func (f *fakeAudit) actions() []models.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.AuditAction, 0, len(f.logs))
	for _, l := range f.logs {
		out = append(out, l.Action)
	}
	return out
}

// ── harness ──────────────────────────────────────────────────────────────────

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type harness struct {
	owner    uuid.UUID
	feed     *live.MemoryFeed
	invoices *fakeInvoices
	clients  *fakeClients
	profiles *fakeProfiles
	audit    *fakeAudit
	clock    *clock
	deps     Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c := &clock{now: time.Date(2024, 3, 30, 9, 0, 0, 0, time.UTC)}
	feed := live.NewMemoryFeed()
	h := &harness{
		owner:    uuid.New(),
		feed:     feed,
		invoices: newFakeInvoices(feed, c.Now),
		clients:  newFakeClients(feed, c.Now),
		profiles: newFakeProfiles(),
		audit:    &fakeAudit{},
		clock:    c,
	}
	ids := 0
	h.deps = Deps{
		Invoices: h.invoices,
		Clients:  h.clients,
		Profiles: h.profiles,
		Audit:    h.audit,
		Feed:     feed,
		Now:      c.Now,
		NewID: func() string {
			ids++
			return fmt.Sprintf("item-%d", ids)
		},
		Log: zerolog.Nop(),
	}
	return h
}

func (h *harness) open(t *testing.T) *Session {
	t.Helper()
	s, err := Open(context.Background(), h.owner, h.deps, i18n.EN)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func (h *harness) seedProfile(prefix string, next int) {
	h.profiles.rows[h.owner] = models.Profile{OwnerID: h.owner, InvoicePrefix: &prefix, NextInvoiceNumber: &next}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 2*time.Millisecond)
}
