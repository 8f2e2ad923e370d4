package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"billcraft-backend/internal/audit"
	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/live"
	"billcraft-backend/internal/models"
	"billcraft-backend/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type State int

const (
	StateNew State = iota
	StateSaved
)

func (s State) String() string {
	if s == StateSaved {
		return "saved"
	}
	return "new"
}

// Confirmer answers the confirmation question asked before a delete.
type Confirmer interface {
	Confirm(prompt i18n.Key) bool
}

// Confirmed is a Confirmer with a fixed answer, e.g. from ?confirm=true.
type Confirmed bool

func (c Confirmed) Confirm(i18n.Key) bool { return bool(c) }

// Session is one owner's editing context. Edits only take the state lock,
// so they are accepted while a save or delete is in flight; backend
// operations of one session run one at a time.
type Session struct {
	owner   uuid.UUID
	deps    Deps
	numbers *NumberGenerator
	log     zerolog.Logger

	opMu sync.Mutex

	mu            sync.Mutex
	state         State
	savedID       uuid.UUID
	draft         billing.Draft
	saveAsDefault bool
	defaults      billing.Defaults
	language      string
	locale        i18n.Locale
	invoices      []models.Invoice
	clients       []models.Client
	lastUsed      time.Time
	listeners     map[chan struct{}]struct{}

	stops     []func()
	done      chan struct{}
	closeOnce sync.Once
}

// Open loads the owner's profile and counter, starts the live lists and a
// new blank invoice.
func Open(ctx context.Context, owner uuid.UUID, deps Deps, fallback i18n.Locale) (*Session, error) {
	deps = deps.withDefaults()
	log := deps.Log.With().Str("owner_id", owner.String()).Logger()

	s := &Session{
		owner:         owner,
		deps:          deps,
		numbers:       NewNumberGenerator(owner, deps.Profiles, deps.Atomic, log),
		log:           log,
		saveAsDefault: true,
		locale:        fallback,
		lastUsed:      deps.Now(),
		listeners:     make(map[chan struct{}]struct{}),
		done:          make(chan struct{}),
	}

	p, err := deps.Profiles.Get(ctx, owner)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		log.Error().Err(err).Msg("profil okunamadı, varsayılanlar kullanılıyor")
	default:
		s.defaults = p.Defaults()
		s.language = p.LanguageTag()
		if l, ok := i18n.Parse(s.language); ok {
			s.locale = l
		}
	}
	if err := s.numbers.Load(ctx); err != nil {
		log.Error().Err(err).Msg("fatura sayacı okunamadı")
	}

	stopInvoices, err := live.Watch(ctx, deps.Feed, live.Invoices, owner,
		func(ctx context.Context) ([]models.Invoice, error) { return deps.Invoices.ListByOwner(ctx, owner) },
		s.setInvoices, log)
	if err != nil {
		return nil, fmt.Errorf("fatura listesi açılamadı: %w", err)
	}
	s.stops = append(s.stops, stopInvoices)

	stopClients, err := live.Watch(ctx, deps.Feed, live.Clients, owner,
		func(ctx context.Context) ([]models.Client, error) { return deps.Clients.ListByOwner(ctx, owner) },
		s.setClients, log)
	if err != nil {
		stopInvoices()
		return nil, fmt.Errorf("müşteri listesi açılamadı: %w", err)
	}
	s.stops = append(s.stops, stopClients)

	if _, err := s.StartNew(ctx); err != nil && !errors.Is(err, ErrCounterNotPersisted) {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) Owner() uuid.UUID { return s.owner }

// Close tears down the live lists. It is safe to call more than once; after
// Close every editing call returns ErrSessionClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, stop := range s.stops {
			stop()
		}
		close(s.done)
	})
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = s.deps.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Language is the language stored in the owner's profile, if any.
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// -----------------------------------
// Canlı listeler
// -----------------------------------

func (s *Session) setInvoices(list []models.Invoice) {
	s.mu.Lock()
	s.invoices = list
	s.mu.Unlock()
	s.broadcast()
}

func (s *Session) setClients(list []models.Client) {
	s.mu.Lock()
	s.clients = list
	s.mu.Unlock()
	s.broadcast()
}

func (s *Session) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.listeners {
		select {
		case c <- struct{}{}:
		default:
		}
	}
}

// Changes signals whenever a list snapshot is replaced. cancel must be
// called when the caller stops listening.
func (s *Session) Changes() (<-chan struct{}, func()) {
	c := make(chan struct{}, 1)
	s.mu.Lock()
	s.listeners[c] = struct{}{}
	s.mu.Unlock()
	var once sync.Once
	return c, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, c)
			s.mu.Unlock()
		})
	}
}

// Invoices returns the current saved-invoice snapshot, newest first.
func (s *Session) Invoices() []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.invoices)
}

// Clients returns the current client directory snapshot, newest first.
func (s *Session) Clients() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.clients)
}

// -----------------------------------
// Düzenleme
// -----------------------------------

// Edit applies field changes to the draft. Either all of them apply or none.
func (s *Session) Edit(edits ...billing.Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed() {
		return ErrSessionClosed
	}
	s.lastUsed = s.deps.Now()
	next, err := s.draft.Apply(edits...)
	if err != nil {
		return err
	}
	s.draft = next
	return nil
}

// AddItem appends a line with a fresh id and returns that id.
func (s *Session) AddItem(description string, quantity, price float64) (string, error) {
	id := s.deps.NewID()
	return id, s.Edit(billing.AddItem(id, description, quantity, price))
}

// NewItemID hands out an id for a line item built outside the session.
func (s *Session) NewItemID() string { return s.deps.NewID() }

func (s *Session) SetSaveAsDefault(v bool) {
	s.mu.Lock()
	s.saveAsDefault = v
	s.mu.Unlock()
}

// Draft returns a copy of the invoice being edited.
func (s *Session) Draft() billing.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// -----------------------------------
// Fatura işlemleri
// -----------------------------------

// StartNew replaces the draft with a blank invoice carrying a newly
// generated number. If the counter could not be stored the new draft is
// still started and ErrCounterNotPersisted is returned alongside the notice.
func (s *Session) StartNew(ctx context.Context) (i18n.Key, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed() {
		return 0, ErrSessionClosed
	}
	return s.startNewLocked(ctx)
}

func (s *Session) startNewLocked(ctx context.Context) (i18n.Key, error) {
	number, err := s.numbers.Next(ctx)
	if err != nil && !errors.Is(err, ErrCounterNotPersisted) {
		return 0, err
	}
	s.resetLocked(number)
	return i18n.NoticeNewInvoice, err
}

func (s *Session) resetLocked(number string) {
	s.mu.Lock()
	s.draft = billing.NewDraft(number, s.deps.Now(), s.defaults, i18n.T(s.locale, i18n.DefaultNote))
	s.state = StateNew
	s.savedID = uuid.Nil
	s.lastUsed = s.deps.Now()
	s.mu.Unlock()
}

// Save inserts the draft on first save and overwrites the same record on
// later saves. The draft is captured when Save starts; edits made while the
// write runs are kept for the next save.
func (s *Session) Save(ctx context.Context) (i18n.Key, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed() {
		return 0, ErrSessionClosed
	}

	s.mu.Lock()
	draft := s.draft.Clone()
	state, id := s.state, s.savedID
	asDefault := s.saveAsDefault
	s.lastUsed = s.deps.Now()
	s.mu.Unlock()

	var notice i18n.Key
	switch state {
	case StateNew:
		inv := store.NewInvoice(s.owner, draft)
		if err := s.deps.Invoices.Create(ctx, inv); err != nil {
			s.log.Error().Err(err).Str("number", draft.Invoice.Number).Msg("fatura kaydedilemedi")
			return 0, fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}
		s.mu.Lock()
		s.state = StateSaved
		s.savedID = inv.ID
		s.mu.Unlock()
		s.audit(ctx, audit.LogOptions{
			EntityType:  models.EntityInvoice,
			EntityID:    inv.ID,
			Action:      models.AuditActionCreate,
			Description: "Fatura oluşturuldu: " + draft.Invoice.Number,
			After:       inv,
		})
		notice = i18n.NoticeInvoiceSaved

	case StateSaved:
		totals := draft.Totals()
		before, err := s.deps.Invoices.Overwrite(ctx, s.owner, id, draft.Invoice, draft.Items, totals)
		if errors.Is(err, store.ErrNotFound) {
			s.log.Warn().Str("invoice_id", id.String()).Msg("kaydedilecek fatura silinmiş, oturum yeni faturaya döndü")
			s.mu.Lock()
			if s.savedID == id {
				s.state = StateNew
				s.savedID = uuid.Nil
			}
			s.mu.Unlock()
			return 0, ErrInvoiceGone
		}
		if err != nil {
			s.log.Error().Err(err).Str("invoice_id", id.String()).Msg("fatura güncellenemedi")
			return 0, fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}
		after := store.NewInvoice(s.owner, draft)
		after.ID, after.CreatedAt = id, before.CreatedAt
		s.audit(ctx, audit.LogOptions{
			EntityType:  models.EntityInvoice,
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Fatura güncellendi: " + draft.Invoice.Number,
			Before:      before,
			After:       after,
		})
		notice = i18n.NoticeInvoiceUpdated
	}

	if asDefault {
		s.saveDefaults(ctx, draft)
	}
	return notice, nil
}

// saveDefaults merges the draft's sender, currency, tax rate and logo into
// the profile. A failure does not fail the save.
func (s *Session) saveDefaults(ctx context.Context, draft billing.Draft) {
	doc := draft.Invoice
	sender := doc.Sender
	cur := doc.Currency
	rate := doc.TaxRate
	err := s.deps.Profiles.Merge(ctx, s.owner, store.ProfilePatch{
		Sender:          &sender,
		DefaultCurrency: &cur,
		DefaultTaxRate:  &rate,
		SetLogo:         true,
		LogoDataURL:     doc.LogoDataURL,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("varsayılan ayarlar kaydedilemedi")
		return
	}
	s.mu.Lock()
	s.defaults = billing.Defaults{Sender: sender, Currency: cur, TaxRate: &rate, LogoDataURL: doc.LogoDataURL}
	s.mu.Unlock()
}

// Load replaces the whole draft with a saved invoice and binds the session
// to it. The saved number is kept as is.
func (s *Session) Load(ctx context.Context, id uuid.UUID) (i18n.Key, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed() {
		return 0, ErrSessionClosed
	}

	inv := s.findInvoice(id)
	if inv == nil {
		found, err := s.deps.Invoices.FindByID(ctx, s.owner, id)
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrNoSuchInvoice
		}
		if err != nil {
			s.log.Error().Err(err).Str("invoice_id", id.String()).Msg("fatura okunamadı")
			return 0, fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		inv = found
	}

	s.mu.Lock()
	s.draft = inv.Snapshot()
	s.state = StateSaved
	s.savedID = inv.ID
	s.lastUsed = s.deps.Now()
	s.mu.Unlock()
	return i18n.NoticeInvoiceLoaded, nil
}

func (s *Session) findInvoice(id uuid.UUID) *models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			inv := s.invoices[i]
			return &inv
		}
	}
	return nil
}

// Delete removes a saved invoice after confirmation. Deleting the invoice
// that is being edited starts a new blank one. A numbering error after a
// successful delete is returned together with the notice; the blank invoice
// then has no number.
func (s *Session) Delete(ctx context.Context, id uuid.UUID, confirm Confirmer) (i18n.Key, error) {
	if confirm == nil || !confirm.Confirm(i18n.ConfirmDeleteInvoice) {
		return 0, ErrNotConfirmed
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed() {
		return 0, ErrSessionClosed
	}

	deleted, err := s.deps.Invoices.Delete(ctx, s.owner, id)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrNoSuchInvoice
	}
	if err != nil {
		s.log.Error().Err(err).Str("invoice_id", id.String()).Msg("fatura silinemedi")
		return 0, fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	s.audit(ctx, audit.LogOptions{
		EntityType:  models.EntityInvoice,
		EntityID:    id,
		Action:      models.AuditActionDelete,
		Description: "Fatura silindi: " + deleted.Document.Data().Number,
		Before:      deleted,
	})

	s.mu.Lock()
	loaded := s.state == StateSaved && s.savedID == id
	s.mu.Unlock()
	if !loaded {
		return i18n.NoticeInvoiceDeleted, nil
	}
	// Kayıt silindi; numara alınamasa bile editör boş bir faturaya döner.
	number, err := s.numbers.Next(ctx)
	if err != nil && !errors.Is(err, ErrCounterNotPersisted) {
		number = ""
	}
	s.resetLocked(number)
	return i18n.NoticeInvoiceDeleted, err
}

// SetNumbering changes the owner's prefix and next number.
func (s *Session) SetNumbering(ctx context.Context, cfg billing.NumberConfig) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed() {
		return ErrSessionClosed
	}
	if err := s.numbers.SetConfig(ctx, cfg); err != nil {
		if !billing.IsValidation(err) {
			s.log.Error().Err(err).Msg("numaralandırma ayarı kaydedilemedi")
		}
		return err
	}
	return nil
}

// ProfileChanged refreshes the defaults used for new invoices.
func (s *Session) ProfileChanged(p *models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = p.Defaults()
	s.language = p.LanguageTag()
	if l, ok := i18n.Parse(s.language); ok {
		s.locale = l
	}
}

func (s *Session) audit(ctx context.Context, opts audit.LogOptions) {
	if s.deps.Audit == nil {
		return
	}
	opts.OwnerID = s.owner
	if err := s.deps.Audit.WriteLog(ctx, opts); err != nil {
		s.log.Warn().Err(err).Str("entity_type", opts.EntityType).Str("entity_id", opts.EntityID.String()).Msg("audit log yazılamadı")
	}
}
