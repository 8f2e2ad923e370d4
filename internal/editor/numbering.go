package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NumberGenerator issues invoice numbers for one owner from the counter kept
// in the owner's profile.
//
// In the default mode the counter is read once and each Next writes
// {prefix, next+1} back; the in-memory counter only moves after that write
// succeeds. If the write fails the number is still returned, together with
// ErrCounterNotPersisted, and the generator reloads from storage before the
// next call. A number it has handed out is never handed out again by the
// same generator.
//
// In atomic mode every Next reserves the number in storage with one
// statement, so concurrent sessions of the same owner never collide.
type NumberGenerator struct {
	owner    uuid.UUID
	profiles profileStore
	atomic   bool
	log      zerolog.Logger

	mu          sync.Mutex
	cfg         billing.NumberConfig
	stale       bool
	unpersisted int // depoya yazılamadan verilen son numara
}

func NewNumberGenerator(owner uuid.UUID, profiles profileStore, atomic bool, log zerolog.Logger) *NumberGenerator {
	return &NumberGenerator{
		owner:    owner,
		profiles: profiles,
		atomic:   atomic,
		log:      log,
		cfg:      billing.DefaultNumberConfig(),
		stale:    true,
	}
}

// Load reads the counter from the profile; a missing profile means defaults.
func (g *NumberGenerator) Load(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loadLocked(ctx)
}

func (g *NumberGenerator) loadLocked(ctx context.Context) error {
	p, err := g.profiles.Get(ctx, g.owner)
	switch {
	case errors.Is(err, store.ErrNotFound):
		g.cfg = billing.DefaultNumberConfig()
	case err != nil:
		return err
	default:
		g.cfg = p.NumberConfig()
	}
	g.stale = false
	return nil
}

// Config returns the counter as the generator currently sees it.
func (g *NumberGenerator) Config() billing.NumberConfig {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.adjusted()
}

func (g *NumberGenerator) adjusted() billing.NumberConfig {
	cfg := g.cfg
	if g.unpersisted >= cfg.Next {
		cfg.Next = g.unpersisted + 1
	}
	return cfg
}

// Next returns the number for a brand-new invoice.
func (g *NumberGenerator) Next(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.atomic {
		reserved, err := g.profiles.ReserveInvoiceNumber(ctx, g.owner)
		if err != nil {
			g.log.Error().Err(err).Str("owner_id", g.owner.String()).Msg("fatura numarası ayrılamadı")
			return "", fmt.Errorf("%w: %v", ErrNumberUnavailable, err)
		}
		g.cfg = billing.NumberConfig{Prefix: reserved.Prefix, Next: reserved.Next + 1}
		g.stale = false
		return reserved.Current(), nil
	}

	if g.stale {
		if err := g.loadLocked(ctx); err != nil {
			g.log.Warn().Err(err).Str("owner_id", g.owner.String()).Msg("fatura sayacı yeniden okunamadı, bellekteki değer kullanılıyor")
		}
	}

	cfg := g.adjusted()
	number := cfg.Current()
	next := cfg.Next + 1
	err := g.profiles.Merge(ctx, g.owner, store.ProfilePatch{
		InvoicePrefix:     &cfg.Prefix,
		NextInvoiceNumber: &next,
	})
	if err != nil {
		g.log.Error().Err(err).Str("owner_id", g.owner.String()).Str("number", number).Msg("fatura sayacı kaydedilemedi")
		g.unpersisted = cfg.Next
		g.stale = true
		return number, fmt.Errorf("%w: %v", ErrCounterNotPersisted, err)
	}

	g.cfg = billing.NumberConfig{Prefix: cfg.Prefix, Next: next}
	g.unpersisted = 0
	return number, nil
}

// SetConfig stores a new prefix and next number.
func (g *NumberGenerator) SetConfig(ctx context.Context, cfg billing.NumberConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.profiles.Merge(ctx, g.owner, store.ProfilePatch{
		InvoicePrefix:     &cfg.Prefix,
		NextInvoiceNumber: &cfg.Next,
	}); err != nil {
		return err
	}
	g.cfg = cfg
	g.unpersisted = 0
	g.stale = false
	return nil
}
