package editor

import (
	"context"
	"sync"
	"time"

	"billcraft-backend/internal/i18n"

	"github.com/google/uuid"
)

// Registry keeps one Session per signed-in owner.
type Registry struct {
	deps     Deps
	fallback i18n.Locale

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

type entry struct {
	ready chan struct{}
	s     *Session
	err   error
}

func NewRegistry(deps Deps, fallback i18n.Locale) *Registry {
	return &Registry{
		deps:     deps.withDefaults(),
		fallback: fallback,
		entries:  make(map[uuid.UUID]*entry),
	}
}

// Get returns the owner's session, opening it on first use. Concurrent
// callers for the same owner share one session.
func (r *Registry) Get(ctx context.Context, owner uuid.UUID) (*Session, error) {
	for {
		r.mu.Lock()
		e, ok := r.entries[owner]
		if !ok {
			e = &entry{ready: make(chan struct{})}
			r.entries[owner] = e
			r.mu.Unlock()

			e.s, e.err = Open(ctx, owner, r.deps, r.fallback)
			if e.err != nil {
				r.mu.Lock()
				delete(r.entries, owner)
				r.mu.Unlock()
			}
			close(e.ready)
			return e.s, e.err
		}
		r.mu.Unlock()

		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.err != nil {
			return nil, e.err
		}
		if e.s.closed() {
			// End ile kapatılmış, yenisini aç
			r.mu.Lock()
			if r.entries[owner] == e {
				delete(r.entries, owner)
			}
			r.mu.Unlock()
			continue
		}
		e.s.touch()
		return e.s, nil
	}
}

// Lookup returns the owner's open session without creating one.
func (r *Registry) Lookup(owner uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	e, ok := r.entries[owner]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	select {
	case <-e.ready:
	default:
		return nil, false
	}
	if e.err != nil || e.s.closed() {
		return nil, false
	}
	return e.s, true
}

// End closes the owner's session, if any.
func (r *Registry) End(owner uuid.UUID) {
	r.mu.Lock()
	e, ok := r.entries[owner]
	if ok {
		delete(r.entries, owner)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	<-e.ready
	if e.s != nil {
		e.s.Close()
	}
}

// Sweep closes sessions unused for longer than idle and returns how many
// were closed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.deps.Now().Add(-idle)
	var stale []*Session

	r.mu.Lock()
	for owner, e := range r.entries {
		select {
		case <-e.ready:
		default:
			continue
		}
		if e.s != nil && e.s.idleSince().Before(cutoff) {
			stale = append(stale, e.s)
			delete(r.entries, owner)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Run sweeps idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context, idle, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(idle); n > 0 {
				r.deps.Log.Info().Int("sessions", n).Msg("boşta kalan oturumlar kapatıldı")
			}
		}
	}
}

// Close ends every session.
func (r *Registry) Close() {
	r.mu.Lock()
	owners := make([]uuid.UUID, 0, len(r.entries))
	for owner := range r.entries {
		owners = append(owners, owner)
	}
	r.mu.Unlock()
	for _, owner := range owners {
		r.End(owner)
	}
}

// SignedIn is called by auth after a successful sign-in.
func (r *Registry) SignedIn(ctx context.Context, owner uuid.UUID) {
	if _, err := r.Get(ctx, owner); err != nil {
		r.deps.Log.Warn().Err(err).Str("owner_id", owner.String()).Msg("oturum açılamadı")
	}
}

// SignedOut is called by auth on sign-out; the owner's lists are torn down.
func (r *Registry) SignedOut(owner uuid.UUID) {
	r.End(owner)
}
