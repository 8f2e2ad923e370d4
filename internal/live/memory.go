package live

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryFeed is an in-process Feed used when no Redis is configured
// (single instance) and in tests.
type MemoryFeed struct {
	mu   sync.Mutex
	subs map[string]map[*memorySub]struct{}
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[string]map[*memorySub]struct{})}
}

func (f *MemoryFeed) Publish(_ context.Context, collection string, owner uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for s := range f.subs[Channel(collection, owner)] {
		notify(s.c)
	}
	return nil
}

func (f *MemoryFeed) Subscribe(_ context.Context, collection string, owner uuid.UUID) (Subscription, error) {
	s := &memorySub{feed: f, key: Channel(collection, owner), c: make(chan struct{}, 1)}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs[s.key] == nil {
		f.subs[s.key] = make(map[*memorySub]struct{})
	}
	f.subs[s.key][s] = struct{}{}
	return s, nil
}

// Subscribers returns the number of open subscriptions on a channel.
func (f *MemoryFeed) Subscribers(collection string, owner uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[Channel(collection, owner)])
}

type memorySub struct {
	feed *MemoryFeed
	key  string
	c    chan struct{}
	once sync.Once
}

func (s *memorySub) C() <-chan struct{} { return s.c }

func (s *memorySub) Close() error {
	s.once.Do(func() {
		s.feed.mu.Lock()
		defer s.feed.mu.Unlock()
		delete(s.feed.subs[s.key], s)
		if len(s.feed.subs[s.key]) == 0 {
			delete(s.feed.subs, s.key)
		}
		close(s.c)
	})
	return nil
}
