package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// RedisFeed fans notifications out over Redis pub/sub so that every API
// instance sees changes made through any other.
type RedisFeed struct {
	rdb *redis.Client
}

func NewRedisFeed(rdb *redis.Client) *RedisFeed {
	return &RedisFeed{rdb: rdb}
}

func (f *RedisFeed) Publish(ctx context.Context, collection string, owner uuid.UUID) error {
	return f.rdb.Publish(ctx, Channel(collection, owner), "changed").Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, collection string, owner uuid.UUID) (Subscription, error) {
	ps := f.rdb.Subscribe(ctx, Channel(collection, owner))
	// abonelik onayını bekle, yoksa ilk mesajlar kaçabilir
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}
	s := &redisSub{ps: ps, c: make(chan struct{}, 1)}
	go s.run()
	return s, nil
}

type redisSub struct {
	ps   *redis.PubSub
	c    chan struct{}
	once sync.Once
	err  error
}

func (s *redisSub) run() {
	defer close(s.c)
	for range s.ps.Channel() {
		notify(s.c)
	}
}

func (s *redisSub) C() <-chan struct{} { return s.c }

func (s *redisSub) Close() error {
	s.once.Do(func() { s.err = s.ps.Close() })
	return s.err
}
