package live

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Watch keeps a list up to date. It subscribes, loads the list once before
// returning and then reloads it on every notification, handing each full
// snapshot to onSnapshot. A failed load is logged and leaves the previous
// snapshot in place. stop ends the subscription; it is safe to call twice.
func Watch[T any](
	ctx context.Context,
	sub Subscriber,
	collection string,
	owner uuid.UUID,
	load func(context.Context) ([]T, error),
	onSnapshot func([]T),
	log zerolog.Logger,
) (stop func(), err error) {
	s, err := sub.Subscribe(ctx, collection, owner)
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	reload := func() {
		items, err := load(wctx)
		if err != nil {
			if wctx.Err() == nil {
				log.Error().Err(err).Str("collection", collection).Str("owner_id", owner.String()).Msg("liste yüklenemedi")
			}
			return
		}
		onSnapshot(items)
	}

	reload()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range s.C() {
			if wctx.Err() != nil {
				return
			}
			reload()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = s.Close()
			<-done
		})
	}, nil
}
