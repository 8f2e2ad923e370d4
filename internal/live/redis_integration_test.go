//go:build integration

package live

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisFeed_PublishReachesSubscriber(t *testing.T) {
	ctx := context.Background()

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := NewRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	feed := NewRedisFeed(rdb)
	owner := uuid.New()

	sub, err := feed.Subscribe(ctx, Clients, owner)
	require.NoError(t, err)

	require.NoError(t, feed.Publish(ctx, Clients, owner))

	select {
	case <-sub.C():
	case <-time.After(5 * time.Second):
		t.Fatal("notification not delivered")
	}

	require.NoError(t, sub.Close())
	assert.Eventually(t, func() bool {
		_, open := <-sub.C()
		return !open
	}, 5*time.Second, 10*time.Millisecond)
}
