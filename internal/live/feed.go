// Package live delivers "collection changed" notifications so that open
// editing sessions can reload their invoice and client lists.
package live

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const (
	Invoices = "invoices"
	Clients  = "clients"
)

type Publisher interface {
	Publish(ctx context.Context, collection string, owner uuid.UUID) error
}

// Subscription yields one value per change burst. C is closed after Close.
type Subscription interface {
	C() <-chan struct{}
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, collection string, owner uuid.UUID) (Subscription, error)
}

type Feed interface {
	Publisher
	Subscriber
}

// Channel is the pub/sub channel name for one owner's collection.
func Channel(collection string, owner uuid.UUID) string {
	return fmt.Sprintf("billcraft:%s:%s", collection, owner)
}

// notify does a non-blocking send; pending notifications coalesce into one.
func notify(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}
