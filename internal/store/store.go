// Package store persists invoices, clients, profiles and users in Postgres
// through gorm. Every query is scoped to an owner passed in explicitly.
package store

import (
	"context"
	"errors"

	"billcraft-backend/internal/live"
	"billcraft-backend/internal/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("kayıt bulunamadı")

// notifier announces collection changes after successful writes. A failed
// announcement is logged only; the write already happened.
type notifier struct {
	pub live.Publisher
	log zerolog.Logger
}

func newNotifier(pub live.Publisher) notifier {
	return notifier{pub: pub, log: logger.WithComponent("store")}
}

func (n notifier) changed(ctx context.Context, collection string, owner uuid.UUID) {
	if n.pub == nil {
		return
	}
	if err := n.pub.Publish(context.WithoutCancel(ctx), collection, owner); err != nil {
		n.log.Warn().Err(err).Str("collection", collection).Str("owner_id", owner.String()).Msg("değişiklik bildirimi gönderilemedi")
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
