// Package editor holds the per-owner invoice editing session: the draft being
// edited, the invoice number counter, the client directory and the saved
// invoice list.
package editor

import (
	"context"
	"time"

	"billcraft-backend/internal/audit"
	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/live"
	"billcraft-backend/internal/models"
	"billcraft-backend/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type invoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	Overwrite(ctx context.Context, owner, id uuid.UUID, doc billing.Document, items []billing.LineItem, totals billing.Totals) (*models.Invoice, error)
	Delete(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error)
	FindByID(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Invoice, error)
}

type clientStore interface {
	Create(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, owner, id uuid.UUID) (*models.Client, error)
	FindByID(ctx context.Context, owner, id uuid.UUID) (*models.Client, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Client, error)
}

type profileStore interface {
	Get(ctx context.Context, owner uuid.UUID) (*models.Profile, error)
	Merge(ctx context.Context, owner uuid.UUID, patch store.ProfilePatch) error
	ReserveInvoiceNumber(ctx context.Context, owner uuid.UUID) (billing.NumberConfig, error)
}

type auditLogger interface {
	WriteLog(ctx context.Context, opts audit.LogOptions) error
}

// Deps are the collaborators shared by all sessions.
type Deps struct {
	Invoices invoiceStore
	Clients  clientStore
	Profiles profileStore
	Audit    auditLogger // nil: denetim kaydı yazılmaz
	Feed     live.Subscriber

	// Atomic reserves invoice numbers with a single UPDATE ... RETURNING.
	Atomic bool

	Now   func() time.Time
	NewID func() string
	Log   zerolog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	return d
}
