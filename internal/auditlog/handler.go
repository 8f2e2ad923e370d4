// Package auditlog serves the owner's change history and undo.
package auditlog

import (
	"context"
	"fmt"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/audit"
	"billcraft-backend/internal/auth"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/logger"
	"billcraft-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Logs is the part of audit.Service the handlers use.
type Logs interface {
	List(ctx context.Context, owner uuid.UUID, f audit.Filter) ([]models.AuditLog, error)
	UndoLog(ctx context.Context, owner uuid.UUID, logID uint) error
}

var _ Logs = (*audit.Service)(nil)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	EntityType  string             `json:"entity_type"`
	EntityID    uuid.UUID          `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneAt    *string            `json:"undone_at"`
}

// GET /api/audit-logs?entity_type=invoice&entity_id=<uuid>&limit=50
func ListAuditLogsHandler(logs Logs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.OwnerID(c)
		if err != nil {
			return err
		}
		l := apierror.Locale(c)

		f := audit.Filter{EntityType: c.Query("entity_type"), Limit: c.QueryInt("limit")}
		if s := c.Query("entity_id"); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
			}
			f.EntityID = &id
		}

		list, err := logs.List(c.UserContext(), owner, f)
		if err != nil {
			lg := logger.WithComponent("audit")
			lg.Error().Err(err).Str("owner_id", owner.String()).Msg("loglar listelenemedi")
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrLoadFailed)
		}

		resp := make([]AuditLogResponse, 0, len(list))
		for _, log := range list {
			var undoneAtStr *string
			if log.UndoneAt != nil {
				formatted := log.UndoneAt.Format("2006-01-02 15:04:05")
				undoneAtStr = &formatted
			}
			resp = append(resp, AuditLogResponse{
				ID:          log.ID,
				CreatedAt:   log.CreatedAt.Format("2006-01-02 15:04:05"),
				EntityType:  log.EntityType,
				EntityID:    log.EntityID,
				Action:      log.Action,
				Description: log.Description,
				IsUndone:    log.IsUndone,
				UndoneAt:    undoneAtStr,
			})
		}
		return c.JSON(resp)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler(logs Logs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.OwnerID(c)
		if err != nil {
			return err
		}
		l := apierror.Locale(c)

		var logID uint
		if _, err := fmt.Sscan(c.Params("id"), &logID); err != nil || logID == 0 {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
		}

		if err := logs.UndoLog(c.UserContext(), owner, logID); err != nil {
			fe := apierror.From(err, l)
			if fe.Code >= fiber.StatusInternalServerError {
				lg := logger.WithComponent("audit")
				lg.Error().Err(err).Uint("log_id", logID).Msg("geri alma başarısız")
			}
			return fe
		}
		return c.JSON(apierror.Notice(l, i18n.NoticeUndone))
	}
}
