package auditlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/audit"
	"billcraft-backend/internal/auth"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogs struct {
	logs    []models.AuditLog
	filter  audit.Filter
	undoErr error
	undone  []uint
}

func (f *fakeLogs) List(_ context.Context, _ uuid.UUID, flt audit.Filter) ([]models.AuditLog, error) {
	f.filter = flt
	return f.logs, nil
}

func (f *fakeLogs) UndoLog(_ context.Context, _ uuid.UUID, id uint) error {
	f.undone = append(f.undone, id)
	return f.undoErr
}

func newApp(logs Logs) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			fe := apierror.From(err, apierror.Locale(c))
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		},
	})
	app.Use(apierror.Localize(i18n.EN))
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxOwnerIDKey, uuid.New())
		return c.Next()
	})
	app.Get("/api/audit-logs", ListAuditLogsHandler(logs))
	app.Post("/api/audit-logs/:id/undo", UndoAuditLogHandler(logs))
	return app
}

func TestListAuditLogs(t *testing.T) {
	entity := uuid.New()
	undoneAt := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	logs := &fakeLogs{logs: []models.AuditLog{{
		ID:          7,
		CreatedAt:   time.Date(2024, 3, 30, 9, 15, 0, 0, time.UTC),
		EntityType:  models.EntityInvoice,
		EntityID:    entity,
		Action:      models.AuditActionDelete,
		Description: "Fatura silindi: INV-2024-001",
		IsUndone:    true,
		UndoneAt:    &undoneAt,
	}}}

	resp, err := newApp(logs).Test(httptest.NewRequest(http.MethodGet, "/api/audit-logs?entity_type=invoice&entity_id="+entity.String()+"&limit=5", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []AuditLogResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "2024-03-30 09:15:00", body[0].CreatedAt)
	assert.Equal(t, "2024-04-01 10:00:00", *body[0].UndoneAt)

	assert.Equal(t, "invoice", logs.filter.EntityType)
	assert.Equal(t, entity, *logs.filter.EntityID)
	assert.Equal(t, 5, logs.filter.Limit)
}

func TestUndoAuditLog(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"ok", "/api/audit-logs/3/undo", nil, http.StatusOK},
		{"already undone", "/api/audit-logs/3/undo", audit.ErrAlreadyUndone, http.StatusConflict},
		{"missing", "/api/audit-logs/3/undo", audit.ErrLogNotFound, http.StatusNotFound},
		{"bad id", "/api/audit-logs/abc/undo", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs := &fakeLogs{undoErr: tc.err}
			resp, err := newApp(logs).Test(httptest.NewRequest(http.MethodPost, tc.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
