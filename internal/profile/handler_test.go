package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/auth"
	"billcraft-backend/internal/config"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/editor/editortest"
	"billcraft-backend/internal/i18n"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	app   *fiber.App
	reg   *editor.Registry
	owner uuid.UUID
}

func setup(t *testing.T) *env {
	t.Helper()
	mem := editortest.New()
	e := &env{reg: mem.Registry(t.Cleanup), owner: uuid.New()}
	profiles := mem.Profiles()
	cfg := &config.Config{MaxLogoBytes: 64}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			fe := apierror.From(err, apierror.Locale(c))
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		},
	})
	app.Use(apierror.Localize(i18n.EN))
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxOwnerIDKey, e.owner)
		return c.Next()
	})
	app.Get("/api/profile", GetProfileHandler(profiles))
	app.Put("/api/profile", UpdateProfileHandler(cfg, profiles, e.reg))
	app.Put("/api/profile/numbering", UpdateNumberingHandler(e.reg))
	e.app = app
	return e
}

func (e *env) call(t *testing.T, method, path string, payload any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestGetProfile_Defaults(t *testing.T) {
	e := setup(t)

	status, body := e.call(t, http.MethodGet, "/api/profile", nil)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "₺", body["default_currency"])
	assert.Equal(t, 20.0, body["default_tax_rate"])
	assert.Nil(t, body["logo_data_url"])
	assert.Equal(t, map[string]any{"prefix": "INV-2024-", "next": 1.0}, body["numbering"])
}

func TestUpdateProfile(t *testing.T) {
	e := setup(t)

	status, body := e.call(t, http.MethodPut, "/api/profile", map[string]any{
		"sender":           map[string]any{"name": " Studio ", "email": "hi@studio.test"},
		"default_currency": "EUR",
		"default_tax_rate": 8,
		"logo_data_url":    "data:image/png;base64,iVBORw0KGgo=",
		"language":         "tr-TR",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, i18n.T(i18n.TR, i18n.NoticeProfileSaved), body["notice"])

	profile := body["profile"].(map[string]any)
	assert.Equal(t, "Studio", profile["sender"].(map[string]any)["name"])
	assert.Equal(t, "€", profile["default_currency"])
	assert.Equal(t, 8.0, profile["default_tax_rate"])
	assert.Equal(t, "tr", profile["language"])
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", profile["logo_data_url"])

	status, body = e.call(t, http.MethodPut, "/api/profile", map[string]any{"remove_logo": true})
	require.Equal(t, http.StatusOK, status)
	profile = body["profile"].(map[string]any)
	assert.Nil(t, profile["logo_data_url"])
	assert.Equal(t, "€", profile["default_currency"])
}

func TestUpdateProfile_ReachesOpenSession(t *testing.T) {
	e := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s, err := e.reg.Get(ctx, e.owner)
	require.NoError(t, err)

	status, _ := e.call(t, http.MethodPut, "/api/profile", map[string]any{"language": "tr"})
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "tr", s.Language())
}

func TestUpdateProfile_Invalid(t *testing.T) {
	e := setup(t)

	cases := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"currency", map[string]any{"default_currency": "GBP"}, http.StatusBadRequest},
		{"tax", map[string]any{"default_tax_rate": -1}, http.StatusBadRequest},
		{"logo", map[string]any{"logo_data_url": "https://example.com/logo.png"}, http.StatusBadRequest},
		{"logo size", map[string]any{"logo_data_url": "data:image/png;base64," + string(bytes.Repeat([]byte("A"), 400))}, http.StatusRequestEntityTooLarge},
		{"language", map[string]any{"language": "xx-invalid-tag-1"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := e.call(t, http.MethodPut, "/api/profile", tc.body)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestUpdateNumbering(t *testing.T) {
	e := setup(t)

	status, body := e.call(t, http.MethodPut, "/api/profile/numbering", map[string]any{"prefix": "Q-", "next": 50})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"prefix": "Q-", "next": 50.0}, body["numbering"])

	status, body = e.call(t, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"prefix": "Q-", "next": 50.0}, body["numbering"])

	status, _ = e.call(t, http.MethodPut, "/api/profile/numbering", map[string]any{"prefix": "Q-", "next": 0})
	assert.Equal(t, http.StatusBadRequest, status)
}
