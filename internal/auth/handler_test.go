package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/config"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/models"
	"billcraft-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.User
}

var _ Users = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers { return &fakeUsers{rows: map[uuid.UUID]*models.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = uuid.New()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsers) FindByGoogleSubject(_ context.Context, sub string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.GoogleSubject != nil && *u.GoogleSubject == sub })
}

func (f *fakeUsers) LinkGoogle(_ context.Context, id uuid.UUID, sub string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[id].GoogleSubject = &sub
	return nil
}

func (f *fakeUsers) BumpTokenVersion(_ context.Context, id uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[id].TokenVersion++
	return f.rows[id].TokenVersion, nil
}

type fakeListener struct {
	mu  sync.Mutex
	in  []uuid.UUID
	out []uuid.UUID
}

func (l *fakeListener) SignedIn(_ context.Context, owner uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.in = append(l.in, owner)
}

func (l *fakeListener) SignedOut(owner uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = append(l.out, owner)
}

type fakeVerifier map[string]GoogleIdentity

func (v fakeVerifier) Verify(_ context.Context, token string) (*GoogleIdentity, error) {
	id, ok := v[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &id, nil
}

type authApp struct {
	app      *fiber.App
	users    *fakeUsers
	listener *fakeListener
}

func newAuthApp(verifier GoogleVerifier) *authApp {
	cfg := &config.Config{JWTSecret: strings.Repeat("s", 32), JWTTTL: time.Hour}
	a := &authApp{users: newFakeUsers(), listener: &fakeListener{}}
	a.app = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			fe := apierror.From(err, apierror.Locale(c))
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		},
	})
	a.app.Use(apierror.Localize(i18n.EN))
	api := a.app.Group("/api")
	api.Post("/auth/register", RegisterHandler(cfg, a.users, a.listener))
	api.Post("/auth/login", LoginHandler(cfg, a.users, a.listener))
	api.Post("/auth/google", GoogleHandler(cfg, a.users, verifier, a.listener))
	protected := api.Group("", JWTMiddleware(cfg, a.users))
	protected.Post("/auth/logout", LogoutHandler(a.users, a.listener))
	protected.Get("/auth/me", MeHandler())
	return a
}

func (a *authApp) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestRegisterLoginMe(t *testing.T) {
	a := newAuthApp(nil)

	status, body := a.do(t, "POST", "/api/auth/register", `{"email":" Ada@Example.com ","password":"secret1","display_name":"Ada"}`, "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.NotEmpty(t, body["token"])
	assert.Len(t, a.listener.in, 1)

	status, body = a.do(t, "POST", "/api/auth/login", `{"email":"ada@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)

	status, body = a.do(t, "GET", "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, "Ada", body["display_name"])
}

func TestRegister_Validation(t *testing.T) {
	a := newAuthApp(nil)

	status, body := a.do(t, "POST", "/api/auth/register", `{"email":"x@y.io","password":"123"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Password must be at least 6 characters", body["error"])

	status, _ = a.do(t, "POST", "/api/auth/register", `{"email":"not-an-email","password":"123456"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(t, "POST", "/api/auth/register", `{"email":"x@y.io","password":"123456"}`, "")
	require.Equal(t, http.StatusCreated, status)
	status, body = a.do(t, "POST", "/api/auth/register", `{"email":"X@Y.io","password":"654321"}`, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "This email is already registered", body["error"])
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newAuthApp(nil)
	a.do(t, "POST", "/api/auth/register", `{"email":"x@y.io","password":"123456"}`, "")

	status, _ := a.do(t, "POST", "/api/auth/login", `{"email":"x@y.io","password":"wrong!"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = a.do(t, "POST", "/api/auth/login", `{"email":"nobody@y.io","password":"123456"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogout_RevokesTokens(t *testing.T) {
	a := newAuthApp(nil)
	_, body := a.do(t, "POST", "/api/auth/register", `{"email":"x@y.io","password":"123456"}`, "")
	token := body["token"].(string)

	status, _ := a.do(t, "POST", "/api/auth/logout", "", token)
	require.Equal(t, http.StatusNoContent, status)
	require.Len(t, a.listener.out, 1)

	status, _ = a.do(t, "GET", "/api/auth/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMiddleware_RejectsBadTokens(t *testing.T) {
	a := newAuthApp(nil)

	status, _ := a.do(t, "GET", "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = a.do(t, "GET", "/api/auth/me", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)

	other, err := GenerateToken(strings.Repeat("x", 32), time.Hour, &models.User{ID: uuid.New()})
	require.NoError(t, err)
	status, _ = a.do(t, "GET", "/api/auth/me", "", other)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMiddleware_QueryToken(t *testing.T) {
	a := newAuthApp(nil)
	_, body := a.do(t, "POST", "/api/auth/register", `{"email":"x@y.io","password":"123456"}`, "")

	status, _ := a.do(t, "GET", "/api/auth/me?access_token="+body["token"].(string), "", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestGoogle(t *testing.T) {
	a := newAuthApp(fakeVerifier{
		"tok-new":  {Subject: "g-1", Email: "new@gmail.com", Name: "New"},
		"tok-link": {Subject: "g-2", Email: "x@y.io"},
	})
	_, reg := a.do(t, "POST", "/api/auth/register", `{"email":"x@y.io","password":"123456"}`, "")
	existingID := reg["user"].(map[string]any)["id"]

	status, body := a.do(t, "POST", "/api/auth/google", `{"id_token":"tok-new"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "new@gmail.com", body["user"].(map[string]any)["email"])
	assert.Equal(t, true, body["user"].(map[string]any)["google"])

	status, body = a.do(t, "POST", "/api/auth/google", `{"id_token":"tok-link"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, existingID, body["user"].(map[string]any)["id"])

	// ikinci girişte aynı hesap
	status, again := a.do(t, "POST", "/api/auth/google", `{"id_token":"tok-new"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, a.users.rows, 2)
	assert.NotEmpty(t, again["token"])

	status, _ = a.do(t, "POST", "/api/auth/google", `{"id_token":"forged"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGoogle_Disabled(t *testing.T) {
	a := newAuthApp(NewGoogleVerifier(""))

	status, body := a.do(t, "POST", "/api/auth/google", `{"id_token":"x"}`, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Google sign-in is not available", body["error"])
}

func TestParseToken(t *testing.T) {
	secret := strings.Repeat("k", 32)
	u := &models.User{ID: uuid.New(), Email: "a@b.c", TokenVersion: 3}
	tok, err := GenerateToken(secret, time.Hour, u)
	require.NoError(t, err)

	claims, err := ParseToken(secret, tok)
	require.NoError(t, err)
	owner, err := claims.OwnerID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, owner)
	assert.Equal(t, 3, claims.Version)

	expired, err := GenerateToken(secret, -time.Minute, u)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
