package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/config"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/logger"
	"billcraft-backend/internal/models"
	"billcraft-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// Listener is told when an owner signs in or out, so that per-owner state
// such as the editing session can follow.
type Listener interface {
	SignedIn(ctx context.Context, owner uuid.UUID)
	SignedOut(owner uuid.UUID)
}

// Users is the part of the user store the auth handlers need.
type Users interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleSubject(ctx context.Context, sub string) (*models.User, error)
	LinkGoogle(ctx context.Context, id uuid.UUID, sub string) error
	BumpTokenVersion(ctx context.Context, id uuid.UUID) (int, error)
}

var _ Users = (store.UserRepository)(nil)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type GoogleRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type userDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Google      bool      `json:"google"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, Google: u.GoogleSubject != nil}
}

func signedIn(c *fiber.Ctx, cfg *config.Config, listener Listener, user *models.User, status int) error {
	token, err := GenerateToken(cfg.JWTSecret, cfg.JWTTTL, user)
	if err != nil {
		lg := logger.WithComponent("auth")
		lg.Error().Err(err).Str("owner_id", user.ID.String()).Msg("token oluşturulamadı")
		return apierror.New(fiber.StatusInternalServerError, apierror.Locale(c), i18n.ErrInternal)
	}
	if listener != nil {
		listener.SignedIn(c.UserContext(), user.ID)
	}
	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"user":  toUserDTO(user),
	})
}

// -----------------------------------
// Kayıt / giriş
// -----------------------------------

func RegisterHandler(cfg *config.Config, users Users, listener Listener) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := apierror.Locale(c)
		var body RegisterRequest
		if err := apierror.Bind(c, &body); err != nil {
			return err
		}
		if utf8.RuneCountInString(body.Password) < minPasswordLen {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrWeakPassword)
		}

		_, err := users.FindByEmail(c.UserContext(), body.Email)
		switch {
		case err == nil:
			return apierror.New(fiber.StatusConflict, l, i18n.ErrEmailTaken)
		case !errors.Is(err, store.ErrNotFound):
			lg := logger.WithComponent("auth")
			lg.Error().Err(err).Msg("kullanıcı sorgulanamadı")
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrInternal)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrInternal)
		}
		h := string(hash)
		user := &models.User{
			Email:        body.Email,
			PasswordHash: &h,
			DisplayName:  strings.TrimSpace(body.DisplayName),
		}
		if err := users.Create(c.UserContext(), user); err != nil {
			lg := logger.WithComponent("auth")
			lg.Error().Err(err).Msg("kullanıcı oluşturulamadı")
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrInternal)
		}

		return signedIn(c, cfg, listener, user, fiber.StatusCreated)
	}
}

func LoginHandler(cfg *config.Config, users Users, listener Listener) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := apierror.Locale(c)
		var body LoginRequest
		if err := apierror.Bind(c, &body); err != nil {
			return err
		}

		user, err := users.FindByEmail(c.UserContext(), body.Email)
		if err != nil || user.PasswordHash == nil {
			return apierror.New(fiber.StatusUnauthorized, l, i18n.ErrInvalidCredentials)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(body.Password)); err != nil {
			return apierror.New(fiber.StatusUnauthorized, l, i18n.ErrInvalidCredentials)
		}

		return signedIn(c, cfg, listener, user, fiber.StatusOK)
	}
}

// GoogleHandler signs in with a Google ID token. An existing account with
// the same email is linked to the Google subject.
func GoogleHandler(cfg *config.Config, users Users, verifier GoogleVerifier, listener Listener) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := apierror.Locale(c)
		if verifier == nil {
			return apierror.New(fiber.StatusNotFound, l, i18n.ErrGoogleDisabled)
		}
		var body GoogleRequest
		if err := apierror.Bind(c, &body); err != nil {
			return err
		}

		ctx := c.UserContext()
		id, err := verifier.Verify(ctx, body.IDToken)
		if err != nil {
			lg := logger.WithComponent("auth")
			lg.Warn().Err(err).Msg("google token doğrulanamadı")
			return apierror.New(fiber.StatusUnauthorized, l, i18n.ErrInvalidCredentials)
		}

		user, err := users.FindByGoogleSubject(ctx, id.Subject)
		if errors.Is(err, store.ErrNotFound) {
			user, err = linkOrCreate(ctx, users, id)
		}
		if err != nil {
			lg := logger.WithComponent("auth")
			lg.Error().Err(err).Msg("google kullanıcısı açılamadı")
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrInternal)
		}

		return signedIn(c, cfg, listener, user, fiber.StatusOK)
	}
}

func linkOrCreate(ctx context.Context, users Users, id *GoogleIdentity) (*models.User, error) {
	if id.Email == "" {
		return nil, ErrInvalidToken
	}
	user, err := users.FindByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if err := users.LinkGoogle(ctx, user.ID, id.Subject); err != nil {
			return nil, err
		}
		sub := id.Subject
		user.GoogleSubject = &sub
		return user, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	sub := id.Subject
	user = &models.User{Email: id.Email, GoogleSubject: &sub, DisplayName: id.Name}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// -----------------------------------
// Çıkış / me
// -----------------------------------

// LogoutHandler revokes every token of the owner and ends their session.
func LogoutHandler(users Users, listener Listener) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := OwnerID(c)
		if err != nil {
			return err
		}
		if _, err := users.BumpTokenVersion(c.UserContext(), owner); err != nil {
			lg := logger.WithComponent("auth")
			lg.Error().Err(err).Str("owner_id", owner.String()).Msg("token sürümü artırılamadı")
			return apierror.New(fiber.StatusInternalServerError, apierror.Locale(c), i18n.ErrInternal)
		}
		if listener != nil {
			listener.SignedOut(owner)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apierror.New(fiber.StatusUnauthorized, apierror.Locale(c), i18n.ErrUnauthorized)
		}
		return c.JSON(toUserDTO(user))
	}
}
