package auth

import (
	"context"
	"strings"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/config"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	CtxOwnerIDKey = "owner_id"
	CtxUserKey    = "user"
)

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// JWTMiddleware accepts "Authorization: Bearer <token>". EventSource
// clients cannot set headers, so an access_token query parameter is also
// read. Tokens issued before the last sign-out are rejected.
func JWTMiddleware(cfg *config.Config, users userFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := apierror.Locale(c)
		unauthorized := apierror.New(fiber.StatusUnauthorized, l, i18n.ErrUnauthorized)

		tokenStr := c.Query("access_token")
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorized
			}
			tokenStr = parts[1]
		}
		if tokenStr == "" {
			return unauthorized
		}

		claims, err := ParseToken(cfg.JWTSecret, tokenStr)
		if err != nil {
			return unauthorized
		}
		owner, _ := claims.OwnerID()

		user, err := users.FindByID(c.UserContext(), owner)
		if err != nil || user.TokenVersion != claims.Version {
			return unauthorized
		}

		c.Locals(CtxOwnerIDKey, owner)
		c.Locals(CtxUserKey, user)
		return c.Next()
	}
}

// OwnerID returns the signed-in owner placed by JWTMiddleware.
func OwnerID(c *fiber.Ctx) (uuid.UUID, error) {
	owner, ok := c.Locals(CtxOwnerIDKey).(uuid.UUID)
	if !ok || owner == uuid.Nil {
		return uuid.Nil, apierror.New(fiber.StatusUnauthorized, apierror.Locale(c), i18n.ErrUnauthorized)
	}
	return owner, nil
}

// CurrentUser returns the user record loaded by JWTMiddleware.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	u, ok := c.Locals(CtxUserKey).(*models.User)
	return u, ok
}
