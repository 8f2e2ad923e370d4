// Package invoice serves the invoice editor and the saved-invoice list.
package invoice

import (
	"context"
	"errors"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/auth"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/i18n"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Sessions hands out the signed-in owner's editing session.
type Sessions interface {
	Get(ctx context.Context, owner uuid.UUID) (*editor.Session, error)
}

var _ Sessions = (*editor.Registry)(nil)

// SessionFor resolves the caller's session and switches the request locale
// to the owner's profile language when one is set.
func SessionFor(c *fiber.Ctx, sessions Sessions) (*editor.Session, i18n.Locale, error) {
	owner, err := auth.OwnerID(c)
	if err != nil {
		return nil, apierror.Locale(c), err
	}
	s, err := sessions.Get(c.UserContext(), owner)
	if err != nil {
		l := apierror.Locale(c)
		return nil, l, apierror.New(fiber.StatusServiceUnavailable, l, i18n.ErrLoadFailed)
	}
	l := i18n.Match(c.Get(fiber.HeaderAcceptLanguage), s.Language(), apierror.Locale(c))
	apierror.SetLocale(c, l)
	return s, l, nil
}

// respond writes the editor view with an optional notice. A counter that
// could not be stored is reported as a warning next to the result.
func respond(c *fiber.Ctx, s *editor.Session, l i18n.Locale, notice i18n.Key, err error) error {
	body := fiber.Map{"editor": s.View()}
	if notice >= 0 {
		for k, v := range apierror.Notice(l, notice) {
			body[k] = v
		}
	}
	if err != nil {
		warning := i18n.NoticeCounterNotPersisted
		if errors.Is(err, editor.ErrNumberUnavailable) {
			warning = i18n.NoticeNumberUnavailable
		}
		body["warning"] = i18n.T(l, warning)
		body["warning_key"] = warning.String()
	}
	return c.JSON(body)
}

const noNotice i18n.Key = -1
