// Package clients serves the per-owner client directory.
package clients

import (
	"time"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/invoice"
	"billcraft-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponses(list []models.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ClientResponse{ID: c.ID, Name: c.Name, Email: c.Email, Address: c.Address, CreatedAt: c.CreatedAt})
	}
	return out
}

// SaveClientRequest optionally replaces the draft's client fields before
// the client is added to the directory.
type SaveClientRequest struct {
	Client *invoice.PartyDTO `json:"client"`
}

func ListClientsHandler(sessions invoice.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _, err := invoice.SessionFor(c, sessions)
		if err != nil {
			return err
		}
		return c.JSON(toResponses(s.Clients()))
	}
}

func StreamClientsHandler(sessions invoice.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _, err := invoice.SessionFor(c, sessions)
		if err != nil {
			return err
		}
		return invoice.Stream(c, s, "clients", func() any { return toResponses(s.Clients()) })
	}
}

// SaveClientHandler adds the draft's client to the directory. A duplicate
// answers 200 with the "already exists" notice.
func SaveClientHandler(sessions invoice.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := invoice.SessionFor(c, sessions)
		if err != nil {
			return err
		}
		var body SaveClientRequest
		if len(c.Body()) > 0 {
			if err := apierror.Bind(c, &body); err != nil {
				return err
			}
		}
		if body.Client != nil {
			p := billing.Party{Name: body.Client.Name, Email: body.Client.Email, Address: body.Client.Address}
			if err := s.Edit(billing.SetClient(p)); err != nil {
				return apierror.From(err, l)
			}
		}

		notice, err := s.SaveClient(c.UserContext())
		if err != nil {
			return apierror.From(err, l)
		}
		status := fiber.StatusCreated
		if notice == i18n.NoticeClientExists {
			status = fiber.StatusOK
		}
		resp := apierror.Notice(l, notice)
		resp["clients"] = toResponses(s.Clients())
		return c.Status(status).JSON(resp)
	}
}

func SelectClientHandler(sessions invoice.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := invoice.SessionFor(c, sessions)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
		}
		notice, err := s.SelectClient(c.UserContext(), id)
		if err != nil {
			return apierror.From(err, l)
		}
		resp := apierror.Notice(l, notice)
		resp["editor"] = s.View()
		return c.JSON(resp)
	}
}

// DeleteClientHandler needs ?confirm=true. Saved invoices are not changed.
func DeleteClientHandler(sessions invoice.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := invoice.SessionFor(c, sessions)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
		}
		notice, err := s.DeleteClient(c.UserContext(), id, editor.Confirmed(c.QueryBool("confirm")))
		if err != nil {
			return apierror.From(err, l)
		}
		return c.JSON(apierror.Notice(l, notice))
	}
}
