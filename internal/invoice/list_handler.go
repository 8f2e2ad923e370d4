package invoice

import (
	"bytes"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/export"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListInvoicesHandler returns the owner's saved invoices, newest first.
func ListInvoicesHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		return c.JSON(toSummaries(s.Invoices()))
	}
}

// StreamInvoicesHandler pushes the full list whenever it changes.
func StreamInvoicesHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		return Stream(c, s, "invoices", func() any { return toSummaries(s.Invoices()) })
	}
}

func ExportInvoicesHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := export.WriteInvoicesXLSX(&buf, s.Invoices(), l); err != nil {
			lg := logger.WithComponent("invoice")
			lg.Error().Err(err).Str("owner_id", s.Owner().String()).Msg("xlsx oluşturulamadı")
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrExportFailed)
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoices.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

func LoadInvoiceHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
		}
		notice, err := s.Load(c.UserContext(), id)
		if err != nil {
			return apierror.From(err, l)
		}
		return respond(c, s, l, notice, nil)
	}
}

// DeleteInvoiceHandler needs ?confirm=true.
func DeleteInvoiceHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
		}
		notice, err := s.Delete(c.UserContext(), id, editor.Confirmed(c.QueryBool("confirm")))
		if err != nil && notice != i18n.NoticeInvoiceDeleted {
			return apierror.From(err, l)
		}
		return respond(c, s, l, notice, err)
	}
}
