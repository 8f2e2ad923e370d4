package invoice

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/config"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/export"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// -----------------------------------
// Editör durumu
// -----------------------------------

func GetEditorHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		return respond(c, s, l, noNotice, nil)
	}
}

func NewInvoiceHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		notice, err := s.StartNew(c.UserContext())
		if err != nil && !errors.Is(err, editor.ErrCounterNotPersisted) {
			return apierror.From(err, l)
		}
		return respond(c, s, l, notice, err)
	}
}

// EditHandler applies a partial update of header, parties, currency, tax
// rate and note. Either every field applies or none does.
func EditHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		var body EditRequest
		if err := apierror.Bind(c, &body); err != nil {
			return err
		}
		if edits := body.edits(); len(edits) > 0 {
			if err := s.Edit(edits...); err != nil {
				return apierror.From(err, l)
			}
		}
		if body.SaveAsDefault != nil {
			s.SetSaveAsDefault(*body.SaveAsDefault)
		}
		return respond(c, s, l, noNotice, nil)
	}
}

// -----------------------------------
// Logo
// -----------------------------------

var logoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadLogoHandler reads a multipart "logo" file and stores it on the draft
// as a data URL.
func UploadLogoHandler(cfg *config.Config, sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("logo")
		if err != nil {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidLogo)
		}
		if fileHeader.Size > int64(cfg.MaxLogoBytes) {
			return apierror.New(fiber.StatusRequestEntityTooLarge, l, i18n.ErrLogoTooLarge)
		}
		file, err := fileHeader.Open()
		if err != nil {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidLogo)
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, int64(cfg.MaxLogoBytes)+1))
		if err != nil {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidLogo)
		}
		if len(data) > cfg.MaxLogoBytes {
			return apierror.New(fiber.StatusRequestEntityTooLarge, l, i18n.ErrLogoTooLarge)
		}
		mime := http.DetectContentType(data)
		if !logoTypes[mime] {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidLogo)
		}

		dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
		if err := s.Edit(billing.SetLogo(dataURL)); err != nil {
			return apierror.From(err, l)
		}
		return respond(c, s, l, noNotice, nil)
	}
}

func RemoveLogoHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		if err := s.Edit(billing.SetLogo("")); err != nil {
			return apierror.From(err, l)
		}
		return respond(c, s, l, noNotice, nil)
	}
}

// -----------------------------------
// Kalemler
// -----------------------------------

func AddItemHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		var body AddItemRequest
		if err := apierror.Bind(c, &body); err != nil {
			return err
		}
		id, err := s.AddItem(body.Description, body.quantity(), float64(body.Price))
		if err != nil {
			return apierror.From(err, l)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"item_id": id,
			"editor":  s.View(),
		})
	}
}

func UpdateItemHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		var body UpdateItemRequest
		if err := apierror.Bind(c, &body); err != nil {
			return err
		}
		patch := billing.ItemPatch{
			Description: body.Description,
			Quantity:    body.Quantity.ptr(),
			Price:       body.Price.ptr(),
		}
		if err := s.Edit(billing.UpdateItem(c.Params("id"), patch)); err != nil {
			return apierror.From(err, l)
		}
		return respond(c, s, l, noNotice, nil)
	}
}

func RemoveItemHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		if err := s.Edit(billing.RemoveItem(c.Params("id"))); err != nil {
			return apierror.From(err, l)
		}
		return respond(c, s, l, noNotice, nil)
	}
}

// ImportItemsHandler reads line items from an uploaded .xlsx file. They are
// appended unless ?replace=true.
func ImportItemsHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrImportFailed)
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrImportFailed)
		}
		file, err := fileHeader.Open()
		if err != nil {
			return apierror.New(fiber.StatusBadRequest, l, i18n.ErrImportFailed)
		}
		defer file.Close()

		items, err := export.ImportItemsXLSX(file, s.NewItemID)
		if err != nil {
			return apierror.From(err, l)
		}

		var edits []billing.Edit
		if c.QueryBool("replace") {
			edits = append(edits, billing.ReplaceItems(items))
		} else {
			for _, it := range items {
				edits = append(edits, billing.AddItem(it.ID, it.Description, it.Quantity, it.Price))
			}
		}
		if err := s.Edit(edits...); err != nil {
			return apierror.From(err, l)
		}

		body := apierror.Notice(l, i18n.NoticeItemsImported)
		body["imported"] = len(items)
		body["editor"] = s.View()
		return c.JSON(body)
	}
}

// -----------------------------------
// Kaydet / PDF
// -----------------------------------

func SaveHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		notice, err := s.Save(c.UserContext())
		if err != nil {
			return apierror.From(err, l)
		}
		return respond(c, s, l, notice, nil)
	}
}

func PDFHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, l, err := SessionFor(c, sessions)
		if err != nil {
			return err
		}
		draft := s.Draft()
		var buf bytes.Buffer
		if err := export.RenderPDF(&buf, draft, l); err != nil {
			lg := logger.WithComponent("invoice")
			lg.Error().Err(err).Str("owner_id", s.Owner().String()).Msg("pdf oluşturulamadı")
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrExportFailed)
		}
		c.Attachment(export.Filename(draft.Invoice.Number))
		return c.Send(buf.Bytes())
	}
}
