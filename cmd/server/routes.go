package main

import (
	"strings"
	"time"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/audit"
	"billcraft-backend/internal/auditlog"
	"billcraft-backend/internal/auth"
	"billcraft-backend/internal/clients"
	"billcraft-backend/internal/config"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/financial"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/invoice"
	"billcraft-backend/internal/logger"
	"billcraft-backend/internal/profile"
	"billcraft-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type routeDeps struct {
	users    store.UserRepository
	profiles store.ProfileRepository
	invoices store.InvoiceRepository
	audit    *audit.Service
	sessions *editor.Registry
}

func newApp(cfg *config.Config, fallback i18n.Locale) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "billcraft",
		BodyLimit:    cfg.MaxLogoBytes*2 + 1024*1024,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger())

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(corsOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Accept-Language, Authorization",
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		ExposeHeaders: "Content-Disposition",
	}))
	app.Use(apierror.Localize(fallback))
	return app
}

// errorHandler writes every error as {"error": "..."}. Unknown errors are
// logged and answered with a localized 500.
func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}
	lg := logger.WithComponent("http")
	lg.Error().Err(err).Str("path", c.Path()).Msg("Beklenmeyen hata")
	fe := apierror.From(err, apierror.Locale(c))
	return c.Status(fe.Code).JSON(fiber.Map{
		"error": fe.Message,
	})
}

func requestLogger() fiber.Handler {
	log := logger.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("took", time.Since(start)).
			Msg("istek")
		return err
	}
}

func registerRoutes(app *fiber.App, cfg *config.Config, d routeDeps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public auth
	google := auth.NewGoogleVerifier(cfg.GoogleClientID)
	api.Post("/auth/register", auth.RegisterHandler(cfg, d.users, d.sessions))
	api.Post("/auth/login", auth.LoginHandler(cfg, d.users, d.sessions))
	api.Post("/auth/google", auth.GoogleHandler(cfg, d.users, google, d.sessions))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg, d.users))

	protected.Post("/auth/logout", auth.LogoutHandler(d.users, d.sessions))
	protected.Get("/auth/me", auth.MeHandler())

	// Editör
	protected.Get("/editor", invoice.GetEditorHandler(d.sessions))
	protected.Patch("/editor", invoice.EditHandler(d.sessions))
	protected.Post("/editor/new", invoice.NewInvoiceHandler(d.sessions))
	protected.Post("/editor/logo", invoice.UploadLogoHandler(cfg, d.sessions))
	protected.Delete("/editor/logo", invoice.RemoveLogoHandler(d.sessions))
	protected.Post("/editor/items/import", invoice.ImportItemsHandler(d.sessions))
	protected.Post("/editor/items", invoice.AddItemHandler(d.sessions))
	protected.Put("/editor/items/:id", invoice.UpdateItemHandler(d.sessions))
	protected.Delete("/editor/items/:id", invoice.RemoveItemHandler(d.sessions))
	protected.Post("/editor/save", invoice.SaveHandler(d.sessions))
	protected.Get("/editor/pdf", invoice.PDFHandler(d.sessions))

	// Kayıtlı faturalar
	protected.Get("/invoices", invoice.ListInvoicesHandler(d.sessions))
	protected.Get("/invoices/stream", invoice.StreamInvoicesHandler(d.sessions))
	protected.Get("/invoices/export.xlsx", invoice.ExportInvoicesHandler(d.sessions))
	protected.Get("/invoices/summary/monthly", financial.MonthlySummaryHandler(d.invoices, cfg.ReportLocation()))
	protected.Get("/invoices/summary/chart", financial.ChartHandler(d.invoices, cfg.ReportLocation()))
	protected.Post("/invoices/:id/load", invoice.LoadInvoiceHandler(d.sessions))
	protected.Delete("/invoices/:id", invoice.DeleteInvoiceHandler(d.sessions))

	// Müşteriler
	protected.Get("/clients", clients.ListClientsHandler(d.sessions))
	protected.Get("/clients/stream", clients.StreamClientsHandler(d.sessions))
	protected.Post("/clients", clients.SaveClientHandler(d.sessions))
	protected.Post("/clients/:id/select", clients.SelectClientHandler(d.sessions))
	protected.Delete("/clients/:id", clients.DeleteClientHandler(d.sessions))

	// Profil
	protected.Get("/profile", profile.GetProfileHandler(d.profiles))
	protected.Put("/profile", profile.UpdateProfileHandler(cfg, d.profiles, d.sessions))
	protected.Put("/profile/numbering", profile.UpdateNumberingHandler(d.sessions))

	// Audit logs
	protected.Get("/audit-logs", auditlog.ListAuditLogsHandler(d.audit))
	protected.Post("/audit-logs/:id/undo", auditlog.UndoAuditLogHandler(d.audit))
}
