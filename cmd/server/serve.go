package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"billcraft-backend/internal/audit"
	"billcraft-backend/internal/config"
	"billcraft-backend/internal/database"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/live"
	"billcraft-backend/internal/logger"
	"billcraft-backend/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const sweepEvery = 5 * time.Minute

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	log := logger.WithComponent("server")

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	feed, rdb, err := newFeed(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	invoices := store.NewInvoiceRepository(db, feed)
	clients := store.NewClientRepository(db, feed)
	profiles := store.NewProfileRepository(db)
	users := store.NewUserRepository(db)
	auditSvc := audit.NewService(db, invoices, clients)

	fallback, ok := i18n.Parse(cfg.DefaultLanguage)
	if !ok {
		fallback = i18n.EN
	}
	registry := editor.NewRegistry(editor.Deps{
		Invoices: invoices,
		Clients:  clients,
		Profiles: profiles,
		Audit:    auditSvc,
		Feed:     feed,
		Atomic:   cfg.NumberingAtomic,
		Log:      logger.WithComponent("editor"),
	}, fallback)
	defer registry.Close()
	go registry.Run(ctx, cfg.SessionIdleTimeout, sweepEvery)

	app := newApp(cfg, fallback)
	registerRoutes(app, cfg, routeDeps{
		users:    users,
		profiles: profiles,
		invoices: invoices,
		audit:    auditSvc,
		sessions: registry,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("Server çalışıyor")
		errCh <- app.Listen(":" + cfg.HTTPPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Kapatılıyor...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("sunucu düzgün kapatılamadı")
	}
	return nil
}

// newFeed uses Redis pub/sub when REDIS_URL is set so that several API
// instances see each other's changes.
func newFeed(ctx context.Context, cfg *config.Config) (live.Feed, *redis.Client, error) {
	if cfg.RedisURL == "" {
		lg := logger.WithComponent("server")
		lg.Warn().Msg("REDIS_URL tanımlanmamış, canlı listeler yalnızca bu süreçte çalışır")
		return live.NewMemoryFeed(), nil, nil
	}
	rdb, err := live.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return live.NewRedisFeed(rdb), rdb, nil
}

