package database

import (
	"fmt"

	"billcraft-backend/internal/config"
	"billcraft-backend/internal/logger"
	"billcraft-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to Postgres. gorm's own logger is silenced; failures are
// logged by the callers with owner and entity context.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}
	return db, nil
}

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	log := logger.WithComponent("database")

	// gen_random_uuid() için (Postgres 13 öncesi)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Warn().Err(err).Msg("pgcrypto eklentisi oluşturulamadı (devam ediliyor)")
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Invoice{},
		&models.Client{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}

	// Eski kayıtlarda numara sayacı sıfır kalmış olabilir, 1'e çek
	res := db.Exec("UPDATE profiles SET next_invoice_number = 1 WHERE next_invoice_number IS NOT NULL AND next_invoice_number < 1")
	if res.Error != nil {
		log.Warn().Err(res.Error).Msg("next_invoice_number düzeltilemedi")
	} else if res.RowsAffected > 0 {
		log.Info().Int64("rows", res.RowsAffected).Msg("geçersiz next_invoice_number değerleri 1 yapıldı")
	}

	log.Info().Msg("Migration tamamlandı")
	return nil
}
