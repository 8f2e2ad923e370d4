package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultDSN  = "host=localhost user=postgres password=postgres dbname=billcraft port=5432 sslmode=disable"
	defaultCORS = "http://localhost:5173"
)

type Config struct {
	HTTPPort    string `env:"HTTP_PORT" env-default:"8080"`
	DatabaseDSN string `env:"DATABASE_DSN" env-default:"host=localhost user=postgres password=postgres dbname=billcraft port=5432 sslmode=disable"`
	// Boşsa canlı listeler süreç içi yayınla çalışır (tek instance)
	RedisURL    string        `env:"REDIS_URL"`
	JWTSecret   string        `env:"JWT_SECRET" env-required:"true"`
	JWTTTL      time.Duration `env:"JWT_TTL" env-default:"24h"`
	CORSOrigins string        `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`

	GoogleClientID string `env:"AUTH_GOOGLE_CLIENT_ID"`

	Log LogConfig

	// true: numara UPDATE ... RETURNING ile tek adımda ayrılır
	NumberingAtomic    bool          `env:"NUMBERING_ATOMIC" env-default:"false"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" env-default:"2h"`
	DefaultLanguage    string        `env:"DEFAULT_LANGUAGE" env-default:"en"`
	MaxLogoBytes       int           `env:"MAX_LOGO_BYTES" env-default:"524288"`
	// Özet ve grafiklerde gün/hafta/ay sınırları bu saat dilimine göre
	ReportTimezone string `env:"REPORT_TIMEZONE" env-default:"Europe/Istanbul"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"console"` // console | json
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config okunamadı: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Production uyarıları
	if cfg.DatabaseDSN == defaultDSN {
		log.Warn().Msg("DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.CORSOrigins == defaultCORS {
		log.Warn().Msg("CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}
	if cfg.GoogleClientID == "" {
		log.Warn().Msg("AUTH_GOOGLE_CLIENT_ID tanımlanmamış, Google ile giriş kapalı.")
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET en az 32 karakter olmalıdır")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL pozitif olmalıdır")
	}
	if c.SessionIdleTimeout <= 0 {
		return errors.New("SESSION_IDLE_TIMEOUT pozitif olmalıdır")
	}
	if c.MaxLogoBytes <= 0 {
		return errors.New("MAX_LOGO_BYTES pozitif olmalıdır")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT geçersiz: %q", c.Log.Format)
	}
	if c.ReportTimezone != "" {
		if _, err := time.LoadLocation(c.ReportTimezone); err != nil || c.ReportTimezone == "Local" {
			return fmt.Errorf("REPORT_TIMEZONE geçersiz: %q", c.ReportTimezone)
		}
	}
	return nil
}

// ReportLocation is the zone used for report periods. Empty means UTC.
func (c *Config) ReportLocation() *time.Location {
	if c.ReportTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
