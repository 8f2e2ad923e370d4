// Package profile serves the owner's saved invoice defaults.
package profile

import (
	"context"
	"errors"
	"strings"

	"billcraft-backend/internal/apierror"
	"billcraft-backend/internal/auth"
	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/config"
	"billcraft-backend/internal/editor"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/logger"
	"billcraft-backend/internal/models"
	"billcraft-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Profiles interface {
	Get(ctx context.Context, owner uuid.UUID) (*models.Profile, error)
	Merge(ctx context.Context, owner uuid.UUID, patch store.ProfilePatch) error
}

type Sessions interface {
	Get(ctx context.Context, owner uuid.UUID) (*editor.Session, error)
	Lookup(owner uuid.UUID) (*editor.Session, bool)
}

var _ Sessions = (*editor.Registry)(nil)

type PartyDTO struct {
	Name    string `json:"name" validate:"max=200"`
	Email   string `json:"email" validate:"max=255"`
	Address string `json:"address" validate:"max=1000"`
}

type ProfileResponse struct {
	Sender          billing.Party        `json:"sender"`
	DefaultCurrency billing.Currency     `json:"default_currency"`
	DefaultTaxRate  float64              `json:"default_tax_rate"`
	LogoDataURL     *string              `json:"logo_data_url"`
	Numbering       billing.NumberConfig `json:"numbering"`
	Language        string               `json:"language"`
}

func toResponse(p *models.Profile) ProfileResponse {
	def := p.Defaults()
	resp := ProfileResponse{
		Sender:          def.Sender,
		DefaultCurrency: def.Currency,
		DefaultTaxRate:  billing.DefaultTaxRate,
		LogoDataURL:     def.LogoDataURL,
		Numbering:       p.NumberConfig(),
		Language:        p.LanguageTag(),
	}
	if resp.DefaultCurrency == "" {
		resp.DefaultCurrency = billing.CurrencyTRY
	}
	if def.TaxRate != nil {
		resp.DefaultTaxRate = *def.TaxRate
	}
	return resp
}

// UpdateProfileRequest merges the fields that are present. RemoveLogo
// clears a stored logo.
type UpdateProfileRequest struct {
	Sender          *PartyDTO `json:"sender"`
	DefaultCurrency *string   `json:"default_currency"`
	DefaultTaxRate  *float64  `json:"default_tax_rate"`
	LogoDataURL     *string   `json:"logo_data_url"`
	RemoveLogo      bool      `json:"remove_logo"`
	Language        *string   `json:"language"`
}

type NumberingRequest struct {
	Prefix string `json:"prefix" validate:"max=50"`
	Next   int    `json:"next"`
}

func load(ctx context.Context, profiles Profiles, owner uuid.UUID) (*models.Profile, error) {
	p, err := profiles.Get(ctx, owner)
	if errors.Is(err, store.ErrNotFound) {
		return &models.Profile{OwnerID: owner}, nil
	}
	return p, err
}

// -----------------------------------
// GET /api/profile
// -----------------------------------
func GetProfileHandler(profiles Profiles) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.OwnerID(c)
		if err != nil {
			return err
		}
		p, err := load(c.UserContext(), profiles, owner)
		if err != nil {
			lg := logger.WithComponent("profile")
			lg.Error().Err(err).Str("owner_id", owner.String()).Msg("profil okunamadı")
			return apierror.New(fiber.StatusInternalServerError, apierror.Locale(c), i18n.ErrLoadFailed)
		}
		return c.JSON(toResponse(p))
	}
}

// -----------------------------------
// PUT /api/profile
// -----------------------------------
func UpdateProfileHandler(cfg *config.Config, profiles Profiles, sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.OwnerID(c)
		if err != nil {
			return err
		}
		l := apierror.Locale(c)

		var body UpdateProfileRequest
		if err := apierror.Bind(c, &body); err != nil {
			return err
		}
		patch, err := body.patch(cfg.MaxLogoBytes, l)
		if err != nil {
			return apierror.From(err, l)
		}

		ctx := c.UserContext()
		if err := profiles.Merge(ctx, owner, patch); err != nil {
			lg := logger.WithComponent("profile")
			lg.Error().Err(err).Str("owner_id", owner.String()).Msg("profil kaydedilemedi")
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrInternal)
		}
		p, err := load(ctx, profiles, owner)
		if err != nil {
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrLoadFailed)
		}
		if s, ok := sessions.Lookup(owner); ok {
			s.ProfileChanged(p)
		}
		if lang, ok := i18n.Parse(p.LanguageTag()); ok {
			l = lang
		}

		resp := apierror.Notice(l, i18n.NoticeProfileSaved)
		resp["profile"] = toResponse(p)
		return c.JSON(resp)
	}
}

func (r *UpdateProfileRequest) patch(maxLogo int, l i18n.Locale) (store.ProfilePatch, error) {
	var patch store.ProfilePatch
	if r.Sender != nil {
		p := billing.Party{
			Name:    strings.TrimSpace(r.Sender.Name),
			Email:   strings.TrimSpace(r.Sender.Email),
			Address: strings.TrimSpace(r.Sender.Address),
		}
		patch.Sender = &p
	}
	if r.DefaultCurrency != nil {
		cur, err := billing.ParseCurrency(*r.DefaultCurrency)
		if err != nil {
			return patch, err
		}
		patch.DefaultCurrency = &cur
	}
	if r.DefaultTaxRate != nil {
		if *r.DefaultTaxRate < 0 {
			return patch, billing.ErrNegativeTaxRate
		}
		patch.DefaultTaxRate = r.DefaultTaxRate
	}
	switch {
	case r.RemoveLogo:
		patch.SetLogo = true
	case r.LogoDataURL != nil:
		logo := strings.TrimSpace(*r.LogoDataURL)
		if !billing.IsImageDataURL(logo) {
			return patch, billing.ErrInvalidLogo
		}
		// base64 4/3 büyür
		if len(logo) > maxLogo*4/3+64 {
			return patch, apierror.New(fiber.StatusRequestEntityTooLarge, l, i18n.ErrLogoTooLarge)
		}
		patch.SetLogo = true
		patch.LogoDataURL = &logo
	}
	if r.Language != nil {
		lang, ok := i18n.Parse(*r.Language)
		if !ok {
			return patch, apierror.New(fiber.StatusBadRequest, l, i18n.ErrInvalidInput)
		}
		s := string(lang)
		patch.Language = &s
	}
	return patch, nil
}

// -----------------------------------
// PUT /api/profile/numbering
// -----------------------------------
func UpdateNumberingHandler(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := auth.OwnerID(c)
		if err != nil {
			return err
		}
		l := apierror.Locale(c)

		var body NumberingRequest
		if err := apierror.Bind(c, &body); err != nil {
			return err
		}
		s, err := sessions.Get(c.UserContext(), owner)
		if err != nil {
			return apierror.New(fiber.StatusServiceUnavailable, l, i18n.ErrLoadFailed)
		}
		cfg := billing.NumberConfig{Prefix: body.Prefix, Next: body.Next}
		if err := s.SetNumbering(c.UserContext(), cfg); err != nil {
			if billing.IsValidation(err) {
				return apierror.From(err, l)
			}
			return apierror.New(fiber.StatusInternalServerError, l, i18n.ErrInternal)
		}

		resp := apierror.Notice(l, i18n.NoticeProfileSaved)
		resp["numbering"] = s.View().Numbering
		return c.JSON(resp)
	}
}
