package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/export"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/logger"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [draft.json]",
	Short: "Render a saved draft to PDF without the server",
	Long: `Render reads an invoice draft in the editor's JSON form
({"invoice": {...}, "items": [...]}) and writes the PDF document.`,
	Example: `  billcraft render draft.json
  billcraft render draft.json -o INV-2024-001.pdf --lang tr`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "output file (default: derived from the invoice number)")
	renderCmd.Flags().String("lang", "en", "label language: en or tr")
}

func runRender(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("render")

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("taslak okunamadı: %w", err)
	}
	var draft billing.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return fmt.Errorf("taslak çözümlenemedi: %w", err)
	}

	lang, _ := cmd.Flags().GetString("lang")
	locale, ok := i18n.Parse(lang)
	if !ok {
		return fmt.Errorf("desteklenmeyen dil: %q", lang)
	}

	out, _ := cmd.Flags().GetString("output")
	if strings.TrimSpace(out) == "" {
		out = export.Filename(draft.Invoice.Number)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.RenderPDF(f, draft.Clone(), locale); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Str("file", out).Int("items", len(draft.Items)).Msg("PDF yazıldı")
	return nil
}
