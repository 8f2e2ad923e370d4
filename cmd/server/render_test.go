package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"billcraft-backend/internal/billing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	draft := billing.NewDraft("INV-2024-001", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), billing.Defaults{}, "Thanks")
	draft, err := draft.Apply(billing.AddItem("a", "Web design service", 1, 5000))
	require.NoError(t, err)

	raw, err := json.Marshal(draft)
	require.NoError(t, err)
	in := filepath.Join(dir, "draft.json")
	require.NoError(t, os.WriteFile(in, raw, 0o600))
	out := filepath.Join(dir, "out.pdf")

	rootCmd.SetArgs([]string{"render", in, "-o", out, "--lang", "tr"})
	require.NoError(t, rootCmd.Execute())

	pdf, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestRenderCommand_BadInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "draft.json")
	require.NoError(t, os.WriteFile(in, []byte("{not json"), 0o600))

	rootCmd.SetArgs([]string{"render", in, "-o", filepath.Join(dir, "x.pdf")})
	assert.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"render", filepath.Join(dir, "missing.json")})
	assert.Error(t, rootCmd.Execute())
}
