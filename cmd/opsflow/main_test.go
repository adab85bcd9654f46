package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsflow/internal/gateway/heuristic"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("AI_PROXY_URL", "")
	t.Setenv("GATEWAY_REMOTE_URL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: opsflow-test
gateway:
  remote_url: ""
logging:
  level: error
  output: stderr
metrics:
  enabled: false
`), 0o644))
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, run(t, "version"), "opsflow "+Version)
}

func TestMarketingCommandFallsBackWithoutRemote(t *testing.T) {
	out := run(t, "--config", writeTestConfig(t), "marketing", "Holiday", "hours", "posted")

	assert.Contains(t, out, "System: Standard (Local)")
	assert.Contains(t, out, "Holiday hours posted")
	assert.Contains(t, out, "#LocalEngine")
}

func TestInventoryCommandUsesSeedsAndFile(t *testing.T) {
	cfg := writeTestConfig(t)

	out := run(t, "--config", cfg, "inventory")
	assert.Contains(t, out, "[Premium Coffee Beans, Organic Soy Milk, Cold Brew Filter Bags]")

	file := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"id":"1","name":"Cups","stock":900,"minThreshold":100}]`), 0o644))

	out = run(t, "--config", cfg, "inventory", "--file", file)
	assert.Contains(t, out, heuristic.HealthyInventoryMessage)
}

func TestInvoiceCommand(t *testing.T) {
	img := filepath.Join(t.TempDir(), "scan.jpg")
	require.NoError(t, os.WriteFile(img, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0o644))

	out := run(t, "--config", writeTestConfig(t), "invoice", img)
	assert.Contains(t, out, heuristic.InvoiceText())
}
