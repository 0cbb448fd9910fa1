package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/raywall/stats-api/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, withPrices bool) string {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "pokemon")
	require.NoError(t, os.Mkdir(dataDir, 0o755))

	for id, name := range map[int]string{1: "bulbasaur", 2: "ivysaur"} {
		doc := fmt.Sprintf(`{"id":%d,"name":%q,"stats":[{"base_stat":60,"stat":{"name":"hp"}}]}`, id, name)
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, fmt.Sprintf("%d.json", id)), []byte(doc), 0o644))
	}

	prices := ""
	if withPrices {
		prices = filepath.Join(dir, "prices.csv")
		require.NoError(t, os.WriteFile(prices, []byte("id,name,price\n1,bulbasaur,10\n"), 0o644))
	}

	content := fmt.Sprintf(`
version: "1.0"
service:
  name: "cli-test"
  runtime: "local"
  port: 8080
  route: "/pokemon"
  logging: {enabled: true, level: "error", format: "console"}
data:
  source: %q
  max_id: 3
  prices: %q
`, dataDir, prices)
	path := filepath.Join(dir, "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_Validate(t *testing.T) {
	path := writeFixture(t, false)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"validate", "-file", path}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Configuração válida")

	t.Run("Saida JSON", func(t *testing.T) {
		t.Setenv("OUTPUT_FORMAT", "json")
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"validate", "-file", path}, &stdout, &stderr)
		assert.Equal(t, 0, code)
		assert.JSONEq(t, fmt.Sprintf(`{"valid":true,"source":%q}`, path), stdout.String())
	})

	t.Run("Configuracao invalida", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("version: \"1.0\"\nservice:\n  route: \"sem-barra\"\n"), 0o644))

		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"validate", "-file", bad}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "startswith")
	})
}

func TestRun_Inspect(t *testing.T) {
	path := writeFixture(t, true)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"inspect", "-file", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var report dataset.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, 3, report.Requested)
	assert.Equal(t, 2, report.Loaded)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 3, report.Skipped[0].ID)
	assert.True(t, report.PricesLoaded)
	assert.Equal(t, 1, report.PriceEntries)
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), nil, &stdout, &stderr))
	assert.Equal(t, 1, run(context.Background(), []string{"deploy"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Comando desconhecido")
	assert.Equal(t, 1, run(context.Background(), []string{"validate", "-bogus"}, &stdout, &stderr))
}
