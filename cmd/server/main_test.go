package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/raywall/stats-api/pkg/dataset"
	"github.com/raywall/stats-api/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docs := map[int]string{1: "bulbasaur", 4: "charmander"}
	for id, name := range docs {
		doc := fmt.Sprintf(`{"id":%d,"name":%q,"stats":[{"base_stat":40,"stat":{"name":"hp"}},{"base_stat":50,"stat":{"name":"attack"}}]}`, id, name)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.json", id)), []byte(doc), 0o644))
	}
	return dir
}

func writeConfig(t *testing.T, runtime, dataDir string) string {
	t.Helper()
	content := fmt.Sprintf(`
version: "1.0"
service:
  name: "boot-test"
  runtime: %q
  port: 9999
  route: "/pokemon"
  logging: {enabled: false, level: "error", format: "json"}
data:
  source: %q
  max_id: 5
  prices: ""
`, runtime, dataDir)
	path := filepath.Join(t.TempDir(), "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_ServerBootstrap(t *testing.T) {
	cfgPath := writeConfig(t, "local", writeDataset(t))

	serverStarterCalled := false
	originalStarter := serverStarter
	serverStarter = func(svc *engine.ServiceEngine) error {
		serverStarterCalled = true
		assert.Equal(t, "boot-test", svc.Config.Service.Name)
		assert.Equal(t, 2, svc.Count())
		return nil
	}
	defer func() { serverStarter = originalStarter }()

	require.NoError(t, run(context.Background(), cfgPath))
	assert.True(t, serverStarterCalled, "O servidor HTTP não foi iniciado")
}

func TestRun_LambdaBootstrap(t *testing.T) {
	cfgPath := writeConfig(t, "lambda", writeDataset(t))

	var handler func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
	originalStarter := lambdaStarter
	lambdaStarter = func(h interface{}) {
		handler, _ = h.(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error))
	}
	defer func() { lambdaStarter = originalStarter }()

	require.NoError(t, run(context.Background(), cfgPath))
	require.NotNil(t, handler, "handler lambda não registrado")

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/pokemon/charmander"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Body, `"id":4`)
}

func TestRun_Failures(t *testing.T) {
	t.Run("Configuracao inexistente", func(t *testing.T) {
		assert.Error(t, run(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")))
	})

	t.Run("Snapshot vazio", func(t *testing.T) {
		cfgPath := writeConfig(t, "local", t.TempDir())
		err := run(context.Background(), cfgPath)
		assert.ErrorIs(t, err, dataset.ErrEmptySnapshot)
	})
}
