package observability

import (
	"testing"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/raywall/stats-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMetrics(t *testing.T) {
	t.Run("Disabled returns Noop", func(t *testing.T) {
		cfg := config.MetricsConf{Datadog: config.DatadogConf{Enabled: false}}

		provider, err := SetupMetrics(cfg, "stats-api", "1.0.0")
		require.NoError(t, err)
		assert.IsType(t, &NoopProvider{}, provider)
		assert.NoError(t, provider.Count("x", 1, nil))
	})

	t.Run("Enabled returns Datadog", func(t *testing.T) {
		cfg := config.MetricsConf{
			Datadog: config.DatadogConf{
				Enabled:   true,
				Addr:      "localhost:8125",
				Namespace: "stats_api.",
				Tags:      []string{"env:test"},
			},
		}

		// statsd sobre UDP não exige agente ativo para criar o cliente
		provider, err := SetupMetrics(cfg, "stats-api", "1.0.0")
		require.NoError(t, err)
		dd, ok := provider.(*DatadogProvider)
		require.True(t, ok, "Esperado DatadogProvider, recebido %T", provider)
		assert.NoError(t, dd.Gauge("dataset.entities", 151, nil))
		assert.NoError(t, dd.Close())
	})
}

func TestDatadogProvider_NoOpClient(t *testing.T) {
	dd := &DatadogProvider{client: &statsd.NoOpClient{}}
	assert.NoError(t, dd.Count("http.requests", 1, []string{"status:200"}))
	assert.NoError(t, dd.Histogram("http.latency_ms", 12.5, nil))
	assert.NoError(t, dd.Close())
}
