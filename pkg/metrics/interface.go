package metrics

// Provider define o contrato para envio de métricas.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// MetricType define os tipos suportados.
type MetricType string

const (
	TypeCount     MetricType = "count"
	TypeGauge     MetricType = "gauge"
	TypeHistogram MetricType = "histogram"
)

// MetricDefinition armazena os metadados da métrica (nome real, tipo).
type MetricDefinition struct {
	Name string
	Type MetricType
}

// IDs das métricas emitidas pelo serviço.
const (
	RequestCount   = "request_count"
	RequestLatency = "request_latency"
	RequestPanic   = "request_panic"
	EntitiesLoaded = "entities_loaded"
	EntitiesSkip   = "entities_skipped"
	PricesMissing  = "prices_missing"
)

// Definitions liga cada ID ao nome publicado e ao tipo.
var Definitions = map[string]MetricDefinition{
	RequestCount:   {Name: "http.requests", Type: TypeCount},
	RequestLatency: {Name: "http.latency_ms", Type: TypeHistogram},
	RequestPanic:   {Name: "http.panics", Type: TypeCount},
	EntitiesLoaded: {Name: "dataset.entities", Type: TypeGauge},
	EntitiesSkip:   {Name: "dataset.skipped", Type: TypeGauge},
	PricesMissing:  {Name: "dataset.prices_missing", Type: TypeGauge},
}
