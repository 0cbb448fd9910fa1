package metrics

import "fmt"

// Recorder resolve IDs de métrica para nome e tipo antes de enviar ao Provider.
type Recorder struct {
	definitions map[string]MetricDefinition
	provider    Provider
}

// NewRecorder cria um Recorder com as definições padrão.
func NewRecorder(provider Provider) *Recorder {
	return &Recorder{definitions: Definitions, provider: provider}
}

// Record envia o valor usando o tipo registrado para o ID.
func (r *Recorder) Record(id string, value float64, tags ...string) error {
	def, exists := r.definitions[id]
	if !exists {
		return fmt.Errorf("métrica não definida: %s", id)
	}

	switch def.Type {
	case TypeCount:
		return r.provider.Count(def.Name, value, tags)
	case TypeGauge:
		return r.provider.Gauge(def.Name, value, tags)
	case TypeHistogram:
		return r.provider.Histogram(def.Name, value, tags)
	default:
		return fmt.Errorf("tipo de métrica desconhecido: %s", def.Type)
	}
}
