package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/raywall/stats-api/pkg/creature"
)

// document é o subconjunto do formato PokeAPI que o serviço consome.
type document struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		Other map[string]struct {
			FrontDefault string `json:"front_default"`
		} `json:"other"`
	} `json:"sprites"`
	Stats []struct {
		BaseStat float64 `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
}

const artworkKey = "official-artwork"

// parsed é o resultado de um documento válido, ainda sem preço.
type parsed struct {
	id    int
	name  string
	image string
	stats creature.Stats
}

// parseDocument extrai identidade, imagem e os cinco atributos conhecidos.
// Atributos fora do conjunto (ex: speed) são descartados.
func parseDocument(id int, data []byte) (parsed, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return parsed{}, fmt.Errorf("json inválido: %w", err)
	}
	if doc.ID != id {
		return parsed{}, fmt.Errorf("id do documento (%d) difere do esperado (%d)", doc.ID, id)
	}
	if doc.Name == "" {
		return parsed{}, fmt.Errorf("nome vazio")
	}

	var stats creature.Stats
	for _, s := range doc.Stats {
		name, ok := creature.ParseStatName(s.Stat.Name)
		if !ok {
			continue
		}
		if s.BaseStat < 0 {
			return parsed{}, fmt.Errorf("atributo %s negativo: %v", name, s.BaseStat)
		}
		stats.Set(name, s.BaseStat)
	}

	return parsed{
		id:    doc.ID,
		name:  doc.Name,
		image: doc.Sprites.Other[artworkKey].FrontDefault,
		stats: stats,
	}, nil
}
