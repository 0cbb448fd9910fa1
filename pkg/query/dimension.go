// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"github.com/raywall/stats-api/pkg/creature"
)

// Kind é a variante de uma Dimension.
type Kind int

const (
	KindID Kind = iota
	KindStat
	KindTotal
	KindPrice
)

const (
	// TotalField é o nome público do total (base-stat-total).
	TotalField = "bst"
	// PriceField é o nome público do preço.
	PriceField = "price"
	// RatioField é o descritor fixo da ordenação do ranking.
	RatioField = "bst/price"
)

// Dimension é um valor numérico de uma entidade pelo qual se filtra ou ordena:
// id, um dos cinco atributos, o total ou o preço.
type Dimension struct {
	Kind Kind
	Stat creature.StatName
}

var (
	byID    = Dimension{Kind: KindID}
	byTotal = Dimension{Kind: KindTotal}
	byPrice = Dimension{Kind: KindPrice}
)

// Filterable lista as dimensões que aceitam filtros de faixa, na ordem
// canônica usada para eco e documentação.
var Filterable = func() []Dimension {
	dims := make([]Dimension, 0, len(creature.StatNames)+2)
	for _, s := range creature.StatNames {
		dims = append(dims, Dimension{Kind: KindStat, Stat: s})
	}
	return append(dims, byPrice, byTotal)
}()

// ParseDimension resolve um nome público ("hp", "bst", "price"...).
// O id não é filtrável e por isso não é reconhecido aqui.
func ParseDimension(name string) (Dimension, bool) {
	switch name {
	case TotalField:
		return byTotal, true
	case PriceField:
		return byPrice, true
	}
	if s, ok := creature.ParseStatName(name); ok {
		return Dimension{Kind: KindStat, Stat: s}, true
	}
	return Dimension{}, false
}

// Name devolve o nome público da dimensão.
func (d Dimension) Name() string {
	switch d.Kind {
	case KindStat:
		return string(d.Stat)
	case KindTotal:
		return TotalField
	case KindPrice:
		return PriceField
	default:
		return "id"
	}
}

// Value extrai o valor da dimensão de uma entidade.
func (d Dimension) Value(e creature.Entity) float64 {
	switch d.Kind {
	case KindStat:
		return e.Stats.Get(d.Stat)
	case KindTotal:
		return e.Total()
	case KindPrice:
		return e.Price
	default:
		return float64(e.ID)
	}
}

// SortKey é a chave de ordenação resolvida uma única vez por requisição.
// Raw guarda o texto pedido, ecoado na resposta mesmo quando a chave cai
// para a ordenação por id.
type SortKey struct {
	Dimension Dimension
	Raw       string
}

// ResolveSortKey converte o texto do parâmetro "sort". Valores desconhecidos
// resultam em ordenação por id, nunca em erro.
func ResolveSortKey(raw string) SortKey {
	if d, ok := ParseDimension(raw); ok {
		return SortKey{Dimension: d, Raw: raw}
	}
	return SortKey{Dimension: byID, Raw: raw}
}

// Order é a direção da ordenação.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)
