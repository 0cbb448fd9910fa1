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
	"fmt"
	"math"
	"sort"

	"github.com/raywall/stats-api/pkg/creature"
)

// DefaultLimit é o tamanho de página quando "limit" não é informado.
const DefaultLimit = 20

// RangeFilter restringe uma dimensão a [Min, Max]. Um limite nil não restringe
// aquele lado.
type RangeFilter struct {
	Dimension Dimension
	Min       *float64
	Max       *float64
}

// Contains aplica a faixa inclusiva.
func (f RangeFilter) Contains(e creature.Entity) bool {
	v := f.Dimension.Value(e)
	if f.Min != nil && v < *f.Min {
		return false
	}
	if f.Max != nil && v > *f.Max {
		return false
	}
	return true
}

// Predicate é um filtro adicional arbitrário (ex: expressão CEL).
type Predicate interface {
	Match(e creature.Entity) (bool, error)
}

// Page define a janela [Offset, Offset+Limit).
type Page struct {
	Offset int
	Limit  int
}

// Sort descreve a ordenação pedida.
type Sort struct {
	Key   SortKey
	Order Order
}

// Params são os parâmetros já tipados de uma listagem.
type Params struct {
	Filters   []RangeFilter
	Sort      *Sort
	Page      Page
	Where     Predicate
	WhereExpr string
}

// RankParams são os parâmetros do ranking de custo-benefício.
type RankParams struct {
	Budget *float64
	Page   Page
}

// List executa filtro → ordenação → paginação → eco sobre as entidades.
// O slice recebido não é alterado.
func List(entities []creature.Entity, p Params) (ListResult, error) {
	filtered := make([]creature.Entity, 0, len(entities))
	for _, e := range entities {
		ok, err := matches(e, p)
		if err != nil {
			return ListResult{}, err
		}
		if ok {
			filtered = append(filtered, e)
		}
	}

	key := SortKey{Dimension: byID}
	desc := false
	if p.Sort != nil {
		key = p.Sort.Key
		desc = p.Sort.Order == Desc
	}
	// Ordenação por id (padrão ou fallback) é sempre crescente.
	if key.Dimension.Kind == KindID {
		desc = false
	}
	sortBy(filtered, key.Dimension, desc)

	result := ListResult{
		Data:           paginate(filtered, p.Page),
		Offset:         p.Page.Offset,
		Limit:          p.Page.Limit,
		FiltersApplied: echoFilters(p.Filters),
		Where:          p.WhereExpr,
	}
	result.Count = len(result.Data)

	if p.Sort != nil {
		order := p.Sort.Order
		if order == "" {
			order = Asc
		}
		result.Sort = &SortInfo{Field: p.Sort.Key.Raw, Order: string(order)}
	}
	return result, nil
}

// Rank ordena pela razão total/preço, decrescente. Preço zero vale +Inf,
// portanto itens gratuitos sempre lideram.
func Rank(entities []creature.Entity, p RankParams) ListResult {
	filtered := make([]creature.Entity, 0, len(entities))
	for _, e := range entities {
		if p.Budget != nil && e.Price > *p.Budget {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return Ratio(filtered[i]) > Ratio(filtered[j])
	})

	applied := map[string]float64{}
	if p.Budget != nil {
		applied["budget"] = *p.Budget
	}

	data := paginate(filtered, p.Page)
	return ListResult{
		Data:           data,
		Count:          len(data),
		Offset:         p.Page.Offset,
		Limit:          p.Page.Limit,
		FiltersApplied: applied,
		Sort:           &SortInfo{Field: RatioField, Order: string(Desc)},
	}
}

// Ratio é o custo-benefício de uma entidade.
func Ratio(e creature.Entity) float64 {
	if e.Price == 0 {
		return math.Inf(1)
	}
	return e.Total() / e.Price
}

func matches(e creature.Entity, p Params) (bool, error) {
	for _, f := range p.Filters {
		if !f.Contains(e) {
			return false, nil
		}
	}
	if p.Where == nil {
		return true, nil
	}
	ok, err := p.Where.Match(e)
	if err != nil {
		return false, fmt.Errorf("avaliando filtro where para id %d: %w", e.ID, err)
	}
	return ok, nil
}

func sortBy(entities []creature.Entity, d Dimension, desc bool) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := d.Value(entities[i]), d.Value(entities[j])
		if desc {
			return a > b
		}
		return a < b
	})
}

func paginate(entities []creature.Entity, page Page) []creature.Entity {
	out := []creature.Entity{}
	if page.Offset < 0 || page.Limit <= 0 || page.Offset >= len(entities) {
		return out
	}
	end := page.Offset + page.Limit
	if end > len(entities) || end < page.Offset {
		end = len(entities)
	}
	return append(out, entities[page.Offset:end]...)
}

func echoFilters(filters []RangeFilter) map[string]float64 {
	applied := make(map[string]float64, len(filters)*2)
	for _, f := range filters {
		name := f.Dimension.Name()
		if f.Min != nil {
			applied[name+"_min"] = *f.Min
		}
		if f.Max != nil {
			applied[name+"_max"] = *f.Max
		}
	}
	return applied
}
