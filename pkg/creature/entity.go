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

package creature

import (
	"encoding/json"
	"fmt"
)

// StatName identifica um dos cinco atributos base conhecidos.
type StatName string

const (
	HP             StatName = "hp"
	Attack         StatName = "attack"
	Defense        StatName = "defense"
	SpecialAttack  StatName = "special-attack"
	SpecialDefense StatName = "special-defense"
)

// StatNames é o conjunto fixo de atributos, na ordem de exibição.
var StatNames = []StatName{HP, Attack, Defense, SpecialAttack, SpecialDefense}

// ParseStatName devolve o StatName correspondente, ou false se o nome não
// pertence ao conjunto fixo.
func ParseStatName(s string) (StatName, bool) {
	for _, name := range StatNames {
		if string(name) == s {
			return name, true
		}
	}
	return "", false
}

// Stats guarda os cinco atributos base de uma criatura.
type Stats struct {
	HP             float64 `json:"hp"`
	Attack         float64 `json:"attack"`
	Defense        float64 `json:"defense"`
	SpecialAttack  float64 `json:"special-attack"`
	SpecialDefense float64 `json:"special-defense"`
}

// Get devolve o valor do atributo informado.
func (s Stats) Get(name StatName) float64 {
	switch name {
	case HP:
		return s.HP
	case Attack:
		return s.Attack
	case Defense:
		return s.Defense
	case SpecialAttack:
		return s.SpecialAttack
	case SpecialDefense:
		return s.SpecialDefense
	default:
		return 0
	}
}

// Set atribui o valor de um atributo. Nomes fora do conjunto são ignorados.
func (s *Stats) Set(name StatName, v float64) {
	switch name {
	case HP:
		s.HP = v
	case Attack:
		s.Attack = v
	case Defense:
		s.Defense = v
	case SpecialAttack:
		s.SpecialAttack = v
	case SpecialDefense:
		s.SpecialDefense = v
	}
}

// Sum é o total dos cinco atributos (base-stat-total).
func (s Stats) Sum() float64 {
	return s.HP + s.Attack + s.Defense + s.SpecialAttack + s.SpecialDefense
}

// Map expõe os atributos como mapa, útil para CEL e GraphQL.
func (s Stats) Map() map[string]float64 {
	m := make(map[string]float64, len(StatNames))
	for _, name := range StatNames {
		m[string(name)] = s.Get(name)
	}
	return m
}

// Entity é o registro desnormalizado de uma criatura.
// O total não é armazenado: é sempre derivado de Stats.
type Entity struct {
	ID    int
	Name  string
	Image string
	Stats Stats
	Price float64
}

// New monta uma Entity validando as invariantes de carga.
func New(id int, name, image string, stats Stats, price float64) (Entity, error) {
	if id <= 0 {
		return Entity{}, fmt.Errorf("id inválido: %d", id)
	}
	if name == "" {
		return Entity{}, fmt.Errorf("id %d: nome vazio", id)
	}
	for _, n := range StatNames {
		if stats.Get(n) < 0 {
			return Entity{}, fmt.Errorf("id %d: atributo %s negativo", id, n)
		}
	}
	if price < 0 {
		return Entity{}, fmt.Errorf("id %d: preço negativo", id)
	}
	return Entity{ID: id, Name: name, Image: image, Stats: stats, Price: price}, nil
}

// Total é a soma dos cinco atributos.
func (e Entity) Total() float64 {
	return e.Stats.Sum()
}

// entityJSON é o formato de saída (bst = total).
type entityJSON struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Image string  `json:"image"`
	Stats Stats   `json:"stats"`
	BST   float64 `json:"bst"`
	Price float64 `json:"price"`
}

// MarshalJSON serializa a entidade com o total derivado no campo "bst".
func (e Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(entityJSON{
		ID:    e.ID,
		Name:  e.Name,
		Image: e.Image,
		Stats: e.Stats,
		BST:   e.Total(),
		Price: e.Price,
	})
}
