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
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNotFound indica que nenhum registro corresponde ao identificador.
	ErrNotFound = errors.New("creature: not found")
	// ErrDuplicateID indica dois registros com o mesmo id.
	ErrDuplicateID = errors.New("creature: duplicate id")
	// ErrDuplicateName indica dois registros com o mesmo nome (case-insensitive).
	ErrDuplicateName = errors.New("creature: duplicate name")
)

// Snapshot é a coleção imutável de entidades carregada no boot.
// Após NewSnapshot nenhum campo é alterado, portanto leituras concorrentes
// dispensam locks.
type Snapshot struct {
	ordered []Entity
	byID    map[int]int
	byName  map[string]int
}

// NewSnapshot valida unicidade de id e nome e indexa as entidades.
func NewSnapshot(entities []Entity) (*Snapshot, error) {
	ordered := make([]Entity, len(entities))
	copy(ordered, entities)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	s := &Snapshot{
		ordered: ordered,
		byID:    make(map[int]int, len(ordered)),
		byName:  make(map[string]int, len(ordered)),
	}
	for i, e := range ordered {
		if _, dup := s.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, e.ID)
		}
		key := foldName(e.Name)
		if _, dup := s.byName[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
		}
		s.byID[e.ID] = i
		s.byName[key] = i
	}
	return s, nil
}

// Count devolve o número de entidades carregadas.
func (s *Snapshot) Count() int {
	if s == nil {
		return 0
	}
	return len(s.ordered)
}

// All devolve uma cópia das entidades em ordem crescente de id.
// A cópia pode ser filtrada e ordenada pelo chamador sem afetar o snapshot.
func (s *Snapshot) All() []Entity {
	if s == nil {
		return nil
	}
	out := make([]Entity, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Get busca por id exato.
func (s *Snapshot) Get(id int) (Entity, error) {
	if s != nil {
		if i, ok := s.byID[id]; ok {
			return s.ordered[i], nil
		}
	}
	return Entity{}, ErrNotFound
}

// FindByName busca por nome, sem diferenciar maiúsculas de minúsculas.
func (s *Snapshot) FindByName(name string) (Entity, error) {
	if s != nil {
		if i, ok := s.byName[foldName(name)]; ok {
			return s.ordered[i], nil
		}
	}
	return Entity{}, ErrNotFound
}

// Lookup resolve um token de rota: inteiro é tratado como id, qualquer
// outro valor como nome.
func (s *Snapshot) Lookup(token string) (Entity, error) {
	if id, err := strconv.Atoi(token); err == nil {
		return s.Get(id)
	}
	return s.FindByName(token)
}

func foldName(name string) string {
	return strings.ToLower(name)
}
