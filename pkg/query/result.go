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

import "github.com/raywall/stats-api/pkg/creature"

// SortInfo é o eco da ordenação aplicada.
type SortInfo struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// ListResult é o formato de resposta de listagens e do ranking.
type ListResult struct {
	Data           []creature.Entity  `json:"data"`
	Count          int                `json:"count"`
	Offset         int                `json:"offset"`
	Limit          int                `json:"limit"`
	FiltersApplied map[string]float64 `json:"filters_applied"`
	Sort           *SortInfo          `json:"sort,omitempty"`
	Where          string             `json:"where,omitempty"`
}
