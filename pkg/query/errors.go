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
	"errors"
	"fmt"
)

// ErrInvalidParameter é a categoria de todos os erros de parâmetro de consulta.
var ErrInvalidParameter = errors.New("query: invalid parameter")

// ParamError é retornado quando um parâmetro de consulta não pode ser usado.
//
// Tipicamente encapsula um *strconv.NumError, um erro do validator ou um erro
// de compilação de expressão.
type ParamError struct {
	// Param é o nome do parâmetro (ex: "attack_min").
	Param string
	// Value é o valor bruto recebido.
	Value string
	// Err é a causa original.
	Err error
}

// Error retorna uma mensagem legível para o cliente.
//
// Exemplo: `invalid value "abc" for parameter "hp_min"`
func (e *ParamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid value %q for parameter %q", e.Value, e.Param)
	}
	return fmt.Sprintf("invalid value %q for parameter %q: %v", e.Value, e.Param, e.Err)
}

// Unwrap expõe a causa original.
func (e *ParamError) Unwrap() error {
	return e.Err
}

// Is faz errors.Is(err, ErrInvalidParameter) reconhecer qualquer ParamError.
func (e *ParamError) Is(target error) bool {
	return target == ErrInvalidParameter
}
