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
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NumberPolicy decide o destino de valores numéricos inválidos.
type NumberPolicy string

const (
	// PolicyReject devolve ParamError (HTTP 400).
	PolicyReject NumberPolicy = "reject"
	// PolicyIgnore trata o valor como ausente.
	PolicyIgnore NumberPolicy = "ignore"
)

// Values é o mapa de parâmetros de consulta (primeiro valor de cada chave).
type Values map[string]string

// FromURL reduz url.Values ao primeiro valor de cada chave.
func FromURL(v url.Values) Values {
	out := make(Values, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}

// Compiler transforma o texto do parâmetro "where" em um Predicate.
type Compiler interface {
	Compile(expr string) (Predicate, error)
}

// ParseOptions controla defaults e limites do parser.
type ParseOptions struct {
	DefaultLimit int
	// MaxLimit > 0 limita o tamanho da página; 0 não limita.
	MaxLimit int
	Policy   NumberPolicy
}

// Parser converte Values em Params/RankParams.
type Parser struct {
	opts     ParseOptions
	validate *validator.Validate
	compiler Compiler
}

// sortInput é validado por tags antes da resolução da chave.
type sortInput struct {
	Order string `validate:"omitempty,oneof=asc desc"`
}

// NewParser cria um parser. compiler nil desabilita o parâmetro "where".
func NewParser(opts ParseOptions, compiler Compiler) *Parser {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.Policy == "" {
		opts.Policy = PolicyReject
	}
	return &Parser{
		opts:     opts,
		validate: validator.New(),
		compiler: compiler,
	}
}

// ParseList interpreta filtros, ordenação, paginação e "where".
func (p *Parser) ParseList(v Values) (Params, error) {
	var params Params

	// 1. Filtros de faixa, na ordem canônica
	for _, d := range Filterable {
		minKey, maxKey := d.Name()+"_min", d.Name()+"_max"
		lo, err := p.number(v, minKey)
		if err != nil {
			return Params{}, err
		}
		hi, err := p.number(v, maxKey)
		if err != nil {
			return Params{}, err
		}
		if lo != nil || hi != nil {
			params.Filters = append(params.Filters, RangeFilter{Dimension: d, Min: lo, Max: hi})
		}
	}

	// 2. Ordenação
	order := strings.TrimSpace(v["order"])
	if err := p.validate.Struct(sortInput{Order: order}); err != nil {
		return Params{}, &ParamError{Param: "order", Value: order, Err: describe(err)}
	}
	if raw := v["sort"]; raw != "" {
		if order == "" {
			order = string(Asc)
		}
		params.Sort = &Sort{Key: ResolveSortKey(raw), Order: Order(order)}
	}

	// 3. Paginação
	page, err := p.page(v)
	if err != nil {
		return Params{}, err
	}
	params.Page = page

	// 4. Expressão livre
	if expr := strings.TrimSpace(v["where"]); expr != "" && p.compiler != nil {
		pred, err := p.compiler.Compile(expr)
		if err != nil {
			return Params{}, &ParamError{Param: "where", Value: expr, Err: err}
		}
		params.Where = pred
		params.WhereExpr = expr
	}

	return params, nil
}

// ParseRank interpreta "budget" e a paginação.
func (p *Parser) ParseRank(v Values) (RankParams, error) {
	budget, err := p.number(v, "budget")
	if err != nil {
		return RankParams{}, err
	}
	page, err := p.page(v)
	if err != nil {
		return RankParams{}, err
	}
	return RankParams{Budget: budget, Page: page}, nil
}

func (p *Parser) page(v Values) (Page, error) {
	page := Page{Offset: 0, Limit: p.opts.DefaultLimit}

	offset, err := p.integer(v, "offset")
	if err != nil {
		return Page{}, err
	}
	if offset != nil {
		page.Offset = *offset
	}

	limit, err := p.integer(v, "limit")
	if err != nil {
		return Page{}, err
	}
	if limit != nil {
		page.Limit = *limit
	}
	if p.opts.MaxLimit > 0 && page.Limit > p.opts.MaxLimit {
		page.Limit = p.opts.MaxLimit
	}
	return page, nil
}

// number devolve nil para ausente; valores inválidos seguem a política.
func (p *Parser) number(v Values, key string) (*float64, error) {
	raw := strings.TrimSpace(v[key])
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = errors.New("must be a finite number")
	}
	if err != nil {
		return nil, p.reject(key, raw, err)
	}
	return &f, nil
}

// integer aceita apenas inteiros não negativos.
func (p *Parser) integer(v Values, key string) (*int, error) {
	raw := strings.TrimSpace(v[key])
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err == nil {
		if verr := p.validate.Var(n, "gte=0"); verr != nil {
			err = describe(verr)
		}
	}
	if err != nil {
		return nil, p.reject(key, raw, err)
	}
	return &n, nil
}

func (p *Parser) reject(key, raw string, cause error) error {
	if p.opts.Policy == PolicyIgnore {
		return nil
	}
	return &ParamError{Param: key, Value: raw, Err: cause}
}

// describe troca a mensagem genérica do validator por algo legível.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		if e.Param() != "" {
			return fmt.Errorf("must satisfy %s=%s", e.Tag(), e.Param())
		}
		return fmt.Errorf("must satisfy %s", e.Tag())
	}
	return err
}
