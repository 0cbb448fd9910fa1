package graphql

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/raywall/stats-api/pkg/creature"
	"github.com/raywall/stats-api/pkg/query"
)

type resolver struct {
	svc Service
}

type appliedFilter struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// page é a forma de query.ListResult servida ao schema. Sort e Where ficam
// nil quando ausentes para resultarem em null.
type page struct {
	Data           []creature.Entity `json:"data"`
	Count          int               `json:"count"`
	Offset         int               `json:"offset"`
	Limit          int               `json:"limit"`
	FiltersApplied []appliedFilter   `json:"filtersApplied"`
	Sort           interface{}       `json:"sort"`
	Where          interface{}       `json:"where"`
}

func toPage(res query.ListResult) page {
	keys := make([]string, 0, len(res.FiltersApplied))
	for k := range res.FiltersApplied {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := page{
		Data:           res.Data,
		Count:          res.Count,
		Offset:         res.Offset,
		Limit:          res.Limit,
		FiltersApplied: make([]appliedFilter, 0, len(keys)),
	}
	for _, k := range keys {
		out.FiltersApplied = append(out.FiltersApplied, appliedFilter{Key: k, Value: res.FiltersApplied[k]})
	}
	if res.Sort != nil {
		out.Sort = *res.Sort
	}
	if res.Where != "" {
		out.Where = res.Where
	}
	return out
}

// creature devolve null quando o identificador não existe.
func (r *resolver) creature(p graphql.ResolveParams) (interface{}, error) {
	identifier, _ := p.Args["identifier"].(string)
	e, err := r.svc.Lookup(identifier)
	if errors.Is(err, creature.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *resolver) creatures(p graphql.ResolveParams) (interface{}, error) {
	v := query.Values{}

	if raw, ok := p.Args["filters"].([]interface{}); ok {
		for _, item := range raw {
			f, _ := item.(map[string]interface{})
			name, _ := f["field"].(string)
			d, ok := query.ParseDimension(name)
			if !ok {
				return nil, &query.ParamError{Param: "filters.field", Value: name, Err: fmt.Errorf("unknown field")}
			}
			setFloat(v, d.Name()+"_min", f["min"])
			setFloat(v, d.Name()+"_max", f["max"])
		}
	}
	setString(v, "sort", p.Args["sort"])
	setString(v, "order", p.Args["order"])
	setString(v, "where", p.Args["where"])
	setInt(v, "offset", p.Args["offset"])
	setInt(v, "limit", p.Args["limit"])

	res, err := r.svc.List(v)
	if err != nil {
		return nil, err
	}
	return toPage(res), nil
}

func (r *resolver) budgetPicks(p graphql.ResolveParams) (interface{}, error) {
	v := query.Values{}
	setFloat(v, "budget", p.Args["budget"])
	setInt(v, "offset", p.Args["offset"])
	setInt(v, "limit", p.Args["limit"])

	res, err := r.svc.BudgetPicks(v)
	if err != nil {
		return nil, err
	}
	return toPage(res), nil
}

// Os argumentos viram Values para passar pelo mesmo parser da API REST.

func setFloat(v query.Values, key string, arg interface{}) {
	if f, ok := arg.(float64); ok {
		v[key] = strconv.FormatFloat(f, 'f', -1, 64)
	}
}

func setInt(v query.Values, key string, arg interface{}) {
	if n, ok := arg.(int); ok {
		v[key] = strconv.Itoa(n)
	}
}

func setString(v query.Values, key string, arg interface{}) {
	if s, ok := arg.(string); ok {
		v[key] = s
	}
}
