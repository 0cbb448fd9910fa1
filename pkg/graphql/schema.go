package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/raywall/stats-api/pkg/creature"
	"github.com/raywall/stats-api/pkg/query"
)

// statField lê um atributo de creature.Stats.
func statField(name creature.StatName) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.Float),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			s, _ := p.Source.(creature.Stats)
			return s.Get(name), nil
		},
	}
}

// entityField lê um valor de creature.Entity.
func entityField(t graphql.Output, get func(creature.Entity) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			e, ok := p.Source.(creature.Entity)
			if !ok {
				return nil, nil
			}
			return get(e), nil
		},
	}
}

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"hp":             statField(creature.HP),
		"attack":         statField(creature.Attack),
		"defense":        statField(creature.Defense),
		"specialAttack":  statField(creature.SpecialAttack),
		"specialDefense": statField(creature.SpecialDefense),
	},
})

var creatureType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Creature",
	Fields: graphql.Fields{
		"id":    entityField(graphql.NewNonNull(graphql.Int), func(e creature.Entity) interface{} { return e.ID }),
		"name":  entityField(graphql.NewNonNull(graphql.String), func(e creature.Entity) interface{} { return e.Name }),
		"image": entityField(graphql.String, func(e creature.Entity) interface{} { return e.Image }),
		"stats": entityField(graphql.NewNonNull(statsType), func(e creature.Entity) interface{} { return e.Stats }),
		"bst":   entityField(graphql.NewNonNull(graphql.Float), func(e creature.Entity) interface{} { return e.Total() }),
		"price": entityField(graphql.NewNonNull(graphql.Float), func(e creature.Entity) interface{} { return e.Price }),
	},
})

var sortInfoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SortInfo",
	Fields: graphql.Fields{
		"field": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"order": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var appliedFilterType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AppliedFilter",
	Fields: graphql.Fields{
		"key":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"value": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

// pageType espelha query.ListResult; o resolver entrega um page.
var pageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreaturePage",
	Fields: graphql.Fields{
		"data":           &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(creatureType)))},
		"count":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"offset":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"limit":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"filtersApplied": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(appliedFilterType)))},
		"sort":           &graphql.Field{Type: sortInfoType},
		"where":          &graphql.Field{Type: graphql.String},
	},
})

var rangeInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "RangeFilter",
	Fields: graphql.InputObjectConfigFieldMap{
		"field": &graphql.InputObjectFieldConfig{
			Type:        graphql.NewNonNull(graphql.String),
			Description: "hp, attack, defense, special-attack, special-defense, bst ou price",
		},
		"min": &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"max": &graphql.InputObjectFieldConfig{Type: graphql.Float},
	},
})

var orderEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "Order",
	Values: graphql.EnumValueConfigMap{
		"asc":  &graphql.EnumValueConfig{Value: string(query.Asc)},
		"desc": &graphql.EnumValueConfig{Value: string(query.Desc)},
	},
})

func buildSchema(r *resolver) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"creature": &graphql.Field{
				Type:        creatureType,
				Description: "Busca por id numérico ou nome (case-insensitive)",
				Args: graphql.FieldConfigArgument{
					"identifier": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.creature,
			},
			"creatures": &graphql.Field{
				Type: graphql.NewNonNull(pageType),
				Args: graphql.FieldConfigArgument{
					"filters": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(rangeInput))},
					"sort":    &graphql.ArgumentConfig{Type: graphql.String},
					"order":   &graphql.ArgumentConfig{Type: orderEnum},
					"offset":  &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int},
					"where":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.creatures,
			},
			"budgetPicks": &graphql.Field{
				Type:        graphql.NewNonNull(pageType),
				Description: "Ranking por bst/preço, decrescente",
				Args: graphql.FieldConfigArgument{
					"budget": &graphql.ArgumentConfig{Type: graphql.Float},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.budgetPicks,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}
