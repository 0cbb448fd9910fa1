package graphql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/raywall/stats-api/pkg/creature"
	"github.com/raywall/stats-api/pkg/query"
)

// Service é o subconjunto do ServiceEngine usado pelos resolvers.
type Service interface {
	Lookup(identifier string) (creature.Entity, error)
	List(v query.Values) (query.ListResult, error)
	BudgetPicks(v query.Values) (query.ListResult, error)
}

// GraphQLEngine expõe as mesmas consultas da API REST em um schema GraphQL.
type GraphQLEngine struct {
	Schema graphql.Schema
}

// NewGraphQLEngine monta o schema sobre o serviço informado.
func NewGraphQLEngine(svc Service) (*GraphQLEngine, error) {
	if svc == nil {
		return nil, fmt.Errorf("graphql: serviço nulo")
	}
	schema, err := buildSchema(&resolver{svc: svc})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar schema graphql: %w", err)
	}
	return &GraphQLEngine{Schema: schema}, nil
}

// Execute executa uma query
func (e *GraphQLEngine) Execute(ctx context.Context, requestString string, variables map[string]interface{}) *graphql.Result {
	return e.ExecuteOperation(ctx, requestString, variables, "")
}

// ExecuteOperation executa uma operação nomeada de um documento com várias operações.
func (e *GraphQLEngine) ExecuteOperation(ctx context.Context, requestString string, variables map[string]interface{}, operationName string) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         e.Schema,
		RequestString:  requestString,
		VariableValues: variables,
		OperationName:  operationName,
		Context:        ctx,
	})
}
