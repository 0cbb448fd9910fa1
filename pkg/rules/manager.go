package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/raywall/stats-api/pkg/creature"
	"github.com/raywall/stats-api/pkg/query"
)

// RuleManager gerencia a compilação de expressões CEL sobre entidades.
//
// Variáveis disponíveis na expressão:
//
//	id     int
//	name   string
//	bst    double
//	price  double
//	stats  map(string, double)  // chaves: hp, attack, defense, special-attack, special-defense
type RuleManager struct {
	env *cel.Env
}

// NewRuleManager inicializa o ambiente CEL com as variáveis da entidade.
func NewRuleManager() (*RuleManager, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.IntType),
		cel.Variable("name", cel.StringType),
		cel.Variable("bst", cel.DoubleType),
		cel.Variable("price", cel.DoubleType),
		cel.Variable("stats", cel.MapType(cel.StringType, cel.DoubleType)),
	)
	if err != nil {
		return nil, fmt.Errorf("erro fatal CEL init: %w", err)
	}
	return &RuleManager{env: env}, nil
}

// Compile implementa query.Compiler. A expressão precisa resultar em bool.
func (rm *RuleManager) Compile(expr string) (query.Predicate, error) {
	ast, issues := rm.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("erro de compilação CEL: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expressão deve resultar em bool, obtido %s", ast.OutputType())
	}

	prg, err := rm.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar programa CEL: %w", err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

// EvaluateBool compila e avalia a expressão uma única vez.
func (rm *RuleManager) EvaluateBool(expr string, e creature.Entity) (bool, error) {
	if expr == "" {
		return true, nil // Expressão vazia = aprova
	}
	rule, err := rm.Compile(expr)
	if err != nil {
		return false, err
	}
	return rule.Match(e)
}

// Rule é uma expressão compilada, segura para uso concorrente.
type Rule struct {
	expr string
	prg  cel.Program
}

// String devolve o texto original da expressão.
func (r *Rule) String() string {
	return r.expr
}

// Match avalia a expressão contra a entidade.
func (r *Rule) Match(e creature.Entity) (bool, error) {
	out, _, err := r.prg.Eval(Activation(e))
	if err != nil {
		return false, fmt.Errorf("erro execução CEL: %w", err)
	}
	val, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("resultado não é booleano")
	}
	return val, nil
}

// Activation monta as variáveis CEL de uma entidade.
func Activation(e creature.Entity) map[string]interface{} {
	return map[string]interface{}{
		"id":    int64(e.ID),
		"name":  e.Name,
		"bst":   e.Total(),
		"price": e.Price,
		"stats": e.Stats.Map(),
	}
}
