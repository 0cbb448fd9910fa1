package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *ServiceConfig) error {
	// 1. Validação Estrutural (Tags do struct: required, oneof, etc)
	if err := cv.validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	// 2. Validação Semântica (Regras de negócio da configuração)
	if errs := cv.validateSemantics(cfg); len(errs) > 0 {
		return fmt.Errorf("erros de validação semântica:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *ServiceConfig) []string {
	var errs []string

	// 1. Durações
	if _, err := time.ParseDuration(cfg.Service.Timeout); err != nil {
		errs = append(errs, fmt.Sprintf("service.timeout inválido: '%s'", cfg.Service.Timeout))
	}
	if _, err := time.ParseDuration(cfg.Service.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Sprintf("service.shutdown_timeout inválido: '%s'", cfg.Service.ShutdownTimeout))
	}

	// 2. Rotas não podem colidir
	route := strings.TrimRight(cfg.Service.Route, "/")
	if route == "" {
		errs = append(errs, "service.route não pode ser '/'")
	}
	if route == HealthRoute {
		errs = append(errs, fmt.Sprintf("service.route não pode ser '%s'", HealthRoute))
	}
	if cfg.GraphQL.Enabled {
		gql := strings.TrimRight(cfg.GraphQL.Route, "/")
		switch {
		case gql == "":
			errs = append(errs, "graphql.route é obrigatório quando graphql.enabled é true")
		case gql == route || gql == HealthRoute || strings.HasPrefix(gql, route+"/"):
			errs = append(errs, fmt.Sprintf("graphql.route '%s' colide com outra rota", cfg.GraphQL.Route))
		}
	}

	// 3. Limites de página
	if cfg.Query.MaxLimit > 0 && cfg.Query.MaxLimit < cfg.Query.DefaultLimit {
		errs = append(errs, fmt.Sprintf("query.max_limit (%d) deve ser 0 ou >= query.default_limit (%d)", cfg.Query.MaxLimit, cfg.Query.DefaultLimit))
	}

	return errs
}
