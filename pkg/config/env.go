package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv sobrescreve os campos com tag `env` quando a variável está definida.
// Variáveis ausentes preservam o valor vindo do YAML ou do Default.
func ApplyEnv(cfg *ServiceConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("erro ao aplicar variáveis de ambiente: %w", err)
	}
	return nil
}
