package config

import "time"

// ServiceConfig representa a estrutura raiz do arquivo YAML do serviço.
type ServiceConfig struct {
	Version string         `yaml:"version" validate:"required"`
	Service ServiceDetails `yaml:"service" validate:"required"`
	Data    DataConf       `yaml:"data"`
	Query   QueryConf      `yaml:"query"`
	GraphQL GraphQLConf    `yaml:"graphql"`
}

// ServiceDetails contém os metadados e configurações de runtime do serviço.
type ServiceDetails struct {
	Name            string      `yaml:"name" validate:"required,hostname_rfc1123"`
	Version         string      `yaml:"version"`
	Runtime         string      `yaml:"runtime" env:"SERVICE_RUNTIME" validate:"required,oneof=local lambda ecs eks ec2"`
	Port            int         `yaml:"port" env:"PORT" validate:"required_unless=Runtime lambda,gte=0,lte=65535"`
	Route           string      `yaml:"route" validate:"required,startswith=/"`
	Region          string      `yaml:"region" env:"AWS_REGION"`
	Timeout         string      `yaml:"timeout" validate:"required"`          // Ex: "500ms", "2s"
	ShutdownTimeout string      `yaml:"shutdown_timeout" validate:"required"` // Ex: "10s"
	Logging         LoggingConf `yaml:"logging"`
	Metrics         MetricsConf `yaml:"metrics"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool     `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string   `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string   `yaml:"namespace"`
	Tags      []string `yaml:"tags"`
}

// DataConf descreve de onde vêm os documentos e a tabela de preços.
type DataConf struct {
	// Source: diretório local (file:// opcional) ou s3://bucket/prefixo.
	Source string `yaml:"source" env:"DATA_SOURCE" validate:"required"`
	MaxID  int    `yaml:"max_id" env:"DATA_MAX_ID" validate:"gte=1"`
	// Prices vazio = todos os preços zero.
	Prices     string `yaml:"prices" env:"PRICES_SOURCE"`
	Workers    int    `yaml:"workers" validate:"gte=0"`
	AllowEmpty bool   `yaml:"allow_empty"`
}

type QueryConf struct {
	DefaultLimit int `yaml:"default_limit" validate:"gte=1"`
	// MaxLimit 0 = sem limite.
	MaxLimit       int    `yaml:"max_limit" validate:"gte=0"`
	InvalidNumbers string `yaml:"invalid_numbers" validate:"oneof=reject ignore"`
	Expressions    bool   `yaml:"expressions"`
}

type GraphQLConf struct {
	Enabled bool   `yaml:"enabled"`
	Route   string `yaml:"route" validate:"omitempty,startswith=/"`
}

// HealthRoute é fixo, fora do prefixo configurável.
const HealthRoute = "/health"

// Default devolve a configuração embutida usada quando nenhum arquivo é informado
// e como base para o unmarshal (campos omitidos no YAML mantêm estes valores).
func Default() *ServiceConfig {
	return &ServiceConfig{
		Version: "1.0",
		Service: ServiceDetails{
			Name:            "stats-api",
			Version:         "1.0.0",
			Runtime:         "local",
			Port:            3000,
			Route:           "/pokemon",
			Timeout:         "5s",
			ShutdownTimeout: "10s",
			Logging:         LoggingConf{Enabled: true, Level: "info", Format: "json"},
			Metrics: MetricsConf{
				Datadog: DatadogConf{Namespace: "stats_api."},
			},
		},
		Data: DataConf{
			Source:  "./data/pokemon",
			MaxID:   1025,
			Prices:  "./data/pokemon-prices.json",
			Workers: 8,
		},
		Query: QueryConf{
			DefaultLimit:   20,
			InvalidNumbers: "reject",
			Expressions:    true,
		},
		GraphQL: GraphQLConf{Enabled: true, Route: "/graphql"},
	}
}

func (s ServiceDetails) GetTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

func (s ServiceDetails) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
