package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/stats-api/pkg/config"
	"github.com/rs/zerolog"
)

// Configure inicializa o logger global baseando-se na configuração do YAML.
func Configure(cfg config.LoggingConf, service string) zerolog.Logger {
	return ConfigureWriter(cfg, os.Stdout, service)
}

// ConfigureWriter é Configure com destino explícito.
func ConfigureWriter(cfg config.LoggingConf, out io.Writer, service string) zerolog.Logger {
	// Define o nível de log (default: info)
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Define o output (JSON para produção, Console "bonito" para local se solicitado)
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	return ctx.Logger()
}
