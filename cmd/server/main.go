package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/stats-api/pkg/engine"
	"github.com/raywall/stats-api/pkg/transport"
	"github.com/rs/zerolog/log"
)

var (
	configPath string
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = func(handler interface{}) { lambda.Start(handler) }
)

func init() {
	// Vazio = configuração embutida
	configPath = os.Getenv("CONFIG_FILE_PATH")
}

func main() {
	if err := run(context.Background(), configPath); err != nil {
		log.Error().Str("event", "initialization_failed").Str("config", configPath).Err(err).Msg("Falha ao iniciar o serviço")
		os.Exit(1)
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, cfgPath string) error {
	// 1. Carrega Configuração (Loader)
	cfg, err := engine.Load(ctx, cfgPath)
	if err != nil {
		return err
	}

	// 2. Inicializa Engine (carga do snapshot)
	svcEngine, err := engine.NewServiceEngine(ctx, cfg, cfgPath)
	if err != nil {
		return err
	}

	// 3. Seleciona Runtime Strategy
	switch cfg.Service.Runtime {
	case "local", "ec2", "ecs", "eks":
		return serverStarter(svcEngine)
	case "lambda":
		handler, err := transport.NewLambdaHandler(svcEngine)
		if err != nil {
			return err
		}
		lambdaStarter(handler.Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Service.Runtime)
	}
}
