package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/raywall/stats-api/pkg/engine"
	"github.com/raywall/stats-api/pkg/logger"
)

const usage = "Comandos esperados: validate | inspect (-file <config>)"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run devolve o código de saída do processo.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	cmd := flag.NewFlagSet(args[0], flag.ContinueOnError)
	cmd.SetOutput(stderr)
	filePtr := cmd.String("file", "", "Caminho do arquivo YAML ou S3/DynamoDB URI (vazio = configuração embutida)")

	var exec func(context.Context, string, io.Writer, io.Writer) error
	switch args[0] {
	case "validate":
		exec = runValidate
	case "inspect":
		exec = runInspect
	default:
		fmt.Fprintf(stderr, "Comando desconhecido: %s\n%s\n", args[0], usage)
		return 1
	}

	if err := cmd.Parse(args[1:]); err != nil {
		return 1
	}
	if err := exec(ctx, *filePtr, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}

type validationReport struct {
	Valid  bool   `json:"valid"`
	Source string `json:"source"`
	Error  string `json:"error,omitempty"`
}

// runValidate executa o loader completo: estrutura, injeção, env e semântica.
func runValidate(ctx context.Context, path string, stdout, _ io.Writer) error {
	_, err := engine.Load(ctx, path)

	// Output JSON para integração com CI
	if os.Getenv("OUTPUT_FORMAT") == "json" {
		report := validationReport{Valid: err == nil, Source: path}
		if err != nil {
			report.Error = err.Error()
		}
		out, _ := json.Marshal(report)
		fmt.Fprintln(stdout, string(out))
		if err != nil {
			return fmt.Errorf("configuração inválida")
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("erro de carregamento/validação:\n%w", err)
	}
	fmt.Fprintln(stdout, "✅ Configuração válida e pronta para deploy!")
	return nil
}

// runInspect executa a carga completa dos dados e imprime o relatório em JSON.
// Os logs da carga vão para stderr.
func runInspect(ctx context.Context, path string, stdout, stderr io.Writer) error {
	cfg, err := engine.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("erro de carregamento/validação:\n%w", err)
	}

	log := logger.ConfigureWriter(cfg.Service.Logging, stderr, cfg.Service.Name)
	_, report, loadErr := engine.LoadSnapshot(ctx, cfg, log)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("erro ao serializar relatório: %w", err)
	}
	return loadErr
}
