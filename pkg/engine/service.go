package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/raywall/stats-api/pkg/config"
	"github.com/raywall/stats-api/pkg/creature"
	"github.com/raywall/stats-api/pkg/dataset"
	"github.com/raywall/stats-api/pkg/logger"
	"github.com/raywall/stats-api/pkg/metrics"
	"github.com/raywall/stats-api/pkg/observability"
	"github.com/raywall/stats-api/pkg/query"
	"github.com/raywall/stats-api/pkg/rules"
	"github.com/rs/zerolog"
)

// ErrInvalidID indica um identificador não numérico na busca exclusiva por id.
var ErrInvalidID = errors.New("engine: invalid id")

// HealthReport é o corpo de GET /health.
type HealthReport struct {
	Status       string  `json:"status"`
	Timestamp    string  `json:"timestamp"`
	Uptime       float64 `json:"uptime"`
	Service      string  `json:"service"`
	Version      string  `json:"version"`
	PokemonCount int     `json:"pokemonCount"`
}

// ServiceEngine liga o snapshot aos processadores de consulta.
// Todos os campos são definidos na construção e apenas lidos depois.
type ServiceEngine struct {
	ConfigSource string
	Config       *config.ServiceConfig
	Logger       zerolog.Logger
	Metrics      metrics.Provider
	Recorder     *metrics.Recorder
	RuleManager  *rules.RuleManager
	Parser       *query.Parser

	snapshot  *creature.Snapshot
	report    dataset.Report
	startedAt time.Time
	now       func() time.Time
}

// NewServiceEngine executa o boot completo: logger, métricas e carga de dados.
func NewServiceEngine(ctx context.Context, cfg *config.ServiceConfig, configSource string) (*ServiceEngine, error) {
	log := logger.Configure(cfg.Service.Logging, cfg.Service.Name)

	metricProvider, err := observability.SetupMetrics(cfg.Service.Metrics, cfg.Service.Name, cfg.Service.Version)
	if err != nil {
		return nil, fmt.Errorf("falha métricas: %w", err)
	}

	snap, report, err := LoadSnapshot(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	se, err := NewWithSnapshot(cfg, snap, log, metricProvider)
	if err != nil {
		return nil, err
	}
	se.ConfigSource = configSource
	se.report = report

	se.Record(metrics.EntitiesLoaded, float64(report.Loaded))
	se.Record(metrics.EntitiesSkip, float64(len(report.Skipped)))
	if !report.PricesLoaded {
		se.Record(metrics.PricesMissing, 1)
	}
	return se, nil
}

// LoadSnapshot resolve as origens configuradas e executa a carga.
func LoadSnapshot(ctx context.Context, cfg *config.ServiceConfig, log zerolog.Logger) (*creature.Snapshot, dataset.Report, error) {
	docs, err := dataset.OpenDocuments(ctx, cfg.Data.Source, cfg.Service.Region)
	if err != nil {
		return nil, dataset.Report{}, fmt.Errorf("falha origem de documentos: %w", err)
	}
	prices, err := dataset.OpenPrices(ctx, cfg.Data.Prices, cfg.Service.Region)
	if err != nil {
		// Tabela de preços nunca impede o boot
		log.Warn().Str("event", "prices_load_failed").Str("source", cfg.Data.Prices).Err(err).Msg("Origem de preços inválida, usando preço 0")
		prices = nil
	}

	snap, report, err := dataset.Load(ctx, dataset.Options{
		Documents:  docs,
		Prices:     prices,
		MaxID:      cfg.Data.MaxID,
		Workers:    cfg.Data.Workers,
		AllowEmpty: cfg.Data.AllowEmpty,
	}, log)
	if err != nil {
		return nil, report, fmt.Errorf("falha na carga de dados: %w", err)
	}
	return snap, report, nil
}

// NewWithSnapshot monta o engine sobre um snapshot já carregado.
func NewWithSnapshot(cfg *config.ServiceConfig, snap *creature.Snapshot, log zerolog.Logger, provider metrics.Provider) (*ServiceEngine, error) {
	if provider == nil {
		provider = &observability.NoopProvider{}
	}

	var (
		rm       *rules.RuleManager
		compiler query.Compiler
	)
	if cfg.Query.Expressions {
		var err error
		rm, err = rules.NewRuleManager()
		if err != nil {
			return nil, fmt.Errorf("falha fatal ao iniciar RuleManager: %w", err)
		}
		compiler = rm
	}

	parser := query.NewParser(query.ParseOptions{
		DefaultLimit: cfg.Query.DefaultLimit,
		MaxLimit:     cfg.Query.MaxLimit,
		Policy:       query.NumberPolicy(cfg.Query.InvalidNumbers),
	}, compiler)

	return &ServiceEngine{
		Config:      cfg,
		Logger:      log,
		Metrics:     provider,
		Recorder:    metrics.NewRecorder(provider),
		RuleManager: rm,
		Parser:      parser,
		snapshot:    snap,
		report:      dataset.Report{Loaded: snap.Count(), Skipped: []dataset.Skipped{}},
		startedAt:   time.Now(),
		now:         time.Now,
	}, nil
}

// List aplica filtros, ordenação e paginação sobre o snapshot.
func (se *ServiceEngine) List(v query.Values) (query.ListResult, error) {
	params, err := se.Parser.ParseList(v)
	if err != nil {
		return query.ListResult{}, err
	}
	return query.List(se.snapshot.All(), params)
}

// BudgetPicks devolve o ranking de custo-benefício.
func (se *ServiceEngine) BudgetPicks(v query.Values) (query.ListResult, error) {
	params, err := se.Parser.ParseRank(v)
	if err != nil {
		return query.ListResult{}, err
	}
	return query.Rank(se.snapshot.All(), params), nil
}

// Lookup resolve id ou nome.
func (se *ServiceEngine) Lookup(identifier string) (creature.Entity, error) {
	return se.snapshot.Lookup(identifier)
}

// LookupID aceita apenas ids inteiros.
func (se *ServiceEngine) LookupID(raw string) (creature.Entity, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return creature.Entity{}, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return se.snapshot.Get(id)
}

// LookupName busca apenas por nome (case-insensitive).
func (se *ServiceEngine) LookupName(name string) (creature.Entity, error) {
	return se.snapshot.FindByName(name)
}

// Count é o número de entidades carregadas.
func (se *ServiceEngine) Count() int {
	return se.snapshot.Count()
}

// LoadReport devolve o resumo da carga.
func (se *ServiceEngine) LoadReport() dataset.Report {
	return se.report
}

// Health monta o relatório de saúde.
func (se *ServiceEngine) Health() HealthReport {
	now := se.now()
	return HealthReport{
		Status:       "ok",
		Timestamp:    now.UTC().Format(time.RFC3339Nano),
		Uptime:       now.Sub(se.startedAt).Seconds(),
		Service:      se.Config.Service.Name,
		Version:      se.Config.Service.Version,
		PokemonCount: se.snapshot.Count(),
	}
}

// Shutdown libera recursos (flush das métricas).
func (se *ServiceEngine) Shutdown(ctx context.Context) error {
	if c, ok := se.Metrics.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("erro ao encerrar métricas: %w", err)
		}
	}
	return nil
}

// Record envia uma métrica; falhas são apenas registradas em debug.
func (se *ServiceEngine) Record(id string, value float64, tags ...string) {
	if err := se.Recorder.Record(id, value, tags...); err != nil {
		se.Logger.Debug().Err(err).Str("metric", id).Msg("Falha ao enviar métrica")
	}
}
