// Package dataset monta o Snapshot de criaturas na inicialização: lê um
// documento por id em [1, MaxID] e aplica a tabela de preços opcional.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/raywall/stats-api/pkg/creature"
	"github.com/rs/zerolog"
)

var (
	// ErrEmptySnapshot indica que nenhum documento pôde ser carregado.
	ErrEmptySnapshot = errors.New("dataset: no entities loaded")
	// ErrUnsupportedSource indica um esquema de URI desconhecido.
	ErrUnsupportedSource = errors.New("dataset: unsupported source")
)

// DefaultWorkers é o paralelismo usado quando Options.Workers <= 0.
const DefaultWorkers = 8

// Options descreve uma carga.
type Options struct {
	Documents DocumentSource
	// Prices nil significa preço zero para todos.
	Prices     PriceSource
	MaxID      int
	Workers    int
	AllowEmpty bool
}

// Skipped registra um id descartado e o motivo.
type Skipped struct {
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

// Report resume a carga (exposto pelo toolkit inspect e nos logs).
type Report struct {
	Source       string    `json:"source"`
	PriceSource  string    `json:"price_source,omitempty"`
	Requested    int       `json:"requested"`
	Loaded       int       `json:"loaded"`
	Skipped      []Skipped `json:"skipped"`
	PricesLoaded bool      `json:"prices_loaded"`
	PriceEntries int       `json:"price_entries"`
	PriceError   string    `json:"price_error,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
}

type fetchResult struct {
	doc parsed
	err error
}

// Load lê todos os ids, aplica os preços e devolve o Snapshot imutável.
// Falhas por id e falhas da tabela de preços são registradas e absorvidas;
// só o cancelamento do contexto ou um snapshot vazio (sem AllowEmpty)
// interrompem a inicialização.
func Load(ctx context.Context, opts Options, log zerolog.Logger) (*creature.Snapshot, Report, error) {
	start := time.Now()
	if opts.Documents == nil {
		return nil, Report{}, fmt.Errorf("dataset: origem de documentos não configurada")
	}
	report := Report{Source: opts.Documents.Describe(), Requested: max(opts.MaxID, 0), Skipped: []Skipped{}}

	// 1. Documentos, em paralelo limitado
	results := fetchAll(ctx, opts)
	if err := ctx.Err(); err != nil {
		return nil, report, fmt.Errorf("carga interrompida: %w", err)
	}

	// 2. Tabela de preços
	prices := loadPrices(ctx, opts.Prices, &report, log)

	// 3. Montagem em ordem de id; o primeiro id com um nome vence
	entities := make([]creature.Entity, 0, len(results))
	seen := make(map[string]int, len(results))
	skip := func(id int, reason string) {
		report.Skipped = append(report.Skipped, Skipped{ID: id, Reason: reason})
		log.Warn().Str("event", "pokemon_load_failed").Int("id", id).Str("error", reason).Msg("Documento ignorado")
	}

	for i, res := range results {
		id := i + 1
		if res.err != nil {
			skip(id, res.err.Error())
			continue
		}

		folded := strings.ToLower(res.doc.name)
		if first, dup := seen[folded]; dup {
			skip(id, fmt.Sprintf("nome %q duplicado (id %d)", res.doc.name, first))
			continue
		}

		price := prices[id]
		if price < 0 {
			log.Warn().Str("event", "price_invalid").Int("id", id).Float64("price", price).Msg("Preço negativo ignorado, usando 0")
			price = 0
		}

		e, err := creature.New(res.doc.id, res.doc.name, res.doc.image, res.doc.stats, price)
		if err != nil {
			skip(id, err.Error())
			continue
		}
		seen[folded] = id
		entities = append(entities, e)
	}

	snap, err := creature.NewSnapshot(entities)
	if err != nil {
		return nil, report, fmt.Errorf("falha ao montar snapshot: %w", err)
	}

	report.Loaded = snap.Count()
	report.DurationMS = time.Since(start).Milliseconds()

	if snap.Count() == 0 && !opts.AllowEmpty {
		return nil, report, fmt.Errorf("%w (origem %s)", ErrEmptySnapshot, report.Source)
	}

	log.Info().
		Str("event", "pokemon_data_loaded").
		Int("count", report.Loaded).
		Int("skipped", len(report.Skipped)).
		Bool("prices_loaded", report.PricesLoaded).
		Int64("duration_ms", report.DurationMS).
		Msg("Dados carregados")

	return snap, report, nil
}

// fetchAll distribui os ids entre Workers goroutines. Cada posição do slice
// é escrita por uma única goroutine.
func fetchAll(ctx context.Context, opts Options) []fetchResult {
	if opts.MaxID <= 0 {
		return nil
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]fetchResult, opts.MaxID)
	ids := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				results[id-1] = fetchOne(ctx, opts.Documents, id)
			}
		}()
	}

feed:
	for id := 1; id <= opts.MaxID; id++ {
		select {
		case ids <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(ids)
	wg.Wait()
	return results
}

func fetchOne(ctx context.Context, src DocumentSource, id int) fetchResult {
	data, err := src.Fetch(ctx, id)
	if err != nil {
		return fetchResult{err: fmt.Errorf("leitura: %w", err)}
	}
	doc, err := parseDocument(id, data)
	if err != nil {
		return fetchResult{err: err}
	}
	return fetchResult{doc: doc}
}

func loadPrices(ctx context.Context, src PriceSource, report *Report, log zerolog.Logger) PriceTable {
	if src == nil {
		log.Info().Msg("Nenhuma tabela de preços configurada, usando preço 0")
		return PriceTable{}
	}
	report.PriceSource = src.Describe()

	table, err := src.Prices(ctx)
	if err != nil {
		report.PriceError = err.Error()
		log.Warn().
			Str("event", "prices_load_failed").
			Str("source", src.Describe()).
			Err(err).
			Msg("Tabela de preços ausente ou inválida, usando preço 0")
		return PriceTable{}
	}

	report.PricesLoaded = true
	report.PriceEntries = len(table)
	return table
}
