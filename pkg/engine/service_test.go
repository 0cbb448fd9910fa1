package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raywall/stats-api/pkg/config"
	"github.com/raywall/stats-api/pkg/creature"
	"github.com/raywall/stats-api/pkg/dataset"
	"github.com/raywall/stats-api/pkg/query"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(t *testing.T) *creature.Snapshot {
	t.Helper()
	snap, err := creature.NewSnapshot([]creature.Entity{
		{ID: 1, Name: "bulbasaur", Stats: creature.Stats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65}, Price: 100},
		{ID: 4, Name: "charmander", Stats: creature.Stats{HP: 39, Attack: 52, Defense: 43, SpecialAttack: 60, SpecialDefense: 50}, Price: 0},
		{ID: 25, Name: "pikachu", Stats: creature.Stats{HP: 35, Attack: 55, Defense: 40, SpecialAttack: 50, SpecialDefense: 50}, Price: 250},
	})
	require.NoError(t, err)
	return snap
}

func testEngine(t *testing.T, mutate func(c *config.ServiceConfig)) *ServiceEngine {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	se, err := NewWithSnapshot(cfg, testSnapshot(t), zerolog.Nop(), nil)
	require.NoError(t, err)
	return se
}

func TestServiceEngine_Lookups(t *testing.T) {
	se := testEngine(t, nil)

	e, err := se.Lookup("25")
	require.NoError(t, err)
	assert.Equal(t, "pikachu", e.Name)

	e, err = se.Lookup("Charmander")
	require.NoError(t, err)
	assert.Equal(t, 4, e.ID)

	_, err = se.Lookup("mew")
	assert.ErrorIs(t, err, creature.ErrNotFound)

	_, err = se.LookupID("pikachu")
	assert.ErrorIs(t, err, ErrInvalidID)

	e, err = se.LookupID("1")
	require.NoError(t, err)
	assert.Equal(t, "bulbasaur", e.Name)

	_, err = se.LookupName("25")
	assert.ErrorIs(t, err, creature.ErrNotFound, "busca por nome não interpreta ids")
}

func TestServiceEngine_List(t *testing.T) {
	se := testEngine(t, nil)

	res, err := se.List(query.Values{"sort": "attack", "order": "desc", "limit": "2"})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "pikachu", res.Data[0].Name)
	assert.Equal(t, "charmander", res.Data[1].Name)

	res, err = se.List(query.Values{"where": "price > 50.0 && stats['hp'] < 40.0"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, 25, res.Data[0].ID)

	_, err = se.List(query.Values{"hp_min": "abc"})
	assert.ErrorIs(t, err, query.ErrInvalidParameter)
}

func TestServiceEngine_ExpressionsDisabled(t *testing.T) {
	se := testEngine(t, func(c *config.ServiceConfig) { c.Query.Expressions = false })
	assert.Nil(t, se.RuleManager)

	res, err := se.List(query.Values{"where": "price > 1000.0"})
	require.NoError(t, err)
	assert.Len(t, res.Data, 3, "where é ignorado")
}

func TestServiceEngine_BudgetPicks(t *testing.T) {
	se := testEngine(t, func(c *config.ServiceConfig) { c.Query.InvalidNumbers = "ignore" })

	res, err := se.BudgetPicks(query.Values{"budget": "150"})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "charmander", res.Data[0].Name, "preço zero lidera")
	assert.Equal(t, map[string]float64{"budget": 150}, res.FiltersApplied)

	res, err = se.BudgetPicks(query.Values{"budget": "cheap"})
	require.NoError(t, err)
	assert.Len(t, res.Data, 3)
}

func TestServiceEngine_Health(t *testing.T) {
	se := testEngine(t, nil)
	fixed := se.startedAt.Add(90 * time.Second)
	se.now = func() time.Time { return fixed }

	h := se.Health()
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "stats-api", h.Service)
	assert.Equal(t, "1.0.0", h.Version)
	assert.Equal(t, 3, h.PokemonCount)
	assert.InDelta(t, 90.0, h.Uptime, 0.001)

	_, err := time.Parse(time.RFC3339, h.Timestamp)
	assert.NoError(t, err)

	all, err := se.List(query.Values{"limit": "1000"})
	require.NoError(t, err)
	assert.Equal(t, h.PokemonCount, all.Count)
}

func TestNewServiceEngine_Boot(t *testing.T) {
	dir := t.TempDir()
	for id, name := range map[int]string{1: "bulbasaur", 2: "ivysaur"} {
		doc := fmt.Sprintf(`{"id": %d, "name": %q, "stats": [{"base_stat": 50, "stat": {"name": "hp"}}]}`, id, name)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.json", id)), []byte(doc), 0o644))
	}

	cfg := config.Default()
	cfg.Service.Logging.Enabled = false
	cfg.Data.Source = dir
	cfg.Data.MaxID = 3
	cfg.Data.Prices = filepath.Join(dir, "missing.json")

	se, err := NewServiceEngine(context.Background(), cfg, "test")
	require.NoError(t, err)
	assert.Equal(t, 2, se.Count())
	assert.Equal(t, "test", se.ConfigSource)

	report := se.LoadReport()
	assert.Equal(t, 2, report.Loaded)
	assert.False(t, report.PricesLoaded)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 3, report.Skipped[0].ID)
	assert.NoError(t, se.Shutdown(context.Background()))

	t.Run("Sem dados e fatal", func(t *testing.T) {
		empty := config.Default()
		empty.Service.Logging.Enabled = false
		empty.Data.Source = t.TempDir()
		empty.Data.MaxID = 2
		empty.Data.Prices = ""

		_, err := NewServiceEngine(context.Background(), empty, "test")
		assert.ErrorIs(t, err, dataset.ErrEmptySnapshot)
	})

	t.Run("Origem de preços desconhecida nao impede o boot", func(t *testing.T) {
		cfg.Data.Prices = "ftp://prices"
		se, err := NewServiceEngine(context.Background(), cfg, "test")
		require.NoError(t, err)
		assert.Equal(t, 2, se.Count())
	})
}
