package rules

import (
	"testing"

	"github.com/raywall/stats-api/pkg/creature"
	"github.com/raywall/stats-api/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pikachu = creature.Entity{
	ID:   25,
	Name: "pikachu",
	Stats: creature.Stats{
		HP: 35, Attack: 55, Defense: 40, SpecialAttack: 50, SpecialDefense: 50,
	},
	Price: 120,
}

func TestRuleManager_Compile(t *testing.T) {
	rm, err := NewRuleManager()
	require.NoError(t, err)

	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{name: "Preco e total", expr: "price < 200.0 && bst >= 230.0", want: true},
		{name: "Atributo via mapa", expr: "stats['special-attack'] > 60.0", want: false},
		{name: "Id inteiro", expr: "id % 5 == 0", want: true},
		{name: "Funcoes de string", expr: "name.startsWith('pika')", want: true},
		{name: "Razao custo-beneficio", expr: "bst / price > 2.0", want: false},
		{name: "Sintaxe invalida", expr: "price <", wantErr: true},
		{name: "Variavel desconhecida", expr: "speed > 10.0", wantErr: true},
		{name: "Resultado nao booleano", expr: "bst * 2.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := rm.Compile(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, err := pred.Match(pikachu)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleManager_EvaluateBool(t *testing.T) {
	rm, err := NewRuleManager()
	require.NoError(t, err)

	ok, err := rm.EvaluateBool("", pikachu)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rm.EvaluateBool("name == 'bulbasaur'", pikachu)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRuleManager_AsQueryCompiler(t *testing.T) {
	rm, err := NewRuleManager()
	require.NoError(t, err)

	entities := []creature.Entity{
		pikachu,
		{ID: 1, Name: "bulbasaur", Stats: creature.Stats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65}, Price: 80},
	}

	parser := query.NewParser(query.ParseOptions{}, rm)
	params, err := parser.ParseList(query.Values{"where": "stats['hp'] > 40.0"})
	require.NoError(t, err)

	res, err := query.List(entities, params)
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "bulbasaur", res.Data[0].Name)
	assert.Equal(t, "stats['hp'] > 40.0", res.Where)

	_, err = parser.ParseList(query.Values{"where": "hp >"})
	assert.ErrorIs(t, err, query.ErrInvalidParameter)
}
