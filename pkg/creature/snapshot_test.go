package creature

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntity(t *testing.T, id int, name string, stats Stats, price float64) Entity {
	t.Helper()
	e, err := New(id, name, "img/"+name+".png", stats, price)
	require.NoError(t, err)
	return e
}

func TestEntity_Total(t *testing.T) {
	e := Entity{ID: 1, Name: "bulbasaur", Stats: Stats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65}}
	assert.Equal(t, 273.0, e.Total())

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 273.0, body["bst"])
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, 65.0, stats["special-attack"])
	assert.Equal(t, 65.0, stats["special-defense"])
}

func TestNew_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		eName   string
		stats   Stats
		price   float64
		wantErr bool
	}{
		{name: "Valido", id: 1, eName: "bulbasaur", stats: Stats{HP: 1}, price: 0},
		{name: "Id zero", id: 0, eName: "x", wantErr: true},
		{name: "Nome vazio", id: 2, eName: "", wantErr: true},
		{name: "Atributo negativo", id: 3, eName: "y", stats: Stats{Defense: -1}, wantErr: true},
		{name: "Preco negativo", id: 4, eName: "z", price: -10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.eName, "", tt.stats, tt.price)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSnapshot_Lookup(t *testing.T) {
	snap, err := NewSnapshot([]Entity{
		mustEntity(t, 4, "charmander", Stats{HP: 39}, 50),
		mustEntity(t, 1, "Bulbasaur", Stats{HP: 45}, 100),
	})
	require.NoError(t, err)

	t.Run("Ordem por id", func(t *testing.T) {
		all := snap.All()
		require.Len(t, all, 2)
		assert.Equal(t, 1, all[0].ID)
		assert.Equal(t, 4, all[1].ID)
	})

	t.Run("Id e nome devolvem a mesma entidade", func(t *testing.T) {
		byID, err := snap.Lookup("1")
		require.NoError(t, err)
		byName, err := snap.Lookup("BULBASAUR")
		require.NoError(t, err)
		assert.Equal(t, byID, byName)
	})

	t.Run("Inexistentes", func(t *testing.T) {
		_, err := snap.Lookup("99999")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = snap.Lookup("missingno")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("All devolve copia", func(t *testing.T) {
		all := snap.All()
		all[0].Name = "mutado"
		again, _ := snap.Get(1)
		assert.Equal(t, "Bulbasaur", again.Name)
	})
}

func TestNewSnapshot_Duplicates(t *testing.T) {
	_, err := NewSnapshot([]Entity{
		mustEntity(t, 1, "pikachu", Stats{}, 0),
		mustEntity(t, 1, "raichu", Stats{}, 0),
	})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = NewSnapshot([]Entity{
		mustEntity(t, 1, "pikachu", Stats{}, 0),
		mustEntity(t, 2, "PIKACHU", Stats{}, 0),
	})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestSnapshot_NilSafe(t *testing.T) {
	var snap *Snapshot
	assert.Equal(t, 0, snap.Count())
	_, err := snap.Get(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseStatName(t *testing.T) {
	name, ok := ParseStatName("special-defense")
	assert.True(t, ok)
	assert.Equal(t, SpecialDefense, name)

	_, ok = ParseStatName("speed")
	assert.False(t, ok)
}
