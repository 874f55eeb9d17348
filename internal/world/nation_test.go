package world

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNationsRoundTrip(t *testing.T) {
	want := DefaultNations()
	body, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := LoadNations(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadNationsCodes(t *testing.T) {
	nations, err := LoadNations(strings.NewReader(`[{
		"name": "Fen",
		"cap_terrain": 33,
		"cap_ring_terrain": [32, 128, 4],
		"water_percentage": 0.2,
		"cave_entrance_in_ring": true
	}]`))
	require.NoError(t, err)
	require.Len(t, nations, 1)

	fen := nations[0]
	assert.Equal(t, Terrains(TerrainSwamp, TerrainSmall), fen.CapTerrain)
	assert.Equal(t, 3, fen.RingSize())
	assert.True(t, fen.CapRingTerrain[2].IsWater())
	assert.True(t, fen.IsWaterNation())
	assert.True(t, fen.CaveEntranceInRing)
	assert.False(t, fen.Island)
}

func TestLoadNationsErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool // Decodes but fails validation
	}{
		{"not json", `nations`, false},
		{"unknown field", `[{"name": "A", "cap_ring_terrain": [0], "banner": "red"}]`, false},
		{"terrain as name", `[{"name": "A", "cap_ring_terrain": ["forest"]}]`, false},
		{"empty list", `[]`, true},
		{"no name", `[{"cap_ring_terrain": [0]}]`, true},
		{"empty ring", `[{"name": "A"}]`, true},
		{"duplicate", `[{"name": "A", "cap_ring_terrain": [0]}, {"name": "A", "cap_ring_terrain": [0]}]`, true},
		{"water above one", `[{"name": "A", "cap_ring_terrain": [0], "water_percentage": 1.5}]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadNations(strings.NewReader(tt.body))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidNation)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidNation)
			}
		})
	}
}
