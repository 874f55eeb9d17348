package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/torus-map/internal/mapgen"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleSummary(seed int64) mapgen.Summary {
	return mapgen.Summary{
		Seed:         seed,
		Width:        8,
		Height:       6,
		Players:      4,
		Nodes:        48,
		Connections:  144,
		CaveAttempts: 2,
		Warnings:     []string{"caves: cave network still invalid after 20 attempts"},
		Terrain:      map[string]int{"forest": 7, "plains": 20, "sea": 3},
		Borders:      map[string]int{"standard": 130, "river": 9, "road": 5},
		Caves:        map[string]int{"open": 25, "wall": 15, "entrance": 8},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := openTemp(t)

	id, err := db.SaveRun(sampleSummary(42))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := db.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, 48, run.Nodes)
	assert.Equal(t, 144, run.Connections)
	assert.NotZero(t, run.CreatedAt)

	warnings, err := run.Warnings()
	require.NoError(t, err)
	assert.Equal(t, []string{"caves: cave network still invalid after 20 attempts"}, warnings)
}

func TestFeatures(t *testing.T) {
	db := openTemp(t)
	s := sampleSummary(1)
	id, err := db.SaveRun(s)
	require.NoError(t, err)

	features, err := db.Features(id)
	require.NoError(t, err)
	assert.Equal(t, s.Features(), features)
	assert.Equal(t, mapgen.Feature{Kind: "border", Name: "river", Count: 9}, features[0])
}

func TestRecentRuns(t *testing.T) {
	db := openTemp(t)
	var ids []string
	for seed := int64(1); seed <= 3; seed++ {
		id, err := db.SaveRun(sampleSummary(seed))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := db.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestGetRunMissing(t *testing.T) {
	db := openTemp(t)
	_, err := db.GetRun("missing")
	assert.Error(t, err)
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.SaveMeta("last_run", "a"))
	require.NoError(t, db.SaveMeta("last_run", "b"))

	v, err := db.GetMeta("last_run")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = db.GetMeta("nope")
	assert.Error(t, err)
}

func TestSaveRunWithoutWarnings(t *testing.T) {
	db := openTemp(t)
	s := sampleSummary(5)
	s.Warnings = nil
	id, err := db.SaveRun(s)
	require.NoError(t, err)

	run, err := db.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "[]", run.WarningsJSON)
	warnings, err := run.Warnings()
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
