// Command mapgen generates one toroidal province map and reports it.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/talgya/torus-map/internal/mapgen"
	"github.com/talgya/torus-map/internal/persistence"
	"github.com/talgya/torus-map/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(envOrDefault("LOG_LEVEL", "info")),
	}))
	slog.SetDefault(logger)

	players := envIntOrDefault("MAPGEN_PLAYERS", 4)
	provsPerPlayer := envIntOrDefault("MAPGEN_PROVS_PER_PLAYER", 12)
	seed, err := strconv.ParseInt(envOrDefault("MAPGEN_SEED", "0"), 10, 64)
	if err != nil {
		slog.Error("invalid MAPGEN_SEED", "error", err)
		os.Exit(1)
	}
	flags := mapgen.Flags{
		Teamplay:       envBoolOrDefault("MAPGEN_TEAMPLAY", false),
		ClusterWater:   envBoolOrDefault("MAPGEN_CLUSTER_WATER", false),
		ClusterIslands: envBoolOrDefault("MAPGEN_CLUSTER_ISLANDS", false),
		NaturalStarts:  envBoolOrDefault("MAPGEN_NATURAL_STARTS", false),
	}

	settings := mapgen.DefaultSettings()
	if path := os.Getenv("MAPGEN_SETTINGS"); path != "" {
		settings, err = loadSettings(path)
		if err != nil {
			slog.Error("failed to load settings", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("settings loaded", "path", path)
	}

	layout := world.NewGridLayout(players, provsPerPlayer)
	nations := world.DefaultNations()
	if path := os.Getenv("MAPGEN_NATIONS"); path != "" {
		nations, err = loadNations(path)
		if err != nil {
			slog.Error("failed to load nations", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("nations loaded", "path", path, "count", len(nations))
	}
	roster := make([]world.PlayerData, players)
	for i := range roster {
		roster[i] = world.PlayerData{Nation: nations[i%len(nations)], Team: i + 1}
		if flags.Teamplay {
			roster[i].Team = i%2 + 1
		}
	}

	slog.Info("generating map", "players", players, "width", layout.X, "height", layout.Y, "seed", seed)
	res, err := mapgen.Generate(mapgen.Input{
		Layout:   layout,
		Players:  roster,
		Settings: &settings,
		Flags:    flags,
		Seed:     seed,
		Logger:   logger,
	})
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	summary := res.Summary()
	slog.Info("map generated",
		"seed", summary.Seed,
		"nodes", summary.Nodes,
		"connections", summary.Connections,
		"cave_attempts", summary.CaveAttempts,
		"warnings", len(summary.Warnings),
	)
	for i, capital := range res.Capitals {
		slog.Info("capital",
			"player", i+1,
			"nation", capital.Nation.Name,
			"team", capital.Team,
			"x", capital.Coord.X,
			"y", capital.Coord.Y,
		)
	}
	for _, f := range summary.Features() {
		slog.Info(f.Kind, "name", f.Name, "count", f.Count)
	}

	dbPath := os.Getenv("MAPGEN_DB")
	if dbPath == "" {
		return
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	id, err := db.SaveRun(summary)
	if err != nil {
		slog.Error("failed to save run", "error", err)
		os.Exit(1)
	}
	if err := db.SaveMeta("last_run", id); err != nil {
		slog.Warn("failed to save meta", "error", err)
	}
	slog.Info("run recorded", "id", id, "path", dbPath)
}

func loadSettings(path string) (mapgen.Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return mapgen.Settings{}, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()
	return mapgen.LoadSettings(f)
}

func loadNations(path string) ([]*world.NationData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nations: %w", err)
	}
	defer f.Close()
	return world.LoadNations(f)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envBoolOrDefault(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
