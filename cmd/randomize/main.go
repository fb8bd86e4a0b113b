// Command randomize rewrites the encounter table of a game stored in a
// sqlite catalog file.
//
//	randomize -db catalog.sqlite -import game.json
//	randomize -db catalog.sqlite -game 1 -mode area -seed 42 -catch-em-all
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"encounters-server/internal/game"
	"encounters-server/internal/shared/config"
	"encounters-server/internal/shared/database"
	"encounters-server/internal/shared/logger"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "randomize:", err)
		os.Exit(1)
	}
}

type options struct {
	dbPath     string
	importPath string
	gameID     int
	logLevel   string
	request    game.RandomizeRequest
	seed       int64
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("randomize", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	s := &opts.request.Settings
	fs.StringVar(&opts.dbPath, "db", "encounters.sqlite", "sqlite catalog file")
	fs.StringVar(&opts.importPath, "import", "", "import a JSON catalog into the database and exit")
	fs.IntVar(&opts.gameID, "game", 1, "game to randomize")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")
	fs.StringVar(&opts.request.Mode, "mode", "random", "random, area, location, game or family")
	fs.Int64Var(&opts.seed, "seed", 0, "random seed; 0 picks one")

	fs.BoolVar(&s.ThemedAreas, "themed-areas", false, "give every area a type theme")
	fs.BoolVar(&s.KeepPrimaryType, "keep-primary-type", false, "replace species with ones of the same primary type")
	fs.BoolVar(&s.KeepTypeThemes, "keep-type-themes", false, "keep types already shared by an area")
	fs.BoolVar(&s.CatchEmAll, "catch-em-all", false, "place every allowed species before repeating")
	fs.BoolVar(&s.SimilarStrength, "similar-strength", false, "pick replacements of similar power")
	fs.BoolVar(&s.BalanceShakingGrass, "balance-shaking-grass", false, "match power to encounter level")
	fs.BoolVar(&s.NoLegendaries, "no-legendaries", false, "keep legendary species out")
	fs.BoolVar(&s.AllowAltFormes, "alt-formes", false, "allow alternate formes")
	fs.BoolVar(&s.BanIrregularAltFormes, "ban-irregular-alt-formes", false, "keep irregular alternate formes out")
	fs.BoolVar(&s.AbilitiesRandomized, "abilities-randomized", false, "allow ability-dependent formes")
	fs.BoolVar(&s.UseTimeBasedEncounters, "time-based", false, "include time-of-day encounter tables")
	fs.IntVar(&s.LevelModifier, "level-modifier", 0, "scale encounter levels by this percentage")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.seed != 0 {
		opts.request.Seed = &opts.seed
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	log := logger.New(stderr, config.LoggingConfig{Level: opts.logLevel})
	slog.SetDefault(log)

	db, err := database.OpenSQLite(opts.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, game.Migrations()); err != nil {
		return err
	}

	repo := game.NewRepository(db, log)

	if opts.importPath != "" {
		return importCatalog(ctx, repo, opts.importPath, stdout)
	}

	svc := game.NewService(repo, nil, game.ServiceConfig{}, log)
	result, err := svc.Randomize(ctx, opts.gameID, opts.request)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func importCatalog(ctx context.Context, repo *game.Repository, path string, stdout io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var c game.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if _, err := game.NewSnapshot(&c); err != nil {
		return fmt.Errorf("catalog %s is inconsistent: %w", path, err)
	}
	if err := repo.ImportCatalog(ctx, &c); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "imported game %d (%s): %d species, %d areas\n", c.Game.ID, c.Game.Name, len(c.Species), len(c.Areas))
	return nil
}
