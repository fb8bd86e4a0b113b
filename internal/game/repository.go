package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"encounters-server/internal/shared/database"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/species"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing game repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

const gameColumns = `
	g.id, g.name, g.target_platform,
	(SELECT COUNT(*) FROM species s WHERE s.game_id = g.id),
	(SELECT COUNT(*) FROM encounter_areas a WHERE a.game_id = g.id)`

func scanGame(row interface{ Scan(...any) error }) (Game, error) {
	var g Game
	err := row.Scan(&g.ID, &g.Name, &g.TargetPlatform, &g.SpeciesCount, &g.AreaCount)
	return g, err
}

func (r *Repository) GetAllGames(ctx context.Context) ([]Game, error) {
	logger := r.logger.With("component", "game_repository", "operation", "get_all_games")
	logger.Debug("Getting all games")

	rows, err := r.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games g ORDER BY g.id`)
	if err != nil {
		return nil, errors.WrapInternal("failed to query games", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, errors.WrapInternal("failed to scan game", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("failed to iterate games", err)
	}

	logger.Debug("Retrieved games", "count", len(games))
	return games, nil
}

func (r *Repository) GetGameByID(ctx context.Context, gameID int) (*Game, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+gameColumns+` FROM games g WHERE g.id = ?`), gameID)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("game not found with id: %d", gameID)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to get game", err)
	}
	return &g, nil
}

// LoadCatalog reads every record of a game in a stable order.
func (r *Repository) LoadCatalog(ctx context.Context, gameID int) (*Catalog, error) {
	logger := r.logger.With("component", "game_repository", "operation", "load_catalog", "game_id", gameID)

	game, err := r.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	c := &Catalog{Game: *game}
	loaders := []struct {
		name string
		load func(context.Context, *Catalog) error
	}{
		{"species", r.loadSpecies},
		{"evolutions", r.loadEvolutions},
		{"bans", r.loadBans},
		{"areas", r.loadAreas},
	}
	for _, l := range loaders {
		if err := l.load(ctx, c); err != nil {
			logger.Error("Failed to load catalog", "part", l.name, "error", err)
			return nil, errors.WrapInternal("failed to load "+l.name, err)
		}
	}

	logger.Debug("Catalog loaded",
		"species", len(c.Species),
		"evolutions", len(c.Evolutions),
		"areas", len(c.Areas))
	return c, nil
}

func (r *Repository) loadSpecies(ctx context.Context, c *Catalog) error {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, name, primary_type, secondary_type, power, legendary,
		       base_forme_id, forme_number, cosmetic_formes, cosmetic_forme_numbers
		FROM species WHERE game_id = ? ORDER BY id`), c.Game.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rec SpeciesRecord
		var primary, secondary, cosmetic string
		if err := rows.Scan(&rec.ID, &rec.Name, &primary, &secondary, &rec.Power, &rec.Legendary,
			&rec.BaseFormeID, &rec.FormeNumber, &rec.CosmeticFormes, &cosmetic); err != nil {
			return err
		}
		if rec.Primary, err = species.ParseType(primary); err != nil {
			return fmt.Errorf("species %d: %w", rec.ID, err)
		}
		if rec.Secondary, err = species.ParseType(secondary); err != nil {
			return fmt.Errorf("species %d: %w", rec.ID, err)
		}
		if rec.CosmeticFormeNumbers, err = parseInts(cosmetic); err != nil {
			return fmt.Errorf("species %d: %w", rec.ID, err)
		}
		c.Species = append(c.Species, rec)
	}
	return rows.Err()
}

func (r *Repository) loadEvolutions(ctx context.Context, c *Catalog) error {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT from_id, to_id FROM evolutions WHERE game_id = ? ORDER BY from_id, to_id`), c.Game.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var evo EvolutionRecord
		if err := rows.Scan(&evo.From, &evo.To); err != nil {
			return err
		}
		c.Evolutions = append(c.Evolutions, evo)
	}
	return rows.Err()
}

func (r *Repository) loadBans(ctx context.Context, c *Catalog) error {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT category, species_id FROM species_bans WHERE game_id = ? ORDER BY category, species_id`), c.Game.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ban BanRecord
		if err := rows.Scan(&ban.Category, &ban.SpeciesID); err != nil {
			return err
		}
		c.Bans = append(c.Bans, ban)
	}
	return rows.Err()
}

func (r *Repository) loadAreas(ctx context.Context, c *Catalog) error {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, display_name, category, map_index, location_tag, time_variant, force_multiple_species
		FROM encounter_areas WHERE game_id = ? ORDER BY id`), c.Game.ID)
	if err != nil {
		return err
	}
	index := map[int]int{}
	for rows.Next() {
		var a AreaRecord
		if err := rows.Scan(&a.ID, &a.DisplayName, &a.Category, &a.MapIndex, &a.LocationTag,
			&a.TimeVariant, &a.ForceMultipleSpecies); err != nil {
			rows.Close()
			return err
		}
		index[a.ID] = len(c.Areas)
		c.Areas = append(c.Areas, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT area_id, species_id FROM area_bans WHERE game_id = ? ORDER BY area_id, species_id`), c.Game.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var areaID, speciesID int
		if err := rows.Scan(&areaID, &speciesID); err != nil {
			rows.Close()
			return err
		}
		a := &c.Areas[index[areaID]]
		a.BannedSpeciesIDs = append(a.BannedSpeciesIDs, speciesID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT area_id, slot, species_id, forme, level, max_level
		FROM encounters WHERE game_id = ? ORDER BY area_id, slot`), c.Game.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var areaID int
		var enc EncounterRecord
		if err := rows.Scan(&areaID, &enc.Slot, &enc.SpeciesID, &enc.Forme, &enc.Level, &enc.MaxLevel); err != nil {
			return err
		}
		a := &c.Areas[index[areaID]]
		a.Encounters = append(a.Encounters, enc)
	}
	return rows.Err()
}

// ImportCatalog writes a complete catalog in one transaction. The game must
// not exist yet.
func (r *Repository) ImportCatalog(ctx context.Context, c *Catalog) error {
	logger := r.logger.With("component", "game_repository", "operation", "import_catalog", "game_id", c.Game.ID)
	logger.Info("Importing catalog", "species", len(c.Species), "areas", len(c.Areas))

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return errors.WrapInternal("failed to import catalog", err)
	}
	defer tx.Rollback()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		return err
	}

	if err := exec(`INSERT INTO games (id, name, target_platform) VALUES (?, ?, ?)`,
		c.Game.ID, c.Game.Name, c.Game.TargetPlatform); err != nil {
		return errors.WrapInternal("failed to insert game", err)
	}

	for _, s := range c.Species {
		if err := exec(`
			INSERT INTO species (game_id, id, name, primary_type, secondary_type, power, legendary,
			                     base_forme_id, forme_number, cosmetic_formes, cosmetic_forme_numbers)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Game.ID, s.ID, s.Name, s.Primary.String(), s.Secondary.String(), s.Power, s.Legendary,
			s.BaseFormeID, s.FormeNumber, s.CosmeticFormes, formatInts(s.CosmeticFormeNumbers)); err != nil {
			return errors.WrapInternal(fmt.Sprintf("failed to insert species %d", s.ID), err)
		}
	}

	for _, evo := range c.Evolutions {
		if err := exec(`INSERT INTO evolutions (game_id, from_id, to_id) VALUES (?, ?, ?)`,
			c.Game.ID, evo.From, evo.To); err != nil {
			return errors.WrapInternal(fmt.Sprintf("failed to insert evolution %d->%d", evo.From, evo.To), err)
		}
	}

	for _, ban := range c.Bans {
		if err := exec(`INSERT INTO species_bans (game_id, category, species_id) VALUES (?, ?, ?)`,
			c.Game.ID, string(ban.Category), ban.SpeciesID); err != nil {
			return errors.WrapInternal("failed to insert ban", err)
		}
	}

	for _, a := range c.Areas {
		if err := exec(`
			INSERT INTO encounter_areas (game_id, id, display_name, category, map_index, location_tag,
			                             time_variant, force_multiple_species)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Game.ID, a.ID, a.DisplayName, string(a.Category), a.MapIndex, a.LocationTag,
			a.TimeVariant, a.ForceMultipleSpecies); err != nil {
			return errors.WrapInternal(fmt.Sprintf("failed to insert area %d", a.ID), err)
		}
		for _, id := range a.BannedSpeciesIDs {
			if err := exec(`INSERT INTO area_bans (game_id, area_id, species_id) VALUES (?, ?, ?)`,
				c.Game.ID, a.ID, id); err != nil {
				return errors.WrapInternal(fmt.Sprintf("failed to insert ban for area %d", a.ID), err)
			}
		}
		for slot, enc := range a.Encounters {
			if err := exec(`
				INSERT INTO encounters (game_id, area_id, slot, species_id, forme, level, max_level)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				c.Game.ID, a.ID, slot, enc.SpeciesID, enc.Forme, enc.Level, enc.MaxLevel); err != nil {
				return errors.WrapInternal(fmt.Sprintf("failed to insert encounter %d of area %d", slot, a.ID), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapInternal("failed to commit catalog import", err)
	}

	logger.Info("Catalog imported successfully")
	return nil
}

// SaveRun writes the randomized encounter table and the run record in one
// transaction. Slots are matched by position within each area.
func (r *Repository) SaveRun(ctx context.Context, areas []AreaRecord, run *Run) error {
	logger := r.logger.With("component", "game_repository", "operation", "save_run",
		"game_id", run.GameID, "run_id", run.ID)

	settings, err := json.Marshal(run.Settings)
	if err != nil {
		return errors.WrapInternal("failed to encode run settings", err)
	}

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return errors.WrapInternal("failed to save run", err)
	}
	defer tx.Rollback()

	update := tx.Rebind(`
		UPDATE encounters SET species_id = ?, forme = ?, level = ?, max_level = ?
		WHERE game_id = ? AND area_id = ? AND slot = ?`)
	for _, a := range areas {
		for _, enc := range a.Encounters {
			res, err := tx.ExecContext(ctx, update,
				enc.SpeciesID, enc.Forme, enc.Level, enc.MaxLevel, run.GameID, a.ID, enc.Slot)
			if err != nil {
				logger.Error("Failed to update encounter", "area_id", a.ID, "slot", enc.Slot, "error", err)
				return errors.WrapInternal("failed to update encounter", err)
			}
			if n, err := res.RowsAffected(); err == nil && n != 1 {
				return errors.WrapInternal("failed to update encounter",
					fmt.Errorf("area %d slot %d: %d rows affected", a.ID, enc.Slot, n))
			}
		}
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO randomization_runs (id, game_id, mode, seed, settings, areas_processed, encounters_changed, distinct_species)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.GameID, run.Mode, run.Seed, string(settings),
		run.AreasProcessed, run.EncountersChanged, run.DistinctSpecies); err != nil {
		return errors.WrapInternal("failed to record run", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapInternal("failed to commit run", err)
	}

	logger.Info("Run saved", "areas", len(areas))
	return nil
}

func (r *Repository) GetRuns(ctx context.Context, gameID int) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, game_id, mode, seed, settings, areas_processed, encounters_changed, distinct_species
		FROM randomization_runs WHERE game_id = ? ORDER BY created_at DESC, id`), gameID)
	if err != nil {
		return nil, errors.WrapInternal("failed to query runs", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var settings string
		if err := rows.Scan(&run.ID, &run.GameID, &run.Mode, &run.Seed, &settings,
			&run.AreasProcessed, &run.EncountersChanged, &run.DistinctSpecies); err != nil {
			return nil, errors.WrapInternal("failed to scan run", err)
		}
		if err := json.Unmarshal([]byte(settings), &run.Settings); err != nil {
			return nil, errors.WrapInternal("failed to decode run settings", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("failed to iterate runs", err)
	}
	return runs, nil
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func parseInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid forme number list %q", s)
		}
		out[i] = v
	}
	return out, nil
}
