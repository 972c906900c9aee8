// Package storage provides SQLite-based persistence for save slots and
// prestige history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/space-colonies/internal/economy"
	"github.com/vovakirdan/space-colonies/internal/savegame"
	"github.com/vovakirdan/space-colonies/internal/session"
)

// Store manages the SQLite database connection for save persistence.
type Store struct {
	db *sql.DB
}

// SaveInfo describes one save slot without its payload.
type SaveInfo struct {
	Slot           string
	Catalog        string
	PrestigePoints int64
	Size           int
	UpdatedAt      time.Time
}

// PrestigeRun represents one completed prestige reset.
type PrestigeRun struct {
	ID             string
	Slot           string
	Catalog        string
	Gained         int64
	Points         int64
	LifetimeEarned float64
	CreatedAt      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			catalog TEXT NOT NULL DEFAULT '',
			payload BLOB NOT NULL,
			prestige_points INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS prestige_runs (
			id TEXT PRIMARY KEY,
			slot TEXT NOT NULL,
			catalog TEXT NOT NULL DEFAULT '',
			gained INTEGER NOT NULL,
			points INTEGER NOT NULL,
			lifetime_earned REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_prestige_runs_slot ON prestige_runs(slot, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSnapshot writes the snapshot into the slot, replacing any previous save.
func (s *Store) SaveSnapshot(slot string, snap economy.Snapshot) error {
	payload, err := savegame.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage: cannot encode save %q: %w", slot, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO saves (slot, catalog, payload, prestige_points, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   catalog = excluded.catalog,
		   payload = excluded.payload,
		   prestige_points = excluded.prestige_points,
		   updated_at = CURRENT_TIMESTAMP`,
		slot, snap.Catalog, payload, snap.PrestigePoints,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save slot %q: %w", slot, err)
	}
	return nil
}

// LoadSnapshot reads the slot. found is false when the slot does not exist.
// A payload that cannot be decoded returns an error wrapping
// savegame.ErrMalformed or savegame.ErrEmpty.
func (s *Store) LoadSnapshot(slot string) (snap economy.Snapshot, found bool, err error) {
	var payload []byte
	err = s.db.QueryRow("SELECT payload FROM saves WHERE slot = ?", slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return economy.Snapshot{}, false, nil
	}
	if err != nil {
		return economy.Snapshot{}, false, fmt.Errorf("storage: cannot load slot %q: %w", slot, err)
	}

	snap, err = savegame.Unmarshal(payload)
	if err != nil {
		return economy.Snapshot{}, true, fmt.Errorf("storage: slot %q: %w", slot, err)
	}
	return snap, true, nil
}

// ListSaves returns every slot, most recently updated first.
func (s *Store) ListSaves() ([]SaveInfo, error) {
	rows, err := s.db.Query(
		`SELECT slot, catalog, prestige_points, LENGTH(payload), updated_at
		 FROM saves
		 ORDER BY updated_at DESC, slot ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var updatedAt any
		if err := rows.Scan(&info.Slot, &info.Catalog, &info.PrestigePoints, &info.Size, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.UpdatedAt = parseTime(updatedAt)
		saves = append(saves, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return saves, nil
}

// DeleteSave removes a slot and its prestige history.
// It reports whether the slot existed.
func (s *Store) DeleteSave(slot string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM saves WHERE slot = ?", slot)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete slot %q: %w", slot, err)
	}
	if _, err := tx.Exec("DELETE FROM prestige_runs WHERE slot = ?", slot); err != nil {
		return false, fmt.Errorf("storage: cannot delete history of %q: %w", slot, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return n > 0, nil
}

// SavePrestigeRun records a prestige reset and returns its generated ID.
func (s *Store) SavePrestigeRun(run PrestigeRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO prestige_runs (id, slot, catalog, gained, points, lifetime_earned)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Slot, run.Catalog, run.Gained, run.Points, run.LifetimeEarned,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save prestige run: %w", err)
	}
	return run.ID, nil
}

// PrestigeHistory retrieves the most recent prestige runs of a slot.
func (s *Store) PrestigeHistory(slot string, limit int) ([]PrestigeRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, slot, catalog, gained, points, lifetime_earned, created_at
		 FROM prestige_runs
		 WHERE slot = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		slot, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query prestige runs: %w", err)
	}
	defer rows.Close()

	var runs []PrestigeRun
	for rows.Next() {
		var run PrestigeRun
		var createdAt any
		if err := rows.Scan(&run.ID, &run.Slot, &run.Catalog, &run.Gained, &run.Points, &run.LifetimeEarned, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		run.CreatedAt = parseTime(createdAt)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// PrestigeStats contains aggregated prestige statistics for a slot.
type PrestigeStats struct {
	Slot        string
	Runs        int
	BestGain    int64
	TotalGained int64
	LastRun     time.Time
}

// GetPrestigeStats retrieves aggregated prestige statistics for a slot.
func (s *Store) GetPrestigeStats(slot string) (*PrestigeStats, error) {
	stats := &PrestigeStats{Slot: slot}

	var lastRun any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(gained), 0), COALESCE(SUM(gained), 0), MAX(created_at)
		 FROM prestige_runs WHERE slot = ?`,
		slot,
	).Scan(&stats.Runs, &stats.BestGain, &stats.TotalGained, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get prestige stats: %w", err)
	}
	stats.LastRun = parseTime(lastRun)

	return stats, nil
}

// RecordPrestige implements session.PrestigeRecorder.
// This adapter lets a session log resets without a direct storage dependency.
func (s *Store) RecordPrestige(rec session.PrestigeRecord) error {
	_, err := s.SavePrestigeRun(PrestigeRun{
		Slot:           rec.Slot,
		Catalog:        rec.Catalog,
		Gained:         rec.Gained,
		Points:         rec.Points,
		LifetimeEarned: rec.LifetimeEarned,
	})
	return err
}

// Ensure Store implements the session collaborators
var (
	_ session.Persister        = (*Store)(nil)
	_ session.PrestigeRecorder = (*Store)(nil)
)

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
