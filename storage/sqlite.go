// Package storage keeps per-run level records in SQLite, using the pure-Go
// modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/system"
	_ "modernc.org/sqlite"
)

// Store manages the SQLite connection for level records.
type Store struct {
	db *sql.DB
}

// Run is one attempt at a level, saved when it is won or abandoned.
type Run struct {
	ID        int64
	Level     string
	Deaths    int
	Jumps     int
	Ticks     int
	Won       bool
	CreatedAt time.Time
}

// PlayTime converts Ticks to wall time at the fixed tick rate.
func (r Run) PlayTime() time.Duration {
	return time.Duration(r.Ticks) * common.TickDuration
}

// LevelStats aggregates every saved run of one level.
type LevelStats struct {
	Level       string
	Runs        int
	Wins        int
	TotalDeaths int
	TotalJumps  int
	BestTicks   int // fastest win, 0 without wins
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at path. A leading ~ expands to
// the home directory; parent directories are created as needed.
func Open(path string) (*Store, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			deaths INTEGER NOT NULL DEFAULT 0,
			jumps INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level, won, deaths, ticks);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun inserts r and returns its ID.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.Level == "" {
		return 0, errors.New("storage: run without level")
	}
	res, err := s.db.Exec(
		"INSERT INTO runs (level, deaths, jumps, ticks, won) VALUES (?, ?, ?, ?, ?)",
		r.Level, r.Deaths, r.Jumps, r.Ticks, r.Won,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordEvent saves a run for won and abandoned events and ignores the
// rest. It reports whether a run was written.
func (s *Store) RecordEvent(evt system.Event) (bool, error) {
	var won bool
	switch evt.Kind {
	case system.EventWon:
		won = true
	case system.EventAbandoned:
	default:
		return false, nil
	}
	_, err := s.SaveRun(Run{
		Level:  evt.Level,
		Deaths: evt.Deaths,
		Jumps:  evt.Jumps,
		Ticks:  evt.Ticks,
		Won:    won,
	})
	return err == nil, err
}

// BestRuns returns the won runs of level, fewest deaths first and then
// fastest.
func (s *Store) BestRuns(level string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, level, deaths, jumps, ticks, won, created_at
		 FROM runs
		 WHERE level = ? AND won = 1
		 ORDER BY deaths ASC, ticks ASC, id ASC
		 LIMIT ?`,
		level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RecentRuns returns the latest runs of every level, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, level, deaths, jumps, ticks, won, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// Best implements system.Records. Lookup failures are logged and reported
// as no record.
func (s *Store) Best(level string) (system.Best, bool) {
	runs, err := s.BestRuns(level, 1)
	if err != nil {
		log.Warn("records lookup failed", "level", level, "err", err)
		return system.Best{}, false
	}
	if len(runs) == 0 {
		return system.Best{}, false
	}
	return system.Best{Deaths: runs[0].Deaths, Ticks: runs[0].Ticks}, true
}

var _ system.Records = (*Store)(nil)

// Stats aggregates the runs of level. A level without runs yields zero
// stats.
func (s *Store) Stats(level string) (*LevelStats, error) {
	stats := &LevelStats{Level: level}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(SUM(deaths), 0), COALESCE(SUM(jumps), 0),
		        COALESCE(MIN(CASE WHEN won = 1 THEN ticks END), 0), MAX(created_at)
		 FROM runs WHERE level = ?`,
		level,
	).Scan(&stats.Runs, &stats.Wins, &stats.TotalDeaths, &stats.TotalJumps, &stats.BestTicks, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// AllStats returns stats for every level with at least one run.
func (s *Store) AllStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level, COUNT(*), SUM(won), SUM(deaths), SUM(jumps),
		        COALESCE(MIN(CASE WHEN won = 1 THEN ticks END), 0), MAX(created_at)
		 FROM runs
		 GROUP BY level`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	all := make(map[string]*LevelStats)
	for rows.Next() {
		var st LevelStats
		var lastPlayed any
		if err := rows.Scan(&st.Level, &st.Runs, &st.Wins, &st.TotalDeaths, &st.TotalJumps, &st.BestTicks, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		all[st.Level] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return all, nil
}

// ClearRuns deletes every run of level.
func (s *Store) ClearRuns(level string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE level = ?", level); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Level, &r.Deaths, &r.Jumps, &r.Ticks, &r.Won, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
