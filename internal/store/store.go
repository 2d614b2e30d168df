// Package store persists save slots and fastest-win records in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"sudoku_game_go/internal/generator"
)

var (
	ErrInvalidSlot = errors.New("slot outside the valid range")
	ErrSlotEmpty   = errors.New("slot holds no save")
)

// Slot 0 is reserved for the autosave; 1..MaxSlot are the player-facing
// numbered slots.
const (
	AutosaveSlot = 0
	MaxSlot      = 3
)

// Meta is the slot metadata shown in save menus without decoding the payload.
type Meta struct {
	SessionID  string
	Difficulty generator.Difficulty
	Elapsed    time.Duration
}

// SavedGame is one occupied slot. List leaves Payload nil; Get fills it.
type SavedGame struct {
	Slot       int
	SessionID  string
	Difficulty generator.Difficulty
	Elapsed    time.Duration
	Payload    []byte
	SavedAt    time.Time
}

// BestTime is the fastest recorded win for one difficulty.
type BestTime struct {
	Difficulty generator.Difficulty
	Elapsed    time.Duration
	WonAt      time.Time
}

// Store handles SQLite database operations for saves and win records.
type Store struct {
	db *sql.DB
}

// New opens the database at path, creating and migrating it if needed.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		elapsed_ns INTEGER NOT NULL DEFAULT 0,
		payload BLOB NOT NULL,
		saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS best_times (
		difficulty TEXT PRIMARY KEY,
		elapsed_ns INTEGER NOT NULL,
		won_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func checkSlot(slot int) error {
	if slot < AutosaveSlot || slot > MaxSlot {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}

// Put writes an encoded session into a slot, overwriting any previous save.
func (s *Store) Put(slot int, payload []byte, meta Meta) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if len(payload) == 0 {
		return fmt.Errorf("slot %d: empty payload", slot)
	}
	_, err := s.db.Exec(
		`INSERT INTO saves (slot, session_id, difficulty, elapsed_ns, payload, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   session_id = excluded.session_id,
		   difficulty = excluded.difficulty,
		   elapsed_ns = excluded.elapsed_ns,
		   payload = excluded.payload,
		   saved_at = excluded.saved_at`,
		slot, meta.SessionID, meta.Difficulty.String(), int64(meta.Elapsed), payload, time.Now().UTC(),
	)
	return err
}

// Get retrieves the save in a slot, payload included.
func (s *Store) Get(slot int) (*SavedGame, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(
		`SELECT session_id, difficulty, elapsed_ns, payload, saved_at
		 FROM saves WHERE slot = ?`, slot,
	)

	sg := SavedGame{Slot: slot}
	var difficulty string
	var elapsed int64
	err := row.Scan(&sg.SessionID, &difficulty, &elapsed, &sg.Payload, &sg.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	if err != nil {
		return nil, err
	}
	d, err := generator.ParseDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("slot %d: %w", slot, err)
	}
	sg.Difficulty = d
	sg.Elapsed = time.Duration(elapsed)
	return &sg, nil
}

// List returns metadata for every occupied slot, ordered by slot number.
func (s *Store) List() ([]*SavedGame, error) {
	rows, err := s.db.Query(
		`SELECT slot, session_id, difficulty, elapsed_ns, saved_at
		 FROM saves ORDER BY slot`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saves []*SavedGame
	for rows.Next() {
		var sg SavedGame
		var difficulty string
		var elapsed int64
		if err := rows.Scan(&sg.Slot, &sg.SessionID, &difficulty, &elapsed, &sg.SavedAt); err != nil {
			return nil, err
		}
		d, err := generator.ParseDifficulty(difficulty)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", sg.Slot, err)
		}
		sg.Difficulty = d
		sg.Elapsed = time.Duration(elapsed)
		saves = append(saves, &sg)
	}
	return saves, rows.Err()
}

// Delete clears a slot. Deleting an empty slot reports ErrSlotEmpty.
func (s *Store) Delete(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	res, err := s.db.Exec(`DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	return nil
}

// RecordWin stores a finished game's time, keeping only the fastest per
// difficulty. It reports whether the time became the new best.
func (s *Store) RecordWin(d generator.Difficulty, elapsed time.Duration) (bool, error) {
	if elapsed < 0 {
		return false, fmt.Errorf("negative elapsed time %v", elapsed)
	}
	res, err := s.db.Exec(
		`INSERT INTO best_times (difficulty, elapsed_ns, won_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(difficulty) DO UPDATE SET
		   elapsed_ns = excluded.elapsed_ns,
		   won_at = excluded.won_at
		 WHERE excluded.elapsed_ns < best_times.elapsed_ns`,
		d.String(), int64(elapsed), time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BestTimes returns the fastest win per difficulty, easiest first.
// Difficulties without a recorded win are absent.
func (s *Store) BestTimes() ([]BestTime, error) {
	rows, err := s.db.Query(`SELECT difficulty, elapsed_ns, won_at FROM best_times`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDifficulty := make(map[generator.Difficulty]BestTime)
	for rows.Next() {
		var bt BestTime
		var difficulty string
		var elapsed int64
		if err := rows.Scan(&difficulty, &elapsed, &bt.WonAt); err != nil {
			return nil, err
		}
		d, err := generator.ParseDifficulty(difficulty)
		if err != nil {
			return nil, fmt.Errorf("best time: %w", err)
		}
		bt.Difficulty = d
		bt.Elapsed = time.Duration(elapsed)
		byDifficulty[d] = bt
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var best []BestTime
	for _, d := range generator.Difficulties() {
		if bt, ok := byDifficulty[d]; ok {
			best = append(best, bt)
		}
	}
	return best, nil
}
