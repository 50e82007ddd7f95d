// Package snapshot persists the normalized chapter state to a local sqlite
// file so a restart begins warm instead of empty. Load history is deliberately
// not persisted: a fresh process must re-verify staleness against the server.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/metrics"
)

// State is the full persisted view of the caches.
type State struct {
	Users      []chapter.User
	Events     []chapter.Event
	Attendance []chapter.AttendanceRecord
	Excuses    []chapter.ExcuseRecord
	Points     map[string]chapter.PointLedger
	Candidates []voting.Candidate
	Sessions   []voting.Session
	Votes      []voting.Vote
}

// Store reads and writes snapshots.
type Store struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string, logger *logging.ChanneledLogger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	store := &Store{db: db, logger: logger}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	for _, tableSQL := range tables {
		if _, err := s.db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}
	return nil
}

// Save replaces the stored snapshot with state, atomically.
func (s *Store) Save(state State) error {
	err := s.save(state)
	if err != nil {
		metrics.SnapshotWrites.WithLabelValues(metrics.OutcomeError).Inc()
		if s.logger != nil {
			s.logger.Cache().Error("Snapshot save failed", "error", err.Error())
		}
		return err
	}
	metrics.SnapshotWrites.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}

func (s *Store) save(state State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceRows(tx, "users", keyedPayloads(state.Users, func(u chapter.User) string { return u.Email })); err != nil {
		return err
	}
	if err := replaceRows(tx, "events", keyedPayloads(state.Events, func(e chapter.Event) string { return e.ID })); err != nil {
		return err
	}
	if err := replaceRows(tx, "attendance", keyedPayloads(state.Attendance, func(r chapter.AttendanceRecord) string { return r.ID })); err != nil {
		return err
	}
	if err := replaceRows(tx, "excuses", keyedPayloads(state.Excuses, func(r chapter.ExcuseRecord) string { return r.ID })); err != nil {
		return err
	}

	ledgers := make([]row, 0, len(state.Points))
	for email, ledger := range state.Points {
		payload, err := json.Marshal(ledger)
		if err != nil {
			return fmt.Errorf("failed to encode point ledger: %w", err)
		}
		ledgers = append(ledgers, row{id: email, payload: payload})
	}
	if err := replaceRows(tx, "points", ledgers); err != nil {
		return err
	}

	if err := replaceRows(tx, "candidates", keyedPayloads(state.Candidates, func(c voting.Candidate) string { return c.ID })); err != nil {
		return err
	}
	if err := replaceRows(tx, "sessions", keyedPayloads(state.Sessions, func(v voting.Session) string { return v.ID })); err != nil {
		return err
	}
	if err := replaceRows(tx, "votes", keyedPayloads(state.Votes, func(v voting.Vote) string { return v.Key() })); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. An empty database yields an empty State.
func (s *Store) Load() (State, error) {
	state := State{Points: make(map[string]chapter.PointLedger)}

	if err := loadRows(s.db, "users", &state.Users); err != nil {
		return State{}, err
	}
	if err := loadRows(s.db, "events", &state.Events); err != nil {
		return State{}, err
	}
	if err := loadRows(s.db, "attendance", &state.Attendance); err != nil {
		return State{}, err
	}
	if err := loadRows(s.db, "excuses", &state.Excuses); err != nil {
		return State{}, err
	}
	if err := loadRows(s.db, "candidates", &state.Candidates); err != nil {
		return State{}, err
	}
	if err := loadRows(s.db, "sessions", &state.Sessions); err != nil {
		return State{}, err
	}
	if err := loadRows(s.db, "votes", &state.Votes); err != nil {
		return State{}, err
	}

	rows, err := s.db.Query("SELECT id, payload FROM points")
	if err != nil {
		return State{}, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var email string
		var payload []byte
		if err := rows.Scan(&email, &payload); err != nil {
			return State{}, fmt.Errorf("failed to scan point ledger: %w", err)
		}
		var ledger chapter.PointLedger
		if err := json.Unmarshal(payload, &ledger); err != nil {
			return State{}, fmt.Errorf("failed to decode point ledger: %w", err)
		}
		state.Points[email] = ledger
	}
	if err := rows.Err(); err != nil {
		return State{}, err
	}

	return state, nil
}

type row struct {
	id      string
	payload []byte
}

func keyedPayloads[T any](items []T, keyFn func(T) string) []row {
	rows := make([]row, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			continue
		}
		rows = append(rows, row{id: keyFn(item), payload: payload})
	}
	return rows
}

func replaceRows(tx *sql.Tx, table string, rows []row) error {
	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	for _, r := range rows {
		if _, err := tx.Exec("INSERT INTO "+table+" (id, payload) VALUES (?, ?)", r.id, string(r.payload)); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

func loadRows[T any](db *sql.DB, table string, out *[]T) error {
	rows, err := db.Query("SELECT payload FROM " + table)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		var item T
		if err := json.Unmarshal(payload, &item); err != nil {
			return fmt.Errorf("failed to decode %s row: %w", table, err)
		}
		*out = append(*out, item)
	}
	return rows.Err()
}

// One table per entity kind; rows carry the entity as a JSON payload so the
// schema never chases struct changes.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, payload TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS events (id TEXT PRIMARY KEY, payload TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS attendance (id TEXT PRIMARY KEY, payload TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS excuses (id TEXT PRIMARY KEY, payload TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS points (id TEXT PRIMARY KEY, payload TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS candidates (id TEXT PRIMARY KEY, payload TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS sessions (id TEXT PRIMARY KEY, payload TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS votes (id TEXT PRIMARY KEY, payload TEXT NOT NULL)`,
}
