package timerlib

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// CompletedSession is the record persisted when a timer session finishes,
// for the owning habit screen to display.
type CompletedSession struct {
	SessionId      string    `json:"session_id"`
	EntityId       string    `json:"entity_id"`
	Label          string    `json:"label"`
	Mode           TimerMode `json:"mode"`
	PlannedSeconds int64     `json:"planned_seconds,omitempty"`
	ElapsedMs      int64     `json:"elapsed_ms"`
	StartedAt      int64     `json:"started_at"`
	CompletedAt    int64     `json:"completed_at"`
	// Source records which trigger observed completion first:
	// "tick", "wake" or "rearm".
	Source string `json:"source"`
}

const historySchema = `
CREATE TABLE IF NOT EXISTS completed_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	label TEXT NOT NULL DEFAULT '',
	mode TEXT NOT NULL,
	planned_seconds INTEGER NOT NULL DEFAULT 0,
	elapsed_ms INTEGER NOT NULL DEFAULT 0,
	started_at INTEGER NOT NULL,
	completed_at INTEGER NOT NULL,
	source TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_completed_entity
	ON completed_sessions (entity_id, completed_at DESC);
`

// HistoryStore persists completed timer sessions in a SQLite database.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistoryStore opens (and if necessary creates) the history database.
func OpenHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// RecordCompletion inserts one completed-session record.
func (h *HistoryStore) RecordCompletion(rec *CompletedSession) error {
	if rec.CompletedAt == 0 {
		rec.CompletedAt = time.Now().UnixMilli()
	}
	_, err := h.db.Exec(`
        INSERT INTO completed_sessions
            (session_id, entity_id, label, mode, planned_seconds, elapsed_ms, started_at, completed_at, source)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, rec.SessionId, rec.EntityId, rec.Label, string(rec.Mode),
		rec.PlannedSeconds, rec.ElapsedMs, rec.StartedAt, rec.CompletedAt, rec.Source)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}

// List returns completed sessions, most recent first. An empty entityId
// lists across all habits. limit <= 0 defaults to 50.
func (h *HistoryStore) List(entityId string, limit int) ([]*CompletedSession, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
        SELECT session_id, entity_id, label, mode, planned_seconds, elapsed_ms, started_at, completed_at, source
        FROM completed_sessions`
	args := []any{}
	if entityId != "" {
		query += ` WHERE entity_id = ?`
		args = append(args, entityId)
	}
	query += ` ORDER BY completed_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var recs []*CompletedSession
	for rows.Next() {
		var rec CompletedSession
		var mode string
		if err := rows.Scan(&rec.SessionId, &rec.EntityId, &rec.Label, &mode,
			&rec.PlannedSeconds, &rec.ElapsedMs, &rec.StartedAt, &rec.CompletedAt, &rec.Source); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.Mode = TimerMode(mode)
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

// Close closes the underlying database.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}
