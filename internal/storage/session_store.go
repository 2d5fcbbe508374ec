// Package storage provides persistence for TermLog.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/termlog/termlog/internal/core"
	"github.com/termlog/termlog/internal/modes"
)

// Session is a persisted operating-mode session. The engine's in-memory
// state is rebuilt from the session's QSOs on startup; only the config
// and lifecycle live in this table.
type Session struct {
	ID         string       `json:"id"`
	Kind       modes.Kind   `json:"kind"`
	Name       string       `json:"name"`
	Config     modes.Config `json:"config"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    *time.Time   `json:"ended_at,omitempty"`
	Active     bool         `json:"active"`
	FinalScore *int         `json:"final_score,omitempty"`
}

// SessionStore handles mode-session persistence
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new session store
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create persists a new active session from a mode config, deactivating
// any session that was active before. Returns the new session.
func (s *SessionStore) Create(cfg modes.Config, name string) (*Session, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode session config: %w", err)
	}

	sess := &Session{
		ID:        uuid.NewString(),
		Kind:      cfg.Kind,
		Name:      name,
		Config:    cfg,
		StartedAt: time.Now().UTC(),
		Active:    true,
	}

	err = s.db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("UPDATE sessions SET active = 0 WHERE active = 1"); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO sessions (id, kind, name, config, started_at, active)
			VALUES (?, ?, ?, ?, ?, 1)`,
			sess.ID, string(sess.Kind), sess.Name, string(cfgJSON), sess.StartedAt,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Active returns the currently active session, or ErrSessionNotFound.
func (s *SessionStore) Active() (*Session, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, kind, name, config, started_at, ended_at, active, final_score
		FROM sessions WHERE active = 1 LIMIT 1`)
	return scanSession(row)
}

// GetByID returns a session by ID.
func (s *SessionStore) GetByID(id string) (*Session, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, kind, name, config, started_at, ended_at, active, final_score
		FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

// End deactivates a session and records its final score.
func (s *SessionStore) End(id string, finalScore int) error {
	res, err := s.db.conn.Exec(`
		UPDATE sessions SET active = 0, ended_at = ?, final_score = ?
		WHERE id = ?`, time.Now().UTC(), finalScore, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

// List returns every session, newest first.
func (s *SessionStore) List() ([]*Session, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, kind, name, config, started_at, ended_at, active, final_score
		FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func scanSession(row rowScanner) (*Session, error) {
	sess := &Session{}
	var kind, cfgJSON string
	var endedAt sql.NullTime
	var finalScore sql.NullInt64

	err := row.Scan(&sess.ID, &kind, &sess.Name, &cfgJSON,
		&sess.StartedAt, &endedAt, &sess.Active, &finalScore)
	if err == sql.ErrNoRows {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	sess.Kind = modes.Kind(kind)
	if err := json.Unmarshal([]byte(cfgJSON), &sess.Config); err != nil {
		return nil, fmt.Errorf("decode session config: %w", err)
	}
	if endedAt.Valid {
		t := endedAt.Time.UTC()
		sess.EndedAt = &t
	}
	if finalScore.Valid {
		n := int(finalScore.Int64)
		sess.FinalScore = &n
	}
	sess.StartedAt = sess.StartedAt.UTC()
	return sess, nil
}
