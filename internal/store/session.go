package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session is the stored summary of one stream of frames.
type Session struct {
	ID          string
	Source      string
	Status      string
	LastCommand string
	Commands    int
	StartedAt   time.Time
	EndedAt     *time.Time
}

// Event is one recorded session transition.
type Event struct {
	ID        int64
	SessionID string
	Event     string
	Command   string
	Rule      string
	Status    string
	At        time.Time
}

// SessionRepository stores sessions and their events.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

const sessionColumns = `id, source, status, last_command, commands, started_at, ended_at`

func scanSession(row rowScanner) (*Session, error) {
	s := &Session{}
	var ended sql.NullTime

	if err := row.Scan(&s.ID, &s.Source, &s.Status, &s.LastCommand, &s.Commands, &s.StartedAt, &ended); err != nil {
		return nil, err
	}
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return s, nil
}

// Create inserts a new session.
func (r *SessionRepository) Create(s *Session) error {
	if s.Status == "" {
		s.Status = "active"
	}
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, source, status, started_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Source, s.Status, s.StartedAt,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// End marks a session as finished.
func (r *SessionRepository) End(id string, at time.Time) error {
	result, err := r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}
	return mustAffect(result)
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s, err := scanSession(r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// List returns the most recent sessions, newest first. A non-positive limit
// returns all sessions.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Record appends an event and updates the session summary in one transaction.
func (r *SessionRepository) Record(e *Event) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO session_events (session_id, event, command, rule, status, at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Event, e.Command, e.Rule, e.Status, e.At,
	)
	if err != nil {
		return err
	}
	if e.ID, err = result.LastInsertId(); err != nil {
		return err
	}

	counted := 0
	if e.Command != "" {
		counted = 1
	}
	result, err = tx.Exec(
		`UPDATE sessions SET status = ?, commands = commands + ?,
		 last_command = CASE WHEN ? = '' THEN last_command ELSE ? END
		 WHERE id = ?`,
		e.Status, counted, e.Command, e.Command, e.SessionID,
	)
	if err != nil {
		return err
	}
	if err := mustAffect(result); err != nil {
		return err
	}

	return tx.Commit()
}

// Events returns a session's events in the order they happened.
func (r *SessionRepository) Events(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, event, command, rule, status, at
		 FROM session_events WHERE session_id = ? ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Event, &e.Command, &e.Rule, &e.Status, &e.At); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
