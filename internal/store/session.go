package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Counts are the per-session frame and action counters.
type Counts struct {
	Frames        int64 `json:"frames"`
	TrackedFrames int64 `json:"tracked_frames"`
	LostFrames    int64 `json:"lost_frames"`
	LeftPresses   int64 `json:"left_presses"`
	RightClicks   int64 `json:"right_clicks"`
	Scrolls       int64 `json:"scrolls"`
}

// Session is the record of one tracking run.
type Session struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Counts
}

// SessionRepository provides access to session records.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session. An empty ID is filled with a fresh UUID and a
// zero StartedAt with the current time.
func (r *SessionRepository) Create(s *Session) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, frames, tracked_frames, lost_frames,
		 left_presses, right_clicks, scrolls)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.StartedAt.UTC(), s.Frames, s.TrackedFrames, s.LostFrames,
		s.LeftPresses, s.RightClicks, s.Scrolls,
	)
	return err
}

// Finish stores the final counters and end time of a session.
func (r *SessionRepository) Finish(id string, counts Counts, endedAt time.Time) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ?, tracked_frames = ?, lost_frames = ?,
		 left_presses = ?, right_clicks = ?, scrolls = ?
		 WHERE id = ?`,
		endedAt.UTC(), counts.Frames, counts.TrackedFrames, counts.LostFrames,
		counts.LeftPresses, counts.RightClicks, counts.Scrolls, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

const sessionColumns = `id, started_at, ended_at, frames, tracked_frames, lost_frames,
	left_presses, right_clicks, scrolls`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	s := &Session{}
	var ended sql.NullTime

	err := row.Scan(&s.ID, &s.StartedAt, &ended, &s.Frames, &s.TrackedFrames, &s.LostFrames,
		&s.LeftPresses, &s.RightClicks, &s.Scrolls)
	if err != nil {
		return nil, err
	}

	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return s, nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s, err := scanSession(r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns the most recent sessions first, at most limit of them.
// A non-positive limit returns all sessions.
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
