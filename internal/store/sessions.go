package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Pomodoro phases as stored.
const (
	PhaseWork      = "work"
	PhaseBreak     = "break"
	PhaseLongBreak = "long_break"
)

// StartSession opens a pomodoro session row when a tracked phase begins.
func (s *Store) StartSession(blockID *int64, phase string, durationSecs int) (*PomodoroSession, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO pomodoro_sessions (time_block_id, phase, duration_seconds, started_at)
		 VALUES (?, ?, ?, ?)`,
		blockID, phase, durationSecs, now,
	)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSession(id)
}

// FinishSession closes a session. completed is false when the phase was
// skipped or the engine was stopped before the countdown reached zero.
func (s *Store) FinishSession(id int64, completed bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE pomodoro_sessions SET ended_at = ?, was_completed = ? WHERE id = ?`,
		now, completed, id,
	)
	if err != nil {
		return fmt.Errorf("finish session %d: %w", id, err)
	}
	return nil
}

func (s *Store) GetSession(id int64) (*PomodoroSession, error) {
	p := &PomodoroSession{}
	var startedAt string
	var endedAt sql.NullString
	var blockID sql.NullInt64

	err := s.db.QueryRow(
		`SELECT id, time_block_id, phase, duration_seconds, started_at, ended_at, was_completed
		 FROM pomodoro_sessions WHERE id = ?`, id,
	).Scan(&p.ID, &blockID, &p.Phase, &p.DurationSecs, &startedAt, &endedAt, &p.WasCompleted)
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	if blockID.Valid {
		p.TimeBlockID = &blockID.Int64
	}
	p.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if endedAt.Valid {
		t, _ := time.Parse(time.RFC3339, endedAt.String)
		p.EndedAt = &t
	}
	return p, nil
}

// ListSessions returns sessions started in [from, to), newest first.
func (s *Store) ListSessions(from, to time.Time) ([]PomodoroSession, error) {
	rows, err := s.db.Query(
		`SELECT id, time_block_id, phase, duration_seconds, started_at, ended_at, was_completed
		 FROM pomodoro_sessions
		 WHERE started_at >= ? AND started_at < ?
		 ORDER BY started_at DESC`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []PomodoroSession
	for rows.Next() {
		var p PomodoroSession
		var startedAt string
		var endedAt sql.NullString
		var blockID sql.NullInt64
		if err := rows.Scan(&p.ID, &blockID, &p.Phase, &p.DurationSecs, &startedAt, &endedAt, &p.WasCompleted); err != nil {
			return nil, err
		}
		if blockID.Valid {
			p.TimeBlockID = &blockID.Int64
		}
		p.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		if endedAt.Valid {
			t, _ := time.Parse(time.RFC3339, endedAt.String)
			p.EndedAt = &t
		}
		sessions = append(sessions, p)
	}
	return sessions, rows.Err()
}

// GetFocusSummary aggregates completed work-phase seconds per day for the
// reports chart.
func (s *Store) GetFocusSummary(from, to time.Time) ([]FocusSummary, error) {
	rows, err := s.db.Query(`
		SELECT date(started_at), COALESCE(SUM(duration_seconds), 0), COUNT(*)
		FROM pomodoro_sessions
		WHERE phase = 'work' AND was_completed = 1
		  AND started_at >= ? AND started_at < ?
		GROUP BY date(started_at)
		ORDER BY date(started_at)`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("focus summary: %w", err)
	}
	defer rows.Close()

	var summaries []FocusSummary
	for rows.Next() {
		var fs FocusSummary
		if err := rows.Scan(&fs.Date, &fs.TotalSeconds, &fs.SessionCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, fs)
	}
	return summaries, rows.Err()
}
