package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PlanDate formats a time as the daily_plans date key.
func PlanDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// UpsertDailyPlan writes the ritual result for a date. One row per calendar
// date; completing the ritual again for the same date overwrites the
// priorities and intention.
func (s *Store) UpsertDailyPlan(date string, priorities []int64, intention string) (*DailyPlan, error) {
	raw, err := json.Marshal(priorities)
	if err != nil {
		return nil, fmt.Errorf("encode priorities: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO daily_plans (date, top_priorities, intention, is_completed, completed_at)
		 VALUES (?, ?, ?, 1, ?)
		 ON CONFLICT(date) DO UPDATE SET
			top_priorities = excluded.top_priorities,
			intention      = excluded.intention,
			is_completed   = 1,
			completed_at   = excluded.completed_at`,
		date, string(raw), intention, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert daily plan: %w", err)
	}
	return s.GetDailyPlan(date)
}

// SetReflection records an end-of-day reflection on an existing plan, or
// creates an incomplete plan row to hold it.
func (s *Store) SetReflection(date, reflection string) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_plans (date, reflection) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET reflection = excluded.reflection`,
		date, reflection,
	)
	if err != nil {
		return fmt.Errorf("set reflection: %w", err)
	}
	return nil
}

// GetDailyPlan returns the plan for a date, or nil when none exists.
func (s *Store) GetDailyPlan(date string) (*DailyPlan, error) {
	p := &DailyPlan{}
	var priorities string
	var completedAt sql.NullString

	err := s.db.QueryRow(
		`SELECT id, date, top_priorities, intention, reflection, is_completed, completed_at
		 FROM daily_plans WHERE date = ?`, date,
	).Scan(&p.ID, &p.Date, &priorities, &p.Intention, &p.Reflection, &p.IsCompleted, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily plan %s: %w", date, err)
	}
	if err := json.Unmarshal([]byte(priorities), &p.TopPriorities); err != nil {
		return nil, fmt.Errorf("decode priorities: %w", err)
	}
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		p.CompletedAt = &t
	}
	return p, nil
}
