package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ListTasks returns the todo source consumed by the planning ritual. Task
// editing lives outside this app; only reads and a completion mirror are
// exposed.
func (s *Store) ListTasks(includeCompleted bool) ([]Task, error) {
	query := `SELECT id, title, completed, priority, due_time FROM tasks`
	if !includeCompleted {
		query += ` WHERE completed = 0`
	}
	query += ` ORDER BY completed, priority = 'high' DESC, id`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var due sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.Priority, &due); err != nil {
			return nil, err
		}
		if due.Valid {
			d, _ := time.Parse(time.RFC3339, due.String)
			t.DueTime = &d
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(id int64) (*Task, error) {
	t := &Task{}
	var due sql.NullString
	err := s.db.QueryRow(
		`SELECT id, title, completed, priority, due_time FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &t.Completed, &t.Priority, &due)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	if due.Valid {
		d, _ := time.Parse(time.RFC3339, due.String)
		t.DueTime = &d
	}
	return t, nil
}

// AddTask inserts into the local task mirror. Used by seeding and tests.
func (s *Store) AddTask(title, priority string, due *time.Time) (*Task, error) {
	var dueStr *string
	if due != nil {
		v := due.UTC().Format(time.RFC3339)
		dueStr = &v
	}
	res, err := s.db.Exec(
		`INSERT INTO tasks (title, priority, due_time) VALUES (?, ?, ?)`,
		title, priority, dueStr,
	)
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}
