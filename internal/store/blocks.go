package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const blockColumns = `id, title, description, start_time, end_time, block_type, color,
	is_recurring, recurrence_freq, recurrence_interval, parent_block_id,
	buffer_minutes, energy_level, completed_at, reminder_minutes_before, created_at`

// CreateBlock validates and inserts a single time block and returns the
// stored row.
func (s *Store) CreateBlock(b TimeBlock) (*TimeBlock, error) {
	if !b.EndTime.After(b.StartTime) {
		return nil, ErrInvalidRange
	}
	freq, interval := "", 0
	if b.Recurrence != nil {
		freq, interval = b.Recurrence.Frequency, b.Recurrence.Interval
	}
	res, err := s.db.Exec(
		`INSERT INTO time_blocks (title, description, start_time, end_time, block_type, color,
		 is_recurring, recurrence_freq, recurrence_interval, parent_block_id,
		 buffer_minutes, energy_level, reminder_minutes_before)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Description,
		b.StartTime.UTC().Format(time.RFC3339), b.EndTime.UTC().Format(time.RFC3339),
		b.BlockType, b.Color, b.IsRecurring, freq, interval, b.ParentBlockID,
		b.BufferMinutes, b.EnergyLevel, b.ReminderMin,
	)
	if err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetBlock(id)
}

// InsertFamily inserts a recurring family in one transaction. The first
// instance becomes the family root; every other row stores the root id as
// its parent. A failure anywhere fails the whole call.
func (s *Store) InsertFamily(instances []TimeBlock) (rootID int64, count int, err error) {
	if len(instances) == 0 {
		return 0, 0, fmt.Errorf("insert family: no instances")
	}
	for _, b := range instances {
		if !b.EndTime.After(b.StartTime) {
			return 0, 0, ErrInvalidRange
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("insert family: %w", err)
	}
	defer tx.Rollback()

	const q = `INSERT INTO time_blocks (title, description, start_time, end_time, block_type, color,
		is_recurring, recurrence_freq, recurrence_interval, parent_block_id,
		buffer_minutes, energy_level, reminder_minutes_before)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?, ?)`

	for i, b := range instances {
		freq, interval := "daily", 1
		if b.Recurrence != nil {
			freq, interval = b.Recurrence.Frequency, b.Recurrence.Interval
		}
		var parent *int64
		if i > 0 {
			parent = &rootID
		}
		res, execErr := tx.Exec(q,
			b.Title, b.Description,
			b.StartTime.UTC().Format(time.RFC3339), b.EndTime.UTC().Format(time.RFC3339),
			b.BlockType, b.Color, freq, interval, parent,
			b.BufferMinutes, b.EnergyLevel, b.ReminderMin,
		)
		if execErr != nil {
			return 0, 0, fmt.Errorf("insert family instance %d: %w", i, execErr)
		}
		if i == 0 {
			rootID, _ = res.LastInsertId()
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("insert family: %w", err)
	}
	return rootID, count, nil
}

func (s *Store) GetBlock(id int64) (*TimeBlock, error) {
	row := s.db.QueryRow(`SELECT `+blockColumns+` FROM time_blocks WHERE id = ?`, id)
	b, err := scanBlock(row)
	if err != nil {
		return nil, fmt.Errorf("get block %d: %w", id, err)
	}
	return b, nil
}

// BlocksForDay returns every block whose start falls on the given local
// calendar day, ordered by start time.
func (s *Store) BlocksForDay(day time.Time) ([]TimeBlock, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	return s.BlocksForRange(start, end)
}

// BlocksForRange returns blocks with start_time in [from, to).
func (s *Store) BlocksForRange(from, to time.Time) ([]TimeBlock, error) {
	rows, err := s.db.Query(
		`SELECT `+blockColumns+` FROM time_blocks
		 WHERE start_time >= ? AND start_time < ?
		 ORDER BY start_time`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("blocks for range: %w", err)
	}
	return collectBlocks(rows)
}

// ListBlocks returns blocks matching the filter, newest first.
func (s *Store) ListBlocks(f BlockFilter) ([]TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks WHERE 1=1`
	var args []any

	if f.From != nil {
		query += ` AND start_time >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND start_time < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	if f.Type != "" {
		query += ` AND block_type = ?`
		args = append(args, f.Type)
	}
	if f.Recurring != nil {
		query += ` AND is_recurring = ?`
		args = append(args, *f.Recurring)
	}
	query += ` ORDER BY start_time DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return collectBlocks(rows)
}

// FamilyInstances returns every member of a recurring family: the root row
// plus all rows whose parent_block_id is the root, ordered by start time.
func (s *Store) FamilyInstances(rootID int64) ([]TimeBlock, error) {
	rows, err := s.db.Query(
		`SELECT `+blockColumns+` FROM time_blocks
		 WHERE id = ? OR parent_block_id = ?
		 ORDER BY start_time`, rootID, rootID,
	)
	if err != nil {
		return nil, fmt.Errorf("family instances %d: %w", rootID, err)
	}
	return collectBlocks(rows)
}

// FindOverlapping returns blocks strictly intersecting (start, end) as open
// intervals: touching endpoints do not overlap. excludeID skips one block,
// used when rescheduling a block in place.
func (s *Store) FindOverlapping(start, end time.Time, excludeID *int64) ([]TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks
		WHERE start_time < ? AND end_time > ?`
	args := []any{end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339)}
	if excludeID != nil {
		query += ` AND id != ?`
		args = append(args, *excludeID)
	}
	query += ` ORDER BY start_time`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("find overlapping: %w", err)
	}
	return collectBlocks(rows)
}

// Reschedule moves a block to a new interval.
func (s *Store) Reschedule(id int64, start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidRange
	}
	_, err := s.db.Exec(
		`UPDATE time_blocks SET start_time = ?, end_time = ? WHERE id = ?`,
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("reschedule block %d: %w", id, err)
	}
	return nil
}

// SetBlockCompleted toggles the completion marker.
func (s *Store) SetBlockCompleted(id int64, done bool) error {
	var completedAt *string
	if done {
		now := time.Now().UTC().Format(time.RFC3339)
		completedAt = &now
	}
	_, err := s.db.Exec(`UPDATE time_blocks SET completed_at = ? WHERE id = ?`, completedAt, id)
	if err != nil {
		return fmt.Errorf("set block %d completed: %w", id, err)
	}
	return nil
}

// UpdateBlockDetails updates the editable fields that recurrence does not
// derive from.
func (s *Store) UpdateBlockDetails(id int64, title, description, blockType, color string) error {
	_, err := s.db.Exec(
		`UPDATE time_blocks SET title = ?, description = ?, block_type = ?, color = ? WHERE id = ?`,
		title, description, blockType, color, id,
	)
	if err != nil {
		return fmt.Errorf("update block %d: %w", id, err)
	}
	return nil
}

// PromoteFamilyRoot makes the earliest remaining instance the new family
// root: its parent link is cleared and every sibling is repointed at it, all
// in one transaction. Returns the new root id, or 0 when the family has no
// other members. Callers use this before deleting an old root so the rest of
// the family stays linked.
func (s *Store) PromoteFamilyRoot(oldRoot int64) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("promote family root %d: %w", oldRoot, err)
	}
	defer tx.Rollback()

	var newRoot int64
	err = tx.QueryRow(
		`SELECT id FROM time_blocks WHERE parent_block_id = ? ORDER BY start_time LIMIT 1`,
		oldRoot,
	).Scan(&newRoot)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("promote family root %d: %w", oldRoot, err)
	}

	if _, err := tx.Exec(`UPDATE time_blocks SET parent_block_id = NULL WHERE id = ?`, newRoot); err != nil {
		return 0, fmt.Errorf("promote family root %d: %w", oldRoot, err)
	}
	if _, err := tx.Exec(`UPDATE time_blocks SET parent_block_id = ? WHERE parent_block_id = ?`, newRoot, oldRoot); err != nil {
		return 0, fmt.Errorf("promote family root %d: %w", oldRoot, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("promote family root %d: %w", oldRoot, err)
	}
	return newRoot, nil
}

// DeleteBlock removes exactly one row.
func (s *Store) DeleteBlock(id int64) error {
	_, err := s.db.Exec(`DELETE FROM time_blocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete block %d: %w", id, err)
	}
	return nil
}

// DeleteBlocksByParent removes every instance pointing at the given root and
// reports how many rows went away.
func (s *Store) DeleteBlocksByParent(rootID int64) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM time_blocks WHERE parent_block_id = ?`, rootID)
	if err != nil {
		return 0, fmt.Errorf("delete family instances %d: %w", rootID, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(r rowScanner) (*TimeBlock, error) {
	b := &TimeBlock{}
	var startTime, endTime, createdAt string
	var completedAt sql.NullString
	var parentID sql.NullInt64
	var freq string
	var interval int

	err := r.Scan(&b.ID, &b.Title, &b.Description, &startTime, &endTime,
		&b.BlockType, &b.Color, &b.IsRecurring, &freq, &interval, &parentID,
		&b.BufferMinutes, &b.EnergyLevel, &completedAt, &b.ReminderMin, &createdAt)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		b.ParentBlockID = &parentID.Int64
	}
	if freq != "" {
		b.Recurrence = &Recurrence{Frequency: freq, Interval: interval}
	}
	b.StartTime, _ = time.Parse(time.RFC3339, startTime)
	b.EndTime, _ = time.Parse(time.RFC3339, endTime)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		b.CompletedAt = &t
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return b, nil
}

func collectBlocks(rows *sql.Rows) ([]TimeBlock, error) {
	defer rows.Close()
	var blocks []TimeBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}
