package store

import "time"

// Block types.
const (
	BlockTask     = "task"
	BlockFocus    = "focus"
	BlockBreak    = "break"
	BlockMeeting  = "meeting"
	BlockPersonal = "personal"
)

// Recurrence holds a daily repetition rule. Only frequency "daily" with
// interval 1 is supported.
type Recurrence struct {
	Frequency string
	Interval  int
}

type TimeBlock struct {
	ID            int64
	Title         string
	Description   string
	StartTime     time.Time
	EndTime       time.Time
	BlockType     string
	Color         string
	IsRecurring   bool
	Recurrence    *Recurrence
	ParentBlockID *int64
	BufferMinutes int
	EnergyLevel   string
	CompletedAt   *time.Time
	ReminderMin   int
	CreatedAt     time.Time
}

// Duration returns the block length.
func (b TimeBlock) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// Completed reports whether the block has been marked done.
func (b TimeBlock) Completed() bool {
	return b.CompletedAt != nil
}

// FamilyRoot returns the id of the block's recurring family root: the parent
// if one is set, otherwise the block itself.
func (b TimeBlock) FamilyRoot() int64 {
	if b.ParentBlockID != nil {
		return *b.ParentBlockID
	}
	return b.ID
}

type DailyPlan struct {
	ID            int64
	Date          string // YYYY-MM-DD
	TopPriorities []int64
	Intention     string
	Reflection    string
	IsCompleted   bool
	CompletedAt   *time.Time
}

type PomodoroSession struct {
	ID           int64
	TimeBlockID  *int64
	Phase        string // work, break, long_break
	DurationSecs int
	StartedAt    time.Time
	EndedAt      *time.Time
	WasCompleted bool
}

// Task is a read-only row from the todo source, consumed by the planning
// ritual's review and prioritize steps.
type Task struct {
	ID        int64
	Title     string
	Completed bool
	Priority  string
	DueTime   *time.Time
}

type Setting struct {
	Key   string
	Value string
}

// BlockFilter narrows block list queries.
type BlockFilter struct {
	From      *time.Time
	To        *time.Time
	Type      string
	Recurring *bool
}

// FocusSummary aggregates completed focus seconds per day for reports.
type FocusSummary struct {
	Date         string
	TotalSeconds int64
	SessionCount int
}
