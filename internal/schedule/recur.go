package schedule

import (
	"errors"
	"fmt"
	"time"

	"blockflow/internal/store"
)

// DefaultHorizonDays is how far ahead a recurring spec is materialized.
const DefaultHorizonDays = 30

// ErrPartialFamilyDelete reports that a family's instances were removed but
// the root row was not. The root stays deletable by id on retry.
var ErrPartialFamilyDelete = errors.New("family instances deleted but root remains")

// RecurringSpec describes one daily-recurring block to materialize.
type RecurringSpec struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	BlockType   string
	Color       string
	ReminderMin int
	Recurrence  store.Recurrence
}

// blockStore is the slice of the store the materializer needs. *store.Store
// satisfies it; tests substitute failure modes.
type blockStore interface {
	GetSettingInt(key string, fallback int) int
	GetBlock(id int64) (*store.TimeBlock, error)
	InsertFamily(instances []store.TimeBlock) (rootID int64, count int, err error)
	DeleteBlock(id int64) error
	DeleteBlocksByParent(rootID int64) (int64, error)
	PromoteFamilyRoot(oldRoot int64) (int64, error)
}

// Materializer expands recurring specs into dated block rows.
type Materializer struct {
	store blockStore
	now   func() time.Time
}

func NewMaterializer(s *store.Store) *Materializer {
	return &Materializer{store: s, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (m *Materializer) WithNow(now func() time.Time) *Materializer {
	m.now = now
	return m
}

// ExpandDaily derives (hour, minute) and duration from the spec's times and
// returns horizon instances on consecutive calendar days starting at from's
// local midnight. Pure: no storage involved.
func ExpandDaily(spec RecurringSpec, from time.Time, horizon int) []store.TimeBlock {
	hour, minute := spec.StartTime.Hour(), spec.StartTime.Minute()
	duration := spec.EndTime.Sub(spec.StartTime)
	midnight := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	rec := spec.Recurrence
	instances := make([]store.TimeBlock, 0, horizon)
	for i := 0; i < horizon; i++ {
		day := midnight.AddDate(0, 0, i)
		start := day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
		instances = append(instances, store.TimeBlock{
			Title:       spec.Title,
			Description: spec.Description,
			StartTime:   start,
			EndTime:     start.Add(duration),
			BlockType:   spec.BlockType,
			Color:       spec.Color,
			IsRecurring: true,
			Recurrence:  &rec,
			ReminderMin: spec.ReminderMin,
		})
	}
	return instances
}

// CreateRecurring materializes the spec across the configured horizon and
// bulk-inserts the family. The whole call fails if the insert fails; there
// is no partial-success reporting. An identical spec submitted twice makes a
// second independent family.
func (m *Materializer) CreateRecurring(spec RecurringSpec) (int, error) {
	if !spec.EndTime.After(spec.StartTime) {
		return 0, store.ErrInvalidRange
	}
	instances := ExpandDaily(spec, m.now(), m.horizon())
	_, count, err := m.store.InsertFamily(instances)
	if err != nil {
		return 0, fmt.Errorf("create recurring: %w", err)
	}
	return count, nil
}

func (m *Materializer) horizon() int {
	return m.store.GetSettingInt("recur_horizon_days", DefaultHorizonDays)
}

// DeleteFamily removes an entire recurring family given any member: the root
// if the member has no parent, otherwise the member's parent. Instances are
// deleted first, then the root; a root failure after the instances went away
// surfaces as ErrPartialFamilyDelete.
func (m *Materializer) DeleteFamily(memberID int64) error {
	member, err := m.store.GetBlock(memberID)
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	root := member.FamilyRoot()

	if _, err := m.store.DeleteBlocksByParent(root); err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	if err := m.store.DeleteBlock(root); err != nil {
		return fmt.Errorf("%w: %w", ErrPartialFamilyDelete, err)
	}
	return nil
}

// SkipInstance removes exactly one occurrence, leaving every sibling
// untouched. Skipping a family root first promotes the earliest remaining
// instance to root so the siblings stay a linked family. For a non-recurring
// block this is a plain delete.
func (m *Materializer) SkipInstance(id int64) error {
	b, err := m.store.GetBlock(id)
	if err != nil {
		return fmt.Errorf("skip instance: %w", err)
	}
	if b.IsRecurring && b.ParentBlockID == nil {
		if _, err := m.store.PromoteFamilyRoot(id); err != nil {
			return fmt.Errorf("skip instance: %w", err)
		}
	}
	return m.store.DeleteBlock(id)
}
