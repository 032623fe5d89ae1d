package schedule

import (
	"time"

	"blockflow/internal/store"
)

// Overlaps reports strict open-interval intersection: touching endpoints
// (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CheckOverlap returns every stored block intersecting (start, end),
// optionally excluding one block id when editing in place. The result is
// advisory: callers may warn and still save.
func CheckOverlap(s *store.Store, start, end time.Time, excludeID *int64) ([]store.TimeBlock, error) {
	return s.FindOverlapping(start, end, excludeID)
}
