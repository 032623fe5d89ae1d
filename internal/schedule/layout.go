package schedule

import (
	"time"

	"blockflow/internal/store"
)

const (
	// HourHeight is the default vertical scale in pixels per hour.
	HourHeight = 60.0
	// MinBlockHeight keeps short blocks visible and clickable.
	MinBlockHeight = 30.0
	// MinutesPerDay is the full visible window.
	MinutesPerDay = 1440
)

// PlacedBlock is one block positioned on the day grid.
type PlacedBlock struct {
	Block    store.TimeBlock
	TopPx    float64
	HeightPx float64
}

// DayLayout is the rendered geometry for one day. Overlapping blocks are not
// reflowed into columns; they stack in place.
type DayLayout struct {
	Blocks      []PlacedBlock
	NowFraction float64 // fraction of total day height, valid when HasNow
	HasNow      bool
}

// Layout maps a day's blocks onto a pixel grid. The now indicator is set
// only when the viewed day is today and now falls within the 24h window.
func Layout(blocks []store.TimeBlock, day, now time.Time, hourHeight float64) DayLayout {
	if hourHeight <= 0 {
		hourHeight = HourHeight
	}

	out := DayLayout{Blocks: make([]PlacedBlock, 0, len(blocks))}
	for _, b := range blocks {
		startMin := MinutesSinceMidnight(b.StartTime)
		durMin := b.EndTime.Sub(b.StartTime).Minutes()

		height := durMin / 60 * hourHeight
		if height < MinBlockHeight {
			height = MinBlockHeight
		}
		out.Blocks = append(out.Blocks, PlacedBlock{
			Block:    b,
			TopPx:    float64(startMin) / 60 * hourHeight,
			HeightPx: height,
		})
	}

	if sameDay(day, now) {
		nowMin := MinutesSinceMidnight(now)
		if nowMin >= 0 && nowMin < MinutesPerDay {
			out.NowFraction = float64(nowMin) / MinutesPerDay
			out.HasNow = true
		}
	}
	return out
}

// MinutesSinceMidnight returns t's offset into its local day.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// SnapHalfHour snaps a candidate start time down to the nearest :00 or :30,
// used when an empty half-hour region is picked on the grid.
func SnapHalfHour(t time.Time) time.Time {
	minute := 0
	if t.Minute() >= 30 {
		minute = 30
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
