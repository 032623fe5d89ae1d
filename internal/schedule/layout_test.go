package schedule

import (
	"testing"
	"time"

	"blockflow/internal/store"
)

func blockAt(hour, minute, durationMin int) store.TimeBlock {
	start := time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
	return store.TimeBlock{
		Title:     "b",
		StartTime: start,
		EndTime:   start.Add(time.Duration(durationMin) * time.Minute),
	}
}

// ============================================================
// Overlaps
// ============================================================

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
	}

	cases := []struct {
		name           string
		aS, aE, bS, bE time.Time
		want           bool
	}{
		{"partial overlap", at(9, 0), at(10, 0), at(9, 30), at(10, 30), true},
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"containment", at(9, 0), at(12, 0), at(10, 0), at(10, 30), true},
		{"touching end-start", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching start-end", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"disjoint", at(9, 0), at(10, 0), at(14, 0), at(15, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aS, tc.aE, tc.bS, tc.bE); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			// Symmetric
			if got := Overlaps(tc.bS, tc.bE, tc.aS, tc.aE); got != tc.want {
				t.Fatalf("Overlaps not symmetric for %s", tc.name)
			}
		})
	}
}

func TestCheckOverlapAdvisory(t *testing.T) {
	s := newTestStore(t)
	existing := blockAt(9, 0, 60)
	saved, err := s.CreateBlock(existing)
	if err != nil {
		t.Fatal(err)
	}

	cand := blockAt(9, 30, 60)
	hits, err := CheckOverlap(s, cand.StartTime, cand.EndTime, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != saved.ID {
		t.Fatalf("expected the stored block as a hit, got %+v", hits)
	}

	// Overlap is advisory only: saving still succeeds
	if _, err := s.CreateBlock(cand); err != nil {
		t.Fatalf("overlapping save should succeed: %v", err)
	}
}

// ============================================================
// Layout
// ============================================================

func TestLayoutPositions(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	blocks := []store.TimeBlock{
		blockAt(9, 0, 60),   // 09:00-10:00
		blockAt(14, 30, 90), // 14:30-16:00
	}

	l := Layout(blocks, day, day, HourHeight)
	if len(l.Blocks) != 2 {
		t.Fatalf("expected 2 placed blocks, got %d", len(l.Blocks))
	}

	if l.Blocks[0].TopPx != 9*HourHeight {
		t.Fatalf("9am block top = %v, want %v", l.Blocks[0].TopPx, 9*HourHeight)
	}
	if l.Blocks[0].HeightPx != HourHeight {
		t.Fatalf("1h block height = %v, want %v", l.Blocks[0].HeightPx, HourHeight)
	}

	if l.Blocks[1].TopPx != 14.5*HourHeight {
		t.Fatalf("14:30 block top = %v, want %v", l.Blocks[1].TopPx, 14.5*HourHeight)
	}
	if l.Blocks[1].HeightPx != 1.5*HourHeight {
		t.Fatalf("90min block height = %v, want %v", l.Blocks[1].HeightPx, 1.5*HourHeight)
	}
}

func TestLayoutMinHeight(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	blocks := []store.TimeBlock{blockAt(9, 0, 15)} // would be 15px at default scale

	l := Layout(blocks, day, day, HourHeight)
	if l.Blocks[0].HeightPx != MinBlockHeight {
		t.Fatalf("short block height = %v, want clamped to %v", l.Blocks[0].HeightPx, MinBlockHeight)
	}
}

func TestLayoutNowIndicator(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) // noon

	l := Layout(nil, day, now, HourHeight)
	if !l.HasNow {
		t.Fatal("now indicator should be set for today")
	}
	if l.NowFraction != 0.5 {
		t.Fatalf("noon fraction = %v, want 0.5", l.NowFraction)
	}
}

func TestLayoutNowIndicatorOtherDay(t *testing.T) {
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	l := Layout(nil, day, now, HourHeight)
	if l.HasNow {
		t.Fatal("now indicator should be hidden on other days")
	}
}

func TestLayoutCustomScale(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	blocks := []store.TimeBlock{blockAt(10, 0, 120)}

	l := Layout(blocks, day, day, 80)
	if l.Blocks[0].TopPx != 800 {
		t.Fatalf("top = %v, want 800 at 80px/h", l.Blocks[0].TopPx)
	}
	if l.Blocks[0].HeightPx != 160 {
		t.Fatalf("height = %v, want 160 at 80px/h", l.Blocks[0].HeightPx)
	}
}

func TestLayoutZeroScaleFallsBack(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	blocks := []store.TimeBlock{blockAt(1, 0, 60)}

	l := Layout(blocks, day, day, 0)
	if l.Blocks[0].TopPx != HourHeight {
		t.Fatalf("zero scale should fall back to default, got top %v", l.Blocks[0].TopPx)
	}
}

// ============================================================
// Time helpers
// ============================================================

func TestMinutesSinceMidnight(t *testing.T) {
	if got := MinutesSinceMidnight(time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)); got != 870 {
		t.Fatalf("14:30 = %d min, want 870", got)
	}
	if got := MinutesSinceMidnight(time.Date(2026, 3, 10, 0, 0, 59, 0, time.UTC)); got != 0 {
		t.Fatalf("midnight = %d min, want 0", got)
	}
}

func TestSnapHalfHour(t *testing.T) {
	cases := []struct {
		minute, want int
	}{
		{0, 0}, {14, 0}, {29, 0}, {30, 30}, {31, 30}, {59, 30},
	}
	for _, tc := range cases {
		in := time.Date(2026, 3, 10, 9, tc.minute, 45, 0, time.UTC)
		got := SnapHalfHour(in)
		if got.Minute() != tc.want || got.Second() != 0 {
			t.Fatalf("snap :%02d = %v, want minute %d", tc.minute, got, tc.want)
		}
		if got.Hour() != 9 {
			t.Fatal("snap should not change the hour")
		}
	}
}
