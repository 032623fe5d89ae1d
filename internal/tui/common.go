package tui

import (
	"fmt"
	"time"

	"blockflow/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDay viewState = iota
	viewPlanner
	viewTimer
	viewReports
	viewSettings
)

var viewNames = []string{"Day", "Planner", "Timer", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type dayDataMsg struct {
	day    time.Time
	blocks []store.TimeBlock
}

type plannerDataMsg struct {
	plan  *store.DailyPlan
	tasks []store.Task
}

type ritualDoneMsg struct {
	plan *store.DailyPlan
}

type blockSavedMsg struct {
	block    *store.TimeBlock
	warnings []store.TimeBlock // advisory overlaps
}

type recurringCreatedMsg struct {
	count    int
	warnings []store.TimeBlock // advisory overlaps for the first occurrence
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
