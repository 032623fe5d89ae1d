package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"blockflow/internal/store"
)

func ToCSV(blocks []store.TimeBlock, sessions []store.PomodoroSession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Kind", "ID", "Title/Phase", "Type", "Start", "End", "Duration (s)", "Recurring", "Completed"}); err != nil {
		return err
	}

	for _, b := range blocks {
		row := []string{
			"block",
			fmt.Sprintf("%d", b.ID),
			b.Title,
			b.BlockType,
			b.StartTime.Local().Format(time.RFC3339),
			b.EndTime.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", int64(b.Duration().Seconds())),
			fmt.Sprintf("%t", b.IsRecurring),
			fmt.Sprintf("%t", b.Completed()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	for _, s := range sessions {
		endStr := ""
		if s.EndedAt != nil {
			endStr = s.EndedAt.Local().Format(time.RFC3339)
		}
		row := []string{
			"session",
			fmt.Sprintf("%d", s.ID),
			s.Phase,
			"",
			s.StartedAt.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", s.DurationSecs),
			"",
			fmt.Sprintf("%t", s.WasCompleted),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
