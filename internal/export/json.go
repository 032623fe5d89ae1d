package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"blockflow/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	BlockCount int           `json:"block_count"`
	Blocks     []jsonBlock   `json:"blocks"`
	Sessions   []jsonSession `json:"sessions,omitempty"`
}

type jsonBlock struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	BlockType   string `json:"block_type"`
	Color       string `json:"color"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Recurring   bool   `json:"recurring"`
	ParentID    *int64 `json:"parent_block_id,omitempty"`
	Completed   bool   `json:"completed"`
}

type jsonSession struct {
	ID          int64  `json:"id"`
	BlockID     *int64 `json:"time_block_id,omitempty"`
	Phase       string `json:"phase"`
	DurationSec int    `json:"duration_seconds"`
	StartedAt   string `json:"started_at"`
	EndedAt     string `json:"ended_at,omitempty"`
	Completed   bool   `json:"was_completed"`
}

func ToJSON(blocks []store.TimeBlock, sessions []store.PomodoroSession, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		BlockCount: len(blocks),
	}

	for _, b := range blocks {
		secs := int64(b.Duration().Seconds())
		export.Blocks = append(export.Blocks, jsonBlock{
			ID:          b.ID,
			Title:       b.Title,
			Description: b.Description,
			BlockType:   b.BlockType,
			Color:       b.Color,
			StartTime:   b.StartTime.Local().Format(time.RFC3339),
			EndTime:     b.EndTime.Local().Format(time.RFC3339),
			DurationSec: secs,
			Duration:    formatDuration(secs),
			Recurring:   b.IsRecurring,
			ParentID:    b.ParentBlockID,
			Completed:   b.Completed(),
		})
	}

	for _, s := range sessions {
		endStr := ""
		if s.EndedAt != nil {
			endStr = s.EndedAt.Local().Format(time.RFC3339)
		}
		export.Sessions = append(export.Sessions, jsonSession{
			ID:          s.ID,
			BlockID:     s.TimeBlockID,
			Phase:       s.Phase,
			DurationSec: s.DurationSecs,
			StartedAt:   s.StartedAt.Local().Format(time.RFC3339),
			EndedAt:     endStr,
			Completed:   s.WasCompleted,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
