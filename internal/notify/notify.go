// Package notify turns pomodoro phase completions into audible feedback. It
// is the only place that touches platform audio; the engine reaches it
// solely through the pomodoro.Notifier interface.
package notify

import (
	"fmt"
	"log/slog"

	"blockflow/internal/pomodoro"
)

// Player plays a sound per beginning phase, falling back to the terminal
// bell when no system player is available.
type Player struct {
	log *slog.Logger
}

func NewPlayer(log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{log: log}
}

// Notify implements pomodoro.Notifier.
func (p *Player) Notify(phase pomodoro.Phase) {
	event := "complete"
	switch phase {
	case pomodoro.PhaseWork:
		event = "work"
	case pomodoro.PhaseBreak, pomodoro.PhaseLongBreak:
		event = "rest"
	}
	if err := playForEvent(event); err != nil {
		p.log.Debug("notification sound failed", "event", event, "err", err)
	}
}

// terminalBell outputs a bell character as the last-resort fallback.
func terminalBell() error {
	fmt.Print("\a")
	return nil
}
