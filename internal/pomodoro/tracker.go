package pomodoro

import (
	"log/slog"

	"blockflow/internal/store"
)

// Notifier is the engine's only contract with the notification/audio layer.
type Notifier interface {
	Notify(phase Phase)
}

// Tracker executes engine effects: it fires notifications and maintains the
// PomodoroSession rows. Session rows are written only for phases linked to a
// time block; untracked runs stay in memory. Persistence failures are logged
// and swallowed so the running timer is never interrupted by a failed write.
type Tracker struct {
	store    *store.Store
	notifier Notifier
	log      *slog.Logger

	openSession int64 // 0 when none
}

func NewTracker(s *store.Store, n Notifier, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{store: s, notifier: n, log: log}
}

// Run applies a transition's effects in order.
func (t *Tracker) Run(effects []Effect) {
	for _, ef := range effects {
		switch ef.Kind {
		case EffectNotify:
			if t.notifier != nil {
				t.notifier.Notify(ef.Phase)
			}

		case EffectSessionStart:
			if t.store == nil || ef.BlockID == nil {
				continue
			}
			sess, err := t.store.StartSession(ef.BlockID, ef.Phase.StoreName(), ef.PlannedSeconds)
			if err != nil {
				t.log.Error("start pomodoro session", "phase", ef.Phase.String(), "err", err)
				continue
			}
			t.openSession = sess.ID

		case EffectSessionEnd:
			if t.store == nil || t.openSession == 0 {
				continue
			}
			if err := t.store.FinishSession(t.openSession, ef.Completed); err != nil {
				t.log.Error("finish pomodoro session", "id", t.openSession, "err", err)
			}
			t.openSession = 0
		}
	}
}
