// Package pomodoro implements the focus-timer state machine as a pure
// reducer: every transition returns the next engine value plus the side
// effects it calls for. Executing those effects (sound, session rows) is the
// Tracker's job, so the machine itself is testable without any platform
// APIs.
package pomodoro

import "blockflow/internal/store"

// Phase is the engine's state. Idle is both the initial state and the reset
// target.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWork
	PhaseBreak
	PhaseLongBreak
)

var phaseNames = [...]string{"idle", "work", "break", "long_break"}

func (p Phase) String() string {
	if p < PhaseIdle || p > PhaseLongBreak {
		return "unknown"
	}
	return phaseNames[p]
}

// StoreName maps a phase to its pomodoro_sessions value.
func (p Phase) StoreName() string {
	switch p {
	case PhaseWork:
		return store.PhaseWork
	case PhaseBreak:
		return store.PhaseBreak
	case PhaseLongBreak:
		return store.PhaseLongBreak
	}
	return ""
}

// Config carries phase durations in seconds and the work-session cycle
// length (a long break follows every SessionsPerCycle-th work phase).
type Config struct {
	WorkSeconds      int
	BreakSeconds     int
	LongBreakSeconds int
	SessionsPerCycle int
}

func DefaultConfig() Config {
	return Config{
		WorkSeconds:      25 * 60,
		BreakSeconds:     5 * 60,
		LongBreakSeconds: 15 * 60,
		SessionsPerCycle: 4,
	}
}

// EffectKind tags an effect the caller must execute.
type EffectKind int

const (
	// EffectNotify fires the one notification per phase completion.
	EffectNotify EffectKind = iota
	// EffectSessionStart opens a PomodoroSession row for a tracked phase.
	EffectSessionStart
	// EffectSessionEnd closes the open session row.
	EffectSessionEnd
)

type Effect struct {
	Kind           EffectKind
	Phase          Phase  // phase beginning (notify, session start)
	BlockID        *int64 // linked block, session start only
	PlannedSeconds int    // session start only
	Completed      bool   // session end: false when skipped or stopped
}

// Engine is the timer state. The zero value is an idle engine with zeroed
// durations; build one with New.
type Engine struct {
	cfg Config

	phase          Phase
	remaining      int // seconds
	currentSession int // 1..SessionsPerCycle while active
	totalCompleted int
	running        bool
	paused         bool
	minimized      bool

	linkedBlock *int64
}

func New(cfg Config) Engine {
	if cfg.SessionsPerCycle <= 0 {
		cfg.SessionsPerCycle = 4
	}
	return Engine{cfg: cfg}
}

func (e Engine) Phase() Phase                  { return e.phase }
func (e Engine) Remaining() int                { return e.remaining }
func (e Engine) CurrentSession() int           { return e.currentSession }
func (e Engine) TotalSessionsCompleted() int   { return e.totalCompleted }
func (e Engine) Running() bool                 { return e.running }
func (e Engine) Paused() bool                  { return e.paused }
func (e Engine) Minimized() bool               { return e.minimized }
func (e Engine) Config() Config                { return e.cfg }
func (e Engine) LinkedBlock() *int64           { return e.linkedBlock }

// Progress is the elapsed fraction of the current phase, clamped to [0,1].
// Idle progress is 0.
func (e Engine) Progress() float64 {
	total := e.phaseDuration(e.phase)
	if e.phase == PhaseIdle || total <= 0 {
		return 0
	}
	p := float64(total-e.remaining) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (e Engine) phaseDuration(p Phase) int {
	switch p {
	case PhaseWork:
		return e.cfg.WorkSeconds
	case PhaseBreak:
		return e.cfg.BreakSeconds
	case PhaseLongBreak:
		return e.cfg.LongBreakSeconds
	}
	return 0
}

// Start moves an idle engine into the first work phase. On a non-idle
// engine it is a no-op; that guard is what keeps a second concurrent timer
// from existing.
func (e Engine) Start(blockID *int64) (Engine, []Effect) {
	if e.phase != PhaseIdle {
		return e, nil
	}
	e.phase = PhaseWork
	e.remaining = e.cfg.WorkSeconds
	e.currentSession = 1
	e.running = true
	e.paused = false
	e.linkedBlock = blockID
	return e, []Effect{e.sessionStart(PhaseWork)}
}

// Tick advances the countdown by one second. No-op while idle or paused.
// Reaching zero advances the phase exactly once, so the completion
// notification cannot re-fire for the same zero.
func (e Engine) Tick() (Engine, []Effect) {
	if !e.running || e.paused || e.phase == PhaseIdle {
		return e, nil
	}
	e.remaining--
	if e.remaining <= 0 {
		return e.advance(true)
	}
	return e, nil
}

// Pause freezes the countdown without resetting it.
func (e Engine) Pause() Engine {
	if e.running {
		e.paused = true
	}
	return e
}

// Resume lifts a pause.
func (e Engine) Resume() Engine {
	e.paused = false
	return e
}

// Skip forces the same phase advance as natural completion, but the
// just-ended session is recorded as not completed.
func (e Engine) Skip() (Engine, []Effect) {
	if e.phase == PhaseIdle {
		return e, nil
	}
	return e.advance(false)
}

// Stop resets to idle from any state. The open session, if any, closes as
// not completed. Stopping an already-idle engine changes nothing and writes
// nothing.
func (e Engine) Stop() (Engine, []Effect) {
	if e.phase == PhaseIdle {
		return e, nil
	}
	effects := []Effect{{Kind: EffectSessionEnd, Completed: false}}
	e.phase = PhaseIdle
	e.remaining = 0
	e.currentSession = 0
	e.running = false
	e.paused = false
	e.linkedBlock = nil
	return e, effects
}

// SetMinimized flips the floating-widget flag. Orthogonal to the phase
// machine.
func (e Engine) SetMinimized(min bool) Engine {
	e.minimized = min
	return e
}

// advance applies the phase-completion rule: work goes to a break (long on
// the cycle's final session), rests go back to work wrapping the session
// counter 1..SessionsPerCycle. totalCompleted moves only on work→rest.
func (e Engine) advance(completed bool) (Engine, []Effect) {
	ended := e.phase
	effects := []Effect{{Kind: EffectSessionEnd, Completed: completed}}

	switch ended {
	case PhaseWork:
		e.totalCompleted++
		if e.currentSession >= e.cfg.SessionsPerCycle {
			e.phase = PhaseLongBreak
			e.remaining = e.cfg.LongBreakSeconds
		} else {
			e.phase = PhaseBreak
			e.remaining = e.cfg.BreakSeconds
		}
	case PhaseBreak, PhaseLongBreak:
		e.phase = PhaseWork
		e.remaining = e.cfg.WorkSeconds
		e.currentSession = e.currentSession%e.cfg.SessionsPerCycle + 1
	default:
		return e, nil
	}

	effects = append(effects,
		Effect{Kind: EffectNotify, Phase: e.phase},
		e.sessionStart(e.phase),
	)
	return e, effects
}

func (e Engine) sessionStart(p Phase) Effect {
	return Effect{
		Kind:           EffectSessionStart,
		Phase:          p,
		BlockID:        e.linkedBlock,
		PlannedSeconds: e.phaseDuration(p),
	}
}
