// Package ritual implements the guided daily-planning flow: a strictly
// ordered five-step walk that ends in one persisted plan for the day.
// Nothing is written until Complete; abandoning the ritual loses nothing
// but its in-memory state.
package ritual

import (
	"errors"
	"time"

	"blockflow/internal/store"
)

// Step is one stop in the ritual. Users may revisit earlier steps but can
// never jump ahead.
type Step int

const (
	StepWelcome Step = iota
	StepReview
	StepPrioritize
	StepIntention
	StepReady
)

var stepNames = [...]string{"Welcome", "Review", "Prioritize", "Intention", "Ready"}

func (s Step) String() string {
	if s < StepWelcome || s > StepReady {
		return "Unknown"
	}
	return stepNames[s]
}

// MaxPriorities caps how many tasks a plan may carry.
const MaxPriorities = 3

// ErrNoPriorities blocks completing or leaving Prioritize with an empty
// selection.
var ErrNoPriorities = errors.New("select at least one priority")

// ErrNotReady blocks completing the ritual before the final step.
var ErrNotReady = errors.New("ritual has not reached the final step")

// Ritual is the planning state machine. A fresh Ritual always starts at
// Welcome; there is no cross-session draft.
type Ritual struct {
	step      Step
	tasks     []store.Task
	selected  []int64
	intention string
}

// New starts a ritual over the given task list (the read-only todo source).
func New(tasks []store.Task) *Ritual {
	return &Ritual{tasks: tasks}
}

func (r *Ritual) Step() Step          { return r.step }
func (r *Ritual) Tasks() []store.Task { return r.tasks }
func (r *Ritual) Intention() string   { return r.intention }

// Selected returns the chosen task ids in selection order.
func (r *Ritual) Selected() []int64 {
	out := make([]int64, len(r.selected))
	copy(out, r.selected)
	return out
}

// IsSelected reports whether a task is currently chosen.
func (r *Ritual) IsSelected(taskID int64) bool {
	for _, id := range r.selected {
		if id == taskID {
			return true
		}
	}
	return false
}

// CanProceed reports whether the current step's guard allows moving on.
// Only Prioritize has a guard: at least one selected task.
func (r *Ritual) CanProceed() bool {
	if r.step == StepPrioritize {
		return len(r.selected) > 0
	}
	return true
}

// Next advances one step, clamped at Ready. Returns false when the guard
// blocks or there is nowhere to go.
func (r *Ritual) Next() bool {
	if r.step >= StepReady || !r.CanProceed() {
		return false
	}
	r.step++
	return true
}

// Prev moves one step back, clamped at Welcome.
func (r *Ritual) Prev() bool {
	if r.step <= StepWelcome {
		return false
	}
	r.step--
	return true
}

// GoTo jumps directly to an earlier (or the current) step. Jumping ahead is
// rejected; that is what enforces the Prioritize gate.
func (r *Ritual) GoTo(step Step) bool {
	if step < StepWelcome || step > r.step {
		return false
	}
	r.step = step
	return true
}

// TogglePriority selects or deselects a task. Selection order is preserved.
// A fourth selection is a no-op, not an error.
func (r *Ritual) TogglePriority(taskID int64) bool {
	for i, id := range r.selected {
		if id == taskID {
			r.selected = append(r.selected[:i], r.selected[i+1:]...)
			return true
		}
	}
	if len(r.selected) >= MaxPriorities {
		return false
	}
	r.selected = append(r.selected, taskID)
	return true
}

func (r *Ritual) SetIntention(text string) {
	r.intention = text
}

// Complete persists the plan for today via upsert-by-date and marks it
// completed. The ritual must be at Ready with at least one priority. The
// in-memory state is untouched on a storage failure; the caller reports and
// carries on.
func (r *Ritual) Complete(s *store.Store, now time.Time) (*store.DailyPlan, error) {
	if r.step != StepReady {
		return nil, ErrNotReady
	}
	if len(r.selected) == 0 {
		return nil, ErrNoPriorities
	}
	return s.UpsertDailyPlan(store.PlanDate(now), r.Selected(), r.intention)
}
