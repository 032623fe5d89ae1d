package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"blockflow/internal/pomodoro"
	"blockflow/internal/store"
)

var enginePhaseNames = map[pomodoro.Phase]string{
	pomodoro.PhaseIdle:      "IDLE",
	pomodoro.PhaseWork:      "WORK",
	pomodoro.PhaseBreak:     "BREAK",
	pomodoro.PhaseLongBreak: "LONG BREAK",
}

type timerModel struct {
	store   *store.Store
	tracker *pomodoro.Tracker
	width   int
	height  int

	engine pomodoro.Engine

	// Block picker shown before starting a linked session.
	picking      bool
	pickerCursor int
	todayBlocks  []store.TimeBlock
	linkedTitle  string
}

func newTimerModel(s *store.Store, tracker *pomodoro.Tracker) timerModel {
	m := timerModel{store: s, tracker: tracker}
	m.engine = pomodoro.New(m.loadConfig())
	return m
}

func (t *timerModel) loadConfig() pomodoro.Config {
	cfg := pomodoro.DefaultConfig()
	cfg.WorkSeconds = t.store.GetSettingInt("pomodoro_work", cfg.WorkSeconds)
	cfg.BreakSeconds = t.store.GetSettingInt("pomodoro_break", cfg.BreakSeconds)
	cfg.LongBreakSeconds = t.store.GetSettingInt("pomodoro_long_break", cfg.LongBreakSeconds)
	cfg.SessionsPerCycle = t.store.GetSettingInt("pomodoro_target", cfg.SessionsPerCycle)
	return cfg
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t timerModel) minimized() bool { return t.engine.Minimized() }
func (t timerModel) active() bool    { return t.engine.Phase() != pomodoro.PhaseIdle }

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		var effects []pomodoro.Effect
		t.engine, effects = t.engine.Tick()
		t.tracker.Run(effects)
		return t, nil

	case tea.KeyMsg:
		if t.picking {
			return t.updatePicker(msg)
		}
		switch {
		case key.Matches(msg, keys.Start):
			if t.engine.Phase() != pomodoro.PhaseIdle {
				return t, nil
			}
			return t.showPicker()

		case key.Matches(msg, keys.Stop):
			var effects []pomodoro.Effect
			t.engine, effects = t.engine.Stop()
			t.tracker.Run(effects)
			t.linkedTitle = ""
			return t, nil

		case key.Matches(msg, keys.Pause):
			if t.engine.Paused() {
				t.engine = t.engine.Resume()
			} else {
				t.engine = t.engine.Pause()
			}
			return t, nil

		case key.Matches(msg, keys.Skip):
			var effects []pomodoro.Effect
			t.engine, effects = t.engine.Skip()
			t.tracker.Run(effects)
			return t, nil

		case key.Matches(msg, keys.Minimize):
			t.engine = t.engine.SetMinimized(!t.engine.Minimized())
			return t, nil
		}
	}
	return t, nil
}

// showPicker offers today's unfinished blocks to link the session to, or an
// unlinked run.
func (t timerModel) showPicker() (timerModel, tea.Cmd) {
	blocks, _ := t.store.BlocksForDay(time.Now())
	t.todayBlocks = t.todayBlocks[:0]
	for _, b := range blocks {
		if !b.Completed() {
			t.todayBlocks = append(t.todayBlocks, b)
		}
	}
	if len(t.todayBlocks) == 0 {
		return t.startEngine(nil, "")
	}
	t.picking = true
	t.pickerCursor = 0
	return t, nil
}

func (t timerModel) updatePicker(msg tea.KeyMsg) (timerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if t.pickerCursor > 0 {
			t.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if t.pickerCursor < len(t.todayBlocks) {
			t.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		t.picking = false
		if t.pickerCursor == 0 {
			return t.startEngine(nil, "")
		}
		b := t.todayBlocks[t.pickerCursor-1]
		id := b.ID
		return t.startEngine(&id, b.Title)
	case key.Matches(msg, keys.Back):
		t.picking = false
	}
	return t, nil
}

func (t timerModel) startEngine(blockID *int64, title string) (timerModel, tea.Cmd) {
	t.engine = pomodoro.New(t.loadConfig())
	var effects []pomodoro.Effect
	t.engine, effects = t.engine.Start(blockID)
	t.tracker.Run(effects)
	t.linkedTitle = title
	return t, nil
}

// --- Rendering ---

func (t timerModel) view() string {
	w := t.width - 4

	if t.picking {
		return t.renderPicker(w)
	}

	phase := t.engine.Phase()
	phaseLabel := enginePhaseNames[phase]

	var timeDisplay, label, extra string
	switch phase {
	case pomodoro.PhaseIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatClock(t.engine.Config().WorkSeconds))
		label = mutedStyle.Render("Ready to focus")
		extra = mutedStyle.Render("Press s to begin")
	case pomodoro.PhaseWork:
		timeStyle, labelStyle := timerRunningStyle, accentStyle
		if t.engine.Paused() {
			timeStyle, labelStyle = timerPausedStyle, warningStyle
			phaseLabel += " (paused)"
		}
		timeDisplay = timeStyle.Width(w - 6).Render(formatClock(t.engine.Remaining()))
		label = labelStyle.Bold(true).Render(phaseLabel)
		extra = t.renderProgress()
	default:
		timeStyle, labelStyle := timerRunningStyle, successStyle
		if phase == pomodoro.PhaseLongBreak {
			labelStyle = highlightStyle
		}
		if t.engine.Paused() {
			timeStyle, labelStyle = timerPausedStyle, warningStyle
			phaseLabel += " (paused)"
		}
		timeDisplay = timeStyle.Width(w - 6).Render(formatClock(t.engine.Remaining()))
		label = labelStyle.Bold(true).Render(phaseLabel)
		extra = t.renderProgress()
	}

	linked := ""
	if t.linkedTitle != "" {
		linked = mutedStyle.Render("on ") + highlightStyle.Render(t.linkedTitle)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Focus Timer"),
		"",
		timeDisplay,
		label,
		linked,
		"",
		extra,
		t.renderBar(w-10),
	)

	var controls string
	switch phase {
	case pomodoro.PhaseIdle:
		controls = mutedStyle.Render("s: start  q: quit")
	default:
		controls = mutedStyle.Render("space: pause  S: skip  x: stop  m: minimize")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (t timerModel) renderProgress() string {
	target := t.engine.Config().SessionsPerCycle
	current := t.engine.CurrentSession()

	var parts []string
	for i := 1; i <= target; i++ {
		switch {
		case i < current, t.engine.Phase() != pomodoro.PhaseWork && i == current:
			parts = append(parts, successStyle.Render("●"))
		case i == current && t.engine.Phase() == pomodoro.PhaseWork:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d completed", t.engine.TotalSessionsCompleted()))
	return strings.Join(parts, " ") + counter
}

// renderBar draws the phase progress as a filled fraction of the width.
func (t timerModel) renderBar(w int) string {
	if w < 10 {
		w = 10
	}
	filled := int(t.engine.Progress() * float64(w))
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", w-filled))
	return bar
}

func (t timerModel) renderPicker(w int) string {
	title := titleStyle.Render("Link session to a block?")

	var rows []string
	rows = append(rows, title, "")

	cursor, style := "  ", normalItemStyle
	if t.pickerCursor == 0 {
		cursor, style = "> ", selectedItemStyle
	}
	rows = append(rows, style.Render(cursor+"(no link)"))

	for i, b := range t.todayBlocks {
		cursor, style = "  ", normalItemStyle
		if t.pickerCursor == i+1 {
			cursor, style = "> ", selectedItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render("●")
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s %s", cursor, dot, b.StartTime.Format("15:04"), b.Title)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: start  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// strip is the one-line floating widget shown while the timer is minimized
// and another view is active.
func (t timerModel) strip() string {
	if !t.active() {
		return ""
	}
	name := enginePhaseNames[t.engine.Phase()]
	style := successStyle
	if t.engine.Paused() {
		style = warningStyle
	}
	return style.Render(fmt.Sprintf(" ⏱ %s %s", name, formatClock(t.engine.Remaining())))
}
