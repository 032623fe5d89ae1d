package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"blockflow/internal/ritual"
	"blockflow/internal/store"
)

type plannerModel struct {
	store  *store.Store
	width  int
	height int

	plan  *store.DailyPlan
	tasks []store.Task

	// Ritual state. Lives only in memory: abandoning the ritual loses it,
	// reopening starts over at Welcome.
	ritualActive bool
	rit          *ritual.Ritual
	taskCursor   int
	intention    textinput.Model

	reflectActive  bool
	reflectForm    *huh.Form
	formReflection *string
}

func newPlannerModel(s *store.Store) plannerModel {
	ti := textinput.New()
	ti.Placeholder = "What matters most today?"
	ti.CharLimit = 200
	ti.Width = 50

	reflection := ""
	return plannerModel{
		store:          s,
		intention:      ti,
		formReflection: &reflection,
	}
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p plannerModel) formActive() bool {
	return p.ritualActive || p.reflectActive
}

func (p plannerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		plan, _ := p.store.GetDailyPlan(store.PlanDate(time.Now()))
		tasks, _ := p.store.ListTasks(false)
		return plannerDataMsg{plan: plan, tasks: tasks}
	}
}

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case plannerDataMsg:
		p.plan = msg.plan
		p.tasks = msg.tasks
		return p, nil

	case ritualDoneMsg:
		p.plan = msg.plan
		p.ritualActive = false
		p.rit = nil
		return p, nil

	case tea.KeyMsg:
		if p.reflectActive && p.reflectForm != nil {
			return p.updateReflectForm(msg)
		}
		if p.ritualActive && p.rit != nil {
			return p.updateRitual(msg)
		}
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return p.startRitual()
		case key.Matches(msg, keys.Recurring):
			return p.showReflectForm()
		}
	}

	if p.reflectActive && p.reflectForm != nil {
		return p.updateReflectForm(msg)
	}
	return p, nil
}

func (p plannerModel) startRitual() (plannerModel, tea.Cmd) {
	p.rit = ritual.New(p.tasks)
	p.ritualActive = true
	p.taskCursor = 0
	p.intention.SetValue("")
	return p, nil
}

func (p plannerModel) updateRitual(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	// The intention step owns the keyboard except for navigation.
	if p.rit.Step() == ritual.StepIntention {
		switch {
		case key.Matches(msg, keys.Back):
			return p.abandonRitual()
		case key.Matches(msg, keys.Enter):
			p.rit.SetIntention(p.intention.Value())
			p.rit.Next()
			p.intention.Blur()
			return p, nil
		case key.Matches(msg, keys.Left):
			p.rit.SetIntention(p.intention.Value())
			p.rit.Prev()
			return p, nil
		}
		var cmd tea.Cmd
		p.intention, cmd = p.intention.Update(msg)
		return p, cmd
	}

	switch {
	case key.Matches(msg, keys.Back):
		return p.abandonRitual()

	case key.Matches(msg, keys.Left):
		p.rit.Prev()
		return p, nil

	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
		return p, nil

	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks)-1 {
			p.taskCursor++
		}
		return p, nil

	case key.Matches(msg, keys.Pause):
		// Space toggles a priority; a fourth pick is silently ignored.
		if p.rit.Step() == ritual.StepPrioritize && len(p.tasks) > 0 {
			p.rit.TogglePriority(p.tasks[p.taskCursor].ID)
		}
		return p, nil

	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Right):
		if p.rit.Step() == ritual.StepReady {
			return p.completeRitual()
		}
		if !p.rit.Next() {
			return p, func() tea.Msg {
				return statusMsg{text: "Pick at least one priority first", isError: true}
			}
		}
		if p.rit.Step() == ritual.StepIntention {
			p.intention.Focus()
			return p, textinput.Blink
		}
		return p, nil
	}
	return p, nil
}

func (p plannerModel) abandonRitual() (plannerModel, tea.Cmd) {
	p.ritualActive = false
	p.rit = nil
	return p, func() tea.Msg {
		return statusMsg{text: "Planning abandoned, nothing saved"}
	}
}

func (p plannerModel) completeRitual() (plannerModel, tea.Cmd) {
	rit := p.rit
	return p, func() tea.Msg {
		plan, err := rit.Complete(p.store, time.Now())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Could not save plan: %v", err), isError: true}
		}
		return ritualDoneMsg{plan: plan}
	}
}

func (p plannerModel) showReflectForm() (plannerModel, tea.Cmd) {
	*p.formReflection = ""
	if p.plan != nil {
		*p.formReflection = p.plan.Reflection
	}
	p.reflectForm = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Evening reflection").Value(p.formReflection),
		),
	).WithShowHelp(true).WithShowErrors(true)
	p.reflectActive = true
	return p, p.reflectForm.Init()
}

func (p plannerModel) updateReflectForm(msg tea.Msg) (plannerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.reflectActive = false
			p.reflectForm = nil
			return p, nil
		}
	}

	form, cmd := p.reflectForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.reflectForm = f
	}

	if p.reflectForm.State == huh.StateCompleted {
		p.reflectActive = false
		reflection := *p.formReflection
		return p, tea.Sequence(
			func() tea.Msg {
				if err := p.store.SetReflection(store.PlanDate(time.Now()), reflection); err != nil {
					return statusMsg{text: fmt.Sprintf("Could not save reflection: %v", err), isError: true}
				}
				return statusMsg{text: "Reflection saved"}
			},
			p.refresh(),
		)
	}
	return p, cmd
}

// --- Rendering ---

func (p plannerModel) view() string {
	w := p.width - 4

	if p.reflectActive && p.reflectForm != nil {
		return activePanelStyle.Width(w).Render(p.reflectForm.View())
	}
	if p.ritualActive && p.rit != nil {
		return p.renderRitual(w)
	}
	return p.renderSummary(w)
}

func (p plannerModel) renderSummary(w int) string {
	title := titleStyle.Render("Daily Plan - " + time.Now().Format("Monday, Jan 02"))

	var rows []string
	rows = append(rows, title, "")

	if p.plan == nil || !p.plan.IsCompleted {
		rows = append(rows, mutedStyle.Render("No plan yet for today."))
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("enter: start planning ritual  r: reflection"))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	rows = append(rows, highlightStyle.Render("Top priorities"))
	for i, id := range p.plan.TopPriorities {
		name := fmt.Sprintf("task #%d", id)
		for _, t := range p.tasks {
			if t.ID == id {
				name = t.Title
				break
			}
		}
		rows = append(rows, fmt.Sprintf("  %d. %s", i+1, name))
	}

	if p.plan.Intention != "" {
		rows = append(rows, "", highlightStyle.Render("Intention"), "  "+p.plan.Intention)
	}
	if p.plan.Reflection != "" {
		rows = append(rows, "", highlightStyle.Render("Reflection"), "  "+p.plan.Reflection)
	}
	rows = append(rows, "", mutedStyle.Render("enter: redo ritual  r: reflection"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p plannerModel) renderRitual(w int) string {
	var crumbs []string
	for s := ritual.StepWelcome; s <= ritual.StepReady; s++ {
		name := s.String()
		switch {
		case s == p.rit.Step():
			crumbs = append(crumbs, activeTabStyle.Render(name))
		case s < p.rit.Step():
			crumbs = append(crumbs, successStyle.Render(name))
		default:
			crumbs = append(crumbs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, crumbs...)

	var body []string
	switch p.rit.Step() {
	case ritual.StepWelcome:
		body = append(body,
			titleStyle.Render("Good morning."),
			"",
			"A few minutes of planning makes the day yours.",
			"",
			mutedStyle.Render("enter: begin  esc: not now"),
		)

	case ritual.StepReview:
		body = append(body, titleStyle.Render("Open tasks"), "")
		if len(p.tasks) == 0 {
			body = append(body, mutedStyle.Render("  Nothing open. Enjoy it."))
		}
		for _, t := range p.tasks {
			marker := "  "
			if t.Priority == "high" {
				marker = accentStyle.Render("! ")
			}
			due := ""
			if t.DueTime != nil {
				due = mutedStyle.Render("  due " + t.DueTime.Local().Format("Jan 02"))
			}
			body = append(body, fmt.Sprintf("  %s%s%s", marker, t.Title, due))
		}
		body = append(body, "", mutedStyle.Render("enter: next  ←: back  esc: abandon"))

	case ritual.StepPrioritize:
		body = append(body, titleStyle.Render(fmt.Sprintf("Pick up to %d priorities", ritual.MaxPriorities)), "")
		for i, t := range p.tasks {
			cursor := "  "
			style := normalItemStyle
			if i == p.taskCursor {
				cursor = "> "
				style = selectedItemStyle
			}
			check := "○"
			if p.rit.IsSelected(t.ID) {
				check = successStyle.Render("●")
			}
			body = append(body, style.Render(fmt.Sprintf("%s%s %s", cursor, check, t.Title)))
		}
		body = append(body, "",
			mutedStyle.Render(fmt.Sprintf("space: select (%d/%d)  enter: next  ←: back",
				len(p.rit.Selected()), ritual.MaxPriorities)))

	case ritual.StepIntention:
		body = append(body,
			titleStyle.Render("Set an intention"),
			"",
			p.intention.View(),
			"",
			mutedStyle.Render("enter: next  ←: back"),
		)

	case ritual.StepReady:
		body = append(body, titleStyle.Render("Ready"), "")
		for i, id := range p.rit.Selected() {
			name := fmt.Sprintf("task #%d", id)
			for _, t := range p.tasks {
				if t.ID == id {
					name = t.Title
					break
				}
			}
			body = append(body, fmt.Sprintf("  %d. %s", i+1, name))
		}
		if v := p.rit.Intention(); v != "" {
			body = append(body, "", mutedStyle.Render("Intention: ")+v)
		}
		body = append(body, "", mutedStyle.Render("enter: save plan  ←: back  esc: abandon"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{header, ""}, body...)...)
	return activePanelStyle.Width(w).Render(content)
}
