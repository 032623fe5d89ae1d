package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"blockflow/internal/schedule"
	"blockflow/internal/store"
)

var blockTypes = []string{store.BlockTask, store.BlockFocus, store.BlockBreak, store.BlockMeeting, store.BlockPersonal}
var blockColors = []string{"#7C3AED", "#14B8A6", "#F472B6", "#FBBF24", "#34D399", "#F87171", "#60A5FA", "#A78BFA"}

type dayModel struct {
	store  *store.Store
	mat    *schedule.Materializer
	width  int
	height int

	day    time.Time // local midnight of the viewed day
	blocks []store.TimeBlock
	layout schedule.DayLayout
	cursor int

	hourHeight   float64
	dayStartHour int

	formActive    bool
	form          *huh.Form
	formRecurring bool
	formEditID    int64 // 0 when the form creates a new block

	// Form field pointers (survive value copies)
	formTitle *string
	formDesc  *string
	formType  *string
	formColor *string
	formStart *string
	formEnd   *string
}

func newDayModel(s *store.Store) dayModel {
	now := time.Now()
	title, desc, typ, color, start, end := "", "", store.BlockTask, blockColors[0], "", ""
	d := dayModel{
		store:        s,
		mat:          schedule.NewMaterializer(s),
		day:          midnight(now),
		hourHeight:   schedule.HourHeight,
		dayStartHour: 6,
		formTitle:    &title,
		formDesc:     &desc,
		formType:     &typ,
		formColor:    &color,
		formStart:    &start,
		formEnd:      &end,
	}
	d.loadSettings()
	return d
}

func (d *dayModel) loadSettings() {
	d.hourHeight = float64(d.store.GetSettingInt("hour_height", int(schedule.HourHeight)))
	if h := d.store.GetSettingInt("day_start_hour", d.dayStartHour); h < 24 {
		d.dayStartHour = h
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (d *dayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dayModel) Init() tea.Cmd {
	return d.loadData()
}

func (d dayModel) loadData() tea.Cmd {
	day := d.day
	return func() tea.Msg {
		blocks, _ := d.store.BlocksForDay(day)
		return dayDataMsg{day: day, blocks: blocks}
	}
}

func (d dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dayDataMsg:
		if !msg.day.Equal(d.day) {
			return d, nil // stale load from a day we've already left
		}
		d.blocks = msg.blocks
		d.layout = schedule.Layout(d.blocks, d.day, time.Now(), d.hourHeight)
		if d.cursor >= len(d.blocks) {
			d.cursor = max(0, len(d.blocks)-1)
		}
		return d, nil

	case tickMsg:
		// Keep the now indicator moving.
		d.layout = schedule.Layout(d.blocks, d.day, time.Now(), d.hourHeight)
		return d, nil

	case tea.KeyMsg:
		return d.updateKeys(msg)
	}
	return d, nil
}

func (d dayModel) updateKeys(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.blocks)-1 {
			d.cursor++
		}
	case key.Matches(msg, keys.Left):
		d.day = d.day.AddDate(0, 0, -1)
		d.cursor = 0
		return d, d.loadData()
	case key.Matches(msg, keys.Right):
		d.day = d.day.AddDate(0, 0, 1)
		d.cursor = 0
		return d, d.loadData()
	case key.Matches(msg, keys.Today):
		d.day = midnight(time.Now())
		d.cursor = 0
		return d, d.loadData()
	case key.Matches(msg, keys.New):
		return d.showBlockForm(false)
	case key.Matches(msg, keys.Recurring):
		return d.showBlockForm(true)
	case key.Matches(msg, keys.Edit):
		return d.showEditForm()
	case key.Matches(msg, keys.Complete):
		return d.toggleComplete()
	case key.Matches(msg, keys.Delete):
		return d.deleteSelected()
	case key.Matches(msg, keys.Family):
		return d.deleteSelectedFamily()
	}
	return d, nil
}

// toggleComplete flips the selected block optimistically: the view updates
// first, a failed write reports and reloads.
func (d dayModel) toggleComplete() (dayModel, tea.Cmd) {
	if len(d.blocks) == 0 {
		return d, nil
	}
	b := d.blocks[d.cursor]
	done := !b.Completed()
	if done {
		now := time.Now()
		d.blocks[d.cursor].CompletedAt = &now
	} else {
		d.blocks[d.cursor].CompletedAt = nil
	}

	id := b.ID
	return d, func() tea.Msg {
		if err := d.store.SetBlockCompleted(id, done); err != nil {
			return statusMsg{text: fmt.Sprintf("Save failed: %v", err), isError: true}
		}
		return statusMsg{text: "Saved"}
	}
}

// deleteSelected removes one occurrence: for a recurring block this skips
// just that instance, siblings stay.
func (d dayModel) deleteSelected() (dayModel, tea.Cmd) {
	if len(d.blocks) == 0 {
		return d, nil
	}
	id := d.blocks[d.cursor].ID
	return d, tea.Sequence(
		func() tea.Msg {
			if err := d.mat.SkipInstance(id); err != nil {
				return statusMsg{text: fmt.Sprintf("Delete failed: %v", err), isError: true}
			}
			return statusMsg{text: "Block removed"}
		},
		d.loadData(),
	)
}

func (d dayModel) deleteSelectedFamily() (dayModel, tea.Cmd) {
	if len(d.blocks) == 0 {
		return d, nil
	}
	b := d.blocks[d.cursor]
	if !b.IsRecurring {
		return d.deleteSelected()
	}
	id := b.ID
	return d, tea.Sequence(
		func() tea.Msg {
			if err := d.mat.DeleteFamily(id); err != nil {
				return statusMsg{text: fmt.Sprintf("Family delete failed: %v", err), isError: true}
			}
			return statusMsg{text: "Recurring family removed"}
		},
		d.loadData(),
	)
}

// candidateStart picks the prefill start for a new block: just after the
// selected block, otherwise the current half hour when viewing today,
// otherwise 09:00.
func (d dayModel) candidateStart() time.Time {
	if len(d.blocks) > 0 {
		return schedule.SnapHalfHour(d.blocks[d.cursor].EndTime)
	}
	if d.day.Equal(midnight(time.Now())) {
		return schedule.SnapHalfHour(time.Now())
	}
	return d.day.Add(9 * time.Hour)
}

func (d dayModel) showBlockForm(recurring bool) (dayModel, tea.Cmd) {
	start := d.candidateStart()
	*d.formTitle = ""
	*d.formDesc = ""
	*d.formType = store.BlockTask
	*d.formColor = blockColors[0]
	*d.formStart = start.Format("15:04")
	*d.formEnd = start.Add(time.Hour).Format("15:04")
	d.formRecurring = recurring
	d.formEditID = 0

	title := "New Block"
	if recurring {
		title = "New Daily Block"
	}
	return d.openForm(title)
}

// showEditForm opens the block form prefilled from the selected block so it
// can be renamed, retyped, recolored, or rescheduled in place.
func (d dayModel) showEditForm() (dayModel, tea.Cmd) {
	if len(d.blocks) == 0 {
		return d, nil
	}
	b := d.blocks[d.cursor]
	*d.formTitle = b.Title
	*d.formDesc = b.Description
	*d.formType = b.BlockType
	*d.formColor = b.Color
	*d.formStart = b.StartTime.Format("15:04")
	*d.formEnd = b.EndTime.Format("15:04")
	d.formRecurring = false
	d.formEditID = b.ID
	return d.openForm("Edit Block")
}

func (d dayModel) openForm(title string) (dayModel, tea.Cmd) {
	typeOptions := make([]huh.Option[string], len(blockTypes))
	for i, t := range blockTypes {
		typeOptions[i] = huh.NewOption(t, t)
	}
	colorOptions := make([]huh.Option[string], len(blockColors))
	for i, c := range blockColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(d.formTitle),
			huh.NewInput().Title("Description").Value(d.formDesc),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(d.formType),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(d.formColor),
			huh.NewInput().Title("Start (HH:MM)").Value(d.formStart),
			huh.NewInput().Title("End (HH:MM)").Value(d.formEnd),
		).Title(title),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dayModel) updateForm(msg tea.Msg) (dayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			d.formEditID = 0
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		save := d.saveBlock()
		d.formEditID = 0
		return d, tea.Sequence(save, d.loadData())
	}

	return d, cmd
}

func (d dayModel) saveBlock() tea.Cmd {
	start, err := parseDayTime(d.day, *d.formStart)
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Bad start time: %v", err), isError: true}
		}
	}
	end, err := parseDayTime(d.day, *d.formEnd)
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Bad end time: %v", err), isError: true}
		}
	}

	title, desc := *d.formTitle, *d.formDesc
	blockType, color := *d.formType, *d.formColor
	recurring := d.formRecurring
	editID := d.formEditID

	return func() tea.Msg {
		if editID != 0 {
			// Editing in place: the block being moved must not count as
			// its own conflict.
			warnings, _ := schedule.CheckOverlap(d.store, start, end, &editID)
			if err := d.store.Reschedule(editID, start, end); err != nil {
				return statusMsg{text: fmt.Sprintf("Update failed: %v", err), isError: true}
			}
			if err := d.store.UpdateBlockDetails(editID, title, desc, blockType, color); err != nil {
				return statusMsg{text: fmt.Sprintf("Update failed: %v", err), isError: true}
			}
			if len(warnings) > 0 {
				block, err := d.store.GetBlock(editID)
				if err == nil {
					return blockSavedMsg{block: block, warnings: warnings}
				}
			}
			return statusMsg{text: "Block updated"}
		}

		// Advisory only: warn on conflicts, save regardless.
		warnings, _ := schedule.CheckOverlap(d.store, start, end, nil)

		if recurring {
			count, err := d.mat.CreateRecurring(schedule.RecurringSpec{
				Title:       title,
				Description: desc,
				StartTime:   start,
				EndTime:     end,
				BlockType:   blockType,
				Color:       color,
				Recurrence:  store.Recurrence{Frequency: "daily", Interval: 1},
			})
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Recurring create failed: %v", err), isError: true}
			}
			return recurringCreatedMsg{count: count, warnings: warnings}
		}

		block, err := d.store.CreateBlock(store.TimeBlock{
			Title:       title,
			Description: desc,
			StartTime:   start,
			EndTime:     end,
			BlockType:   blockType,
			Color:       color,
		})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Save failed: %v", err), isError: true}
		}
		if len(warnings) > 0 {
			return blockSavedMsg{block: block, warnings: warnings}
		}
		return statusMsg{text: "Block created"}
	}
}

func parseDayTime(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// --- Rendering ---

func (d dayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if d.formActive && d.form != nil {
		return activePanelStyle.Width(w).Render(d.form.View())
	}

	header := d.renderHeader()
	grid := d.renderGrid(w)

	return lipgloss.JoinVertical(lipgloss.Left, header, grid)
}

func (d dayModel) renderHeader() string {
	label := d.day.Format("Monday, Jan 02 2006")
	if d.day.Equal(midnight(time.Now())) {
		label += "  " + accentStyle.Render("(today)")
	}
	done := 0
	for _, b := range d.blocks {
		if b.Completed() {
			done++
		}
	}
	stats := mutedStyle.Render(fmt.Sprintf("%d blocks, %d done", len(d.blocks), done))
	return headerStyle.Render(titleStyle.Render(label) + "  " + stats)
}

// renderGrid draws the day as half-hour rows. Row geometry comes straight
// from the layout engine: one row covers hourHeight/2 pixels, so a block
// spans the rows its TopPx/HeightPx cover. Overlapping blocks stack; the
// first one drawn wins the row label.
func (d dayModel) renderGrid(w int) string {
	rowPx := d.hourHeight / 2
	firstRow := d.dayStartHour * 2
	lastRow := 48

	visible := d.height - 6
	if visible > 0 && lastRow-firstRow > visible {
		lastRow = firstRow + visible
	}

	nowRow := -1
	if d.layout.HasNow {
		totalPx := 24 * d.hourHeight
		nowRow = int(d.layout.NowFraction * totalPx / rowPx)
	}

	var rows []string
	for row := firstRow; row < lastRow; row++ {
		top := float64(row) * rowPx
		bottom := top + rowPx

		label := "     "
		if row%2 == 0 {
			label = fmt.Sprintf("%02d:00", row/2)
		}
		line := hourLabelStyle.Render(label) + " "

		covering := -1
		for i, pb := range d.layout.Blocks {
			if pb.TopPx < bottom && pb.TopPx+pb.HeightPx > top {
				covering = i
				break
			}
		}

		if covering >= 0 {
			pb := d.layout.Blocks[covering]
			style := lipgloss.NewStyle().Foreground(blockColor(pb.Block))
			text := "│"
			if pb.TopPx >= top && pb.TopPx < bottom {
				// Block starts on this row: show its title.
				mark := " "
				if pb.Block.Completed() {
					mark = "✓"
				}
				text = fmt.Sprintf("▐ %s %s %s", pb.Block.StartTime.Format("15:04"), pb.Block.Title, mark)
				if d.blockIndex(pb.Block.ID) == d.cursor {
					style = style.Bold(true).Underline(true)
				}
			}
			line += style.Render(text)
		} else {
			line += mutedStyle.Render("·")
		}

		if row == nowRow {
			line += nowLineStyle.Render(" ◀ now")
		}
		rows = append(rows, line)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// blockColor prefers the block's own color, falling back to its type default.
func blockColor(b store.TimeBlock) lipgloss.Color {
	if b.Color != "" {
		return lipgloss.Color(b.Color)
	}
	if c, ok := blockTypeColors[b.BlockType]; ok {
		return c
	}
	return colorPrimary
}

func (d dayModel) blockIndex(id int64) int {
	for i, b := range d.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}
