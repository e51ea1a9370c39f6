package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/config"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// Toggling completion while the edit field has focus cannot use the list's
// toggle key, since that key is usually a printable character.
const editToggleKey = "ctrl+t"

type Model struct {
	ctx      context.Context
	ctrl     *task.Controller
	cfg      config.Config
	labels   view.Labels
	page     view.Page
	cursor   int
	mode     mode
	input    textinput.Model
	edit     textinput.Model
	editText string
	priority task.Priority
	status   string
}

// New builds the model around an initialized controller and applies the
// configured default filter.
func New(ctx context.Context, ctrl *task.Controller, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Task text"
	ti.CharLimit = 256
	ti.Width = 40

	// The edit field holds existing text, which may be of any length.
	ei := textinput.New()
	ei.CharLimit = 0
	ei.Width = 40

	priority, err := task.ParsePriority(cfg.DefaultPriority)
	if err != nil {
		priority = task.PriorityMedium
	}
	ctrl.SetFilter(task.ParseFilter(cfg.DefaultFilter))

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		cfg:      cfg,
		labels:   view.LabelsFor(cfg.Locale),
		input:    ti,
		edit:     ei,
		priority: priority,
		mode:     modeList,
		status:   fmt.Sprintf("Press '%s' to add, '%s' to edit, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Edit, cfg.Keys.Delete),
	}
	m.refresh()
	return m
}

func Run(ctx context.Context, ctrl *task.Controller, cfg config.Config) error {
	program := tea.NewProgram(New(ctx, ctrl, cfg), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeEdit:
			return m.updateEditMode(msg.String(), msg)
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-24, 10)
		m.edit.Width = max(msg.Width-16, 10)
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.CyclePriority:
		m.priority = m.priority.Next()
		return m, nil
	case m.cfg.Keys.Confirm:
		t, added, err := m.ctrl.AddTask(m.ctx, m.input.Value(), m.priority)
		if !added {
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.refresh()
		m.selectID(t.ID)
		m.status = "Added task"
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, editing := m.ctrl.Editing()
	if !editing {
		m.mode = modeList
		return m, nil
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		m.ctrl.CancelEdit()
		m.edit.Blur()
		m.mode = modeList
		m.status = "Edit cancelled"
		m.refresh()
		return m, nil
	case m.cfg.Keys.Confirm:
		text := m.edit.Value()
		if row, ok := m.ctrl.Find(id); ok && text == m.editText {
			// The field sanitizes what it loads; an untouched field keeps the stored text.
			text = row.Text
		}
		err := m.ctrl.SaveEdit(m.ctx, id, text)
		m.edit.Blur()
		m.mode = modeList
		m.status = "Saved"
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
		}
		m.refresh()
		return m, nil
	case editToggleKey:
		m.reportErr(m.ctrl.ToggleComplete(m.ctx, id), "Toggled task")
		m.refresh()
		return m, nil
	default:
		var cmd tea.Cmd
		m.edit, cmd = m.edit.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, m.selectable())
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, m.selectable())
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.status = fmt.Sprintf("Add mode: type the task, %s to change priority, %s to save", m.cfg.Keys.CyclePriority, m.cfg.Keys.Confirm)
		cmd := m.input.Focus()
		return m, cmd
	case m.cfg.Keys.Toggle:
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.reportErr(m.ctrl.ToggleComplete(m.ctx, row.ID), "Toggled task")
		m.refresh()
	case m.cfg.Keys.Edit:
		row, ok := m.selected()
		if !ok {
			m.status = "No task to edit"
			return m, nil
		}
		m.ctrl.StartEdit(row.ID)
		m.edit.SetValue(row.Text)
		m.edit.CursorEnd()
		m.editText = m.edit.Value()
		m.mode = modeEdit
		m.status = fmt.Sprintf("Editing: %s to save, %s to cancel, %s to toggle", m.cfg.Keys.Confirm, m.cfg.Keys.Cancel, editToggleKey)
		m.refresh()
		// Focus after the redraw that swaps the row for the edit field.
		cmd := m.edit.Focus()
		return m, tea.Batch(cmd, textinput.Blink)
	case m.cfg.Keys.Delete:
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.reportErr(m.ctrl.DeleteTask(m.ctx, row.ID), "Deleted task")
		m.refresh()
	case m.cfg.Keys.ClearCompleted:
		m.reportErr(m.ctrl.ClearCompleted(m.ctx), "Cleared completed tasks")
		m.refresh()
	case m.cfg.Keys.CycleFilter:
		m.setFilter(m.ctrl.Filter().Next())
	case m.cfg.Keys.FilterAll:
		m.setFilter(task.FilterAll)
	case m.cfg.Keys.FilterActive:
		m.setFilter(task.FilterActive)
	case m.cfg.Keys.FilterDone:
		m.setFilter(task.FilterCompleted)
	}
	return m, nil
}

func (m *Model) setFilter(f task.Filter) {
	m.ctrl.SetFilter(f)
	m.cursor = 0
	m.refresh()
	m.status = "Showing " + m.page.FilterLabel
}

func (m *Model) reportErr(err error, ok string) {
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	m.status = ok
}

// refresh rebuilds the page from controller state. Every action ends here.
func (m *Model) refresh() {
	m.page = view.FromSource(m.ctrl, m.labels)
	m.cursor = clampCursor(m.cursor, m.selectable())
}

func (m Model) selectable() int {
	if len(m.page.Rows) == 1 && m.page.Rows[0].Placeholder {
		return 0
	}
	return len(m.page.Rows)
}

func (m Model) selected() (view.Row, bool) {
	if m.selectable() == 0 {
		return view.Row{}, false
	}
	return m.page.Rows[m.cursor], true
}

func (m *Model) selectID(id int64) {
	for i, r := range m.page.Rows {
		if !r.Placeholder && r.ID == id {
			m.cursor = i
			return
		}
	}
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %q toggle • %s edit • %s delete • %s clear done • %s/%s/%s/%s filter • %s quit",
		k.Up, k.Down, k.Add, k.Toggle, k.Edit, k.Delete, k.ClearCompleted, k.CycleFilter, k.FilterAll, k.FilterActive, k.FilterDone, k.Quit)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.page.Title))
	b.WriteString("  ")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")
	b.WriteString(m.renderRows())
	b.WriteString("\n")
	b.WriteString(m.renderSummary())
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Add Task %s: ", badge(m.priority, m.labels.Priority[m.priority])))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}
