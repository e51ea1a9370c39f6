// Package view turns task list state into display rows and a stats summary.
// Build is a pure function of the collection, filter and edit cursor; the
// terminal UI and the HTML export both draw from its output.
package view

import (
	"fmt"

	"tasklist/internal/task"
)

type ActionKind string

const (
	ActionToggle ActionKind = "toggle"
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
	ActionSave   ActionKind = "save"
	ActionCancel ActionKind = "cancel"
)

type Action struct {
	Kind  ActionKind
	Label string
}

// Row is one displayed line. A placeholder row stands in for an empty view
// and carries no task or actions.
type Row struct {
	ID            int64
	Text          string
	Completed     bool
	Priority      task.Priority
	PriorityLabel string
	Editing       bool
	EditValue     string
	Focus         bool
	Placeholder   bool
	Actions       []Action
}

type Summary struct {
	Total     string
	Active    string
	Completed string
}

type Page struct {
	Title       string
	Filter      task.Filter
	FilterLabel string
	Rows        []Row
	Stats       task.Stats
	Summary     Summary
}

// Source is the read side of the controller.
type Source interface {
	Tasks() []task.Task
	Filter() task.Filter
	Editing() (int64, bool)
}

func FromSource(src Source, labels Labels) Page {
	id, editing := src.Editing()
	return Build(src.Tasks(), src.Filter(), id, editing, labels)
}

// Build renders the visible rows and stats. editID is only consulted when editing is true.
func Build(tasks []task.Task, filter task.Filter, editID int64, editing bool, labels Labels) Page {
	visible := task.Visible(tasks, filter)
	stats := task.Count(tasks)

	page := Page{
		Title:       labels.Title,
		Filter:      filter,
		FilterLabel: labels.Filter[filter],
		Rows:        make([]Row, 0, max(len(visible), 1)),
		Stats:       stats,
		Summary: Summary{
			Total:     fmt.Sprintf("%s: %d", labels.Total, stats.Total),
			Active:    fmt.Sprintf("%s: %d", labels.Active, stats.Active),
			Completed: fmt.Sprintf("%s: %d", labels.Completed, stats.Completed),
		},
	}

	for _, t := range visible {
		page.Rows = append(page.Rows, buildRow(t, editing && t.ID == editID, labels))
	}
	if len(visible) == 0 {
		page.Rows = append(page.Rows, Row{Placeholder: true, Text: labels.NoTasks})
	}
	return page
}

func buildRow(t task.Task, editing bool, labels Labels) Row {
	row := Row{
		ID:            t.ID,
		Text:          t.Text,
		Completed:     t.Completed,
		Priority:      t.Priority,
		PriorityLabel: labels.Priority[t.Priority],
		Editing:       editing,
	}
	if editing {
		row.EditValue = t.Text
		row.Focus = true
		row.Actions = []Action{
			{ActionToggle, labels.Toggle},
			{ActionSave, labels.Save},
			{ActionCancel, labels.Cancel},
		}
		return row
	}
	row.Actions = []Action{
		{ActionToggle, labels.Toggle},
		{ActionEdit, labels.Edit},
		{ActionDelete, labels.Delete},
	}
	return row
}

// Has reports whether the row offers an action of kind k.
func (r Row) Has(k ActionKind) bool {
	for _, a := range r.Actions {
		if a.Kind == k {
			return true
		}
	}
	return false
}
