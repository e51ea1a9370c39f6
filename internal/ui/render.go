package ui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"tasklist/internal/task"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("111"))
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	doneTextStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("244"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	summaryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	badgeColors = map[task.Priority]lipgloss.Color{
		task.PriorityHigh:   lipgloss.Color("9"),
		task.PriorityMedium: lipgloss.Color("214"),
		task.PriorityLow:    lipgloss.Color("70"),
	}
)

func badge(p task.Priority, label string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(badgeColors[p]).Render("[" + label + "]")
}

// plain drops terminal escape sequences and control characters so task text
// is always drawn as text.
func plain(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}

func (m Model) renderFilters() string {
	parts := make([]string, 0, len(task.Filters))
	for _, f := range task.Filters {
		label := m.labels.Filter[f]
		if f == m.page.Filter {
			parts = append(parts, activeTabStyle.Render(label))
			continue
		}
		parts = append(parts, tabStyle.Render(label))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderRows() string {
	var b strings.Builder
	for i, row := range m.page.Rows {
		if row.Placeholder {
			b.WriteString("  ")
			b.WriteString(placeholderStyle.Render(row.Text))
			b.WriteString("\n")
			continue
		}

		cursor := " "
		if m.cursor == i && m.mode != modeAdd {
			cursor = ">"
		}
		checkbox := "[ ]"
		if row.Completed {
			checkbox = "[x]"
		}

		b.WriteString(cursor + " " + checkbox + " ")
		if row.Editing && m.mode == modeEdit {
			b.WriteString(m.edit.View())
		} else {
			text := plain(row.Text)
			if row.Completed {
				text = doneTextStyle.Render(text)
			}
			b.WriteString(text)
			b.WriteString(" ")
			b.WriteString(badge(row.Priority, row.PriorityLabel))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderSummary() string {
	s := m.page.Summary
	return summaryStyle.Render(strings.Join([]string{s.Total, s.Active, s.Completed}, " • "))
}
