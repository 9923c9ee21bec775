package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"todos/internal/output"
	"todos/internal/tasklist"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	filterStyle   = lipgloss.NewStyle().Padding(0, 1)
	filterOnStyle = filterStyle.Reverse(true).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	faintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dialogStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("220")).
			Padding(0, 2)
)

var filterLabels = map[tasklist.Filter]string{
	tasklist.FilterAll:       "All",
	tasklist.FilterActive:    "Active",
	tasklist.FilterCompleted: "Completed",
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	m.writeFilters(&b)
	b.WriteString("\n\n")

	if m.pending != nil {
		b.WriteString(dialogStyle.Render(confirmText(*m.pending)))
		b.WriteString("\n\n")
	} else {
		m.writeTasks(&b)
	}

	st := m.store.Stats()
	fmt.Fprintf(&b, "%d total · %d active · %d completed\n", st.Total, st.Active, st.Completed)

	if task, ok := m.selected(); ok && m.focus == focusList {
		b.WriteString(faintStyle.Render("created " + task.CreatedLabel(m.opts.DateFormat)))
	}
	b.WriteString("\n")

	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice))
	}
	b.WriteString("\n")

	b.WriteString(faintStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) writeFilters(b *strings.Builder) {
	current := m.store.Filter()
	for i, f := range tasklist.Filters {
		label := fmt.Sprintf("%d %s", i+1, filterLabels[f])
		if f == current {
			b.WriteString(filterOnStyle.Render(label))
		} else {
			b.WriteString(filterStyle.Render(label))
		}
	}
}

func (m *Model) writeTasks(b *strings.Builder) {
	view := m.store.FilteredView()
	if len(view) == 0 {
		b.WriteString(faintStyle.Render(output.EmptyMessage(m.store.Filter())))
		b.WriteString("\n\n")
		return
	}

	now := m.opts.Now()
	for i, task := range view {
		pointer := "  "
		if m.focus == focusList && i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}

		text := output.SanitizeText(task.Text)
		if task.Completed {
			text = doneStyle.Render(text)
		}
		created := humanize.RelTime(task.CreatedAt, now, "ago", "from now")

		fmt.Fprintf(b, "%s%s %s  %s\n", pointer, output.Checkbox(task.Completed), text, faintStyle.Render(created))
	}
	b.WriteString("\n")
}

func (m *Model) helpLine() string {
	if m.pending != nil {
		return "y confirm · n cancel"
	}
	if m.focus == focusInput {
		return "enter add · tab filter · esc/↓ list · ctrl+c quit"
	}
	return "space toggle · d delete · c clear completed · R reset · 1/2/3 filter · a add · q quit"
}

func confirmText(p tasklist.Pending) string {
	switch p.Action {
	case tasklist.ActionReset:
		return fmt.Sprintf("Remove ALL %d task(s)? This cannot be undone! (y/n)", p.Affected)
	default:
		return fmt.Sprintf("Remove %d completed task(s)? (y/n)", p.Affected)
	}
}
