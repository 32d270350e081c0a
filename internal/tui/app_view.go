package tui

import (
	"fmt"
	"strings"

	"scheduler-cli/internal/docs"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.showHelp {
		return normalizePane(m.helpView(), m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.filterView())
	b.WriteString("\n")
	b.WriteString(m.createView())
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(strings.Repeat(glyphHRule(), max(0, m.width))))
	b.WriteString("\n")
	if len(m.list.Items()) == 0 {
		b.WriteString(m.emptyView())
	} else {
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return normalizePane(b.String(), m.width, m.height)
}

func (m appModel) headerView() string {
	all := m.tasks.Tasks()
	active := 0
	for _, t := range all {
		if !t.Completed {
			active++
		}
	}
	title := styleTitle().Render("Tasks")
	counts := styleMuted().Render(fmt.Sprintf("  %d active, %d total", active, len(all)))
	if f := m.tasks.Filter(); f != "" {
		counts += styleMuted().Render(fmt.Sprintf(", %d shown", len(m.list.Items())))
	}
	right := ""
	if m.tasks.Fetching() {
		right = m.spinner.View() + " syncing"
	}
	left := title + counts
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m appModel) filterView() string {
	if m.focus == focusFilter {
		return renderInputLine(m.width, m.filterInput.View())
	}
	if v := m.filterInput.Value(); v != "" {
		return styleMuted().Render(" / " + v + "  (esc clears)")
	}
	return styleMuted().Render(" / filter")
}

func (m appModel) createView() string {
	if m.focus == focusCreate {
		return renderInputLine(m.width, m.createInput.View())
	}
	if draft := m.tasks.NewTaskMessage(); draft != "" {
		return styleMuted().Render(" + " + draft + "  (n to continue)")
	}
	return styleMuted().Render(" + n: new task")
}

func (m appModel) emptyView() string {
	switch {
	case m.tasks.Fetching() && m.tasks.Len() == 0:
		return styleMuted().Render(" Loading tasks" + glyphEllipsis())
	case m.tasks.Len() == 0:
		return styleMuted().Render(" No tasks yet. Press n to add one.")
	default:
		return styleMuted().Render(" No tasks match the filter.")
	}
}

func (m appModel) footerView() string {
	done := m.tasks.AllCompleted()
	box := glyphCheckbox(done)
	if done {
		box = styleDone().Render(box)
	}
	line := " " + box + " All tasks completed"
	if !done && len(m.tasks.Incomplete()) > 0 {
		line += styleMuted().Render("  (C)")
	}

	status := ""
	switch {
	case m.flash != "" && m.flashError:
		status = styleError().Render(m.flash)
	case m.flash != "":
		status = m.flash
	default:
		hints := make([]string, 0, len(m.keys.footerBindings()))
		for _, kb := range m.keys.footerBindings() {
			h := kb.Help()
			hints = append(hints, h.Key+" "+h.Desc)
		}
		status = styleMuted().Render(strings.Join(hints, "  "))
	}
	return line + "\n " + status
}

func (m appModel) helpView() string {
	body, ok := docs.Get("keys")
	if !ok {
		return "help unavailable"
	}
	return docs.Render(body, m.width, markdownStyle()) + "\n\n" + styleMuted().Render(" ? or esc to close")
}
