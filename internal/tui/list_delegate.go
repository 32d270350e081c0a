package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// taskDelegate renders one task per line:
//
//	☐ ☆ message
//
// A row in edit mode shows its text input instead of the message.
type taskDelegate struct{}

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	row, ok := item.(*taskRow)
	if !ok {
		fmt.Fprint(w, fitWidth(fmt.Sprint(item), contentW))
		return
	}
	fmt.Fprint(w, renderTaskLine(row, contentW, index == m.Index()))
}

func renderTaskLine(row *taskRow, width int, selected bool) string {
	t := row.task

	box := glyphCheckbox(t.Completed)
	star := glyphStar(t.Favorite)
	if t.Favorite {
		star = styleFavorite().Render(star)
	}
	if t.Completed {
		box = styleDone().Render(box)
	}
	prefix := " " + box + " " + star + " "

	if row.editing {
		prefixW := xansi.StringWidth(prefix) + xansi.StringWidth(glyphPencil()) + 1
		row.input.Width = max(1, width-prefixW-2)
		return prefix + glyphPencil() + " " + renderInputLine(width-prefixW, row.input.View())
	}

	msg := strings.TrimSpace(t.Message)
	if t.Completed {
		msg = styleMuted().Strikethrough(true).Render(msg)
	}
	line := fitWidth(prefix+msg, width)
	if selected {
		return styleSelected().Render(xansi.Strip(line))
	}
	return lipgloss.NewStyle().Render(line)
}
