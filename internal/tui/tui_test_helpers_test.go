package tui

import (
	"context"
	"testing"
	"time"

	"scheduler-cli/internal/testutil"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// settle runs cmd and every command it produces, feeding messages back into
// the model until nothing is left. Spinner frames, flash expiry and quit are
// dropped, as is anything that takes longer than a moment (cursor blink, ticks).
func settle(m appModel, cmd tea.Cmd) appModel {
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		switch msg := runCmd(c).(type) {
		case nil, spinner.TickMsg, flashDoneMsg, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			pending = append(pending, msg...)
			continue
		default:
			next, nc := m.Update(msg)
			m = next.(appModel)
			pending = append(pending, nc)
		}
	}
	return m
}

func runCmd(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// send delivers one message and settles whatever it triggers.
func send(m appModel, msg tea.Msg) appModel {
	next, cmd := m.Update(msg)
	return settle(next.(appModel), cmd)
}

func press(m appModel, keys ...string) appModel {
	for _, k := range keys {
		m = send(m, keyMsg(k))
	}
	return m
}

func typeText(m appModel, s string) appModel {
	for _, r := range s {
		m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// startedModel builds a model over svc and applies the initial fetch.
func startedModel(t *testing.T, svc *testutil.FakeService) appModel {
	t.Helper()
	m := newAppModel(context.Background(), Options{Service: svc})
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return settle(m, m.Init())
}

func visibleMessages(m appModel) []string {
	var out []string
	for _, it := range m.list.Items() {
		out = append(out, it.(*taskRow).task.Message)
	}
	return out
}

func selectMessage(t *testing.T, m appModel, msg string) appModel {
	t.Helper()
	for i, it := range m.list.Items() {
		if it.(*taskRow).task.Message == msg {
			m.list.Select(i)
			return m
		}
	}
	t.Fatalf("task %q not visible", msg)
	return m
}
