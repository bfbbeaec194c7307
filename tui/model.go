// Package tui is the live monitor: connection status, session counters, and
// a scrolling tail of outgoing MIDI events.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-erae/midi"
)

const eventTail = 16

// Status is the session snapshot the monitor renders.
type Status struct {
	Device    string
	Output    string
	Reports   uint64
	Malformed uint64
	Unmatched uint64
	Fingers   int
	Channels  int
	Steals    uint64
}

// Hooks connects the model to the running session.
type Hooks struct {
	Status func() Status
	Panic  func()
	Events <-chan midi.Event
}

type Model struct {
	hooks    Hooks
	status   Status
	events   []midi.Event
	quitting bool
}

type tickMsg time.Time

type eventMsg midi.Event

func NewModel(hooks Hooks) Model {
	return Model{hooks: hooks}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func listenForEvents(events <-chan midi.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), listenForEvents(m.hooks.Events))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "p":
			m.hooks.Panic()
		}

	case tickMsg:
		m.status = m.hooks.Status()
		return m, tick()

	case eventMsg:
		m.events = append(m.events, midi.Event(msg))
		if len(m.events) > eventTail {
			m.events = m.events[len(m.events)-eventTail:]
		}
		return m, listenForEvents(m.hooks.Events)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	st := m.status

	device := warnStyle.Render("waiting for surface...")
	if st.Device != "" {
		device = okStyle.Render(st.Device)
	}
	output := dimStyle.Render("(none)")
	if st.Output != "" {
		output = okStyle.Render(st.Output)
	}

	counters := fmt.Sprintf("reports:%d  malformed:%d  unmatched:%d  fingers:%d  channels:%d/15  steals:%d",
		st.Reports, st.Malformed, st.Unmatched, st.Fingers, st.Channels, st.Steals)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render("go-erae"))
	out.WriteString("\n\n")
	out.WriteString("  surface: " + device + "\n")
	out.WriteString("  output:  " + output + "\n\n")
	out.WriteString("  " + dimStyle.Render(counters) + "\n\n")

	for _, ev := range m.events {
		out.WriteString("  " + ev.String() + "\n")
	}
	for i := len(m.events); i < eventTail; i++ {
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("  p:panic  q:quit"))
	out.WriteString("\n")

	return out.String()
}
