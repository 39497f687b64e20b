package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model for the progress display.
type Model struct {
	tasks   []Task
	spinner spinner.Model
	events  <-chan Event
	started time.Time
	now     func() time.Time
	done    bool
}

// doneMsg signals that the event channel was closed.
type doneMsg struct{}

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*Model)

// WithTasks sets the tasks to display.
func WithTasks(tasks []Task) ModelOption {
	return func(m *Model) {
		m.tasks = tasks
	}
}

// WithClock overrides the time source for the elapsed counter.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// NewModel creates a new progress model reading from events.
func NewModel(events <-chan Event, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		tasks:   DefaultTasks(),
		spinner: s,
		events:  events,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.started = m.now()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForEvent(m.events),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TaskEvent:
		m = m.updateTask(msg)
		return m, waitForEvent(m.events)

	case DoneEvent, doneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// updateTask applies a TaskEvent to the matching task.
func (m Model) updateTask(e TaskEvent) Model {
	tasks := make([]Task, len(m.tasks))
	copy(tasks, m.tasks)

	for i := range tasks {
		if tasks[i].ID != e.Task {
			continue
		}
		tasks[i].Status = e.Status
		if e.Message != "" {
			tasks[i].Message = e.Message
		}
		if e.Count > 0 {
			tasks[i].Count = e.Count
		}
		if e.Error != nil {
			tasks[i].Error = e.Error
		}
		break
	}

	m.tasks = tasks
	return m
}

// Tasks returns the current task states.
func (m Model) Tasks() []Task {
	return append([]Task(nil), m.tasks...)
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	for _, task := range m.tasks {
		b.WriteString(task.View(m.spinner.View()))
		b.WriteString("\n")
	}

	// Only show elapsed time and cancel hint while running
	if !m.done {
		elapsed := m.now().Sub(m.started).Round(time.Second)
		b.WriteString(footerStyle.Render(fmt.Sprintf("\n  %s elapsed. Press Ctrl+C to cancel", elapsed)))
	}
	b.WriteString("\n")

	return b.String()
}

// waitForEvent creates a command that waits for the next event.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return event
	}
}
