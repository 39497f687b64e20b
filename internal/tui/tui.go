// Package tui renders live progress for a report run on the terminal.
package tui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/spiffcs/maintainer-dashboard/internal/triage"
)

// Run starts the progress display on w and blocks until the event
// channel is closed or a DoneEvent arrives.
func Run(events <-chan Event, w io.Writer) error {
	model := NewModel(events)
	// Don't use alt screen - render inline so the report follows the progress
	p := tea.NewProgram(model, tea.WithOutput(w))
	_, err := p.Run()
	return err
}

// ShouldUseTUI returns true if stderr is a terminal outside CI.
func ShouldUseTUI() bool {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}

	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"GITLAB_CI",
		"BUILDKITE",
	}

	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return false
		}
	}

	return true
}

// SendEvent sends an event to the channel in a non-blocking manner.
func SendEvent(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- e:
	default:
		// Non-blocking send - drop event if channel is full
	}
}

// ProgressSink returns an engine progress callback that forwards stage
// transitions to ch as task events.
func ProgressSink(ch chan<- Event) triage.ProgressFunc {
	return func(p triage.Progress) {
		SendEvent(ch, FromProgress(p))
	}
}

// FromProgress converts an engine stage transition into a task event.
func FromProgress(p triage.Progress) TaskEvent {
	e := TaskEvent{Task: taskFor(p.Stage), Status: StatusRunning}
	switch {
	case p.Err != nil:
		e.Status = StatusError
		e.Error = p.Err
	case p.Done:
		e.Status = StatusComplete
		e.Count = p.Count
		if p.Count == 0 {
			e.Message = "(none)"
		}
	case p.Stage == triage.StageClassify:
		e.Message = "checking maintainer comments"
	}
	return e
}

func taskFor(s triage.Stage) TaskID {
	switch s {
	case triage.StageSearchNew:
		return TaskSearchNew
	case triage.StageSearchStale:
		return TaskSearchStale
	case triage.StageClassify:
		return TaskClassify
	default:
		return TaskID(-1)
	}
}
