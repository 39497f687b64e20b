package tui

import "fmt"

// Task represents a single line in the progress display.
type Task struct {
	ID      TaskID
	Name    string
	Status  TaskStatus
	Message string
	Count   int
	Error   error
}

// NewTask creates a new pending task with the given ID and name.
func NewTask(id TaskID, name string) Task {
	return Task{
		ID:     id,
		Name:   name,
		Status: StatusPending,
	}
}

// DefaultTasks returns the task list for a report run.
func DefaultTasks() []Task {
	return []Task{
		NewTask(TaskSearchNew, "Searching new items"),
		NewTask(TaskSearchStale, "Searching stale items"),
		NewTask(TaskClassify, "Checking timelines"),
	}
}

// View renders the task as a string.
func (t Task) View(spinnerFrame string) string {
	icon := StatusIcon(t.Status, spinnerFrame)

	var name string
	if t.Status == StatusPending {
		name = taskDimStyle.Render(t.Name)
	} else {
		name = taskNameStyle.Render(t.Name)
	}

	line := fmt.Sprintf("  %s %s", icon, name)

	switch {
	case t.Message != "":
		line += " " + messageStyle.Render(t.Message)
	case t.Status == StatusComplete:
		line += " " + messageStyle.Render(fmt.Sprintf("(%d)", t.Count))
	}

	if t.Error != nil {
		line += " " + errorStyle.Render(t.Error.Error())
	}

	return line
}
