package tui

// TaskID identifies a task in the progress display.
type TaskID int

const (
	TaskSearchNew   TaskID = iota // Searching for items without a maintainer response
	TaskSearchStale               // Searching for items maintainers went quiet on
	TaskClassify                  // Checking maybe-stale timelines
)

// TaskStatus represents the current status of a task.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusComplete
	StatusError
)

// Event is the interface for all progress events.
type Event interface {
	isEvent()
}

// TaskEvent represents an update to a task's status.
type TaskEvent struct {
	Task    TaskID
	Status  TaskStatus
	Message string // Optional message shown after the task name
	Count   int    // Number of items the task produced
	Error   error  // Error if status is StatusError
}

func (TaskEvent) isEvent() {}

// DoneEvent signals that all work is complete.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}
