package triage

// Stage identifies a step of an engine run.
type Stage int

const (
	StageSearchNew   Stage = iota // new items search
	StageSearchStale              // combined definitely/maybe stale search
	StageClassify                 // timeline check of maybe-stale candidates
)

// String returns a short human readable stage name.
func (s Stage) String() string {
	switch s {
	case StageSearchNew:
		return "search new"
	case StageSearchStale:
		return "search stale"
	case StageClassify:
		return "classify"
	default:
		return "unknown"
	}
}

// Progress reports a stage transition. Done is false when the stage starts.
// Count is the number of items the stage produced; Err is set on failure.
type Progress struct {
	Stage Stage
	Done  bool
	Count int
	Err   error
}

// ProgressFunc receives progress updates. It may be called from several
// goroutines at once and must not block.
type ProgressFunc func(Progress)

// WithProgress registers a callback for stage transitions.
func WithProgress(fn ProgressFunc) EngineOption {
	return func(e *Engine) {
		e.progress = fn
	}
}

func (e *Engine) report(p Progress) {
	if e.progress != nil {
		e.progress(p)
	}
}
