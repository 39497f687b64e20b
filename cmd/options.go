package cmd

// Options holds the shared command-line options for the report command.
type Options struct {
	Format      string
	StaleWindow string // e.g. "14d"; empty uses the configured stale_days
	Sort        string
	Bucket      string
	Verbosity   int
	Progress    *bool // nil means auto-detect

	// Profiling options
	CPUProfile string // Write CPU profile to file
	MemProfile string // Write memory profile to file
	Trace      string // Write execution trace to file
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Sort:   "created",
		Bucket: "all",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithStaleWindow sets how long an item may go without a maintainer response.
func WithStaleWindow(window string) Option {
	return func(o *Options) {
		o.StaleWindow = window
	}
}

// WithSort sets the item ordering (created, repo, author, type; "-" reverses).
func WithSort(sort string) Option {
	return func(o *Options) {
		o.Sort = sort
	}
}

// WithBucket selects which buckets to print (new, stale, all).
func WithBucket(bucket string) Option {
	return func(o *Options) {
		o.Bucket = bucket
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithProgress forces the progress display on or off.
func WithProgress(enabled bool) Option {
	return func(o *Options) {
		o.Progress = &enabled
	}
}

// WithCPUProfile sets the CPU profile output file.
func WithCPUProfile(path string) Option {
	return func(o *Options) {
		o.CPUProfile = path
	}
}

// WithMemProfile sets the memory profile output file.
func WithMemProfile(path string) Option {
	return func(o *Options) {
		o.MemProfile = path
	}
}

// WithTrace sets the execution trace output file.
func WithTrace(path string) Option {
	return func(o *Options) {
		o.Trace = path
	}
}
