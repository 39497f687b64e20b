package cmd

import (
	"fmt"

	"github.com/spiffcs/maintainer-dashboard/internal/tui"
)

// progressFlag implements pflag.Value for the tri-state --progress flag.
type progressFlag struct {
	opts *Options
}

func newProgressFlag(opts *Options) *progressFlag {
	return &progressFlag{opts: opts}
}

func (f *progressFlag) String() string {
	if f.opts.Progress == nil {
		return "auto"
	}
	if *f.opts.Progress {
		return "true"
	}
	return "false"
}

func (f *progressFlag) Set(s string) error {
	switch s {
	case "true", "1", "yes":
		v := true
		f.opts.Progress = &v
	case "false", "0", "no":
		v := false
		f.opts.Progress = &v
	case "auto":
		f.opts.Progress = nil
	default:
		return fmt.Errorf("invalid value %q: use true, false, or auto", s)
	}
	return nil
}

func (f *progressFlag) Type() string {
	return "bool"
}

func (f *progressFlag) IsBoolFlag() bool {
	return true
}

// shouldShowProgress determines whether to render live progress.
func shouldShowProgress(opts *Options) bool {
	// Logs and the progress display share stderr
	if opts.Verbosity > 0 {
		return false
	}
	if opts.Progress != nil {
		return *opts.Progress
	}
	return tui.ShouldUseTUI()
}
