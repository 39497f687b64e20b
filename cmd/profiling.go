package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spiffcs/maintainer-dashboard/internal/log"
)

// Profiler manages CPU, memory, and trace profiling for a single run.
// Empty paths disable the corresponding profile.
type Profiler struct {
	cpuProfile string
	memProfile string
	tracePath  string

	cpuFile   *os.File
	traceFile *os.File
}

// NewProfiler creates a new profiler with the specified profile paths.
func NewProfiler(cpuProfile, memProfile, tracePath string) *Profiler {
	return &Profiler{
		cpuProfile: cpuProfile,
		memProfile: memProfile,
		tracePath:  tracePath,
	}
}

// Start begins CPU profiling and execution tracing if configured.
// On error nothing is left running.
func (p *Profiler) Start() error {
	if p.cpuProfile != "" {
		f, err := os.Create(p.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return errors.Join(fmt.Errorf("could not start CPU profile: %w", err), f.Close())
		}
		p.cpuFile = f
	}

	if p.tracePath != "" {
		f, err := os.Create(p.tracePath)
		if err != nil {
			p.Stop()
			return fmt.Errorf("could not create trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			p.Stop()
			return fmt.Errorf("could not start trace: %w", err)
		}
		p.traceFile = f
	}

	return nil
}

// Stop ends all profiling and writes the memory profile if configured.
// Failures are logged; profiling never fails a run after it started.
func (p *Profiler) Stop() {
	if p.traceFile != nil {
		trace.Stop()
		closeLogged(p.traceFile, "trace")
		p.traceFile = nil
	}

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		closeLogged(p.cpuFile, "CPU profile")
		p.cpuFile = nil
	}

	if p.memProfile != "" {
		f, err := os.Create(p.memProfile)
		if err != nil {
			log.Error("could not create memory profile", "error", err)
			return
		}
		defer closeLogged(f, "memory profile")

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Error("could not write memory profile", "error", err)
		}
	}
}

func closeLogged(f *os.File, what string) {
	if err := f.Close(); err != nil {
		log.Error("could not close "+what+" file", "error", err)
	}
}
