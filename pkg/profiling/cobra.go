package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// CobraProfiler wires the profiling flags into a cobra command tree:
// --timing for the section timeline, --cpu-profile and --mem-profile for
// pprof output.
type CobraProfiler struct {
	cpuPath string
	memPath string
	timing  bool

	cpuFile *os.File
}

// NewCobraProfiler creates a profiler ready to attach to a command.
func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{}
}

// AddFlags registers the profiling flags on cmd as persistent flags.
func (p *CobraProfiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuPath, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memPath, "mem-profile", "", "Write memory profile to file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print hierarchical timing summary on exit")
}

// PreRun starts the requested profiles. Use it as a PersistentPreRunE hook.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.timing {
		Enable()
	}

	if p.cpuPath != "" {
		f, err := os.Create(p.cpuPath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		p.cpuFile = f
	}
	return nil
}

// PostRun stops the profiles and writes the outputs. Use it as a
// PersistentPostRun hook.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, args []string) {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		fmt.Fprintf(os.Stderr, "CPU profile written to %s\n", p.cpuPath)
	}

	if p.memPath != "" {
		p.writeHeapProfile()
	}

	if p.timing {
		Summarize(os.Stderr)
	}
}

func (p *CobraProfiler) writeHeapProfile() {
	f, err := os.Create(p.memPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
		return
	}
	defer f.Close()

	runtime.GC() // settle the heap statistics first
	if err := pprof.WriteHeapProfile(f); err != nil {
		fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Memory profile written to %s\n", p.memPath)
}
