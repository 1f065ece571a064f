package runtimeflags

import (
	"flag"
	"fmt"
	"io"
	"math"
	"runtime/debug"

	"github.com/alecthomas/units"
	"github.com/pbnjay/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

type Flags struct {
	Threads int
	Stats   bool
	memMax  string
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&f.Threads, "P", 0, "number of batches evaluated in parallel (0=GOMAXPROCS)")
	fs.BoolVar(&f.Stats, "s", false, "print evaluation metrics to stderr on completion")
	fs.StringVar(&f.memMax, "memmax", "", "soft memory limit, e.g., 2GiB (default half of physical memory)")
}

// Init sets the runtime's soft memory limit.
func (f *Flags) Init() error {
	limit, err := f.memoryLimit()
	if err != nil {
		return err
	}
	if limit > 0 {
		debug.SetMemoryLimit(limit)
	}
	return nil
}

func (f *Flags) memoryLimit() (int64, error) {
	if f.memMax != "" {
		n, err := units.ParseBase2Bytes(f.memMax)
		if err != nil {
			return 0, fmt.Errorf("-memmax: %w", err)
		}
		return int64(n), nil
	}
	total := memory.TotalMemory() / 2
	if total > math.MaxInt64 {
		return math.MaxInt64, nil
	}
	return int64(total), nil
}

// PrintStats writes the metrics gathered by g in the Prometheus text format.
func (f *Flags) PrintStats(w io.Writer, g prometheus.Gatherer) error {
	if !f.Stats {
		return nil
	}
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
