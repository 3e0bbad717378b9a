package profiler

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// A Collector accumulates one snapshot per simulation tick and summarizes the
// fault-rate series at the end of the run.
type Collector struct {
	faultRates []float64
	last       Snapshot
	ticks      int
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// CollectTick records the snapshot published at the end of a tick.
func (c *Collector) CollectTick(s Snapshot) {
	c.ticks++
	c.last = s
	if !math.IsNaN(s.FaultRate) {
		c.faultRates = append(c.faultRates, s.FaultRate)
	}
}

// Report writes the end-of-run summary.
func (c *Collector) Report(w io.Writer) {
	fmt.Fprintf(w, "\nsimulated %d ticks\n", c.ticks)
	fmt.Fprintf(w, "accesses %d, faults %d, replacements %d\n",
		c.last.Total, c.last.Faults, c.last.Replaced)

	if len(c.faultRates) == 0 {
		return
	}
	fmt.Fprintf(w, "fault rate: mean %.2f%%, stddev %.2f%%, max %.2f%%\n",
		stat.Mean(c.faultRates, nil),
		stat.StdDev(c.faultRates, nil),
		floats.Max(c.faultRates))
}
