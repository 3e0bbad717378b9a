package kernel

import (
	"gitlab.com/akita/akita/v3/sim"

	"gitlab.com/akita/vmsim/paging"
	"gitlab.com/akita/vmsim/profiler"
)

// A TickRecord is what the kernel publishes to renderers at the end of each
// tick.
type TickRecord struct {
	Time      sim.VTimeInSec     `json:"time"`
	Memory    paging.MemoryStats `json:"memory"`
	Access    profiler.Snapshot  `json:"access"`
	Processes []ProcessStats     `json:"processes"`
}

// A Renderer consumes tick records. Renderers run on the engine goroutine and
// must not mutate kernel state.
type Renderer interface {
	Render(rec TickRecord)
}
