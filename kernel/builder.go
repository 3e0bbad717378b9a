package kernel

import (
	"gitlab.com/akita/akita/v3/sim"
	"gitlab.com/akita/mem/v3/vm"

	"gitlab.com/akita/vmsim/paging"
	"gitlab.com/akita/vmsim/profiler"
	"gitlab.com/akita/vmsim/replacement"
	"gitlab.com/akita/vmsim/rng"
)

// A Builder can build kernels.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	rng    rng.Source

	policy           string
	frameCount       int
	initialProcesses int
	renderers        []Renderer
}

// MakeBuilder returns a Builder with default parameters: the clock policy, a
// 2 Hz tick (one tick each 500 ms of simulated time), a frame count drawn from
// [512, 1024], and an initial spawn drawn from [5, 10].
func MakeBuilder() Builder {
	return Builder{
		freq:   2 * sim.Hz,
		policy: "clock",
	}
}

// WithEngine sets the event engine the kernel ticks on.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithFreq sets the tick frequency.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.freq = f
	return b
}

// WithRNG sets the randomness source behind all stochastic decisions.
func (b Builder) WithRNG(r rng.Source) Builder {
	b.rng = r
	return b
}

// WithPolicy selects the replacement policy by registry name.
func (b Builder) WithPolicy(name string) Builder {
	b.policy = name
	return b
}

// WithFrameCount fixes the size of the frame pool. Zero keeps the default
// random size.
func (b Builder) WithFrameCount(n int) Builder {
	b.frameCount = n
	return b
}

// WithInitialProcesses fixes the number of processes spawned at construction.
// Zero keeps the default random count.
func (b Builder) WithInitialProcesses(n int) Builder {
	b.initialProcesses = n
	return b
}

// WithRenderer adds a renderer the kernel publishes tick records to.
func (b Builder) WithRenderer(r Renderer) Builder {
	b.renderers = append(b.renderers, r)
	return b
}

// Build creates the kernel, its MMU, and its replacer, and spawns the initial
// processes. It panics on an unknown policy name.
func (b Builder) Build(name string) *Kernel {
	k := &Kernel{
		rng:       b.rng,
		processes: make(map[vm.PID]*Process),
		stats:     profiler.NewAccessStats(),
		renderers: b.renderers,
	}
	k.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, k)

	k.mmu = paging.MakeBuilder().
		WithRNG(b.rng).
		WithFrameCount(b.frameCount).
		Build()

	replacer, err := replacement.New(b.policy, k, b.rng)
	if err != nil {
		panic(err)
	}
	k.replacer = replacer

	initial := b.initialProcesses
	if initial == 0 {
		initial = b.rng.Int(minInitialProcesses, maxInitialProcesses)
	}
	k.spawn(initial)

	return k
}
