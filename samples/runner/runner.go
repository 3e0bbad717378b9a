// Package runner wires the simulator together for command-line use: it parses
// flags, builds the engine and kernel, attaches renderers and tracers, and
// drives the run to completion.
package runner

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tebeka/atexit"
	"gitlab.com/akita/akita/v3/monitoring"
	"gitlab.com/akita/akita/v3/sim"
	"gitlab.com/akita/akita/v3/tracing"

	"gitlab.com/akita/vmsim/api"
	"gitlab.com/akita/vmsim/console"
	"gitlab.com/akita/vmsim/kernel"
	"gitlab.com/akita/vmsim/profiler"
	"gitlab.com/akita/vmsim/replacement"
	"gitlab.com/akita/vmsim/rng"
)

var seedFlag = flag.Int64("seed", 0,
	"seed for all stochastic decisions (0 derives one from the clock)")
var framesFlag = flag.Int("frames", 0,
	"size of the physical frame pool (0 draws a random size)")
var processesFlag = flag.Int("processes", 0,
	"number of processes spawned at start (0 draws a random count)")
var paceFlag = flag.Duration("pace", 500*time.Millisecond,
	"wall-clock delay between dashboard frames (0 disables pacing)")
var rowsFlag = flag.Int("rows", 20,
	"maximum process rows shown on the dashboard")
var quietFlag = flag.Bool("quiet", false,
	"disable the console dashboard")
var monitorFlag = flag.Bool("monitor", false,
	"start the AkitaRTM monitoring server")
var apiPortFlag = flag.String("api-port", "",
	"serve tick statistics as JSON on this port (empty disables)")
var traceFaultsFlag = flag.Bool("trace-faults", false,
	"trace page-fault tasks and report per-process counts at exit")

// A Runner configures and executes one simulation.
type Runner struct {
	Engine sim.Engine
	Kernel *kernel.Kernel

	policy    string
	seed      int64
	collector *profiler.Collector
	tracer    *kernel.FaultTracer
	apiServer *api.Server
	monitor   *monitoring.Monitor
}

// ParseFlag reads the command line. The single positional argument selects the
// replacement policy and defaults to clock.
func (r *Runner) ParseFlag() *Runner {
	flag.Parse()

	r.policy = "clock"
	if flag.NArg() > 0 {
		r.policy = flag.Arg(0)
	}

	if !replacement.Registered(r.policy) {
		fmt.Fprintf(os.Stderr, "unknown replacement policy %q, have: %s\n",
			r.policy, strings.Join(replacement.Policies(), ", "))
		atexit.Exit(1)
	}

	r.seed = *seedFlag
	if r.seed == 0 {
		r.seed = time.Now().UnixNano()
	}

	return r
}

// Init builds the engine, the kernel, and everything attached to them.
func (r *Runner) Init() *Runner {
	r.Engine = sim.NewSerialEngine()

	source := rng.NewSource(r.seed)

	r.collector = profiler.NewCollector()

	b := kernel.MakeBuilder().
		WithEngine(r.Engine).
		WithRNG(source).
		WithPolicy(r.policy).
		WithFrameCount(*framesFlag).
		WithInitialProcesses(*processesFlag).
		WithRenderer(collectorRenderer{r.collector})

	if !*quietFlag {
		b = b.WithRenderer(console.New(os.Stdout, *rowsFlag, *paceFlag))
	}

	if *apiPortFlag != "" {
		r.apiServer = api.NewServer(":" + *apiPortFlag)
		b = b.WithRenderer(r.apiServer)
		r.apiServer.Start()
	}

	r.Kernel = b.Build("Kernel")

	if *traceFaultsFlag {
		r.tracer = kernel.NewFaultTracer()
		tracing.CollectTrace(r.Kernel, r.tracer)
	}

	if *monitorFlag {
		r.monitor = monitoring.NewMonitor()
		r.monitor.RegisterEngine(r.Engine)
		r.monitor.RegisterComponent(r.Kernel)
		r.monitor.StartServer()
	}

	atexit.Register(r.report)

	return r
}

// Run ticks the kernel until every process has exited.
func (r *Runner) Run() {
	r.Kernel.TickLater(0)

	err := r.Engine.Run()
	if err != nil {
		log.Panic(err)
	}

	if r.apiServer != nil {
		r.apiServer.Shutdown()
	}

	atexit.Exit(0)
}

func (r *Runner) report() {
	fmt.Fprintf(os.Stderr, "seed %d, policy %s\n", r.seed, r.policy)
	r.collector.Report(os.Stderr)
	if r.tracer != nil {
		r.tracer.Report(os.Stderr)
	}
}

// collectorRenderer feeds tick records to a profiler collector.
type collectorRenderer struct {
	collector *profiler.Collector
}

func (c collectorRenderer) Render(rec kernel.TickRecord) {
	c.collector.CollectTick(rec.Access)
}
