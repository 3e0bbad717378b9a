// Package kernel drives the simulation: it owns the processes, the MMU, and
// the replacement policy, services syscalls, and handles page faults. The
// Kernel is a ticking component; one engine tick is one round of the
// cooperative scheduling loop.
package kernel

//go:generate mockgen -destination "mock_replacement.go" -package kernel -write_package_comment=false gitlab.com/akita/vmsim/replacement Replacer

import (
	"log"
	"reflect"

	"github.com/pkg/math"
	"github.com/rs/xid"
	"gitlab.com/akita/akita/v3/sim"
	"gitlab.com/akita/akita/v3/tracing"
	"gitlab.com/akita/mem/v3/vm"

	"gitlab.com/akita/vmsim/paging"
	"gitlab.com/akita/vmsim/profiler"
	"gitlab.com/akita/vmsim/replacement"
	"gitlab.com/akita/vmsim/rng"
)

// MaxProcessCount caps the number of live processes.
const MaxProcessCount = 25

const (
	minPID = 1000
	maxPID = 9999

	minStepsPerTick = 64
	maxStepsPerTick = 128

	minInitialProcesses = 5
	maxInitialProcesses = 10

	spawnProb     = 0.45
	minSpawnBatch = 1
	maxSpawnBatch = 3
)

// A Kernel owns the MMU, the replacer, and all processes. Each tick it steps
// every live process a bounded number of times, may spawn new processes, and
// publishes a TickRecord to its renderers. It stops ticking once the process
// map empties, which ends the simulation.
type Kernel struct {
	*sim.TickingComponent

	mmu      *paging.MMU
	replacer replacement.Replacer
	rng      rng.Source

	processes map[vm.PID]*Process
	order     []vm.PID

	stats     *profiler.AccessStats
	renderers []Renderer
}

// Tick runs one round of the scheduling loop.
func (k *Kernel) Tick(now sim.VTimeInSec) bool {
	if len(k.processes) == 0 {
		return false
	}

	k.tickProcesses(now)
	k.maybeSpawn()
	k.publish(now)

	return true
}

// tickProcesses steps each live process up to a freshly drawn budget. The set
// of processes that run is fixed at the start of the tick; processes spawned
// during the tick first run on the next one.
func (k *Kernel) tickProcesses(now sim.VTimeInSec) {
	pids := make([]vm.PID, len(k.order))
	copy(pids, k.order)

	for _, pid := range pids {
		p, ok := k.processes[pid]
		if !ok {
			continue
		}

		budget := k.rng.Int(minStepsPerTick, maxStepsPerTick)
		for i := 0; i < budget; i++ {
			k.stats.RecordAccess()
			if p.Run(now, k) {
				break
			}
		}
	}
}

func (k *Kernel) maybeSpawn() {
	if len(k.processes) >= MaxProcessCount {
		return
	}
	if k.rng.Bernoulli(spawnProb) {
		k.spawn(k.rng.Int(minSpawnBatch, maxSpawnBatch))
	}
}

// spawn creates up to n processes, truncated to the process cap, each with a
// pid unique among the live ones.
func (k *Kernel) spawn(n int) {
	n = math.MinInt(n, MaxProcessCount-len(k.processes))
	for i := 0; i < n; i++ {
		pid := vm.PID(k.rng.IntUnique(minPID, maxPID, func(candidate int) bool {
			_, live := k.processes[vm.PID(candidate)]
			return live
		}))

		k.processes[pid] = newProcess(pid, k.rng)
		k.order = append(k.order, pid)
	}
}

// Syscall dispatches one syscall. Page faults raised while servicing an
// AccessMemory are routed to the exception handler; the issuing process never
// observes them.
func (k *Kernel) Syscall(now sim.VTimeInSec, sc Syscall) {
	switch sc := sc.(type) {
	case *AccessMemory:
		p := k.mustProcess(sc.PID)
		err := k.mmu.Access(sc.PID, p.pageTable, sc.Page, sc.Modify)
		if err != nil {
			k.handleException(now, err)

			// The faulting reference completes against the freshly
			// bound frame.
			err = k.mmu.Access(sc.PID, p.pageTable, sc.Page, sc.Modify)
			if err != nil {
				log.Panicf("page %d of pid %d still non-resident "+
					"after fault service", sc.Page, sc.PID)
			}
		}
	case *Exit:
		k.terminateProcess(sc.PID)
	default:
		log.Panicf("cannot handle syscall of %s", reflect.TypeOf(sc))
	}
}

func (k *Kernel) handleException(now sim.VTimeInSec, err error) {
	switch e := err.(type) {
	case *paging.PageFault:
		k.handlePageFault(now, e)
	default:
		log.Panicf("cannot handle exception of %s", reflect.TypeOf(err))
	}
}

// handlePageFault makes the faulting page resident: in a fresh frame when one
// is free, otherwise in the frame of a victim chosen by the policy. The victim
// eviction and the new binding happen together, before any further access.
func (k *Kernel) handlePageFault(now sim.VTimeInSec, fault *paging.PageFault) {
	k.stats.RecordFault()

	taskID := xid.New().String()
	tracing.StartTask(taskID, "", k, "page_fault", "page_fault",
		map[string]interface{}{"fault": fault, "now": now})
	defer tracing.EndTask(taskID, k)

	p := k.mustProcess(fault.PID)
	pte := &p.pageTable[fault.Page]

	if fid, ok := k.mmu.Alloc(fault.PID, fault.Page); ok {
		pte.Bind(fid)
		return
	}

	k.stats.RecordReplacement()
	tracing.AddTaskStep(taskID, k, "replacement")

	victim := k.replacer.Replace()
	fid := victim.Evict()
	k.mmu.Realloc(fid, fault.PID, fault.Page)
	pte.Bind(fid)
}

// terminateProcess frees every frame the process occupies and removes it from
// the process map.
func (k *Kernel) terminateProcess(pid vm.PID) {
	p := k.mustProcess(pid)

	for i := range p.pageTable {
		e := &p.pageTable[i]
		if e.Presented {
			k.mmu.Free(e.Evict())
		}
	}

	delete(k.processes, pid)
	for i, other := range k.order {
		if other == pid {
			k.order = append(k.order[:i], k.order[i+1:]...)
			break
		}
	}
}

func (k *Kernel) mustProcess(pid vm.PID) *Process {
	p, ok := k.processes[pid]
	if !ok {
		log.Panicf("no process with pid %d", pid)
	}
	return p
}

// BusyFrameIDs exposes the busy frames to the replacement policy.
func (k *Kernel) BusyFrameIDs() []paging.FrameID {
	return k.mmu.BusyFrameIDs()
}

// Frame exposes one frame to the replacement policy.
func (k *Kernel) Frame(fid paging.FrameID) paging.Frame {
	return k.mmu.Frame(fid)
}

// PageTableEntry resolves a (pid, page) pair to the owning PTE. A frame that
// references an absent pid is an invariant violation and panics.
func (k *Kernel) PageTableEntry(pid vm.PID, page int) *paging.PTE {
	return &k.mustProcess(pid).pageTable[page]
}

func (k *Kernel) publish(now sim.VTimeInSec) {
	rec := TickRecord{
		Time:      now,
		Memory:    k.mmu.Stats(),
		Access:    k.stats.Snapshot(),
		Processes: make([]ProcessStats, 0, len(k.order)),
	}
	for _, pid := range k.order {
		rec.Processes = append(rec.Processes, k.processes[pid].Stats())
	}

	for _, r := range k.renderers {
		r.Render(rec)
	}
}
