package kernel

import (
	"github.com/rs/xid"
	"gitlab.com/akita/akita/v3/sim"
	"gitlab.com/akita/mem/v3/vm"

	"gitlab.com/akita/vmsim/paging"
	"gitlab.com/akita/vmsim/rng"
)

const (
	minPageTableLen = 32
	maxPageTableLen = 64

	minLifetime = 1024
	maxLifetime = 2048

	minWorkingSetLifetime = 128
	maxWorkingSetLifetime = 256

	workingSetProb = 0.20
	workingSetBias = 0.90
	modifyProb     = 0.50
)

// A Process is a synthetic workload. Each step it references one page, biased
// toward its working set, and after a bounded number of steps it exits. The
// working-set partition of its pages rotates periodically.
type Process struct {
	pid vm.PID
	uid string

	pageTable paging.PageTable
	lifetime  int
	counter   int

	workingSet         []int
	idleSet            []int
	workingSetLifetime int

	rng rng.Source
}

// ProcessStats is the read-only view of a process shown on the dashboard.
type ProcessStats struct {
	PID             vm.PID  `json:"pid"`
	UID             string  `json:"uid"`
	Lifetime        int     `json:"ttl"`
	Counter         int     `json:"counter"`
	PageTableSize   int     `json:"page_table_size"`
	WorkingSetSize  int     `json:"working_set_size"`
	WorkingSetTTL   int     `json:"working_set_ttl"`
	WorkingSetRatio float64 `json:"working_set_ratio_percent"`
}

func newProcess(pid vm.PID, r rng.Source) *Process {
	p := &Process{
		pid:       pid,
		uid:       xid.New().String(),
		pageTable: paging.NewPageTable(r.Int(minPageTableLen, maxPageTableLen)),
		lifetime:  r.Int(minLifetime, maxLifetime),
		rng:       r,
	}
	p.rotate()
	return p
}

// rotate re-partitions the pages into working set and idle set by independent
// Bernoulli trials, and pushes the next rotation further out. An empty working
// set is permitted; Run falls back to the idle set.
func (p *Process) rotate() {
	p.workingSetLifetime += p.rng.Int(minWorkingSetLifetime, maxWorkingSetLifetime)

	working := make([]int, 0, len(p.pageTable))
	idle := make([]int, 0, len(p.pageTable))
	for page := range p.pageTable {
		if p.rng.Bernoulli(workingSetProb) {
			working = append(working, page)
		} else {
			idle = append(idle, page)
		}
	}
	p.workingSet = working
	p.idleSet = idle
}

// Run performs one step: either an AccessMemory syscall against a page chosen
// with working-set locality, or, once the lifetime is exhausted, an Exit
// syscall. It returns true when the process terminated.
func (p *Process) Run(now sim.VTimeInSec, sys SyscallHandler) bool {
	step := p.counter
	p.counter++

	if step >= p.lifetime {
		sys.Syscall(now, &Exit{PID: p.pid})
		return true
	}

	if step >= p.workingSetLifetime {
		p.rotate()
	}

	primary, fallback := p.workingSet, p.idleSet
	if !p.rng.Bernoulli(workingSetBias) {
		primary, fallback = fallback, primary
	}
	set := primary
	if len(set) == 0 {
		set = fallback
	}
	page := set[p.rng.Pick(len(set))]

	sys.Syscall(now, &AccessMemory{
		PID:    p.pid,
		Page:   page,
		Modify: p.rng.Bernoulli(modifyProb),
	})

	return false
}

// Stats returns the dashboard view of the process.
func (p *Process) Stats() ProcessStats {
	return ProcessStats{
		PID:            p.pid,
		UID:            p.uid,
		Lifetime:       p.lifetime,
		Counter:        p.counter,
		PageTableSize:  len(p.pageTable),
		WorkingSetSize: len(p.workingSet),
		WorkingSetTTL:  p.workingSetLifetime,
		WorkingSetRatio: 100 * float64(len(p.workingSet)) /
			float64(len(p.pageTable)),
	}
}
