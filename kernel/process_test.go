package kernel

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitlab.com/akita/akita/v3/sim"
	"gitlab.com/akita/mem/v3/vm"

	"gitlab.com/akita/vmsim/paging"
	"gitlab.com/akita/vmsim/rng"
)

// A syscallRecorder captures the syscalls a process issues.
type syscallRecorder struct {
	calls []Syscall
}

func (r *syscallRecorder) Syscall(now sim.VTimeInSec, sc Syscall) {
	r.calls = append(r.calls, sc)
}

var _ = Describe("Process", func() {
	var (
		source rng.Source
		sys    *syscallRecorder
	)

	BeforeEach(func() {
		source = rng.NewSource(1)
		sys = &syscallRecorder{}
	})

	It("should draw its shape from the configured ranges", func() {
		p := newProcess(7, source)

		Expect(len(p.pageTable)).To(BeNumerically(">=", 32))
		Expect(len(p.pageTable)).To(BeNumerically("<=", 64))
		Expect(p.lifetime).To(BeNumerically(">=", 1024))
		Expect(p.lifetime).To(BeNumerically("<=", 2048))
		Expect(p.counter).To(Equal(0))
	})

	It("should partition every page into exactly one set", func() {
		p := newProcess(7, source)

		Expect(len(p.workingSet) + len(p.idleSet)).
			To(Equal(len(p.pageTable)))

		seen := map[int]bool{}
		for _, page := range p.workingSet {
			seen[page] = true
		}
		for _, page := range p.idleSet {
			Expect(seen).NotTo(HaveKey(page))
			seen[page] = true
		}
		Expect(seen).To(HaveLen(len(p.pageTable)))
	})

	It("should access a page of its own table each step", func() {
		p := newProcess(7, source)

		done := p.Run(0, sys)

		Expect(done).To(BeFalse())
		Expect(sys.calls).To(HaveLen(1))

		access := sys.calls[0].(*AccessMemory)
		Expect(access.PID).To(Equal(vm.PID(7)))
		Expect(access.Page).To(BeNumerically(">=", 0))
		Expect(access.Page).To(BeNumerically("<", len(p.pageTable)))
	})

	It("should exit once the lifetime is exhausted", func() {
		p := &Process{pid: 7, lifetime: 0, rng: source}

		done := p.Run(0, sys)

		Expect(done).To(BeTrue())
		Expect(sys.calls).To(HaveLen(1))
		Expect(sys.calls[0]).To(Equal(&Exit{PID: 7}))
	})

	It("should run for exactly its lifetime in steps", func() {
		p := newProcess(7, source)

		steps := 0
		for !p.Run(0, sys) {
			steps++
		}

		Expect(steps).To(Equal(p.lifetime))
		Expect(sys.calls).To(HaveLen(p.lifetime + 1))
		Expect(sys.calls[p.lifetime]).To(Equal(&Exit{PID: vm.PID(7)}))
	})

	It("should rotate the working set when its lifetime expires", func() {
		p := &Process{
			pid:       7,
			pageTable: paging.NewPageTable(32),
			lifetime:  1024,
			rng:       source,
		}

		p.Run(0, sys)

		Expect(p.workingSetLifetime).To(BeNumerically(">=", 128))
		Expect(p.workingSetLifetime).To(BeNumerically("<=", 256))
		Expect(len(p.workingSet) + len(p.idleSet)).To(Equal(32))
	})

	It("should fall back to the other set when the chosen one is empty", func() {
		p := &Process{
			pid:                7,
			pageTable:          paging.NewPageTable(4),
			lifetime:           1024,
			workingSet:         []int{},
			idleSet:            []int{0, 1, 2, 3},
			workingSetLifetime: 1024,
			rng:                source,
		}

		for i := 0; i < 100; i++ {
			p.Run(0, sys)
		}

		Expect(sys.calls).To(HaveLen(100))
		for _, sc := range sys.calls {
			access := sc.(*AccessMemory)
			Expect(access.Page).To(BeNumerically("<", 4))
		}
	})

	It("should describe itself for the dashboard", func() {
		p := newProcess(7, source)
		p.Run(0, sys)

		stats := p.Stats()

		Expect(stats.PID).To(Equal(vm.PID(7)))
		Expect(stats.UID).To(Equal(p.uid))
		Expect(stats.Counter).To(Equal(1))
		Expect(stats.Lifetime).To(Equal(p.lifetime))
		Expect(stats.PageTableSize).To(Equal(len(p.pageTable)))
		Expect(stats.WorkingSetSize).To(Equal(len(p.workingSet)))
		Expect(stats.WorkingSetRatio).To(Equal(
			100 * float64(len(p.workingSet)) / float64(len(p.pageTable))))
	})
})
