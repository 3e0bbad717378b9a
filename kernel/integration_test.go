package kernel

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitlab.com/akita/vmsim/replacement"
)

var _ = Describe("Kernel with the clock policy", func() {
	var (
		k *Kernel
		p *Process
	)

	makeClockKernel := func(frameCount int) {
		k, p = makeTestKernel(frameCount)
		k.replacer = replacement.NewClockReplacer(k)
	}

	bind := func(page int) {
		fid, ok := k.mmu.Alloc(p.pid, page)
		Expect(ok).To(BeTrue())
		p.pageTable[page].Bind(fid)
	}

	It("should not fault on resident pages", func() {
		makeClockKernel(4)
		bind(0)
		bind(1)

		for i := 0; i < 5; i++ {
			k.Syscall(0, &AccessMemory{PID: 1, Page: 0})
			k.Syscall(0, &AccessMemory{PID: 1, Page: 1, Modify: true})
		}

		Expect(k.stats.Snapshot().Faults).To(Equal(uint64(0)))
		Expect(p.pageTable[0].Referenced).To(BeTrue())
		Expect(p.pageTable[0].Modified).To(BeFalse())
		Expect(p.pageTable[1].Referenced).To(BeTrue())
		Expect(p.pageTable[1].Modified).To(BeTrue())
		Expect(k.mmu.Stats().Busy).To(Equal(2))
	})

	It("should complete a faulting write after the eviction", func() {
		makeClockKernel(1)
		bind(0)

		k.Syscall(0, &AccessMemory{PID: 1, Page: 1, Modify: true})

		snap := k.stats.Snapshot()
		Expect(snap.Faults).To(Equal(uint64(1)))
		Expect(snap.Replaced).To(Equal(uint64(1)))

		Expect(p.pageTable[0].Presented).To(BeFalse())
		Expect(p.pageTable[1].Presented).To(BeTrue())
		Expect(p.pageTable[1].Modified).To(BeTrue())
		Expect(k.mmu.Frame(0).Page).To(Equal(1))
	})

	It("should give resident pages a second chance", func() {
		makeClockKernel(2)
		bind(0)
		bind(1)
		p.pageTable[0].Referenced = true
		p.pageTable[1].Referenced = true

		k.Syscall(0, &AccessMemory{PID: 1, Page: 2})

		Expect(p.pageTable[0].Presented).To(BeFalse())
		Expect(p.pageTable[1].Presented).To(BeTrue())
		Expect(p.pageTable[1].Referenced).To(BeFalse())
		Expect(p.pageTable[2].Presented).To(BeTrue())
		Expect(p.pageTable[2].FrameID()).To(Equal(k.Frame(0).ID))
	})

	It("should keep frames and page tables in bijection", func() {
		makeClockKernel(2)

		for _, page := range []int{0, 1, 2, 3, 1, 0, 2} {
			k.Syscall(0, &AccessMemory{PID: 1, Page: page})
		}

		resident := 0
		for page := range p.pageTable {
			e := &p.pageTable[page]
			if !e.Presented {
				continue
			}
			resident++

			f := k.mmu.Frame(e.FrameID())
			Expect(f.Busy).To(BeTrue())
			Expect(f.PID).To(Equal(p.pid))
			Expect(f.Page).To(Equal(page))
		}
		Expect(resident).To(Equal(k.mmu.Stats().Busy))
	})
})
