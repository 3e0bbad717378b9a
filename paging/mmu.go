// Package paging models the physical side of the virtual-memory subsystem:
// frames, the frame table, per-process page-table entries, and the MMU that
// binds the two. The MMU is a pure data structure over frame state; every
// residency transition is driven by the kernel's fault handler.
package paging

import (
	"github.com/google/btree"
	"gitlab.com/akita/mem/v3/vm"

	"gitlab.com/akita/vmsim/rng"
)

const (
	minFrameCount = 512
	maxFrameCount = 1024
)

// MemoryStats describes the occupancy of the frame pool.
type MemoryStats struct {
	Total int     `json:"total"`
	Busy  int     `json:"busy"`
	Free  int     `json:"free"`
	Load  float64 `json:"load_percent"`
}

// An MMU owns the physical frame pool. Busy frames are indexed in a B-tree
// ordered by frame id, which gives replacement policies a stable iteration
// order across snapshots.
type MMU struct {
	frames []Frame
	busy   *btree.BTree
	free   []FrameID
}

// A Builder can build MMUs.
type Builder struct {
	rng        rng.Source
	frameCount int
}

// MakeBuilder returns a Builder with default parameters. Unless a frame count
// is set explicitly, Build draws one uniformly from [512, 1024].
func MakeBuilder() Builder {
	return Builder{}
}

// WithRNG sets the randomness source used to draw the frame count.
func (b Builder) WithRNG(r rng.Source) Builder {
	b.rng = r
	return b
}

// WithFrameCount fixes the size of the frame table.
func (b Builder) WithFrameCount(n int) Builder {
	b.frameCount = n
	return b
}

// Build creates the MMU with all frames free.
func (b Builder) Build() *MMU {
	count := b.frameCount
	if count == 0 {
		count = b.rng.Int(minFrameCount, maxFrameCount)
	}

	m := &MMU{
		frames: make([]Frame, count),
		busy:   btree.New(2),
		free:   make([]FrameID, 0, count),
	}
	for i := range m.frames {
		m.frames[i].ID = FrameID(i)
		m.free = append(m.free, FrameID(i))
	}

	return m
}

// Alloc takes a frame from the free list and binds it to (pid, page). The
// second return value is false when no free frame exists.
func (m *MMU) Alloc(pid vm.PID, page int) (FrameID, bool) {
	if len(m.free) == 0 {
		return 0, false
	}

	fid := m.free[0]
	m.free = m.free[1:]

	f := &m.frames[fid]
	f.Busy = true
	f.PID = pid
	f.Page = page
	m.busy.ReplaceOrInsert(btree.Int(fid))

	return fid, true
}

// Free releases a busy frame back to the free list. Freeing a frame that is
// already free is a no-op and returns false.
func (m *MMU) Free(fid FrameID) bool {
	f := &m.frames[fid]
	if !f.Busy {
		return false
	}

	f.Busy = false
	f.PID = 0
	f.Page = 0
	m.busy.Delete(btree.Int(fid))
	m.free = append(m.free, fid)

	return true
}

// Realloc rewrites the binding of a busy frame. It is used when a victim frame
// is repurposed during replacement; busy-set membership does not change.
func (m *MMU) Realloc(fid FrameID, pid vm.PID, page int) {
	f := &m.frames[fid]
	if !f.Busy {
		panic("realloc on a free frame")
	}
	f.PID = pid
	f.Page = page
}

// Access performs a memory reference against the given page table. A reference
// to a non-resident page fails with a *PageFault; a resident reference sets
// the reference bit and, for writes, the modify bit.
func (m *MMU) Access(pid vm.PID, table PageTable, page int, modify bool) error {
	e := &table[page]
	if !e.Presented {
		return &PageFault{PID: pid, Page: page}
	}

	e.Referenced = true
	if modify {
		e.Modified = true
	}

	return nil
}

// Frame returns a copy of the frame with the given id.
func (m *MMU) Frame(fid FrameID) Frame {
	return m.frames[fid]
}

// BusyFrameIDs snapshots the ids of all busy frames in ascending order.
func (m *MMU) BusyFrameIDs() []FrameID {
	ids := make([]FrameID, 0, m.busy.Len())
	m.busy.Ascend(func(item btree.Item) bool {
		ids = append(ids, FrameID(item.(btree.Int)))
		return true
	})
	return ids
}

// Stats reports the current occupancy of the frame pool.
func (m *MMU) Stats() MemoryStats {
	total := len(m.frames)
	busy := m.busy.Len()
	return MemoryStats{
		Total: total,
		Busy:  busy,
		Free:  len(m.free),
		Load:  100 * float64(busy) / float64(total),
	}
}
