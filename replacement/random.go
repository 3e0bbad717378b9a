package replacement

import (
	"gitlab.com/akita/vmsim/paging"
	"gitlab.com/akita/vmsim/rng"
)

func init() {
	Register("random", func(state MemoryState, r rng.Source) Replacer {
		return NewRandomReplacer(state, r)
	})
}

// A randomReplacer victimizes the page of a uniformly chosen busy frame.
type randomReplacer struct {
	state MemoryState
	rng   rng.Source
}

// NewRandomReplacer creates a random policy over the given memory state.
func NewRandomReplacer(state MemoryState, r rng.Source) Replacer {
	return &randomReplacer{state: state, rng: r}
}

func (r *randomReplacer) Replace() *paging.PTE {
	busy := r.state.BusyFrameIDs()
	if len(busy) == 0 {
		panic("replace with no busy frames")
	}

	fid := busy[r.rng.Pick(len(busy))]
	frame := r.state.Frame(fid)
	return r.state.PageTableEntry(frame.PID, frame.Page)
}
