package replacement

import (
	"gitlab.com/akita/vmsim/paging"
	"gitlab.com/akita/vmsim/rng"
)

func init() {
	Register("clock", func(state MemoryState, _ rng.Source) Replacer {
		return NewClockReplacer(state)
	})
}

// A clockReplacer implements the second-chance policy. It sweeps the busy
// frames circularly with a persistent hand, clearing reference bits until it
// meets an entry whose bit is already clear.
type clockReplacer struct {
	state MemoryState
	hand  int
}

// NewClockReplacer creates a clock policy over the given memory state.
func NewClockReplacer(state MemoryState) Replacer {
	return &clockReplacer{state: state}
}

func (c *clockReplacer) Replace() *paging.PTE {
	busy := c.state.BusyFrameIDs()
	if len(busy) == 0 {
		panic("replace with no busy frames")
	}

	// The busy list can shrink between calls when processes exit.
	if c.hand >= len(busy) {
		c.hand = len(busy) - 1
	}

	// The second sweep always finds a clear bit, because the first sweep
	// clears every bit it inspects.
	for {
		fid := busy[c.hand]
		c.hand = (c.hand + 1) % len(busy)

		frame := c.state.Frame(fid)
		e := c.state.PageTableEntry(frame.PID, frame.Page)
		if !e.Referenced {
			return e
		}
		e.Referenced = false
	}
}
