// Package replacement provides the page-replacement capability. A Replacer
// selects the victim among the currently resident pages when the frame pool is
// exhausted; policies are registered under a name and constructed through the
// registry.
package replacement

import (
	"fmt"
	"sort"

	"gitlab.com/akita/mem/v3/vm"

	"gitlab.com/akita/vmsim/paging"
	"gitlab.com/akita/vmsim/rng"
)

// MemoryState is the view of kernel memory a policy works against. Policies
// read frames and mutate PTE reference bits, nothing else.
type MemoryState interface {
	BusyFrameIDs() []paging.FrameID
	Frame(fid paging.FrameID) paging.Frame
	PageTableEntry(pid vm.PID, page int) *paging.PTE
}

// A Replacer selects a victim page-table entry among the resident pages. The
// caller repurposes the victim's frame; the replacer itself must not clear
// residency or touch the frame.
type Replacer interface {
	Replace() *paging.PTE
}

// A Constructor builds a policy over the given memory state.
type Constructor func(state MemoryState, r rng.Source) Replacer

var constructors = map[string]Constructor{}

// Register adds a policy to the registry. Registering the same name twice is a
// programming error.
func Register(name string, c Constructor) {
	if _, ok := constructors[name]; ok {
		panic(fmt.Sprintf("replacement policy %q registered twice", name))
	}
	constructors[name] = c
}

// Registered reports whether a policy with the given name exists.
func Registered(name string) bool {
	_, ok := constructors[name]
	return ok
}

// Policies lists the registered policy names in alphabetical order.
func Policies() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs the named policy. It returns an error for unknown names.
func New(name string, state MemoryState, r rng.Source) (Replacer, error) {
	c, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown replacement policy %q", name)
	}
	return c(state, r), nil
}
