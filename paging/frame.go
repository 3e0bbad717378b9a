package paging

import "gitlab.com/akita/mem/v3/vm"

// A Frame is a slot of physical memory. While busy it records the process and
// the page-table index of the page it holds.
type Frame struct {
	ID   FrameID
	Busy bool
	PID  vm.PID
	Page int
}
