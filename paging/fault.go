package paging

import (
	"fmt"

	"gitlab.com/akita/mem/v3/vm"
)

// A PageFault reports an access to a page that is not resident in any frame.
// It is returned by MMU.Access and serviced by the kernel's exception
// dispatcher.
type PageFault struct {
	PID  vm.PID
	Page int
}

func (f *PageFault) Error() string {
	return fmt.Sprintf("page fault: pid %d, page %d", f.PID, f.Page)
}
