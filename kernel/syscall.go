package kernel

import (
	"gitlab.com/akita/akita/v3/sim"
	"gitlab.com/akita/mem/v3/vm"
)

// A Syscall is a message from a user-mode process to the kernel. The kernel
// dispatches on the concrete type.
type Syscall interface {
	isSyscall()
}

// AccessMemory asks the kernel to perform one memory reference.
type AccessMemory struct {
	PID    vm.PID
	Page   int
	Modify bool
}

func (*AccessMemory) isSyscall() {}

// Exit announces that the process has reached the end of its lifetime.
type Exit struct {
	PID vm.PID
}

func (*Exit) isSyscall() {}

// A SyscallHandler services syscalls issued by processes. All effects are
// synchronous and complete before the call returns.
type SyscallHandler interface {
	Syscall(now sim.VTimeInSec, sc Syscall)
}
