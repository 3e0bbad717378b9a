package kernel

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/akita/akita/v3/tracing"
	"gitlab.com/akita/mem/v3/vm"

	"gitlab.com/akita/vmsim/paging"
)

// A FaultTracer counts page-fault tasks per process, splitting faults that
// needed a victim from those served by a free frame. Attach it to the kernel
// with tracing.CollectTrace.
type FaultTracer struct {
	inflight map[string]tracing.Task
	byPID    map[vm.PID]uint64
	total    uint64
	replaced uint64
}

// NewFaultTracer creates an empty FaultTracer.
func NewFaultTracer() *FaultTracer {
	return &FaultTracer{
		inflight: map[string]tracing.Task{},
		byPID:    map[vm.PID]uint64{},
	}
}

// StartTask records the start of a page-fault task.
func (t *FaultTracer) StartTask(task tracing.Task) {
	if task.Kind != "page_fault" {
		return
	}

	fault := task.Detail.(map[string]interface{})["fault"].(*paging.PageFault)

	t.inflight[task.ID] = task
	t.byPID[fault.PID]++
	t.total++
}

// StepTask records a replacement step within a fault task.
func (t *FaultTracer) StepTask(task tracing.Task) {
	if _, ok := t.inflight[task.ID]; !ok {
		return
	}

	for _, step := range task.Steps {
		if step.What == "replacement" {
			t.replaced++
		}
	}
}

// EndTask completes a page-fault task.
func (t *FaultTracer) EndTask(task tracing.Task) {
	delete(t.inflight, task.ID)
}

// Faults returns the number of completed and in-flight fault tasks seen.
func (t *FaultTracer) Faults() uint64 {
	return t.total
}

// Report writes the per-process fault counts.
func (t *FaultTracer) Report(w io.Writer) {
	pids := make([]int, 0, len(t.byPID))
	for pid := range t.byPID {
		pids = append(pids, int(pid))
	}
	sort.Ints(pids)

	fmt.Fprintf(w, "traced %d page faults across %d processes "+
		"(%d fresh, %d replaced)\n",
		t.total, len(pids), t.total-t.replaced, t.replaced)
	for _, pid := range pids {
		fmt.Fprintf(w, "  pid %d: %d faults\n", pid, t.byPID[vm.PID(pid)])
	}
}
