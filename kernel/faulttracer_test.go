package kernel

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitlab.com/akita/akita/v3/tracing"
	"gitlab.com/akita/mem/v3/vm"

	"gitlab.com/akita/vmsim/paging"
)

func faultTask(id string, pid int, page int) tracing.Task {
	return tracing.Task{
		ID:   id,
		Kind: "page_fault",
		What: "page_fault",
		Detail: map[string]interface{}{
			"fault": &paging.PageFault{PID: vm.PID(pid), Page: page},
		},
	}
}

var _ = Describe("FaultTracer", func() {
	var t *FaultTracer

	BeforeEach(func() {
		t = NewFaultTracer()
	})

	It("should count every fault task it sees start", func() {
		t.StartTask(faultTask("a", 1001, 0))
		t.StartTask(faultTask("b", 1001, 3))
		t.StartTask(faultTask("c", 1002, 0))

		Expect(t.Faults()).To(Equal(uint64(3)))
	})

	It("should ignore tasks of other kinds", func() {
		t.StartTask(tracing.Task{ID: "a", Kind: "tick"})

		Expect(t.Faults()).To(Equal(uint64(0)))
	})

	It("should keep completed tasks in the totals", func() {
		task := faultTask("a", 1001, 0)
		t.StartTask(task)
		t.EndTask(task)

		Expect(t.Faults()).To(Equal(uint64(1)))
	})

	It("should split replaced from fresh faults", func() {
		t.StartTask(faultTask("a", 1001, 0))
		t.StartTask(faultTask("b", 1001, 1))
		t.StepTask(tracing.Task{
			ID:    "b",
			Steps: []tracing.TaskStep{{What: "replacement"}},
		})

		buf := &bytes.Buffer{}
		t.Report(buf)

		Expect(buf.String()).To(ContainSubstring("(1 fresh, 1 replaced)"))
	})

	It("should ignore steps of tasks it never saw start", func() {
		t.StepTask(tracing.Task{
			ID:    "x",
			Steps: []tracing.TaskStep{{What: "replacement"}},
		})

		buf := &bytes.Buffer{}
		t.Report(buf)

		Expect(buf.String()).To(ContainSubstring("(0 fresh, 0 replaced)"))
	})

	It("should report per-process counts in pid order", func() {
		t.StartTask(faultTask("a", 1002, 0))
		t.StartTask(faultTask("b", 1001, 0))
		t.StartTask(faultTask("c", 1001, 1))

		buf := &bytes.Buffer{}
		t.Report(buf)

		Expect(buf.String()).To(ContainSubstring(
			"traced 3 page faults across 2 processes"))
		Expect(buf.String()).To(ContainSubstring("pid 1001: 2 faults"))
		Expect(buf.String()).To(ContainSubstring("pid 1002: 1 faults"))
		Expect(buf.String()).To(ContainSubstring(
			"  pid 1001: 2 faults\n  pid 1002: 1 faults\n"))
	})
})
