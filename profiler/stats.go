// Package profiler collects the simulator's access statistics: the raw
// total/fault/replacement counters maintained by the kernel, and a per-tick
// fault-rate series summarized at the end of a run.
package profiler

// AccessStats counts memory references and their outcomes. Counters only ever
// grow; faults never exceed the total and replacements never exceed faults.
type AccessStats struct {
	total    uint64
	faults   uint64
	replaced uint64
}

// NewAccessStats creates zeroed counters.
func NewAccessStats() *AccessStats {
	return &AccessStats{}
}

// RecordAccess counts one process step.
func (s *AccessStats) RecordAccess() {
	s.total++
}

// RecordFault counts one page fault.
func (s *AccessStats) RecordFault() {
	s.faults++
}

// RecordReplacement counts one page fault that needed a victim.
func (s *AccessStats) RecordReplacement() {
	s.replaced++
}

// A Snapshot is a point-in-time copy of the counters together with the derived
// rates. The rates are NaN while their denominator is zero; renderers must
// tolerate that.
type Snapshot struct {
	Total           uint64  `json:"total"`
	Faults          uint64  `json:"faults"`
	Replaced        uint64  `json:"replaced"`
	FaultRate       float64 `json:"fault_rate_percent"`
	ReplacementRate float64 `json:"replacement_rate_percent"`
}

// Snapshot captures the current counters.
func (s *AccessStats) Snapshot() Snapshot {
	return Snapshot{
		Total:           s.total,
		Faults:          s.faults,
		Replaced:        s.replaced,
		FaultRate:       100 * float64(s.faults) / float64(s.total),
		ReplacementRate: 100 * float64(s.replaced) / float64(s.faults),
	}
}
