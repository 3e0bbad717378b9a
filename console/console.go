// Package console renders tick records as a live terminal dashboard. The
// terminal is cleared before each frame; an optional wall-clock pace keeps the
// dashboard readable while the engine runs ahead.
package console

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"gitlab.com/akita/vmsim/kernel"
)

const (
	highLoadPercent      = 90
	highFaultRatePercent = 50
)

// A Console is a renderer that draws a tabular dashboard.
type Console struct {
	out  io.Writer
	rows int
	pace time.Duration

	header *color.Color
	label  *color.Color
	alert  *color.Color
}

// New creates a Console writing to out, showing at most rows processes, and
// sleeping pace between frames (0 disables pacing).
func New(out io.Writer, rows int, pace time.Duration) *Console {
	return &Console{
		out:  out,
		rows: rows,
		pace: pace,

		header: color.New(color.FgCyan, color.Bold),
		label:  color.New(color.Bold),
		alert:  color.New(color.FgRed, color.Bold),
	}
}

// Render draws one frame.
func (c *Console) Render(rec kernel.TickRecord) {
	fmt.Fprint(c.out, "\033[2J\033[H")

	c.header.Fprintf(c.out,
		"virtual memory simulator | t=%.1fs | %d processes\n\n",
		float64(rec.Time), len(rec.Processes))

	c.renderMemory(rec)
	c.renderAccess(rec)
	c.renderProcesses(rec)

	if c.pace > 0 {
		time.Sleep(c.pace)
	}
}

func (c *Console) renderMemory(rec kernel.TickRecord) {
	m := rec.Memory
	c.label.Fprint(c.out, "memory  ")
	fmt.Fprintf(c.out, "frames %d, busy %d, free %d, load ",
		m.Total, m.Busy, m.Free)
	if m.Load >= highLoadPercent {
		c.alert.Fprintf(c.out, "%.2f%%\n", m.Load)
	} else {
		fmt.Fprintf(c.out, "%.2f%%\n", m.Load)
	}
}

func (c *Console) renderAccess(rec kernel.TickRecord) {
	a := rec.Access
	c.label.Fprint(c.out, "access  ")
	fmt.Fprintf(c.out, "total %d, faults %d (", a.Total, a.Faults)
	if a.FaultRate >= highFaultRatePercent {
		c.alert.Fprintf(c.out, "%.2f%%", a.FaultRate)
	} else {
		fmt.Fprintf(c.out, "%.2f%%", a.FaultRate)
	}
	fmt.Fprintf(c.out, "), replacements %d (%.2f%%)\n\n",
		a.Replaced, a.ReplacementRate)
}

func (c *Console) renderProcesses(rec kernel.TickRecord) {
	c.label.Fprintf(c.out, "%6s %8s %8s %7s %7s %8s %8s\n",
		"PID", "COUNTER", "TTL", "PAGES", "WS", "WS_TTL", "WS%")

	rows := rec.Processes
	if len(rows) > c.rows {
		rows = rows[:c.rows]
	}
	for _, p := range rows {
		fmt.Fprintf(c.out, "%6d %8d %8d %7d %7d %8d %7.2f%%\n",
			p.PID, p.Counter, p.Lifetime, p.PageTableSize,
			p.WorkingSetSize, p.WorkingSetTTL, p.WorkingSetRatio)
	}
	if hidden := len(rec.Processes) - len(rows); hidden > 0 {
		fmt.Fprintf(c.out, "   ... %d more\n", hidden)
	}
}
