// Command vmsim runs the virtual-memory simulator with a live dashboard.
//
// Usage:
//
//	vmsim [flags] [policy]
//
// The positional argument selects the page-replacement policy (clock or
// random, defaulting to clock). See -help for the flags.
package main

import (
	"gitlab.com/akita/vmsim/samples/runner"
)

func main() {
	r := new(runner.Runner).ParseFlag().Init()
	r.Run()
}
