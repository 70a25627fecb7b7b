//go:build linux

package cmd

import (
	"runtime"

	perf "github.com/hodgesds/perf-utils"
)

// countCycles measures f on the calling thread only, the goroutines f
// starts on other threads are not counted
func countCycles(f func() error) (cycles uint64, err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	var pv *perf.ProfileValue
	if pv, err = perf.CPUCycles(f); err != nil {
		return
	}
	cycles = pv.Value
	return
}
