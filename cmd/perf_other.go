//go:build !linux

package cmd

import "errors"

func countCycles(f func() error) (uint64, error) {
	return 0, errors.New("cpu cycle counting requires linux perf events")
}
