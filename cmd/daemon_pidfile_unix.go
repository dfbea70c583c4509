//go:build !windows

package cmd

import (
	"os"
	"syscall"
)

// processAlive checks if a process with the given PID is still running.
// Signal 0 doesn't deliver a signal but reports whether the process exists.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
