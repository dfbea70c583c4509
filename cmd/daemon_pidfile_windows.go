//go:build windows

package cmd

import "os"

// processAlive checks if a process with the given PID is still running.
// Windows has no signal 0; FindProcess succeeding is the best available
// liveness check.
func processAlive(pid int) bool {
	_, err := os.FindProcess(pid)
	return err == nil
}
