package server

import (
	"os"
	"path/filepath"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "habitd.sock")
}

// cleanupSocket removes the Unix socket file. Returns an error if removal
// fails, unless the file doesn't exist.
func cleanupSocket() error {
	if err := os.Remove(socketPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
