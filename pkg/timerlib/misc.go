package timerlib

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default sessions data file
var __SESSIONS_FILE_NAME string

// ConfigDirEnv is the environment variable name used to override the default configuration directory.
const ConfigDirEnv = "HABITD_CONFIG_DIR"

var (
	// ConfigDir is the absolute path to the habitd configuration directory.
	ConfigDir string
)

func init() {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = defaultConfigDir()
	}
	if err := setConfigDir(dir); err != nil {
		panic(err)
	}
}

func defaultConfigDir() string {
	cdr, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	if !dirExists(cdr) {
		if err = os.MkdirAll(cdr, 0755); err != nil {
			panic(err)
		}
	}
	return filepath.Join(cdr, "habitd")
}

func setConfigDir(dir string) error {
	if dir == "" {
		return errors.New("config dir is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	ConfigDir = abs
	__SESSIONS_FILE_NAME = filepath.Join(abs, "sessions.habit")
	return nil
}

// SetConfigDir sets the configuration directory to the specified path.
// It creates the directory if it does not exist.
func SetConfigDir(dir string) error {
	return setConfigDir(dir)
}

// GetPath joins a directory and file name using the OS-specific path separator.
func GetPath(directory, file string) string {
	return filepath.Join(directory, file)
}

// HistoryDBPath returns the default path of the completed-sessions database.
func HistoryDBPath() string {
	return filepath.Join(ConfigDir, "history.db")
}

// HabitsDBPath returns the default path of the habit tracker's database,
// read for display-name lookups.
func HabitsDBPath() string {
	return filepath.Join(ConfigDir, "habits.db")
}

func dirExists(name string) bool {
	_, err := os.ReadDir(name)
	return !os.IsNotExist(err)
}

// NewSessionId returns a random 16-character hex identifier.
func NewSessionId() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure is unrecoverable; fall back to a timestamp id
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// FormatClock renders a duration as MM:SS, or HH:MM:SS once it reaches an
// hour. Sub-second precision is intentionally discarded.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
