// Package common provides shared types and constants used across the habitd
// client-server communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for custom socket path.
	SocketPathEnv = "HABITD_SOCKET_PATH"

	// TCPPortEnv is the environment variable for custom TCP port.
	TCPPortEnv = "HABITD_TCP_PORT"

	// ConfigDirEnv is the environment variable for custom config directory.
	ConfigDirEnv = "HABITD_CONFIG_DIR"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "HABITD_DEBUG"

	// ForceTCPEnv forces clients to skip the unix socket and dial TCP.
	ForceTCPEnv = "HABITD_FORCE_TCP"
)

// MaxMessageSize bounds a single framed message on the socket transport.
const MaxMessageSize = 1 << 20

// Network defaults used when the unix socket transport is unavailable.
const (
	// TCPHost is the loopback host for the TCP fallback listener.
	TCPHost = "localhost"

	// DefaultTCPPort is the daemon's TCP fallback port.
	DefaultTCPPort = 4121
)
