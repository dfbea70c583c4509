package server

// ErrorType represents the severity of a timer-session error recorded
// against an entity in the pool.
type ErrorType int

const (
	// ErrorTypeCritical indicates a fatal error that ended the session.
	ErrorTypeCritical ErrorType = iota
	// ErrorTypeWarning indicates a non-fatal error; the session continues.
	ErrorTypeWarning
)

// Error is a timer error with a severity type and descriptive message.
// It implements the error interface.
type Error struct {
	Type    ErrorType `json:"error_type"`
	Message string    `json:"message"`
}

// Error returns the error message string, implementing the error interface.
func (e *Error) Error() string {
	return e.Message
}
