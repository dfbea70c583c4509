package timerlib

import (
	"log"
	"time"
)

type (
	// TickHandlerFunc is called on every reconciliation of a running
	// session, with the freshly recomputed elapsed and remaining values.
	TickHandlerFunc func(entityId string, elapsed, remaining time.Duration)
	// CompleteHandlerFunc is called when a countdown's remaining time
	// reaches zero. It may be invoked from the tick loop or from an
	// on-demand Sync; the completion coordinator deduplicates.
	CompleteHandlerFunc func(entityId string)
	// TickerStoppedHandlerFunc is called when the cooperative tick loop
	// exits for any reason.
	TickerStoppedHandlerFunc func(entityId string)
	// ErrorHandlerFunc is called when a ticker goroutine panics or an
	// internal operation fails.
	ErrorHandlerFunc func(entityId string, err error)
)

// Handlers bundles the callbacks driving a session's cooperative ticker.
type Handlers struct {
	TickHandler          TickHandlerFunc
	CompleteHandler      CompleteHandlerFunc
	TickerStoppedHandler TickerStoppedHandlerFunc
	ErrorHandler         ErrorHandlerFunc
}

func (h *Handlers) setDefault(l *log.Logger) {
	if h.TickHandler == nil {
		h.TickHandler = func(entityId string, elapsed, remaining time.Duration) {}
	}
	if h.CompleteHandler == nil {
		h.CompleteHandler = func(entityId string) {}
	}
	if h.TickerStoppedHandler == nil {
		h.TickerStoppedHandler = func(entityId string) {}
	}
	if h.ErrorHandler == nil {
		h.ErrorHandler = func(entityId string, err error) {
			l.Printf("%s: Error: %s", entityId, err.Error())
		}
	} else {
		errHandler := h.ErrorHandler
		h.ErrorHandler = func(entityId string, err error) {
			l.Printf("%s: Error: %s", entityId, err.Error())
			errHandler(entityId, err)
		}
	}
}
