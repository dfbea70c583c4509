package timerlib

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"
)

// Sounder produces the looped alarm sound. Prepare validates the asset and
// player up front so a broken setup degrades to vibration-only instead of
// failing mid-ring; Loop blocks, repeating playback until ctx is cancelled.
type Sounder interface {
	Prepare() error
	Loop(ctx context.Context)
}

// Vibrator delivers one vibration pulse per call while an alarm rings.
type Vibrator interface {
	Pulse(entityId string)
}

// VibratorFunc adapts a plain function to the Vibrator interface.
type VibratorFunc func(entityId string)

// Pulse calls f(entityId).
func (f VibratorFunc) Pulse(entityId string) { f(entityId) }

// loopGap spaces successive plays so a very short asset doesn't spin.
const loopGap = 200 * time.Millisecond

// CmdSounder plays a sound asset by looping an external player command
// (e.g. "paplay" or "aplay"). There is no audio stack of our own; the
// player subprocess owns the audio output for the duration of each play.
type CmdSounder struct {
	l         *log.Logger
	playerCmd string
	assetPath string
}

// NewCmdSounder creates a sounder invoking playerCmd with assetPath as its
// only argument.
func NewCmdSounder(l *log.Logger, playerCmd, assetPath string) *CmdSounder {
	return &CmdSounder{l: l, playerCmd: playerCmd, assetPath: assetPath}
}

// Prepare verifies the asset file and player binary exist.
// A missing asset or player is reported as ErrAssetUnavailable.
func (c *CmdSounder) Prepare() error {
	if c.assetPath == "" || c.playerCmd == "" {
		return ErrAssetUnavailable
	}
	if _, err := os.Stat(c.assetPath); err != nil {
		return fmt.Errorf("%w: %s", ErrAssetUnavailable, c.assetPath)
	}
	if _, err := exec.LookPath(c.playerCmd); err != nil {
		return fmt.Errorf("%w: player %s not found", ErrAssetUnavailable, c.playerCmd)
	}
	return nil
}

// Loop plays the asset on repeat until ctx is cancelled. Player failures
// are logged and retried on the next iteration; they never end the ring.
func (c *CmdSounder) Loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		cmd := exec.CommandContext(ctx, c.playerCmd, c.assetPath)
		if err := cmd.Run(); err != nil && ctx.Err() == nil {
			c.l.Printf("alarm: player run failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(loopGap):
		}
	}
}

// MockSounder implements Sounder for tests. It records Prepare/Loop calls
// and can be configured to fail Prepare.
type MockSounder struct {
	PrepareErr   error
	PrepareCalls int
	LoopStarted  chan struct{}
}

// NewMockSounder creates a MockSounder with a buffered loop-start signal.
func NewMockSounder() *MockSounder {
	return &MockSounder{LoopStarted: make(chan struct{}, 1)}
}

// Prepare records the call and returns the configured error.
func (m *MockSounder) Prepare() error {
	m.PrepareCalls++
	return m.PrepareErr
}

// Loop signals that playback started, then blocks until ctx is cancelled.
func (m *MockSounder) Loop(ctx context.Context) {
	select {
	case m.LoopStarted <- struct{}{}:
	default:
	}
	<-ctx.Done()
}

var (
	_ Sounder = (*CmdSounder)(nil)
	_ Sounder = (*MockSounder)(nil)
)
