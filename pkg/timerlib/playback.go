package timerlib

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// DefaultAutoStopTimeout bounds how long an unacknowledged alarm may ring.
const DefaultAutoStopTimeout = 30 * time.Second

// vibrationPeriod is the spacing between vibration pulses while ringing.
const vibrationPeriod = time.Second

// AlarmSummary is a snapshot of the process-wide playback state.
type AlarmSummary struct {
	IsPlaying     bool   `json:"is_playing"`
	OwnerEntityId string `json:"owner_entity_id,omitempty"`
	StartedAt     int64  `json:"started_at,omitempty"`
	// AutoStopDeadline is the epoch-millis moment the alarm silences
	// itself if never acknowledged.
	AutoStopDeadline int64 `json:"auto_stop_deadline,omitempty"`
}

// AlarmPlayer owns the single process-wide alarm playback context: exclusive
// sound output, vibration pulses, and the auto-stop deadline. Only one alarm
// plays at a time; Start for a second entity while ringing is a logged
// no-op. Stop is idempotent from every entry point (user stop, notification
// surface, auto-stop) and a second stop is never an error.
type AlarmPlayer struct {
	l        *log.Logger
	sounder  Sounder
	vibrator Vibrator
	autoStop time.Duration

	// onStop is invoked exactly once per ring when playback ends.
	onStop func(entityId string)

	mu        sync.Mutex
	playing   bool
	owner     string
	startedAt time.Time
	cancel    context.CancelFunc
}

// AlarmPlayerOpts contains optional parameters for NewAlarmPlayer.
type AlarmPlayerOpts struct {
	// AutoStopTimeout overrides the 30-second unacknowledged-alarm bound.
	AutoStopTimeout time.Duration
	// OnStop is called with the owning entity id after playback ends.
	OnStop func(entityId string)
}

// NewAlarmPlayer creates an alarm player. sounder may be nil (silent,
// vibration only); vibrator may be nil (sound only).
func NewAlarmPlayer(l *log.Logger, sounder Sounder, vibrator Vibrator, opts *AlarmPlayerOpts) *AlarmPlayer {
	if opts == nil {
		opts = &AlarmPlayerOpts{}
	}
	autoStop := opts.AutoStopTimeout
	if autoStop <= 0 {
		autoStop = DefaultAutoStopTimeout
	}
	return &AlarmPlayer{
		l:        l,
		sounder:  sounder,
		vibrator: vibrator,
		autoStop: autoStop,
		onStop:   opts.OnStop,
	}
}

// Start acquires the playback context for entityId and begins ringing.
// If an alarm is already playing for a different entity it returns
// ErrAlarmBusy without touching the current ring; if the same entity is
// already ringing, Start is a no-op. A missing or unloadable sound asset
// degrades to vibration-only rather than failing the alarm.
func (p *AlarmPlayer) Start(entityId, label string) error {
	p.mu.Lock()
	if p.playing {
		owner := p.owner
		p.mu.Unlock()
		if owner == entityId {
			return nil
		}
		p.l.Printf("alarm: rejecting start for %s: already ringing for %s", entityId, owner)
		return ErrAlarmBusy
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.playing = true
	p.owner = entityId
	p.startedAt = time.Now()
	p.cancel = cancel
	p.mu.Unlock()

	soundOK := false
	if p.sounder != nil {
		if err := p.sounder.Prepare(); err != nil {
			if errors.Is(err, ErrAssetUnavailable) {
				p.l.Printf("alarm: sound asset unavailable for %s, vibration only", entityId)
			} else {
				p.l.Printf("alarm: sound prepare failed for %s: %v, vibration only", entityId, err)
			}
		} else {
			soundOK = true
		}
	}

	if soundOK {
		safeGo(p.l, nil, "alarm sound "+entityId, nil, func() {
			p.sounder.Loop(ctx)
		})
	}
	safeGo(p.l, nil, "alarm ring "+entityId, nil, func() {
		p.ring(ctx, entityId)
	})
	return nil
}

// ring drives vibration pulses and the auto-stop deadline until the alarm
// is stopped from any entry point.
func (p *AlarmPlayer) ring(ctx context.Context, entityId string) {
	deadline := time.NewTimer(p.autoStop)
	defer deadline.Stop()
	pulse := time.NewTicker(vibrationPeriod)
	defer pulse.Stop()

	if p.vibrator != nil {
		p.vibrator.Pulse(entityId)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-pulse.C:
			if p.vibrator != nil {
				p.vibrator.Pulse(entityId)
			}
		case <-deadline.C:
			p.l.Printf("alarm: auto-stop after %s for %s", p.autoStop, entityId)
			p.Stop()
			return
		}
	}
}

// Stop releases the playback context: cancels the sound loop, stops
// vibration and clears the owner. Stopping an already-stopped player is a
// no-op, not an error, regardless of which trigger got there first.
func (p *AlarmPlayer) Stop() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = false
	owner := p.owner
	p.owner = ""
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	if p.onStop != nil {
		p.onStop(owner)
	}
}

// IsPlaying reports whether an alarm is currently ringing.
func (p *AlarmPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Owner returns the entity whose alarm is ringing, or "" when silent.
func (p *AlarmPlayer) Owner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner
}

// Summary returns a snapshot of the playback state.
func (p *AlarmPlayer) Summary() *AlarmSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return &AlarmSummary{}
	}
	started := p.startedAt.UnixMilli()
	return &AlarmSummary{
		IsPlaying:        true,
		OwnerEntityId:    p.owner,
		StartedAt:        started,
		AutoStopDeadline: p.startedAt.Add(p.autoStop).UnixMilli(),
	}
}
