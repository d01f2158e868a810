package overlay

import (
	"time"

	"github.com/sayoview/sayo/internal/config"
	"github.com/sayoview/sayo/internal/log"
	"github.com/sayoview/sayo/internal/player"
)

// TapState is the current phase of tap gesture interpretation.  Exactly one
// value holds at any instant; the two skip states imply an active skip
// indicator display.
type TapState int

const (
	// TapIdle is the initial and terminal state
	TapIdle TapState = iota
	// TapSingle means the last gesture was a single tap
	TapSingle
	// TapSkipForward means a forward double-tap skip display is active
	TapSkipForward
	// TapSkipBackward means a backward double-tap skip display is active
	TapSkipBackward
)

// SkipActive reports whether a skip indicator display is active
func (s TapState) SkipActive() bool {
	return s == TapSkipForward || s == TapSkipBackward
}

// SkipDirection is the direction of a double-tap skip gesture
type SkipDirection int

const (
	// SkipForward jumps ahead by the skip step
	SkipForward SkipDirection = iota
	// SkipBackward jumps back by the skip step
	SkipBackward
)

// TapZone identifies where on the playback surface a tap landed
type TapZone int

const (
	// ZoneCenter is the central area; double taps here only toggle controls
	ZoneCenter TapZone = iota
	// ZoneForward is the forward-skip area
	ZoneForward
	// ZoneBackward is the backward-skip area
	ZoneBackward
)

// SkipStep is the fixed magnitude of a double-tap skip
const SkipStep = 5 * time.Second

// SkipRequest describes a qualifying double-tap skip.  At most one request
// is live at a time; a newer request or an explicit user seek supersedes it.
type SkipRequest struct {
	Direction SkipDirection
	Magnitude time.Duration
	Target    time.Duration
	CreatedAt time.Time
}

// TapMachine classifies tap gestures into a TapState and emits SkipRequests
// for qualifying double taps.  It owns the current state and the live
// request; callers interact only through transition operations.  Gesture
// gates are validated against the playback facade at call time, never
// against cached values.
type TapMachine struct {
	pb  player.Playback
	cfg *config.Config
	now func() time.Time

	state TapState
	req   *SkipRequest

	// toggleControls is invoked on single taps and centre double taps
	toggleControls func()
}

// NewTapMachine creates a tap machine in the idle state
func NewTapMachine(pb player.Playback, cfg *config.Config, toggleControls func()) *TapMachine {
	return &TapMachine{
		pb:             pb,
		cfg:            cfg,
		now:            time.Now,
		state:          TapIdle,
		toggleControls: toggleControls,
	}
}

// State returns the current tap interpretation state
func (m *TapMachine) State() TapState {
	return m.state
}

// Request returns the live skip request, or nil if none
func (m *TapMachine) Request() *SkipRequest {
	return m.req
}

// SingleTap handles a single tap anywhere on the playback surface
func (m *TapMachine) SingleTap() {
	m.state = TapSingle
	m.toggleControls()
}

// DoubleTap handles a double tap on the given zone.  For the forward and
// backward zones it returns the emitted SkipRequest, or nil if the gesture
// was gated out; the caller is responsible for starting the skip display
// timer and requesting the seek.
func (m *TapMachine) DoubleTap(zone TapZone) *SkipRequest {
	switch zone {
	case ZoneForward:
		return m.skip(SkipForward)
	case ZoneBackward:
		return m.skip(SkipBackward)
	default:
		// A generic double tap not on a skip zone behaves like a single tap
		m.toggleControls()
		return nil
	}
}

// skip validates the gesture gates and, if they pass, transitions into the
// matching skip state and emits a request.  Any gate failure is a no-op.
func (m *TapMachine) skip(dir SkipDirection) *SkipRequest {
	if m.pb.Finished() || !m.pb.Started() {
		log.Debug("Skip gesture ignored", "reason", "playback finished or not started")
		return nil
	}

	// Position and duration are read fresh from the facade; rapid repeat
	// taps each validate against the position current at tap time.
	position := m.pb.Position()
	duration := m.pb.Duration()

	var target time.Duration
	switch dir {
	case SkipForward:
		if !m.cfg.ForwardSkipEnabled() {
			return nil
		}
		target = position + SkipStep
		if target > duration {
			log.Debug("Forward skip gesture ignored", "reason", "target beyond duration", "target", target, "duration", duration)
			return nil
		}
		m.state = TapSkipForward
	case SkipBackward:
		if !m.cfg.BackwardSkipEnabled() {
			return nil
		}
		// A backward target before the start clamps to 0 (skip to start)
		target = player.ClampPosition(position-SkipStep, duration)
		m.state = TapSkipBackward
	}

	req := &SkipRequest{
		Direction: dir,
		Magnitude: SkipStep,
		Target:    target,
		CreatedAt: m.now(),
	}
	m.req = req
	log.Debug("Skip gesture accepted", "direction", dir, "target", target)
	return req
}

// FinishSkip handles the animation-complete event, returning to idle and
// clearing the live request's display
func (m *TapMachine) FinishSkip() {
	if !m.state.SkipActive() {
		return
	}
	m.state = TapIdle
	m.req = nil
}
