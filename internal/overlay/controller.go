package overlay

import (
	"sync"
	"time"

	"github.com/sayoview/sayo/internal/config"
	"github.com/sayoview/sayo/internal/log"
	"github.com/sayoview/sayo/internal/player"
)

const (
	// skipDisplayDuration is how long the skip indicator stays on screen
	skipDisplayDuration = 1500 * time.Millisecond
	// noticeDuration is how long the unbuffered-seek notice stays on screen
	noticeDuration = 2 * time.Second
)

// Hooks are the controller's notifications to the rendering layer.  Each is
// invoked with the new value only when it changes, inside the controller's
// synchronisation context, so observers never see an intermediate
// combination of tap state and visibility.
type Hooks struct {
	// OnOverlayVisible reports bottom bar visibility changes
	OnOverlayVisible func(visible bool)
	// OnButtonVisible reports central button visibility changes
	OnButtonVisible func(visible bool)
	// OnSkipDisplay reports the live skip request while its indicator is
	// displayed, and nil when the display is cleared
	OnSkipDisplay func(req *SkipRequest)
	// OnNotice reports the transient unbuffered-seek notice
	OnNotice func(visible bool)
}

// Controller is the interaction layer of the playback overlay.  It owns the
// tap machine, the skip display timer, the seek coordinator and the
// visibility engine, and funnels gestures, timer fires and facade
// notifications through a single mutex so that every state mutation and its
// derived visibility recomputation happen atomically.
type Controller struct {
	mu sync.Mutex

	cfg   *config.Config
	pb    player.Playback
	sched Scheduler
	hooks Hooks

	machine *TapMachine
	coord   *SeekCoordinator
	engine  *VisibilityEngine

	skipTimer   *oneShot
	noticeTimer *oneShot

	controlsVisible bool
	scrubbing       bool
	scrubResume     bool

	unwatch func()
}

// New creates a controller bound to the given playback facade.  A nil
// scheduler selects real timers.
func New(cfg *config.Config, pb player.Playback, sched Scheduler, hooks Hooks) *Controller {
	if sched == nil {
		sched = NewClockScheduler()
	}

	c := &Controller{
		cfg:             cfg,
		pb:              pb,
		sched:           sched,
		hooks:           hooks,
		skipTimer:       newOneShot(sched),
		noticeTimer:     newOneShot(sched),
		controlsVisible: true,
	}
	c.machine = NewTapMachine(pb, cfg, c.toggleControlsLocked)
	c.engine = &VisibilityEngine{
		OnOverlay: hooks.OnOverlayVisible,
		OnButton:  hooks.OnButtonVisible,
	}
	c.coord = NewSeekCoordinator(pb, SeekHooks{
		OnDeferred: c.seekDeferredLocked,
		Notify:     c.bufferWatchFired,
	})

	c.unwatch = pb.Watch(c.playbackChanged)
	return c
}

// SingleTap handles a single tap on the playback surface
func (c *Controller) SingleTap() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.machine.SingleTap()
	c.refreshLocked()
}

// DoubleTap handles a double tap on the given zone.  A qualifying skip
// gesture restarts the skip display timer and hands the target to the seek
// coordinator; a gated-out gesture changes nothing.
func (c *Controller) DoubleTap(zone TapZone) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.machine.DoubleTap(zone)
	if req != nil {
		c.skipTimer.Start(skipDisplayDuration, c.skipDisplayDone)
		if c.hooks.OnSkipDisplay != nil {
			c.hooks.OnSkipDisplay(req)
		}
		c.coord.RequestSkipSeek(req.Target)
	}
	c.refreshLocked()
}

// BeginScrub enters scrub mode: playback pauses and the seeking flag is
// held until the release seek completes
func (c *Controller) BeginScrub() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scrubbing {
		return
	}
	c.scrubbing = true
	c.scrubResume = c.pb.Playing()
	c.pb.SetSeeking(true)
	c.pb.Pause()
	c.refreshLocked()
}

// EndScrub releases the scrub at the chosen target position
func (c *Controller) EndScrub(target time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.scrubbing {
		return
	}
	c.scrubbing = false
	target = player.ClampPosition(target, c.pb.Duration())
	c.coord.RequestScrubSeek(target, c.scrubResume)
	c.refreshLocked()
}

// Scrubbing reports whether a scrub is in progress
func (c *Controller) Scrubbing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrubbing
}

// PressButton activates the central button: replay when playback has
// finished, play/pause toggle otherwise
func (c *Controller) PressButton() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pb.Finished() {
		if !c.cfg.ReplayButtonEnabled() {
			return
		}
		log.Info("Replaying from start")
		c.coord.RequestScrubSeek(0, true)
	} else if c.pb.Playing() {
		c.pb.Pause()
	} else {
		c.pb.Play()
	}
	c.refreshLocked()
}

// ToggleControls toggles the user-controlled controls visibility
func (c *Controller) ToggleControls() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.toggleControlsLocked()
	c.refreshLocked()
}

// ControlsVisible reports the user-toggled controls state
func (c *Controller) ControlsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controlsVisible
}

// TapState returns the current tap interpretation state
func (c *Controller) TapState() TapState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.State()
}

// Visibility returns the most recently derived visibility flags
func (c *Controller) Visibility() VisibilityFlags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Flags()
}

// Close detaches the controller from the facade and cancels all owned
// timers and watches
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unwatch != nil {
		c.unwatch()
		c.unwatch = nil
	}
	c.coord.Cancel()
	c.skipTimer.Stop()
	c.noticeTimer.Stop()
}

// playbackChanged is the permanent facade listener; every observable
// transport change triggers a visibility recomputation
func (c *Controller) playbackChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
}

// bufferWatchFired is installed as the coordinator's buffer-progress watch
// listener while a deferred seek is pending
func (c *Controller) bufferWatchFired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coord.Reevaluate()
	c.refreshLocked()
}

// skipDisplayDone is the skip timer completion; a fire from a superseded
// timer is discarded so a stale timer never clears a newer skip display
func (c *Controller) skipDisplayDone(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.skipTimer.IsCurrent(gen) {
		return
	}
	c.skipTimer.Stop()
	c.machine.FinishSkip()
	if c.hooks.OnSkipDisplay != nil {
		c.hooks.OnSkipDisplay(nil)
	}
	c.refreshLocked()
}

// seekDeferredLocked surfaces the transient notice for an unbuffered seek.
// Called by the coordinator with the controller lock held.
func (c *Controller) seekDeferredLocked(target time.Duration) {
	if c.hooks.OnNotice != nil {
		c.hooks.OnNotice(true)
	}
	c.noticeTimer.Start(noticeDuration, c.noticeExpired)
}

// noticeExpired auto-dismisses the unbuffered-seek notice
func (c *Controller) noticeExpired(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.noticeTimer.IsCurrent(gen) {
		return
	}
	c.noticeTimer.Stop()
	if c.hooks.OnNotice != nil {
		c.hooks.OnNotice(false)
	}
}

// toggleControlsLocked flips the controls toggle.  Must be called with the
// lock held; used as the tap machine's toggle callback.
func (c *Controller) toggleControlsLocked() {
	c.controlsVisible = !c.controlsVisible
}

// refreshLocked rebuilds the visibility inputs from the facade and current
// gesture state and lets the engine emit edge-triggered notifications.
// Must be called with the lock held after every state mutation.
func (c *Controller) refreshLocked() {
	c.engine.Update(VisibilityInputs{
		Playing:          c.pb.Playing(),
		Seeking:          c.pb.Seeking(),
		Buffering:        c.pb.Buffering(),
		Ready:            c.pb.Ready(),
		Finished:         c.pb.Finished(),
		ControlsVisible:  c.controlsVisible,
		Tap:              c.machine.State(),
		ShowBottomBar:    c.cfg.BottomBarEnabled(),
		ShowReplayButton: c.cfg.ReplayButtonEnabled(),
	})
}
