package overlay

import (
	"time"

	"github.com/sayoview/sayo/internal/log"
	"github.com/sayoview/sayo/internal/player"
)

// seekLookAhead is the extra buffered duration required beyond a gesture
// skip target before the seek is applied immediately
const seekLookAhead = time.Second

// membershipPolicy decides whether a target position is safely inside the
// buffered media.  Two deliberately separate policies exist: gesture skips
// require a look-ahead margin, scrub release checks exact membership.
type membershipPolicy func(ranges player.BufferedRanges, target time.Duration) bool

func lookAheadMembership(ranges player.BufferedRanges, target time.Duration) bool {
	return ranges.Contains(target, seekLookAhead)
}

func exactMembership(ranges player.BufferedRanges, target time.Duration) bool {
	return ranges.Contains(target, 0)
}

// SeekHooks are the coordinator's callbacks into its owner
type SeekHooks struct {
	// OnDeferred is invoked when a requested seek targets an un-buffered
	// region and has been deferred.  The owner surfaces the transient,
	// non-blocking notice.
	OnDeferred func(target time.Duration)
	// Notify is installed as the facade watch listener while a deferred
	// seek is pending.  The owner must route the call back into its own
	// synchronisation context and then call Reevaluate.
	Notify func()
}

// SeekCoordinator applies seeks only into buffered media.  A request whose
// target is not yet buffered pauses playback and arms a buffer-progress
// watch on the facade; the watch performs the seek once the target becomes
// eligible.  At most one watch is live at any time: a newer request
// deregisters the previous watch before arming its own, so a stale watch
// can never seek to an abandoned target.
type SeekCoordinator struct {
	pb    player.Playback
	hooks SeekHooks

	pending       bool
	pendingTarget time.Duration
	policy        membershipPolicy
	resume        bool
	unwatch       func()
}

// NewSeekCoordinator creates a coordinator with no pending seek
func NewSeekCoordinator(pb player.Playback, hooks SeekHooks) *SeekCoordinator {
	return &SeekCoordinator{pb: pb, hooks: hooks}
}

// Pending reports whether a deferred seek is waiting for buffer progress
func (s *SeekCoordinator) Pending() bool {
	return s.pending
}

// RequestSkipSeek requests a seek on behalf of a double-tap skip gesture,
// using the look-ahead membership policy.  Whether playback resumes after
// the seek is carried over from a superseded pending request, so a chain of
// rapid skips remembers that playback was active before the first one.
func (s *SeekCoordinator) RequestSkipSeek(target time.Duration) {
	resume := s.pb.Playing()
	if s.pending {
		resume = s.resume
	}
	s.request(target, lookAheadMembership, resume)
}

// RequestScrubSeek requests a seek for a scrub release at the chosen target,
// using the exact membership policy.  wasPlaying is whether playback was
// active before the scrub began; the caller pauses the transport for the
// scrub, so the coordinator cannot derive it.
func (s *SeekCoordinator) RequestScrubSeek(target time.Duration, wasPlaying bool) {
	s.request(target, exactMembership, wasPlaying)
}

func (s *SeekCoordinator) request(target time.Duration, policy membershipPolicy, resume bool) {
	// A new request supersedes any pending one: the old watch must never fire
	s.clearPending()

	s.pb.SetSeeking(true)

	if policy(s.pb.BufferedRanges(), target) {
		log.Debug("Seek target buffered, applying immediately", "target", target)
		s.apply(target, resume)
		return
	}

	// Empty or insufficient buffer data: pause and wait for the target to
	// buffer.  There is no timeout; the watch is cancelled, not timed out.
	log.Info("Seek target not buffered, deferring", "target", target)
	s.pb.Pause()
	s.pending = true
	s.pendingTarget = target
	s.policy = policy
	s.resume = resume
	s.unwatch = s.pb.Watch(s.hooks.Notify)
	if s.hooks.OnDeferred != nil {
		s.hooks.OnDeferred(target)
	}
}

// Reevaluate re-checks the pending target against the facade's current
// buffered ranges.  Called by the owner whenever the armed watch reports a
// state change; it is a no-op unless a deferred seek just became eligible.
func (s *SeekCoordinator) Reevaluate() {
	if !s.pending {
		return
	}
	if !s.policy(s.pb.BufferedRanges(), s.pendingTarget) {
		return
	}

	target, resume := s.pendingTarget, s.resume
	log.Info("Deferred seek target buffered, applying", "target", target)
	s.clearPending()
	s.apply(target, resume)
}

// Cancel drops any pending deferred seek, for example when the user picks a
// new target directly or playback is torn down
func (s *SeekCoordinator) Cancel() {
	if !s.pending {
		return
	}
	log.Debug("Cancelling pending deferred seek", "target", s.pendingTarget)
	s.clearPending()
	s.pb.SetSeeking(false)
}

// apply performs the seek, resumes playback if it was active before the
// interaction began, and clears the seeking flag
func (s *SeekCoordinator) apply(target time.Duration, resume bool) {
	s.pb.SeekTo(target)
	if resume {
		s.pb.Play()
	}
	s.pb.SetSeeking(false)
}

func (s *SeekCoordinator) clearPending() {
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
	s.pending = false
}
