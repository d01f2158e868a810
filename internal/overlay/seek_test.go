package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sayoview/sayo/internal/player"
)

// newTestCoordinator wires a coordinator whose buffer watch re-evaluates
// directly, standing in for the controller's synchronisation context
func newTestCoordinator(pb *fakePlayback) (coord *SeekCoordinator, deferred *int) {
	deferred = new(int)
	coord = NewSeekCoordinator(pb, SeekHooks{
		OnDeferred: func(target time.Duration) { *deferred++ },
		Notify:     func() { coord.Reevaluate() },
	})
	return coord, deferred
}

func TestSkipSeekAppliedImmediatelyWhenBuffered(t *testing.T) {
	pb := newFakePlayback()
	pb.playing = true
	pb.position = 10 * time.Second
	pb.ranges = player.BufferedRanges{{Start: 0, End: 12 * time.Second}}
	coord, deferred := newTestCoordinator(pb)

	// Backward skip target 5s; the 1s look-ahead fits inside [0,12]
	coord.RequestSkipSeek(5 * time.Second)

	assert.Equal(t, []time.Duration{5 * time.Second}, pb.seeks)
	assert.Zero(t, pb.pauseCalls)
	assert.Zero(t, *deferred)
	assert.False(t, coord.Pending())
	assert.False(t, pb.seeking, "seeking flag must be cleared after the seek")
	assert.Zero(t, pb.watcherCount(), "no watch may remain after an immediate seek")
}

func TestSkipSeekDeferredUntilTargetBuffers(t *testing.T) {
	pb := newFakePlayback()
	pb.playing = true
	pb.position = 10 * time.Second
	pb.ranges = player.BufferedRanges{{Start: 0, End: 10 * time.Second}}
	coord, deferred := newTestCoordinator(pb)

	// Forward skip target 15s; 15+1 > 10 so the target is not buffered
	coord.RequestSkipSeek(15 * time.Second)

	assert.Empty(t, pb.seeks)
	assert.Equal(t, 1, pb.pauseCalls)
	assert.Equal(t, 1, *deferred)
	assert.True(t, coord.Pending())
	assert.True(t, pb.seeking)
	assert.Equal(t, 1, pb.watcherCount())

	// An unrelated buffer update that still excludes the target changes nothing
	pb.ranges = player.BufferedRanges{{Start: 0, End: 14 * time.Second}}
	pb.notify()
	assert.Empty(t, pb.seeks)
	assert.True(t, coord.Pending())

	// Once the target (plus margin) buffers, the watch fires exactly once
	pb.ranges = player.BufferedRanges{{Start: 0, End: 20 * time.Second}}
	pb.notify()

	assert.Equal(t, []time.Duration{15 * time.Second}, pb.seeks)
	assert.Equal(t, 1, pb.playCalls, "playback resumes because it was active before the skip")
	assert.False(t, coord.Pending())
	assert.False(t, pb.seeking)
	assert.Zero(t, pb.watcherCount(), "watch must deregister after fulfilment")
}

func TestDeferredSeekStaysPendingWhilePaused(t *testing.T) {
	pb := newFakePlayback()
	pb.playing = false
	pb.ranges = nil
	coord, _ := newTestCoordinator(pb)

	coord.RequestSkipSeek(15 * time.Second)
	pb.ranges = player.BufferedRanges{{Start: 0, End: 30 * time.Second}}
	pb.notify()

	assert.Equal(t, []time.Duration{15 * time.Second}, pb.seeks)
	assert.Zero(t, pb.playCalls, "playback was paused before the skip and must stay paused")
}

func TestNewRequestSupersedesPendingWatch(t *testing.T) {
	pb := newFakePlayback()
	pb.playing = true
	pb.ranges = player.BufferedRanges{{Start: 0, End: 10 * time.Second}}
	coord, _ := newTestCoordinator(pb)

	coord.RequestSkipSeek(15 * time.Second)
	assert.True(t, coord.Pending())

	// A newer request replaces the watch; only one is ever live
	coord.RequestSkipSeek(30 * time.Second)
	assert.Equal(t, 1, pb.watcherCount())

	// Buffer progress that would have satisfied the abandoned target must
	// not fire a seek to it
	pb.ranges = player.BufferedRanges{{Start: 0, End: 20 * time.Second}}
	pb.notify()
	assert.Empty(t, pb.seeks)

	pb.ranges = player.BufferedRanges{{Start: 0, End: 40 * time.Second}}
	pb.notify()
	assert.Equal(t, []time.Duration{30 * time.Second}, pb.seeks)
}

func TestSupersessionCarriesResumeAcrossSkipChain(t *testing.T) {
	pb := newFakePlayback()
	pb.playing = true
	pb.ranges = nil
	coord, _ := newTestCoordinator(pb)

	// First skip pauses playback while deferring
	coord.RequestSkipSeek(15 * time.Second)
	assert.False(t, pb.playing)

	// Second skip arrives while paused; resume intent survives the chain
	coord.RequestSkipSeek(20 * time.Second)
	pb.ranges = player.BufferedRanges{{Start: 0, End: 30 * time.Second}}
	pb.notify()

	assert.Equal(t, []time.Duration{20 * time.Second}, pb.seeks)
	assert.Equal(t, 1, pb.playCalls)
}

func TestScrubReleaseUsesExactMembership(t *testing.T) {
	pb := newFakePlayback()
	pb.ranges = player.BufferedRanges{{Start: 0, End: 12 * time.Second}}
	coord, _ := newTestCoordinator(pb)

	// Exactly at the range end: eligible for scrub, not for a skip
	coord.RequestScrubSeek(12*time.Second, false)
	assert.Equal(t, []time.Duration{12 * time.Second}, pb.seeks)

	pb.seeks = nil
	coord.RequestSkipSeek(12 * time.Second)
	assert.Empty(t, pb.seeks)
	assert.True(t, coord.Pending())
}

func TestScrubReleaseResumesWhenPreviouslyPlaying(t *testing.T) {
	pb := newFakePlayback()
	pb.playing = false // the scrub itself paused the transport
	pb.ranges = player.BufferedRanges{{Start: 0, End: 60 * time.Second}}
	coord, _ := newTestCoordinator(pb)

	coord.RequestScrubSeek(30*time.Second, true)

	assert.Equal(t, []time.Duration{30 * time.Second}, pb.seeks)
	assert.Equal(t, 1, pb.playCalls)
	assert.False(t, pb.seeking)
}

func TestEmptyRangesTreatedAsNotBuffered(t *testing.T) {
	pb := newFakePlayback()
	pb.ranges = nil
	coord, deferred := newTestCoordinator(pb)

	coord.RequestScrubSeek(30*time.Second, false)

	assert.Empty(t, pb.seeks)
	assert.True(t, coord.Pending())
	assert.Equal(t, 1, *deferred)
}

func TestCancelDropsPendingSeek(t *testing.T) {
	pb := newFakePlayback()
	pb.ranges = nil
	coord, _ := newTestCoordinator(pb)

	coord.RequestSkipSeek(15 * time.Second)
	coord.Cancel()

	assert.False(t, coord.Pending())
	assert.False(t, pb.seeking)
	assert.Zero(t, pb.watcherCount())

	// Buffer progress after cancellation must not seek
	pb.ranges = player.BufferedRanges{{Start: 0, End: 60 * time.Second}}
	pb.notify()
	assert.Empty(t, pb.seeks)
}
