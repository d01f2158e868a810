package player

import "time"

// Playback is the narrow contract the overlay core consumes.  The player
// implementation owns the transport truth (position, duration, buffered
// ranges); the core never caches these values across a suspension point and
// mutates the player only through SeekTo, Play and Pause.
type Playback interface {
	// Position returns the current playback position.
	Position() time.Duration
	// Duration returns the total media duration, or 0 if not yet known.
	Duration() time.Duration
	// BufferedRanges returns the currently buffered intervals.
	BufferedRanges() BufferedRanges

	// Playing reports whether the transport is actively playing.
	Playing() bool
	// Seeking reports whether a seek is in flight.  The flag is settable by
	// the overlay core to cover deferred seeks that span buffering waits.
	Seeking() bool
	// SetSeeking sets the core-owned seeking flag.  Implementations must
	// not invoke Watch listeners synchronously from this or any other
	// mutating operation; transport changes are reported from the
	// player's own event loop.
	SetSeeking(seeking bool)
	// Buffering reports whether playback is stalled waiting for data.
	Buffering() bool
	// Ready reports whether media is loaded and decodable.
	Ready() bool
	// Finished reports whether playback has reached the end of the media.
	Finished() bool
	// Started reports whether playback has ever progressed past the start.
	Started() bool

	// SeekTo moves the transport to the given position.
	SeekTo(pos time.Duration)
	// Play starts or resumes playback.
	Play()
	// Pause pauses playback.
	Pause()

	// Watch registers a listener invoked on any observable state change
	// (position, buffered ranges, playback phase).  The returned function
	// deregisters the listener; it is safe to call more than once.
	Watch(fn func()) (cancel func())
}
