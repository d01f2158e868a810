package player

import "time"

// BufferedRange is a contiguous interval of media that has already been
// downloaded and is safe to seek into.  Start <= End.
type BufferedRange struct {
	Start time.Duration
	End   time.Duration
}

// BufferedRanges is the set of buffered intervals reported by the player.
// The set is unordered and may be non-contiguous; it is never assumed sorted.
type BufferedRanges []BufferedRange

// Contains reports whether target, plus the given look-ahead margin, lies
// entirely within one of the buffered ranges.  An empty set is treated
// conservatively as nothing buffered.
func (rs BufferedRanges) Contains(target, margin time.Duration) bool {
	for _, r := range rs {
		if target >= r.Start && target+margin <= r.End {
			return true
		}
	}
	return false
}

// ClampPosition clamps a position to the playable window [0, duration].
func ClampPosition(pos, duration time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if duration > 0 && pos > duration {
		return duration
	}
	return pos
}
