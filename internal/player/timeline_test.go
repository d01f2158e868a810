package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBufferedRangesContains(t *testing.T) {
	ranges := BufferedRanges{
		{Start: 30 * time.Second, End: 40 * time.Second},
		{Start: 0, End: 12 * time.Second},
	}

	tests := []struct {
		name   string
		target time.Duration
		margin time.Duration
		want   bool
	}{
		{"inside first range with margin", 5 * time.Second, time.Second, true},
		{"exactly at range end with zero margin", 12 * time.Second, 0, true},
		{"at range end but margin overflows", 12 * time.Second, time.Second, false},
		{"in gap between ranges", 20 * time.Second, 0, false},
		{"inside unsorted later range", 35 * time.Second, time.Second, true},
		{"before any range", -time.Second, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ranges.Contains(tt.target, tt.margin))
		})
	}
}

func TestBufferedRangesContainsEmpty(t *testing.T) {
	// Unknown buffer data is treated conservatively as nothing buffered
	var ranges BufferedRanges
	assert.False(t, ranges.Contains(0, 0))
}

func TestClampPosition(t *testing.T) {
	duration := 100 * time.Second

	assert.Equal(t, time.Duration(0), ClampPosition(-5*time.Second, duration))
	assert.Equal(t, 50*time.Second, ClampPosition(50*time.Second, duration))
	assert.Equal(t, duration, ClampPosition(103*time.Second, duration))

	// Unknown duration only clamps the lower bound
	assert.Equal(t, 103*time.Second, ClampPosition(103*time.Second, 0))
}
