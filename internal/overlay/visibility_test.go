package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// baseInputs are the inputs of an ordinary mid-playback moment where both
// flags derive to true
func baseInputs() VisibilityInputs {
	return VisibilityInputs{
		Playing:          true,
		Ready:            true,
		ControlsVisible:  true,
		Tap:              TapIdle,
		ShowBottomBar:    true,
		ShowReplayButton: true,
	}
}

func TestDeriveVisibility(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*VisibilityInputs)
		wantOverlay bool
		wantButton  bool
	}{
		{
			name:        "playing with controls visible",
			mutate:      func(in *VisibilityInputs) {},
			wantOverlay: true,
			wantButton:  true,
		},
		{
			name:        "paused and not seeking hides overlay",
			mutate:      func(in *VisibilityInputs) { in.Playing = false },
			wantOverlay: false,
			wantButton:  true,
		},
		{
			name: "seeking keeps overlay but hides button",
			mutate: func(in *VisibilityInputs) {
				in.Playing = false
				in.Seeking = true
			},
			wantOverlay: true,
			wantButton:  false,
		},
		{
			name:        "controls toggled away hide both",
			mutate:      func(in *VisibilityInputs) { in.ControlsVisible = false },
			wantOverlay: false,
			wantButton:  false,
		},
		{
			name:        "bottom bar disabled by configuration",
			mutate:      func(in *VisibilityInputs) { in.ShowBottomBar = false },
			wantOverlay: false,
			wantButton:  true,
		},
		{
			name:        "active skip display suppresses both",
			mutate:      func(in *VisibilityInputs) { in.Tap = TapSkipForward },
			wantOverlay: false,
			wantButton:  false,
		},
		{
			name:        "backward skip display suppresses both",
			mutate:      func(in *VisibilityInputs) { in.Tap = TapSkipBackward },
			wantOverlay: false,
			wantButton:  false,
		},
		{
			name:        "buffering hides button",
			mutate:      func(in *VisibilityInputs) { in.Buffering = true },
			wantOverlay: true,
			wantButton:  false,
		},
		{
			name:        "not ready hides button",
			mutate:      func(in *VisibilityInputs) { in.Ready = false },
			wantOverlay: true,
			wantButton:  false,
		},
		{
			name:        "finished shows button as replay",
			mutate:      func(in *VisibilityInputs) { in.Finished = true },
			wantOverlay: true,
			wantButton:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			tt.mutate(&in)
			flags := DeriveVisibility(in)
			assert.Equal(t, tt.wantOverlay, flags.Overlay, "overlay")
			assert.Equal(t, tt.wantButton, flags.Button, "button")
		})
	}
}

// The button is visible whenever playback has finished, regardless of every
// other input
func TestButtonVisibleWheneverFinished(t *testing.T) {
	in := VisibilityInputs{
		Finished:         true,
		Buffering:        true,
		Seeking:          true,
		ControlsVisible:  false,
		Tap:              TapSkipForward,
		ShowReplayButton: false,
	}
	assert.True(t, DeriveVisibility(in).Button)
}

// Notification is edge-triggered: observers are notified exactly once per
// distinct transition, never on an unchanged recomputation.  (The
// level-triggered alternative, notifying on every rebuild, was considered
// and rejected to avoid redundant downstream work.)
func TestVisibilityNotificationsAreEdgeTriggered(t *testing.T) {
	var overlayEvents, buttonEvents []bool
	engine := &VisibilityEngine{
		OnOverlay: func(v bool) { overlayEvents = append(overlayEvents, v) },
		OnButton:  func(v bool) { buttonEvents = append(buttonEvents, v) },
	}

	in := baseInputs()

	// First update establishes the initial values
	engine.Update(in)
	assert.Equal(t, []bool{true}, overlayEvents)
	assert.Equal(t, []bool{true}, buttonEvents)

	// Recomputing with identical inputs must not notify again
	engine.Update(in)
	engine.Update(in)
	assert.Equal(t, []bool{true}, overlayEvents)
	assert.Equal(t, []bool{true}, buttonEvents)

	// A change in one flag notifies only that observer
	in.Tap = TapSkipForward
	engine.Update(in)
	assert.Equal(t, []bool{true, false}, overlayEvents)
	assert.Equal(t, []bool{true, false}, buttonEvents)

	in.Tap = TapIdle
	engine.Update(in)
	assert.Equal(t, []bool{true, false, true}, overlayEvents)
	assert.Equal(t, []bool{true, false, true}, buttonEvents)

	// Seeking while playing: overlay stays true, button drops
	in.Seeking = true
	engine.Update(in)
	assert.Equal(t, []bool{true, false, true}, overlayEvents)
	assert.Equal(t, []bool{true, false, true, false}, buttonEvents)
}

func TestVisibilityFlagsAccessor(t *testing.T) {
	engine := &VisibilityEngine{}
	flags := engine.Update(baseInputs())
	assert.Equal(t, flags, engine.Flags())
}
