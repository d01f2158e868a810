package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSingleTapTogglesControls(t *testing.T) {
	pb := newFakePlayback()
	toggles := 0
	machine := NewTapMachine(pb, testConfig(), func() { toggles++ })

	machine.SingleTap()

	assert.Equal(t, TapSingle, machine.State())
	assert.Equal(t, 1, toggles)
	assert.Nil(t, machine.Request())
}

func TestCenterDoubleTapTogglesControlsOnly(t *testing.T) {
	pb := newFakePlayback()
	toggles := 0
	machine := NewTapMachine(pb, testConfig(), func() { toggles++ })

	req := machine.DoubleTap(ZoneCenter)

	assert.Nil(t, req)
	assert.Equal(t, 1, toggles)
	assert.Equal(t, TapIdle, machine.State())
}

func TestForwardDoubleTapEmitsSkipRequest(t *testing.T) {
	pb := newFakePlayback()
	pb.position = 10 * time.Second
	pb.duration = 100 * time.Second
	machine := NewTapMachine(pb, testConfig(), func() {})

	req := machine.DoubleTap(ZoneForward)

	assert.NotNil(t, req)
	assert.Equal(t, SkipForward, req.Direction)
	assert.Equal(t, SkipStep, req.Magnitude)
	assert.Equal(t, 15*time.Second, req.Target)
	assert.Equal(t, TapSkipForward, machine.State())
	assert.Equal(t, req, machine.Request())
}

func TestBackwardDoubleTapClampsTargetToStart(t *testing.T) {
	pb := newFakePlayback()
	pb.position = 2 * time.Second
	machine := NewTapMachine(pb, testConfig(), func() {})

	req := machine.DoubleTap(ZoneBackward)

	assert.NotNil(t, req)
	assert.Equal(t, SkipBackward, req.Direction)
	assert.Equal(t, time.Duration(0), req.Target)
	assert.Equal(t, TapSkipBackward, machine.State())
}

func TestSkipGestureGates(t *testing.T) {
	tests := []struct {
		name  string
		zone  TapZone
		setup func(pb *fakePlayback, cfg *testConfigBuilder)
	}{
		{
			name: "forward gesture disabled",
			zone: ZoneForward,
			setup: func(pb *fakePlayback, cfg *testConfigBuilder) {
				cfg.forwardSkip = boolPtr(false)
			},
		},
		{
			name: "backward gesture disabled",
			zone: ZoneBackward,
			setup: func(pb *fakePlayback, cfg *testConfigBuilder) {
				cfg.backwardSkip = boolPtr(false)
			},
		},
		{
			name: "playback finished",
			zone: ZoneForward,
			setup: func(pb *fakePlayback, cfg *testConfigBuilder) {
				pb.finished = true
			},
		},
		{
			name: "playback not started",
			zone: ZoneBackward,
			setup: func(pb *fakePlayback, cfg *testConfigBuilder) {
				pb.started = false
			},
		},
		{
			name: "forward target beyond duration",
			zone: ZoneForward,
			setup: func(pb *fakePlayback, cfg *testConfigBuilder) {
				pb.position = 98 * time.Second
				pb.duration = 100 * time.Second
			},
		},
		{
			name: "forward with unknown duration",
			zone: ZoneForward,
			setup: func(pb *fakePlayback, cfg *testConfigBuilder) {
				pb.duration = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := newFakePlayback()
			builder := &testConfigBuilder{}
			tt.setup(pb, builder)
			toggles := 0
			machine := NewTapMachine(pb, builder.build(), func() { toggles++ })

			positionBefore := pb.position
			req := machine.DoubleTap(tt.zone)

			// A gate failure is a silent no-op
			assert.Nil(t, req)
			assert.Equal(t, TapIdle, machine.State())
			assert.Nil(t, machine.Request())
			assert.Equal(t, positionBefore, pb.position)
			assert.Zero(t, toggles)
		})
	}
}

func TestFinishSkipReturnsToIdle(t *testing.T) {
	pb := newFakePlayback()
	machine := NewTapMachine(pb, testConfig(), func() {})

	machine.DoubleTap(ZoneForward)
	assert.Equal(t, TapSkipForward, machine.State())

	machine.FinishSkip()

	assert.Equal(t, TapIdle, machine.State())
	assert.Nil(t, machine.Request())
}

func TestFinishSkipOutsideSkipStateIsNoOp(t *testing.T) {
	pb := newFakePlayback()
	machine := NewTapMachine(pb, testConfig(), func() {})

	machine.SingleTap()
	machine.FinishSkip()

	assert.Equal(t, TapSingle, machine.State())
}

func TestRapidSkipsValidateAgainstCurrentPosition(t *testing.T) {
	pb := newFakePlayback()
	pb.position = 96 * time.Second
	pb.duration = 100 * time.Second
	machine := NewTapMachine(pb, testConfig(), func() {})

	// 96s -> target 101s is beyond the duration
	assert.Nil(t, machine.DoubleTap(ZoneForward))

	// After moving back, the same gesture re-validates against the new position
	pb.position = 90 * time.Second
	req := machine.DoubleTap(ZoneForward)
	assert.NotNil(t, req)
	assert.Equal(t, 95*time.Second, req.Target)
}
