package overlay

import (
	"sort"
	"time"

	"github.com/sayoview/sayo/internal/config"
	"github.com/sayoview/sayo/internal/player"
)

// fakePlayback is an in-memory Playback used to script transport state in
// tests.  Mutating operations record themselves and, matching the real
// facade contract, never invoke watch listeners synchronously; tests call
// notify explicitly to simulate the transport reporting a change.
type fakePlayback struct {
	position  time.Duration
	duration  time.Duration
	ranges    player.BufferedRanges
	playing   bool
	seeking   bool
	buffering bool
	ready     bool
	finished  bool
	started   bool

	seeks      []time.Duration
	playCalls  int
	pauseCalls int

	listeners map[int]func()
	nextID    int
}

func newFakePlayback() *fakePlayback {
	return &fakePlayback{
		duration:  100 * time.Second,
		position:  10 * time.Second,
		ready:     true,
		started:   true,
		listeners: map[int]func(){},
	}
}

func (f *fakePlayback) Position() time.Duration               { return f.position }
func (f *fakePlayback) Duration() time.Duration               { return f.duration }
func (f *fakePlayback) BufferedRanges() player.BufferedRanges { return f.ranges }
func (f *fakePlayback) Playing() bool                         { return f.playing }
func (f *fakePlayback) Seeking() bool                         { return f.seeking }
func (f *fakePlayback) SetSeeking(seeking bool)               { f.seeking = seeking }
func (f *fakePlayback) Buffering() bool                       { return f.buffering }
func (f *fakePlayback) Ready() bool                           { return f.ready }
func (f *fakePlayback) Finished() bool                        { return f.finished }
func (f *fakePlayback) Started() bool                         { return f.started }

func (f *fakePlayback) SeekTo(pos time.Duration) {
	f.seeks = append(f.seeks, pos)
	f.position = pos
}

func (f *fakePlayback) Play() {
	f.playCalls++
	f.playing = true
}

func (f *fakePlayback) Pause() {
	f.pauseCalls++
	f.playing = false
}

func (f *fakePlayback) Watch(fn func()) (cancel func()) {
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() { delete(f.listeners, id) }
}

// notify simulates the transport reporting a state change to all watchers
func (f *fakePlayback) notify() {
	ids := make([]int, 0, len(f.listeners))
	for id := range f.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := f.listeners[id]; ok {
			fn()
		}
	}
}

func (f *fakePlayback) watcherCount() int { return len(f.listeners) }

// manualScheduler is a Scheduler driven explicitly by Advance
type manualScheduler struct {
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Task {
	task := &manualTask{at: s.now + d, fn: fn}
	s.tasks = append(s.tasks, task)
	return task
}

// Advance moves the clock forward, firing due tasks in scheduling order
func (s *manualScheduler) Advance(d time.Duration) {
	s.now += d
	for _, task := range s.tasks {
		if !task.fired && !task.stopped && task.at <= s.now {
			task.fired = true
			task.fn()
		}
	}
}

func boolPtr(v bool) *bool { return &v }

// testConfig returns a config with every gesture and UI toggle enabled
func testConfig() *config.Config {
	return &config.Config{}
}

// testConfigBuilder assembles configs with selected toggles overridden
type testConfigBuilder struct {
	forwardSkip  *bool
	backwardSkip *bool
	bottomBar    *bool
	replayButton *bool
}

func (b *testConfigBuilder) build() *config.Config {
	return &config.Config{
		Gestures: config.GestureConfig{
			EnableForwardSkip:  b.forwardSkip,
			EnableBackwardSkip: b.backwardSkip,
		},
		UI: config.UIConfig{
			ShowBottomBar:    b.bottomBar,
			ShowReplayButton: b.replayButton,
		},
	}
}
