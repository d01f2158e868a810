package player

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/sayoview/sayo/internal/config"
	"github.com/sayoview/sayo/internal/log"
)

// Properties observed on the mpv instance.  The IDs are arbitrary but must
// be unique per observe_property registration.
const (
	propTimePos = iota + 1
	propDuration
	propPause
	propPausedForCache
	propEOFReached
	propSeeking
	propDemuxerCacheState
)

// MPVPlayer implements the Playback contract on top of a detached mpv
// process driven over its JSON IPC protocol.  mpv owns the transport truth;
// this type mirrors it from property-change events and fans changes out to
// registered watchers.
type MPVPlayer struct {
	config     *config.Config
	ipcClient  *MPVIPCClient
	cmd        *exec.Cmd
	socketPath string
	done       chan struct{}

	mu           sync.Mutex
	st           transportState
	coreSeeking  bool
	listeners    map[int]func()
	nextListener int
}

// transportState mirrors the observable mpv playback state
type transportState struct {
	position  time.Duration
	duration  time.Duration
	ranges    BufferedRanges
	paused    bool
	buffering bool
	ready     bool
	finished  bool
	started   bool
	seeking   bool
}

// NewMPVPlayer creates a new MPV player instance
func NewMPVPlayer(cfg *config.Config) *MPVPlayer {
	socketPath := GetMPVSocketPath()
	return &MPVPlayer{
		config:     cfg,
		socketPath: socketPath,
		ipcClient:  NewMPVIPCClient(socketPath),
		done:       make(chan struct{}),
		listeners:  map[int]func(){},
		st:         transportState{paused: true},
	}
}

// Launch starts mpv for the given media path, connects to its IPC socket and
// begins mirroring playback state.  It returns once the connection is
// established; state changes are delivered through Watch listeners.
func (p *MPVPlayer) Launch(ctx context.Context, mediaPath string) error {
	log.Info("Starting MPV playback", "path", mediaPath)

	// Get MPV binary path from config
	mpvPath := p.config.Player.Path
	if mpvPath == "" {
		mpvPath = "mpv"
	}

	// Build the arguments
	args := []string{
		"--no-terminal",                      // Disable terminal control
		"--keep-open=yes",                    // Hold the final frame so the replay button is reachable
		"--pause",                            // Start paused; the overlay decides when playback begins
		"--input-ipc-server=" + p.socketPath, // Set IPC socket path
	}

	// Add any additional configured arguments
	if p.config.Player.Args != "" {
		customArgs := ParseArgs(p.config.Player.Args)
		args = append(args, customArgs...)
	}

	// Add the media path as the final argument
	args = append(args, mediaPath)

	// Create command
	cmd := exec.Command(mpvPath, args...)

	// Platform-specific process setup
	setupPlayerProcess(cmd)

	// Start MPV
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start MPV: %w", err)
	}
	p.cmd = cmd

	// Release the process (platform-specific)
	if err := releasePlayerProcess(cmd); err != nil {
		log.Warn("Failed to release MPV process", "error", err)
	}

	// Allow time for MPV to create the socket
	time.Sleep(300 * time.Millisecond)

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Try to connect to MPV with retries
	if err := p.ipcClient.WaitForConnection(connCtx, 20, 500*time.Millisecond); err != nil {
		return fmt.Errorf("failed to connect to MPV: %w", err)
	}

	p.observeProperties()

	go p.monitor(ctx)

	return nil
}

// observeProperties registers for every mpv property the facade mirrors
func (p *MPVPlayer) observeProperties() {
	observed := map[int]string{
		propTimePos:           "time-pos",
		propDuration:          "duration",
		propPause:             "pause",
		propPausedForCache:    "paused-for-cache",
		propEOFReached:        "eof-reached",
		propSeeking:           "seeking",
		propDemuxerCacheState: "demuxer-cache-state",
	}
	for id, name := range observed {
		if err := p.ipcClient.ObserveProperty(id, name); err != nil {
			log.Warn("Failed to observe MPV property", "property", name, "error", err)
		}
	}
}

// monitor processes mpv events until the process exits or the context is
// cancelled, mirroring property changes into the facade state.
func (p *MPVPlayer) monitor(ctx context.Context) {
	defer close(p.done)

	mpvEventCh := p.ipcClient.Events()
	for {
		select {
		case <-ctx.Done():
			log.Debug("Context cancelled, stopping MPV monitoring")
			return
		case event, ok := <-mpvEventCh:
			if !ok {
				log.Debug("MPV event channel closed")
				p.update(func(st *transportState) { st.finished = true })
				return
			}

			switch event.Event {
			case "file-loaded":
				log.Info("MPV file has been loaded")
				p.update(func(st *transportState) { st.ready = true })
			case "end-file":
				log.Info("MPV playback ended")
				p.update(func(st *transportState) { st.finished = true })
			case "property-change":
				p.applyPropertyChange(event)
			}
		}
	}
}

// applyPropertyChange mirrors a single mpv property-change event
func (p *MPVPlayer) applyPropertyChange(event MPVEvent) {
	switch event.Name {
	case "time-pos":
		if v, err := eventDataFloat(event); err == nil {
			log.Trace("Setting playback position", "time-pos", v)
			p.update(func(st *transportState) {
				st.position = secondsToDuration(v)
				if v > 0 {
					st.started = true
				}
			})
		}
	case "duration":
		if v, err := eventDataFloat(event); err == nil {
			log.Trace("Setting video duration", "duration", v)
			p.update(func(st *transportState) { st.duration = secondsToDuration(v) })
		}
	case "pause":
		if v, err := eventDataBool(event); err == nil {
			p.update(func(st *transportState) { st.paused = v })
		}
	case "paused-for-cache":
		if v, err := eventDataBool(event); err == nil {
			p.update(func(st *transportState) { st.buffering = v })
		}
	case "eof-reached":
		if v, err := eventDataBool(event); err == nil {
			p.update(func(st *transportState) { st.finished = v })
		}
	case "seeking":
		if v, err := eventDataBool(event); err == nil {
			p.update(func(st *transportState) { st.seeking = v })
		}
	case "demuxer-cache-state":
		if ranges, err := eventDataRanges(event); err == nil {
			log.Trace("Setting buffered ranges", "count", len(ranges))
			p.update(func(st *transportState) { st.ranges = ranges })
		}
	}
}

// update applies a state mutation and notifies watchers outside the lock
func (p *MPVPlayer) update(fn func(*transportState)) {
	p.mu.Lock()
	fn(&p.st)
	listeners := p.snapshotListeners()
	p.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}

// snapshotListeners must be called with the mutex held
func (p *MPVPlayer) snapshotListeners() []func() {
	listeners := make([]func(), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	return listeners
}

// Position returns the current playback position
func (p *MPVPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.position
}

// Duration returns the total media duration, or 0 if not yet known
func (p *MPVPlayer) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.duration
}

// BufferedRanges returns the currently buffered intervals
func (p *MPVPlayer) BufferedRanges() BufferedRanges {
	p.mu.Lock()
	defer p.mu.Unlock()
	ranges := make(BufferedRanges, len(p.st.ranges))
	copy(ranges, p.st.ranges)
	return ranges
}

// Playing reports whether the transport is actively playing
func (p *MPVPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.st.paused && !p.st.finished
}

// Seeking reports whether a seek is in flight, either observed from mpv or
// held open by the overlay core across a deferred seek
func (p *MPVPlayer) Seeking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.seeking || p.coreSeeking
}

// SetSeeking sets the core-owned seeking flag.  The caller is the only
// consumer of that flag, so no watcher notification is delivered; mutating
// operations must never call back into watchers synchronously.
func (p *MPVPlayer) SetSeeking(seeking bool) {
	p.mu.Lock()
	p.coreSeeking = seeking
	p.mu.Unlock()
}

// Buffering reports whether playback is stalled waiting for data
func (p *MPVPlayer) Buffering() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.buffering
}

// Ready reports whether media is loaded and decodable
func (p *MPVPlayer) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.ready
}

// Finished reports whether playback has reached the end of the media
func (p *MPVPlayer) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.finished
}

// Started reports whether playback has ever progressed past the start
func (p *MPVPlayer) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.started
}

// SeekTo moves the transport to the given position
func (p *MPVPlayer) SeekTo(pos time.Duration) {
	if err := p.ipcClient.SendCommand([]interface{}{"seek", pos.Seconds(), "absolute+exact"}); err != nil {
		log.Warn("Failed to send seek command", "error", err)
	}
}

// Play starts or resumes playback
func (p *MPVPlayer) Play() {
	if err := p.ipcClient.SendCommand([]interface{}{"set_property", "pause", false}); err != nil {
		log.Warn("Failed to send play command", "error", err)
	}
}

// Pause pauses playback
func (p *MPVPlayer) Pause() {
	if err := p.ipcClient.SendCommand([]interface{}{"set_property", "pause", true}); err != nil {
		log.Warn("Failed to send pause command", "error", err)
	}
}

// Watch registers a listener invoked on any observable state change
func (p *MPVPlayer) Watch(fn func()) (cancel func()) {
	p.mu.Lock()
	id := p.nextListener
	p.nextListener++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Done is closed once the mpv monitor loop has stopped
func (p *MPVPlayer) Done() <-chan struct{} {
	return p.done
}

// Stop stops playback if it's active
func (p *MPVPlayer) Stop() error {
	// Close IPC connection if it exists
	if p.ipcClient != nil {
		p.ipcClient.Close()
	}

	// Kill MPV process if it exists
	if p.cmd != nil && p.cmd.Process != nil {
		log.Info("Stopping MPV playback")
		return p.cmd.Process.Kill()
	}

	return nil
}

// Cleanup performs any necessary cleanup
func (p *MPVPlayer) Cleanup() {
	p.Stop()

	// Remove socket file if it exists (Unix only)
	if _, err := os.Stat(p.socketPath); err == nil {
		if err := os.Remove(p.socketPath); err != nil {
			log.Warn("Failed to remove MPV socket file", "path", p.socketPath, "error", err)
		}
	}
}

func eventDataFloat(event MPVEvent) (float64, error) {
	var value float64
	if err := json.Unmarshal(event.Data, &value); err != nil {
		return 0.0, fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	return value, nil
}

func eventDataBool(event MPVEvent) (bool, error) {
	var value bool
	if err := json.Unmarshal(event.Data, &value); err != nil {
		return false, fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	return value, nil
}

// eventDataRanges extracts the seekable-ranges field from a
// demuxer-cache-state property change
func eventDataRanges(event MPVEvent) (BufferedRanges, error) {
	var cacheState struct {
		SeekableRanges []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"seekable-ranges"`
	}
	if err := json.Unmarshal(event.Data, &cacheState); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache state: %w", err)
	}

	ranges := make(BufferedRanges, 0, len(cacheState.SeekableRanges))
	for _, r := range cacheState.SeekableRanges {
		ranges = append(ranges, BufferedRange{
			Start: secondsToDuration(r.Start),
			End:   secondsToDuration(r.End),
		})
	}
	return ranges, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
