package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sayoview/sayo/internal/config"
	"github.com/sayoview/sayo/internal/log"
	"github.com/sayoview/sayo/internal/overlay"
	"github.com/sayoview/sayo/internal/player"
	"github.com/sayoview/sayo/internal/ui/tui/components"
	kb "github.com/sayoview/sayo/internal/ui/tui/keybindings"
	"github.com/sayoview/sayo/internal/ui/tui/styles"
	"github.com/sayoview/sayo/internal/ui/tui/util"
)

// playerTickInterval is how often the progress display refreshes while the
// player view is active
const playerTickInterval = 250 * time.Millisecond

// playbackReadyMsg is the internal handoff from the launch command to the
// model once mpv is up and the overlay controller is attached
type playbackReadyMsg struct {
	pb     *player.MPVPlayer
	ctrl   *overlay.Controller
	cancel context.CancelFunc
}

// PlayerModel renders the playback overlay for a single media file.  All
// interaction goes through the overlay controller; this model only translates
// key presses into taps and paints whatever the controller says is visible.
type PlayerModel struct {
	width, height int
	config        *config.Config
	file          MediaFile

	pb     *player.MPVPlayer
	ctrl   *overlay.Controller
	cancel context.CancelFunc
	events chan tea.Msg

	skip        SkipDisplayMsg
	notice      bool
	scrubbing   bool
	scrubTarget time.Duration
	spinner     spinner.Model
	stopped     bool
}

// NewPlayerModel creates a player model for the given media file
func NewPlayerModel(cfg *config.Config, file MediaFile) *PlayerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return &PlayerModel{
		config:  cfg,
		file:    file,
		events:  make(chan tea.Msg, 32),
		spinner: s,
	}
}

// Init launches mpv and starts the render loops
func (m *PlayerModel) Init() tea.Cmd {
	return tea.Batch(m.startPlayback(), m.spinner.Tick, m.tick())
}

// startPlayback spawns mpv and attaches the overlay controller.  The handles
// come back as a message so the model only ever mutates on the update loop.
func (m *PlayerModel) startPlayback() tea.Cmd {
	cfg := m.config
	file := m.file
	events := m.events

	return func() tea.Msg {
		pb := player.NewMPVPlayer(cfg)
		ctx, cancel := context.WithCancel(context.Background())

		if err := pb.Launch(ctx, file.Path); err != nil {
			cancel()
			pb.Cleanup()
			return PlaybackErrorMsg{File: file, Error: err}
		}

		post := func(msg tea.Msg) {
			select {
			case events <- msg:
			default:
				// The update loop redraws on every tick anyway, so a
				// dropped notification only delays the repaint
				log.Warn("Overlay event channel full, dropping event")
			}
		}

		ctrl := overlay.New(cfg, pb, nil, overlay.Hooks{
			OnOverlayVisible: func(visible bool) {
				post(OverlayVisibilityMsg{Overlay: visible})
			},
			OnButtonVisible: func(visible bool) {
				post(OverlayVisibilityMsg{Button: visible})
			},
			OnSkipDisplay: func(req *overlay.SkipRequest) {
				if req == nil {
					post(SkipDisplayMsg{})
					return
				}
				post(SkipDisplayMsg{
					Forward:   req.Direction == overlay.SkipForward,
					Magnitude: req.Magnitude,
					Visible:   true,
				})
			},
			OnNotice: func(visible bool) {
				post(SeekNoticeMsg{Visible: visible})
			},
		})

		return playbackReadyMsg{pb: pb, ctrl: ctrl, cancel: cancel}
	}
}

// waitForEvent delivers the next overlay notification to the update loop
func (m *PlayerModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// waitForExit resolves once the mpv process has gone away
func (m *PlayerModel) waitForExit() tea.Cmd {
	pb := m.pb
	file := m.file
	return func() tea.Msg {
		<-pb.Done()
		return PlaybackEndedMsg{File: file}
	}
}

func (m *PlayerModel) tick() tea.Cmd {
	return tea.Tick(playerTickInterval, func(t time.Time) tea.Msg {
		return PlayerTickMsg(t)
	})
}

// Stop tears down the overlay controller and the mpv process
func (m *PlayerModel) Stop() {
	if m.stopped {
		return
	}
	m.stopped = true

	if m.ctrl != nil {
		m.ctrl.Close()
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.pb != nil {
		m.pb.Cleanup()
	}
}

// Update handles messages
func (m *PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case playbackReadyMsg:
		m.pb = msg.pb
		m.ctrl = msg.ctrl
		m.cancel = msg.cancel
		file := m.file
		started := func() tea.Msg {
			return PlaybackStartedMsg{File: file}
		}
		return m, tea.Batch(m.waitForEvent(), m.waitForExit(), started)

	case OverlayVisibilityMsg:
		// Visibility is read live off the controller when rendering; the
		// message only forces a repaint
		return m, m.waitForEvent()

	case SkipDisplayMsg:
		m.skip = msg
		return m, m.waitForEvent()

	case SeekNoticeMsg:
		m.notice = msg.Visible
		return m, m.waitForEvent()

	case PlayerTickMsg:
		if m.stopped {
			return m, nil
		}
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.ctrl == nil {
			return m, nil
		}
		if m.scrubbing {
			return m, m.handleScrubKeyMsg(msg)
		}
		return m, m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *PlayerModel) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextPlayer) {
	case kb.ActionSingleTap:
		m.ctrl.SingleTap()
	case kb.ActionDoubleTapCenter:
		m.ctrl.DoubleTap(overlay.ZoneCenter)
	case kb.ActionDoubleTapForward:
		m.ctrl.DoubleTap(overlay.ZoneForward)
	case kb.ActionDoubleTapBackward:
		m.ctrl.DoubleTap(overlay.ZoneBackward)
	case kb.ActionPressButton:
		m.ctrl.PressButton()
	case kb.ActionBeginScrub:
		m.scrubbing = true
		m.scrubTarget = m.pb.Position()
		m.ctrl.BeginScrub()
	case kb.ActionStopPlayback:
		log.Info("Stopping playback", "name", m.file.Name)
		m.Stop()
		file := m.file
		return func() tea.Msg {
			return PlaybackEndedMsg{File: file}
		}
	}
	return nil
}

func (m *PlayerModel) handleScrubKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextScrubMode) {
	case kb.ActionScrubForward:
		m.scrubTarget = player.ClampPosition(m.scrubTarget+overlay.SkipStep, m.pb.Duration())
	case kb.ActionScrubBackward:
		m.scrubTarget = player.ClampPosition(m.scrubTarget-overlay.SkipStep, m.pb.Duration())
	case kb.ActionScrubRelease:
		m.scrubbing = false
		m.ctrl.EndScrub(m.scrubTarget)
	}
	return nil
}

// View renders the playback overlay
func (m *PlayerModel) View() string {
	header := styles.Header(m.width, util.TruncateString(m.file.Name, max(10, m.width-4)))

	if m.ctrl == nil {
		loading := m.spinner.View() + " Starting playback..."
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			styles.CenteredView(m.width, max(1, m.height-2), loading),
		)
	}

	vis := m.ctrl.Visibility()

	surfaceHeight := m.height - 7
	if surfaceHeight < 1 {
		surfaceHeight = 1
	}
	surface := styles.CenteredView(m.width, surfaceHeight, m.renderSurface(vis))

	noticeLine := ""
	if m.notice {
		noticeLine = styles.Notice.Render("Waiting for buffer before seeking...")
	}
	notice := styles.CenteredText(m.width, noticeLine)

	bottomBar := ""
	if vis.Overlay {
		bottomBar = m.renderBottomBar()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		surface,
		notice,
		bottomBar,
		m.renderKeyBar(),
	)
}

// renderSurface picks the central element of the playback surface
func (m *PlayerModel) renderSurface(vis overlay.VisibilityFlags) string {
	if m.pb.Buffering() {
		return m.spinner.View() + " Buffering..."
	}

	if m.skip.Visible {
		magnitude := fmt.Sprintf("%ds", int(m.skip.Magnitude.Seconds()))
		if m.skip.Forward {
			return styles.SkipIndicator.Render(magnitude + " »")
		}
		return styles.SkipIndicator.Render("« " + magnitude)
	}

	if vis.Button {
		switch {
		case m.pb.Finished():
			return styles.Button.Render("⟳ Replay")
		case m.pb.Playing():
			return styles.Button.Render("⏸")
		default:
			return styles.Button.Render("▶")
		}
	}

	return ""
}

// renderBottomBar renders the progress bar with position and duration
func (m *PlayerModel) renderBottomBar() string {
	position := m.pb.Position()
	duration := m.pb.Duration()

	shown := position
	label := util.FormatTimestamp(position)
	if m.scrubbing {
		shown = m.scrubTarget
		label = "Scrub to " + util.FormatTimestamp(m.scrubTarget)
	}

	left := label
	right := util.FormatTimestamp(duration)
	// No known duration means a live stream
	live := duration <= 0 && m.config.LiveIndicatorEnabled()
	if live {
		right = "LIVE"
	}

	barWidth := m.width - len(left) - len(right) - 6
	if barWidth < 10 {
		barWidth = 10
	}
	if live {
		right = styles.SkipIndicator.Render(right)
	}

	bar := renderProgressBar(barWidth, shown, duration, m.pb.BufferedRanges())
	return styles.CenteredText(m.width, fmt.Sprintf("%s %s %s", left, bar, right))
}

// renderProgressBar paints played, buffered and unbuffered cells of the
// timeline
func renderProgressBar(width int, position, duration time.Duration, ranges player.BufferedRanges) string {
	if width < 1 || duration <= 0 {
		return styles.ProgressEmpty.Render(strings.Repeat("─", max(1, width)))
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		cellTime := time.Duration(float64(duration) * float64(i) / float64(width))
		switch {
		case cellTime <= position:
			b.WriteString(styles.ProgressFilled.Render("━"))
		case ranges.Contains(cellTime, 0):
			b.WriteString(styles.ProgressBuffered.Render("━"))
		default:
			b.WriteString(styles.ProgressEmpty.Render("─"))
		}
	}
	return b.String()
}

// renderKeyBar renders the context-appropriate keybinding footer
func (m *PlayerModel) renderKeyBar() string {
	if m.scrubbing {
		return components.KeyBindingsBar(m.width, []components.KeyBinding{
			{Key: "←/→", Desc: "Adjust"},
			{Key: "enter", Desc: "Seek"},
		})
	}
	return components.KeyBindingsBar(m.width, []components.KeyBinding{
		{Key: "space", Desc: "Tap"},
		{Key: "←/→", Desc: "Skip"},
		{Key: "enter", Desc: "Play/Pause"},
		{Key: "s", Desc: "Scrub"},
		{Key: "q", Desc: "Stop"},
	})
}

// Resize updates the dimensions of the player model
func (m *PlayerModel) Resize(width, height int) {
	m.width = width
	m.height = height
}
