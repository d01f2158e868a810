package models

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sayoview/sayo/internal/config"
	"github.com/sayoview/sayo/internal/log"
)

// AppModel is the main application model that coordinates all child models.  It is the high level wrapper.
type AppModel struct {
	config        *config.Config
	activeView    View  // Track the current active 'main view'
	activeModal   Modal // Track the current active 'modal overlay' if any
	width, height int

	// Models used for various views
	libraryModel *LibraryModel
	playerModel  *PlayerModel
	helpModel    *HelpModel
}

// NewAppModel creates a new instance of the main application model
func NewAppModel(cfg *config.Config) AppModel {
	return AppModel{
		config:       cfg,
		activeView:   ViewLibrary,
		activeModal:  ModalNone,
		libraryModel: NewLibraryModel(cfg),
		helpModel:    NewHelpModel(),
	}
}

func (m AppModel) Init() tea.Cmd {
	log.Info("Initialising Sayo TUI")
	return m.libraryModel.Init()
}

// Update handles messages and updates the models as appropriate
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			log.Info("Quit command received.  Shutting down...")
			if m.playerModel != nil {
				m.playerModel.Stop()
			}
			return m, tea.Quit
		case "ctrl+h":
			log.Debug("Help requested", "active_view", m.activeView)
			// Disable/toggle modal if one already active
			if m.activeModal != ModalNone {
				m.activeModal = ModalNone
			} else {
				m.activeModal = ModalHelp
			}
			return m, nil

		// Handle closing modal when esc is pressed if any is active
		case "esc":
			if m.activeModal != ModalNone {
				m.activeModal = ModalNone
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		log.Debug("Window size changed", "old_width", m.width, "new_width", msg.Width, "old_height", m.height, "new_height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

		// Propagate new window size to all views so they are aware and can render correctly
		m.libraryModel.Resize(msg.Width, msg.Height)
		m.helpModel.Resize(msg.Width, msg.Height)
		if m.playerModel != nil {
			m.playerModel.Resize(msg.Width, msg.Height)
		}

	case PlayMediaMsg:
		log.Info("Starting player", "name", msg.File.Name)

		// Replace any previous player before starting a new one
		if m.playerModel != nil {
			m.playerModel.Stop()
		}
		m.playerModel = NewPlayerModel(m.config, msg.File)
		m.playerModel.Resize(m.width, m.height)
		m.activeView = ViewPlayer
		m.activeModal = ModalNone

		return m, m.playerModel.Init()

	case PlaybackStartedMsg:
		log.Info("Playback started", "name", msg.File.Name)
		return m, nil

	case PlaybackEndedMsg:
		log.Info("Playback ended", "name", msg.File.Name)
		if m.playerModel != nil {
			m.playerModel.Stop()
			m.playerModel = nil
		}
		m.activeView = ViewLibrary
		return m, nil

	case PlaybackErrorMsg:
		log.Error("Playback failed", "name", msg.File.Name, "error", msg.Error)
		if m.playerModel != nil {
			m.playerModel.Stop()
			m.playerModel = nil
		}
		m.activeView = ViewLibrary
		return m, nil
	}

	// Delegate message processing to the active view
	switch m.activeView {
	case ViewLibrary:
		return m.updateLibraryView(msg)
	case ViewPlayer:
		return m.updatePlayerView(msg)
	}

	return m, nil
}

func (m AppModel) View() string {
	// If there is an active modal it takes precedence
	switch m.activeModal {
	case ModalHelp:
		return m.helpModel.View(m.activeView)
	}

	// Else display the actual view
	switch m.activeView {
	case ViewLibrary:
		return m.libraryModel.View()
	case ViewPlayer:
		if m.playerModel != nil {
			return m.playerModel.View()
		}
		return "No active playback\nPress ctrl+c to quit."
	default:
		return "Unknown view\nPress ctrl+c to quit."
	}
}

// updateLibraryView delegates message processing to the library model
func (m AppModel) updateLibraryView(msg tea.Msg) (tea.Model, tea.Cmd) {
	libraryModel, cmd := m.libraryModel.Update(msg)
	m.libraryModel = libraryModel.(*LibraryModel)

	return m, cmd
}

// updatePlayerView delegates message processing to the player model
func (m AppModel) updatePlayerView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.playerModel == nil {
		return m, nil
	}
	playerModel, cmd := m.playerModel.Update(msg)
	m.playerModel = playerModel.(*PlayerModel)

	return m, cmd
}
