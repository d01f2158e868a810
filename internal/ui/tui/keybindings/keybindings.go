package keybindings

import tea "github.com/charmbracelet/bubbletea"

// Action represents a specific action that can be triggered by a key
type Action string

// Define all possible actions
const (
	// Global actions
	ActionQuit       Action = "quit"
	ActionToggleHelp Action = "toggle_help"
	ActionBack       Action = "back" // General purpose "go back" or "cancel"

	// Navigation actions
	ActionMoveUp   Action = "move_up"
	ActionMoveDown Action = "move_down"

	// Library view actions
	ActionPlaySelected Action = "play_selected"
	ActionEnableSearch Action = "enable_search"

	// Player view actions
	ActionSingleTap         Action = "single_tap"
	ActionDoubleTapCenter   Action = "double_tap_center"
	ActionDoubleTapForward  Action = "double_tap_forward"
	ActionDoubleTapBackward Action = "double_tap_backward"
	ActionPressButton       Action = "press_button"
	ActionBeginScrub        Action = "begin_scrub"
	ActionStopPlayback      Action = "stop_playback"

	// Scrub mode actions
	ActionScrubForward  Action = "scrub_forward"
	ActionScrubBackward Action = "scrub_backward"
	ActionScrubRelease  Action = "scrub_release"
)

// ContextName represents a specific UI context in the application that has its own keybinds
type ContextName string

const (
	ContextGlobal    ContextName = "global"
	ContextLibrary   ContextName = "library"
	ContextPlayer    ContextName = "player"
	ContextScrubMode ContextName = "scrub_mode"
	ContextHelp      ContextName = "help"
)

var ContextBindings = map[ContextName][]Binding{
	ContextGlobal:    globalBindings,
	ContextLibrary:   libraryBindings,
	ContextPlayer:    playerBindings,
	ContextScrubMode: scrubModeBindings,
	ContextHelp:      helpBindings,
}

// KeyMap stores the mappings from actions to key sequences for each context
type KeyMap struct {
	Primary   string
	Secondary string // Optional alternative key
	Help      string // Description for help screen
}

// Binding maps an action to its keys and help text
type Binding struct {
	Action Action
	KeyMap KeyMap
}

// navigationBindings contains general navigation bindings for consistent navigation across the app
var navigationBindings = []Binding{
	{
		Action: ActionMoveUp,
		KeyMap: KeyMap{
			Primary:   "up",
			Secondary: "k",
			Help:      "Move cursor up",
		},
	},
	{
		Action: ActionMoveDown,
		KeyMap: KeyMap{
			Primary:   "down",
			Secondary: "j",
			Help:      "Move cursor down",
		},
	},
}

// globalBindings contains key bindings that work across all views
var globalBindings = []Binding{
	{
		Action: ActionQuit,
		KeyMap: KeyMap{
			Primary: "ctrl+c",
			Help:    "Quit application",
		},
	},
	{
		Action: ActionToggleHelp,
		KeyMap: KeyMap{
			Primary: "ctrl+h",
			Help:    "Toggle help screen",
		},
	},
	{
		Action: ActionBack,
		KeyMap: KeyMap{
			Primary: "esc",
			Help:    "Go back/cancel current action",
		},
	},
}

// helpBindings contains key bindings specific to the help view
var helpBindings = withNavigation([]Binding{})

// libraryBindings contains key bindings specific to the library view
var libraryBindings = withNavigation([]Binding{
	{
		Action: ActionPlaySelected,
		KeyMap: KeyMap{
			Primary: "enter",
			Help:    "Play selected media",
		},
	},
	{
		Action: ActionEnableSearch,
		KeyMap: KeyMap{
			Primary:   "/",
			Secondary: "ctrl+f",
			Help:      "Filter media files",
		},
	},
})

// playerBindings map keys onto the tap zones of the playback surface
var playerBindings = []Binding{
	{
		Action: ActionSingleTap,
		KeyMap: KeyMap{
			Primary: " ",
			Help:    "Single tap (toggle controls)",
		},
	},
	{
		Action: ActionDoubleTapCenter,
		KeyMap: KeyMap{
			Primary: "c",
			Help:    "Double tap centre (toggle controls)",
		},
	},
	{
		Action: ActionDoubleTapForward,
		KeyMap: KeyMap{
			Primary:   "right",
			Secondary: "l",
			Help:      "Double tap forward zone (skip ahead 5s)",
		},
	},
	{
		Action: ActionDoubleTapBackward,
		KeyMap: KeyMap{
			Primary:   "left",
			Secondary: "h",
			Help:      "Double tap backward zone (skip back 5s)",
		},
	},
	{
		Action: ActionPressButton,
		KeyMap: KeyMap{
			Primary: "enter",
			Help:    "Press central button (play/pause/replay)",
		},
	},
	{
		Action: ActionBeginScrub,
		KeyMap: KeyMap{
			Primary: "s",
			Help:    "Start scrubbing",
		},
	},
	{
		Action: ActionStopPlayback,
		KeyMap: KeyMap{
			Primary: "q",
			Help:    "Stop playback and return to library",
		},
	},
}

// scrubModeBindings contains key bindings specific for when a scrub is in progress
var scrubModeBindings = []Binding{
	{
		Action: ActionScrubForward,
		KeyMap: KeyMap{
			Primary:   "right",
			Secondary: "l",
			Help:      "Move scrub target forward 5s",
		},
	},
	{
		Action: ActionScrubBackward,
		KeyMap: KeyMap{
			Primary:   "left",
			Secondary: "h",
			Help:      "Move scrub target back 5s",
		},
	},
	{
		Action: ActionScrubRelease,
		KeyMap: KeyMap{
			Primary:   "enter",
			Secondary: "s",
			Help:      "Release the scrub at the chosen position",
		},
	},
}

// GetActionKey returns the primary key for an action
func GetActionKey(action Action, bindings []Binding) string {
	for _, binding := range bindings {
		if binding.Action == action {
			return binding.KeyMap.Primary
		}
	}
	return ""
}

// GetBindingByKey returns the action and help text for a given key
func GetBindingByKey(key string, bindings []Binding) (Action, string) {
	for _, binding := range bindings {
		if binding.KeyMap.Primary == key || binding.KeyMap.Secondary == key {
			return binding.Action, binding.KeyMap.Help
		}
	}
	return "", ""
}

// GetActionByKey returns just the action for a given key, or an empty Action if not found
func GetActionByKey(keyMsg tea.KeyMsg, name ContextName) Action {
	if bindings, exists := ContextBindings[name]; exists {
		key := keyMsg.String()
		for _, binding := range bindings {
			if binding.KeyMap.Primary == key || binding.KeyMap.Secondary == key {
				return binding.Action
			}
		}
	}
	return ""
}

// FormatKeyHelp formats a key binding for display in help text
func FormatKeyHelp(binding Binding) string {
	if binding.KeyMap.Secondary != "" {
		return binding.KeyMap.Primary + "/" + binding.KeyMap.Secondary + ": " + binding.KeyMap.Help
	}
	return binding.KeyMap.Primary + ": " + binding.KeyMap.Help
}

// GetHelpText generates formatted help text for a set of bindings
func GetHelpText(title string, bindings []Binding) string {
	helpText := "## " + title + "\n\n"
	for _, binding := range bindings {
		helpText += "* " + FormatKeyHelp(binding) + "\n"
	}
	return helpText
}

// withNavigation is a helper function to include navigation bindings in other binding sets
func withNavigation(bindings []Binding) []Binding {
	return append(append([]Binding{}, navigationBindings...), bindings...)
}
