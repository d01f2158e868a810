package config

import (
	"os"
	"strings"
)

type envVar struct {
	name  string
	desc  string
	apply func(*Config, string)
}

var supportedEnvVars = []envVar{
	{
		// Only here for documentation purposes.  Does not override any values in the config as this environment variable
		// points to where the config should be loaded.  It is handled prior to loading the config.
		name:  "SAYO_CONFIG_PATH",
		desc:  "Sets the path to the config file.  Default: OS-specific config directory",
		apply: func(c *Config, s string) {}, // Special case, no-op
	},
	{
		name:  "SAYO_CONFIG_PLAYER_PATH",
		desc:  "Sets the path to the mpv binary.  Default: mpv",
		apply: func(c *Config, s string) { c.Player.Path = s },
	},
	{
		name:  "SAYO_CONFIG_PLAYER_ARGS",
		desc:  "Sets additional arguments passed to the player binary.  Default: None",
		apply: func(c *Config, s string) { c.Player.Args = s },
	},
	{
		name:  "SAYO_CONFIG_GESTURES_ENABLE_FORWARD_SKIP",
		desc:  "Enables or disables the forward double-tap skip gesture.  One of: true, false.  Default: true",
		apply: func(c *Config, s string) { c.Gestures.EnableForwardSkip = parseBool(s) },
	},
	{
		name:  "SAYO_CONFIG_GESTURES_ENABLE_BACKWARD_SKIP",
		desc:  "Enables or disables the backward double-tap skip gesture.  One of: true, false.  Default: true",
		apply: func(c *Config, s string) { c.Gestures.EnableBackwardSkip = parseBool(s) },
	},
	{
		name:  "SAYO_CONFIG_UI_SHOW_BOTTOM_BAR",
		desc:  "Shows or hides the bottom control bar.  One of: true, false.  Default: true",
		apply: func(c *Config, s string) { c.UI.ShowBottomBar = parseBool(s) },
	},
	{
		name:  "SAYO_CONFIG_UI_SHOW_REPLAY_BUTTON",
		desc:  "Shows or hides the replay button when playback finishes.  One of: true, false.  Default: true",
		apply: func(c *Config, s string) { c.UI.ShowReplayButton = parseBool(s) },
	},
	{
		name:  "SAYO_CONFIG_LIBRARY_MEDIA_DIR",
		desc:  "Sets the directory scanned for playable media.  Default: OS-specific videos directory",
		apply: func(c *Config, s string) { c.Library.MediaDir = s },
	},
	{
		name:  "SAYO_CONFIG_LOGGING_LEVEL",
		desc:  "Sets the logging level.  One of: debug, info, warn, error.  Default: info",
		apply: func(c *Config, s string) { c.Logging.Level = s },
	},
	{
		name:  "SAYO_CONFIG_LOGGING_FILE_PATH",
		desc:  "Sets the logging file path.  Default: OS-specific",
		apply: func(c *Config, s string) { c.Logging.FilePath = s },
	},
}

func applyEnvVarOverrides(c *Config) {
	for _, envVar := range supportedEnvVars {
		if value := os.Getenv(envVar.name); value != "" {
			envVar.apply(c, value)
		}
	}
}

// parseBool interprets an env var value as a boolean flag pointer.  Anything
// other than an explicit false-ish value enables the flag.
func parseBool(s string) *bool {
	v := !strings.EqualFold(s, "false") && s != "0" && !strings.EqualFold(s, "no")
	return &v
}
