package models

import "time"

// MediaFile is a playable entry discovered in the media library
type MediaFile struct {
	// Name is the path relative to the library root, used for display and
	// filtering
	Name string
	// Path is the absolute path handed to the player
	Path string
	Size int64
}

// MediaLoadedMsg is sent when the media library scan completes
type MediaLoadedMsg struct {
	Files []MediaFile
}

// MediaLoadErrorMsg is sent when the media library scan fails
type MediaLoadErrorMsg struct {
	Error error
}

// PlayMediaMsg is sent when a library entry is selected for playback
type PlayMediaMsg struct {
	File MediaFile
}

// PlaybackStartedMsg is sent once the player process is up and its IPC
// connection established
type PlaybackStartedMsg struct {
	File MediaFile
}

// PlaybackEndedMsg is sent when playback stops, whether by finishing the
// media or by user request
type PlaybackEndedMsg struct {
	File MediaFile
}

// PlaybackErrorMsg is sent when the player process could not be started
type PlaybackErrorMsg struct {
	File  MediaFile
	Error error
}

// OverlayVisibilityMsg reports a change in derived overlay visibility
type OverlayVisibilityMsg struct {
	Overlay bool
	Button  bool
}

// SkipDisplayMsg carries the skip indicator contents; a nil direction means
// the indicator was cleared
type SkipDisplayMsg struct {
	Forward   bool
	Magnitude time.Duration
	Visible   bool
}

// SeekNoticeMsg reports the transient unbuffered-seek notice toggling
type SeekNoticeMsg struct {
	Visible bool
}

// PlayerTickMsg drives periodic progress redraws while the player view is
// active
type PlayerTickMsg time.Time
