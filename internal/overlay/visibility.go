package overlay

// VisibilityInputs is the shared set of playback, gesture and configuration
// signals the visibility flags are derived from
type VisibilityInputs struct {
	Playing   bool
	Seeking   bool
	Buffering bool
	Ready     bool
	Finished  bool

	// ControlsVisible is the user-toggled controls state
	ControlsVisible bool
	// Tap is the current tap interpretation state
	Tap TapState

	ShowBottomBar    bool
	ShowReplayButton bool
}

// VisibilityFlags are derived, never hand-toggled: they are always
// recomputed from VisibilityInputs so the two can never diverge
type VisibilityFlags struct {
	// Overlay is whether the bottom control bar is visible
	Overlay bool
	// Button is whether the central play/replay button is visible
	Button bool
}

// DeriveVisibility is the pure derivation of the visibility flags
func DeriveVisibility(in VisibilityInputs) VisibilityFlags {
	skip := in.Tap.SkipActive()

	overlay := (in.Playing || in.Seeking) &&
		in.ShowBottomBar &&
		in.ControlsVisible &&
		!skip

	button := in.Finished ||
		(in.ControlsVisible &&
			!in.Buffering && !in.Seeking && in.Ready &&
			!(in.Finished && !in.ShowReplayButton) &&
			!skip)

	return VisibilityFlags{Overlay: overlay, Button: button}
}

// VisibilityEngine recomputes the flags on every input change and notifies
// each observer exactly once per distinct transition.  Notification is
// edge-triggered: an unchanged value is never re-emitted.
type VisibilityEngine struct {
	// OnOverlay is invoked with the new value when the overlay flag changes
	OnOverlay func(visible bool)
	// OnButton is invoked with the new value when the button flag changes
	OnButton func(visible bool)

	last   VisibilityFlags
	primed bool
}

// Update recomputes the flags and emits change notifications.  The first
// call always notifies both observers to establish the initial values.
func (e *VisibilityEngine) Update(in VisibilityInputs) VisibilityFlags {
	flags := DeriveVisibility(in)

	if (!e.primed || flags.Overlay != e.last.Overlay) && e.OnOverlay != nil {
		e.OnOverlay(flags.Overlay)
	}
	if (!e.primed || flags.Button != e.last.Button) && e.OnButton != nil {
		e.OnButton(flags.Button)
	}

	e.last = flags
	e.primed = true
	return flags
}

// Flags returns the most recently derived values
func (e *VisibilityEngine) Flags() VisibilityFlags {
	return e.last
}
