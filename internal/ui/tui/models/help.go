package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	kb "github.com/sayoview/sayo/internal/ui/tui/keybindings"
	"github.com/sayoview/sayo/internal/ui/tui/styles"
)

// HelpModel displays contextual help for the active view
type HelpModel struct {
	width, height int
}

// NewHelpModel creates a new help model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the model
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Resize updates the dimensions
func (m *HelpModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the help screen for the given context
func (m *HelpModel) View(context View) string {
	title := m.getContextTitle(context)
	header := styles.Header(m.width, "Help: "+title)
	content := m.generateHelpContent(context)
	footer := styles.CenteredText(m.width, styles.Info.Render("ESC: Return"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"", // Spacing
		styles.ContentBox(m.width-2, content, 1),
		"", // Spacing
		footer,
	)
}

// getContextTitle returns a user-friendly title for the context
func (m *HelpModel) getContextTitle(context View) string {
	switch context {
	case ViewLibrary:
		return "Media Library"
	case ViewPlayer:
		return "Player"
	default:
		return "General"
	}
}

// formatKeybindingSection formats a section of keybindings with aligned colons
func (m *HelpModel) formatKeybindingSection(title string, bindings []kb.Binding, skipActions map[kb.Action]bool) string {
	if len(bindings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n\n")

	// First pass: determine the maximum key width for alignment
	maxKeyWidth := 0
	for _, binding := range bindings {
		if skipActions != nil && skipActions[binding.Action] {
			continue
		}

		keyText := binding.KeyMap.Primary
		if binding.KeyMap.Secondary != "" {
			keyText += " or " + binding.KeyMap.Secondary
		}

		if width := utf8.RuneCountInString(keyText); width > maxKeyWidth {
			maxKeyWidth = width
		}
	}

	// Second pass: format each binding with aligned colons
	for _, binding := range bindings {
		if skipActions != nil && skipActions[binding.Action] {
			continue
		}

		keyText := binding.KeyMap.Primary
		if binding.KeyMap.Secondary != "" {
			keyText += " or " + binding.KeyMap.Secondary
		}

		padding := strings.Repeat(" ", maxKeyWidth-utf8.RuneCountInString(keyText))

		b.WriteString(fmt.Sprintf("• %s%s : %s\n",
			lipgloss.NewStyle().Bold(true).Render(keyText),
			padding,
			binding.KeyMap.Help))
	}

	return b.String()
}

// generateHelpContent builds the complete help content
func (m *HelpModel) generateHelpContent(context View) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

	b.WriteString(titleStyle.Render(m.getContextTitle(context)))
	b.WriteString("\n\n")
	b.WriteString(m.getContextDescription(context))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Keybindings"))
	b.WriteString("\n\n")

	globalBindings := m.formatKeybindingSection("Global commands:", kb.ContextBindings[kb.ContextGlobal], nil)
	b.WriteString(globalBindings)

	// Build a map of global actions to avoid duplicating them in context-specific bindings
	globalActions := make(map[kb.Action]bool)
	for _, binding := range kb.ContextBindings[kb.ContextGlobal] {
		globalActions[binding.Action] = true
	}

	var contextName kb.ContextName
	switch context {
	case ViewLibrary:
		contextName = kb.ContextLibrary
	case ViewPlayer:
		contextName = kb.ContextPlayer
	}

	if contextName != "" {
		if globalBindings != "" {
			b.WriteString("\n")
		}

		sectionTitle := fmt.Sprintf("%s commands:", m.getContextTitle(context))
		contextBindings := m.formatKeybindingSection(sectionTitle, kb.ContextBindings[contextName], globalActions)
		b.WriteString(contextBindings)
	}

	// Scrub mode keybindings if applicable
	if context == ViewPlayer {
		b.WriteString("\n")
		scrubBindings := m.formatKeybindingSection("When scrubbing:", kb.ContextBindings[kb.ContextScrubMode], nil)
		b.WriteString(scrubBindings)
	}

	return b.String()
}

// getContextDescription returns help text for the current context
func (m *HelpModel) getContextDescription(context View) string {
	switch context {
	case ViewLibrary:
		return "The media library lists the playable files found under your configured media directory.\n\n" +
			"Navigate the list, filter it with fuzzy search, and press Enter to start playback."

	case ViewPlayer:
		return "The player view drives mpv through a tap-gesture overlay.\n\n" +
			"A single tap toggles the on-screen controls. Double taps on the forward or backward " +
			"zone skip 5 seconds in that direction; repeated taps chain skips together. " +
			"Skips into unbuffered parts of the video wait until enough data has buffered, " +
			"showing a short notice in the meantime.\n\n" +
			"Scrub mode lets you pick an exact position: playback pauses while you adjust the " +
			"target and seeks once you release."

	default:
		return "Welcome to Sayo, a terminal playback overlay for mpv."
	}
}
