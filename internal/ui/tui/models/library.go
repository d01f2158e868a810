package models

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/sayoview/sayo/internal/config"
	"github.com/sayoview/sayo/internal/log"
	"github.com/sayoview/sayo/internal/ui/tui/components"
	kb "github.com/sayoview/sayo/internal/ui/tui/keybindings"
	"github.com/sayoview/sayo/internal/ui/tui/styles"
	"github.com/sayoview/sayo/internal/ui/tui/util"
)

// mediaExtensions are the file extensions picked up by the library scan
var mediaExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".webm": true,
	".avi":  true,
	".mov":  true,
	".m4v":  true,
	".ts":   true,
}

// LibraryModel lists the playable files found under the configured media
// directory, with fuzzy filtering and cursor navigation
type LibraryModel struct {
	width, height  int
	config         *config.Config
	files          []MediaFile
	filtered       []MediaFile
	cursor         int
	viewportOffset int
	searchInput    textinput.Model
	searchMode     bool
	loaded         bool
	scanErr        error
}

// NewLibraryModel creates a new library model for the given config
func NewLibraryModel(cfg *config.Config) *LibraryModel {
	input := textinput.New()
	input.Placeholder = "Filter media..."
	input.Width = 30
	input.SetValue("")

	return &LibraryModel{
		config:      cfg,
		searchInput: input,
	}
}

// Init starts the library scan
func (m *LibraryModel) Init() tea.Cmd {
	dir := m.config.Library.MediaDir
	return func() tea.Msg {
		files, err := scanMediaDir(dir)
		if err != nil {
			return MediaLoadErrorMsg{Error: err}
		}
		return MediaLoadedMsg{Files: files}
	}
}

// scanMediaDir walks the media directory collecting playable files
func scanMediaDir(dir string) ([]MediaFile, error) {
	var files []MediaFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !mediaExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = d.Name()
		}
		info, infoErr := d.Info()
		var size int64
		if infoErr == nil {
			size = info.Size()
		}
		files = append(files, MediaFile{Name: rel, Path: path, Size: size})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan media directory %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// GetSelectedFile returns the file under the cursor
func (m *LibraryModel) GetSelectedFile() *MediaFile {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[m.cursor]
}

// Update updates the model based on messages
func (m *LibraryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MediaLoadedMsg:
		log.Info("Media library loaded", "count", len(msg.Files))
		m.files = msg.Files
		m.loaded = true
		m.scanErr = nil
		m.applyFilter()
		return m, nil

	case MediaLoadErrorMsg:
		log.Error("Failed to load media library", "error", msg.Error)
		m.loaded = true
		m.scanErr = msg.Error
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m, m.handleSearchModeKeyMsg(msg)
		}
		return m, m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *LibraryModel) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextLibrary) {
	case kb.ActionPlaySelected:
		selected := m.GetSelectedFile()
		if selected == nil {
			return nil
		}
		file := *selected
		log.Info("Media selected to play", "name", file.Name)
		return func() tea.Msg {
			return PlayMediaMsg{File: file}
		}
	case kb.ActionEnableSearch:
		m.searchMode = true
		m.searchInput.Focus()
		return textinput.Blink
	case kb.ActionMoveDown:
		if len(m.filtered) > 0 && m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
	case kb.ActionMoveUp:
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
	}

	return nil
}

func (m *LibraryModel) handleSearchModeKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		// Cancels search, clearing the filter
		m.searchMode = false
		m.searchInput.SetValue("")
		m.applyFilter()
		return nil
	case "enter":
		m.searchMode = false
		m.applyFilter()
		return nil
	}

	// Let the text input model handle other keys
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Apply filters as we type
	m.applyFilter()

	return cmd
}

// applyFilter filters files based on the search input
func (m *LibraryModel) applyFilter() {
	query := m.searchInput.Value()
	if query == "" {
		m.filtered = m.files
	} else {
		var filtered []MediaFile
		for _, f := range m.files {
			if fuzzy.MatchFold(query, f.Name) {
				filtered = append(filtered, f)
			}
		}
		m.filtered = filtered
	}

	// Reset cursor if needed
	if len(m.filtered) == 0 {
		m.cursor = 0
	} else if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	m.ensureCursorVisible()
}

// ensureCursorVisible adjusts the viewport offset to keep the cursor visible
func (m *LibraryModel) ensureCursorVisible() {
	if len(m.filtered) == 0 {
		m.cursor = 0
		m.viewportOffset = 0
		return
	}

	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}

	availableHeight := m.height - 10
	if availableHeight < 1 {
		availableHeight = 1
	}
	visibleCount := min(len(m.filtered), availableHeight)

	if len(m.filtered) <= visibleCount {
		m.viewportOffset = 0
		return
	}

	if m.cursor < m.viewportOffset {
		m.viewportOffset = m.cursor
	}
	if m.cursor >= m.viewportOffset+visibleCount {
		m.viewportOffset = max(0, m.cursor-visibleCount+1)
	}

	maxPossibleOffset := max(0, len(m.filtered)-visibleCount)
	if m.viewportOffset > maxPossibleOffset {
		m.viewportOffset = maxPossibleOffset
	}
}

// View renders the library list
func (m *LibraryModel) View() string {
	header := styles.Header(m.width, "Sayo - Media Library")
	content := m.renderFileList()

	if m.searchMode {
		searchPrompt := styles.Title.Render("Search: ") + m.searchInput.View()
		content = lipgloss.JoinVertical(lipgloss.Left, searchPrompt, content)
	}

	footer := components.KeyBindingsBar(m.width, []components.KeyBinding{
		{Key: "↑/↓", Desc: "Navigate"},
		{Key: "enter", Desc: "Play"},
		{Key: "/", Desc: "Filter"},
		{Key: "ctrl+h", Desc: "Help"},
		{Key: "ctrl+c", Desc: "Quit"},
	})

	return fmt.Sprintf("%s\n\n%s\n\n%s", header, content, footer)
}

// renderFileList renders the list of media files
func (m *LibraryModel) renderFileList() string {
	if m.scanErr != nil {
		return styles.CenteredText(m.width,
			fmt.Sprintf("Could not read media directory: %v", m.scanErr))
	}
	if !m.loaded {
		return styles.CenteredText(m.width, "Scanning media library...")
	}
	if len(m.filtered) == 0 {
		if m.searchInput.Value() != "" {
			return styles.CenteredText(m.width, "No media matches your filter")
		}
		return styles.CenteredText(m.width, "No media found in "+m.config.Library.MediaDir)
	}

	availableHeight := m.height - 10
	if availableHeight < 1 {
		availableHeight = 1
	}
	visibleCount := min(len(m.filtered), availableHeight)

	startIdx := m.viewportOffset
	endIdx := startIdx + visibleCount
	if endIdx > len(m.filtered) {
		endIdx = len(m.filtered)
	}

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7D56F4")).
		Width(m.width-4).
		Padding(0, 1)

	normalStyle := lipgloss.NewStyle().
		Width(m.width-4).
		Padding(0, 1)

	var listContent string
	for i := startIdx; i < endIdx; i++ {
		itemText := m.formatFileListItem(m.filtered[i])
		if i == m.cursor {
			listContent += selectedStyle.Render(itemText) + "\n"
		} else {
			listContent += normalStyle.Render(itemText) + "\n"
		}
	}

	// Add pagination indicator if needed
	if len(m.filtered) > visibleCount {
		pagination := fmt.Sprintf("Showing %d-%d of %d", startIdx+1, endIdx, len(m.filtered))
		listContent += styles.CenteredText(m.width-4, pagination)
	}

	return styles.ContentBox(m.width-2, listContent, 1)
}

// formatFileListItem formats a single media file list item
func (m *LibraryModel) formatFileListItem(file MediaFile) string {
	nameWidth := m.width - 20
	if nameWidth < 20 {
		nameWidth = 20
	}

	name := util.TruncateString(file.Name, nameWidth)
	padded := util.PadToWidth(name, nameWidth)

	return fmt.Sprintf("%s %10s", padded, formatSize(file.Size))
}

// formatSize renders a file size in a compact human-readable form
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// Resize updates the dimensions of the library model
func (m *LibraryModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}
