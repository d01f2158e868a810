package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sayoview/sayo/internal/config"
	"github.com/sayoview/sayo/internal/ui/tui/models"
)

func Run(cfg *config.Config) error {
	p := tea.NewProgram(models.NewAppModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
