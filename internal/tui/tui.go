package tui

import (
	"context"

	"github.com/akopyan/override-keeper/internal/adapter"
	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI is the operator console: login, current-code dashboard, usage
// statistics, forced rotation.
type TUI struct {
	serverAdapter adapter.ServerAdapter
}

func New(serverAdapter adapter.ServerAdapter, _ *logger.Logger) (*TUI, error) {
	return &TUI{serverAdapter: serverAdapter}, nil
}

// Run starts the console and blocks until the operator quits. Returns
// [ErrUserQuit] when the operator left with q/ctrl+c.
func (t *TUI) Run(ctx context.Context) error {
	model := newAppModel(ctx, t.serverAdapter)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(appModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}

	return nil
}

func staffCredentials(login, pass string) models.StaffUser {
	return models.StaffUser{Login: login, Password: pass}
}
