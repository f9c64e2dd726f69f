// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"time"

	"github.com/akopyan/override-keeper/internal/adapter"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("user quit")

type screen int

const (
	screenLogin screen = iota
	screenDashboard
	screenStats
)

// appModel is the root Bubble Tea model of the operator console. It routes
// key events to the active screen, dispatches async adapter commands, and
// shows a confirmation overlay before destructive actions.
type appModel struct {
	ctx           context.Context
	serverAdapter adapter.ServerAdapter
	currentScreen screen

	login     loginModel
	dashboard dashboardModel
	stats     statsModel

	showConfirm bool
	quitByUser  bool
}

func newAppModel(ctx context.Context, serverAdapter adapter.ServerAdapter) appModel {
	return appModel{
		ctx:           ctx,
		serverAdapter: serverAdapter,
		currentScreen: screenLogin,
		login:         newLoginModel(),
		dashboard:     newDashboardModel(),
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.dashboard.spinner.Tick, func() tea.Msg { return nil })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.quit) && m.currentScreen != screenLogin {
			m.quitByUser = true
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			m.quitByUser = true
			return m, tea.Quit
		}
		return m.updateKey(msg)

	case loginResultMsg:
		m.login.submitting = false
		if msg.err != nil {
			m.login.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.currentScreen = screenDashboard
		m.dashboard.loading = true
		return m, tea.Batch(m.dashboard.spinner.Tick, m.cmdLoadDashboard())

	case dashboardLoadedMsg:
		m.dashboard.loading = false
		m.dashboard.errMsg = ""
		if msg.err != nil {
			m.dashboard.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.dashboard.missing = msg.missing
		m.dashboard.current = msg.current
		return m, nil

	case statsLoadedMsg:
		m.stats.loading = false
		m.stats.errMsg = ""
		if msg.err != nil {
			m.stats.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.stats.stats = msg.stats
		return m, nil

	case rotatedMsg:
		if msg.err != nil {
			m.dashboard.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.dashboard.status = "Код перевыпущен"
		m.dashboard.loading = true
		return m, tea.Batch(m.cmdLoadDashboard(), m.cmdClearStatus())

	case copiedMsg:
		m.dashboard.status = "Скопировано"
		return m, m.cmdClearStatus()

	case clearStatusMsg:
		m.dashboard.status = ""
		return m, nil
	}

	// Keep the spinner animated while the dashboard is loading.
	if m.dashboard.loading {
		var cmd tea.Cmd
		m.dashboard.spinner, cmd = m.dashboard.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showConfirm {
		switch {
		case key.Matches(msg, keys.yes):
			m.showConfirm = false
			return m, m.cmdRotate()
		case key.Matches(msg, keys.no), key.Matches(msg, keys.esc):
			m.showConfirm = false
		}
		return m, nil
	}

	switch m.currentScreen {
	case screenLogin:
		return m.updateLoginKey(msg)
	case screenDashboard:
		return m.updateDashboardKey(msg)
	case screenStats:
		return m.updateStatsKey(msg)
	}
	return m, nil
}

func (m appModel) updateLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.tab):
		m.login.focusNext()
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.login.submitting {
			return m, nil
		}

		login, pass := m.login.credentials()
		if login == "" || pass == "" {
			m.login.errMsg = "Логин и пароль обязательны"
			return m, nil
		}

		m.login.errMsg = ""
		m.login.submitting = true
		return m, m.cmdLogin(login, pass)
	}

	return m, m.login.updateFocused(msg)
}

func (m appModel) updateDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.copy):
		if m.dashboard.missing || m.dashboard.loading {
			m.dashboard.status = "Нечего копировать"
			return m, m.cmdClearStatus()
		}
		return m, m.cmdCopy(m.dashboard.current.Password)
	case key.Matches(msg, keys.rotate):
		m.showConfirm = true
		return m, nil
	case key.Matches(msg, keys.refresh):
		m.dashboard.loading = true
		return m, tea.Batch(m.dashboard.spinner.Tick, m.cmdEnsureAndLoad())
	case key.Matches(msg, keys.stats):
		m.currentScreen = screenStats
		m.stats.loading = true
		return m, m.cmdLoadStats()
	}
	return m, nil
}

func (m appModel) updateStatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.currentScreen = screenDashboard
		return m, nil
	case key.Matches(msg, keys.refresh):
		m.stats.loading = true
		return m, m.cmdLoadStats()
	}
	return m, nil
}

func (m appModel) View() string {
	if m.showConfirm {
		return overlayBoxStyle.Render("Перевыпустить код переопределения?\n\nТекущий код перестанет действовать.\n\ny: да │ n: нет")
	}

	switch m.currentScreen {
	case screenLogin:
		return m.login.view()
	case screenStats:
		return m.stats.view()
	default:
		return m.dashboard.view()
	}
}

func (m appModel) cmdLogin(login, pass string) tea.Cmd {
	ctx := m.ctx
	serverAdapter := m.serverAdapter

	return func() tea.Msg {
		err := serverAdapter.Login(ctx, staffCredentials(login, pass))
		return loginResultMsg{err: err}
	}
}

func (m appModel) cmdLoadDashboard() tea.Cmd {
	ctx := m.ctx
	serverAdapter := m.serverAdapter

	return func() tea.Msg {
		current, err := serverAdapter.CurrentPassword(ctx)
		if errors.Is(err, adapter.ErrNotFound) {
			return dashboardLoadedMsg{missing: true}
		}
		return dashboardLoadedMsg{current: current, err: err}
	}
}

func (m appModel) cmdEnsureAndLoad() tea.Cmd {
	ctx := m.ctx
	serverAdapter := m.serverAdapter

	return func() tea.Msg {
		if _, err := serverAdapter.Ensure(ctx); err != nil {
			return dashboardLoadedMsg{err: err}
		}
		current, err := serverAdapter.CurrentPassword(ctx)
		return dashboardLoadedMsg{current: current, err: err}
	}
}

func (m appModel) cmdLoadStats() tea.Cmd {
	ctx := m.ctx
	serverAdapter := m.serverAdapter

	return func() tea.Msg {
		stats, err := serverAdapter.Stats(ctx, 0)
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m appModel) cmdRotate() tea.Cmd {
	ctx := m.ctx
	serverAdapter := m.serverAdapter

	return func() tea.Msg {
		issue, err := serverAdapter.Regenerate(ctx)
		return rotatedMsg{issue: issue, err: err}
	}
}

func (m appModel) cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return dashboardLoadedMsg{err: err}
		}
		return copiedMsg{}
	}
}

func (m appModel) cmdClearStatus() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
