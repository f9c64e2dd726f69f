package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/akopyan/override-keeper/models"
	"github.com/charmbracelet/bubbles/spinner"
)

// dashboardModel renders the active override code, its validity window, and
// the denormalized usage counter. Data loading is orchestrated by the root
// model.
type dashboardModel struct {
	spinner spinner.Model
	loading bool

	current models.CurrentPasswordResponse
	missing bool

	status string
	errMsg string
}

func newDashboardModel() dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return dashboardModel{spinner: s, loading: true}
}

func (m *dashboardModel) view() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Загрузка...\n")
	case m.missing:
		b.WriteString("Активный код отсутствует.\n")
		b.WriteString("Нажмите g, чтобы выпустить код на текущую неделю.\n")
	default:
		b.WriteString("Период      │ ")
		b.WriteString(m.current.Period)
		b.WriteString("\n\n")
		b.WriteString(codeStyle.Render(m.current.Password))
		b.WriteString("\n\n")
		b.WriteString("Выдан       │ ")
		b.WriteString(m.current.CreatedAt.Local().Format("02.01.2006 15:04"))
		b.WriteString("\n")
		b.WriteString("Истекает    │ ")
		b.WriteString(m.current.ExpiresAt.Local().Format("02.01.2006 15:04"))
		b.WriteString("\n")
		b.WriteString("Осталось    │ ")
		b.WriteString(formatRemaining(time.Duration(m.current.Remaining) * time.Second))
		b.WriteString("\n")
		b.WriteString("Применений  │ ")
		b.WriteString(fmt.Sprintf("%d", m.current.UsageCount))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\nOK: ")
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage(
		"ТЕКУЩИЙ КОД ПЕРЕОПРЕДЕЛЕНИЯ",
		strings.TrimRight(b.String(), "\n"),
		"c: копировать │ r: перевыпустить │ g: обновить │ s: статистика",
	)
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "истёк"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dд %dч %dм", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dч %dм", hours, minutes)
	}
	return fmt.Sprintf("%dм", minutes)
}
