package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/akopyan/override-keeper/models"
)

// statsModel renders trailing-window usage statistics: issued periods and
// per-action usage counts.
type statsModel struct {
	loading bool
	stats   models.UsageStats
	errMsg  string
}

func (m *statsModel) view() string {
	var b strings.Builder

	if m.loading {
		b.WriteString("Загрузка...\n")
		return renderPage("СТАТИСТИКА", strings.TrimRight(b.String(), "\n"), "esc: назад")
	}

	b.WriteString(fmt.Sprintf("Окно: %d дн. │ Всего применений: %d\n\n", m.stats.WindowDays, m.stats.TotalUsageCount))

	b.WriteString("Период    │ Активен │ Применений │ Выдан\n")
	b.WriteString("──────────┼─────────┼────────────┼─────────────────\n")
	for _, p := range m.stats.Periods {
		active := " "
		if p.IsActive {
			active = "*"
		}
		b.WriteString(fmt.Sprintf("%-9s │    %s    │ %10d │ %s\n",
			fitText(p.Period, 9), active, p.UsageCount, p.CreatedAt.Local().Format("02.01.2006 15:04")))
	}
	if len(m.stats.Periods) == 0 {
		b.WriteString("    —     │    —    │      —     │ —\n")
	}

	b.WriteString("\nДействие                │ Применений\n")
	b.WriteString("────────────────────────┼───────────\n")
	actions := make([]string, 0, len(m.stats.UsageByAction))
	for action := range m.stats.UsageByAction {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	for _, action := range actions {
		b.WriteString(fmt.Sprintf("%-23s │ %10d\n", fitText(action, 23), m.stats.UsageByAction[action]))
	}
	if len(actions) == 0 {
		b.WriteString("           —            │      —\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("СТАТИСТИКА", strings.TrimRight(b.String(), "\n"), "esc: назад │ g: обновить")
}
