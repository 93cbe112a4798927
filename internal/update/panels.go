package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/grace/internal/views"
)

const maxNotifications = 40

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return views.RenderCommandPalette(true, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderHistoryView() string {
	return views.RenderHistoryPanel(views.HistoryPanelData{
		ListView: m.historyList.View(),
		Count:    len(m.history),
	})
}

func (m Model) renderAchievementsView() string {
	achievements := m.State.Tracker.Achievements()
	data := views.AchievementsPanelData{}
	for _, a := range achievements {
		pct := 0.0
		if a.MaxProgress > 0 {
			pct = float64(a.Progress) / float64(a.MaxProgress)
		}
		item := views.AchievementData{
			Icon:         a.Icon,
			Title:        a.Title,
			Description:  a.Description,
			Progress:     a.Progress,
			MaxProgress:  a.MaxProgress,
			Unlocked:     a.Unlocked(),
			ProgressView: m.progressBar.ViewAs(pct),
		}
		if a.UnlockedAt != nil {
			data.Unlocked++
			item.UnlockedAt = a.UnlockedAt.Local().Format("Jan 2")
		}
		data.Items = append(data.Items, item)
	}
	return views.RenderAchievementsPanel(data)
}

func (m Model) settingsItems() []views.SettingData {
	return []views.SettingData{
		{Label: "Reminder notifications", On: m.Settings.ReminderNotifications},
		{Label: "Achievement notifications", On: m.Settings.AchievementNotifications},
		{Label: "Desktop notifications", On: m.Settings.DesktopNotifications},
		{Label: "Animations", On: m.Settings.Animations},
		{Label: "Compact mode", On: m.Settings.Compact},
	}
}

func (m Model) renderSettingsView() string {
	items := m.settingsItems()
	for i := range items {
		items[i].Cursor = i == m.settingsCursor
	}
	return views.RenderSettingsPanel(views.SettingsPanelData{Items: items})
}

func (m Model) toggleSetting(idx int) Model {
	switch idx {
	case 0:
		m.Settings.ReminderNotifications = !m.Settings.ReminderNotifications
	case 1:
		m.Settings.AchievementNotifications = !m.Settings.AchievementNotifications
	case 2:
		m.Settings.DesktopNotifications = !m.Settings.DesktopNotifications
	case 3:
		m.Settings.Animations = !m.Settings.Animations
		if !m.Settings.Animations {
			m.Celebrating = false
		}
	case 4:
		m.Settings.Compact = !m.Settings.Compact
	default:
		return m
	}
	item := m.settingsItems()[idx]
	state := "off"
	if item.On {
		state = "on"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s %s", strings.ToLower(item.Label), state)}
	return m
}

func (m Model) renderSidePanel() string {
	mt := m.State.Tracker.Metrics()
	var b strings.Builder
	b.WriteString("efficiency\n")
	b.WriteString(fmt.Sprintf("tasks: %d\nsaved: %dm\nstreak: %dd\n", mt.TasksCompleted, mt.TimesSaved, mt.Streak))
	b.WriteString(m.progressBar.ViewAs(float64(mt.EfficiencyScore)/100) + "\n")
	if n := len(m.Notifications); n > 0 {
		b.WriteString("\nrecent:\n")
		start := n - 3
		if start < 0 {
			start = 0
		}
		for _, note := range m.Notifications[start:] {
			b.WriteString(fmt.Sprintf("- %s %s\n", note.At.Local().Format("15:04"), truncate(note.Body, 28)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) handlePanelKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Back:
		return m.switchView(ViewChat), nil
	case "q":
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewHistory:
		if msg.String() == "D" {
			if err := m.State.ClearHistory(m.ctx); err != nil {
				m.LastError = err
				m.Status = StatusBar{Text: err.Error(), IsError: true}
				return m, nil
			}
			m.history = nil
			m.log.Info("history cleared")
			m.Status = StatusBar{Text: "chat history cleared"}
			return m, nil
		}
		var cmd tea.Cmd
		m.historyList, cmd = m.historyList.Update(msg)
		return m, cmd
	case ViewReminders:
		return m.handleRemindersKey(msg)
	case ViewSettings:
		switch msg.String() {
		case "up", "k":
			if m.settingsCursor > 0 {
				m.settingsCursor--
			}
		case "down", "j":
			if m.settingsCursor < len(m.settingsItems())-1 {
				m.settingsCursor++
			}
		case " ", "space", "enter":
			m = m.toggleSetting(m.settingsCursor)
		}
	}
	return m, nil
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.State.Now(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.Settings.DesktopNotifications && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.log.Debug("desktop notification failed", zap.Error(err))
		}
	}
}
