package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grace/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForReminderCmd(m.Scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.State.Processing {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case AssistantReplyMsg:
		return m.onAssistantReply(typed)
	case ReminderConfirmExpiredMsg:
		if m.confirmSeq[typed.MessageID] == typed.Seq {
			m.State.Reminders.ClearConfirmation(typed.MessageID)
			delete(m.confirmSeq, typed.MessageID)
		}
		return m, nil
	case CelebrationDoneMsg:
		if typed.Seq == m.celebrationSeq {
			m.Celebrating = false
		}
		return m, nil
	case ReminderDueMsg:
		m.onReminderDue(typed.Event)
		if m.Scheduler != nil {
			return m, waitForReminderCmd(m.Scheduler.C())
		}
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m = m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == m.Keys.Quit {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Closed {
		switch keyStr {
		case m.Keys.Open, "enter":
			m.Closed = false
			m.Status = StatusBar{Text: "panel opened"}
		case "q":
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.LinkMode {
		return m.handleLinkKey(msg)
	}

	switch keyStr {
	case m.Keys.Close:
		m.Closed = true
		return m, nil
	case m.Keys.Expand:
		m.Expanded = !m.Expanded
		return m, nil
	case m.Keys.Clear:
		return m.clearConversation()
	case m.Keys.Export:
		return m.exportState("")
	case m.Keys.Link:
		m = m.switchView(ViewChat)
		m.LinkMode = true
		m.composer.Blur()
		m.linkInput.SetValue("")
		m.linkInput.Focus()
		return m, nil
	case "alt+h":
		return m.switchView(ViewHistory), nil
	case "alt+a":
		return m.switchView(ViewAchievements), nil
	case "alt+r":
		return m.switchView(ViewReminders), nil
	case "alt+s":
		return m.switchView(ViewSettings), nil
	case "alt+i":
		return m.switchView(ViewAbout), nil
	case "f1":
		return m.switchView(ViewHelp), nil
	}

	if m.CurrentView != ViewChat {
		return m.handlePanelKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m Model) switchView(v View) Model {
	m.CurrentView = v
	if v == ViewChat {
		if m.Focus == FocusComposer {
			m.composer.Focus()
		}
		return m
	}
	m.composer.Blur()
	if v == ViewHistory {
		history, err := m.State.History(m.ctx)
		if err != nil {
			m.LastError = err
			m.Status = StatusBar{Text: fmt.Sprintf("load history: %v", err), IsError: true}
			return m
		}
		m.history = history
	}
	return m
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	if m.Closed {
		return views.RenderLauncher(views.LauncherData{
			Unlocked:  len(m.State.Tracker.Unlocked()),
			Reminders: m.State.Reminders.Len(),
		})
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	body := ""
	switch m.CurrentView {
	case ViewChat:
		body = m.renderChatView()
	case ViewHistory:
		body = m.renderHistoryView()
	case ViewAchievements:
		body = m.renderAchievementsView()
	case ViewReminders:
		body = m.renderRemindersView()
	case ViewSettings:
		body = m.renderSettingsView()
	case ViewHelp:
		body = m.renderHelpView()
	case ViewAbout:
		body = views.RenderAboutPanel(views.AboutPanelData{Version: m.cfg.Version})
	}
	if palette := m.renderCommandPalette(); palette != "" {
		body = strings.TrimSpace(body + "\n\n" + palette)
	}

	side := ""
	if m.Expanded {
		side = m.renderSidePanel()
	}

	return views.RenderApp(views.AppData{
		Title:        fmt.Sprintf("GRaCe | %s", m.CurrentView),
		Badges:       m.badges(),
		Body:         body,
		Side:         side,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer:       m.footer(),
		Expanded:     m.Expanded,
		Compact:      m.Settings.Compact,
	})
}

func (m Model) badges() []string {
	out := make([]string, 0, 2)
	if n := len(m.State.Tracker.Unlocked()); n > 0 {
		out = append(out, fmt.Sprintf("🏆 %d", n))
	}
	if n := m.State.Reminders.Len(); n > 0 {
		out = append(out, fmt.Sprintf("⏰ %d", n))
	}
	return out
}

func (m Model) footer() string {
	if m.CurrentView != ViewChat {
		return fmt.Sprintf("keys: %s back | alt+h history | alt+a achievements | alt+r reminders | alt+s settings | f1 help | %s quit", m.Keys.Back, m.Keys.Quit)
	}
	return fmt.Sprintf("keys: enter send | %s focus | / cmd | %s clear | %s export | %s link | %s expand | %s close | f1 help | %s quit",
		m.Keys.NextFocus, m.Keys.Clear, m.Keys.Export, m.Keys.Link, m.Keys.Expand, m.Keys.Close, m.Keys.Quit)
}

func isKnownView(v View) bool {
	switch v {
	case ViewChat, ViewHistory, ViewAchievements, ViewReminders, ViewSettings, ViewHelp, ViewAbout:
		return true
	default:
		return false
	}
}
