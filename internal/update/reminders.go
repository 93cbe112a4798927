package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/grace/internal/model"
	"github.com/sandeepkv93/grace/internal/scheduler"
	"github.com/sandeepkv93/grace/internal/views"
)

func waitForReminderCmd(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

// addReminder records the reminder, queues it when it has a due time and
// raises the message's confirmation for the configured delay.
func (m Model) addReminder(messageID string, opt model.ReminderOption) (Model, tea.Cmd) {
	rem, err := m.State.AddReminder(messageID, opt)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.log.Info("reminder set",
		zap.String("reminder_id", rem.ID),
		zap.String("message_id", rem.MessageID),
		zap.String("option", rem.OptionID),
	)
	m.Status = StatusBar{Text: fmt.Sprintf("reminder set: %s", rem.Label)}
	if rem.DueAt != nil && m.Scheduler != nil {
		err := m.Scheduler.Schedule(scheduler.ReminderEvent{
			ID:        rem.ID,
			MessageID: rem.MessageID,
			Label:     rem.Label,
			TriggerAt: *rem.DueAt,
		})
		if err != nil {
			m.log.Warn("reminder not scheduled", zap.String("reminder_id", rem.ID), zap.Error(err))
			m.Status = StatusBar{Text: fmt.Sprintf("reminder saved but not scheduled: %v", err), IsError: true}
		}
	}

	m.confirmSeq[messageID]++
	seq := m.confirmSeq[messageID]
	return m, tea.Tick(m.cfg.ConfirmationDelay, func(time.Time) tea.Msg {
		return ReminderConfirmExpiredMsg{MessageID: messageID, Seq: seq}
	})
}

func (m Model) removeReminder(id string) Model {
	rem, err := m.State.RemoveReminder(id)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	if m.Scheduler != nil {
		m.Scheduler.Cancel(id)
	}
	delete(m.firedReminders, id)
	m.log.Info("reminder removed", zap.String("reminder_id", id))
	m.Status = StatusBar{Text: fmt.Sprintf("removed reminder: %s", rem.Label)}
	return m
}

func (m *Model) onReminderDue(ev scheduler.ReminderEvent) {
	if _, ok := m.State.Reminders.Get(ev.ID); !ok {
		return
	}
	m.firedReminders[ev.ID] = true
	m.log.Info("reminder due", zap.String("reminder_id", ev.ID), zap.String("message_id", ev.MessageID))
	if !m.Settings.ReminderNotifications {
		return
	}
	text := fmt.Sprintf("%s (reply #%s)", ev.Label, ev.MessageID)
	m.Status = StatusBar{Text: "reminder: " + text}
	m.notify("GRaCe reminder", text, "info")
}

func (m Model) handleRemindersKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "d", "x", "delete":
		items := m.State.Reminders.Items()
		idx := m.reminderTable.Cursor()
		if idx < 0 || idx >= len(items) {
			return m, nil
		}
		return m.removeReminder(items[idx].ID), nil
	}
	var cmd tea.Cmd
	m.reminderTable, cmd = m.reminderTable.Update(msg)
	return m, cmd
}

func (m Model) renderRemindersView() string {
	return views.RenderRemindersPanel(views.RemindersPanelData{
		TableView: m.reminderTable.View(),
		Count:     m.State.Reminders.Len(),
	})
}
