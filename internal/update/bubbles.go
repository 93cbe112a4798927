package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/grace/internal/model"
	"github.com/sandeepkv93/grace/internal/views"
)

func (m *Model) initBubbleComponents() {
	m.composer = textarea.New()
	m.composer.Placeholder = "Type your message..."
	m.composer.ShowLineNumbers = false
	m.composer.CharLimit = 4000
	m.composer.KeyMap.InsertNewline.SetKeys("alt+enter")
	m.composer.Focus()

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.linkInput = textinput.New()
	m.linkInput.Prompt = "link> "
	m.linkInput.Placeholder = "https://"
	m.linkInput.CharLimit = 2048
	m.linkInput.Width = 48

	m.transcript = viewport.New(views.PanelWidth-4, 16)

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.progressBar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	m.historyList = list.New([]list.Item{}, list.NewDefaultDelegate(), views.PanelWidth-4, 14)
	m.historyList.Title = "Chat history"
	m.historyList.SetShowHelp(false)
	m.historyList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Reminder", Width: 24},
		{Title: "Message", Width: 8},
		{Title: "Set", Width: 8},
		{Title: "Due", Width: 14},
	}
	m.reminderTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	width := views.PanelWidth - 4
	if m.Expanded {
		width = views.ExpandedPanelWidth*2/3 - 4
	}
	height := 16
	if m.Settings.Compact {
		height = 10
	}
	if m.height > 0 && m.height-14 > height {
		height = m.height - 14
	}
	m.transcript.Width = width
	m.transcript.Height = height
	m.composer.SetWidth(width)
	if m.Settings.Compact {
		m.composer.SetHeight(1)
	} else {
		m.composer.SetHeight(3)
	}
	if qa, ok := model.QuickActionByID(m.QuickAction); ok && qa.Placeholder != "" {
		m.composer.Placeholder = qa.Placeholder
	} else {
		m.composer.Placeholder = "Type your message..."
	}

	atBottom := m.transcript.AtBottom()
	m.transcript.SetContent(m.renderTranscript())
	if atBottom || m.State.Processing {
		m.transcript.GotoBottom()
	}

	m.historyList.SetSize(width, height)
	items := make([]list.Item, 0, len(m.history))
	for i := len(m.history) - 1; i >= 0; i-- {
		conv := m.history[i]
		items = append(items, listItem{
			title:       fmt.Sprintf("%d messages | %s", len(conv.Messages), conv.ArchivedAt.Local().Format("Jan 2 15:04")),
			description: historyPreview(conv.Messages),
		})
	}
	m.historyList.SetItems(items)

	reminders := m.State.Reminders.Items()
	rows := make([]table.Row, 0, len(reminders))
	for _, rem := range reminders {
		due := "-"
		if rem.DueAt != nil {
			due = rem.DueAt.Local().Format("Jan 2 15:04")
		}
		if m.firedReminders[rem.ID] {
			due = "fired"
		}
		rows = append(rows, table.Row{rem.Label, "#" + rem.MessageID, rem.Timestamp.Local().Format("15:04"), due})
	}
	m.reminderTable.SetRows(rows)
	// SetRows on an empty table leaves the cursor at -1.
	switch c := m.reminderTable.Cursor(); {
	case len(rows) == 0:
	case c < 0:
		m.reminderTable.SetCursor(0)
	case c >= len(rows):
		m.reminderTable.SetCursor(len(rows) - 1)
	}
}

func (m *Model) renderTranscript() string {
	assistantIdx := 0
	blocks := make([]string, 0, len(m.State.Messages))
	for _, msg := range m.State.Messages {
		data := views.MessageData{
			ID:       msg.ID,
			FromUser: msg.Role == model.RoleUser,
			Time:     msg.Timestamp.Local().Format("15:04"),
		}
		for _, att := range msg.Attachments {
			data.Attachments = append(data.Attachments, attachmentData(att))
		}
		if data.FromUser {
			data.Body = msg.Content
		} else {
			data.Body = m.renderMarkdownCached(msg)
			data.Confirmed = m.State.Reminders.Confirmed(msg.ID)
			if m.Focus == FocusMessages && assistantIdx == m.messageCursor {
				data.Selected = true
				data.Options = reminderOptionData()
			}
			assistantIdx++
		}
		blocks = append(blocks, views.RenderMessage(data))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderMarkdownCached(msg model.Message) string {
	if out, ok := m.markdown[msg.ID]; ok {
		return out
	}
	out := views.RenderMarkdown(msg.Content)
	m.markdown[msg.ID] = out
	return out
}

func attachmentData(att model.Attachment) views.AttachmentData {
	out := views.AttachmentData{ID: att.ID, Name: att.Name, Icon: "🔗"}
	if att.Type == model.AttachmentFile {
		out.Icon = "📎"
		out.Size = model.FormatSize(att.Size)
	}
	return out
}

func reminderOptionData() []views.ReminderOptionData {
	opts := model.ReminderOptions()
	out := make([]views.ReminderOptionData, 0, len(opts))
	for i, opt := range opts {
		out = append(out, views.ReminderOptionData{Key: fmt.Sprintf("%d", i+1), Icon: opt.Icon, Label: opt.Label})
	}
	return out
}

func historyPreview(msgs []model.Message) string {
	parts := make([]string, 0, 2)
	for i := 0; i < len(msgs) && i < 2; i++ {
		parts = append(parts, truncate(msgs[i].Content, 40))
	}
	return strings.Join(parts, " / ")
}
