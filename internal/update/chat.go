package update

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/grace/internal/export"
	"github.com/sandeepkv93/grace/internal/model"
	"github.com/sandeepkv93/grace/internal/session"
	"github.com/sandeepkv93/grace/internal/views"
)

func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	switch keyStr {
	case m.Keys.NextFocus:
		return m.setFocus(nextFocus(m.Focus, 1)), nil
	case "shift+tab":
		return m.setFocus(nextFocus(m.Focus, -1)), nil
	case m.Keys.Back:
		if m.QuickAction != "" {
			m.QuickAction = ""
			return m, nil
		}
		return m.setFocus(FocusComposer), nil
	}

	switch m.Focus {
	case FocusBuilder:
		return m.handleBuilderKey(msg)
	case FocusMessages:
		return m.handleMessagesKey(msg)
	default:
		return m.handleComposerKey(msg)
	}
}

func (m Model) setFocus(f Focus) Model {
	m.Focus = f
	if f == FocusComposer {
		m.composer.Focus()
	} else {
		m.composer.Blur()
	}
	if f == FocusBuilder {
		m.builderOpen = true
	}
	return m
}

func nextFocus(f Focus, step int) Focus {
	order := []Focus{FocusComposer, FocusBuilder, FocusMessages}
	idx := 0
	for i, candidate := range order {
		if candidate == f {
			idx = i
		}
	}
	return order[(idx+step+len(order))%len(order)]
}

func (m Model) handleComposerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.send()
	case "/":
		if strings.TrimSpace(m.composer.Value()) == "" {
			return m.openPalette(""), nil
		}
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) send() (Model, tea.Cmd) {
	sent, err := m.State.Send(m.composer.Value())
	if err != nil {
		if errors.Is(err, session.ErrEmptyMessage) {
			return m, nil
		}
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.composer.Reset()
	m.QuickAction = ""
	m.builderOpen = false
	m.Celebrating = false
	m.Status = StatusBar{}
	m.log.Info("message sent",
		zap.String("message_id", sent.ID),
		zap.Int("attachments", len(sent.Attachments)),
	)
	return m, tea.Batch(m.respondCmd(sent.Content), m.busySpinner.Tick)
}

func (m Model) respondCmd(task string) tea.Cmd {
	ctx, responder := m.ctx, m.responder
	return func() tea.Msg {
		reply, err := responder.Respond(ctx, task)
		return AssistantReplyMsg{Reply: reply, Err: err}
	}
}

func (m Model) onAssistantReply(msg AssistantReplyMsg) (Model, tea.Cmd) {
	if !m.State.Processing {
		m.log.Warn("dropping reply with no pending request")
		return m, nil
	}
	res := m.State.Complete(msg.Reply, msg.Err)
	m.messageCursor = m.assistantCount() - 1
	if res.Failed {
		m.LastError = msg.Err
		m.log.Warn("assistant reply failed", zap.Error(msg.Err))
		m.Status = StatusBar{Text: "GRaCe could not answer that request", IsError: true}
		return m, nil
	}
	m.log.Info("assistant replied", zap.String("message_id", res.Message.ID))

	var cmds []tea.Cmd
	for _, a := range res.Unlocked {
		m.log.Info("achievement unlocked", zap.String("achievement", a.ID))
		if m.Settings.AchievementNotifications {
			m.notify("Achievement unlocked", fmt.Sprintf("%s %s", a.Icon, a.Title), "info")
		}
	}
	if m.Settings.Animations && m.cfg.CelebrationDelay > 0 {
		m.celebrationSeq++
		m.Celebrating = true
		seq := m.celebrationSeq
		cmds = append(cmds, tea.Tick(m.cfg.CelebrationDelay, func(time.Time) tea.Msg {
			return CelebrationDoneMsg{Seq: seq}
		}))
	}
	metrics := m.State.Tracker.Metrics()
	m.Status = StatusBar{Text: fmt.Sprintf("task completed, %d total", metrics.TasksCompleted)}
	return m, tea.Batch(cmds...)
}

func (m Model) handleBuilderKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	catalog := m.State.Builder.Catalog()
	if len(catalog) == 0 {
		return m, nil
	}
	if m.builder.Category >= len(catalog) {
		m.builder.Category = len(catalog) - 1
	}
	cat := catalog[m.builder.Category]

	switch keyStr := msg.String(); keyStr {
	case "left", "h":
		if m.builder.Category > 0 {
			m.builder.Category--
			m.builder.Item = 0
		}
	case "right", "l":
		if m.builder.Category < len(catalog)-1 {
			m.builder.Category++
			m.builder.Item = 0
		}
	case "up", "k":
		if m.builder.Item > 0 {
			m.builder.Item--
		}
	case "down", "j":
		if m.builder.Item < len(cat.Items)-1 {
			m.builder.Item++
		}
	case " ", "space", "enter":
		if m.builder.Item >= len(cat.Items) {
			return m, nil
		}
		item := cat.Items[m.builder.Item]
		if m.State.Builder.IsSelected(cat.ID, item.ID) {
			m.State.Builder.Clear(cat.ID)
			return m, nil
		}
		if err := m.State.Builder.Select(cat.ID, item.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		}
	case "backspace", "x":
		m.State.Builder.Clear(cat.ID)
	case "1", "2", "3", "4":
		if len(m.State.Messages) > 0 {
			return m, nil
		}
		idx, _ := strconv.Atoi(keyStr)
		actions := model.QuickActions()
		if idx-1 < len(actions) {
			return m.applyQuickAction(actions[idx-1].ID), nil
		}
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Help:
		return m.switchView(ViewHelp), nil
	}
	return m, nil
}

func (m Model) applyQuickAction(id string) Model {
	qa, ok := model.QuickActionByID(id)
	if !ok {
		return m
	}
	if qa.ID == model.QuickReminders {
		m = m.switchView(ViewReminders)
		m.Status = StatusBar{Text: fmt.Sprintf("quick action: %s", qa.Title)}
		return m
	}
	m.QuickAction = qa.ID
	m = m.setFocus(FocusComposer)
	m.Status = StatusBar{Text: fmt.Sprintf("quick action: %s", qa.Title)}
	return m
}

func (m Model) handleMessagesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	switch keyStr {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Help:
		return m.switchView(ViewHelp), nil
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	count := m.assistantCount()
	if count == 0 {
		m.Status = StatusBar{Text: "no replies to act on yet"}
		return m, nil
	}
	if m.messageCursor >= count {
		m.messageCursor = count - 1
	}

	switch keyStr {
	case "up", "k":
		if m.messageCursor > 0 {
			m.messageCursor--
		}
	case "down", "j":
		if m.messageCursor < count-1 {
			m.messageCursor++
		}
	case "1", "2", "3", "4":
		idx, _ := strconv.Atoi(keyStr)
		target, _ := m.selectedAssistantMessage()
		return m.addReminder(target.ID, model.ReminderOptions()[idx-1])
	case "5":
		target, _ := m.selectedAssistantMessage()
		return m.openPalette(fmt.Sprintf("remind 30m %s", target.ID)), nil
	}
	return m, nil
}

func (m Model) assistantCount() int {
	n := 0
	for _, msg := range m.State.Messages {
		if msg.Role == model.RoleAssistant {
			n++
		}
	}
	return n
}

func (m Model) selectedAssistantMessage() (model.Message, bool) {
	idx := 0
	for _, msg := range m.State.Messages {
		if msg.Role != model.RoleAssistant {
			continue
		}
		if idx == m.messageCursor {
			return msg, true
		}
		idx++
	}
	return model.Message{}, false
}

func (m Model) handleLinkKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closeLinkInput()
		return m, nil
	case "enter":
		att, err := m.State.Staging.AddLink(m.linkInput.Value())
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m = m.closeLinkInput()
		m.Status = StatusBar{Text: fmt.Sprintf("link attached: %s", att.Name)}
		return m, nil
	}
	var cmd tea.Cmd
	m.linkInput, cmd = m.linkInput.Update(msg)
	return m, cmd
}

func (m Model) closeLinkInput() Model {
	m.LinkMode = false
	m.linkInput.SetValue("")
	m.linkInput.Blur()
	if m.Focus == FocusComposer {
		m.composer.Focus()
	}
	return m
}

// clearConversation archives a non-empty conversation and resets the
// composer back to the home screen.
func (m Model) clearConversation() (Model, tea.Cmd) {
	conv, archived, err := m.State.ClearAndArchive(m.ctx)
	if err != nil {
		m.LastError = err
		m.log.Error("archive failed", zap.Error(err))
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.composer.Reset()
	m.QuickAction = ""
	m.Celebrating = false
	m.builderOpen = true
	m.messageCursor = 0
	m.builder = builderCursor{}
	clear(m.markdown)
	m = m.setFocus(FocusComposer)
	if archived {
		m.log.Info("conversation archived",
			zap.String("conversation_id", conv.ID),
			zap.Int("messages", len(conv.Messages)),
		)
		m.Status = StatusBar{Text: fmt.Sprintf("archived %d messages", len(conv.Messages))}
	} else {
		m.Status = StatusBar{Text: "started a new conversation"}
	}
	return m, nil
}

// goHome returns to the empty chat screen. A non-empty conversation is
// archived rather than discarded, since messages only leave the view through
// clear-and-archive.
func (m Model) goHome() (Model, tea.Cmd) {
	m = m.switchView(ViewChat)
	return m.clearConversation()
}

func (m Model) exportState(dir string) (Model, tea.Cmd) {
	if dir == "" {
		dir = m.cfg.ExportDir
	}
	path, err := m.writeExport(dir)
	if err != nil {
		m.LastError = err
		m.log.Error("export failed", zap.Error(err))
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.log.Info("state exported", zap.String("path", path))
	m.Status = StatusBar{Text: fmt.Sprintf("exported to %s", path)}
	return m, nil
}

func (m Model) writeExport(dir string) (string, error) {
	doc, err := export.Snapshot(m.ctx, m.State, m.State.Now())
	if err != nil {
		return "", err
	}
	return export.Write(dir, doc)
}

func (m Model) renderChatView() string {
	data := views.ChatPanelData{
		Processing:  m.State.Processing,
		SpinnerView: m.busySpinner.View(),
		Celebrating: m.Celebrating,
		Focus:       string(m.Focus),
	}
	if len(m.State.Messages) == 0 {
		home := m.homeData()
		data.Home = &home
	} else {
		data.Transcript = m.transcript.View()
	}
	for _, att := range m.State.Staging.Items() {
		data.Staged = append(data.Staged, attachmentData(att))
	}
	if m.LinkMode {
		data.LinkInputView = m.linkInput.View()
	}
	data.ComposerView = m.composer.View()
	if pending := m.State.Builder.Build(); pending != "" && len(m.State.Messages) > 0 {
		data.ComposerView = fmt.Sprintf("task: %s\n%s", pending, data.ComposerView)
	}
	return views.RenderChatPanel(data)
}

func (m Model) homeData() views.HomeData {
	catalog := m.State.Builder.Catalog()
	home := views.HomeData{
		BuilderOpen: m.builderOpen || m.State.Builder.Len() > 0,
		Preview:     m.State.Builder.Build(),
		Metrics:     metricsData(m.State.Tracker.Metrics()),
	}
	for ci, cat := range catalog {
		cd := views.CategoryData{
			Title:  cat.Title,
			Active: m.Focus == FocusBuilder && ci == m.builder.Category,
		}
		for ii, item := range cat.Items {
			cd.Items = append(cd.Items, views.ItemData{
				Icon:     item.Icon,
				Label:    item.Label,
				Selected: m.State.Builder.IsSelected(cat.ID, item.ID),
				Cursor:   cd.Active && ii == m.builder.Item,
			})
		}
		home.Categories = append(home.Categories, cd)
	}
	for i, qa := range model.QuickActions() {
		home.QuickActions = append(home.QuickActions, views.QuickActionData{
			Key:         strconv.Itoa(i + 1),
			Title:       qa.Title,
			Description: qa.Description,
		})
	}
	return home
}

func metricsData(mt model.EfficiencyMetrics) views.MetricsData {
	return views.MetricsData{
		TasksCompleted:  mt.TasksCompleted,
		TimesSaved:      mt.TimesSaved,
		EfficiencyScore: mt.EfficiencyScore,
		Streak:          mt.Streak,
	}
}
