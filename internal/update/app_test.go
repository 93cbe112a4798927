package update

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grace/internal/assistant"
	"github.com/sandeepkv93/grace/internal/export"
	"github.com/sandeepkv93/grace/internal/model"
	"github.com/sandeepkv93/grace/internal/scheduler"
	"github.com/sandeepkv93/grace/internal/session"
)

func newTestModel(t *testing.T, responder assistant.Responder, engine *scheduler.Engine) Model {
	t.Helper()
	clock := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	ids := 0
	state := session.New(session.Options{
		Rand: rand.New(rand.NewPCG(1, 2)),
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
	})
	if responder == nil {
		responder = assistant.ResponderFunc(func(_ context.Context, task string) (string, error) {
			return assistant.Match(assistant.DefaultTable(), task), nil
		})
	}
	cfg := DefaultRuntimeConfig()
	cfg.ConfirmationDelay = time.Millisecond
	cfg.CelebrationDelay = time.Millisecond
	cfg.ExportDir = t.TempDir()
	return NewModel(Options{State: state, Responder: responder, Scheduler: engine, Config: cfg})
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return out, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func alt(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: true} }

func keyOf(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

// collect runs cmd and flattens batches, skipping spinner ticks.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch typed := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range typed {
			out = append(out, collect(c)...)
		}
		return out
	case spinner.TickMsg, nil:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

// settle feeds every message produced by cmd back into the model until no
// further commands remain.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		var next tea.Cmd
		m, next = step(t, m, msg)
		queue = append(queue, collect(next)...)
	}
	return m
}

func sendText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.composer.SetValue(text)
	m, cmd := step(t, m, keyOf(tea.KeyEnter))
	return settle(t, m, cmd)
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t, nil, nil)
	if m.CurrentView != ViewChat || m.Focus != FocusComposer {
		t.Fatalf("expected chat view with composer focus, got %q/%q", m.CurrentView, m.Focus)
	}
	if m.Keys.Quit != "ctrl+c" {
		t.Fatalf("expected quit key ctrl+c, got %q", m.Keys.Quit)
	}
	if !m.Settings.ReminderNotifications || !m.Settings.Animations || m.Settings.DesktopNotifications {
		t.Fatalf("unexpected default settings: %+v", m.Settings)
	}
	if !strings.Contains(m.View(), "What can I do for you?") {
		t.Fatal("expected home screen on an empty conversation")
	}
}

func TestSendThenReply(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.composer.SetValue("Search Gmail for invoices")
	m, cmd := step(t, m, keyOf(tea.KeyEnter))
	if !m.State.Processing || len(m.State.Messages) != 1 {
		t.Fatalf("expected one pending message, processing=%v messages=%d", m.State.Processing, len(m.State.Messages))
	}
	if m.composer.Value() != "" {
		t.Fatalf("expected composer reset, got %q", m.composer.Value())
	}

	// A second send while processing is rejected.
	m.composer.SetValue("again")
	m, _ = step(t, m, keyOf(tea.KeyEnter))
	if len(m.State.Messages) != 1 || !m.Status.IsError {
		t.Fatalf("expected rejected send, messages=%d status=%+v", len(m.State.Messages), m.Status)
	}

	var reply AssistantReplyMsg
	for _, msg := range collect(cmd) {
		if r, ok := msg.(AssistantReplyMsg); ok {
			reply = r
		}
	}
	m, cmd = step(t, m, reply)
	if m.State.Processing || len(m.State.Messages) != 2 {
		t.Fatalf("expected reply appended, processing=%v messages=%d", m.State.Processing, len(m.State.Messages))
	}
	if got := m.State.Messages[1].Content; got != assistant.Match(assistant.DefaultTable(), "Search Gmail") {
		t.Fatalf("unexpected reply %q", got)
	}
	if !m.Celebrating {
		t.Fatal("expected celebration after a successful reply")
	}
	if m.State.Tracker.Metrics().TasksCompleted != 1 {
		t.Fatalf("expected one completed task, got %+v", m.State.Tracker.Metrics())
	}
	m = settle(t, m, cmd)
	if m.Celebrating {
		t.Fatal("expected celebration to end")
	}
}

func TestEmptySendIsNoop(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.composer.SetValue("   ")
	m, cmd := step(t, m, keyOf(tea.KeyEnter))
	if cmd != nil || len(m.State.Messages) != 0 || m.State.Processing {
		t.Fatalf("expected noop, messages=%d processing=%v", len(m.State.Messages), m.State.Processing)
	}
}

func TestFailedReplyAppendsApology(t *testing.T) {
	m := newTestModel(t, assistant.ResponderFunc(func(context.Context, string) (string, error) {
		return "", errors.New("backend down")
	}), nil)
	m = sendText(t, m, "anything")
	if len(m.State.Messages) != 2 || m.State.Messages[1].Content != assistant.ApologyMessage {
		t.Fatalf("expected apology turn, got %+v", m.State.Messages)
	}
	if !m.Status.IsError || m.LastError == nil {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
	if m.State.Tracker.Metrics().TasksCompleted != 0 {
		t.Fatal("failed reply must not count as a completed task")
	}
	if m.Celebrating {
		t.Fatal("no celebration on failure")
	}
}

func TestBuilderSelectionComposesTask(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m, _ = step(t, m, keyOf(tea.KeyTab))
	if m.Focus != FocusBuilder {
		t.Fatalf("expected builder focus, got %q", m.Focus)
	}
	for _, k := range []tea.KeyMsg{keyOf(tea.KeySpace), runes("l"), runes("j"), keyOf(tea.KeySpace)} {
		m, _ = step(t, m, k)
	}
	if got := m.State.Builder.Build(); got != "Ask Gmail" {
		t.Fatalf("unexpected task %q", got)
	}
	m, _ = step(t, m, keyOf(tea.KeyEsc))
	if m.Focus != FocusComposer {
		t.Fatalf("expected composer focus after esc, got %q", m.Focus)
	}
	m = sendText(t, m, "inbox")
	if got := m.State.Messages[0].Content; got != "Ask Gmail: inbox" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestQuickActionSetsPlaceholder(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m, _ = step(t, m, keyOf(tea.KeyTab))
	m, _ = step(t, m, runes("1"))
	if m.QuickAction != model.QuickGuidance || m.Focus != FocusComposer {
		t.Fatalf("expected guidance quick action in composer, got %q/%q", m.QuickAction, m.Focus)
	}
	qa, _ := model.QuickActionByID(model.QuickGuidance)
	if m.composer.Placeholder != qa.Placeholder {
		t.Fatalf("unexpected placeholder %q", m.composer.Placeholder)
	}

	m, _ = step(t, m, keyOf(tea.KeyTab))
	m, _ = step(t, m, runes("4"))
	if m.CurrentView != ViewReminders {
		t.Fatalf("expected reminders view, got %q", m.CurrentView)
	}
}

func focusMessages(t *testing.T, m Model) Model {
	t.Helper()
	for m.Focus != FocusMessages {
		m, _ = step(t, m, keyOf(tea.KeyTab))
	}
	return m
}

func TestReminderConfirmationExpires(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = sendText(t, m, "Summarize Slack")
	m = focusMessages(t, m)
	reply := m.State.Messages[1]

	m, first := step(t, m, runes("2"))
	if m.State.Reminders.Len() != 1 || !m.State.Reminders.Confirmed(reply.ID) {
		t.Fatal("expected reminder with confirmation")
	}
	m, second := step(t, m, runes("1"))
	if m.State.Reminders.Len() != 2 {
		t.Fatalf("expected two reminders, got %d", m.State.Reminders.Len())
	}

	m = settle(t, m, first)
	if !m.State.Reminders.Confirmed(reply.ID) {
		t.Fatal("stale expiry must not clear a newer confirmation")
	}
	m = settle(t, m, second)
	if m.State.Reminders.Confirmed(reply.ID) {
		t.Fatal("expected confirmation cleared")
	}
}

func TestRemoveReminderCancelsScheduledEvent(t *testing.T) {
	engine := scheduler.NewEngine(4)
	m := newTestModel(t, nil, engine)
	m = sendText(t, m, "Research Drive")
	m = focusMessages(t, m)
	m, _ = step(t, m, runes("1"))
	if engine.Pending() != 1 {
		t.Fatalf("expected queued reminder, got %d", engine.Pending())
	}
	m, _ = step(t, m, runes("3"))
	if engine.Pending() != 1 {
		t.Fatal("follow-up reminders have no due time and are never queued")
	}

	m, _ = step(t, m, alt("r"))
	if m.CurrentView != ViewReminders {
		t.Fatalf("expected reminders view, got %q", m.CurrentView)
	}
	if c := m.reminderTable.Cursor(); c != 0 {
		t.Fatalf("expected cursor on first reminder, got %d", c)
	}
	m, _ = step(t, m, runes("d"))
	if m.State.Reminders.Len() != 1 || engine.Pending() != 0 {
		t.Fatalf("expected queued reminder removed, registry=%d pending=%d", m.State.Reminders.Len(), engine.Pending())
	}
}

func TestReminderDueMarksFired(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = sendText(t, m, "Explain Calendar")
	m = focusMessages(t, m)
	m, _ = step(t, m, runes("2"))
	rem := m.State.Reminders.Items()[0]

	m, _ = step(t, m, ReminderDueMsg{Event: scheduler.ReminderEvent{ID: "gone", MessageID: rem.MessageID, Label: "x", TriggerAt: time.Now()}})
	if len(m.firedReminders) != 0 {
		t.Fatal("unknown reminders must be ignored")
	}

	before := len(m.Notifications)
	m, _ = step(t, m, ReminderDueMsg{Event: scheduler.ReminderEvent{ID: rem.ID, MessageID: rem.MessageID, Label: rem.Label, TriggerAt: *rem.DueAt}})
	if !m.firedReminders[rem.ID] {
		t.Fatal("expected reminder marked fired")
	}
	if !strings.HasPrefix(m.Status.Text, "reminder: ") || len(m.Notifications) != before+1 {
		t.Fatalf("expected reminder notification, status=%+v", m.Status)
	}
}

func TestPaletteCommands(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m, _ = step(t, m, runes("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette open on empty composer")
	}
	m.commandInput.SetValue("link https://go.dev/doc")
	m, _ = step(t, m, keyOf(tea.KeyEnter))
	if m.Palette.Active || m.State.Staging.Len() != 1 {
		t.Fatalf("expected staged link, palette=%v staged=%d", m.Palette.Active, m.State.Staging.Len())
	}

	m = m.openPalette("show settings")
	m, _ = step(t, m, keyOf(tea.KeyEnter))
	if m.CurrentView != ViewSettings {
		t.Fatalf("expected settings view, got %q", m.CurrentView)
	}

	m = m.openPalette("bogus")
	m, _ = step(t, m, keyOf(tea.KeyEnter))
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}

	m = m.openPalette("remind 10m")
	m, _ = step(t, m, keyOf(tea.KeyEnter))
	if !m.Status.IsError || m.State.Reminders.Len() != 0 {
		t.Fatal("remind without a reply should fail")
	}
}

func TestPaletteRemindTargetsLatestReply(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = sendText(t, m, "Analyze Salesforce")
	m = m.openPalette("remind 45m")
	m, cmd := step(t, m, keyOf(tea.KeyEnter))
	if m.Status.IsError || cmd == nil {
		t.Fatalf("expected reminder set, status=%+v", m.Status)
	}
	rem := m.State.Reminders.Items()[0]
	if rem.MessageID != m.State.Messages[1].ID || rem.Label != "Remind me in 45m0s" {
		t.Fatalf("unexpected reminder %+v", rem)
	}
}

func TestExportWritesSnapshot(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = sendText(t, m, "Search Gmail")
	m, _ = step(t, m, keyOf(tea.KeyCtrlE))
	if m.Status.IsError {
		t.Fatalf("export failed: %s", m.Status.Text)
	}
	files, err := filepath.Glob(filepath.Join(m.cfg.ExportDir, "grace-export-*.json"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one export file, got %v (%v)", files, err)
	}
	doc, err := export.Read(files[0])
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(doc.Messages) != 2 || doc.Metrics.TasksCompleted != 1 {
		t.Fatalf("unexpected export: %d messages, metrics %+v", len(doc.Messages), doc.Metrics)
	}
}

func TestClearArchivesConversation(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = sendText(t, m, "Summarize Slack")
	m, _ = step(t, m, keyOf(tea.KeyCtrlL))
	if len(m.State.Messages) != 0 {
		t.Fatalf("expected empty conversation, got %d", len(m.State.Messages))
	}
	m, _ = step(t, m, alt("h"))
	if len(m.history) != 1 || len(m.history[0].Messages) != 2 {
		t.Fatalf("unexpected history %+v", m.history)
	}
	if !strings.Contains(m.View(), "history: 1 conversation(s)") {
		t.Fatal("expected history panel")
	}
	m, _ = step(t, m, runes("D"))
	if len(m.history) != 0 {
		t.Fatal("expected history cleared")
	}
}

func TestHomeArchivesNonEmptyConversation(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = sendText(t, m, "Ask Drive")
	m = m.openPalette("home")
	m, _ = step(t, m, keyOf(tea.KeyEnter))
	if len(m.State.Messages) != 0 {
		t.Fatal("expected home to clear the conversation")
	}
	history, err := m.State.History(context.Background())
	if err != nil || len(history) != 1 {
		t.Fatalf("expected archived conversation, got %d (%v)", len(history), err)
	}
}

func TestSettingsToggle(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m, _ = step(t, m, alt("s"))
	for i := 0; i < 3; i++ {
		m, _ = step(t, m, runes("j"))
	}
	m, _ = step(t, m, keyOf(tea.KeySpace))
	if m.Settings.Animations {
		t.Fatal("expected animations disabled")
	}
	m, _ = step(t, m, keyOf(tea.KeyEsc))
	m = sendText(t, m, "Ask Slack")
	if m.Celebrating {
		t.Fatal("celebration must respect the animations setting")
	}
}

func TestCloseAndReopenPanel(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m, _ = step(t, m, keyOf(tea.KeyCtrlW))
	if !m.Closed || !strings.Contains(m.View(), "[o] open") {
		t.Fatal("expected launcher view")
	}
	m, _ = step(t, m, runes("o"))
	if m.Closed {
		t.Fatal("expected panel reopened")
	}
}

func TestLinkInputStagesLink(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m, _ = step(t, m, keyOf(tea.KeyCtrlK))
	if !m.LinkMode {
		t.Fatal("expected link mode")
	}
	m.linkInput.SetValue("https://example.com/report")
	m, _ = step(t, m, keyOf(tea.KeyEnter))
	if m.LinkMode || m.State.Staging.Len() != 1 {
		t.Fatalf("expected staged link, mode=%v staged=%d", m.LinkMode, m.State.Staging.Len())
	}
	m = sendText(t, m, "Summarize this")
	if len(m.State.Messages[0].Attachments) != 1 {
		t.Fatal("expected attachment moved onto the sent message")
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m, _ = step(t, m, SwitchViewMsg{View: ViewAchievements})
	if m.CurrentView != ViewAchievements {
		t.Fatalf("expected achievements view, got %q", m.CurrentView)
	}
	m, _ = step(t, m, SwitchViewMsg{View: View("Unknown")})
	if m.CurrentView != ViewAchievements {
		t.Fatalf("expected view unchanged for unknown view, got %q", m.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m, _ = step(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if !strings.Contains(m.View(), "status: ready") {
		t.Fatal("expected status line in view")
	}

	m, _ = step(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || m.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", m.LastError)
	}
	if !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}

	m, _ = step(t, m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", m.Status)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m, cmd := step(t, m, keyOf(tea.KeyCtrlC))
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
	if m.View() != "" {
		t.Fatal("expected empty view while quitting")
	}
}
