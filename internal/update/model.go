package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"

	"github.com/sandeepkv93/grace/internal/assistant"
	"github.com/sandeepkv93/grace/internal/scheduler"
	"github.com/sandeepkv93/grace/internal/session"
)

type View string

const (
	ViewChat         View = "chat"
	ViewHistory      View = "history"
	ViewAchievements View = "achievements"
	ViewReminders    View = "reminders"
	ViewSettings     View = "settings"
	ViewHelp         View = "help"
	ViewAbout        View = "about"
)

// Focus is the chat-view region that receives keys.
type Focus string

const (
	FocusComposer Focus = "composer"
	FocusBuilder  Focus = "builder"
	FocusMessages Focus = "messages"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	NextFocus string
	Clear     string
	Export    string
	Link      string
	Close     string
	Open      string
	Expand    string
	Back      string
	Help      string
	Quit      string
}

type Settings struct {
	ReminderNotifications    bool
	AchievementNotifications bool
	DesktopNotifications     bool
	Animations               bool
	Compact                  bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type builderCursor struct {
	Category int
	Item     int
}

type Model struct {
	CurrentView   View
	Focus         Focus
	State         *session.State
	Scheduler     *scheduler.Engine
	Settings      Settings
	Expanded      bool
	Closed        bool
	Palette       CommandPaletteState
	LinkMode      bool
	Celebrating   bool
	QuickAction   string
	Status        StatusBar
	Notifications []Notification
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	builder        builderCursor
	builderOpen    bool
	messageCursor  int
	settingsCursor int
	celebrationSeq int
	confirmSeq     map[string]int
	firedReminders map[string]bool
	history        []session.Conversation
	markdown       map[string]string
	width          int
	height         int

	ctx       context.Context
	responder assistant.Responder
	notifier  DesktopNotifier
	log       *zap.Logger
	cfg       RuntimeConfig

	// Bubble components used for rich TUI controls
	composer      textarea.Model
	commandInput  textinput.Model
	linkInput     textinput.Model
	transcript    viewport.Model
	busySpinner   spinner.Model
	progressBar   progress.Model
	historyList   list.Model
	reminderTable table.Model
	helpModel     help.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// AssistantReplyMsg resolves the pending request.
type AssistantReplyMsg struct {
	Reply string
	Err   error
}

type ReminderConfirmExpiredMsg struct {
	MessageID string
	Seq       int
}

type CelebrationDoneMsg struct {
	Seq int
}

type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

type Options struct {
	Context   context.Context
	State     *session.State
	Responder assistant.Responder
	Scheduler *scheduler.Engine
	Notifier  DesktopNotifier
	Logger    *zap.Logger
	Config    RuntimeConfig
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	m := Model{
		CurrentView: ViewChat,
		Focus:       FocusComposer,
		State:       opts.State,
		Scheduler:   opts.Scheduler,
		Settings: Settings{
			ReminderNotifications:    cfg.ReminderNotifications,
			AchievementNotifications: cfg.AchievementNotifications,
			DesktopNotifications:     cfg.DesktopNotifications,
			Animations:               cfg.Animations,
			Compact:                  cfg.Compact,
		},
		Expanded: cfg.Expanded,
		Keys: GlobalKeyMap{
			NextFocus: "tab",
			Clear:     "ctrl+l",
			Export:    "ctrl+e",
			Link:      "ctrl+k",
			Close:     "ctrl+w",
			Open:      "o",
			Expand:    "ctrl+x",
			Back:      "esc",
			Help:      "?",
			Quit:      "ctrl+c",
		},
		builderOpen:    true,
		confirmSeq:     make(map[string]int),
		firedReminders: make(map[string]bool),
		markdown:       make(map[string]string),
		ctx:            opts.Context,
		responder:      opts.Responder,
		notifier:       opts.Notifier,
		log:            opts.Logger,
		cfg:            cfg,
	}
	if m.State == nil {
		m.State = session.New(session.Options{})
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.responder == nil {
		m.responder = assistant.NewMockResponder(cfg.ResponseDelay)
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}
