package views

import (
	"fmt"
	"strings"
)

type AttachmentData struct {
	ID   string
	Icon string
	Name string
	Size string
}

type ReminderOptionData struct {
	Key   string
	Icon  string
	Label string
}

type MessageData struct {
	ID          string
	FromUser    bool
	Body        string
	Time        string
	Attachments []AttachmentData
	Confirmed   bool
	Selected    bool
	Options     []ReminderOptionData
}

type ItemData struct {
	Icon     string
	Label    string
	Selected bool
	Cursor   bool
}

type CategoryData struct {
	Title  string
	Items  []ItemData
	Active bool
}

type MetricsData struct {
	TasksCompleted  int
	TimesSaved      int
	EfficiencyScore int
	Streak          int
}

type QuickActionData struct {
	Key         string
	Title       string
	Description string
}

type HomeData struct {
	Categories   []CategoryData
	BuilderOpen  bool
	Preview      string
	Metrics      MetricsData
	QuickActions []QuickActionData
}

type ChatPanelData struct {
	Home          *HomeData
	Transcript    string
	Processing    bool
	SpinnerView   string
	Celebrating   bool
	Staged        []AttachmentData
	ComposerView  string
	LinkInputView string
	Focus         string
}

type HistoryPanelData struct {
	ListView string
	Count    int
}

type AchievementData struct {
	Icon         string
	Title        string
	Description  string
	Progress     int
	MaxProgress  int
	Unlocked     bool
	UnlockedAt   string
	ProgressView string
}

type AchievementsPanelData struct {
	Items    []AchievementData
	Unlocked int
}

type RemindersPanelData struct {
	TableView string
	Count     int
}

type SettingData struct {
	Label  string
	On     bool
	Cursor bool
}

type SettingsPanelData struct {
	Items []SettingData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

type AboutPanelData struct {
	Version string
}

func RenderMessage(data MessageData) string {
	var b strings.Builder
	cursor := " "
	if data.Selected {
		cursor = selectedStyle.Render(">")
	}
	if data.FromUser {
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, userStyle.Render("You"), mutedStyle.Render(data.Time)))
	} else {
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, botStyle.Render("GRaCe"), mutedStyle.Render(data.Time)))
	}
	b.WriteString(data.Body + "\n")
	for _, att := range data.Attachments {
		b.WriteString(renderAttachment(att) + "\n")
	}
	if data.Confirmed {
		b.WriteString(successStyle.Render("  ✓ Reminder set!") + "\n")
	}
	if data.Selected && len(data.Options) > 0 {
		b.WriteString(mutedStyle.Render("  remind me:") + "\n")
		for _, opt := range data.Options {
			b.WriteString(fmt.Sprintf("    [%s] %s %s\n", opt.Key, opt.Icon, opt.Label))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAttachment(att AttachmentData) string {
	if att.Size != "" {
		return fmt.Sprintf("  %s %s (%s)", att.Icon, att.Name, att.Size)
	}
	return fmt.Sprintf("  %s %s", att.Icon, att.Name)
}

func RenderChatPanel(data ChatPanelData) string {
	var b strings.Builder
	if data.Home != nil {
		b.WriteString(renderHome(*data.Home))
	} else {
		b.WriteString(data.Transcript)
	}
	b.WriteString("\n")
	if data.Processing {
		b.WriteString(fmt.Sprintf("%s GRaCe is working on it...\n", data.SpinnerView))
	}
	if data.Celebrating {
		b.WriteString(successStyle.Render("🎉 Task completed!") + "\n")
	}
	if len(data.Staged) > 0 {
		b.WriteString("attachments:\n")
		for _, att := range data.Staged {
			b.WriteString(fmt.Sprintf("%s  [%s]\n", renderAttachment(att), att.ID))
		}
	}
	if data.LinkInputView != "" {
		b.WriteString(data.LinkInputView + "\n")
	}
	b.WriteString(data.ComposerView)
	if data.Focus != "" {
		b.WriteString("\n" + mutedStyle.Render("focus: "+data.Focus))
	}
	return strings.TrimSpace(b.String())
}

func renderHome(data HomeData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Hi, I'm GRaCe. What can I do for you?") + "\n\n")
	m := data.Metrics
	b.WriteString(fmt.Sprintf("tasks %d | saved %dm | efficiency %d%% | streak %dd\n\n",
		m.TasksCompleted, m.TimesSaved, m.EfficiencyScore, m.Streak))

	if data.BuilderOpen {
		for _, cat := range data.Categories {
			title := cat.Title
			if cat.Active {
				title = selectedStyle.Render(title)
			}
			b.WriteString(title + "\n ")
			for _, item := range cat.Items {
				label := fmt.Sprintf("%s %s", item.Icon, item.Label)
				switch {
				case item.Cursor:
					label = selectedStyle.Render("[" + label + "]")
				case item.Selected:
					label = successStyle.Render("(" + label + ")")
				}
				b.WriteString(" " + label)
			}
			b.WriteString("\n")
		}
		if data.Preview != "" {
			b.WriteString(fmt.Sprintf("\ntask: %s\n", data.Preview))
		}
	} else {
		b.WriteString(mutedStyle.Render("press tab to build a task") + "\n")
	}

	if len(data.QuickActions) > 0 {
		b.WriteString("\nquick actions:\n")
		for _, qa := range data.QuickActions {
			b.WriteString(fmt.Sprintf("  [%s] %s: %s\n", qa.Key, qa.Title, qa.Description))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderHistoryPanel(data HistoryPanelData) string {
	if data.Count == 0 {
		return "history:\n(no archived conversations)"
	}
	return fmt.Sprintf("history: %d conversation(s)\nactions: [j/k]move [D]clear all [esc]back\n%s", data.Count, data.ListView)
}

func RenderAchievementsPanel(data AchievementsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("achievements: %d/%d unlocked\n", data.Unlocked, len(data.Items)))
	for _, a := range data.Items {
		mark := mutedStyle.Render("locked")
		if a.Unlocked {
			mark = successStyle.Render("unlocked " + a.UnlockedAt)
		}
		b.WriteString(fmt.Sprintf("\n%s %s  %s\n", a.Icon, a.Title, mark))
		b.WriteString(mutedStyle.Render(a.Description) + "\n")
		b.WriteString(fmt.Sprintf("%s %d/%d\n", a.ProgressView, a.Progress, a.MaxProgress))
	}
	return strings.TrimSpace(b.String())
}

func RenderRemindersPanel(data RemindersPanelData) string {
	if data.Count == 0 {
		return "reminders:\n(no active reminders)"
	}
	return fmt.Sprintf("reminders: %d active\nactions: [j/k]move [d]delete [esc]back\n%s", data.Count, data.TableView)
}

func RenderSettingsPanel(data SettingsPanelData) string {
	var b strings.Builder
	b.WriteString("settings:\nactions: [j/k]move [space]toggle [esc]back\n")
	for _, s := range data.Items {
		cursor := " "
		if s.Cursor {
			cursor = ">"
		}
		state := "off"
		if s.On {
			state = "on"
		}
		b.WriteString(fmt.Sprintf("%s [%s] %s\n", cursor, state, s.Label))
	}
	return strings.TrimSpace(b.String())
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nview: %s\n%s\n\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderAboutPanel(data AboutPanelData) string {
	return RenderMarkdown(fmt.Sprintf(`# GRaCe %s

A task assistant panel. Build a request from the **I want to / Use my / Make a**
pickers or type freely, attach files and links, and set reminders on replies.

Replies are simulated locally; nothing leaves this machine.`, data.Version))
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", inputView)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
