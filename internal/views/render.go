package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	PanelWidth         = 64
	ExpandedPanelWidth = 110
)

type AppData struct {
	Title        string
	Badges       []string
	Body         string
	Side         string
	StatusLine   string
	StatusError  bool
	Notification string
	Footer       string
	Expanded     bool
	Compact      bool
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	compactStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 0)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	botStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
)

func RenderApp(data AppData) string {
	width := PanelWidth
	if data.Expanded {
		width = ExpandedPanelWidth
	}
	style := panelStyle
	if data.Compact {
		style = compactStyle
	}

	header := headerStyle.Render(data.Title)
	for _, b := range data.Badges {
		header += " " + badgeStyle.Render(b)
	}

	var row string
	if data.Expanded && data.Side != "" {
		left := style.Width(width * 2 / 3).Render(data.Body)
		right := style.Width(width - width*2/3 - 4).Render(data.Side)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	} else {
		body := data.Body
		if data.Side != "" {
			body += "\n\n" + data.Side
		}
		row = style.Width(width).Render(body)
	}

	lines := []string{header, row}
	if data.StatusLine != "" {
		if data.StatusError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Notification != "" && !data.Compact {
		lines = append(lines, data.Notification)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

type LauncherData struct {
	Unlocked  int
	Reminders int
}

// RenderLauncher is the single line shown while the panel is closed.
func RenderLauncher(data LauncherData) string {
	line := headerStyle.Render("GRaCe") + " " + mutedStyle.Render("[o] open  [q] quit")
	if data.Unlocked > 0 {
		line += " " + badgeStyle.Render(pluralize(data.Unlocked, "achievement"))
	}
	if data.Reminders > 0 {
		line += " " + badgeStyle.Render(pluralize(data.Reminders, "reminder"))
	}
	return line
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
