package update

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grace/internal/commands"
	"github.com/sandeepkv93/grace/internal/model"
)

func (m Model) openPalette(prefill string) Model {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.composer.Blur()
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.commandInput.Focus()
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	if m.CurrentView == ViewChat && m.Focus == FocusComposer {
		m.composer.Focus()
	}
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	// statusResult reports the outcome of a handler that already set m.Status.
	statusResult := func() (commands.Result, error) {
		if m.Status.IsError {
			return commands.Result{}, errors.New(m.Status.Text)
		}
		return commands.Result{Message: m.Status.Text}, nil
	}
	res, err := commands.Execute(cmd, commands.Handlers{
		Clear: func() (commands.Result, error) {
			m, follow = m.clearConversation()
			return statusResult()
		},
		Export: func(a commands.ExportArgs) (commands.Result, error) {
			dir := a.Dir
			if dir == "" {
				dir = m.cfg.ExportDir
			}
			path, err := m.writeExport(dir)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported to %s", path)}, nil
		},
		Remind: func(a commands.RemindArgs) (commands.Result, error) {
			target := a.MessageID
			if target == "" {
				last, ok := m.State.LastAssistantMessage()
				if !ok {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no reply to attach a reminder to"}
				}
				target = last.ID
			}
			m, follow = m.addReminder(target, model.CustomReminderOption(a.After))
			return statusResult()
		},
		Attach: func(a commands.AttachArgs) (commands.Result, error) {
			info, err := os.Stat(a.Path)
			if err != nil {
				return commands.Result{}, fmt.Errorf("attach %s: %w", a.Path, err)
			}
			if info.IsDir() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("%s is a directory", a.Path)}
			}
			att, err := m.State.Staging.AddFile(filepath.Base(a.Path), info.Size())
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("attached %s (%s)", att.Name, model.FormatSize(att.Size))}, nil
		},
		Link: func(a commands.LinkArgs) (commands.Result, error) {
			att, err := m.State.Staging.AddLink(a.URL)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("link attached: %s", att.Name)}, nil
		},
		Detach: func(a commands.DetachArgs) (commands.Result, error) {
			if !m.State.Staging.Remove(a.ID) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no staged attachment %s", a.ID)}
			}
			return commands.Result{Message: fmt.Sprintf("removed attachment %s", a.ID)}, nil
		},
		History: func(a commands.HistoryArgs) (commands.Result, error) {
			if a.Clear {
				if err := m.State.ClearHistory(m.ctx); err != nil {
					return commands.Result{}, err
				}
				m.history = nil
				return commands.Result{Message: "chat history cleared"}, nil
			}
			m = m.switchView(ViewHistory)
			return commands.Result{Message: fmt.Sprintf("%d archived conversation(s)", len(m.history))}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			m = m.switchView(View(a.View))
			return commands.Result{Message: fmt.Sprintf("showing %s", a.View)}, nil
		},
		Quick: func(a commands.QuickArgs) (commands.Result, error) {
			m = m.switchView(ViewChat)
			m = m.applyQuickAction(a.Action)
			return statusResult()
		},
		Home: func() (commands.Result, error) {
			m, follow = m.goHome()
			return statusResult()
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command failed", err.Error(), "error")
		return m, follow
	}
	m.Status = StatusBar{Text: res.Message}
	m.notify("Command", res.Message, "info")
	return m, follow
}
