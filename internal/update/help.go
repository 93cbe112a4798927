package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/grace/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	global := toBindings(m.globalBindings())
	chat := toBindings(m.chatBindings())
	var plain []string
	for _, kb := range m.chatBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	h := m.helpModel
	h.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: h.View(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global, chat},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Clear, Action: "clear and archive chat"},
		{Key: m.Keys.Export, Action: "export state to JSON"},
		{Key: m.Keys.Link, Action: "attach a link"},
		{Key: m.Keys.Expand, Action: "toggle expanded panel"},
		{Key: m.Keys.Close, Action: "close panel"},
		{Key: "alt+h", Action: "chat history"},
		{Key: "alt+a", Action: "achievements"},
		{Key: "alt+r", Action: "reminders"},
		{Key: "alt+s", Action: "settings"},
		{Key: "alt+i", Action: "about"},
		{Key: m.Keys.Back, Action: "back to chat"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) chatBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "enter", Action: "send message"},
		{Key: "alt+enter", Action: "new line"},
		{Key: "/", Action: "command palette (empty composer)"},
		{Key: m.Keys.NextFocus, Action: "cycle composer / builder / replies"},
		{Key: "h/l j/k", Action: "builder: move cursor"},
		{Key: "space", Action: "builder: toggle item"},
		{Key: "x", Action: "builder: clear category"},
		{Key: "1-4", Action: "builder: quick action | replies: reminder option"},
		{Key: "5", Action: "replies: custom reminder"},
	}
}

func toBindings(in []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(in))
	for _, kb := range in {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
