package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a player intent derived from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionClick
	ActionUp
	ActionDown
	ActionBuy
	ActionMode
	ActionNextTab
	ActionPrevTab
	ActionPrestige
	ActionSave
	ActionHelp
	ActionQuit
)

// KeyMap defines the key bindings of the colony screen.
type KeyMap struct {
	Click    key.Binding
	Up       key.Binding
	Down     key.Binding
	Buy      key.Binding
	Mode     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Prestige key.Binding
	Save     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.Buy, k.Mode, k.NextTab, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Click, k.Up, k.Down, k.Buy},
		{k.Mode, k.NextTab, k.PrevTab},
		{k.Prestige, k.Save, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Click: key.NewBinding(
			key.WithKeys(" ", "c"),
			key.WithHelp("space/c", "gather"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "move down"),
		),
		Buy: key.NewBinding(
			key.WithKeys("enter", "b"),
			key.WithHelp("enter/b", "buy"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "buy x1/x10/max"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Prestige: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "prestige reset"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "save & quit"),
		),
	}
}

// Action translates a key message to an action.
func (k KeyMap) Action(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, k.Quit):
		return ActionQuit
	case key.Matches(msg, k.Click):
		return ActionClick
	case key.Matches(msg, k.Up):
		return ActionUp
	case key.Matches(msg, k.Down):
		return ActionDown
	case key.Matches(msg, k.Buy):
		return ActionBuy
	case key.Matches(msg, k.Mode):
		return ActionMode
	case key.Matches(msg, k.NextTab):
		return ActionNextTab
	case key.Matches(msg, k.PrevTab):
		return ActionPrevTab
	case key.Matches(msg, k.Prestige):
		return ActionPrestige
	case key.Matches(msg, k.Save):
		return ActionSave
	case key.Matches(msg, k.Help):
		return ActionHelp
	}
	return ActionNone
}
