package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyMapActions(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want Action
	}{
		{"space gathers", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, ActionClick},
		{"c gathers", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}}, ActionClick},
		{"enter buys", tea.KeyMsg{Type: tea.KeyEnter}, ActionBuy},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, ActionUp},
		{"j moves down", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, ActionDown},
		{"m cycles mode", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}, ActionMode},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, ActionNextTab},
		{"shift+tab", tea.KeyMsg{Type: tea.KeyShiftTab}, ActionPrevTab},
		{"capital P prestiges", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'P'}}, ActionPrestige},
		{"lower p does nothing", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}, ActionNone},
		{"ctrl+s saves", tea.KeyMsg{Type: tea.KeyCtrlS}, ActionSave},
		{"q quits", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, ActionQuit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, ActionQuit},
		{"unbound", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := km.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %d, want %d", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestHelpCoversBindings(t *testing.T) {
	km := DefaultKeyMap()
	total := 0
	for _, col := range km.FullHelp() {
		total += len(col)
	}
	if total != 11 {
		t.Errorf("FullHelp() lists %d bindings, want 11", total)
	}
}
