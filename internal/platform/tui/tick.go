// Package tui provides the Bubble Tea host for a colony session.
// It handles the terminal UI loop, key bindings and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/space-colonies/internal/session"
)

// TickMsg is sent to trigger one session step. Gen ties it to the tick
// chain that scheduled it.
type TickMsg struct {
	Gen uint64
}

// tickCmd schedules the next tick of a chain.
func tickCmd(t session.Tick) tea.Cmd {
	return tea.Tick(t.Interval, func(_ time.Time) tea.Msg {
		return TickMsg{Gen: t.Gen}
	})
}
