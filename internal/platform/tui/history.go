package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/space-colonies/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the slot sidebar
	sidebarWidth       = 22  // Width of the slot sidebar
	maxRuns            = 100 // Max prestige runs to load
)

// HistorySource provides save slots and their prestige runs.
type HistorySource interface {
	ListSaves() ([]storage.SaveInfo, error)
	PrestigeHistory(slot string, limit int) ([]storage.PrestigeRun, error)
}

// HistoryKeyMap defines the key bindings for the history board.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextSlot key.Binding
	PrevSlot key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextSlot, k.PrevSlot, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.NextSlot, k.PrevSlot, k.Quit}}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextSlot: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next slot"),
		),
		PrevSlot: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev slot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel browses the prestige runs of every save slot.
type HistoryModel struct {
	source      HistorySource
	slots       []storage.SaveInfo
	slotCursor  int
	runs        []storage.PrestigeRun
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	err         error
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a history board, starting at the given slot if present.
func NewHistoryModel(source HistorySource, startSlot string, width, height int) HistoryModel {
	m := HistoryModel{
		source:      source,
		keys:        DefaultHistoryKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()

	m.slots, m.err = source.ListSaves()
	for i, s := range m.slots {
		if s.Slot == startSlot {
			m.slotCursor = i
		}
	}
	if len(m.slots) > 0 {
		m.loadRuns()
	}
	return m
}

// createTable creates a new table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Gained", Width: 8},
		{Title: "Total", Width: 8},
		{Title: "Lifetime", Width: 10},
		{Title: "Date", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the prestige runs of the selected slot.
func (m *HistoryModel) loadRuns() {
	runs, err := m.source.PrestigeHistory(m.slots[m.slotCursor].Slot, maxRuns)
	m.err = err
	if err != nil {
		runs = nil
	}
	m.runs = runs
	m.updateTableRows()
}

// updateTableRows updates the table with current runs, newest first.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", len(m.runs)-i),
			fmt.Sprintf("+%d", r.Gained),
			fmt.Sprintf("%d", r.Points),
			formatAmount(r.LifetimeEarned),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history board.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextSlot):
			if len(m.slots) > 0 {
				m.slotCursor = (m.slotCursor + 1) % len(m.slots)
				m.loadRuns()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevSlot):
			if len(m.slots) > 0 {
				m.slotCursor = (m.slotCursor + len(m.slots) - 1) % len(m.slots)
				m.loadRuns()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history board.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "PRESTIGE HISTORY"
	if len(m.slots) > 0 {
		s := m.slots[m.slotCursor]
		title = fmt.Sprintf("PRESTIGE HISTORY - %s (%s)", s.Slot, s.Catalog)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	content := panelStyle.Render(m.renderTableContent())
	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content))
	} else {
		b.WriteString(content)
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("Error: %v\n", m.err))
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar renders the slot list.
func (m HistoryModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Slots\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, s := range m.slots {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.slotCursor {
			cursor = "> "
			style = selectedStyle
		}
		name := s.Slot
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sb.WriteString(style.Render(cursor + name))
		sb.WriteString("\n")
	}

	return panelStyle.Width(sidebarWidth).Render(sb.String())
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No prestige resets yet.\nGrow the colony and press P to reset!")
	}
	return m.table.View()
}

// RunHistory runs the history board.
func RunHistory(source HistorySource, startSlot string, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(source, startSlot, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
