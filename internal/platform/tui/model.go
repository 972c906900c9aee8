package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/space-colonies/internal/economy"
	"github.com/vovakirdan/space-colonies/internal/offline"
	"github.com/vovakirdan/space-colonies/internal/session"
)

// Tab is one page of the colony screen.
type Tab int

const (
	TabUpgrades Tab = iota
	TabResearch
	TabPrestige
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabUpgrades:
		return "Upgrades"
	case TabResearch:
		return "Research"
	case TabPrestige:
		return "Prestige"
	}
	return "?"
}

// startMsg asks the update loop to start the session.
type startMsg struct{}

// Model is the Bubble Tea model for one colony session.
// The session is only touched from Update, never from commands.
type Model struct {
	sess *session.Session
	keys KeyMap
	help help.Model

	tab    Tab
	cursor int
	mode   economy.BuyMode

	status          string
	welcome         string
	confirmPrestige bool

	width    int
	height   int
	quitting bool
}

// NewModel creates a model around an initialized session.
func NewModel(sess *session.Session) Model {
	return Model{
		sess: sess,
		keys: DefaultKeyMap(),
		help: help.New(),
		mode: economy.BuyOne,
	}
}

// Init starts the session from the update loop.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg, tea.FocusMsg:
		return m.resume()

	case tea.BlurMsg:
		if m.sess.State() == session.Running {
			if err := m.sess.Pause(); err != nil {
				m.status = fmt.Sprintf("Save failed: %v", err)
			}
		}
		return m, nil

	case TickMsg:
		next, ok := m.sess.HandleTick(msg.Gen)
		if !ok {
			return m, nil
		}
		return m, tickCmd(next)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// resume (re)starts the tick chain and reports offline earnings.
func (m Model) resume() (tea.Model, tea.Cmd) {
	if m.sess.State() == session.Running {
		return m, nil
	}
	tick, res, err := m.sess.Start()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if !res.Skipped && res.Total() > 0 {
		m.welcome = welcomeText(res)
	}
	return m, tickCmd(tick)
}

func welcomeText(res offline.Result) string {
	text := fmt.Sprintf("Welcome back! Away %s, colony produced %s at %.0f%% efficiency.",
		offline.FormatDuration(res.Elapsed), formatAmount(res.Total()), res.Efficiency*100)
	if res.WasCapped {
		text += fmt.Sprintf(" (capped at %s)", offline.FormatDuration(res.EffectiveSeconds))
	}
	return text
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)
	if action != ActionPrestige {
		m.confirmPrestige = false
	}
	if action != ActionNone {
		m.welcome = ""
	}

	eng := m.sess.Engine()
	switch action {
	case ActionQuit:
		m.quitting = true
		//nolint:errcheck // Logged by the session; nothing left to show
		m.sess.Close()
		return m, tea.Quit

	case ActionClick:
		eng.Click(eng.ClickResource())

	case ActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case ActionDown:
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}

	case ActionNextTab:
		m.tab = (m.tab + 1) % tabCount
		m.cursor = 0

	case ActionPrevTab:
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.cursor = 0

	case ActionMode:
		m.mode = m.mode.Next()

	case ActionBuy:
		m.buySelected()

	case ActionPrestige:
		m.prestige()

	case ActionSave:
		if err := m.sess.Sync(); err != nil {
			m.status = fmt.Sprintf("Save failed: %v", err)
		} else {
			m.status = "Saved."
		}

	case ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// rows returns the upgrades listed on the current upgrade tab.
func (m Model) rows() []economy.Upgrade {
	research := m.tab == TabResearch
	var out []economy.Upgrade
	for _, u := range m.sess.Engine().Upgrades() {
		if u.Research == research {
			out = append(out, u)
		}
	}
	return out
}

func (m Model) rowCount() int {
	if m.tab == TabPrestige {
		return len(m.sess.Engine().PrestigeUpgrades())
	}
	return len(m.rows())
}

func (m *Model) buySelected() {
	eng := m.sess.Engine()

	if m.tab == TabPrestige {
		list := eng.PrestigeUpgrades()
		if m.cursor >= len(list) {
			return
		}
		p := list[m.cursor]
		if eng.BuyPrestigeUpgrade(p.ID) {
			m.status = fmt.Sprintf("%s upgraded to level %d.", p.Name, p.Level+1)
		} else {
			m.status = fmt.Sprintf("Cannot buy %s.", p.Name)
		}
		return
	}

	list := m.rows()
	if m.cursor >= len(list) {
		return
	}
	u := list[m.cursor]
	switch n := eng.BuyUpgradeMode(u.ID, m.mode); {
	case n == 1:
		m.status = fmt.Sprintf("Bought %s.", u.Name)
	case n > 1:
		m.status = fmt.Sprintf("Bought %d x %s.", n, u.Name)
	case !u.Available:
		m.status = fmt.Sprintf("%s is not available yet.", u.Name)
	case u.Maxed:
		m.status = fmt.Sprintf("%s is maxed.", u.Name)
	default:
		m.status = fmt.Sprintf("Not enough %s.", u.CostResource)
	}
}

// prestige asks for confirmation on the first press and resets on the second.
func (m *Model) prestige() {
	info := m.sess.Engine().PrestigeInfo()
	if !m.confirmPrestige {
		if !info.CanReset {
			m.status = "Not enough lifetime production for a prestige reset yet."
			return
		}
		m.confirmPrestige = true
		m.status = fmt.Sprintf("Reset the colony for %d prestige points? Press P again to confirm.",
			info.Pending-info.Points)
		return
	}

	m.confirmPrestige = false
	res, err := m.sess.Prestige()
	switch {
	case err != nil:
		m.status = fmt.Sprintf("Prestige saved with errors: %v", err)
	case res.OK:
		m.status = fmt.Sprintf("Colony reset. +%d points (total %d).", res.Gained, res.Points)
		m.cursor = 0
	default:
		m.status = "Prestige no longer available."
	}
}

// Run starts the Bubble Tea program for an initialized session and performs
// the final sync when it exits.
func Run(sess *session.Session, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	}, opts...)

	p := tea.NewProgram(NewModel(sess), opts...)
	_, err := p.Run()

	if closeErr := sess.Close(); err == nil {
		err = closeErr
	}
	return err
}
