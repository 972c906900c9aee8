package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/space-colonies/internal/economy"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	affordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	rateStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	prestigeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	welcomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// suffixes for thousands groups starting at 1e3.
var suffixes = []string{"K", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "Oc", "No"}

// formatAmount renders a resource amount compactly: 12.5, 1.50K, 3.20M, 1.00e+36.
func formatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "--"
	}
	if v < 1000 {
		return strconv.FormatFloat(math.Floor(v*10)/10, 'f', -1, 64)
	}
	group := int(math.Floor(math.Log10(v) / 3))
	scaled := v / math.Pow(1000, float64(group))
	// Log10 lands just below exact powers of ten, and %.2f rounds 999.996 up.
	if scaled >= 999.995 {
		group++
		scaled /= 1000
	}
	if group > len(suffixes) {
		return fmt.Sprintf("%.2e", v)
	}
	return fmt.Sprintf("%.2f%s", scaled, suffixes[group-1])
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	eng := m.sess.Engine()
	if eng == nil {
		return "Loading colony..."
	}

	var b strings.Builder

	title := eng.Catalog().Title
	if title == "" {
		title = eng.Catalog().Name
	}
	b.WriteString(titleStyle.Render(strings.ToUpper(title)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  slot %s", m.sess.Slot())))
	b.WriteString("\n")

	if m.welcome != "" {
		b.WriteString(welcomeStyle.Render(m.welcome))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	left := panelStyle.Render(m.renderResources(eng))
	right := panelStyle.Render(m.renderList(eng))
	if m.width > 0 && lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		b.WriteString(left)
		b.WriteString("\n")
		b.WriteString(right)
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderResources renders unlocked resources and the prestige summary.
func (m Model) renderResources(eng *economy.Engine) string {
	var b strings.Builder
	b.WriteString("Resources\n")

	for _, r := range eng.Resources() {
		if !r.Unlocked {
			continue
		}
		name := r.Name
		if r.Icon != "" {
			name = r.Icon + " " + name
		}
		fmt.Fprintf(&b, "%-16s %10s", name, formatAmount(r.Amount))
		if rps := r.RPS * eng.PrestigeMultiplier(); rps > 0 {
			b.WriteString(rateStyle.Render(fmt.Sprintf("  +%s/s", formatAmount(rps))))
		}
		b.WriteString("\n")
	}

	info := eng.PrestigeInfo()
	b.WriteString("\n")
	b.WriteString(prestigeStyle.Render(fmt.Sprintf("Prestige x%.2f", info.Multiplier)))
	fmt.Fprintf(&b, "\npoints %d (%d free)", info.Points, info.Available)
	if info.CanReset {
		b.WriteString(affordStyle.Render(fmt.Sprintf("\nreset now: +%d", info.Pending-info.Points)))
	}
	fmt.Fprintf(&b, "\nclicks %d  resets %d", eng.TotalClicks(), info.Count)
	return b.String()
}

// renderList renders the tab bar and the rows of the active tab.
func (m Model) renderList(eng *economy.Engine) string {
	var b strings.Builder

	tabs := make([]string, 0, tabCount)
	for t := TabUpgrades; t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	if m.tab != TabPrestige {
		b.WriteString(dimStyle.Render("  buy " + string(m.mode)))
	}
	b.WriteString("\n\n")

	var lines []string
	if m.tab == TabPrestige {
		lines = m.prestigeLines(eng)
	} else {
		lines = m.upgradeLines(eng)
	}
	if len(lines) == 0 {
		b.WriteString(dimStyle.Render("Nothing here yet."))
		return b.String()
	}

	start, end := visibleRange(len(lines), m.cursor, m.listHeight())
	b.WriteString(strings.Join(lines[start:end], "\n"))
	return b.String()
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return 12
	}
	return max(m.height-10, 3)
}

// visibleRange returns the window of rows that keeps cursor on screen.
func visibleRange(n, cursor, height int) (start, end int) {
	if n <= height {
		return 0, n
	}
	start = max(cursor-height+1, 0)
	return start, start + height
}

func (m Model) upgradeLines(eng *economy.Engine) []string {
	rows := m.rows()
	lines := make([]string, len(rows))
	for i, u := range rows {
		level := fmt.Sprintf("Lv %d", u.Level)
		if u.MaxLevel > 0 {
			level = fmt.Sprintf("Lv %d/%d", u.Level, u.MaxLevel)
		}

		var price string
		switch {
		case u.Maxed:
			price = "maxed"
		case !u.Available:
			price = "locked"
		case m.mode == economy.BuyMax:
			price = fmt.Sprintf("can buy %d", eng.MaxAffordable(u.ID))
		default:
			price = fmt.Sprintf("%s %s", formatAmount(u.Cost), u.CostResource)
		}

		line := fmt.Sprintf("%-22s %-9s %s", u.Name, level, price)
		lines[i] = m.styleRow(i, line, u.Affordable, !u.Available || u.Maxed)
	}
	return lines
}

func (m Model) prestigeLines(eng *economy.Engine) []string {
	list := eng.PrestigeUpgrades()
	lines := make([]string, len(list))
	for i, p := range list {
		name := p.Name
		if p.Icon != "" {
			name = p.Icon + " " + name
		}
		price := fmt.Sprintf("%d pts", p.Cost)
		if p.Maxed {
			price = "maxed"
		}
		line := fmt.Sprintf("%-22s Lv %-4d %-8s +%.0f%%", name, p.Level, price, p.Value*100)
		lines[i] = m.styleRow(i, line, p.Affordable, p.Maxed)
	}
	return lines
}

func (m Model) styleRow(i int, line string, affordable, disabled bool) string {
	cursor := "  "
	style := lipgloss.NewStyle()
	switch {
	case disabled:
		style = dimStyle
	case affordable:
		style = affordStyle
	}
	if i == m.cursor {
		cursor = "> "
		style = style.Inherit(selectedStyle)
	}
	return style.Render(cursor + line)
}
