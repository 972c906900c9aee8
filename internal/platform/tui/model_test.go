package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/space-colonies/internal/clock"
	"github.com/vovakirdan/space-colonies/internal/config"
	"github.com/vovakirdan/space-colonies/internal/economy"
	"github.com/vovakirdan/space-colonies/internal/session"
)

func testCatalog() economy.Catalog {
	return economy.Catalog{
		Name:          "classic",
		Title:         "Classic Clicker",
		ClickResource: "points",
		Resources: []economy.ResourceDef{
			{ID: "points", Name: "Points", BaseRPC: 1, Unlocked: true},
		},
		Upgrades: []economy.UpgradeDef{
			{
				ID: "generator", Name: "Generator", CostResource: "points", CostBase: 10, CostMultiplier: 1.15,
				Effects: []economy.Effect{{Kind: economy.EffectAddRPS, Target: "points", Value: 1}},
			},
			{
				ID: "lab", Name: "Lab", CostResource: "points", CostBase: 50, CostMultiplier: 1, SingleUse: true, Research: true,
				Requires: &economy.Requirement{Upgrade: "generator"},
			},
		},
		PrestigeUpgrades: []economy.PrestigeUpgradeDef{
			{
				ID: "efficiency", Name: "Efficiency", MaxLevel: -1, BaseCost: 1, CostScaling: 2,
				BaseEffect: 0.1, Scaling: economy.ScalingLinear, Effect: economy.PrestigeGlobalProduction,
			},
		},
	}
}

func newTestModel(t *testing.T) (Model, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	sess, err := session.New(session.Options{
		Slot:    "tui",
		Catalog: testCatalog(),
		Tuning:  config.DefaultTuning(),
		Clock:   clk,
	})
	if err != nil {
		t.Fatalf("session.New() failed: %v", err)
	}
	if err := sess.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return NewModel(sess), clk
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func points(m Model) float64 {
	r, _ := m.sess.Engine().Resource("points")
	return r.Amount
}

func TestStartSchedulesTicks(t *testing.T) {
	m, clk := newTestModel(t)

	m, cmd := send(t, m, startMsg{})
	if cmd == nil {
		t.Fatal("start did not schedule a tick")
	}
	if m.sess.State() != session.Running {
		t.Fatalf("State() = %s, want running", m.sess.State())
	}

	clk.Advance(time.Second)
	if _, cmd := send(t, m, TickMsg{Gen: m.sess.Gen()}); cmd == nil {
		t.Error("live tick was not rescheduled")
	}
	if _, cmd := send(t, m, TickMsg{Gen: m.sess.Gen() + 7}); cmd != nil {
		t.Error("stale tick was rescheduled")
	}
}

func TestClickAndBuy(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, startMsg{})

	for range 10 {
		m, _ = send(t, m, runes("c"))
	}
	if points(m) != 10 {
		t.Fatalf("points = %v, want 10", points(m))
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if lvl := m.sess.Engine().Level("generator"); lvl != 1 {
		t.Fatalf("generator level = %d, want 1", lvl)
	}
	if m.status != "Bought Generator." {
		t.Errorf("status = %q", m.status)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.HasPrefix(m.status, "Not enough") {
		t.Errorf("status = %q, want not enough", m.status)
	}
}

func TestTabsAndMode(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, startMsg{})

	m, _ = send(t, m, runes("m"))
	if m.mode != economy.BuyTen {
		t.Errorf("mode = %s, want x10", m.mode)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != TabResearch {
		t.Fatalf("tab = %s, want Research", m.tab)
	}
	if rows := m.rows(); len(rows) != 1 || rows[0].ID != "lab" {
		t.Errorf("research rows = %+v", rows)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.status, "not available") {
		t.Errorf("status = %q, want not available", m.status)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.tab != TabPrestige {
		t.Errorf("tab = %s, want Prestige", m.tab)
	}
	if !strings.Contains(m.View(), "Efficiency") {
		t.Error("prestige tab does not list upgrades")
	}
}

func TestPrestigeNeedsConfirmation(t *testing.T) {
	m, clk := newTestModel(t)
	m, _ = send(t, m, startMsg{})

	m, _ = send(t, m, runes("P"))
	if m.confirmPrestige {
		t.Fatal("confirmation armed without enough production")
	}

	m.sess.Engine().ApplyEarnings(map[string]float64{"points": 40000}, clk.Now())
	m, _ = send(t, m, runes("P"))
	if !m.confirmPrestige {
		t.Fatal("first press did not arm confirmation")
	}
	if m.sess.Engine().PrestigeCount() != 0 {
		t.Fatal("first press already reset")
	}

	m, _ = send(t, m, runes("P"))
	if m.sess.Engine().PrestigeCount() != 1 {
		t.Fatalf("PrestigeCount() = %d, want 1", m.sess.Engine().PrestigeCount())
	}
	if points(m) != 0 {
		t.Errorf("points after reset = %v", points(m))
	}

	// Any other key disarms a pending confirmation.
	m.sess.Engine().ApplyEarnings(map[string]float64{"points": 90000}, clk.Now())
	m, _ = send(t, m, runes("P"))
	m, _ = send(t, m, runes("c"))
	if m.confirmPrestige {
		t.Error("confirmation survived another key")
	}
}

func TestBlurPausesAndFocusWelcomesBack(t *testing.T) {
	m, clk := newTestModel(t)
	m, _ = send(t, m, startMsg{})

	m.sess.Engine().ApplyEarnings(map[string]float64{"points": 10}, clk.Now())
	m.sess.Engine().BuyGenerator("generator")

	m, _ = send(t, m, tea.BlurMsg{})
	if m.sess.State() != session.Paused {
		t.Fatalf("State() = %s after blur, want paused", m.sess.State())
	}

	clk.Advance(2 * time.Hour)
	m, cmd := send(t, m, tea.FocusMsg{})
	if cmd == nil {
		t.Fatal("focus did not restart ticks")
	}
	if !strings.HasPrefix(m.welcome, "Welcome back!") {
		t.Errorf("welcome = %q", m.welcome)
	}
	if !strings.Contains(m.View(), "Welcome back!") {
		t.Error("view does not show the welcome banner")
	}

	m, _ = send(t, m, runes("c"))
	if m.welcome != "" {
		t.Error("welcome banner survived a key press")
	}
}

func TestQuitClosesSession(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, startMsg{})

	m, cmd := send(t, m, runes("q"))
	if cmd == nil || !m.quitting {
		t.Fatal("quit did not stop the program")
	}
	if m.sess.State() != session.Paused {
		t.Errorf("State() = %s after quit, want paused", m.sess.State())
	}
	if m.View() != "" {
		t.Error("view not empty after quit")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{12.56, "12.5"},
		{999, "999"},
		{1500, "1.50K"},
		{2.5e6, "2.50M"},
		{7.25e9, "7.25B"},
		{999999, "1.00M"},
		{1e15, "1.00Qa"},
		{1e30, "1.00No"},
		{1e33, "1.00e+33"},
		{1e40, "1.00e+40"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		n, cursor, height int
		start, end        int
	}{
		{5, 0, 10, 0, 5},
		{20, 0, 5, 0, 5},
		{20, 4, 5, 0, 5},
		{20, 9, 5, 5, 10},
		{20, 19, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := visibleRange(tt.n, tt.cursor, tt.height)
		if start != tt.start || end != tt.end {
			t.Errorf("visibleRange(%d, %d, %d) = %d..%d, want %d..%d",
				tt.n, tt.cursor, tt.height, start, end, tt.start, tt.end)
		}
	}
}
