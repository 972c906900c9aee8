package economy

import "math"

// PrestigeResult reports the outcome of a prestige attempt.
type PrestigeResult struct {
	OK     bool
	Gained int64 // points added by this reset
	Points int64 // banked total after the attempt
}

// PrestigeInfo summarises the prestige state for presentation.
type PrestigeInfo struct {
	Points     int64 // banked, never decreases
	Spent      int64
	Available  int64 // Points - Spent
	Pending    int64 // total a reset right now would bank
	Multiplier float64
	Count      int
	CanReset   bool
}

// PrestigeUpgrade is the read model of one prestige upgrade.
type PrestigeUpgrade struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    string
	Effect      PrestigeEffect
	Level       int
	MaxLevel    int // -1 = unbounded
	Cost        int64
	Value       float64 // accumulated effect at the current level
	Maxed       bool
	Affordable  bool
}

func (e *Engine) prestigeResource() int {
	if e.cat.PrestigeResource != "" {
		return e.resourceIndex[e.cat.PrestigeResource]
	}
	return 0
}

// computePrestigePoints derives the total a reset would bank from lifetime
// earnings of the prestige resource.
func (e *Engine) computePrestigePoints() int64 {
	lifetime := e.resources[e.prestigeResource()].LifetimeEarned
	if !(lifetime > 0) {
		return 0
	}
	raw := math.Sqrt(lifetime/e.rules.PrestigeDivisor) * (1 + e.bonuses.PrestigeGain)
	if math.IsInf(raw, 0) || math.IsNaN(raw) {
		return e.prestigePoints
	}
	return int64(math.Floor(raw))
}

// CanPrestige reports whether a reset would bank strictly more points.
func (e *Engine) CanPrestige() bool {
	return e.computePrestigePoints() > e.prestigePoints
}

// PerformPrestige replaces the banked points with the freshly computed total
// and resets every per-run resource and upgrade to catalog defaults.
// Prestige upgrades, banked points and lifetime counters survive.
func (e *Engine) PerformPrestige() PrestigeResult {
	next := e.computePrestigePoints()
	if next <= e.prestigePoints {
		return PrestigeResult{Points: e.prestigePoints}
	}

	gained := next - e.prestigePoints
	e.prestigePoints = next
	e.prestigeCount++
	e.resetRun()
	e.RecalculateRates()

	return PrestigeResult{OK: true, Gained: gained, Points: next}
}

// PrestigeInfo returns the current prestige summary.
func (e *Engine) PrestigeInfo() PrestigeInfo {
	pending := e.computePrestigePoints()
	return PrestigeInfo{
		Points:     e.prestigePoints,
		Spent:      e.spentPoints,
		Available:  e.prestigePoints - e.spentPoints,
		Pending:    pending,
		Multiplier: e.multiplier,
		Count:      e.prestigeCount,
		CanReset:   pending > e.prestigePoints,
	}
}

// BuyPrestigeUpgrade spends available prestige points on one level.
func (e *Engine) BuyPrestigeUpgrade(id string) bool {
	i, ok := e.prestigeIndex[id]
	if !ok {
		return false
	}
	def := e.cat.PrestigeUpgrades[i]
	level := e.prestigeLevels[i]
	if def.MaxLevel != -1 && level >= def.MaxLevel {
		return false
	}

	cost := PrestigeCost(def.BaseCost, def.CostScaling, level)
	if cost > e.prestigePoints-e.spentPoints {
		return false
	}

	e.spentPoints += cost
	e.prestigeLevels[i]++
	e.RecalculateRates()
	return true
}

// PrestigeUpgrades returns the read model of every prestige upgrade.
func (e *Engine) PrestigeUpgrades() []PrestigeUpgrade {
	available := e.prestigePoints - e.spentPoints
	out := make([]PrestigeUpgrade, len(e.cat.PrestigeUpgrades))
	for i, def := range e.cat.PrestigeUpgrades {
		level := e.prestigeLevels[i]
		cost := PrestigeCost(def.BaseCost, def.CostScaling, level)
		maxed := def.MaxLevel != -1 && level >= def.MaxLevel
		out[i] = PrestigeUpgrade{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    def.Category,
			Effect:      def.Effect,
			Level:       level,
			MaxLevel:    def.MaxLevel,
			Cost:        cost,
			Value:       PrestigeEffectValue(def, level),
			Maxed:       maxed,
			Affordable:  !maxed && cost <= available,
		}
	}
	return out
}
