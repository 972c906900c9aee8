package economy

// Upgrade is the read model of one upgrade for presentation.
type Upgrade struct {
	ID           string
	Name         string
	Description  string
	Research     bool
	Level        int
	MaxLevel     int // 0 = unbounded
	CostResource string
	Cost         float64
	Available    bool // prerequisites met
	Maxed        bool
	Affordable   bool
}

// BuyGenerator buys a single level.
func (e *Engine) BuyGenerator(id string) bool {
	return e.BuyUpgrade(id, 1) == 1
}

// BuyUpgrade buys up to count levels, paying the current cost of each level
// in turn and stopping at the first level that is unaffordable or capped.
// Rates are recalculated once after the batch. It returns the levels bought.
func (e *Engine) BuyUpgrade(id string, count int) int {
	i, ok := e.upgradeIndex[id]
	if !ok || count <= 0 {
		return 0
	}
	def := e.cat.Upgrades[i]
	if !e.requirementMet(def) {
		return 0
	}

	ri := e.resourceIndex[def.CostResource]
	bought := 0
	for bought < count {
		if limit := def.LevelCap(); limit > 0 && e.levels[i] >= limit {
			break
		}
		if !e.spend(ri, e.costAt(i, e.levels[i])) {
			break
		}
		e.levels[i]++
		bought++
	}

	if bought > 0 {
		e.RecalculateRates()
	}
	return bought
}

// BuyUpgradeMode buys according to the x1 / x10 / max selector.
func (e *Engine) BuyUpgradeMode(id string, mode BuyMode) int {
	switch mode {
	case BuyTen:
		return e.BuyUpgrade(id, 10)
	case BuyMax:
		n := e.MaxAffordable(id)
		if n == 0 {
			return 0
		}
		return e.BuyUpgrade(id, n)
	default:
		return e.BuyUpgrade(id, 1)
	}
}

// UpgradeCost returns the current price of the next level.
func (e *Engine) UpgradeCost(id string) (float64, bool) {
	i, ok := e.upgradeIndex[id]
	if !ok {
		return 0, false
	}
	return e.costAt(i, e.levels[i]), true
}

// Level returns the owned level of an upgrade.
func (e *Engine) Level(id string) int {
	i, ok := e.upgradeIndex[id]
	if !ok {
		return 0
	}
	return e.levels[i]
}

// MaxAffordable returns how many further levels the current balance covers,
// bounded by the level cap. Locked research reports 0.
func (e *Engine) MaxAffordable(id string) int {
	i, ok := e.upgradeIndex[id]
	if !ok {
		return 0
	}
	def := e.cat.Upgrades[i]
	if !e.requirementMet(def) {
		return 0
	}

	red := e.costReductionFor(def.CostResource)
	amount := e.resources[e.resourceIndex[def.CostResource]].Amount
	n := MaxAffordable(def.CostBase*(1-red), def.CostMultiplier, e.levels[i], amount)

	if limit := def.LevelCap(); limit > 0 && e.levels[i]+n > limit {
		n = limit - e.levels[i]
	}
	if n < 0 {
		n = 0
	}
	return n
}

// Upgrades returns the read model of every upgrade in catalog order.
func (e *Engine) Upgrades() []Upgrade {
	out := make([]Upgrade, len(e.cat.Upgrades))
	for i, def := range e.cat.Upgrades {
		level := e.levels[i]
		cost := e.costAt(i, level)
		limit := def.LevelCap()
		maxed := limit > 0 && level >= limit
		available := e.requirementMet(def)
		out[i] = Upgrade{
			ID:           def.ID,
			Name:         def.Name,
			Description:  def.Description,
			Research:     def.Research,
			Level:        level,
			MaxLevel:     limit,
			CostResource: def.CostResource,
			Cost:         cost,
			Available:    available,
			Maxed:        maxed,
			Affordable: available && !maxed &&
				e.resources[e.resourceIndex[def.CostResource]].Amount >= cost,
		}
	}
	return out
}

func (e *Engine) costAt(i, level int) float64 {
	def := e.cat.Upgrades[i]
	return DiscountedCost(def.CostBase, def.CostMultiplier, level, e.costReductionFor(def.CostResource))
}

func (e *Engine) requirementMet(def UpgradeDef) bool {
	req := def.Requires
	if req == nil {
		return true
	}
	if req.Upgrade != "" && e.levels[e.upgradeIndex[req.Upgrade]] == 0 {
		return false
	}
	if req.Resource != "" && e.resources[e.resourceIndex[req.Resource]].Amount < req.Amount {
		return false
	}
	return true
}
