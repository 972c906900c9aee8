package economy

import (
	"maps"
	"math"
)

// Bonuses is the aggregated effect of every owned prestige upgrade.
type Bonuses struct {
	GlobalProduction     float64
	ResourceProduction   map[string]float64 // "" = every resource
	ClickPower           map[string]float64 // "" = click resource
	ClickMultiplier      float64
	OfflineProduction    float64
	OfflineDurationHours float64
	CostReduction        float64
	PermanentSpace       float64
	PrestigeGain         float64
	AutoClick            float64
}

func (b Bonuses) clone() Bonuses {
	b.ResourceProduction = maps.Clone(b.ResourceProduction)
	b.ClickPower = maps.Clone(b.ClickPower)
	return b
}

func (e *Engine) collectBonuses() Bonuses {
	b := Bonuses{
		ResourceProduction: make(map[string]float64),
		ClickPower:         make(map[string]float64),
	}
	for i, def := range e.cat.PrestigeUpgrades {
		v := PrestigeEffectValue(def, e.prestigeLevels[i])
		if v == 0 {
			continue
		}
		switch def.Effect {
		case PrestigeGlobalProduction:
			b.GlobalProduction += v
		case PrestigeResourceProduction:
			b.ResourceProduction[def.Target] += v
		case PrestigeClickPower:
			b.ClickPower[def.Target] += v
		case PrestigeClickMultiplier:
			b.ClickMultiplier += v
		case PrestigeOfflineProduction:
			b.OfflineProduction += v
		case PrestigeOfflineDuration:
			b.OfflineDurationHours += v
		case PrestigeCostReduction:
			b.CostReduction += v
		case PrestigePermanentSpace:
			b.PermanentSpace += v
		case PrestigeGain:
			b.PrestigeGain += v
		case PrestigeAutoClick:
			b.AutoClick += v
		}
	}
	return b
}

// RecalculateRates rebuilds rps, rpc, unlocked, cost reductions and the
// prestige multiplier from catalog baselines, upgrade levels and prestige
// levels. It is the only writer of those fields and is idempotent.
func (e *Engine) RecalculateRates() {
	e.bonuses = e.collectBonuses()
	e.multiplier = (1 + float64(e.prestigePoints)*e.rules.PointBonus) * (1 + e.bonuses.GlobalProduction)

	// Baseline
	for i, def := range e.cat.Resources {
		r := &e.resources[i]
		r.RPS = def.BaseRPS
		r.RPC = def.BaseRPC
		r.Unlocked = def.Unlocked
	}

	// Cost reductions and unlocks must be settled before any rate effect
	// or cost lookup reads them.
	clear(e.costReduction)
	unlockedByUpgrade := make([]bool, len(e.resources))
	for i, def := range e.cat.Upgrades {
		level := e.levels[i]
		if level == 0 {
			continue
		}
		if def.UnlocksResource != "" {
			unlockedByUpgrade[e.resourceIndex[def.UnlocksResource]] = true
		}
		for _, eff := range def.Effects {
			switch eff.Kind {
			case EffectCostReduction:
				e.costReduction[eff.Target] += eff.Value * float64(level)
			case EffectUnlock:
				unlockedByUpgrade[e.resourceIndex[eff.Target]] = true
			}
		}
	}
	for i, unlocked := range unlockedByUpgrade {
		if unlocked {
			e.resources[i].Unlocked = true
		}
	}

	// Rate effects, catalog order, applied once per owned level.
	for i, def := range e.cat.Upgrades {
		level := e.levels[i]
		if level == 0 {
			continue
		}
		for _, eff := range def.Effects {
			e.applyRateEffect(eff, level)
		}
	}

	// A resource opened by an upgrade is always clickable.
	for i, unlocked := range unlockedByUpgrade {
		if unlocked && e.resources[i].RPC == 0 {
			e.resources[i].RPC = 1
		}
	}

	// Prestige bonuses on individual resources
	for target, v := range e.bonuses.ResourceProduction {
		e.forEachTarget(target, false, func(r *Resource) { r.RPS *= 1 + v })
	}
	for target, v := range e.bonuses.ClickPower {
		if target == "" {
			target = e.ClickResource()
		}
		e.forEachTarget(target, false, func(r *Resource) { r.RPC += v })
	}
	if e.bonuses.ClickMultiplier > 0 {
		for i := range e.resources {
			e.resources[i].RPC *= 1 + e.bonuses.ClickMultiplier
		}
	}
}

func (e *Engine) applyRateEffect(eff Effect, level int) {
	n := float64(level)
	switch eff.Kind {
	case EffectAddRPS:
		e.forEachTarget(eff.Target, true, func(r *Resource) { r.RPS += eff.Value * n })
	case EffectMultRPS:
		f := math.Pow(eff.Value, n)
		e.forEachTarget(eff.Target, false, func(r *Resource) { r.RPS *= f })
	case EffectAddRPC:
		e.forEachTarget(eff.Target, false, func(r *Resource) { r.RPC += eff.Value * n })
	case EffectMultRPC:
		f := math.Pow(eff.Value, n)
		e.forEachTarget(eff.Target, false, func(r *Resource) { r.RPC *= f })
	}
}

// forEachTarget calls fn for the named resource, or for every resource when
// target is empty. unlockedOnly restricts the global form to unlocked resources.
func (e *Engine) forEachTarget(target string, unlockedOnly bool, fn func(*Resource)) {
	if target != "" {
		if i, ok := e.resourceIndex[target]; ok {
			fn(&e.resources[i])
		}
		return
	}
	for i := range e.resources {
		if unlockedOnly && !e.resources[i].Unlocked {
			continue
		}
		fn(&e.resources[i])
	}
}

// costReductionFor returns the capped reduction on costs paid in resourceID.
func (e *Engine) costReductionFor(resourceID string) float64 {
	red := e.costReduction[resourceID] + e.bonuses.CostReduction
	if red > e.rules.MaxCostReduction {
		red = e.rules.MaxCostReduction
	}
	if red < 0 {
		red = 0
	}
	return red
}
