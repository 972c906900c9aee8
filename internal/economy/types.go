// Package economy implements the progression engine of the idle game:
// resources, upgrades, research, prestige upgrades, cost curves and the
// prestige reset. It has no dependency on rendering, persistence or timers,
// so every operation is deterministic and testable in isolation.
package economy

import (
	"errors"
	"fmt"
)

// EffectKind names what an upgrade level does to the derived rates.
type EffectKind string

const (
	EffectAddRPS        EffectKind = "add_rps"        // +Value rps (target, or every unlocked resource)
	EffectMultRPS       EffectKind = "mult_rps"       // rps *= Value (target, or every resource)
	EffectAddRPC        EffectKind = "add_rpc"        // +Value rpc on target
	EffectMultRPC       EffectKind = "mult_rpc"       // rpc *= Value (target, or every resource)
	EffectCostReduction EffectKind = "cost_reduction" // -Value fraction on costs paid in target
	EffectUnlock        EffectKind = "unlock"         // unlocks target
)

// Effect is one data-driven modifier attached to an upgrade.
// It is applied once per owned level.
type Effect struct {
	Kind   EffectKind
	Target string
	Value  float64
}

// ResourceDef is the immutable catalog template of a resource.
type ResourceDef struct {
	ID          string
	Name        string
	Icon        string
	StartAmount float64
	BaseRPS     float64
	BaseRPC     float64
	Unlocked    bool
}

// Requirement gates a research upgrade. Either Upgrade must be owned,
// or Resource must currently hold at least Amount.
type Requirement struct {
	Upgrade  string
	Resource string
	Amount   float64
}

// UpgradeDef is the immutable catalog template of a repeatable upgrade.
// Research upgrades are the same shape with Research set.
type UpgradeDef struct {
	ID              string
	Name            string
	Description     string
	CostResource    string
	CostBase        float64
	CostMultiplier  float64
	MaxLevel        int // 0 = unbounded
	SingleUse       bool
	Research        bool
	UnlocksResource string
	Requires        *Requirement
	Effects         []Effect
}

// LevelCap returns the highest level the upgrade may reach, or 0 when unbounded.
func (d UpgradeDef) LevelCap() int {
	if d.SingleUse {
		return 1
	}
	return d.MaxLevel
}

// Scaling selects how a prestige upgrade's effect grows with its level.
type Scaling string

const (
	ScalingLinear         Scaling = "linear"
	ScalingMultiplicative Scaling = "multiplicative"
)

// PrestigeEffect names the permanent bonus a prestige upgrade grants.
type PrestigeEffect string

const (
	PrestigeGlobalProduction   PrestigeEffect = "global_production"
	PrestigeResourceProduction PrestigeEffect = "resource_production"
	PrestigeClickPower         PrestigeEffect = "click_power"
	PrestigeClickMultiplier    PrestigeEffect = "click_multiplier"
	PrestigeOfflineProduction  PrestigeEffect = "offline_production"
	PrestigeOfflineDuration    PrestigeEffect = "offline_duration"
	PrestigeCostReduction      PrestigeEffect = "cost_reduction"
	PrestigePermanentSpace     PrestigeEffect = "permanent_space"
	PrestigeGain               PrestigeEffect = "prestige_gain"
	PrestigeAutoClick          PrestigeEffect = "auto_click"
)

// PrestigeUpgradeDef is the immutable catalog template of a prestige upgrade.
type PrestigeUpgradeDef struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    string
	MaxLevel    int // -1 = unbounded
	BaseCost    float64
	CostScaling float64
	BaseEffect  float64
	Scaling     Scaling
	Effect      PrestigeEffect
	Target      string
}

// Catalog is the ordered, read-only set of definitions an engine runs on.
type Catalog struct {
	Name             string
	Title            string
	ClickResource    string
	PrestigeResource string
	Resources        []ResourceDef
	Upgrades         []UpgradeDef
	PrestigeUpgrades []PrestigeUpgradeDef
}

// ErrInvalidCatalog is wrapped by every catalog validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Validate checks references and the cost-curve constraints the engine relies on.
func (c Catalog) Validate() error {
	if len(c.Resources) == 0 {
		return fmt.Errorf("%w: no resources", ErrInvalidCatalog)
	}

	resources := make(map[string]bool, len(c.Resources))
	for _, r := range c.Resources {
		if r.ID == "" {
			return fmt.Errorf("%w: resource without id", ErrInvalidCatalog)
		}
		if resources[r.ID] {
			return fmt.Errorf("%w: duplicate resource %q", ErrInvalidCatalog, r.ID)
		}
		if r.StartAmount < 0 {
			return fmt.Errorf("%w: resource %q has negative start amount", ErrInvalidCatalog, r.ID)
		}
		resources[r.ID] = true
	}

	if c.ClickResource != "" && !resources[c.ClickResource] {
		return fmt.Errorf("%w: unknown click resource %q", ErrInvalidCatalog, c.ClickResource)
	}
	if c.PrestigeResource != "" && !resources[c.PrestigeResource] {
		return fmt.Errorf("%w: unknown prestige resource %q", ErrInvalidCatalog, c.PrestigeResource)
	}

	upgrades := make(map[string]bool, len(c.Upgrades))
	for _, u := range c.Upgrades {
		if u.ID == "" {
			return fmt.Errorf("%w: upgrade without id", ErrInvalidCatalog)
		}
		if upgrades[u.ID] {
			return fmt.Errorf("%w: duplicate upgrade %q", ErrInvalidCatalog, u.ID)
		}
		upgrades[u.ID] = true

		if !resources[u.CostResource] {
			return fmt.Errorf("%w: upgrade %q costs unknown resource %q", ErrInvalidCatalog, u.ID, u.CostResource)
		}
		if u.CostBase <= 0 {
			return fmt.Errorf("%w: upgrade %q needs a positive cost base", ErrInvalidCatalog, u.ID)
		}
		if u.CostMultiplier < 1 {
			return fmt.Errorf("%w: upgrade %q has cost multiplier below 1", ErrInvalidCatalog, u.ID)
		}
		// ceil() keeps neighbouring levels distinct only when the raw
		// curve grows by at least one unit per level.
		if u.CostMultiplier > 1 && u.CostBase*(u.CostMultiplier-1) < 1 {
			return fmt.Errorf("%w: upgrade %q cost curve grows by less than 1 per level", ErrInvalidCatalog, u.ID)
		}
		if u.MaxLevel < 0 {
			return fmt.Errorf("%w: upgrade %q has negative max level", ErrInvalidCatalog, u.ID)
		}
		if u.UnlocksResource != "" && !resources[u.UnlocksResource] {
			return fmt.Errorf("%w: upgrade %q unlocks unknown resource %q", ErrInvalidCatalog, u.ID, u.UnlocksResource)
		}
		for _, eff := range u.Effects {
			if err := validateEffect(eff, resources); err != nil {
				return fmt.Errorf("%w: upgrade %q: %v", ErrInvalidCatalog, u.ID, err)
			}
		}
	}

	// Requirements may point forward in the catalog, so check them after
	// every upgrade id is known.
	for _, u := range c.Upgrades {
		if u.Requires == nil {
			continue
		}
		if u.Requires.Upgrade != "" && !upgrades[u.Requires.Upgrade] {
			return fmt.Errorf("%w: upgrade %q requires unknown upgrade %q", ErrInvalidCatalog, u.ID, u.Requires.Upgrade)
		}
		if u.Requires.Resource != "" && !resources[u.Requires.Resource] {
			return fmt.Errorf("%w: upgrade %q requires unknown resource %q", ErrInvalidCatalog, u.ID, u.Requires.Resource)
		}
	}

	prestige := make(map[string]bool, len(c.PrestigeUpgrades))
	for _, p := range c.PrestigeUpgrades {
		if p.ID == "" {
			return fmt.Errorf("%w: prestige upgrade without id", ErrInvalidCatalog)
		}
		if prestige[p.ID] {
			return fmt.Errorf("%w: duplicate prestige upgrade %q", ErrInvalidCatalog, p.ID)
		}
		prestige[p.ID] = true
		if p.BaseCost <= 0 || p.CostScaling < 1 {
			return fmt.Errorf("%w: prestige upgrade %q has an invalid cost curve", ErrInvalidCatalog, p.ID)
		}
		if p.MaxLevel < -1 || p.MaxLevel == 0 {
			return fmt.Errorf("%w: prestige upgrade %q has invalid max level %d", ErrInvalidCatalog, p.ID, p.MaxLevel)
		}
		if p.Scaling != ScalingLinear && p.Scaling != ScalingMultiplicative {
			return fmt.Errorf("%w: prestige upgrade %q has unknown scaling %q", ErrInvalidCatalog, p.ID, p.Scaling)
		}
		if !knownPrestigeEffect(p.Effect) {
			return fmt.Errorf("%w: prestige upgrade %q has unknown effect %q", ErrInvalidCatalog, p.ID, p.Effect)
		}
		if p.Target != "" && needsResourceTarget(p.Effect) && !resources[p.Target] {
			return fmt.Errorf("%w: prestige upgrade %q targets unknown resource %q", ErrInvalidCatalog, p.ID, p.Target)
		}
	}

	return nil
}

func validateEffect(eff Effect, resources map[string]bool) error {
	switch eff.Kind {
	case EffectAddRPS, EffectMultRPS, EffectMultRPC:
		if eff.Target != "" && !resources[eff.Target] {
			return fmt.Errorf("effect %s targets unknown resource %q", eff.Kind, eff.Target)
		}
	case EffectAddRPC, EffectCostReduction, EffectUnlock:
		if !resources[eff.Target] {
			return fmt.Errorf("effect %s targets unknown resource %q", eff.Kind, eff.Target)
		}
	default:
		return fmt.Errorf("unknown effect kind %q", eff.Kind)
	}
	return nil
}

func knownPrestigeEffect(e PrestigeEffect) bool {
	switch e {
	case PrestigeGlobalProduction, PrestigeResourceProduction, PrestigeClickPower,
		PrestigeClickMultiplier, PrestigeOfflineProduction, PrestigeOfflineDuration,
		PrestigeCostReduction, PrestigePermanentSpace, PrestigeGain, PrestigeAutoClick:
		return true
	}
	return false
}

func needsResourceTarget(e PrestigeEffect) bool {
	return e == PrestigeResourceProduction || e == PrestigeClickPower
}
