package catalog

import (
	"fmt"

	"github.com/vovakirdan/space-colonies/internal/economy"
	"gopkg.in/yaml.v3"
)

// YAMLCatalog represents the YAML structure for a catalog file.
type YAMLCatalog struct {
	Name             string                `yaml:"name"`
	Title            string                `yaml:"title"`
	ClickResource    string                `yaml:"click_resource,omitempty"`
	PrestigeResource string                `yaml:"prestige_resource,omitempty"`
	Resources        []YAMLResource        `yaml:"resources"`
	Upgrades         []YAMLUpgrade         `yaml:"upgrades"`
	PrestigeUpgrades []YAMLPrestigeUpgrade `yaml:"prestige_upgrades,omitempty"`
}

// YAMLResource represents one resource template.
type YAMLResource struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Icon     string  `yaml:"icon,omitempty"`
	Start    float64 `yaml:"start,omitempty"`
	RPS      float64 `yaml:"rps,omitempty"`
	RPC      float64 `yaml:"rpc,omitempty"`
	Unlocked bool    `yaml:"unlocked,omitempty"`
}

// YAMLCost represents the cost curve of an upgrade.
type YAMLCost struct {
	Resource   string  `yaml:"resource"`
	Base       float64 `yaml:"base"`
	Multiplier float64 `yaml:"multiplier,omitempty"` // default 1.15, 1 for single-use
}

// YAMLRequirement gates a research upgrade.
type YAMLRequirement struct {
	Upgrade  string  `yaml:"upgrade,omitempty"`
	Resource string  `yaml:"resource,omitempty"`
	Amount   float64 `yaml:"amount,omitempty"`
}

// YAMLEffect represents one effect entry.
type YAMLEffect struct {
	Kind   string  `yaml:"kind"`
	Target string  `yaml:"target,omitempty"`
	Value  float64 `yaml:"value,omitempty"`
}

// YAMLUpgrade represents one upgrade or research template.
type YAMLUpgrade struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Cost        YAMLCost         `yaml:"cost"`
	MaxLevel    int              `yaml:"max_level,omitempty"`
	Single      bool             `yaml:"single,omitempty"`
	Research    bool             `yaml:"research,omitempty"`
	Unlocks     string           `yaml:"unlocks,omitempty"`
	Requires    *YAMLRequirement `yaml:"requires,omitempty"`
	Effects     []YAMLEffect     `yaml:"effects,omitempty"`
}

// YAMLPrestigeUpgrade represents one prestige upgrade template.
// Zero values fall back to max_level -1, base_cost 1, cost_scaling 2,
// base_effect 0.1 and linear scaling.
type YAMLPrestigeUpgrade struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Icon        string  `yaml:"icon,omitempty"`
	Category    string  `yaml:"category,omitempty"`
	MaxLevel    int     `yaml:"max_level,omitempty"`
	BaseCost    float64 `yaml:"base_cost,omitempty"`
	CostScaling float64 `yaml:"cost_scaling,omitempty"`
	BaseEffect  float64 `yaml:"base_effect,omitempty"`
	Scaling     string  `yaml:"scaling,omitempty"`
	Effect      string  `yaml:"effect"`
	Target      string  `yaml:"target,omitempty"`
}

const defaultCostMultiplier = 1.15

// ParseYAML parses and validates a YAML catalog file.
func ParseYAML(data []byte) (economy.Catalog, error) {
	var yc YAMLCatalog
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return economy.Catalog{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	cat := economy.Catalog{
		Name:             yc.Name,
		Title:            yc.Title,
		ClickResource:    yc.ClickResource,
		PrestigeResource: yc.PrestigeResource,
		Resources:        make([]economy.ResourceDef, 0, len(yc.Resources)),
		Upgrades:         make([]economy.UpgradeDef, 0, len(yc.Upgrades)),
		PrestigeUpgrades: make([]economy.PrestigeUpgradeDef, 0, len(yc.PrestigeUpgrades)),
	}
	if cat.Title == "" {
		cat.Title = cat.Name
	}

	for _, r := range yc.Resources {
		cat.Resources = append(cat.Resources, economy.ResourceDef{
			ID:          r.ID,
			Name:        r.Name,
			Icon:        r.Icon,
			StartAmount: r.Start,
			BaseRPS:     r.RPS,
			BaseRPC:     r.RPC,
			Unlocked:    r.Unlocked,
		})
	}

	for _, u := range yc.Upgrades {
		mult := u.Cost.Multiplier
		if mult == 0 {
			mult = defaultCostMultiplier
			if u.Single {
				mult = 1
			}
		}
		def := economy.UpgradeDef{
			ID:              u.ID,
			Name:            u.Name,
			Description:     u.Description,
			CostResource:    u.Cost.Resource,
			CostBase:        u.Cost.Base,
			CostMultiplier:  mult,
			MaxLevel:        u.MaxLevel,
			SingleUse:       u.Single,
			Research:        u.Research,
			UnlocksResource: u.Unlocks,
		}
		if u.Requires != nil {
			def.Requires = &economy.Requirement{
				Upgrade:  u.Requires.Upgrade,
				Resource: u.Requires.Resource,
				Amount:   u.Requires.Amount,
			}
		}
		for _, e := range u.Effects {
			def.Effects = append(def.Effects, economy.Effect{
				Kind:   economy.EffectKind(e.Kind),
				Target: e.Target,
				Value:  e.Value,
			})
		}
		cat.Upgrades = append(cat.Upgrades, def)
	}

	for _, p := range yc.PrestigeUpgrades {
		def := economy.PrestigeUpgradeDef{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Icon:        p.Icon,
			Category:    p.Category,
			MaxLevel:    p.MaxLevel,
			BaseCost:    p.BaseCost,
			CostScaling: p.CostScaling,
			BaseEffect:  p.BaseEffect,
			Scaling:     economy.Scaling(p.Scaling),
			Effect:      economy.PrestigeEffect(p.Effect),
			Target:      p.Target,
		}
		if def.MaxLevel == 0 {
			def.MaxLevel = -1
		}
		if def.BaseCost == 0 {
			def.BaseCost = 1
		}
		if def.CostScaling == 0 {
			def.CostScaling = 2
		}
		if def.BaseEffect == 0 {
			def.BaseEffect = 0.1
		}
		if def.Scaling == "" {
			def.Scaling = economy.ScalingLinear
		}
		cat.PrestigeUpgrades = append(cat.PrestigeUpgrades, def)
	}

	if err := cat.Validate(); err != nil {
		return economy.Catalog{}, err
	}
	return cat, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
