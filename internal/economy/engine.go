package economy

import (
	"fmt"
	"math"
	"time"
)

// Rules holds the tunable constants of the economy that are not part of a catalog.
type Rules struct {
	PrestigeDivisor  float64 // lifetime earnings per squared prestige point
	PointBonus       float64 // production bonus per banked prestige point
	MaxCostReduction float64 // cap on the summed cost reduction of one resource
}

// DefaultRules returns the rules the default tuning file ships with.
func DefaultRules() Rules {
	return Rules{
		PrestigeDivisor:  10000,
		PointBonus:       0.1,
		MaxCostReduction: 0.5,
	}
}

// Resource is the runtime state of one catalog resource.
type Resource struct {
	ID             string
	Name           string
	Icon           string
	Amount         float64
	RPS            float64
	RPC            float64
	Unlocked       bool
	TotalEarned    float64 // this run
	LifetimeEarned float64 // across prestige resets
}

// BuyMode selects how many levels a single buy request asks for.
type BuyMode string

const (
	BuyOne BuyMode = "x1"
	BuyTen BuyMode = "x10"
	BuyMax BuyMode = "max"
)

// Next cycles x1 -> x10 -> max -> x1.
func (m BuyMode) Next() BuyMode {
	switch m {
	case BuyOne:
		return BuyTen
	case BuyTen:
		return BuyMax
	default:
		return BuyOne
	}
}

// Engine owns every resource and upgrade of one game and is the only
// writer of their runtime state. It is not safe for concurrent use; the
// host drives it from a single loop.
type Engine struct {
	cat   Catalog
	rules Rules

	resources     []Resource
	resourceIndex map[string]int

	levels       []int
	upgradeIndex map[string]int

	prestigeLevels []int
	prestigeIndex  map[string]int

	// derived, written only by RecalculateRates
	bonuses       Bonuses
	costReduction map[string]float64
	multiplier    float64

	prestigePoints int64
	spentPoints    int64
	totalClicks    int64
	prestigeCount  int
	startTime      time.Time
	lastOnline     time.Time
}

// New validates the catalog and builds an engine at catalog defaults.
func New(cat Catalog, rules Rules, now time.Time) (*Engine, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if rules.PrestigeDivisor <= 0 {
		rules.PrestigeDivisor = DefaultRules().PrestigeDivisor
	}
	if rules.MaxCostReduction < 0 || rules.MaxCostReduction >= 1 {
		return nil, fmt.Errorf("economy: max cost reduction %v out of range [0, 1)", rules.MaxCostReduction)
	}

	e := &Engine{
		cat:            cat,
		rules:          rules,
		resources:      make([]Resource, len(cat.Resources)),
		resourceIndex:  make(map[string]int, len(cat.Resources)),
		levels:         make([]int, len(cat.Upgrades)),
		upgradeIndex:   make(map[string]int, len(cat.Upgrades)),
		prestigeLevels: make([]int, len(cat.PrestigeUpgrades)),
		prestigeIndex:  make(map[string]int, len(cat.PrestigeUpgrades)),
		costReduction:  make(map[string]float64),
		startTime:      now,
		lastOnline:     now,
	}

	for i, def := range cat.Resources {
		e.resourceIndex[def.ID] = i
	}
	for i, def := range cat.Upgrades {
		e.upgradeIndex[def.ID] = i
	}
	for i, def := range cat.PrestigeUpgrades {
		e.prestigeIndex[def.ID] = i
	}

	e.resetRun()
	e.RecalculateRates()
	return e, nil
}

// Catalog returns the definitions the engine was built from.
func (e *Engine) Catalog() Catalog {
	return e.cat
}

// Rules returns the economy rules in effect.
func (e *Engine) Rules() Rules {
	return e.rules
}

// resetRun puts every per-run value back to its catalog default.
func (e *Engine) resetRun() {
	for i, def := range e.cat.Resources {
		lifetime := e.resources[i].LifetimeEarned
		e.resources[i] = Resource{
			ID:             def.ID,
			Name:           def.Name,
			Icon:           def.Icon,
			Amount:         def.StartAmount,
			LifetimeEarned: lifetime,
		}
	}
	for i := range e.levels {
		e.levels[i] = 0
	}
}

// Resources returns a copy of every resource in catalog order.
func (e *Engine) Resources() []Resource {
	out := make([]Resource, len(e.resources))
	copy(out, e.resources)
	return out
}

// Resource returns a copy of one resource.
func (e *Engine) Resource(id string) (Resource, bool) {
	i, ok := e.resourceIndex[id]
	if !ok {
		return Resource{}, false
	}
	return e.resources[i], true
}

// PrestigeMultiplier returns the multiplier applied to every click and tick.
func (e *Engine) PrestigeMultiplier() float64 {
	return e.multiplier
}

// Bonuses returns the aggregated prestige-upgrade bonuses.
func (e *Engine) Bonuses() Bonuses {
	return e.bonuses.clone()
}

// TotalClicks returns the lifetime click counter.
func (e *Engine) TotalClicks() int64 {
	return e.totalClicks
}

// PrestigeCount returns how many resets have been performed.
func (e *Engine) PrestigeCount() int {
	return e.prestigeCount
}

// StartTime returns when this save was first created.
func (e *Engine) StartTime() time.Time {
	return e.startTime
}

// LastOnline returns the wall-clock time production was last accounted for.
func (e *Engine) LastOnline() time.Time {
	return e.lastOnline
}

// Touch records that production has been accounted for up to now.
func (e *Engine) Touch(now time.Time) {
	e.lastOnline = now
}

// Click adds the resource's per-click yield. Locked or unknown resources
// are ignored.
func (e *Engine) Click(resourceID string) bool {
	i, ok := e.resourceIndex[resourceID]
	if !ok || !e.resources[i].Unlocked {
		return false
	}
	e.credit(i, e.resources[i].RPC*e.multiplier)
	e.totalClicks++
	return true
}

// ClickResource returns the catalog's primary click target.
func (e *Engine) ClickResource() string {
	if e.cat.ClickResource != "" {
		return e.cat.ClickResource
	}
	return e.cat.Resources[0].ID
}

// Tick advances passive production by deltaSeconds.
func (e *Engine) Tick(deltaSeconds float64) {
	if !(deltaSeconds > 0) {
		return
	}
	for i := range e.resources {
		r := &e.resources[i]
		if r.Unlocked && r.RPS > 0 {
			e.credit(i, r.RPS*e.multiplier*deltaSeconds)
		}
	}

	if e.bonuses.AutoClick > 0 {
		ci := e.resourceIndex[e.ClickResource()]
		r := &e.resources[ci]
		if r.Unlocked && r.RPC > 0 {
			e.credit(ci, e.bonuses.AutoClick*r.RPC*e.multiplier*deltaSeconds)
		}
	}
}

// ApplyEarnings credits a batch of amounts at once, stamps the time the
// batch covers up to, and recalculates rates a single time.
func (e *Engine) ApplyEarnings(earnings map[string]float64, at time.Time) {
	for id, amount := range earnings {
		i, ok := e.resourceIndex[id]
		if !ok {
			continue
		}
		e.credit(i, amount)
	}
	e.lastOnline = at
	e.RecalculateRates()
}

func (e *Engine) credit(i int, amount float64) {
	if !(amount > 0) || math.IsInf(amount, 1) {
		return
	}
	r := &e.resources[i]
	r.Amount += amount
	r.TotalEarned += amount
	r.LifetimeEarned += amount
}

// spend deducts amount only when the whole amount is available.
func (e *Engine) spend(i int, amount float64) bool {
	if amount < 0 || math.IsNaN(amount) {
		return false
	}
	r := &e.resources[i]
	if r.Amount < amount {
		return false
	}
	r.Amount -= amount
	return true
}
