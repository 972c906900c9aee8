package economy

import (
	"math"
	"time"
)

// Snapshot is the flat persistence shape of an engine.
// Catalog data is never part of it; only ids, levels and amounts.
type Snapshot struct {
	Catalog string

	Resources        map[string]ResourceState
	Upgrades         []LevelEntry
	PrestigeUpgrades []LevelEntry

	PrestigePoints      int64
	SpentPrestigePoints int64

	TotalClicks   int64
	PrestigeCount int
	StartTime     time.Time
	LastOnline    time.Time
}

// ResourceState is the persisted part of a resource.
type ResourceState struct {
	Amount         float64
	TotalEarned    float64
	LifetimeEarned float64
}

// LevelEntry pairs an upgrade id with its owned level.
type LevelEntry struct {
	ID    string
	Level int
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Catalog:             e.cat.Name,
		Resources:           make(map[string]ResourceState, len(e.resources)),
		Upgrades:            make([]LevelEntry, len(e.levels)),
		PrestigeUpgrades:    make([]LevelEntry, len(e.prestigeLevels)),
		PrestigePoints:      e.prestigePoints,
		SpentPrestigePoints: e.spentPoints,
		TotalClicks:         e.totalClicks,
		PrestigeCount:       e.prestigeCount,
		StartTime:           e.startTime,
		LastOnline:          e.lastOnline,
	}
	for _, r := range e.resources {
		s.Resources[r.ID] = ResourceState{
			Amount:         r.Amount,
			TotalEarned:    r.TotalEarned,
			LifetimeEarned: r.LifetimeEarned,
		}
	}
	for i, def := range e.cat.Upgrades {
		s.Upgrades[i] = LevelEntry{ID: def.ID, Level: e.levels[i]}
	}
	for i, def := range e.cat.PrestigeUpgrades {
		s.PrestigeUpgrades[i] = LevelEntry{ID: def.ID, Level: e.prestigeLevels[i]}
	}
	return s
}

// Restore replaces the whole state with s. Unknown ids are ignored, missing
// ids keep catalog defaults and out-of-range values are clamped.
func (e *Engine) Restore(s Snapshot) {
	for i := range e.resources {
		e.resources[i].LifetimeEarned = 0
	}
	e.resetRun()
	for i := range e.prestigeLevels {
		e.prestigeLevels[i] = 0
	}

	for id, st := range s.Resources {
		i, ok := e.resourceIndex[id]
		if !ok {
			continue
		}
		r := &e.resources[i]
		r.Amount = nonNegative(st.Amount)
		r.TotalEarned = nonNegative(st.TotalEarned)
		r.LifetimeEarned = math.Max(nonNegative(st.LifetimeEarned), r.TotalEarned)
	}

	for _, entry := range s.Upgrades {
		i, ok := e.upgradeIndex[entry.ID]
		if !ok {
			continue
		}
		level := max(entry.Level, 0)
		if limit := e.cat.Upgrades[i].LevelCap(); limit > 0 {
			level = min(level, limit)
		}
		e.levels[i] = level
	}

	for _, entry := range s.PrestigeUpgrades {
		i, ok := e.prestigeIndex[entry.ID]
		if !ok {
			continue
		}
		level := max(entry.Level, 0)
		if limit := e.cat.PrestigeUpgrades[i].MaxLevel; limit != -1 {
			level = min(level, limit)
		}
		e.prestigeLevels[i] = level
	}

	e.prestigePoints = max(s.PrestigePoints, 0)
	e.spentPoints = min(max(s.SpentPrestigePoints, 0), e.prestigePoints)
	e.totalClicks = max(s.TotalClicks, 0)
	e.prestigeCount = max(s.PrestigeCount, 0)
	if !s.StartTime.IsZero() {
		e.startTime = s.StartTime
	}
	if !s.LastOnline.IsZero() {
		e.lastOnline = s.LastOnline
	}

	e.RecalculateRates()
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
