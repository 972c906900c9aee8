// Package config provides YAML-based tuning for the colony economy and its
// host: tick cadence, autosave, offline limits and prestige rules.
package config

import (
	"time"

	"github.com/vovakirdan/space-colonies/internal/economy"
	"github.com/vovakirdan/space-colonies/internal/offline"
)

// Tuning contains every tunable number outside of a catalog.
type Tuning struct {
	Session  SessionConfig  `yaml:"session"`
	Offline  OfflineConfig  `yaml:"offline"`
	Prestige PrestigeConfig `yaml:"prestige"`
	Economy  EconomyConfig  `yaml:"economy"`
}

// SessionConfig defines the live loop cadence.
type SessionConfig struct {
	TickMS          int `yaml:"tick_ms"`          // simulation step in milliseconds
	AutosaveSeconds int `yaml:"autosave_seconds"` // minimum gap between autosaves
}

// OfflineConfig defines the offline window without prestige bonuses.
type OfflineConfig struct {
	MinSeconds   float64 `yaml:"min_seconds"`
	BaseMaxHours float64 `yaml:"base_max_hours"`
	Efficiency   float64 `yaml:"efficiency"` // 0.5 = half of passive production
}

// PrestigeConfig defines how lifetime earnings turn into points.
type PrestigeConfig struct {
	Divisor    float64 `yaml:"divisor"`     // points = floor(sqrt(lifetime / divisor))
	PointBonus float64 `yaml:"point_bonus"` // production bonus per banked point
}

// EconomyConfig defines global economy limits.
type EconomyConfig struct {
	MaxCostReduction float64 `yaml:"max_cost_reduction"`
}

// Rules converts the tuning into engine rules.
func (t Tuning) Rules() economy.Rules {
	return economy.Rules{
		PrestigeDivisor:  t.Prestige.Divisor,
		PointBonus:       t.Prestige.PointBonus,
		MaxCostReduction: t.Economy.MaxCostReduction,
	}
}

// OfflineLimits converts the tuning into the base offline window.
func (t Tuning) OfflineLimits() offline.Config {
	return offline.Config{
		MinSeconds: t.Offline.MinSeconds,
		MaxSeconds: t.Offline.BaseMaxHours * 3600,
		Efficiency: t.Offline.Efficiency,
	}
}

// TickInterval returns the simulation step.
func (t Tuning) TickInterval() time.Duration {
	return time.Duration(t.Session.TickMS) * time.Millisecond
}

// AutosaveInterval returns the minimum gap between autosaves.
func (t Tuning) AutosaveInterval() time.Duration {
	return time.Duration(t.Session.AutosaveSeconds) * time.Second
}
