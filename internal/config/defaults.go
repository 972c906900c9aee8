package config

import (
	_ "embed"
)

//go:embed defaults/tuning.yaml
var defaultTuningYAML []byte

// DefaultTuning returns the hardcoded tuning, used when no file can be read.
func DefaultTuning() Tuning {
	return Tuning{
		Session: SessionConfig{
			TickMS:          1000,
			AutosaveSeconds: 30,
		},
		Offline: OfflineConfig{
			MinSeconds:   60,
			BaseMaxHours: 4,
			Efficiency:   0.5,
		},
		Prestige: PrestigeConfig{
			Divisor:    10000,
			PointBonus: 0.1,
		},
		Economy: EconomyConfig{
			MaxCostReduction: 0.5,
		},
	}
}

// DefaultYAML returns the embedded default tuning file.
func DefaultYAML() []byte {
	return defaultTuningYAML
}
