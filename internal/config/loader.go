package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const tuningFile = "tuning.yaml"

// LoadTuning loads the economy tuning.
// Search order: customPath -> ~/.colony/configs/tuning.yaml -> ./configs/tuning.yaml -> embedded default
// Fields missing from a file keep their default values.
func LoadTuning(customPath string) (Tuning, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultTuning(), fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parseTuning(data)
		if err != nil {
			return DefaultTuning(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(tuningFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseTuning(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", tuningFile)); err == nil {
		if cfg, err := parseTuning(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseTuning(defaultTuningYAML)
	if err != nil {
		return DefaultTuning(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parseTuning(data []byte) (Tuning, error) {
	cfg := DefaultTuning()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the session or engine cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.Session.TickMS <= 0:
		return fmt.Errorf("session.tick_ms must be positive, got %d", t.Session.TickMS)
	case t.Session.AutosaveSeconds <= 0:
		return fmt.Errorf("session.autosave_seconds must be positive, got %d", t.Session.AutosaveSeconds)
	case t.Offline.MinSeconds < 0:
		return fmt.Errorf("offline.min_seconds must not be negative")
	case t.Offline.BaseMaxHours <= 0:
		return fmt.Errorf("offline.base_max_hours must be positive")
	case t.Offline.Efficiency < 0:
		return fmt.Errorf("offline.efficiency must not be negative")
	case t.Prestige.Divisor <= 0:
		return fmt.Errorf("prestige.divisor must be positive")
	case t.Prestige.PointBonus < 0:
		return fmt.Errorf("prestige.point_bonus must not be negative")
	case t.Economy.MaxCostReduction < 0 || t.Economy.MaxCostReduction >= 1:
		return fmt.Errorf("economy.max_cost_reduction must be in [0, 1)")
	}
	return nil
}

// HomeDir returns ~/.colony, or empty if home is unavailable.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".colony")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := HomeDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}
