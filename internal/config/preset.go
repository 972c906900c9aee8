package config

import "fmt"

// Pace represents a named economy speed.
type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceNormal   Pace = "normal"
	PaceHardcore Pace = "hardcore"
)

// ParsePace validates a pace name. Empty means normal.
func ParsePace(s string) (Pace, error) {
	switch Pace(s) {
	case "", PaceNormal:
		return PaceNormal, nil
	case PaceRelaxed, PaceHardcore:
		return Pace(s), nil
	default:
		return "", fmt.Errorf("config: unknown pace %q (relaxed, normal, hardcore)", s)
	}
}

// ApplyPace modifies the tuning based on a pace preset.
func ApplyPace(cfg *Tuning, pace Pace) {
	switch pace {
	case PaceRelaxed:
		cfg.Offline.BaseMaxHours *= 2
		cfg.Offline.Efficiency = min(cfg.Offline.Efficiency*1.5, 1)
		cfg.Prestige.Divisor /= 2
	case PaceHardcore:
		cfg.Offline.BaseMaxHours /= 2
		cfg.Offline.Efficiency /= 2
		cfg.Prestige.Divisor *= 4
		cfg.Prestige.PointBonus /= 2
	}
}
