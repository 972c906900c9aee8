// Package offline computes the passive production credited for time a
// session was not running.
package offline

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/space-colonies/internal/economy"
)

// Config bounds the offline window.
type Config struct {
	MinSeconds float64 // below this nothing is credited
	MaxSeconds float64 // longest window credited
	Efficiency float64 // fraction of passive production credited
}

// DefaultConfig returns the base limits without any prestige bonus: one
// minute threshold, four hours cap, half efficiency.
func DefaultConfig() Config {
	return Config{
		MinSeconds: 60,
		MaxSeconds: 4 * 60 * 60,
		Efficiency: 0.5,
	}
}

// Resolve extends base by the offline prestige bonuses.
func Resolve(base Config, b economy.Bonuses) Config {
	cfg := base
	cfg.MaxSeconds += b.OfflineDurationHours * 3600
	cfg.Efficiency += b.OfflineProduction
	return cfg
}

// Producer is the read side of an engine needed to price an offline window.
type Producer interface {
	Resources() []economy.Resource
	PrestigeMultiplier() float64
}

// Applier receives a computed batch of earnings.
type Applier interface {
	ApplyEarnings(earnings map[string]float64, at time.Time)
}

// Result describes one offline window.
type Result struct {
	Elapsed          float64
	EffectiveSeconds float64
	Efficiency       float64
	Earnings         map[string]float64
	WasCapped        bool
	Skipped          bool // below the minimum window

	applied bool
}

// Compute prices elapsedSeconds of absence. Only unlocked resources with a
// positive rps earn; clicks never do.
func Compute(p Producer, elapsedSeconds float64, cfg Config) Result {
	if math.IsNaN(elapsedSeconds) || elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	res := Result{
		Elapsed:    elapsedSeconds,
		Efficiency: cfg.Efficiency,
		Earnings:   make(map[string]float64),
	}
	if elapsedSeconds < cfg.MinSeconds {
		res.Skipped = true
		return res
	}

	res.EffectiveSeconds = math.Min(elapsedSeconds, cfg.MaxSeconds)
	res.WasCapped = elapsedSeconds > cfg.MaxSeconds

	mult := p.PrestigeMultiplier()
	for _, r := range p.Resources() {
		if !r.Unlocked || r.RPS <= 0 {
			continue
		}
		res.Earnings[r.ID] = r.RPS * res.EffectiveSeconds * res.Efficiency * mult
	}
	return res
}

// Total sums the earnings over every resource.
func (r *Result) Total() float64 {
	total := 0.0
	for _, v := range r.Earnings {
		total += v
	}
	return total
}

// Apply credits the earnings in one batch and stamps at as the new
// last-online time. A result is applied at most once; skipped results only
// stamp the time. It reports whether anything was credited.
func (r *Result) Apply(target Applier, at time.Time) bool {
	if r.applied {
		return false
	}
	r.applied = true
	if r.Skipped || len(r.Earnings) == 0 {
		target.ApplyEarnings(nil, at)
		return false
	}
	target.ApplyEarnings(r.Earnings, at)
	return true
}

// FormatDuration renders seconds as "2h 5m", "5m 3s" or "42s".
func FormatDuration(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
