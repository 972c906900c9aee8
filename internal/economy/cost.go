package economy

import "math"

const (
	// costEpsilon absorbs pow() rounding noise so 12.000000000001 stays 12.
	costEpsilon = 1e-9

	// maxBulkLevels bounds the doubling phase of the bulk-buy search.
	maxBulkLevels = 1 << 20

	// maxLinearLevels bounds the fallback enumeration for flat or shrinking curves.
	maxLinearLevels = 1000
)

// UpgradeCost returns the price of going from level to level+1:
// ceil(base * mult^level). It is computed from the level every time.
func UpgradeCost(base, mult float64, level int) float64 {
	return DiscountedCost(base, mult, level, 0)
}

// DiscountedCost is UpgradeCost with a fractional reduction applied before rounding.
func DiscountedCost(base, mult float64, level int, reduction float64) float64 {
	if level < 0 {
		level = 0
	}
	raw := base * math.Pow(mult, float64(level)) * (1 - reduction)
	return math.Ceil(raw - costEpsilon)
}

// PrestigeCost returns floor(base * scaling^level).
func PrestigeCost(base, scaling float64, level int) int64 {
	if level < 0 {
		level = 0
	}
	return int64(math.Floor(base*math.Pow(scaling, float64(level)) + costEpsilon))
}

// GeometricSum returns the closed-form price of k consecutive levels
// starting at level: base*mult^level*(mult^k - 1)/(mult - 1).
// mult must be greater than 1.
func GeometricSum(base, mult float64, level, k int) float64 {
	if k <= 0 {
		return 0
	}
	return base * math.Pow(mult, float64(level)) * (math.Pow(mult, float64(k)) - 1) / (mult - 1)
}

// MaxAffordable returns the largest k such that k further levels fit into
// amount. The search runs over integers; mult <= 1 falls back to walking
// the curve level by level.
func MaxAffordable(base, mult float64, level int, amount float64) int {
	if base <= 0 || !(amount > 0) {
		return 0
	}
	if level < 0 {
		level = 0
	}

	if mult <= 1 {
		count := 0
		remaining := amount
		for count < maxLinearLevels {
			cost := UpgradeCost(base, mult, level+count)
			if cost <= 0 || cost > remaining {
				break
			}
			remaining -= cost
			count++
		}
		return count
	}

	fits := func(k int) bool {
		return GeometricSum(base, mult, level, k) <= amount
	}

	if !fits(1) {
		return 0
	}

	hi := 1
	for hi < maxBulkLevels && fits(hi) {
		hi *= 2
	}
	if fits(hi) {
		return hi
	}

	// fits(lo) holds and fits(hi) does not.
	lo := hi / 2
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// PrestigeEffectValue returns the accumulated effect of a prestige upgrade
// at the given level.
func PrestigeEffectValue(def PrestigeUpgradeDef, level int) float64 {
	if level <= 0 {
		return 0
	}
	if def.Scaling == ScalingMultiplicative {
		return math.Pow(1+def.BaseEffect, float64(level)) - 1
	}
	return def.BaseEffect * float64(level)
}
