package economy

import (
	"math"
	"testing"
)

func TestUpgradeCostMonotonic(t *testing.T) {
	tests := []struct {
		name string
		base float64
		mult float64
	}{
		{"generator", 10, 1.15},
		{"factory", 100, 1.2},
		{"small base steep", 2, 1.5},
		{"minimum growth", 1, 2},
		{"big", 1e6, 1.07},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := UpgradeCost(tt.base, tt.mult, 0)
			for level := 1; level < 200; level++ {
				cost := UpgradeCost(tt.base, tt.mult, level)
				if cost <= prev {
					t.Fatalf("cost(%d)=%v not greater than cost(%d)=%v", level, cost, level-1, prev)
				}
				prev = cost
			}
		})
	}
}

func TestUpgradeCostRounding(t *testing.T) {
	tests := []struct {
		base  float64
		mult  float64
		level int
		want  float64
	}{
		{10, 1.15, 0, 10},
		{10, 1.15, 1, 12},  // 11.5
		{10, 1.15, 2, 14},  // 13.225
		{100, 1.1, 2, 121}, // 121.00000000000001
		{5, 1, 7, 5},
	}

	for _, tt := range tests {
		if got := UpgradeCost(tt.base, tt.mult, tt.level); got != tt.want {
			t.Errorf("UpgradeCost(%v, %v, %d) = %v, want %v", tt.base, tt.mult, tt.level, got, tt.want)
		}
	}
}

func TestDiscountedCost(t *testing.T) {
	if got := DiscountedCost(10, 1.15, 0, 0.1); got != 9 {
		t.Errorf("DiscountedCost = %v, want 9", got)
	}
	if got := DiscountedCost(10, 1.15, 0, 0.5); got != 5 {
		t.Errorf("DiscountedCost = %v, want 5", got)
	}
}

func TestPrestigeCost(t *testing.T) {
	tests := []struct {
		base    float64
		scaling float64
		level   int
		want    int64
	}{
		{1, 2, 0, 1},
		{1, 2, 3, 8},
		{2, 1.5, 1, 3},
		{2, 1.5, 2, 4}, // 4.5
		{5, 1, 10, 5},
	}

	for _, tt := range tests {
		if got := PrestigeCost(tt.base, tt.scaling, tt.level); got != tt.want {
			t.Errorf("PrestigeCost(%v, %v, %d) = %d, want %d", tt.base, tt.scaling, tt.level, got, tt.want)
		}
	}
}

// bruteForceAffordable walks the closed-form sum one level at a time.
func bruteForceAffordable(base, mult float64, level int, amount float64) int {
	k := 0
	for GeometricSum(base, mult, level, k+1) <= amount {
		k++
	}
	return k
}

func TestMaxAffordableMatchesBruteForce(t *testing.T) {
	if got := MaxAffordable(10, 1.15, 0, 100); got != 6 {
		t.Fatalf("MaxAffordable(10, 1.15, 0, 100) = %d, want 6", got)
	}

	tests := []struct {
		base   float64
		mult   float64
		level  int
		amount float64
	}{
		{10, 1.15, 0, 100},
		{10, 1.15, 0, 9.99},
		{10, 1.15, 0, 10},
		{10, 1.15, 5, 1000},
		{100, 1.2, 3, 123456},
		{1, 2, 0, 1 << 20},
		{50, 1.07, 10, 1e7},
	}

	for _, tt := range tests {
		want := bruteForceAffordable(tt.base, tt.mult, tt.level, tt.amount)
		got := MaxAffordable(tt.base, tt.mult, tt.level, tt.amount)
		if got != want {
			t.Errorf("MaxAffordable(%v, %v, %d, %v) = %d, brute force %d",
				tt.base, tt.mult, tt.level, tt.amount, got, want)
		}
	}
}

func TestMaxAffordableZero(t *testing.T) {
	if got := MaxAffordable(10, 1.15, 0, 0); got != 0 {
		t.Errorf("empty balance: got %d, want 0", got)
	}
	if got := MaxAffordable(10, 1.15, 0, math.NaN()); got != 0 {
		t.Errorf("NaN balance: got %d, want 0", got)
	}
	if got := MaxAffordable(0, 1.15, 0, 100); got != 0 {
		t.Errorf("zero base: got %d, want 0", got)
	}
}

func TestMaxAffordableFlatCurve(t *testing.T) {
	// mult == 1 cannot use the closed form.
	if got := MaxAffordable(10, 1, 0, 95); got != 9 {
		t.Errorf("flat curve: got %d, want 9", got)
	}
	if got := MaxAffordable(1, 1, 0, 1e9); got != maxLinearLevels {
		t.Errorf("flat curve cap: got %d, want %d", got, maxLinearLevels)
	}
}

func TestPrestigeEffectValue(t *testing.T) {
	linear := PrestigeUpgradeDef{BaseEffect: 0.1, Scaling: ScalingLinear}
	if got := PrestigeEffectValue(linear, 3); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("linear level 3 = %v, want 0.3", got)
	}

	compound := PrestigeUpgradeDef{BaseEffect: 0.1, Scaling: ScalingMultiplicative}
	if got := PrestigeEffectValue(compound, 2); math.Abs(got-0.21) > 1e-12 {
		t.Errorf("multiplicative level 2 = %v, want 0.21", got)
	}
	if got := PrestigeEffectValue(compound, 0); got != 0 {
		t.Errorf("level 0 = %v, want 0", got)
	}
}
