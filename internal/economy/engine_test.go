package economy

import (
	"errors"
	"math"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func classicCatalog() Catalog {
	return Catalog{
		Name:          "classic",
		ClickResource: "points",
		Resources: []ResourceDef{
			{ID: "points", Name: "Points", BaseRPC: 1, Unlocked: true},
		},
		Upgrades: []UpgradeDef{
			{
				ID: "generator", Name: "Generator",
				CostResource: "points", CostBase: 10, CostMultiplier: 1.15,
				Effects: []Effect{{Kind: EffectAddRPS, Target: "points", Value: 1}},
			},
		},
	}
}

func colonyCatalog() Catalog {
	return Catalog{
		Name:             "test-colony",
		ClickResource:    "credits",
		PrestigeResource: "credits",
		Resources: []ResourceDef{
			{ID: "credits", Name: "Credits", BaseRPC: 1, Unlocked: true},
			{ID: "ore", Name: "Ore"},
		},
		Upgrades: []UpgradeDef{
			{
				ID: "drone", CostResource: "credits", CostBase: 10, CostMultiplier: 1.15,
				Effects: []Effect{{Kind: EffectAddRPS, Target: "credits", Value: 1}},
			},
			{
				ID: "boost", CostResource: "credits", CostBase: 100, CostMultiplier: 2,
				Effects: []Effect{{Kind: EffectMultRPS, Value: 2}},
			},
			{
				ID: "gloves", CostResource: "credits", CostBase: 20, CostMultiplier: 1.5,
				Effects: []Effect{{Kind: EffectAddRPC, Target: "credits", Value: 1}},
			},
			{
				ID: "mine", CostResource: "credits", CostBase: 50, CostMultiplier: 1, SingleUse: true,
				UnlocksResource: "ore",
			},
			{
				ID: "haggling", CostResource: "credits", CostBase: 200, CostMultiplier: 1, SingleUse: true, Research: true,
				Requires: &Requirement{Upgrade: "mine"},
				Effects:  []Effect{{Kind: EffectCostReduction, Target: "credits", Value: 0.1}},
			},
			{
				ID: "survey", CostResource: "credits", CostBase: 30, CostMultiplier: 1, SingleUse: true, Research: true,
				Requires: &Requirement{Resource: "credits", Amount: 500},
				Effects:  []Effect{{Kind: EffectAddRPS, Target: "ore", Value: 2}},
			},
		},
		PrestigeUpgrades: []PrestigeUpgradeDef{
			{ID: "efficiency", MaxLevel: -1, BaseCost: 1, CostScaling: 2, BaseEffect: 0.1, Scaling: ScalingLinear, Effect: PrestigeGlobalProduction},
			{ID: "fingers", MaxLevel: 2, BaseCost: 1, CostScaling: 2, BaseEffect: 1, Scaling: ScalingLinear, Effect: PrestigeAutoClick},
			{ID: "insight", MaxLevel: 5, BaseCost: 1, CostScaling: 1, BaseEffect: 0.5, Scaling: ScalingLinear, Effect: PrestigeGain},
		},
	}
}

func newEngine(t *testing.T, cat Catalog) *Engine {
	t.Helper()
	e, err := New(cat, DefaultRules(), epoch)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e
}

func amountOf(t *testing.T, e *Engine, id string) float64 {
	t.Helper()
	r, ok := e.Resource(id)
	if !ok {
		t.Fatalf("resource %q not found", id)
	}
	return r.Amount
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClassicScenario(t *testing.T) {
	e := newEngine(t, classicCatalog())

	for range 10 {
		if !e.Click("points") {
			t.Fatal("Click() returned false on unlocked resource")
		}
	}
	if got := amountOf(t, e, "points"); got != 10 {
		t.Fatalf("after 10 clicks amount = %v, want 10", got)
	}

	if !e.BuyGenerator("generator") {
		t.Fatal("BuyGenerator() failed with exact funds")
	}
	if got := amountOf(t, e, "points"); got != 0 {
		t.Errorf("after buy amount = %v, want 0", got)
	}
	if got := e.Level("generator"); got != 1 {
		t.Errorf("generator level = %d, want 1", got)
	}

	e.Tick(5)
	if got := amountOf(t, e, "points"); !approx(got, 5) {
		t.Errorf("after 5s tick amount = %v, want 5", got)
	}
	if got := e.TotalClicks(); got != 10 {
		t.Errorf("TotalClicks() = %d, want 10", got)
	}
}

func TestClickLockedResource(t *testing.T) {
	e := newEngine(t, colonyCatalog())

	if e.Click("ore") {
		t.Error("Click() on locked resource returned true")
	}
	if e.Click("unknown") {
		t.Error("Click() on unknown resource returned true")
	}
	if got := amountOf(t, e, "ore"); got != 0 {
		t.Errorf("locked resource amount = %v, want 0", got)
	}
	if got := e.TotalClicks(); got != 0 {
		t.Errorf("TotalClicks() = %d after no-op clicks, want 0", got)
	}
}

func TestBuyUpgradeSpendAtomicity(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 9}, epoch)

	if got := e.BuyUpgrade("drone", 1); got != 0 {
		t.Fatalf("BuyUpgrade() bought %d with insufficient funds", got)
	}
	if got := amountOf(t, e, "credits"); got != 9 {
		t.Errorf("amount changed on failed buy: %v", got)
	}
	if got := e.Level("drone"); got != 0 {
		t.Errorf("level changed on failed buy: %d", got)
	}
}

func TestBuyUpgradeStopsEarly(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	// 10 + 12 + 14 = 36
	e.ApplyEarnings(map[string]float64{"credits": 40}, epoch)

	if got := e.BuyUpgrade("drone", 10); got != 3 {
		t.Fatalf("BuyUpgrade(10) bought %d, want 3", got)
	}
	if got := amountOf(t, e, "credits"); got != 4 {
		t.Errorf("remaining = %v, want 4", got)
	}
	r, _ := e.Resource("credits")
	if r.RPS != 3 {
		t.Errorf("rps after batch = %v, want 3", r.RPS)
	}
}

func TestBuyUpgradeModes(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 100}, epoch)

	if got := e.MaxAffordable("drone"); got != 6 {
		t.Fatalf("MaxAffordable() = %d, want 6", got)
	}
	bought := e.BuyUpgradeMode("drone", BuyMax)
	if bought < 1 || bought > 6 {
		t.Fatalf("BuyUpgradeMode(max) bought %d, want 1..6", bought)
	}
	if amountOf(t, e, "credits") < 0 {
		t.Fatal("amount went negative")
	}

	if got := e.BuyUpgradeMode("drone", BuyOne); got > 1 {
		t.Errorf("BuyUpgradeMode(x1) bought %d", got)
	}
}

func TestBuyModeNext(t *testing.T) {
	if BuyOne.Next() != BuyTen || BuyTen.Next() != BuyMax || BuyMax.Next() != BuyOne {
		t.Error("BuyMode.Next() does not cycle x1 -> x10 -> max -> x1")
	}
}

func TestSingleUseCap(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 1000}, epoch)

	if got := e.BuyUpgrade("mine", 5); got != 1 {
		t.Fatalf("single-use bought %d levels, want 1", got)
	}
	if got := e.BuyUpgrade("mine", 1); got != 0 {
		t.Errorf("second buy of single-use bought %d", got)
	}
	if got := e.MaxAffordable("mine"); got != 0 {
		t.Errorf("MaxAffordable() on maxed upgrade = %d", got)
	}
}

func TestUnlockGivesClickPower(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 50}, epoch)

	if !e.BuyGenerator("mine") {
		t.Fatal("BuyGenerator(mine) failed")
	}
	ore, _ := e.Resource("ore")
	if !ore.Unlocked {
		t.Fatal("ore not unlocked after mine")
	}
	if ore.RPC != 1 {
		t.Errorf("ore rpc = %v, want 1", ore.RPC)
	}
	if !e.Click("ore") {
		t.Error("Click(ore) failed after unlock")
	}
}

func TestResearchRequirements(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 400}, epoch)

	if got := e.BuyUpgrade("haggling", 1); got != 0 {
		t.Fatal("research bought without prerequisite upgrade")
	}
	if got := e.BuyUpgrade("survey", 1); got != 0 {
		t.Fatal("research bought below required amount")
	}

	e.BuyGenerator("mine")
	if !e.BuyGenerator("haggling") {
		t.Fatal("research not buyable after prerequisite")
	}
	// 10% off: ceil(10 * 0.9)
	if cost, _ := e.UpgradeCost("drone"); cost != 9 {
		t.Errorf("discounted drone cost = %v, want 9", cost)
	}
}

func TestCostReductionCapped(t *testing.T) {
	cat := colonyCatalog()
	cat.Upgrades[0].Effects = append(cat.Upgrades[0].Effects,
		Effect{Kind: EffectCostReduction, Target: "credits", Value: 0.3})
	e := newEngine(t, cat)
	e.ApplyEarnings(map[string]float64{"credits": 1000}, epoch)

	e.BuyUpgrade("drone", 3)
	if got := e.costReductionFor("credits"); got != DefaultRules().MaxCostReduction {
		t.Errorf("reduction = %v, want cap %v", got, DefaultRules().MaxCostReduction)
	}
}

func TestRecalculateIdempotent(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 5000}, epoch)
	e.BuyUpgrade("drone", 5)
	e.BuyUpgrade("boost", 2)
	e.BuyUpgrade("gloves", 3)
	e.BuyGenerator("mine")

	e.RecalculateRates()
	first := e.Resources()
	e.RecalculateRates()
	second := e.Resources()

	for i := range first {
		a, b := first[i], second[i]
		if a.RPS != b.RPS || a.RPC != b.RPC || a.Unlocked != b.Unlocked {
			t.Errorf("resource %s changed between passes: %+v vs %+v", a.ID, a, b)
		}
	}
}

func TestRateEffectsOrder(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 5000}, epoch)
	e.BuyUpgrade("drone", 2)
	e.BuyUpgrade("boost", 1)

	// (0 + 1*2) * 2^1, regardless of purchase order
	r, _ := e.Resource("credits")
	if r.RPS != 4 {
		t.Errorf("rps = %v, want 4", r.RPS)
	}
}

func TestTickIgnoresLockedAndNonPositive(t *testing.T) {
	cat := colonyCatalog()
	cat.Resources[1].BaseRPS = 5
	e := newEngine(t, cat)

	e.Tick(10)
	if got := amountOf(t, e, "ore"); got != 0 {
		t.Errorf("locked resource produced %v", got)
	}
	e.Tick(-1)
	e.Tick(math.NaN())
	if got := amountOf(t, e, "credits"); got != 0 {
		t.Errorf("credits = %v, want 0", got)
	}
}

func TestPrestigeBelowThreshold(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 9999}, epoch)

	if e.CanPrestige() {
		t.Fatal("CanPrestige() true below one point")
	}
	res := e.PerformPrestige()
	if res.OK || res.Gained != 0 || res.Points != 0 {
		t.Errorf("PerformPrestige() = %+v, want failure", res)
	}
	if got := amountOf(t, e, "credits"); got != 9999 {
		t.Errorf("failed prestige touched amounts: %v", got)
	}
}

func TestPrestigeResetsRun(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 40000}, epoch)
	e.BuyUpgrade("drone", 5)
	e.BuyGenerator("mine")

	res := e.PerformPrestige()
	if !res.OK || res.Gained != 2 || res.Points != 2 {
		t.Fatalf("PerformPrestige() = %+v, want OK gained 2", res)
	}

	for _, r := range e.Resources() {
		if r.Amount != 0 || r.TotalEarned != 0 {
			t.Errorf("resource %s not reset: %+v", r.ID, r)
		}
	}
	for _, u := range e.Upgrades() {
		if u.Level != 0 {
			t.Errorf("upgrade %s level = %d after prestige", u.ID, u.Level)
		}
	}
	ore, _ := e.Resource("ore")
	if ore.Unlocked {
		t.Error("ore still unlocked after prestige")
	}
	if got := e.PrestigeMultiplier(); !approx(got, 1.2) {
		t.Errorf("PrestigeMultiplier() = %v, want 1.2", got)
	}
	if e.PrestigeCount() != 1 {
		t.Errorf("PrestigeCount() = %d, want 1", e.PrestigeCount())
	}

	// Lifetime earnings survive, so the same total is pending again.
	if e.CanPrestige() {
		t.Error("CanPrestige() true right after a reset")
	}
	again := e.PerformPrestige()
	if again.OK || again.Points != 2 {
		t.Errorf("second PerformPrestige() = %+v", again)
	}
}

func TestPrestigeReplacesPoints(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 40000}, epoch)
	e.PerformPrestige()

	// lifetime 90000 -> sqrt(9) = 3 total, 1 gained
	e.ApplyEarnings(map[string]float64{"credits": 50000}, epoch)
	res := e.PerformPrestige()
	if !res.OK || res.Gained != 1 || res.Points != 3 {
		t.Errorf("PerformPrestige() = %+v, want gained 1 total 3", res)
	}
}

func TestPrestigeUpgrades(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 90000}, epoch)
	e.PerformPrestige() // 3 points

	if !e.BuyPrestigeUpgrade("efficiency") {
		t.Fatal("BuyPrestigeUpgrade(efficiency) failed")
	}
	if !e.BuyPrestigeUpgrade("efficiency") { // cost 2
		t.Fatal("second level failed")
	}
	if e.BuyPrestigeUpgrade("efficiency") { // cost 4, none left
		t.Fatal("bought without points")
	}

	info := e.PrestigeInfo()
	if info.Points != 3 || info.Spent != 3 || info.Available != 0 {
		t.Errorf("PrestigeInfo() = %+v", info)
	}
	// (1 + 3*0.1) * (1 + 0.2)
	if got := e.PrestigeMultiplier(); !approx(got, 1.56) {
		t.Errorf("PrestigeMultiplier() = %v, want 1.56", got)
	}
}

func TestPrestigeUpgradeMaxLevel(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.Restore(Snapshot{PrestigePoints: 100})

	for range 2 {
		if !e.BuyPrestigeUpgrade("fingers") {
			t.Fatal("BuyPrestigeUpgrade(fingers) failed below max")
		}
	}
	if e.BuyPrestigeUpgrade("fingers") {
		t.Error("bought past max level")
	}
	for _, p := range e.PrestigeUpgrades() {
		if p.ID == "fingers" && !p.Maxed {
			t.Error("fingers not reported as maxed")
		}
	}
}

func TestAutoClickTick(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.Restore(Snapshot{PrestigePoints: 1, SpentPrestigePoints: 0})
	if !e.BuyPrestigeUpgrade("fingers") {
		t.Fatal("BuyPrestigeUpgrade(fingers) failed")
	}

	e.Tick(10)
	// 1 auto click/s * rpc 1 * multiplier 1.1 * 10s
	if got := amountOf(t, e, "credits"); !approx(got, 11) {
		t.Errorf("credits = %v, want 11", got)
	}
}

func TestPrestigeGainBonus(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.Restore(Snapshot{PrestigePoints: 1})
	e.BuyPrestigeUpgrade("insight") // +50% gain

	e.ApplyEarnings(map[string]float64{"credits": 40000}, epoch)
	// floor(2 * 1.5)
	if got := e.PrestigeInfo().Pending; got != 3 {
		t.Errorf("Pending = %d, want 3", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.ApplyEarnings(map[string]float64{"credits": 500}, epoch.Add(time.Hour))
	e.BuyUpgrade("drone", 2)
	e.Click("credits")

	snap := e.Snapshot()

	other := newEngine(t, colonyCatalog())
	other.Restore(snap)

	if got, want := amountOf(t, other, "credits"), amountOf(t, e, "credits"); got != want {
		t.Errorf("restored amount = %v, want %v", got, want)
	}
	if other.Level("drone") != 2 {
		t.Errorf("restored drone level = %d, want 2", other.Level("drone"))
	}
	if other.TotalClicks() != 1 {
		t.Errorf("restored clicks = %d, want 1", other.TotalClicks())
	}
	if !other.LastOnline().Equal(epoch.Add(time.Hour)) {
		t.Errorf("restored LastOnline = %v", other.LastOnline())
	}
	r, _ := other.Resource("credits")
	if r.RPS != 2 {
		t.Errorf("rates not recalculated on restore: rps = %v", r.RPS)
	}
}

func TestRestoreTolerant(t *testing.T) {
	e := newEngine(t, colonyCatalog())
	e.Restore(Snapshot{
		Resources: map[string]ResourceState{
			"credits": {Amount: -5},
			"gold":    {Amount: 100},
		},
		Upgrades: []LevelEntry{
			{ID: "mine", Level: 7},
			{ID: "warp-drive", Level: 3},
			{ID: "drone", Level: -2},
		},
		PrestigeUpgrades:    []LevelEntry{{ID: "fingers", Level: 99}},
		PrestigePoints:      2,
		SpentPrestigePoints: 10,
	})

	if got := amountOf(t, e, "credits"); got != 0 {
		t.Errorf("negative amount not clamped: %v", got)
	}
	if e.Level("mine") != 1 {
		t.Errorf("single-use level = %d, want 1", e.Level("mine"))
	}
	if e.Level("drone") != 0 {
		t.Errorf("negative level = %d, want 0", e.Level("drone"))
	}
	info := e.PrestigeInfo()
	if info.Spent != 2 || info.Available != 0 {
		t.Errorf("spent not clamped to points: %+v", info)
	}
	for _, p := range e.PrestigeUpgrades() {
		if p.ID == "fingers" && p.Level != 2 {
			t.Errorf("prestige level = %d, want clamp 2", p.Level)
		}
	}
}

func TestApplyEarningsStampsLastOnline(t *testing.T) {
	e := newEngine(t, classicCatalog())
	at := epoch.Add(2 * time.Hour)
	e.ApplyEarnings(map[string]float64{"points": 3, "ghost": 7}, at)

	if !e.LastOnline().Equal(at) {
		t.Errorf("LastOnline() = %v, want %v", e.LastOnline(), at)
	}
	r, _ := e.Resource("points")
	if r.Amount != 3 || r.TotalEarned != 3 || r.LifetimeEarned != 3 {
		t.Errorf("credit counters = %+v", r)
	}
}

func TestNewRejectsInvalidCatalog(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Catalog)
	}{
		{"no resources", func(c *Catalog) { c.Resources = nil }},
		{"duplicate resource", func(c *Catalog) { c.Resources = append(c.Resources, c.Resources[0]) }},
		{"unknown cost resource", func(c *Catalog) { c.Upgrades[0].CostResource = "gold" }},
		{"flat ceil curve", func(c *Catalog) { c.Upgrades[0].CostBase = 1; c.Upgrades[0].CostMultiplier = 1.15 }},
		{"shrinking curve", func(c *Catalog) { c.Upgrades[0].CostMultiplier = 0.9 }},
		{"unknown effect", func(c *Catalog) { c.Upgrades[0].Effects[0].Kind = "teleport" }},
		{"unknown requirement", func(c *Catalog) { c.Upgrades[4].Requires.Upgrade = "nothing" }},
		{"prestige max zero", func(c *Catalog) { c.PrestigeUpgrades[0].MaxLevel = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := colonyCatalog()
			tt.mutate(&cat)
			_, err := New(cat, DefaultRules(), epoch)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("New() error = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}
