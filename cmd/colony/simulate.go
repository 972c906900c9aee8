package main

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/space-colonies/internal/catalog"
	"github.com/vovakirdan/space-colonies/internal/economy"
	"github.com/vovakirdan/space-colonies/internal/offline"
)

var (
	flagSimSlot    string
	flagSimSeconds float64
	flagSimApply   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Price an offline window for a slot",
	Long: `Load a slot and compute what it would earn while away for the given
number of seconds, using the same limits and prestige bonuses as a real
return. Nothing is written unless --apply is set.

--apply settles the time that really passed since the slot was last online,
exactly as resuming the game would, and saves the slot. It cannot be
combined with --seconds.

Examples:
  colony simulate --seconds 3600
  colony simulate --slot second --seconds 86400
  colony simulate --slot second --apply`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimSlot, "slot", "default", "Save slot name")
	simulateCmd.Flags().Float64Var(&flagSimSeconds, "seconds", 3600, "Seconds away")
	simulateCmd.Flags().BoolVar(&flagSimApply, "apply", false, "Credit the real time away and save the slot")
}

func runSimulate(cmd *cobra.Command, _ []string) {
	if flagSimApply && cmd.Flags().Changed("seconds") {
		fail("--seconds cannot be combined with --apply")
	}
	tuning := loadTuning()

	store := openStore()
	defer store.Close()

	snap, found, err := store.LoadSnapshot(flagSimSlot)
	if err != nil {
		fail("%v", err)
	}

	cat := loadCatalog()
	if found && snap.Catalog != "" && snap.Catalog != cat.Name {
		if cat, err = catalog.Get(snap.Catalog); err != nil {
			fail("%v", err)
		}
	}

	now := time.Now()
	engine, err := economy.New(cat, tuning.Rules(), now)
	if err != nil {
		fail("%v", err)
	}
	if found {
		engine.Restore(snap)
	} else {
		infoColor.Printf("Slot %q is empty; simulating a new %s colony.\n\n", flagSimSlot, cat.Name)
	}

	limits := offline.Resolve(tuning.OfflineLimits(), engine.Bonuses())
	res := offline.Compute(engine, offlineWindow(engine.LastOnline(), now, flagSimSeconds, flagSimApply), limits)

	titleColor.Printf("Offline window for %s (%s)\n", flagSimSlot, cat.Name)
	fmt.Printf("Away:       %s\n", offline.FormatDuration(res.Elapsed))
	if res.Skipped {
		fmt.Printf("Nothing credited: absences under %s are ignored.\n", offline.FormatDuration(limits.MinSeconds))
		return
	}
	fmt.Printf("Credited:   %s", offline.FormatDuration(res.EffectiveSeconds))
	if res.WasCapped {
		infoColor.Printf(" (capped at %s)", offline.FormatDuration(limits.MaxSeconds))
	}
	fmt.Println()
	fmt.Printf("Efficiency: %.0f%%  Prestige: x%.2f\n\n", res.Efficiency*100, engine.PrestigeMultiplier())

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Now", "RPS", "Earned"}),
	)
	for _, r := range engine.Resources() {
		earned, ok := res.Earnings[r.ID]
		if !ok {
			continue
		}
		_ = table.Append([]string{
			r.Name,
			fmt.Sprintf("%.1f", r.Amount),
			fmt.Sprintf("%.2f", r.RPS),
			fmt.Sprintf("+%.1f", earned),
		})
	}
	_ = table.Render()

	if !flagSimApply {
		return
	}
	res.Apply(engine, now)
	if err := store.SaveSnapshot(flagSimSlot, engine.Snapshot()); err != nil {
		fail("%v", err)
	}
	successColor.Printf("\nApplied %.1f total to slot %q.\n", res.Total(), flagSimSlot)
}

// offlineWindow returns the seconds to price. Applied windows are always the
// real absence, so no time is credited that did not pass.
func offlineWindow(lastOnline, now time.Time, seconds float64, apply bool) float64 {
	if !apply {
		return seconds
	}
	return now.Sub(lastOnline).Seconds()
}
