package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/space-colonies/internal/platform/tui"
)

var (
	flagPlain bool
	flagLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [slot]",
	Short: "Browse prestige resets",
	Long: `Show the prestige resets of a slot. In a terminal this opens an
interactive board covering every slot; with --plain, or when the output is
not a terminal, it prints a table for one slot.

Examples:
  colony history
  colony history default --plain
  colony history ssh:alice --limit 50`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a table instead of the interactive board")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of resets to print")
}

func runHistory(_ *cobra.Command, args []string) {
	slot := "default"
	if len(args) == 1 {
		slot = args[0]
	}

	store := openStore()
	defer store.Close()

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		width, height := 80, 24
		if w, h, err := term.GetSize(fd); err == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, slot, width, height); err != nil {
			fail("%v", err)
		}
		return
	}

	runs, err := store.PrestigeHistory(slot, flagLimit)
	if err != nil {
		fail("%v", err)
	}

	titleColor.Printf("Prestige history - %s\n", slot)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No prestige resets recorded yet.")
		return
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Gained", "Total", "Lifetime", "Date"}),
	)
	for i, r := range runs {
		_ = table.Append([]string{
			strconv.Itoa(len(runs) - i),
			fmt.Sprintf("+%d", r.Gained),
			strconv.FormatInt(r.Points, 10),
			fmt.Sprintf("%.0f", r.LifetimeEarned),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	_ = table.Render()

	stats, err := store.GetPrestigeStats(slot)
	if err == nil && stats.Runs > 0 {
		fmt.Println()
		fmt.Printf("Resets: %d  Best gain: %d  Total gained: %d\n", stats.Runs, stats.BestGain, stats.TotalGained)
	}
}
