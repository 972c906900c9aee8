package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/space-colonies/internal/catalog"
	"github.com/vovakirdan/space-colonies/internal/economy"
)

var flagLevels int

var catalogCmd = &cobra.Command{
	Use:   "catalog [name]",
	Short: "Show a catalog's resources, upgrades and costs",
	Long: `Print the resources, upgrades and prestige upgrades of a catalog, with
the cost of the first levels of every upgrade.

Examples:
  colony catalog
  colony catalog classic --levels 10
  colony catalog ./my-colony.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCatalog,
}

func init() {
	catalogCmd.Flags().IntVar(&flagLevels, "levels", 5, "Number of upgrade levels to price")
}

func runCatalog(_ *cobra.Command, args []string) {
	ref := flagCatalog
	if len(args) == 1 {
		ref = args[0]
	}
	cat, err := catalog.Resolve(ref)
	if err != nil {
		fail("%v", err)
	}

	title := cat.Title
	if title == "" {
		title = cat.Name
	}
	titleColor.Printf("%s (%s)\n\n", title, cat.Name)

	resources := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Name", "Start", "RPS", "RPC", "Unlocked"}),
	)
	for _, r := range cat.Resources {
		_ = resources.Append([]string{
			r.ID, strings.TrimSpace(r.Icon + " " + r.Name),
			fmt.Sprint(r.StartAmount), fmt.Sprint(r.BaseRPS), fmt.Sprint(r.BaseRPC),
			yesNo(r.Unlocked),
		})
	}
	_ = resources.Render()
	fmt.Println()

	header := []string{"Upgrade", "Kind", "Requires", "Effects"}
	for l := range max(flagLevels, 1) {
		header = append(header, fmt.Sprintf("Lv %d", l+1))
	}
	upgrades := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
	for _, u := range cat.Upgrades {
		row := []string{u.ID, upgradeKind(u), requirement(u.Requires), effects(u)}
		for l := range max(flagLevels, 1) {
			if limit := u.LevelCap(); limit > 0 && l >= limit {
				row = append(row, "-")
				continue
			}
			cost := economy.UpgradeCost(u.CostBase, u.CostMultiplier, l)
			row = append(row, fmt.Sprintf("%.0f %s", cost, u.CostResource))
		}
		_ = upgrades.Append(row)
	}
	_ = upgrades.Render()

	if len(cat.PrestigeUpgrades) == 0 {
		return
	}
	fmt.Println()

	prestige := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Prestige", "Effect", "Target", "Per level", "Scaling", "Max", "Costs"}),
	)
	for _, p := range cat.PrestigeUpgrades {
		maxLevel := "inf"
		if p.MaxLevel > 0 {
			maxLevel = fmt.Sprint(p.MaxLevel)
		}
		var costs []string
		for l := range 3 {
			if p.MaxLevel > 0 && l >= p.MaxLevel {
				break
			}
			costs = append(costs, fmt.Sprint(economy.PrestigeCost(p.BaseCost, p.CostScaling, l)))
		}
		_ = prestige.Append([]string{
			p.ID, string(p.Effect), p.Target,
			fmt.Sprintf("%g", p.BaseEffect), string(p.Scaling), maxLevel,
			strings.Join(costs, ", ") + ", ...",
		})
	}
	_ = prestige.Render()
}

func upgradeKind(u economy.UpgradeDef) string {
	kind := "generator"
	if u.Research {
		kind = "research"
	}
	if u.SingleUse {
		kind += " (once)"
	}
	return kind
}

func requirement(r *economy.Requirement) string {
	if r == nil {
		return ""
	}
	var parts []string
	if r.Upgrade != "" {
		parts = append(parts, r.Upgrade)
	}
	if r.Resource != "" {
		parts = append(parts, fmt.Sprintf("%g %s", r.Amount, r.Resource))
	}
	return strings.Join(parts, " + ")
}

func effects(u economy.UpgradeDef) string {
	var parts []string
	if u.UnlocksResource != "" {
		parts = append(parts, "unlock "+u.UnlocksResource)
	}
	for _, e := range u.Effects {
		target := e.Target
		if target == "" {
			target = "all"
		}
		switch e.Kind {
		case economy.EffectUnlock:
			parts = append(parts, "unlock "+target)
		default:
			parts = append(parts, fmt.Sprintf("%s %s %g", e.Kind, target, e.Value))
		}
	}
	return strings.Join(parts, "; ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
