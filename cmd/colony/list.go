package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/space-colonies/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available catalogs",
	Long: `Shows every registered catalog: the builtin ones and those loaded
from ~/.colony/catalogs.`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	catalogs := catalog.List()

	if len(catalogs) == 0 {
		fmt.Println("No catalogs available.")
		return
	}

	titleColor.Println("Available catalogs:")
	fmt.Println()

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Name", "Title", "Resources", "Upgrades", "Prestige", "Source"}),
	)
	for _, c := range catalogs {
		_ = table.Append([]string{
			c.Name,
			c.Title,
			strconv.Itoa(c.Resources),
			strconv.Itoa(c.Upgrades),
			strconv.Itoa(c.Prestige),
			c.Source,
		})
	}
	_ = table.Render()

	fmt.Println()
	fmt.Println("Run 'colony play --catalog <name>' to play a catalog.")
}
