package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var flagYes bool

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List save slots",
	Long: `Display every save slot in the database, most recently played first.

Examples:
  colony saves
  colony saves delete second`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a save slot and its prestige history",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

func init() {
	savesDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	savesCmd.AddCommand(savesDeleteCmd)
}

func runSaves(_ *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	saves, err := store.ListSaves()
	if err != nil {
		fail("%v", err)
	}

	if len(saves) == 0 {
		fmt.Println("No saves yet.")
		fmt.Println()
		fmt.Println("Run 'colony play' to found your first colony!")
		return
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Slot", "Catalog", "Prestige", "Size", "Updated"}),
	)
	for _, s := range saves {
		_ = table.Append([]string{
			s.Slot,
			s.Catalog,
			strconv.FormatInt(s.PrestigePoints, 10),
			fmt.Sprintf("%d B", s.Size),
			s.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	_ = table.Render()
}

func runSavesDelete(_ *cobra.Command, args []string) {
	slot := args[0]

	if !flagYes {
		infoColor.Printf("Delete slot %q and its prestige history? [y/N] ", slot)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	store := openStore()
	defer store.Close()

	found, err := store.DeleteSave(slot)
	if err != nil {
		fail("%v", err)
	}
	if !found {
		fail("no save in slot %q", slot)
	}
	successColor.Printf("Deleted slot %q.\n", slot)
}
