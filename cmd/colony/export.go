package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/space-colonies/internal/catalog"
	"github.com/vovakirdan/space-colonies/internal/savegame"
)

var flagForce bool

var exportCmd = &cobra.Command{
	Use:   "export <slot>",
	Short: "Print a save as a portable code",
	Long: `Print the save of a slot as a base64 code that 'colony import' accepts,
on this machine or another one.

Examples:
  colony export default
  colony export default > colony.save`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <slot> [code]",
	Short: "Load a save from a code",
	Long: `Store a code produced by 'colony export' into a slot. Without a code
argument the code is read from standard input.

Examples:
  colony import default AAAA...
  colony import second < colony.save
  colony import default --force < colony.save`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing slot")
}

func runExport(_ *cobra.Command, args []string) {
	slot := args[0]

	store := openStore()
	defer store.Close()

	snap, found, err := store.LoadSnapshot(slot)
	if err != nil {
		fail("%v", err)
	}
	if !found {
		fail("no save in slot %q", slot)
	}

	code, err := savegame.Encode(snap)
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(code)
}

func runImport(_ *cobra.Command, args []string) {
	slot := args[0]

	var code string
	if len(args) == 2 {
		code = args[1]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fail("reading code: %v", err)
		}
		code = string(data)
	}

	snap, err := savegame.Decode(code)
	if err != nil {
		fail("%v", err)
	}
	if snap.Catalog != "" && !catalog.Exists(snap.Catalog) {
		infoColor.Fprintf(os.Stderr, "Warning: save uses unknown catalog %q\n", snap.Catalog)
	}

	store := openStore()
	defer store.Close()

	_, exists, err := store.LoadSnapshot(slot)
	if err != nil && !flagForce {
		fail("%v", err)
	}
	if exists && !flagForce {
		fail("slot %q already has a save; use --force to overwrite", slot)
	}

	if err := store.SaveSnapshot(slot, snap); err != nil {
		fail("%v", err)
	}
	successColor.Printf("Imported %s save into slot %q (%d prestige points).\n",
		snap.Catalog, slot, snap.PrestigePoints)
}
