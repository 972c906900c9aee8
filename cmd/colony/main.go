// colony is an idle space-colony economy you play in the terminal.
//
// Usage:
//
//	colony list                  - List available catalogs
//	colony play                  - Play a colony in the terminal
//	colony serve                 - Start SSH server, one colony per user
//	colony saves                 - List save slots
//	colony export <slot>         - Print a save as a portable code
//	colony import <slot> [code]  - Load a save from a code
//	colony history [slot]        - Browse prestige resets
//	colony catalog [name]        - Show a catalog's upgrades and costs
//	colony simulate              - Price an offline window for a slot
//
// Global flags:
//
//	--config <path>   - Tuning YAML (default: search ~/.colony/configs, ./configs)
//	--db <path>       - Save database (default: ~/.colony/colony.db)
//	--catalog <name>  - Catalog name or YAML path (default: colony)
//	--pace <name>     - Economy pace: relaxed, normal, hardcore
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/space-colonies/internal/catalog"
	"github.com/vovakirdan/space-colonies/internal/config"
	"github.com/vovakirdan/space-colonies/internal/economy"
	"github.com/vovakirdan/space-colonies/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagDBPath  string
	flagCatalog string
	flagPace    string
	flagVerbose bool
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "colony",
	Short: "Space Colonies - an idle colony economy in your terminal",
	Long: `Space Colonies is an incremental game: gather resources, build
generators, research upgrades and reset for prestige points that make
every following run faster. Colonies keep producing while you are away.

Available commands:
  list      - Show all available catalogs
  play      - Play a colony
  serve     - Start SSH server for remote play
  saves     - List or delete save slots
  export    - Print a save as a portable code
  import    - Load a save from a code
  history   - Browse prestige resets
  catalog   - Show upgrades and costs of a catalog
  simulate  - Price an offline window without playing

Examples:
  colony play
  colony play --slot second --catalog classic
  colony serve --ssh :2222
  colony export default > colony.save`,
	SilenceUsage:     true,
	PersistentPreRun: loadUserCatalogs,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.colony/colony.db", "Path to save database")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", catalog.DefaultName, "Catalog name or path to a catalog YAML")
	rootCmd.PersistentFlags().StringVar(&flagPace, "pace", "", "Economy pace: relaxed, normal, hardcore")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug events")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(simulateCmd)
}

// loadUserCatalogs registers catalogs from ~/.colony/catalogs.
func loadUserCatalogs(_ *cobra.Command, _ []string) {
	dir := config.HomeDir()
	if dir == "" {
		return
	}
	_, warnings, err := catalog.LoadDir(filepath.Join(dir, "catalogs"))
	if err != nil {
		infoColor.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	for _, w := range warnings {
		infoColor.Fprintf(os.Stderr, "Warning: %v\n", w)
	}
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	errorColor.Fprintf(os.Stderr, "Error: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// loadTuning loads the tuning file and applies the pace preset.
func loadTuning() config.Tuning {
	pace, err := config.ParsePace(flagPace)
	if err != nil {
		fail("%v", err)
	}
	tuning, err := config.LoadTuning(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	config.ApplyPace(&tuning, pace)
	return tuning
}

// loadCatalog resolves the --catalog flag.
func loadCatalog() economy.Catalog {
	cat, err := catalog.Resolve(flagCatalog)
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'colony list' to see available catalogs.")
		os.Exit(1)
	}
	return cat
}

// openStore opens the save database or exits.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening save database: %v", err)
	}
	return store
}
