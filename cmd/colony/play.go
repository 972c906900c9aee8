package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/space-colonies/internal/catalog"
	"github.com/vovakirdan/space-colonies/internal/config"
	"github.com/vovakirdan/space-colonies/internal/platform/tui"
	"github.com/vovakirdan/space-colonies/internal/session"
	"github.com/vovakirdan/space-colonies/internal/storage"
)

var flagSlot string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a colony",
	Long: `Load a save slot and play it in the terminal. Time spent away since
the last save is credited as offline production when the colony starts,
and again whenever the terminal regains focus.

Controls:
  Space/C      - Gather the main resource
  Up/Down      - Select
  Enter/B      - Buy (x1, x10 or max)
  M            - Cycle buy mode
  Tab          - Upgrades / Research / Prestige
  P            - Prestige reset (press twice)
  Ctrl+S       - Save now
  ?            - All keys
  Q/Ctrl+C     - Save and quit

Examples:
  colony play
  colony play --slot second
  colony play --catalog classic --slot classic
  colony play --catalog ./my-colony.yaml --pace relaxed`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSlot, "slot", "default", "Save slot name")
}

func runPlay(cmd *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fail("play needs an interactive terminal")
	}

	tuning := loadTuning()
	cat := loadCatalog()

	logger, closeLog := playLogger()
	defer closeLog()

	opts := session.Options{
		Slot:    flagSlot,
		Catalog: cat,
		Tuning:  tuning,
		Logger:  logger,
	}

	// Open save storage; the colony still runs without it
	store, err := storage.Open(flagDBPath)
	if err != nil {
		infoColor.Fprintf(os.Stderr, "Warning: could not open save database: %v\n", err)
		infoColor.Fprintln(os.Stderr, "Progress will not be saved.")
	} else {
		defer store.Close()
		opts.Store = store
		opts.History = store

		// A slot keeps playing its own catalog unless one is asked for
		if !cmd.Flags().Changed("catalog") {
			if snap, found, _ := store.LoadSnapshot(flagSlot); found && snap.Catalog != "" && snap.Catalog != cat.Name {
				if saved, err := catalog.Get(snap.Catalog); err == nil {
					opts.Catalog = saved
				}
			}
		}
	}

	sess, err := session.New(opts)
	if err != nil {
		fail("%v", err)
	}
	if err := sess.Init(); err != nil {
		if errors.Is(err, session.ErrForeignSave) {
			fail("%v; drop --catalog or pick another --slot", err)
		}
		fail("%v", err)
	}

	if err := tui.Run(sess); err != nil {
		fail("running colony: %v", err)
	}

	info := sess.Engine().PrestigeInfo()
	successColor.Printf("Colony saved to slot %q.\n", flagSlot)
	fmt.Printf("Prestige points: %d  multiplier: x%.2f\n", info.Points, info.Multiplier)
}

// playLogger logs to ~/.colony/colony.log; the terminal belongs to the UI.
func playLogger() (*log.Logger, func()) {
	dir := config.HomeDir()
	if dir == "" {
		return log.New(io.Discard), func() {}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "colony.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "colony",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, func() { f.Close() }
}
