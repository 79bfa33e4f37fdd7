package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/game"
	"github.com/pthm-cable/habitat/store"
	"github.com/pthm-cable/habitat/termview"
)

// runFlags are the options shared by every run mode.
type runFlags struct {
	seed        uint64
	headless    bool
	tui         bool
	maxTicks    int
	outputDir   string
	dbPath      string
	saveCSV     bool
	logStats    bool
	statsWindow float64
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation",
		Long: `Run a simulation until the food and carnivores are gone, every creature
has died, --max-ticks is reached or the run is interrupted.

Without --headless or --tui a window opens with a setup form before each run
and the leaderboards after it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.headless && f.tui {
				return fmt.Errorf("--headless and --tui are mutually exclusive")
			}
			// The terminal view owns stdout; logs go to stderr there.
			logOut := io.Writer(cmd.OutOrStdout())
			if f.tui {
				logOut = cmd.ErrOrStderr()
			}
			if err := setupLogging(cmd, logOut); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			opts := game.Options{
				Seed:           resolveSeed(f.seed),
				LogStats:       f.logStats,
				StatsWindowSec: f.statsWindow,
				OutputDir:      f.outputDir,
				SaveCSV:        f.saveCSV,
				MaxTicks:       f.maxTicks,
			}

			if f.dbPath != "" {
				db, err := store.Open(f.dbPath)
				if err != nil {
					return err
				}
				defer db.Close()
				opts.Store = db
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			switch {
			case f.headless:
				return runHeadless(ctx, cmd, cfg, opts)
			case f.tui:
				return runTerminal(ctx, cfg, opts)
			default:
				return runGraphics(ctx, cfg, opts)
			}
		},
	}

	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "RNG seed (0 = time-based)")
	cmd.Flags().BoolVar(&f.headless, "headless", false, "Run without graphics")
	cmd.Flags().BoolVar(&f.tui, "tui", false, "Draw the grid in the terminal")
	cmd.Flags().IntVar(&f.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Directory for CSV logs, leaderboard and snapshots")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite database recording run history")
	cmd.Flags().BoolVar(&f.saveCSV, "save-csv", true, "Append creatures to the cumulative log")
	cmd.Flags().BoolVar(&f.logStats, "log-stats", false, "Output window stats via slog")
	cmd.Flags().Float64Var(&f.statsWindow, "stats-window", 0, "Stats window size in seconds (0 = use config)")
	return cmd
}

func runHeadless(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts game.Options) error {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		return err
	}
	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", opts.MaxTicks,
		"output_dir", opts.OutputDir,
	)
	sum, err := g.Run(ctx)
	if sum != nil {
		printSummary(cmd.ErrOrStderr(), sum)
	}
	return err
}

func runTerminal(ctx context.Context, cfg *config.Config, opts game.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		screen.Fini()
		return err
	}

	sum, err := termview.Run(ctx, g, screen, cfg.Screen.TargetFPS)
	screen.Fini()
	if sum != nil {
		printSummary(os.Stdout, sum)
	}
	return err
}

// printSummary writes a human readable account of a finished run.
func printSummary(w io.Writer, sum *game.Summary) {
	fmt.Fprintf(w, "%s run (#%d) ended: %s after %s ticks, %.1fs simulated\n",
		humanize.Ordinal(sum.Run+1), sum.Run, sum.Reason, humanize.Comma(int64(sum.Ticks)), sum.SimTime)
	fmt.Fprintf(w, "  %s creatures (%s dead, %d herbivores and %d carnivores alive)\n",
		humanize.Comma(int64(sum.Population)), humanize.Comma(int64(sum.Dead)), sum.Herbivores, sum.Carnivores)

	lb := sum.Leaderboard
	if lb == nil {
		return
	}
	if len(lb.TimeAlive) > 0 {
		top := lb.TimeAlive[0]
		fmt.Fprintf(w, "  longest lived: #%d %s %s, %.2fs\n", top.ID, top.Family, top.Personality, top.Score)
	}
	if len(lb.FoodEaten) > 0 {
		top := lb.FoodEaten[0]
		fmt.Fprintf(w, "  best fed: #%d %s, %s meals\n", top.ID, top.Family, humanize.Comma(int64(top.Score)))
	}
	if len(lb.Families) > 0 {
		top := lb.Families[0]
		fmt.Fprintf(w, "  largest family: %s with %d members\n", top.Family, top.Members)
	}
}
