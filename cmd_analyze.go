package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/habitat/analysis"
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/store"
	"github.com/pthm-cable/habitat/telemetry"
)

// recordSource selects creature records from a CSV log or the run database.
type recordSource struct {
	input  string
	dbPath string
	run    int
}

func (s *recordSource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.input, "input", telemetry.CreaturesFile, "Creature log CSV")
	cmd.Flags().StringVar(&s.dbPath, "db", "", "Read creatures from this SQLite database instead of --input")
	cmd.Flags().IntVar(&s.run, "run", -1, "Only use this run (-1 = all runs from CSV, latest run from --db)")
}

func (s *recordSource) load() ([]telemetry.CreatureRecord, error) {
	if s.dbPath != "" {
		db, err := store.Open(s.dbPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		run := s.run
		if run < 0 {
			runs, err := db.Runs(1)
			if err != nil {
				return nil, fmt.Errorf("listing runs: %w", err)
			}
			if len(runs) == 0 {
				return nil, fmt.Errorf("no runs in %s", s.dbPath)
			}
			run = runs[0].ID
		}
		return db.LoadCreatures(run)
	}

	recs, err := analysis.LoadRecords(s.input)
	if err != nil {
		return nil, err
	}
	if s.run < 0 {
		return recs, nil
	}
	runs, err := analysis.Runs(recs)
	if err != nil {
		return nil, err
	}
	return runs[s.run], nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		src        recordSource
		snapshot   string
		heatmapCSV string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fit trait and survival distributions to a creature log",
		Long: `Fit a lognormal to sizes, a normal to speeds and a Weibull to lifetimes,
then compare the lifetimes with the configured survival curve.

With --snapshot the walk histories of that run are binned into a heatmap.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(cmd, cmd.ErrOrStderr()); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			recs, err := src.load()
			if err != nil {
				return err
			}
			fit, err := analysis.FitRecords(recs)
			if err != nil {
				return err
			}
			slog.Info("fitted creature log", "fit", fit)

			check, err := analysis.CheckSurvival(analysis.Lifetimes(recs), cfg.Survival.WeibullShape, cfg.Survival.WeibullScale)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printFit(out, fit, check)

			if snapshot == "" {
				return nil
			}
			snap, err := telemetry.LoadSnapshot(snapshot)
			if err != nil {
				return err
			}
			hm := analysis.NewHeatmap(snap.Histories())
			fmt.Fprintf(out, "\nwalk displacement, run %d (%s positions)\n", snap.Run, humanize.Comma(int64(hm.Total())))
			if err := hm.Render(out); err != nil {
				return err
			}
			if heatmapCSV == "" {
				return nil
			}
			f, err := os.Create(heatmapCSV)
			if err != nil {
				return fmt.Errorf("creating heatmap csv: %w", err)
			}
			defer f.Close()
			return hm.WriteCSV(f)
		},
	}
	src.addFlags(cmd)
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Snapshot JSON whose walk histories feed the heatmap")
	cmd.Flags().StringVar(&heatmapCSV, "heatmap-csv", "", "Write the heatmap cells to this CSV")
	return cmd
}

func printFit(w io.Writer, f analysis.Fit, c analysis.SurvivalCheck) {
	fmt.Fprintf(w, "%s creatures\n", humanize.Comma(int64(f.Samples)))
	fmt.Fprintf(w, "  size        lognormal mu=%.3f sigma=%.3f\n", f.Size.Mu, f.Size.Sigma)
	fmt.Fprintf(w, "  speed       normal    mu=%.3f sigma=%.3f\n", f.Speed.Mu, f.Speed.Sigma)
	fmt.Fprintf(w, "  time alive  weibull   shape=%.3f scale=%.3f\n", f.TimeAlive.K, f.TimeAlive.Lambda)
	fmt.Fprintf(w, "  litters     mean %.2f\n", f.MeanReproductions)
	fmt.Fprintf(w, "  carnivores  %.1f%%\n", 100*f.CarnivoreProb)
	for p := range components.NumPersonalities {
		fmt.Fprintf(w, "  %-12s%.1f%%\n", components.Personality(p), 100*f.Personality[p])
	}
	fmt.Fprintf(w, "survival KS distance: fitted %.4f, configured (shape=%.2f scale=%.2f) %.4f\n",
		c.FittedKS, c.Configured.K, c.Configured.Lambda, c.ConfiguredKS)
}
