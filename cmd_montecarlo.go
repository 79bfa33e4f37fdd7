package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/habitat/analysis"
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/stochastic"
)

func newMonteCarloCmd() *cobra.Command {
	var (
		src         recordSource
		lineages    int
		generations int
		seed        uint64
		output      string
	)
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Project lineages from the distributions fitted to a creature log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(cmd, cmd.ErrOrStderr()); err != nil {
				return err
			}
			if lineages < 1 || generations < 1 {
				return fmt.Errorf("--n and --generations must be positive")
			}

			recs, err := src.load()
			if err != nil {
				return err
			}
			fit, err := analysis.FitRecords(recs)
			if err != nil {
				return err
			}

			seed = resolveSeed(seed)
			results := analysis.MonteCarlo(fit, stochastic.New(seed), lineages, generations)
			sum := analysis.Summarize(results)
			slog.Info("monte carlo finished", "seed", seed, "summary", sum)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s lineages of up to %d generations from %s creatures\n",
				humanize.Comma(int64(sum.Lineages)), generations, humanize.Comma(int64(fit.Samples)))
			fmt.Fprintf(out, "  generations  mean %.2f, max %d\n", sum.MeanGenerations, sum.MaxGenerations)
			fmt.Fprintf(out, "  lifespan     mean %.1fs, median %.1fs per lineage\n", sum.MeanTotalLifespan, sum.MedianLifespan)
			fmt.Fprintf(out, "  carnivores   %.1f%% of final descendants\n", 100*sum.CarnivoreShare)
			for p := range components.NumPersonalities {
				fmt.Fprintf(out, "  %-13s%.1f%%\n", components.Personality(p), 100*sum.PersonalityShare[p])
			}
			fmt.Fprintf(out, "  size/speed correlation %.3f\n", sum.SizeSpeedCorr)

			if output == "" {
				return nil
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			if err := gocsv.MarshalFile(&results, f); err != nil {
				return fmt.Errorf("writing lineages: %w", err)
			}
			return nil
		},
	}
	src.addFlags(cmd)
	cmd.Flags().IntVar(&lineages, "n", 1000, "Number of lineages")
	cmd.Flags().IntVar(&generations, "generations", 15, "Maximum generations per lineage")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "RNG seed (0 = time-based)")
	cmd.Flags().StringVar(&output, "output", "", "Write one CSV row per lineage")
	return cmd
}
