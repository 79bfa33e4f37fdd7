// Package main searches simulation parameters with CMA-ES for runs in which
// herbivores and carnivores coexist for as long as possible.
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/habitat/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

type optimizeFlags struct {
	configPath string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f optimizeFlags
	cmd := &cobra.Command{
		Use:          "optimize",
		Short:        "Tune food, lifecycle and founder parameters with CMA-ES",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	cmd.Flags().IntVar(&f.maxTicks, "max-ticks", 20000, "Maximum simulation duration in ticks (cap)")
	cmd.Flags().IntVar(&f.seeds, "seeds", 3, "Number of seeds per evaluation")
	cmd.Flags().IntVar(&f.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	cmd.Flags().IntVar(&f.population, "population", 0, "CMA-ES population size (0 = auto)")
	cmd.Flags().StringVar(&f.outputDir, "output", "", "Output directory for results")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runOptimize(cmd *cobra.Command, f optimizeFlags) error {
	out := cmd.OutOrStdout()
	slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := os.MkdirAll(f.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	baseCfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	params := NewParamVector()

	evalSeeds := make([]uint64, f.seeds)
	for i := range evalSeeds {
		evalSeeds[i] = uint64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, f.maxTicks, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: f.maxEvals,
		Concurrent:      0, // Sequential evaluation; seeds already run in parallel
	}

	popSize := f.population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(f.outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := logWriter.Write(header); err != nil {
		return fmt.Errorf("writing log header: %w", err)
	}

	evalCount := 0
	bestFitness := 0.0
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		// Clamped values are the ones actually simulated
		clamped := params.Clamp(params.Denormalize(x))
		if bestParams == nil || fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		quality := evaluator.LastQuality()
		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", fitness), fmt.Sprintf("%.4f", quality)}
		for _, v := range clamped {
			row = append(row, fmt.Sprintf("%.6f", v))
		}
		logWriter.Write(row)
		logWriter.Flush()

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(f.maxEvals-evalCount) * avgPerEval

		// Fitness = -(survivalTicks × (1 + 0.2×quality))
		survivalTicks := -fitness / (1.0 + 0.2*quality)
		fmt.Fprintf(out, "Eval %d/%d: survived=%s ticks quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
			evalCount, f.maxEvals, humanize.Comma(int64(survivalTicks)), quality, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Fprintf(out, "Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, f.maxEvals)
	fmt.Fprintf(out, "Seeds per evaluation: %d, ticks per run: %s\n", f.seeds, humanize.Comma(int64(f.maxTicks)))

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluations completed")
	}

	fmt.Fprintf(out, "\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Fprintf(out, "Best fitness: %.0f\n", bestFitness)

	fmt.Fprintln(out, "\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Fprintf(out, "  %s (%s): %.6f\n", spec.Name, spec.Path, bestParams[i])
	}

	bestCfg := params.ApplyToConfig(baseCfg, bestParams)
	configOutPath := filepath.Join(f.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return fmt.Errorf("failed to write best config: %w", err)
	}
	fmt.Fprintf(out, "\nBest config saved to: %s\n", configOutPath)

	if lb := evaluator.BestLeaderboard(); lb != nil {
		lbPath := filepath.Join(f.outputDir, "best_leaderboard.json")
		data, err := json.MarshalIndent(lb, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal leaderboard: %w", err)
		}
		if err := os.WriteFile(lbPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write leaderboard: %w", err)
		}
		fmt.Fprintf(out, "Leaderboard saved to: %s\n", lbPath)
	}
	return nil
}
