package analysis

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/stochastic"
	"github.com/pthm-cable/habitat/telemetry"
)

func TestFitWeibullRecoversParameters(t *testing.T) {
	v := stochastic.New(5)
	xs := make([]float64, 5000)
	for i := range xs {
		xs[i] = v.Weibull(1.5, 10)
	}

	w, err := FitWeibull(xs)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(w.K-1.5) > 0.1 {
		t.Errorf("shape = %v, want ~1.5", w.K)
	}
	if math.Abs(w.Lambda-10) > 0.5 {
		t.Errorf("scale = %v, want ~10", w.Lambda)
	}
}

func TestFitWeibullTooFew(t *testing.T) {
	_, err := FitWeibull([]float64{0, -1, 3})
	if !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("err = %v, want ErrTooFewSamples", err)
	}
}

func TestFitLogNormalAndNormal(t *testing.T) {
	v := stochastic.New(8)
	sizes := make([]float64, 4000)
	speeds := make([]float64, 4000)
	for i := range sizes {
		sizes[i] = math.Exp(v.Normal(3, 0.25))
		speeds[i] = v.Normal(2, 0.5)
	}

	ln, err := FitLogNormal(sizes)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ln.Mu-3) > 0.02 || math.Abs(ln.Sigma-0.25) > 0.02 {
		t.Errorf("lognormal = (%v, %v), want ~(3, 0.25)", ln.Mu, ln.Sigma)
	}

	n := FitNormal(speeds)
	if math.Abs(n.Mu-2) > 0.05 || math.Abs(n.Sigma-0.5) > 0.05 {
		t.Errorf("normal = (%v, %v), want ~(2, 0.5)", n.Mu, n.Sigma)
	}
}

func TestKSDistance(t *testing.T) {
	uniform := func(x float64) float64 { return math.Max(0, math.Min(1, x)) }

	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single midpoint", []float64{0.5}, 0.5},
		{"evenly spaced", []float64{0.125, 0.375, 0.625, 0.875}, 0.125},
		{"all at zero", []float64{0, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KSDistance(tt.xs, uniform); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("KSDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckSurvival(t *testing.T) {
	v := stochastic.New(2)
	xs := make([]float64, 2000)
	for i := range xs {
		xs[i] = v.Weibull(1.5, 10)
	}

	matching, err := CheckSurvival(xs, 1.5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if matching.ConfiguredKS > 0.05 {
		t.Errorf("KS against generating distribution = %v", matching.ConfiguredKS)
	}

	off, err := CheckSurvival(xs, 3, 30)
	if err != nil {
		t.Fatal(err)
	}
	if off.ConfiguredKS <= off.FittedKS {
		t.Errorf("wrong parameters fit better: %v <= %v", off.ConfiguredKS, off.FittedKS)
	}
}

func sampleRecords() []telemetry.CreatureRecord {
	v := stochastic.New(4)
	var recs []telemetry.CreatureRecord
	for i := 0; i < 200; i++ {
		recs = append(recs, telemetry.CreatureRecord{
			ID:            telemetry.RecordID(i%3, components.ID(i+1)),
			Family:        "red",
			Size:          v.IntRange(10, 35),
			Speed:         v.Uniform(1, 4),
			TimeAlive:     v.Weibull(2, 8),
			Reproductions: v.IntN(3),
			IsCarnivore:   i%4 == 0,
			Personality:   components.Personality(i % 2),
		})
	}
	return recs
}

func TestFitRecords(t *testing.T) {
	f, err := FitRecords(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	if f.Samples != 200 {
		t.Errorf("samples = %d", f.Samples)
	}
	if math.Abs(f.CarnivoreProb-0.25) > 1e-12 {
		t.Errorf("carnivore prob = %v, want 0.25", f.CarnivoreProb)
	}
	if f.Personality[components.Egoista] != 0.5 || f.Personality[components.Neutral] != 0 {
		t.Errorf("personality shares = %v", f.Personality)
	}
	if math.Abs(f.MeanReproductions-1) > 0.2 {
		t.Errorf("mean reproductions = %v, want ~1", f.MeanReproductions)
	}

	if _, err := FitRecords(nil); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("FitRecords(nil) err = %v", err)
	}
}

func TestLoadRecordsAndRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), telemetry.CreaturesFile)
	recs := sampleRecords()
	if err := telemetry.AppendCreatures(path, recs); err != nil {
		t.Fatal(err)
	}

	got, err := LoadRecords(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(recs) {
		t.Fatalf("loaded %d records, want %d", len(got), len(recs))
	}
	if got[7] != recs[7] {
		t.Errorf("record 7 = %+v, want %+v", got[7], recs[7])
	}

	runs, err := Runs(got)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || len(runs[0]) != 67 {
		t.Errorf("runs = %d, run 0 has %d records", len(runs), len(runs[0]))
	}

	if _, err := LoadRecords(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestRunOf(t *testing.T) {
	tests := []struct {
		id      string
		want    int
		wantErr bool
	}{
		{"3_17", 3, false},
		{"0_1", 0, false},
		{"17", 0, true},
		{"x_1", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := RunOf(tt.id)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("RunOf(%q) = %d, %v", tt.id, got, err)
			}
		})
	}
}

func TestHeatmap(t *testing.T) {
	histories := [][]components.Position{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
		{{X: 0, Y: 0}, {X: -1, Y: 0}, {X: -1, Y: -2}},
	}
	hm := NewHeatmap(histories)

	if hm.MinX != -1 || hm.MinY != -2 || hm.Width != 3 || hm.Height != 4 {
		t.Fatalf("bounds = %+v", hm)
	}
	if hm.At(0, 0) != 2 {
		t.Errorf("origin count = %v, want 2", hm.At(0, 0))
	}
	if hm.At(-1, -2) != 1 || hm.At(1, 1) != 1 {
		t.Errorf("corner counts wrong")
	}
	if hm.At(5, 5) != 0 || hm.At(0, -1) != 0 {
		t.Errorf("empty cells should be 0")
	}
	if hm.Total() != 6 || hm.Max() != 2 {
		t.Errorf("total=%v max=%v, want 6 and 2", hm.Total(), hm.Max())
	}
	if len(hm.Cells()) != 5 {
		t.Errorf("cells = %d, want 5", len(hm.Cells()))
	}

	var csv bytes.Buffer
	if err := hm.WriteCSV(&csv); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(csv.String(), "x,y,count\n") {
		t.Errorf("csv header = %q", strings.SplitN(csv.String(), "\n", 2)[0])
	}

	var text bytes.Buffer
	if err := hm.Render(&text); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(text.String(), "\n"); lines != 4 {
		t.Errorf("rendered %d rows, want 4", lines)
	}
}

func TestHeatmapEmpty(t *testing.T) {
	hm := NewHeatmap(nil)
	if hm.Total() != 0 || hm.Width != 0 {
		t.Errorf("empty heatmap = %+v", hm)
	}
}

func testFit() Fit {
	return Fit{
		Size:              distuv.LogNormal{Mu: math.Log(20), Sigma: 0.2},
		Speed:             distuv.Normal{Mu: 2, Sigma: 0.5},
		TimeAlive:         distuv.Weibull{K: 1.5, Lambda: 10},
		MeanReproductions: 1,
		CarnivoreProb:     0.3,
		Personality:       [3]float64{0.2, 0.3, 0.5},
	}
}

func TestLineageBounds(t *testing.T) {
	v := stochastic.New(12)
	f := testFit()
	for i := 0; i < 500; i++ {
		line := Lineage(f, v, 15)
		if len(line) < 1 || len(line) > 15 {
			t.Fatalf("lineage length %d", len(line))
		}
		for g, a := range line {
			if a.Generation != g+1 {
				t.Errorf("generation %d at index %d", a.Generation, g)
			}
			if a.Size < minSize || (g > 0 && a.Size > maxSize) {
				t.Errorf("size %v out of bounds", a.Size)
			}
			if a.Speed < minSpeed {
				t.Errorf("speed %v below floor", a.Speed)
			}
			if a.Lifespan <= 0 {
				t.Errorf("lifespan %v", a.Lifespan)
			}
		}
	}
}

func TestLineageStopsWhenReproductionImpossible(t *testing.T) {
	// Size 100 and speed 0.1 give 0.3 + 0.005 - 1 < 0
	f := testFit()
	f.Size = distuv.LogNormal{Mu: math.Log(100), Sigma: 0}
	f.Speed = distuv.Normal{Mu: 0.1, Sigma: 0}
	line := Lineage(f, stochastic.New(1), 15)
	if len(line) != 1 {
		t.Errorf("lineage length = %d, want 1", len(line))
	}
}

func TestMonteCarloSummary(t *testing.T) {
	results := MonteCarlo(testFit(), stochastic.New(21), 1000, 15)
	if len(results) != 1000 {
		t.Fatalf("results = %d", len(results))
	}
	s := Summarize(results)
	if s.Lineages != 1000 || s.MaxGenerations > 15 || s.MeanGenerations < 1 {
		t.Errorf("summary = %+v", s)
	}
	var share float64
	for _, p := range s.PersonalityShare {
		share += p
	}
	if math.Abs(share-1) > 1e-9 {
		t.Errorf("personality shares sum to %v", share)
	}
	if s.CarnivoreShare < 0.2 || s.CarnivoreShare > 0.45 {
		t.Errorf("carnivore share = %v", s.CarnivoreShare)
	}

	// Same seed, same projection
	again := MonteCarlo(testFit(), stochastic.New(21), 1000, 15)
	for i := range results {
		if results[i] != again[i] {
			t.Fatalf("lineage %d differs", i)
		}
	}
}
