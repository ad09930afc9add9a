package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/plasma-sim/sim"
	"github.com/inference-sim/plasma-sim/sim/dataset"
	"github.com/inference-sim/plasma-sim/sim/store"
	"github.com/inference-sim/plasma-sim/sim/trace"
)

var (
	seedFlag    string // "hi,lo" or a single integer
	genCount    int    // number of consecutive seeds to draw
	genOut      string // JSON output path
	genSave     bool   // also persist to the store
	genTraceLvl string // trace level
)

// generateOptions is everything runGenerate needs besides the writer.
type generateOptions struct {
	Config *dataset.Config
	Seed   sim.Seed
	Count  int
	Store  *store.Store // nil: do not persist
	Trace  trace.TraceLevel
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draw synthetic datasets and write them as JSON",
	Long: "Draws --count datasets for seeds (hi, lo), (hi, lo+1), ... Each dataset is one JSON " +
		"document; several are written as consecutive documents. Use --save to also keep them in the store.",
	Run: func(cmd *cobra.Command, args []string) {
		seed, err := sim.ParseSeed(seedFlag)
		if err != nil {
			logrus.Fatalf("Invalid --seed: %v", err)
		}
		if !trace.IsValidTraceLevel(genTraceLvl) {
			logrus.Fatalf("Invalid --trace %q; valid: none, stages", genTraceLvl)
		}
		opts := generateOptions{
			Config: mustLoadConfig(),
			Seed:   seed,
			Count:  genCount,
			Trace:  trace.TraceLevel(genTraceLvl),
		}
		if genSave {
			s, err := store.Open(dbPath)
			if err != nil {
				logrus.Fatalf("Failed to open store: %v", err)
			}
			defer s.Close()
			opts.Store = s
		}

		err = writeOutput(genOut, func(w io.Writer) error { return runGenerate(cmd.Context(), w, opts) })
		if err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}
	},
}

// runGenerate draws opts.Count datasets, writes each to w and optionally saves it.
func runGenerate(ctx context.Context, w io.Writer, opts generateOptions) error {
	if opts.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", opts.Count)
	}
	sampler, err := dataset.NewSampler(*opts.Config)
	if err != nil {
		return err
	}
	logrus.Infof("Generating %d dataset(s) from seed %s", opts.Count, opts.Seed)

	for i := 0; i < opts.Count; i++ {
		seed := sim.NewSeed(opts.Seed.Hi, opts.Seed.Lo+uint64(i))
		gt := trace.NewGenerationTrace(trace.TraceConfig{Level: opts.Trace})
		d := sampler.GenerateTraced(seed, gt)

		if gt.Enabled() {
			logSummary(d.ID, trace.Summarize(gt))
		}
		if err := dataset.WriteJSON(w, d); err != nil {
			return err
		}
		if opts.Store != nil {
			if err := opts.Store.Save(ctx, d); err != nil {
				return err
			}
			logrus.Infof("Saved dataset %s (seed %s)", d.ID, seed)
		}
	}
	return nil
}

func logSummary(id string, s *trace.TraceSummary) {
	for _, family := range []string{trace.FamilyAmplitude, trace.FamilyTemperature, trace.FamilyVelocity, trace.FamilyShift} {
		st := s.Parameters[family]
		logrus.Infof("[%s] %-11s mean=%.4f sd=%.4f min=%.4f max=%.4f", id, family, st.Mean, st.StdDev, st.Min, st.Max)
	}
	for _, stage := range []string{trace.StageExpected, trace.StageMeasurements} {
		st := s.Images[stage]
		logrus.Infof("[%s] %-12s mean=%.4f min=%.4f max=%.4f", id, stage, st.Mean, st.Min, st.Max)
	}
	logrus.Infof("[%s] residual rms=%.4f snr=%.3f", id, s.ResidualRMS, s.SNR)
	if s.NonFinite > 0 {
		logrus.Warnf("[%s] %d non-finite values recorded", id, s.NonFinite)
	}
}

func init() {
	generateCmd.Flags().StringVar(&seedFlag, "seed", sim.DefaultSeed.String(), "Seed as \"hi,lo\" or a single integer")
	generateCmd.Flags().IntVar(&genCount, "count", 1, "Number of datasets to draw from consecutive seeds")
	generateCmd.Flags().StringVar(&genOut, "out", "-", "Output JSON path (- for stdout)")
	generateCmd.Flags().BoolVar(&genSave, "save", false, "Also save datasets to the store")
	generateCmd.Flags().StringVar(&genTraceLvl, "trace", string(trace.TraceLevelNone), "Trace level (none, stages); stages logs a per-dataset summary at info level")

	rootCmd.AddCommand(generateCmd)
}
